package generator

import (
	"context"
	"errors"

	"github.com/roach88/wfcgen/internal/grid"
	"github.com/roach88/wfcgen/internal/rules"
)

// ErrObserverClosed is returned by Observer.Next once the observer is closed
// and its queue drained.
var ErrObserverClosed = errors.New("observer closed")

// Observer receives every update published by a generator after it was
// created, in emission order.
//
// Thread-safety: an Observer may be read from any goroutine, independently of
// the goroutine driving the generator.
type Observer struct {
	queue *updateQueue
}

// TryNext returns the next update without blocking.
func (o *Observer) TryNext() (GenerationUpdate, bool) {
	return o.queue.TryDequeue()
}

// DrainAll returns every queued update.
func (o *Observer) DrainAll() []GenerationUpdate {
	return o.queue.DequeueAll()
}

// Next blocks until an update is available, the context is cancelled, or the
// observer is closed and drained.
func (o *Observer) Next(ctx context.Context) (GenerationUpdate, error) {
	for {
		if u, ok := o.queue.TryDequeue(); ok {
			return u, nil
		}
		if o.queue.Closed() {
			return GenerationUpdate{}, ErrObserverClosed
		}
		select {
		case <-ctx.Done():
			return GenerationUpdate{}, ctx.Err()
		case <-o.queue.Wait():
		}
	}
}

// Len returns the number of pending updates.
func (o *Observer) Len() int {
	return o.queue.Len()
}

// Close stops the observer. The generator drops it on its next update.
func (o *Observer) Close() {
	o.queue.Close()
}

// StatefulObserver materializes the generator's progress into a grid of
// optional model instances.
//
// Generated updates fill one node; Reinitializing and Failed updates clear
// the whole snapshot.
type StatefulObserver struct {
	observer *Observer
	data     *grid.GridData[*rules.ModelInstance]
}

// NewStatefulObserver starts observing gen, seeded from its current state.
func NewStatefulObserver(gen *Generator) *StatefulObserver {
	return &StatefulObserver{
		data:     gen.ToGridData(),
		observer: gen.Observe(),
	}
}

// Update applies every pending update and returns how many were applied.
func (s *StatefulObserver) Update() int {
	updates := s.observer.DrainAll()
	for _, u := range updates {
		s.apply(u)
	}
	return len(updates)
}

func (s *StatefulObserver) apply(u GenerationUpdate) {
	switch u.Kind {
	case UpdateGenerated:
		inst := u.Node.Instance
		s.data.Set(u.Node.NodeIndex, &inst)
	case UpdateReinitializing, UpdateFailed:
		s.data.Fill(nil)
	}
}

// GridData returns the materialized snapshot. It is only modified by Update.
func (s *StatefulObserver) GridData() *grid.GridData[*rules.ModelInstance] {
	return s.data
}

// Close stops observing.
func (s *StatefulObserver) Close() {
	s.observer.Close()
}
