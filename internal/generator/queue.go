package generator

import "sync"

// updateQueue is a thread-safe FIFO queue of generation updates.
//
// The queue is unbounded so the generator never blocks on a slow observer.
// The generator enqueues from its own goroutine while an observer dequeues
// from any other.
//
// The queue uses a channel for signaling to enable context-aware waiting
// in Observer.Next.
type updateQueue struct {
	mu      sync.Mutex
	updates []GenerationUpdate
	closed  bool
	signal  chan struct{} // Signals update availability (buffered, size 1)
}

func newUpdateQueue() *updateQueue {
	return &updateQueue{
		updates: make([]GenerationUpdate, 0, 64),
		signal:  make(chan struct{}, 1),
	}
}

// Enqueue adds an update to the back of the queue.
// Returns false if the queue is closed.
func (q *updateQueue) Enqueue(u GenerationUpdate) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.updates = append(q.updates, u)

	// Non-blocking: a buffer of 1 coalesces multiple signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes the front update without blocking.
func (q *updateQueue) TryDequeue() (GenerationUpdate, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.updates) == 0 {
		return GenerationUpdate{}, false
	}

	u := q.updates[0]
	if len(q.updates) == 1 {
		q.updates = q.updates[:0]
	} else {
		q.updates = q.updates[1:]
	}
	return u, true
}

// DequeueAll removes and returns every queued update in order.
func (q *updateQueue) DequeueAll() []GenerationUpdate {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.updates) == 0 {
		return nil
	}
	out := make([]GenerationUpdate, len(q.updates))
	copy(out, q.updates)
	q.updates = q.updates[:0]
	return out
}

// Wait returns a channel that signals when updates may be available.
// The channel is closed when the queue is closed.
func (q *updateQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *updateQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.updates)
}

// Closed reports whether Close was called.
func (q *updateQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close signals that no more updates will be accepted.
// Queued updates can still be dequeued.
func (q *updateQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
