package grid

import "fmt"

// GridData stores one value of type T per node of a Grid.
type GridData[T any] struct {
	grid  *Grid
	nodes []T
}

// NewGridData wraps nodes. len(nodes) must equal g.Size().
func NewGridData[T any](g *Grid, nodes []T) (*GridData[T], error) {
	if len(nodes) != g.Size() {
		return nil, fmt.Errorf("grid data has %d nodes, grid %s has %d", len(nodes), g, g.Size())
	}
	return &GridData[T]{grid: g, nodes: nodes}, nil
}

// NewFilledGridData allocates grid data with every node set to value.
func NewFilledGridData[T any](g *Grid, value T) *GridData[T] {
	nodes := make([]T, g.Size())
	for i := range nodes {
		nodes[i] = value
	}
	return &GridData[T]{grid: g, nodes: nodes}
}

// Grid returns the grid the data is laid out on.
func (d *GridData[T]) Grid() *Grid { return d.grid }

// Nodes exposes the backing slice in index order.
func (d *GridData[T]) Nodes() []T { return d.nodes }

// Get returns the value at index.
func (d *GridData[T]) Get(index int) T { return d.nodes[index] }

// Set stores value at index.
func (d *GridData[T]) Set(index int, value T) { d.nodes[index] = value }

// At returns the value at c.
func (d *GridData[T]) At(c Coordinates) T { return d.nodes[d.grid.Index(c)] }

// Fill sets every node to value.
func (d *GridData[T]) Fill(value T) {
	for i := range d.nodes {
		d.nodes[i] = value
	}
}
