package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned when a grid is created with a non-positive size.
var ErrInvalidSize = errors.New("grid size must be positive on every axis")

// noNeighbour marks a missing neighbour in the precomputed table.
const noNeighbour = -1

// Coordinates addresses a node by position. Z is always 0 on 2D grids.
type Coordinates struct {
	X, Y, Z int
}

// String implements fmt.Stringer.
func (c Coordinates) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Grid describes a cartesian grid.
//
// INVARIANTS:
//   - size along every axis >= 1 (2D grids have sizeZ == 1)
//   - neighbours[i*dirCount+d] is the index reached from node i through d,
//     or noNeighbour
//   - Grid is never mutated after construction and is safe to share
type Grid struct {
	sizeX, sizeY, sizeZ int
	loopX, loopY, loopZ bool
	dirCount            int
	neighbours          []int
}

// NewCartesian2D creates a 2D grid. Looping axes wrap around.
func NewCartesian2D(sizeX, sizeY int, loopX, loopY bool) (*Grid, error) {
	if sizeX <= 0 || sizeY <= 0 {
		return nil, fmt.Errorf("new 2D grid %dx%d: %w", sizeX, sizeY, ErrInvalidSize)
	}
	g := &Grid{
		sizeX: sizeX, sizeY: sizeY, sizeZ: 1,
		loopX: loopX, loopY: loopY,
		dirCount: DirectionCount2D,
	}
	g.buildNeighbours()
	return g, nil
}

// NewCartesian3D creates a 3D grid. Looping axes wrap around.
func NewCartesian3D(sizeX, sizeY, sizeZ int, loopX, loopY, loopZ bool) (*Grid, error) {
	if sizeX <= 0 || sizeY <= 0 || sizeZ <= 0 {
		return nil, fmt.Errorf("new 3D grid %dx%dx%d: %w", sizeX, sizeY, sizeZ, ErrInvalidSize)
	}
	g := &Grid{
		sizeX: sizeX, sizeY: sizeY, sizeZ: sizeZ,
		loopX: loopX, loopY: loopY, loopZ: loopZ,
		dirCount: DirectionCount3D,
	}
	g.buildNeighbours()
	return g, nil
}

func (g *Grid) buildNeighbours() {
	total := g.Size()
	g.neighbours = make([]int, total*g.dirCount)
	for i := 0; i < total; i++ {
		c := g.Coordinates(i)
		for d := 0; d < g.dirCount; d++ {
			next, ok := g.Move(c, Direction(d))
			if ok {
				g.neighbours[i*g.dirCount+d] = g.Index(next)
			} else {
				g.neighbours[i*g.dirCount+d] = noNeighbour
			}
		}
	}
}

// Size returns the total number of nodes.
func (g *Grid) Size() int { return g.sizeX * g.sizeY * g.sizeZ }

// SizeX returns the size along the x axis.
func (g *Grid) SizeX() int { return g.sizeX }

// SizeY returns the size along the y axis.
func (g *Grid) SizeY() int { return g.sizeY }

// SizeZ returns the size along the z axis (1 for 2D grids).
func (g *Grid) SizeZ() int { return g.sizeZ }

// Is3D reports whether the grid uses six directions.
func (g *Grid) Is3D() bool { return g.dirCount == DirectionCount3D }

// DirectionCount returns 4 for 2D grids and 6 for 3D grids.
func (g *Grid) DirectionCount() int { return g.dirCount }

// Directions returns the directions of this grid in declaration order.
func (g *Grid) Directions() []Direction { return Directions(g.dirCount) }

// Looping reports whether the given axis wraps around.
func (g *Grid) Looping(a Axis) bool {
	switch a {
	case AxisX:
		return g.loopX
	case AxisY:
		return g.loopY
	case AxisZ:
		return g.loopZ
	}
	return false
}

// Index returns the linear index of c. c must lie inside the grid.
func (g *Grid) Index(c Coordinates) int {
	return c.X + c.Y*g.sizeX + c.Z*(g.sizeX*g.sizeY)
}

// IndexChecked is Index with a bounds check.
func (g *Grid) IndexChecked(c Coordinates) (int, bool) {
	if !g.Contains(c) {
		return 0, false
	}
	return g.Index(c), true
}

// Contains reports whether c lies inside the grid.
func (g *Grid) Contains(c Coordinates) bool {
	return c.X >= 0 && c.X < g.sizeX &&
		c.Y >= 0 && c.Y < g.sizeY &&
		c.Z >= 0 && c.Z < g.sizeZ
}

// Coordinates decomposes a linear index.
func (g *Grid) Coordinates(index int) Coordinates {
	plane := g.sizeX * g.sizeY
	return Coordinates{
		X: index % g.sizeX,
		Y: (index / g.sizeX) % g.sizeY,
		Z: index / plane,
	}
}

// Move returns the coordinates one step from c in direction d.
// Looping axes wrap; on other axes ok is false past the border.
func (g *Grid) Move(c Coordinates, d Direction) (Coordinates, bool) {
	delta := 1
	if d%2 == 1 {
		delta = -1
	}
	switch d.Axis() {
	case AxisX:
		x, ok := step(c.X, delta, g.sizeX, g.loopX)
		c.X = x
		return c, ok
	case AxisY:
		y, ok := step(c.Y, delta, g.sizeY, g.loopY)
		c.Y = y
		return c, ok
	case AxisZ:
		if g.dirCount == DirectionCount2D {
			return c, false
		}
		z, ok := step(c.Z, delta, g.sizeZ, g.loopZ)
		c.Z = z
		return c, ok
	}
	return c, false
}

func step(v, delta, size int, loop bool) (int, bool) {
	v += delta
	if v >= 0 && v < size {
		return v, true
	}
	if !loop {
		return v, false
	}
	return (v%size + size) % size, true
}

// Neighbour returns the index reached from node index through d.
func (g *Grid) Neighbour(index int, d Direction) (int, bool) {
	n := g.neighbours[index*g.dirCount+int(d)]
	return n, n != noNeighbour
}

// String implements fmt.Stringer.
func (g *Grid) String() string {
	if g.Is3D() {
		return fmt.Sprintf("%dx%dx%d", g.sizeX, g.sizeY, g.sizeZ)
	}
	return fmt.Sprintf("%dx%d", g.sizeX, g.sizeY)
}
