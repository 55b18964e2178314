package grid

import "fmt"

// Direction identifies one face of a cartesian node.
//
// Values are laid out so that a direction and its opposite differ only in the
// lowest bit. 2D grids use the first four directions, 3D grids all six.
type Direction int

const (
	XForward Direction = iota
	XBackward
	YForward
	YBackward
	ZForward
	ZBackward
)

const (
	// DirectionCount2D is the number of directions of a 2D cartesian node.
	DirectionCount2D = 4
	// DirectionCount3D is the number of directions of a 3D cartesian node.
	DirectionCount3D = 6
)

var directionNames = [...]string{"x+", "x-", "y+", "y-", "z+", "z-"}

// Opposite returns the direction pointing the other way along the same axis.
func (d Direction) Opposite() Direction {
	return d ^ 1
}

// Axis returns the axis the direction lies on.
func (d Direction) Axis() Axis {
	return Axis(d / 2)
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Axis names one of the three cartesian axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String implements fmt.Stringer.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Forward returns the positive direction along the axis.
func (a Axis) Forward() Direction {
	return Direction(a * 2)
}

// Directions returns the first n directions in declaration order.
// n is DirectionCount2D or DirectionCount3D.
func Directions(n int) []Direction {
	dirs := make([]Direction, n)
	for i := range dirs {
		dirs[i] = Direction(i)
	}
	return dirs
}
