package rules

import (
	"fmt"

	"github.com/roach88/wfcgen/internal/grid"
)

// Rotation is a quarter-turn count around the rotation axis.
type Rotation int

const (
	Rot0 Rotation = iota
	Rot90
	Rot180
	Rot270
)

// AllRotations lists the rotations in expansion order.
var AllRotations = []Rotation{Rot0, Rot90, Rot180, Rot270}

// RotationFromDegrees converts 0, 90, 180 or 270 to a Rotation.
func RotationFromDegrees(deg int) (Rotation, error) {
	switch deg {
	case 0:
		return Rot0, nil
	case 90:
		return Rot90, nil
	case 180:
		return Rot180, nil
	case 270:
		return Rot270, nil
	}
	return Rot0, fmt.Errorf("invalid rotation %d: must be one of 0, 90, 180, 270", deg)
}

// Degrees returns the rotation angle.
func (r Rotation) Degrees() int { return int(r) * 90 }

// String implements fmt.Stringer.
func (r Rotation) String() string { return fmt.Sprintf("rot%d", r.Degrees()) }

// RotationSet is a bitmask of allowed rotations.
type RotationSet uint8

// Contains reports whether r is in the set.
func (s RotationSet) Contains(r Rotation) bool { return s&(1<<uint(r)) != 0 }

// With returns the set with r added.
func (s RotationSet) With(r Rotation) RotationSet { return s | 1<<uint(r) }

// lateralCycle returns the four directions turned through by a positive
// quarter rotation around axis.
func lateralCycle(axis grid.Axis) [4]grid.Direction {
	switch axis {
	case grid.AxisX:
		return [4]grid.Direction{grid.YForward, grid.ZForward, grid.YBackward, grid.ZBackward}
	case grid.AxisY:
		return [4]grid.Direction{grid.XForward, grid.ZBackward, grid.XBackward, grid.ZForward}
	default:
		return [4]grid.Direction{grid.XForward, grid.YForward, grid.XBackward, grid.YBackward}
	}
}

// rotateSockets returns a copy of sockets turned by r around axis.
func rotateSockets(sockets [][]Socket, axis grid.Axis, r Rotation) [][]Socket {
	out := make([][]Socket, len(sockets))
	copy(out, sockets)
	if r == Rot0 {
		return out
	}
	cycle := lateralCycle(axis)
	for i, from := range cycle {
		to := cycle[(i+int(r))%4]
		out[to] = sockets[from]
	}
	return out
}
