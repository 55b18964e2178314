package rules

import (
	"math"

	"github.com/roach88/wfcgen/internal/grid"
)

// Sockets2D lists the sockets exposed on each face of a 2D model.
type Sockets2D struct {
	XPos, XNeg, YPos, YNeg []Socket
}

// Sockets3D lists the sockets exposed on each face of a 3D model.
type Sockets3D struct {
	XPos, XNeg, YPos, YNeg, ZPos, ZNeg []Socket
}

// Model is a user-declared tile: sockets per face, a weight and the rotations
// it may be placed with.
//
// The With* methods modify and return the receiver so declarations can be
// chained. Rules copies what it needs, so later changes to a Model do not
// affect rules already built from it.
type Model struct {
	name      string
	sockets   [][]Socket // indexed by grid.Direction
	weight    float32
	rotations RotationSet
}

// NewModel2D declares a 2D model with weight 1 and rotation Rot0 only.
func NewModel2D(s Sockets2D) *Model {
	sockets := make([][]Socket, grid.DirectionCount2D)
	sockets[grid.XForward] = s.XPos
	sockets[grid.XBackward] = s.XNeg
	sockets[grid.YForward] = s.YPos
	sockets[grid.YBackward] = s.YNeg
	return &Model{sockets: sockets, weight: 1, rotations: RotationSet(0).With(Rot0)}
}

// NewModel3D declares a 3D model with weight 1 and rotation Rot0 only.
func NewModel3D(s Sockets3D) *Model {
	sockets := make([][]Socket, grid.DirectionCount3D)
	sockets[grid.XForward] = s.XPos
	sockets[grid.XBackward] = s.XNeg
	sockets[grid.YForward] = s.YPos
	sockets[grid.YBackward] = s.YNeg
	sockets[grid.ZForward] = s.ZPos
	sockets[grid.ZBackward] = s.ZNeg
	return &Model{sockets: sockets, weight: 1, rotations: RotationSet(0).With(Rot0)}
}

// NewModel2DUniform declares a 2D model exposing the same sockets on every face.
func NewModel2DUniform(sockets ...Socket) *Model {
	return NewModel2D(Sockets2D{XPos: sockets, XNeg: sockets, YPos: sockets, YNeg: sockets})
}

// WithName sets a diagnostic name.
func (m *Model) WithName(name string) *Model {
	m.name = name
	return m
}

// WithWeight sets the selection weight. Non-positive weights are clamped to
// the smallest positive float32.
func (m *Model) WithWeight(w float32) *Model {
	m.weight = clampWeight(w)
	return m
}

// WithRotations replaces the allowed rotation set.
func (m *Model) WithRotations(rs ...Rotation) *Model {
	m.rotations = 0
	for _, r := range rs {
		m.rotations = m.rotations.With(r)
	}
	if m.rotations == 0 {
		m.rotations = RotationSet(0).With(Rot0)
	}
	return m
}

// WithAllRotations allows all four rotations.
func (m *Model) WithAllRotations() *Model {
	return m.WithRotations(AllRotations...)
}

// Name returns the diagnostic name.
func (m *Model) Name() string { return m.name }

// Weight returns the selection weight.
func (m *Model) Weight() float32 { return m.weight }

// Rotations returns the allowed rotation set.
func (m *Model) Rotations() RotationSet { return m.rotations }

// DirectionCount returns 4 for 2D models and 6 for 3D models.
func (m *Model) DirectionCount() int { return len(m.sockets) }

func clampWeight(w float32) float32 {
	if !(w > 0) {
		return math.SmallestNonzeroFloat32
	}
	return w
}
