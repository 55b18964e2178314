package compiler

import (
	"golang.org/x/text/unicode/norm"
)

// Tileset is the decoded form of a tileset document.
type Tileset struct {
	Name               string       `json:"name" yaml:"name"`
	Dimensions         int          `json:"dimensions" yaml:"dimensions"`
	RotationAxis       string       `json:"rotation_axis,omitempty" yaml:"rotation_axis,omitempty"`
	Sockets            []string     `json:"sockets" yaml:"sockets"`
	Connections        []Connection `json:"connections" yaml:"connections"`
	RotatedConnections []Connection `json:"rotated_connections,omitempty" yaml:"rotated_connections,omitempty"`
	Models             []ModelSpec  `json:"models" yaml:"models"`

	// lines maps field paths such as "models[2]" to source lines.
	lines map[string]int
}

// Connection declares that socket From connects to every socket in To.
// Connections are symmetric.
type Connection struct {
	From string   `json:"from" yaml:"from"`
	To   []string `json:"to" yaml:"to"`
}

// ModelSpec declares one model.
type ModelSpec struct {
	Name   string `json:"name" yaml:"name"`
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty"`

	// Weight defaults to 1 when nil.
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`

	// Rotations in degrees. Empty means 0 only.
	Rotations    []int       `json:"rotations,omitempty" yaml:"rotations,omitempty"`
	AllRotations bool        `json:"all_rotations,omitempty" yaml:"all_rotations,omitempty"`
	Sockets      FaceSockets `json:"sockets" yaml:"sockets"`
}

// FaceSockets lists socket names per face. Z faces are only used in 3D.
type FaceSockets struct {
	XPos []string `json:"x_pos" yaml:"x_pos"`
	XNeg []string `json:"x_neg" yaml:"x_neg"`
	YPos []string `json:"y_pos" yaml:"y_pos"`
	YNeg []string `json:"y_neg" yaml:"y_neg"`
	ZPos []string `json:"z_pos,omitempty" yaml:"z_pos,omitempty"`
	ZNeg []string `json:"z_neg,omitempty" yaml:"z_neg,omitempty"`
}

// faces returns the face lists in grid.Direction order, paired with their
// document keys.
func (f *FaceSockets) faces() []face {
	return []face{
		{"x_pos", &f.XPos},
		{"x_neg", &f.XNeg},
		{"y_pos", &f.YPos},
		{"y_neg", &f.YNeg},
		{"z_pos", &f.ZPos},
		{"z_neg", &f.ZNeg},
	}
}

type face struct {
	key     string
	sockets *[]string
}

// ModelWeight returns the declared weight, or 1.
func (m ModelSpec) ModelWeight() float64 {
	if m.Weight == nil {
		return 1
	}
	return *m.Weight
}

// Line returns the source line recorded for a field path, or 0.
func (t *Tileset) Line(path string) int {
	return t.lines[path]
}

func (t *Tileset) setLine(path string, line int) {
	if line <= 0 {
		return
	}
	if t.lines == nil {
		t.lines = make(map[string]int)
	}
	t.lines[path] = line
}

// Normalize rewrites every name to Unicode NFC so that visually identical
// names written with different code point sequences compare equal.
func (t *Tileset) Normalize() {
	t.Name = norm.NFC.String(t.Name)
	normalizeAll(t.Sockets)
	for i := range t.Connections {
		normalizeConnection(&t.Connections[i])
	}
	for i := range t.RotatedConnections {
		normalizeConnection(&t.RotatedConnections[i])
	}
	for i := range t.Models {
		m := &t.Models[i]
		m.Name = norm.NFC.String(m.Name)
		m.Symbol = norm.NFC.String(m.Symbol)
		for _, f := range m.Sockets.faces() {
			normalizeAll(*f.sockets)
		}
	}
}

func normalizeConnection(c *Connection) {
	c.From = norm.NFC.String(c.From)
	normalizeAll(c.To)
}

func normalizeAll(names []string) {
	for i, n := range names {
		names[i] = norm.NFC.String(n)
	}
}
