package compiler

import (
	"fmt"
	"unicode/utf8"

	"github.com/roach88/wfcgen/internal/grid"
	"github.com/roach88/wfcgen/internal/rules"
)

// Compiled is a validated tileset with its rules.
type Compiled struct {
	Tileset *Tileset
	Rules   *rules.Rules

	// Symbols holds one rendering rune per model, in model order.
	Symbols []rune

	byName map[string]int
}

// ModelIndex returns the index of the named model.
func (c *Compiled) ModelIndex(name string) (int, bool) {
	i, ok := c.byName[name]
	return i, ok
}

// Symbol returns the rendering rune of a model.
func (c *Compiled) Symbol(model int) rune {
	return c.Symbols[model]
}

// Compile validates ts and builds its rules. Validation problems are
// returned together as ValidationErrors.
func Compile(ts *Tileset) (*Compiled, error) {
	if errs := Validate(ts); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	sc := rules.NewSocketCollection()
	sockets := make(map[string]rules.Socket, len(ts.Sockets))
	for _, name := range ts.Sockets {
		sockets[name] = sc.CreateNamed(name)
	}
	for _, c := range ts.Connections {
		sc.Connect(sockets[c.From], lookupSockets(sockets, c.To)...)
	}
	for _, c := range ts.RotatedConnections {
		sc.ConnectRotated(sockets[c.From], lookupSockets(sockets, c.To)...)
	}

	compiled := &Compiled{
		Tileset: ts,
		Symbols: make([]rune, len(ts.Models)),
		byName:  make(map[string]int, len(ts.Models)),
	}

	models := make([]*rules.Model, len(ts.Models))
	for i, spec := range ts.Models {
		m, err := buildModel(spec, ts.Dimensions, sockets)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", spec.Name, err)
		}
		models[i] = m
		compiled.Symbols[i] = symbolOf(spec)
		compiled.byName[spec.Name] = i
	}

	var opts []rules.Option
	if ts.RotationAxis != "" {
		axis, err := ParseAxis(ts.RotationAxis)
		if err != nil {
			return nil, err
		}
		opts = append(opts, rules.WithRotationAxis(axis))
	}

	r, err := rules.New(models, sc, opts...)
	if err != nil {
		return nil, err
	}
	compiled.Rules = r
	return compiled, nil
}

func buildModel(spec ModelSpec, dims int, sockets map[string]rules.Socket) (*rules.Model, error) {
	f := spec.Sockets
	var m *rules.Model
	if dims == 3 {
		m = rules.NewModel3D(rules.Sockets3D{
			XPos: lookupSockets(sockets, f.XPos),
			XNeg: lookupSockets(sockets, f.XNeg),
			YPos: lookupSockets(sockets, f.YPos),
			YNeg: lookupSockets(sockets, f.YNeg),
			ZPos: lookupSockets(sockets, f.ZPos),
			ZNeg: lookupSockets(sockets, f.ZNeg),
		})
	} else {
		m = rules.NewModel2D(rules.Sockets2D{
			XPos: lookupSockets(sockets, f.XPos),
			XNeg: lookupSockets(sockets, f.XNeg),
			YPos: lookupSockets(sockets, f.YPos),
			YNeg: lookupSockets(sockets, f.YNeg),
		})
	}
	m.WithName(spec.Name).WithWeight(float32(spec.ModelWeight()))

	switch {
	case spec.AllRotations:
		m.WithAllRotations()
	case len(spec.Rotations) > 0:
		rots := make([]rules.Rotation, 0, len(spec.Rotations))
		for _, deg := range spec.Rotations {
			r, err := rules.RotationFromDegrees(deg)
			if err != nil {
				return nil, err
			}
			rots = append(rots, r)
		}
		m.WithRotations(rots...)
	}
	return m, nil
}

func lookupSockets(sockets map[string]rules.Socket, names []string) []rules.Socket {
	out := make([]rules.Socket, len(names))
	for i, n := range names {
		out[i] = sockets[n]
	}
	return out
}

// symbolOf returns the declared symbol or the first rune of the name.
func symbolOf(spec ModelSpec) rune {
	if spec.Symbol != "" {
		r, _ := utf8.DecodeRuneInString(spec.Symbol)
		return r
	}
	r, _ := utf8.DecodeRuneInString(spec.Name)
	return r
}

// ParseAxis parses "x", "y" or "z".
func ParseAxis(s string) (grid.Axis, error) {
	switch s {
	case "x":
		return grid.AxisX, nil
	case "y":
		return grid.AxisY, nil
	case "z":
		return grid.AxisZ, nil
	}
	return grid.AxisX, fmt.Errorf("invalid axis %q", s)
}
