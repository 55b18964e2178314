package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// tilesetSchema closes the document structure and types. Semantic checks
// (known sockets, unique names, rotation values) are left to Validate so
// that all of them are reported at once.
const tilesetSchema = `
#Names: [...string]

#Connection: {
	from: string
	to:   #Names
}

#Model: {
	name?:          string
	symbol?:        string
	weight?:        number
	rotations?:     [...int]
	all_rotations?: bool
	sockets: {
		x_pos?: #Names
		x_neg?: #Names
		y_pos?: #Names
		y_neg?: #Names
		z_pos?: #Names
		z_neg?: #Names
	}
}

#Tileset: {
	name?:                string
	dimensions?:          int
	rotation_axis?:       string
	sockets?:             #Names
	connections?:         [...#Connection]
	rotated_connections?: [...#Connection]
	models?:              [...#Model]
}
`

// CompileError represents a decoding error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

// DecodeCUE parses a CUE tileset document. filename is only used in error
// positions.
func DecodeCUE(src []byte, filename string) (*Tileset, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(tilesetSchema, cue.Filename("tileset-schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	doc := ctx.CompileBytes(src, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	checked := schema.LookupPath(cue.ParsePath("#Tileset")).Unify(doc)
	if err := checked.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	// Read from the document itself: the schema's optional fields would
	// otherwise show up as present.
	return CompileTileset(doc)
}

// CompileTileset extracts a Tileset from a CUE document value.
func CompileTileset(v cue.Value) (*Tileset, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	ts := &Tileset{}
	var err error

	if ts.Name, err = optionalString(v, "name"); err != nil {
		return nil, err
	}
	if dims, ok := lookup(v, "dimensions"); ok {
		n, err := dims.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		ts.Dimensions = int(n)
	}
	if ts.RotationAxis, err = optionalString(v, "rotation_axis"); err != nil {
		return nil, err
	}
	if ts.Sockets, err = stringList(v, "sockets"); err != nil {
		return nil, err
	}
	if ts.Connections, err = parseConnections(v, "connections"); err != nil {
		return nil, err
	}
	if ts.RotatedConnections, err = parseConnections(v, "rotated_connections"); err != nil {
		return nil, err
	}

	if modelsVal, ok := lookup(v, "models"); ok {
		iter, err := modelsVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			mv := iter.Value()
			model, err := parseModel(mv)
			if err != nil {
				return nil, err
			}
			ts.setLine(fmt.Sprintf("models[%d]", i), mv.Pos().Line())
			ts.Models = append(ts.Models, model)
		}
	}

	return ts, nil
}

func parseModel(v cue.Value) (ModelSpec, error) {
	var m ModelSpec
	var err error

	if m.Name, err = optionalString(v, "name"); err != nil {
		return m, err
	}
	if m.Symbol, err = optionalString(v, "symbol"); err != nil {
		return m, err
	}
	if wv, ok := lookup(v, "weight"); ok {
		w, err := wv.Float64()
		if err != nil {
			return m, formatCUEError(err)
		}
		m.Weight = &w
	}
	if rv, ok := lookup(v, "rotations"); ok {
		iter, err := rv.List()
		if err != nil {
			return m, formatCUEError(err)
		}
		for iter.Next() {
			deg, err := iter.Value().Int64()
			if err != nil {
				return m, formatCUEError(err)
			}
			m.Rotations = append(m.Rotations, int(deg))
		}
	}
	if av, ok := lookup(v, "all_rotations"); ok {
		if m.AllRotations, err = av.Bool(); err != nil {
			return m, formatCUEError(err)
		}
	}

	sockets, ok := lookup(v, "sockets")
	if !ok {
		return m, &CompileError{
			Field:   "sockets",
			Message: fmt.Sprintf("model %q has no sockets", m.Name),
			Pos:     v.Pos(),
		}
	}
	for _, f := range m.Sockets.faces() {
		if *f.sockets, err = stringList(sockets, f.key); err != nil {
			return m, err
		}
	}

	return m, nil
}

func parseConnections(parent cue.Value, path string) ([]Connection, error) {
	v, ok := lookup(parent, path)
	if !ok {
		return nil, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var conns []Connection
	for iter.Next() {
		cv := iter.Value()
		from, err := optionalString(cv, "from")
		if err != nil {
			return nil, err
		}
		to, err := stringList(cv, "to")
		if err != nil {
			return nil, err
		}
		conns = append(conns, Connection{From: from, To: to})
	}
	return conns, nil
}

// lookup returns the value at path if it is set to a concrete value.
func lookup(v cue.Value, path string) (cue.Value, bool) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() || !fv.IsConcrete() {
		return fv, false
	}
	return fv, true
}

func optionalString(v cue.Value, path string) (string, error) {
	sv, ok := lookup(v, path)
	if !ok {
		return "", nil
	}
	s, err := sv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func stringList(parent cue.Value, path string) ([]string, error) {
	v, ok := lookup(parent, path)
	if !ok {
		return nil, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	out := []string{}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}
