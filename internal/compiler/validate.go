package compiler

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation error codes (E100-E199)
const (
	ErrMissingName       = "E101" // tileset or model name is empty
	ErrInvalidDimensions = "E102" // dimensions is not 2 or 3
	ErrNoSockets         = "E103" // no sockets declared
	ErrDuplicateSocket   = "E104" // socket declared twice
	ErrUnknownSocket     = "E105" // socket referenced but not declared
	ErrNoModels          = "E106" // no models declared
	ErrDuplicateModel    = "E107" // model name declared twice
	ErrInvalidRotation   = "E108" // rotation not in 0, 90, 180, 270
	ErrInvalidSymbol     = "E109" // symbol is not a single rune
	ErrFaceMismatch      = "E110" // z faces missing in 3D or present in 2D
	ErrNoConnections     = "E111" // no connections declared
	ErrInvalidAxis       = "E112" // rotation axis not x, y or z (z only in 2D)
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is returned by Compile when Validate finds problems.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d validation error(s): %s", len(es), strings.Join(msgs, "; "))
}

// Validate checks a tileset for structural and reference errors.
// Returns all errors found (does not fail-fast).
func Validate(ts *Tileset) []ValidationError {
	var errs []ValidationError

	// E101: name is required
	if strings.TrimSpace(ts.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "tileset name is required and must be non-empty",
			Code:    ErrMissingName,
		})
	}

	// E102: 2D or 3D only
	if ts.Dimensions != 2 && ts.Dimensions != 3 {
		errs = append(errs, ValidationError{
			Field:   "dimensions",
			Message: fmt.Sprintf("dimensions must be 2 or 3, got %d", ts.Dimensions),
			Code:    ErrInvalidDimensions,
		})
	}

	// E112: axis
	switch ts.RotationAxis {
	case "", "z":
	case "x", "y":
		if ts.Dimensions == 2 {
			errs = append(errs, ValidationError{
				Field:   "rotation_axis",
				Message: fmt.Sprintf("2D tilesets only rotate around z, got %q", ts.RotationAxis),
				Code:    ErrInvalidAxis,
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "rotation_axis",
			Message: fmt.Sprintf("invalid rotation axis %q, must be \"x\", \"y\" or \"z\"", ts.RotationAxis),
			Code:    ErrInvalidAxis,
		})
	}

	// E103/E104: socket declarations
	if len(ts.Sockets) == 0 {
		errs = append(errs, ValidationError{
			Field:   "sockets",
			Message: "at least one socket is required",
			Code:    ErrNoSockets,
		})
	}
	declared := make(map[string]bool, len(ts.Sockets))
	for i, s := range ts.Sockets {
		if declared[s] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("sockets[%d]", i),
				Message: fmt.Sprintf("duplicate socket: %q", s),
				Code:    ErrDuplicateSocket,
			})
		}
		declared[s] = true
	}

	// E111: connections
	if len(ts.Connections) == 0 && len(ts.RotatedConnections) == 0 {
		errs = append(errs, ValidationError{
			Field:   "connections",
			Message: "at least one connection is required",
			Code:    ErrNoConnections,
		})
	}
	errs = append(errs, validateConnections(ts.Connections, "connections", declared)...)
	errs = append(errs, validateConnections(ts.RotatedConnections, "rotated_connections", declared)...)

	// E106: models
	if len(ts.Models) == 0 {
		errs = append(errs, ValidationError{
			Field:   "models",
			Message: "at least one model is required",
			Code:    ErrNoModels,
		})
	}

	modelNames := make(map[string]bool, len(ts.Models))
	for i, m := range ts.Models {
		field := fmt.Sprintf("models[%d]", i)
		line := ts.Line(field)
		for _, e := range validateModel(m, field, ts.Dimensions, declared) {
			e.Line = line
			errs = append(errs, e)
		}

		// E107: duplicate model name
		if m.Name != "" && modelNames[m.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate model name: %q", m.Name),
				Code:    ErrDuplicateModel,
				Line:    line,
			})
		}
		modelNames[m.Name] = true
	}

	return errs
}

func validateConnections(conns []Connection, field string, declared map[string]bool) []ValidationError {
	var errs []ValidationError
	for i, c := range conns {
		path := fmt.Sprintf("%s[%d]", field, i)
		if !declared[c.From] {
			errs = append(errs, unknownSocket(path+".from", c.From))
		}
		for j, to := range c.To {
			if !declared[to] {
				errs = append(errs, unknownSocket(fmt.Sprintf("%s.to[%d]", path, j), to))
			}
		}
	}
	return errs
}

func validateModel(m ModelSpec, field string, dims int, declared map[string]bool) []ValidationError {
	var errs []ValidationError

	// E101: model name
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   field + ".name",
			Message: "model name is required",
			Code:    ErrMissingName,
		})
	}

	// E109: symbol
	if m.Symbol != "" && utf8.RuneCountInString(m.Symbol) != 1 {
		errs = append(errs, ValidationError{
			Field:   field + ".symbol",
			Message: fmt.Sprintf("symbol must be a single character, got %q", m.Symbol),
			Code:    ErrInvalidSymbol,
		})
	}

	// E108: rotations
	for j, deg := range m.Rotations {
		if deg < 0 || deg > 270 || deg%90 != 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.rotations[%d]", field, j),
				Message: fmt.Sprintf("rotation must be 0, 90, 180 or 270, got %d", deg),
				Code:    ErrInvalidRotation,
			})
		}
	}

	// E110: z faces
	hasZ := m.Sockets.ZPos != nil || m.Sockets.ZNeg != nil
	switch {
	case dims == 2 && hasZ:
		errs = append(errs, ValidationError{
			Field:   field + ".sockets",
			Message: "2D models cannot declare z_pos or z_neg",
			Code:    ErrFaceMismatch,
		})
	case dims == 3 && (m.Sockets.ZPos == nil || m.Sockets.ZNeg == nil):
		errs = append(errs, ValidationError{
			Field:   field + ".sockets",
			Message: "3D models must declare z_pos and z_neg",
			Code:    ErrFaceMismatch,
		})
	}

	// E105: face sockets must be declared
	for _, f := range m.Sockets.faces() {
		for j, s := range *f.sockets {
			if !declared[s] {
				errs = append(errs, unknownSocket(fmt.Sprintf("%s.sockets.%s[%d]", field, f.key, j), s))
			}
		}
	}

	return errs
}

func unknownSocket(field, name string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: fmt.Sprintf("unknown socket %q", name),
		Code:    ErrUnknownSocket,
	}
}
