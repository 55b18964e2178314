package harness

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/wfcgen/internal/grid"
	"github.com/roach88/wfcgen/internal/rules"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Rows     []string // Rendered grid for context, if any
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Rows) > 0 {
		fmt.Fprintf(&buf, "\nGrid:\n")
		for _, row := range e.Rows {
			fmt.Fprintf(&buf, "  %s\n", row)
		}
	}

	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertCellModel:
			err = assertCellModel(result, assertion)
		case AssertModelCount:
			err = assertModelCount(result, assertion)
		case AssertTryCount:
			err = assertTryCount(result, assertion)
		case AssertCheckerboard:
			err = assertCheckerboard(result)
		case AssertAdjacency:
			err = assertAdjacency(result)
		case AssertFailedNode:
			err = assertFailedNode(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

// requireGrid fails assertions that inspect the grid of a failed run.
func requireGrid(result *Result, typ string) error {
	if result.data != nil {
		return nil
	}
	return &AssertionError{
		Type:     typ,
		Expected: "a generated grid",
		Actual:   fmt.Sprintf("outcome %s", result.Outcome),
	}
}

func assertCellModel(result *Result, a Assertion) error {
	if err := requireGrid(result, AssertCellModel); err != nil {
		return err
	}

	c := coordinates(a.At)
	if !result.data.Grid().Contains(c) {
		return fmt.Errorf("cell_model: position %s is outside grid %s", c, result.data.Grid())
	}
	want, ok := result.compiled.ModelIndex(norm.NFC.String(a.Model))
	if !ok {
		return fmt.Errorf("cell_model: unknown model %q", a.Model)
	}

	got := result.data.At(c)
	gotName := result.compiled.Rules.ModelName(got.ModelIndex)
	if got.ModelIndex != want {
		return &AssertionError{
			Type:     AssertCellModel,
			Expected: fmt.Sprintf("%s at %s", a.Model, c),
			Actual:   fmt.Sprintf("%s@%d", gotName, got.Rotation.Degrees()),
			Rows:     result.Rows,
		}
	}
	if a.Rotation != nil && got.Rotation.Degrees() != *a.Rotation {
		return &AssertionError{
			Type:     AssertCellModel,
			Expected: fmt.Sprintf("%s@%d at %s", a.Model, *a.Rotation, c),
			Actual:   fmt.Sprintf("%s@%d", gotName, got.Rotation.Degrees()),
			Rows:     result.Rows,
		}
	}
	return nil
}

func assertModelCount(result *Result, a Assertion) error {
	if err := requireGrid(result, AssertModelCount); err != nil {
		return err
	}

	model, ok := result.compiled.ModelIndex(norm.NFC.String(a.Model))
	if !ok {
		return fmt.Errorf("model_count: unknown model %q", a.Model)
	}
	count := 0
	for _, inst := range result.data.Nodes() {
		if inst.ModelIndex == model {
			count++
		}
	}

	if expected, ok := checkCount(count, a); !ok {
		return &AssertionError{
			Type:     AssertModelCount,
			Expected: fmt.Sprintf("%s occurrences of %s", expected, a.Model),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Rows:     result.Rows,
		}
	}
	return nil
}

func assertTryCount(result *Result, a Assertion) error {
	if expected, ok := checkCount(result.TryCount, a); !ok {
		return &AssertionError{
			Type:     AssertTryCount,
			Expected: fmt.Sprintf("%s tries", expected),
			Actual:   fmt.Sprintf("%d tries", result.TryCount),
		}
	}
	return nil
}

// checkCount tests n against Count, Min and Max. It returns a description
// of the expectation and whether n satisfies it.
func checkCount(n int, a Assertion) (string, bool) {
	var parts []string
	ok := true
	if a.Count != nil {
		parts = append(parts, fmt.Sprintf("exactly %d", *a.Count))
		ok = ok && n == *a.Count
	}
	if a.Min != nil {
		parts = append(parts, fmt.Sprintf("at least %d", *a.Min))
		ok = ok && n >= *a.Min
	}
	if a.Max != nil {
		parts = append(parts, fmt.Sprintf("at most %d", *a.Max))
		ok = ok && n <= *a.Max
	}
	return strings.Join(parts, " and "), ok
}

// assertCheckerboard checks that no two adjacent nodes hold the same model.
func assertCheckerboard(result *Result) error {
	if err := requireGrid(result, AssertCheckerboard); err != nil {
		return err
	}

	return forEachEdge(result, func(a, b grid.Coordinates, u, v rules.ModelInstance, _ grid.Direction) error {
		if u.ModelIndex != v.ModelIndex {
			return nil
		}
		name := result.compiled.Rules.ModelName(u.ModelIndex)
		return &AssertionError{
			Type:     AssertCheckerboard,
			Expected: "adjacent nodes hold different models",
			Actual:   fmt.Sprintf("%s at both %s and %s", name, a, b),
			Rows:     result.Rows,
		}
	})
}

// assertAdjacency checks every adjacent pair against the compiled rules.
func assertAdjacency(result *Result) error {
	if err := requireGrid(result, AssertAdjacency); err != nil {
		return err
	}

	r := result.compiled.Rules
	return forEachEdge(result, func(a, b grid.Coordinates, u, v rules.ModelInstance, d grid.Direction) error {
		vu, _ := r.VariantIndex(u)
		vv, _ := r.VariantIndex(v)
		if slices.Contains(r.Allowed(vu, d), vv) {
			return nil
		}
		return &AssertionError{
			Type:     AssertAdjacency,
			Expected: fmt.Sprintf("%s allowed next to %s towards %s", v, u, d),
			Actual:   fmt.Sprintf("%s at %s, %s at %s", u, a, v, b),
			Rows:     result.Rows,
		}
	})
}

// forEachEdge calls fn for every node and each of its neighbours.
func forEachEdge(result *Result, fn func(a, b grid.Coordinates, u, v rules.ModelInstance, d grid.Direction) error) error {
	g := result.data.Grid()
	for node := 0; node < g.Size(); node++ {
		for _, d := range g.Directions() {
			other, ok := g.Neighbour(node, d)
			if !ok {
				continue
			}
			err := fn(g.Coordinates(node), g.Coordinates(other), result.data.Get(node), result.data.Get(other), d)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func assertFailedNode(result *Result, a Assertion) error {
	if result.FailedNode == nil {
		return &AssertionError{
			Type:     AssertFailedNode,
			Expected: "a contradiction",
			Actual:   fmt.Sprintf("outcome %s", result.Outcome),
			Rows:     result.Rows,
		}
	}
	if a.At == nil {
		return nil
	}
	if want := coordinates(a.At); want != *result.FailedNode {
		return &AssertionError{
			Type:     AssertFailedNode,
			Expected: fmt.Sprintf("contradiction at %s", want),
			Actual:   fmt.Sprintf("contradiction at %s", result.FailedNode),
		}
	}
	return nil
}
