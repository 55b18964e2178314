package harness

import (
	"github.com/roach88/wfcgen/internal/compiler"
	"github.com/roach88/wfcgen/internal/generator"
	"github.com/roach88/wfcgen/internal/grid"
	"github.com/roach88/wfcgen/internal/rules"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success: the outcome matched
	// expect.outcome and every assertion held.
	Pass bool `json:"pass"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Outcome is "done" or "failed".
	Outcome string `json:"outcome"`

	// TryCount is the number of generation attempts. It is 0 when the
	// generator could not be built.
	TryCount int `json:"try_count"`

	// FailedNode is the contradicted node position when Outcome is failed.
	FailedNode *grid.Coordinates `json:"failed_node,omitempty"`

	// Rows renders the generated grid, one string per row, one symbol per
	// node. 3D layers are separated by an empty row.
	Rows []string `json:"rows,omitempty"`

	// Trace contains every update published after the generator was built.
	Trace []generator.GenerationUpdate `json:"trace"`

	compiled *compiler.Compiled
	data     *grid.GridData[rules.ModelInstance]
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
		Trace:  []generator.GenerationUpdate{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// CountUpdates returns the number of trace updates of kind k.
func (r *Result) CountUpdates(k generator.UpdateKind) int {
	n := 0
	for _, u := range r.Trace {
		if u.Kind == k {
			n++
		}
	}
	return n
}
