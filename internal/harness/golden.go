package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/wfcgen/internal/generator"
)

// Snapshot renders the parts of a result that are stable for a given
// scenario: outcome, tries, update counts and the grid. Update order within
// a propagation is not part of the snapshot.
func Snapshot(scenario *Scenario, result *Result) []byte {
	var buf strings.Builder

	fmt.Fprintf(&buf, "scenario: %s\n", scenario.Name)
	fmt.Fprintf(&buf, "seed: %d\n", scenario.Seed)
	fmt.Fprintf(&buf, "outcome: %s\n", result.Outcome)
	fmt.Fprintf(&buf, "tries: %d\n", result.TryCount)
	if result.FailedNode != nil {
		fmt.Fprintf(&buf, "failed_node: %s\n", result.FailedNode)
	}
	fmt.Fprintf(&buf, "updates: generated=%d reinitializing=%d failed=%d\n",
		result.CountUpdates(generator.UpdateGenerated),
		result.CountUpdates(generator.UpdateReinitializing),
		result.CountUpdates(generator.UpdateFailed),
	)
	if len(result.Rows) > 0 {
		buf.WriteString("grid:\n")
		for _, row := range result.Rows {
			fmt.Fprintf(&buf, "  %s\n", row)
		}
	}

	return []byte(buf.String())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario, result)
	return result, nil
}

// AssertGolden compares an existing result against the scenario's golden
// file without re-running it.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(scenario, result))
}
