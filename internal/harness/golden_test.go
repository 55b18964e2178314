package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_CheckerboardPinned(t *testing.T) {
	// Regenerate with: go test ./internal/harness -run TestRunWithGolden -update
	result, err := RunWithGolden(t, loadScenario(t, "checkerboard_pinned"))
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestRunWithGolden_RulesGap(t *testing.T) {
	result, err := RunWithGolden(t, loadScenario(t, "rules_gap"))
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestAssertGolden_FromResult(t *testing.T) {
	scenario := loadScenario(t, "checkerboard_pinned")
	result, err := Run(scenario)
	require.NoError(t, err)

	AssertGolden(t, scenario, result)
}

func TestSnapshot_Deterministic(t *testing.T) {
	scenario := loadScenario(t, "odd_loop")

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, Snapshot(scenario, first), Snapshot(scenario, second))
	assert.Contains(t, string(Snapshot(scenario, first)), "outcome: failed\ntries: 3\n")
}

func TestRunWithGolden_PropagatesRunErrors(t *testing.T) {
	scenario := loadScenario(t, "checkerboard_pinned")
	scenario.Tileset = "testdata/tilesets/nope.yaml"

	_, err := RunWithGolden(t, scenario)
	assert.Error(t, err)
}
