package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes content as dir/name and the checkerboard tileset
// as dir/tilesets/checkerboard.yaml.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	tileset, err := os.ReadFile("testdata/tilesets/checkerboard.yaml")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tilesets"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tilesets", "checkerboard.yaml"), tileset, 0644))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const minimalScenario = `
name: minimal
description: "Minimal scenario"
tileset: tilesets/checkerboard.yaml
grid:
  size: [4, 4]
expect:
  outcome: done
`

func TestLoadScenario_ValidFile(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/checkerboard_pinned.yaml")
	require.NoError(t, err)

	assert.Equal(t, "checkerboard_pinned", scenario.Name)
	assert.Equal(t, filepath.Join("testdata", "tilesets", "checkerboard.yaml"), scenario.Tileset)
	assert.Equal(t, []int{8, 8}, scenario.Grid.Size)
	assert.Equal(t, uint64(42), scenario.Seed)
	require.NotNil(t, scenario.MaxRetryCount)
	assert.Equal(t, 0, *scenario.MaxRetryCount)
	require.Len(t, scenario.InitialNodes, 1)
	assert.Equal(t, []int{0, 0}, scenario.InitialNodes[0].At)
	assert.Equal(t, "white", scenario.InitialNodes[0].Model)
	assert.Equal(t, OutcomeDone, scenario.Expect.Outcome)
	assert.Len(t, scenario.Assertions, 7)
}

func TestLoadScenario_RelativeTilesetResolved(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "minimal.yaml", minimalScenario)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tilesets", "checkerboard.yaml"), scenario.Tileset)
	assert.Nil(t, scenario.MaxRetryCount)
	assert.Empty(t, scenario.NodeHeuristic)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_MissingTilesetFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tileset file not found")
}

func TestLoadScenario_UnknownFieldsRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "typo.yaml", minimalScenario+"assertion:\n  - type: checkerboard\n")

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "assertion")
}

func TestParseScenario_Empty(t *testing.T) {
	_, err := ParseScenario(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty document")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\ntileset: t\ngrid: {size: [2, 2]}\nexpect: {outcome: done}\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\ntileset: t\ngrid: {size: [2, 2]}\nexpect: {outcome: done}\n",
			wantErr: "description is required",
		},
		{
			name:    "missing tileset",
			content: "name: n\ndescription: d\ngrid: {size: [2, 2]}\nexpect: {outcome: done}\n",
			wantErr: "tileset is required",
		},
		{
			name:    "one extent",
			content: "name: n\ndescription: d\ntileset: t\ngrid: {size: [2]}\nexpect: {outcome: done}\n",
			wantErr: "grid.size must have 2 or 3 extents",
		},
		{
			name:    "zero extent",
			content: "name: n\ndescription: d\ntileset: t\ngrid: {size: [2, 0]}\nexpect: {outcome: done}\n",
			wantErr: "grid.size[1] must be positive",
		},
		{
			name:    "negative retries",
			content: "name: n\ndescription: d\ntileset: t\ngrid: {size: [2, 2]}\nmax_retry_count: -1\nexpect: {outcome: done}\n",
			wantErr: "max_retry_count must be non-negative",
		},
		{
			name:    "unknown heuristic",
			content: "name: n\ndescription: d\ntileset: t\ngrid: {size: [2, 2]}\nnode_heuristic: greedy\nexpect: {outcome: done}\n",
			wantErr: "node_heuristic",
		},
		{
			name:    "initial node wrong arity",
			content: "name: n\ndescription: d\ntileset: t\ngrid: {size: [2, 2]}\ninitial_nodes: [{at: [0, 0, 0], model: m}]\nexpect: {outcome: done}\n",
			wantErr: "initial_nodes[0]: at must have 2 coordinates",
		},
		{
			name:    "initial node without model",
			content: "name: n\ndescription: d\ntileset: t\ngrid: {size: [2, 2]}\ninitial_nodes: [{at: [0, 0]}]\nexpect: {outcome: done}\n",
			wantErr: "initial_nodes[0]: model is required",
		},
		{
			name:    "missing outcome",
			content: "name: n\ndescription: d\ntileset: t\ngrid: {size: [2, 2]}\n",
			wantErr: "expect.outcome is required",
		},
		{
			name:    "bad outcome",
			content: "name: n\ndescription: d\ntileset: t\ngrid: {size: [2, 2]}\nexpect: {outcome: maybe}\n",
			wantErr: "expect.outcome must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseScenario_AssertionTypes(t *testing.T) {
	const header = "name: n\ndescription: d\ntileset: t\ngrid: {size: [2, 2]}\nexpect: {outcome: done}\nassertions:\n"

	tests := []struct {
		name      string
		assertion string
		wantErr   string
	}{
		{"cell_model valid", "  - {type: cell_model, at: [1, 1], model: m}\n", ""},
		{"cell_model without at", "  - {type: cell_model, model: m}\n", "at must have 2 coordinates for cell_model"},
		{"cell_model without model", "  - {type: cell_model, at: [1, 1]}\n", "model is required for cell_model"},
		{"model_count valid", "  - {type: model_count, model: m, min: 1}\n", ""},
		{"model_count zero allowed", "  - {type: model_count, model: m, count: 0}\n", ""},
		{"model_count without bound", "  - {type: model_count, model: m}\n", "count, min or max is required"},
		{"model_count without model", "  - {type: model_count, count: 1}\n", "model is required for model_count"},
		{"try_count valid", "  - {type: try_count, max: 3}\n", ""},
		{"try_count without bound", "  - {type: try_count}\n", "count or max is required"},
		{"checkerboard", "  - {type: checkerboard}\n", ""},
		{"adjacency", "  - {type: adjacency}\n", ""},
		{"failed_node anywhere", "  - {type: failed_node}\n", ""},
		{"failed_node wrong arity", "  - {type: failed_node, at: [1]}\n", "at must have 2 coordinates for failed_node"},
		{"missing type", "  - {model: m}\n", "assertions[0]: type is required"},
		{"unknown type", "  - {type: trace_contains}\n", "unknown assertion type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(header + tt.assertion))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioDir(t *testing.T) {
	scenarios, err := LoadScenarioDir("testdata/scenarios")
	require.NoError(t, err)

	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"checkerboard_pinned", "coast_entropy", "odd_loop", "rules_gap"}, names)
}

func TestLoadScenarioDir_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "good.yaml", minimalScenario)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yml"), []byte("name: x\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	_, err := LoadScenarioDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yml")
}

func TestAssertionConstants(t *testing.T) {
	assert.Equal(t, "cell_model", AssertCellModel)
	assert.Equal(t, "model_count", AssertModelCount)
	assert.Equal(t, "try_count", AssertTryCount)
	assert.Equal(t, "checkerboard", AssertCheckerboard)
	assert.Equal(t, "adjacency", AssertAdjacency)
	assert.Equal(t, "failed_node", AssertFailedNode)
}
