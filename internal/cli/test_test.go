package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pinnedScenario = `name: pinned
tileset: tilesets/checkerboard.yaml
grid:
  size: [4, 2]
seed: 3
initial_nodes:
  - at: [0, 0]
    model: white
expect:
  outcome: done
assertions:
  - type: checkerboard
  - type: model_count
    model: black
    count: 4
`

const pinnedSnapshot = `scenario: pinned
seed: 3
outcome: done
tries: 1
updates: generated=16 reinitializing=1 failed=0
grid:
  .#.#
  #.#.
`

// scenarioDir writes the checkerboard tileset and the given scenarios into
// a fresh directory.
func scenarioDir(t *testing.T, scenarios map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "tilesets/checkerboard.yaml", checkerboardTileset)
	for name, content := range scenarios {
		writeFile(t, dir, name, content)
	}
	return dir
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := runCLI(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	out, _, err := runCLI(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, _, err := runCLI(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyDirJSON(t *testing.T) {
	out, _, err := runCLI(t, "test", t.TempDir(), "--format", "json")
	require.NoError(t, err)

	var result TestResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, result.Total)
}

func TestTestCommandPassing(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"pinned.yaml": pinnedScenario})

	out, _, err := runCLI(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ pinned")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommandFailingAssertion(t *testing.T) {
	failing := pinnedScenario + `  - type: cell_model
    at: [0, 0]
    model: black
`
	dir := scenarioDir(t, map[string]string{"pinned.yaml": failing})

	out, _, err := runCLI(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ pinned")
	assert.Contains(t, out, "Assertion failed: cell_model")
	assert.Contains(t, out, "0 passed, 1 failed")
}

func TestTestCommandFailingJSON(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"pinned.yaml": pinnedScenario,
		"broken.yaml": "name: broken\n",
	})

	out, _, err := runCLI(t, "test", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result TestResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
}

func TestTestCommandUpdateThenCompare(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"pinned.yaml": pinnedScenario})

	out, _, err := runCLI(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ pinned (golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "pinned.golden"))
	require.NoError(t, err)
	assert.Equal(t, pinnedSnapshot, string(golden))

	_, _, err = runCLI(t, "test", dir)
	require.NoError(t, err)
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"pinned.yaml": pinnedScenario})
	writeFile(t, dir, "golden/pinned.golden", "scenario: pinned\nseed: 4\n")

	out, _, err := runCLI(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "snapshot does not match")
	assert.Contains(t, out, "-golden +got")
}

func TestTestCommandFilter(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"pinned.yaml": pinnedScenario,
		"other.yaml":  "name: other\n",
	})

	out, _, err := runCLI(t, "test", dir, "--filter", "pin*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	out, _, err := runCLI(t, "test", filepath.Join("..", "harness", "testdata", "scenarios"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "4 passed, 0 failed, 4 total")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "")
	writeFile(t, dir, "b.yml", "")
	writeFile(t, dir, "notes.txt", "")
	writeFile(t, dir, "nested/c.yaml", "")
	writeFile(t, dir, "golden/a.golden", "")
	writeFile(t, dir, "golden/stray.yaml", "")

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "nested", "c.yaml"),
	}, files)

	files, err = findScenarioFiles(dir, "[ab]")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = findScenarioFiles(dir, "[")
	assert.Error(t, err)
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "coast.golden"),
		goldenFilePath(filepath.Join("scenarios", "coast.yaml")))
}
