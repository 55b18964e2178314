package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/wfcgen/internal/generator"
)

// Scenario defines a conformance scenario: a tileset, a grid, a seeded
// generation and the assertions its outcome must satisfy.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Tileset is the path of a CUE or YAML tileset.
	// Relative paths are resolved against the scenario file location.
	Tileset string `yaml:"tileset"`

	// Grid is the grid to generate on.
	Grid GridSpec `yaml:"grid"`

	// Seed seeds the generator.
	Seed uint64 `yaml:"seed"`

	// MaxRetryCount overrides generator.DefaultMaxRetryCount when set.
	MaxRetryCount *int `yaml:"max_retry_count,omitempty"`

	// NodeHeuristic is mrv, entropy or random. Defaults to mrv.
	NodeHeuristic string `yaml:"node_heuristic,omitempty"`

	// InitialNodes are set before generation and kept across retries.
	InitialNodes []InitialNodeSpec `yaml:"initial_nodes,omitempty"`

	// Expect is the expected outcome of the generation.
	Expect Expectation `yaml:"expect"`

	// Assertions validate the generated grid and the run.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RunToken is an optional run token prefix; the generator is then
	// named "<run_token>-1". If empty, defaults to "test-run-default".
	RunToken string `yaml:"run_token,omitempty"`
}

// GridSpec describes a cartesian grid.
type GridSpec struct {
	// Size holds two or three extents.
	Size []int `yaml:"size"`

	// Looping lists the wrapping axes, e.g. "xy".
	Looping string `yaml:"looping,omitempty"`
}

// InitialNodeSpec pins the node at At to a model.
type InitialNodeSpec struct {
	At       []int  `yaml:"at"`
	Model    string `yaml:"model"`
	Rotation int    `yaml:"rotation,omitempty"`
}

// Expectation is the expected end state of a scenario.
type Expectation struct {
	// Outcome is "done" or "failed".
	Outcome string `yaml:"outcome"`
}

// Outcome values.
const (
	OutcomeDone   = "done"
	OutcomeFailed = "failed"
)

// Assertion validates the generated grid or the run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "cell_model": the node at At holds Model (and Rotation if set)
	// - "model_count": Model appears Count times, or within [Min, Max]
	// - "try_count": the run used Count attempts, or at most Max
	// - "checkerboard": no two adjacent nodes hold the same model
	// - "adjacency": every adjacent pair is allowed by the rules
	// - "failed_node": the run failed, at At if set
	Type string `yaml:"type"`

	// At is a node position (cell_model, failed_node).
	At []int `yaml:"at,omitempty"`

	// Model is a model name (cell_model, model_count).
	Model string `yaml:"model,omitempty"`

	// Rotation is the expected rotation in degrees (cell_model).
	Rotation *int `yaml:"rotation,omitempty"`

	// Count is an exact expected count (model_count, try_count).
	Count *int `yaml:"count,omitempty"`

	// Min and Max bound a count (model_count, try_count).
	Min *int `yaml:"min,omitempty"`
	Max *int `yaml:"max,omitempty"`
}

// Assertion type constants.
const (
	AssertCellModel    = "cell_model"
	AssertModelCount   = "model_count"
	AssertTryCount     = "try_count"
	AssertCheckerboard = "checkerboard"
	AssertAdjacency    = "adjacency"
	AssertFailedNode   = "failed_node"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// The tileset path is resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Tileset != "" && !filepath.IsAbs(scenario.Tileset) {
		scenario.Tileset = filepath.Join(filepath.Dir(path), scenario.Tileset)
	}
	if _, err := os.Stat(scenario.Tileset); err != nil {
		return nil, fmt.Errorf("invalid scenario: tileset file not found: %s", scenario.Tileset)
	}
	return scenario, nil
}

// ParseScenario parses a scenario document without touching the
// filesystem.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml and *.yml scenario in dir, sorted by
// file name. Subdirectories are not searched.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var scenarios []*Scenario
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		s, err := LoadScenario(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Tileset == "" {
		return fmt.Errorf("tileset is required")
	}

	if n := len(s.Grid.Size); n != 2 && n != 3 {
		return fmt.Errorf("grid.size must have 2 or 3 extents, got %d", n)
	}
	for i, v := range s.Grid.Size {
		if v <= 0 {
			return fmt.Errorf("grid.size[%d] must be positive, got %d", i, v)
		}
	}

	if s.MaxRetryCount != nil && *s.MaxRetryCount < 0 {
		return fmt.Errorf("max_retry_count must be non-negative")
	}

	if s.NodeHeuristic != "" {
		if _, err := generator.ParseNodeSelectionHeuristic(s.NodeHeuristic); err != nil {
			return fmt.Errorf("node_heuristic: %w", err)
		}
	}

	for i, n := range s.InitialNodes {
		if len(n.At) != len(s.Grid.Size) {
			return fmt.Errorf("initial_nodes[%d]: at must have %d coordinates", i, len(s.Grid.Size))
		}
		if n.Model == "" {
			return fmt.Errorf("initial_nodes[%d]: model is required", i)
		}
	}

	switch s.Expect.Outcome {
	case OutcomeDone, OutcomeFailed:
	case "":
		return fmt.Errorf("expect.outcome is required")
	default:
		return fmt.Errorf("expect.outcome must be %q or %q, got %q", OutcomeDone, OutcomeFailed, s.Expect.Outcome)
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], len(s.Grid.Size)); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, dims int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCellModel:
		if len(a.At) != dims {
			return fmt.Errorf("assertions[%d]: at must have %d coordinates for cell_model", index, dims)
		}
		if a.Model == "" {
			return fmt.Errorf("assertions[%d]: model is required for cell_model", index)
		}
	case AssertModelCount:
		if a.Model == "" {
			return fmt.Errorf("assertions[%d]: model is required for model_count", index)
		}
		if a.Count == nil && a.Min == nil && a.Max == nil {
			return fmt.Errorf("assertions[%d]: count, min or max is required for model_count", index)
		}
	case AssertTryCount:
		if a.Count == nil && a.Max == nil {
			return fmt.Errorf("assertions[%d]: count or max is required for try_count", index)
		}
	case AssertCheckerboard, AssertAdjacency:
	case AssertFailedNode:
		if a.At != nil && len(a.At) != dims {
			return fmt.Errorf("assertions[%d]: at must have %d coordinates for failed_node", index, dims)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
