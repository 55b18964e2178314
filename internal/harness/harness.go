package harness

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/wfcgen/internal/compiler"
	"github.com/roach88/wfcgen/internal/generator"
	"github.com/roach88/wfcgen/internal/grid"
	"github.com/roach88/wfcgen/internal/rules"
	"github.com/roach88/wfcgen/internal/testutil"
)

// Harness runs one scenario with a deterministic seed and run token.
type Harness struct {
	scenario *Scenario
	compiled *compiler.Compiled
	grid     *grid.Grid
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Load and compile the tileset, build the grid
//  2. Build a seeded generator; a pregen contradiction is a failed outcome
//  3. Attach an observer, then set the initial nodes with memorize so they
//     survive retries and appear in the trace
//  4. Generate within the retry budget
//  5. Check the outcome and evaluate assertions
//
// Run returns an error only when the scenario cannot be executed at all:
// unreadable tileset, invalid grid, unknown pinned model, or an illegal pin.
func Run(scenario *Scenario) (*Result, error) {
	compiled, err := compiler.LoadAndCompile(scenario.Tileset)
	if err != nil {
		return nil, fmt.Errorf("failed to load tileset: %w", err)
	}

	g, err := grid.New(scenario.Grid.Size, scenario.Grid.Looping)
	if err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}

	h := &Harness{
		scenario: scenario,
		compiled: compiled,
		grid:     g,
		logger:   testutil.DiscardLogger(), // Suppress logs in tests
	}

	pins, err := h.resolveInitialNodes()
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.compiled = compiled

	gen, err := generator.New(compiled.Rules, g, h.options()...)
	if err != nil {
		var be *generator.BuilderError
		if !errors.As(err, &be) || be.Code != generator.ErrCodeInitialContradiction {
			return nil, fmt.Errorf("failed to build generator: %w", err)
		}
		h.recordFailure(result, err)
	} else if err := h.generate(gen, pins, result); err != nil {
		return nil, err
	}

	if result.Outcome != scenario.Expect.Outcome {
		msg := fmt.Sprintf("expected outcome %s, got %s", scenario.Expect.Outcome, result.Outcome)
		if result.FailedNode != nil {
			msg += fmt.Sprintf(" (contradiction at %s)", result.FailedNode)
		}
		result.AddError(msg)
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

func (h *Harness) options() []generator.Option {
	// Validated by LoadScenario; an empty name selects mrv.
	heuristic, _ := generator.ParseNodeSelectionHeuristic(h.scenario.NodeHeuristic)

	opts := []generator.Option{
		generator.WithRngMode(generator.Seeded(h.scenario.Seed)),
		generator.WithNodeHeuristic(heuristic),
		generator.WithLogger(h.logger),
		generator.WithRunTokens(testutil.NewFixedRunTokens(h.scenario.RunToken)),
	}
	if h.scenario.MaxRetryCount != nil {
		opts = append(opts, generator.WithMaxRetryCount(*h.scenario.MaxRetryCount))
	}
	return opts
}

// resolveInitialNodes maps scenario pins to node indices and instances.
func (h *Harness) resolveInitialNodes() ([]generator.InitialNode, error) {
	pins := make([]generator.InitialNode, 0, len(h.scenario.InitialNodes))
	for i, spec := range h.scenario.InitialNodes {
		node, err := h.nodeAt(spec.At)
		if err != nil {
			return nil, fmt.Errorf("initial_nodes[%d]: %w", i, err)
		}
		inst, err := h.instance(spec.Model, spec.Rotation)
		if err != nil {
			return nil, fmt.Errorf("initial_nodes[%d]: %w", i, err)
		}
		pins = append(pins, generator.InitialNode{NodeIndex: node, Instance: inst})
	}
	return pins, nil
}

func (h *Harness) generate(gen *generator.Generator, pins []generator.InitialNode, result *Result) error {
	obs := gen.Observe()
	defer obs.Close()

	for i, pin := range pins {
		_, err := gen.SetAndPropagate(pin.NodeIndex, pin.Instance, true)
		if err == nil {
			continue
		}
		result.Trace = append(result.Trace, obs.DrainAll()...)
		if generator.IsNodeSetError(err) {
			return fmt.Errorf("initial_nodes[%d]: %w", i, err)
		}
		result.TryCount = 1
		h.recordFailure(result, err)
		return nil
	}

	data, info, err := gen.GenerateGrid()
	result.Trace = append(result.Trace, obs.DrainAll()...)
	result.TryCount = info.TryCount
	if err != nil {
		h.recordFailure(result, err)
		return nil
	}

	result.Outcome = OutcomeDone
	result.data = data
	result.Rows = h.compiled.Render(data)
	return nil
}

func (h *Harness) recordFailure(result *Result, err error) {
	result.Outcome = OutcomeFailed
	var ge *generator.GeneratorError
	if errors.As(err, &ge) {
		c := h.grid.Coordinates(ge.NodeIndex)
		result.FailedNode = &c
	}
}

func (h *Harness) nodeAt(at []int) (int, error) {
	c := coordinates(at)
	node, ok := h.grid.IndexChecked(c)
	if !ok {
		return -1, fmt.Errorf("position %s is outside grid %s", c, h.grid)
	}
	return node, nil
}

func (h *Harness) instance(model string, degrees int) (rules.ModelInstance, error) {
	m, ok := h.compiled.ModelIndex(norm.NFC.String(model))
	if !ok {
		return rules.ModelInstance{}, fmt.Errorf("unknown model %q", model)
	}
	rot, err := rules.RotationFromDegrees(degrees)
	if err != nil {
		return rules.ModelInstance{}, err
	}
	return rules.ModelInstance{ModelIndex: m, Rotation: rot}, nil
}

func coordinates(at []int) grid.Coordinates {
	c := grid.Coordinates{X: at[0], Y: at[1]}
	if len(at) > 2 {
		c.Z = at[2]
	}
	return c
}
