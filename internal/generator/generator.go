package generator

import (
	"log/slog"

	"github.com/roach88/wfcgen/internal/grid"
	"github.com/roach88/wfcgen/internal/rules"
)

// GenerationStatus reports whether a generation still has undetermined nodes.
type GenerationStatus int

const (
	// Ongoing means at least one node has more than one possible variant.
	Ongoing GenerationStatus = iota
	// Done means every node has exactly one possible variant.
	Done
)

// String implements fmt.Stringer.
func (s GenerationStatus) String() string {
	if s == Done {
		return "done"
	}
	return "ongoing"
}

// GenInfo describes a finished Generate call.
type GenInfo struct {
	// TryCount is the number of attempts used, including the successful one.
	TryCount int `json:"try_count"`
}

// Generator runs wave function collapse of shared Rules over one Grid.
//
// Thread-safety: a Generator is NOT safe for concurrent use. Observers
// returned by Observe may be drained from other goroutines.
type Generator struct {
	internal *internalGenerator
	runID    string
	logger   *slog.Logger
}

// Seed returns the seed of the current attempt.
func (g *Generator) Seed() uint64 { return g.internal.seed }

// RunID returns the token identifying this generator in logs.
func (g *Generator) RunID() string { return g.runID }

// MaxRetryCount returns the retry budget of Generate.
func (g *Generator) MaxRetryCount() int { return g.internal.maxRetryCount }

// NodeHeuristic returns the node selection heuristic in use.
func (g *Generator) NodeHeuristic() NodeSelectionHeuristic { return g.internal.nodeHeuristic }

// Grid returns the grid being generated.
func (g *Generator) Grid() *grid.Grid { return g.internal.grid }

// Rules returns the shared rules.
func (g *Generator) Rules() *rules.Rules { return g.internal.rules }

// Status returns Done once every node is determined.
func (g *Generator) Status() GenerationStatus {
	if g.internal.status == statusDone {
		return Done
	}
	return Ongoing
}

// Failed reports whether the last operation ended in a contradiction and the
// node it happened on.
func (g *Generator) Failed() (int, bool) {
	if g.internal.status != statusFailed {
		return -1, false
	}
	return g.internal.failedNode, true
}

// PossibleCount returns the number of variants still possible at node.
func (g *Generator) PossibleCount(node int) int {
	return g.internal.possibleCounts[node]
}

// Observe registers a new observer. It receives every update emitted from
// now on.
func (g *Generator) Observe() *Observer {
	q := newUpdateQueue()
	g.internal.observers = append(g.internal.observers, q)
	return &Observer{queue: q}
}

// Reinitialize draws a new seed from the RNG and restarts from pregen.
// Initial nodes and memorized nodes are replayed.
func (g *Generator) Reinitialize() error {
	return g.internal.reinitialize()
}

// SelectAndPropagate runs one selection cycle: pick a node, pick a variant,
// collapse and propagate. A Done or failed generator is reinitialized first.
func (g *Generator) SelectAndPropagate() (GenerationStatus, error) {
	if err := g.prepareStep(); err != nil {
		return Ongoing, err
	}
	return g.internal.selectAndPropagate()
}

// SelectAndPropagateCollected is SelectAndPropagate returning the nodes
// generated during the cycle.
func (g *Generator) SelectAndPropagateCollected() (GenerationStatus, []GeneratedNode, error) {
	status := Ongoing
	nodes, err := g.internal.collect(func() error {
		if err := g.prepareStep(); err != nil {
			return err
		}
		var err error
		status, err = g.internal.selectAndPropagate()
		return err
	})
	return status, nodes, err
}

func (g *Generator) prepareStep() error {
	if g.internal.status == statusOngoing {
		return nil
	}
	return g.internal.reinitialize()
}

// SetAndPropagate forces node to instance and propagates.
//
// With memorize, the node is replayed on every reinitialization like an
// initial node. Setting a node to the variant it already has is a no-op.
// Returns *NodeSetError when the set is rejected (state unchanged) and
// *GeneratorError when propagation contradicts.
func (g *Generator) SetAndPropagate(node int, instance rules.ModelInstance, memorize bool) (GenerationStatus, error) {
	variant, err := g.checkSet(node, instance)
	if err != nil {
		return g.Status(), err
	}
	return g.setAndPropagate(node, variant, memorize)
}

// SetAndPropagateCollected is SetAndPropagate returning the nodes generated
// by the set and its propagation.
func (g *Generator) SetAndPropagateCollected(node int, instance rules.ModelInstance, memorize bool) (GenerationStatus, []GeneratedNode, error) {
	variant, err := g.checkSet(node, instance)
	if err != nil {
		return g.Status(), nil, err
	}
	status := Ongoing
	nodes, err := g.internal.collect(func() error {
		var err error
		status, err = g.setAndPropagate(node, variant, memorize)
		return err
	})
	return status, nodes, err
}

func (g *Generator) checkSet(node int, instance rules.ModelInstance) (int, error) {
	if node < 0 || node >= g.internal.nodeCount {
		return -1, &NodeSetError{Code: ErrCodeInvalidNode, NodeIndex: node, Variant: -1}
	}
	variant, ok := g.internal.rules.VariantIndex(instance)
	if !ok {
		return -1, &NodeSetError{Code: ErrCodeInvalidVariant, NodeIndex: node, Variant: -1}
	}
	if pinned, ok := g.internal.pinned(node); ok && pinned != variant {
		return -1, &NodeSetError{Code: ErrCodeAlreadySet, NodeIndex: node, Variant: variant}
	}
	return variant, nil
}

func (g *Generator) setAndPropagate(node, variant int, memorize bool) (GenerationStatus, error) {
	in := g.internal
	if in.status == statusFailed {
		if err := in.reinitialize(); err != nil {
			return Ongoing, err
		}
	}
	if err := in.applyNode(node, variant); err != nil {
		return Ongoing, err
	}
	if _, ok := in.pinned(node); memorize && !ok {
		in.initialNodes = append(in.initialNodes, nodeVariant{node: node, variant: variant})
	}
	return in.refreshStatus(), nil
}

// Generate runs to completion, retrying contradictions up to MaxRetryCount
// times with seeds drawn from the RNG. A generator that is Done or Failed is
// reinitialized first. The result is read with ToGridData or through
// observers.
func (g *Generator) Generate() (GenInfo, error) {
	return g.internal.generate()
}

// GenerateGrid runs Generate and materializes the result.
func (g *Generator) GenerateGrid() (*grid.GridData[rules.ModelInstance], GenInfo, error) {
	info, err := g.internal.generate()
	if err != nil {
		return nil, info, err
	}
	return g.result(), info, nil
}

// GenerateCollected runs Generate and returns every node of the final grid
// in the order it was determined. When the generation is Ongoing, nodes
// already determined before the call come first, in node order.
func (g *Generator) GenerateCollected() ([]GeneratedNode, GenInfo, error) {
	in := g.internal
	var before []GeneratedNode
	if in.status == statusOngoing {
		before = g.determined()
	}
	epoch := in.epoch

	var info GenInfo
	nodes, err := in.collect(func() error {
		var err error
		info, err = in.generate()
		return err
	})
	if err != nil {
		return nil, info, err
	}
	if in.epoch != epoch {
		return nodes, info, nil
	}
	return append(before, nodes...), info, nil
}

func (g *Generator) determined() []GeneratedNode {
	in := g.internal
	var nodes []GeneratedNode
	for node := 0; node < in.nodeCount; node++ {
		if in.possibleCounts[node] != 1 {
			continue
		}
		v := in.firstPossible(node)
		nodes = append(nodes, GeneratedNode{NodeIndex: node, VariantIndex: v, Instance: in.rules.Instance(v)})
	}
	return nodes
}

// ToGridData returns the current state: determined nodes hold their
// instance, the others nil.
func (g *Generator) ToGridData() *grid.GridData[*rules.ModelInstance] {
	in := g.internal
	data := grid.NewFilledGridData[*rules.ModelInstance](in.grid, nil)
	for node := 0; node < in.nodeCount; node++ {
		if in.possibleCounts[node] != 1 {
			continue
		}
		inst := in.rules.Instance(in.firstPossible(node))
		data.Set(node, &inst)
	}
	return data
}

func (g *Generator) result() *grid.GridData[rules.ModelInstance] {
	in := g.internal
	nodes := make([]rules.ModelInstance, in.nodeCount)
	for node := range nodes {
		nodes[node] = in.rules.Instance(in.firstPossible(node))
	}
	data, err := grid.NewGridData(in.grid, nodes)
	if err != nil {
		// Lengths come from the same grid.
		panic(err)
	}
	return data
}
