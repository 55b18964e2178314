package generator

import (
	"log/slog"
	"math/rand/v2"

	"github.com/roach88/wfcgen/internal/grid"
	"github.com/roach88/wfcgen/internal/rules"
)

type internalStatus int

const (
	statusOngoing internalStatus = iota
	statusDone
	statusFailed
)

type nodeVariant struct {
	node    int
	variant int
}

// internalGenerator owns the mutable possibility state of one generation.
//
// CRITICAL: not safe for concurrent use. Every method runs on the goroutine
// driving the owning Generator.
//
// INVARIANTS (within an attempt):
//   - possibleCounts[n] == popcount of row n of nodes
//   - a banned (node, variant) has all its support counts at 0
//   - support counts never increase
//   - every (node, variant) is pushed on the stack at most once
type internalGenerator struct {
	rules *rules.Rules
	grid  *grid.Grid

	maxRetryCount int
	rngMode       RngMode
	seed          uint64
	rng           *rand.Rand

	nodeHeuristic NodeSelectionHeuristic
	nodeSelector  nodeSelector
	modelSelector modelSelector

	status     internalStatus
	failedNode int

	nodeCount    int
	variantCount int
	dirCount     int

	nodes          bitset
	possibleCounts []int
	supports       []int32
	stack          []nodeVariant

	// initialNodes are replayed in order by every pregen.
	initialNodes []nodeVariant

	// epoch counts reinitializations.
	epoch int

	observers []*updateQueue
	clock     *Clock
	collector *[]GeneratedNode

	logger *slog.Logger
}

func newInternalGenerator(r *rules.Rules, g *grid.Grid, cfg *config, logger *slog.Logger) (*internalGenerator, error) {
	ns, err := newNodeSelector(cfg.nodeHeuristic)
	if err != nil {
		return nil, err
	}
	ms, err := newModelSelector(cfg.modelHeuristic)
	if err != nil {
		return nil, err
	}

	nodeCount, variantCount, dirCount := g.Size(), r.VariantCount(), g.DirectionCount()
	return &internalGenerator{
		rules:          r,
		grid:           g,
		maxRetryCount:  cfg.maxRetryCount,
		rngMode:        cfg.rngMode,
		nodeHeuristic:  cfg.nodeHeuristic,
		nodeSelector:   ns,
		modelSelector:  ms,
		failedNode:     -1,
		nodeCount:      nodeCount,
		variantCount:   variantCount,
		dirCount:       dirCount,
		nodes:          newBitset(nodeCount * variantCount),
		possibleCounts: make([]int, nodeCount),
		supports:       make([]int32, nodeCount*variantCount*dirCount),
		clock:          NewClock(),
		logger:         logger,
	}, nil
}

func (g *internalGenerator) possible(node, variant int) bool {
	return g.nodes.test(node*g.variantCount + variant)
}

func (g *internalGenerator) supportIndex(node, variant, dir int) int {
	return (node*g.variantCount+variant)*g.dirCount + dir
}

// firstPossible returns the lowest possible variant of node, or -1.
func (g *internalGenerator) firstPossible(node int) int {
	for v := 0; v < g.variantCount; v++ {
		if g.possible(node, v) {
			return v
		}
	}
	return -1
}

// reset clears every piece of mutable state and reseeds the RNG.
func (g *internalGenerator) reset(seed uint64) {
	g.seed = seed
	g.rng = newRNG(seed)
	g.status = statusOngoing
	g.failedNode = -1
	g.stack = g.stack[:0]

	g.nodes.setFirst(g.nodeCount * g.variantCount)
	for i := range g.possibleCounts {
		g.possibleCounts[i] = g.variantCount
	}

	for node := 0; node < g.nodeCount; node++ {
		for d := 0; d < g.dirCount; d++ {
			dir := grid.Direction(d)
			_, hasNeighbour := g.grid.Neighbour(node, dir)
			for v := 0; v < g.variantCount; v++ {
				count := int32(0)
				if hasNeighbour {
					count = int32(len(g.rules.Allowed(v, dir)))
				}
				g.supports[g.supportIndex(node, v, d)] = count
			}
		}
	}

	g.nodeSelector.reset(g)
}

// pregen bans variants the rules can never place, propagates, and replays
// the initial nodes. Its outcome depends only on rules, grid and initial
// nodes, never on the seed.
func (g *internalGenerator) pregen() error {
	for node := 0; node < g.nodeCount; node++ {
		for v := 0; v < g.variantCount; v++ {
			for d := 0; d < g.dirCount; d++ {
				// Zero supports on a border is not a rules gap.
				if _, ok := g.grid.Neighbour(node, grid.Direction(d)); !ok {
					continue
				}
				if g.supports[g.supportIndex(node, v, d)] != 0 {
					continue
				}
				if !g.ban(node, v) {
					return g.fail(node)
				}
				break
			}
		}
	}
	if err := g.propagate(); err != nil {
		return err
	}

	for _, nv := range g.initialNodes {
		if err := g.applyNode(nv.node, nv.variant); err != nil {
			return err
		}
	}
	g.refreshStatus()
	return nil
}

// ban removes variant from node and queues the removal for propagation.
// Returns false if node has no possible variant left.
func (g *internalGenerator) ban(node, variant int) bool {
	bit := node*g.variantCount + variant
	if !g.nodes.test(bit) {
		return true
	}
	g.nodes.clear(bit)
	base := bit * g.dirCount
	for d := 0; d < g.dirCount; d++ {
		g.supports[base+d] = 0
	}
	g.possibleCounts[node]--
	g.nodeSelector.onBan(node, variant)
	g.stack = append(g.stack, nodeVariant{node: node, variant: variant})

	switch g.possibleCounts[node] {
	case 0:
		return false
	case 1:
		g.emitGenerated(node, g.firstPossible(node))
	}
	return true
}

// collapse bans every variant of node except chosen. chosen must be possible.
func (g *internalGenerator) collapse(node, chosen int) {
	for v := 0; v < g.variantCount; v++ {
		if v == chosen {
			continue
		}
		bit := node*g.variantCount + v
		if !g.nodes.test(bit) {
			continue
		}
		g.nodes.clear(bit)
		base := bit * g.dirCount
		for d := 0; d < g.dirCount; d++ {
			g.supports[base+d] = 0
		}
		g.nodeSelector.onBan(node, v)
		g.stack = append(g.stack, nodeVariant{node: node, variant: v})
	}
	g.possibleCounts[node] = 1
	g.emitGenerated(node, chosen)
}

// propagate drains the ban stack to a fixpoint or a contradiction.
func (g *internalGenerator) propagate() error {
	for len(g.stack) > 0 {
		item := g.stack[len(g.stack)-1]
		g.stack = g.stack[:len(g.stack)-1]

		for d := 0; d < g.dirCount; d++ {
			dir := grid.Direction(d)
			neighbour, ok := g.grid.Neighbour(item.node, dir)
			if !ok {
				continue
			}
			// Seen from the neighbour, item.node lies in the opposite direction.
			back := int(dir.Opposite())
			for _, u := range g.rules.Allowed(item.variant, dir) {
				idx := g.supportIndex(neighbour, u, back)
				if g.supports[idx] == 0 {
					continue
				}
				g.supports[idx]--
				if g.supports[idx] == 0 && !g.ban(neighbour, u) {
					return g.fail(neighbour)
				}
			}
		}
	}
	return nil
}

func (g *internalGenerator) fail(node int) error {
	g.status = statusFailed
	g.failedNode = node
	g.stack = g.stack[:0]
	g.emit(GenerationUpdate{Kind: UpdateFailed, NodeIndex: node})
	return &GeneratorError{NodeIndex: node}
}

// refreshStatus marks the generation done once every node is determined.
func (g *internalGenerator) refreshStatus() GenerationStatus {
	if g.status == statusFailed {
		return Ongoing
	}
	for _, count := range g.possibleCounts {
		if count > 1 {
			g.status = statusOngoing
			return Ongoing
		}
	}
	g.status = statusDone
	return Done
}

// applyNode collapses node to variant and propagates. Setting a node to the
// variant it already holds is a no-op.
func (g *internalGenerator) applyNode(node, variant int) error {
	if !g.possible(node, variant) {
		return &NodeSetError{Code: ErrCodeIllegalVariant, NodeIndex: node, Variant: variant}
	}
	if g.possibleCounts[node] == 1 {
		return nil
	}
	g.collapse(node, variant)
	return g.propagate()
}

func (g *internalGenerator) pinned(node int) (int, bool) {
	for _, nv := range g.initialNodes {
		if nv.node == node {
			return nv.variant, true
		}
	}
	return -1, false
}

// reinitialize draws the next seed from the current RNG, resets and reruns
// pregen. A pregen contradiction here is returned as is and never retried.
func (g *internalGenerator) reinitialize() error {
	seed := g.rng.Uint64()
	g.logger.Debug("reinitializing", "seed", seed, "previous_seed", g.seed)
	g.emit(GenerationUpdate{Kind: UpdateReinitializing, Seed: seed})
	g.epoch++
	g.reset(seed)
	return g.pregen()
}

// selectAndPropagate runs one selection cycle.
func (g *internalGenerator) selectAndPropagate() (GenerationStatus, error) {
	node, ok := g.nodeSelector.selectNode(g)
	if !ok {
		g.status = statusDone
		return Done, nil
	}
	variant := g.modelSelector.selectVariant(g, node)
	g.collapse(node, variant)
	if err := g.propagate(); err != nil {
		return Ongoing, err
	}
	return g.refreshStatus(), nil
}

func (g *internalGenerator) runToCompletion() error {
	for {
		status, err := g.selectAndPropagate()
		if err != nil {
			return err
		}
		if status == Done {
			return nil
		}
	}
}

// generate runs attempts until one succeeds or the retry budget is spent.
// An attempt starts with a reinitialization unless the generation is
// Ongoing, so a Done generator produces a fresh grid.
func (g *internalGenerator) generate() (GenInfo, error) {
	budget := newRetryBudget(g.maxRetryCount)
	var lastErr error
	for budget.next() {
		if g.status != statusOngoing {
			if err := g.reinitialize(); err != nil {
				return GenInfo{TryCount: budget.attempts()}, err
			}
		}
		err := g.runToCompletion()
		if err == nil {
			g.logger.Info("generation done", "seed", g.seed, "tries", budget.attempts())
			return GenInfo{TryCount: budget.attempts()}, nil
		}
		lastErr = err
		g.logger.Warn("generation contradiction",
			"seed", g.seed,
			"node", g.failedNode,
			"try", budget.attempts(),
			"max_tries", budget.limit(),
		)
	}
	return GenInfo{TryCount: budget.attempts()}, lastErr
}

func (g *internalGenerator) emitGenerated(node, variant int) {
	g.emit(GenerationUpdate{
		Kind: UpdateGenerated,
		Node: GeneratedNode{
			NodeIndex:    node,
			VariantIndex: variant,
			Instance:     g.rules.Instance(variant),
		},
	})
}

// emit stamps u and publishes it to every live observer. Closed observers
// are dropped.
func (g *internalGenerator) emit(u GenerationUpdate) {
	u.Seq = g.clock.Next()
	if g.collector != nil {
		switch u.Kind {
		case UpdateGenerated:
			*g.collector = append(*g.collector, u.Node)
		case UpdateReinitializing:
			*g.collector = (*g.collector)[:0]
		}
	}
	live := g.observers[:0]
	for _, q := range g.observers {
		if q.Enqueue(u) {
			live = append(live, q)
		}
	}
	for i := len(live); i < len(g.observers); i++ {
		g.observers[i] = nil
	}
	g.observers = live
}

// collect runs fn while recording the nodes generated since the last
// reinitialization.
func (g *internalGenerator) collect(fn func() error) ([]GeneratedNode, error) {
	var nodes []GeneratedNode
	g.collector = &nodes
	defer func() { g.collector = nil }()
	err := fn()
	return nodes, err
}
