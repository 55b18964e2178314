package generator

import (
	"fmt"
	"math"
	"strings"
)

// tieBreakEpsilon scales the noise added to every candidate score. It is far
// below the smallest difference between two remaining-value counts, so
// integer scores are only reordered on exact ties. Entropy scores closer
// than the epsilon may also swap.
const tieBreakEpsilon = 1e-6

// NodeSelectionHeuristic chooses which undetermined node collapses next.
type NodeSelectionHeuristic int

const (
	// MinimumRemainingValue picks the node with the fewest possible variants.
	MinimumRemainingValue NodeSelectionHeuristic = iota

	// MinimumEntropy picks the node with the lowest Shannon entropy over the
	// weights of its possible variants.
	MinimumEntropy

	// Random picks any undetermined node uniformly. It contradicts far more
	// often than the other heuristics and is kept for comparison.
	Random
)

// String implements fmt.Stringer.
func (h NodeSelectionHeuristic) String() string {
	switch h {
	case MinimumRemainingValue:
		return "mrv"
	case MinimumEntropy:
		return "entropy"
	case Random:
		return "random"
	default:
		return fmt.Sprintf("NodeSelectionHeuristic(%d)", int(h))
	}
}

// ParseNodeSelectionHeuristic parses the names used by the CLI and scenarios.
func ParseNodeSelectionHeuristic(s string) (NodeSelectionHeuristic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mrv", "minimum_remaining_value":
		return MinimumRemainingValue, nil
	case "entropy", "minimum_entropy":
		return MinimumEntropy, nil
	case "random":
		return Random, nil
	}
	return MinimumRemainingValue, fmt.Errorf("unknown node heuristic %q: must be one of mrv, entropy, random", s)
}

// ModelSelectionHeuristic chooses the variant a selected node collapses to.
type ModelSelectionHeuristic int

const (
	// WeightedProbability samples possible variants proportionally to their
	// weight.
	WeightedProbability ModelSelectionHeuristic = iota
)

// String implements fmt.Stringer.
func (h ModelSelectionHeuristic) String() string {
	if h == WeightedProbability {
		return "weighted"
	}
	return fmt.Sprintf("ModelSelectionHeuristic(%d)", int(h))
}

// nodeSelector is the internal contract of a node selection heuristic.
type nodeSelector interface {
	// reset rebuilds any cache from a freshly reset generator.
	reset(g *internalGenerator)
	// onBan is called once for every banned (node, variant).
	onBan(node, variant int)
	// selectNode returns an undetermined node, or false if none remain.
	selectNode(g *internalGenerator) (int, bool)
}

func newNodeSelector(h NodeSelectionHeuristic) (nodeSelector, error) {
	switch h {
	case MinimumRemainingValue:
		return minimumRemainingValue{}, nil
	case MinimumEntropy:
		return &minimumEntropy{}, nil
	case Random:
		return &randomNode{}, nil
	}
	return nil, fmt.Errorf("unsupported node heuristic %d", int(h))
}

type minimumRemainingValue struct{}

func (minimumRemainingValue) reset(*internalGenerator) {}

func (minimumRemainingValue) onBan(int, int) {}

func (minimumRemainingValue) selectNode(g *internalGenerator) (int, bool) {
	best, bestScore := -1, math.MaxFloat64
	for node, count := range g.possibleCounts {
		if count <= 1 {
			continue
		}
		score := float64(count) + g.rng.Float64()*tieBreakEpsilon
		if score < bestScore {
			best, bestScore = node, score
		}
	}
	return best, best >= 0
}

// minimumEntropy keeps a running (Σw, Σw·ln w) per node so each ban costs O(1).
type minimumEntropy struct {
	weights    []float64
	weightLogs []float64
	sums       []float64
	logSums    []float64
}

func (h *minimumEntropy) reset(g *internalGenerator) {
	if len(h.weights) != g.variantCount {
		h.weights = make([]float64, g.variantCount)
		h.weightLogs = make([]float64, g.variantCount)
	}
	var sum, logSum float64
	for v := 0; v < g.variantCount; v++ {
		w := g.rules.Weight(v)
		h.weights[v] = w
		h.weightLogs[v] = w * math.Log(w)
		sum += w
		logSum += h.weightLogs[v]
	}
	if len(h.sums) != g.nodeCount {
		h.sums = make([]float64, g.nodeCount)
		h.logSums = make([]float64, g.nodeCount)
	}
	for i := range h.sums {
		h.sums[i] = sum
		h.logSums[i] = logSum
	}
}

func (h *minimumEntropy) onBan(node, variant int) {
	h.sums[node] -= h.weights[variant]
	h.logSums[node] -= h.weightLogs[variant]
}

// recompute rebuilds a node's accumulators from the bitset. Used when
// floating-point drift pushes the running sum out of range.
func (h *minimumEntropy) recompute(g *internalGenerator, node int) {
	var sum, logSum float64
	for v := 0; v < g.variantCount; v++ {
		if g.possible(node, v) {
			sum += h.weights[v]
			logSum += h.weightLogs[v]
		}
	}
	h.sums[node] = sum
	h.logSums[node] = logSum
}

func (h *minimumEntropy) entropy(node int) float64 {
	sum := h.sums[node]
	return math.Log(sum) - h.logSums[node]/sum
}

func (h *minimumEntropy) selectNode(g *internalGenerator) (int, bool) {
	best, bestScore := -1, math.MaxFloat64
	for node, count := range g.possibleCounts {
		if count <= 1 {
			continue
		}
		if h.sums[node] <= 0 {
			h.recompute(g, node)
		}
		score := h.entropy(node) + g.rng.Float64()*tieBreakEpsilon
		if score < bestScore {
			best, bestScore = node, score
		}
	}
	return best, best >= 0
}

type randomNode struct {
	candidates []int
}

func (h *randomNode) reset(*internalGenerator) {}

func (h *randomNode) onBan(int, int) {}

func (h *randomNode) selectNode(g *internalGenerator) (int, bool) {
	h.candidates = h.candidates[:0]
	for node, count := range g.possibleCounts {
		if count > 1 {
			h.candidates = append(h.candidates, node)
		}
	}
	if len(h.candidates) == 0 {
		return -1, false
	}
	return h.candidates[g.rng.IntN(len(h.candidates))], true
}

// modelSelector is the internal contract of a model selection heuristic.
type modelSelector interface {
	selectVariant(g *internalGenerator, node int) int
}

func newModelSelector(h ModelSelectionHeuristic) (modelSelector, error) {
	if h == WeightedProbability {
		return weightedProbability{}, nil
	}
	return nil, fmt.Errorf("unsupported model heuristic %d", int(h))
}

type weightedProbability struct{}

func (weightedProbability) selectVariant(g *internalGenerator, node int) int {
	total := 0.0
	for v := 0; v < g.variantCount; v++ {
		if g.possible(node, v) {
			total += g.rules.Weight(v)
		}
	}
	target := g.rng.Float64() * total
	last := -1
	for v := 0; v < g.variantCount; v++ {
		if !g.possible(node, v) {
			continue
		}
		last = v
		target -= g.rules.Weight(v)
		if target < 0 {
			return v
		}
	}
	return last
}
