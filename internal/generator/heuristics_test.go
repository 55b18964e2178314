package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wfcgen/internal/testutil/fixtures"
)

func TestParseNodeSelectionHeuristic(t *testing.T) {
	tests := []struct {
		in   string
		want NodeSelectionHeuristic
	}{
		{"", MinimumRemainingValue},
		{"mrv", MinimumRemainingValue},
		{"MINIMUM_REMAINING_VALUE", MinimumRemainingValue},
		{"entropy", MinimumEntropy},
		{" minimum_entropy ", MinimumEntropy},
		{"random", Random},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNodeSelectionHeuristic(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseNodeSelectionHeuristic("fastest")
	assert.Error(t, err)
}

func TestNodeSelectionHeuristic_StringRoundTrip(t *testing.T) {
	for _, h := range []NodeSelectionHeuristic{MinimumRemainingValue, MinimumEntropy, Random} {
		got, err := ParseNodeSelectionHeuristic(h.String())
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}
}

func TestMinimumRemainingValue_PicksFewestOptions(t *testing.T) {
	gen := newTestGenerator(t, coastRules(t), fixtures.Grid2D(t, 4, 4), WithRngMode(Seeded(1)))
	in := gen.internal

	// Sea at node 0 removes land from its two neighbours.
	_, err := gen.SetAndPropagate(0, instance(0), false)
	require.NoError(t, err)

	node, ok := in.nodeSelector.selectNode(in)
	require.True(t, ok)
	assert.Contains(t, []int{1, 4}, node)
	assert.Equal(t, 2, in.possibleCounts[node])
}

func TestMinimumEntropy_PicksLowestEntropy(t *testing.T) {
	gen := newTestGenerator(t, coastRules(t), fixtures.Grid2D(t, 4, 4),
		WithRngMode(Seeded(1)), WithNodeHeuristic(MinimumEntropy))
	in := gen.internal

	_, err := gen.SetAndPropagate(0, instance(0), false)
	require.NoError(t, err)

	node, ok := in.nodeSelector.selectNode(in)
	require.True(t, ok)
	assert.Contains(t, []int{1, 4}, node)
}

func TestMinimumEntropy_RecomputesAfterDrift(t *testing.T) {
	gen := newTestGenerator(t, coastRules(t), fixtures.Grid2D(t, 2, 2),
		WithRngMode(Seeded(1)), WithNodeHeuristic(MinimumEntropy))
	in := gen.internal
	h := in.nodeSelector.(*minimumEntropy)

	h.sums[3] = -1e-12
	_, ok := h.selectNode(in)
	require.True(t, ok)
	assert.InDelta(t, 6.0, h.sums[3], 1e-9, "sea 2 + coast 1 + land 3")
}

func TestMinimumEntropy_NoiseOnlyReordersNearTies(t *testing.T) {
	// lower shifts node 1's entropy below the others by delta.
	lower := func(seed uint64, delta float64) int {
		gen := newTestGenerator(t, coastRules(t), fixtures.Grid2D(t, 2, 2),
			WithRngMode(Seeded(seed)), WithNodeHeuristic(MinimumEntropy))
		in := gen.internal
		h := in.nodeSelector.(*minimumEntropy)
		h.logSums[1] += delta * h.sums[1]
		node, ok := h.selectNode(in)
		require.True(t, ok)
		return node
	}

	swapped := 0
	for seed := uint64(0); seed < 50; seed++ {
		assert.Equal(t, 1, lower(seed, 1e-3), "distinct entropies keep their order")
		if lower(seed, 1e-9) != 1 {
			swapped++
		}
	}
	assert.Positive(t, swapped, "entropies closer than tieBreakEpsilon may swap")
}

func TestRandomNode_OnlyUndetermined(t *testing.T) {
	gen := newTestGenerator(t, coastRules(t), fixtures.Grid2D(t, 2, 1),
		WithRngMode(Seeded(1)), WithNodeHeuristic(Random))
	in := gen.internal

	_, err := gen.SetAndPropagate(0, instance(1), false)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		node, ok := in.nodeSelector.selectNode(in)
		require.True(t, ok)
		assert.Equal(t, 1, node)
	}
}

func TestWeightedProbability_OnlyPossibleVariants(t *testing.T) {
	gen := newTestGenerator(t, coastRules(t), fixtures.Grid2D(t, 2, 1), WithRngMode(Seeded(1)))
	in := gen.internal

	_, err := gen.SetAndPropagate(0, instance(0), false)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		v := in.modelSelector.selectVariant(in, 1)
		assert.NotEqual(t, 2, v, "land was banned next to sea")
	}
}
