package generator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/wfcgen/internal/grid"
	"github.com/roach88/wfcgen/internal/rules"
	"github.com/roach88/wfcgen/internal/testutil"
)

// coastRules returns sea, coast and land where sea never touches land.
// Coast fits next to everything, so generation never contradicts.
func coastRules(t testing.TB) *rules.Rules {
	t.Helper()
	sc := rules.NewSocketCollection()
	sea := sc.CreateNamed("sea")
	coast := sc.CreateNamed("coast")
	land := sc.CreateNamed("land")
	sc.Connect(sea, sea, coast)
	sc.Connect(coast, coast, land)
	sc.Connect(land, land)

	r, err := rules.New([]*rules.Model{
		rules.NewModel2DUniform(sea).WithName("sea").WithWeight(2),
		rules.NewModel2DUniform(coast).WithName("coast"),
		rules.NewModel2DUniform(land).WithName("land").WithWeight(3),
	}, sc)
	require.NoError(t, err)
	return r
}

func newTestGenerator(t testing.TB, r *rules.Rules, g *grid.Grid, opts ...Option) *Generator {
	t.Helper()
	base := []Option{
		WithLogger(testutil.DiscardLogger()),
		WithRunTokens(testutil.NewFixedRunTokens("run")),
	}
	gen, err := New(r, g, append(base, opts...)...)
	require.NoError(t, err)
	return gen
}

func instance(model int) rules.ModelInstance {
	return rules.ModelInstance{ModelIndex: model, Rotation: rules.Rot0}
}

// stripSeq drops the logical timestamps so streams of two generators can be
// compared.
func stripSeq(updates []GenerationUpdate) []GenerationUpdate {
	out := make([]GenerationUpdate, len(updates))
	for i, u := range updates {
		u.Seq = 0
		out[i] = u
	}
	return out
}

func countKind(updates []GenerationUpdate, kind UpdateKind) int {
	n := 0
	for _, u := range updates {
		if u.Kind == kind {
			n++
		}
	}
	return n
}
