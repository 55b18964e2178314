// Package fixtures provides rule sets and grids shared by the generator
// test suites. It depends on testing and is only imported from _test.go
// files.
package fixtures

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/wfcgen/internal/grid"
	"github.com/roach88/wfcgen/internal/rules"
)

// Model indices of Checkerboard.
const (
	White = 0
	Black = 1
)

// Checkerboard returns two models, white and black, whose faces only
// connect to the other color.
func Checkerboard(t testing.TB) *rules.Rules {
	t.Helper()
	sc := rules.NewSocketCollection()
	w := sc.CreateNamed("w")
	b := sc.CreateNamed("b")
	sc.Connect(w, b)

	r, err := rules.New([]*rules.Model{
		rules.NewModel2DUniform(w).WithName("white"),
		rules.NewModel2DUniform(b).WithName("black"),
	}, sc)
	require.NoError(t, err)
	return r
}

// OddLoop returns a 3x3 grid looping on both axes. A two-coloring is
// impossible on it, so Checkerboard always contradicts.
func OddLoop(t testing.TB) *grid.Grid {
	t.Helper()
	g, err := grid.NewCartesian2D(3, 3, true, true)
	require.NoError(t, err)
	return g
}

// WeightedPair returns two fully compatible models, "light" with weight
// light and "heavy" with weight heavy.
func WeightedPair(t testing.TB, light, heavy float32) *rules.Rules {
	t.Helper()
	sc := rules.NewSocketCollection()
	s := sc.CreateNamed("any")
	sc.Connect(s, s)

	r, err := rules.New([]*rules.Model{
		rules.NewModel2DUniform(s).WithName("light").WithWeight(light),
		rules.NewModel2DUniform(s).WithName("heavy").WithWeight(heavy),
	}, sc)
	require.NoError(t, err)
	return r
}

// RulesGap returns a model "ok" connecting everywhere and, when withGap is
// set, a model "gap" whose X+ face connects to nothing. "gap" can only be
// placed where there is no X+ neighbour.
func RulesGap(t testing.TB, withOK bool) *rules.Rules {
	t.Helper()
	sc := rules.NewSocketCollection()
	s := sc.CreateNamed("s")
	dead := sc.CreateNamed("dead")
	sc.Connect(s, s)

	models := []*rules.Model{
		rules.NewModel2D(rules.Sockets2D{
			XPos: []rules.Socket{dead},
			XNeg: []rules.Socket{s},
			YPos: []rules.Socket{s},
			YNeg: []rules.Socket{s},
		}).WithName("gap"),
	}
	if withOK {
		models = append(models, rules.NewModel2DUniform(s).WithName("ok"))
	}
	r, err := rules.New(models, sc)
	require.NoError(t, err)
	return r
}

// Grid2D returns a bounded 2D grid.
func Grid2D(t testing.TB, x, y int) *grid.Grid {
	t.Helper()
	g, err := grid.NewCartesian2D(x, y, false, false)
	require.NoError(t, err)
	return g
}
