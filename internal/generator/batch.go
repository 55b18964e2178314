package generator

import (
	"context"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/wfcgen/internal/grid"
	"github.com/roach88/wfcgen/internal/rules"
)

// BatchResult is the outcome of one seeded run of GenerateBatch.
type BatchResult struct {
	RunID string
	Seed  uint64
	Info  GenInfo
	Grid  *grid.GridData[rules.ModelInstance]
	// Err is the contradiction or build error of this run, if any.
	Err error
}

// GenerateBatch runs one generator per seed over the shared rules, at most
// GOMAXPROCS at a time. Results are returned in seed order.
//
// Per-run failures are reported in BatchResult.Err. The returned error is
// only set when ctx is cancelled; runs that had not started by then carry
// ctx.Err().
func GenerateBatch(ctx context.Context, r *rules.Rules, g *grid.Grid, seeds []uint64, opts ...Option) ([]BatchResult, error) {
	results := make([]BatchResult, len(seeds))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, seed := range seeds {
		results[i].Seed = seed
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			runOpts := append(slices.Clone(opts), WithRngMode(Seeded(seed)))
			gen, err := New(r, g, runOpts...)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].RunID = gen.RunID()
			results[i].Grid, results[i].Info, results[i].Err = gen.GenerateGrid()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
