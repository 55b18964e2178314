package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wfcgen/internal/generator"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	GenerateOptions
	Count int
}

// BatchRun is the outcome of one seeded run.
type BatchRun struct {
	Seed       uint64   `json:"seed"`
	RunID      string   `json:"run_id,omitempty"`
	Status     string   `json:"status"` // "done" or "failed"
	Tries      int      `json:"tries"`
	FailedNode string   `json:"failed_node,omitempty"`
	Error      string   `json:"error,omitempty"`
	Rows       []string `json:"rows,omitempty"`
}

// BatchResult is the output of the batch command.
type BatchResult struct {
	Tileset string     `json:"tileset"`
	Grid    string     `json:"grid"`
	Runs    []BatchRun `json:"runs"`
	Done    int        `json:"done"`
	Failed  int        `json:"failed"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{GenerateOptions: GenerateOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "batch <tileset>",
		Short: "Generate several grids in parallel",
		Long: `Generate --count grids from consecutive seeds, starting at --seed.

Runs share the compiled rules and execute in parallel. Each run is
reported in seed order.

Exit codes:
  0 - Every run produced a grid
  1 - At least one run contradicted, or the tileset is invalid
  2 - Command error (bad flags, tileset not found, etc.)

Examples:
  wfcgen batch coast.cue --size 16x8 --count 8
  wfcgen batch pipes.yaml --size 8x8 --loop xy --seed 100 --count 4 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0], cmd)
		},
	}

	addGenerationFlags(cmd, &opts.GenerateOptions)
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed of the first run")
	cmd.Flags().IntVar(&opts.Count, "count", 4, "number of runs")

	return cmd
}

func runBatch(opts *BatchOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	if opts.Count <= 0 {
		return f.Fail(ExitCommandError, ErrCodeInvalidFlag, fmt.Sprintf("invalid --count %d: must be positive", opts.Count), nil)
	}

	gen, err := prepare(&opts.GenerateOptions, path, f)
	if err != nil {
		return err
	}
	// A pregen contradiction does not depend on the seed; report it once.
	if _, err := gen.build(f, generator.WithRngMode(generator.Seeded(opts.Seed))); err != nil {
		return err
	}

	seeds := make([]uint64, opts.Count)
	for i := range seeds {
		seeds[i] = opts.Seed + uint64(i)
	}
	f.VerboseLog("Running %d generation(s) from seed %d", opts.Count, opts.Seed)

	runs, err := generator.GenerateBatch(cmd.Context(), gen.compiled.Rules, gen.grid, seeds, gen.options...)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("batch interrupted: %v", err), nil)
	}

	result := BatchResult{
		Tileset: gen.compiled.Tileset.Name,
		Grid:    gen.grid.String(),
		Runs:    make([]BatchRun, 0, len(runs)),
	}
	for _, r := range runs {
		run := BatchRun{Seed: r.Seed, RunID: r.RunID, Tries: r.Info.TryCount}
		if r.Err != nil {
			run.Status = "failed"
			run.Error = r.Err.Error()
			if node, ok := gen.failureDetails(r.Err, r.Seed, r.Info.TryCount)["failed_node"].(string); ok {
				run.FailedNode = node
			}
			result.Failed++
		} else {
			run.Status = "done"
			run.Rows = gen.compiled.Render(r.Grid)
			result.Done++
		}
		result.Runs = append(result.Runs, run)
	}

	if f.IsJSON() {
		if err := f.Success(result); err != nil {
			return err
		}
	} else {
		outputBatchText(f, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d run(s) failed", result.Failed, len(result.Runs)))
	}
	return nil
}

func outputBatchText(f *OutputFormatter, result BatchResult) {
	w := f.Writer
	for i, run := range result.Runs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if run.Status == "failed" {
			fmt.Fprintf(w, "✗ seed %d: contradiction at %s after %d tries\n", run.Seed, run.FailedNode, run.Tries)
			continue
		}
		fmt.Fprintf(w, "✓ seed %d (%d tries)\n", run.Seed, run.Tries)
		for _, row := range run.Rows {
			fmt.Fprintf(w, "  %s\n", row)
		}
	}
	fmt.Fprintf(w, "\n%d done, %d failed\n", result.Done, result.Failed)
}
