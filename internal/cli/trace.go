package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/wfcgen/internal/compiler"
	"github.com/roach88/wfcgen/internal/generator"
	"github.com/roach88/wfcgen/internal/grid"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	GenerateOptions
	Kind string // optional: only show updates of this kind
}

// TraceResult is the output of a traced generation.
type TraceResult struct {
	Tileset  string       `json:"tileset"`
	Grid     string       `json:"grid"`
	RunID    string       `json:"run_id"`
	Seed     uint64       `json:"seed"`
	Outcome  string       `json:"outcome"`
	Timeline []TraceEvent `json:"timeline"`
	Rows     []string     `json:"rows"`
	Stats    TraceStats   `json:"stats"`
}

// TraceEvent is one generation update with its node resolved to
// coordinates and a model name.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	Kind     string `json:"kind"`
	At       string `json:"at,omitempty"`
	Model    string `json:"model,omitempty"`
	Rotation int    `json:"rotation,omitempty"`
	Seed     uint64 `json:"seed,omitempty"`
}

// TraceStats summarizes the update stream.
type TraceStats struct {
	TotalEvents    int `json:"total_events"`
	Pregenerated   int `json:"pregenerated"`
	Generated      int `json:"generated"`
	Reinitializing int `json:"reinitializing"`
	Failed         int `json:"failed"`
	Tries          int `json:"tries"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{GenerateOptions: GenerateOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "trace <tileset>",
		Short: "Generate a grid and show every update",
		Long: `Generate a grid and print the update stream an observer sees.

Nodes determined before the first selection (by unplaceable variants or
--pin) are counted as pregenerated. When they already finish the grid,
the generator reinitializes and the timeline shows the pins replayed.
The final rows mark undetermined nodes with '?'.

Exit codes:
  0 - Grid generated
  1 - Every attempt contradicted, or the tileset is invalid
  2 - Command error (bad flags, tileset not found, etc.)

Examples:
  wfcgen trace coast.cue --size 8x4 --seed 7
  wfcgen trace pipes.yaml --size 4x4 --loop xy --kind failed
  wfcgen trace coast.yaml --size 8x4 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	addGenerationFlags(cmd, &opts.GenerateOptions)
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "RNG seed (random when unset)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter updates by kind (generated|reinitializing|failed)")

	return cmd
}

func runTrace(opts *TraceOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	var kind generator.UpdateKind
	if opts.Kind != "" {
		k, err := parseUpdateKind(opts.Kind)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeInvalidFlag, err.Error(), nil)
		}
		kind = k
	}

	gen, err := prepare(&opts.GenerateOptions, path, f)
	if err != nil {
		return err
	}
	g, err := gen.build(f, generator.WithRngMode(opts.rngMode(cmd)))
	if err != nil {
		return err
	}

	result := TraceResult{
		Tileset: gen.compiled.Tileset.Name,
		Grid:    gen.grid.String(),
		RunID:   g.RunID(),
		Seed:    g.Seed(),
	}
	for _, inst := range g.ToGridData().Nodes() {
		if inst != nil {
			result.Stats.Pregenerated++
		}
	}

	snapshot := generator.NewStatefulObserver(g)
	defer snapshot.Close()

	updates, info, genErr := traceGeneration(cmd.Context(), g)
	if errors.Is(genErr, context.Canceled) || errors.Is(genErr, context.DeadlineExceeded) {
		return f.Fail(ExitCommandError, ErrCodeGeneric, genErr.Error(), nil)
	}

	snapshot.Update()
	result.Rows = gen.compiled.RenderPartial(snapshot.GridData(), '?')
	result.Stats.Tries = info.TryCount
	result.Outcome = "done"
	if genErr != nil {
		result.Outcome = "failed"
	}

	for _, u := range updates {
		result.Stats.TotalEvents++
		switch u.Kind {
		case generator.UpdateGenerated:
			result.Stats.Generated++
		case generator.UpdateReinitializing:
			result.Stats.Reinitializing++
		case generator.UpdateFailed:
			result.Stats.Failed++
		}
		if kind != 0 && u.Kind != kind {
			continue
		}
		result.Timeline = append(result.Timeline, traceEvent(gen.compiled, gen.grid, u))
	}

	if genErr != nil {
		if f.IsJSON() {
			return f.Fail(ExitFailure, ErrCodeContradiction, genErr.Error(), result)
		}
		outputTraceText(f.Writer, result, opts.Verbose)
		return f.Fail(ExitFailure, ErrCodeContradiction,
			fmt.Sprintf("no grid after %d tries: %v", info.TryCount, genErr),
			gen.failureDetails(genErr, result.Seed, info.TryCount))
	}

	if f.IsJSON() {
		return f.Success(result)
	}
	outputTraceText(f.Writer, result, opts.Verbose)
	return nil
}

// traceGeneration runs g to completion while a second goroutine consumes
// its update stream. The returned error is the generation error, or the
// consumer's error if ctx was cancelled.
func traceGeneration(ctx context.Context, g *generator.Generator) ([]generator.GenerationUpdate, generator.GenInfo, error) {
	obs := g.Observe()

	var updates []generator.GenerationUpdate
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		for {
			u, err := obs.Next(ctx)
			if errors.Is(err, generator.ErrObserverClosed) {
				return nil
			}
			if err != nil {
				return err
			}
			updates = append(updates, u)
		}
	})

	info, genErr := g.Generate()
	obs.Close()

	if err := eg.Wait(); err != nil {
		return updates, info, err
	}
	return updates, info, genErr
}

func traceEvent(compiled *compiler.Compiled, g *grid.Grid, u generator.GenerationUpdate) TraceEvent {
	event := TraceEvent{Seq: u.Seq, Kind: u.Kind.String()}
	switch u.Kind {
	case generator.UpdateGenerated:
		event.At = g.Coordinates(u.Node.NodeIndex).String()
		event.Model = compiled.Tileset.Models[u.Node.Instance.ModelIndex].Name
		event.Rotation = u.Node.Instance.Rotation.Degrees()
	case generator.UpdateReinitializing:
		event.Seed = u.Seed
	case generator.UpdateFailed:
		event.At = g.Coordinates(u.NodeIndex).String()
	}
	return event
}

func parseUpdateKind(s string) (generator.UpdateKind, error) {
	for _, k := range []generator.UpdateKind{
		generator.UpdateGenerated,
		generator.UpdateReinitializing,
		generator.UpdateFailed,
	} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("invalid --kind %q: want generated, reinitializing or failed", s)
}

func outputTraceText(w io.Writer, result TraceResult, verbose bool) {
	fmt.Fprintf(w, "Trace for %s on %s (seed %d)\n", result.Tileset, result.Grid, result.Seed)
	fmt.Fprintf(w, "Outcome: %s\n", result.Outcome)
	if verbose {
		fmt.Fprintf(w, "Run: %s\n", result.RunID)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no events)")
	}
	for _, e := range result.Timeline {
		switch e.Kind {
		case "generated":
			fmt.Fprintf(w, "  [%d] GEN  %s %s@%d\n", e.Seq, e.At, e.Model, e.Rotation)
		case "reinitializing":
			fmt.Fprintf(w, "  [%d] INIT seed=%d\n", e.Seq, e.Seed)
		case "failed":
			fmt.Fprintf(w, "  [%d] FAIL %s\n", e.Seq, e.At)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Grid ===")
	for _, row := range result.Rows {
		fmt.Fprintf(w, "  %s\n", row)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Total Events:   %d\n", result.Stats.TotalEvents)
	fmt.Fprintf(w, "  Pregenerated:   %d\n", result.Stats.Pregenerated)
	fmt.Fprintf(w, "  Generated:      %d\n", result.Stats.Generated)
	fmt.Fprintf(w, "  Reinitializing: %d\n", result.Stats.Reinitializing)
	fmt.Fprintf(w, "  Failed:         %d\n", result.Stats.Failed)
	fmt.Fprintf(w, "  Tries:          %d\n", result.Stats.Tries)
}
