package cli

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/wfcgen/internal/compiler"
	"github.com/roach88/wfcgen/internal/generator"
	"github.com/roach88/wfcgen/internal/grid"
	"github.com/roach88/wfcgen/internal/rules"
)

// GenerateOptions holds flags shared by generate, trace and batch.
type GenerateOptions struct {
	*RootOptions
	Size      string   // WxH or WxHxD
	Loop      string   // looping axes, e.g. "xy"
	Seed      uint64   // RNG seed; random when the flag is unset
	Retries   int      // retries after a contradiction
	Heuristic string   // mrv | entropy | random
	Pins      []string // x,y[,z]=model[@rotation]
}

// GenerateResult is the payload of a successful generation.
type GenerateResult struct {
	Tileset     string   `json:"tileset"`
	Grid        string   `json:"grid"`
	RunID       string   `json:"run_id"`
	Seed        uint64   `json:"seed"`
	AttemptSeed uint64   `json:"attempt_seed"`
	Tries       int      `json:"tries"`
	Rows        []string `json:"rows"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <tileset>",
		Short: "Generate a grid from a tileset",
		Long: `Generate a grid from a CUE or YAML tileset.

The grid is printed with one symbol per node. Contradictions are retried
with fresh seeds up to --retries times.

Exit codes:
  0 - Grid generated
  1 - Every attempt contradicted, or the tileset is invalid
  2 - Command error (bad flags, tileset not found, etc.)

Examples:
  wfcgen generate coast.cue --size 32x16 --seed 7
  wfcgen generate pipes.yaml --size 8x8 --loop xy --heuristic entropy
  wfcgen generate coast.yaml --pin 0,0=grass --pin 31,15=water
  wfcgen generate towers.cue --size 6x4x6 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	addGenerationFlags(cmd, opts)
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "RNG seed (random when unset)")

	return cmd
}

func addGenerationFlags(cmd *cobra.Command, opts *GenerateOptions) {
	cmd.Flags().StringVar(&opts.Size, "size", "16x16", "grid size WxH or WxHxD")
	cmd.Flags().StringVar(&opts.Loop, "loop", "", "looping axes, e.g. x, xy, xyz")
	cmd.Flags().IntVar(&opts.Retries, "retries", generator.DefaultMaxRetryCount, "retries after a contradiction")
	cmd.Flags().StringVar(&opts.Heuristic, "heuristic", "mrv", "node selection heuristic (mrv|entropy|random)")
	cmd.Flags().StringArrayVar(&opts.Pins, "pin", nil, "pin a node before generating: x,y[,z]=model[@rotation] (repeatable)")
}

// generation is a loaded tileset with its grid and generator options.
type generation struct {
	path     string
	compiled *compiler.Compiled
	grid     *grid.Grid
	options  []generator.Option
}

// prepare loads the tileset and turns the flags into generator options.
// The RNG mode is left to the caller.
func prepare(opts *GenerateOptions, path string, f *OutputFormatter) (*generation, error) {
	compiled, err := LoadCompiled(path)
	if err != nil {
		return nil, loadFailure(f, err)
	}
	f.VerboseLog("Compiled tileset %q: %d variant(s)", compiled.Tileset.Name, compiled.Rules.VariantCount())

	size, err := parseSize(opts.Size)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeInvalidFlag, err.Error(), nil)
	}
	g, err := grid.New(size, opts.Loop)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeInvalidFlag, err.Error(), nil)
	}
	heuristic, err := generator.ParseNodeSelectionHeuristic(opts.Heuristic)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeInvalidFlag, err.Error(), nil)
	}

	pins := make([]generator.InitialNode, 0, len(opts.Pins))
	for _, raw := range opts.Pins {
		pin, err := parsePin(raw)
		if err != nil {
			return nil, f.Fail(ExitCommandError, ErrCodeInvalidFlag, err.Error(), nil)
		}
		node, err := pin.resolve(compiled, g)
		if err != nil {
			return nil, f.Fail(ExitCommandError, ErrCodeInvalidFlag, fmt.Sprintf("--pin %s: %v", raw, err), nil)
		}
		pins = append(pins, node)
	}

	return &generation{
		path:     path,
		compiled: compiled,
		grid:     g,
		options: []generator.Option{
			generator.WithMaxRetryCount(opts.Retries),
			generator.WithNodeHeuristic(heuristic),
			generator.WithInitialNodes(pins...),
			generator.WithLogger(opts.newLogger(f.GetErrWriter())),
		},
	}, nil
}

// rngMode seeds from --seed when given, randomly otherwise.
func (o *GenerateOptions) rngMode(cmd *cobra.Command) generator.RngMode {
	if cmd.Flags().Changed("seed") {
		return generator.Seeded(o.Seed)
	}
	return generator.RandomSeed()
}

// build creates the generator. A pregen contradiction exits with
// ExitFailure, any other construction error with ExitCommandError.
func (gen *generation) build(f *OutputFormatter, opts ...generator.Option) (*generator.Generator, error) {
	g, err := generator.New(gen.compiled.Rules, gen.grid, slices.Concat(gen.options, opts)...)
	if err == nil {
		return g, nil
	}
	var be *generator.BuilderError
	if errors.As(err, &be) && be.Code == generator.ErrCodeInitialContradiction {
		return nil, f.Fail(ExitFailure, ErrCodeContradiction, err.Error(), gen.failureDetails(err, 0, 0))
	}
	return nil, f.Fail(ExitCommandError, ErrCodeBuildFailed, err.Error(), nil)
}

// failureDetails describes a contradiction for error output.
func (gen *generation) failureDetails(err error, seed uint64, tries int) map[string]any {
	details := map[string]any{"tries": tries}
	if tries > 0 {
		details["seed"] = seed
	}
	var ge *generator.GeneratorError
	if errors.As(err, &ge) {
		details["failed_node"] = gen.grid.Coordinates(ge.NodeIndex).String()
	}
	return details
}

func runGenerate(opts *GenerateOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	gen, err := prepare(opts, path, f)
	if err != nil {
		return err
	}
	g, err := gen.build(f, generator.WithRngMode(opts.rngMode(cmd)))
	if err != nil {
		return err
	}

	seed := g.Seed()
	data, info, err := g.GenerateGrid()
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeContradiction,
			fmt.Sprintf("no grid after %d tries: %v", info.TryCount, err),
			gen.failureDetails(err, seed, info.TryCount))
	}

	result := GenerateResult{
		Tileset:     gen.compiled.Tileset.Name,
		Grid:        gen.grid.String(),
		RunID:       g.RunID(),
		Seed:        seed,
		AttemptSeed: g.Seed(),
		Tries:       info.TryCount,
		Rows:        gen.compiled.Render(data),
	}
	if f.IsJSON() {
		return f.Success(result)
	}

	for _, row := range result.Rows {
		fmt.Fprintln(f.Writer, row)
	}
	f.VerboseLog("seed=%d attempt_seed=%d tries=%d run=%s", result.Seed, result.AttemptSeed, result.Tries, result.RunID)
	return nil
}

// parseSize parses WxH or WxHxD.
func parseSize(s string) ([]int, error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 && len(parts) != 3 {
		return nil, fmt.Errorf("invalid size %q: want WxH or WxHxD", s)
	}
	size := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid size %q: extents must be positive integers", s)
		}
		size[i] = v
	}
	return size, nil
}

// pinSpec is a parsed --pin value.
type pinSpec struct {
	At       grid.Coordinates
	Model    string
	Rotation int // degrees
}

// parsePin parses x,y[,z]=model[@rotation].
func parsePin(s string) (pinSpec, error) {
	pos, model, ok := strings.Cut(s, "=")
	if !ok || model == "" {
		return pinSpec{}, fmt.Errorf("invalid pin %q: want x,y[,z]=model[@rotation]", s)
	}

	coords := strings.Split(pos, ",")
	if len(coords) != 2 && len(coords) != 3 {
		return pinSpec{}, fmt.Errorf("invalid pin %q: position needs 2 or 3 coordinates", s)
	}
	at := make([]int, 3)
	for i, c := range coords {
		v, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return pinSpec{}, fmt.Errorf("invalid pin %q: bad coordinate %q", s, c)
		}
		at[i] = v
	}

	spec := pinSpec{At: grid.Coordinates{X: at[0], Y: at[1], Z: at[2]}, Model: model}
	if name, rot, ok := strings.Cut(model, "@"); ok {
		deg, err := strconv.Atoi(rot)
		if err != nil {
			return pinSpec{}, fmt.Errorf("invalid pin %q: bad rotation %q", s, rot)
		}
		spec.Model, spec.Rotation = name, deg
	}
	return spec, nil
}

// resolve maps the pin to a node and a model instance of compiled.
func (p pinSpec) resolve(compiled *compiler.Compiled, g *grid.Grid) (generator.InitialNode, error) {
	node, ok := g.IndexChecked(p.At)
	if !ok {
		return generator.InitialNode{}, fmt.Errorf("position %s is outside grid %s", p.At, g)
	}
	model, ok := compiled.ModelIndex(norm.NFC.String(p.Model))
	if !ok {
		return generator.InitialNode{}, fmt.Errorf("unknown model %q", p.Model)
	}
	rot, err := rules.RotationFromDegrees(p.Rotation)
	if err != nil {
		return generator.InitialNode{}, err
	}
	return generator.InitialNode{
		NodeIndex: node,
		Instance:  rules.ModelInstance{ModelIndex: model, Rotation: rot},
	}, nil
}
