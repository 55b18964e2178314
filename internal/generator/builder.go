package generator

import (
	"log/slog"

	"github.com/roach88/wfcgen/internal/grid"
	"github.com/roach88/wfcgen/internal/rules"
)

// DefaultMaxRetryCount is the default number of retries after a contradiction.
const DefaultMaxRetryCount = 50

// InitialNode pins a node to a model instance before generation starts.
// Initial nodes are replayed on every reinitialization.
type InitialNode struct {
	NodeIndex int
	Instance  rules.ModelInstance
}

type config struct {
	maxRetryCount  int
	nodeHeuristic  NodeSelectionHeuristic
	modelHeuristic ModelSelectionHeuristic
	rngMode        RngMode
	initialNodes   []InitialNode
	initialGrid    *grid.GridData[*rules.ModelInstance]
	logger         *slog.Logger
	runTokens      RunTokenGenerator
}

func defaultConfig() *config {
	return &config{
		maxRetryCount:  DefaultMaxRetryCount,
		nodeHeuristic:  MinimumRemainingValue,
		modelHeuristic: WeightedProbability,
		rngMode:        RandomSeed(),
		runTokens:      UUIDv7Generator{},
	}
}

// Option configures a Generator.
type Option func(*config)

// WithMaxRetryCount sets how many times Generate retries after a
// contradiction.
//
// Default: 50 (DefaultMaxRetryCount). Use 0 to fail on the first
// contradiction.
func WithMaxRetryCount(n int) Option {
	return func(c *config) {
		c.maxRetryCount = n
	}
}

// WithNodeHeuristic sets the node selection heuristic.
// Default: MinimumRemainingValue.
func WithNodeHeuristic(h NodeSelectionHeuristic) Option {
	return func(c *config) {
		c.nodeHeuristic = h
	}
}

// WithModelHeuristic sets the model selection heuristic.
// Default: WeightedProbability.
func WithModelHeuristic(h ModelSelectionHeuristic) Option {
	return func(c *config) {
		c.modelHeuristic = h
	}
}

// WithRngMode sets how the RNG is seeded. Default: RandomSeed().
func WithRngMode(m RngMode) Option {
	return func(c *config) {
		c.rngMode = m
	}
}

// WithInitialNodes appends nodes to pin before generation.
func WithInitialNodes(nodes ...InitialNode) Option {
	return func(c *config) {
		c.initialNodes = append(c.initialNodes, nodes...)
	}
}

// WithInitialGrid pins every non-nil node of data. data must be laid out on
// a grid of the generator's size. Its nodes are pinned before the ones given
// to WithInitialNodes.
func WithInitialGrid(data *grid.GridData[*rules.ModelInstance]) Option {
	return func(c *config) {
		c.initialGrid = data
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithRunTokens sets the run token source. Default: UUIDv7Generator.
func WithRunTokens(gen RunTokenGenerator) Option {
	return func(c *config) {
		c.runTokens = gen
	}
}

// Builder assembles a Generator step by step. Rules and Grid are mandatory;
// Build reports a BuilderError when either is missing.
type Builder struct {
	rules *rules.Rules
	grid  *grid.Grid
	opts  []Option
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithRules sets the rules.
func (b *Builder) WithRules(r *rules.Rules) *Builder {
	b.rules = r
	return b
}

// WithGrid sets the grid.
func (b *Builder) WithGrid(g *grid.Grid) *Builder {
	b.grid = g
	return b
}

// With appends options.
func (b *Builder) With(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build validates the configuration and returns a generator with pregen
// already applied.
func (b *Builder) Build() (*Generator, error) {
	return New(b.rules, b.grid, b.opts...)
}

// New builds a Generator for rules r on grid g.
//
// Pregen runs synchronously: variants the rules can never place are banned,
// initial nodes are set, and everything is propagated. Any failure is
// returned as a BuilderError and is never retried.
func New(r *rules.Rules, g *grid.Grid, opts ...Option) (*Generator, error) {
	if r == nil {
		return nil, newBuilderError(ErrCodeMissingRules, nil, "rules are required")
	}
	if g == nil {
		return nil, newBuilderError(ErrCodeMissingGrid, nil, "grid is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if r.DirectionCount() != g.DirectionCount() {
		return nil, newBuilderError(ErrCodeDirectionMismatch, nil,
			"rules use %d directions, grid %s uses %d", r.DirectionCount(), g, g.DirectionCount())
	}
	if cfg.maxRetryCount < 0 {
		return nil, newBuilderError(ErrCodeInvalidConfig, nil, "max retry count must be >= 0, got %d", cfg.maxRetryCount)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.runTokens == nil {
		cfg.runTokens = UUIDv7Generator{}
	}

	pins, err := resolveInitialNodes(r, g, cfg)
	if err != nil {
		return nil, err
	}

	runID := cfg.runTokens.Generate()
	logger := cfg.logger.With("run", runID)

	internal, err := newInternalGenerator(r, g, cfg, logger)
	if err != nil {
		return nil, newBuilderError(ErrCodeInvalidConfig, err, "invalid heuristic")
	}
	internal.initialNodes = pins

	seed := cfg.rngMode.initialSeed()
	internal.reset(seed)
	if err := internal.pregen(); err != nil {
		if IsNodeSetError(err) {
			return nil, newBuilderError(ErrCodeInvalidInitialNode, err, "initial node is illegal")
		}
		return nil, newBuilderError(ErrCodeInitialContradiction, err, "pregen failed")
	}

	logger.Debug("generator built",
		"grid", g.String(),
		"variants", r.VariantCount(),
		"seed", seed,
		"node_heuristic", cfg.nodeHeuristic.String(),
		"max_retry_count", cfg.maxRetryCount,
	)

	return &Generator{internal: internal, runID: runID, logger: logger}, nil
}

// resolveInitialNodes converts initial grid data and initial nodes into
// (node, variant) pins, in that order, without duplicates.
func resolveInitialNodes(r *rules.Rules, g *grid.Grid, cfg *config) ([]nodeVariant, error) {
	var requested []InitialNode
	if cfg.initialGrid != nil {
		data := cfg.initialGrid
		if data.Grid().Size() != g.Size() || data.Grid().DirectionCount() != g.DirectionCount() {
			return nil, newBuilderError(ErrCodeGridSizeMismatch, nil,
				"initial grid %s does not match grid %s", data.Grid(), g)
		}
		for i, inst := range data.Nodes() {
			if inst != nil {
				requested = append(requested, InitialNode{NodeIndex: i, Instance: *inst})
			}
		}
	}
	requested = append(requested, cfg.initialNodes...)

	pins := make([]nodeVariant, 0, len(requested))
	byNode := make(map[int]int, len(requested))
	for _, in := range requested {
		if in.NodeIndex < 0 || in.NodeIndex >= g.Size() {
			return nil, newBuilderError(ErrCodeInvalidInitialNode, nil,
				"node %d is outside grid %s", in.NodeIndex, g)
		}
		v, ok := r.VariantIndex(in.Instance)
		if !ok {
			return nil, newBuilderError(ErrCodeInvalidInitialNode, nil,
				"node %d references unknown model instance %s", in.NodeIndex, in.Instance)
		}
		if prev, seen := byNode[in.NodeIndex]; seen {
			if prev != v {
				return nil, newBuilderError(ErrCodeInvalidInitialNode, nil,
					"node %d is pinned to two different variants", in.NodeIndex)
			}
			continue
		}
		byNode[in.NodeIndex] = v
		pins = append(pins, nodeVariant{node: in.NodeIndex, variant: v})
	}
	return pins, nil
}
