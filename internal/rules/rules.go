package rules

import (
	"fmt"

	"github.com/roach88/wfcgen/internal/grid"
)

// ModelInstance identifies a placed model: the declared model index and the
// rotation it was placed with.
type ModelInstance struct {
	ModelIndex int      `json:"model_index"`
	Rotation   Rotation `json:"rotation"`
}

// String implements fmt.Stringer.
func (m ModelInstance) String() string {
	return fmt.Sprintf("%d@%d", m.ModelIndex, m.Rotation.Degrees())
}

// Variant is one expanded (model, rotation) pair.
type Variant struct {
	ModelIndex int
	Rotation   Rotation
	Weight     float64

	sockets [][]Socket
}

// Instance returns the ModelInstance the variant was expanded from.
func (v Variant) Instance() ModelInstance {
	return ModelInstance{ModelIndex: v.ModelIndex, Rotation: v.Rotation}
}

// Sockets returns the sockets exposed on face d after rotation.
func (v Variant) Sockets(d grid.Direction) []Socket {
	return v.sockets[d]
}

type config struct {
	axis    grid.Axis
	axisSet bool
}

// Option configures rule construction.
type Option func(*config)

// WithRotationAxis sets the rotation axis of 3D models (default Y).
// 2D models only rotate around Z.
func WithRotationAxis(a grid.Axis) Option {
	return func(c *config) {
		c.axis = a
		c.axisSet = true
	}
}

// Rules holds the expanded variants and their adjacency table.
//
// INVARIANTS:
//   - variants are ordered by model, then Rot0→Rot270
//   - allowed[v][d] lists variants in index order, without duplicates
//   - u ∈ allowed[v][d] ⇔ v ∈ allowed[u][d.Opposite()]
//   - nothing is mutated after New returns
type Rules struct {
	axis       grid.Axis
	dirCount   int
	modelNames []string
	variants   []Variant
	allowed    [][][]int
	byInstance map[ModelInstance]int
}

// New expands models and compiles their adjacency.
//
// Cost is O(variants² × directions × sockets-per-face²), paid once.
func New(models []*Model, sockets *SocketCollection, opts ...Option) (*Rules, error) {
	if len(models) == 0 {
		return nil, newRulesError(ErrCodeNoModels, -1, "at least one model is required")
	}
	if sockets == nil || sockets.ConnectionCount() == 0 {
		return nil, newRulesError(ErrCodeNoConnections, -1, "at least one socket connection is required")
	}

	dirCount := models[0].DirectionCount()
	cfg := &config{axis: grid.AxisY}
	if dirCount == grid.DirectionCount2D {
		cfg.axis = grid.AxisZ
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if dirCount == grid.DirectionCount2D && cfg.axisSet && cfg.axis != grid.AxisZ {
		return nil, newRulesError(ErrCodeInvalidAxis, -1, "2D models can only rotate around z, got %s", cfg.axis)
	}

	r := &Rules{
		axis:       cfg.axis,
		dirCount:   dirCount,
		modelNames: make([]string, len(models)),
		byInstance: make(map[ModelInstance]int),
	}

	for mi, m := range models {
		if m == nil {
			return nil, newRulesError(ErrCodeNoModels, mi, "model is nil")
		}
		if m.DirectionCount() != dirCount {
			return nil, newRulesError(ErrCodeDimensionMismatch, mi,
				"model has %d faces, expected %d", m.DirectionCount(), dirCount)
		}
		for _, face := range m.sockets {
			for _, s := range face {
				if !sockets.owns(s) {
					return nil, newRulesError(ErrCodeUnknownSocket, mi, "socket %d is not part of the collection", s.id)
				}
			}
		}
		r.modelNames[mi] = m.name
		for _, rot := range AllRotations {
			if !m.rotations.Contains(rot) {
				continue
			}
			v := Variant{
				ModelIndex: mi,
				Rotation:   rot,
				Weight:     float64(clampWeight(m.weight)),
				sockets:    rotateSockets(m.sockets, cfg.axis, rot),
			}
			r.byInstance[v.Instance()] = len(r.variants)
			r.variants = append(r.variants, v)
		}
	}

	r.allowed = make([][][]int, len(r.variants))
	for vi := range r.variants {
		r.allowed[vi] = make([][]int, dirCount)
		for d := 0; d < dirCount; d++ {
			dir := grid.Direction(d)
			for ui := range r.variants {
				if r.compatible(sockets, vi, ui, dir) {
					r.allowed[vi][d] = append(r.allowed[vi][d], ui)
				}
			}
		}
	}

	return r, nil
}

// compatible reports whether variant u may sit next to variant v in
// direction d from v.
func (r *Rules) compatible(sockets *SocketCollection, v, u int, d grid.Direction) bool {
	vv, uu := &r.variants[v], &r.variants[u]
	onAxis := d.Axis() == r.axis && r.dirCount == grid.DirectionCount3D
	for _, s := range vv.sockets[d] {
		for _, t := range uu.sockets[d.Opposite()] {
			if sockets.connected(s, t) {
				return true
			}
			if onAxis && vv.Rotation == uu.Rotation && sockets.connectedRotated(s, t) {
				return true
			}
		}
	}
	return false
}

// VariantCount returns the number of expanded variants.
func (r *Rules) VariantCount() int { return len(r.variants) }

// Variant returns the variant at index v.
func (r *Rules) Variant(v int) Variant { return r.variants[v] }

// Weight returns the weight of variant v.
func (r *Rules) Weight(v int) float64 { return r.variants[v].Weight }

// Instance returns the ModelInstance of variant v.
func (r *Rules) Instance(v int) ModelInstance { return r.variants[v].Instance() }

// VariantIndex returns the variant expanded from inst, if any.
func (r *Rules) VariantIndex(inst ModelInstance) (int, bool) {
	v, ok := r.byInstance[inst]
	return v, ok
}

// Allowed returns the variants that may sit next to v in direction d.
// The returned slice is shared and must not be modified.
func (r *Rules) Allowed(v int, d grid.Direction) []int { return r.allowed[v][d] }

// ModelCount returns the number of declared models.
func (r *Rules) ModelCount() int { return len(r.modelNames) }

// ModelName returns the diagnostic name of model m.
func (r *Rules) ModelName(m int) string { return r.modelNames[m] }

// DirectionCount returns 4 for 2D rules and 6 for 3D rules.
func (r *Rules) DirectionCount() int { return r.dirCount }

// RotationAxis returns the axis models were rotated around.
func (r *Rules) RotationAxis() grid.Axis { return r.axis }
