package generator

import (
	"fmt"

	"github.com/roach88/wfcgen/internal/rules"
)

// GeneratedNode is a node that reached exactly one possible variant.
type GeneratedNode struct {
	NodeIndex    int                 `json:"node_index"`
	VariantIndex int                 `json:"variant_index"`
	Instance     rules.ModelInstance `json:"instance"`
}

// UpdateKind distinguishes generation updates.
type UpdateKind int

const (
	// UpdateGenerated reports a node collapsed to one variant, either by
	// selection or because propagation left it a single option.
	UpdateGenerated UpdateKind = iota + 1
	// UpdateReinitializing reports a reset with a new seed.
	UpdateReinitializing
	// UpdateFailed reports a contradiction.
	UpdateFailed
)

// String implements fmt.Stringer.
func (k UpdateKind) String() string {
	switch k {
	case UpdateGenerated:
		return "generated"
	case UpdateReinitializing:
		return "reinitializing"
	case UpdateFailed:
		return "failed"
	default:
		return fmt.Sprintf("UpdateKind(%d)", int(k))
	}
}

// GenerationUpdate is one entry of the progress stream published to
// observers.
type GenerationUpdate struct {
	Kind UpdateKind `json:"kind"`

	// Seq is a per-generator logical timestamp, strictly increasing in
	// emission order.
	Seq int64 `json:"seq"`

	// Node is set for UpdateGenerated.
	Node GeneratedNode `json:"node"`

	// Seed is set for UpdateReinitializing.
	Seed uint64 `json:"seed,omitempty"`

	// NodeIndex is the contradicted node for UpdateFailed.
	NodeIndex int `json:"node_index,omitempty"`
}

// String implements fmt.Stringer.
func (u GenerationUpdate) String() string {
	switch u.Kind {
	case UpdateGenerated:
		return fmt.Sprintf("#%d generated node=%d variant=%d (%s)", u.Seq, u.Node.NodeIndex, u.Node.VariantIndex, u.Node.Instance)
	case UpdateReinitializing:
		return fmt.Sprintf("#%d reinitializing seed=%d", u.Seq, u.Seed)
	case UpdateFailed:
		return fmt.Sprintf("#%d failed node=%d", u.Seq, u.NodeIndex)
	}
	return fmt.Sprintf("#%d %s", u.Seq, u.Kind)
}
