package testutil

import (
	"fmt"
	"sync/atomic"
)

// FixedRunTokens generates predictable run tokens for tests.
//
// With an empty prefix every call returns "test-run-default". Otherwise calls
// return "<prefix>-1", "<prefix>-2", and so on, so golden snapshots stay
// byte-identical between runs.
//
// Thread-safety: safe for concurrent use.
type FixedRunTokens struct {
	prefix string
	next   atomic.Int64
}

// NewFixedRunTokens creates a run token generator.
func NewFixedRunTokens(prefix string) *FixedRunTokens {
	return &FixedRunTokens{prefix: prefix}
}

// Generate returns the next token.
//
// Implements generator.RunTokenGenerator.
func (g *FixedRunTokens) Generate() string {
	if g.prefix == "" {
		return "test-run-default"
	}
	return fmt.Sprintf("%s-%d", g.prefix, g.next.Add(1))
}
