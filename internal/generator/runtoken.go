package generator

import "github.com/google/uuid"

// RunTokenGenerator produces the identifier attached to a generator's logs and
// batch results. Implemented by UUIDv7Generator (production) and
// testutil.FixedRunTokens (tests).
type RunTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
