package generator

import (
	"fmt"
	"math/rand/v2"
)

// RngMode selects how the generator's RNG is seeded.
type RngMode struct {
	seed   uint64
	random bool
}

// Seeded returns a mode that always starts from seed.
func Seeded(seed uint64) RngMode {
	return RngMode{seed: seed}
}

// RandomSeed returns a mode that draws a fresh seed at build time.
func RandomSeed() RngMode {
	return RngMode{random: true}
}

// IsRandom reports whether the mode draws its seed at build time.
func (m RngMode) IsRandom() bool { return m.random }

// String implements fmt.Stringer.
func (m RngMode) String() string {
	if m.random {
		return "random"
	}
	return fmt.Sprintf("seeded(%d)", m.seed)
}

func (m RngMode) initialSeed() uint64 {
	if m.random {
		return rand.Uint64()
	}
	return m.seed
}

// newRNG returns the deterministic PCG source used for a single attempt.
func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}
