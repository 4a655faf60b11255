// Package circulation partitions accounts into circulation groups, builds the
// closed-loop transfer schedule for each group and audits flows for
// conservation.
//
// The package holds no global state. All randomness flows through a Rand so
// that runs can be reproduced from a seed.
package circulation

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Rand is the random source used for volume ratios, split counts, split
// amounts and date offsets. *rand.Rand satisfies it.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
}

// NewRand returns a reproducible source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewTimeSeededRand returns a source seeded from the wall clock.
func NewTimeSeededRand() *rand.Rand {
	return NewRand(uint64(time.Now().UnixNano()))
}

// IDFunc allocates identifiers for generated records.
type IDFunc func() string

// PrefixedUUID returns an IDFunc producing "<prefix>-<uuid>".
func PrefixedUUID(prefix string) IDFunc {
	return func() string {
		return prefix + "-" + uuid.NewString()
	}
}
