package ports

import "math/rand"

// RNGPort provides seeded random number generation for deterministic
// generation (spec §3 Lifecycles, §5 "random source is per-generator",
// §8 invariant 5). Adapted from the teacher's single seeded-stream port.
type RNGPort interface {
	// Stream returns a deterministic *rand.Rand for the given seed. A
	// fresh call with the same seed always yields a source that produces
	// the same sequence.
	Stream(seed int64) *rand.Rand
}
