// Package rng implements ports.RNGPort, the seeded random source the
// generator (spec §4.8) relies on for reproducibility.
package rng

import "math/rand"

// Adapter is the stdlib-backed ports.RNGPort implementation: every call
// with the same seed constructs a fresh, independent *rand.Rand, so two
// runs (or two re-seeds within one run, per spec §4.8.1's seed+counter
// scheme) with the same seed always produce the same sequence regardless of
// call order or concurrency elsewhere in the process.
type Adapter struct{}

// New creates an Adapter.
func New() *Adapter {
	return &Adapter{}
}

// Stream returns a deterministic *rand.Rand seeded from seed.
func (Adapter) Stream(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
