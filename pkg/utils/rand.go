package utils

import (
	"math/rand"
	"time"
)

// RandSource is a seeded random number generator for deterministic
// suggestion algorithms. It is not safe for concurrent use; each
// algorithm instance owns its own source.
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource creates a new random source with the given seed.
// A zero seed falls back to the current time.
func NewRandSource(seed int64) *RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandSource{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Float64 returns a random float64 in [0.0, 1.0)
func (r *RandSource) Float64() float64 {
	return r.rng.Float64()
}

// Intn returns a random int in [0, n)
func (r *RandSource) Intn(n int) int {
	return r.rng.Intn(n)
}

// Uniform returns a random float64 in [lo, hi)
func (r *RandSource) Uniform(lo, hi float64) float64 {
	return lo + r.rng.Float64()*(hi-lo)
}

// IntBetween returns a random integer in [lo, hi] inclusive
func (r *RandSource) IntBetween(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + r.rng.Int63n(hi-lo+1)
}

// NormFloat64 returns a normally distributed random number with mean and stddev
func (r *RandSource) NormFloat64(mean, stddev float64) float64 {
	return r.rng.NormFloat64()*stddev + mean
}
