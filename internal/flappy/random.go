package flappy

import (
	"math/rand"
	"time"
)

// Rand is the random source the simulation draws gap positions and
// projectile speeds from. *rand.Rand satisfies it; tests pass a scripted
// source to pin exact trajectories.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded source. A zero seed picks one from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// uniform draws from [lo, hi].
func uniform(r Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}
