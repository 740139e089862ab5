package mock

import (
	"math/rand"
	"sync"
	"time"
)

// Random wraps a private *rand.Rand with the helpers the generator needs.
// It is safe for concurrent use.
type Random struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// NewRandom creates a random source. A zero seed picks one from the clock.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Float64 returns a value in [0,1).
func (r *Random) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Number returns a uniformly distributed value in [min,max].
func (r *Random) Number(min, max float64) float64 {
	if max < min {
		min, max = max, min
	}
	return min + r.Float64()*(max-min)
}

// Boolean returns true with probability p.
func (r *Random) Boolean(p float64) bool {
	return r.Float64() < p
}

// Variation returns base shifted by a uniform amount in [-delta,delta].
func (r *Random) Variation(base, delta float64) float64 {
	return base + r.Number(-delta, delta)
}
