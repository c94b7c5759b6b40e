package service

import (
	"math/rand/v2"
	"sync"
	"time"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock in UTC
func SystemClock() Clock {
	return systemClock{}
}

// lockedRandom serializes access to a *rand.Rand shared by handlers
type lockedRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (r *lockedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func (r *lockedRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// NewRandom returns a generator seeded from the runtime's entropy.
// It is safe for concurrent use.
func NewRandom() Random {
	return &lockedRandom{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// randomDuration picks a whole number of seconds uniformly in [lo, hi]
func randomDuration(rng Random, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	span := int((hi - lo) / time.Second)
	return lo + time.Duration(rng.IntN(span+1))*time.Second
}
