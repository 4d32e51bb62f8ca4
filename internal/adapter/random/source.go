package random

import (
	"math/rand/v2"
	"sync"
)

// Source satisfies ports.RandomSource. The zero value draws from the
// runtime's global generator, which is safe for concurrent use.
type Source struct {
	mu  *sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a reproducible source. Draws are serialized.
func NewSeeded(seed uint64) Source {
	return Source{mu: &sync.Mutex{}, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s Source) Float64() float64 {
	if s.rng == nil {
		return rand.Float64()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s Source) IntN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
