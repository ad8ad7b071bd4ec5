package composer

import (
	"math/rand/v2"
	"sync"
)

// Source picks an index in [0, n). Greeting and ending selection is random
// among the candidates of a variant; tests inject a fixed Source.
type Source interface {
	Intn(n int) int
}

type globalSource struct{}

func (globalSource) Intn(n int) int { return rand.IntN(n) }

// RandomSource returns a Source backed by the process-wide generator.
func RandomSource() Source { return globalSource{} }

type seededSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSeededSource returns a reproducible Source safe for concurrent use.
func NewSeededSource(seed uint64) Source {
	return &seededSource{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}

// FixedSource always picks the same index, clamped to the candidate count.
type FixedSource int

// Intn implements Source.
func (f FixedSource) Intn(n int) int {
	i := int(f)
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
