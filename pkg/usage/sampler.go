package usage

import (
	"math/rand/v2"
	"sync"
)

// samplerSeed makes the sampling sequence reproducible for a fixed call sequence.
const samplerSeed = 42

// RandSource yields uniform values in [0, 1).
type RandSource interface {
	Float64() float64
}

// Sampler decides whether a successful call is reported, based on how many
// times its Site had completed before it.
type Sampler struct {
	mu  sync.Mutex
	rnd RandSource
}

// NewSampler returns a Sampler drawing from src. A nil src uses a PCG
// generator seeded with a fixed constant.
func NewSampler(src RandSource) *Sampler {
	if src == nil {
		src = rand.New(rand.NewPCG(samplerSeed, samplerSeed))
	}
	return &Sampler{rnd: src}
}

// SampleRate returns the probability that a call is reported when its site
// had already completed prior times.
func SampleRate(prior int64) float64 {
	switch {
	case prior < 100:
		return 1
	case prior < 1000:
		return 0.1
	case prior < 10000:
		return 0.01
	default:
		return 0.001
	}
}

// ShouldSample reports whether a call preceded by prior completed calls of
// the same site should be reported. The first 100 calls always are.
func (s *Sampler) ShouldSample(prior int64) bool {
	rate := SampleRate(prior)
	if rate >= 1 {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rnd.Float64() < rate
}
