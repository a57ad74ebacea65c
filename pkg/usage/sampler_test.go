package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleRate(t *testing.T) {
	tests := []struct {
		prior int64
		want  float64
	}{
		{0, 1},
		{99, 1},
		{100, 0.1},
		{999, 0.1},
		{1000, 0.01},
		{9999, 0.01},
		{10000, 0.001},
		{1_000_000, 0.001},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, SampleRate(tt.prior), 1e-12, "prior=%d", tt.prior)
	}
}

func TestSamplerAlwaysSamplesFirstHundred(t *testing.T) {
	s := NewSampler(fixedRand(0.999999))

	for prior := range int64(100) {
		assert.True(t, s.ShouldSample(prior), "prior=%d", prior)
	}
	assert.False(t, s.ShouldSample(100))
}

func TestSamplerTiers(t *testing.T) {
	s := NewSampler(fixedRand(0.05))

	assert.True(t, s.ShouldSample(100))
	assert.True(t, s.ShouldSample(999))
	assert.False(t, s.ShouldSample(1000))
	assert.False(t, s.ShouldSample(10000))

	s = NewSampler(fixedRand(0.0005))
	assert.True(t, s.ShouldSample(1000))
	assert.True(t, s.ShouldSample(50000))
}

func TestSamplerDeterministicSequence(t *testing.T) {
	a := NewSampler(nil)
	b := NewSampler(nil)

	for range 1000 {
		assert.Equal(t, a.ShouldSample(500), b.ShouldSample(500))
	}
}

func TestSamplerConvergesToTierRate(t *testing.T) {
	s := NewSampler(nil)

	const trials = 100_000
	hits := 0
	for range trials {
		if s.ShouldSample(5000) {
			hits++
		}
	}

	assert.InDelta(t, 0.01, float64(hits)/trials, 0.002)
}
