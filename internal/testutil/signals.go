// Package testutil holds deterministic signal generators and tolerance
// assertions shared by the dsp and pipeline tests.
package testutil

import (
	"math"
	"math/rand/v2"
)

// DeterministicSine returns amplitude*sin(2*pi*freqHz*i/sampleRate) for
// i in [0, length).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise returns uniform noise in [-amplitude, amplitude).
// The same seed always yields the same samples.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
	out := make([]float64, length)
	for i := range out {
		out[i] = (2*rng.Float64() - 1) * amplitude
	}
	return out
}

// Impulse returns a unit impulse at pos. An out-of-range pos yields zeros.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC returns a constant signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
