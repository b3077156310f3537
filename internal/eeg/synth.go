package eeg

import (
	"math"
	"math/rand/v2"
)

// Synthesize returns a recording with l's shape and blocks blocks per class.
// Every trial holds a class-specific oscillation between 8 and 37 Hz with a
// per-channel phase, a DC offset, and Gaussian noise drawn from rng.
func Synthesize(subject string, l Layout, blocks int, sampleRate float64, rng *rand.Rand) *Recording {
	rec := &Recording{SubjectID: subject, Trials: make([][][][]float64, l.Classes)}

	for c := range rec.Trials {
		freq := 8 + float64(c%30)
		rec.Trials[c] = make([][][]float64, blocks)

		for b := range blocks {
			trial := make([][]float64, l.Channels)
			for ch := range trial {
				phase := 2 * math.Pi * float64(ch) / float64(l.Channels)
				x := make([]float64, l.Timepoints)

				for i := range x {
					ts := float64(i) / sampleRate
					x[i] = 50 + 20*math.Sin(2*math.Pi*freq*ts+phase) + 5*rng.NormFloat64()
				}

				trial[ch] = x
			}

			rec.Trials[c][b] = trial
		}
	}

	return rec
}
