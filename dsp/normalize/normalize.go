// Package normalize rescales multichannel windows to zero mean and unit
// variance, one channel at a time.
package normalize

import (
	"errors"
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// ErrDegenerateChannel indicates a channel whose samples are all equal, so
// it has no variance to normalize by.
var ErrDegenerateChannel = errors.New("normalize: channel has zero variance")

// ZScore returns a copy of window, shaped [channels][samples], in which each
// channel is replaced by (x-mean)/std. Statistics are taken over that
// channel of this window only, with the population standard deviation.
// The input is not modified.
func ZScore(window [][]float64) ([][]float64, error) {
	out := make([][]float64, len(window))

	for ch, x := range window {
		y, err := Channel(x)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}

		out[ch] = y
	}

	return out, nil
}

// Channel returns (x-mean)/std for a single channel. Only a channel whose
// samples are all equal is degenerate; a large offset with a small spread
// is normalized like any other channel.
func Channel(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: empty channel", ErrDegenerateChannel)
	}

	if constant(x) {
		return nil, fmt.Errorf("%w: all %d samples equal %g", ErrDegenerateChannel, len(x), x[0])
	}

	out := make([]float64, len(x))
	mean, std := center(out, x)

	if !(std > 0) || math.IsInf(std, 0) {
		return nil, fmt.Errorf("%w: mean=%g std=%g", ErrDegenerateChannel, mean, std)
	}

	vecmath.ScaleBlockInPlace(out, 1/std)

	return out, nil
}

// center writes x-mean into dst and returns the mean and population
// standard deviation. The mean is refined with the residual sum of the
// centered samples, which matters for large offsets.
func center(dst, x []float64) (mean, std float64) {
	n := float64(len(x))
	mean = vecmath.Sum(x) / n

	for i, v := range x {
		dst[i] = v - mean
	}

	if r := vecmath.Sum(dst) / n; r != 0 {
		mean += r
		for i, v := range x {
			dst[i] = v - mean
		}
	}

	return mean, math.Sqrt(vecmath.DotProduct(dst, dst) / n)
}

func constant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}

	return true
}
