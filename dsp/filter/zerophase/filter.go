package zerophase

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/eegprep/dsp/filter/biquad"
	"github.com/cwbudde/eegprep/dsp/filter/design/band"
)

var (
	// ErrInsufficientSamples is returned when the input is not longer than
	// the edge padding the filter requires.
	ErrInsufficientSamples = errors.New("zerophase: insufficient samples")
	// ErrEmptySpec is returned for a Spec without sections.
	ErrEmptySpec = errors.New("zerophase: filter has no sections")
)

// Filter returns x filtered forward and backward with spec.
//
// The result has len(x) samples. x is not modified. Each call owns its
// filter state, so channels may be filtered in any order or concurrently.
func Filter(x []float64, spec band.Spec) ([]float64, error) {
	if len(spec.Sections) == 0 {
		return nil, ErrEmptySpec
	}

	pad := spec.PadLength()
	if len(x) <= pad {
		return nil, fmt.Errorf("%w: got %d, need more than %d", ErrInsufficientSamples, len(x), pad)
	}

	ext := oddExtend(x, pad)
	chain := biquad.NewChain(spec.Sections)

	chain.Prime(ext[0])
	chain.ProcessBlock(ext)

	slices.Reverse(ext)
	chain.Prime(ext[0])
	chain.ProcessBlock(ext)
	slices.Reverse(ext)

	out := make([]float64, len(x))
	copy(out, ext[pad:pad+len(x)])

	return out, nil
}

// FilterChannels filters every channel of data independently.
// The first failing channel aborts the call.
func FilterChannels(data [][]float64, spec band.Spec) ([][]float64, error) {
	out := make([][]float64, len(data))
	for ch, x := range data {
		y, err := Filter(x, spec)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}

		out[ch] = y
	}

	return out, nil
}

// oddExtend returns x with n samples of odd reflection about each endpoint.
func oddExtend(x []float64, n int) []float64 {
	last := len(x) - 1
	ext := make([]float64, len(x)+2*n)

	for i := range n {
		ext[i] = 2*x[0] - x[n-i]
		ext[n+len(x)+i] = 2*x[last] - x[last-1-i]
	}

	copy(ext[n:], x)

	return ext
}
