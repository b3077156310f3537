// Package segment cuts a multichannel trial into consecutive,
// non-overlapping fixed-width windows.
package segment

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrInvalidWidth indicates a window width that is not positive.
	ErrInvalidWidth = errors.New("segment: window width must be > 0")
	// ErrRaggedInput indicates channels of unequal length.
	ErrRaggedInput = errors.New("segment: channels differ in length")
)

// Segmenter yields windows of width samples across all channels of a trial.
// Stride equals width; a trailing partial window is dropped.
//
// Windows are capped sub-slices of the trial, not copies. Callers that keep
// or modify a window should copy it first.
type Segmenter struct {
	data  [][]float64
	width int
	count int
}

// New returns a Segmenter over data, shaped [channels][samples].
func New(data [][]float64, width int) (*Segmenter, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWidth, width)
	}

	n := 0
	if len(data) > 0 {
		n = len(data[0])
	}

	for ch := range data {
		if len(data[ch]) != n {
			return nil, fmt.Errorf("%w: channel %d has %d samples, want %d", ErrRaggedInput, ch, len(data[ch]), n)
		}
	}

	count := 0
	if len(data) > 0 {
		count = n / width
	}

	return &Segmenter{data: data, width: width, count: count}, nil
}

// Count returns the number of full windows, floor(samples/width).
func (s *Segmenter) Count() int {
	return s.count
}

// Width returns the window width in samples.
func (s *Segmenter) Width() int {
	return s.width
}

// Window returns window i, shaped [channels][width].
func (s *Segmenter) Window(i int) [][]float64 {
	if i < 0 || i >= s.count {
		panic(fmt.Sprintf("segment: window %d out of range [0,%d)", i, s.count))
	}

	start := i * s.width
	end := start + s.width

	w := make([][]float64, len(s.data))
	for ch := range s.data {
		w[ch] = s.data[ch][start:end:end]
	}

	return w
}

// All yields (index, window) pairs in time order, starting at index 0 on
// every range.
func (s *Segmenter) All() iter.Seq2[int, [][]float64] {
	return func(yield func(int, [][]float64) bool) {
		for i := range s.count {
			if !yield(i, s.Window(i)) {
				return
			}
		}
	}
}
