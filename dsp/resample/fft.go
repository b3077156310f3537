package resample

import "fmt"

// fourier resamples n samples to num samples in the frequency domain.
//
// The forward spectrum of length n is cut (or zero-padded) to the lowest
// min(n, num) bins. When that bin count N is even, the bin at N/2 holds
// energy from both the positive and negative halves: it is doubled on
// downsampling and split in half on upsampling. The output spectrum is
// completed Hermitian so the inverse is real, and the result is scaled by
// num/n so amplitudes are preserved.
type fourier struct {
	n, num int

	analysis  *dft
	synthesis *dft

	in   []complex128
	spec []complex128
	full []complex128
	out  []complex128
}

func newFourier(n, num int) (*fourier, error) {
	if n <= 0 || num <= 0 {
		return nil, fmt.Errorf("%w: cannot resample %d samples to %d", ErrEmptyInput, n, num)
	}

	analysis, err := newDFT(n)
	if err != nil {
		return nil, err
	}

	synthesis, err := newDFT(num)
	if err != nil {
		return nil, err
	}

	return &fourier{
		n:         n,
		num:       num,
		analysis:  analysis,
		synthesis: synthesis,
		in:        make([]complex128, n),
		spec:      make([]complex128, n),
		full:      make([]complex128, num),
		out:       make([]complex128, num),
	}, nil
}

func (f *fourier) process(x []float64) ([]float64, error) {
	if len(x) != f.n {
		return nil, fmt.Errorf("%w: got %d samples, want %d", ErrRaggedInput, len(x), f.n)
	}

	for i, v := range x {
		f.in[i] = complex(v, 0)
	}

	if err := f.analysis.transform(f.spec, f.in); err != nil {
		return nil, err
	}

	// Half spectrum of the output, bins 0..N/2.
	nBins := min(f.n, f.num)
	half := nBins/2 + 1

	clear(f.full)
	copy(f.full[:half], f.spec[:half])

	if nBins%2 == 0 {
		switch {
		case f.num < f.n:
			f.full[nBins/2] *= 2
		case f.num > f.n:
			f.full[nBins/2] *= 0.5
		}
	}

	// Hermitian completion. DC and the output Nyquist bin carry only their
	// real part, matching a real inverse transform.
	f.full[0] = complex(real(f.full[0]), 0)
	if f.num%2 == 0 {
		f.full[f.num/2] = complex(real(f.full[f.num/2]), 0)
	}

	for k := 1; k < (f.num+1)/2; k++ {
		f.full[f.num-k] = conj(f.full[k])
	}

	// Unnormalized inverse via conj(DFT(conj(X))). The real part is all
	// that is kept, so the outer conjugate is dropped.
	for k := range f.full {
		f.full[k] = conj(f.full[k])
	}

	if err := f.synthesis.transform(f.out, f.full); err != nil {
		return nil, err
	}

	y := make([]float64, f.num)

	scale := 1 / float64(f.n)
	for i := range y {
		y[i] = real(f.out[i]) * scale
	}

	return y, nil
}
