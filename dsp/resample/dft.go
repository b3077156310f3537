package resample

import (
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// dft computes unnormalized forward DFTs of a fixed length. Power-of-two
// lengths run directly on an FFT plan; other lengths use Bluestein's
// chirp-z algorithm on a power-of-two plan of at least 2n-1 points.
//
// A dft keeps scratch buffers and must not be shared between goroutines.
type dft struct {
	n       int
	forward func(dst, src []complex128) error
	inverse func(dst, src []complex128) error

	// Bluestein state; nil for direct plans.
	chirp  []complex128
	kernel []complex128
	work   []complex128
}

func newDFT(n int) (*dft, error) {
	if n <= 0 {
		return nil, ErrEmptyInput
	}

	d := &dft{n: n}
	if n == 1 {
		return d, nil
	}

	if isPowerOf2(n) {
		plan, err := algofft.NewPlan64(n)
		if err != nil {
			return nil, fmt.Errorf("resample: failed to create FFT plan: %w", err)
		}

		d.forward = plan.Forward
		d.inverse = plan.Inverse

		return d, nil
	}

	m := nextPowerOf2(2*n - 1)

	plan, err := algofft.NewPlan64(m)
	if err != nil {
		return nil, fmt.Errorf("resample: failed to create FFT plan: %w", err)
	}

	d.forward = plan.Forward
	d.inverse = plan.Inverse

	// chirp[k] = exp(-i*pi*k^2/n); k^2 is reduced mod 2n to keep the phase small.
	d.chirp = make([]complex128, n)
	for k := range n {
		k2 := (uint64(k) * uint64(k)) % uint64(2*n)
		phi := -math.Pi * float64(k2) / float64(n)
		d.chirp[k] = complex(math.Cos(phi), math.Sin(phi))
	}

	b := make([]complex128, m)

	b[0] = conj(d.chirp[0])
	for k := 1; k < n; k++ {
		c := conj(d.chirp[k])
		b[k] = c
		b[m-k] = c
	}

	d.kernel = make([]complex128, m)
	if err := d.forward(d.kernel, b); err != nil {
		return nil, fmt.Errorf("resample: forward FFT failed: %w", err)
	}

	d.work = make([]complex128, m)

	return d, nil
}

// transform writes DFT(src) to dst. Both must have length n.
func (d *dft) transform(dst, src []complex128) error {
	if len(dst) != d.n || len(src) != d.n {
		return fmt.Errorf("resample: dft length mismatch: dst=%d src=%d want %d", len(dst), len(src), d.n)
	}

	if d.n == 1 {
		dst[0] = src[0]
		return nil
	}

	if d.chirp == nil {
		if err := d.forward(dst, src); err != nil {
			return fmt.Errorf("resample: forward FFT failed: %w", err)
		}

		return nil
	}

	clear(d.work)

	for k := range d.n {
		d.work[k] = src[k] * d.chirp[k]
	}

	if err := d.forward(d.work, d.work); err != nil {
		return fmt.Errorf("resample: forward FFT failed: %w", err)
	}

	for i := range d.work {
		d.work[i] *= d.kernel[i]
	}

	if err := d.inverse(d.work, d.work); err != nil {
		return fmt.Errorf("resample: inverse FFT failed: %w", err)
	}

	for k := range d.n {
		dst[k] = d.work[k] * d.chirp[k]
	}

	return nil
}

func conj(z complex128) complex128 {
	return complex(real(z), -imag(z))
}

func isPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	return 1 << bits.Len(uint(n-1))
}
