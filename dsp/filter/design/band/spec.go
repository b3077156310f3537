package band

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/eegprep/dsp/filter/biquad"
)

// Spec is an immutable band-pass filter description. B and A are the
// feedforward and feedback polynomials in z^-1 (A[0] == 1); Sections is the
// same transfer function as a cascade of second-order sections.
//
// A Spec is shared read-only; callers must not modify the slices.
type Spec struct {
	B        []float64
	A        []float64
	Sections []biquad.Coefficients
}

func newSpec(sections []biquad.Coefficients) Spec {
	b := []float64{1}
	a := []float64{1}

	for _, s := range sections {
		b = polyMul(b, []float64{s.B0, s.B1, s.B2})
		a = polyMul(a, []float64{1, s.A1, s.A2})
	}

	return Spec{B: b, A: a, Sections: sections}
}

// Order returns the prototype order (number of second-order sections).
func (s Spec) Order() int {
	return len(s.Sections)
}

// PadLength returns the number of samples zero-phase filtering extends the
// signal by at each end: three times the longer polynomial.
func (s Spec) PadLength() int {
	return 3 * max(len(s.B), len(s.A))
}

// MinInputLength returns the shortest signal zero-phase filtering accepts.
func (s Spec) MinInputLength() int {
	return s.PadLength() + 1
}

// Response evaluates the polynomial form B(z)/A(z) at freqHz.
func (s Spec) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	z1 := cmplx.Exp(complex(0, -w))

	return polyEval(s.B, z1) / polyEval(s.A, z1)
}

// MagnitudeDB returns the cascade magnitude response in dB at freqHz.
func (s Spec) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return biquad.NewChain(s.Sections).MagnitudeDB(freqHz, sampleRate)
}

// Settling returns the length of the impulse response up to its last
// sample above tol times the peak, looking at no more than limit samples.
// A result equal to limit means the response had not decayed yet.
func (s Spec) Settling(tol float64, limit int) int {
	ir := biquad.NewChain(s.Sections).ImpulseResponse(limit)

	var peak float64
	for _, v := range ir {
		peak = max(peak, math.Abs(v))
	}

	for i := len(ir) - 1; i >= 0; i-- {
		if math.Abs(ir[i]) > tol*peak {
			return i + 1
		}
	}

	return 0
}

func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		for j, y := range b {
			out[i+j] += x * y
		}
	}

	return out
}

// polyEval evaluates sum c[n]*z1^n with Horner's rule.
func polyEval(c []float64, z1 complex128) complex128 {
	acc := complex(0, 0)
	for i := len(c) - 1; i >= 0; i-- {
		acc = acc*z1 + complex(c[i], 0)
	}

	return acc
}
