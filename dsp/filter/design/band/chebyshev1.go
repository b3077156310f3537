package band

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"

	"github.com/cwbudde/eegprep/dsp/filter/biquad"
)

// ErrInvalidParams reports cutoffs, sample rate, order or ripple outside
// the range a band-pass design can be built from.
var ErrInvalidParams = errors.New("band: invalid filter parameters")

// bilinearFS2 is twice the normalized design rate (fs=2, Nyquist=1).
const bilinearFS2 = 4.0

// Chebyshev1Bandpass designs a Chebyshev Type I band-pass filter.
//
// lowHz and highHz are the passband edges; rippleDB is the peak-to-peak
// passband ripple. order is the order of the analog low-pass prototype, so
// the digital filter has 2*order poles and order second-order sections.
// The band edges are normalized to Nyquist and must satisfy
// 0 < lowHz/(fs/2) < highHz/(fs/2) < 1.
func Chebyshev1Bandpass(lowHz, highHz, sampleRate, rippleDB float64, order int) (Spec, error) {
	if err := validate(lowHz, highHz, sampleRate, rippleDB, order); err != nil {
		return Spec{}, err
	}

	nyquist := sampleRate / 2
	wl := bilinearFS2 * math.Tan(math.Pi*(lowHz/nyquist)/2)
	wh := bilinearFS2 * math.Tan(math.Pi*(highHz/nyquist)/2)
	bw := wh - wl
	w0sq := complex(wl*wh, 0)

	proto, gain := chebyshev1Prototype(order, rippleDB)

	// Low-pass to band-pass: every prototype pole becomes two poles and
	// order zeros land at s=0.
	poles := make([]complex128, 0, 2*order)
	for _, p := range proto {
		pl := p * complex(bw/2, 0)
		root := cmplx.Sqrt(pl*pl - w0sq)
		poles = append(poles, pl+root, pl-root)
	}
	gain *= math.Pow(bw, float64(order))

	// Bilinear transform. The s=0 zeros map to z=1, the excess degree adds
	// order zeros at z=-1.
	den := complex(1, 0)
	for i, p := range poles {
		den *= bilinearFS2 - p
		poles[i] = (bilinearFS2 + p) / (bilinearFS2 - p)
	}
	gain *= real(complex(math.Pow(bilinearFS2, float64(order)), 0) / den)

	sections, err := pairSections(poles, gain, order)
	if err != nil {
		return Spec{}, err
	}

	return newSpec(sections), nil
}

func validate(lowHz, highHz, sampleRate, rippleDB float64, order int) error {
	for _, v := range []float64{lowHz, highHz, sampleRate, rippleDB} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidParams
		}
	}

	if sampleRate <= 0 || order <= 0 || rippleDB <= 0 {
		return ErrInvalidParams
	}

	if lowHz >= highHz {
		return ErrInvalidParams
	}

	nyquist := sampleRate / 2
	for _, wn := range []float64{lowHz / nyquist, highHz / nyquist} {
		if wn <= 0 || wn >= 1 {
			return ErrInvalidParams
		}
	}

	return nil
}

// chebyshev1Prototype returns the poles and gain of the analog low-pass
// prototype with a 1 rad/s passband edge.
func chebyshev1Prototype(order int, rippleDB float64) ([]complex128, float64) {
	eps := math.Sqrt(math.Pow(10, rippleDB/10) - 1)
	mu := math.Asinh(1/eps) / float64(order)

	poles := make([]complex128, 0, order)
	prod := complex(1, 0)

	for m := -order + 1; m < order; m += 2 {
		theta := math.Pi * float64(m) / float64(2*order)
		p := -cmplx.Sinh(complex(mu, theta))
		poles = append(poles, p)
		prod *= -p
	}

	gain := real(prod)
	if order%2 == 0 {
		// Even orders start at the bottom of the ripple.
		gain /= math.Sqrt(1 + eps*eps)
	}

	return poles, gain
}

// pairSections groups conjugate (or real) pole pairs into second-order
// sections with numerator 1 - z^-2. The overall gain goes to the first
// section; sections are ordered with poles closest to the unit circle last.
func pairSections(poles []complex128, gain float64, order int) ([]biquad.Coefficients, error) {
	const imagTol = 1e-12

	var (
		upper []complex128
		reals []float64
	)

	for _, p := range poles {
		switch {
		case imag(p) > imagTol:
			upper = append(upper, p)
		case imag(p) >= -imagTol:
			reals = append(reals, real(p))
		}
	}

	if len(reals)%2 != 0 || len(upper)+len(reals)/2 != order {
		return nil, ErrInvalidParams
	}

	type pair struct{ a1, a2, radius float64 }

	pairs := make([]pair, 0, order)
	for _, p := range upper {
		pairs = append(pairs, pair{a1: -2 * real(p), a2: real(p)*real(p) + imag(p)*imag(p), radius: cmplx.Abs(p)})
	}

	sort.Float64s(reals)
	for i := 0; i < len(reals); i += 2 {
		r := math.Max(math.Abs(reals[i]), math.Abs(reals[i+1]))
		pairs = append(pairs, pair{a1: -(reals[i] + reals[i+1]), a2: reals[i] * reals[i+1], radius: r})
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].radius < pairs[j].radius })

	sections := make([]biquad.Coefficients, len(pairs))
	for i, p := range pairs {
		g := 1.0
		if i == 0 {
			g = gain
		}

		sections[i] = biquad.Coefficients{B0: g, B1: 0, B2: -g, A1: p.a1, A2: p.a2}
		if !sections[i].Stable() {
			return nil, ErrInvalidParams
		}
	}

	return sections, nil
}
