package resample

import (
	"fmt"
	"math"
)

// antiAlias describes the low-pass every polyphase branch shares, in Hz at
// the upsampled rate.
type antiAlias struct {
	rate       float64
	passHz     float64
	stopHz     float64
	stopbandDB float64
	maxTaps    int
}

// newAntiAlias places the stopband edge at the lower Nyquist frequency of
// the two rates and the passband edge at the caller's passband, or a
// profile-dependent fraction below the stopband when none was given.
func newAntiAlias(inRate, outRate float64, up int, cfg config) (antiAlias, error) {
	p := QualityProfile(cfg.quality)

	stop := 0.5 * math.Min(inRate, outRate)

	pass := cfg.passband
	if !(pass > 0 && pass < stop) {
		pass = stop * (1 - p.Transition)
	}

	aa := antiAlias{
		rate:       inRate * float64(up),
		passHz:     pass,
		stopHz:     stop,
		stopbandDB: p.StopbandDB,
		maxTaps:    p.MaxTapsPerPhase * up,
	}
	if aa.passHz <= 0 || aa.rate <= 0 {
		return antiAlias{}, fmt.Errorf("%w: passband %g Hz at %g Hz", ErrInvalidRate, aa.passHz, aa.rate)
	}

	return aa, nil
}

// length is the odd Kaiser estimate for the transition width, capped at
// maxTaps. An odd length puts the group delay on a whole sample.
func (aa antiAlias) length() int {
	dw := 2 * math.Pi * (aa.stopHz - aa.passHz) / aa.rate

	n := int(math.Ceil((aa.stopbandDB-7.95)/(2.285*dw))) + 1
	n = min(max(n, 3), aa.maxTaps)

	return n | 1
}

func (aa antiAlias) beta() float64 {
	a := aa.stopbandDB

	switch {
	case a > 50:
		return 0.1102 * (a - 8.7)
	case a > 21:
		return 0.5842*math.Pow(a-21, 0.4) + 0.07886*(a-21)
	default:
		return 0
	}
}

// taps returns the windowed-sinc prototype with its DC gain set to gain.
func (aa antiAlias) taps(gain float64) []float64 {
	n := aa.length()
	fc := 0.5 * (aa.passHz + aa.stopHz) / aa.rate
	beta := aa.beta()
	norm := besselI0(beta)
	half := 0.5 * float64(n-1)

	h := make([]float64, n)

	var sum float64

	for i := range h {
		t := float64(i) - half
		r := t / half
		w := besselI0(beta*math.Sqrt(math.Max(0, 1-r*r))) / norm

		h[i] = 2 * fc * normSinc(2*fc*t) * w
		sum += h[i]
	}

	for i := range h {
		h[i] *= gain / sum
	}

	return h
}

// rationalRatio returns up/down equal or close to outRate/inRate with
// down <= maxDen. Whole-number rates reduce exactly; other rates use the
// last continued-fraction convergent that fits.
func rationalRatio(inRate, outRate float64, maxDen int) (up, down int) {
	if maxDen <= 0 {
		maxDen = 4096
	}

	if isWhole(inRate) && isWhole(outRate) {
		in, out := int(inRate), int(outRate)
		g := gcd(in, out)

		if in/g <= maxDen {
			return out / g, in / g
		}
	}

	v := outRate / inRate
	if !(v > 0) || math.IsInf(v, 0) {
		return 1, 1
	}

	// h/k are successive convergents, seeded with 0/1 and 1/0.
	h0, h1 := 0.0, 1.0
	k0, k1 := 1.0, 0.0

	for x := v; ; {
		a := math.Floor(x)

		h2, k2 := a*h1+h0, a*k1+k0
		if k2 > float64(maxDen) {
			break
		}

		h0, h1, k0, k1 = h1, h2, k1, k2

		f := x - a
		if f < 1e-12 {
			break
		}

		x = 1 / f
	}

	if h1 < 1 || k1 < 1 {
		return 1, 1
	}

	up, down = int(h1), int(k1)
	g := gcd(up, down)

	return up / g, down / g
}

func isWhole(x float64) bool {
	return x >= 1 && x < 1<<31 && x == math.Trunc(x)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	return max(a, 1)
}

// normSinc is sin(pi*x)/(pi*x).
func normSinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	return math.Sin(math.Pi*x) / (math.Pi * x)
}

// besselI0 evaluates the modified Bessel function I0 by its power series,
// sum of ((x/2)^k / k!)^2.
func besselI0(x float64) float64 {
	q := 0.25 * x * x
	term, sum := 1.0, 1.0

	for k := 1.0; term > 1e-17*sum; k++ {
		term *= q / (k * k)
		sum += term
	}

	return sum
}
