package resample

import "fmt"

// polyphase converts a whole signal by up/down with a delay-compensated FIR.
//
// Output sample m reads the upsampled stream at m*down+delay, where delay is
// the prototype's group delay, so output sample 0 lines up with input
// sample 0. Samples outside the input are treated as zero.
type polyphase struct {
	up, down int
	num      int
	delay    int
	phases   [][]float64
}

func newPolyphase(inRate, outRate float64, num int, cfg config) (*polyphase, error) {
	up, down := rationalRatio(inRate, outRate, cfg.maxDen)

	aa, err := newAntiAlias(inRate, outRate, up, cfg)
	if err != nil {
		return nil, err
	}

	// Gain up restores the amplitude lost to zero stuffing.
	h := aa.taps(float64(up))

	// Branch k holds h[k], h[k+up], h[k+2*up], ...
	phases := make([][]float64, up)
	for i, c := range h {
		phases[i%up] = append(phases[i%up], c)
	}

	return &polyphase{
		up:     up,
		down:   down,
		num:    num,
		delay:  (len(h) - 1) / 2,
		phases: phases,
	}, nil
}

func (p *polyphase) process(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}

	if p.num <= 0 {
		return nil, fmt.Errorf("%w: output length %d", ErrEmptyInput, p.num)
	}

	out := make([]float64, p.num)

	for m := range out {
		t := m*p.down + p.delay
		phase := t % p.up
		base := t / p.up

		var y float64

		for j, c := range p.phases[phase] {
			idx := base - j
			if idx < 0 {
				break
			}

			if idx < len(x) {
				y += c * x[idx]
			}
		}

		out[m] = y
	}

	return out, nil
}
