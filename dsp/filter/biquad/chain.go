package biquad

// Chain is an ordered cascade of biquad sections processed in series.
// Band-pass designs of order N become N sections.
type Chain struct {
	sections []Section
}

// NewChain creates a cascade from one or more coefficient sets.
// Each Coefficients value becomes one Section in the cascade. The chain owns
// its state, so independent chains built from the same coefficients can run
// concurrently.
func NewChain(coeffs []Coefficients) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs))}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}

	return c
}

// ProcessSample cascades input through all sections in order.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters a block in-place through the full cascade.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// Reset clears all section states.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// Prime loads every section with the steady state reached for a constant
// input of value x0. Section k sees x0 scaled by the DC gain of sections
// 0..k-1.
func (c *Chain) Prime(x0 float64) {
	scale := x0
	for i := range c.sections {
		zi := c.sections[i].SteadyState()
		c.sections[i].SetState([2]float64{zi[0] * scale, zi[1] * scale})
		scale *= c.sections[i].DCGain()
	}
}

// State returns a snapshot of all section delay-line states.
func (c *Chain) State() [][2]float64 {
	states := make([][2]float64, len(c.sections))
	for i := range c.sections {
		states[i] = c.sections[i].State()
	}

	return states
}

// SetState restores previously saved section states.
// The slice needs one state per section.
func (c *Chain) SetState(states [][2]float64) {
	for i := range c.sections {
		c.sections[i].SetState(states[i])
	}
}
