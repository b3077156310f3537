// Package biquad provides the second-order-section runtime used by the
// band-pass designs in dsp/filter/design/band.
//
// A [Section] runs Direct Form II Transposed on one set of [Coefficients].
// A [Chain] cascades sections for higher orders and knows how to seed every
// section with the steady-state response to a constant input, which is what
// forward-backward (zero-phase) filtering needs at the signal edges.
package biquad
