// Package band designs band-pass IIR filters for multi-channel biosignal
// preprocessing.
//
// [Chebyshev1Bandpass] returns a [Spec] holding both the transfer-function
// polynomials (B, A) and the equivalent cascade of second-order sections.
// The sections are what dsp/filter/zerophase runs; the polynomials describe
// the filter and fix the edge-padding length.
package band
