// Package zerophase applies IIR filters forward and backward in time so the
// net phase response is zero and features keep their time position.
//
// The signal is extended at both ends by an odd reflection of
// band.Spec.PadLength samples and every pass starts from the steady state
// for its first sample, which keeps edge transients out of the result.
package zerophase
