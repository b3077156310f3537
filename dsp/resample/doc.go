// Package resample converts sampled signals between rates with an exact,
// caller-visible output length.
//
// The target length for n input samples is round(n*outRate/inRate). When the
// product is not an integer the rounding is deliberate: every channel of a
// trial gets the same rounded length, so channels stay aligned.
//
// Methods:
//   - MethodFFT (default): Fourier-domain resampling. The spectrum is
//     truncated or zero-padded to the target length, Nyquist bins are split
//     or folded, and the result is scaled by num/n. Lengths that are not a
//     power of two use Bluestein's chirp-z transform on power-of-two plans.
//   - MethodPolyphase: rational up/down conversion with a Kaiser-windowed
//     sinc FIR, compensated for the filter's group delay. The stopband
//     starts at the lower Nyquist frequency; WithPassband sets where the
//     passband ends.
//
// Polyphase quality modes:
//
//	mode            stopband   default transition   max taps/phase
//	QualityFast     50 dB      30% of Nyquist       64
//	QualityBalanced 70 dB      20% of Nyquist       256
//	QualityBest     90 dB      10% of Nyquist       1024
package resample
