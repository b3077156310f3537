package resample

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
	// ErrEmptyInput indicates a signal or trial without samples.
	ErrEmptyInput = errors.New("resample: empty input")
	// ErrRaggedInput indicates channels of unequal length.
	ErrRaggedInput = errors.New("resample: channels differ in length")
)

// Method selects the conversion algorithm.
type Method int

const (
	// MethodFFT resamples in the frequency domain.
	MethodFFT Method = iota
	// MethodPolyphase resamples with a rational polyphase FIR.
	MethodPolyphase
)

func (m Method) String() string {
	switch m {
	case MethodFFT:
		return "fft"
	case MethodPolyphase:
		return "polyphase"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps "fft" or "polyphase" to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fft", "fourier":
		return MethodFFT, nil
	case "polyphase", "poly":
		return MethodPolyphase, nil
	default:
		return 0, fmt.Errorf("resample: unknown method %q", s)
	}
}

// Quality selects the anti-aliasing targets of MethodPolyphase.
type Quality int

const (
	// QualityFast uses short filters with moderate attenuation.
	QualityFast Quality = iota
	// QualityBalanced is the default.
	QualityBalanced
	// QualityBest uses long filters with a narrow transition band.
	QualityBest
)

// Profile holds the anti-alias targets of a quality mode. Transition is the
// fraction of the output Nyquist band given to the filter's transition
// when no passband edge was set with WithPassband.
type Profile struct {
	StopbandDB      float64
	Transition      float64
	MaxTapsPerPhase int
}

// QualityProfile returns the targets used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{StopbandDB: 50, Transition: 0.3, MaxTapsPerPhase: 64}
	case QualityBest:
		return Profile{StopbandDB: 90, Transition: 0.1, MaxTapsPerPhase: 1024}
	default:
		return Profile{StopbandDB: 70, Transition: 0.2, MaxTapsPerPhase: 256}
	}
}

type config struct {
	method   Method
	quality  Quality
	passband float64
	maxDen   int
}

// Option configures a conversion.
type Option func(*config)

// WithMethod selects the conversion algorithm.
func WithMethod(m Method) Option {
	return func(cfg *config) {
		cfg.method = m
	}
}

// WithQuality selects the polyphase quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithPassband sets the highest frequency in Hz the signal is known to
// carry, typically the upper edge of a preceding band-pass. The polyphase
// anti-alias filter keeps that band flat and spends the rest of the output
// Nyquist band on its transition. Values at or above the output Nyquist
// frequency are ignored.
func WithPassband(hz float64) Option {
	return func(cfg *config) {
		if hz > 0 && !math.IsInf(hz, 0) {
			cfg.passband = hz
		}
	}
}

// WithMaxDenominator caps the down factor of the rational rate ratio.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{method: MethodFFT, quality: QualityBalanced, maxDen: 4096}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// OutputLength returns round(n*outRate/inRate), the number of samples a
// conversion of n samples produces. It returns 0 for invalid arguments.
func OutputLength(n int, inRate, outRate float64) int {
	if n <= 0 || !validRate(inRate) || !validRate(outRate) {
		return 0
	}

	return int(math.Round(float64(n) * outRate / inRate))
}

// Resample converts a single signal from inRate to outRate.
func Resample(x []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	out, err := Trial([][]float64{x}, inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}

	return out[0], nil
}

// Trial converts every channel of data from inRate to outRate with one
// shared time-axis transform. All channels must have the same length; the
// result has OutputLength(len(data[0]), inRate, outRate) samples per channel.
func Trial(data [][]float64, inRate, outRate float64, opts ...Option) ([][]float64, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, ErrInvalidRate
	}

	if len(data) == 0 || len(data[0]) == 0 {
		return nil, ErrEmptyInput
	}

	n := len(data[0])
	for ch := range data {
		if len(data[ch]) != n {
			return nil, fmt.Errorf("%w: channel %d has %d samples, want %d", ErrRaggedInput, ch, len(data[ch]), n)
		}
	}

	conv, err := newConverter(n, OutputLength(n, inRate, outRate), inRate, outRate, newConfig(opts))
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(data))
	for ch := range data {
		y, err := conv.process(data[ch])
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}

		out[ch] = y
	}

	return out, nil
}

// converter maps n input samples to num output samples.
type converter interface {
	process(x []float64) ([]float64, error)
}

func newConverter(n, num int, inRate, outRate float64, cfg config) (converter, error) {
	if num == n {
		return identity{}, nil
	}

	switch cfg.method {
	case MethodFFT:
		return newFourier(n, num)
	case MethodPolyphase:
		return newPolyphase(inRate, outRate, num, cfg)
	default:
		return nil, fmt.Errorf("resample: unsupported method %v", cfg.method)
	}
}

type identity struct{}

func (identity) process(x []float64) ([]float64, error) {
	out := make([]float64, len(x))
	copy(out, x)

	return out, nil
}

func validRate(r float64) bool {
	return r > 0 && !math.IsNaN(r) && !math.IsInf(r, 0)
}
