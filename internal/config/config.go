// Package config holds the run configuration of the preprocessing pipeline.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/eegprep/dsp/resample"
)

// ErrInvalidConfig indicates a configuration value out of range.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is built once per run and passed by value.
type Config struct {
	// Directories
	InputDir  string
	OutputDir string

	// Recording layout
	Channels   int
	Timepoints int
	Classes    int

	// Band-pass filter
	LowHz       float64
	HighHz      float64
	FilterOrder int
	RippleDB    float64

	// Rates and windowing
	SourceRate float64
	TargetRate float64
	Window     int
	Method     string

	// Partition ratio
	TrainRatio      float64
	ValidationRatio float64
	TestRatio       float64

	// Run control
	Workers     int
	MoveRetries int
	Seed        int64
	HasSeed     bool
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		InputDir:        "data",
		OutputDir:       "out",
		Channels:        64,
		Timepoints:      1500,
		Classes:         40,
		LowHz:           6,
		HighHz:          90,
		FilterOrder:     4,
		RippleDB:        0.5,
		SourceRate:      1000,
		TargetRate:      250,
		Window:          250,
		Method:          "fft",
		TrainRatio:      0.8,
		ValidationRatio: 0.1,
		TestRatio:       0.1,
		Workers:         1,
		MoveRetries:     2,
	}
}

// FromEnv returns Default overridden by EEGPREP_* environment variables.
// Unparsable values keep their default.
func FromEnv() Config {
	d := Default()

	cfg := Config{
		InputDir:        getEnvString("EEGPREP_INPUT_DIR", d.InputDir),
		OutputDir:       getEnvString("EEGPREP_OUTPUT_DIR", d.OutputDir),
		Channels:        getEnvInt("EEGPREP_CHANNELS", d.Channels),
		Timepoints:      getEnvInt("EEGPREP_TIMEPOINTS", d.Timepoints),
		Classes:         getEnvInt("EEGPREP_CLASSES", d.Classes),
		LowHz:           getEnvFloat("EEGPREP_LOWCUT_HZ", d.LowHz),
		HighHz:          getEnvFloat("EEGPREP_HIGHCUT_HZ", d.HighHz),
		FilterOrder:     getEnvInt("EEGPREP_FILTER_ORDER", d.FilterOrder),
		RippleDB:        getEnvFloat("EEGPREP_RIPPLE_DB", d.RippleDB),
		SourceRate:      getEnvFloat("EEGPREP_SOURCE_RATE", d.SourceRate),
		TargetRate:      getEnvFloat("EEGPREP_TARGET_RATE", d.TargetRate),
		Window:          getEnvInt("EEGPREP_WINDOW", d.Window),
		Method:          getEnvString("EEGPREP_RESAMPLE_METHOD", d.Method),
		TrainRatio:      getEnvFloat("EEGPREP_TRAIN_RATIO", d.TrainRatio),
		ValidationRatio: getEnvFloat("EEGPREP_VALIDATION_RATIO", d.ValidationRatio),
		TestRatio:       getEnvFloat("EEGPREP_TEST_RATIO", d.TestRatio),
		Workers:         getEnvInt("EEGPREP_WORKERS", d.Workers),
		MoveRetries:     getEnvInt("EEGPREP_MOVE_RETRIES", d.MoveRetries),
	}

	if value := os.Getenv("EEGPREP_SEED"); value != "" {
		if seed, err := strconv.ParseInt(value, 10, 64); err == nil {
			cfg.Seed = seed
			cfg.HasSeed = true
		}
	}

	return cfg
}

// Validate reports the first out-of-range field. Filter design parameters
// are checked by the filter designer itself.
func (c Config) Validate() error {
	switch {
	case c.Channels <= 0:
		return fmt.Errorf("%w: channels must be > 0, got %d", ErrInvalidConfig, c.Channels)
	case c.Timepoints <= 0:
		return fmt.Errorf("%w: timepoints must be > 0, got %d", ErrInvalidConfig, c.Timepoints)
	case c.Classes <= 0:
		return fmt.Errorf("%w: classes must be > 0, got %d", ErrInvalidConfig, c.Classes)
	case c.Window <= 0:
		return fmt.Errorf("%w: window must be > 0, got %d", ErrInvalidConfig, c.Window)
	case !positive(c.SourceRate) || !positive(c.TargetRate):
		return fmt.Errorf("%w: sample rates must be > 0, got %g and %g", ErrInvalidConfig, c.SourceRate, c.TargetRate)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	case c.MoveRetries < 0:
		return fmt.Errorf("%w: move retries must be >= 0, got %d", ErrInvalidConfig, c.MoveRetries)
	}

	if _, err := resample.ParseMethod(c.Method); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.TrainRatio <= 0 || c.TrainRatio > 1 || c.ValidationRatio < 0 || c.TestRatio < 0 {
		return fmt.Errorf("%w: ratio %g/%g/%g out of range", ErrInvalidConfig, c.TrainRatio, c.ValidationRatio, c.TestRatio)
	}

	if sum := c.TrainRatio + c.ValidationRatio + c.TestRatio; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w: ratio %g/%g/%g sums to %g, want 1", ErrInvalidConfig, c.TrainRatio, c.ValidationRatio, c.TestRatio, sum)
	}

	if c.WindowsPerTrial() == 0 {
		return fmt.Errorf("%w: %d resampled samples per trial cannot hold a %d-sample window",
			ErrInvalidConfig, c.ResampledLength(), c.Window)
	}

	return nil
}

// ResampleMethod returns the parsed resampling method, MethodFFT when unset.
func (c Config) ResampleMethod() resample.Method {
	m, err := resample.ParseMethod(c.Method)
	if err != nil {
		return resample.MethodFFT
	}

	return m
}

// ResampledLength is the per-trial length after resampling.
func (c Config) ResampledLength() int {
	return resample.OutputLength(c.Timepoints, c.SourceRate, c.TargetRate)
}

// WindowsPerTrial is floor(ResampledLength/Window).
func (c Config) WindowsPerTrial() int {
	if c.Window <= 0 {
		return 0
	}

	return c.ResampledLength() / c.Window
}

// String renders the configuration for run logs.
func (c Config) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "channels=%d timepoints=%d classes=%d ", c.Channels, c.Timepoints, c.Classes)
	fmt.Fprintf(&b, "band=%g-%gHz order=%d ripple=%gdB ", c.LowHz, c.HighHz, c.FilterOrder, c.RippleDB)
	fmt.Fprintf(&b, "rate=%g->%gHz window=%d method=%s ", c.SourceRate, c.TargetRate, c.Window, c.Method)
	fmt.Fprintf(&b, "ratio=%g/%g/%g workers=%d retries=%d", c.TrainRatio, c.ValidationRatio, c.TestRatio, c.Workers, c.MoveRetries)

	if c.HasSeed {
		fmt.Fprintf(&b, " seed=%d", c.Seed)
	}

	return b.String()
}

func positive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
