package config

import (
	"testing"

	"github.com/cwbudde/eegprep/dsp/resample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 375, cfg.ResampledLength())
	assert.Equal(t, 1, cfg.WindowsPerTrial())
	assert.Equal(t, resample.MethodFFT, cfg.ResampleMethod())
	assert.False(t, cfg.HasSeed)
}

func TestFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("EEGPREP_CHANNELS", "8")
	t.Setenv("EEGPREP_LOWCUT_HZ", "4.5")
	t.Setenv("EEGPREP_RESAMPLE_METHOD", "polyphase")
	t.Setenv("EEGPREP_WORKERS", "4")
	t.Setenv("EEGPREP_SEED", "42")
	t.Setenv("EEGPREP_OUTPUT_DIR", "/tmp/eeg")

	cfg := FromEnv()

	assert.Equal(t, 8, cfg.Channels)
	assert.InDelta(t, 4.5, cfg.LowHz, 0)
	assert.Equal(t, resample.MethodPolyphase, cfg.ResampleMethod())
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.HasSeed)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "/tmp/eeg", cfg.OutputDir)
	assert.Equal(t, Default().Timepoints, cfg.Timepoints)
}

func TestFromEnvIgnoresUnparsable(t *testing.T) {
	t.Setenv("EEGPREP_CHANNELS", "many")
	t.Setenv("EEGPREP_SEED", "soon")
	t.Setenv("EEGPREP_HIGHCUT_HZ", "ninety")

	cfg := FromEnv()

	assert.Equal(t, Default().Channels, cfg.Channels)
	assert.InDelta(t, Default().HighHz, cfg.HighHz, 0)
	assert.False(t, cfg.HasSeed)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"channels", func(c *Config) { c.Channels = 0 }},
		{"timepoints", func(c *Config) { c.Timepoints = -1 }},
		{"classes", func(c *Config) { c.Classes = 0 }},
		{"window", func(c *Config) { c.Window = 0 }},
		{"source rate", func(c *Config) { c.SourceRate = 0 }},
		{"target rate", func(c *Config) { c.TargetRate = -250 }},
		{"workers", func(c *Config) { c.Workers = 0 }},
		{"retries", func(c *Config) { c.MoveRetries = -1 }},
		{"method", func(c *Config) { c.Method = "cubic" }},
		{"train zero", func(c *Config) { c.TrainRatio = 0 }},
		{"ratio sum", func(c *Config) { c.TestRatio = 0.2 }},
		{"window too long", func(c *Config) { c.Window = 400 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestStringIncludesSeedOnlyWhenSet(t *testing.T) {
	cfg := Default()
	assert.NotContains(t, cfg.String(), "seed=")

	cfg.Seed, cfg.HasSeed = 7, true
	assert.Contains(t, cfg.String(), "seed=7")
}
