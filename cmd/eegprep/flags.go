package main

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/eegprep/internal/config"
)

func bindLayoutFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	f.IntVar(&cfg.Channels, "channels", cfg.Channels, "EEG channels per recording")
	f.IntVar(&cfg.Timepoints, "timepoints", cfg.Timepoints, "samples per trial at the source rate")
	f.IntVar(&cfg.Classes, "classes", cfg.Classes, "stimulus classes per recording")
	f.Float64Var(&cfg.SourceRate, "source-rate", cfg.SourceRate, "recording sample rate in Hz")
}

func bindFilterFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	f.Float64Var(&cfg.LowHz, "lowcut", cfg.LowHz, "band-pass lower edge in Hz")
	f.Float64Var(&cfg.HighHz, "highcut", cfg.HighHz, "band-pass upper edge in Hz")
	f.IntVar(&cfg.FilterOrder, "order", cfg.FilterOrder, "Chebyshev type I prototype order")
	f.Float64Var(&cfg.RippleDB, "ripple", cfg.RippleDB, "passband ripple in dB")
}

func bindRunFlags(cmd *cobra.Command, cfg *config.Config) {
	bindLayoutFlags(cmd, cfg)
	bindFilterFlags(cmd, cfg)

	f := cmd.Flags()
	f.StringVar(&cfg.InputDir, "input", cfg.InputDir, "directory of subject .edf files")
	f.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "output directory")
	f.Float64Var(&cfg.TargetRate, "target-rate", cfg.TargetRate, "sample rate after resampling in Hz")
	f.IntVar(&cfg.Window, "window", cfg.Window, "segment length in samples at the target rate")
	f.StringVar(&cfg.Method, "method", cfg.Method, "resampling method: fft or polyphase")
	f.Float64Var(&cfg.TrainRatio, "train", cfg.TrainRatio, "train fraction")
	f.Float64Var(&cfg.ValidationRatio, "validation", cfg.ValidationRatio, "validation fraction")
	f.Float64Var(&cfg.TestRatio, "test", cfg.TestRatio, "test fraction")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "subjects processed concurrently")
	f.IntVar(&cfg.MoveRetries, "retries", cfg.MoveRetries, "retries per failed file move")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "partition seed (random when unset)")
}

// applySeedFlag marks the seed as fixed when --seed was given.
func applySeedFlag(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("seed") {
		cfg.HasSeed = true
	}
}
