package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwbudde/eegprep/internal/config"
	"github.com/cwbudde/eegprep/internal/eeg"
	"github.com/cwbudde/eegprep/internal/pipeline"
)

func newSynthCmd(base config.Config) *cobra.Command {
	cfg := base

	var (
		output   string
		subjects int
		blocks   int
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write synthetic subject EDF files for smoke runs",
		Long: `Write synthetic subject recordings in the layout "eegprep run" reads.

Every trial holds a class-specific oscillation plus seeded noise.

Example: eegprep synth --output data --subjects 3 --blocks 6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if subjects <= 0 || blocks <= 0 {
				return fmt.Errorf("subjects and blocks must be > 0")
			}

			if err := os.MkdirAll(output, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}

			l := eeg.Layout{Channels: cfg.Channels, Timepoints: cfg.Timepoints, Classes: cfg.Classes}

			for i := range subjects {
				subject := fmt.Sprintf("S%02d", i+1)
				path := filepath.Join(output, subject+".edf")

				rec := eeg.Synthesize(subject, l, blocks, cfg.SourceRate, pipeline.SubjectRNG(seed, subject))
				if err := eeg.SaveEDF(path, rec, cfg.SourceRate); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d trials)\n", path, cfg.Classes*blocks)
			}

			return nil
		},
	}

	bindLayoutFlags(cmd, &cfg)

	cmd.Flags().StringVar(&output, "output", cfg.InputDir, "directory to write .edf files into")
	cmd.Flags().IntVar(&subjects, "subjects", 2, "number of subject files")
	cmd.Flags().IntVar(&blocks, "blocks", 6, "blocks per class")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "noise seed")

	return cmd
}
