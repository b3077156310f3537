package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cwbudde/eegprep/internal/config"
	"github.com/cwbudde/eegprep/internal/eeg"
	"github.com/cwbudde/eegprep/internal/partition"
	"github.com/cwbudde/eegprep/internal/pipeline"
	"github.com/cwbudde/eegprep/internal/report"
	"github.com/cwbudde/eegprep/internal/store"
)

func newRunCmd(base config.Config) *cobra.Command {
	cfg := base

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Filter, resample, segment, normalize and partition every subject",
		Long: `Process every .edf file in the input directory.

Each subject is band-pass filtered, resampled, cut into windows and z-scored
per channel. Segments are written to <output>/segments/<subject>/ and then
moved into <output>/train, <output>/validation and <output>/test. A summary
workbook is written to <output>/report.xlsx.

Example: eegprep run --input data --output out --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applySeedFlag(cmd, &cfg)
			return runPipeline(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	bindRunFlags(cmd, &cfg)

	return cmd
}

func runPipeline(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	runID := uuid.NewString()
	logger := log.New(stderr, fmt.Sprintf("[%s] ", runID[:8]), log.LstdFlags|log.Lmsgprefix)
	started := time.Now()

	if err := cfg.Validate(); err != nil {
		return err
	}

	if !cfg.HasSeed {
		cfg.Seed = rand.Int64()
		logger.Printf("no seed given, using random seed %d", cfg.Seed)
	}

	spec, err := pipeline.DesignFilter(cfg)
	if err != nil {
		return fmt.Errorf("designing filter: %w", err)
	}

	paths, err := eeg.ListSubjects(cfg.InputDir)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		return fmt.Errorf("no .edf files in %s", cfg.InputDir)
	}

	dirs := partition.Dirs{
		Train:      filepath.Join(cfg.OutputDir, "train"),
		Validation: filepath.Join(cfg.OutputDir, "validation"),
		Test:       filepath.Join(cfg.OutputDir, "test"),
	}

	segments := filepath.Join(cfg.OutputDir, "segments")
	for _, d := range []string{segments, dirs.Train, dirs.Validation, dirs.Test} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", d, err)
		}
	}

	logger.Printf("run %s: %d subjects, %d windows per trial, %s", runID, len(paths), cfg.WindowsPerTrial(), cfg)

	proc := pipeline.NewProcessor(cfg, spec, store.Dir{Root: segments}, dirs, uint64(cfg.Seed), pipeline.WithLogger(logger))

	sum, runErr := pipeline.NewRunner(proc, cfg.Workers, logger).Run(ctx, paths)

	reportPath := filepath.Join(cfg.OutputDir, "report.xlsx")
	if err := report.Write(reportPath, report.Run{ID: runID, Started: started, Config: cfg, Summary: sum}); err != nil {
		logger.Printf("writing report: %v", err)
	} else {
		logger.Printf("report written to %s", reportPath)
	}

	if err := printSummary(stdout, sum); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}

	return report.Check(sum)
}

func printSummary(w io.Writer, sum pipeline.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintf(tw, "Subject\tStatus\tSegments\tSkipped\tTrain\tValidation\tTest\tTime\n"); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if _, err := fmt.Fprintf(tw, "-------\t------\t--------\t-------\t-----\t----------\t----\t----\n"); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	for _, res := range sum.Results {
		status := "FAILED"
		if res.OK() {
			status = "ok"
		}

		if _, err := fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			res.Subject, status, res.Segments, res.Degenerate,
			res.Counts.Train, res.Counts.Validation, res.Counts.Test,
			res.Duration.Round(time.Millisecond),
		); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	if _, err := fmt.Fprintf(tw, "total\t%d failed\t%d\t%d\t%d\t%d\t%d\t%s\n",
		sum.Failed, sum.Segments, sum.Skipped,
		sum.Totals.Train, sum.Totals.Validation, sum.Totals.Test,
		sum.Duration.Round(time.Millisecond),
	); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing summary: %w", err)
	}

	for _, res := range sum.Results {
		if !res.OK() {
			if _, err := fmt.Fprintf(w, "%v\n", res.Err); err != nil {
				return fmt.Errorf("writing summary: %w", err)
			}
		}
	}

	return nil
}
