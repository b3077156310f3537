// Package report writes a spreadsheet summary of a preprocessing run.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/xuri/excelize/v2"

	"github.com/cwbudde/eegprep/internal/config"
	"github.com/cwbudde/eegprep/internal/pipeline"
)

const (
	SubjectsSheet = "Subjects"
	RunSheet      = "Run"
)

var subjectHeaders = []string{
	"Subject", "Status", "Segments", "Skipped", "Train", "Validation", "Test", "Seconds", "Error",
}

// Run describes one invocation of the pipeline.
type Run struct {
	ID      string
	Started time.Time
	Config  config.Config
	Summary pipeline.Summary
}

// Distribution summarizes a per-subject quantity across successful subjects.
type Distribution struct {
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// Describe returns the distribution of data. Empty input yields zeros.
func Describe(data []float64) (Distribution, error) {
	if len(data) == 0 {
		return Distribution{}, nil
	}

	var (
		d   Distribution
		err error
	)

	if d.Mean, err = stats.Mean(data); err != nil {
		return Distribution{}, fmt.Errorf("report: mean: %w", err)
	}

	if d.Median, err = stats.Median(data); err != nil {
		return Distribution{}, fmt.Errorf("report: median: %w", err)
	}

	if d.StdDev, err = stats.StandardDeviationPopulation(data); err != nil {
		return Distribution{}, fmt.Errorf("report: stddev: %w", err)
	}

	if d.Min, err = stats.Min(data); err != nil {
		return Distribution{}, fmt.Errorf("report: min: %w", err)
	}

	if d.Max, err = stats.Max(data); err != nil {
		return Distribution{}, fmt.Errorf("report: max: %w", err)
	}

	return d, nil
}

// Write saves the workbook for run at path.
func Write(path string, run Run) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("report: closing workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", SubjectsSheet); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if err := writeSubjects(f, run.Summary.Results); err != nil {
		return err
	}

	idx, err := f.NewSheet(RunSheet)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if err := writeRun(f, run); err != nil {
		return err
	}

	f.SetActiveSheet(idx)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: saving %s: %w", path, err)
	}

	return nil
}

func writeSubjects(f *excelize.File, results []pipeline.SubjectResult) error {
	for i, h := range subjectHeaders {
		if err := setCell(f, SubjectsSheet, i+1, 1, h); err != nil {
			return err
		}
	}

	for r, res := range results {
		status, msg := "ok", ""
		if !res.OK() {
			status, msg = "failed", res.Err.Error()
		}

		row := []any{
			res.Subject, status, res.Segments, res.Degenerate,
			res.Counts.Train, res.Counts.Validation, res.Counts.Test,
			res.Duration.Seconds(), msg,
		}

		for c, v := range row {
			if err := setCell(f, SubjectsSheet, c+1, r+2, v); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeRun(f *excelize.File, run Run) error {
	sum := run.Summary

	var segments, seconds []float64
	for _, res := range sum.Results {
		if res.OK() {
			segments = append(segments, float64(res.Segments))
			seconds = append(seconds, res.Duration.Seconds())
		}
	}

	segDist, err := Describe(segments)
	if err != nil {
		return err
	}

	timeDist, err := Describe(seconds)
	if err != nil {
		return err
	}

	seed := "random"
	if run.Config.HasSeed {
		seed = fmt.Sprint(run.Config.Seed)
	}

	rows := [][2]any{
		{"Run ID", run.ID},
		{"Started", run.Started.UTC().Format(time.RFC3339)},
		{"Duration (s)", sum.Duration.Seconds()},
		{"Config", run.Config.String()},
		{"Seed", seed},
		{"Subjects", len(sum.Results)},
		{"Failed", sum.Failed},
		{"Segments", sum.Segments},
		{"Skipped windows", sum.Skipped},
		{"Train", sum.Totals.Train},
		{"Validation", sum.Totals.Validation},
		{"Test", sum.Totals.Test},
		{"Segments/subject mean", segDist.Mean},
		{"Segments/subject median", segDist.Median},
		{"Segments/subject stddev", segDist.StdDev},
		{"Segments/subject min", segDist.Min},
		{"Segments/subject max", segDist.Max},
		{"Seconds/subject mean", timeDist.Mean},
		{"Seconds/subject max", timeDist.Max},
	}

	for r, kv := range rows {
		for c, v := range kv {
			if err := setCell(f, RunSheet, c+1, r+1, v); err != nil {
				return err
			}
		}
	}

	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("report: %s!%s: %w", sheet, cell, err)
	}

	return nil
}

// ErrNoSubjects is returned by Check when a run processed nothing.
var ErrNoSubjects = errors.New("report: run had no subjects")

// Check returns an error when the run should exit non-zero.
func Check(sum pipeline.Summary) error {
	if len(sum.Results) == 0 {
		return ErrNoSubjects
	}

	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d subjects failed", sum.Failed, len(sum.Results))
	}

	return nil
}
