package report

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/eegprep/internal/config"
	"github.com/cwbudde/eegprep/internal/partition"
	"github.com/cwbudde/eegprep/internal/pipeline"
)

func sampleSummary() pipeline.Summary {
	return pipeline.Summary{
		Results: []pipeline.SubjectResult{
			{
				Subject:  "S01",
				Segments: 240,
				Counts:   partition.Counts{Total: 240, Train: 192, Validation: 24, Test: 24},
				Duration: 2 * time.Second,
			},
			{
				Subject:    "S02",
				Segments:   239,
				Degenerate: 1,
				Counts:     partition.Counts{Total: 239, Train: 191, Validation: 24, Test: 24},
				Duration:   3 * time.Second,
			},
			{
				Subject: "S03",
				Err:     &pipeline.StageError{Subject: "S03", Stage: pipeline.StageLoad, Err: errors.New("truncated")},
			},
		},
		Totals:   partition.Counts{Total: 479, Train: 383, Validation: 48, Test: 48},
		Segments: 479,
		Skipped:  1,
		Failed:   1,
		Duration: 5 * time.Second,
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	cfg := config.Default()
	cfg.Seed, cfg.HasSeed = 42, true

	run := Run{ID: "run-1", Started: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), Config: cfg, Summary: sampleSummary()}
	require.NoError(t, Write(path, run))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows(SubjectsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, subjectHeaders, rows[0])
	assert.Equal(t, []string{"S01", "ok", "240", "0", "192", "24", "24", "2"}, rows[1])
	assert.Equal(t, "failed", rows[3][1])
	assert.Contains(t, rows[3][8], "subject S03: load: truncated")

	kv, err := f.GetRows(RunSheet)
	require.NoError(t, err)

	values := map[string]string{}
	for _, row := range kv {
		require.Len(t, row, 2)
		values[row[0]] = row[1]
	}

	assert.Equal(t, "run-1", values["Run ID"])
	assert.Equal(t, "2024-05-01T12:00:00Z", values["Started"])
	assert.Equal(t, "42", values["Seed"])
	assert.Equal(t, "3", values["Subjects"])
	assert.Equal(t, "1", values["Failed"])
	assert.Equal(t, "383", values["Train"])
	assert.Equal(t, "239.5", values["Segments/subject mean"])
}

func TestDescribeMatchesReference(t *testing.T) {
	data := []float64{240, 239, 236, 240, 228}

	d, err := Describe(data)
	require.NoError(t, err)

	mean, std := stat.PopMeanStdDev(data, nil)
	assert.InDelta(t, mean, d.Mean, 1e-12)
	assert.InDelta(t, std, d.StdDev, 1e-12)
	assert.InDelta(t, 239, d.Median, 0)
	assert.InDelta(t, 228, d.Min, 0)
	assert.InDelta(t, 240, d.Max, 0)
}

func TestDescribeEmpty(t *testing.T) {
	d, err := Describe(nil)
	require.NoError(t, err)
	assert.Equal(t, Distribution{}, d)
}

func TestCheck(t *testing.T) {
	require.ErrorIs(t, Check(pipeline.Summary{}), ErrNoSubjects)
	require.Error(t, Check(sampleSummary()))

	ok := sampleSummary()
	ok.Results = ok.Results[:2]
	ok.Failed = 0
	require.NoError(t, Check(ok))
}
