package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/eegprep/internal/config"
	"github.com/cwbudde/eegprep/internal/eeg"
	"github.com/cwbudde/eegprep/internal/partition"
	"github.com/cwbudde/eegprep/internal/store"
)

func makeDirs(t *testing.T, root string) partition.Dirs {
	t.Helper()

	dirs := partition.Dirs{
		Train:      filepath.Join(root, "train"),
		Validation: filepath.Join(root, "validation"),
		Test:       filepath.Join(root, "test"),
	}

	for _, d := range []string{dirs.Train, dirs.Validation, dirs.Test} {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}

	return dirs
}

// writeSubjects writes n synthetic subject files plus one corrupt file and
// returns the paths in name order.
func writeSubjects(t *testing.T, dir string, cfg config.Config, n, blocks int) []string {
	t.Helper()

	for i := range n {
		subject := filepath.Join(dir, fmt.Sprintf("S%02d.edf", i+1))
		rec := synthRecording(eeg.SubjectID(subject), cfg, blocks, uint64(i+1))
		require.NoError(t, eeg.SaveEDF(subject, rec, cfg.SourceRate))
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "S09.edf"), []byte("not an edf file"), 0o644))

	paths, err := eeg.ListSubjects(dir)
	require.NoError(t, err)

	return paths
}

func runOnce(t *testing.T, cfg config.Config, paths []string, workers int) (string, Summary) {
	t.Helper()

	root := t.TempDir()
	dirs := makeDirs(t, root)

	spec, err := DesignFilter(cfg)
	require.NoError(t, err)

	proc := NewProcessor(cfg, spec, store.Dir{Root: filepath.Join(root, "segments")}, dirs, 1234)

	sum, err := NewRunner(proc, workers, nil).Run(context.Background(), paths)
	require.NoError(t, err)

	return root, sum
}

func TestRunnerIsolatesFailingSubject(t *testing.T) {
	cfg := testConfig(3, 4)
	cfg.Window = 125
	paths := writeSubjects(t, t.TempDir(), cfg, 3, 5)
	require.Len(t, paths, 4)

	_, sum := runOnce(t, cfg, paths, 2)

	require.Len(t, sum.Results, 4)
	assert.Equal(t, 1, sum.Failed)

	// 4 classes * 5 blocks * 3 windows per subject
	assert.Equal(t, 3*60, sum.Segments)
	assert.Equal(t, 3*60, sum.Totals.Total)
	assert.Equal(t, 3*48, sum.Totals.Train)
	assert.Equal(t, 3*6, sum.Totals.Validation)
	assert.Equal(t, 3*6, sum.Totals.Test)

	for _, res := range sum.Results[:3] {
		require.NoError(t, res.Err, res.Subject)
		assert.Equal(t, 60, res.Segments)
	}

	failed := sum.Results[3]
	assert.Equal(t, "S09", failed.Subject)

	var se *StageError
	require.ErrorAs(t, failed.Err, &se)
	assert.Equal(t, StageLoad, se.Stage)
}

func TestRunnerPartitionDoesNotDependOnWorkers(t *testing.T) {
	cfg := testConfig(2, 2)
	paths := writeSubjects(t, t.TempDir(), cfg, 3, 5)

	listing := func(root string) map[string]string {
		out := map[string]string{}
		for _, group := range []string{"train", "validation", "test"} {
			entries, err := os.ReadDir(filepath.Join(root, group))
			require.NoError(t, err)

			for _, e := range entries {
				out[e.Name()] = group
			}
		}

		return out
	}

	rootA, _ := runOnce(t, cfg, paths, 1)
	rootB, _ := runOnce(t, cfg, paths, 3)

	a, b := listing(rootA), listing(rootB)
	assert.Len(t, a, 3*10)
	assert.Equal(t, a, b)
}

func TestRunnerCanceled(t *testing.T) {
	cfg := testConfig(2, 2)
	paths := writeSubjects(t, t.TempDir(), cfg, 1, 2)

	spec, err := DesignFilter(cfg)
	require.NoError(t, err)

	root := t.TempDir()
	proc := NewProcessor(cfg, spec, store.Dir{Root: root}, makeDirs(t, root), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := NewRunner(proc, 1, nil).Run(ctx, paths)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, len(paths), sum.Failed)
}
