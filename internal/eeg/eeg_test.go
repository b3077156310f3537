package eeg

import (
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// synthetic builds a recording whose samples encode class, block, channel
// and time so misplaced trials are detectable after a round trip.
func synthetic(subject string, l Layout, blocks int) *Recording {
	rec := &Recording{SubjectID: subject, Trials: make([][][][]float64, l.Classes)}
	for c := range rec.Trials {
		rec.Trials[c] = make([][][]float64, blocks)
		for b := range blocks {
			trial := make([][]float64, l.Channels)
			for ch := range trial {
				trial[ch] = make([]float64, l.Timepoints)
				for i := range trial[ch] {
					trial[ch][i] = float64(100*c+10*b+ch) + 0.5*math.Sin(float64(i))
				}
			}

			rec.Trials[c][b] = trial
		}
	}

	return rec
}

func TestSaveLoadRoundTrip(t *testing.T) {
	l := Layout{Channels: 3, Timepoints: 40, Classes: 4}
	want := synthetic("S01", l, 3)

	path := filepath.Join(t.TempDir(), "S01.edf")
	require.NoError(t, SaveEDF(path, want, 1000))

	got, err := Load(path, l)
	require.NoError(t, err)
	require.NoError(t, got.Validate(l))

	assert.Equal(t, "S01", got.SubjectID)
	assert.Equal(t, 4, got.Classes())
	assert.Equal(t, 3, got.Blocks())

	for c := range l.Classes {
		for b := range 3 {
			for ch := range l.Channels {
				lo, hi := channelRange(want, ch)
				tol := (hi-lo)/65535*1.01 + 1e-9

				wantTrial := want.Trial(c, b)[ch]
				gotTrial := got.Trial(c, b)[ch]
				require.Len(t, gotTrial, l.Timepoints)

				for i := range wantTrial {
					require.InDelta(t, wantTrial[i], gotTrial[i], tol, "class %d block %d channel %d sample %d", c, b, ch, i)
				}
			}
		}
	}
}

func TestLoadIgnoresExtraSignals(t *testing.T) {
	written := Layout{Channels: 4, Timepoints: 20, Classes: 2}
	path := filepath.Join(t.TempDir(), "S02.edf")
	require.NoError(t, SaveEDF(path, synthetic("S02", written, 2), 250))

	got, err := Load(path, Layout{Channels: 2, Timepoints: 20, Classes: 2})
	require.NoError(t, err)

	assert.Len(t, got.Trial(1, 1), 2)
}

func TestLoadLayoutErrors(t *testing.T) {
	written := Layout{Channels: 2, Timepoints: 20, Classes: 2}
	path := filepath.Join(t.TempDir(), "S03.edf")
	require.NoError(t, SaveEDF(path, synthetic("S03", written, 3), 250))

	tests := []struct {
		name string
		l    Layout
	}{
		{"too many channels", Layout{Channels: 3, Timepoints: 20, Classes: 2}},
		{"trial length", Layout{Channels: 2, Timepoints: 25, Classes: 2}},
		{"class count", Layout{Channels: 2, Timepoints: 20, Classes: 4}},
		{"zero classes", Layout{Channels: 2, Timepoints: 20, Classes: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(path, tt.l)
			require.ErrorIs(t, err, ErrLayout)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.edf"), Layout{Channels: 1, Timepoints: 1, Classes: 1})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateShape(t *testing.T) {
	l := Layout{Channels: 2, Timepoints: 5, Classes: 2}
	rec := synthetic("S", l, 2)
	require.NoError(t, rec.Validate(l))

	rec.Trials[1][0][1] = rec.Trials[1][0][1][:4]
	require.ErrorIs(t, rec.Validate(l), ErrLayout)

	rec = synthetic("S", l, 2)
	rec.Trials[1] = rec.Trials[1][:1]
	require.ErrorIs(t, rec.Validate(l), ErrLayout)
}

func TestSamplesPerRecord(t *testing.T) {
	assert.Equal(t, 375, samplesPerRecord(64, 1500))
	assert.Equal(t, 40, samplesPerRecord(3, 40))
	assert.Equal(t, 7, samplesPerRecord(4096, 7))
	assert.Equal(t, 0, samplesPerRecord(40000, 10))
}

func TestSubjectIDAndList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"S02.edf", "S01.edf", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	files, err := ListSubjects(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "S01", SubjectID(files[0]))
	assert.Equal(t, "S02", SubjectID(files[1]))
}

func TestSynthesizeShapeAndDeterminism(t *testing.T) {
	l := Layout{Channels: 3, Timepoints: 100, Classes: 2}

	a := Synthesize("S01", l, 4, 1000, rand.New(rand.NewPCG(1, 2)))
	b := Synthesize("S01", l, 4, 1000, rand.New(rand.NewPCG(1, 2)))

	require.NoError(t, a.Validate(l))
	assert.Equal(t, 4, a.Blocks())
	assert.Equal(t, a.Trials, b.Trials)
	assert.Equal(t, "S01", a.SubjectID)
}
