// Package eeg loads per-subject EEG recordings from EDF files.
package eeg

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ErrLayout indicates a recording that does not match the expected channel
// count, trial length or class count.
var ErrLayout = errors.New("eeg: recording layout mismatch")

// Layout describes how trials are laid out in a subject file.
type Layout struct {
	Channels   int
	Timepoints int
	Classes    int
}

// Recording is one subject's data as [class][block] trials, each trial
// shaped [channels][timepoints]. Classes and blocks are 0-based here.
type Recording struct {
	SubjectID string
	Trials    [][][][]float64
}

// Classes returns the number of classes.
func (r *Recording) Classes() int {
	return len(r.Trials)
}

// Blocks returns the number of blocks per class.
func (r *Recording) Blocks() int {
	if len(r.Trials) == 0 {
		return 0
	}

	return len(r.Trials[0])
}

// Trial returns the trial of class c and block b.
func (r *Recording) Trial(c, b int) [][]float64 {
	return r.Trials[c][b]
}

// Validate checks that every trial has the layout's shape.
func (r *Recording) Validate(l Layout) error {
	if len(r.Trials) != l.Classes {
		return fmt.Errorf("%w: %d classes, want %d", ErrLayout, len(r.Trials), l.Classes)
	}

	blocks := r.Blocks()
	if blocks == 0 {
		return fmt.Errorf("%w: no blocks", ErrLayout)
	}

	for c := range r.Trials {
		if len(r.Trials[c]) != blocks {
			return fmt.Errorf("%w: class %d has %d blocks, want %d", ErrLayout, c, len(r.Trials[c]), blocks)
		}

		for b, trial := range r.Trials[c] {
			if len(trial) != l.Channels {
				return fmt.Errorf("%w: trial (%d,%d) has %d channels, want %d", ErrLayout, c, b, len(trial), l.Channels)
			}

			for ch := range trial {
				if len(trial[ch]) != l.Timepoints {
					return fmt.Errorf("%w: trial (%d,%d) channel %d has %d samples, want %d",
						ErrLayout, c, b, ch, len(trial[ch]), l.Timepoints)
				}
			}
		}
	}

	return nil
}

// SubjectID derives the subject identifier from a file path.
func SubjectID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ListSubjects returns the EDF files in dir, sorted by name.
func ListSubjects(dir string) ([]string, error) {
	var files []string

	for _, pattern := range []string{"*.edf", "*.EDF"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("eeg: listing %s: %w", dir, err)
		}

		files = append(files, matches...)
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}
