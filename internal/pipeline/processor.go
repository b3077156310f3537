// Package pipeline runs the per-subject preprocessing chain: band-pass
// filter, resample, segment, normalize, emit, then partition the subject's
// segment files.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"math/rand/v2"
	"time"

	"github.com/cwbudde/eegprep/dsp/filter/design/band"
	"github.com/cwbudde/eegprep/dsp/filter/zerophase"
	"github.com/cwbudde/eegprep/dsp/normalize"
	"github.com/cwbudde/eegprep/dsp/resample"
	"github.com/cwbudde/eegprep/dsp/segment"
	"github.com/cwbudde/eegprep/internal/config"
	"github.com/cwbudde/eegprep/internal/eeg"
	"github.com/cwbudde/eegprep/internal/partition"
)

// DesignFilter builds the band-pass described by cfg.
func DesignFilter(cfg config.Config) (band.Spec, error) {
	return band.Chebyshev1Bandpass(cfg.LowHz, cfg.HighHz, cfg.SourceRate, cfg.RippleDB, cfg.FilterOrder)
}

// SubjectResult reports the outcome of one subject.
type SubjectResult struct {
	Subject    string
	Segments   int
	Degenerate int
	Files      []string
	Counts     partition.Counts
	Duration   time.Duration
	Err        error
}

// OK reports whether the subject completed.
func (r SubjectResult) OK() bool {
	return r.Err == nil
}

// Processor runs the chain for one subject at a time. It holds only
// read-only state and may be shared by concurrent workers.
type Processor struct {
	cfg       config.Config
	spec      band.Spec
	method    resample.Method
	emitter   *Emitter
	dirs      partition.Dirs
	seed      uint64
	partition bool
	logger    *log.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) ProcessorOption {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithoutPartition leaves segment files in the intermediate directory.
func WithoutPartition() ProcessorOption {
	return func(p *Processor) {
		p.partition = false
	}
}

// NewProcessor returns a Processor. seed drives every subject's partition
// RNG together with the subject id.
func NewProcessor(cfg config.Config, spec band.Spec, persister Persister, dirs partition.Dirs, seed uint64, opts ...ProcessorOption) *Processor {
	p := &Processor{
		cfg:       cfg,
		spec:      spec,
		method:    cfg.ResampleMethod(),
		emitter:   NewEmitter(persister),
		dirs:      dirs,
		seed:      seed,
		partition: true,
		logger:    log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// ProcessSubject loads the EDF file at path and processes it.
func (p *Processor) ProcessSubject(ctx context.Context, path string) SubjectResult {
	start := time.Now()
	subject := eeg.SubjectID(path)

	rec, err := eeg.Load(path, eeg.Layout{
		Channels:   p.cfg.Channels,
		Timepoints: p.cfg.Timepoints,
		Classes:    p.cfg.Classes,
	})
	if err != nil {
		return SubjectResult{Subject: subject, Err: stageErr(subject, StageLoad, err), Duration: time.Since(start)}
	}

	res := p.ProcessRecording(ctx, rec)
	res.Duration = time.Since(start)

	return res
}

// ProcessRecording runs every trial of rec through the chain and then
// partitions the emitted files. Segment ids start at 1 and follow class,
// then block, then window order. Windows with a constant channel are
// skipped without consuming an id.
func (p *Processor) ProcessRecording(ctx context.Context, rec *eeg.Recording) SubjectResult {
	start := time.Now()
	res := SubjectResult{Subject: rec.SubjectID}

	fail := func(stage Stage, err error) SubjectResult {
		res.Err = stageErr(rec.SubjectID, stage, err)
		res.Duration = time.Since(start)
		p.logger.Printf("subject %s failed: %v", rec.SubjectID, res.Err)

		return res
	}

	segmentID := 0

	for c := range rec.Classes() {
		for b := range rec.Blocks() {
			if err := ctx.Err(); err != nil {
				return fail(StageLoad, err)
			}

			filtered, err := zerophase.FilterChannels(rec.Trial(c, b), p.spec)
			if err != nil {
				return fail(StageFilter, fmt.Errorf("class %d block %d: %w", c+1, b+1, err))
			}

			resampled, err := resample.Trial(filtered, p.cfg.SourceRate, p.cfg.TargetRate,
				resample.WithMethod(p.method), resample.WithPassband(p.cfg.HighHz))
			if err != nil {
				return fail(StageResample, fmt.Errorf("class %d block %d: %w", c+1, b+1, err))
			}

			seg, err := segment.New(resampled, p.cfg.Window)
			if err != nil {
				return fail(StageSegment, fmt.Errorf("class %d block %d: %w", c+1, b+1, err))
			}

			for w, window := range seg.All() {
				z, err := normalize.ZScore(window)
				if errors.Is(err, normalize.ErrDegenerateChannel) {
					res.Degenerate++
					p.logger.Printf("subject %s class %d block %d window %d skipped: %v", rec.SubjectID, c+1, b+1, w+1, err)

					continue
				}

				if err != nil {
					return fail(StageNormalize, fmt.Errorf("class %d block %d window %d: %w", c+1, b+1, w+1, err))
				}

				segmentID++

				path, err := p.emitter.Emit(z, c+1, b+1, segmentID, rec.SubjectID)
				if err != nil {
					return fail(StageEmit, err)
				}

				res.Files = append(res.Files, path)
				res.Segments = segmentID
			}
		}
	}

	if p.partition {
		part := partition.New(partition.Ratio{
			Train:      p.cfg.TrainRatio,
			Validation: p.cfg.ValidationRatio,
			Test:       p.cfg.TestRatio,
		}, SubjectRNG(p.seed, rec.SubjectID),
			partition.WithRetries(p.cfg.MoveRetries),
			partition.WithLogger(p.logger))

		counts, err := part.Partition(res.Files, p.dirs)
		res.Counts = counts

		if err != nil {
			return fail(StagePartition, err)
		}
	}

	res.Duration = time.Since(start)
	p.logger.Printf("subject %s: %d segments (%d skipped) in %s", rec.SubjectID, res.Segments, res.Degenerate, res.Duration.Round(time.Millisecond))

	return res
}

// SubjectRNG derives a subject's random source from the run seed and the
// FNV-1a hash of its id, so draws do not depend on scheduling order.
func SubjectRNG(seed uint64, subject string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(subject))

	return rand.New(rand.NewPCG(seed, h.Sum64()))
}
