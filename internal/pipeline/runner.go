package pipeline

import (
	"context"
	"io"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/eegprep/internal/eeg"
	"github.com/cwbudde/eegprep/internal/partition"
)

// Summary aggregates a run.
type Summary struct {
	Results  []SubjectResult
	Totals   partition.Counts
	Segments int
	Skipped  int
	Failed   int
	Duration time.Duration
}

// Runner processes subjects on a bounded pool of workers.
type Runner struct {
	proc    *Processor
	workers int
	logger  *log.Logger
}

// NewRunner returns a Runner with at most workers concurrent subjects.
func NewRunner(proc *Processor, workers int, logger *log.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}

	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Runner{proc: proc, workers: workers, logger: logger}
}

// Run processes every subject file. A failing subject does not stop the
// others; its error is kept in its result. Results follow the order of
// paths. The returned error is non-nil only when ctx is canceled.
func (r *Runner) Run(ctx context.Context, paths []string) (Summary, error) {
	start := time.Now()
	results := make([]SubjectResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, path := range paths {
		subject := eeg.SubjectID(path)

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = SubjectResult{Subject: subject, Err: stageErr(subject, StageLoad, err)}
				return err
			}

			r.logger.Printf("subject %s: start", subject)
			results[i] = r.proc.ProcessSubject(gctx, path)

			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	sum := Summary{Results: results, Duration: time.Since(start)}
	for _, res := range results {
		sum.Segments += res.Segments
		sum.Skipped += res.Degenerate
		sum.Totals.Add(res.Counts)

		if !res.OK() {
			sum.Failed++
		}
	}

	r.logger.Printf("run finished: %d subjects, %d failed, %d segments (train=%d validation=%d test=%d) in %s",
		len(paths), sum.Failed, sum.Segments, sum.Totals.Train, sum.Totals.Validation, sum.Totals.Test,
		sum.Duration.Round(time.Millisecond))

	return sum, err
}
