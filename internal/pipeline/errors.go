package pipeline

import "fmt"

// Stage names a step of the per-subject pipeline.
type Stage string

const (
	StageLoad      Stage = "load"
	StageFilter    Stage = "filter"
	StageResample  Stage = "resample"
	StageSegment   Stage = "segment"
	StageNormalize Stage = "normalize"
	StageEmit      Stage = "emit"
	StagePartition Stage = "partition"
)

// StageError records which subject failed at which stage.
type StageError struct {
	Subject string
	Stage   Stage
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("subject %s: %s: %v", e.Subject, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(subject string, stage Stage, err error) error {
	return &StageError{Subject: subject, Stage: stage, Err: err}
}
