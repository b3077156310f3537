package pipeline

import (
	"fmt"

	"github.com/cwbudde/eegprep/internal/store"
)

// Persister stores one segment and returns where it went.
type Persister interface {
	Persist(r store.Record) (string, error)
}

// Emitter turns normalized windows into persisted segment records.
type Emitter struct {
	persister Persister
}

// NewEmitter returns an Emitter writing through p.
func NewEmitter(p Persister) *Emitter {
	return &Emitter{persister: p}
}

// Emit persists window as segment segmentID of subjectID. label and block
// are 1-based. Exactly one Persist call is made.
func (e *Emitter) Emit(window [][]float64, label, block, segmentID int, subjectID string) (string, error) {
	path, err := e.persister.Persist(store.Record{
		SubjectID: subjectID,
		Label:     label,
		Block:     block,
		SegmentID: segmentID,
		Data:      window,
	})
	if err != nil {
		return "", fmt.Errorf("emitting segment %d: %w", segmentID, err)
	}

	return path, nil
}
