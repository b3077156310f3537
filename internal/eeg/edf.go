package eeg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/OpenPSG/edf"
)

// maxRecordBytes is the largest data record the EDF writer accepts.
const maxRecordBytes = 61440

// Load reads the subject file at path.
//
// The first l.Channels signals are EEG channels; any further signals are
// ignored. Each channel is a continuous run of trials of l.Timepoints
// samples, ordered class-major, so trial k is class k/blocks, block
// k%blocks. The file is read into memory once.
func Load(path string, l Layout) (*Recording, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("eeg: reading %s: %w", path, err)
	}

	rec, err := Decode(bytes.NewReader(raw), l)
	if err != nil {
		return nil, fmt.Errorf("eeg: %s: %w", path, err)
	}

	rec.SubjectID = SubjectID(path)

	return rec, nil
}

// Decode reads a recording from an EDF stream.
func Decode(r io.ReadSeeker, l Layout) (*Recording, error) {
	if l.Channels <= 0 || l.Timepoints <= 0 || l.Classes <= 0 {
		return nil, fmt.Errorf("%w: invalid layout %+v", ErrLayout, l)
	}

	er, err := edf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("opening edf: %w", err)
	}

	channels := make([][]float64, l.Channels)
	for ch := range channels {
		sr, err := er.Signal(ch)
		if err != nil {
			return nil, fmt.Errorf("%w: signal %d: %w", ErrLayout, ch, err)
		}

		channels[ch], err = readSignal(sr, l.Timepoints)
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", ch, err)
		}
	}

	samples := len(channels[0])
	for ch := range channels {
		if len(channels[ch]) != samples {
			return nil, fmt.Errorf("%w: signal %d has %d samples, signal 0 has %d", ErrLayout, ch, len(channels[ch]), samples)
		}
	}

	if samples == 0 || samples%l.Timepoints != 0 {
		return nil, fmt.Errorf("%w: %d samples is not a whole number of %d-sample trials", ErrLayout, samples, l.Timepoints)
	}

	trials := samples / l.Timepoints
	if trials%l.Classes != 0 {
		return nil, fmt.Errorf("%w: %d trials do not divide into %d classes", ErrLayout, trials, l.Classes)
	}

	blocks := trials / l.Classes

	rec := &Recording{Trials: make([][][][]float64, l.Classes)}
	for c := range rec.Trials {
		rec.Trials[c] = make([][][]float64, blocks)
		for b := range blocks {
			start := (c*blocks + b) * l.Timepoints
			end := start + l.Timepoints

			trial := make([][]float64, l.Channels)
			for ch := range trial {
				trial[ch] = channels[ch][start:end:end]
			}

			rec.Trials[c][b] = trial
		}
	}

	return rec, nil
}

func readSignal(sr *edf.SignalReader, chunk int) ([]float64, error) {
	var out []float64

	buf := make([]float64, chunk)
	for {
		n, err := sr.Read(buf)
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return nil, err
		}
	}
}

// WriteEDF writes rec to w in the layout Load reads. Samples are quantized
// to 16 bits between each channel's extremes.
func WriteEDF(w io.WriteSeeker, rec *Recording, sampleRate float64) error {
	if rec.Classes() == 0 || rec.Blocks() == 0 {
		return fmt.Errorf("%w: empty recording", ErrLayout)
	}

	first := rec.Trial(0, 0)
	l := Layout{Channels: len(first), Classes: rec.Classes()}
	if l.Channels > 0 {
		l.Timepoints = len(first[0])
	}

	if err := rec.Validate(l); err != nil {
		return err
	}

	perRecord := samplesPerRecord(l.Channels, l.Timepoints)
	if perRecord == 0 {
		return fmt.Errorf("%w: %d channels do not fit an EDF data record", ErrLayout, l.Channels)
	}

	signals := make([]edf.SignalHeader, l.Channels)
	for ch := range signals {
		lo, hi := channelRange(rec, ch)
		signals[ch] = edf.SignalHeader{
			Label:             fmt.Sprintf("EEG %d", ch+1),
			TransducerType:    "electrode",
			PhysicalDimension: "uV",
			PhysicalMin:       lo,
			PhysicalMax:       hi,
			DigitalMin:        math.MinInt16,
			DigitalMax:        math.MaxInt16,
			SamplesPerRecord:  perRecord,
		}
	}

	hdr := edf.Header{
		Version:            edf.Version0,
		PatientID:          rec.SubjectID,
		RecordingID:        "eegprep",
		StartTime:          time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		DataRecordDuration: time.Duration(float64(perRecord) / sampleRate * float64(time.Second)),
		SignalCount:        l.Channels,
		Signals:            signals,
	}

	ew, err := edf.Create(w, hdr)
	if err != nil {
		return fmt.Errorf("eeg: creating edf: %w", err)
	}

	record := make([][]float64, l.Channels)
	for c := range rec.Trials {
		for _, trial := range rec.Trials[c] {
			for off := 0; off < l.Timepoints; off += perRecord {
				for ch := range record {
					record[ch] = trial[ch][off : off+perRecord]
				}

				if err := ew.WriteRecord(record); err != nil {
					return fmt.Errorf("eeg: writing edf record: %w", err)
				}
			}
		}
	}

	if err := ew.Close(); err != nil {
		return fmt.Errorf("eeg: finalizing edf: %w", err)
	}

	return nil
}

// SaveEDF writes rec to a new file at path.
func SaveEDF(path string, rec *Recording, sampleRate float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("eeg: creating %s: %w", path, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("eeg: closing %s: %w", path, cerr)
		}
	}()

	return WriteEDF(f, rec, sampleRate)
}

// samplesPerRecord picks the largest divisor of timepoints whose data record
// stays within maxRecordBytes, so records never straddle trials.
func samplesPerRecord(channels, timepoints int) int {
	limit := maxRecordBytes / (2 * channels)
	for n := min(limit, timepoints); n > 0; n-- {
		if timepoints%n == 0 {
			return n
		}
	}

	return 0
}

// channelRange returns physical bounds for channel ch, rounded outward to
// the two decimals the EDF header keeps.
func channelRange(rec *Recording, ch int) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for c := range rec.Trials {
		for _, trial := range rec.Trials[c] {
			for _, v := range trial[ch] {
				lo = min(lo, v)
				hi = max(hi, v)
			}
		}
	}

	lo = math.Floor(lo*100) / 100
	hi = math.Ceil(hi*100) / 100

	if hi <= lo {
		hi = lo + 1
	}

	return lo, hi
}
