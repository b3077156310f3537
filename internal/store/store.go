// Package store persists normalized segments as lossless binary files.
//
// A segment file holds, little endian:
//
//	magic      [8]byte  "EEGSEG01"
//	label      uint32   1-based class
//	block      uint32   1-based block
//	segment    uint32   1-based segment id within the subject
//	subjectLen uint16
//	subject    [subjectLen]byte
//	channels   uint32
//	samples    uint32
//	data       [channels*samples]float64, row-major
package store

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// Ext is the file extension of segment files.
const Ext = ".seg"

var magic = [8]byte{'E', 'E', 'G', 'S', 'E', 'G', '0', '1'}

var (
	// ErrBadFormat indicates a file that is not a segment file.
	ErrBadFormat = errors.New("store: not a segment file")
	// ErrInvalidRecord indicates a record that cannot be encoded.
	ErrInvalidRecord = errors.New("store: invalid record")
)

// Record is one normalized segment with its metadata.
type Record struct {
	SubjectID string
	Label     int
	Block     int
	SegmentID int
	Data      [][]float64
}

// FileName returns "{subject}_{segment}.seg".
func FileName(subjectID string, segmentID int) string {
	return fmt.Sprintf("%s_%d%s", subjectID, segmentID, Ext)
}

// Encode writes r to w.
func Encode(w io.Writer, r Record) error {
	if err := r.check(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	channels := len(r.Data)

	samples := 0
	if channels > 0 {
		samples = len(r.Data[0])
	}

	var hdr bytes.Buffer
	hdr.Write(magic[:])
	_ = binary.Write(&hdr, binary.LittleEndian, uint32(r.Label))
	_ = binary.Write(&hdr, binary.LittleEndian, uint32(r.Block))
	_ = binary.Write(&hdr, binary.LittleEndian, uint32(r.SegmentID))
	_ = binary.Write(&hdr, binary.LittleEndian, uint16(len(r.SubjectID)))
	hdr.WriteString(r.SubjectID)
	_ = binary.Write(&hdr, binary.LittleEndian, uint32(channels))
	_ = binary.Write(&hdr, binary.LittleEndian, uint32(samples))

	if _, err := bw.Write(hdr.Bytes()); err != nil {
		return fmt.Errorf("store: writing header: %w", err)
	}

	buf := make([]byte, 8)
	for _, row := range r.Data {
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			if _, err := bw.Write(buf); err != nil {
				return fmt.Errorf("store: writing samples: %w", err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("store: flushing: %w", err)
	}

	return nil
}

// Decode reads one record from rd.
func Decode(rd io.Reader) (Record, error) {
	br := bufio.NewReader(rd)

	var m [8]byte
	if _, err := io.ReadFull(br, m[:]); err != nil {
		return Record{}, fmt.Errorf("%w: reading magic: %w", ErrBadFormat, err)
	}

	if m != magic {
		return Record{}, fmt.Errorf("%w: magic %q", ErrBadFormat, m[:])
	}

	var fixed struct {
		Label, Block, Segment uint32
		SubjectLen            uint16
	}
	if err := binary.Read(br, binary.LittleEndian, &fixed); err != nil {
		return Record{}, fmt.Errorf("%w: reading header: %w", ErrBadFormat, err)
	}

	subject := make([]byte, fixed.SubjectLen)
	if _, err := io.ReadFull(br, subject); err != nil {
		return Record{}, fmt.Errorf("%w: reading subject: %w", ErrBadFormat, err)
	}

	var shape struct {
		Channels, Samples uint32
	}
	if err := binary.Read(br, binary.LittleEndian, &shape); err != nil {
		return Record{}, fmt.Errorf("%w: reading shape: %w", ErrBadFormat, err)
	}

	r := Record{
		SubjectID: string(subject),
		Label:     int(fixed.Label),
		Block:     int(fixed.Block),
		SegmentID: int(fixed.Segment),
		Data:      make([][]float64, shape.Channels),
	}

	buf := make([]byte, 8*int(shape.Samples))
	for ch := range r.Data {
		if _, err := io.ReadFull(br, buf); err != nil {
			return Record{}, fmt.Errorf("%w: reading channel %d: %w", ErrBadFormat, ch, err)
		}

		row := make([]float64, shape.Samples)
		for i := range row {
			row[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
		}

		r.Data[ch] = row
	}

	return r, nil
}

// ReadFile decodes the segment file at path.
func ReadFile(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, fmt.Errorf("store: %w", err)
	}
	defer f.Close()

	r, err := Decode(f)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", path, err)
	}

	return r, nil
}

func (r Record) check() error {
	if r.SubjectID == "" || len(r.SubjectID) > math.MaxUint16 {
		return fmt.Errorf("%w: subject id length %d", ErrInvalidRecord, len(r.SubjectID))
	}

	if r.Label <= 0 || r.Block <= 0 || r.SegmentID <= 0 {
		return fmt.Errorf("%w: label=%d block=%d segment=%d must be positive", ErrInvalidRecord, r.Label, r.Block, r.SegmentID)
	}

	for ch := range r.Data {
		if len(r.Data[ch]) != len(r.Data[0]) {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrInvalidRecord, ch, len(r.Data[ch]), len(r.Data[0]))
		}
	}

	return nil
}

// Dir writes segment files into per-subject directories under Root.
type Dir struct {
	Root string
}

// SubjectDir returns the directory holding subjectID's segment files.
func (d Dir) SubjectDir(subjectID string) string {
	return filepath.Join(d.Root, subjectID)
}

// Persist writes r atomically and returns the file path. An existing file
// of the same name is replaced.
func (d Dir) Persist(r Record) (string, error) {
	if err := r.check(); err != nil {
		return "", err
	}

	dir := d.SubjectDir(r.SubjectID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("store: creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, FileName(r.SubjectID, r.SegmentID))

	tmp, err := os.CreateTemp(dir, ".seg-*")
	if err != nil {
		return "", fmt.Errorf("store: creating temp file: %w", err)
	}

	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := Encode(tmp, r); err != nil {
		_ = tmp.Close()
		cleanup()

		return "", err
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("store: closing %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return "", fmt.Errorf("store: renaming to %s: %w", path, err)
	}

	return path, nil
}
