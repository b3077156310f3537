// Package partition distributes a subject's segment files into train,
// validation and test directories.
package partition

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
)

// ErrPartitionIO indicates a missing target directory, an occupied
// destination, or a failed move.
var ErrPartitionIO = errors.New("partition: file move failed")

// ErrInvalidRatio indicates fractions that are negative or do not sum to 1.
var ErrInvalidRatio = errors.New("partition: invalid ratio")

// ceilEps absorbs float noise such as 240*(1-0.8) = 47.99999999999999.
const ceilEps = 1e-9

// Ratio holds the train, validation and test fractions.
type Ratio struct {
	Train      float64
	Validation float64
	Test       float64
}

// DefaultRatio is 80/10/10.
var DefaultRatio = Ratio{Train: 0.8, Validation: 0.1, Test: 0.1}

// Validate checks that the fractions are usable.
func (r Ratio) Validate() error {
	if r.Train <= 0 || r.Train > 1 || r.Validation < 0 || r.Test < 0 {
		return fmt.Errorf("%w: %g/%g/%g", ErrInvalidRatio, r.Train, r.Validation, r.Test)
	}

	if sum := r.Train + r.Validation + r.Test; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w: %g/%g/%g sums to %g", ErrInvalidRatio, r.Train, r.Validation, r.Test, sum)
	}

	return nil
}

// Split holds three disjoint groups of indices into a file list.
type Split struct {
	Train      []int
	Validation []int
	Test       []int
}

// Group identifies one of the three destinations.
type Group int

const (
	Train Group = iota
	Validation
	Test
)

// Dirs names the destination directory of each group.
type Dirs struct {
	Train      string
	Validation string
	Test       string
}

// For returns the directory of g.
func (d Dirs) For(g Group) string {
	switch g {
	case Validation:
		return d.Validation
	case Test:
		return d.Test
	default:
		return d.Train
	}
}

// Counts reports how many files went where.
type Counts struct {
	Total      int
	Train      int
	Validation int
	Test       int
}

// Add accumulates other into c.
func (c *Counts) Add(other Counts) {
	c.Total += other.Total
	c.Train += other.Train
	c.Validation += other.Validation
	c.Test += other.Test
}

func (c *Counts) add(g Group) {
	switch g {
	case Train:
		c.Train++
	case Validation:
		c.Validation++
	case Test:
		c.Test++
	}
}

// Partitioner assigns files to groups with its own random source.
// It is not safe for concurrent use.
type Partitioner struct {
	ratio   Ratio
	rng     *rand.Rand
	retries int
	logger  *log.Logger
}

// Option configures a Partitioner.
type Option func(*Partitioner)

// WithRetries sets how many times a failed move is retried.
func WithRetries(n int) Option {
	return func(p *Partitioner) {
		if n >= 0 {
			p.retries = n
		}
	}
}

// WithLogger sets the logger for partition reports.
func WithLogger(l *log.Logger) Option {
	return func(p *Partitioner) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns a Partitioner drawing from rng.
func New(ratio Ratio, rng *rand.Rand, opts ...Option) *Partitioner {
	p := &Partitioner{
		ratio:   ratio,
		rng:     rng,
		retries: 2,
		logger:  log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// Split assigns the indices 0..n-1 to groups in two independent random
// draws: first ceil(n*(1-Train)) indices are held out of train, then
// ceil(m*Test/(Validation+Test)) of the m held-out indices become test and
// the rest validation.
func (p *Partitioner) Split(n int) Split {
	if n <= 0 {
		return Split{}
	}

	held := ceil(float64(n) * (1 - p.ratio.Train))
	held = min(max(held, 0), n)

	perm := p.rng.Perm(n)
	heldOut, train := perm[:held], perm[held:]

	var s Split

	s.Train = append(s.Train, train...)
	if held == 0 {
		return s
	}

	testFrac := 1.0
	if rest := p.ratio.Validation + p.ratio.Test; rest > 0 {
		testFrac = p.ratio.Test / rest
	}

	nTest := min(max(ceil(float64(held)*testFrac), 0), held)

	order := p.rng.Perm(held)
	for i, j := range order {
		if i < nTest {
			s.Test = append(s.Test, heldOut[j])
		} else {
			s.Validation = append(s.Validation, heldOut[j])
		}
	}

	return s
}

// Partition moves every file into the directory of its group. All three
// directories must exist. Files are moved, never copied; a file already
// present at the destination is an error and is not overwritten. Files not
// yet moved when an error occurs stay where they were.
func (p *Partitioner) Partition(files []string, dirs Dirs) (Counts, error) {
	for _, d := range []string{dirs.Train, dirs.Validation, dirs.Test} {
		info, err := os.Stat(d)
		if err != nil {
			return Counts{}, fmt.Errorf("%w: target directory: %w", ErrPartitionIO, err)
		}

		if !info.IsDir() {
			return Counts{}, fmt.Errorf("%w: %s is not a directory", ErrPartitionIO, d)
		}
	}

	split := p.Split(len(files))

	group := make([]Group, len(files))
	for _, i := range split.Validation {
		group[i] = Validation
	}

	for _, i := range split.Test {
		group[i] = Test
	}

	counts := Counts{Total: len(files)}

	for i, src := range files {
		dst := filepath.Join(dirs.For(group[i]), filepath.Base(src))
		if err := p.moveWithRetry(src, dst); err != nil {
			return counts, err
		}

		counts.add(group[i])
	}

	p.logger.Printf("partitioned %d files: train=%d validation=%d test=%d",
		counts.Total, counts.Train, counts.Validation, counts.Test)

	return counts, nil
}

func (p *Partitioner) moveWithRetry(src, dst string) error {
	var err error

	for attempt := 0; attempt <= p.retries; attempt++ {
		err = move(src, dst)
		if err == nil || errors.Is(err, os.ErrExist) {
			break
		}

		p.logger.Printf("move %s -> %s failed (attempt %d/%d): %v", src, dst, attempt+1, p.retries+1, err)
	}

	if err != nil {
		return fmt.Errorf("%w: %s -> %s: %w", ErrPartitionIO, src, dst, err)
	}

	return nil
}

// move claims dst with a hard link, which fails if dst exists, and then
// drops src. Where links are unsupported it falls back to a checked rename.
func move(src, dst string) error {
	linkErr := os.Link(src, dst)
	if linkErr == nil {
		if err := os.Remove(src); err != nil {
			_ = os.Remove(dst)
			return err
		}

		return nil
	}

	if errors.Is(linkErr, os.ErrExist) {
		return linkErr
	}

	if _, err := os.Lstat(src); err != nil {
		return err
	}

	if _, err := os.Lstat(dst); err == nil {
		return &os.LinkError{Op: "move", Old: src, New: dst, Err: os.ErrExist}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return os.Rename(src, dst)
}

func ceil(x float64) int {
	return int(math.Ceil(x - ceilEps))
}
