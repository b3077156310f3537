package segment

import (
	"errors"
	"testing"
)

func ramp(channels, n int) [][]float64 {
	data := make([][]float64, channels)
	for ch := range data {
		data[ch] = make([]float64, n)
		for i := range data[ch] {
			data[ch][i] = float64(ch*100000 + i)
		}
	}

	return data
}

func TestCountIsFloor(t *testing.T) {
	tests := []struct {
		n, width, want int
	}{
		{375, 250, 1},
		{500, 250, 2},
		{499, 250, 1},
		{249, 250, 0},
		{0, 250, 0},
		{10, 1, 10},
		{10, 3, 3},
	}

	for _, tt := range tests {
		s, err := New(ramp(2, tt.n), tt.width)
		if err != nil {
			t.Fatalf("New(n=%d, width=%d): %v", tt.n, tt.width, err)
		}

		if got := s.Count(); got != tt.want {
			t.Fatalf("Count(n=%d, width=%d)=%d, want %d", tt.n, tt.width, got, tt.want)
		}
	}
}

func TestWindowsAreContiguousAndDisjoint(t *testing.T) {
	const (
		channels = 3
		n        = 1003
		width    = 100
	)

	s, err := New(ramp(channels, n), width)
	if err != nil {
		t.Fatal(err)
	}

	next := 0
	for i, w := range s.All() {
		if i != next/width {
			t.Fatalf("index=%d, want %d", i, next/width)
		}

		if len(w) != channels {
			t.Fatalf("window %d: channels=%d, want %d", i, len(w), channels)
		}

		for ch := range w {
			if len(w[ch]) != width {
				t.Fatalf("window %d ch %d: len=%d, want %d", i, ch, len(w[ch]), width)
			}

			for j, v := range w[ch] {
				want := float64(ch*100000 + next + j)
				if v != want {
					t.Fatalf("window %d ch %d sample %d: got %v, want %v", i, ch, j, v, want)
				}
			}
		}

		next += width
	}

	if next != (n/width)*width {
		t.Fatalf("covered %d samples, want %d", next, (n/width)*width)
	}
}

func TestAllIsRestartable(t *testing.T) {
	s, err := New(ramp(1, 10), 3)
	if err != nil {
		t.Fatal(err)
	}

	collect := func() []float64 {
		var firsts []float64
		for _, w := range s.All() {
			firsts = append(firsts, w[0][0])
		}

		return firsts
	}

	first := collect()
	second := collect()

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("lengths %d/%d, want 3", len(first), len(second))
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("range %d differs: %v vs %v", i, first, second)
		}
	}
}

func TestAllStopsEarly(t *testing.T) {
	s, err := New(ramp(1, 100), 10)
	if err != nil {
		t.Fatal(err)
	}

	seen := 0
	for i := range s.All() {
		seen++
		if i == 2 {
			break
		}
	}

	if seen != 3 {
		t.Fatalf("seen=%d, want 3", seen)
	}
}

func TestWindowIsCapped(t *testing.T) {
	data := ramp(1, 20)

	s, err := New(data, 10)
	if err != nil {
		t.Fatal(err)
	}

	w := s.Window(0)
	if cap(w[0]) != 10 {
		t.Fatalf("cap=%d, want 10", cap(w[0]))
	}

	_ = append(w[0], -1)
	if data[0][10] != 10 {
		t.Fatalf("append through window overwrote next window: %v", data[0][10])
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(ramp(1, 10), 0); !errors.Is(err, ErrInvalidWidth) {
		t.Fatalf("err=%v, want %v", err, ErrInvalidWidth)
	}

	if _, err := New(ramp(1, 10), -5); !errors.Is(err, ErrInvalidWidth) {
		t.Fatalf("err=%v, want %v", err, ErrInvalidWidth)
	}

	ragged := [][]float64{make([]float64, 10), make([]float64, 9)}
	if _, err := New(ragged, 5); !errors.Is(err, ErrRaggedInput) {
		t.Fatalf("err=%v, want %v", err, ErrRaggedInput)
	}
}
