package biquad

import (
	"math"
	"testing"
)

const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func smoothing() Coefficients {
	return Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
}

func TestProcessSample_DFIIT(t *testing.T) {
	// Hand-traced impulse response for B=[0.25 0.5 0.25], A=[1 -0.2 0.04].
	s := NewSection(smoothing())

	want := []float64{0.25, 0.55, 0.35, 0.048, -0.0044}
	for i, w := range want {
		var x float64
		if i == 0 {
			x = 1
		}

		if y := s.ProcessSample(x); !almostEqual(y, w, eps) {
			t.Fatalf("y[%d] = %v, want %v", i, y, w)
		}
	}
}

func TestProcessBlockMatchesProcessSample(t *testing.T) {
	in := []float64{1, -0.5, 0.25, 0.75, -1, 0, 0.5, 0.125, -0.25}

	ref := NewSection(smoothing())
	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = ref.ProcessSample(x)
	}

	s := NewSection(smoothing())
	got := append([]float64(nil), in...)
	s.ProcessBlock(got)

	for i := range want {
		if !almostEqual(got[i], want[i], eps) {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if s.State() != ref.State() {
		t.Fatalf("state mismatch: got %v, want %v", s.State(), ref.State())
	}
}

func TestSteadyStateHoldsConstantInput(t *testing.T) {
	tests := []struct {
		name string
		c    Coefficients
	}{
		{"smoothing", smoothing()},
		{"bandpass", Coefficients{B0: 0.1, B2: -0.1, A1: -1.6, A2: 0.8}},
		{"highpass", Coefficients{B0: 0.8, B1: -1.6, B2: 0.8, A1: -1.56, A2: 0.64}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSection(tc.c)
			s.SetState(tc.c.SteadyState())

			want := tc.c.DCGain()
			for i := 0; i < 32; i++ {
				if y := s.ProcessSample(1); !almostEqual(y, want, 1e-12) {
					t.Fatalf("sample %d: got %v, want %v", i, y, want)
				}
			}
		})
	}
}

func TestResetAndState(t *testing.T) {
	s := NewSection(smoothing())
	s.ProcessSample(1)
	if s.State() == [2]float64{} {
		t.Fatal("state unchanged after processing")
	}

	saved := s.State()
	s.Reset()
	if s.State() != [2]float64{} {
		t.Fatalf("state after Reset = %v", s.State())
	}

	s.SetState(saved)
	if s.State() != saved {
		t.Fatalf("SetState: got %v, want %v", s.State(), saved)
	}
}

func TestStable(t *testing.T) {
	if !smoothing().Stable() {
		t.Fatal("smoothing section reported unstable")
	}
	if (Coefficients{B0: 1, A1: -2.1, A2: 1.1}).Stable() {
		t.Fatal("pole outside unit circle reported stable")
	}
}
