package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t when got and want differ in length or
// when any pair differs by more than eps. The failure names the worst index.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	worst, worstDiff := -1, 0.0
	for i := range got {
		d := math.Abs(got[i] - want[i])
		if math.IsNaN(d) {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
		if d > worstDiff {
			worst, worstDiff = i, d
		}
	}
	if worstDiff > eps {
		t.Fatalf("index %d: got %v, want %v (diff %v > %v)", worst, got[worst], want[worst], worstDiff, eps)
	}
}

// RequireFinite fails t on the first NaN or Inf.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}
