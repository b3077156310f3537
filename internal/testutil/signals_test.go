package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(10, 250, 2, 250)
	if len(s) != 250 {
		t.Fatalf("len = %d, want 250", len(s))
	}
	if s[0] != 0 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	if math.Abs(s[6]-2*math.Sin(2*math.Pi*10*6/250)) > 1e-15 {
		t.Fatalf("s[6] = %v", s[6])
	}
	for i, v := range s {
		if math.Abs(v) > 2 {
			t.Fatalf("s[%d] = %v exceeds amplitude", i, v)
		}
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 3, 500)
	b := DeterministicNoise(42, 3, 500)
	c := DeterministicNoise(43, 3, 500)

	differs := false
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverges at %d", i)
		}
		if a[i] < -3 || a[i] >= 3 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
		if a[i] != c[i] {
			differs = true
		}
	}
	if !differs {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestImpulse(t *testing.T) {
	for _, pos := range []int{-1, 0, 3, 7, 8} {
		imp := Impulse(8, pos)
		for i, v := range imp {
			want := 0.0
			if i == pos {
				want = 1
			}
			if v != want {
				t.Fatalf("Impulse(8, %d)[%d] = %v, want %v", pos, i, v, want)
			}
		}
	}
}

func TestDC(t *testing.T) {
	for i, v := range DC(-0.25, 5) {
		if v != -0.25 {
			t.Fatalf("DC[%d] = %v", i, v)
		}
	}
}
