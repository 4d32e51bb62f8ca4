package random

import "testing"

func TestNewSeeded_Reproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 10; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d mismatch: got=%v want=%v", i, x, y)
		}
		if x, y := a.IntN(100), b.IntN(100); x != y {
			t.Fatalf("intn %d mismatch: got=%d want=%d", i, x, y)
		}
	}
}

func TestSource_ZeroValueInRange(t *testing.T) {
	var s Source
	for i := 0; i < 100; i++ {
		if f := s.Float64(); f < 0 || f >= 1 {
			t.Fatalf("float out of range: %v", f)
		}
		if n := s.IntN(4); n < 0 || n >= 4 {
			t.Fatalf("intn out of range: %d", n)
		}
	}
}
