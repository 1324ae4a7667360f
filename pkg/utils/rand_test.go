package utils

import (
	"testing"
)

func TestNewRandSource(t *testing.T) {
	rng := NewRandSource(12345)
	if rng == nil {
		t.Fatal("Expected RandSource to be created")
	}
	// Zero seed should still produce a usable source
	rng2 := NewRandSource(0)
	if rng2 == nil {
		t.Fatal("Expected RandSource to be created with zero seed")
	}
}

func TestRandSourceDeterminism(t *testing.T) {
	a := NewRandSource(42)
	b := NewRandSource(42)

	for i := 0; i < 50; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("same seed must yield identical sequences (diverged at draw %d)", i)
		}
	}
}

func TestRandSourceRanges(t *testing.T) {
	rng := NewRandSource(12345)

	for i := 0; i < 100; i++ {
		if v := rng.Float64(); v < 0 || v >= 1.0 {
			t.Errorf("Float64() returned value outside [0, 1): %f", v)
		}
		if v := rng.Intn(10); v < 0 || v >= 10 {
			t.Errorf("Intn(10) returned value outside [0, 10): %d", v)
		}
		if v := rng.Uniform(-5, 5); v < -5 || v >= 5 {
			t.Errorf("Uniform(-5, 5) returned value outside [-5, 5): %f", v)
		}
		if v := rng.IntBetween(1, 4); v < 1 || v > 4 {
			t.Errorf("IntBetween(1, 4) returned value outside [1, 4]: %d", v)
		}
	}
}

func TestIntBetweenDegenerate(t *testing.T) {
	rng := NewRandSource(1)
	if v := rng.IntBetween(3, 3); v != 3 {
		t.Errorf("IntBetween(3, 3) = %d, expected 3", v)
	}
	if v := rng.IntBetween(5, 2); v != 5 {
		t.Errorf("IntBetween(5, 2) = %d, expected lo", v)
	}
}

func TestNormFloat64(t *testing.T) {
	rng := NewRandSource(7)
	sum := 0.0
	n := 5000
	for i := 0; i < n; i++ {
		sum += rng.NormFloat64(10, 2)
	}
	mean := sum / float64(n)
	if mean < 9 || mean > 11 {
		t.Errorf("sample mean %f far from configured mean 10", mean)
	}
}
