package extensions

import (
	"math"
	"testing"
)

func AssertAreEqual[T comparable](t *testing.T, name string, expected T, actual T) {
	t.Helper()
	if expected != actual {
		t.Fatalf("value mismatch for %s, expected %v, got %v", name, expected, actual)
	}
}

// AssertAreClose compares floats within tolerance, treating two NaNs as equal
func AssertAreClose(t *testing.T, name string, expected, actual, tolerance float64) {
	t.Helper()
	if math.IsNaN(expected) && math.IsNaN(actual) {
		return
	}
	if math.Abs(expected-actual) > tolerance {
		t.Fatalf("value mismatch for %s, expected %v, got %v", name, expected, actual)
	}
}

func AssertIsNaN(t *testing.T, name string, actual float64) {
	t.Helper()
	if !math.IsNaN(actual) {
		t.Fatalf("value mismatch for %s, expected NaN, got %v", name, actual)
	}
}
