package common

import "math"

// Epsilon is the tolerance used for "near zero" weights, speeds and radii.
const Epsilon = 1e-6

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Wrap maps t into [0, period). A non-positive period yields 0.
func Wrap(t, period float64) float64 {
	if period <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	w := math.Mod(t, period)
	if w < 0 {
		w += period
	}
	if w >= period {
		w = 0
	}
	return w
}

func NearZero(v float64) bool {
	return math.Abs(v) < Epsilon
}
