package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Ratio returns part/total as a value in [0, 1]. A zero total counts as done.
func Ratio[I constraints.Integer, F constraints.Float](part, total I) F {
	if total <= 0 {
		return 1
	}
	return Clamp(F(part)/F(total), 0, 1)
}
