// internal/utils/floats.go
package utils

import "math"

// PriceTolerance is the absolute rounding tolerance used for all
// monetary comparisons (two decimal places).
const PriceTolerance = 0.01

// FloatIsZero reports whether v rounds to zero at the price tolerance.
func FloatIsZero(v float64) bool {
	return math.Abs(v) < PriceTolerance/2
}

// FloatCompare compares a and b with rounding tolerance: -1 if a < b,
// 0 if they are equal within tolerance, 1 if a > b.
func FloatCompare(a, b float64) int {
	delta := a - b
	if math.Abs(delta) < PriceTolerance/2 {
		return 0
	}
	if delta < 0 {
		return -1
	}
	return 1
}
