package domain

import "math"

// Round2 rounds to 2 decimal digits, half away from zero. Every numeric
// output column is rounded exactly once at the point of production;
// downstream consumers never re-round.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
