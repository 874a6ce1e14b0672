package domain

import "math"

// Round2 rounds a monetary amount to 2 decimal places. All persisted totals
// go through this so the sum invariants hold within a cent.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
