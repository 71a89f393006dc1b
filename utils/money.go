package utils

import "math"

// Round2 rounds a USD amount to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds a fraction to 4 decimal places.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
