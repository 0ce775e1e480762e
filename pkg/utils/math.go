package utils

import "math"

// RoundDecimal rounds value half away from zero to the given number of
// decimal places. RoundDecimal(3.14159, 2) returns 3.14.
func RoundDecimal(value float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(value*pow) / pow
}

// PercentChange returns how much curr differs from prev, in percent of prev.
// A zero prev yields zero.
func PercentChange(prev, curr float64) float64 {
	if prev == 0 {
		return 0
	}
	return (curr - prev) / prev * 100
}
