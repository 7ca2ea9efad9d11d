package format

import "math"

const gib = 1 << 30

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BytesToGiB converts a byte count to gibibytes, rounded to 2 decimals.
func BytesToGiB(bytes uint64) float64 {
	return Round2(float64(bytes) / gib)
}

// BitsToMbps converts a bits-per-second rate to megabits per second,
// rounded to 2 decimals.
func BitsToMbps(bits float64) float64 {
	return Round2(bits / 1_000_000)
}

// SafeFloat safely gets a float from an array.
func SafeFloat(arr []float64, def float64) float64 {
	if len(arr) > 0 {
		return arr[0]
	}
	return def
}
