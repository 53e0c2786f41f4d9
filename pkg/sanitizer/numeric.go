package sanitizer

import "math"

// Float represents floating-point numeric types.
type Float interface {
	~float32 | ~float64
}

// RoundToDecimalPlaces rounds half away from zero to the given number of decimal places.
// Negative places round to tens, hundreds and so on.
func RoundToDecimalPlaces[T Float](value T, places int) T {
	if places == 0 {
		return Round(value)
	}
	multiplier := math.Pow(10, float64(places))
	return T(math.Round(float64(value)*multiplier) / multiplier)
}

// Round rounds a floating-point number to the nearest integer.
func Round[T Float](value T) T {
	return T(math.Round(float64(value)))
}
