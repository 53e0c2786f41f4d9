package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sieve/pkg/sanitizer"
)

func TestRoundToDecimalPlaces(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    float64
		places   int
		expected float64
	}{
		{name: "round to 2 decimal places", value: 3.14159, places: 2, expected: 3.14},
		{name: "round to 0 decimal places", value: 3.7, places: 0, expected: 4.0},
		{name: "round to 1 decimal place", value: 2.678, places: 1, expected: 2.7},
		{name: "negative places round to tens", value: 1234, places: -2, expected: 1200},
		{name: "half away from zero", value: -2.5, places: 0, expected: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.expected, sanitizer.RoundToDecimalPlaces(tt.value, tt.places), 1e-9)
		})
	}
}

func TestRound(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3.0, sanitizer.Round(2.5))
	assert.Equal(t, float32(2), sanitizer.Round(float32(1.6)))
}
