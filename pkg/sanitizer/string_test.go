package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sieve/pkg/sanitizer"
)

func TestToLower(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "ascii", input: "HELLO World", expected: "hello world"},
		{name: "unicode", input: "ÀÉÎ", expected: "àéî"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.ToLower(tt.input))
		})
	}
}

func TestToUpper(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "HELLO WORLD", sanitizer.ToUpper("hello world"))
	assert.Equal(t, "ÀÉÎ", sanitizer.ToUpper("àéî"))
}

func TestUCWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "capitalizes every word", input: "hello big world", expected: "Hello Big World"},
		{name: "keeps the rest of the word", input: "hELLO wORLD", expected: "HELLO WORLD"},
		{name: "handles tabs and newlines", input: "a\tb\nc", expected: "A\tB\nC"},
		{name: "hyphen is not a separator", input: "jean-luc", expected: "Jean-luc"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.UCWords(tt.input))
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", sanitizer.NormalizeWhitespace("  a \t b\n\nc "))
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "keeps safe names", input: "report.pdf", expected: "report.pdf"},
		{name: "replaces path separators", input: "../etc/passwd", expected: "_etc_passwd"},
		{name: "replaces reserved characters", input: `a<b>c:d"e|f?g*h`, expected: "a_b_c_d_e_f_g_h"},
		{name: "falls back for empty", input: " .. ", expected: "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.SanitizeFilename(tt.input))
		})
	}

	t.Run("limits length", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, sanitizer.SanitizeFilename(strings.Repeat("a", 300)), 255)
	})
}
