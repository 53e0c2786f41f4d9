package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	whitespaceRegex     = regexp.MustCompile(`\s+`)
	unsafeFilenameRegex = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
)

// ToLower converts a string to lowercase using Unicode case mapping.
// cases.Caser keeps state, so a new one is built per call.
func ToLower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// ToUpper converts a string to uppercase using Unicode case mapping.
func ToUpper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// UCWords uppercases the first character of every whitespace-separated word
// and leaves the rest of the word untouched.
func UCWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	atStart := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			atStart = true
			b.WriteRune(r)
			continue
		}
		if atStart {
			b.WriteString(ToUpper(string(r)))
			atStart = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeWhitespace collapses whitespace runs into single spaces and trims the result.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// SanitizeFilename replaces filesystem-unsafe characters, trims dots and spaces
// and enforces the 255-byte limit without splitting a UTF-8 sequence.
func SanitizeFilename(filename string) string {
	safe := unsafeFilenameRegex.ReplaceAllString(filename, "_")
	safe = strings.Trim(safe, " .")

	if len(safe) > 255 {
		safe = safe[:255]
		for !utf8.ValidString(safe) {
			safe = safe[:len(safe)-1]
		}
	}
	if safe == "" {
		safe = "file"
	}
	return safe
}
