package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/dmitrymomot/sieve/pkg/cache"
)

// patternCacheSize bounds the compiled patterns kept across schemas.
const patternCacheSize = 512

var (
	patternCache = cache.NewLRU[string, *regexp.Regexp](patternCacheSize)

	closingDelimiters = map[byte]byte{'(': ')', '{': '}', '[': ']', '<': '>'}
)

// isDelimited reports whether s looks like "/body/flags": the first character is a
// punctuation delimiter that also closes the pattern.
func isDelimited(s string) bool {
	if len(s) < 2 {
		return false
	}
	open := s[0]
	if open == '\\' || open > unicode.MaxASCII || unicode.IsLetter(rune(open)) ||
		unicode.IsDigit(rune(open)) || unicode.IsSpace(rune(open)) {
		return false
	}
	closing := open
	if c, ok := closingDelimiters[open]; ok {
		closing = c
	}
	end := strings.LastIndexByte(s, closing)
	if end <= 0 {
		return false
	}
	return strings.Trim(s[end+1:], "imsxuUDA") == ""
}

// compilePattern compiles a delimited pattern with trailing flags, or a bare
// RE2 expression. Compiled patterns are cached.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	return patternCache.GetOrCreate(pattern, func() (*regexp.Regexp, error) {
		return compileUncached(pattern)
	})
}

func compileUncached(pattern string) (*regexp.Regexp, error) {
	expr := pattern
	if isDelimited(pattern) {
		closing := pattern[0]
		if c, ok := closingDelimiters[closing]; ok {
			closing = c
		}
		end := strings.LastIndexByte(pattern, closing)
		body, flags := pattern[1:end], pattern[end+1:]

		var goFlags strings.Builder
		for _, f := range flags {
			switch f {
			case 'i', 'm', 's', 'U':
				goFlags.WriteRune(f)
			case 'u', 'D':
			case 'A':
				body = `\A(?:` + body + `)`
			default:
				return nil, fmt.Errorf("unsupported pattern flag %q in %s", f, pattern)
			}
		}
		expr = body
		if goFlags.Len() > 0 {
			expr = "(?" + goFlags.String() + ")" + body
		}
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %s: %w", pattern, err)
	}
	return re, nil
}
