package i18n

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when nothing better can be negotiated.
const DefaultLanguage = "en"

// maxAcceptLanguageLength caps the header size we are willing to parse.
const maxAcceptLanguageLength = 4096

// maxLangCodeLength follows the RFC 5646 recommendation.
const maxLangCodeLength = 35

// normalizeLang canonicalizes a language code ("EN_us" -> "en-us").
// Codes that are not valid BCP 47 tags are only lowercased.
func normalizeLang(code string) string {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if tag, err := language.Parse(code); err == nil {
		return strings.ToLower(tag.String())
	}
	return strings.ToLower(code)
}

// baseLang returns the primary subtag: "pt-br" -> "pt".
func baseLang(code string) string {
	if i := strings.IndexByte(code, '-'); i > 0 {
		return code[:i]
	}
	return code
}

// MatchLanguage resolves code against the supported languages: an exact match
// first, then its base language. It returns "" when nothing matches.
func MatchLanguage(code string, supported []string) string {
	if code == "" || len(code) > maxLangCodeLength {
		return ""
	}
	code = normalizeLang(code)
	if slices.Contains(supported, code) {
		return code
	}
	if base := baseLang(code); base != code && slices.Contains(supported, base) {
		return base
	}
	return ""
}

// ParseAcceptLanguage negotiates an Accept-Language header against the supported
// languages. Preferences are honored by q-value: every exact match is tried
// before falling back to base languages.
func ParseAcceptLanguage(header string, supported []string, defaultLang string) string {
	if header == "" || len(supported) == 0 {
		return defaultLang
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return defaultLang
	}

	norm := make([]string, len(supported))
	for i, s := range supported {
		norm[i] = normalizeLang(s)
	}

	prefs := make([]string, 0, len(tags))
	for _, tag := range tags {
		prefs = append(prefs, strings.ToLower(tag.String()))
	}
	for _, p := range prefs {
		if slices.Contains(norm, p) {
			return p
		}
	}
	for _, p := range prefs {
		if base := baseLang(p); slices.Contains(norm, base) {
			return base
		}
	}
	return defaultLang
}
