package i18n

import (
	"net/http"
	"strings"
)

// LangExtractor reads a language preference from a request. It returns "" when
// the request carries none that the supported list can satisfy.
type LangExtractor func(r *http.Request, supported []string) string

// FromQuery reads the named query parameter.
func FromQuery(name string) LangExtractor {
	return func(r *http.Request, supported []string) string {
		return MatchLanguage(strings.TrimSpace(r.URL.Query().Get(name)), supported)
	}
}

// FromCookie reads the named cookie.
func FromCookie(name string) LangExtractor {
	return func(r *http.Request, supported []string) string {
		c, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return MatchLanguage(strings.TrimSpace(c.Value), supported)
	}
}

// FromHeader reads a single language code from the named header.
func FromHeader(name string) LangExtractor {
	return func(r *http.Request, supported []string) string {
		return MatchLanguage(strings.TrimSpace(r.Header.Get(name)), supported)
	}
}

// FromAcceptLanguage negotiates the Accept-Language header.
func FromAcceptLanguage() LangExtractor {
	return func(r *http.Request, supported []string) string {
		return ParseAcceptLanguage(r.Header.Get("Accept-Language"), supported, "")
	}
}

// DefaultExtractors check the "lang" query parameter, the "lang" cookie and
// then Accept-Language.
func DefaultExtractors() []LangExtractor {
	return []LangExtractor{FromQuery("lang"), FromCookie("lang"), FromAcceptLanguage()}
}

// Middleware stores the negotiated locale in the request context. Extractors are
// tried in order; the translator's default language is used when none matches.
func Middleware(t *Translator, extractors ...LangExtractor) func(http.Handler) http.Handler {
	if len(extractors) == 0 {
		extractors = DefaultExtractors()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supported := t.Languages()
			lang := t.DefaultLanguage()
			for _, extract := range extractors {
				if l := extract(r, supported); l != "" {
					lang = l
					break
				}
			}
			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), lang)))
		})
	}
}
