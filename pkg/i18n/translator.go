package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/sieve/pkg/logger"
	"github.com/dmitrymomot/sieve/pkg/validator"
)

// Translator resolves message keys per language. It implements validator.Translator.
type Translator struct {
	mu           sync.RWMutex
	translations Translations
	adapter      Adapter

	defaultLang   string
	fallbackToKey bool
	logMissing    bool
	logger        *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage sets the language used when the requested one has no translations.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = normalizeLang(lang)
		}
	}
}

// WithFallbackToKey controls whether a missing key renders the key itself. Default is true.
func WithFallbackToKey(fallback bool) Option {
	return func(t *Translator) {
		t.fallbackToKey = fallback
	}
}

// WithLogger sets the logger. A discard logger is used by default.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMissingTranslationsLogging enables a warning for every missing key.
func WithMissingTranslationsLogging(enabled bool) Option {
	return func(t *Translator) {
		t.logMissing = enabled
	}
}

// NewTranslator loads translations through the adapter.
func NewTranslator(ctx context.Context, adapter Adapter, opts ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}
	t := &Translator{
		adapter:       adapter,
		defaultLang:   DefaultLanguage,
		fallbackToKey: true,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.Reload(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload replaces the translations with a fresh copy from the adapter.
// On error the previous translations stay in place.
func (t *Translator) Reload(ctx context.Context) error {
	loaded, err := t.adapter.Load(ctx)
	if err != nil {
		return err
	}
	for lang, tree := range loaded {
		if lang == "" {
			return ErrEmptyLanguageCode
		}
		if tree == nil {
			return fmt.Errorf("nil translations for language %q", lang)
		}
	}

	t.mu.Lock()
	t.translations = loaded
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "translations loaded",
		logger.Component("i18n"),
		slog.Any("languages", t.Languages()),
	)
	return nil
}

// Languages returns the loaded language codes, sorted.
func (t *Translator) Languages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Sorted(maps.Keys(t.translations))
}

// DefaultLanguage returns the fallback language.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// Has reports whether key resolves to a string for lang, without fallbacks.
func (t *Translator) Has(lang, key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := lookup(t.translations[normalizeLang(lang)], key)
	return ok
}

// T translates key for lang and fills %{name} placeholders from params.
// Lookup falls back from lang to its base language and then to the default language.
func (t *Translator) T(lang, key string, params map[string]any) string {
	if tmpl, ok := t.resolve(lang, key); ok {
		return validator.Interpolate(tmpl, params)
	}
	if t.logMissing {
		t.logger.Warn("translation not found", logger.Locale(lang), slog.String("key", key))
	}
	if t.fallbackToKey {
		return validator.Interpolate(key, params)
	}
	return ""
}

// Td is like T but renders defaultValue when the key is missing.
func (t *Translator) Td(lang, key, defaultValue string, params map[string]any) string {
	if tmpl, ok := t.resolve(lang, key); ok {
		return validator.Interpolate(tmpl, params)
	}
	return validator.Interpolate(defaultValue, params)
}

// Tc translates key using the locale stored in ctx.
func (t *Translator) Tc(ctx context.Context, key string, params map[string]any) string {
	return t.T(GetLocale(ctx), key, params)
}

// Translate implements validator.Translator. The key is looked up inside the
// namespace first and at the top level second.
func (t *Translator) Translate(ctx context.Context, key string, params map[string]any, namespace string) string {
	lang := GetLocale(ctx)
	if namespace != "" {
		if tmpl, ok := t.resolve(lang, namespace+"."+key); ok {
			return validator.Interpolate(tmpl, params)
		}
	}
	return t.T(lang, key, params)
}

// ExportJSON returns every translation of lang as a JSON document.
func (t *Translator) ExportJSON(lang string) ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tree, ok := t.translations[normalizeLang(lang)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLanguageNotSupported, lang)
	}
	b, err := json.Marshal(tree)
	if err != nil {
		return nil, errors.Join(ErrFailedToMarshalJSON, err)
	}
	return b, nil
}

func (t *Translator) resolve(lang, key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tried := make([]string, 0, 3)
	for _, candidate := range []string{normalizeLang(lang), baseLang(normalizeLang(lang)), t.defaultLang} {
		if candidate == "" || slices.Contains(tried, candidate) {
			continue
		}
		tried = append(tried, candidate)
		if s, ok := lookup(t.translations[candidate], key); ok {
			return s, true
		}
	}
	return "", false
}

// lookup finds key in tree. A literal key wins; otherwise the key is split on
// dots and walked through nested maps. Message texts may contain dots, so every
// split point is tried.
func lookup(tree map[string]any, key string) (string, bool) {
	if tree == nil || key == "" {
		return "", false
	}
	if s, ok := tree[key].(string); ok {
		return s, true
	}
	for i := strings.IndexByte(key, '.'); i >= 0; {
		if sub, ok := tree[key[:i]].(map[string]any); ok {
			if s, ok := lookup(sub, key[i+1:]); ok {
				return s, true
			}
		}
		next := strings.IndexByte(key[i+1:], '.')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return "", false
}
