package validator

import (
	"context"
	"fmt"
	"regexp"
)

// Namespace is the translation namespace used for validation messages.
const Namespace = "validator"

// Translator turns a message key and its parameters into display text.
// Fallback behavior for missing keys belongs to the implementation.
type Translator interface {
	Translate(ctx context.Context, key string, params map[string]any, namespace string) string
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(ctx context.Context, key string, params map[string]any, namespace string) string

// Translate implements Translator.
func (f TranslatorFunc) Translate(ctx context.Context, key string, params map[string]any, namespace string) string {
	return f(ctx, key, params, namespace)
}

var placeholderRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// Interpolate replaces %{name} placeholders with params. Unknown placeholders are kept.
func Interpolate(tmpl string, params map[string]any) string {
	return placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[2 : len(match)-1]
		if v, ok := params[name]; ok {
			return ParamString(v)
		}
		return match
	})
}

// ParamString renders a message parameter.
func ParamString(v any) string {
	switch KindOf(v) {
	case KindSequence, KindMapping:
		return fmt.Sprint(v)
	}
	return stringify(v)
}

// Interpolator is the default Translator: the key is the message template itself.
type Interpolator struct{}

// Translate implements Translator.
func (Interpolator) Translate(_ context.Context, key string, params map[string]any, _ string) string {
	return Interpolate(key, params)
}
