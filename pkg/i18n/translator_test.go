package i18n_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sieve/pkg/i18n"
	"github.com/dmitrymomot/sieve/pkg/validator"
)

func newTranslator(t *testing.T, opts ...i18n.Option) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(context.Background(), i18n.MapAdapter{
		"en": {
			"greeting": "Hello, %{name}!",
			"validator": map[string]any{
				"required":  "%{label} is required",
				"too short": "%{label} needs at least %{min} characters",
			},
			"nested": map[string]any{"deep": map[string]any{"key": "deep value"}},
			"v1.0":   "dotted literal",
		},
		"id": {
			"greeting": "Halo, %{name}!",
			"validator": map[string]any{
				"required": "%{label} wajib diisi",
			},
		},
		"pt-BR": {
			"greeting": "Olá, %{name}!",
		},
	}, opts...)
	require.NoError(t, err)
	return tr
}

func TestTranslator_T(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	tests := []struct {
		name   string
		lang   string
		key    string
		params map[string]any
		want   string
	}{
		{"interpolates", "en", "greeting", map[string]any{"name": "Ann"}, "Hello, Ann!"},
		{"other language", "id", "greeting", map[string]any{"name": "Budi"}, "Halo, Budi!"},
		{"region code", "pt-br", "greeting", map[string]any{"name": "Ana"}, "Olá, Ana!"},
		{"base language", "id-ID", "greeting", map[string]any{"name": "Budi"}, "Halo, Budi!"},
		{"default language", "fr", "greeting", map[string]any{"name": "Jean"}, "Hello, Jean!"},
		{"missing key in language falls back to default", "id", "nested.deep.key", nil, "deep value"},
		{"nested path", "en", "nested.deep.key", nil, "deep value"},
		{"literal key with dot", "en", "v1.0", nil, "dotted literal"},
		{"unknown placeholder kept", "en", "greeting", nil, "Hello, %{name}!"},
		{"missing key renders key", "en", "%{n} apples", map[string]any{"n": 3}, "3 apples"},
		{"subtree is not a message", "en", "nested", nil, "nested"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.T(tt.lang, tt.key, tt.params))
		})
	}
}

func TestTranslator_NoFallbackToKey(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t, i18n.WithFallbackToKey(false))
	assert.Empty(t, tr.T("en", "missing", nil))
	assert.Equal(t, "fallback 1", tr.Td("en", "missing", "fallback %{n}", map[string]any{"n": 1}))
	assert.Equal(t, "Hello, X!", tr.Td("en", "greeting", "unused", map[string]any{"name": "X"}))
}

func TestTranslator_Translate(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)
	params := map[string]any{"label": "Email", "min": 3}

	t.Run("locale from context", func(t *testing.T) {
		ctx := i18n.SetLocale(context.Background(), "id")
		assert.Equal(t, "Email wajib diisi", tr.Translate(ctx, "required", params, validator.Namespace))
	})

	t.Run("namespace falls back to default language", func(t *testing.T) {
		ctx := i18n.SetLocale(context.Background(), "id")
		assert.Equal(t, "Email needs at least 3 characters", tr.Translate(ctx, "too short", params, validator.Namespace))
	})

	t.Run("no locale uses default language", func(t *testing.T) {
		assert.Equal(t, "Email is required", tr.Translate(context.Background(), "required", params, validator.Namespace))
	})

	t.Run("top level key", func(t *testing.T) {
		assert.Equal(t, "Hello, Email!", tr.Translate(context.Background(), "greeting", map[string]any{"name": "Email"}, validator.Namespace))
	})

	t.Run("unknown key renders key", func(t *testing.T) {
		assert.Equal(t, "not an url", tr.Translate(context.Background(), "not an url", params, validator.Namespace))
	})
}

func TestTranslator_WithValidator(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)
	v := validator.New(validator.WithTranslator(tr))

	schema := validator.NewSchema(validator.NewField("email", &validator.FieldSpec{
		Label: "E-mail",
		Rules: validator.Opts("required", true),
	}))

	ctx := i18n.SetLocale(context.Background(), "id")
	_, errs, err := v.Validate(ctx, schema, map[string]any{})
	require.NoError(t, err)
	rec, ok := errs.Record("email")
	require.True(t, ok)
	assert.Equal(t, "E-mail wajib diisi", rec.Text)
}

func TestTranslator_Languages(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)
	assert.Equal(t, []string{"en", "id", "pt-br"}, tr.Languages())
	assert.True(t, tr.Has("en", "validator.required"))
	assert.False(t, tr.Has("id", "validator.too short"))
}

func TestTranslator_ExportJSON(t *testing.T) {
	t.Parallel()
	tr := newTranslator(t)

	data, err := tr.ExportJSON("id")
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Halo, %{name}!", out["greeting"])

	_, err = tr.ExportJSON("fr")
	assert.ErrorIs(t, err, i18n.ErrLanguageNotSupported)
}

type failingAdapter struct{ err error }

func (a failingAdapter) Load(context.Context) (i18n.Translations, error) { return nil, a.err }

type swapAdapter struct{ current i18n.Translations }

func (a *swapAdapter) Load(context.Context) (i18n.Translations, error) { return a.current, nil }

func TestTranslator_Reload(t *testing.T) {
	t.Parallel()

	adapter := &swapAdapter{current: i18n.Translations{"en": {"k": "one"}}}
	tr, err := i18n.NewTranslator(context.Background(), adapter)
	require.NoError(t, err)
	assert.Equal(t, "one", tr.T("en", "k", nil))

	adapter.current = i18n.Translations{"en": {"k": "two"}}
	require.NoError(t, tr.Reload(context.Background()))
	assert.Equal(t, "two", tr.T("en", "k", nil))

	adapter.current = i18n.Translations{"": {"k": "three"}}
	assert.ErrorIs(t, tr.Reload(context.Background()), i18n.ErrEmptyLanguageCode)
	assert.Equal(t, "two", tr.T("en", "k", nil))
}

func TestNewTranslator_Errors(t *testing.T) {
	t.Parallel()

	_, err := i18n.NewTranslator(context.Background(), nil)
	assert.ErrorIs(t, err, i18n.ErrNilAdapter)

	boom := errors.New("boom")
	_, err = i18n.NewTranslator(context.Background(), failingAdapter{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestTranslator_MissingLogging(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(buf, nil))
	tr := newTranslator(t, i18n.WithLogger(log), i18n.WithMissingTranslationsLogging(true))

	tr.T("en", "nowhere", nil)
	assert.Contains(t, buf.String(), "translation not found")
	assert.Contains(t, buf.String(), "key=nowhere")
}
