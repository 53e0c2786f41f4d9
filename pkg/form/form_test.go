package form_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sieve/pkg/binder"
	"github.com/dmitrymomot/sieve/pkg/form"
	"github.com/dmitrymomot/sieve/pkg/validator"
)

func stdName() validator.Schema {
	return validator.NewSchema(validator.NewField("name", &validator.FieldSpec{
		Rules:   validator.Opts("required", true, "text", true),
		Filters: validator.Opts("ucwords", true),
	}))
}

func newRegistry(t *testing.T) *form.Registry {
	t.Helper()
	reg, err := form.NewRegistry(context.Background(), form.MapSource{"std-name": stdName()})
	require.NoError(t, err)
	return reg
}

func TestForm_NotRegistered(t *testing.T) {
	t.Parallel()
	_, err := form.New(newRegistry(t), nil, "non-exists-form")
	assert.ErrorIs(t, err, form.ErrFormNotRegistered)
}

func TestForm_Validate(t *testing.T) {
	t.Parallel()

	t.Run("invalid input returns nil result", func(t *testing.T) {
		t.Parallel()
		f, err := form.New(newRegistry(t), nil, "std-name")
		require.NoError(t, err)

		result, err := f.Validate(context.Background(), map[string]any{"a": "b"})
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.True(t, f.HasError())
		assert.True(t, f.Errors().Has("name"))
		assert.NotNil(t, f.Result())
	})

	t.Run("valid input returns sanitized result", func(t *testing.T) {
		t.Parallel()
		f, err := form.New(newRegistry(t), nil, "std-name")
		require.NoError(t, err)

		result, err := f.Validate(context.Background(), map[string]any{"name": "user name", "extra": 1})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "User Name"}, result)
		assert.Equal(t, result, f.Result())
		assert.False(t, f.HasError())
		assert.Equal(t, "std-name", f.Name())
	})

	t.Run("field name is a message parameter", func(t *testing.T) {
		t.Parallel()
		reg, err := form.NewRegistry(context.Background(), form.MapSource{
			"named": validator.NewSchema(validator.NewField("nickname", &validator.FieldSpec{
				Rules:   validator.Opts("required", true),
				Message: map[string]string{"required": "%{name} is missing"},
			})),
		})
		require.NoError(t, err)
		f, err := form.New(reg, nil, "named")
		require.NoError(t, err)

		_, err = f.Validate(context.Background(), map[string]any{})
		require.NoError(t, err)
		rec, ok := f.Errors().Record("nickname")
		require.True(t, ok)
		assert.Equal(t, "nickname is missing", rec.Text)
	})

	t.Run("configuration errors surface", func(t *testing.T) {
		t.Parallel()
		reg, err := form.NewRegistry(context.Background(), form.MapSource{
			"broken": validator.NewSchema(validator.NewField("a", &validator.FieldSpec{Rules: validator.Opts("nope", true)})),
		})
		require.NoError(t, err)
		f, err := form.New(reg, nil, "broken")
		require.NoError(t, err)

		_, err = f.Validate(context.Background(), map[string]any{"a": 1})
		assert.ErrorIs(t, err, validator.ErrRuleNotRegistered)
	})
}

func TestForm_AddError(t *testing.T) {
	t.Parallel()
	f, err := form.New(newRegistry(t), nil, "std-name")
	require.NoError(t, err)

	_, err = f.Validate(context.Background(), map[string]any{"name": "ok"})
	require.NoError(t, err)
	assert.False(t, f.HasError())

	f.AddError("name", "90.1", "already taken")
	assert.True(t, f.HasError())
	got, ok := f.Error("name")
	require.True(t, ok)
	assert.Equal(t, validator.FieldError{Field: "name", Code: "90.1", Text: "already taken"}, got)

	_, ok = f.Error("other")
	assert.False(t, ok)
}

func TestForm_ValidateRequest(t *testing.T) {
	t.Parallel()

	f, err := form.New(newRegistry(t), nil, "std-name")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"jane doe"}`))
	req.Header.Set("Content-Type", "application/json")
	result, err := f.ValidateRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", result["name"])

	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
	bad.Header.Set("Content-Type", "text/csv")
	_, err = f.ValidateRequest(bad)
	assert.ErrorIs(t, err, binder.ErrUnsupportedMediaType)
}

func TestRegistry_Sources(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := t.TempDir()
	formsFile := filepath.Join(dir, "forms.yaml")
	require.NoError(t, os.WriteFile(formsFile, []byte(`
forms:
  login:
    email: {rules: {required: true, email: true}}
    password: {rules: {required: true}}
  std-name:
    name: {rules: {required: true}}
`), 0o600))

	dirFS := fstest.MapFS{
		"forms/contact.yaml": {Data: []byte("message: {rules: {required: true}}\n")},
		"forms/search.json":  {Data: []byte(`{"q": {"rules": {"text": true}}}`)},
		"forms/notes.txt":    {Data: []byte("ignored")},
	}

	reg, err := form.NewRegistry(ctx,
		form.MapSource{"std-name": stdName()},
		form.FileSource{Path: formsFile},
		form.DirectorySource{FS: dirFS, Dir: "forms"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"contact", "login", "search", "std-name"}, reg.Names())

	login, err := reg.Get("login")
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "password"}, login.Names())

	overridden, err := reg.Get("std-name")
	require.NoError(t, err)
	spec, _ := overridden.Get("name")
	assert.Empty(t, spec.Filters, "file source overrides the map source")
	assert.Equal(t, "name", spec.Extra["name"])
}

func TestRegistry_SourceErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := form.NewRegistry(ctx, nil)
	assert.ErrorIs(t, err, form.ErrNilSource)

	_, err = form.NewRegistry(ctx, form.FileSource{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, form.ErrFailedToReadSource)

	_, err = form.ParseForms([]byte("other: {}\n"))
	assert.ErrorIs(t, err, form.ErrInvalidFormsFile)

	_, err = form.NewRegistry(ctx, form.DirectorySource{FS: fstest.MapFS{
		"bad.yaml": {Data: []byte("- not\n- a mapping\n")},
	}})
	assert.ErrorIs(t, err, validator.ErrInvalidSchema)
}

func TestRegistry_ReloadKeepsFormsOnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "forms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("forms:\n  a: {x: {rules: [required]}}\n"), 0o600))

	reg, err := form.NewRegistry(context.Background(), form.FileSource{Path: path})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("forms:\n  b: {y: {rules: [required]}}\n"), 0o600))
	require.NoError(t, reg.Reload(context.Background()))
	assert.Equal(t, []string{"b"}, reg.Names())

	require.NoError(t, os.WriteFile(path, []byte("forms: ["), 0o600))
	assert.Error(t, reg.Reload(context.Background()))
	assert.Equal(t, []string{"b"}, reg.Names())
}

func TestRedisSource(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	src := form.NewRedisSource(client, "")

	require.NoError(t, src.Put(ctx, "signup", []byte("email: {rules: {required: true, email: true}}\nname: {rules: [required]}\n")))
	assert.True(t, mr.Exists(form.DefaultRedisKey))

	assert.ErrorIs(t, src.Put(ctx, "broken", []byte("- a\n")), validator.ErrInvalidSchema)
	assert.ErrorIs(t, src.Put(ctx, "", []byte("a: {}\n")), form.ErrEmptyFormName)

	reg, err := form.NewRegistry(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"signup"}, reg.Names())

	signup, err := reg.Get("signup")
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "name"}, signup.Names())

	require.NoError(t, src.Delete(ctx, "signup"))
	require.NoError(t, reg.Reload(ctx))
	assert.Empty(t, reg.Names())

	mr.HSet(form.DefaultRedisKey, "corrupt", "a: [")
	assert.Error(t, reg.Reload(ctx))
}

func TestRedisSource_Unavailable(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err = form.NewRegistry(context.Background(), form.NewRedisSource(client, "forms"))
	assert.ErrorIs(t, err, form.ErrFailedToReadSource)
}

func TestForm_ValidateRequestMultipart(t *testing.T) {
	t.Parallel()

	reg, err := form.NewRegistry(context.Background(), form.MapSource{
		"upload": validator.NewSchema(validator.NewField("doc", &validator.FieldSpec{Rules: validator.Opts("required", true, "file", true)})),
	})
	require.NoError(t, err)
	f, err := form.New(reg, nil, "upload")
	require.NoError(t, err)

	body := "--xyz\r\nContent-Disposition: form-data; name=\"doc\"; filename=\"a.txt\"\r\nContent-Type: text/plain\r\n\r\nhello\r\n--xyz--\r\n"
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

	result, err := f.ValidateRequest(req)
	require.NoError(t, err)
	assert.Contains(t, result, "doc")
	assert.False(t, f.HasError())
}
