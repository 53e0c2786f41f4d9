package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sieve/pkg/validator"
)

func TestBuiltinFilters(t *testing.T) {
	t.Parallel()

	reg := validator.MustRegistry(validator.DefaultCatalog())

	tests := []struct {
		filter  string
		value   any
		options any
		want    any
	}{
		{filter: validator.FilterArray, value: "a", want: []any{"a"}},
		{filter: validator.FilterArray, value: []any{"a"}, want: []any{"a"}},
		{filter: validator.FilterArray, value: nil, want: nil},
		{filter: validator.FilterBoolean, value: "0", want: false},
		{filter: validator.FilterBoolean, value: "no", want: true},
		{filter: validator.FilterFloat, value: "3.5kg", want: 3.5},
		{filter: validator.FilterInteger, value: "12abc", want: int64(12)},
		{filter: validator.FilterInteger, value: 7.9, want: int64(7)},
		{filter: validator.FilterJSON, value: map[string]any{"a": 1}, want: `{"a":1}`},
		{filter: validator.FilterLowercase, value: "HeLLo", want: "hello"},
		{filter: validator.FilterLowercase, value: []any{"A"}, want: []any{"A"}},
		{filter: validator.FilterObject, value: "x", want: map[string]any{"scalar": "x"}},
		{filter: validator.FilterObject, value: []any{"a", "b"}, want: map[string]any{"0": "a", "1": "b"}},
		{filter: validator.FilterRound, value: 2.5, want: 3.0},
		{filter: validator.FilterRound, value: "1.236", options: 2, want: 1.24},
		{filter: validator.FilterRound, value: 1.236, options: true, want: 1.0},
		{filter: validator.FilterString, value: 42, want: "42"},
		{filter: validator.FilterString, value: true, want: "1"},
		{filter: validator.FilterUCWords, value: "hello big world", want: "Hello Big World"},
		{filter: validator.FilterUppercase, value: "straße", want: "STRASSE"},
		{filter: validator.FilterUppercase, value: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			fn, err := reg.ResolveFilter(tt.filter)
			require.NoError(t, err)
			got, err := fn(context.Background(), validator.Input{Value: tt.value, Options: tt.options})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONFilterUnsupportedValue(t *testing.T) {
	t.Parallel()
	_, err := validator.JSONFilter(context.Background(), validator.Input{Value: make(chan int)})
	assert.Error(t, err)
}

func TestFiltersRunInOrder(t *testing.T) {
	t.Parallel()

	v := validator.New()
	schema := validator.NewSchema(
		validator.NewField("a", &validator.FieldSpec{Filters: validator.Opts("uppercase", true, "ucwords", true)}),
		validator.NewField("b", &validator.FieldSpec{Filters: validator.Opts("float", true, "round", 1, "string", true)}),
	)

	out, errs, err := v.Validate(context.Background(), schema, map[string]any{"a": "hello world", "b": "2.345 units"})
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "HELLO WORLD", out["a"])
	assert.Equal(t, "2.3", out["b"])
}

func TestFiltersSkippedOnFailure(t *testing.T) {
	t.Parallel()

	v := validator.New()
	schema := validator.NewSchema(validator.NewField("n", &validator.FieldSpec{
		Rules:   validator.Opts("numeric", true),
		Filters: validator.Opts("integer", true),
	}))

	out, errs, err := v.Validate(context.Background(), schema, map[string]any{"n": "ten"})
	require.NoError(t, err)
	assert.True(t, errs.Has("n"))
	assert.Equal(t, "ten", out["n"])
}
