package validator_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sieve/pkg/validator"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("resolves built-ins", func(t *testing.T) {
		t.Parallel()
		reg := validator.MustRegistry(validator.DefaultCatalog())

		for _, name := range []string{"required", "req_on", "required_on", "equals_to", "url", "date"} {
			_, err := reg.ResolveRule(name)
			assert.NoError(t, err, name)
		}
		assert.Contains(t, reg.Filters(), "ucwords")
		assert.Equal(t, validator.FormatterDefault, reg.FormatterID())

		msg, ok := reg.Message(validator.CodeRequired)
		assert.True(t, ok)
		assert.Equal(t, "required", msg)
	})

	t.Run("unknown names", func(t *testing.T) {
		t.Parallel()
		reg := validator.MustRegistry(validator.DefaultCatalog())

		_, err := reg.ResolveRule("nope")
		assert.ErrorIs(t, err, validator.ErrRuleNotRegistered)
		var nre *validator.NotRegisteredError
		require.ErrorAs(t, err, &nre)
		assert.Equal(t, "nope", nre.Name)
		assert.Equal(t, "rule", nre.Kind)

		_, err = reg.ResolveFilter("nope")
		assert.ErrorIs(t, err, validator.ErrFilterNotRegistered)
		_, err = reg.ResolveCallback("nope")
		assert.ErrorIs(t, err, validator.ErrCallbackNotRegistered)
		assert.True(t, validator.IsConfigError(err))
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		t.Parallel()
		reg := validator.MustRegistry(validator.DefaultCatalog())

		err := reg.AddRule("required", validator.RequiredRule)
		assert.ErrorIs(t, err, validator.ErrDuplicateName)
		err = reg.AddFilter("string", validator.JSONFilter)
		assert.ErrorIs(t, err, validator.ErrDuplicateName)

		require.NoError(t, reg.AddRule("always", func(context.Context, validator.Input) (*validator.Failure, error) {
			return validator.Fail("99.0"), nil
		}))
		assert.Contains(t, reg.Rules(), "always")
	})

	t.Run("register is idempotent", func(t *testing.T) {
		t.Parallel()
		cat := validator.DefaultCatalog()
		reg := validator.MustRegistry(cat)
		before := reg.Rules()
		require.NoError(t, reg.Register(cat))
		assert.Equal(t, before, reg.Rules())
	})

	t.Run("empty catalog", func(t *testing.T) {
		t.Parallel()
		reg, err := validator.NewRegistry(validator.Catalog{})
		require.NoError(t, err)
		assert.Empty(t, reg.Rules())
		require.NoError(t, reg.AddRule("required", validator.RequiredRule))
		assert.Equal(t, []string{"required"}, reg.Rules())
	})

	t.Run("formatters", func(t *testing.T) {
		t.Parallel()
		_, err := validator.NewRegistry(validator.Catalog{Formatter: "xml"})
		assert.ErrorIs(t, err, validator.ErrFormatterNotRegistered)

		reg := validator.MustRegistry(validator.DefaultCatalog())
		assert.ErrorIs(t, reg.SetFormatter("xml"), validator.ErrFormatterNotRegistered)

		require.NoError(t, reg.AddFormatter("code", validator.FormatterFunc(
			func(r validator.FieldError, _ string, _ map[string]validator.FieldError, _ map[string]any) any {
				return r.Code
			})))
		require.NoError(t, reg.SetFormatter("code"))
		assert.Equal(t, "code", reg.FormatterID())
		assert.Equal(t, "11.0", reg.Formatter().Format(validator.FieldError{Code: "11.0"}, "a", nil, nil))
	})

	t.Run("concurrent readers", func(t *testing.T) {
		t.Parallel()
		reg := validator.MustRegistry(validator.DefaultCatalog())

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					_, _ = reg.ResolveRule("required")
					_ = reg.Formatter()
				}
			}()
		}
		require.NoError(t, reg.AddCallback("late", validator.RequiredRule))
		wg.Wait()
	})
}

func TestMustRegistryPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		validator.MustRegistry(validator.Catalog{Formatter: "xml"})
	})
}
