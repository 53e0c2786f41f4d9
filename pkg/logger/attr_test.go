package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sieve/pkg/logger"
)

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "abc", logger.RequestID("abc").Value.String())
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
}

func TestDomainAttrs(t *testing.T) {
	assert.Equal(t, "component", logger.Component("validator").Key)
	assert.Equal(t, "signup", logger.Form("signup").Value.String())
	assert.Equal(t, "tags.1", logger.Field("tags.1").Value.String())
	assert.Equal(t, "id", logger.Locale("id").Value.String())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
}

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}
