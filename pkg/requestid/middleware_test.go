package requestid_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sieve/pkg/logger"
	"github.com/dmitrymomot/sieve/pkg/requestid"
)

func serve(t *testing.T, h func(http.Handler) http.Handler, header, value string) (string, string) {
	t.Helper()
	var seen string
	handler := h(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if value != "" {
		req.Header.Set(header, value)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return seen, rec.Header().Get(header)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates id when missing", func(t *testing.T) {
		t.Parallel()
		seen, echoed := serve(t, requestid.Middleware, requestid.Header, "")
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, echoed)
	})

	for _, id := range []string{"abc123", "ABC-123_xyz", "550e8400-e29b-41d4-a716-446655440000"} {
		t.Run("keeps "+id, func(t *testing.T) {
			t.Parallel()
			seen, echoed := serve(t, requestid.Middleware, requestid.Header, id)
			assert.Equal(t, id, seen)
			assert.Equal(t, id, echoed)
		})
	}

	for _, id := range []string{"test@request#id", "test request id", "a/b", "<script>", strings.Repeat("a", 129)} {
		t.Run("replaces invalid id", func(t *testing.T) {
			t.Parallel()
			seen, echoed := serve(t, requestid.Middleware, requestid.Header, id)
			assert.NotEqual(t, id, seen)
			assert.NotEmpty(t, seen)
			assert.Equal(t, seen, echoed)
		})
	}
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	mw := requestid.New(
		requestid.WithHeader("X-Correlation-ID"),
		requestid.WithGenerator(func() string { return "fixed" }),
	)
	seen, echoed := serve(t, mw, "X-Correlation-ID", "")
	assert.Equal(t, "fixed", seen)
	assert.Equal(t, "fixed", echoed)

	seen, _ = serve(t, mw, "X-Correlation-ID", "client-id")
	assert.Equal(t, "client-id", seen)

	assert.Panics(t, func() { requestid.WithHeader("") })
	assert.Panics(t, func() { requestid.WithGenerator(nil) })
}

func TestContext(t *testing.T) {
	t.Parallel()
	ctx := requestid.WithContext(context.Background(), "test-id")
	assert.Equal(t, "test-id", requestid.FromContext(ctx))
	assert.Empty(t, requestid.FromContext(context.Background()))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	log.InfoContext(requestid.WithContext(context.Background(), "req-1"), "with id")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)

	buf.Reset()
	log.InfoContext(context.Background(), "without id")
	assert.NotContains(t, buf.String(), "request_id")
}
