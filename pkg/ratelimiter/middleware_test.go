package ratelimiter_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sieve/pkg/ratelimiter"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (*ratelimiter.Result, error) {
	return nil, ratelimiter.ErrStoreUnavailable
}

func (failingLimiter) AllowN(context.Context, string, int) (*ratelimiter.Result, error) {
	return nil, ratelimiter.ErrStoreUnavailable
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func byHeader(r *http.Request) string { return r.Header.Get("X-Client") }

func send(h http.Handler, client string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if client != "" {
		req.Header.Set("X-Client", client)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
		Capacity: 2, RefillRate: 1, RefillInterval: time.Minute,
	})
	require.NoError(t, err)
	h := ratelimiter.Middleware(b, byHeader, nil)(okHandler)

	t.Run("allows up to capacity", func(t *testing.T) {
		for _, want := range []string{"1", "0"} {
			rec := send(h, "a")
			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, want, rec.Header().Get("X-RateLimit-Remaining"))
			assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
			assert.Empty(t, rec.Header().Get("Retry-After"))
		}
	})

	t.Run("rejects over capacity", func(t *testing.T) {
		rec := send(h, "a")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("other keys are unaffected", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, send(h, "b").Code)
	})

	t.Run("empty key bypasses", func(t *testing.T) {
		for range 5 {
			rec := send(h, "")
			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
		}
	})
}

func TestMiddleware_LimiterError(t *testing.T) {
	t.Parallel()

	t.Run("default deny", func(t *testing.T) {
		rec := send(ratelimiter.Middleware(failingLimiter{}, byHeader, nil)(okHandler), "a")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("custom deny", func(t *testing.T) {
		var got error
		deny := func(w http.ResponseWriter, _ *http.Request, res *ratelimiter.Result, err error) {
			got = err
			assert.Nil(t, res)
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		rec := send(ratelimiter.Middleware(failingLimiter{}, byHeader, deny)(okHandler), "a")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.True(t, errors.Is(got, ratelimiter.ErrStoreUnavailable))
	})
}

func TestMiddleware_RequiresLimiter(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { ratelimiter.Middleware(nil, byHeader, nil) })
	assert.Panics(t, func() { ratelimiter.Middleware(failingLimiter{}, nil, nil) })
}
