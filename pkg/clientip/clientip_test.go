package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sieve/pkg/clientip"
)

func TestFromRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote addr", "10.0.0.1:5000", nil, false, "10.0.0.1"},
		{"remote addr without port", "10.0.0.2", nil, false, "10.0.0.2"},
		{"ipv6 remote", "[2001:db8::1]:443", nil, false, "2001:db8::1"},
		{"headers ignored when untrusted", "10.0.0.1:5000", map[string]string{"X-Forwarded-For": "1.2.3.4"}, false, "10.0.0.1"},
		{"forwarded for first valid", "10.0.0.1:5000", map[string]string{"X-Forwarded-For": "bogus, 1.2.3.4, 5.6.7.8"}, true, "1.2.3.4"},
		{"cloudflare wins", "10.0.0.1:5000", map[string]string{"CF-Connecting-IP": "9.9.9.9", "X-Forwarded-For": "1.2.3.4"}, true, "9.9.9.9"},
		{"real ip", "10.0.0.1:5000", map[string]string{"X-Real-IP": " 4.4.4.4 "}, true, "4.4.4.4"},
		{"invalid headers fall back", "10.0.0.1:5000", map[string]string{"X-Real-IP": "nope"}, true, "10.0.0.1"},
		{"garbage remote", "garbage", nil, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.FromRequest(r, tt.trustProxy))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got string
	h := clientip.Middleware(true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = clientip.FromContext(r.Context())
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "8.8.8.8")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "8.8.8.8", got)
}
