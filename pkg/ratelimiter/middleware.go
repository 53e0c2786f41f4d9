package ratelimiter

import (
	"net/http"
	"strconv"
)

// KeyFunc extracts the bucket key from a request. An empty key bypasses the limiter.
type KeyFunc func(r *http.Request) string

// DenyFunc writes the response for a rejected request. err is non-nil when the
// limiter itself failed; res is nil in that case.
type DenyFunc func(w http.ResponseWriter, r *http.Request, res *Result, err error)

// Middleware enforces l per key and sets the X-RateLimit-* headers.
// A nil deny writes plain-text 429 and 500 responses.
func Middleware(l RateLimiter, key KeyFunc, deny DenyFunc) func(http.Handler) http.Handler {
	if l == nil || key == nil {
		panic("ratelimiter.Middleware: limiter and key func are required")
	}
	if deny == nil {
		deny = defaultDeny
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := l.Allow(r.Context(), k)
			if err != nil {
				deny(w, r, nil, err)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			if !res.Allowed() {
				h.Set("Retry-After", strconv.Itoa(retryAfterSeconds(res)))
				deny(w, r, res, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds rounds up so clients never retry early.
func retryAfterSeconds(res *Result) int {
	d := res.RetryAfter()
	secs := int(d.Seconds())
	if d > 0 && float64(secs) < d.Seconds() {
		secs++
	}
	return max(1, secs)
}

func defaultDeny(w http.ResponseWriter, _ *http.Request, _ *Result, err error) {
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}
