package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// Header is the default request id header.
const Header = "X-Request-ID"

const maxIDLength = 128

var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type config struct {
	header   string
	generate func() string
}

// Option configures the middleware.
type Option func(*config)

// WithHeader reads and echoes the id under a different header.
func WithHeader(name string) Option {
	if name == "" {
		panic("requestid.WithHeader: header cannot be empty")
	}
	return func(c *config) { c.header = name }
}

// WithGenerator replaces the UUIDv4 generator.
func WithGenerator(fn func() string) Option {
	if fn == nil {
		panic("requestid.WithGenerator: nil generator")
	}
	return func(c *config) { c.generate = fn }
}

// New returns middleware that reuses a valid client-supplied id or generates one,
// stores it in the request context and echoes it in the response header.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{header: Header, generate: uuid.NewString}
	for _, opt := range opts {
		opt(cfg)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(cfg.header)
			if !isValid(id) {
				id = cfg.generate()
			}
			w.Header().Set(cfg.header, id)
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
		})
	}
}

// Middleware is New with default options.
func Middleware(next http.Handler) http.Handler {
	return New()(next)
}

func isValid(id string) bool {
	return id != "" && len(id) <= maxIDLength && validID.MatchString(id)
}
