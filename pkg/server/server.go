package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/sieve/pkg/binder"
	"github.com/dmitrymomot/sieve/pkg/clientip"
	"github.com/dmitrymomot/sieve/pkg/form"
	"github.com/dmitrymomot/sieve/pkg/i18n"
	"github.com/dmitrymomot/sieve/pkg/logger"
	"github.com/dmitrymomot/sieve/pkg/ratelimiter"
	"github.com/dmitrymomot/sieve/pkg/requestid"
	"github.com/dmitrymomot/sieve/pkg/validator"
)

// HealthCheck probes a dependency. A non-nil error marks the service unavailable.
type HealthCheck func(ctx context.Context) error

// Server exposes form validation over HTTP.
type Server struct {
	forms      *form.Registry
	validator  *validator.Validator
	translator *i18n.Translator
	metrics    *Metrics
	logger     *slog.Logger
	checks     map[string]HealthCheck
	trustProxy bool
	limiter    ratelimiter.RateLimiter
}

// Option configures a Server.
type Option func(*Server)

// WithTranslator negotiates the request locale against the translator languages.
// The validator must be created with the same translator for messages to follow.
func WithTranslator(t *i18n.Translator) Option {
	return func(s *Server) { s.translator = t }
}

// WithMetrics records validations and serves GET /metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the request and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTrustProxy reads the client address from forwarding headers.
func WithTrustProxy(trust bool) Option {
	return func(s *Server) { s.trustProxy = trust }
}

// WithRateLimiter limits validate requests per client address.
func WithRateLimiter(l ratelimiter.RateLimiter) Option {
	return func(s *Server) { s.limiter = l }
}

// WithHealthCheck adds a named readiness probe to GET /health.
func WithHealthCheck(name string, check HealthCheck) Option {
	if name == "" || check == nil {
		panic("server.WithHealthCheck: name and check are required")
	}
	return func(s *Server) { s.checks[name] = check }
}

// New creates a Server. A nil validator falls back to validator.New().
func New(forms *form.Registry, v *validator.Validator, opts ...Option) (*Server, error) {
	if forms == nil {
		return nil, ErrNilRegistry
	}
	if v == nil {
		v = validator.New()
	}
	s := &Server{
		forms:     forms,
		validator: v,
		logger:    slog.New(slog.DiscardHandler),
		checks:    make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.Middleware(s.trustProxy),
		s.requestLogger,
		middleware.Recoverer,
	)
	if s.translator != nil {
		r.Use(i18n.Middleware(s.translator))
	}

	r.Get("/health", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	r.Route("/v1/forms", func(r chi.Router) {
		r.Get("/", s.listForms)
		if s.limiter != nil {
			r = r.With(ratelimiter.Middleware(s.limiter, clientKey, s.rateLimited))
		}
		r.Post("/{form}/validate", s.validate)
	})
	return r
}

func (s *Server) listForms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.logger, http.StatusOK, map[string]any{"forms": s.forms.Names()})
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "form")
	ctx := r.Context()
	log := s.logger.With(logger.Form(name))

	f, err := form.New(s.forms, s.validator, name)
	if err != nil {
		s.fail(w, r, http.StatusNotFound, CodeFormNotFound, err)
		return
	}

	start := time.Now()
	result, err := f.ValidateRequest(r)
	elapsed := time.Since(start)
	if err != nil {
		s.observe(name, OutcomeError, nil, elapsed)
		if isBindError(err) {
			s.fail(w, r, http.StatusBadRequest, CodeBadRequest, err)
			return
		}
		log.ErrorContext(ctx, "form configuration error", logger.Error(err))
		s.fail(w, r, http.StatusInternalServerError, CodeInternal, err)
		return
	}

	if result == nil {
		s.observe(name, OutcomeInvalid, f.Errors(), elapsed)
		log.DebugContext(ctx, "submission rejected", slog.Int("errors", len(f.Errors())))
		writeJSON(w, r, s.logger, http.StatusUnprocessableEntity, ValidationResponse{
			Valid:  false,
			Result: f.Result(),
			Errors: f.Errors(),
		})
		return
	}

	s.observe(name, OutcomeValid, nil, elapsed)
	writeJSON(w, r, s.logger, http.StatusOK, ValidationResponse{Valid: true, Result: result})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "health check failed", slog.String("check", name), logger.Error(err))
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	state := "ok"
	if status != http.StatusOK {
		state = CodeUnavailable
	}
	writeJSON(w, r, s.logger, status, map[string]any{"status": state, "checks": checks})
}

func (s *Server) observe(name, outcome string, errs validator.Errors, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.Observe(name, outcome, errs, elapsed)
	}
}

// fail writes an ErrorResponse. Internal errors hide their message from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	writeJSON(w, r, s.logger, status, ErrorResponse{Error: ErrorDetail{
		Code:      code,
		Message:   msg,
		RequestID: requestid.FromContext(r.Context()),
	}})
}

func clientKey(r *http.Request) string {
	return clientip.FromContext(r.Context())
}

// rateLimited answers requests the limiter rejected or could not decide on.
func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result, err error) {
	name := chi.URLParam(r, "form")
	if err != nil {
		s.logger.ErrorContext(r.Context(), "rate limiter failed", logger.Form(name), logger.Error(err))
		s.fail(w, r, http.StatusServiceUnavailable, CodeUnavailable, err)
		return
	}
	if s.metrics != nil {
		label := UnknownForm
		if _, err := s.forms.Get(name); err == nil {
			label = name
		}
		s.metrics.RateLimited(label)
	}
	s.fail(w, r, http.StatusTooManyRequests, CodeRateLimited, ErrRateLimited)
}

func isBindError(err error) bool {
	return errors.Is(err, binder.ErrUnsupportedMediaType) ||
		errors.Is(err, binder.ErrFailedToParseJSON) ||
		errors.Is(err, binder.ErrInvalidForm) ||
		errors.Is(err, binder.ErrFailedToParseQuery)
}

// requestLogger logs one line per request with status and latency.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.LogAttrs(r.Context(), level, "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Int("bytes", ww.BytesWritten()),
			logger.Duration(time.Since(start)),
			logger.RequestID(requestid.FromContext(r.Context())),
			slog.String("client_ip", clientip.FromContext(r.Context())),
		)
	})
}
