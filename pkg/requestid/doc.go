// Package requestid tags every HTTP request with a correlation id.
//
// The middleware reuses a client-supplied X-Request-ID when it is at most 128
// characters of [a-zA-Z0-9_-], otherwise it generates a UUIDv4. The id is stored
// in the request context and echoed in the response header.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	log.InfoContext(r.Context(), "validated") // carries request_id
package requestid
