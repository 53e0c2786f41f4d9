package server

import "errors"

var (
	// ErrNilRegistry is returned by New without a form registry.
	ErrNilRegistry = errors.New("server: nil form registry")

	ErrRateLimited = errors.New("too many submissions, retry later")
)

// Error codes returned in the "error.code" field of failed responses.
const (
	CodeFormNotFound = "form_not_found"
	CodeBadRequest   = "bad_request"
	CodeInternal     = "internal_error"
	CodeUnavailable  = "unavailable"
	CodeRateLimited  = "rate_limited"
)
