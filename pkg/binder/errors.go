package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrInvalidForm          = errors.New("invalid form data")
	ErrFailedToParseQuery   = errors.New("failed to parse query parameters")
)
