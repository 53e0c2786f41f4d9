package form

import "errors"

var (
	// ErrFormNotRegistered is returned when a form name has no schema. Like the
	// validator's configuration errors it signals a setup bug, not bad input.
	ErrFormNotRegistered = errors.New("form not registered")

	ErrNilSource          = errors.New("form source is nil")
	ErrInvalidFormsFile   = errors.New("invalid forms document")
	ErrFailedToReadSource = errors.New("failed to read form source")
	ErrEmptyFormName      = errors.New("empty form name")
)
