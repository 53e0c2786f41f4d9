package form

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/sieve/pkg/binder"
	"github.com/dmitrymomot/sieve/pkg/validator"
)

// Form validates input against one registered schema and keeps the outcome.
// A Form is meant for a single request and is not safe for concurrent use.
type Form struct {
	name      string
	schema    validator.Schema
	validator *validator.Validator

	result map[string]any
	errors validator.Errors
}

// New resolves the named form. It fails with ErrFormNotRegistered for unknown names.
func New(reg *Registry, v *validator.Validator, name string) (*Form, error) {
	schema, err := reg.Get(name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = validator.New()
	}
	return &Form{
		name:      name,
		schema:    schema,
		validator: v,
		result:    map[string]any{},
		errors:    validator.Errors{},
	}, nil
}

// Name returns the form name.
func (f *Form) Name() string {
	return f.name
}

// Validate checks object and returns the sanitized result, or nil when the
// input is invalid. The error return is reserved for configuration problems.
func (f *Form) Validate(ctx context.Context, object map[string]any) (map[string]any, error) {
	result, errs, err := f.validator.Validate(ctx, f.schema, object)
	if err != nil {
		return nil, fmt.Errorf("form %q: %w", f.name, err)
	}
	f.result = result
	if !errs.IsEmpty() {
		f.errors = errs
		return nil, nil
	}
	f.errors = validator.Errors{}
	return result, nil
}

// ValidateRequest extracts the request body, query and uploads and validates them.
// Extraction failures wrap the binder errors.
func (f *Form) ValidateRequest(r *http.Request) (map[string]any, error) {
	object, files, err := binder.Extract(r)
	if err != nil {
		return nil, err
	}
	return f.Validate(validator.WithUploads(r.Context(), files), object)
}

// Result returns the sanitized object of the last validation, valid or not.
func (f *Form) Result() map[string]any {
	return f.result
}

// Errors returns the errors of the last validation plus any added by AddError.
func (f *Form) Errors() validator.Errors {
	return f.errors
}

// Error returns the error recorded for field.
func (f *Form) Error(field string) (any, bool) {
	return f.errors.Get(field)
}

// HasError reports whether any error is recorded.
func (f *Form) HasError() bool {
	return !f.errors.IsEmpty()
}

// AddError records an error that validation rules cannot express, such as
// "email already taken" after a database lookup.
func (f *Form) AddError(field, code, text string) {
	if f.errors == nil {
		f.errors = validator.Errors{}
	}
	f.errors[field] = validator.FieldError{Field: field, Code: code, Text: text}
}
