package validator

import (
	"sort"
	"strings"
)

// FieldError is the record produced by a failing rule.
type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
	Text  string `json:"text"`
	// Options is the spec of the failing field.
	Options *FieldSpec `json:"-"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Text
}

// Errors maps a dotted field path to its formatted error.
// With the default formatter every entry is a FieldError.
type Errors map[string]any

// IsEmpty reports whether no field failed.
func (e Errors) IsEmpty() bool {
	return len(e) == 0
}

// Has reports whether the field failed.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get returns the formatted error of the field.
func (e Errors) Get(field string) (any, bool) {
	v, ok := e[field]
	return v, ok
}

// Record returns the error of the field as a FieldError, when the formatter kept that shape.
func (e Errors) Record(field string) (FieldError, bool) {
	switch v := e[field].(type) {
	case FieldError:
		return v, true
	case *FieldError:
		if v != nil {
			return *v, true
		}
	}
	return FieldError{}, false
}

// Fields returns failed field paths in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Err returns e as an error, or nil when empty.
func (e Errors) Err() error {
	if e.IsEmpty() {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		if rec, ok := e.Record(f); ok {
			parts = append(parts, rec.Error())
			continue
		}
		parts = append(parts, f+": "+ParamString(e[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
