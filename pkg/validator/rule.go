package validator

import "context"

// Input is the uniform context every rule and filter receives.
type Input struct {
	// Value is the current field value, nil when the field is absent.
	Value any
	// Options are the options configured for this rule or filter.
	Options any
	// Object is the enclosing object the field belongs to.
	Object map[string]any
	// Field is the field name inside Object.
	Field string
	// Siblings are all rules (or filters) declared for the field.
	Siblings Options
}

// Failure describes a failed rule.
type Failure struct {
	Code string
	// Params are merged into the message parameters.
	Params map[string]any
	// Key is a translation key used when the catalog has no text for Code.
	Key string
}

// Fail is a shorthand for a Failure carrying only a code.
func Fail(code string) *Failure {
	return &Failure{Code: code}
}

// RuleFunc checks a value. It returns nil when the value passes.
// A non-nil error is a configuration error and aborts validation.
type RuleFunc func(ctx context.Context, in Input) (*Failure, error)

// FilterFunc transforms a value that passed all rules.
type FilterFunc func(ctx context.Context, in Input) (any, error)
