package validator

import (
	"errors"
	"fmt"
)

// Configuration errors. They signal a schema or registry bug, never bad input,
// and abort the validation call.
var (
	// ErrRuleNotRegistered is returned when a schema references an unknown rule.
	ErrRuleNotRegistered = errors.New("validation rule not registered")

	// ErrFilterNotRegistered is returned when a schema references an unknown filter.
	ErrFilterNotRegistered = errors.New("validation filter not registered")

	// ErrCallbackNotRegistered is returned when the callback rule names an unknown predicate.
	ErrCallbackNotRegistered = errors.New("validation callback not registered")

	// ErrFormatterNotRegistered is returned when the catalog names an unknown error formatter.
	ErrFormatterNotRegistered = errors.New("error formatter not registered")

	// ErrDuplicateName is returned when a rule, filter or callback name is registered twice.
	ErrDuplicateName = errors.New("name already registered")

	// ErrInvalidOptions is returned when a rule or filter receives options it cannot use.
	ErrInvalidOptions = errors.New("invalid rule options")

	// ErrInvalidSchema is returned when a schema document cannot be decoded.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrMaxDepthExceeded is returned when nested children recurse deeper than allowed.
	ErrMaxDepthExceeded = errors.New("maximum validation depth exceeded")
)

// NotRegisteredError identifies the offending name of a lookup failure.
// It matches the corresponding sentinel with errors.Is.
type NotRegisteredError struct {
	Kind string
	Name string
	err  error
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("validation %s `%s` not registered", e.Kind, e.Name)
}

func (e *NotRegisteredError) Unwrap() error {
	return e.err
}

func ruleNotRegistered(name string) error {
	return &NotRegisteredError{Kind: "rule", Name: name, err: ErrRuleNotRegistered}
}

func filterNotRegistered(name string) error {
	return &NotRegisteredError{Kind: "filter", Name: name, err: ErrFilterNotRegistered}
}

func callbackNotRegistered(name string) error {
	return &NotRegisteredError{Kind: "callback", Name: name, err: ErrCallbackNotRegistered}
}

func formatterNotRegistered(name string) error {
	return &NotRegisteredError{Kind: "formatter", Name: name, err: ErrFormatterNotRegistered}
}

func invalidOptions(rule string, err error) error {
	return errors.Join(ErrInvalidOptions, fmt.Errorf("rule %q: %w", rule, err))
}

// IsConfigError reports whether err belongs to the configuration error class.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrRuleNotRegistered) ||
		errors.Is(err, ErrFilterNotRegistered) ||
		errors.Is(err, ErrCallbackNotRegistered) ||
		errors.Is(err, ErrFormatterNotRegistered) ||
		errors.Is(err, ErrInvalidOptions) ||
		errors.Is(err, ErrMaxDepthExceeded)
}
