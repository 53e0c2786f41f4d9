package validator

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Built-in rule names.
const (
	RuleArray      = "array"
	RuleBool       = "bool"
	RuleCallback   = "callback"
	RuleDate       = "date"
	RuleEmail      = "email"
	RuleEmpty      = "empty"
	RuleEqualsTo   = "equals_to"
	RuleFile       = "file"
	RuleIn         = "in"
	RuleIP         = "ip"
	RuleJSON       = "json"
	RuleLength     = "length"
	RuleNotIn      = "notin"
	RuleNumeric    = "numeric"
	RuleObject     = "object"
	RuleRegex      = "regex"
	RuleRequired   = "required"
	RuleRequiredOn = "required_on"
	RuleReqOn      = "req_on"
	RuleText       = "text"
	RuleURL        = "url"
)

func defaultRules() map[string]RuleFunc {
	return map[string]RuleFunc{
		RuleArray:      ArrayRule,
		RuleBool:       BoolRule,
		RuleCallback:   CallbackRule,
		RuleDate:       DateRule,
		RuleEmail:      EmailRule,
		RuleEmpty:      EmptyRule,
		RuleEqualsTo:   EqualsToRule,
		RuleFile:       FileRule,
		RuleIn:         InRule,
		RuleIP:         IPRule,
		RuleJSON:       JSONRule,
		RuleLength:     LengthRule,
		RuleNotIn:      NotInRule,
		RuleNumeric:    NumericRule,
		RuleObject:     ObjectRule,
		RuleRegex:      RegexRule,
		RuleRequired:   RequiredRule,
		RuleRequiredOn: RequiredOnRule,
		RuleReqOn:      RequiredOnRule,
		RuleText:       TextRule,
		RuleURL:        URLRule,
	}
}

// RequiredRule fails when the value is absent or null. Empty strings pass.
func RequiredRule(_ context.Context, in Input) (*Failure, error) {
	if in.Value == nil {
		return Fail(CodeRequired), nil
	}
	return nil, nil
}

type condition struct {
	Operator string `mapstructure:"operator"`
	Expected any    `mapstructure:"expected"`
}

// RequiredOnRule makes a null value fail when any configured condition matches.
// Options map a dotted path inside the object to {operator, expected}.
func RequiredOnRule(_ context.Context, in Input) (*Failure, error) {
	if in.Value != nil {
		return nil, nil
	}

	conds, ok := in.Options.(map[string]any)
	if !ok {
		return nil, invalidOptions(RuleRequiredOn, fmt.Errorf("expected a mapping of field conditions, got %T", in.Options))
	}

	for _, path := range sortedKeys(conds) {
		var c condition
		if err := decodeRuleOptions(RuleRequiredOn, conds[path], &c); err != nil {
			return nil, err
		}
		match, err := c.match(lookupPath(in.Object, path))
		if err != nil {
			return nil, err
		}
		if match {
			return Fail(CodeRequired), nil
		}
	}
	return nil, nil
}

func (c condition) match(actual any) (bool, error) {
	switch c.Operator {
	case "=", "==":
		return looseEqual(actual, c.Expected), nil
	case "!=":
		return !looseEqual(actual, c.Expected), nil
	case ">":
		return compareLoose(actual, c.Expected) > 0, nil
	case "<":
		return compareLoose(actual, c.Expected) < 0, nil
	case ">=":
		return compareLoose(actual, c.Expected) >= 0, nil
	case "<=":
		return compareLoose(actual, c.Expected) <= 0, nil
	case "in":
		return containsLoose(members(c.Expected), actual), nil
	case "!in":
		return !containsLoose(members(c.Expected), actual), nil
	}
	return false, invalidOptions(RuleRequiredOn, fmt.Errorf("unknown operator %q", c.Operator))
}

// EqualsToRule requires the value to strictly equal the value of another field.
// Absent values are compared too: a null value matches only a null or absent reference.
func EqualsToRule(_ context.Context, in Input) (*Failure, error) {
	ref, err := optionString(RuleEqualsTo, in.Options)
	if err != nil {
		return nil, err
	}
	other, ok := in.Object[ref]
	if !ok {
		other = lookupPath(in.Object, ref)
	}
	if !strictEqual(in.Value, other) {
		return Fail(CodeNotEqual), nil
	}
	return nil, nil
}

// ArrayRule accepts sequences and mappings. Option "indexed" requires a sequence,
// "assoc" requires a mapping.
func ArrayRule(_ context.Context, in Input) (*Failure, error) {
	if IsBlank(in.Value) {
		return nil, nil
	}
	kind := KindOf(in.Value)
	if kind != KindSequence && kind != KindMapping {
		return Fail(CodeNotArray), nil
	}
	switch in.Options {
	case "indexed":
		if kind != KindSequence {
			return Fail(CodeNotIndexedArray), nil
		}
	case "assoc":
		if kind != KindMapping {
			return Fail(CodeNotAssocArray), nil
		}
	}
	return nil, nil
}

// ObjectRule requires a mapping.
func ObjectRule(_ context.Context, in Input) (*Failure, error) {
	if IsBlank(in.Value) {
		return nil, nil
	}
	if KindOf(in.Value) != KindMapping {
		return Fail(CodeNotObject), nil
	}
	return nil, nil
}

// BoolRule requires a boolean.
func BoolRule(_ context.Context, in Input) (*Failure, error) {
	if IsBlank(in.Value) {
		return nil, nil
	}
	if KindOf(in.Value) != KindBool {
		return Fail(CodeNotBool), nil
	}
	return nil, nil
}

// EmptyRule with true requires a falsy value, with false a truthy one.
func EmptyRule(_ context.Context, in Input) (*Failure, error) {
	if in.Value == nil {
		return nil, nil
	}
	wantEmpty := IsTruthy(in.Options)
	truthy := IsTruthy(in.Value)
	switch {
	case wantEmpty && truthy:
		return Fail(CodeNotEmpty), nil
	case !wantEmpty && !truthy:
		return Fail(CodeEmpty), nil
	}
	return nil, nil
}

// InRule requires the value to be one of the configured members. Keys of a mapping are ignored.
func InRule(_ context.Context, in Input) (*Failure, error) {
	if IsBlank(in.Value) {
		return nil, nil
	}
	if !containsLoose(members(in.Options), in.Value) {
		return Fail(CodeNotInList), nil
	}
	return nil, nil
}

// NotInRule rejects configured members.
func NotInRule(_ context.Context, in Input) (*Failure, error) {
	if IsBlank(in.Value) {
		return nil, nil
	}
	if containsLoose(members(in.Options), in.Value) {
		return Fail(CodeInList), nil
	}
	return nil, nil
}

type boundOptions struct {
	Min     *float64 `mapstructure:"min"`
	Max     *float64 `mapstructure:"max"`
	Decimal *int     `mapstructure:"decimal"`
}

func decodeBounds(rule string, raw any) (boundOptions, error) {
	var opts boundOptions
	if _, ok := raw.(map[string]any); !ok {
		return opts, nil
	}
	err := decodeRuleOptions(rule, raw, &opts)
	return opts, err
}

// LengthRule bounds the rune count of strings and the element count of sequences and mappings.
func LengthRule(_ context.Context, in Input) (*Failure, error) {
	if in.Value == nil {
		return nil, nil
	}
	opts, err := decodeBounds(RuleLength, in.Options)
	if err != nil {
		return nil, err
	}

	var n int
	switch v := in.Value.(type) {
	case string:
		n = utf8.RuneCountInString(v)
	case []any:
		n = len(v)
	case map[string]any:
		n = len(v)
	default:
		n = utf8.RuneCountInString(stringify(v))
	}

	if opts.Min != nil && float64(n) < *opts.Min {
		return &Failure{Code: CodeTooShort, Params: map[string]any{"count": n, "min": *opts.Min}}, nil
	}
	if opts.Max != nil && float64(n) > *opts.Max {
		return &Failure{Code: CodeTooLong, Params: map[string]any{"count": n, "max": *opts.Max}}, nil
	}
	return nil, nil
}

// NumericRule requires a number or numeric string with optional min, max and decimal limits.
func NumericRule(_ context.Context, in Input) (*Failure, error) {
	if IsBlank(in.Value) {
		return nil, nil
	}
	if !IsNumeric(in.Value) {
		return Fail(CodeNotNumeric), nil
	}
	opts, err := decodeBounds(RuleNumeric, in.Options)
	if err != nil {
		return nil, err
	}

	f, _ := toFloat(in.Value)
	if opts.Min != nil && f < *opts.Min {
		return &Failure{Code: CodeTooLess, Params: map[string]any{"min": *opts.Min}}, nil
	}
	if opts.Max != nil && f > *opts.Max {
		return &Failure{Code: CodeTooGreat, Params: map[string]any{"max": *opts.Max}}, nil
	}
	if opts.Decimal != nil && decimalPlaces(in.Value) > *opts.Decimal {
		return &Failure{Code: CodeDecimalMismatch, Params: map[string]any{"decimal": *opts.Decimal}}, nil
	}
	return nil, nil
}

// decimalPlaces counts fractional digits of a numeric value as written.
func decimalPlaces(v any) int {
	s := strings.TrimSpace(stringify(v))
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		s = s[:i]
	}
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return 0
	}
	return len(strings.TrimRight(s[dot+1:], "0"))
}

// CallbackRule delegates to a predicate registered with Registry.AddCallback.
func CallbackRule(ctx context.Context, in Input) (*Failure, error) {
	if in.Value == nil {
		return nil, nil
	}
	name, err := optionString(RuleCallback, in.Options)
	if err != nil {
		return nil, err
	}
	reg, ok := registryFromContext(ctx)
	if !ok {
		return nil, callbackNotRegistered(name)
	}
	fn, err := reg.ResolveCallback(name)
	if err != nil {
		return nil, err
	}
	return fn(ctx, in)
}

// FileRule checks the value against the upload of the same field, when one exists.
func FileRule(ctx context.Context, in Input) (*Failure, error) {
	uploads, ok := UploadsFromContext(ctx)
	if !ok {
		return nil, nil
	}
	file, ok := uploads.UploadedFile(in.Field)
	if !ok {
		return nil, nil
	}
	if !strictEqual(in.Value, file) {
		return Fail(CodeNotFile), nil
	}
	return nil, nil
}
