package validator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrymomot/sieve/pkg/sanitizer"
)

// Built-in filter names.
const (
	FilterArray     = "array"
	FilterBoolean   = "boolean"
	FilterFloat     = "float"
	FilterInteger   = "integer"
	FilterJSON      = "json"
	FilterLowercase = "lowercase"
	FilterObject    = "object"
	FilterRound     = "round"
	FilterString    = "string"
	FilterUCWords   = "ucwords"
	FilterUppercase = "uppercase"
)

func defaultFilters() map[string]FilterFunc {
	return map[string]FilterFunc{
		FilterArray:     valueFilter(sanitizer.ToArray),
		FilterBoolean:   valueFilter(func(v any) any { return sanitizer.ToBool(v) }),
		FilterFloat:     valueFilter(func(v any) any { return sanitizer.ToFloat(v) }),
		FilterInteger:   valueFilter(func(v any) any { return sanitizer.ToInt(v) }),
		FilterJSON:      JSONFilter,
		FilterLowercase: stringFilter(sanitizer.ToLower),
		FilterObject:    valueFilter(sanitizer.ToObject),
		FilterRound:     RoundFilter,
		FilterString:    valueFilter(func(v any) any { return sanitizer.ToString(v) }),
		FilterUCWords:   stringFilter(sanitizer.UCWords),
		FilterUppercase: stringFilter(sanitizer.ToUpper),
	}
}

// valueFilter lifts a cast into a FilterFunc that passes null through.
func valueFilter(fn func(any) any) FilterFunc {
	return func(_ context.Context, in Input) (any, error) {
		if in.Value == nil {
			return nil, nil
		}
		return fn(in.Value), nil
	}
}

// stringFilter applies fn to the string form of scalars. Sequences, mappings
// and opaque values are returned unchanged.
func stringFilter(fn func(string) string) FilterFunc {
	return func(_ context.Context, in Input) (any, error) {
		switch KindOf(in.Value) {
		case KindNull, KindSequence, KindMapping, KindOpaque:
			return in.Value, nil
		}
		return fn(sanitizer.ToString(in.Value)), nil
	}
}

// RoundFilter rounds to the integer precision given as option, or to the nearest integer.
func RoundFilter(_ context.Context, in Input) (any, error) {
	if in.Value == nil {
		return nil, nil
	}
	f := sanitizer.ToFloat(in.Value)
	if places, ok := optionInt(in.Options); ok && KindOf(in.Options) == KindNumber {
		return sanitizer.RoundToDecimalPlaces(f, places), nil
	}
	return sanitizer.Round(f), nil
}

// JSONFilter encodes the value as a JSON string.
func JSONFilter(_ context.Context, in Input) (any, error) {
	if in.Value == nil {
		return nil, nil
	}
	b, err := json.Marshal(in.Value)
	if err != nil {
		return nil, fmt.Errorf("json filter: %w", err)
	}
	return string(b), nil
}
