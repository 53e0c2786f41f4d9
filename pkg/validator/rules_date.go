package validator

import (
	"context"
	"fmt"
	"time"
)

type dateOptions struct {
	Format   string `mapstructure:"format"`
	Min      string `mapstructure:"min"`
	Max      string `mapstructure:"max"`
	MinField string `mapstructure:"min-field"`
	MaxField string `mapstructure:"max-field"`
	Strict   bool   `mapstructure:"strict"`
}

// DateRule parses the value with the configured format and checks optional bounds.
// Bounds come from min/max expressions, evaluated relative to min-field/max-field
// values when given. Both sides are rendered through the format before comparing,
// so "Y-m-d" compares whole days.
func DateRule(_ context.Context, in Input) (*Failure, error) {
	if IsBlank(in.Value) {
		return nil, nil
	}

	var opts dateOptions
	if err := decodeRuleOptions(RuleDate, in.Options, &opts); err != nil {
		return nil, err
	}
	layout, err := DateLayout(opts.Format)
	if err != nil {
		return nil, invalidOptions(RuleDate, err)
	}
	input, err := parseLayout(opts.Format)
	if err != nil {
		return nil, invalidOptions(RuleDate, err)
	}

	var raw string
	switch KindOf(in.Value) {
	case KindString, KindNumber:
		raw = stringify(in.Value)
	default:
		return Fail(CodeNotDate), nil
	}

	parsed, err := time.ParseInLocation(input, raw, time.Local)
	if err != nil {
		return Fail(CodeNotDate), nil
	}
	rendered := parsed.Format(layout)
	if opts.Strict && rendered != raw {
		return Fail(CodeDateWrongFormat), nil
	}
	value, err := time.ParseInLocation(layout, rendered, time.Local)
	if err != nil {
		return Fail(CodeNotDate), nil
	}

	now := time.Now()

	minT, ok, err := dateBound(in.Object, opts.MinField, opts.Min, input, now)
	if err != nil {
		return nil, err
	}
	if ok && truncateTo(layout, minT).After(value) {
		return &Failure{Code: CodeDateTooEarly, Params: map[string]any{"min": minT.Format(layout)}}, nil
	}

	maxT, ok, err := dateBound(in.Object, opts.MaxField, opts.Max, input, now)
	if err != nil {
		return nil, err
	}
	if ok && truncateTo(layout, maxT).Before(value) {
		return &Failure{Code: CodeDateTooFar, Params: map[string]any{"max": maxT.Format(layout)}}, nil
	}
	return nil, nil
}

// dateBound resolves a bound. A referenced field supplies the base time, now when
// the field is absent; an unreadable value drops the bound. The expression is then
// evaluated against the base.
func dateBound(obj map[string]any, field, expr, layout string, now time.Time) (time.Time, bool, error) {
	base, hasBase := now, false
	if field != "" {
		hasBase = true
		v, ok := obj[field]
		if !ok {
			v = lookupPath(obj, field)
		}
		if ref, ok := v.(string); ok && ref != "" {
			if t, err := time.ParseInLocation(layout, ref, time.Local); err == nil {
				base = t
			} else if t, ok := ParseTime(ref, now); ok {
				base = t
			} else {
				hasBase = false
			}
		}
	}
	if expr == "" {
		return base, hasBase, nil
	}
	t, ok := ParseTime(expr, base)
	if !ok {
		return time.Time{}, false, invalidOptions(RuleDate, fmt.Errorf("cannot resolve date %q", expr))
	}
	return t, true, nil
}

// truncateTo drops whatever precision the layout cannot express.
func truncateTo(layout string, t time.Time) time.Time {
	out, err := time.ParseInLocation(layout, t.In(time.Local).Format(layout), time.Local)
	if err != nil {
		return t
	}
	return out
}
