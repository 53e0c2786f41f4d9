package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	playground "github.com/go-playground/validator/v10"
)

var formats = sync.OnceValue(func() *playground.Validate {
	return playground.New()
})

// matchesTag runs a single go-playground tag against a string.
func matchesTag(s, tag string) bool {
	return formats().Var(s, tag) == nil
}

// EmailRule requires a valid e-mail address.
func EmailRule(_ context.Context, in Input) (*Failure, error) {
	if IsBlank(in.Value) {
		return nil, nil
	}
	s, ok := in.Value.(string)
	if !ok || !matchesTag(s, "email") {
		return Fail(CodeNotEmail), nil
	}
	return nil, nil
}

// IPRule requires an IP literal. Options: true for any version, 4 or 6 to restrict it.
func IPRule(_ context.Context, in Input) (*Failure, error) {
	if IsBlank(in.Value) {
		return nil, nil
	}

	tag, code := "ip", CodeNotIP
	switch strings.ToLower(stringify(in.Options)) {
	case "", "1", "true":
	case "4", "v4", "ipv4":
		tag, code = "ipv4", CodeNotIPv4
	case "6", "v6", "ipv6":
		tag, code = "ipv6", CodeNotIPv6
	default:
		return nil, invalidOptions(RuleIP, fmt.Errorf("unknown ip version %v", in.Options))
	}

	s, ok := in.Value.(string)
	if !ok || !matchesTag(s, tag) {
		return Fail(code), nil
	}
	return nil, nil
}

// JSONRule requires a string holding a valid JSON document.
func JSONRule(_ context.Context, in Input) (*Failure, error) {
	if IsBlank(in.Value) {
		return nil, nil
	}
	switch v := in.Value.(type) {
	case string:
		if json.Valid([]byte(v)) {
			return nil, nil
		}
	default:
		if KindOf(v) == KindNumber {
			return nil, nil
		}
	}
	return Fail(CodeInvalidJSON), nil
}

type urlOptions struct {
	Path  any `mapstructure:"path"`
	Query any `mapstructure:"query"`
}

// URLRule requires an absolute URL. Options may require a path and query keys.
func URLRule(_ context.Context, in Input) (*Failure, error) {
	if IsBlank(in.Value) {
		return nil, nil
	}
	s, ok := in.Value.(string)
	if !ok || !matchesTag(s, "url") {
		return Fail(CodeNotURL), nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Host == "" && u.Opaque == "" && u.Scheme != "file") {
		return Fail(CodeNotURL), nil
	}

	if _, ok := in.Options.(map[string]any); !ok {
		return nil, nil
	}
	var opts urlOptions
	if err := decodeRuleOptions(RuleURL, in.Options, &opts); err != nil {
		return nil, err
	}

	if IsTruthy(opts.Path) && u.Path == "" {
		return Fail(CodeURLNoPath), nil
	}

	if opts.Query == nil {
		return nil, nil
	}
	if u.RawQuery == "" {
		return Fail(CodeURLNoQuery), nil
	}
	var keys []any
	switch q := opts.Query.(type) {
	case string:
		keys = []any{q}
	case []any, map[string]any:
		keys = members(q)
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return Fail(CodeURLNoQuery), nil
	}
	for _, k := range keys {
		if _, ok := values[stringify(k)]; !ok {
			return &Failure{Code: CodeURLMissingQuery, Params: map[string]any{"query": stringify(k)}}, nil
		}
	}
	return nil, nil
}

var textModes = map[string]struct {
	pattern *regexp.Regexp
	code    string
}{
	"slug":      {regexp.MustCompile(`^[a-z0-9_-]+$`), CodeNotSlug},
	"alnumdash": {regexp.MustCompile(`^[a-zA-Z0-9-]+$`), CodeNotAlnumDash},
	"alpha":     {regexp.MustCompile(`^[a-zA-Z]+$`), CodeNotAlpha},
	"alnum":     {regexp.MustCompile(`^[a-zA-Z0-9]+$`), CodeNotAlnum},
}

// TextRule requires a string. A mode name (slug, alnumdash, alpha, alnum) or a
// delimited pattern such as "/^[a-z]+$/i" restricts its characters.
func TextRule(_ context.Context, in Input) (*Failure, error) {
	if IsBlank(in.Value) {
		return nil, nil
	}
	s, ok := in.Value.(string)
	if !ok {
		return Fail(CodeNotText), nil
	}

	mode, ok := in.Options.(string)
	if !ok || mode == "" {
		return nil, nil
	}
	if m, ok := textModes[mode]; ok {
		if !m.pattern.MatchString(s) {
			return Fail(m.code), nil
		}
		return nil, nil
	}
	if !isDelimited(mode) {
		return nil, nil
	}
	re, err := compilePattern(mode)
	if err != nil {
		return nil, invalidOptions(RuleText, err)
	}
	if !re.MatchString(s) {
		return Fail(CodeNotMatchPattern), nil
	}
	return nil, nil
}

// RegexRule requires the value to match a pattern.
func RegexRule(_ context.Context, in Input) (*Failure, error) {
	if IsBlank(in.Value) {
		return nil, nil
	}
	pattern, err := optionString(RuleRegex, in.Options)
	if err != nil {
		return nil, err
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, invalidOptions(RuleRegex, err)
	}
	switch KindOf(in.Value) {
	case KindString, KindNumber:
		if re.MatchString(stringify(in.Value)) {
			return nil, nil
		}
	}
	return Fail(CodeNotMatch), nil
}
