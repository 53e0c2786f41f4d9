package validator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/dmitrymomot/sieve/pkg/logger"
	"github.com/dmitrymomot/sieve/pkg/sanitizer"
)

// DefaultMaxDepth caps how deep children may nest.
const DefaultMaxDepth = 32

// Config holds env-driven validator settings.
type Config struct {
	Formatter string `env:"SIEVE_FORMATTER" envDefault:"default"`
	MaxDepth  int    `env:"SIEVE_MAX_DEPTH" envDefault:"32"`
}

// Validator walks input objects against schemas.
// It is safe for concurrent use once configured.
type Validator struct {
	registry   *Registry
	translator Translator
	formatter  Formatter
	logger     *slog.Logger
	maxDepth   int
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithRegistry sets the rule and filter registry. Defaults to DefaultCatalog.
func WithRegistry(r *Registry) ValidatorOption {
	return func(v *Validator) {
		if r != nil {
			v.registry = r
		}
	}
}

// WithTranslator sets the message translator. Defaults to Interpolator.
func WithTranslator(t Translator) ValidatorOption {
	return func(v *Validator) {
		if t != nil {
			v.translator = t
		}
	}
}

// WithFormatter overrides the formatter selected by the registry.
func WithFormatter(f Formatter) ValidatorOption {
	return func(v *Validator) {
		v.formatter = f
	}
}

// WithLogger sets the logger. A discard logger is used by default.
func WithLogger(l *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithMaxDepth limits children nesting. Non-positive values keep the default.
func WithMaxDepth(depth int) ValidatorOption {
	return func(v *Validator) {
		if depth > 0 {
			v.maxDepth = depth
		}
	}
}

// New creates a Validator.
func New(opts ...ValidatorOption) *Validator {
	v := &Validator{
		translator: Interpolator{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth:   DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.registry == nil {
		v.registry = MustRegistry(DefaultCatalog())
	}
	return v
}

// NewFromConfig creates a Validator backed by the default catalog and the configured formatter.
func NewFromConfig(cfg Config, opts ...ValidatorOption) (*Validator, error) {
	catalog := DefaultCatalog()
	catalog.Formatter = cfg.Formatter
	reg, err := NewRegistry(catalog)
	if err != nil {
		return nil, err
	}
	return New(append([]ValidatorOption{WithRegistry(reg), WithMaxDepth(cfg.MaxDepth)}, opts...)...), nil
}

// Registry returns the registry the validator resolves names against.
func (v *Validator) Registry() *Registry {
	return v.registry
}

// Validate checks input against schema. It returns the sanitized object and the
// formatted error map; an empty map means the input is valid.
// The returned error is reserved for configuration problems such as unknown
// rule or filter names and aborts the call.
func (v *Validator) Validate(ctx context.Context, schema Schema, input map[string]any) (map[string]any, Errors, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if input == nil {
		input = map[string]any{}
	}
	ctx = withRegistry(ctx, v.registry)

	sanitized, records, err := v.walk(ctx, schema, input, "", 0)
	if err != nil {
		v.logger.ErrorContext(ctx, "validation aborted",
			logger.Component("validator"),
			logger.Error(err),
		)
		return nil, nil, err
	}

	errs := v.format(records, sanitized)
	v.logger.DebugContext(ctx, "validation completed",
		logger.Component("validator"),
		slog.Int("fields", len(schema)),
		slog.Int("errors", len(errs)),
	)
	return sanitized, errs, nil
}

func (v *Validator) format(records map[string]FieldError, sanitized map[string]any) Errors {
	if len(records) == 0 {
		return nil
	}
	f := v.formatter
	if f == nil {
		f = v.registry.Formatter()
	}
	errs := make(Errors, len(records))
	for field, rec := range records {
		errs[field] = f.Format(rec, field, records, sanitized)
	}
	return errs
}

// walk validates one object level. Error keys are relative to obj; record paths are absolute.
func (v *Validator) walk(ctx context.Context, schema Schema, obj map[string]any, parent string, depth int) (map[string]any, map[string]FieldError, error) {
	if depth > v.maxDepth {
		return nil, nil, fmt.Errorf("%w: limit %d reached at %q", ErrMaxDepthExceeded, v.maxDepth, parent)
	}

	out := make(map[string]any, len(schema))
	errs := make(map[string]FieldError)

	for _, field := range schema {
		name, spec := field.Name, field.Spec
		if spec == nil {
			spec = &FieldSpec{}
		}
		value, present := obj[name]
		path := joinPath(parent, name)

		failure, rule, err := v.checkRules(ctx, spec, obj, name, value)
		if err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", path, err)
		}
		if failure != nil {
			errs[name] = v.buildError(ctx, failedRule{
				name:    name,
				parent:  parent,
				spec:    spec,
				rule:    rule.Name,
				options: rule.Value,
				value:   value,
				failure: failure,
			})
		} else {
			value, err = v.applyFilters(ctx, spec, obj, name, value)
			if err != nil {
				return nil, nil, fmt.Errorf("field %q: %w", path, err)
			}
			if len(spec.Children) > 0 && IsTruthy(value) {
				value, err = v.walkChildren(ctx, spec.Children, name, path, value, depth, errs)
				if err != nil {
					return nil, nil, err
				}
			}
		}

		if present {
			out[name] = value
		}
	}
	return out, errs, nil
}

// checkRules runs rules in order and stops at the first failure.
func (v *Validator) checkRules(ctx context.Context, spec *FieldSpec, obj map[string]any, name string, value any) (*Failure, Option, error) {
	for _, rule := range spec.Rules {
		fn, err := v.registry.ResolveRule(rule.Name)
		if err != nil {
			return nil, rule, err
		}
		failure, err := fn(ctx, Input{
			Value:    value,
			Options:  rule.Value,
			Object:   obj,
			Field:    name,
			Siblings: spec.Rules,
		})
		if err != nil {
			return nil, rule, err
		}
		if failure != nil {
			return failure, rule, nil
		}
	}
	return nil, Option{}, nil
}

func (v *Validator) applyFilters(ctx context.Context, spec *FieldSpec, obj map[string]any, name string, value any) (any, error) {
	for _, filter := range spec.Filters {
		fn, err := v.registry.ResolveFilter(filter.Name)
		if err != nil {
			return nil, err
		}
		value, err = fn(ctx, Input{
			Value:    value,
			Options:  filter.Value,
			Object:   obj,
			Field:    name,
			Siblings: spec.Filters,
		})
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

// walkChildren validates nested values and merges their errors into errs under name.
func (v *Validator) walkChildren(ctx context.Context, children Schema, name, path string, value any, depth int, errs map[string]FieldError) (any, error) {
	merge := func(child map[string]FieldError) {
		for key, rec := range child {
			errs[name+"."+key] = rec
		}
	}

	if element, ok := children.Wildcard(); ok {
		each := func(key string, item any) (any, error) {
			res, child, err := v.walk(ctx, Schema{{Name: key, Spec: element}}, map[string]any{key: item}, path, depth+1)
			if err != nil {
				return nil, err
			}
			merge(child)
			return res[key], nil
		}

		switch val := value.(type) {
		case []any:
			next := make([]any, len(val))
			for i, item := range val {
				res, err := each(strconv.Itoa(i), item)
				if err != nil {
					return nil, err
				}
				next[i] = res
			}
			return next, nil
		case map[string]any:
			next := make(map[string]any, len(val))
			for _, key := range sortedKeys(val) {
				res, err := each(key, val[key])
				if err != nil {
					return nil, err
				}
				next[key] = res
			}
			return next, nil
		}
		return value, nil
	}

	switch val := value.(type) {
	case map[string]any:
		res, child, err := v.walk(ctx, children, val, path, depth+1)
		if err != nil {
			return nil, err
		}
		merge(child)
		return res, nil
	case []any:
		res, child, err := v.walk(ctx, children, sanitizer.IndexMap(val), path, depth+1)
		if err != nil {
			return nil, err
		}
		merge(child)
		return sanitizer.IndexSlice(res), nil
	default:
		// A scalar has no named members: children see an empty object and
		// their result replaces the value.
		res, child, err := v.walk(ctx, children, map[string]any{}, path, depth+1)
		if err != nil {
			return nil, err
		}
		merge(child)
		return res, nil
	}
}

type registryContextKey struct{}

func withRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryContextKey{}, r)
}

func registryFromContext(ctx context.Context) (*Registry, bool) {
	if ctx == nil {
		return nil, false
	}
	r, ok := ctx.Value(registryContextKey{}).(*Registry)
	return r, ok && r != nil
}
