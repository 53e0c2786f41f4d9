package form

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrymomot/sieve/pkg/validator"
)

// Registry holds named form schemas loaded from one or more sources.
// Later sources override forms of the same name from earlier ones.
type Registry struct {
	mu      sync.RWMutex
	sources []Source
	forms   map[string]validator.Schema
}

// NewRegistry loads every source.
func NewRegistry(ctx context.Context, sources ...Source) (*Registry, error) {
	for _, s := range sources {
		if s == nil {
			return nil, ErrNilSource
		}
	}
	r := &Registry{sources: sources}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads all sources and swaps the forms in one step.
// On error the registry keeps serving the previous forms.
func (r *Registry) Reload(ctx context.Context) error {
	forms := make(map[string]validator.Schema)
	for _, s := range r.sources {
		loaded, err := s.Load(ctx)
		if err != nil {
			return err
		}
		for name, schema := range loaded {
			if name == "" {
				return ErrEmptyFormName
			}
			forms[name] = withFieldNames(schema)
		}
	}

	r.mu.Lock()
	r.forms = forms
	r.mu.Unlock()
	return nil
}

// Get returns the schema of a form.
func (r *Registry) Get(name string) (validator.Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schema, ok := r.forms[name]
	if !ok {
		return nil, fmt.Errorf("%w: `%s`", ErrFormNotRegistered, name)
	}
	return schema, nil
}

// Names returns the registered form names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.forms))
}

// withFieldNames copies the schema, exposing each top-level field name to
// message templates as %{name}.
func withFieldNames(schema validator.Schema) validator.Schema {
	out := make(validator.Schema, len(schema))
	for i, f := range schema {
		spec := &validator.FieldSpec{}
		if f.Spec != nil {
			*spec = *f.Spec
		}
		spec.Extra = maps.Clone(spec.Extra)
		if spec.Extra == nil {
			spec.Extra = make(map[string]any, 1)
		}
		spec.Extra["name"] = f.Name
		out[i] = validator.Field{Name: f.Name, Spec: spec}
	}
	return out
}
