package validator

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Catalog is the bootstrap payload of a Registry.
type Catalog struct {
	Rules   map[string]RuleFunc
	Filters map[string]FilterFunc
	// Callbacks are named predicates reachable through the callback rule.
	Callbacks map[string]RuleFunc
	// Messages maps error codes to their default text.
	Messages map[string]string
	// Formatter selects the active formatter by id. Empty means FormatterDefault.
	Formatter string
	// Formatters extends the built-in formatters.
	Formatters map[string]Formatter
}

// DefaultCatalog returns every built-in rule, filter and message.
func DefaultCatalog() Catalog {
	return Catalog{
		Rules:     defaultRules(),
		Filters:   defaultFilters(),
		Callbacks: map[string]RuleFunc{},
		Messages:  DefaultMessages(),
		Formatter: FormatterDefault,
	}
}

// Registry resolves rule, filter and callback names to implementations.
// It is safe for concurrent readers. Mutation is meant for startup:
// one writer, many readers.
type Registry struct {
	mu         sync.RWMutex
	rules      map[string]RuleFunc
	filters    map[string]FilterFunc
	callbacks  map[string]RuleFunc
	messages   map[string]string
	formatters map[string]Formatter
	formatter  string
}

// NewRegistry builds a registry from the catalog.
func NewRegistry(c Catalog) (*Registry, error) {
	r := &Registry{}
	if err := r.Register(c); err != nil {
		return nil, err
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(c Catalog) *Registry {
	r, err := NewRegistry(c)
	if err != nil {
		panic(err)
	}
	return r
}

// Register replaces the registry state with the catalog. Calling it twice with
// the same catalog leaves the registry unchanged.
func (r *Registry) Register(c Catalog) error {
	formatters := defaultFormatters()
	maps.Copy(formatters, c.Formatters)

	id := c.Formatter
	if id == "" {
		id = FormatterDefault
	}
	if _, ok := formatters[id]; !ok {
		return formatterNotRegistered(id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = maps.Clone(c.Rules)
	r.filters = maps.Clone(c.Filters)
	r.callbacks = maps.Clone(c.Callbacks)
	r.messages = maps.Clone(c.Messages)
	r.formatters = formatters
	r.formatter = id

	if r.rules == nil {
		r.rules = map[string]RuleFunc{}
	}
	if r.filters == nil {
		r.filters = map[string]FilterFunc{}
	}
	if r.callbacks == nil {
		r.callbacks = map[string]RuleFunc{}
	}
	if r.messages == nil {
		r.messages = map[string]string{}
	}
	return nil
}

// ResolveRule returns the rule registered under name.
func (r *Registry) ResolveRule(name string) (RuleFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.rules[name]
	if !ok || fn == nil {
		return nil, ruleNotRegistered(name)
	}
	return fn, nil
}

// ResolveFilter returns the filter registered under name.
func (r *Registry) ResolveFilter(name string) (FilterFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.filters[name]
	if !ok || fn == nil {
		return nil, filterNotRegistered(name)
	}
	return fn, nil
}

// ResolveCallback returns the callback registered under name.
func (r *Registry) ResolveCallback(name string) (RuleFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.callbacks[name]
	if !ok || fn == nil {
		return nil, callbackNotRegistered(name)
	}
	return fn, nil
}

// Message returns the default text of an error code.
func (r *Registry) Message(code string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msg, ok := r.messages[code]
	return msg, ok
}

// Formatter returns the active error formatter.
func (r *Registry) Formatter() Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formatters[r.formatter]
}

// FormatterID returns the id of the active error formatter.
func (r *Registry) FormatterID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formatter
}

// SetFormatter switches the active formatter.
func (r *Registry) SetFormatter(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.formatters[id]; !ok {
		return formatterNotRegistered(id)
	}
	r.formatter = id
	return nil
}

// AddRule registers a new rule. Existing names are rejected.
func (r *Registry) AddRule(name string, fn RuleFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return addUnique(r.rules, "rule", name, fn)
}

// AddFilter registers a new filter. Existing names are rejected.
func (r *Registry) AddFilter(name string, fn FilterFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return addUnique(r.filters, "filter", name, fn)
}

// AddCallback registers a predicate for the callback rule.
func (r *Registry) AddCallback(name string, fn RuleFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return addUnique(r.callbacks, "callback", name, fn)
}

// AddFormatter registers an additional formatter without activating it.
func (r *Registry) AddFormatter(id string, f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return addUnique(r.formatters, "formatter", id, f)
}

// Rules returns registered rule names, sorted.
func (r *Registry) Rules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.rules))
}

// Filters returns registered filter names, sorted.
func (r *Registry) Filters() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.filters))
}

func addUnique[T any](m map[string]T, kind, name string, v T) error {
	if name == "" {
		return fmt.Errorf("%s name must not be empty", kind)
	}
	if _, ok := m[name]; ok {
		return fmt.Errorf("%w: %s %q", ErrDuplicateName, kind, name)
	}
	m[name] = v
	return nil
}
