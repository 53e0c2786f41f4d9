package validator

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Wildcard is the children key that applies one field spec to every element of a sequence.
const Wildcard = "*"

// Structural field spec keys. Any other key is kept in FieldSpec.Extra.
const (
	keyRules    = "rules"
	keyFilters  = "filters"
	keyChildren = "children"
	keyLabel    = "label"
	keyMessage  = "message"
)

// Option is a named rule or filter together with its options.
type Option struct {
	Name  string
	Value any
}

// Options keeps rules or filters in declaration order.
type Options []Option

// Get returns the options of the named entry.
func (o Options) Get(name string) (any, bool) {
	for _, opt := range o {
		if opt.Name == name {
			return opt.Value, true
		}
	}
	return nil, false
}

// Names returns entry names in declaration order.
func (o Options) Names() []string {
	names := make([]string, len(o))
	for i, opt := range o {
		names[i] = opt.Name
	}
	return names
}

// Opts builds Options from name/value pairs: Opts("required", true, "length", map[string]any{"min": 3}).
// It panics on malformed pairs, which can only come from code, not from input.
func Opts(pairs ...any) Options {
	if len(pairs)%2 != 0 {
		panic("validator.Opts: odd number of arguments")
	}
	out := make(Options, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok || name == "" {
			panic(fmt.Sprintf("validator.Opts: argument %d must be a non-empty string", i))
		}
		out = append(out, Option{Name: name, Value: pairs[i+1]})
	}
	return out
}

// FieldSpec describes validation for a single field.
type FieldSpec struct {
	Rules    Options
	Filters  Options
	Children Schema
	Label    string
	Message  map[string]string
	// Extra holds non-structural keys; they are forwarded to message parameters.
	Extra map[string]any
}

// Field is one named entry of a Schema.
type Field struct {
	Name string
	Spec *FieldSpec
}

// Schema is an ordered mapping of field names to field specs.
type Schema []Field

// NewSchema builds a Schema from fields, keeping their order.
func NewSchema(fields ...Field) Schema {
	return Schema(fields)
}

// NewField pairs a name with a spec.
func NewField(name string, spec *FieldSpec) Field {
	return Field{Name: name, Spec: spec}
}

// Get returns the spec of the named field.
func (s Schema) Get(name string) (*FieldSpec, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Spec, true
		}
	}
	return nil, false
}

// Wildcard returns the element spec when the schema uses the wildcard marker.
func (s Schema) Wildcard() (*FieldSpec, bool) {
	return s.Get(Wildcard)
}

// Names returns field names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// ParseSchema decodes a YAML or JSON schema document, preserving declaration order.
func ParseSchema(data []byte) (Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Join(ErrInvalidSchema, err)
	}
	return s, nil
}

// LoadSchemaFile reads and decodes a schema file.
func LoadSchemaFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	return ParseSchema(data)
}

// UnmarshalJSON decodes JSON through the YAML decoder, which keeps key order.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return errors.Join(ErrInvalidSchema, err)
	}
	if len(node.Content) == 0 {
		*s = nil
		return nil
	}
	return s.UnmarshalYAML(node.Content[0])
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*s = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: schema must be a mapping", ErrInvalidSchema, node.Line)
	}

	out := make(Schema, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		spec := &FieldSpec{}
		if err := spec.UnmarshalYAML(node.Content[i+1]); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		out = append(out, Field{Name: name, Spec: spec})
	}
	*s = out
	return nil
}

// UnmarshalJSON decodes a single field spec from JSON.
func (f *FieldSpec) UnmarshalJSON(data []byte) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return errors.Join(ErrInvalidSchema, err)
	}
	if len(node.Content) == 0 {
		return nil
	}
	return f.UnmarshalYAML(node.Content[0])
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FieldSpec) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: field spec must be a mapping", ErrInvalidSchema, node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]

		var err error
		switch key {
		case keyRules:
			f.Rules, err = decodeOptions(val)
		case keyFilters:
			f.Filters, err = decodeOptions(val)
		case keyChildren:
			err = f.Children.UnmarshalYAML(val)
		case keyLabel:
			err = val.Decode(&f.Label)
		case keyMessage:
			err = val.Decode(&f.Message)
		default:
			var v any
			if err = val.Decode(&v); err == nil {
				if f.Extra == nil {
					f.Extra = make(map[string]any)
				}
				f.Extra[key] = normalize(v)
			}
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// decodeOptions accepts either a mapping (name: options) or a sequence of names
// and single-entry mappings.
func decodeOptions(node *yaml.Node) (Options, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.MappingNode:
		out := make(Options, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var v any
			if err := node.Content[i+1].Decode(&v); err != nil {
				return nil, err
			}
			out = append(out, Option{Name: node.Content[i].Value, Value: normalize(v)})
		}
		return out, nil

	case yaml.SequenceNode:
		var out Options
		for _, item := range node.Content {
			item = resolveAlias(item)
			switch item.Kind {
			case yaml.ScalarNode:
				out = append(out, Option{Name: item.Value, Value: true})
			case yaml.MappingNode:
				opts, err := decodeOptions(item)
				if err != nil {
					return nil, err
				}
				out = append(out, opts...)
			default:
				return nil, fmt.Errorf("%w: line %d: unexpected list entry", ErrInvalidSchema, item.Line)
			}
		}
		return out, nil

	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("%w: line %d: expected a mapping or a list", ErrInvalidSchema, node.Line)
}

// normalize converts map[any]any produced by the YAML decoder into map[string]any.
func normalize(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	}
	return v
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// paramValues returns the non-structural keys of the spec as message parameters.
func (f *FieldSpec) paramValues() map[string]any {
	out := make(map[string]any, len(f.Extra)+2)
	for k, v := range f.Extra {
		out[k] = v
	}
	if f.Label != "" {
		out[keyLabel] = f.Label
	}
	if len(f.Message) > 0 {
		out[keyMessage] = f.Message
	}
	return out
}
