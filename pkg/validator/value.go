package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Kind classifies an untyped input value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
	// KindOpaque covers values the engine does not look into, e.g. uploaded file descriptors.
	KindOpaque
)

var kindNames = map[Kind]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindNumber:   "number",
	KindString:   "string",
	KindSequence: "sequence",
	KindMapping:  "mapping",
	KindOpaque:   "opaque",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// KindOf returns the kind of v. Sequences are []any and Mappings are map[string]any,
// the shapes produced by encoding/json and yaml.v3 decoding.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindSequence
	case map[string]any:
		return KindMapping
	}
	return KindOpaque
}

// IsBlank reports whether v is nil or the empty string. Format rules ignore blank values.
func IsBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// IsTruthy mirrors loose truthiness: nil, false, zero numbers, "", "0",
// empty sequences and empty mappings are falsy. Opaque values are truthy.
func IsTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != "" && val != "0"
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	}
	if f, ok := toFloat(v); ok && KindOf(v) == KindNumber {
		return f != 0
	}
	return true
}

// toFloat converts numbers and numeric strings to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		return parseNumeric(n)
	}
	return 0, false
}

// parseNumeric accepts decimal and exponent notation with optional surrounding whitespace.
// NaN, Inf and hex literals are rejected.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// IsNumeric reports whether v is a number or a numeric string.
func IsNumeric(v any) bool {
	switch KindOf(v) {
	case KindNumber, KindString:
		_, ok := toFloat(v)
		return ok
	}
	return false
}

// stringify renders scalars the way they would be interpolated into a message.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "1"
		}
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case json.Number:
		return val.String()
	}
	return fmt.Sprint(v)
}

// looseEqual compares two values the way loose (==) comparison does:
// numbers and numeric strings compare numerically, everything else by string form.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		other := a
		if a == nil {
			other = b
		}
		if s, ok := other.(string); ok {
			return s == ""
		}
		return !IsTruthy(other)
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	ka, kb := KindOf(a), KindOf(b)
	if ka == KindBool || kb == KindBool {
		return IsTruthy(a) == IsTruthy(b)
	}
	if ka == KindSequence || ka == KindMapping || kb == KindSequence || kb == KindMapping {
		return reflect.DeepEqual(a, b)
	}
	return stringify(a) == stringify(b)
}

// compareLoose orders a and b: numerically when both are numeric, else lexically.
func compareLoose(a, b any) int {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	if a == nil {
		fa, okA = 0, okB
	}
	if b == nil {
		fb, okB = 0, okA
	}
	if okA && okB {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(stringify(a), stringify(b))
}

// strictEqual requires identical kinds and values.
func strictEqual(a, b any) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}
	if KindOf(a) == KindNumber {
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

// members returns the values of a Sequence or Mapping option. Keys are ignored.
func members(v any) []any {
	switch val := v.(type) {
	case []any:
		return val
	case map[string]any:
		keys := sortedKeys(val)
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			out = append(out, val[k])
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case nil:
		return nil
	}
	return []any{v}
}

func containsLoose(list []any, v any) bool {
	for _, item := range list {
		if looseEqual(item, v) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// lookupPath walks a dotted path through mappings and sequences.
// Any missing step, or a scalar reached before the last segment, yields nil.
func lookupPath(obj map[string]any, path string) any {
	var current any = obj
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			current = node[part]
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			current = node[idx]
		default:
			return nil
		}
		if current == nil {
			return nil
		}
	}
	return current
}
