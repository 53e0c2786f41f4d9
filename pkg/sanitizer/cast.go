package sanitizer

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// leadingNumberRegex matches the numeric prefix a loose cast reads from a string.
var leadingNumberRegex = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ToBool converts v using loose truthiness: nil, false, zero, "", "0",
// empty sequences and empty mappings are false.
func ToBool(v any) bool {
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
	if f, ok := number(v); ok {
		return f != 0
	}
	return true
}

// ToFloat converts v to float64. Strings contribute their leading numeric part
// ("3.5kg" is 3.5, "abc" is 0).
func ToFloat(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		return leadingFloat(val)
	case []any, map[string]any:
		if ToBool(val) {
			return 1
		}
		return 0
	}
	if f, ok := number(v); ok {
		return f
	}
	return 1
}

// ToInt converts v to int64, truncating fractions. Out-of-range values saturate.
func ToInt(v any) int64 {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		return ToInt(val.String())
	case string:
		prefix := strings.TrimSpace(leadingNumberRegex.FindString(val))
		if prefix == "" {
			return 0
		}
		if i, err := strconv.ParseInt(prefix, 10, 64); err == nil {
			return i
		}
		return truncate(leadingFloat(prefix))
	}
	return truncate(ToFloat(v))
}

func truncate(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// ToString converts scalars to their display form. Booleans become "1" or "",
// sequences and mappings are encoded as JSON.
func ToString(v any) string {
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
	case []any, map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
	return fmt.Sprint(v)
}

// ToArray wraps a scalar in a one-element sequence. Sequences and mappings are returned as is.
func ToArray(v any) any {
	switch v.(type) {
	case nil:
		return nil
	case []any, map[string]any:
		return v
	}
	return []any{v}
}

// ToObject converts v to a mapping. Sequence elements are keyed by index and
// scalars are stored under "scalar".
func ToObject(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return val
	case []any:
		return IndexMap(val)
	}
	return map[string]any{"scalar": v}
}

// IndexMap keys sequence elements by their index.
func IndexMap(s []any) map[string]any {
	out := make(map[string]any, len(s))
	for i, item := range s {
		out[strconv.Itoa(i)] = item
	}
	return out
}

// IndexSlice reverses IndexMap. Keys that are not contiguous indexes are appended
// after the indexed elements in sorted order.
func IndexSlice(m map[string]any) []any {
	out := make([]any, 0, len(m))
	var rest []string
	for i := 0; ; i++ {
		v, ok := m[strconv.Itoa(i)]
		if !ok {
			break
		}
		out = append(out, v)
	}
	for k := range m {
		if i, err := strconv.Atoi(k); err == nil && i >= 0 && i < len(out) && strconv.Itoa(i) == k {
			continue
		}
		rest = append(rest, k)
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, m[k])
	}
	return out
}

func leadingFloat(s string) float64 {
	prefix := strings.TrimSpace(leadingNumberRegex.FindString(s))
	if prefix == "" {
		return 0
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return f
}

func number(v any) (float64, bool) {
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
	}
	return 0, false
}
