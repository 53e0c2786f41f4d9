// Package sanitizer provides the value transformations behind the validator's
// filter catalog: loose type casts over untyped decoded values, Unicode-aware
// case conversion, rounding and filename cleanup.
//
// The casts follow scripting-language conventions, which is what form input
// usually expects:
//
//	sanitizer.ToInt("12abc")  // 12
//	sanitizer.ToBool("0")     // false
//	sanitizer.ToFloat(" 1.5") // 1.5
//	sanitizer.UCWords("hello big world") // "Hello Big World"
//
// Sequences are []any and mappings are map[string]any, the shapes produced by
// encoding/json and gopkg.in/yaml.v3.
//
// # Error handling
//
// None of the helpers returns an error. They always fall back to a zero value
// or to the original input.
//
// # Concurrency
//
// The package is stateless; every helper is safe for concurrent use.
package sanitizer
