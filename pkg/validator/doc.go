// Package validator is a declarative validation and transformation engine for
// untyped input objects.
//
// A Schema lists fields in order. Each field carries named rules, named
// filters and optional children:
//
//	user:
//	  rules:
//	    required: true
//	    object: true
//	  children:
//	    name:
//	      rules: {required: true, text: true, length: {min: 3}}
//	      filters: {ucwords: true}
//	    tags:
//	      rules: {array: indexed}
//	      children:
//	        "*":
//	          rules: {text: slug}
//
// Validate walks the input against the schema. For every field the rules run
// in declared order and the first failure is recorded; filters run only when
// all rules pass; children are visited only when the filtered value is truthy.
// The "*" child applies one spec to every element of a sequence. Fields absent
// from the input stay absent from the output and fields outside the schema are
// dropped.
//
//	v := validator.New()
//	out, errs, err := v.Validate(ctx, schema, input)
//	switch {
//	case err != nil:
//	    // configuration problem: unknown rule, filter or callback, bad options
//	case !errs.IsEmpty():
//	    // errs["user.tags.1"] is a FieldError{Field, Code, Text}
//	}
//
// # Errors
//
// Two classes are kept apart. Configuration errors (ErrRuleNotRegistered,
// ErrFilterNotRegistered, ErrCallbackNotRegistered, ErrInvalidOptions,
// ErrMaxDepthExceeded) are returned as Go errors and abort the call. Bad input
// is reported through the Errors map, keyed by dotted path, with stable codes
// such as "11.0" (required) or "6.0" (too short).
//
// # Extending
//
// Rules, filters, callbacks and formatters live in a Registry built from a
// Catalog. DefaultCatalog holds the built-in set; custom functions share the
// RuleFunc and FilterFunc signatures. Message texts go through a Translator;
// the default Interpolator fills %{param} placeholders.
package validator
