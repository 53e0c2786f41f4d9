package validator

import (
	"context"
	"maps"
)

// Placeholders used instead of interpolating structured values into messages.
const (
	objectValueMarker = "::object"
	arrayValueMarker  = "::array"
)

type failedRule struct {
	name    string
	parent  string
	spec    *FieldSpec
	rule    string
	options any
	value   any
	failure *Failure
}

// buildError assembles message parameters for a failed rule and resolves its text.
func (v *Validator) buildError(ctx context.Context, f failedRule) FieldError {
	params := make(map[string]any, len(f.failure.Params)+8)
	maps.Copy(params, f.failure.Params)

	params["field"] = f.name
	params["label"] = f.name
	params[f.rule] = f.options
	params["value"] = messageValue(f.value)
	maps.Copy(params, f.spec.paramValues())

	key := f.spec.Message[f.rule]
	if key == "" {
		key = f.failure.Key
	}
	if key == "" {
		key, _ = v.registry.Message(f.failure.Code)
	}
	if key == "" {
		key = f.failure.Code
	}

	return FieldError{
		Field:   joinPath(f.parent, f.name),
		Code:    f.failure.Code,
		Text:    v.translator.Translate(ctx, key, params, Namespace),
		Options: f.spec,
	}
}

func messageValue(v any) any {
	switch KindOf(v) {
	case KindMapping, KindOpaque:
		return objectValueMarker
	case KindSequence:
		return arrayValueMarker
	}
	return v
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
