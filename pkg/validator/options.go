package validator

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// decodeRuleOptions decodes loosely typed rule options into a typed struct.
// Numbers written as strings and similar YAML quirks are accepted.
func decodeRuleOptions(rule string, raw any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return invalidOptions(rule, err)
	}
	if err := dec.Decode(raw); err != nil {
		return invalidOptions(rule, err)
	}
	return nil
}

// optionString returns the options as a string, or a config error.
func optionString(rule string, raw any) (string, error) {
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", invalidOptions(rule, fmt.Errorf("expected a non-empty string, got %T", raw))
	}
	return s, nil
}

// optionInt accepts integer numbers and integer strings.
func optionInt(raw any) (int, bool) {
	f, ok := toFloat(raw)
	if !ok || KindOf(raw) == KindBool || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
