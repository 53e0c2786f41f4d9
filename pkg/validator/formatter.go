package validator

// Built-in formatter ids.
const (
	FormatterDefault = "default"
	FormatterText    = "text"
	FormatterMessage = "message"
)

// Formatter reshapes one entry of the final error map.
// It receives the record, its key, every collected record and the sanitized object.
type Formatter interface {
	Format(record FieldError, field string, all map[string]FieldError, sanitized map[string]any) any
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(record FieldError, field string, all map[string]FieldError, sanitized map[string]any) any

// Format implements Formatter.
func (f FormatterFunc) Format(record FieldError, field string, all map[string]FieldError, sanitized map[string]any) any {
	return f(record, field, all, sanitized)
}

// IdentityFormatter forwards the record unchanged.
var IdentityFormatter = FormatterFunc(func(record FieldError, _ string, _ map[string]FieldError, _ map[string]any) any {
	return record
})

// TextListFormatter turns every record into a one-item list of messages.
var TextListFormatter = FormatterFunc(func(record FieldError, _ string, _ map[string]FieldError, _ map[string]any) any {
	return []string{record.Text}
})

// MessageFormatter turns every record into its message text.
var MessageFormatter = FormatterFunc(func(record FieldError, _ string, _ map[string]FieldError, _ map[string]any) any {
	return record.Text
})

func defaultFormatters() map[string]Formatter {
	return map[string]Formatter{
		FormatterDefault: IdentityFormatter,
		FormatterText:    TextListFormatter,
		FormatterMessage: MessageFormatter,
	}
}
