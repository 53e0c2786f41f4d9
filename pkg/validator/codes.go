package validator

// Error codes are a stable public contract: callers branch on them.
// New rules must allocate new codes instead of reusing existing ones.
const (
	CodeNotArray         = "1.0"
	CodeNotIndexedArray  = "1.1"
	CodeNotAssocArray    = "1.2"
	CodeNotDate          = "2.0"
	CodeDateTooEarly     = "2.1"
	CodeDateTooFar       = "2.2"
	CodeDateWrongFormat  = "2.3"
	CodeNotEmail         = "3.0"
	CodeNotInList        = "4.0"
	CodeNotIP            = "5.0"
	CodeNotIPv4          = "5.1"
	CodeNotIPv6          = "5.2"
	CodeTooShort         = "6.0"
	CodeTooLong          = "6.1"
	CodeInList           = "7.0"
	CodeNotNumeric       = "8.0"
	CodeTooLess          = "8.1"
	CodeTooGreat         = "8.2"
	CodeDecimalMismatch  = "8.3"
	CodeNotObject        = "9.0"
	CodeNotMatch         = "10.0"
	CodeRequired         = "11.0"
	CodeNotText          = "12.0"
	CodeNotSlug          = "12.1"
	CodeNotAlnumDash     = "12.2"
	CodeNotAlpha         = "12.3"
	CodeNotAlnum         = "12.4"
	CodeNotMatchPattern  = "12.5"
	CodeNotURL           = "13.0"
	CodeURLNoPath        = "13.1"
	CodeURLNoQuery       = "13.2"
	CodeURLMissingQuery  = "13.3"
	CodeEmpty            = "21.0"
	CodeNotEmpty         = "21.1"
	CodeInvalidJSON      = "23.1"
	CodeNotAcceptable    = "25.0"
	CodeNotAcceptableAll = "25.1"
	CodeNotRequested     = "25.2"
	CodeNotEqual         = "26.1"
	CodeNotFile          = "28.0"
	CodeNotBool          = "29.0"
)

// DefaultMessages maps every error code to its catalog text.
// The text doubles as the translation key.
func DefaultMessages() map[string]string {
	return map[string]string{
		CodeNotArray:         "not an array",
		CodeNotIndexedArray:  "not indexed array",
		CodeNotAssocArray:    "not assoc array",
		CodeNotDate:          "not a date",
		CodeDateTooEarly:     "the date too early",
		CodeDateTooFar:       "the date too far",
		CodeDateWrongFormat:  "wrong date format",
		CodeNotEmail:         "not an email",
		CodeNotInList:        "not in array",
		CodeNotIP:            "not an ip",
		CodeNotIPv4:          "not an ipv4",
		CodeNotIPv6:          "not an ipv6",
		CodeTooShort:         "too short",
		CodeTooLong:          "too long",
		CodeInList:           "in array",
		CodeNotNumeric:       "not numeric",
		CodeTooLess:          "too less",
		CodeTooGreat:         "too great",
		CodeDecimalMismatch:  "decimal not match",
		CodeNotObject:        "not an object",
		CodeNotMatch:         "not match",
		CodeRequired:         "required",
		CodeNotText:          "not a text",
		CodeNotSlug:          "not a slug",
		CodeNotAlnumDash:     "not an alnumdash",
		CodeNotAlpha:         "not an alpha",
		CodeNotAlnum:         "not an alnum",
		CodeNotMatchPattern:  "not match the pattern",
		CodeNotURL:           "not an url",
		CodeURLNoPath:        "dont have path",
		CodeURLNoQuery:       "dont have query",
		CodeURLMissingQuery:  "require query not present",
		CodeEmpty:            "is empty",
		CodeNotEmpty:         "is not empty",
		CodeInvalidJSON:      "is not valid json string",
		CodeNotAcceptable:    "is not in acceptable value",
		CodeNotAcceptableAll: "is not in acceptable list values",
		CodeNotRequested:     "is not match with requested value",
		CodeNotEqual:         "is not equal",
		CodeNotFile:          "is not file",
		CodeNotBool:          "not a boolean",
	}
}
