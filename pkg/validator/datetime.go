package validator

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// dateTokens maps date format characters to Go layout elements.
var dateTokens = map[rune]string{
	'd': "02",
	'j': "2",
	'D': "Mon",
	'l': "Monday",
	'm': "01",
	'n': "1",
	'M': "Jan",
	'F': "January",
	'Y': "2006",
	'y': "06",
	'H': "15",
	'h': "03",
	'g': "3",
	'i': "04",
	's': "05",
	'v': "000",
	'u': "000000",
	'A': "PM",
	'a': "pm",
	'T': "MST",
	'P': "-07:00",
	'O': "-0700",
	'p': "Z07:00",
}

// lenientTokens replace zero-padded elements when parsing. Day, month and
// 12-hour values are accepted with or without a leading zero.
var lenientTokens = map[rune]string{
	'd': "2",
	'm': "1",
	'h': "3",
}

// DateLayout converts a date format string such as "Y-m-d H:i:s" into a Go layout.
// A backslash escapes the next character. Characters without a Go equivalent are rejected.
func DateLayout(format string) (string, error) {
	return dateLayout(format, false)
}

// parseLayout is DateLayout for reading input: "Y-m-d" accepts "2024-5-1".
func parseLayout(format string) (string, error) {
	return dateLayout(format, true)
}

func dateLayout(format string, lenient bool) (string, error) {
	if format == "" {
		return "", fmt.Errorf("empty date format")
	}
	var b strings.Builder
	escaped := false
	for _, r := range format {
		switch {
		case escaped:
			if unicode.IsDigit(r) {
				return "", fmt.Errorf("date format %q: literal digit %q is ambiguous", format, r)
			}
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '!' || r == '|' || r == '+':
		default:
			if tok, ok := lenientTokens[r]; ok && lenient {
				b.WriteString(tok)
				continue
			}
			if tok, ok := dateTokens[r]; ok {
				b.WriteString(tok)
				continue
			}
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return "", fmt.Errorf("date format %q: unsupported character %q", format, r)
			}
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

var absoluteLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"02.01.2006",
	"15:04:05",
	"15:04",
}

// ParseTime resolves an absolute date ("2024-05-01", RFC 3339, "@1700000000") or a
// relative expression ("now", "today", "+1 day", "-2 weeks 3 days", "3 months ago")
// against base.
func ParseTime(expr string, base time.Time) (time.Time, bool) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return time.Time{}, false
	}
	if strings.HasPrefix(s, "@") {
		sec, err := strconv.ParseInt(s[1:], 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(sec, 0).In(base.Location()), true
	}
	for _, layout := range absoluteLayouts {
		t, err := time.ParseInLocation(layout, s, base.Location())
		if err != nil {
			continue
		}
		if strings.HasPrefix(layout, "15:") {
			y, m, d := base.Date()
			t = time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, base.Location())
		}
		return t, true
	}
	return parseRelative(strings.ToLower(s), base)
}

type offset struct {
	years, months, days int
	dur                 time.Duration
}

func (o *offset) add(n int, unit string) bool {
	switch strings.TrimSuffix(unit, "s") {
	case "sec", "second":
		o.dur += time.Duration(n) * time.Second
	case "min", "minute":
		o.dur += time.Duration(n) * time.Minute
	case "hour":
		o.dur += time.Duration(n) * time.Hour
	case "day":
		o.days += n
	case "week":
		o.days += 7 * n
	case "fortnight":
		o.days += 14 * n
	case "month":
		o.months += n
	case "year":
		o.years += n
	default:
		return false
	}
	return true
}

func (o *offset) negate() {
	o.years, o.months, o.days, o.dur = -o.years, -o.months, -o.days, -o.dur
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func parseRelative(s string, base time.Time) (time.Time, bool) {
	t := base
	var off offset
	tokens := strings.Fields(s)

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok {
		case "now":
			continue
		case "today", "midnight":
			t = midnight(t)
			continue
		case "noon":
			t = midnight(t).Add(12 * time.Hour)
			continue
		case "tomorrow":
			t = midnight(t).AddDate(0, 0, 1)
			continue
		case "yesterday":
			t = midnight(t).AddDate(0, 0, -1)
			continue
		case "ago":
			off.negate()
			continue
		}

		var qty int
		var unit string
		switch tok {
		case "next":
			qty = 1
		case "last", "previous":
			qty = -1
		case "this":
			qty = 0
		default:
			num, rest := splitNumber(tok)
			if num == "" {
				return time.Time{}, false
			}
			n, err := strconv.Atoi(strings.TrimPrefix(num, "+"))
			if err != nil {
				return time.Time{}, false
			}
			qty, unit = n, rest
		}
		if unit == "" {
			if i+1 >= len(tokens) {
				return time.Time{}, false
			}
			i++
			unit = tokens[i]
		}
		if !off.add(qty, unit) {
			return time.Time{}, false
		}
	}

	return t.AddDate(off.years, off.months, off.days).Add(off.dur), true
}

// splitNumber splits "+12days" into "+12" and "days".
func splitNumber(tok string) (string, string) {
	end := 0
	if end < len(tok) && (tok[end] == '+' || tok[end] == '-') {
		end++
	}
	start := end
	for end < len(tok) && tok[end] >= '0' && tok[end] <= '9' {
		end++
	}
	if end == start {
		return "", tok
	}
	return tok[:end], tok[end:]
}
