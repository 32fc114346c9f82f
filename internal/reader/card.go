package reader

import (
	"strconv"
	"strings"
)

// RawCard is one 80-byte header card handed back exactly as it appears
// on the stream. The engine's own card parser (package verify) is the
// only thing that interprets these bytes into a typed ParsedCard; this
// type carries nothing beyond what read_card promises in SPEC_FULL.md
// §10.1.
type RawCard struct {
	Index int // 0-based position within the HDU's header
	Bytes [CardSize]byte
}

// Name returns the card's 8-column keyword field, right-trimmed.
func (c RawCard) Name() string {
	return strings.TrimRight(string(c.Bytes[:8]), " ")
}

// String renders the card as an 80-character line.
func (c RawCard) String() string {
	return string(c.Bytes[:])
}

// hasValueIndicator reports whether columns 9-10 are "= ", the FITS
// value-indicator sequence.
func (c RawCard) hasValueIndicator() bool {
	return len(c.Bytes) >= 10 && c.Bytes[8] == '=' && c.Bytes[9] == ' '
}

// valueField returns the text following the value indicator with
// surrounding spaces trimmed (or, for cards without one, the text
// after the name field with trailing spaces trimmed). A trailing
// '/' comment is not removed here.
func (c RawCard) valueField() string {
	if !c.hasValueIndicator() {
		return strings.TrimRight(string(c.Bytes[8:]), " ")
	}
	return strings.TrimSpace(string(c.Bytes[10:]))
}

// stringValue extracts a single-quoted string value, un-escaping
// doubled single quotes, the way the teacher's processString does.
func (c RawCard) stringValue() (string, bool) {
	v := c.valueField()
	if len(v) == 0 || v[0] != '\'' {
		return "", false
	}
	var sb strings.Builder
	i := 1
	for i < len(v) {
		if v[i] == '\'' {
			if i+1 < len(v) && v[i+1] == '\'' {
				sb.WriteByte('\'')
				i += 2
				continue
			}
			return strings.TrimRight(sb.String(), " "), true
		}
		sb.WriteByte(v[i])
		i++
	}
	return strings.TrimRight(sb.String(), " "), true
}

// numericField strips a trailing comment from a non-string value field.
func numericField(v string) string {
	if idx := strings.IndexByte(v, '/'); idx >= 0 {
		v = v[:idx]
	}
	return strings.TrimSpace(v)
}

// IntValue parses the card's value as an integer (read_keyword_int / _lng).
func (c RawCard) IntValue() (int64, bool) {
	f := numericField(c.valueField())
	if f == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(f, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FloatValue parses the card's value as a float (read_keyword_flt).
func (c RawCard) FloatValue() (float64, bool) {
	f := numericField(c.valueField())
	f = strings.Map(func(r rune) rune {
		if r == 'D' || r == 'd' {
			return 'E'
		}
		return r
	}, f)
	if f == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(f, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// StrValue parses the card's value as a string (read_keyword_str).
func (c RawCard) StrValue() (string, bool) {
	return c.stringValue()
}

// BoolValue parses the card's value as a FITS logical (T/F).
func (c RawCard) BoolValue() (bool, bool) {
	f := numericField(c.valueField())
	switch f {
	case "T":
		return true, true
	case "F":
		return false, true
	default:
		return false, false
	}
}
