// Package fitstest builds synthetic FITS byte streams for tests. It
// has no production callers; it exists purely so verify/*_test.go and
// internal/reader/*_test.go can construct exact-byte fixtures the way
// the teacher's header_test.go built header lines by hand, without
// every test re-deriving 80-column padding arithmetic.
package fitstest

import "strings"

const (
	blockSize = 2880
	cardSize  = 80
)

// Card is one header card to render.
type Card struct {
	Name    string
	Value   string // pre-formatted value text, already quoted if needed
	Comment string
}

// Line renders one 80-byte card line.
func (c Card) Line() string {
	if c.Name == "" || c.Name == "COMMENT" || c.Name == "HISTORY" {
		body := c.Value
		if body == "" {
			body = c.Comment
		}
		return fitLine(c.Name, "", body, false)
	}
	return fitLine(c.Name, c.Value, c.Comment, true)
}

func fitLine(name, value, comment string, withIndicator bool) string {
	var sb strings.Builder
	sb.WriteString(pad(name, 8))
	if withIndicator {
		sb.WriteString("= ")
		sb.WriteString(pad(value, 20))
		if comment != "" {
			sb.WriteString(" / ")
			sb.WriteString(comment)
		}
	} else {
		sb.WriteString(value)
	}
	line := sb.String()
	if len(line) > cardSize {
		line = line[:cardSize]
	}
	return pad(line, cardSize)
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

// Int formats an integer value field, right-justified in 20 columns.
func Int(v int64) string {
	return padLeft(itoa(v), 20)
}

// Str formats a quoted string value field.
func Str(v string) string {
	escaped := strings.ReplaceAll(v, "'", "''")
	return "'" + pad(escaped, 8) + "'"
}

// Bool formats a logical value field.
func Bool(v bool) string {
	if v {
		return padLeft("T", 20)
	}
	return padLeft("F", 20)
}

// Float formats a float value field.
func Float(v float64) string {
	return padLeft(ftoa(v), 20)
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat(" ", n-len(s)) + s
}

// Header renders a sequence of cards, terminated by END, padded to a
// multiple of 2880 bytes.
func Header(cards []Card) []byte {
	var sb strings.Builder
	for _, c := range cards {
		sb.WriteString(c.Line())
	}
	sb.WriteString(fitLine("END", "", "", false))
	raw := sb.String()
	if len(raw)%blockSize != 0 {
		raw += strings.Repeat(" ", blockSize-len(raw)%blockSize)
	}
	return []byte(raw)
}

// Data pads raw data bytes to a block boundary with the given pad byte.
func Data(raw []byte, padByte byte) []byte {
	out := append([]byte{}, raw...)
	for len(out)%blockSize != 0 {
		out = append(out, padByte)
	}
	return out
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func ftoa(v float64) string {
	// Minimal fixed-point formatting sufficient for test fixtures;
	// the engine never needs to reproduce a reader's float formatting,
	// only to parse it.
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	frac := int64((v - float64(whole)) * 1000)
	fs := itoa(frac)
	for len(fs) < 3 {
		fs = "0" + fs
	}
	s := itoa(whole) + "." + fs
	if neg {
		return "-" + s
	}
	return s
}
