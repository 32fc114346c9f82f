package verify

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/astrogo/fitsverify/internal/reader"
)

var commentarySet = map[string]bool{
	"COMMENT": true, "HISTORY": true, "HIERARCH": true, "": true,
}

// parseCard decodes one 80-byte card into a ParsedCard, accumulating
// error bits rather than stopping at the first problem (spec §4.2).
// It never panics: a malformed card always produces a ParsedCard with
// the relevant error bits set, for the keyword type checker and header
// validator to turn into diagnostics; its Kind is whatever the value
// field parsed as (KindUnknown only when no value form was recognized).
func parseCard(raw reader.RawCard, pos int) ParsedCard {
	pc := ParsedCard{Pos: pos}

	line := string(raw.Bytes[:])
	if nul := strings.IndexByte(line, 0); nul >= 0 && strings.TrimRight(line[nul:], "\x00 ") != "" {
		pc.Errs |= ErrCardTooLong
		line = line[:nul]
	}
	for len(line) < 80 {
		line += " "
	}

	rawName := line[:8]
	name := strings.TrimRight(rawName, " ")
	if strings.TrimLeft(rawName, " ") != rawName && name != "" {
		pc.Errs |= ErrNameNotJustified
	}
	if name != "" && !isLegalName(name) {
		pc.Errs |= ErrIllegalNameChar
	}
	pc.Name = strings.ToUpper(name)
	pc.IsHierarch = pc.Name == "HIERARCH"

	if pc.Name == "CONTINUE" {
		parseContinueValue(&pc, line)
		return pc
	}

	if commentarySet[pc.Name] {
		pc.Kind = KindCommentary
		body := line[8:80]
		if !isPrintableOrBlank(body) {
			pc.Errs |= ErrNontextChars
		}
		pc.Comment = strings.TrimRight(body, " ")
		return pc
	}

	if pc.Name == "END" {
		pc.Kind = KindEnd
		if strings.TrimRight(line[8:80], " ") != "" {
			pc.Errs |= ErrEndNotBlank
		}
		return pc
	}

	if len(line) < 10 || line[8] != '=' || line[9] != ' ' {
		pc.Kind = KindCommentary
		pc.Comment = strings.TrimRight(line[8:80], " ")
		return pc
	}

	rest := line[10:80]
	trimmed := strings.TrimLeft(rest, " ")
	if trimmed == "" {
		pc.Kind = KindUnknown
		return pc
	}

	parseValueBody(&pc, trimmed, line)
	return pc
}

// parseValueBody dispatches on the value field's leading byte (spec
// §4.2 step 7). Factored out of parseCard so the HIERARCH long-keyword
// expansion can reparse a card's value body after relocating it from
// columns 9-80 onto a synthesized long name (see expandHierarchCards
// in header.go).
func parseValueBody(pc *ParsedCard, trimmed, fullLine string) {
	switch c := trimmed[0]; {
	case c == '\'':
		parseStringValue(pc, trimmed, fullLine)
	case c == 'T' || c == 'F':
		parseLogicalValue(pc, trimmed, fullLine)
	case c == '(':
		parseComplexValue(pc, trimmed, fullLine)
	case c == '/':
		pc.Kind = KindUnknown
		pc.Comment = strings.TrimRight(strings.TrimPrefix(trimmed, "/"), " ")
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		parseNumericValue(pc, trimmed, fullLine)
	default:
		pc.Kind = KindUnknown
	}
}

// parseContinueValue decodes a CONTINUE card's value field (the
// CONTINUE long-string convention does not require the "= "
// value indicator in columns 9-10, only a quoted string starting
// somewhere past the keyword field). mergeContinueCards folds the
// result onto the preceding string card.
func parseContinueValue(pc *ParsedCard, line string) {
	rest := line[8:]
	trimmed := strings.TrimLeft(rest, " ")
	if trimmed == "" || trimmed[0] != '\'' {
		pc.Kind = KindCommentary
		pc.Comment = strings.TrimRight(rest, " ")
		pc.Errs |= ErrContinueWithoutString
		return
	}
	parseStringValue(pc, trimmed, line)
}

// mergeContinueCards implements the CONTINUE long-string convention
// (SPEC_FULL §12, grounded on the teacher's decode.go CONTINUE
// handling): a string card whose value ends in '&' is continued by an
// immediately following CONTINUE card, whose own value (itself trimmed
// of a trailing '&') replaces the ampersand. A CONTINUE card with no
// continuable string card in progress is flagged on itself rather than
// silently dropped.
func mergeContinueCards(parsed []ParsedCard) {
	prev := -1
	for i := range parsed {
		pc := &parsed[i]
		if pc.Name != "CONTINUE" {
			if pc.Kind == KindString && strings.HasSuffix(pc.Value, "&") {
				prev = i
			} else {
				prev = -1
			}
			continue
		}
		if pc.Errs.has(ErrContinueWithoutString) {
			prev = -1
			continue
		}
		if prev < 0 {
			pc.Errs |= ErrContinueWithoutString
			continue
		}
		target := &parsed[prev]
		continued := strings.HasSuffix(pc.Value, "&")
		target.Value = strings.TrimSuffix(target.Value, "&")
		if continued {
			target.Value += strings.TrimSuffix(pc.Value, "&")
		} else {
			target.Value += pc.Value
			prev = -1
		}
		pc.Kind = KindCommentary
	}
}

func isLegalName(name string) bool {
	for _, r := range name {
		ok := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-'
		if !ok {
			return false
		}
	}
	return true
}

func isPrintableOrBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 32 || s[i] > 126 {
			return false
		}
	}
	return true
}

// splitCommentTail finds the '/' comment delimiter in whatever trails
// a parsed value, reporting whether a separator was actually present
// (spec §4.2 step 8: trailing non-separator text is *no-value-separator*).
func splitCommentTail(rest string) (comment string, hadSeparator bool) {
	rest = strings.TrimLeft(rest, " ")
	if rest == "" {
		return "", true
	}
	if rest[0] == '/' {
		return strings.TrimRight(strings.TrimSpace(rest[1:]), " "), true
	}
	return "", false
}

func parseStringValue(pc *ParsedCard, trimmed, fullLine string) {
	pc.Kind = KindString
	// trimmed starts at the opening quote; work in full-line
	// coordinates so FixedFormatOK can check absolute columns.
	startCol := len(fullLine) - len(trimmed)
	i := startCol + 1
	var sb strings.Builder
	closed := false
	closeCol := -1
	for i < len(fullLine) {
		if fullLine[i] == '\'' {
			if i+1 < len(fullLine) && fullLine[i+1] == '\'' {
				sb.WriteByte('\'')
				i += 2
				continue
			}
			closed = true
			closeCol = i
			i++
			break
		}
		sb.WriteByte(fullLine[i])
		i++
	}
	if !closed {
		pc.Errs |= ErrUnterminatedString
		pc.Value = strings.TrimRight(sb.String(), " ")
		return
	}
	pc.Value = strings.TrimRight(sb.String(), " ")
	pc.FixedFormatOK = startCol == 10 && closeCol >= 19

	rest := fullLine[i:]
	comment, had := splitCommentTail(rest)
	pc.Comment = comment
	if !had && strings.TrimSpace(rest) != "" {
		pc.Errs |= ErrNoValueSeparator
	}
}

func parseLogicalValue(pc *ParsedCard, trimmed, fullLine string) {
	pc.Kind = KindLogical
	startCol := len(fullLine) - len(trimmed)
	pc.BoolVal = trimmed[0] == 'T'
	pc.Value = string(trimmed[0])
	pc.FixedFormatOK = startCol == 29

	rest := trimmed[1:]
	comment, had := splitCommentTail(rest)
	pc.Comment = comment
	if !had && strings.TrimSpace(rest) != "" {
		pc.Errs |= ErrNoValueSeparator
	}
}

func parseComplexValue(pc *ParsedCard, trimmed, fullLine string) {
	closeParen := strings.IndexByte(trimmed, ')')
	if closeParen < 0 {
		pc.Kind = KindUnknown
		pc.Errs |= ErrNoValueSeparator
		return
	}
	inner := trimmed[1:closeParen]
	parts := strings.SplitN(inner, ",", 2)
	if len(parts) != 2 {
		pc.Kind = KindUnknown
		return
	}
	re, err1 := strconv.ParseFloat(strings.TrimSpace(sub(parts[0])), 64)
	im, err2 := strconv.ParseFloat(strings.TrimSpace(sub(parts[1])), 64)
	if err1 != nil || err2 != nil {
		pc.Kind = KindUnknown
		return
	}
	pc.ReVal, pc.ImVal = re, im
	if strings.Contains(inner, ".") || strings.ContainsAny(inner, "eEdD") {
		pc.Kind = KindComplexFloat
	} else {
		pc.Kind = KindComplexInt
	}
	pc.Value = strings.TrimSpace(inner)

	rest := trimmed[closeParen+1:]
	comment, had := splitCommentTail(rest)
	pc.Comment = comment
	if !had && strings.TrimSpace(rest) != "" {
		pc.Errs |= ErrNoValueSeparator
	}
}

func sub(s string) string {
	if idx := strings.IndexAny(s, "dD"); idx >= 0 {
		return s[:idx] + "E" + s[idx+1:]
	}
	return s
}

func parseNumericValue(pc *ParsedCard, trimmed, fullLine string) {
	startCol := len(fullLine) - len(trimmed)
	i := 0
	for i < len(trimmed) {
		ch := trimmed[i]
		if ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9') {
			i++
			continue
		}
		if ch == 'e' || ch == 'E' || ch == 'd' || ch == 'D' {
			if ch == 'd' || ch == 'e' {
				pc.Errs |= ErrLowercaseExponent
			}
			i++
			if i < len(trimmed) && (trimmed[i] == '+' || trimmed[i] == '-') {
				i++
			}
			continue
		}
		break
	}
	numText := trimmed[:i]
	normalized := strings.Map(func(r rune) rune {
		switch r {
		case 'd', 'D':
			return 'E'
		case 'e':
			return 'E'
		default:
			return r
		}
	}, numText)

	isFloat := strings.ContainsAny(numText, ".eEdD")
	if isFloat {
		pc.Kind = KindFloat
		if f, err := strconv.ParseFloat(normalized, 64); err == nil {
			pc.FloatVal = f
		}
	} else {
		pc.Kind = KindInteger
		if n, err := strconv.ParseInt(normalized, 10, 64); err == nil {
			pc.IntVal = n
		} else if bi, ok := new(big.Int).SetString(normalized, 10); ok {
			// overflow: still a legal integer, just too big for int64.
			// Clamp rather than drop it so the keyword type checker
			// sees KindInteger, not KindUnknown.
			if bi.Sign() < 0 {
				pc.IntVal = -1 << 63
			} else {
				pc.IntVal = 1<<63 - 1
			}
		}
	}
	pc.Value = numText
	pc.FixedFormatOK = !isFloat && startCol+i == 30

	rest := trimmed[i:]
	comment, had := splitCommentTail(rest)
	pc.Comment = comment
	if !had && strings.TrimSpace(rest) != "" {
		pc.Errs |= ErrNoValueSeparator
	}
}
