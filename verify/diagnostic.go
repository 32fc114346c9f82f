package verify

import (
	"fmt"
	"strings"

	"github.com/astrogo/fitsverify/internal/reader"
)

// errorCap is the per-file error cap the abort policy enforces (spec
// §4.1: "If after emitting it exceeds a fixed cap (200)...").
const errorCap = 200

// info implements the info(text) pipeline operation. Info diagnostics
// are never counted, never gated by error_report, and never carry a
// hint (spec §8: "Info diagnostics never carry a hint.").
func (s *State) info(hduIndex int, text string) {
	if s.abort {
		return
	}
	s.emit(Diagnostic{Info: true, HduIndex: hduIndex, Text: text})
}

// warn implements warn(code, text, heasarc_flag).
func (s *State) warn(hduIndex int, code Code, text string, heasarcOnly bool) {
	if s.abort {
		return
	}
	if heasarcOnly && !s.Options.HeasarcConventions {
		s.hint.reset()
		return
	}
	s.dispatch(Diagnostic{Severity: SeverityWarning, Code: code, HduIndex: hduIndex, Text: text}, true)
}

// err implements err(code, text, severity).
func (s *State) err(hduIndex int, code Code, severity Severity, text string) {
	if s.abort {
		return
	}
	s.dispatch(Diagnostic{Severity: severity, Code: code, HduIndex: hduIndex, Text: text}, false)
}

// readerErr implements reader_err(code, text, reader_status, severity):
// drains one queued message from the reader's error stack and appends
// it to the diagnostic text.
func (s *State) readerErr(h *reader.Handle, hduIndex int, code Code, severity Severity, text string) {
	if s.abort {
		return
	}
	if h != nil {
		if msg := h.GetErrstackMessage(); msg != "" {
			text = text + ": " + msg
		}
	}
	s.dispatch(Diagnostic{Severity: severity, Code: code, HduIndex: hduIndex, Text: text}, false)
}

// readerErrWithStack implements reader_err_with_stack: drains the
// entire reader error stack, not just one message.
func (s *State) readerErrWithStack(h *reader.Handle, hduIndex int, code Code, severity Severity, text string) {
	if s.abort {
		return
	}
	if h != nil {
		var sb strings.Builder
		sb.WriteString(text)
		for {
			msg := h.GetErrstackMessage()
			if msg == "" {
				break
			}
			sb.WriteString(": ")
			sb.WriteString(msg)
		}
		text = sb.String()
	}
	s.dispatch(Diagnostic{Severity: severity, Code: code, HduIndex: hduIndex, Text: text}, false)
}

// dispatch applies the severity filter, increments counters, enriches
// with a hint, and hands the diagnostic to the sink. isWarning is
// passed explicitly rather than derived from Severity so warn() and
// err() share one code path without ambiguity at SeverityWarning's
// zero value.
func (s *State) dispatch(d Diagnostic, isWarning bool) {
	if s.belowFloor(d.Severity) {
		s.hint.reset()
		return
	}

	if isWarning {
		s.hduWarnings++
		s.fileWarnings++
	} else {
		s.hduErrors++
		s.fileErrors++
	}

	s.enrich(&d)
	s.emit(d)
	s.hint.reset()

	if !isWarning && s.fileErrors > errorCap {
		s.abort = true
		s.fileErrors++
		term := Diagnostic{Severity: SeveritySevere, Code: CodeTooManyErrors, HduIndex: d.HduIndex,
			Text: fmt.Sprintf("too many errors (> %d); aborting verification of this file", errorCap)}
		s.enrich(&term)
		s.emit(term)
	}
}

// belowFloor reports whether a diagnostic at severity sev is
// suppressed by the current error_report floor (spec §4.1, §8).
func (s *State) belowFloor(sev Severity) bool {
	switch s.Options.ErrorReport {
	case ErrorReportSevere:
		return sev < SeveritySevere
	case ErrorReportErrors:
		return sev < SeverityError
	default:
		return false
	}
}

// enrich attaches fix-hint/explain text when those options are on and
// the code is non-zero (spec §4.1).
func (s *State) enrich(d *Diagnostic) {
	if d.Code == 0 {
		return
	}
	if s.Options.FixHints {
		d.FixHint = s.generateHint(d.Code, d.HduIndex)
	}
	if s.Options.Explain {
		d.Explain = s.generateExplain(d.Code)
	}
}

// emit hands a diagnostic to whichever sink is configured.
func (s *State) emit(d Diagnostic) {
	switch s.sink {
	case sinkCallback:
		if s.callback != nil {
			s.callback(d, s.userdata)
		}
	default:
		fmt.Fprint(s.out, formatFileText(d))
	}
}

// formatFileText renders a diagnostic the way the FILE sink writes it:
// an 80-column-wrapped line with a severity prefix, per spec §4.1. The
// prefix widths ("*** Warning: " / "*** Error:   ") are fixed by the
// specification; the continuation margin is tuned to 4 columns, well
// under the 70-column ceiling.
func formatFileText(d Diagnostic) string {
	const wrapWidth = 80
	const continuationMargin = 4

	var prefix string
	switch {
	case d.Info:
		prefix = ""
	case d.Severity == SeverityWarning:
		prefix = "*** Warning: "
	default:
		prefix = "*** Error:   "
	}

	hduPrefix := ""
	if d.HduIndex > 0 {
		hduPrefix = fmt.Sprintf("HDU %d: ", d.HduIndex)
	}

	full := prefix + hduPrefix + d.Text
	lines := wrapText(full, wrapWidth, len(prefix)+continuationMargin)
	out := strings.Join(lines, "\n") + "\n"
	if d.FixHint != "" {
		out += wordWrapIndent("    Fix: "+d.FixHint, wrapWidth, 8) + "\n"
	}
	if d.Explain != "" {
		out += wordWrapIndent("    See: "+d.Explain, wrapWidth, 8) + "\n"
	}
	return out
}

// wrapText performs the continuation-wrap a single long diagnostic
// line needs: the first line starts at column 0; continuation lines
// are indented by indent columns, never clipping the severity prefix.
func wrapText(s string, width, indent int) []string {
	if len(s) <= width {
		return []string{s}
	}
	var lines []string
	remaining := s
	first := true
	for len(remaining) > 0 {
		avail := width
		if !first {
			avail = width - indent
		}
		if len(remaining) <= avail {
			if first {
				lines = append(lines, remaining)
			} else {
				lines = append(lines, strings.Repeat(" ", indent)+remaining)
			}
			break
		}
		cut := lastSpace(remaining, avail)
		if cut <= 0 {
			cut = avail
		}
		line := remaining[:cut]
		if !first {
			line = strings.Repeat(" ", indent) + line
		}
		lines = append(lines, line)
		remaining = strings.TrimLeft(remaining[cut:], " ")
		first = false
	}
	return lines
}

func wordWrapIndent(s string, width, indent int) string {
	return strings.Join(wrapText(s, width, indent), "\n")
}

func lastSpace(s string, limit int) int {
	if limit >= len(s) {
		limit = len(s) - 1
	}
	for i := limit; i > 0; i-- {
		if s[i] == ' ' {
			return i
		}
	}
	return limit
}
