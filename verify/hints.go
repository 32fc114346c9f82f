package verify

import "fmt"

// staticHints is the two-layer hint generator's base layer (spec
// §4.8): a canonical short fix hint per code. Codes without an entry
// here (e.g. CodeExtraBytes, CodeBadTdisp) get no fix hint, and only
// the codes listed in staticExplains get an explanation. The
// contextual overlay (generateHint / generateExplain) refines these
// when the hint context carries a keyword name or column number, and
// names the HDU index.
var staticHints = map[Code]string{
	CodeMissingKeyword:      "add the missing mandatory keyword",
	CodeKeywordOrder:        "move the keyword to its required position in the mandatory sequence",
	CodeKeywordDuplicate:    "remove the duplicate card",
	CodeKeywordValue:        "correct the keyword's value to a legal value",
	CodeKeywordType:         "change the card's value to the required type",
	CodeNotFixedFormat:      "rewrite the card in FITS fixed format",
	CodeCardTooLong:         "truncate the card to 80 bytes",
	CodeIllegalNameChar:     "use only A-Z, 0-9, underscore, and hyphen in the keyword name",
	CodeNameNotJustified:    "left-justify the keyword name in columns 1-8",
	CodeEndNotBlank:         "blank out columns 9-80 of the END card",
	CodeNontextChars:        "remove non-printable bytes from the commentary text",
	CodeNoValueSeparator:    "add '= ' in columns 9-10 or treat the card as commentary",
	CodeLowercaseExponent:   "use an uppercase E or D exponent marker",
	CodeXtensionInPrimary:   "remove XTENSION from the primary HDU",
	CodePrimaryKeyInExt:     "remove the primary-only keyword from this extension",
	CodeImageKeyInTable:     "remove the image-only keyword from this table",
	CodeTableKeyInImage:     "remove the column keyword from this image",
	CodeTableWCSInImage:     "remove the table-form WCS keyword from this image",
	CodeIndexExceedsTFields: "lower the keyword's index or raise TFIELDS",
	CodeWrongType:           "change the card's value to the required type",
	CodeNullValue:           "supply a non-null value",
	CodeTscalWrongType:      "remove TSCALn/TZEROn from a string, logical, or bit column",
	CodeTnullWrongType:      "remove TNULLn from a floating-point column",
	CodeBlankWrongType:      "remove BLANK from a floating-point image",
	CodeTdimInAscii:         "remove TDIMn from an ASCII table",
	CodeTbcolInBinary:       "remove TBCOLn from a binary table",
	CodeTheapNoPcount:       "remove THEAP or set PCOUNT > 0",
	CodeBitNotJustified:     "clear the unused fill bits at the end of the bit column",
	CodeBadLogicalData:      "write 'T', 'F', or NUL in every logical-column byte",
	CodeNonasciiData:        "use only printable ASCII or NUL padding in character columns",
	CodeNoDecimal:           "include a decimal point in every ASCII-table float field",
	CodeEmbeddedSpace:       "remove embedded spaces from the numeric field",
	CodeVarExceedsMaxlen:    "widen the column's declared maximum length",
	CodeVarExceedsHeap:      "extend PCOUNT to cover the referenced heap bytes",
	CodeDataFill:            "pad the data unit with the correct fill byte",
	CodeHeaderFill:          "pad the header with spaces after END",
	CodeNonasciiTable:       "use only ASCII bytes in the table row",
	CodeAsciiGap:            "use printable characters in the gap bytes between columns",
	CodeWcsaxesOrder:        "move WCSAXES before the other WCS keywords",
	CodeWcsIndex:            "lower the WCS keyword's axis index",
	CodeReader:              "inspect the reader's error stack for the underlying I/O failure",
	CodeTooManyErrors:       "fix the reported errors and re-run verification",
	CodeInternal:            "file a bug report with the offending input",
	CodeDeprecated:          "remove the deprecated keyword",
	CodeZeroScale:           "use a non-zero scale factor",
	CodeTnullRange:          "choose a null value within the column's datatype range",
	CodeRawNotMultiple:      "choose a repeat count that is a multiple of the field width",
	CodeY2K:                 "use a four-digit year or the ISO 8601 DATE format",
	CodeDuplicateKeyword:    "remove the duplicate keyword",
	CodeBadChecksum:         "recompute CHECKSUM/DATASUM for this HDU",
	CodeMissingLongstrn:     "add LONGSTRN = 'OGIP 1.0'",
	CodeRandomGroups:        "confirm random-groups data really is intended here",
	CodeLegacyXtension:      "migrate to a standard XTENSION type",
	CodeTimesysValue:        "use a recognized TIMESYS value",
	CodeInheritPrimary:      "remove INHERIT from a primary HDU with data",
	CodeVarExceeds32Bit:     "switch the column to Q-format descriptors",
	CodeSimpleFalse:         "set SIMPLE = T",
	CodeDuplicateExtname:    "give each extension a unique EXTNAME/EXTVER pair",
}

var staticExplains = map[Code]string{
	CodeMissingKeyword:   "FITS Standard 4.4.1 requires this keyword in every HDU of this type.",
	CodeKeywordOrder:     "FITS Standard 4.4.1 fixes the order of the mandatory keyword sequence.",
	CodeKeywordValue:     "FITS Standard 4.4.1.2 restricts this keyword to a fixed set of legal values.",
	CodeWrongType:        "FITS Standard 4.2.3 fixes the value type for this keyword.",
	CodeIndexExceedsTFields: "FITS Standard 7.2.2 requires every TFORMn-family index to be <= TFIELDS.",
	CodeVarExceedsMaxlen: "FITS Standard 7.3.5 requires a variable-length descriptor's length to not exceed the column's declared maximum.",
	CodeBadChecksum:      "FITS Standard Appendix J defines the CHECKSUM/DATASUM verification algorithm.",
	CodeDuplicateExtname: "FITS Standard 7.1 expects (EXTNAME, EXTVER) to be unique within a file.",
}

// generateHint implements the fix_hint half of the hint generator.
func (s *State) generateHint(code Code, hduIndex int) string {
	if s.hint.hasFixOverride {
		return s.hint.fixOverride
	}
	base := staticHints[code]
	return s.overlay(code, base, hduIndex)
}

// generateExplain implements the explain half.
func (s *State) generateExplain(code Code) string {
	if s.hint.hasExplainOverride {
		return s.hint.explainOverride
	}
	base := staticExplains[code]
	if base == "" {
		return ""
	}
	if entry, ok := s.Conventions.Lookup(s.hint.keyword); ok && s.hint.keyword != "" {
		return base + fmt.Sprintf(" See FITS Standard %s.", entry.Section)
	}
	return base
}

// overlay refines a static hint with the keyword/column/HDU context
// when one is set, naming the actual offending item rather than
// speaking generically (spec §4.8's "contextual overlay").
func (s *State) overlay(code Code, base string, hduIndex int) string {
	if base == "" {
		return ""
	}
	hduPart := ""
	if hduIndex > 0 {
		hduPart = fmt.Sprintf(", HDU %d", hduIndex)
	}
	switch {
	case s.hint.column > 0 && s.hint.keyword != "":
		return fmt.Sprintf("%s (keyword %s, column %d%s)", base, s.hint.keyword, s.hint.column, hduPart)
	case s.hint.keyword != "":
		return fmt.Sprintf("%s (keyword %s%s)", base, s.hint.keyword, hduPart)
	case hduPart != "":
		return fmt.Sprintf("%s (HDU %d)", base, hduIndex)
	default:
		return base
	}
}

// setHintKeyword annotates the hint context with a keyword name,
// cleared automatically after the next dispatch.
func (s *State) setHintKeyword(name string) {
	s.hint.keyword = name
}

// setHintColumn annotates the hint context with a 1-based column number.
func (s *State) setHintColumn(col int) {
	s.hint.column = col
}

// overrideFix lets a call site pre-fill the fix-hint text (e.g. the
// variable-length maxlen check, which computes the exact replacement
// TFORM itself).
func (s *State) overrideFix(text string) {
	s.hint.fixOverride = text
	s.hint.hasFixOverride = true
}

// overrideExplain lets a call site pre-fill the explain text.
func (s *State) overrideExplain(text string) {
	s.hint.explainOverride = text
	s.hint.hasExplainOverride = true
}
