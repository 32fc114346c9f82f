package verify

// Code is a closed, numerically stable error-code enum (spec §3's
// "error-code catalog"). Values are partitioned into ranges with gaps
// left for future extension; a value, once shipped, is never reused.
type Code int

const (
	_ Code = iota

	// 1000-1099: file/HDU structure, reported by the driver/reader boundary.
	CodeReaderOpenFailed Code = 1000 + iota
	CodeMissingEnd
	CodeExtraHDUs
	CodeExtraBytes
)

const (
	// 1100-1199: mandatory-keyword sequence (header validator §4.4.2).
	CodeMissingKeyword Code = 1100 + iota
	CodeKeywordOrder
	CodeKeywordDuplicate
	CodeKeywordValue
	CodeKeywordType
	CodeNotFixedFormat
)

const (
	// 1200-1299: card-format diagnostics (card parser §4.2).
	CodeCardTooLong Code = 1200 + iota
	CodeIllegalNameChar
	CodeNameNotJustified
	CodeEndNotBlank
	CodeNontextChars
	CodeNoValueSeparator
	CodeLowercaseExponent
	CodeContinueWithoutString
	CodeBadFixedFormat
)

const (
	// 1300-1399: HDU-type placement rules (header validator §4.4.3).
	CodeXtensionInPrimary Code = 1300 + iota
	CodePrimaryKeyInExt
	CodeImageKeyInTable
	CodeTableKeyInImage
	CodeTableWCSInImage
)

const (
	// 1400-1499: table-structure / indexed-column diagnostics (§4.4.4).
	CodeIndexExceedsTFields Code = 1400 + iota
	CodeWrongType
	CodeNullValue
	CodeTscalWrongType
	CodeTnullWrongType
	CodeBlankWrongType
	CodeTdimInAscii
	CodeTbcolInBinary
	CodeTheapNoPcount
	CodeBadTdisp
)

const (
	// 1500-1599: data-validation diagnostics (§4.5).
	CodeBitNotJustified Code = 1500 + iota
	CodeBadLogicalData
	CodeNonasciiData
	CodeNoDecimal
	CodeEmbeddedSpace
	CodeVarExceedsMaxlen
	CodeVarExceedsHeap
	CodeDataFill
	CodeHeaderFill
	CodeNonasciiTable
	CodeAsciiGap
	CodeRowCountSkipped
)

const (
	// 1600-1699: WCS diagnostics (§4.4.5).
	CodeWcsaxesOrder Code = 1600 + iota
	CodeWcsIndex
)

const (
	// 1700-1799: reader-library pass-through diagnostics (§7).
	CodeReader Code = 1700 + iota
)

const (
	// 1800-1899: internal/abort diagnostics (§4.1, §7).
	CodeTooManyErrors Code = 1800 + iota
	CodeInternal
)

const (
	// 1900-1999: warnings (§4.4.6).
	CodeDeprecated Code = 1900 + iota
	CodeZeroScale
	CodeTnullRange
	CodeRawNotMultiple
	CodeY2K
	CodeDuplicateKeyword
	CodeBadChecksum
	CodeMissingLongstrn
	CodeRandomGroups
	CodeLegacyXtension
	CodeTimesysValue
	CodeInheritPrimary
	CodeVarExceeds32Bit
	CodeSimpleFalse
	CodeDuplicateExtname
)

// Name returns a short, stable identifier for a code. The --json
// output carries the numeric value, not this name. Unlike the numeric
// value this is not part of the versioned wire contract and may gain
// entries.
func (c Code) Name() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return "unknown-code"
}

var codeNames = map[Code]string{
	CodeReaderOpenFailed:      "reader-open-failed",
	CodeMissingEnd:            "missing-end",
	CodeExtraHDUs:             "extra-hdus",
	CodeExtraBytes:            "extra-bytes",
	CodeMissingKeyword:        "missing-keyword",
	CodeKeywordOrder:          "keyword-order",
	CodeKeywordDuplicate:      "keyword-duplicate",
	CodeKeywordValue:          "keyword-value",
	CodeKeywordType:           "keyword-type",
	CodeNotFixedFormat:        "not-fixed-format",
	CodeCardTooLong:           "card-too-long",
	CodeIllegalNameChar:       "illegal-name-char",
	CodeNameNotJustified:      "name-not-justified",
	CodeEndNotBlank:           "end-not-blank",
	CodeNontextChars:          "nontext-chars",
	CodeNoValueSeparator:      "no-value-separator",
	CodeLowercaseExponent:     "lowercase-exponent",
	CodeContinueWithoutString: "continue-without-string",
	CodeBadFixedFormat:        "bad-fixed-format",
	CodeXtensionInPrimary:     "xtension-in-primary",
	CodePrimaryKeyInExt:       "primary-key-in-ext",
	CodeImageKeyInTable:       "image-key-in-table",
	CodeTableKeyInImage:       "table-key-in-image",
	CodeTableWCSInImage:       "table-wcs-in-image",
	CodeIndexExceedsTFields:   "index-exceeds-tfields",
	CodeWrongType:             "wrong-type",
	CodeNullValue:             "null-value",
	CodeTscalWrongType:        "tscal-wrong-type",
	CodeTnullWrongType:        "tnull-wrong-type",
	CodeBlankWrongType:        "blank-wrong-type",
	CodeTdimInAscii:           "tdim-in-ascii",
	CodeTbcolInBinary:         "tbcol-in-binary",
	CodeTheapNoPcount:         "theap-no-pcount",
	CodeBadTdisp:              "bad-tdisp",
	CodeBitNotJustified:       "bit-not-justified",
	CodeBadLogicalData:        "bad-logical-data",
	CodeNonasciiData:          "nonascii-data",
	CodeNoDecimal:             "no-decimal",
	CodeEmbeddedSpace:         "embedded-space",
	CodeVarExceedsMaxlen:      "var-exceeds-maxlen",
	CodeVarExceedsHeap:        "var-exceeds-heap",
	CodeDataFill:              "data-fill",
	CodeHeaderFill:            "header-fill",
	CodeNonasciiTable:         "nonascii-table",
	CodeAsciiGap:              "ascii-gap",
	CodeRowCountSkipped:       "row-count-skipped",
	CodeWcsaxesOrder:          "wcsaxes-order",
	CodeWcsIndex:              "wcs-index",
	CodeReader:                "reader",
	CodeTooManyErrors:         "too-many-errors",
	CodeInternal:              "internal",
	CodeDeprecated:            "deprecated",
	CodeZeroScale:             "zero-scale",
	CodeTnullRange:            "tnull-range",
	CodeRawNotMultiple:        "raw-not-multiple",
	CodeY2K:                   "y2k",
	CodeDuplicateKeyword:      "duplicate-keyword",
	CodeBadChecksum:           "bad-checksum",
	CodeMissingLongstrn:       "missing-longstrn",
	CodeRandomGroups:          "random-groups",
	CodeLegacyXtension:        "legacy-xtension",
	CodeTimesysValue:          "timesys-value",
	CodeInheritPrimary:        "inherit-primary",
	CodeVarExceeds32Bit:       "var-exceeds-32bit",
	CodeSimpleFalse:           "simple-false",
	CodeDuplicateExtname:      "duplicate-extname",
}
