package verify

import "github.com/astrogo/fitsverify"

// Severity ranks a Diagnostic. The numeric value is the floor
// error_report compares against (spec §4.1, Glossary "Severity rank").
type Severity int

const (
	SeverityWarning Severity = 0
	SeverityError   Severity = 1
	SeveritySevere  Severity = 2
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeveritySevere:
		return "severe"
	default:
		return "info"
	}
}

// Diagnostic is the structured output atom (spec §3). All strings are
// only guaranteed to be valid for the lifetime of a callback dispatch;
// FileResult/JSON serialization makes its own copies before returning.
type Diagnostic struct {
	Info     bool // info diagnostics are never counted and have no severity
	Severity Severity
	Code     Code
	HduIndex int // 0 = file-level
	Text     string
	FixHint  string
	Explain  string
}

// HduRecord is one HDU's directory entry (spec §3). The driver builds
// it once the HDU's validation finishes, from the pipeline's per-HDU
// counters and the header's EXTNAME/EXTVER.
type HduRecord struct {
	Type     fitsio.HDUType
	Index    int // 1-based
	ExtName  string
	ExtVer   int
	NumErr   int
	NumWarn  int
}

// CardKind classifies a ParsedCard (spec §3).
type CardKind int

const (
	KindUnknown CardKind = iota
	KindString
	KindLogical
	KindInteger
	KindFloat
	KindComplexInt
	KindComplexFloat
	KindCommentary
	KindEnd
)

// ParsedCard is the card parser's output (spec §3, §4.2).
type ParsedCard struct {
	Pos      int // 0-based position within the HDU header
	Name     string
	Kind     CardKind
	Value    string // raw textual form, trimmed per kind
	IntVal   int64
	FloatVal float64
	BoolVal  bool
	ReVal    float64 // complex real part
	ImVal    float64 // complex imaginary part
	Comment  string
	Errs     CardErrors
	IsHierarch bool
	FixedFormatOK bool
}

// CardErrors is the card parser's accumulated error bitset (spec §4.2).
type CardErrors uint32

const (
	ErrCardTooLong CardErrors = 1 << iota
	ErrIllegalNameChar
	ErrNameNotJustified
	ErrEndNotBlank
	ErrNontextChars
	ErrNoValueSeparator
	ErrLowercaseExponent
	ErrContinueWithoutString
	ErrBadFixedFormat
	ErrUnterminatedString
)

func (e CardErrors) has(bit CardErrors) bool { return e&bit != 0 }

// HduView is the per-HDU cache assembled while validating one HDU
// (spec §3). Created by a header-validator pass, discarded after the
// HDU's data validation completes — there is no process-wide cache.
type HduView struct {
	Cards           []ParsedCard
	NameIndex       map[string][]int // name -> positions, for duplicate detection
	Bitpix          int
	Naxis           int
	Axes            []int64
	Pcount          int64
	Gcount          int64
	Tfields         int64
	TType           []string
	TForm           []string
	TUnit           []string
	IsRandomGroups  bool
	IsTileCompressed bool
	UseLongstring   bool
	HDUType         fitsio.HDUType
}

// FileResult is the driver's per-call result (spec §6.2).
type FileResult struct {
	NumErrors   int
	NumWarnings int
	NumHDUs     int
	Aborted     bool
}

// Callback receives diagnostics when a session's output sink is set to
// a user callback instead of the default FILE sink (spec §6.2).
type Callback func(d Diagnostic, userdata interface{})
