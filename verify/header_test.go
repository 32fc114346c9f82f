package verify_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/astrogo/fitsverify/internal/fitstest"
	"github.com/astrogo/fitsverify/verify"
)

func collect() (*verify.State, *[]verify.Diagnostic) {
	s := verify.NewState()
	var diags []verify.Diagnostic
	s.SetOutput(func(d verify.Diagnostic, _ interface{}) { diags = append(diags, d) }, nil)
	return s, &diags
}

func hasCode(diags []verify.Diagnostic, code verify.Code) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

// A primary header missing NAXIS reports missing-keyword (spec §4.4.2).
func TestMissingMandatoryKeyword(t *testing.T) {
	hdr := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Int(8)},
	})
	s, diags := collect()
	if _, err := s.VerifyMemory(hdr, "missing-naxis"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if !hasCode(*diags, verify.CodeMissingKeyword) {
		t.Fatalf("expected CodeMissingKeyword among %v", *diags)
	}
}

// An image-only keyword (BSCALE) inside a BINTABLE extension is
// flagged by the placement check (spec §4.4.3).
func TestImageKeywordInTable(t *testing.T) {
	primary := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(0)},
		{Name: "EXTEND", Value: fitstest.Bool(true)},
	})
	ext := fitstest.Header([]fitstest.Card{
		{Name: "XTENSION", Value: fitstest.Str("BINTABLE")},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(2)},
		{Name: "NAXIS1", Value: fitstest.Int(4)},
		{Name: "NAXIS2", Value: fitstest.Int(1)},
		{Name: "PCOUNT", Value: fitstest.Int(0)},
		{Name: "GCOUNT", Value: fitstest.Int(1)},
		{Name: "TFIELDS", Value: fitstest.Int(1)},
		{Name: "TTYPE1", Value: fitstest.Str("X")},
		{Name: "TFORM1", Value: fitstest.Str("1J")},
		{Name: "BSCALE", Value: fitstest.Float(1.0)},
	})
	buf := append([]byte{}, primary...)
	buf = append(buf, ext...)
	buf = append(buf, fitstest.Data(make([]byte, 4), 0)...)

	s, diags := collect()
	if _, err := s.VerifyMemory(buf, "img-key-in-table"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if !hasCode(*diags, verify.CodeImageKeyInTable) {
		t.Fatalf("expected CodeImageKeyInTable among %v", *diags)
	}
}

// TSCAL applied to a string column in a BINTABLE is rejected (spec
// §4.4.4's type-gated indexed-column checks).
func TestTscalWrongTypeOnStringColumn(t *testing.T) {
	primary := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(0)},
		{Name: "EXTEND", Value: fitstest.Bool(true)},
	})
	ext := fitstest.Header([]fitstest.Card{
		{Name: "XTENSION", Value: fitstest.Str("BINTABLE")},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(2)},
		{Name: "NAXIS1", Value: fitstest.Int(8)},
		{Name: "NAXIS2", Value: fitstest.Int(1)},
		{Name: "PCOUNT", Value: fitstest.Int(0)},
		{Name: "GCOUNT", Value: fitstest.Int(1)},
		{Name: "TFIELDS", Value: fitstest.Int(1)},
		{Name: "TTYPE1", Value: fitstest.Str("NAME")},
		{Name: "TFORM1", Value: fitstest.Str("8A")},
		{Name: "TSCAL1", Value: fitstest.Float(1.0)},
	})
	buf := append([]byte{}, primary...)
	buf = append(buf, ext...)
	buf = append(buf, fitstest.Data(make([]byte, 8), 0)...)

	s, diags := collect()
	if _, err := s.VerifyMemory(buf, "tscal-on-string"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if !hasCode(*diags, verify.CodeTscalWrongType) {
		t.Fatalf("expected CodeTscalWrongType among %v", *diags)
	}
}

// A BINTABLE with 220 columns, each carrying an illegal TDISPn value,
// produces at least 200 bad-tdisp errors and trips the per-file error
// cap (spec §8 scenario 5, §4.1's abort policy).
func TestManyBadTdispColumnsAbort(t *testing.T) {
	const ncols = 220
	primary := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(0)},
		{Name: "EXTEND", Value: fitstest.Bool(true)},
	})

	cards := []fitstest.Card{
		{Name: "XTENSION", Value: fitstest.Str("BINTABLE")},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(2)},
		{Name: "NAXIS1", Value: fitstest.Int(4 * ncols)},
		{Name: "NAXIS2", Value: fitstest.Int(1)},
		{Name: "PCOUNT", Value: fitstest.Int(0)},
		{Name: "GCOUNT", Value: fitstest.Int(1)},
		{Name: "TFIELDS", Value: fitstest.Int(ncols)},
	}
	for i := 1; i <= ncols; i++ {
		cards = append(cards,
			fitstest.Card{Name: fmt.Sprintf("TTYPE%d", i), Value: fitstest.Str(fmt.Sprintf("COL%d", i))},
			fitstest.Card{Name: fmt.Sprintf("TFORM%d", i), Value: fitstest.Str("1E")},
			fitstest.Card{Name: fmt.Sprintf("TDISP%d", i), Value: fitstest.Str(fmt.Sprintf("Q%d", i))},
		)
	}
	ext := fitstest.Header(cards)

	buf := append([]byte{}, primary...)
	buf = append(buf, ext...)
	buf = append(buf, fitstest.Data(make([]byte, 4*ncols), 0)...)

	s, diags := collect()
	result, err := s.VerifyMemory(buf, "many-bad-tdisp")
	if err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if !result.Aborted {
		t.Fatalf("expected Aborted=true, got false (%d errors)", result.NumErrors)
	}
	count := 0
	for _, d := range *diags {
		if d.Code == verify.CodeBadTdisp {
			count++
		}
	}
	if count < 200 {
		t.Fatalf("expected at least 200 CodeBadTdisp diagnostics, got %d", count)
	}
}

// A mandatory keyword given the wrong type reports the distinct
// *keyword-type* diagnostic, not the indexed-column *wrong-type* one
// (spec §4.4.2).
func TestMandatoryKeywordWrongTypeEmitsKeywordType(t *testing.T) {
	hdr := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Str("SIXTEEN")},
		{Name: "NAXIS", Value: fitstest.Int(0)},
	})
	s, diags := collect()
	if _, err := s.VerifyMemory(hdr, "bitpix-wrong-type"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if !hasCode(*diags, verify.CodeKeywordType) {
		t.Fatalf("expected CodeKeywordType among %v", *diags)
	}
	if hasCode(*diags, verify.CodeWrongType) {
		t.Fatalf("did not expect CodeWrongType for a mandatory-keyword mismatch among %v", *diags)
	}
}

// rawHeader builds a header from literal 80-byte lines, bypassing
// fitstest.Card's fixed-format layout, so a test can construct a
// deliberately non-fixed-format card (spec §4.2's fixed-format rule).
func rawHeader(lines []string) []byte {
	const blockSize = 2880
	var sb strings.Builder
	for _, l := range lines {
		if len(l) > 80 {
			l = l[:80]
		}
		sb.WriteString(l + strings.Repeat(" ", 80-len(l)))
	}
	sb.WriteString("END" + strings.Repeat(" ", 77))
	raw := sb.String()
	if len(raw)%blockSize != 0 {
		raw += strings.Repeat(" ", blockSize-len(raw)%blockSize)
	}
	return []byte(raw)
}

// A SIMPLE card whose value isn't in fixed format (the 'T' does not
// land in column 30) warns not-fixed-format (spec §4.2/§4.4.2).
func TestSimpleNotFixedFormatWarns(t *testing.T) {
	// Build a fixed-format SIMPLE card, then shift its 'T' one column
	// early so it no longer lands on the fixed-format column (30).
	valid := (fitstest.Card{Name: "SIMPLE", Value: fitstest.Bool(true)}).Line()
	tCol := strings.IndexByte(valid, 'T')
	shifted := valid[:tCol-1] + valid[tCol:] + " "

	hdr := rawHeader([]string{
		shifted,
		"BITPIX  =                    8",
		"NAXIS   =                    0",
	})
	s, diags := collect()
	if _, err := s.VerifyMemory(hdr, "simple-not-fixed"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if !hasCode(*diags, verify.CodeNotFixedFormat) {
		t.Fatalf("expected CodeNotFixedFormat among %v", *diags)
	}
	if hasCode(*diags, verify.CodeDeprecated) {
		t.Fatalf("not-fixed-format should not report as CodeDeprecated among %v", *diags)
	}
}

// A binary-table TNULLn value outside the column's integer datatype
// range warns tnull-range (spec §4.4.6).
func TestTnullOutOfRangeWarns(t *testing.T) {
	primary := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(0)},
		{Name: "EXTEND", Value: fitstest.Bool(true)},
	})
	ext := fitstest.Header([]fitstest.Card{
		{Name: "XTENSION", Value: fitstest.Str("BINTABLE")},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(2)},
		{Name: "NAXIS1", Value: fitstest.Int(1)},
		{Name: "NAXIS2", Value: fitstest.Int(1)},
		{Name: "PCOUNT", Value: fitstest.Int(0)},
		{Name: "GCOUNT", Value: fitstest.Int(1)},
		{Name: "TFIELDS", Value: fitstest.Int(1)},
		{Name: "TTYPE1", Value: fitstest.Str("FLAG")},
		{Name: "TFORM1", Value: fitstest.Str("1B")},
		{Name: "TNULL1", Value: fitstest.Int(999)},
	})
	buf := append([]byte{}, primary...)
	buf = append(buf, ext...)
	buf = append(buf, fitstest.Data(make([]byte, 1), 0)...)

	s, diags := collect()
	if _, err := s.VerifyMemory(buf, "tnull-out-of-range"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if !hasCode(*diags, verify.CodeTnullRange) {
		t.Fatalf("expected CodeTnullRange among %v", *diags)
	}
}

// An image BLANK value outside the BITPIX integer range warns
// tnull-range too (spec §4.4.6 applies the same rule to BLANK).
func TestBlankOutOfRangeWarns(t *testing.T) {
	hdr := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(2)},
		{Name: "NAXIS1", Value: fitstest.Int(1)},
		{Name: "NAXIS2", Value: fitstest.Int(1)},
		{Name: "BLANK", Value: fitstest.Int(500)},
	})
	buf := append([]byte{}, hdr...)
	buf = append(buf, fitstest.Data(make([]byte, 1), 0)...)

	s, diags := collect()
	if _, err := s.VerifyMemory(buf, "blank-out-of-range"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if !hasCode(*diags, verify.CodeTnullRange) {
		t.Fatalf("expected CodeTnullRange among %v", *diags)
	}
}

// A HIERARCH card's long keyword participates in duplicate-keyword
// detection only when test_hierarch is on (SPEC_FULL §12).
func TestHierarchLongKeywordDuplicateDetection(t *testing.T) {
	hdr := rawHeader([]string{
		"SIMPLE  =                    T",
		"BITPIX  =                    8",
		"NAXIS   =                    0",
		"HIERARCH ESO DET CHIP ID = 'X'",
		"HIERARCH ESO DET CHIP ID = 'Y'",
	})

	sOff, diagsOff := collect()
	if _, err := sOff.VerifyMemory(hdr, "hierarch-off"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if hasCode(*diagsOff, verify.CodeDuplicateKeyword) {
		t.Fatalf("test_hierarch off: did not expect CodeDuplicateKeyword among %v", *diagsOff)
	}

	sOn, diagsOn := collect()
	sOn.Options.TestHierarch = true
	if _, err := sOn.VerifyMemory(hdr, "hierarch-on"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if !hasCode(*diagsOn, verify.CodeDuplicateKeyword) {
		t.Fatalf("test_hierarch on: expected CodeDuplicateKeyword among %v", *diagsOn)
	}
}

// A SIMPLE=F primary is reported as a convention warning, not an error
// (spec §4.4.6).
func TestSimpleFalseWarns(t *testing.T) {
	hdr := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(false)},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(0)},
	})
	s, diags := collect()
	result, err := s.VerifyMemory(hdr, "simple-false")
	if err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if !hasCode(*diags, verify.CodeSimpleFalse) {
		t.Fatalf("expected CodeSimpleFalse among %v", *diags)
	}
	_ = result
}
