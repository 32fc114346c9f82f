package verify_test

import (
	"strings"
	"testing"

	"github.com/astrogo/fitsverify/internal/fitstest"
	"github.com/astrogo/fitsverify/verify"
)

func minimalImage() []byte {
	hdr := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Int(16)},
		{Name: "NAXIS", Value: fitstest.Int(2)},
		{Name: "NAXIS1", Value: fitstest.Int(10)},
		{Name: "NAXIS2", Value: fitstest.Int(10)},
	})
	data := fitstest.Data(make([]byte, 200), 0)
	return append(hdr, data...)
}

func collectingState() (*verify.State, *[]verify.Diagnostic) {
	s := verify.NewState()
	var diags []verify.Diagnostic
	s.SetOutput(func(d verify.Diagnostic, _ interface{}) {
		diags = append(diags, d)
	}, nil)
	return s, &diags
}

// A minimal, well-formed single-HDU image should verify clean: no
// errors, no warnings (spec §8 scenario 1).
func TestVerifyMemoryMinimalImageClean(t *testing.T) {
	s, diags := collectingState()
	result, err := s.VerifyMemory(minimalImage(), "minimal")
	if err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if result.NumErrors != 0 || result.NumWarnings != 0 {
		t.Fatalf("minimal image: got %d errors, %d warnings; want 0, 0 (%v)", result.NumErrors, result.NumWarnings, *diags)
	}
	if result.NumHDUs != 1 {
		t.Fatalf("NumHDUs = %d, want 1", result.NumHDUs)
	}
	if result.Aborted {
		t.Fatalf("minimal image: got Aborted=true")
	}
}

// A non-conforming BITPIX value is rejected with an error, not a panic
// (spec §8 scenario 2; §4.4.2 mandatory-value check).
func TestVerifyMemoryCorruptBitpix(t *testing.T) {
	hdr := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Int(17)},
		{Name: "NAXIS", Value: fitstest.Int(0)},
	})
	s, diags := collectingState()
	result, err := s.VerifyMemory(hdr, "bad-bitpix")
	if err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if result.NumErrors == 0 {
		t.Fatalf("corrupt BITPIX: expected at least one error, got none (%v)", *diags)
	}
	foundBitpix := false
	for _, d := range *diags {
		if d.Code == verify.CodeWrongType || d.Code == verify.CodeKeywordValue {
			foundBitpix = true
		}
	}
	if !foundBitpix {
		t.Fatalf("corrupt BITPIX: no keyword-value diagnostic among %v", *diags)
	}
}

// A reader that cannot even open the stream returns a non-nil error
// and a populated, aborted FileResult (spec §6.2's status-vs-aborted
// split; spec §8 "open failure never panics").
func TestVerifyMemoryEmptyBuffer(t *testing.T) {
	s, _ := collectingState()
	result, err := s.VerifyMemory(nil, "empty")
	if err == nil {
		t.Fatalf("VerifyMemory(nil): expected a non-nil error")
	}
	if !result.Aborted {
		t.Fatalf("VerifyMemory(nil): expected Aborted=true in the result")
	}
}

// Duplicate EXTNAME/EXTVER pairs across extension HDUs are flagged at
// the file level (spec §8 scenario 3, §4.6).
func TestVerifyMemoryDuplicateExtname(t *testing.T) {
	primary := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(0)},
		{Name: "EXTEND", Value: fitstest.Bool(true)},
	})
	ext := func() []byte {
		hdr := fitstest.Header([]fitstest.Card{
			{Name: "XTENSION", Value: fitstest.Str("IMAGE")},
			{Name: "BITPIX", Value: fitstest.Int(8)},
			{Name: "NAXIS", Value: fitstest.Int(0)},
			{Name: "PCOUNT", Value: fitstest.Int(0)},
			{Name: "GCOUNT", Value: fitstest.Int(1)},
			{Name: "EXTNAME", Value: fitstest.Str("SCI")},
			{Name: "EXTVER", Value: fitstest.Int(1)},
		})
		return hdr
	}

	buf := append([]byte{}, primary...)
	buf = append(buf, ext()...)
	buf = append(buf, ext()...)

	s, diags := collectingState()
	result, err := s.VerifyMemory(buf, "dup-extname")
	if err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if result.NumHDUs != 3 {
		t.Fatalf("NumHDUs = %d, want 3", result.NumHDUs)
	}
	found := false
	for _, d := range *diags {
		if d.Code == verify.CodeDuplicateExtname {
			found = true
			if d.Severity != verify.SeverityWarning {
				t.Fatalf("CodeDuplicateExtname: got severity %v, want SeverityWarning", d.Severity)
			}
		}
	}
	if !found {
		t.Fatalf("duplicate EXTNAME/EXTVER: no CodeDuplicateExtname diagnostic among %v", *diags)
	}

	// error_report=1 (errors-and-above) suppresses the warning entirely
	// (spec §8 scenario 3: "with error_report=1 no diagnostic is
	// delivered").
	s2, diags2 := collectingState()
	s2.Options.ErrorReport = verify.ErrorReportErrors
	if _, err := s2.VerifyMemory(buf, "dup-extname-floor"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	for _, d := range *diags2 {
		if d.Code == verify.CodeDuplicateExtname {
			t.Fatalf("error_report=errors should suppress the duplicate-extname warning, got %v", d)
		}
	}
}

// Two HDUs that share EXTNAME/EXTVER but differ in HDU type (IMAGE vs
// BINTABLE) are not a conflict (spec §4.6).
func TestVerifyMemoryDuplicateExtnameDifferentTypeNotFlagged(t *testing.T) {
	primary := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(0)},
		{Name: "EXTEND", Value: fitstest.Bool(true)},
	})
	imageExt := fitstest.Header([]fitstest.Card{
		{Name: "XTENSION", Value: fitstest.Str("IMAGE")},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(0)},
		{Name: "PCOUNT", Value: fitstest.Int(0)},
		{Name: "GCOUNT", Value: fitstest.Int(1)},
		{Name: "EXTNAME", Value: fitstest.Str("SCI")},
		{Name: "EXTVER", Value: fitstest.Int(1)},
	})
	tableExt := fitstest.Header([]fitstest.Card{
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
		{Name: "EXTNAME", Value: fitstest.Str("SCI")},
		{Name: "EXTVER", Value: fitstest.Int(1)},
	})

	buf := append([]byte{}, primary...)
	buf = append(buf, imageExt...)
	buf = append(buf, tableExt...)
	buf = append(buf, fitstest.Data(make([]byte, 4), 0)...)

	s, diags := collectingState()
	if _, err := s.VerifyMemory(buf, "dup-extname-diff-type"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	for _, d := range *diags {
		if d.Code == verify.CodeDuplicateExtname {
			t.Fatalf("IMAGE/BINTABLE with matching EXTNAME/EXTVER should not conflict, got %v", *diags)
		}
	}
}

// A fix hint names both the offending keyword and the HDU it belongs
// to (spec §8 scenario 2).
func TestFixHintNamesKeywordAndHDU(t *testing.T) {
	hdr := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Str("SIXTEEN")},
		{Name: "NAXIS", Value: fitstest.Int(0)},
	})
	s, diags := collectingState()
	s.Options.FixHints = true
	if _, err := s.VerifyMemory(hdr, "bitpix-hint"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	var hint string
	for _, d := range *diags {
		if d.Code == verify.CodeKeywordType {
			hint = d.FixHint
		}
	}
	if hint == "" {
		t.Fatalf("no CodeKeywordType fix hint found among %v", *diags)
	}
	if !strings.Contains(hint, "BITPIX") || !strings.Contains(hint, "HDU 1") {
		t.Fatalf("fix hint %q does not mention both BITPIX and HDU 1", hint)
	}
}

// error_report floors suppress warnings/errors exactly as documented
// (spec §4.1, §8's "round-trip" property).
func TestErrorReportFloorsSuppressWarnings(t *testing.T) {
	hdr := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Int(16)},
		{Name: "NAXIS", Value: fitstest.Int(0)},
		{Name: "EPOCH", Value: fitstest.Float(2000.0)},
	})

	s, diags := collectingState()
	s.Options.ErrorReport = verify.ErrorReportAll
	if _, err := s.VerifyMemory(hdr, "epoch"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	sawWarningAtFloorAll := false
	for _, d := range *diags {
		if d.Code == verify.CodeDeprecated {
			sawWarningAtFloorAll = true
		}
	}
	if !sawWarningAtFloorAll {
		t.Fatalf("expected a deprecated-keyword warning at error_report=all, got %v", *diags)
	}

	s2, diags2 := collectingState()
	s2.Options.ErrorReport = verify.ErrorReportSevere
	if _, err := s2.VerifyMemory(hdr, "epoch"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	for _, d := range *diags2 {
		if d.Code == verify.CodeDeprecated {
			t.Fatalf("error_report=severe should suppress warning-level diagnostics, got %v", d)
		}
	}
}

// A file made of a single-block header (2880 bytes, END followed by
// blank padding) and a data unit padded to a whole block ends exactly
// where its last HDU ends, so no extra-bytes diagnostic is reported
// (spec §8's exact-block-boundary property).
func TestExactBlockHeaderNoTrailingBytesDiagnostic(t *testing.T) {
	s, diags := collectingState()
	result, err := s.VerifyMemory(minimalImage(), "exact-block")
	if err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if result.Aborted {
		t.Fatalf("unexpected abort: %v", *diags)
	}
	for _, d := range *diags {
		if d.Code == verify.CodeExtraBytes || d.Code == verify.CodeExtraHDUs {
			t.Fatalf("exact-block file: unexpected trailing-bytes diagnostic %v", d)
		}
	}
}

// A stray byte past the last HDU's data is reported, distinguishing
// off-by-one trailing bytes from a clean boundary (spec §8).
func TestTrailingByteDetected(t *testing.T) {
	buf := append([]byte{}, minimalImage()...)
	buf = append(buf, 0)

	s, diags := collectingState()
	if _, err := s.VerifyMemory(buf, "trailing-byte"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	found := false
	for _, d := range *diags {
		if d.Code == verify.CodeExtraBytes {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CodeExtraBytes for one stray trailing byte, got %v", *diags)
	}
}

// GetTotals accumulates across repeated Verify* calls on the same
// State (spec §6.2's session-totals contract).
func TestGetTotalsAccumulatesAcrossCalls(t *testing.T) {
	s := verify.NewState()
	s.SetOutput(func(verify.Diagnostic, interface{}) {}, nil)

	if _, err := s.VerifyMemory(minimalImage(), "a"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	errs1, warns1 := s.GetTotals()

	hdrBadBitpix := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Int(17)},
		{Name: "NAXIS", Value: fitstest.Int(0)},
	})
	if _, err := s.VerifyMemory(hdrBadBitpix, "b"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	errs2, warns2 := s.GetTotals()

	if errs2 <= errs1 {
		t.Fatalf("session error total did not grow: %d -> %d", errs1, errs2)
	}
	_ = warns1
	_ = warns2
}
