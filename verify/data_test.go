package verify_test

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/astrogo/fitsverify/internal/fitstest"
	"github.com/astrogo/fitsverify/verify"
)

func bintableWithOneLogicalColumn(rowByte byte) []byte {
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
		{Name: "TFORM1", Value: fitstest.Str("1L")},
	})
	buf := append([]byte{}, primary...)
	buf = append(buf, ext...)
	buf = append(buf, fitstest.Data([]byte{rowByte}, 0)...)
	return buf
}

// A logical ('L') column byte outside {T, F, NUL} is flagged (spec
// §4.5, CodeBadLogicalData).
func TestLogicalColumnBadByte(t *testing.T) {
	s, diags := collect()
	if _, err := s.VerifyMemory(bintableWithOneLogicalColumn('X'), "bad-logical"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if !hasCode(*diags, verify.CodeBadLogicalData) {
		t.Fatalf("expected CodeBadLogicalData among %v", *diags)
	}
}

// A conforming logical column ('T') produces no data diagnostics.
func TestLogicalColumnClean(t *testing.T) {
	s, diags := collect()
	result, err := s.VerifyMemory(bintableWithOneLogicalColumn('T'), "good-logical")
	if err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if hasCode(*diags, verify.CodeBadLogicalData) {
		t.Fatalf("unexpected CodeBadLogicalData among %v", *diags)
	}
	if result.NumErrors != 0 {
		t.Fatalf("NumErrors = %d, want 0 (%v)", result.NumErrors, *diags)
	}
}

// test_data=false disables per-column data checks entirely (spec
// §6.2's option contract).
func TestDataChecksDisabledByOption(t *testing.T) {
	s, diags := collect()
	s.Options.TestData = false
	if _, err := s.VerifyMemory(bintableWithOneLogicalColumn('X'), "disabled"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if hasCode(*diags, verify.CodeBadLogicalData) {
		t.Fatalf("test_data=false should suppress CodeBadLogicalData, got %v", *diags)
	}
}

func asciiTableOneColumn(fillByte byte) []byte {
	primary := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(0)},
		{Name: "EXTEND", Value: fitstest.Bool(true)},
	})
	ext := fitstest.Header([]fitstest.Card{
		{Name: "XTENSION", Value: fitstest.Str("TABLE")},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(2)},
		{Name: "NAXIS1", Value: fitstest.Int(4)},
		{Name: "NAXIS2", Value: fitstest.Int(1)},
		{Name: "PCOUNT", Value: fitstest.Int(0)},
		{Name: "GCOUNT", Value: fitstest.Int(1)},
		{Name: "TFIELDS", Value: fitstest.Int(1)},
		{Name: "TTYPE1", Value: fitstest.Str("VAL")},
		{Name: "TFORM1", Value: fitstest.Str("I4")},
		{Name: "TBCOL1", Value: fitstest.Int(1)},
	})
	buf := append([]byte{}, primary...)
	buf = append(buf, ext...)
	// One row of 4 bytes, exactly filling NAXIS1*NAXIS2; pad the block
	// to 2880 with fillByte to exercise the fill-byte check.
	buf = append(buf, fitstest.Data([]byte("  12"), fillByte)...)
	return buf
}

// An ASCII-table (TABLE) HDU pads its data fill area with spaces, not
// NUL (spec §4.5's type-dependent fill byte).
func TestAsciiTableFillBytesSpacePadded(t *testing.T) {
	s, diags := collect()
	if _, err := s.VerifyMemory(asciiTableOneColumn(' '), "ascii-fill-space"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if hasCode(*diags, verify.CodeDataFill) {
		t.Fatalf("space-padded ASCII table: unexpected CodeDataFill among %v", *diags)
	}
}

func TestAsciiTableFillBytesNulPaddedWarns(t *testing.T) {
	s, diags := collect()
	if _, err := s.VerifyMemory(asciiTableOneColumn(0), "ascii-fill-nul"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	if !hasCode(*diags, verify.CodeDataFill) {
		t.Fatalf("NUL-padded ASCII table: expected CodeDataFill among %v", *diags)
	}
}

// A VLA column whose descriptor length exceeds the declared maximum
// gets a fix hint proposing the exact replacement TFORM (spec §8
// scenario 6).
func TestVLAMaxlenHintProposesReplacementTform(t *testing.T) {
	primary := fitstest.Header([]fitstest.Card{
		{Name: "SIMPLE", Value: fitstest.Bool(true)},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(0)},
		{Name: "EXTEND", Value: fitstest.Bool(true)},
	})
	const heapBytes = 48 // 12 float32 elements
	ext := fitstest.Header([]fitstest.Card{
		{Name: "XTENSION", Value: fitstest.Str("BINTABLE")},
		{Name: "BITPIX", Value: fitstest.Int(8)},
		{Name: "NAXIS", Value: fitstest.Int(2)},
		{Name: "NAXIS1", Value: fitstest.Int(8)},
		{Name: "NAXIS2", Value: fitstest.Int(1)},
		{Name: "PCOUNT", Value: fitstest.Int(heapBytes)},
		{Name: "GCOUNT", Value: fitstest.Int(1)},
		{Name: "TFIELDS", Value: fitstest.Int(1)},
		{Name: "TTYPE1", Value: fitstest.Str("SPEC")},
		{Name: "TFORM1", Value: fitstest.Str("1PE(5)")},
	})

	row := make([]byte, 8)
	binary.BigEndian.PutUint32(row[0:4], 12) // descriptor length, exceeds maxlen 5
	binary.BigEndian.PutUint32(row[4:8], 0)  // heap offset

	raw := append(row, make([]byte, heapBytes)...)

	buf := append([]byte{}, primary...)
	buf = append(buf, ext...)
	buf = append(buf, fitstest.Data(raw, 0)...)

	s, diags := collect()
	s.Options.FixHints = true
	if _, err := s.VerifyMemory(buf, "vla-maxlen"); err != nil {
		t.Fatalf("VerifyMemory: %v", err)
	}
	var hint string
	for _, d := range *diags {
		if d.Code == verify.CodeVarExceedsMaxlen {
			hint = d.FixHint
		}
	}
	if hint == "" {
		t.Fatalf("no CodeVarExceedsMaxlen fix hint found among %v", *diags)
	}
	if !strings.Contains(hint, "1PE(12)") {
		t.Fatalf("fix hint %q does not propose the replacement TFORM 1PE(12)", hint)
	}
}
