package verify

import (
	"fmt"

	"github.com/astrogo/fitsverify/internal/reader"
)

// maxRowCount is the row-count guard (spec §4.5): a column with more
// rows than a 32-bit signed count can address is skipped rather than
// iterated, with an info diagnostic recording the skip.
const maxRowCount = 1<<31 - 1

// validateData runs the data validator (spec §4.5) for the current HDU.
func (s *State) validateData(h *reader.Handle, hduIndex int, view *HduView) {
	if s.abort || view == nil {
		return
	}

	htype := view.HDUType.String()

	s.checkFillBytes(h, hduIndex, htype)
	if s.abort {
		return
	}
	s.checkChecksum(h, hduIndex)
	if s.abort {
		return
	}

	if !s.Options.TestData {
		return
	}

	if htype != "TABLE" && htype != "BINTABLE" {
		return
	}

	if view.Naxis >= 2 && view.Axes[1] > maxRowCount {
		s.info(hduIndex, fmt.Sprintf("NAXIS2 = %d exceeds the row-count guard; skipping per-row data checks", view.Axes[1]))
		return
	}

	cols, err := h.Columns()
	if err != nil {
		s.readerErr(h, hduIndex, CodeReader, SeverityError, "failed to read table column layout")
		return
	}

	if htype == "TABLE" {
		s.checkAsciiGaps(h, hduIndex, cols)
	}

	for _, col := range cols {
		s.validateColumn(h, hduIndex, htype, col)
		if s.abort {
			return
		}
	}
}

// validateColumn dispatches a single column's per-row checks by its
// TFORM type code (spec §4.5: bit/logical/char/ascii-float/VLA).
func (s *State) validateColumn(h *reader.Handle, hduIndex int, htype string, col reader.ColumnSpec) {
	if col.TForm.IsVLA {
		s.checkVLAColumn(h, hduIndex, col)
		return
	}
	if htype == "TABLE" {
		s.checkAsciiColumn(h, hduIndex, col)
		return
	}
	switch col.TForm.TypeCode {
	case 'X':
		s.checkBitColumn(h, hduIndex, col)
	case 'L':
		s.checkLogicalColumn(h, hduIndex, col)
	case 'A':
		s.checkCharColumn(h, hduIndex, col)
	}
}

// checkBitColumn implements the 'X' bit-column fill-bit check: unused
// bits past Repeat in the column's final byte must be zero (spec
// §4.5, CodeBitNotJustified).
func (s *State) checkBitColumn(h *reader.Handle, hduIndex int, col reader.ColumnSpec) {
	used := col.TForm.Repeat
	if used <= 0 {
		return
	}
	nbytes := (used + 7) / 8
	unused := nbytes*8 - used
	if unused == 0 {
		return
	}
	mask := byte(1<<uint(unused) - 1)
	for row := int64(0); row < col.NRows; row++ {
		raw := h.RowBytes(col, row)
		if len(raw) < nbytes {
			continue
		}
		last := raw[nbytes-1]
		if last&mask != 0 {
			s.setHintColumn(col.Index + 1)
			s.err(hduIndex, CodeBitNotJustified, SeverityError,
				fmt.Sprintf("column %d (bit): row %d has nonzero fill bits", col.Index+1, row))
			return
		}
	}
}

// checkLogicalColumn implements the 'L' logical-column check: every
// byte must be 'T', 'F', or NUL (spec §4.5, CodeBadLogicalData).
func (s *State) checkLogicalColumn(h *reader.Handle, hduIndex int, col reader.ColumnSpec) {
	for row := int64(0); row < col.NRows; row++ {
		raw := h.RowBytes(col, row)
		for _, b := range raw {
			if b != 'T' && b != 'F' && b != 0 {
				s.setHintColumn(col.Index + 1)
				s.err(hduIndex, CodeBadLogicalData, SeverityError,
					fmt.Sprintf("column %d (logical): row %d has an illegal byte value %d", col.Index+1, row, b))
				return
			}
		}
	}
}

// checkCharColumn implements the 'A' character-column check: bytes
// must be printable ASCII or NUL padding (spec §4.5, CodeNonasciiData).
func (s *State) checkCharColumn(h *reader.Handle, hduIndex int, col reader.ColumnSpec) {
	for row := int64(0); row < col.NRows; row++ {
		raw := h.RowBytes(col, row)
		for _, b := range raw {
			if b == 0 {
				continue
			}
			if b < 32 || b > 126 {
				s.setHintColumn(col.Index + 1)
				s.err(hduIndex, CodeNonasciiData, SeverityError,
					fmt.Sprintf("column %d (char): row %d contains a non-ASCII byte", col.Index+1, row))
				return
			}
		}
	}
}

// checkAsciiColumn implements the ASCII-table numeric-field checks:
// a floating field must contain a decimal point, and no field may
// contain an embedded space between its sign/digits (spec §4.5,
// CodeNoDecimal / CodeEmbeddedSpace).
func (s *State) checkAsciiColumn(h *reader.Handle, hduIndex int, col reader.ColumnSpec) {
	isFloat := col.TForm.TypeCode == 'F' || col.TForm.TypeCode == 'E' || col.TForm.TypeCode == 'D'
	for row := int64(0); row < col.NRows; row++ {
		raw := h.RowBytes(col, row)
		if len(raw) == 0 {
			continue
		}
		text := string(raw)
		trimmed := trimAscii(text)
		if trimmed == "" {
			continue
		}
		if isFloat && !containsByte(trimmed, '.') {
			s.setHintColumn(col.Index + 1)
			s.err(hduIndex, CodeNoDecimal, SeverityError,
				fmt.Sprintf("column %d (ASCII float): row %d is missing a decimal point", col.Index+1, row))
			return
		}
		if col.TForm.TypeCode != 'A' && hasEmbeddedSpace(trimmed) {
			s.setHintColumn(col.Index + 1)
			s.err(hduIndex, CodeEmbeddedSpace, SeverityError,
				fmt.Sprintf("column %d: row %d has an embedded space in its numeric field", col.Index+1, row))
			return
		}
	}
}

func trimAscii(s string) string {
	start, end := 0, len(s)
	for start < end && s[start] == ' ' {
		start++
	}
	for end > start && s[end-1] == ' ' {
		end--
	}
	return s[start:end]
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}

func hasEmbeddedSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return true
		}
	}
	return false
}

// checkVLAColumn implements the variable-length-array checks: the
// descriptor's length must not exceed the column's declared maximum,
// and the referenced heap bytes must not run past the heap area
// (spec §4.5, CodeVarExceedsMaxlen / CodeVarExceedsHeap), plus the
// large-descriptor-should-use-Q-format advisory.
func (s *State) checkVLAColumn(h *reader.Handle, hduIndex int, col reader.ColumnSpec) {
	heap := h.Heap()
	for row := int64(0); row < col.NRows; row++ {
		length, offset, ok := h.ReadDescriptor(col, row)
		if !ok {
			continue
		}
		if col.TForm.MaxVarLen > 0 && length > int64(col.TForm.MaxVarLen) {
			pOrQ := byte('P')
			if col.TForm.Is64 {
				pOrQ = 'Q'
			}
			replacement := fmt.Sprintf("1%c%c(%d)", pOrQ, col.TForm.TypeCode, length)
			s.setHintColumn(col.Index + 1)
			s.overrideFix(fmt.Sprintf("widen TFORM%d to %s", col.Index+1, replacement))
			s.err(hduIndex, CodeVarExceedsMaxlen, SeverityError,
				fmt.Sprintf("column %d: row %d's descriptor length %d exceeds the declared maximum %d", col.Index+1, row, length, col.TForm.MaxVarLen))
			continue
		}
		elemSize := int64(col.TForm.ElemSize)
		if elemSize == 0 {
			elemSize = 1
		}
		need := offset + length*elemSize
		if need > int64(len(heap)) {
			s.setHintColumn(col.Index + 1)
			s.err(hduIndex, CodeVarExceedsHeap, SeverityError,
				fmt.Sprintf("column %d: row %d's descriptor reaches past the heap area", col.Index+1, row))
			continue
		}
		if !col.TForm.Is64 && length > 1<<31-1 {
			s.setHintColumn(col.Index + 1)
			s.warn(hduIndex, CodeVarExceeds32Bit, fmt.Sprintf("column %d: row %d's length approaches the 32-bit P-descriptor limit", col.Index+1, row), true)
		}
	}
}

// checkAsciiGaps implements the ASCII-table gap-byte check: bytes
// between declared column fields must be printable ASCII (spec
// §4.5, CodeAsciiGap / CodeNonasciiTable).
func (s *State) checkAsciiGaps(h *reader.Handle, hduIndex int, cols []reader.ColumnSpec) {
	if len(cols) == 0 {
		return
	}
	rowsz := cols[0].RowSize
	nrows := cols[0].NRows
	data := h.DataSection()
	for row := int64(0); row < nrows; row++ {
		rowStart := row * rowsz
		if rowStart+rowsz > int64(len(data)) {
			break
		}
		covered := make([]bool, rowsz)
		for _, c := range cols {
			for i := c.Offset; i < c.Offset+int64(c.TForm.Width) && i < rowsz; i++ {
				covered[i] = true
			}
		}
		for i, isCol := range covered {
			b := data[rowStart+int64(i)]
			if isCol {
				if b > 127 {
					s.err(hduIndex, CodeNonasciiTable, SeverityError,
						fmt.Sprintf("row %d has a non-ASCII byte in a column field", row))
					return
				}
				continue
			}
			if b != ' ' && (b < 32 || b > 126) {
				s.err(hduIndex, CodeAsciiGap, SeverityError,
					fmt.Sprintf("row %d has a non-ASCII byte in the inter-column gap", row))
				return
			}
		}
	}
}

// checkFillBytes implements the header/data fill-byte checks (spec
// §4.5, CodeHeaderFill / CodeDataFill). The fill byte is ASCII space
// for headers; for data it is ASCII space for ASCII-table HDUs and
// zero for everything else (IMAGE and BINTABLE both pad with zero).
func (s *State) checkFillBytes(h *reader.Handle, hduIndex int, htype string) {
	if !s.Options.TestFill {
		return
	}
	for _, b := range h.HeaderFillSection() {
		if b != ' ' {
			s.warn(hduIndex, CodeHeaderFill, "header fill area contains a non-blank byte", false)
			return
		}
	}
	fill := byte(0)
	if htype == "TABLE" {
		fill = ' '
	}
	padded := h.PaddedDataSection()
	data := h.DataSection()
	tail := padded[len(data):]
	for _, b := range tail {
		if b != fill {
			s.warn(hduIndex, CodeDataFill, "data fill area contains an unexpected byte", false)
			return
		}
	}
}

// checkChecksum implements the CHECKSUM/DATASUM verification (spec
// §4.5, CodeBadChecksum).
func (s *State) checkChecksum(h *reader.Handle, hduIndex int) {
	if !s.Options.TestChecksum {
		return
	}
	dataOk, hduOk := h.VerifyChecksum()
	if !dataOk {
		s.warn(hduIndex, CodeBadChecksum, "DATASUM does not match the computed data checksum", false)
	}
	if !hduOk {
		s.warn(hduIndex, CodeBadChecksum, "CHECKSUM does not verify for this HDU", false)
	}
}
