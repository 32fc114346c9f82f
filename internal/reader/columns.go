package reader

import (
	"encoding/binary"
	"fmt"
)

// ColumnSpec describes one table column's position and shape, enough
// for the data validator to drive per-row checks without parsing the
// header itself again.
type ColumnSpec struct {
	Index   int // 0-based
	Name    string
	Form    string
	TForm   TForm
	Offset  int64 // byte offset within a row (binary) or TBCOL-1 (ascii)
	RowSize int64
	NRows   int64
}

// Columns builds the ColumnSpec list for the current HDU (a table),
// computing fixed-row offsets the way the teacher's table.go assigns
// column offsets when building a Table from header cards.
func (h *Handle) Columns() ([]ColumnSpec, error) {
	if h.cur < 0 || h.cur >= len(h.hdus) {
		return nil, fmt.Errorf("reader: no current HDU")
	}
	info := h.hdus[h.cur]
	binary := info.htype.String() == "BINTABLE"
	ascii := info.htype.String() == "TABLE"
	if !binary && !ascii {
		return nil, fmt.Errorf("reader: HDU is not a table")
	}
	rowsz := findInt(info.cards, "NAXIS1", 0)
	nrows := findInt(info.cards, "NAXIS2", 0)
	n := int(info.tfields)
	specs := make([]ColumnSpec, 0, n)
	offset := int64(0)
	for i := 1; i <= n; i++ {
		name, _ := findStr(info.cards, fmt.Sprintf("TTYPE%d", i))
		form, _ := findStr(info.cards, fmt.Sprintf("TFORM%d", i))
		spec := ColumnSpec{Index: i - 1, Name: name, Form: form, RowSize: rowsz, NRows: nrows}
		if binary {
			spec.TForm = ParseTForm(form)
			spec.Offset = offset
			if spec.TForm.IsVLA {
				if spec.TForm.Is64 {
					offset += 16
				} else {
					offset += 8
				}
			} else {
				offset += int64(spec.TForm.ElemSize * spec.TForm.Repeat)
			}
		} else {
			spec.TForm = ParseAsciiTForm(form)
			tbcol := findInt(info.cards, fmt.Sprintf("TBCOL%d", i), 0)
			spec.Offset = tbcol - 1
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func findStr(cards []RawCard, name string) (string, bool) {
	for _, c := range cards {
		if c.Name() == name {
			return c.StrValue()
		}
	}
	return "", false
}

// RowBytes returns the raw bytes of column col in row (0-based) of
// the current HDU's fixed table area.
func (h *Handle) RowBytes(col ColumnSpec, row int64) []byte {
	data := h.DataSection()
	base := row*col.RowSize + col.Offset
	size := int64(col.TForm.ElemSize * col.TForm.Repeat)
	if col.TForm.IsVLA {
		if col.TForm.Is64 {
			size = 16
		} else {
			size = 8
		}
	}
	if col.TForm.Width > 0 { // ASCII column
		size = int64(col.TForm.Width)
	}
	if base < 0 || base+size > int64(len(data)) {
		return nil
	}
	return data[base : base+size]
}

// ReadDescriptor implements read_descriptor(handle, col, row): the
// (length, heap_offset) pair for a variable-length array column,
// mirroring the teacher's column.go readBin slice branch.
func (h *Handle) ReadDescriptor(col ColumnSpec, row int64) (length int64, heapOffset int64, ok bool) {
	raw := h.RowBytes(col, row)
	if raw == nil || !col.TForm.IsVLA {
		return 0, 0, false
	}
	if col.TForm.Is64 {
		if len(raw) < 16 {
			return 0, 0, false
		}
		length = int64(binary.BigEndian.Uint64(raw[0:8]))
		heapOffset = int64(binary.BigEndian.Uint64(raw[8:16]))
	} else {
		if len(raw) < 8 {
			return 0, 0, false
		}
		length = int64(int32(binary.BigEndian.Uint32(raw[0:4])))
		heapOffset = int64(int32(binary.BigEndian.Uint32(raw[4:8])))
	}
	return length, heapOffset, true
}

// Heap returns the current HDU's heap area (the bytes of the data
// section beyond the fixed table, where THEAP/PCOUNT says it starts).
func (h *Handle) Heap() []byte {
	if h.cur < 0 || h.cur >= len(h.hdus) {
		return nil
	}
	info := h.hdus[h.cur]
	theap, ok := findStrInt(info.cards, "THEAP")
	rowsz := findInt(info.cards, "NAXIS1", 0)
	nrows := findInt(info.cards, "NAXIS2", 0)
	start := rowsz * nrows
	if ok {
		start = theap
	}
	data := h.DataSection()
	if start < 0 || start > int64(len(data)) {
		return nil
	}
	return data[start:]
}

func findStrInt(cards []RawCard, name string) (int64, bool) {
	for _, c := range cards {
		if c.Name() == name {
			return c.IntValue()
		}
	}
	return 0, false
}

// IterateColumns implements iterate_columns(handle, specs, batch_cb):
// the reader drives a row-ordered walk over each requested column and
// yields its raw bytes to a single caller-supplied worker, one row at
// a time. A real CFITSIO-backed reader would batch several rows per
// callback; an in-memory reader has no I/O latency to amortize, so
// each call is one row, which satisfies the same contract.
func (h *Handle) IterateColumns(specs []ColumnSpec, cb func(spec ColumnSpec, row int64, raw []byte)) {
	if len(specs) == 0 {
		return
	}
	nrows := specs[0].NRows
	for row := int64(0); row < nrows; row++ {
		for _, spec := range specs {
			cb(spec, row, h.RowBytes(spec, row))
		}
	}
}
