package reader

import (
	"strconv"
	"strings"
)

// TForm is the decoded shape of a TFORMn value, the return of
// parse_tform(handle, col, form_string) in SPEC_FULL.md §10.1. It is
// adapted from the teacher's typeFromForm/txtfmtFromForm (utils.go),
// narrowed to the fields the data validator actually needs: a type
// code, the fixed repeat count, the per-element byte size, and —for
// variable-length columns— the declared maximum length.
type TForm struct {
	TypeCode  byte // one of LXBIJKAEDCM (binary; a VLA column's element type) or AIFEDG (ASCII)
	Repeat    int  // fixed repeat count; 0 for a VLA column
	ElemSize  int  // bytes per element in the fixed table row
	IsVLA     bool
	Is64      bool // Q descriptor (8-byte) vs P (4-byte)
	MaxVarLen int  // declared max length for a VLA column, 0 if unspecified
	Width     int  // ASCII column field width
	Decimals  int  // ASCII column decimal places (F/E/D/G)
}

// binElemSize is the teacher's g_fits2tc table, narrowed to sizes.
var binElemSize = map[byte]int{
	'L': 1, 'X': 1, 'B': 1, 'I': 2, 'J': 4, 'K': 8,
	'A': 1, 'E': 4, 'D': 8, 'C': 8, 'M': 16,
}

// ParseTForm parses a binary-table TFORM string such as "16A", "1PE(5)",
// or "1QD(100)".
func ParseTForm(form string) TForm {
	form = strings.TrimSpace(form)
	var tf TForm
	i := 0
	for i < len(form) && (form[i] == '+' || form[i] == '-' || (form[i] >= '0' && form[i] <= '9')) {
		i++
	}
	repeatStr := form[:i]
	if i >= len(form) {
		return tf
	}
	rest := form[i:]
	if len(rest) >= 1 && (rest[0] == 'P' || rest[0] == 'Q') {
		tf.IsVLA = true
		tf.Is64 = rest[0] == 'Q'
		if len(rest) < 2 {
			return tf
		}
		tf.TypeCode = rest[1]
		tf.ElemSize = binElemSize[tf.TypeCode]
		if lp := strings.IndexByte(rest, '('); lp >= 0 {
			if rp := strings.IndexByte(rest[lp:], ')'); rp >= 0 {
				n, err := strconv.Atoi(rest[lp+1 : lp+rp])
				if err == nil {
					tf.MaxVarLen = n
				}
			}
		}
		return tf
	}
	tf.TypeCode = rest[0]
	tf.ElemSize = binElemSize[tf.TypeCode]
	repeat := 1
	if repeatStr != "" {
		if n, err := strconv.Atoi(repeatStr); err == nil {
			repeat = n
		}
	}
	tf.Repeat = repeat
	return tf
}

// ParseAsciiTForm parses an ASCII-table TFORM string such as "F10.3",
// "I6", or "A8".
func ParseAsciiTForm(form string) TForm {
	form = strings.TrimSpace(form)
	var tf TForm
	if form == "" {
		return tf
	}
	tf.TypeCode = form[0]
	rest := form[1:]
	widthStr := rest
	decStr := ""
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		widthStr = rest[:dot]
		decStr = rest[dot+1:]
	}
	if n, err := strconv.Atoi(widthStr); err == nil {
		tf.Width = n
	}
	if decStr != "" {
		if n, err := strconv.Atoi(decStr); err == nil {
			tf.Decimals = n
		}
	}
	tf.Repeat = 1
	return tf
}
