// Package convention holds the closed, extensible tables the header
// validator consults for HEASARC-convention warnings and legacy
// XTENSION recognition (spec §4.4.6, §9's "open questions inherited
// from the source").
package convention

// DefaultLegacyXtension is the canonical set of legacy XTENSION values
// spec §9 names: "{A3DTABLE, IUEIMAGE, FOREIGN, DUMP}. Treat as
// canonical and extend only with documented justification."
var DefaultLegacyXtension = []string{"A3DTABLE", "IUEIMAGE", "FOREIGN", "DUMP"}

// ValidTimesys is the closed set of TIMESYS values the header
// validator accepts without a *timesys-value* warning (§4.4.6).
var ValidTimesys = []string{
	"UTC", "TAI", "TDB", "TT", "ET", "UT1", "UT", "TCG", "TCB", "TDT", "IAT", "GPS", "LOCAL",
}

// Table is the resolved set of convention data a verification session
// uses. It starts from the defaults above and may be extended (never
// reduced) by an optional conventions file (Load).
type Table struct {
	LegacyXtension map[string]bool
	ValidTimesys   map[string]bool
	Hints          map[string]HintEntry
}

// Default returns the built-in convention table with no extensions.
func Default() *Table {
	t := &Table{
		LegacyXtension: set(DefaultLegacyXtension),
		ValidTimesys:   set(ValidTimesys),
		Hints:          defaultHints(),
	}
	return t
}

func set(vals []string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

// IsLegacyXtension reports whether name is a recognized legacy
// XTENSION value.
func (t *Table) IsLegacyXtension(name string) bool {
	return t.LegacyXtension[name]
}

// IsValidTimesys reports whether name is an accepted TIMESYS value.
func (t *Table) IsValidTimesys(name string) bool {
	return t.ValidTimesys[name]
}
