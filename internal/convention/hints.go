package convention

// HintEntry is one row of the hint generator's closed keyword
// dictionary (spec §4.8/§9: "~30 entries... a compile-time map or a
// simple search; no dynamic registry").
type HintEntry struct {
	Purpose string
	Section string // FITS Standard section reference
}

// defaultHints is the closed dictionary the hint generator's
// contextual overlay consults. It intentionally stays small: the
// specification forbids growing it into a dynamic registry.
func defaultHints() map[string]HintEntry {
	return map[string]HintEntry{
		"SIMPLE":   {"marks the primary HDU as standard-conforming", "4.4.1.1"},
		"BITPIX":   {"declares the data array's bits-per-pixel type code", "4.4.1.2"},
		"NAXIS":    {"declares the number of data array dimensions", "4.4.1.3"},
		"NAXIS1":   {"declares the length of the first data array axis", "4.4.1.3"},
		"NAXIS2":   {"declares the length of the second data array axis", "4.4.1.3"},
		"EXTEND":   {"announces that extension HDUs may follow", "4.4.1.4"},
		"XTENSION": {"declares an extension HDU's type", "7.1"},
		"PCOUNT":   {"declares the number of heap bytes following the table", "7.2.1"},
		"GCOUNT":   {"declares the group count, almost always 1", "7.2.1"},
		"TFIELDS":  {"declares the number of table columns", "7.2.2"},
		"TTYPE":    {"names a table column", "7.2.3"},
		"TFORM":    {"declares a table column's data type and repeat count", "7.2.5"},
		"TUNIT":    {"declares a table column's physical units", "7.2.6"},
		"TBCOL":    {"declares an ASCII-table column's starting byte", "7.2.4"},
		"TSCAL":    {"declares a table column's linear scale factor", "7.2.7"},
		"TZERO":    {"declares a table column's linear zero offset", "7.2.7"},
		"TNULL":    {"declares a table column's undefined-value marker", "7.2.8"},
		"TDISP":    {"declares a table column's suggested display format", "7.2.9"},
		"TDIM":     {"declares a table column's multidimensional array shape", "7.3.3"},
		"THEAP":    {"declares the heap area's byte offset within the data unit", "7.3.4"},
		"BSCALE":   {"declares an image's linear scale factor", "4.4.2.2"},
		"BZERO":    {"declares an image's linear zero offset", "4.4.2.2"},
		"BUNIT":    {"declares an image's physical units", "4.4.2.4"},
		"BLANK":    {"declares an integer image's undefined-pixel marker", "4.4.2.5"},
		"DATAMAX":  {"records an image's maximum data value", "4.4.2.6"},
		"DATAMIN":  {"records an image's minimum data value", "4.4.2.6"},
		"WCSAXES":  {"declares the number of World Coordinate System axes", "8.1"},
		"CTYPE":    {"declares a WCS axis's coordinate type", "8.2"},
		"CRPIX":    {"declares a WCS axis's reference pixel", "8.2"},
		"CRVAL":    {"declares a WCS axis's reference value", "8.2"},
		"CDELT":    {"declares a WCS axis's coordinate increment", "8.2"},
		"EXTNAME":  {"names an extension HDU", "7.1"},
		"EXTVER":   {"version-numbers an extension HDU", "7.1"},
		"EXTLEVEL": {"hierarchy-levels an extension HDU", "7.1"},
		"CHECKSUM": {"records the encoded checksum of the entire HDU", "J.2"},
		"DATASUM":  {"records the checksum of the HDU's data unit", "J.2"},
		"LONGSTRN": {"announces the OGIP 1.0 long-string convention is in use", "OGIP 90-007"},
		"TIMESYS":  {"declares the time system used by time-valued keywords", "9.1"},
	}
}

// Lookup finds the dictionary entry for a keyword: an exact entry
// (NAXIS1) wins; otherwise any trailing index digits are stripped
// (TTYPE3 -> TTYPE) so indexed keyword families share one root entry.
func (t *Table) Lookup(keyword string) (HintEntry, bool) {
	if e, ok := t.Hints[keyword]; ok {
		return e, true
	}
	root := stripIndex(keyword)
	e, ok := t.Hints[root]
	return e, ok
}

func stripIndex(name string) string {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	return name[:i]
}
