package verify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/astrogo/fitsverify/internal/reader"
)

var imageOnlyKeywords = map[string]bool{
	"BSCALE": true, "BZERO": true, "BUNIT": true, "BLANK": true, "DATAMAX": true, "DATAMIN": true,
}

var columnKeywordRoots = map[string]bool{
	"TFIELDS": true, "TTYPE": true, "TFORM": true, "TBCOL": true,
}

var primaryOnlyKeywords = map[string]bool{
	"SIMPLE": true, "EXTEND": true, "BLOCKED": true,
}

// indexedColumnRoots are the <root><n> keyword families step 4 of the
// header validator checks against TFIELDS (spec §4.4.4).
var indexedColumnRoots = []string{
	"TTYPE", "TFORM", "TUNIT", "TSCAL", "TZERO", "TNULL", "TDISP", "TDIM", "TBCOL", "TLMIN", "TLMAX", "TDMIN", "TDMAX",
}

var wcsIndexedRoots = []string{"CTYPE", "CRPIX", "CRVAL", "CDELT", "CROTA", "CUNIT", "CRDER", "CSYER"}
var tableWCSIndexedRoots = []string{"TCTYP", "TCRPX", "TCRVL", "TCDLT", "TCROT", "TCUNI"}

func findCardStr(cards []ParsedCard, name string) string {
	for _, c := range cards {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// validateHeader runs the full header validator (spec §4.4) for the
// current HDU.
func (s *State) validateHeader(h *reader.Handle, hduIndex int, isPrimary bool) *HduView {
	if s.abort {
		return nil
	}
	cards := h.Cards()
	parsed := make([]ParsedCard, 0, len(cards))
	for _, rc := range cards {
		parsed = append(parsed, parseCard(rc, rc.Index))
	}

	mergeContinueCards(parsed)
	if s.Options.TestHierarch {
		expandHierarchCards(parsed)
	}

	if s.Options.PrintHeader {
		s.printHeaderListing(hduIndex, cards)
	}

	for _, pc := range parsed {
		s.emitCardErrors(hduIndex, pc)
		if s.abort {
			return nil
		}
	}

	view := &HduView{NameIndex: map[string][]int{}, HDUType: h.CurrentType()}
	for i, pc := range parsed {
		if pc.Kind == KindCommentary || pc.Name == "" {
			continue
		}
		view.NameIndex[pc.Name] = append(view.NameIndex[pc.Name], i)
	}
	view.Cards = parsed
	view.Bitpix, _ = intOr(h.ReadKeywordInt("BITPIX"))
	naxis64, _ := h.ReadKeywordInt("NAXIS")
	view.Naxis = int(naxis64)
	for i := 1; i <= view.Naxis; i++ {
		v, _ := h.ReadKeywordInt(fmt.Sprintf("NAXIS%d", i))
		view.Axes = append(view.Axes, v)
	}
	view.Pcount, _ = h.ReadKeywordInt("PCOUNT")
	view.Gcount, _ = h.ReadKeywordInt("GCOUNT")
	if view.Gcount == 0 {
		view.Gcount = 1
	}
	view.Tfields, _ = h.ReadKeywordInt("TFIELDS")
	for i := int64(1); i <= view.Tfields; i++ {
		view.TType = append(view.TType, findCardStr(parsed, fmt.Sprintf("TTYPE%d", i)))
		view.TForm = append(view.TForm, findCardStr(parsed, fmt.Sprintf("TFORM%d", i)))
		view.TUnit = append(view.TUnit, findCardStr(parsed, fmt.Sprintf("TUNIT%d", i)))
	}
	if v, ok := findCardBool(parsed, "GROUPS"); ok && v && len(view.Axes) > 0 && view.Axes[0] == 0 {
		view.IsRandomGroups = true
	}
	if _, ok := findCardStr2(parsed, "LONGSTRN"); ok {
		view.UseLongstring = true
	}

	s.checkMandatorySequence(hduIndex, view, isPrimary)
	if s.abort {
		return view
	}
	s.checkPlacement(hduIndex, view, isPrimary)
	s.checkIndexedColumns(hduIndex, view)
	s.checkWCS(hduIndex, view)
	s.checkConventions(hduIndex, view, isPrimary)
	return view
}

func intOr(v int64, ok bool) (int, bool) { return int(v), ok }

func findCardBool(cards []ParsedCard, name string) (bool, bool) {
	for _, c := range cards {
		if c.Name == name {
			return c.BoolVal, c.Kind == KindLogical
		}
	}
	return false, false
}

func findCardStr2(cards []ParsedCard, name string) (string, bool) {
	for _, c := range cards {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// mandatorySequence builds the expected prefix of mandatory keywords
// for an HDU (spec §4.4.2).
func mandatorySequence(view *HduView, isPrimary bool) []string {
	var seq []string
	switch {
	case isPrimary:
		seq = append(seq, "SIMPLE", "BITPIX", "NAXIS")
	default:
		seq = append(seq, "XTENSION", "BITPIX", "NAXIS")
	}
	for i := 1; i <= view.Naxis; i++ {
		seq = append(seq, fmt.Sprintf("NAXIS%d", i))
	}
	if isPrimary {
		seq = append(seq, "END")
		return seq
	}
	seq = append(seq, "PCOUNT", "GCOUNT")
	if t := view.HDUType.String(); t == "TABLE" || t == "BINTABLE" {
		seq = append(seq, "TFIELDS")
	}
	seq = append(seq, "END")
	return seq
}

// checkMandatorySequence implements spec §4.4.2: missing / out-of-order
// / duplicated / illegal-value / wrong-type / not-fixed-format, with
// one diagnostic per mandatory slot.
func (s *State) checkMandatorySequence(hduIndex int, view *HduView, isPrimary bool) {
	seq := mandatorySequence(view, isPrimary)
	seen := map[string]bool{}
	pos := map[string]int{}
	for i, pc := range view.Cards {
		if !seen[pc.Name] {
			pos[pc.Name] = i
		}
		seen[pc.Name] = true
	}

	last := -1
	for _, want := range seq {
		idxs := view.NameIndex[want]
		if want == "END" {
			found := false
			for _, pc := range view.Cards {
				if pc.Name == "END" {
					found = true
				}
			}
			if !found {
				s.setHintKeyword("END")
				s.err(hduIndex, CodeMissingKeyword, SeveritySevere, "missing mandatory END card")
			}
			continue
		}
		if len(idxs) == 0 {
			s.setHintKeyword(want)
			s.err(hduIndex, CodeMissingKeyword, SeverityError, fmt.Sprintf("missing mandatory keyword %s", want))
			continue
		}
		p := pos[want]
		switch {
		case len(idxs) > 1:
			s.setHintKeyword(want)
			s.err(hduIndex, CodeKeywordDuplicate, SeverityError, fmt.Sprintf("mandatory keyword %s is duplicated", want))
		case p < last:
			s.setHintKeyword(want)
			s.err(hduIndex, CodeKeywordOrder, SeverityError, fmt.Sprintf("%s is out of the mandatory keyword order", want))
		default:
			s.checkMandatoryValue(hduIndex, view, want)
		}
		last = p
	}
}

func (s *State) checkMandatoryValue(hduIndex int, view *HduView, name string) {
	pc := cardByName(view, name)
	if pc == nil {
		return
	}
	switch name {
	case "SIMPLE":
		if !s.requireMandatoryKind(hduIndex, *pc, KindLogical) {
			return
		}
		if !pc.FixedFormatOK {
			s.setHintKeyword(name)
			s.warn(hduIndex, CodeNotFixedFormat, "SIMPLE is not in fixed format", false)
		}
	case "XTENSION":
		s.requireMandatoryKind(hduIndex, *pc, KindString)
	case "BITPIX":
		if s.requireMandatoryKind(hduIndex, *pc, KindInteger) {
			switch pc.IntVal {
			case 8, 16, 32, 64, -32, -64:
			default:
				s.setHintKeyword(name)
				s.err(hduIndex, CodeKeywordValue, SeverityError, fmt.Sprintf("BITPIX has an illegal value %d", pc.IntVal))
			}
		}
	case "NAXIS", "PCOUNT", "GCOUNT", "TFIELDS":
		s.requireMandatoryKind(hduIndex, *pc, KindInteger)
	default:
		if strings.HasPrefix(name, "NAXIS") {
			s.requireMandatoryKind(hduIndex, *pc, KindInteger)
		}
	}
}

func cardByName(view *HduView, name string) *ParsedCard {
	idxs := view.NameIndex[name]
	if len(idxs) == 0 {
		return nil
	}
	return &view.Cards[idxs[0]]
}

// checkPlacement implements spec §4.4.3.
func (s *State) checkPlacement(hduIndex int, view *HduView, isPrimary bool) {
	htype := view.HDUType.String()
	for name := range view.NameIndex {
		root := stripDigits(name)
		switch {
		case isPrimary && name == "XTENSION":
			s.setHintKeyword(name)
			s.err(hduIndex, CodeXtensionInPrimary, SeverityError, "XTENSION must not appear in the primary HDU")
		case !isPrimary && primaryOnlyKeywords[name]:
			s.setHintKeyword(name)
			s.err(hduIndex, CodePrimaryKeyInExt, SeverityError, fmt.Sprintf("%s is a primary-HDU-only keyword", name))
		case imageOnlyKeywords[name] && (htype == "TABLE" || htype == "BINTABLE"):
			s.setHintKeyword(name)
			s.err(hduIndex, CodeImageKeyInTable, SeverityError, fmt.Sprintf("%s is an image-only keyword", name))
		case columnKeywordRoots[root] && htype == "IMAGE":
			s.setHintKeyword(name)
			s.err(hduIndex, CodeTableKeyInImage, SeverityError, fmt.Sprintf("%s is a table-column keyword", name))
		case containsRoot(tableWCSIndexedRoots, root) && htype == "IMAGE":
			s.setHintKeyword(name)
			s.err(hduIndex, CodeTableWCSInImage, SeverityError, fmt.Sprintf("%s is a table-form WCS keyword", name))
		}
	}
}

func containsRoot(roots []string, root string) bool {
	for _, r := range roots {
		if r == root {
			return true
		}
	}
	return false
}

// stripDigits removes a trailing decimal index from a keyword name,
// e.g. "TTYPE12" -> "TTYPE".
func stripDigits(name string) string {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	return name[:i]
}

func indexSuffix(name, root string) (int, bool) {
	if !strings.HasPrefix(name, root) {
		return 0, false
	}
	suffix := name[len(root):]
	if suffix == "" {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}

// checkIndexedColumns implements spec §4.4.4.
func (s *State) checkIndexedColumns(hduIndex int, view *HduView) {
	htype := view.HDUType.String()
	for name := range view.NameIndex {
		for _, root := range indexedColumnRoots {
			n, ok := indexSuffix(name, root)
			if !ok {
				continue
			}
			if int64(n) > view.Tfields {
				s.setHintKeyword(name)
				s.setHintColumn(n)
				s.err(hduIndex, CodeIndexExceedsTFields, SeverityError,
					fmt.Sprintf("%s's index %d exceeds TFIELDS (%d)", name, n, view.Tfields))
			}
			pc := cardByName(view, name)
			if pc == nil {
				continue
			}
			colKind := columnKind(view, n)
			switch root {
			case "TSCAL", "TZERO":
				if colKind == "string" || colKind == "logical" || colKind == "bit" {
					s.setHintKeyword(name)
					s.err(hduIndex, CodeTscalWrongType, SeverityError, fmt.Sprintf("%s may not apply to a %s column", name, colKind))
				}
				s.requireKind(hduIndex, *pc, KindFloat)
			case "TNULL":
				if colKind == "float" {
					s.setHintKeyword(name)
					s.err(hduIndex, CodeTnullWrongType, SeverityError, fmt.Sprintf("%s may not apply to a floating-point column", name))
				} else if pc.Kind == KindInteger {
					if min, max, ok := columnIntRange(binaryColumnTypeCode(view, n)); ok && (pc.IntVal < min || pc.IntVal > max) {
						s.setHintKeyword(name)
						s.setHintColumn(n)
						s.warn(hduIndex, CodeTnullRange, fmt.Sprintf("%s = %d is outside the column's datatype range [%d, %d]", name, pc.IntVal, min, max), false)
					}
				}
			case "TDISP":
				if s.requireKind(hduIndex, *pc, KindString) && !isValidTDISP(pc.Value) {
					s.setHintKeyword(name)
					s.setHintColumn(n)
					s.err(hduIndex, CodeBadTdisp, SeverityError, fmt.Sprintf("%s = %q is not a legal display format", name, pc.Value))
				}
			case "TDIM":
				if htype == "TABLE" {
					s.setHintKeyword(name)
					s.err(hduIndex, CodeTdimInAscii, SeverityError, fmt.Sprintf("%s may not appear in an ASCII table", name))
				}
			case "TBCOL":
				if htype == "BINTABLE" {
					s.setHintKeyword(name)
					s.err(hduIndex, CodeTbcolInBinary, SeverityError, fmt.Sprintf("%s may not appear in a binary table", name))
				}
			}
		}
	}
	if blank := cardByName(view, "BLANK"); blank != nil && htype == "IMAGE" && view.Bitpix < 0 {
		s.setHintKeyword("BLANK")
		s.err(hduIndex, CodeBlankWrongType, SeverityError, "BLANK may not apply to a floating-point image")
	} else if blank := cardByName(view, "BLANK"); blank != nil && htype == "IMAGE" && blank.Kind == KindInteger {
		if min, max, ok := integerRange(view.Bitpix); ok && (blank.IntVal < min || blank.IntVal > max) {
			s.setHintKeyword("BLANK")
			s.warn(hduIndex, CodeTnullRange, fmt.Sprintf("BLANK = %d is outside BITPIX=%d's range [%d, %d]", blank.IntVal, view.Bitpix, min, max), false)
		}
	}
	if theap := cardByName(view, "THEAP"); theap != nil && view.Pcount == 0 {
		s.setHintKeyword("THEAP")
		s.err(hduIndex, CodeTheapNoPcount, SeverityError, "THEAP requires PCOUNT > 0")
	}
}

// columnKind reports a coarse kind string for column n (1-based) of
// the current HDU, used to gate TSCAL/TZERO/TNULL applicability.
func columnKind(view *HduView, n int) string {
	if n < 1 || n > len(view.TForm) {
		return ""
	}
	form := strings.TrimSpace(view.TForm[n-1])
	if form == "" {
		return ""
	}
	code := form[len(form)-1]
	if view.HDUType.String() == "TABLE" {
		switch form[0] {
		case 'A':
			return "string"
		case 'I':
			return "integer"
		default:
			return "float"
		}
	}
	// binary table: the type code may follow a repeat count, or a P/Q
	// VLA marker.
	for i := 0; i < len(form); i++ {
		c := form[i]
		if c == 'P' || c == 'Q' {
			if i+1 < len(form) {
				code = form[i+1]
			}
			break
		}
	}
	switch code {
	case 'A':
		return "string"
	case 'L':
		return "logical"
	case 'X':
		return "bit"
	case 'E', 'D':
		return "float"
	default:
		return "integer"
	}
}

// binaryColumnTypeCode returns column n's (1-based) binary-table TFORM
// type code, looking past a P/Q variable-length marker the way
// columnKind does, for the TNULL range check.
func binaryColumnTypeCode(view *HduView, n int) byte {
	if n < 1 || n > len(view.TForm) {
		return 0
	}
	form := strings.TrimSpace(view.TForm[n-1])
	if form == "" {
		return 0
	}
	code := form[len(form)-1]
	for i := 0; i < len(form); i++ {
		c := form[i]
		if c == 'P' || c == 'Q' {
			if i+1 < len(form) {
				code = form[i+1]
			}
			break
		}
	}
	return code
}

// columnIntRange returns the legal value range for a binary-table
// integer TFORM type code (spec §4.4.6, CodeTnullRange).
func columnIntRange(code byte) (min, max int64, ok bool) {
	switch code {
	case 'B':
		return 0, 255, true
	case 'I':
		return -32768, 32767, true
	case 'J':
		return -1 << 31, 1<<31 - 1, true
	case 'K':
		return -1 << 63, 1<<63 - 1, true
	default:
		return 0, 0, false
	}
}

// integerRange returns the legal value range for an image's BITPIX
// integer datatype (spec §4.4.6, CodeTnullRange applied to BLANK).
func integerRange(bitpix int) (min, max int64, ok bool) {
	switch bitpix {
	case 8:
		return 0, 255, true
	case 16:
		return -32768, 32767, true
	case 32:
		return -1 << 31, 1<<31 - 1, true
	case 64:
		return -1 << 63, 1<<63 - 1, true
	default:
		return 0, 0, false
	}
}

// tdispLetters are the legal leading format letters for a TDISPn
// value (FITS Standard Table 22), excluding the two-letter "EN"/"ES"
// forms handled separately by isValidTDISP.
var tdispLetters = map[byte]bool{
	'A': true, 'I': true, 'O': true, 'Z': true,
	'F': true, 'E': true, 'D': true, 'G': true, 'L': true, 'C': true,
}

// isValidTDISP reports whether s is a legal TDISPn display-format
// token: a format letter (or "EN"/"ES"), an unsigned width, and for
// the decimal forms a '.' followed by an unsigned decimal count (spec
// §4.4.4, CodeBadTdisp).
func isValidTDISP(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	i := 1
	if strings.HasPrefix(s, "EN") || strings.HasPrefix(s, "ES") {
		i = 2
	} else if !tdispLetters[s[0]] {
		return false
	}
	rest := s[i:]
	w := 0
	for w < len(rest) && rest[w] >= '0' && rest[w] <= '9' {
		w++
	}
	if w == 0 {
		return false
	}
	if w == len(rest) {
		return true
	}
	if rest[w] != '.' {
		return false
	}
	dec := rest[w+1:]
	if dec == "" {
		return false
	}
	for k := 0; k < len(dec); k++ {
		if dec[k] < '0' || dec[k] > '9' {
			return false
		}
	}
	return true
}

// expandHierarchCards implements the ESO HIERARCH long-keyword
// convention when test_hierarch is on (SPEC_FULL §12): a HIERARCH
// card's long name (the dotted join of the words between "HIERARCH"
// and its "=" indicator) replaces the literal name "HIERARCH", so
// duplicate-keyword and indexed-column checks see the keyword the
// card actually sets instead of every HIERARCH card colliding under
// one name. With test_hierarch off, HIERARCH cards are left as plain
// commentary (the parser's default).
func expandHierarchCards(parsed []ParsedCard) {
	for i := range parsed {
		pc := &parsed[i]
		if !pc.IsHierarch || pc.Kind != KindCommentary {
			continue
		}
		body := pc.Comment
		eq := strings.Index(body, "=")
		if eq < 0 {
			continue
		}
		longName := strings.ToUpper(strings.Join(strings.Fields(body[:eq]), "."))
		if longName == "" {
			continue
		}
		trimmed := strings.TrimLeft(body[eq+1:], " ")
		pc.Name = longName
		if trimmed == "" {
			pc.Kind = KindUnknown
			continue
		}
		pc.Kind = KindUnknown
		parseValueBody(pc, trimmed, body)
	}
}

// checkWCS implements spec §4.4.5.
func (s *State) checkWCS(hduIndex int, view *HduView) {
	wcsaxes, hasWcsaxes := int64(0), false
	firstWCSPos := -1
	wcsaxesPos := -1
	for i, pc := range view.Cards {
		if pc.Name == "WCSAXES" {
			hasWcsaxes = true
			wcsaxes = pc.IntVal
			wcsaxesPos = i
			continue
		}
		for _, root := range append(append([]string{}, wcsIndexedRoots...), tableWCSIndexedRoots...) {
			if _, ok := indexSuffix(pc.Name, root); ok && firstWCSPos < 0 {
				firstWCSPos = i
			}
		}
	}
	if hasWcsaxes && firstWCSPos >= 0 && firstWCSPos < wcsaxesPos {
		s.setHintKeyword("WCSAXES")
		s.err(hduIndex, CodeWcsaxesOrder, SeverityError, "WCSAXES must precede other WCS keywords")
	}
	limit := int64(view.Naxis)
	if hasWcsaxes && wcsaxes > limit {
		limit = wcsaxes
	}
	for name := range view.NameIndex {
		for _, root := range wcsIndexedRoots {
			if n, ok := indexSuffix(name, root); ok && int64(n) > limit {
				s.setHintKeyword(name)
				s.err(hduIndex, CodeWcsIndex, SeverityError, fmt.Sprintf("%s's axis index %d exceeds %d", name, n, limit))
			}
		}
	}
}

// checkConventions implements spec §4.4.6, the warning-level checks.
func (s *State) checkConventions(hduIndex int, view *HduView, isPrimary bool) {
	if simple := cardByName(view, "SIMPLE"); simple != nil && simple.Kind == KindLogical && !simple.BoolVal {
		s.warn(hduIndex, CodeSimpleFalse, "SIMPLE = F", false)
	}
	for _, deprecated := range []string{"EPOCH", "BLOCKED"} {
		if cardByName(view, deprecated) != nil {
			s.setHintKeyword(deprecated)
			s.warn(hduIndex, CodeDeprecated, fmt.Sprintf("%s is deprecated", deprecated), false)
		}
	}
	if bscale := cardByName(view, "BSCALE"); bscale != nil && bscale.Kind == KindFloat && bscale.FloatVal == 0 {
		s.warn(hduIndex, CodeZeroScale, "BSCALE = 0", false)
	}
	for name, idxs := range view.NameIndex {
		if _, ok := indexSuffix(name, "TSCAL"); ok {
			pc := view.Cards[idxs[0]]
			if pc.Kind == KindFloat && pc.FloatVal == 0 {
				s.setHintKeyword(name)
				s.warn(hduIndex, CodeZeroScale, fmt.Sprintf("%s = 0", name), false)
			}
		}
		if n, ok := indexSuffix(name, "TFORM"); ok {
			pc := view.Cards[idxs[0]]
			checkRAwMultiple(s, hduIndex, n, pc)
		}
		if len(idxs) > 1 && !commentarySet[name] {
			s.setHintKeyword(name)
			s.warn(hduIndex, CodeDuplicateKeyword, fmt.Sprintf("%s is duplicated", name), false)
		}
	}
	if date := cardByName(view, "DATE"); date != nil && date.Kind == KindString {
		checkY2K(s, hduIndex, date.Value)
	}
	if view.UseLongstring {
		// nothing further: LONGSTRN present, no warning needed.
	} else if hasLongStringCard(view) {
		s.warn(hduIndex, CodeMissingLongstrn, "long-string cards present without LONGSTRN", true)
	}
	if view.IsRandomGroups {
		s.warn(hduIndex, CodeRandomGroups, "random-groups data detected (GROUPS=T, NAXIS1=0)", true)
	}
	if xt := cardByName(view, "XTENSION"); xt != nil {
		if s.Conventions.IsLegacyXtension(strings.TrimSpace(xt.Value)) {
			s.setHintKeyword("XTENSION")
			s.warn(hduIndex, CodeLegacyXtension, fmt.Sprintf("XTENSION = %q is a legacy extension type", xt.Value), true)
		}
	}
	if ts := cardByName(view, "TIMESYS"); ts != nil {
		if !s.Conventions.IsValidTimesys(strings.TrimSpace(ts.Value)) {
			s.setHintKeyword("TIMESYS")
			s.warn(hduIndex, CodeTimesysValue, fmt.Sprintf("TIMESYS = %q is not a recognized value", ts.Value), true)
		}
	}
	if isPrimary {
		if inh := cardByName(view, "INHERIT"); inh != nil && view.Naxis > 0 {
			s.warn(hduIndex, CodeInheritPrimary, "INHERIT should not appear on a primary HDU with data", true)
		}
	}
}

func hasLongStringCard(view *HduView) bool {
	for _, pc := range view.Cards {
		if pc.Kind == KindString && len(pc.Value) > 68 {
			return true
		}
	}
	return false
}

func checkRAwMultiple(s *State, hduIndex int, n int, pc ParsedCard) {
	if pc.Kind != KindString {
		return
	}
	form := strings.TrimSpace(pc.Value)
	i := 0
	for i < len(form) && form[i] >= '0' && form[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(form) {
		return
	}
	r, err := strconv.Atoi(form[:i])
	if err != nil || r == 0 {
		return
	}
	if form[i] != 'A' {
		return
	}
	w := 0
	j := i + 1
	for j < len(form) && form[j] >= '0' && form[j] <= '9' {
		w = w*10 + int(form[j]-'0')
		j++
	}
	if w > 0 && r%w != 0 {
		s.setHintColumn(n)
		s.warn(hduIndex, CodeRawNotMultiple, fmt.Sprintf("TFORM%d = %q: repeat count is not a multiple of the field width", n, form), false)
	}
}

func checkY2K(s *State, hduIndex int, v string) {
	parts := strings.Split(v, "/")
	if len(parts) != 3 {
		return
	}
	yy, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return
	}
	if yy < 10 {
		s.warn(hduIndex, CodeY2K, fmt.Sprintf("DATE = %q uses a two-digit year", v), false)
	}
}

// printHeaderListing emits one info diagnostic per raw card, the
// print_header option's "-l" dump of the HDU's header exactly as
// stored (spec §6.2's print_header option; this is the only consumer
// of the raw 80-byte card text outside the parser itself).
func (s *State) printHeaderListing(hduIndex int, cards []reader.RawCard) {
	for _, rc := range cards {
		s.info(hduIndex, rc.String())
	}
}
