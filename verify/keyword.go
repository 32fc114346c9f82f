package verify

import "fmt"

// emitCardErrors is the pr_kval_err stage (spec §4.2 step 9): it
// translates a ParsedCard's accumulated error bitset into zero or more
// structured diagnostics.
func (s *State) emitCardErrors(hduIndex int, pc ParsedCard) {
	if pc.Errs == 0 {
		return
	}
	s.setHintKeyword(pc.Name)
	defer func() { s.hint.reset() }()

	if pc.Errs.has(ErrCardTooLong) {
		s.err(hduIndex, CodeCardTooLong, SeverityError, fmt.Sprintf("card %q exceeds 80 bytes", pc.Name))
	}
	if pc.Errs.has(ErrIllegalNameChar) {
		s.err(hduIndex, CodeIllegalNameChar, SeverityError, fmt.Sprintf("keyword %q contains an illegal character", pc.Name))
	}
	if pc.Errs.has(ErrNameNotJustified) {
		s.err(hduIndex, CodeNameNotJustified, SeverityError, fmt.Sprintf("keyword %q is not left-justified in columns 1-8", pc.Name))
	}
	if pc.Errs.has(ErrEndNotBlank) {
		s.err(hduIndex, CodeEndNotBlank, SeverityError, "END card has non-blank content in columns 9-80")
	}
	if pc.Errs.has(ErrNontextChars) {
		s.err(hduIndex, CodeNontextChars, SeverityError, fmt.Sprintf("card %q contains non-printable bytes", pc.Name))
	}
	if pc.Errs.has(ErrUnterminatedString) {
		s.err(hduIndex, CodeKeywordValue, SeverityError, fmt.Sprintf("%s: string value is missing its closing quote", pc.Name))
	}
	if pc.Errs.has(ErrLowercaseExponent) {
		s.warn(hduIndex, CodeLowercaseExponent, fmt.Sprintf("%s: lowercase exponent marker should be uppercase", pc.Name), false)
	}
	if pc.Errs.has(ErrNoValueSeparator) {
		s.err(hduIndex, CodeNoValueSeparator, SeverityError, fmt.Sprintf("%s: trailing text after the value is not a comment", pc.Name))
	}
	if pc.Errs.has(ErrContinueWithoutString) {
		s.err(hduIndex, CodeContinueWithoutString, SeverityError, "CONTINUE card has no preceding string card to continue")
	}
}

// requireKind is the keyword type checker (spec §4.3): asserts a
// parsed card has the expected typed form, emitting *wrong-type* or
// *null-value* with a call-site hint that confirms the specific wrong
// type rather than hedging.
func (s *State) requireKind(hduIndex int, pc ParsedCard, want CardKind) bool {
	if pc.Kind == want {
		return true
	}
	if pc.Value == "" && pc.Kind == KindUnknown {
		s.setHintKeyword(pc.Name)
		s.err(hduIndex, CodeNullValue, SeverityError, fmt.Sprintf("%s has no value", pc.Name))
		return false
	}
	s.setHintKeyword(pc.Name)
	if pc.Kind == KindString && want != KindString {
		s.overrideFix(fmt.Sprintf("remove the quotes around %s's value", pc.Name))
	}
	s.err(hduIndex, CodeWrongType, SeverityError,
		fmt.Sprintf("%s: expected %s, found %s", pc.Name, kindName(want), kindName(pc.Kind)))
	return false
}

// requireMandatoryKind is requireKind's counterpart for a mandatory
// keyword slot (spec §4.4.2): a type mismatch here is the distinct
// *keyword-type* diagnostic, not the general *wrong-type* requireKind
// emits for ordinary indexed-column keywords.
func (s *State) requireMandatoryKind(hduIndex int, pc ParsedCard, want CardKind) bool {
	if pc.Kind == want {
		return true
	}
	if pc.Value == "" && pc.Kind == KindUnknown {
		s.setHintKeyword(pc.Name)
		s.err(hduIndex, CodeNullValue, SeverityError, fmt.Sprintf("%s has no value", pc.Name))
		return false
	}
	s.setHintKeyword(pc.Name)
	s.err(hduIndex, CodeKeywordType, SeverityError,
		fmt.Sprintf("%s: expected %s, found %s", pc.Name, kindName(want), kindName(pc.Kind)))
	return false
}

func kindName(k CardKind) string {
	switch k {
	case KindString:
		return "string"
	case KindLogical:
		return "logical"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindComplexInt:
		return "complex integer"
	case KindComplexFloat:
		return "complex float"
	case KindCommentary:
		return "commentary"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}
