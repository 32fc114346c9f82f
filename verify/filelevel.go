package verify

import (
	"fmt"

	"github.com/astrogo/fitsverify/internal/reader"
)

// validateFile runs the file-level validator (spec §4.6) once every
// HDU has been visited: trailing-byte detection and duplicate
// (EXTNAME, HDU type, EXTVER) detection across the HDU directory;
// EXTLEVEL is not compared.
func (s *State) validateFile(h *reader.Handle) {
	if s.abort {
		return
	}
	s.checkTrailingBytes(h)
	s.checkDuplicateExtensions()
}

// checkTrailingBytes implements the extra-HDUs / extra-bytes check:
// the stream must end exactly at the last HDU's padded boundary.
func (s *State) checkTrailingBytes(h *reader.Handle) {
	n := h.HDUCount()
	if n == 0 {
		return
	}
	if err := h.MoveToHDU(n); err != nil {
		return
	}
	_, _, paddedEnd := h.GetHDUByteRange()
	streamLen := h.StreamLength()
	if paddedEnd < streamLen {
		extra := streamLen - paddedEnd
		if extra >= reader.BlockSize {
			s.err(0, CodeExtraHDUs, SeverityError,
				fmt.Sprintf("%d bytes of unrecognized data follow the last HDU; a further HDU may be truncated or malformed", extra))
		} else {
			s.err(0, CodeExtraBytes, SeverityError,
				fmt.Sprintf("%d trailing bytes follow the end of the last HDU", extra))
		}
	}
}

// checkDuplicateExtensions implements the duplicate-(EXTNAME,EXTVER)
// check over the HDU directory built while iterating HDUs (spec
// §4.6, CodeDuplicateExtname). Two HDUs collide only when they also
// share the same HDU type: an IMAGE and a BINTABLE extension with the
// same EXTNAME/EXTVER are not a conflict. This is a warning, not an
// error, since the file still parses and identifies unambiguously by
// HDU index. O(n^2) over the directory, which is bounded by the
// file's HDU count and never large in practice.
func (s *State) checkDuplicateExtensions() {
	for i := 0; i < len(s.hdus); i++ {
		a := s.hdus[i]
		if a.ExtName == "" {
			continue
		}
		for j := i + 1; j < len(s.hdus); j++ {
			b := s.hdus[j]
			if b.ExtName == a.ExtName && b.ExtVer == a.ExtVer && b.Type == a.Type {
				s.setHintKeyword("EXTNAME")
				s.warn(b.Index, CodeDuplicateExtname,
					fmt.Sprintf("HDU %d duplicates (EXTNAME, EXTVER) = (%q, %d) already used by HDU %d", b.Index, b.ExtName, b.ExtVer, a.Index),
					false)
			}
		}
	}
}
