package verify

import (
	"fmt"

	"github.com/astrogo/fitsverify/internal/reader"
)

// VerifyFile implements verify_file(state, path, &result) -> status:
// open, verify, close, in one call (spec §4.7). The returned error is
// non-nil only for a reader failure that prevented validation from
// starting at all (spec §6.2's "status != 0"); a file that opens fine
// but fails conformance checks returns a nil error with a populated,
// non-clean FileResult.
func (s *State) VerifyFile(path string) (FileResult, error) {
	h, err := reader.OpenFile(path)
	if err != nil {
		return s.verifyOpenFailure(path, err), err
	}
	defer h.Close()
	return s.verify(h, path), nil
}

// VerifyMemory implements verify_memory(state, buffer, label): the
// same driver over an in-memory byte slice, so tests and embedders
// never need a real file on disk.
func (s *State) VerifyMemory(buf []byte, label string) (FileResult, error) {
	h, err := reader.OpenMemory(buf, label)
	if err != nil {
		return s.verifyOpenFailure(label, err), err
	}
	return s.verify(h, label), nil
}

// verifyOpenFailure reports a reader_err_with_stack at severity
// *severe* and returns immediately: a file that cannot even be opened
// never reaches the per-HDU loop (spec §4.7 step 2).
func (s *State) verifyOpenFailure(label string, err error) FileResult {
	s.resetFile()
	s.readerErrWithStack(nil, 0, CodeReaderOpenFailed, SeveritySevere, fmt.Sprintf("failed to open %s: %s", label, err))
	s.sessionErrors += s.fileErrors
	s.sessionWarnings += s.fileWarnings
	return FileResult{NumErrors: s.fileErrors, NumWarnings: s.fileWarnings, Aborted: true}
}

// verify is the 7-step driver algorithm (spec §4.7): reset counters,
// determine the HDU count, validate each HDU's header and data in
// turn (checking the abort flag between HDUs rather than unwinding
// through a panic or early return chain), run the file-level
// validator, then summarize and tear down.
func (s *State) verify(h *reader.Handle, label string) FileResult {
	s.resetFile()
	n := h.HDUCount()

	for i := 1; i <= n; i++ {
		if s.abort {
			break
		}
		if err := h.MoveToHDU(i); err != nil {
			s.readerErr(h, i, CodeReader, SeverityError, "failed to move to HDU")
			continue
		}
		s.resetHDU()

		isPrimary := i == 1
		view := s.validateHeader(h, i, isPrimary)
		if !s.abort {
			s.validateData(h, i, view)
		}

		rec := HduRecord{
			Type:    h.CurrentType(),
			Index:   i,
			NumErr:  s.hduErrors,
			NumWarn: s.hduWarnings,
		}
		if view != nil {
			if en := cardByName(view, "EXTNAME"); en != nil {
				rec.ExtName = en.Value
			}
			if ev := cardByName(view, "EXTVER"); ev != nil {
				rec.ExtVer = int(ev.IntVal)
			}
		}
		s.hdus = append(s.hdus, rec)
	}

	if !s.abort {
		s.validateFile(h)
	}

	if s.Options.PrintSummary {
		s.emitSummary(label)
	}

	s.sessionErrors += s.fileErrors
	s.sessionWarnings += s.fileWarnings

	return FileResult{
		NumErrors:   s.fileErrors,
		NumWarnings: s.fileWarnings,
		NumHDUs:     n,
		Aborted:     s.abort,
	}
}

// emitSummary writes the per-file summary info diagnostic (spec §6.2
// print_summary option).
func (s *State) emitSummary(label string) {
	s.info(0, fmt.Sprintf("%s: %d HDU(s), %d error(s), %d warning(s)", label, len(s.hdus), s.fileErrors, s.fileWarnings))
}
