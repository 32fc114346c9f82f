package verify

import (
	"io"
	"os"

	"github.com/astrogo/fitsverify/internal/convention"
)

// hintContext carries the per-dispatch annotation the hint generator
// consults (spec §4.8): keyword name, column number, and the call-site
// override flags that let a validator pre-fill fix/explain text
// instead of letting the contextual overlay generate it.
type hintContext struct {
	keyword         string
	column          int
	fixOverride     string
	explainOverride string
	hasFixOverride     bool
	hasExplainOverride bool
}

func (h *hintContext) reset() {
	*h = hintContext{}
}

// State is the reentrant per-verification container (spec §3). No
// package-level mutable state exists anywhere in verify; every
// function that needs session data takes a *State explicitly.
type State struct {
	Options Options

	Conventions *convention.Table

	// per-file counters, reset at the start of every Verify* call.
	fileErrors   int
	fileWarnings int

	// per-HDU counters, reset at the start of every HDU and snapshotted
	// into hdus[i] when the HDU's validation finishes.
	hduErrors   int
	hduWarnings int

	// session totals, accumulated across every Verify* call on this State.
	sessionErrors   int
	sessionWarnings int

	hdus []HduRecord

	hint hintContext

	abort bool

	sink     sinkKind
	callback Callback
	userdata interface{}
	out      io.Writer
}

type sinkKind int

const (
	sinkFile sinkKind = iota
	sinkCallback
)

// NewState implements new_state(). Conventions defaults to the
// built-in table; LoadConventions replaces it.
func NewState() *State {
	return &State{
		Options:     DefaultOptions(),
		Conventions: convention.Default(),
		sink:        sinkFile,
		out:         os.Stderr,
	}
}

// FreeState implements free_state(state). Nullable-safe: per spec
// §6.2 both lifecycle calls tolerate a nil state so callers never need
// a nil check before cleanup.
func FreeState(s *State) {
	if s == nil {
		return
	}
	s.hdus = nil
}

// SetOutput implements set_output(state, callback, userdata). A nil
// callback restores the default FILE sink.
func (s *State) SetOutput(cb Callback, userdata interface{}) {
	if cb == nil {
		s.sink = sinkFile
		s.callback = nil
		s.userdata = nil
		return
	}
	s.sink = sinkCallback
	s.callback = cb
	s.userdata = userdata
}

// SetOutputWriter redirects the default FILE sink to w (used by the
// CLI to capture text output instead of always writing os.Stderr).
func (s *State) SetOutputWriter(w io.Writer) {
	s.out = w
}

// LoadConventions replaces the session's convention table, e.g. from
// an operator-supplied --conventions file.
func (s *State) LoadConventions(t *convention.Table) {
	s.Conventions = t
}

// GetTotals implements get_totals(state, &errs, &warns): the session
// totals accumulated across every Verify* call on this State.
func (s *State) GetTotals() (errs, warns int) {
	return s.sessionErrors, s.sessionWarnings
}

// resetFile clears per-file state at the start of a Verify* call.
func (s *State) resetFile() {
	s.fileErrors = 0
	s.fileWarnings = 0
	s.hdus = nil
	s.abort = false
	s.hint.reset()
}

func (s *State) resetHDU() {
	s.hduErrors = 0
	s.hduWarnings = 0
}
