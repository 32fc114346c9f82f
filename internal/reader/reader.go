package reader

import (
	"fmt"
	"os"

	"github.com/astrogo/fitsverify"
)

// Handle is an open FITS stream. It satisfies the narrow FitsReader
// contract SPEC_FULL.md §10.1 requires: open/close, HDU navigation,
// raw and typed card reads, byte-range queries, TFORM parsing,
// variable-length descriptor reads, column iteration, and checksum
// verification. Nothing outside this package parses a FITS byte.
type Handle struct {
	Label string
	buf   []byte
	hdus  []hduInfo
	cur   int // 0-based current HDU index; -1 before the first move

	errstack []string
}

// MaxOpenFileBytes bounds open_file's whole-file read, matching
// SPEC_FULL.md §10.1's "configurable size ceiling". 2 GiB covers every
// realistic conformance-test fixture without risking unbounded memory
// use on a hostile input.
const MaxOpenFileBytes = 2 << 30

// OpenFile implements open_file(path).
func OpenFile(path string) (*Handle, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reader: %w", err)
	}
	if fi.Size() > MaxOpenFileBytes {
		return nil, fmt.Errorf("reader: %s exceeds the %d byte open_file ceiling", path, MaxOpenFileBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reader: %w", err)
	}
	return OpenMemory(data, path)
}

// OpenMemory implements open_memory(buf, len, label).
func OpenMemory(buf []byte, label string) (*Handle, error) {
	h := &Handle{Label: label, buf: buf, cur: -1}
	hdus, err := scan(buf)
	if err != nil {
		// a reader failure during the initial scan is still reported
		// through the status channel, not a panic; the driver turns
		// this into a *reader* diagnostic at severity 2.
		h.pushErr(err.Error())
		return h, err
	}
	if len(hdus) == 0 {
		err = fmt.Errorf("reader: stream contains no HDU")
		h.pushErr(err.Error())
		return h, err
	}
	h.hdus = hdus
	return h, nil
}

// Close implements close(handle). The in-memory reader holds no other
// OS resources once the buffer has been read, so this only drops the
// reference.
func (h *Handle) Close() error {
	h.buf = nil
	h.hdus = nil
	return nil
}

// HDUCount implements hdu_count(handle).
func (h *Handle) HDUCount() int {
	return len(h.hdus)
}

// MoveToHDU implements move_to_hdu(handle, index). index is 1-based
// per SPEC_FULL.md's inherited driver convention.
func (h *Handle) MoveToHDU(index int) error {
	if index < 1 || index > len(h.hdus) {
		h.pushErr(fmt.Sprintf("reader: HDU index %d out of range [1,%d]", index, len(h.hdus)))
		return fmt.Errorf("reader: HDU index %d out of range", index)
	}
	h.cur = index - 1
	return nil
}

// MoveRelativeHDU implements move_relative_hdu(handle, delta).
func (h *Handle) MoveRelativeHDU(delta int) error {
	return h.MoveToHDU(h.cur + 1 + delta)
}

// CurrentHDU returns the 1-based index of the HDU last moved to, or 0
// if no move has happened yet.
func (h *Handle) CurrentHDU() int {
	return h.cur + 1
}

// CurrentType reports the HDU type of the current HDU.
func (h *Handle) CurrentType() fitsio.HDUType {
	if h.cur < 0 || h.cur >= len(h.hdus) {
		return fitsio.ANY_HDU
	}
	return h.hdus[h.cur].htype
}

// Cards returns the raw card sequence of the current HDU.
func (h *Handle) Cards() []RawCard {
	if h.cur < 0 || h.cur >= len(h.hdus) {
		return nil
	}
	return h.hdus[h.cur].cards
}

// ReadCard implements read_card(handle, index). index is 0-based
// within the current HDU's header.
func (h *Handle) ReadCard(index int) (RawCard, bool) {
	cards := h.Cards()
	if index < 0 || index >= len(cards) {
		return RawCard{}, false
	}
	return cards[index], true
}

func (h *Handle) findCard(name string) (RawCard, bool) {
	for _, c := range h.Cards() {
		if c.Name() == name {
			return c, true
		}
	}
	return RawCard{}, false
}

// ReadKeywordInt implements read_keyword_int/_lng.
func (h *Handle) ReadKeywordInt(name string) (int64, bool) {
	c, ok := h.findCard(name)
	if !ok {
		return 0, false
	}
	return c.IntValue()
}

// ReadKeywordStr implements read_keyword_str.
func (h *Handle) ReadKeywordStr(name string) (string, bool) {
	c, ok := h.findCard(name)
	if !ok {
		return "", false
	}
	return c.StrValue()
}

// ReadKeywordFlt implements read_keyword_flt.
func (h *Handle) ReadKeywordFlt(name string) (float64, bool) {
	c, ok := h.findCard(name)
	if !ok {
		return 0, false
	}
	return c.FloatValue()
}

// GetHDUByteRange implements get_hdu_byte_range(handle).
func (h *Handle) GetHDUByteRange() (headerStart, dataStart, dataEnd int64) {
	if h.cur < 0 || h.cur >= len(h.hdus) {
		return 0, 0, 0
	}
	info := h.hdus[h.cur]
	return info.headerStart, info.dataStart, info.paddedEnd
}

// DataSection returns the current HDU's raw data bytes (unpadded).
func (h *Handle) DataSection() []byte {
	if h.cur < 0 || h.cur >= len(h.hdus) {
		return nil
	}
	info := h.hdus[h.cur]
	if info.dataEnd > int64(len(h.buf)) {
		return h.buf[info.dataStart:]
	}
	return h.buf[info.dataStart:info.dataEnd]
}

// PaddedDataSection returns the current HDU's data bytes including the
// block-padding tail, for fill-byte checks.
func (h *Handle) PaddedDataSection() []byte {
	if h.cur < 0 || h.cur >= len(h.hdus) {
		return nil
	}
	info := h.hdus[h.cur]
	end := info.paddedEnd
	if end > int64(len(h.buf)) {
		end = int64(len(h.buf))
	}
	return h.buf[info.dataStart:end]
}

// HeaderFillSection returns the bytes of the final header block after
// the END card, for header-fill checks.
func (h *Handle) HeaderFillSection() []byte {
	if h.cur < 0 || h.cur >= len(h.hdus) {
		return nil
	}
	info := h.hdus[h.cur]
	for i, c := range info.cards {
		if c.Name() == "END" {
			afterEnd := (i + 1) * CardSize
			blockBytes := int(alignBlock(int64(len(info.cards)) * CardSize))
			if afterEnd > blockBytes {
				return nil
			}
			endCardBlock := info.headerStart + int64((i/CardsPerBlock)*BlockSize)
			blockEnd := endCardBlock + BlockSize
			cardEndOffset := info.headerStart + int64(afterEnd)
			if cardEndOffset >= blockEnd {
				return nil
			}
			return h.buf[cardEndOffset:blockEnd]
		}
	}
	return nil
}

// PositionAtByte implements position_at_byte(handle, offset). It
// reports ok=false ("past-end") when offset is not a valid position
// within the underlying stream.
func (h *Handle) PositionAtByte(offset int64) (ok bool) {
	return offset >= 0 && offset < int64(len(h.buf))
}

// StreamLength returns the total number of bytes in the underlying
// stream, used by the file-level validator's trailing-byte check.
func (h *Handle) StreamLength() int64 {
	return int64(len(h.buf))
}

// pushErr appends to the reader's error stack (get_errstack_message/
// clear_errmsg).
func (h *Handle) pushErr(msg string) {
	h.errstack = append(h.errstack, msg)
}

// GetErrstackMessage implements get_errstack_message(handle): pops the
// oldest queued message, or returns "" when the stack is empty.
func (h *Handle) GetErrstackMessage() string {
	if len(h.errstack) == 0 {
		return ""
	}
	msg := h.errstack[0]
	h.errstack = h.errstack[1:]
	return msg
}

// ClearErrmsg implements clear_errmsg(handle).
func (h *Handle) ClearErrmsg() {
	h.errstack = nil
}
