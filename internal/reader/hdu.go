package reader

import (
	"fmt"
	"strings"

	"github.com/astrogo/fitsverify"
)

// hduInfo is the reader's private directory entry: the byte ranges of
// one HDU plus just enough decoded header state to compute the next
// HDU's offset and to answer get_hdu_byte_range/parse_tform queries.
type hduInfo struct {
	htype       fitsio.HDUType
	headerStart int64
	dataStart   int64
	dataEnd     int64 // data end before block padding
	paddedEnd   int64 // data end after block padding (= next header start)
	cards       []RawCard
	bitpix      int
	naxis       int
	axes        []int64
	pcount      int64
	gcount      int64
	tfields     int64
}

// scan walks the byte buffer block by block, building the HDU
// directory. It mirrors the teacher's decode.go block loop, generalized
// to compute byte ranges up front instead of decoding values lazily.
func scan(buf []byte) ([]hduInfo, error) {
	var hdus []hduInfo
	pos := int64(0)
	first := true
	for pos < int64(len(buf)) {
		if pos+BlockSize > int64(len(buf)) {
			// trailing bytes too short to hold another header block;
			// treated as the file's end by the caller.
			break
		}
		info, next, err := scanOneHDU(buf, pos, first)
		if err != nil {
			return hdus, err
		}
		hdus = append(hdus, info)
		pos = next
		first = false
	}
	return hdus, nil
}

func scanOneHDU(buf []byte, start int64, first bool) (hduInfo, int64, error) {
	info := hduInfo{headerStart: start}
	pos := start
	var cards []RawCard
	ended := false
	for pos+BlockSize <= int64(len(buf)) {
		block := buf[pos : pos+BlockSize]
		for i := 0; i < CardsPerBlock; i++ {
			var rc RawCard
			rc.Index = len(cards)
			copy(rc.Bytes[:], block[i*CardSize:(i+1)*CardSize])
			cards = append(cards, rc)
			if rc.Name() == "END" {
				ended = true
			}
		}
		pos += BlockSize
		if ended {
			break
		}
	}
	if !ended {
		return info, pos, fmt.Errorf("reader: header has no END card starting at byte %d", start)
	}
	info.cards = cards
	info.dataStart = pos

	htype, err := hduTypeFrom(cards, first)
	if err != nil {
		return info, pos, err
	}
	info.htype = htype

	info.bitpix = int(findInt(cards, "BITPIX", 8))
	info.naxis = int(findInt(cards, "NAXIS", 0))
	for i := 1; i <= info.naxis; i++ {
		info.axes = append(info.axes, findInt(cards, fmt.Sprintf("NAXIS%d", i), 0))
	}
	info.pcount = findInt(cards, "PCOUNT", 0)
	info.gcount = findInt(cards, "GCOUNT", 1)
	info.tfields = findInt(cards, "TFIELDS", 0)

	nax := int64(1)
	if info.naxis == 0 {
		nax = 0
	}
	for _, a := range info.axes {
		nax *= a
	}
	elemBytes := info.bitpix
	if elemBytes < 0 {
		elemBytes = -elemBytes
	}
	dataBytes := info.gcount * (info.pcount + nax) * int64(elemBytes/8)
	info.dataEnd = info.dataStart + dataBytes
	info.paddedEnd = info.dataStart + alignBlock(dataBytes)
	return info, info.paddedEnd, nil
}

func findInt(cards []RawCard, name string, def int64) int64 {
	for _, c := range cards {
		if c.Name() == name {
			if v, ok := c.IntValue(); ok {
				return v
			}
		}
	}
	return def
}

func hduTypeFrom(cards []RawCard, first bool) (fitsio.HDUType, error) {
	if first {
		return fitsio.IMAGE_HDU, nil
	}
	for _, c := range cards {
		if c.Name() == "XTENSION" {
			v, _ := c.StrValue()
			switch strings.TrimSpace(v) {
			case "IMAGE":
				return fitsio.IMAGE_HDU, nil
			case "TABLE":
				return fitsio.ASCII_TBL, nil
			case "BINTABLE":
				return fitsio.BINARY_TBL, nil
			default:
				return fitsio.ANY_HDU, nil
			}
		}
	}
	return fitsio.ANY_HDU, fmt.Errorf("reader: extension HDU missing XTENSION keyword")
}
