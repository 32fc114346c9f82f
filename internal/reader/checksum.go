package reader

import "strconv"

// onesComplementSum computes the FITS 32-bit one's-complement checksum
// (FITS Standard Appendix J) over data, treated as a sequence of
// big-endian 32-bit words with end-around carry. Odd trailing bytes
// are zero-padded for the purpose of the sum only.
func onesComplementSum(data []byte) uint32 {
	var sum uint64
	n := len(data)
	i := 0
	for ; i+4 <= n; i += 4 {
		word := uint64(data[i])<<24 | uint64(data[i+1])<<16 | uint64(data[i+2])<<8 | uint64(data[i+3])
		sum += word
		if sum > 0xFFFFFFFF {
			sum = (sum & 0xFFFFFFFF) + (sum >> 32)
		}
	}
	if i < n {
		var tail [4]byte
		copy(tail[:], data[i:])
		word := uint64(tail[0])<<24 | uint64(tail[1])<<16 | uint64(tail[2])<<8 | uint64(tail[3])
		sum += word
		if sum > 0xFFFFFFFF {
			sum = (sum & 0xFFFFFFFF) + (sum >> 32)
		}
	}
	return uint32(sum)
}

// VerifyChecksum implements verify_checksum(handle): (data_ok, hdu_ok).
// DATASUM is the decimal one's-complement sum of the data section
// alone; CHECKSUM is constructed so that summing the entire HDU
// (header cards, including the CHECKSUM card as written, plus the
// padded data section) yields all one-bits. Either check is reported
// as "ok" (no finding) when its keyword is simply absent — an absent
// checksum is not itself a conformance error, per §4.5.
func (h *Handle) VerifyChecksum() (dataOk, hduOk bool) {
	if h.cur < 0 || h.cur >= len(h.hdus) {
		return true, true
	}
	info := h.hdus[h.cur]

	dataOk = true
	if ds, present := findStr(info.cards, "DATASUM"); present {
		want, err := strconv.ParseUint(trimDigits(ds), 10, 32)
		if err == nil {
			got := onesComplementSum(h.PaddedDataSection())
			dataOk = uint64(got) == want
		}
	}

	hduOk = true
	if _, present := findStr(info.cards, "CHECKSUM"); present {
		headerBytes := make([]byte, 0, len(info.cards)*CardSize)
		for _, c := range info.cards {
			headerBytes = append(headerBytes, c.Bytes[:]...)
		}
		pad := int(alignBlock(int64(len(headerBytes))) - int64(len(headerBytes)))
		for i := 0; i < pad; i++ {
			headerBytes = append(headerBytes, ' ')
		}
		full := append(append([]byte{}, headerBytes...), h.PaddedDataSection()...)
		hduOk = onesComplementSum(full) == 0xFFFFFFFF
	}
	return dataOk, hduOk
}

func trimDigits(s string) string {
	start := 0
	for start < len(s) && (s[start] == ' ' || s[start] == '+') {
		start++
	}
	return s[start:]
}
