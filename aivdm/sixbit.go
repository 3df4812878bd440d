package aivdm

import "github.com/perezmeyer/gpsdcore/bits"

// sixbitAlphabet is the AIS 6-bit ASCII code page used for text fields
// such as vessel name, callsign, and destination, grounded on
// driver_aivdm.c's sixchr table.
const sixbitAlphabet = "@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^- !\"#$%&`()*+,-./0123456789:;<=>?"

// dearmor converts one payload character of an armored AIVDM sentence
// into its 6-bit value: subtract 48, and if the result is 40 or more,
// subtract another 8. Characters outside the two valid printable
// ranges (48-87, 96-119) produce a meaningless but bounded value
// rather than panicking.
func dearmor(c byte) byte {
	v := c - 48
	if v >= 40 {
		v -= 8
	}
	return v & 0x3F
}

// sixbitText decodes a run of 6-bit characters starting at bit offset
// start in buf into an ASCII string of length n characters, trimming
// trailing '@' and ' ' the way from_sixbit does.
func sixbitText(buf []byte, start, n int) string {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		idx := bits.UBits(buf, start+6*i, 6)
		out[i] = sixbitAlphabet[idx]
	}
	end := n
	for end > 0 && (out[end-1] == ' ' || out[end-1] == '@') {
		end--
	}
	return string(out[:end])
}
