package rtcm104

// setDBits ORs value (masked to its field width) into acc at the
// ICD D-numbered position, the inverse of dbits.
func setDBits(acc uint32, dStart, dEnd int, value uint32) uint32 {
	width := uint(dEnd - dStart + 1)
	shift := uint(24 - dEnd)
	mask := uint32(1)<<width - 1
	return acc | (value&mask)<<shift
}

func setSDBits(acc uint32, dStart, dEnd int, value int32) uint32 {
	width := uint(dEnd - dStart + 1)
	mask := uint32(1)<<width - 1
	return setDBits(acc, dStart, dEnd, uint32(value)&mask)
}

// EncodeHeader packs a Header into its two 24-bit data words.
func EncodeHeader(hdr Header) [2]uint32 {
	var w1, w2 uint32
	w1 = setDBits(w1, 1, 8, preamblePattern)
	w1 = setDBits(w1, 9, 14, uint32(hdr.Type))
	w1 = setDBits(w1, 15, 24, uint32(hdr.StationID))
	w2 = setDBits(w2, 1, 13, uint32(hdr.ZCount/ZCountScale+0.5))
	w2 = setDBits(w2, 14, 16, uint32(hdr.SequenceNo))
	w2 = setDBits(w2, 17, 21, uint32(hdr.Length))
	w2 = setDBits(w2, 22, 24, uint32(hdr.StationHealth))
	return [2]uint32{w1, w2}
}

// EncodeType3 packs a Type3 back into its 4 data words.
func EncodeType3(msg *Type3) []uint32 {
	x := int32(msg.X / XYZScale)
	y := int32(msg.Y / XYZScale)
	z := int32(msg.Z / XYZScale)

	var w3, w4, w5, w6 uint32
	w3 = setDBits(w3, 1, 24, uint32(x)>>8)
	w4 = setDBits(w4, 1, 16, uint32(y)>>16)
	w4 = setDBits(w4, 17, 24, uint32(x)&0xFF)
	w5 = setDBits(w5, 1, 8, uint32(z)>>24)
	w5 = setDBits(w5, 9, 24, uint32(y)&0xFFFF)
	w6 = setDBits(w6, 1, 24, uint32(z)&0xFFFFFF)
	return []uint32{w3, w4, w5, w6}
}

// EncodeType4 packs a Type4 back into its 4 data words, following the
// same 16-bit DZ convention DecodeType4 uses.
func EncodeType4(msg *Type4) []uint32 {
	tag := msg.DatumTag + "\x00\x00\x00\x00\x00"
	char2, char1 := tag[0], tag[1]
	sub2, sub1, sub3 := tag[2], tag[3], tag[4]

	dat := uint32(0)
	if msg.Datum {
		dat = 1
	}
	dx := int32(msg.DX / DXYZScale)
	dy := int32(msg.DY / DXYZScale)
	dz := int32(msg.DZ / DXYZScale)

	var w3, w4, w5, w6 uint32
	w3 = setDBits(w3, 1, 3, uint32(msg.DGNSS))
	w3 = setDBits(w3, 4, 4, dat)
	w3 = setDBits(w3, 9, 16, uint32(char1))
	w3 = setDBits(w3, 17, 24, uint32(char2))
	w4 = setDBits(w4, 1, 8, uint32(sub3))
	w4 = setDBits(w4, 9, 16, uint32(sub1))
	w4 = setDBits(w4, 17, 24, uint32(sub2))
	w5 = setSDBits(w5, 1, 16, dx)
	w5 = setDBits(w5, 17, 24, uint32(dy)>>8)
	w6 = setSDBits(w6, 1, 16, dz)
	w6 = setDBits(w6, 17, 24, uint32(dy)&0xFF)
	return []uint32{w3, w4, w5, w6}
}

// EncodeType5 packs a Type5 back into one word per satellite.
func EncodeType5(msg *Type5) []uint32 {
	out := make([]uint32, 0, len(msg.Satellites))
	for _, h := range msg.Satellites {
		var w uint32
		cn0 := uint32(0)
		if h.CNR >= 0 {
			cn0 = uint32(h.CNR - CNROffset)
		}
		w = setDBits(w, 2, 6, uint32(h.SatID))
		w = setDBits(w, 7, 7, uint32(h.IssueOfDataLink))
		w = setDBits(w, 8, 10, uint32(h.DataHealth))
		w = setDBits(w, 11, 15, cn0)
		w = setDBits(w, 19, 22, uint32(h.TimeUnhealthy))
		if h.HealthEnable {
			w = setDBits(w, 16, 16, 1)
		}
		if h.NewNavData {
			w = setDBits(w, 17, 17, 1)
		}
		if h.LossWarn {
			w = setDBits(w, 18, 18, 1)
		}
		out = append(out, w)
	}
	return out
}

// EncodeType7 packs a Type7 back into 3 words per station.
func EncodeType7(msg *Type7) []uint32 {
	out := make([]uint32, 0, len(msg.Stations)*3)
	for _, s := range msg.Stations {
		lat := int32(s.Latitude / LatScale)
		lon := int32(s.Longitude / LonScale)
		freqRaw := uint32((s.FrequencyKHz - FreqOffset) / FreqScale)
		bitRateIdx := uint32(0)
		for i, spd := range txSpeeds {
			if spd == s.BitRate {
				bitRateIdx = uint32(i)
				break
			}
		}

		var w3, w4, w5 uint32
		w3 = setSDBits(w3, 1, 16, lat)
		w3 = setSDBits(w3, 17, 24, lon>>8)
		w4 = setDBits(w4, 1, 8, uint32(lon)&0xFF)
		w4 = setDBits(w4, 9, 18, uint32(s.RangeNM))
		w4 = setDBits(w4, 19, 24, freqRaw>>6)
		w5 = setDBits(w5, 1, 6, freqRaw&0x3F)
		w5 = setDBits(w5, 7, 8, uint32(s.Health))
		w5 = setDBits(w5, 9, 18, uint32(s.StationID))
		w5 = setDBits(w5, 19, 21, bitRateIdx)
		out = append(out, w3, w4, w5)
	}
	return out
}

// EncodeType16 packs text into 3-characters-per-word data words,
// NUL-terminated and padded.
func EncodeType16(msg *Type16) []uint32 {
	chars := append([]byte(msg.Text), 0)
	for len(chars)%3 != 0 {
		chars = append(chars, 0)
	}
	out := make([]uint32, 0, len(chars)/3)
	for i := 0; i < len(chars); i += 3 {
		var w uint32
		w = setDBits(w, 1, 8, uint32(chars[i]))
		w = setDBits(w, 9, 16, uint32(chars[i+1]))
		w = setDBits(w, 17, 24, uint32(chars[i+2]))
		out = append(out, w)
	}
	return out
}

func unscalePC(v float64, large bool) int32 {
	if large {
		return int32(v / PCLarge)
	}
	return int32(v / PCSmall)
}

func unscaleRRC(v float64, large bool) int32 {
	if large {
		return int32(v / RRLarge)
	}
	return int32(v / RRSmall)
}

// EncodeType1 packs a Type1's corrections back into 5-word blocks of
// 3 satellites each, the inverse of DecodeType1.
func EncodeType1(msg *Type1) []uint32 {
	out := make([]uint32, 0, (len(msg.Corrections)/3)*5)
	for i := 0; i+3 <= len(msg.Corrections); i += 3 {
		a, b, c := msg.Corrections[i], msg.Corrections[i+1], msg.Corrections[i+2]

		var w3, w4, w5, w6, w7 uint32
		if a.Scale {
			w3 = setDBits(w3, 1, 1, 1)
		}
		w3 = setDBits(w3, 2, 3, uint32(a.UDRE))
		w3 = setDBits(w3, 4, 8, uint32(a.SatIdent))
		w3 = setSDBits(w3, 9, 24, unscalePC(a.PRC, a.Scale))

		w4 = setSDBits(w4, 1, 8, unscaleRRC(a.RRC, a.Scale))
		w4 = setDBits(w4, 9, 16, uint32(a.IOD))
		if b.Scale {
			w4 = setDBits(w4, 17, 17, 1)
		}
		w4 = setDBits(w4, 18, 19, uint32(b.UDRE))
		w4 = setDBits(w4, 20, 24, uint32(b.SatIdent))

		w5 = setSDBits(w5, 1, 16, unscalePC(b.PRC, b.Scale))
		w5 = setSDBits(w5, 17, 24, unscaleRRC(b.RRC, b.Scale))

		w6 = setDBits(w6, 1, 8, uint32(b.IOD))
		if c.Scale {
			w6 = setDBits(w6, 9, 9, 1)
		}
		w6 = setDBits(w6, 10, 11, uint32(c.UDRE))
		w6 = setDBits(w6, 12, 16, uint32(c.SatIdent))
		pc3 := unscalePC(c.PRC, c.Scale)
		w6 = setDBits(w6, 17, 24, uint32(pc3)>>8&0xFF)

		w7 = setDBits(w7, 1, 8, uint32(pc3)&0xFF)
		w7 = setSDBits(w7, 9, 16, unscaleRRC(c.RRC, c.Scale))
		w7 = setDBits(w7, 17, 24, uint32(c.IOD))

		out = append(out, w3, w4, w5, w6, w7)
	}
	return out
}

// PackWords takes a full sequence of 24-bit data words (header words
// first, then the type-specific body) and produces transmittable
// 30-bit RTCM words: computing parity and propagating the D30
// inversion rule exactly as UnpackData consumes it in reverse.
func PackWords(dataWords []uint32) []uint32 {
	out := make([]uint32, len(dataWords))
	var prev uint32
	for i, data := range dataWords {
		out[i] = encodeWord(data, prev)
		prev = out[i]
	}
	return out
}
