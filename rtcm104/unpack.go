package rtcm104

import "fmt"

// ErrShortMessage is returned when a decoded message doesn't carry
// enough data words for its type.
var ErrShortMessage = fmt.Errorf("rtcm104: message too short for its type")

var txSpeeds = [8]int{25, 50, 100, 110, 150, 200, 250, 300}

// DecodeType1 unpacks a type 1 or type 9 differential-correction
// message: chains of 5-word blocks, each packing 3 satellites'
// corrections, grounded on rtcm.c's b_correction_t (w3-w7).
func DecodeType1(hdr Header, data []uint32) (*Type1, error) {
	body := data[2:]
	msg := &Type1{Header: hdr}
	for i := 0; i+5 <= len(body); i += 5 {
		w3, w4, w5, w6, w7 := body[i], body[i+1], body[i+2], body[i+3], body[i+4]

		a := SatCorrection{
			Scale:    dbits(w3, 1, 1) != 0,
			UDRE:     int(dbits(w3, 2, 3)),
			SatIdent: int(dbits(w3, 4, 8)),
			IOD:      int(dbits(w4, 9, 16)),
		}
		a.PRC = scaledPC(sdbits(w3, 9, 24), a.Scale)
		a.RRC = scaledRRC(sdbits(w4, 1, 8), a.Scale)
		msg.Corrections = append(msg.Corrections, a)

		b := SatCorrection{
			Scale:    dbits(w4, 17, 17) != 0,
			UDRE:     int(dbits(w4, 18, 19)),
			SatIdent: int(dbits(w4, 20, 24)),
			IOD:      int(dbits(w6, 1, 8)),
		}
		b.PRC = scaledPC(sdbits(w5, 1, 16), b.Scale)
		b.RRC = scaledRRC(sdbits(w5, 17, 24), b.Scale)
		msg.Corrections = append(msg.Corrections, b)

		c := SatCorrection{
			Scale:    dbits(w6, 9, 9) != 0,
			UDRE:     int(dbits(w6, 10, 11)),
			SatIdent: int(dbits(w6, 12, 16)),
			IOD:      int(dbits(w7, 17, 24)),
		}
		pc3Hi := int32(dbits(w6, 17, 24))
		pc3Lo := int32(dbits(w7, 1, 8))
		pc3 := pc3Hi<<8 | pc3Lo
		if pc3&0x8000 != 0 {
			pc3 |= ^int32(0xFFFF)
		}
		c.PRC = scaledPC(pc3, c.Scale)
		c.RRC = scaledRRC(sdbits(w7, 9, 16), c.Scale)
		msg.Corrections = append(msg.Corrections, c)
	}
	return msg, nil
}

func scaledPC(raw int32, large bool) float64 {
	if large {
		return float64(raw) * PCLarge
	}
	return float64(raw) * PCSmall
}

func scaledRRC(raw int32, large bool) float64 {
	if large {
		return float64(raw) * RRLarge
	}
	return float64(raw) * RRSmall
}

// DecodeType3 unpacks a reference-station ECEF position message,
// grounded on rtcm.c's rtcm_msg3 (w3-w6).
func DecodeType3(hdr Header, data []uint32) (*Type3, error) {
	if len(data) < 6 {
		return nil, ErrShortMessage
	}
	w3, w4, w5, w6 := data[2], data[3], data[4], data[5]

	xHi := dbits(w3, 1, 24)
	yHi := dbits(w4, 1, 16)
	xLo := dbits(w4, 17, 24)
	zHi := dbits(w5, 1, 8)
	yLo := dbits(w5, 9, 24)
	zLo := dbits(w6, 1, 24)

	x := int32(xHi<<8 | xLo)
	y := int32(yHi<<16 | yLo)
	z := int32(zHi<<24 | zLo)

	return &Type3{
		Header: hdr,
		X:      float64(x) * XYZScale,
		Y:      float64(y) * XYZScale,
		Z:      float64(z) * XYZScale,
	}, nil
}

// DecodeType4 unpacks a reference-station datum message. The
// original struct's word-6 bitfield layout (dz:24 + dy_l:8, 40 bits
// against parity+pad) cannot fit in a single 32-bit RTCM word as
// transcribed in rtcm.c; gpsdcore instead keeps DZ a 16-bit field
// (matching DX/DY) so the word budget is exactly 24 data bits, a
// deliberate deviation recorded in DESIGN.md.
func DecodeType4(hdr Header, data []uint32) (*Type4, error) {
	if len(data) < 6 {
		return nil, ErrShortMessage
	}
	w3, w4, w5, w6 := data[2], data[3], data[4], data[5]

	dgnss := int(dbits(w3, 1, 3))
	datum := dbits(w3, 4, 4) != 0
	char1 := byte(dbits(w3, 9, 16))
	char2 := byte(dbits(w3, 17, 24))
	sub1 := byte(dbits(w4, 9, 16))
	sub2 := byte(dbits(w4, 17, 24))
	sub3 := byte(dbits(w4, 1, 8))

	tag := trimDatumTag([]byte{char2, char1, sub2, sub1, sub3})

	dyHi := dbits(w5, 17, 24)
	dx := sdbits(w5, 1, 16)
	dyLo := dbits(w6, 17, 24)
	dz := sdbits(w6, 1, 16)
	dy := int32(dyHi<<8 | dyLo)
	if dy&0x8000 != 0 {
		dy |= ^int32(0xFFFF)
	}

	return &Type4{
		Header:   hdr,
		DGNSS:    dgnss,
		Datum:    datum,
		DatumTag: tag,
		DX:       float64(dx) * DXYZScale,
		DY:       float64(dy) * DXYZScale,
		DZ:       float64(dz) * DXYZScale,
	}, nil
}

func trimDatumTag(chars []byte) string {
	n := len(chars)
	for n > 0 && (chars[n-1] == 0 || chars[n-1] == ' ') {
		n--
	}
	return string(chars[:n])
}

// DecodeType5 unpacks a constellation health message, one word per
// satellite, grounded on rtcm.c's b_health_t.
func DecodeType5(hdr Header, data []uint32) (*Type5, error) {
	msg := &Type5{Header: hdr}
	for _, w := range data[2:] {
		cn0 := int(dbits(w, 11, 15))
		h := SatHealth{
			TimeUnhealthy:   int(dbits(w, 19, 22)),
			LossWarn:        dbits(w, 18, 18) != 0,
			NewNavData:      dbits(w, 17, 17) != 0,
			HealthEnable:    dbits(w, 16, 16) != 0,
			DataHealth:      int(dbits(w, 8, 10)),
			IssueOfDataLink: int(dbits(w, 7, 7)),
			SatID:           int(dbits(w, 2, 6)),
		}
		if cn0 == 0 {
			h.CNR = -1
		} else {
			h.CNR = cn0 + CNROffset
		}
		msg.Satellites = append(msg.Satellites, h)
	}
	return msg, nil
}

// DecodeType6 is the null filler message: no payload, just the
// header.
func DecodeType6(hdr Header) *Type6 { return &Type6{Header: hdr} }

// DecodeType7 unpacks a beacon almanac message, 3 words per station,
// grounded on rtcm.c's b_station_t.
func DecodeType7(hdr Header, data []uint32) (*Type7, error) {
	body := data[2:]
	msg := &Type7{Header: hdr}
	for i := 0; i+3 <= len(body); i += 3 {
		w3, w4, w5 := body[i], body[i+1], body[i+2]

		lat := sdbits(w3, 1, 16)
		lonHi := sdbits(w3, 17, 24)
		lonLo := dbits(w4, 1, 8)
		lon := lonHi<<8 | int32(lonLo)

		rangeNM := int(dbits(w4, 9, 18))
		freqHi := dbits(w4, 19, 24)
		freqLo := dbits(w5, 1, 6)
		freqRaw := freqHi<<6 | freqLo

		health := int(dbits(w5, 7, 8))
		stationID := int(dbits(w5, 9, 18))
		bitRateIdx := dbits(w5, 19, 21)

		msg.Stations = append(msg.Stations, BeaconStation{
			Latitude:     float64(lat) * LatScale,
			Longitude:    float64(lon) * LonScale,
			RangeNM:      rangeNM,
			FrequencyKHz: float64(freqRaw)*FreqScale + FreqOffset,
			StationID:    stationID,
			Health:       health,
			BitRate:      txSpeeds[bitRateIdx&7],
		})
	}
	return msg, nil
}

// DecodeType16 unpacks an ASCII broadcast text message, 3 characters
// per word, stopping at the first NUL.
func DecodeType16(hdr Header, data []uint32) (*Type16, error) {
	var chars []byte
	for _, w := range data[2:] {
		b1 := byte(dbits(w, 1, 8))
		b2 := byte(dbits(w, 9, 16))
		b3 := byte(dbits(w, 17, 24))
		for _, b := range []byte{b1, b2, b3} {
			if b == 0 {
				return &Type16{Header: hdr, Text: string(chars)}, nil
			}
			chars = append(chars, b)
		}
	}
	return &Type16{Header: hdr, Text: string(chars)}, nil
}

// Decode dispatches a complete message's raw words (as returned by
// Decoder.Words) to the appropriate type-specific unpacker, the
// bit-synchronous analogue of pkg/gnssgo/rtcm.go's DecodeRTCMMessage
// switch.
func Decode(raw []uint32) (interface{}, error) {
	if len(raw) < 2 {
		return nil, ErrShortMessage
	}
	data := UnpackData(raw)
	hdr := DecodeHeader(data)
	switch hdr.Type {
	case 1, 9:
		return DecodeType1(hdr, data)
	case 3:
		return DecodeType3(hdr, data)
	case 4:
		return DecodeType4(hdr, data)
	case 5:
		return DecodeType5(hdr, data)
	case 6:
		return DecodeType6(hdr), nil
	case 7:
		return DecodeType7(hdr, data)
	case 16:
		return DecodeType16(hdr, data)
	default:
		return nil, fmt.Errorf("rtcm104: unsupported message type %d", hdr.Type)
	}
}
