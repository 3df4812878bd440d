package aivdm

import (
	"fmt"

	"github.com/perezmeyer/gpsdcore/bits"
)

// Decode dispatches a fully reassembled AIS bit buffer (buf holds
// bitlen significant bits, MSB-first from byte 0) to the
// message-type-specific unpacker, grounded on driver_aivdm.c's switch
// over ais->id.
func Decode(buf []byte, bitlen int) (*Message, error) {
	if bitlen < 38 {
		return nil, fmt.Errorf("aivdm: message too short (%d bits) to carry a header", bitlen)
	}
	msg := &Message{
		ID:              int(bits.UBits(buf, 0, 6)),
		RepeatIndicator: int(bits.UBits(buf, 6, 2)),
		MMSI:            bits.UBits(buf, 8, 30),
	}

	switch msg.ID {
	case 1, 2, 3:
		msg.Position = decodePositionReport(buf)
	case 4, 11:
		msg.Base = decodeBaseStation(buf)
	case 5:
		msg.Voyage = decodeStaticVoyageData(buf)
	case 6:
		msg.Addressed = decodeBinaryAddressed(buf, bitlen)
	case 7, 13:
		msg.Ack = decodeBinaryAck(buf, bitlen)
	case 8:
		msg.Broadcast = decodeBinaryBroadcast(buf, bitlen)
	case 9:
		msg.SAR = decodeSARPosition(buf)
	case 10:
		msg.UTCInq = &UTCInquiry{DestMMSI: bits.UBits(buf, 40, 30)}
	case 12:
		msg.SafetyMsg = decodeSafetyAddressed(buf, bitlen)
	case 14:
		msg.SafetyBcast = &SafetyBroadcast{Text: sixbitText(buf, 40, (bitlen-40)/6)}
	case 18:
		msg.ClassB = decodeClassBPosition(buf)
	case 19:
		msg.ClassBExt = decodeClassBExtended(buf)
	case 21:
		msg.AidNav = decodeAidToNavigation(buf)
	case 24:
		decodeType24(buf, bitlen, msg)
	default:
		// Unimplemented message type: header decoded, body left nil.
		// Not an error — callers treat this as "nothing more to read".
	}
	return msg, nil
}

func decodePositionReport(buf []byte) *PositionReport {
	return &PositionReport{
		Status:    int(bits.UBits(buf, 38, 4)),
		ROT:       int8(bits.SBits(buf, 42, 8)),
		SOG:       int(bits.UBits(buf, 50, 10)),
		Accuracy:  bits.UBits(buf, 60, 1) != 0,
		Longitude: bits.SBits(buf, 61, 28),
		Latitude:  bits.SBits(buf, 89, 27),
		COG:       int(bits.UBits(buf, 116, 12)),
		Heading:   int(bits.UBits(buf, 128, 9)),
		UTCSecond: int(bits.UBits(buf, 137, 6)),
		Maneuver:  int(bits.UBits(buf, 143, 2)),
		RAIM:      bits.UBits(buf, 148, 1) != 0,
		Radio:     bits.UBits(buf, 149, 20),
	}
}

func decodeBaseStation(buf []byte) *BaseStation {
	return &BaseStation{
		Year:      int(bits.UBits(buf, 38, 14)),
		Month:     int(bits.UBits(buf, 52, 4)),
		Day:       int(bits.UBits(buf, 56, 5)),
		Hour:      int(bits.UBits(buf, 61, 5)),
		Minute:    int(bits.UBits(buf, 66, 6)),
		Second:    int(bits.UBits(buf, 72, 6)),
		Accuracy:  bits.UBits(buf, 78, 1) != 0,
		Longitude: bits.SBits(buf, 79, 28),
		Latitude:  bits.SBits(buf, 107, 27),
		EPFD:      int(bits.UBits(buf, 134, 4)),
		RAIM:      bits.UBits(buf, 148, 1) != 0,
		Radio:     bits.UBits(buf, 149, 19),
	}
}

func decodeStaticVoyageData(buf []byte) *StaticVoyageData {
	return &StaticVoyageData{
		AISVersion:   int(bits.UBits(buf, 38, 2)),
		IMONumber:    bits.UBits(buf, 40, 30),
		Callsign:     sixbitText(buf, 70, 7),
		VesselName:   sixbitText(buf, 112, 20),
		ShipType:     int(bits.UBits(buf, 232, 8)),
		ToBow:        int(bits.UBits(buf, 240, 9)),
		ToStern:      int(bits.UBits(buf, 249, 9)),
		ToPort:       int(bits.UBits(buf, 258, 6)),
		ToStarboard:  int(bits.UBits(buf, 264, 6)),
		EPFD:         int(bits.UBits(buf, 270, 4)),
		Month:        int(bits.UBits(buf, 274, 4)),
		Day:          int(bits.UBits(buf, 278, 5)),
		Hour:         int(bits.UBits(buf, 283, 5)),
		Minute:       int(bits.UBits(buf, 288, 6)),
		Draught:      float64(bits.UBits(buf, 294, 8)) / 10.0,
		Destination:  sixbitText(buf, 302, 20),
		DTE:          bits.UBits(buf, 422, 1) != 0,
	}
}

func decodeBinaryAddressed(buf []byte, bitlen int) *BinaryAddressed {
	count := bitlen - 88
	if count < 0 {
		count = 0
	}
	return &BinaryAddressed{
		SeqNo:         int(bits.UBits(buf, 38, 2)),
		DestMMSI:      bits.UBits(buf, 40, 30),
		Retransmit:    bits.UBits(buf, 70, 1) != 0,
		ApplicationID: uint16(bits.UBits(buf, 72, 16)),
		BitCount:      count,
		Data:          extractDataBits(buf, 88, count),
	}
}

func decodeBinaryAck(buf []byte, bitlen int) *BinaryAck {
	var ack BinaryAck
	for i := 0; i < len(ack.MMSI); i++ {
		offset := 40 + 32*i
		if bitlen > offset {
			ack.MMSI[i] = bits.UBits(buf, offset, 30)
		}
	}
	return &ack
}

func decodeBinaryBroadcast(buf []byte, bitlen int) *BinaryBroadcast {
	count := bitlen - 56
	if count < 0 {
		count = 0
	}
	return &BinaryBroadcast{
		ApplicationID: uint16(bits.UBits(buf, 40, 16)),
		BitCount:      count,
		Data:          extractDataBits(buf, 56, count),
	}
}

// extractDataBits copies a run of count application-defined bits
// starting at bit offset start into a byte-packed slice, MSB-first,
// mirroring the memcpy-from-bitvec the source performs for types 6/8.
func extractDataBits(buf []byte, start, count int) []byte {
	if count <= 0 {
		return nil
	}
	n := (count + 7) / 8
	out := make([]byte, n)
	for i := 0; i < count; i++ {
		if bits.UBits(buf, start+i, 1) != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

func decodeSARPosition(buf []byte) *SARPosition {
	return &SARPosition{
		Altitude:  int(bits.UBits(buf, 38, 12)),
		SOG:       int(bits.UBits(buf, 50, 10)),
		Accuracy:  bits.UBits(buf, 60, 1) != 0,
		Longitude: bits.SBits(buf, 61, 28),
		Latitude:  bits.SBits(buf, 89, 27),
		COG:       int(bits.UBits(buf, 116, 12)),
		UTCSecond: int(bits.UBits(buf, 128, 6)),
		Regional:  int(bits.UBits(buf, 134, 8)),
		DTE:       bits.UBits(buf, 142, 1) != 0,
		Assigned:  bits.UBits(buf, 144, 1) != 0,
		RAIM:      bits.UBits(buf, 145, 1) != 0,
		Radio:     bits.UBits(buf, 146, 22),
	}
}

func decodeSafetyAddressed(buf []byte, bitlen int) *SafetyAddressed {
	textLen := (bitlen - 72) / 6
	if textLen < 0 {
		textLen = 0
	}
	return &SafetyAddressed{
		SeqNo:      int(bits.UBits(buf, 38, 2)),
		DestMMSI:   bits.UBits(buf, 40, 30),
		Retransmit: bits.UBits(buf, 70, 1) != 0,
		Text:       sixbitText(buf, 72, textLen),
	}
}

func decodeClassBPosition(buf []byte) *ClassBPosition {
	return &ClassBPosition{
		Reserved:    int(bits.UBits(buf, 38, 8)),
		SOG:         int(bits.UBits(buf, 46, 10)),
		Accuracy:    bits.UBits(buf, 56, 1) != 0,
		Longitude:   bits.SBits(buf, 57, 28),
		Latitude:    bits.SBits(buf, 85, 27),
		COG:         int(bits.UBits(buf, 112, 12)),
		Heading:     int(bits.UBits(buf, 124, 9)),
		UTCSecond:   int(bits.UBits(buf, 133, 6)),
		Regional:    int(bits.UBits(buf, 139, 2)),
		CSFlag:      bits.UBits(buf, 141, 1) != 0,
		DisplayFlag: bits.UBits(buf, 142, 1) != 0,
		DSCFlag:     bits.UBits(buf, 143, 1) != 0,
		BandFlag:    bits.UBits(buf, 144, 1) != 0,
		Msg22Flag:   bits.UBits(buf, 145, 1) != 0,
		Assigned:    bits.UBits(buf, 146, 1) != 0,
		RAIM:        bits.UBits(buf, 147, 1) != 0,
		Radio:       bits.UBits(buf, 148, 20),
	}
}

func decodeClassBExtended(buf []byte) *ClassBExtended {
	return &ClassBExtended{
		Reserved:    int(bits.UBits(buf, 38, 8)),
		SOG:         int(bits.UBits(buf, 46, 10)),
		Accuracy:    bits.UBits(buf, 56, 1) != 0,
		Longitude:   bits.SBits(buf, 57, 28),
		Latitude:    bits.SBits(buf, 85, 27),
		COG:         int(bits.UBits(buf, 112, 12)),
		Heading:     int(bits.UBits(buf, 124, 9)),
		UTCSecond:   int(bits.UBits(buf, 133, 6)),
		Regional:    int(bits.UBits(buf, 139, 4)),
		VesselName:  sixbitText(buf, 143, 20),
		ShipType:    int(bits.UBits(buf, 263, 8)),
		ToBow:       int(bits.UBits(buf, 271, 9)),
		ToStern:     int(bits.UBits(buf, 280, 9)),
		ToPort:      int(bits.UBits(buf, 289, 6)),
		ToStarboard: int(bits.UBits(buf, 295, 6)),
		EPFD:        int(bits.UBits(buf, 299, 4)),
		RAIM:        bits.UBits(buf, 302, 1) != 0,
		DTE:         bits.UBits(buf, 305, 1) != 0,
		Assigned:    bits.UBits(buf, 306, 1) != 0,
	}
}

func decodeAidToNavigation(buf []byte) *AidToNavigation {
	return &AidToNavigation{
		AidType:     int(bits.UBits(buf, 38, 5)),
		Name:        sixbitText(buf, 43, 20),
		Accuracy:    bits.UBits(buf, 163, 1) != 0,
		Longitude:   bits.SBits(buf, 164, 28),
		Latitude:    bits.SBits(buf, 192, 27),
		ToBow:       int(bits.UBits(buf, 219, 9)),
		ToStern:     int(bits.UBits(buf, 228, 9)),
		ToPort:      int(bits.UBits(buf, 237, 6)),
		ToStarboard: int(bits.UBits(buf, 243, 6)),
		EPFD:        int(bits.UBits(buf, 249, 4)),
		UTCSecond:   int(bits.UBits(buf, 253, 6)),
		OffPosition: bits.UBits(buf, 259, 1) != 0,
		Regional:    int(bits.UBits(buf, 260, 8)),
		RAIM:        bits.UBits(buf, 268, 1) != 0,
		VirtualAid:  bits.UBits(buf, 269, 1) != 0,
		Assigned:    bits.UBits(buf, 270, 1) != 0,
	}
}

func decodeType24(buf []byte, _ int, msg *Message) {
	part := bits.UBits(buf, 38, 2)
	switch part {
	case 0:
		msg.StaticA = &StaticDataA{VesselName: sixbitText(buf, 40, 20)}
	case 1:
		b := &StaticDataB{
			ShipType: int(bits.UBits(buf, 40, 8)),
			VendorID: sixbitText(buf, 48, 7),
			Callsign: sixbitText(buf, 90, 7),
		}
		if IsAuxiliaryMMSI(msg.MMSI) {
			b.MothershipMMSI = bits.UBits(buf, 132, 30)
		} else {
			b.ToBow = int(bits.UBits(buf, 132, 9))
			b.ToStern = int(bits.UBits(buf, 141, 9))
			b.ToPort = int(bits.UBits(buf, 150, 6))
			b.ToStarboard = int(bits.UBits(buf, 156, 6))
		}
		msg.StaticB = b
	}
}
