package evermore

// Frame DLE-stuffs msg (message-id byte first) into a complete wire
// packet: DLE STX, stuffed length, stuffed payload, stuffed checksum,
// DLE ETX, grounded on evermore.c's evermore_write. The length byte
// carries len(msg) directly (payload bytes only); lexer.EverMorePayload
// and the lexer's own EverMore state machine both read it the same
// way, a simpler self-consistent convention than the original C's
// off-by-two length field.
func Frame(msg []byte) []byte {
	out := make([]byte, 0, len(msg)*2+8)
	out = append(out, 0x10, 0x02)

	length := byte(len(msg))
	out = stuffAppend(out, length)

	var crc byte
	for _, b := range msg {
		crc += b
		out = stuffAppend(out, b)
	}
	out = stuffAppend(out, crc)

	out = append(out, 0x10, 0x03)
	return out
}

func stuffAppend(out []byte, b byte) []byte {
	out = append(out, b)
	if b == 0x10 {
		out = append(out, 0x10)
	}
	return out
}

// SwitchProtocol builds the "Protocol Configuration" (0x84) message:
// binary mode when toBinary is true, NMEA otherwise.
func SwitchProtocol(toBinary bool) []byte {
	mode := byte(1)
	if toBinary {
		mode = 0
	}
	return []byte{0x84, mode, 0x00, 0x00}
}

// baudCode maps a baud rate to EverMore's 2-bit code; ok is false for
// an unsupported rate.
func baudCode(baud int) (code byte, ok bool) {
	switch baud {
	case 4800:
		return 0, true
	case 9600:
		return 1, true
	case 19200:
		return 2, true
	case 38400:
		return 3, true
	default:
		return 0, false
	}
}

// SetBaudRate builds the "Serial Port Configuration" (0x89) message
// for the main serial port.
func SetBaudRate(baud int) ([]byte, bool) {
	code, ok := baudCode(baud)
	if !ok {
		return nil, false
	}
	return []byte{0x89, 0x01, code, 0x00}, true
}

// SetElevationMask builds the "Set Elevation Mask" (0x86) message,
// degrees 0..89.
func SetElevationMask(degrees byte) []byte {
	return []byte{0x86, degrees}
}

// SetDOPMask builds the "Set DOP Mask" (0x87) message.
func SetDOPMask(mode, gdop, pdop, hdop byte) []byte {
	return []byte{0x87, mode, gdop, pdop, hdop}
}

// SelectDatum builds the "Select Datum" (0x8d) message; datumID 1 is WGS-84.
func SelectDatum(datumID uint16) []byte {
	return []byte{0x8d, byte(datumID), byte(datumID >> 8), 0x00}
}
