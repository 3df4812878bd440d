package lexer

// feedNMEA accumulates a '$'/'!'-led sentence up through its trailing
// checksum and CRLF, validating the checksum the way
// pkg/gnssgo/nmea.go computes it: XOR of every byte between the
// leader and the '*'. A leading '!' marks an AIVDM/AIVDO sentence
// (same framing, different packet type) instead of plain NMEA.
func (l *Lexer) feedNMEA(b byte) (bool, error) {
	l.raw = append(l.raw, b)

	switch l.st {
	case stateNMEABody:
		switch b {
		case '*':
			l.st = stateNMEAChecksum1
		case '\r', '\n':
			// Sentence with no checksum (rare, some receivers omit
			// it). Accept at CR/LF.
			return l.finishNMEA(), nil
		}
		if len(l.raw) > maxPacketLength {
			return l.overflow()
		}
		return false, nil

	case stateNMEAChecksum1:
		if !isHex(b) {
			l.Reset()
			return false, nil
		}
		l.st = stateNMEAChecksum2
		return false, nil

	case stateNMEAChecksum2:
		if !isHex(b) {
			l.Reset()
			return false, nil
		}
		l.st = stateNMEACR
		return false, nil

	case stateNMEACR:
		if b == '\r' {
			return false, nil
		}
		if b == '\n' {
			return l.finishNMEA(), nil
		}
		// Anything else after the checksum is unexpected; resync.
		l.Reset()
		return false, nil
	}
	return false, nil
}

func (l *Lexer) finishNMEA() bool {
	if !validNMEAChecksum(l.raw) {
		l.packetType = BadPacket
	} else if l.raw[0] == '!' {
		l.packetType = AISPacket
	} else {
		l.packetType = NMEAPacket
	}
	l.ready = true
	l.st = stateGround
	return true
}

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'A' && b <= 'F') || (b >= 'a' && b <= 'f')
}

func hexVal(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	default:
		return b - 'a' + 10
	}
}

// validNMEAChecksum reports whether a complete sentence (including
// leader, '*', two hex digits and trailing CR/LF) carries a correct
// checksum. A sentence with no '*' at all is treated as unchecksummed
// and passes.
func validNMEAChecksum(sentence []byte) bool {
	star := -1
	for i, b := range sentence {
		if b == '*' {
			star = i
			break
		}
	}
	if star < 0 {
		return true
	}
	if star+2 >= len(sentence) {
		return false
	}
	var sum byte
	for _, b := range sentence[1:star] {
		sum ^= b
	}
	want := hexVal(sentence[star+1])<<4 | hexVal(sentence[star+2])
	return sum == want
}

// ChecksumNMEA computes the XOR checksum body (without leader or '*')
// of a sentence body, used by encoders that need to append one.
func ChecksumNMEA(body []byte) byte {
	var sum byte
	for _, b := range body {
		sum ^= b
	}
	return sum
}
