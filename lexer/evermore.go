package lexer

// feedSiRF frames a SiRF binary packet: 0xA0 0xA2 LEN(2, big-endian)
// payload(LEN) checksum(2, big-endian, 15-bit sum of payload) 0xB0
// 0xB3. gpsdcore only needs to recognize and hand off SiRF frames
// (driver support is out of scope per spec.md's Non-goals), so this
// validates framing and checksum but does no field decode.
func (l *Lexer) feedSiRF(b byte) (bool, error) {
	l.raw = append(l.raw, b)

	switch l.st {
	case stateSiRFLeader:
		if b != 0xA2 {
			l.Reset()
			return false, nil
		}
		l.sirfLen = 0
		l.st = stateSiRFLength
		return false, nil

	case stateSiRFLength:
		l.sirfLen = l.sirfLen<<8 | int(b)
		if len(l.raw) == 4 {
			if l.sirfLen <= 0 || l.sirfLen > maxPacketLength {
				l.Reset()
				return false, nil
			}
			l.st = stateSiRFPayload
		}
		return false, nil

	case stateSiRFPayload:
		// 4 header bytes + sirfLen payload bytes consumed so far.
		if len(l.raw) == 4+l.sirfLen {
			l.sirfCksum = 0
			for _, pb := range l.raw[4 : 4+l.sirfLen] {
				l.sirfCksum += uint16(pb)
			}
			l.sirfCksum &= 0x7FFF
			l.st = stateSiRFChecksum
		}
		return false, nil

	case stateSiRFChecksum:
		if len(l.raw) == 4+l.sirfLen+2 {
			got := uint16(l.raw[4+l.sirfLen])<<8 | uint16(l.raw[5+l.sirfLen])
			if got != l.sirfCksum {
				l.packetType = BadPacket
			}
			l.st = stateSiRFTrailer
		}
		return false, nil

	case stateSiRFTrailer:
		n := len(l.raw)
		if n == 4+l.sirfLen+3 {
			if b != 0xB0 {
				l.Reset()
				return false, nil
			}
			return false, nil
		}
		if n == 4+l.sirfLen+4 {
			if b != 0xB3 {
				l.Reset()
				return false, nil
			}
			if l.packetType != BadPacket {
				l.packetType = SiRFPacket
			}
			l.ready = true
			l.st = stateGround
			return true, nil
		}
	}
	if len(l.raw) > maxPacketLength {
		return l.overflow()
	}
	return false, nil
}

// feedEverMore frames an EverMore DLE-stuffed binary packet: 0x10 0x02
// LEN payload(LEN bytes, message type + data) checksum(1, sum mod 256
// of payload) 0x10 0x03, with every literal 0x10 inside LEN, payload
// or checksum doubled to 0x10 0x10 (grounded on evermore.c's
// evermore_write/evermore_parse DLE stuffing). l.raw keeps the
// original stuffed bytes; l.emBuf accumulates the destuffed logical
// bytes (length byte, then payload, then checksum).
func (l *Lexer) feedEverMore(b byte) (bool, error) {
	l.raw = append(l.raw, b)

	if l.st == stateEverMoreLeader {
		if b != 0x02 {
			l.Reset()
			return false, nil
		}
		l.emBuf = l.emBuf[:0]
		l.emDLE = false
		l.emLen = -1
		l.st = stateEverMoreLength
		return false, nil
	}

	if l.emDLE {
		l.emDLE = false
		switch b {
		case 0x03:
			return l.finishEverMore()
		case 0x10:
			l.emBuf = append(l.emBuf, 0x10)
		default:
			l.Reset()
			return false, nil
		}
	} else if b == 0x10 {
		l.emDLE = true
		return false, nil
	} else {
		l.emBuf = append(l.emBuf, b)
	}

	if l.emLen < 0 && len(l.emBuf) == 1 {
		l.emLen = int(l.emBuf[0])
	}
	if len(l.raw) > maxPacketLength {
		return l.overflow()
	}
	return false, nil
}

func (l *Lexer) finishEverMore() (bool, error) {
	defer func() {
		l.st = stateGround
		l.ready = true
	}()
	if l.emLen < 0 || len(l.emBuf) != l.emLen+2 {
		l.packetType = BadPacket
		return true, nil
	}
	payload := l.emBuf[1 : 1+l.emLen]
	want := l.emBuf[1+l.emLen]
	var sum byte
	for _, pb := range payload {
		sum += pb
	}
	if sum != want {
		l.packetType = BadPacket
	} else {
		l.packetType = EverMorePacket
	}
	return true, nil
}

// EverMorePayload extracts the destuffed message-type+data bytes from
// a completed EverMore packet's raw framed form (everything between
// the 0x10 0x02 leader and the 0x10 0x03 trailer, with 0x10 0x10
// collapsed back to a literal 0x10), for use by the evermore package's
// decoder. The first destuffed byte is the length prefix, the last is
// the checksum; both are dropped from the returned slice.
func EverMorePayload(raw []byte) []byte {
	if len(raw) < 2 {
		return nil
	}
	var logical []byte
	body := raw[2:]
	for j := 0; j < len(body); j++ {
		b := body[j]
		if b == 0x10 {
			if j+1 < len(body) && body[j+1] == 0x10 {
				logical = append(logical, 0x10)
				j++
				continue
			}
			break // unescaped 0x10 marks the start of the DLE ETX trailer
		}
		logical = append(logical, b)
	}
	if len(logical) < 2 {
		return nil
	}
	length := int(logical[0])
	if 1+length > len(logical) {
		return nil
	}
	return logical[1 : 1+length]
}

// feedNavcom frames a Navcom NCT binary packet: 0x02 0x99 0x66 CMD
// LEN(2, little-endian total packet length) payload checksum(1, XOR
// of bytes[3:len-2]) 0x03, grounded on navcom.c's command writers and
// navcom_parse's msg_len/cmd_id reads.
func (l *Lexer) feedNavcom(b byte) (bool, error) {
	l.raw = append(l.raw, b)
	n := len(l.raw)

	switch {
	case n == 2:
		if b != 0x99 {
			l.Reset()
			return false, nil
		}
		return false, nil
	case n == 3:
		if b != 0x66 {
			l.Reset()
			return false, nil
		}
		return false, nil
	case n <= 6:
		if n == 6 {
			total := int(l.raw[4]) | int(l.raw[5])<<8
			if total < 8 || total > maxPacketLength {
				l.Reset()
				return false, nil
			}
			l.ncLen = total
		}
		return false, nil
	default:
		if n < l.ncLen {
			return false, nil
		}
		if n > l.ncLen {
			return l.overflow()
		}
		return l.finishNavcom()
	}
}

func (l *Lexer) finishNavcom() (bool, error) {
	n := l.ncLen
	if l.raw[n-1] != 0x03 {
		l.packetType = BadPacket
	} else {
		var sum byte
		for _, b := range l.raw[3 : n-2] {
			sum ^= b
		}
		if sum != l.raw[n-2] {
			l.packetType = BadPacket
		} else {
			l.packetType = NavcomPacket
		}
	}
	l.ready = true
	l.st = stateGround
	return true, nil
}
