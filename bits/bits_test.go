package bits

import "testing"

func TestUBits(t *testing.T) {
	// 0xD3 0x00 0x13 -> preamble byte 0xD3 at bits 0-7
	buf := []byte{0xD3, 0x00, 0x13}
	if got := UBits(buf, 0, 8); got != 0xD3 {
		t.Fatalf("UBits(0,8) = %#x, want 0xd3", got)
	}
	if got := UBits(buf, 8, 16); got != 0x0013 {
		t.Fatalf("UBits(8,16) = %#x, want 0x13", got)
	}
}

func TestSBitsSignExtension(t *testing.T) {
	// 6-bit field, value 0b100000 (-32 sign-extended), offset 2
	buf := []byte{0b00100000}
	if got := SBits(buf, 2, 6); got != -32 {
		t.Fatalf("SBits = %d, want -32", got)
	}
	buf2 := []byte{0b00011111}
	if got := SBits(buf2, 2, 6); got != 31 {
		t.Fatalf("SBits = %d, want 31", got)
	}
}

func TestSBits6423BitBoundary(t *testing.T) {
	// Navcom vel_up: 24-bit signed field, verify sign extension at bit 23.
	// 0xFFFFFF = -1 as a 24-bit two's complement value.
	buf := []byte{0xFF, 0xFF, 0xFF}
	if got := SBits64(buf, 0, 24); got != -1 {
		t.Fatalf("SBits64(24) = %d, want -1", got)
	}
	// 0x800000 = most negative 24-bit value = -8388608
	buf2 := []byte{0x80, 0x00, 0x00}
	if got := SBits64(buf2, 0, 24); got != -8388608 {
		t.Fatalf("SBits64(24) = %d, want -8388608", got)
	}
}

func TestUBits64CrossesByteBoundary(t *testing.T) {
	// 28-bit longitude field spanning 4 bytes, arbitrary non-byte-aligned start.
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x00}
	got := UBits64(buf, 4, 28)
	if got != 0xFFFFFFF {
		t.Fatalf("UBits64 = %#x, want 0xfffffff", got)
	}
}

func TestUBitsOutOfRangeReadsZero(t *testing.T) {
	buf := []byte{0xFF}
	got := UBits(buf, 4, 16) // reads past end of buf
	if got != 0xF000 {
		t.Fatalf("UBits truncated = %#x, want 0xf000", got)
	}
}

func TestLittleEndianRoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	LEPutUint16(buf, 0, 0xBEEF)
	if got := LEUint16(buf, 0); got != 0xBEEF {
		t.Fatalf("LEUint16 round-trip = %#x", got)
	}
	LEPutUint32(buf, 0, 0xDEADBEEF)
	if got := LEUint32(buf, 0); got != 0xDEADBEEF {
		t.Fatalf("LEUint32 round-trip = %#x", got)
	}
}

func TestBigEndianReaders(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	if got := BEUint16(buf, 0); got != 0x0102 {
		t.Fatalf("BEUint16 = %#x", got)
	}
	if got := BEUint32(buf, 0); got != 0x01020304 {
		t.Fatalf("BEUint32 = %#x", got)
	}
}

func TestPutUBitsRoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	PutUBits(buf, 3, 10, 0b1010101010)
	got := UBits(buf, 3, 10)
	if got != 0b1010101010 {
		t.Fatalf("PutUBits/UBits round-trip = %#b, want %#b", got, 0b1010101010)
	}
}
