package aivdm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// armor is the inverse of dearmor: packs a slice of bits (one bit per
// byte, MSB-first) into the printable 6-bit ASCII armor used on the
// wire, for building test fixtures.
func armor(bitstream []byte) string {
	out := make([]byte, 0, len(bitstream)/6+1)
	for i := 0; i+6 <= len(bitstream); i += 6 {
		var v byte
		for j := 0; j < 6; j++ {
			v = v<<1 | bitstream[i+j]
		}
		if v < 40 {
			out = append(out, v+48)
		} else {
			out = append(out, v+56)
		}
	}
	return string(out)
}

func appendBits(dst []byte, value uint64, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte((value>>uint(i))&1))
	}
	return dst
}

func buildType1(mmsi uint32, lat, lon int32) string {
	var b []byte
	b = appendBits(b, 1, 6)   // id
	b = appendBits(b, 0, 2)   // repeat
	b = appendBits(b, uint64(mmsi), 30)
	b = appendBits(b, 5, 4) // status
	b = appendBits(b, uint64(uint8(10)), 8) // rot
	b = appendBits(b, 200, 10) // sog
	b = appendBits(b, 1, 1)    // accuracy
	b = appendBits(b, uint64(uint32(lon))&0xFFFFFFF, 28)
	b = appendBits(b, uint64(uint32(lat))&0x7FFFFFF, 27)
	b = appendBits(b, 900, 12) // cog
	b = appendBits(b, 45, 9)   // heading
	b = appendBits(b, 30, 6)   // utc second
	b = appendBits(b, 0, 2)    // maneuver
	b = appendBits(b, 0, 3)    // spare
	b = appendBits(b, 0, 1)    // raim
	b = appendBits(b, 0, 20)   // radio
	for len(b)%6 != 0 {
		b = append(b, 0)
	}
	return armor(b)
}

func TestSinglePartType1Decodes(t *testing.T) {
	payload := buildType1(123456789, 1800000, -730000)
	sentence := "AIVDM,1,1,,A," + payload + ",0"

	a := NewAssembler()
	msg, err := a.Feed([]byte(sentence))
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.NotNil(t, msg.Position)

	assert.Equal(t, 1, msg.ID)
	assert.Equal(t, uint32(123456789), msg.MMSI)
	assert.Equal(t, 5, msg.Position.Status)
	assert.Equal(t, 200, msg.Position.SOG)
	assert.True(t, msg.Position.Accuracy)
	assert.InDelta(t, 1800000, msg.Position.Latitude, 0)
	assert.InDelta(t, -730000, msg.Position.Longitude, 0)
	assert.Equal(t, "A", msg.Channel)
}

func TestMultiPartMessageReassemblesAcrossTwoSentences(t *testing.T) {
	// Build a type-5 payload long enough to require splitting, then
	// feed it as two sentences with part/await accounting.
	var b []byte
	b = appendBits(b, 5, 6) // id
	b = appendBits(b, 0, 2)
	b = appendBits(b, 234567890, 30)
	b = appendBits(b, 0, 2) // ais version
	b = appendBits(b, 0, 30) // imo
	// callsign (7 chars = 42 bits): "TESTCS"
	for _, c := range "TESTCS@" {
		b = appendBits(b, uint64(sixbitIndex(byte(c))), 6)
	}
	// vessel name (20 chars = 120 bits)
	name := "MV EXAMPLE" + "          "
	for _, c := range name {
		b = appendBits(b, uint64(sixbitIndex(byte(c))), 6)
	}
	for len(b) < 423 {
		b = append(b, 0)
	}
	for len(b)%6 != 0 {
		b = append(b, 0)
	}
	full := armor(b)
	mid := len(full) / 2

	a := NewAssembler()
	_, err := a.Feed([]byte("AIVDM,2,1,9,A," + full[:mid] + ",0"))
	assert.ErrorIs(t, err, ErrIncomplete)

	msg, err := a.Feed([]byte("AIVDM,2,2,9,A," + full[mid:] + ",0"))
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.NotNil(t, msg.Voyage)
	assert.Equal(t, "TESTCS", msg.Voyage.Callsign)
	assert.Contains(t, msg.Voyage.VesselName, "MV EXAMPLE")
}

func TestDroppedSentenceNeverEmits(t *testing.T) {
	a := NewAssembler()
	_, err := a.Feed([]byte("AIVDM,2,1,3,A,13aEOK?P00PD2wVMdLDRhgvL0D00,0"))
	assert.ErrorIs(t, err, ErrIncomplete)
	// Second part of a *different* sequence id never arrives; a fresh
	// part==1 sentence should cleanly reset state instead of merging.
	payload := buildType1(1, 0, 0)
	msg, err := a.Feed([]byte("AIVDM,1,1,,A," + payload + ",0"))
	require.NoError(t, err)
	require.NotNil(t, msg)
}

func TestIsAuxiliaryMMSI(t *testing.T) {
	assert.True(t, IsAuxiliaryMMSI(981234567))
	assert.False(t, IsAuxiliaryMMSI(366123456))
}

func TestScaledROTSentinels(t *testing.T) {
	assert.True(t, isNaN(ScaledROT(ROTNotAvailable)))
	assert.Equal(t, float64(-720), ScaledROT(ROTLeftAtMax))
	assert.Equal(t, float64(720), ScaledROT(ROTRightAtMax))
	assert.InDelta(t, 0, ScaledROT(0), 0.001)
}

func isNaN(f float64) bool { return f != f }

// sixbitIndex is the inverse of the sixbitAlphabet lookup, for test
// fixture construction only.
func sixbitIndex(c byte) byte {
	for i := 0; i < len(sixbitAlphabet); i++ {
		if sixbitAlphabet[i] == c {
			return byte(i)
		}
	}
	return 0
}
