package evermore

import (
	"testing"

	"github.com/perezmeyer/gpsdcore/bits"
	"github.com/perezmeyer/gpsdcore/lexer"
	"github.com/perezmeyer/gpsdcore/navdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedAll(t *testing.T, l *lexer.Lexer, raw []byte) {
	t.Helper()
	for _, b := range raw {
		l.Feed(b)
	}
}

func TestFrameRoundTripsThroughLexer(t *testing.T) {
	msg := []byte{0x02, 0x10, 0x11, 0x12} // contains a literal 0x10 to exercise stuffing
	raw := Frame(msg)

	l := lexer.New()
	feedAll(t, l, raw)
	require.True(t, l.Ready())
	require.Equal(t, lexer.EverMorePacket, l.Type())

	payload := lexer.EverMorePayload(l.Packet())
	assert.Equal(t, msg, payload)
}

func buildNavDataPayload() []byte {
	msg := make([]byte, 29)
	msg[0] = 0x20 // tag byte preceding type, as buf2[0] in the source
	msg[1] = 0x02
	bits.LEPutUint16(msg, 2, 100) // week
	bits.LEPutUint32(msg, 4, 36000*100)
	x := int32(-2694043)
	bits.LEPutUint32(msg, 8, uint32(x))
	bits.LEPutUint32(msg, 12, uint32(int32(4298233)))
	bits.LEPutUint32(msg, 16, uint32(int32(3854741)))
	bits.LEPutUint16(msg, 20, uint16(int16(0)))
	bits.LEPutUint16(msg, 22, uint16(int16(0)))
	bits.LEPutUint16(msg, 24, uint16(int16(0)))
	msg[26] = 0x64 // 6 visible (hi nibble), 4 used (lo nibble) -> 3D fix
	bits.LEPutUint16(msg, 27, 542)
	return msg
}

func TestParseNavigationDataSetsModeAndPosition(t *testing.T) {
	msg := buildNavDataPayload()
	rec := navdata.New()
	ctx := navdata.NewContext(18)

	mask := Parse(msg, rec, ctx)

	assert.True(t, mask.Any(navdata.LatlonSet))
	assert.True(t, mask.Any(navdata.ModeSet))
	assert.Equal(t, navdata.Mode3D, rec.Fix.Mode)
	assert.InDelta(t, 37.5, rec.Fix.Latitude, 1.0)
}

func TestParseDOPDataSetsStatus(t *testing.T) {
	msg := make([]byte, 14)
	msg[1] = 0x04
	bits.LEPutUint16(msg, 2, 100)
	bits.LEPutUint32(msg, 4, 0)
	msg[8] = 20  // gdop
	msg[9] = 15  // pdop
	msg[10] = 8  // hdop
	msg[11] = 5  // vdop
	msg[12] = 3  // tdop
	msg[13] = 3  // 3D navigation

	rec := navdata.New()
	ctx := navdata.NewContext(18)
	mask := Parse(msg, rec, ctx)

	assert.True(t, mask.Any(navdata.DopSet))
	assert.Equal(t, navdata.Mode3D, rec.Fix.Mode)
	assert.Equal(t, navdata.StatusFix, rec.Fix.Status)
	assert.InDelta(t, 1.5, rec.DOPs.PDOP, 0.001)
}

func TestParseChannelStatusMarksUsedSatellites(t *testing.T) {
	msg := make([]byte, 7+7*2+8)
	msg[1] = 0x06
	bits.LEPutUint16(msg, 2, 100)
	bits.LEPutUint32(msg, 4, 0)
	msg[8] = 2 // 2 satellites

	// satellite 0: prn 5, used in fix
	base := 7*0 + 7
	msg[base+3] = 5
	bits.LEPutUint16(msg, base+4, 90)
	msg[base+6] = 45
	msg[base+7] = 40
	msg[base+8] = 0x40

	// satellite 1: prn 0 (invalid, skipped)
	base = 7*1 + 7
	msg[base+3] = 0

	rec := navdata.New()
	ctx := navdata.NewContext(18)
	mask := Parse(msg, rec, ctx)

	assert.True(t, mask.Any(navdata.SatelliteSet))
	require.Len(t, rec.SatellitesUsed, 1)
	assert.Equal(t, 5, rec.SatellitesUsed[0])
	assert.Equal(t, 1, rec.SatellitesVisible)
}

func TestUnknownMessageIDReturnsZeroMask(t *testing.T) {
	rec := navdata.New()
	ctx := navdata.NewContext(18)
	mask := Parse([]byte{0x00, 0xFF}, rec, ctx)
	assert.Equal(t, navdata.DirtyMask(0), mask)
}

func TestSwitchProtocolEncodesMode(t *testing.T) {
	assert.Equal(t, byte(0), SwitchProtocol(true)[1])
	assert.Equal(t, byte(1), SwitchProtocol(false)[1])
}

func TestSetBaudRateRejectsUnsupported(t *testing.T) {
	_, ok := SetBaudRate(57600)
	assert.False(t, ok)
	msg, ok := SetBaudRate(19200)
	require.True(t, ok)
	assert.Equal(t, byte(2), msg[2])
}
