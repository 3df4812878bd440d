package navcom

import (
	"math"
	"testing"

	"github.com/perezmeyer/gpsdcore/bits"
	"github.com/perezmeyer/gpsdcore/navdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPVTPayload() []byte {
	p := make([]byte, 43)
	bits.LEPutUint16(p, 0, 100)             // week
	bits.LEPutUint32(p, 2, 36000000)        // tow, ms
	bits.LEPutUint32(p, 6, (1<<0)|(1<<4))   // sats used bitmask: PRN 1 and 5

	bits.LEPutUint32(p, 10, uint32(int32(133200*2048)))    // lat: 37.0 deg
	lon := int32(-439200 * 2048)
	bits.LEPutUint32(p, 14, uint32(lon))   // lon: -122.0 deg
	p[18] = 0 // lat/lon fraction nibbles

	p[19] = 0xc0 // 3D, no DGPS

	bits.LEPutUint32(p, 20, uint32(int32(100*1024))) // ellipsoid height 100m
	bits.LEPutUint32(p, 24, uint32(int32(95*1024)))  // MSL altitude 95m

	putS24(p, 28, 1000*1024) // vel north
	putS24(p, 31, 0)         // vel east
	putS24(p, 34, 0)         // vel up

	p[37] = 50 // fom
	p[38] = 20 // gdop
	p[39] = 15 // pdop
	p[40] = 10 // hdop
	p[41] = 8  // vdop
	p[42] = 5  // tdop
	return p
}

func putS24(buf []byte, off int, v int32) {
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
	buf[off+2] = byte(v >> 16)
}

func TestParsePVTDecodesPositionAndVelocity(t *testing.T) {
	p := buildPVTPayload()
	rec := navdata.New()
	ctx := navdata.NewContext(18)

	mask := Parse(0xb1, p, rec, ctx)

	assert.True(t, mask.Any(navdata.LatlonSet))
	assert.InDelta(t, 37.0, rec.Fix.Latitude, 0.0001)
	assert.InDelta(t, -122.0, rec.Fix.Longitude, 0.0001)
	assert.Equal(t, navdata.Mode3D, rec.Fix.Mode)
	assert.Equal(t, navdata.StatusFix, rec.Fix.Status)
	assert.InDelta(t, 95.0, rec.Fix.Altitude, 0.01)
	assert.InDelta(t, 100.0, rec.AltitudeEllipsoid, 0.01)
	assert.InDelta(t, 1000.0, rec.Fix.Speed, 0.01)
	assert.InDelta(t, 0.0, rec.Fix.Track, 0.01)
	assert.InDelta(t, 0.0, rec.Fix.Climb, 0.01)
	assert.InDelta(t, 0.4, rec.Fix.Epv, 0.01)
	require.Len(t, rec.SatellitesUsed, 2)
	assert.Equal(t, []int{1, 5}, rec.SatellitesUsed)
}

func TestParsePVTDopUndefinedIsNaN(t *testing.T) {
	p := buildPVTPayload()
	p[38] = dopUndefined
	rec := navdata.New()
	ctx := navdata.NewContext(18)

	Parse(0xb1, p, rec, ctx)

	assert.True(t, math.IsNaN(rec.DOPs.GDOP))
}

func TestVelUp24BitSignExtends(t *testing.T) {
	p := buildPVTPayload()
	// -1024 raw (-1 m/s at velRes 2^-10 m/s, i.e. downward), encoded as a 24-bit two's
	// complement value: must sign-extend through bit 23, not just 15.
	putS24(p, 34, -1024)
	rec := navdata.New()
	ctx := navdata.NewContext(18)

	Parse(0xb1, p, rec, ctx)

	assert.InDelta(t, -1.0, rec.Fix.Climb, 0.01)
}

func buildChannelStatusPayload() []byte {
	p := make([]byte, 42)
	bits.LEPutUint16(p, 0, 100)
	bits.LEPutUint32(p, 2, 36000000)
	bits.LEPutUint16(p, 7, 0x0005) // DGPS fix bits
	p[9] = 2                      // sats visible
	p[11] = 1                     // sats used
	p[12] = 15                    // pdop raw

	r := 14
	p[r] = 5      // prn
	p[r+1] = 1    // tracking status, nonzero
	p[r+5] = 45   // elevation
	bits.LEPutUint16(p, r+6, 90) // azimuth
	p[r+8] = 80   // ca snr raw
	p[r+10] = 0   // p2 snr raw, unused

	r = 28
	p[r] = 7
	p[r+1] = 0 // tracking status zero: record skipped
	return p
}

func TestParseChannelStatusSkipsUntrackedRecords(t *testing.T) {
	p := buildChannelStatusPayload()
	rec := navdata.New()
	ctx := navdata.NewContext(18)

	mask := Parse(0x86, p, rec, ctx)

	assert.True(t, mask.Any(navdata.SatelliteSet))
	assert.Equal(t, navdata.StatusDGPSFix, rec.Fix.Status)
	assert.Equal(t, 2, rec.SatellitesVisible)
	assert.Equal(t, 5, rec.Channels[0].PRN)
	assert.InDelta(t, 20.0, rec.Channels[0].SNR, 0.01)
	assert.InDelta(t, 1.5, rec.DOPs.PDOP, 0.01)
}

func TestUnknownCommandReturnsZeroMask(t *testing.T) {
	rec := navdata.New()
	ctx := navdata.NewContext(18)
	mask := Parse(0xff, []byte{0x00}, rec, ctx)
	assert.Equal(t, navdata.DirtyMask(0), mask)
}

func TestDataRequestFrameChecksum(t *testing.T) {
	msg := DataRequest(0xb1, true, 1)
	require.True(t, len(msg) >= 10)
	assert.Equal(t, byte(0x02), msg[0])
	assert.Equal(t, byte(0x99), msg[1])
	assert.Equal(t, byte(0x66), msg[2])
	assert.Equal(t, byte(0x20), msg[3])
	assert.Equal(t, byte(0x03), msg[len(msg)-1])

	var sum byte
	for _, b := range msg[3 : len(msg)-2] {
		sum ^= b
	}
	assert.Equal(t, sum, msg[len(msg)-2])
}
