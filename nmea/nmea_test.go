package nmea

import (
	"testing"

	"github.com/perezmeyer/gpsdcore/navdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGGAFix(t *testing.T) {
	rec := navdata.New()
	ctx := navdata.NewContext(18)
	raw := []byte("$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47")

	mask, err := Parse(raw, rec, ctx)
	require.NoError(t, err)

	assert.True(t, mask.Any(navdata.LatlonSet))
	assert.True(t, mask.Any(navdata.AltitudeSet))
	assert.True(t, mask.Any(navdata.ModeSet))
	assert.True(t, mask.Any(navdata.TimeSet))
	assert.InDelta(t, 48.1173, rec.Fix.Latitude, 0.001)
	assert.InDelta(t, 11.5167, rec.Fix.Longitude, 0.001)
	assert.InDelta(t, 545.4, rec.Fix.Altitude, 0.01)
	assert.Equal(t, navdata.Mode3D, rec.Fix.Mode)
}

func TestParseGGABadChecksumErrors(t *testing.T) {
	rec := navdata.New()
	ctx := navdata.NewContext(18)
	raw := []byte("$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*00")

	_, err := Parse(raw, rec, ctx)
	assert.Error(t, err)
}

func TestParseRMCVoidStatusSkipsPosition(t *testing.T) {
	rec := navdata.New()
	ctx := navdata.NewContext(18)
	raw := []byte("$GPRMC,123519,V,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*7D")

	mask, err := Parse(raw, rec, ctx)
	require.NoError(t, err)
	assert.True(t, mask.Any(navdata.StatusSet))
	assert.False(t, mask.Any(navdata.LatlonSet))
	assert.Equal(t, navdata.StatusNoFix, rec.Fix.Status)
}

func TestParseRMCSetsTimeFromDateAndTimeOfDay(t *testing.T) {
	rec := navdata.New()
	ctx := navdata.NewContext(18)
	raw := []byte("$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A")

	mask, err := Parse(raw, rec, ctx)
	require.NoError(t, err)
	assert.True(t, mask.Any(navdata.TimeSet))

	// 1994-03-23T12:35:19Z
	assert.InDelta(t, 764426119.0, rec.Time, 1)
}

func TestParseUnknownSentenceReturnsZeroMaskNoError(t *testing.T) {
	rec := navdata.New()
	ctx := navdata.NewContext(18)
	raw := []byte("$GPZZZ,1,2,3*51")

	mask, err := Parse(raw, rec, ctx)
	assert.NoError(t, err)
	assert.Equal(t, navdata.DirtyMask(0), mask)
}
