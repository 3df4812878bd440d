package driver

import (
	"testing"

	"github.com/perezmeyer/gpsdcore/lexer"
	"github.com/perezmeyer/gpsdcore/navdata"
	"github.com/perezmeyer/gpsdcore/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	written [][]byte
}

func (f *fakeDevice) Read(p []byte) (int, error) { return 0, nil }
func (f *fakeDevice) Write(p []byte) (int, error) {
	f.written = append(f.written, append([]byte(nil), p...))
	return len(p), nil
}
func (f *fakeDevice) SetBaud(int) error { return nil }
func (f *fakeDevice) Close() error      { return nil }
func (f *fakeDevice) Path() string      { return "fake" }

var _ transport.Device = (*fakeDevice)(nil)

func TestLookupUniqueSubstring(t *testing.T) {
	r := DefaultRegistry()

	d, err := r.Lookup("Generic NMEA")
	require.NoError(t, err)
	assert.Equal(t, "Generic NMEA", d.Name)

	d, err = r.Lookup("NMEA")
	require.NoError(t, err)
	assert.Equal(t, "Generic NMEA", d.Name)
}

func TestLookupAmbiguousAcrossTwoNames(t *testing.T) {
	r := NewRegistry(
		&Descriptor{Name: "Navcom NCT"},
		&Descriptor{Name: "Navcom Binary"},
	)
	_, err := r.Lookup("Navcom")
	assert.ErrorIs(t, err, ErrAmbiguousName)
}

func TestLookupNotFound(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.Lookup("Zodiac")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetectorRedirectsOnBinaryPacketType(t *testing.T) {
	r := DefaultRegistry()
	det, err := NewDetector(r)
	require.NoError(t, err)
	require.Equal(t, "Generic NMEA", det.Active().Name)

	rec := navdata.New()
	ctx := navdata.NewContext(18)
	state := NewState()

	payload := make([]byte, 29)
	payload[1] = 0x02
	raw := append([]byte{0x10, 0x02}, payload...)

	_, err = det.Step(nil, lexer.EverMorePacket, raw, rec, ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "EverMore", det.Active().Name)

	_, err = det.Step(nil, lexer.EverMorePacket, raw, rec, ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "EverMore", det.Active().Name)
}

func TestDetectorSwitchesOnTriggerAfterEmptyParse(t *testing.T) {
	r := NewRegistry(
		&Descriptor{
			Name:    "Generic NMEA",
			Packets: []lexer.PacketType{lexer.NMEAPacket},
			Parse: func(lexer.PacketType, []byte, *navdata.NavigationRecord, *navdata.Context, *State) (navdata.DirtyMask, error) {
				return 0, nil
			},
		},
		&Descriptor{
			Name:    "SiRF-II NMEA",
			Trigger: "$PSRF",
			Packets: []lexer.PacketType{lexer.NMEAPacket},
			Parse: func(lexer.PacketType, []byte, *navdata.NavigationRecord, *navdata.Context, *State) (navdata.DirtyMask, error) {
				return navdata.StatusSet, nil
			},
		},
	)
	det, err := NewDetector(r)
	require.NoError(t, err)

	rec := navdata.New()
	ctx := navdata.NewContext(18)
	state := NewState()

	mask, err := det.Step(nil, lexer.NMEAPacket, []byte("$PSRF105,1*3F\r\n"), rec, ctx, state)
	require.NoError(t, err)
	assert.Equal(t, navdata.DirtyMask(0), mask)
	assert.Equal(t, "SiRF-II NMEA", det.Active().Name)
}

func TestDetectorSniffWindowExpires(t *testing.T) {
	r := NewRegistry(
		&Descriptor{
			Name:    "Generic NMEA",
			Packets: []lexer.PacketType{lexer.NMEAPacket},
			Parse: func(lexer.PacketType, []byte, *navdata.NavigationRecord, *navdata.Context, *State) (navdata.DirtyMask, error) {
				return 0, nil
			},
		},
		&Descriptor{
			Name:    "SiRF-II NMEA",
			Trigger: "$PSRF",
			Packets: []lexer.PacketType{lexer.NMEAPacket},
		},
	)
	det, err := NewDetector(r)
	require.NoError(t, err)

	rec := navdata.New()
	ctx := navdata.NewContext(18)
	state := NewState()

	for i := 0; i < sniffWindow; i++ {
		_, err := det.Step(nil, lexer.NMEAPacket, []byte("$GPGGA,,,,,,,,,,,,,,*00\r\n"), rec, ctx, state)
		require.NoError(t, err)
	}
	require.Equal(t, "Generic NMEA", det.Active().Name)

	_, err = det.Step(nil, lexer.NMEAPacket, []byte("$PSRF105,1*3F\r\n"), rec, ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "Generic NMEA", det.Active().Name, "trigger match should no longer fire once the sniffing window is spent")
}

func TestSwitchDriverRunsInitializer(t *testing.T) {
	called := false
	r := NewRegistry(
		&Descriptor{Name: "Generic NMEA", Packets: []lexer.PacketType{lexer.NMEAPacket}},
		&Descriptor{
			Name: "EverMore",
			Initializer: func(dev transport.Device) error {
				called = true
				_, err := dev.Write([]byte{0x84})
				return err
			},
		},
	)
	det, err := NewDetector(r)
	require.NoError(t, err)

	dev := &fakeDevice{}
	require.NoError(t, det.SwitchDriver(dev, "EverMore"))

	assert.Equal(t, "EverMore", det.Active().Name)
	assert.True(t, called)
	require.Len(t, dev.written, 1)
}

func TestOwnsChecksPacketTypeMembership(t *testing.T) {
	d := &Descriptor{Packets: []lexer.PacketType{lexer.NMEAPacket, lexer.AISPacket}}
	assert.True(t, d.Owns(lexer.NMEAPacket))
	assert.False(t, d.Owns(lexer.EverMorePacket))
}
