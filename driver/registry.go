package driver

import (
	"fmt"

	"github.com/perezmeyer/gpsdcore/aivdm"
	"github.com/perezmeyer/gpsdcore/evermore"
	"github.com/perezmeyer/gpsdcore/lexer"
	"github.com/perezmeyer/gpsdcore/navcom"
	"github.com/perezmeyer/gpsdcore/navdata"
	"github.com/perezmeyer/gpsdcore/nmea"
	"github.com/perezmeyer/gpsdcore/rtcm104"
	"github.com/perezmeyer/gpsdcore/transport"
)

// AISState wraps the AIVDM multi-sentence reassembler; opaque outside
// this package so State's field can stay a struct literal rather than
// importing aivdm at every call site that only wants to pass State
// through.
type AISState struct {
	assembler *aivdm.Assembler
}

func newAISState() *AISState {
	return &AISState{assembler: aivdm.NewAssembler()}
}

// RTCMState wraps the bit-synchronous RTCM-104 word decoder. LastHeader
// is the most recently completed message's header, exported so a
// caller (logging, relay-to-another-receiver) can retrieve what was
// decoded; the decoder itself stays unexported like AISState's.
type RTCMState struct {
	decoder    *rtcm104.Decoder
	LastHeader rtcm104.Header
}

func newRTCMState() *RTCMState {
	return &RTCMState{decoder: rtcm104.NewDecoder()}
}

// DefaultRegistry returns the Generic NMEA / AIVDM / EverMore / Navcom
// / RTCM-104 driver table, grounded on drivers.c's
// nmea/evermore/navcom gps_type_t entries. RTCM-104 is never picked by
// auto-detection: spec.md §4.4/§12.4 treats it as a mode the lexer
// itself switches into (Lexer.SetRTCM104Mode), not a packet type a
// driver sniffs for, since it never appears interleaved with
// NMEA/binary traffic on the same wire the way SiRF/EverMore/Navcom
// do. A caller that knows its device is a beacon/DGPS receiver selects
// it explicitly via Session.SetRTCM104Mode, which both flips the lexer
// and forces this Descriptor active so the byte-at-a-time
// RTCM104Raw packets it then emits have somewhere to go.
func DefaultRegistry() *Registry {
	genericNMEA := &Descriptor{
		Name:         "Generic NMEA",
		Packets:      []lexer.PacketType{lexer.NMEAPacket},
		CycleSeconds: 1.0,
		Parse: func(_ lexer.PacketType, raw []byte, rec *navdata.NavigationRecord, ctx *navdata.Context, _ *State) (navdata.DirtyMask, error) {
			return nmea.Parse(raw, rec, ctx)
		},
	}

	aivdmDriver := &Descriptor{
		Name:    "AIVDM",
		Trigger: "!AIVDM",
		Packets: []lexer.PacketType{lexer.AISPacket},
		Parse: func(_ lexer.PacketType, raw []byte, rec *navdata.NavigationRecord, _ *navdata.Context, state *State) (navdata.DirtyMask, error) {
			msg, err := state.AIS.assembler.Feed(raw)
			if err == aivdm.ErrIncomplete {
				return 0, nil
			}
			if err != nil {
				return 0, err
			}
			return applyAIS(msg, rec), nil
		},
	}

	everMore := &Descriptor{
		Name:         "EverMore",
		Trigger:      "", // identified by binary packet type, not an NMEA trigger
		Packets:      []lexer.PacketType{lexer.EverMorePacket},
		Channels:     evermore.Channels,
		CycleSeconds: 1.0,
		Initializer: func(dev transport.Device) error {
			_, err := dev.Write(evermore.SwitchProtocol(true))
			return err
		},
		Parse: func(_ lexer.PacketType, raw []byte, rec *navdata.NavigationRecord, ctx *navdata.Context, _ *State) (navdata.DirtyMask, error) {
			return evermore.Parse(append([]byte{0}, lexer.EverMorePayload(raw)...), rec, ctx), nil
		},
		SetMode: func(dev transport.Device, binary bool) error {
			_, err := dev.Write(evermore.SwitchProtocol(binary))
			return err
		},
		SetSpeed: func(dev transport.Device, baud int) error {
			msg, ok := evermore.SetBaudRate(baud)
			if !ok {
				return errUnsupportedBaud(baud)
			}
			_, err := dev.Write(evermore.Frame(msg))
			return err
		},
	}

	navcomDriver := &Descriptor{
		Name:         "Navcom NCT",
		Packets:      []lexer.PacketType{lexer.NavcomPacket},
		Channels:     navcom.Channels,
		CycleSeconds: 1.0,
		Parse: func(_ lexer.PacketType, raw []byte, rec *navdata.NavigationRecord, ctx *navdata.Context, _ *State) (navdata.DirtyMask, error) {
			return navcom.Parse(lexer.NavcomCommand(raw), lexer.NavcomPayload(raw), rec, ctx), nil
		},
	}

	rtcmDriver := &Descriptor{
		Name:    "RTCM-104",
		Packets: []lexer.PacketType{lexer.RTCM104Raw},
		Parse: func(_ lexer.PacketType, raw []byte, rec *navdata.NavigationRecord, _ *navdata.Context, state *State) (navdata.DirtyMask, error) {
			return applyRTCM104(state.RTCM, raw, rec)
		},
	}

	return NewRegistry(genericNMEA, aivdmDriver, everMore, navcomDriver, rtcmDriver)
}

func errUnsupportedBaud(baud int) error {
	return fmt.Errorf("driver: unsupported baud rate %d", baud)
}

// applyAIS projects the AIS fields spec.md §12.5 asks the driver to
// surface onto the shared NavigationRecord, returning the mask of
// fields this particular message type actually wrote: position
// reports and class B position reports carry lat/lon/course/speed the
// same way a GPS fix does, letting one session's dirty-mask consumers
// treat an AIS contact the same as any other tracked fix, while type 5
// (and its type-24 equivalents) carry only static voyage identity and
// must not be reported as touching position/velocity fields.
func applyAIS(msg *aivdm.Message, rec *navdata.NavigationRecord) navdata.DirtyMask {
	rec.Identity.DriverName = "AIVDM"
	switch {
	case msg.Position != nil:
		rec.Fix.Latitude = aivdm.ScaledLatitude(msg.Position.Latitude)
		rec.Fix.Longitude = aivdm.ScaledLongitude(msg.Position.Longitude)
		rec.Fix.Track = aivdm.ScaledCOG(msg.Position.COG)
		rec.Fix.Speed = aivdm.ScaledSOG(msg.Position.SOG)
		return navdata.LatlonSet | navdata.TrackSet | navdata.SpeedSet
	case msg.ClassB != nil:
		rec.Fix.Latitude = aivdm.ScaledLatitude(msg.ClassB.Latitude)
		rec.Fix.Longitude = aivdm.ScaledLongitude(msg.ClassB.Longitude)
		rec.Fix.Track = aivdm.ScaledCOG(msg.ClassB.COG)
		rec.Fix.Speed = aivdm.ScaledSOG(msg.ClassB.SOG)
		return navdata.LatlonSet | navdata.TrackSet | navdata.SpeedSet
	case msg.Voyage != nil:
		rec.Identity.Callsign = msg.Voyage.Callsign
		rec.Identity.VesselName = msg.Voyage.VesselName
		return navdata.DeviceIDSet
	case msg.StaticA != nil:
		rec.Identity.VesselName = msg.StaticA.VesselName
		return navdata.DeviceIDSet
	case msg.StaticB != nil:
		rec.Identity.Callsign = msg.StaticB.Callsign
		return navdata.DeviceIDSet
	default:
		return navdata.DeviceIDSet
	}
}

// applyRTCM104 feeds one raw transport byte (as handed back by the
// lexer in RTCM104 passthrough mode, one byte per packet) through the
// session's word-sync decoder, and on a completed message decodes its
// header into state.LastHeader; the record only gets the RTCM-104
// driver name. RTCM-104 carries differential
// corrections for a reference station, not this session's own fix, so
// no Fix field is touched; per spec.md §12.5 the decoded message is
// surfaced for the caller to relay or log rather than merged into
// position/velocity state.
func applyRTCM104(state *RTCMState, raw []byte, rec *navdata.NavigationRecord) (navdata.DirtyMask, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	if !state.decoder.PushSixBits(raw[0]) {
		return 0, nil
	}
	words := state.decoder.Words()
	state.decoder.Reset()

	data := rtcm104.UnpackData(words)
	state.LastHeader = rtcm104.DecodeHeader(data)
	rec.Identity.DriverName = "RTCM-104"
	return navdata.DeviceIDSet, nil
}
