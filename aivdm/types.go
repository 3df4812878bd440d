package aivdm

// ROT sentinel values from the AIS "square-root" rate-of-turn
// encoding (ITU-R M.1371 §3.3.1.2).
const (
	ROTNotAvailable  = -128
	ROTLeftAtMax     = -127
	ROTRightAtMax    = 127
)

// PositionReport is the common shape of message types 1, 2, and 3
// (Class A position reports), grounded on driver_aivdm.c's type123
// union member.
type PositionReport struct {
	Status     int   // navigational status, 0-15
	ROT        int8  // raw signed square-root encoding; see ROT* sentinels
	SOG        int   // speed over ground, 0.1 knot units, 1023 = not available
	Accuracy   bool  // true = high (<=10m), false = low (>10m)
	Longitude  int32 // 1/10000 minute, signed
	Latitude   int32 // 1/10000 minute, signed
	COG        int   // course over ground, 0.1 degree units
	Heading    int   // true heading, degrees, 511 = not available
	UTCSecond  int   // second of UTC minute when report was generated
	Maneuver   int   // special maneuver indicator
	RAIM       bool
	Radio      uint32 // radio status bits (SOTDMA/ITDMA)
}

// BaseStation is message type 4 (Base Station Report) or type 11
// (UTC/Date Response); both share this layout.
type BaseStation struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	Accuracy             bool
	Longitude, Latitude  int32
	EPFD                 int // electronic position fixing device type
	RAIM                 bool
	Radio                uint32
}

// StaticVoyageData is message type 5.
type StaticVoyageData struct {
	AISVersion                       int
	IMONumber                        uint32
	Callsign                         string
	VesselName                       string
	ShipType                         int
	ToBow, ToStern, ToPort, ToStarboard int
	EPFD                             int
	Month, Day, Hour, Minute         int
	Draught                          float64 // meters, 0.1m units
	Destination                      string
	DTE                              bool
}

// BinaryAddressed is message type 6.
type BinaryAddressed struct {
	SeqNo         int
	DestMMSI      uint32
	Retransmit    bool
	ApplicationID uint16
	BitCount      int
	Data          []byte
}

// BinaryAck is message types 7 and 13 (binary/safety acknowledge),
// up to 4 acknowledged MMSIs.
type BinaryAck struct {
	MMSI [4]uint32
}

// BinaryBroadcast is message type 8.
type BinaryBroadcast struct {
	ApplicationID uint16
	BitCount      int
	Data          []byte
}

// SARPosition is message type 9 (Standard SAR Aircraft Position Report).
type SARPosition struct {
	Altitude  int
	SOG       int
	Accuracy  bool
	Longitude int32
	Latitude  int32
	COG       int
	UTCSecond int
	Regional  int
	DTE       bool
	Assigned  bool
	RAIM      bool
	Radio     uint32
}

// UTCInquiry is message type 10.
type UTCInquiry struct {
	DestMMSI uint32
}

// SafetyAddressed is message type 12.
type SafetyAddressed struct {
	SeqNo      int
	DestMMSI   uint32
	Retransmit bool
	Text       string
}

// SafetyBroadcast is message type 14.
type SafetyBroadcast struct {
	Text string
}

// ClassBPosition is message type 18 (Standard Class B CS Position Report).
type ClassBPosition struct {
	Reserved    int
	SOG         int
	Accuracy    bool
	Longitude   int32
	Latitude    int32
	COG         int
	Heading     int
	UTCSecond   int
	Regional    int
	CSFlag      bool
	DisplayFlag bool
	DSCFlag     bool
	BandFlag    bool
	Msg22Flag   bool
	Assigned    bool
	RAIM        bool
	Radio       uint32
}

// ClassBExtended is message type 19 (Extended Class B CS Position Report).
type ClassBExtended struct {
	Reserved                         int
	SOG                              int
	Accuracy                         bool
	Longitude, Latitude              int32
	COG                              int
	Heading                          int
	UTCSecond                        int
	Regional                         int
	VesselName                       string
	ShipType                         int
	ToBow, ToStern, ToPort, ToStarboard int
	EPFD                             int
	RAIM                             bool
	DTE                              bool
	Assigned                         bool
}

// AidToNavigation is message type 21.
//
// The accuracy field's bit offset (163, width 1) is fixed here; the
// source table lists it as UBITS(163, 163), an obvious transcription
// slip (a field can't be 163 bits wide), so this decoder treats it as
// a single-bit flag the way every other position-accuracy flag in the
// rest of the message set is encoded.
type AidToNavigation struct {
	AidType                          int
	Name                             string
	Accuracy                         bool
	Longitude, Latitude              int32
	ToBow, ToStern, ToPort, ToStarboard int
	EPFD                             int
	UTCSecond                        int
	OffPosition                      bool
	Regional                         int
	RAIM                             bool
	VirtualAid                       bool
	Assigned                         bool
}

// StaticDataA is type 24 part A: vessel name only.
type StaticDataA struct {
	VesselName string
}

// StaticDataB is type 24 part B: ship type, vendor id, callsign, and
// either hull dimensions or (for auxiliary craft) the mothership's
// MMSI, distinguished by IsAuxiliaryMMSI.
type StaticDataB struct {
	ShipType       int
	VendorID       string
	Callsign       string
	ToBow, ToStern, ToPort, ToStarboard int
	MothershipMMSI uint32 // only set when the reporting MMSI is an auxiliary craft
}

// Message is a decoded AIVDM sentence (or reassembled group of
// sentences). Exactly one of the typed fields below is non-nil,
// selected by ID; decoders for message types not implemented here
// leave every typed field nil, which callers should treat as "parsed
// header only, body not decoded" rather than an error.
type Message struct {
	ID              int
	RepeatIndicator int
	MMSI            uint32
	Channel         string

	Position    *PositionReport // types 1, 2, 3
	Base        *BaseStation    // types 4, 11
	Voyage      *StaticVoyageData
	Addressed   *BinaryAddressed
	Ack         *BinaryAck // types 7, 13
	Broadcast   *BinaryBroadcast
	SAR         *SARPosition
	UTCInq      *UTCInquiry
	SafetyMsg   *SafetyAddressed
	SafetyBcast *SafetyBroadcast
	ClassB      *ClassBPosition
	ClassBExt   *ClassBExtended
	AidNav      *AidToNavigation
	StaticA     *StaticDataA
	StaticB     *StaticDataB
}

// IsAuxiliaryMMSI reports whether mmsi follows the auxiliary-craft
// convention (9-digit MMSI beginning "98"), used to distinguish type
// 24 part B's mothership-MMSI field from hull-dimension fields.
func IsAuxiliaryMMSI(mmsi uint32) bool {
	return mmsi/10000000 == 98
}
