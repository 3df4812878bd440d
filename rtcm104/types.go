package rtcm104

// Scale constants from spec.md §4.4, matched exactly against rtcm.c.
const (
	ZCountScale  = 0.6             // seconds
	XYZScale     = 0.01            // meters
	DXYZScale    = 0.1             // meters
	LatScale     = 90.0 / 32767.0  // degrees
	LonScale     = 180.0 / 32767.0 // degrees
	FreqScale    = 0.1             // kHz
	FreqOffset   = 190.0           // kHz
	CNROffset    = 24              // dB
	TUScale      = 5               // minutes
	PCSmall      = 0.02            // meters
	PCLarge      = 0.32            // meters
	RRSmall      = 0.002           // meters/sec
	RRLarge      = 0.032           // meters/sec
)

// Header carries the two words every RTCM-104 message starts with.
type Header struct {
	Type          int
	StationID     int
	ZCount        float64 // seconds, modified Z-count * ZCountScale
	SequenceNo    int
	Length        int // data words following the header
	StationHealth int
}

// DecodeHeader reads the fixed two-word header shared by every
// message type, grounded on rtcm.c's rtcm_msghw1/rtcm_msghw2.
func DecodeHeader(data []uint32) Header {
	w1, w2 := data[0], data[1]
	return Header{
		Type:          int(dbits(w1, 9, 14)),
		StationID:     int(dbits(w1, 15, 24)),
		ZCount:        float64(dbits(w2, 1, 13)) * ZCountScale,
		SequenceNo:    int(dbits(w2, 14, 16)),
		Length:        int(dbits(w2, 17, 21)),
		StationHealth: int(dbits(w2, 22, 24)),
	}
}

// SatCorrection is one satellite's differential correction from a
// type 1/9 message.
type SatCorrection struct {
	SatIdent  int
	UDRE      int
	Scale     bool // true = large scale (PCLarge/RRLarge), false = small
	IOD       int
	PRC       float64 // pseudorange correction, meters
	RRC       float64 // range-rate correction, meters/sec
}

// Type1 is a differential-correction message (type 1 or type 9 share
// this shape; type 9 just limits the satellite count per message).
type Type1 struct {
	Header
	Corrections []SatCorrection
}

// Type3 is a reference station ECEF position, in meters.
type Type3 struct {
	Header
	X, Y, Z float64
}

// Type4 is a reference station datum: an up-to-5-character datum
// name/subdivision tag plus WGS84 conversion deltas in meters.
type Type4 struct {
	Header
	DGNSS   int
	Datum   bool // true if a valid datum
	DatumTag string
	DX, DY, DZ float64
}

// SatHealth is one satellite's entry in a type 5 constellation health
// message.
type SatHealth struct {
	SatID          int
	IssueOfDataLink int
	DataHealth     int
	CNR            int // dB, -1 if not reported
	HealthEnable   bool
	NewNavData     bool
	LossWarn       bool
	TimeUnhealthy  int // minutes until unhealthy (* TUScale)
}

// Type5 is a constellation health message.
type Type5 struct {
	Header
	Satellites []SatHealth
}

// Type6 is the null filler message: it carries no payload fields.
type Type6 struct {
	Header
}

// BeaconStation is one DGPS beacon station's almanac entry from a
// type 7 message.
type BeaconStation struct {
	Latitude, Longitude float64 // degrees
	RangeNM             int
	FrequencyKHz        float64
	StationID           int
	BitRate             int
	Health              int
}

// Type7 is a beacon almanac message.
type Type7 struct {
	Header
	Stations []BeaconStation
}

// Type16 is an ASCII broadcast text message.
type Type16 struct {
	Header
	Text string
}
