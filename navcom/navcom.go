// Package navcom decodes Navcom NCT binary-protocol responses,
// grounded on original_source/navcom.c. Framing (STX/0x99/0x66 leader,
// XOR checksum, 0x03 trailer) is handled by the lexer package; this
// package consumes the command byte (lexer.NavcomCommand) and payload
// (lexer.NavcomPayload) it extracts.
//
// Offsets below are payload-relative (payload[0] is the first byte
// after the 6-byte header), three less than the offsets navcom.c's
// handlers use against their own `buf = outbuffer+3` pointer.
package navcom

import (
	"math"

	"github.com/perezmeyer/gpsdcore/bits"
	"github.com/perezmeyer/gpsdcore/navdata"
)

// Channels is the Navcom receiver's channel count (12 L1 + 12 L2 + 2
// L-Band), grounded on navcom.c's NAVCOM_CHANNELS.
const Channels = 26

const dopUndefined = 255

// Parse dispatches a decoded command byte and its payload to the
// matching handler. Unknown commands return a zero mask.
func Parse(cmd byte, payload []byte, rec *navdata.NavigationRecord, ctx *navdata.Context) navdata.DirtyMask {
	switch cmd {
	case 0xb1:
		return parsePVT(payload, rec, ctx)
	case 0x86:
		return parseChannelStatus(payload, rec, ctx)
	case 0x93, 0xae:
		// Time Mark (0x93) and Pseudorange & ECEF (0xae): the frame and
		// checksum layer already validated these, but no decoder exists
		// for them here. Known-but-unimplemented, not a framing error.
		return 0
	default:
		return 0
	}
}

// parsePVT decodes the 0xb1 Position/Velocity/Time block.
func parsePVT(p []byte, rec *navdata.NavigationRecord, ctx *navdata.Context) navdata.DirtyMask {
	const (
		llRes     = 0.00048828125    // 2^-11
		llFracRes = 0.000030517578125 // 2^-15
		elRes     = 0.0009765625      // 2^-10
		velRes    = 0.0009765625      // 2^-10
	)

	week := int(bits.LEUint16(p, 0))
	tow := float64(bits.LEUint32(p, 2))
	t := ctx.GPSWeekTowToUTC(week, tow/1000.0)
	rec.Time, rec.SentenceTime = t, t

	satsUsed := bits.LEUint32(p, 6)
	used := rec.SatellitesUsed[:0]
	for n := uint(0); n < 31; n++ {
		if satsUsed&(1<<n) != 0 {
			used = append(used, int(n)+1)
		}
	}
	rec.SatellitesUsed = used

	lat := int32(bits.LEUint32(p, 10))
	lon := int32(bits.LEUint32(p, 14))
	latFraction := p[18] >> 4
	lonFraction := p[18] & 0x0f
	rec.Fix.Latitude = (float64(lat)*llRes + float64(latFraction)*llFracRes) / 3600.0
	rec.Fix.Longitude = (float64(lon)*llRes + float64(lonFraction)*llFracRes) / 3600.0

	navMode := p[19]
	switch {
	case navMode&0xc0 == 0xc0:
		rec.Fix.Mode = navdata.Mode3D
		rec.Fix.Status = fixStatus(navMode)
	case navMode&0x80 != 0:
		rec.Fix.Mode = navdata.Mode2D
		rec.Fix.Status = fixStatus(navMode)
	default:
		rec.Fix.Mode = navdata.ModeNoFix
		rec.Fix.Status = navdata.StatusNoFix
	}

	ellipsHeight := int32(bits.LEUint32(p, 20))
	altitude := int32(bits.LEUint32(p, 24))
	rec.Fix.Altitude = float64(altitude) * elRes
	rec.AltitudeEllipsoid = float64(ellipsHeight) * elRes

	s24 := func(off int) float64 {
		v := int32(p[off]) | int32(p[off+1])<<8 | int32(p[off+2])<<16
		return float64(v << 8 >> 8)
	}
	velNorth := s24(28)
	velEast := s24(31)
	velUp := s24(34)

	track := math.Atan2(velEast, velNorth) * 180.0 / math.Pi
	if track < 0 {
		track += 360
	}
	rec.Fix.Track = track
	rec.Fix.Speed = math.Hypot(velEast, velNorth) * velRes
	rec.Fix.Climb = velUp * velRes

	fom := p[37]
	gdop, pdop, hdop, vdop, tdop := p[38], p[39], p[40], p[41], p[42]

	rec.Fix.Eph = float64(fom) / 100.0
	rec.Fix.Epv = float64(fom) / float64(hdop) * float64(vdop) / 100.0

	rec.DOPs.GDOP = dopOrNaN(gdop)
	rec.DOPs.PDOP = dopOrNaN(pdop)
	rec.DOPs.HDOP = dopOrNaN(hdop)
	rec.DOPs.VDOP = dopOrNaN(vdop)
	rec.DOPs.TDOP = dopOrNaN(tdop)

	return navdata.LatlonSet | navdata.AltitudeSet | navdata.ClimbSet | navdata.SpeedSet |
		navdata.TrackSet | navdata.TimeSet | navdata.StatusSet | navdata.ModeSet |
		navdata.UsedSet | navdata.HerrSet | navdata.VerrSet | navdata.DopSet | navdata.CycleStartSet
}

func fixStatus(navMode byte) navdata.Status {
	if navMode&0x03 != 0 {
		return navdata.StatusDGPSFix
	}
	return navdata.StatusFix
}

func dopOrNaN(raw byte) float64 {
	if raw == dopUndefined {
		return math.NaN()
	}
	return float64(raw) / 10.0
}

// parseChannelStatus decodes the 0x86 Channel Status block: a 14-byte
// fixed header followed by a repeating 14-byte satellite record.
func parseChannelStatus(p []byte, rec *navdata.NavigationRecord, ctx *navdata.Context) navdata.DirtyMask {
	week := int(bits.LEUint16(p, 0))
	tow := float64(bits.LEUint32(p, 2))
	rec.Time = ctx.GPSWeekTowToUTC(week, tow/1000.0)

	status := bits.LEUint16(p, 7)
	satsVisible := int(p[9])
	pdopRaw := p[12]

	rec.DOPs.PDOP = dopOrNaN(pdopRaw)
	rec.SatellitesVisible = satsVisible

	switch status & 0x05 {
	case 0x05:
		rec.Fix.Status = navdata.StatusDGPSFix
	case 0x01:
		rec.Fix.Status = navdata.StatusFix
	default:
		rec.Fix.Status = navdata.StatusNoFix
	}

	n := 0
	for r := 14; r+14 <= len(p); r += 14 {
		if n >= navdata.MaxChannels {
			break
		}
		trackingStatus := p[r+1]
		if trackingStatus == 0 {
			continue
		}
		ele := p[r+5]
		azm := bits.LEUint16(p, r+6)
		caSNR := p[r+8]
		p2SNR := p[r+10]

		snr := float64(caSNR) / 4.0
		if p2SNR != 0 {
			snr = float64(p2SNR) / 4.0
		}

		rec.Channels[n] = navdata.Satellite{
			PRN:       int(p[r]),
			Elevation: float64(ele),
			Azimuth:   float64(azm),
			SNR:       snr,
		}
		n++
	}

	return navdata.TimeSet | navdata.DopSet | navdata.SatelliteSet | navdata.StatusSet
}
