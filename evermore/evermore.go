// Package evermore decodes and encodes EverMore binary-mode GPS
// messages, grounded on original_source/evermore.c. Framing (DLE
// stuffing, sum-mod-256 checksum) is handled by the lexer package;
// this package consumes the already-destuffed payload lexer.EverMorePayload
// returns.
package evermore

import (
	"math"

	"github.com/perezmeyer/gpsdcore/bits"
	"github.com/perezmeyer/gpsdcore/navdata"
)

// Channels is the EverMore chipset's channel count, grounded on
// evermore.c's EVERMORE_CHANNELS.
const Channels = 12

// Parse decodes one destuffed EverMore payload into rec, returning the
// DirtyMask of fields it touched. The message id is read from
// payload[1]; payload[0] is a leading byte Parse does not examine, and
// every field offset below counts from payload[0] (the driver prepends
// that byte to what lexer.EverMorePayload returns). Unknown message
// ids return a zero mask, not an error.
func Parse(payload []byte, rec *navdata.NavigationRecord, ctx *navdata.Context) navdata.DirtyMask {
	if len(payload) < 2 {
		return 0
	}
	switch payload[1] {
	case 0x02:
		return parseNavigationData(payload, rec, ctx)
	case 0x04:
		return parseDOPData(payload, rec, ctx)
	case 0x06:
		return parseChannelStatus(payload, rec, ctx)
	case 0x08:
		return parseMeasurementData(payload, rec, ctx)
	case 0x20, 0x22:
		// LogConfig/LogData: can serve as an auto-detect probe reply,
		// but carry no navigation fields.
		rec.Online = true
		return navdata.OnlineSet
	default:
		return 0
	}
}

func gpsTime(payload []byte, ctx *navdata.Context) float64 {
	week := int(bits.LEUint16(payload, 2))
	tow := float64(bits.LEUint32(payload, 4)) * 0.01
	return ctx.GPSWeekTowToUTC(week, tow)
}

func parseNavigationData(payload []byte, rec *navdata.NavigationRecord, ctx *navdata.Context) navdata.DirtyMask {
	t := gpsTime(payload, ctx)
	rec.Time, rec.SentenceTime = t, t

	x := float64(int32(bits.LEUint32(payload, 8)))
	y := float64(int32(bits.LEUint32(payload, 12)))
	z := float64(int32(bits.LEUint32(payload, 16)))
	vx := float64(int16(bits.LEUint16(payload, 20))) / 10.0
	vy := float64(int16(bits.LEUint16(payload, 22))) / 10.0
	vz := float64(int16(bits.LEUint16(payload, 24))) / 10.0

	lat, lon, alt := ecefToWGS84(x, y, z)
	speed, track, climb := ecefVelocityToENU(lat, lon, vx, vy, vz)

	rec.Fix.Latitude = lat
	rec.Fix.Longitude = lon
	rec.Fix.Speed = speed
	rec.Fix.Track = track

	used := int(payload[26] & 0x0f)
	visible := int(payload[26]>>4) & 0x0f
	rec.SatellitesVisible = visible

	mask := navdata.TimeSet | navdata.LatlonSet | navdata.TrackSet |
		navdata.SpeedSet | navdata.ModeSet | navdata.SatelliteSet | navdata.CycleStartSet

	switch {
	case used < 3:
		rec.Fix.Mode = navdata.ModeNoFix
	case used == 3:
		rec.Fix.Mode = navdata.Mode2D
	default:
		rec.Fix.Mode = navdata.Mode3D
		rec.Fix.Altitude = alt
		rec.Fix.Climb = climb
		mask |= navdata.AltitudeSet | navdata.ClimbSet
	}
	return mask
}

func parseDOPData(payload []byte, rec *navdata.NavigationRecord, ctx *navdata.Context) navdata.DirtyMask {
	t := gpsTime(payload, ctx)
	rec.Time, rec.SentenceTime = t, t

	rec.DOPs.GDOP = float64(payload[8]) * 0.1
	rec.DOPs.PDOP = float64(payload[9]) * 0.1
	rec.DOPs.HDOP = float64(payload[10]) * 0.1
	rec.DOPs.VDOP = float64(payload[11]) * 0.1
	rec.DOPs.TDOP = float64(payload[12]) * 0.1

	switch payload[13] {
	case 0, 1:
		rec.Fix.Status = navdata.StatusNoFix
		rec.Fix.Mode = navdata.ModeNoFix
	case 2:
		rec.Fix.Status = navdata.StatusFix
		rec.Fix.Mode = navdata.Mode2D
	case 3:
		rec.Fix.Status = navdata.StatusFix
		rec.Fix.Mode = navdata.Mode3D
	case 4:
		rec.Fix.Status = navdata.StatusDGPSFix
		rec.Fix.Mode = navdata.Mode3D
	}
	return navdata.TimeSet | navdata.DopSet | navdata.ModeSet | navdata.StatusSet
}

func parseChannelStatus(payload []byte, rec *navdata.NavigationRecord, ctx *navdata.Context) navdata.DirtyMask {
	t := gpsTime(payload, ctx)
	rec.Time, rec.SentenceTime = t, t

	count := int(payload[8])
	if count > Channels {
		count = Channels
	}

	used := rec.SatellitesUsed[:0]
	satcnt := 0
	for i := 0; i < count; i++ {
		base := 7*i + 7
		if base+8 >= len(payload) {
			break
		}
		prn := int(payload[base+3])
		if prn == 0 {
			continue
		}
		rec.Channels[satcnt] = navdata.Satellite{
			PRN:       prn,
			Azimuth:   float64(bits.LEUint16(payload, base+4)),
			Elevation: float64(payload[base+6]),
			SNR:       float64(payload[base+7]),
		}
		// status bits at offset 8: bit6 = used in fix
		if payload[base+8]&0x40 != 0 {
			rec.Channels[satcnt].Used = true
			used = append(used, prn)
		}
		satcnt++
	}
	rec.SatellitesUsed = used
	rec.SatellitesVisible = satcnt
	return navdata.TimeSet | navdata.SatelliteSet | navdata.UsedSet
}

func parseMeasurementData(payload []byte, rec *navdata.NavigationRecord, ctx *navdata.Context) navdata.DirtyMask {
	t := gpsTime(payload, ctx)
	rec.Time, rec.SentenceTime = t, t
	return navdata.TimeSet
}

// ecefToWGS84 converts ECEF meters to WGS84 geodetic latitude/longitude
// (degrees) and height (meters) by fixed-point iteration on latitude
// (five passes);
// no library in the example corpus exposes a geodetic converter, so
// this is one of the few stdlib-only (math) routines in gpsdcore.
func ecefToWGS84(x, y, z float64) (lat, lon, alt float64) {
	const (
		a  = 6378137.0
		f  = 1.0 / 298.257223563
		e2 = f * (2 - f)
	)
	lon = math.Atan2(y, x) * 180.0 / math.Pi

	p := math.Hypot(x, y)
	latRad := math.Atan2(z, p*(1-e2))
	for i := 0; i < 5; i++ {
		sinLat := math.Sin(latRad)
		n := a / math.Sqrt(1-e2*sinLat*sinLat)
		alt = p/math.Cos(latRad) - n
		latRad = math.Atan2(z, p*(1-e2*n/(n+alt)))
	}
	sinLat := math.Sin(latRad)
	n := a / math.Sqrt(1-e2*sinLat*sinLat)
	alt = p/math.Cos(latRad) - n
	lat = latRad * 180.0 / math.Pi
	return lat, lon, alt
}

// ecefVelocityToENU projects an ECEF velocity vector onto the local
// East-North-Up frame at the given geodetic latitude/longitude,
// returning ground speed (m/s), track (degrees true), and climb rate
// (m/s).
func ecefVelocityToENU(latDeg, lonDeg, vx, vy, vz float64) (speed, track, climb float64) {
	lat := latDeg * math.Pi / 180.0
	lon := lonDeg * math.Pi / 180.0
	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	sinLon, cosLon := math.Sin(lon), math.Cos(lon)

	east := -sinLon*vx + cosLon*vy
	north := -sinLat*cosLon*vx - sinLat*sinLon*vy + cosLat*vz
	up := cosLat*cosLon*vx + cosLat*sinLon*vy + sinLat*vz

	speed = math.Hypot(east, north)
	track = math.Atan2(east, north) * 180.0 / math.Pi
	if track < 0 {
		track += 360
	}
	climb = up
	return
}
