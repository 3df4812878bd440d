package nmea

import (
	"math"
	"strconv"
	"time"

	"github.com/perezmeyer/gpsdcore/navdata"
)

// parseGGA decodes $--GGA: time, lat, latdir, lon, londir, quality,
// numsats, hdop, alt, altunit, geoid, geoidunit, dgpsage, dgpsstaid.
func parseGGA(s *sentence, rec *navdata.NavigationRecord) navdata.DirtyMask {
	if len(s.fields) < 14 {
		return 0
	}
	var mask navdata.DirtyMask

	if lat, ok := parseLatLon(s.fields[1], s.fields[2]); ok {
		rec.Fix.Latitude = lat
		mask |= navdata.LatlonSet
	}
	if lon, ok := parseLatLon(s.fields[3], s.fields[4]); ok {
		rec.Fix.Longitude = lon
		mask |= navdata.LatlonSet
	}
	if alt, ok := parseFloatField(s.fields[8]); ok {
		rec.Fix.Altitude = alt
		mask |= navdata.AltitudeSet
	}
	if hdop, ok := parseFloatField(s.fields[7]); ok {
		rec.DOPs.HDOP = hdop
		mask |= navdata.DopSet
	}
	if n, ok := parseIntField(s.fields[6]); ok {
		rec.SatellitesVisible = n
		mask |= navdata.SatelliteSet
	}
	if t, ok := mergeTimeOfDay(rec, s.fields[0]); ok {
		rec.Time = t
		rec.SentenceTime = t
		mask |= navdata.TimeSet
	}

	quality, _ := parseIntField(s.fields[5])
	switch quality {
	case 0:
		rec.Fix.Status = navdata.StatusNoFix
		rec.Fix.Mode = navdata.ModeNoFix
	case 1:
		rec.Fix.Status = navdata.StatusFix
		rec.Fix.Mode = navdata.Mode3D
	default:
		rec.Fix.Status = navdata.StatusDGPSFix
		rec.Fix.Mode = navdata.Mode3D
	}
	mask |= navdata.StatusSet | navdata.ModeSet
	return mask
}

// parseRMC decodes $--RMC: time, status, lat, latdir, lon, londir,
// speed(knots), course, date, magvar, magvardir, mode.
func parseRMC(s *sentence, rec *navdata.NavigationRecord) navdata.DirtyMask {
	if len(s.fields) < 11 {
		return 0
	}
	var mask navdata.DirtyMask

	if t, ok := parseRMCDateTime(s.fields[0], s.fields[8]); ok {
		rec.Time = t
		rec.SentenceTime = t
		mask |= navdata.TimeSet
	}

	if s.fields[1] == "V" {
		rec.Fix.Status = navdata.StatusNoFix
		mask |= navdata.StatusSet
		return mask
	}

	if lat, ok := parseLatLon(s.fields[2], s.fields[3]); ok {
		rec.Fix.Latitude = lat
		mask |= navdata.LatlonSet
	}
	if lon, ok := parseLatLon(s.fields[4], s.fields[5]); ok {
		rec.Fix.Longitude = lon
		mask |= navdata.LatlonSet
	}
	if knots, ok := parseFloatField(s.fields[6]); ok {
		rec.Fix.Speed = knots * 0.514444
		mask |= navdata.SpeedSet
	}
	if course, ok := parseFloatField(s.fields[7]); ok {
		rec.Fix.Track = course
		mask |= navdata.TrackSet
	}
	rec.Fix.Status = navdata.StatusFix
	mask |= navdata.StatusSet
	return mask
}

// parseVTG decodes $--VTG: trackTrue, T, trackMagnetic, M,
// speed(knots), N, speed(km/h), K, mode.
func parseVTG(s *sentence, rec *navdata.NavigationRecord) navdata.DirtyMask {
	if len(s.fields) < 8 {
		return 0
	}
	var mask navdata.DirtyMask
	if track, ok := parseFloatField(s.fields[0]); ok {
		rec.Fix.Track = track
		mask |= navdata.TrackSet
	}
	if knots, ok := parseFloatField(s.fields[4]); ok {
		rec.Fix.Speed = knots * 0.514444
		mask |= navdata.SpeedSet
	}
	return mask
}

// parseGSA decodes $--GSA: mode1, mode2 (fix type), 12 satellite PRN
// slots, pdop, hdop, vdop.
func parseGSA(s *sentence, rec *navdata.NavigationRecord) navdata.DirtyMask {
	if len(s.fields) < 17 {
		return 0
	}
	var mask navdata.DirtyMask

	switch s.fields[1] {
	case "1":
		rec.Fix.Mode = navdata.ModeNoFix
	case "2":
		rec.Fix.Mode = navdata.Mode2D
	case "3":
		rec.Fix.Mode = navdata.Mode3D
	}
	mask |= navdata.ModeSet

	used := rec.SatellitesUsed[:0]
	for _, f := range s.fields[2:14] {
		if prn, ok := parseIntField(f); ok && prn > 0 {
			used = append(used, prn)
		}
	}
	rec.SatellitesUsed = used
	mask |= navdata.UsedSet

	if pdop, ok := parseFloatField(s.fields[14]); ok {
		rec.DOPs.PDOP = pdop
		mask |= navdata.DopSet
	}
	if hdop, ok := parseFloatField(s.fields[15]); ok {
		rec.DOPs.HDOP = hdop
		mask |= navdata.DopSet
	}
	if vdop, ok := parseFloatField(s.fields[16]); ok {
		rec.DOPs.VDOP = vdop
		mask |= navdata.DopSet
	}
	return mask
}

// parseGSV decodes one $--GSV message: total messages, message
// number, satellites in view, then up to 4 repeating (PRN, elevation,
// azimuth, SNR) groups. A full constellation view requires combining
// several GSV messages; each call here only records the satellites
// carried by this one sentence, matching the teacher's per-message
// shape rather than accumulating multi-message state in this package.
func parseGSV(s *sentence, rec *navdata.NavigationRecord) navdata.DirtyMask {
	if len(s.fields) < 3 {
		return 0
	}
	if n, ok := parseIntField(s.fields[2]); ok {
		rec.SatellitesVisible = n
	}

	for i := 3; i+4 <= len(s.fields); i += 4 {
		prn, ok := parseIntField(s.fields[i])
		if !ok || prn == 0 {
			continue
		}
		elev, _ := parseFloatField(s.fields[i+1])
		azm, _ := parseFloatField(s.fields[i+2])
		snr, snrOK := parseFloatField(s.fields[i+3])
		if !snrOK {
			snr = math.NaN()
		}
		for c := range rec.Channels {
			if rec.Channels[c].PRN == prn || rec.Channels[c].PRN == 0 {
				rec.Channels[c] = navdata.Satellite{
					PRN: prn, Elevation: elev, Azimuth: azm, SNR: snr,
				}
				break
			}
		}
	}
	return navdata.SatelliteSet
}

// mergeTimeOfDay combines an hhmmss.ss time-of-day field with the
// calendar day already on rec (or the Unix epoch's day if rec has no
// prior time), since GGA carries time-of-day only and relies on an
// earlier RMC sentence to have anchored the date.
func mergeTimeOfDay(rec *navdata.NavigationRecord, hhmmss string) (float64, bool) {
	secondsOfDay, ok := parseHHMMSS(hhmmss)
	if !ok {
		return 0, false
	}
	dayStart := math.Floor(rec.Time/86400) * 86400
	return dayStart + secondsOfDay, true
}

// parseRMCDateTime combines RMC's own hhmmss.ss and ddmmyy fields into
// a full UTC timestamp, anchoring the day GGA's mergeTimeOfDay relies
// on. Two-digit years are widened per NMEA convention: 80-99 -> 1980-1999,
// 00-79 -> 2000-2079.
func parseRMCDateTime(hhmmss, ddmmyy string) (float64, bool) {
	secondsOfDay, ok := parseHHMMSS(hhmmss)
	if !ok || len(ddmmyy) != 6 {
		return 0, false
	}
	dd, err1 := strconv.Atoi(ddmmyy[0:2])
	mm, err2 := strconv.Atoi(ddmmyy[2:4])
	yy, err3 := strconv.Atoi(ddmmyy[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	year := 2000 + yy
	if yy >= 80 {
		year = 1900 + yy
	}
	day := time.Date(year, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	return float64(day.Unix()) + secondsOfDay, true
}

func parseHHMMSS(field string) (float64, bool) {
	if len(field) < 6 {
		return 0, false
	}
	hh, err1 := strconv.Atoi(field[0:2])
	mm, err2 := strconv.Atoi(field[2:4])
	ss, err3 := strconv.ParseFloat(field[4:], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	return float64(hh)*3600 + float64(mm)*60 + ss, true
}
