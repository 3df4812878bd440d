package aivdm

import "math"

// Scaling constants for the position-report family's raw integer
// fields, grounded on spec.md §4.3 and ITU-R M.1371.
const (
	LatLonDivisor       = 600000.0 // 1/10000 minute units -> degrees
	SOGScale            = 0.1      // knots
	COGScale            = 0.1      // degrees
	SOGNotAvailable     = 1023
	HeadingNotAvailable = 511
)

// ScaledLatitude converts a PositionReport-family raw latitude (signed
// 1/10000-minute units) to degrees.
func ScaledLatitude(raw int32) float64 { return float64(raw) / LatLonDivisor }

// ScaledLongitude converts a raw longitude the same way.
func ScaledLongitude(raw int32) float64 { return float64(raw) / LatLonDivisor }

// ScaledSOG converts a raw speed-over-ground field to knots, or NaN if
// the field carries the "not available" sentinel.
func ScaledSOG(raw int) float64 {
	if raw == SOGNotAvailable {
		return math.NaN()
	}
	return float64(raw) * SOGScale
}

// ScaledCOG converts a raw course-over-ground field to degrees.
func ScaledCOG(raw int) float64 { return float64(raw) * COGScale }

// ScaledHeading converts a raw true-heading field to degrees, or NaN
// if "not available".
func ScaledHeading(raw int) float64 {
	if raw == HeadingNotAvailable {
		return math.NaN()
	}
	return float64(raw)
}

// ScaledROT decodes the AIS "square-root" rate-of-turn encoding into
// degrees/minute. The sentinels -128 (not available), -127 (turning
// left at more than the encodable limit), and +127 (turning right
// past the limit) are returned as NaN, -720, and +720 respectively
// (beyond the encodable range, so callers can still detect "pegged").
func ScaledROT(raw int8) float64 {
	switch raw {
	case ROTNotAvailable:
		return math.NaN()
	case ROTLeftAtMax:
		return -720
	case ROTRightAtMax:
		return 720
	}
	v := float64(raw) / 4.733
	if raw < 0 {
		return -v * v
	}
	return v * v
}
