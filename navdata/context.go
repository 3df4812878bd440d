package navdata

import "sync"

// Context holds process- or group-wide values shared across sessions
// whose lifetime exceeds any one Session: currently just the
// GPS<->UTC leap-second offset. It is read-mostly; the only writer is
// whatever notices a leap-second event or reads one from a receiver
// message, so access is guarded by a mutex rather than left to the
// caller to synchronize, matching spec.md §5's "read-mostly, updated
// only at startup and at leap-second events".
type Context struct {
	mu          sync.RWMutex
	leapSeconds int
}

// NewContext constructs a Context with an initial leap-second offset.
// As of 2017 the GPS-UTC offset is 18s; callers should supply the
// current value at startup and update it via SetLeapSeconds if a
// receiver reports a change.
func NewContext(leapSeconds int) *Context {
	return &Context{leapSeconds: leapSeconds}
}

// LeapSeconds returns the current GPS-UTC offset in seconds.
func (c *Context) LeapSeconds() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.leapSeconds
}

// SetLeapSeconds updates the GPS-UTC offset, e.g. after a receiver
// reports a new value following a leap-second event.
func (c *Context) SetLeapSeconds(s int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leapSeconds = s
}

// GPSToUTC applies the leap-second correction to a GPS time value
// already expressed as Unix-epoch-relative seconds, per spec.md §3's
// invariant: every time field reported to consumers is
// UTC = GPS_time - leap_seconds. Callers whose GPS time is relative to
// the GPS epoch instead (week/tow pairs) should go through
// GPSWeekTowToUTC, which folds in the epoch offset first.
func (c *Context) GPSToUTC(gpsSeconds float64) float64 {
	return gpsSeconds - float64(c.LeapSeconds())
}

// gpsUnixEpochOffset is the number of seconds the GPS epoch
// (1980-01-06T00:00:00Z) sits after the Unix epoch, the same constant
// the teacher names GPS_EPOCH.
const gpsUnixEpochOffset = 315964800

// GPSWeekTowToUTC converts a GPS week number and time-of-week (seconds)
// to UTC seconds since the Unix epoch, applying both the GPS-to-Unix
// epoch offset and the leap-second correction.
func (c *Context) GPSWeekTowToUTC(week int, tow float64) float64 {
	const secondsPerWeek = 604800.0
	gps := float64(week)*secondsPerWeek + tow + gpsUnixEpochOffset
	return c.GPSToUTC(gps)
}
