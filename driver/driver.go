// Package driver holds the immutable registry of GPS/AIS receiver
// drivers and the auto-detection state machine that picks one for a
// newly opened device, grounded on original_source/drivers.c's
// null-terminated gps_type_t table and on
// hardware/topgnss/top708/device.go's GNSSDevice capability interface
// (generalized here into a per-driver set of optional function
// pointers instead of one fixed interface every receiver must satisfy
// in full).
package driver

import (
	"fmt"
	"strings"

	"github.com/perezmeyer/gpsdcore/lexer"
	"github.com/perezmeyer/gpsdcore/navdata"
	"github.com/perezmeyer/gpsdcore/transport"
)

// Parser decodes one complete lexer packet into rec, returning the
// DirtyMask of fields it touched. state carries the per-session,
// per-protocol accumulators (e.g. the AIVDM multi-sentence
// reassembler) that can't live on the shared, immutable Descriptor;
// most drivers ignore it.
type Parser func(packetType lexer.PacketType, raw []byte, rec *navdata.NavigationRecord, ctx *navdata.Context, state *State) (navdata.DirtyMask, error)

// State is the mutable, session-exclusive decode state a Parser may
// need across calls, analogous to spec.md §3's LexerState AIVDM
// sub-state but kept on the session side of the driver boundary since
// gpsdcore's lexer only frames bytes; it doesn't reassemble multi-part
// payloads.
type State struct {
	AIS  *AISState
	RTCM *RTCMState
}

// NewState returns a fresh per-session State.
func NewState() *State {
	return &State{AIS: newAISState(), RTCM: newRTCMState()}
}

// Descriptor is a driver's full capability set, mirroring drivers.c's
// gps_type_t: a name, an optional NMEA trigger string used for
// auto-detection, and a set of optional function pointers. A nil
// function pointer means the driver doesn't support that operation;
// callers must check before invoking.
type Descriptor struct {
	Name    string
	Trigger string // nullable: NMEA sentence prefix that identifies this driver
	Packets []lexer.PacketType // packet types this driver's Parse handles

	Channels int // receiver channel count, 0 if not applicable

	Probe       func(dev transport.Device) error
	Initializer func(dev transport.Device) error
	Parse       Parser
	WriteRTCM   func(dev transport.Device, rtcm []byte) error
	SetSpeed    func(dev transport.Device, baud int) error
	SetMode     func(dev transport.Device, binary bool) error
	SetRate     func(dev transport.Device, cycleSeconds float64) error
	Wrapup      func(dev transport.Device) error

	CycleSeconds float64
}

// Owns reports whether this driver's Parse handles packets of type t.
func (d *Descriptor) Owns(t lexer.PacketType) bool {
	for _, pt := range d.Packets {
		if pt == t {
			return true
		}
	}
	return false
}

// Registry is an ordered, immutable-after-construction list of
// Descriptors, matching drivers.c's array-terminated-by-null shape
// (here, simply a Go slice with no sentinel needed).
type Registry struct {
	drivers []*Descriptor
}

// NewRegistry builds a Registry from drivers in table order. Order
// matters for ForPacketType and ByTrigger, which return the first
// match; Lookup rejects a name that matches more than one driver,
// whatever the order.
func NewRegistry(drivers ...*Descriptor) *Registry {
	r := &Registry{drivers: make([]*Descriptor, len(drivers))}
	copy(r.drivers, drivers)
	return r
}

// ErrAmbiguousName is wrapped into the error Lookup returns when name
// case-sensitively substring-matches more than one driver.
var ErrAmbiguousName = fmt.Errorf("driver: ambiguous name")

// ErrNotFound is wrapped into the error Lookup returns when no driver
// matches name.
var ErrNotFound = fmt.Errorf("driver: not found")

// Lookup finds the driver whose Name case-sensitively contains name as
// a substring. Exactly one match succeeds; zero or more than one is an
// error (spec.md §4.6: "ambiguous matches -> caller-visible error").
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	var match *Descriptor
	for _, d := range r.drivers {
		if strings.Contains(d.Name, name) {
			if match != nil {
				return nil, fmt.Errorf("%w: %q matches both %q and %q", ErrAmbiguousName, name, match.Name, d.Name)
			}
			match = d
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return match, nil
}

// ForPacketType returns the first registered driver (in table order)
// whose Packets includes t, or nil if none does. Used by the
// auto-detection sequence to redirect when the lexer classifies a
// packet as a binary protocol the active driver doesn't own.
func (r *Registry) ForPacketType(t lexer.PacketType) *Descriptor {
	for _, d := range r.drivers {
		if d.Owns(t) {
			return d
		}
	}
	return nil
}

// ByTrigger returns the first registered driver whose Trigger is a
// non-empty prefix of sentence, or nil if none matches.
func (r *Registry) ByTrigger(sentence []byte) *Descriptor {
	for _, d := range r.drivers {
		if d.Trigger == "" {
			continue
		}
		if strings.HasPrefix(string(sentence), d.Trigger) {
			return d
		}
	}
	return nil
}

// All returns the registry's drivers in table order.
func (r *Registry) All() []*Descriptor {
	return r.drivers
}
