package driver

import (
	"github.com/perezmeyer/gpsdcore/lexer"
	"github.com/perezmeyer/gpsdcore/navdata"
	"github.com/perezmeyer/gpsdcore/transport"
)

// sniffWindow bounds how many Generic-NMEA packets the Detector keeps
// trying trigger-string matches against before giving up and assuming
// the device really is plain NMEA, per spec.md §4.6 step 4 ("a short
// sniffing window (~10 packets)... so that a probe reply... can still
// trigger a redirect").
const sniffWindow = 10

// Detector runs the auto-detection sequence of spec.md §4.6 against a
// stream of lexer-classified packets for one session. It is
// session-exclusive mutable state, unlike the Registry it reads from.
type Detector struct {
	registry *Registry
	active   *Descriptor
	sniffs   int
}

// NewDetector starts detection at "Generic NMEA" (spec.md §4.6 step 1).
func NewDetector(r *Registry) (*Detector, error) {
	generic, err := r.Lookup("Generic NMEA")
	if err != nil {
		return nil, err
	}
	return &Detector{registry: r, active: generic, sniffs: sniffWindow}, nil
}

// Active returns the currently selected driver.
func (d *Detector) Active() *Descriptor { return d.active }

// Step runs one lexer-classified packet through the detector: it
// redirects to a binary driver by packet type, parses with whatever
// driver ends up active, and — only while still within the Generic
// NMEA sniffing window — redirects by trigger string when the parse
// came back empty. dev is used to run a newly-selected driver's
// Initializer; it may be nil in tests that don't exercise that path.
func (d *Detector) Step(dev transport.Device, packetType lexer.PacketType, raw []byte, rec *navdata.NavigationRecord, ctx *navdata.Context, state *State) (navdata.DirtyMask, error) {
	if !d.active.Owns(packetType) {
		if alt := d.registry.ForPacketType(packetType); alt != nil {
			d.switchTo(dev, alt)
		}
	}

	if !d.active.Owns(packetType) {
		return 0, nil
	}

	mask, err := d.active.Parse(packetType, raw, rec, ctx, state)
	if err != nil {
		return 0, err
	}

	if packetType == lexer.NMEAPacket && mask == 0 && d.active.Name == "Generic NMEA" && d.sniffs > 0 {
		d.sniffs--
		if alt := d.registry.ByTrigger(raw); alt != nil {
			d.switchTo(dev, alt)
		}
	}
	return mask, nil
}

func (d *Detector) switchTo(dev transport.Device, next *Descriptor) {
	d.active = next
	d.sniffs = sniffWindow
	if dev != nil && next.Initializer != nil {
		_ = next.Initializer(dev) // init failures don't tear down the session, see spec.md §5
	}
}

// SwitchDriver forces the active driver by name (the control-surface
// switch_driver operation), running its Initializer.
func (d *Detector) SwitchDriver(dev transport.Device, name string) error {
	next, err := d.registry.Lookup(name)
	if err != nil {
		return err
	}
	d.switchTo(dev, next)
	return nil
}
