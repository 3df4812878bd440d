// Package session ties a transport.Device, the byte-stream lexer, and
// the driver auto-detection state machine together into the single
// object a caller polls for fixes, grounded on
// hardware/topgnss/top708/top708.go's MonitorNMEA read loop (buffer
// accumulation, sentence extraction, handler dispatch, overflow
// trimming) and its Connect/ChangeBaudRate/WriteCommand methods,
// generalized from one fixed NMEA receiver into the protocol-agnostic
// Poll loop and control surface spec.md §4.7/§6 describe.
package session

import (
	"fmt"

	"github.com/perezmeyer/gpsdcore/driver"
	"github.com/perezmeyer/gpsdcore/gpsdlog"
	"github.com/perezmeyer/gpsdcore/lexer"
	"github.com/perezmeyer/gpsdcore/navdata"
	"github.com/perezmeyer/gpsdcore/transport"
	"github.com/sirupsen/logrus"
)

const readBufferSize = 4096

// Session owns one device exclusively for its entire lifetime: the
// lexer, the active-driver detector, and the NavigationRecord it
// accumulates into are all session-exclusive state, never shared
// across sessions (spec.md §5).
type Session struct {
	ID      string
	Device  transport.Device
	Record  *navdata.NavigationRecord
	Context *navdata.Context

	lexer    *lexer.Lexer
	detector *driver.Detector
	state    *driver.State
	log      logrus.FieldLogger

	baud int
	buf  []byte
}

// New opens a session against dev, starting auto-detection at the
// registry's "Generic NMEA" entry. ctx is shared across every session
// on the same process (leap-second offset); baseLogger may be nil to
// fall back to logrus's standard logger.
func New(dev transport.Device, registry *driver.Registry, ctx *navdata.Context, baseLogger logrus.FieldLogger) (*Session, error) {
	det, err := driver.NewDetector(registry)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	id := gpsdlog.NewSessionID()
	rec := navdata.New()
	rec.Identity.DevicePath = dev.Path()
	rec.Identity.DriverName = det.Active().Name

	return &Session{
		ID:       id,
		Device:   dev,
		Record:   rec,
		Context:  ctx,
		lexer:    lexer.New(),
		detector: det,
		state:    driver.NewState(),
		log:      gpsdlog.NewSessionLogger(baseLogger, id, dev.Path()),
		buf:      make([]byte, readBufferSize),
	}, nil
}

// ActiveDriver returns the name of the currently selected driver.
func (s *Session) ActiveDriver() string { return s.detector.Active().Name }

// Poll performs one read from the device, feeds every byte returned
// through the lexer, and runs each completed packet through the
// auto-detection step, merging every packet's DirtyMask into one
// cumulative result for the caller. A zero-length, error-free read
// (device timeout with nothing available) returns a zero mask, the
// same non-blocking short-read contract top708's serial port uses.
func (s *Session) Poll() (navdata.DirtyMask, error) {
	n, err := s.Device.Read(s.buf)
	if err != nil {
		return 0, fmt.Errorf("session %s: read: %w", s.ID, err)
	}
	if n == 0 {
		return 0, nil
	}

	var mask navdata.DirtyMask
	for _, b := range s.buf[:n] {
		complete, ferr := s.lexer.Feed(b)
		if ferr != nil {
			s.log.WithError(ferr).Debug("lexer resync")
			continue
		}
		if !complete {
			continue
		}

		pt := s.lexer.Type()
		if pt == lexer.CommentPacket || pt == lexer.BadPacket || pt == lexer.NoPacket {
			continue
		}

		packet := append([]byte(nil), s.lexer.Packet()...)
		before := s.detector.Active().Name

		m, perr := s.detector.Step(s.Device, pt, packet, s.Record, s.Context, s.state)
		if perr != nil {
			s.log.WithError(perr).Warn("driver parse error")
			continue
		}

		if after := s.detector.Active().Name; after != before {
			s.log.WithFields(gpsdlog.Fields{"from": before, "to": after}).Info("driver switched")
		}

		if m != 0 {
			s.Record.Identity.DriverName = s.detector.Active().Name
			s.Record.Identity.PacketTag = pt.String()
			mask |= m
		}
	}

	if mask != 0 {
		s.Record.Online = true
		mask |= navdata.OnlineSet
	}
	return mask, nil
}

// SetMode asks the active driver to switch the device between its
// binary and NMEA reporting modes. Drivers that don't distinguish
// (e.g. Generic NMEA, Navcom) report an error rather than silently
// doing nothing.
func (s *Session) SetMode(binary bool) error {
	d := s.detector.Active()
	if d.SetMode == nil {
		return fmt.Errorf("session %s: driver %q does not support mode switching", s.ID, d.Name)
	}
	return d.SetMode(s.Device, binary)
}

// SetSpeed changes the device's baud rate, first giving the active
// driver a chance to tell the receiver about the change over the
// current baud (e.g. EverMore's set-baud-rate command) before the
// transport itself reopens at the new rate.
func (s *Session) SetSpeed(baud int) error {
	d := s.detector.Active()
	if d.SetSpeed != nil {
		if err := d.SetSpeed(s.Device, baud); err != nil {
			return fmt.Errorf("session %s: driver set speed: %w", s.ID, err)
		}
	}
	if err := s.Device.SetBaud(baud); err != nil {
		return fmt.Errorf("session %s: transport set baud: %w", s.ID, err)
	}
	s.baud = baud
	s.Record.Identity.Baud = baud
	return nil
}

// SendControl writes a raw control string to the device exactly as
// given. Per spec.md §6/§5, a write failure is logged and returned but
// never tears down the session.
func (s *Session) SendControl(data []byte) error {
	_, err := s.Device.Write(data)
	if err != nil {
		s.log.WithError(err).Warn("control write failed")
	}
	return err
}

// SwitchDriver forces the active driver by name, running its
// Initializer against the current device.
func (s *Session) SwitchDriver(name string) error {
	return s.detector.SwitchDriver(s.Device, name)
}

// SetRTCM104Mode switches the session into (or out of) RTCM-104
// passthrough: entering flips the lexer into its bit-synchronous
// raw-byte mode and forces the RTCM-104 driver active so the
// single-byte packets the lexer then emits have a Parse to land in;
// leaving restores byte-framed recognition and returns auto-detection
// to Generic NMEA, since nothing upstream of the lexer can tell which
// framed protocol follows an RTCM feed once it stops.
func (s *Session) SetRTCM104Mode(on bool) error {
	s.lexer.SetRTCM104Mode(on)
	if on {
		return s.detector.SwitchDriver(s.Device, "RTCM-104")
	}
	return s.detector.SwitchDriver(s.Device, "Generic NMEA")
}

// Close releases the underlying device.
func (s *Session) Close() error {
	return s.Device.Close()
}
