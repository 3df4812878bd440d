package transport

import (
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
)

// SerialDevice wraps a go.bug.st/serial port, grounded on
// pkg/gnssgo/stream/serial.go's OpenSerial/ReadSerial/WriteSerial/
// SetBrate. Baud changes close and reopen the port exactly as
// stream.SetBrate does, since the library has no live-reconfigure
// call for baud rate.
type SerialDevice struct {
	mu      sync.Mutex
	port    serial.Port
	path    string
	mode    *serial.Mode
	timeout time.Duration
}

// SerialConfig mirrors the fields stream.OpenSerial parses out of its
// path string, exposed here as a struct instead since gpsdcore's
// callers construct a device directly rather than through a path-DSL.
type SerialConfig struct {
	Baud     int
	DataBits int
	Parity   serial.Parity
	StopBits serial.StopBits
	Timeout  time.Duration
}

// DefaultSerialConfig returns gpsd's usual 8N1 defaults at the given
// baud rate.
func DefaultSerialConfig(baud int) SerialConfig {
	return SerialConfig{
		Baud:     baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
		Timeout:  defaultReadTimeout,
	}
}

// OpenSerial opens a serial port, grounded on stream.OpenSerial.
func OpenSerial(path string, cfg SerialConfig) (*SerialDevice, error) {
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: cfg.DataBits,
		Parity:   cfg.Parity,
		StopBits: cfg.StopBits,
	}
	p, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("transport: open serial %s: %w", path, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultReadTimeout
	}
	if err := p.SetReadTimeout(timeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("transport: set read timeout on %s: %w", path, err)
	}
	return &SerialDevice{port: p, path: path, mode: mode, timeout: timeout}, nil
}

func (d *SerialDevice) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.port.Read(p)
	if err != nil {
		return n, fmt.Errorf("transport: serial read %s: %w", d.path, err)
	}
	return n, nil
}

func (d *SerialDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.port.Write(p)
	if err != nil {
		return n, fmt.Errorf("transport: serial write %s: %w", d.path, err)
	}
	return n, nil
}

// SetBaud closes and reopens the port at the new baud rate, matching
// stream.SetBrate's close/reopen strategy.
func (d *SerialDevice) SetBaud(baud int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.port.Close(); err != nil {
		return fmt.Errorf("transport: close %s for baud change: %w", d.path, err)
	}
	d.mode.BaudRate = baud
	p, err := serial.Open(d.path, d.mode)
	if err != nil {
		return fmt.Errorf("transport: reopen %s at %d baud: %w", d.path, baud, err)
	}
	if err := p.SetReadTimeout(d.timeout); err != nil {
		p.Close()
		return fmt.Errorf("transport: set read timeout on %s: %w", d.path, err)
	}
	d.port = p
	return nil
}

func (d *SerialDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.port.Close()
}

func (d *SerialDevice) Path() string { return d.path }

// ListPorts enumerates available serial ports, grounded on
// hardware/topgnss/top708's use of go.bug.st/serial/enumerator for
// GetAvailablePorts/GetPortDetails.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("transport: list ports: %w", err)
	}
	return ports, nil
}
