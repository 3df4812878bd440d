// Package transport adapts pkg/gnssgo/stream's per-kind stream types
// (serial/file/tcp) into the single minimal Device abstraction a
// Session needs: read bytes, write bytes, change baud, close. Unlike
// the teacher's Stream, which dispatches across a dozen transport
// kinds (NTRIP, UDP, FTP, memory buffers) behind one type-switched
// struct, gpsdcore only needs what a directly-attached GPS receiver
// or a captured-log replay requires, so this is a small interface
// with one concrete implementation per kind rather than a god-struct.
package transport

import "time"

// Device is the device file descriptor abstraction spec.md §3 assigns
// to each Session: exclusively owned by one session, never shared.
type Device interface {
	// Read reads up to len(p) bytes, blocking at most the device's
	// configured read timeout. Returns (0, nil) on timeout with no
	// data available, matching the non-blocking/short-timeout read
	// path spec.md §5 requires.
	Read(p []byte) (n int, err error)

	// Write writes p in full or returns an error. No write timeout is
	// configured on any of the package's devices.
	Write(p []byte) (n int, err error)

	// SetBaud changes the device's baud rate. For serial devices this
	// closes and reopens the port (go.bug.st/serial has no in-place
	// baud change); for file/TCP replay devices it is a no-op.
	SetBaud(baud int) error

	// Close releases the underlying OS resource.
	Close() error

	// Path identifies the device for logging/identity purposes.
	Path() string
}

// defaultReadTimeout mirrors stream/serial.go's defaultTimeout.
const defaultReadTimeout = 100 * time.Millisecond
