package transport

import (
	"fmt"
	"net"
	"time"
)

// TCPDevice wraps a net.Conn, grounded on pkg/gnssgo/stream/tcp.go's
// TCPClientType. Used for devices that expose their data over a TCP
// socket (e.g. a networked GNSS receiver or an ntrip-style relay) and
// for feeding recorded sessions back in over a loopback connection in
// tests.
type TCPDevice struct {
	conn    net.Conn
	path    string
	timeout time.Duration
}

// DialTCP connects to addr, grounded on stream.TCPClientType's dial
// logic.
func DialTCP(addr string, timeout time.Duration) (*TCPDevice, error) {
	if timeout <= 0 {
		timeout = defaultReadTimeout
	}
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("transport: dial tcp %s: %w", addr, err)
	}
	return &TCPDevice{conn: conn, path: addr, timeout: timeout}, nil
}

func (d *TCPDevice) Read(p []byte) (int, error) {
	d.conn.SetReadDeadline(time.Now().Add(d.timeout))
	n, err := d.conn.Read(p)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, nil
		}
		return n, fmt.Errorf("transport: tcp read %s: %w", d.path, err)
	}
	return n, nil
}

func (d *TCPDevice) Write(p []byte) (int, error) {
	n, err := d.conn.Write(p)
	if err != nil {
		return n, fmt.Errorf("transport: tcp write %s: %w", d.path, err)
	}
	return n, nil
}

// SetBaud is meaningless over TCP and is a no-op, matching
// stream.TCPClientType's SetBrate.
func (d *TCPDevice) SetBaud(baud int) error { return nil }

func (d *TCPDevice) Close() error { return d.conn.Close() }

func (d *TCPDevice) Path() string { return d.path }
