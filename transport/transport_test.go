package transport

import (
	"io"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDeviceReadWrite(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "gpsdcore-file-device")
	require.NoError(t, err)
	path := f.Name()
	_, err = f.WriteString("$GPGGA,hello*00\r\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	dev, err := OpenFile(path)
	require.NoError(t, err)
	defer dev.Close()

	assert.Equal(t, path, dev.Path())
	assert.NoError(t, dev.SetBaud(4800))

	buf := make([]byte, 64)
	n, err := dev.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "$GPGGA,hello*00\r\n", string(buf[:n]))

	_, err = dev.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestTCPDeviceRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("!AIVDM,1,1,,A,test,0*00\r\n"))
	}()

	dev, err := DialTCP(ln.Addr().String(), time.Second)
	require.NoError(t, err)
	defer dev.Close()

	assert.Equal(t, ln.Addr().String(), dev.Path())
	assert.NoError(t, dev.SetBaud(38400))

	buf := make([]byte, 64)
	var n int
	for i := 0; i < 20; i++ {
		n, err = dev.Read(buf)
		require.NoError(t, err)
		if n > 0 {
			break
		}
	}
	assert.Equal(t, "!AIVDM,1,1,,A,test,0*00\r\n", string(buf[:n]))
	<-serverDone
}
