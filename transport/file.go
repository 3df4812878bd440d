package transport

import (
	"fmt"
	"os"
	"sync"
)

// FileDevice replays a captured byte stream from disk through the
// lexer/driver pipeline, grounded on pkg/gnssgo/stream/file.go's
// FileType. Baud is meaningless for a file and SetBaud is a no-op,
// matching the teacher's file stream ignoring baud entirely.
type FileDevice struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// OpenFile opens path for replay.
func OpenFile(path string) (*FileDevice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transport: open file %s: %w", path, err)
	}
	return &FileDevice{f: f, path: path}, nil
}

func (d *FileDevice) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.f.Read(p)
	if err != nil {
		return n, err // io.EOF propagates as-is; callers check errors.Is(err, io.EOF)
	}
	return n, nil
}

func (d *FileDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.f.Write(p)
}

func (d *FileDevice) SetBaud(baud int) error { return nil }

func (d *FileDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.f.Close()
}

func (d *FileDevice) Path() string { return d.path }
