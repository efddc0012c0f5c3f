package reader

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"syscall"
)

// Fifo implements TagReader over a named pipe, one hex UID per line.
// No hardware required; useful for development rigs and for scripting
// scans (echo 04A29F > /tmp/steam-nfc-tags).
type Fifo struct {
	path string
}

// NewFifo creates the named pipe, replacing any stale one at the path.
func NewFifo(path string) (*Fifo, error) {
	if path == "" {
		return nil, fmt.Errorf("fifo reader requires a device path")
	}

	os.Remove(path)

	if err := syscall.Mkfifo(path, 0666); err != nil {
		return nil, fmt.Errorf("create named pipe %s: %w", path, err)
	}

	log.Printf("Tag pipe listening on %s", path)
	return &Fifo{path: path}, nil
}

// Read implements TagReader.Read. Blocks until a writer connects and
// sends a line; blank lines and comments are skipped, non-hex lines are
// logged and dropped.
func (f *Fifo) Read(ctx context.Context) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		file, err := os.OpenFile(f.path, os.O_RDONLY, 0)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fmt.Errorf("open pipe %s: %w", f.path, err)
		}

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" || line[0] == '#' {
				continue
			}

			uid := NormalizeUID(line)
			if uid == "" {
				log.Printf("Tag pipe: ignoring non-hex line %q", line)
				continue
			}

			file.Close()
			return uid, nil
		}

		// Writer closed the pipe; loop back and wait for the next one.
		file.Close()
	}
}

// Close removes the pipe.
func (f *Fifo) Close() error {
	return os.Remove(f.path)
}
