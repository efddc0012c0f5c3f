package reader

import (
	"context"
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// Serial implements TagReader for UART NFC readers that emit framed UIDs.
// Frame layout: [0x02][len][uid bytes...][xor][0x03], where len is the
// UID length in bytes (4, 7 or 10 for common NFC tags) and xor is the
// XOR checksum over the UID bytes.
type Serial struct {
	port   *serial.Port
	device string
}

const (
	frameStart = 0x02
	frameEnd   = 0x03

	minUIDLen = 4
	maxUIDLen = 10
)

// NewSerial opens a serial NFC reader. Baud defaults to 115200.
func NewSerial(device string, baud int) (*Serial, error) {
	if baud == 0 {
		baud = 115200
	}
	c := &serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: time.Second,
	}
	port, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}

	return &Serial{port: port, device: device}, nil
}

// Read implements TagReader.Read for serial readers.
func (s *Serial) Read(ctx context.Context) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		uid := s.readFrame()
		if uid != "" {
			return uid, nil
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (s *Serial) readFrame() string {
	buf := make([]byte, maxUIDLen+4)

	n, err := s.port.Read(buf)
	if err != nil {
		return "" // timeout, try again
	}
	if n == 0 {
		return ""
	}

	uid, ok := parseFrame(buf[:n])
	if !ok {
		return ""
	}
	return uid
}

// parseFrame validates one reader frame and extracts the UID. Partial
// reads, bad delimiters and checksum mismatches are all dropped silently;
// the tag is still on the reader and the next frame will come around.
func parseFrame(buf []byte) (string, bool) {
	if len(buf) < minUIDLen+4 || buf[0] != frameStart {
		return "", false
	}

	n := int(buf[1])
	if n < minUIDLen || n > maxUIDLen || len(buf) != n+4 {
		return "", false
	}
	if buf[n+3] != frameEnd {
		return "", false
	}

	uid := buf[2 : 2+n]
	var xor byte
	for _, b := range uid {
		xor ^= b
	}
	if xor != buf[n+2] {
		return "", false
	}

	return UIDFromBytes(uid), true
}

// Close implements TagReader.Close.
func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	return s.port.Close()
}
