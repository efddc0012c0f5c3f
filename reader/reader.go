package reader

import (
	"context"
	"fmt"
)

// TagReader is the interface for all NFC/RFID reader implementations.
// Implementations should block until a tag is read or context is cancelled.
type TagReader interface {
	// Read blocks until a tag contact or context cancellation and
	// returns the tag UID as uppercase hex with no separators.
	// A return of ("", nil) indicates no tag was read this cycle.
	Read(ctx context.Context) (string, error)

	// Close releases any resources held by the reader.
	Close() error
}

// Config holds common configuration for reader implementations.
type Config struct {
	Type   string `yaml:"type"`   // "serial", "keyboard", "fifo"
	Device string `yaml:"device"` // e.g. "/dev/ttyUSB0", "/dev/input/event0"
	Baud   int    `yaml:"baud"`   // baud rate for serial devices
	Format string `yaml:"format"` // keyboard digit format, e.g. "14h"
}

// New creates a TagReader based on the provided configuration.
func New(cfg Config) (TagReader, error) {
	switch cfg.Type {
	case "keyboard", "hid":
		return NewKeyboard(cfg.Device, cfg.Format)
	case "fifo", "pipe":
		return NewFifo(cfg.Device)
	case "serial", "":
		return NewSerial(cfg.Device, cfg.Baud)
	default:
		return nil, fmt.Errorf("unknown reader type %q", cfg.Type)
	}
}
