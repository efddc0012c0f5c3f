package reader

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/kenshaw/evdev"
)

// Keyboard implements TagReader for USB keyboard-wedge NFC readers that
// type the tag UID as hex digits followed by Enter.
type Keyboard struct {
	device    *evdev.Evdev
	numDigits int // expected number of hex digits (0 = any)
}

// NewKeyboard creates a keyboard-wedge reader on the specified input
// device. Format gives the expected digit count, e.g. "14h" for a 7-byte
// UID typed as 14 hex digits; empty means any length.
func NewKeyboard(device string, format string) (*Keyboard, error) {
	dev, err := evdev.OpenFile(device)
	if err != nil {
		return nil, fmt.Errorf("open evdev %s: %w", device, err)
	}

	log.Printf("Opened keyboard device: %s", dev.Name())
	log.Printf("Vendor: 0x%04x, Product: 0x%04x", dev.ID().Vendor, dev.ID().Product)

	numDigits := 0
	if format != "" {
		f := strings.TrimSuffix(strings.ToLower(format), "h")
		numDigits, err = strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad keyboard format %q: %w", format, err)
		}
	}

	return &Keyboard{device: dev, numDigits: numDigits}, nil
}

// Read implements TagReader.Read for keyboard-wedge readers. Key events
// accumulate until Enter, then the buffer is normalized as a hex UID.
func (k *Keyboard) Read(ctx context.Context) (string, error) {
	ch := k.device.Poll(ctx)
	var strbuf string

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case event := <-ch:
			if event == nil {
				return "", fmt.Errorf("keyboard device closed")
			}

			switch event.Type.(type) {
			case evdev.KeyType:
				if event.Value != 1 {
					continue
				}

				if event.Type == evdev.KeyEnter {
					if strbuf == "" {
						continue
					}

					uid := NormalizeUID(strbuf)
					if uid == "" {
						log.Printf("Bad tag line %q: not hex", strbuf)
						strbuf = ""
						continue
					}
					if k.numDigits > 0 && len(uid) != k.numDigits {
						log.Printf("Bad tag: expected %d digits, got %d (%q)", k.numDigits, len(uid), strbuf)
						strbuf = ""
						continue
					}

					return uid, nil
				}

				strbuf += evdev.KeyType(event.Code).String()
			}
		}
	}
}

// Close implements TagReader.Close.
func (k *Keyboard) Close() error {
	if k.device == nil {
		return nil
	}
	return k.device.Close()
}
