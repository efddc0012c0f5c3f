package reader

import (
	"encoding/hex"
	"strings"
)

// UIDFromBytes renders raw UID bytes as the canonical display form:
// uppercase hex, no separators. {0x04, 0xA2, 0x9F} becomes "04A29F".
func UIDFromBytes(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// NormalizeUID canonicalizes a UID typed or scanned as text. Hex digits
// are uppercased and the separators some readers emit (":", "-", space)
// are stripped. Returns "" if the input contains anything else, so
// callers can treat it as "no tag".
func NormalizeUID(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'F':
			b.WriteRune(r)
		case r >= 'a' && r <= 'f':
			b.WriteRune(r - ('a' - 'A'))
		case r == ':' || r == '-' || r == ' ':
			// separator
		default:
			return ""
		}
	}
	return b.String()
}
