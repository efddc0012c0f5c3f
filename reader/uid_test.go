package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUIDFromBytes(t *testing.T) {
	assert.Equal(t, "04A29F", UIDFromBytes([]byte{0x04, 0xA2, 0x9F}))
	assert.Equal(t, "", UIDFromBytes(nil))
	assert.Equal(t, "04A29FB1C2D3E4", UIDFromBytes([]byte{0x04, 0xA2, 0x9F, 0xB1, 0xC2, 0xD3, 0xE4}))
}

func TestNormalizeUID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"04A29F", "04A29F"},
		{"04a29f", "04A29F"},
		{"04:a2:9f", "04A29F"},
		{"04-A2-9F", "04A29F"},
		{"04 A2 9F", "04A29F"},
		{"", ""},
		{"not hex", ""},
		{"04A29G", ""},
		{"steam", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeUID(tt.in), "input %q", tt.in)
	}
}
