package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "serial", cfg.Reader.Type)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Reader.Device)
	assert.Empty(t, cfg.Launcher.BoxName) // launcher applies its own default
	assert.Contains(t, cfg.Store, "mappings.json")
	assert.NotEmpty(t, cfg.ClientID)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "serial", cfg.Reader.Type)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
store: /var/lib/steam-nfc/tags.json
reader:
  type: keyboard
  device: /dev/input/event3
  format: 14h
launcher:
  box_name: steambox
events:
  host: broker.local
  port: 1883
client_id: livingroom
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/steam-nfc/tags.json", cfg.Store)
	assert.Equal(t, "keyboard", cfg.Reader.Type)
	assert.Equal(t, "/dev/input/event3", cfg.Reader.Device)
	assert.Equal(t, "14h", cfg.Reader.Format)
	assert.Equal(t, "steambox", cfg.Launcher.BoxName)
	assert.Equal(t, "broker.local", cfg.Events.Host)
	assert.Equal(t, "livingroom", cfg.ClientID)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("launcher:\n  box_name: fromfile\n"), 0644))

	t.Setenv(EnvBox, "fromenv")
	t.Setenv(EnvStore, "/tmp/override.json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fromenv", cfg.Launcher.BoxName)
	assert.Equal(t, "/tmp/override.json", cfg.Store)
}
