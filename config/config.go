package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/brunoclausen/steam-nfc-scanner/events"
	"github.com/brunoclausen/steam-nfc-scanner/launcher"
	"github.com/brunoclausen/steam-nfc-scanner/reader"
)

// Environment variables recognized on top of the config file.
const (
	EnvBox   = "STEAM_NFC_BOX"   // distrobox name for the fallback tier
	EnvStore = "STEAM_NFC_STORE" // mapping file override
)

// Config is the main configuration structure, built once at startup and
// handed to the components that need it.
type Config struct {
	// Store is the path of the tag mapping file.
	Store string `yaml:"store"`

	// Reader configuration
	Reader reader.Config `yaml:"reader"`

	// Launcher configuration
	Launcher launcher.Config `yaml:"launcher"`

	// Events holds optional MQTT settings for scan event publishing.
	Events events.Config `yaml:"events"`

	// ClientID identifies this node in event topics.
	ClientID string `yaml:"client_id"`
}

// Load builds the configuration: defaults, then the YAML file when
// present, then environment overrides. A missing file is fine (the
// listener should run on a stock setup with no config at all); a file
// that exists but does not parse is an error.
func Load(path string) (*Config, error) {
	// Pick up a .env alongside the binary, if any. Best effort.
	_ = godotenv.Load()

	cfg := &Config{
		Store: DefaultStorePath(),
		Reader: reader.Config{
			Type:   "serial",
			Device: "/dev/ttyUSB0",
		},
	}
	if host, err := os.Hostname(); err == nil {
		cfg.ClientID = host
	} else {
		cfg.ClientID = "steam-nfc"
	}

	if path != "" {
		f, err := os.Open(path)
		if err == nil {
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
				return nil, fmt.Errorf("decode config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("open config %s: %w", path, err)
		}
	}

	if box := os.Getenv(EnvBox); box != "" {
		cfg.Launcher.BoxName = box
	}
	if store := os.Getenv(EnvStore); store != "" {
		cfg.Store = store
	}

	return cfg, nil
}

// DefaultStorePath places the mapping file under the user config dir,
// e.g. ~/.config/steam-nfc/mappings.json.
func DefaultStorePath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = ".config"
	}
	return filepath.Join(base, "steam-nfc", "mappings.json")
}
