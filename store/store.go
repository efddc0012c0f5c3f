package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Entry maps a tag to a Steam title. AppID is kept as free-form text;
// whatever the user entered at registration time is what gets launched.
type Entry struct {
	AppID string `json:"appid"`
	Name  string `json:"name"`
}

// Mapping is the full tag table, keyed by uppercase hex UID.
type Mapping map[string]Entry

// Store persists the tag mapping as a single pretty-printed JSON file.
// There is no caching: every lookup re-reads the file, so the listener
// and the registrar can run side by side sharing only the file itself.
type Store struct {
	path string
}

// New creates a Store backed by the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// EnsureInitialized creates the backing file with an empty mapping if it
// does not exist yet, creating parent directories as needed. Safe to call
// repeatedly.
func (s *Store) EnsureInitialized() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat store file: %w", err)
	}

	if err := os.WriteFile(s.path, []byte("{}\n"), 0644); err != nil {
		return fmt.Errorf("create store file: %w", err)
	}
	return nil
}

// Load reads the mapping from disk. A missing, unreadable or corrupt file
// yields an empty mapping rather than an error: a broken store must never
// take the listener down, it just stops matching tags until re-registered.
func (s *Store) Load() Mapping {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Mapping{}
	}

	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return Mapping{}
	}
	if m == nil {
		m = Mapping{}
	}
	return m
}

// Save writes the full mapping back to disk, replacing the previous
// contents. Plain truncate-and-write; last writer wins.
func (s *Store) Save(m Mapping) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}

// Lookup loads the mapping fresh and finds the entry for a UID.
func (s *Store) Lookup(uid string) (Entry, bool) {
	m := s.Load()
	e, ok := m[uid]
	return e, ok
}
