// Package manifest manages the persisted gallery catalog (images.json): the
// single source of truth for what the gallery displays, one section per
// category with per-image add timestamps and "new" flags.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry is one image record. DateAdded is kept as the raw ISO-8601 UTC
// string from disk so that loading and re-saving an untouched manifest is
// byte-stable even for legacy sub-second timestamps.
type Entry struct {
	Path      string `json:"path"`
	DateAdded string `json:"dateadded"`
	New       bool   `json:"new,omitempty"`
}

// Set is one category's section: a display name and its entries, sorted by
// path for deterministic output.
type Set struct {
	Name   string  `json:"name"`
	Images []Entry `json:"images"`
}

// Manifest is the full catalog document.
type Manifest struct {
	Sets    map[string]*Set `json:"sets"`
	Default string          `json:"default,omitempty"`
}

// Load reads a manifest from disk. A missing file yields an empty manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Manifest{Sets: map[string]*Set{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Sets == nil {
		m.Sets = map[string]*Set{}
	}
	return &m, nil
}

// Write writes the manifest to disk atomically: the full document is
// marshaled in memory, written to a temporary file in the target directory,
// and renamed into place. No partial document ever lands at path.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".images-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}

// Paths returns the entry paths of one category, in stored order.
func (m *Manifest) Paths(category string) []string {
	set := m.Sets[category]
	if set == nil {
		return nil
	}
	paths := make([]string, len(set.Images))
	for i, img := range set.Images {
		paths[i] = img.Path
	}
	return paths
}

// FormatDate renders a timestamp in the manifest's wire form: ISO-8601 UTC
// with a "Z" suffix and second precision.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseDate parses a stored dateadded string, accepting both second and
// fractional-second precision.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse dateadded %q: %w", s, err)
	}
	return t, nil
}
