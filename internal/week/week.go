// Package week reads and writes the current-week configuration. The week
// number is operator-maintained (bumped after each slate of games), not
// derived from the calendar.
package week

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const (
	MinWeek = 1
	MaxWeek = 18
)

// Source supplies the configured current week.
type Source interface {
	Current() int
}

// Config is the on-disk shape of the week configuration file.
type Config struct {
	CurrentWeek int    `json:"currentWeek"`
	LastUpdated string `json:"lastUpdated,omitempty"`
	Season      string `json:"season,omitempty"`
}

// FileSource is a JSON-file-backed week source. A missing or unreadable file
// reads as week 1 so the dashboard stays usable before the file is seeded.
type FileSource struct {
	mu     sync.RWMutex
	path   string
	season int
}

// NewFileSource creates a file-backed source at path.
func NewFileSource(path string, season int) *FileSource {
	return &FileSource{path: path, season: season}
}

// Current returns the configured week, or 1 if no configuration exists.
func (f *FileSource) Current() int {
	cfg, err := f.Read()
	if err != nil {
		return MinWeek
	}
	return cfg.CurrentWeek
}

// Read loads the full configuration from disk.
func (f *FileSource) Read() (Config, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{CurrentWeek: MinWeek}, nil
		}
		return Config{}, fmt.Errorf("read week config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse week config: %w", err)
	}
	if cfg.CurrentWeek < MinWeek || cfg.CurrentWeek > MaxWeek {
		cfg.CurrentWeek = MinWeek
	}
	return cfg, nil
}

// Set validates and persists a new current week.
func (f *FileSource) Set(w int) (Config, error) {
	if w < MinWeek || w > MaxWeek {
		return Config{}, fmt.Errorf("invalid week %d: must be between %d and %d", w, MinWeek, MaxWeek)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	cfg := Config{
		CurrentWeek: w,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Season:      strconv.Itoa(f.season),
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return Config{}, fmt.Errorf("encode week config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return Config{}, fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return Config{}, fmt.Errorf("write week config: %w", err)
	}
	return cfg, nil
}

// Static is a fixed-week Source for tests.
type Static int

// Current returns the static week.
func (s Static) Current() int { return int(s) }
