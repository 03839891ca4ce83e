// Package config holds the reading profile: the page geometry the index
// is built against and where books and logs live.
package config

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Defaults match a small e-paper text layout.
const (
	DefaultLinesPerPage = 25
	DefaultCharsPerLine = 38
)

// Profile is the persisted settings file. Changing the page geometry
// orphans saved positions, which are clamped away on the next open
// rather than migrated.
type Profile struct {
	BooksDir     string `json:"books_dir"`
	LinesPerPage int    `json:"lines_per_page"`
	CharsPerLine int    `json:"chars_per_line"`
	LogFile      string `json:"log_file,omitempty"`
}

func Default() Profile {
	return Profile{
		BooksDir:     ".",
		LinesPerPage: DefaultLinesPerPage,
		CharsPerLine: DefaultCharsPerLine,
	}
}

// Load reads the profile at path, filling absent fields from defaults.
// A missing file yields the defaults without error; a malformed one is
// an error so typos do not silently reset the geometry.
func Load(path string) (Profile, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return p, fmt.Errorf("config %s: %w", path, err)
	}
	return p, nil
}

// Save writes the profile as indented JSON.
func Save(path string, p Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (p Profile) validate() error {
	if p.LinesPerPage <= 0 {
		return fmt.Errorf("lines_per_page must be positive, got %d", p.LinesPerPage)
	}
	if p.CharsPerLine <= 0 {
		return fmt.Errorf("chars_per_line must be positive, got %d", p.CharsPerLine)
	}
	if p.BooksDir == "" {
		return fmt.Errorf("books_dir must not be empty")
	}
	return nil
}
