package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.LinesPerPage != DefaultLinesPerPage || p.CharsPerLine != DefaultCharsPerLine {
		t.Fatalf("defaults = %+v", p)
	}
	if p.BooksDir != "." {
		t.Fatalf("BooksDir = %q", p.BooksDir)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"books_dir": "/books"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.BooksDir != "/books" {
		t.Fatalf("BooksDir = %q", p.BooksDir)
	}
	if p.LinesPerPage != DefaultLinesPerPage || p.CharsPerLine != DefaultCharsPerLine {
		t.Fatalf("geometry not defaulted: %+v", p)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"books_dir": `},
		{"zero lines", `{"lines_per_page": 0, "chars_per_line": 38}`},
		{"negative chars", `{"chars_per_line": -1}`},
		{"empty dir", `{"books_dir": ""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	want := Profile{BooksDir: "/mnt/books", LinesPerPage: 30, CharsPerLine: 50, LogFile: "inklet.log"}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip: %+v != %+v", got, want)
	}
}
