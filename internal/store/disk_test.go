package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func newTestDir(t *testing.T) (*Dir, string) {
	t.Helper()
	path := t.TempDir()
	d, err := OpenDir(path)
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d, path
}

func TestOpenTracksPosition(t *testing.T) {
	d, path := newTestDir(t)
	content := []byte("hello, reader")
	if err := os.WriteFile(filepath.Join(path, "book.txt"), content, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	f, err := d.Open("book.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	if f.Size() != int64(len(content)) {
		t.Fatalf("Size = %d, want %d", f.Size(), len(content))
	}

	b, err := f.ReadByte()
	if err != nil || b != 'h' {
		t.Fatalf("ReadByte = %q, %v", b, err)
	}
	if f.Position() != 1 {
		t.Fatalf("Position after one byte = %d", f.Position())
	}

	buf := make([]byte, 4)
	if _, err := io.ReadFull(f, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf) != "ello" || f.Position() != 5 {
		t.Fatalf("read %q at position %d", buf, f.Position())
	}

	// Seeking must discard the read buffer and re-anchor the position.
	if _, err := f.Seek(7, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if f.Position() != 7 {
		t.Fatalf("Position after seek = %d", f.Position())
	}
	b, _ = f.ReadByte()
	if b != 'r' {
		t.Fatalf("byte after seek = %q", b)
	}

	// Drain to EOF; position must equal size.
	for {
		if _, err := f.ReadByte(); err != nil {
			if err != io.EOF {
				t.Fatalf("unexpected error: %v", err)
			}
			break
		}
	}
	if f.Position() != f.Size() {
		t.Fatalf("Position at EOF = %d, size %d", f.Position(), f.Size())
	}
}

func TestOpenMissingFile(t *testing.T) {
	d, _ := newTestDir(t)
	if _, err := d.Open("absent.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := d.ReadFile("absent.idx"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from ReadFile, got %v", err)
	}
	if err := d.Remove("absent.idx"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Remove, got %v", err)
	}
}

func TestWriteFileReplacesAtomically(t *testing.T) {
	d, path := newTestDir(t)
	if err := d.WriteFile("cache.idx", []byte("one")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := d.WriteFile("cache.idx", []byte("two")); err != nil {
		t.Fatalf("WriteFile overwrite: %v", err)
	}
	data, err := d.ReadFile("cache.idx")
	if err != nil || string(data) != "two" {
		t.Fatalf("ReadFile = %q, %v", data, err)
	}
	if _, err := os.Stat(filepath.Join(path, "cache.idx.tmp")); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind: %v", err)
	}
}

func TestOpenRWPatches(t *testing.T) {
	d, _ := newTestDir(t)
	if err := d.WriteFile("cache.idx", []byte("abcdef")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	pf, err := d.OpenRW("cache.idx")
	if err != nil {
		t.Fatalf("OpenRW: %v", err)
	}
	if _, err := pf.WriteAt([]byte("XY"), 2); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	head := make([]byte, 1)
	if _, err := pf.ReadAt(head, 0); err != nil || head[0] != 'a' {
		t.Fatalf("ReadAt = %q, %v", head, err)
	}
	pf.Close()

	data, _ := d.ReadFile("cache.idx")
	if string(data) != "abXYef" {
		t.Fatalf("patched content = %q", data)
	}

	if _, err := d.OpenRW("missing.idx"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSkipsDirectories(t *testing.T) {
	d, path := newTestDir(t)
	if err := os.WriteFile(filepath.Join(path, "a.txt"), []byte("aa"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(path, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	entries, err := d.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "a.txt" || entries[0].Size != 2 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestSubScopesCacheStore(t *testing.T) {
	d, path := newTestDir(t)
	sub, err := d.Sub(".indexes")
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if err := sub.WriteFile("b.txt.idx", []byte{1}); err != nil {
		t.Fatalf("WriteFile in sub: %v", err)
	}
	if _, err := os.Stat(filepath.Join(path, ".indexes", "b.txt.idx")); err != nil {
		t.Fatalf("cache file not under sub-path: %v", err)
	}
	if d.Exists("b.txt.idx") {
		t.Fatal("cache entry leaked into the parent store")
	}

	// Sub must be reusable once the directory already exists.
	if _, err := d.Sub(".indexes"); err != nil {
		t.Fatalf("Sub on existing dir: %v", err)
	}
}
