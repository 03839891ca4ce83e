package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"

	"github.com/inklet-dev/inklet/internal/pageindex"
	"github.com/inklet-dev/inklet/internal/store"
)

func newTestCatalog(t *testing.T) (*Catalog, *store.Dir, string) {
	t.Helper()
	path := t.TempDir()
	books, err := store.OpenDir(path)
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	t.Cleanup(func() { books.Close() })
	cache, err := books.Sub(".indexes")
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	mgr := pageindex.NewManager(books, cache, pageindex.Layout{LinesPerPage: 1, CharsPerLine: 40}, nil)
	return New(books, mgr, nil), books, path
}

func writeFile(t *testing.T, dir, name string, content []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestRefreshFiltersListing(t *testing.T) {
	c, _, dir := newTestCatalog(t)
	writeFile(t, dir, "alpha.txt", []byte("hello\n"))
	writeFile(t, dir, "BRAVO.TXT", []byte("world\n"))
	writeFile(t, dir, "notes.md", []byte("not a book"))
	writeFile(t, dir, ".hidden.txt", []byte("dotfile"))
	writeFile(t, dir, "._alpha.txt", []byte("appledouble"))

	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, books = %+v", c.Len(), c.Books())
	}
	// Name order.
	if c.At(0).Name != "BRAVO.TXT" || c.At(1).Name != "alpha.txt" {
		t.Fatalf("order = %q, %q", c.At(0).Name, c.At(1).Name)
	}
}

func TestRefreshSkipsUTF16(t *testing.T) {
	c, _, dir := newTestCatalog(t)
	writeFile(t, dir, "plain.txt", []byte("readable\n"))

	for name, endian := range map[string]unicode.Endianness{
		"wide-le.txt": unicode.LittleEndian,
		"wide-be.txt": unicode.BigEndian,
	} {
		encoded, err := unicode.UTF16(endian, unicode.ExpectBOM).NewEncoder().Bytes([]byte("unsupported text"))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		writeFile(t, dir, name, encoded)
	}

	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if c.Len() != 1 || c.At(0).Name != "plain.txt" {
		t.Fatalf("books = %+v", c.Books())
	}
}

func TestRefreshKeepsUTF8BOMFiles(t *testing.T) {
	c, _, dir := newTestCatalog(t)
	writeFile(t, dir, "bom.txt", []byte("\xEF\xBB\xBFcontent\n"))

	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("books = %+v", c.Books())
	}
}

func TestRefreshPreindexesBooks(t *testing.T) {
	c, _, dir := newTestCatalog(t)
	writeFile(t, dir, "small.txt", []byte("abcd\nefgh\n"))
	writeFile(t, dir, "large.txt", []byte(strings.Repeat("abcd\n", 150)))

	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d", c.Len())
	}

	large, small := c.At(0), c.At(1)
	if small.Pages() != 3 || !small.Rec.Complete {
		t.Fatalf("small = %+v", small.Rec)
	}
	if large.Pages() != pageindex.PreindexPages || large.Rec.Complete {
		t.Fatalf("large = %d pages, complete=%v", large.Pages(), large.Rec.Complete)
	}
	if large.Size != 750 {
		t.Fatalf("large.Size = %d", large.Size)
	}

	// The pre-index must be on disk for both.
	for _, name := range []string{"small.txt.idx", "large.txt.idx"} {
		if _, err := os.Stat(filepath.Join(dir, ".indexes", name)); err != nil {
			t.Fatalf("cache entry %s: %v", name, err)
		}
	}
}

func TestHasResume(t *testing.T) {
	c, books, dir := newTestCatalog(t)
	writeFile(t, dir, "book.txt", []byte(strings.Repeat("abcd\n", 5)))

	cache, _ := books.Sub(".indexes")
	rec := &pageindex.Record{FileSize: 25, Offsets: []uint32{0, 5, 10, 15, 20, 25}, Complete: true, ResumePage: 2}
	if err := cache.WriteFile("book.txt.idx", pageindex.Encode(rec)); err != nil {
		t.Fatalf("plant cache: %v", err)
	}

	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !c.At(0).HasResume() {
		t.Fatal("resume marker missing")
	}
}

func TestUpdateReplacesRecord(t *testing.T) {
	c, _, dir := newTestCatalog(t)
	writeFile(t, dir, "book.txt", []byte(strings.Repeat("abcd\n", 5)))

	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if c.At(0).HasResume() {
		t.Fatal("fresh book should have no resume marker")
	}

	fresh := &pageindex.Record{Name: "book.txt", FileSize: 25, Offsets: []uint32{0, 5, 10, 15, 20, 25}, Complete: true, ResumePage: 3}
	c.Update(fresh)
	if !c.At(0).HasResume() || c.At(0).Rec.ResumePage != 3 {
		t.Fatalf("record not replaced: %+v", c.At(0).Rec)
	}

	// Unknown names and nil records are ignored.
	c.Update(&pageindex.Record{Name: "other.txt"})
	c.Update(nil)
	if c.At(0).Rec != fresh {
		t.Fatal("update for an unknown name clobbered an entry")
	}
}

// openFailStore fails Open for one name, standing in for an unreadable
// file mid-listing.
type openFailStore struct {
	store.Store
	deny string
}

var errDenied = errors.New("denied")

func (s *openFailStore) Open(name string) (store.File, error) {
	if name == s.deny {
		return nil, errDenied
	}
	return s.Store.Open(name)
}

func TestRefreshSkipsUnreadableFile(t *testing.T) {
	path := t.TempDir()
	books, err := store.OpenDir(path)
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	defer books.Close()
	cache, err := books.Sub(".indexes")
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	writeFile(t, path, "good.txt", []byte("fine\n"))
	writeFile(t, path, "bad.txt", []byte("unreadable\n"))

	failing := &openFailStore{Store: books, deny: "bad.txt"}
	mgr := pageindex.NewManager(failing, cache, pageindex.Layout{LinesPerPage: 1, CharsPerLine: 40}, nil)
	c := New(failing, mgr, nil)

	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if c.Len() != 1 || c.At(0).Name != "good.txt" {
		t.Fatalf("books = %+v", c.Books())
	}
}
