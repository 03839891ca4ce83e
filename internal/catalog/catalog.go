// Package catalog enumerates the books directory and pre-indexes every
// paged-text file found there, keeping one index record per book in
// memory for the file list.
package catalog

import (
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inklet-dev/inklet/internal/pageindex"
	"github.com/inklet-dev/inklet/internal/store"
	"github.com/inklet-dev/inklet/internal/textutil"
)

// Book is one catalog entry with its pre-indexed page table.
type Book struct {
	Name string
	Size int64
	Rec  *pageindex.Record
}

// Pages is the number of pages indexed so far. Partial until the book is
// first opened.
func (b *Book) Pages() int { return len(b.Rec.Offsets) }

// HasResume reports whether the book carries a usable saved position.
func (b *Book) HasResume() bool { return b.Rec.ClampedResume() > 0 }

// Catalog scans a book store and holds the resulting entries. Not safe
// for concurrent use; the event loop owns it.
type Catalog struct {
	books store.Store
	mgr   *pageindex.Manager
	log   *logrus.Logger
	items []*Book
}

func New(books store.Store, mgr *pageindex.Manager, log *logrus.Logger) *Catalog {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Catalog{books: books, mgr: mgr, log: log}
}

// Refresh rescans the books directory and pre-indexes every text file,
// replacing the current entries. Files that fail to sniff or index are
// skipped with a logged warning so one bad file cannot take down the
// list. Only listing the directory itself is fatal.
func (c *Catalog) Refresh() error {
	entries, err := c.books.List()
	if err != nil {
		return err
	}

	items := make([]*Book, 0, len(entries))
	for _, entry := range entries {
		if !wantFile(entry.Name) {
			continue
		}

		enc, err := c.sniff(entry.Name)
		if err != nil {
			c.log.Warnf("catalog: sniffing %s: %v", entry.Name, err)
			continue
		}
		if enc.IsUTF16() {
			c.log.Infof("catalog: skipping %s: %s not supported", entry.Name, enc)
			continue
		}

		rec, err := c.mgr.LoadOrBuild(entry.Name)
		if err != nil {
			c.log.Warnf("catalog: indexing %s: %v", entry.Name, err)
			continue
		}
		items = append(items, &Book{Name: entry.Name, Size: entry.Size, Rec: rec})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	c.items = items
	c.log.Infof("catalog: %d text files", len(items))
	return nil
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.items) }

// At returns the i-th entry in name order. Panics when out of range, the
// same contract as slice indexing.
func (c *Catalog) At(i int) *Book { return c.items[i] }

// Books returns all entries in name order. The slice is shared, not
// copied.
func (c *Catalog) Books() []*Book { return c.items }

// Update replaces the stored record for rec's book, keeping the list's
// resume markers and page counts current after a reading session ends.
// Unknown names are ignored.
func (c *Catalog) Update(rec *pageindex.Record) {
	if rec == nil {
		return
	}
	for _, b := range c.items {
		if b.Name == rec.Name {
			b.Rec = rec
			return
		}
	}
}

// wantFile applies the listing filter: .txt files only, no dotfiles.
// AppleDouble "._" companions fall under the dotfile rule.
func wantFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, ".TXT")
}

// sniff reads the first bytes of a file and classifies its encoding.
func (c *Catalog) sniff(name string) (textutil.Encoding, error) {
	f, err := c.books.Open(name)
	if err != nil {
		return textutil.EncodingUnknown, err
	}
	defer f.Close()

	sample := make([]byte, 3)
	n, err := io.ReadFull(f, sample)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return textutil.EncodingUnknown, err
	}
	return textutil.DetectEncoding(sample[:n]), nil
}
