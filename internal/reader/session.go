// Package reader drives a single open book. A session resolves the page
// table through the index manager, reads page text on demand and carries
// the current page so the position survives close and reopen.
package reader

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/inklet-dev/inklet/internal/pageindex"
	"github.com/inklet-dev/inklet/internal/store"
	"github.com/inklet-dev/inklet/internal/wrap"
)

// pageBufFactor sizes the page read buffer relative to the layout. Two
// bytes per cell absorbs line breaks and dropped control bytes without
// reading far into the next page.
const pageBufFactor = 2

// Session is a book opened for reading. The zero page table invariant
// holds whenever a file is open: rec has at least one offset and page
// indexes into rec.Offsets. Sessions are not safe for concurrent use.
type Session struct {
	books store.Store
	mgr   *pageindex.Manager
	log   *logrus.Logger

	file store.File
	rec  *pageindex.Record
	page int
}

func NewSession(books store.Store, mgr *pageindex.Manager, log *logrus.Logger) *Session {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Session{books: books, mgr: mgr, log: log}
}

// Open loads or builds the page index for name and positions the session
// at the saved resume page, clamped to the table. A previously open book
// is closed first, flushing its position. When the index is partial the
// remainder of the file is indexed before Open returns; progress, if not
// nil, receives coarse percentage updates while that runs.
func (s *Session) Open(name string, progress pageindex.ProgressFunc) error {
	if err := s.Close(); err != nil {
		s.log.Warnf("reader: closing previous book: %v", err)
	}

	rec, err := s.mgr.LoadOrBuild(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}

	f, err := s.books.Open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}

	if !rec.Complete {
		if err := s.mgr.ContinueIndexing(rec, f, progress); err != nil {
			f.Close()
			return fmt.Errorf("indexing %s: %w", name, err)
		}
	}

	s.file = f
	s.rec = rec
	s.page = rec.ClampedResume()
	s.log.Infof("reader: opened %s at page %d/%d", name, s.page+1, len(rec.Offsets))
	return nil
}

// IsOpen reports whether a book is currently open.
func (s *Session) IsOpen() bool { return s.file != nil }

// Name returns the open book's file name, or "" when nothing is open.
func (s *Session) Name() string {
	if s.rec == nil {
		return ""
	}
	return s.rec.Name
}

// Page is the zero-based current page.
func (s *Session) Page() int { return s.page }

func (s *Session) PageCount() int {
	if s.rec == nil {
		return 0
	}
	return len(s.rec.Offsets)
}

// Percent is how far through the book the current page sits, for the
// status bar. A single-page book is always 100.
func (s *Session) Percent() int {
	total := s.PageCount()
	if total <= 1 {
		return 100
	}
	return s.page * 100 / (total - 1)
}

// Next advances to the following page and reports whether it moved.
// At the last page it is a no-op.
func (s *Session) Next() bool {
	if s.file == nil || s.page >= len(s.rec.Offsets)-1 {
		return false
	}
	s.page++
	return true
}

// Prev steps back one page and reports whether it moved. At the first
// page it is a no-op.
func (s *Session) Prev() bool {
	if s.file == nil || s.page <= 0 {
		return false
	}
	s.page--
	return true
}

// PageText returns the raw text of the current page: up to
// LinesPerPage*CharsPerLine*pageBufFactor bytes from the page offset,
// with control bytes other than line breaks dropped. A short final page
// simply yields fewer bytes.
func (s *Session) PageText() (string, error) {
	buf, err := s.pageBuffer()
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// PageLines renders the current page through the line-break resolver,
// returning at most LinesPerPage display lines.
func (s *Session) PageLines() ([]string, error) {
	buf, err := s.pageBuffer()
	if err != nil {
		return nil, err
	}
	layout := s.mgr.Layout()
	lines := make([]string, 0, layout.LinesPerPage)
	pos := 0
	for pos < len(buf) && len(lines) < layout.LinesPerPage {
		br := wrap.FindLineBreak(buf, pos, layout.CharsPerLine)
		lines = append(lines, wrap.LineText(buf, pos, br.LineEnd))
		if br.NextStart <= pos {
			break
		}
		pos = br.NextStart
	}
	return lines, nil
}

func (s *Session) pageBuffer() ([]byte, error) {
	if s.file == nil {
		return nil, fmt.Errorf("reader: no open book")
	}
	layout := s.mgr.Layout()
	limit := layout.LinesPerPage * layout.CharsPerLine * pageBufFactor

	off := int64(s.rec.Offsets[s.page])
	if _, err := s.file.Seek(off, io.SeekStart); err != nil {
		return nil, fmt.Errorf("reader: seek page %d: %w", s.page, err)
	}

	buf := make([]byte, 0, limit)
	for len(buf) < limit {
		b, err := s.file.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reader: read page %d: %w", s.page, err)
		}
		if b >= 0x20 || b == '\n' || b == '\r' {
			buf = append(buf, b)
		}
	}
	return buf, nil
}

// Close flushes the current page as the resume position, releases the
// file and drops the in-memory page table. Closing an already closed
// session is a no-op. A failed resume save is returned but the file is
// released regardless. Callers wanting the final record must take it
// from Record before closing; SaveResumePage updates it in place.
func (s *Session) Close() error {
	if s.file == nil {
		return nil
	}

	saveErr := s.mgr.SaveResumePage(s.rec, s.page)
	if saveErr != nil {
		s.log.Warnf("reader: saving position for %s: %v", s.rec.Name, saveErr)
	}

	closeErr := s.file.Close()
	s.log.Infof("reader: closed %s at page %d", s.rec.Name, s.page+1)
	s.file = nil
	s.rec = nil
	s.page = 0

	if saveErr != nil {
		return saveErr
	}
	return closeErr
}

// Record exposes the open session's index record. Nil when no book is
// open.
func (s *Session) Record() *pageindex.Record { return s.rec }
