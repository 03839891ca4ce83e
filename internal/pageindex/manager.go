package pageindex

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inklet-dev/inklet/internal/store"
)

// PreindexPages bounds how many pages are indexed at file discovery time.
// Files with more pages stay partially indexed until first opened.
const PreindexPages = 100

const cacheExt = ".idx"

// Manager owns the lifecycle of index records: loading cached ones,
// detecting staleness, bounded pre-indexing, resumed full indexing, and
// resume-page persistence. Invalidation decisions live here, never in the
// cache store.
type Manager struct {
	books  store.Store
	cache  store.Store
	layout Layout
	log    *logrus.Logger
}

// NewManager returns a manager reading books from books and keeping index
// records in cache.
func NewManager(books, cache store.Store, layout Layout, log *logrus.Logger) *Manager {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Manager{books: books, cache: cache, layout: layout, log: log}
}

// Layout returns the layout policy the manager indexes with.
func (m *Manager) Layout() Layout { return m.layout }

// CacheName returns the cache entry name for a book file.
func CacheName(name string) string { return name + cacheExt }

// LoadOrBuild returns the index record for name: the cached one when it is
// still valid for the live file, otherwise a freshly built bounded
// pre-index. A cache entry disagreeing with the live file size is stale and
// is deleted before rebuilding.
func (m *Manager) LoadOrBuild(name string) (*Record, error) {
	f, err := m.books.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	size := f.Size()
	if size > math.MaxUint32 {
		return nil, fmt.Errorf("%s (%d bytes): %w", name, size, ErrFileTooLarge)
	}

	if rec := m.loadCached(name, uint32(size)); rec != nil {
		return rec, nil
	}
	return m.build(name, f)
}

func (m *Manager) loadCached(name string, liveSize uint32) *Record {
	entry := CacheName(name)
	data, err := m.cache.ReadFile(entry)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.log.Warnf("index cache %s unreadable: %v", entry, err)
		}
		return nil
	}

	rec, err := Decode(data)
	if err != nil {
		// Corrupt entries are deleted rather than left behind.
		m.log.Warnf("index cache %s corrupt, rebuilding: %v", entry, err)
		if rerr := m.cache.Remove(entry); rerr != nil {
			m.log.Warnf("remove corrupt index %s: %v", entry, rerr)
		}
		return nil
	}

	if rec.FileSize != liveSize {
		m.log.Infof("index for %s stale (indexed %d bytes, file is %d)", name, rec.FileSize, liveSize)
		if rerr := m.cache.Remove(entry); rerr != nil {
			m.log.Warnf("remove stale index %s: %v", entry, rerr)
		}
		return nil
	}

	rec.Name = name
	return rec
}

func (m *Manager) build(name string, f store.File) (*Record, error) {
	rec := &Record{
		Name:     name,
		FileSize: uint32(f.Size()),
		// The scanner only finds boundaries after the start, so page 0 is
		// seeded here.
		Offsets: []uint32{0},
	}

	found, eof, err := Scan(f, m.layout, PreindexPages-1, nil)
	if err != nil {
		return nil, fmt.Errorf("pre-index %s: %w", name, err)
	}
	rec.Offsets = append(rec.Offsets, found...)
	rec.Complete = eof

	m.persist(rec)
	m.log.Infof("pre-indexed %s: %d pages (complete=%v)", name, len(rec.Offsets), rec.Complete)
	return rec, nil
}

// ContinueIndexing finishes a partial record by scanning from its last known
// offset to end of file, then persists the full table. On a read error
// nothing is appended or persisted; the prior cached record stays
// authoritative.
func (m *Manager) ContinueIndexing(rec *Record, f store.File, progress ProgressFunc) error {
	if rec.Complete {
		return nil
	}

	last := int64(0)
	if len(rec.Offsets) > 0 {
		last = int64(rec.Offsets[len(rec.Offsets)-1])
	}
	if _, err := f.Seek(last, io.SeekStart); err != nil {
		return fmt.Errorf("index %s: %w", rec.Name, err)
	}

	found, _, err := Scan(f, m.layout, 0, progress)
	if err != nil {
		return fmt.Errorf("index %s: %w", rec.Name, err)
	}

	rec.Offsets = append(rec.Offsets, found...)
	rec.Complete = true
	m.persist(rec)
	m.log.Infof("indexed %s: %d pages total", rec.Name, len(rec.Offsets))
	return nil
}

// SaveResumePage records the last-read page. Records in the current layout
// are patched in place; a legacy record is rewritten whole since it has no
// resume field. A missing cache entry is reported so the caller can carry on
// without persisted resume state.
func (m *Manager) SaveResumePage(rec *Record, page int) error {
	if page < 0 {
		page = 0
	}
	rec.ResumePage = uint32(page)

	entry := CacheName(rec.Name)
	pf, err := m.cache.OpenRW(entry)
	if err != nil {
		return fmt.Errorf("save resume for %s: %w", rec.Name, err)
	}
	defer pf.Close()

	version, err := ReadVersion(pf)
	if err != nil {
		return fmt.Errorf("save resume for %s: %w", rec.Name, err)
	}
	if version == formatVersion {
		if err := PatchResumePage(pf, rec.ResumePage); err != nil {
			return fmt.Errorf("save resume for %s: %w", rec.Name, err)
		}
		return nil
	}

	// Legacy layout: upgrade by rewriting the in-memory record whole.
	if err := m.cache.WriteFile(entry, Encode(rec)); err != nil {
		return fmt.Errorf("save resume for %s: %w", rec.Name, err)
	}
	return nil
}

// persist writes rec to the cache. Failing to cache is logged and tolerated:
// the reader still works, it just re-indexes next time.
func (m *Manager) persist(rec *Record) {
	if err := m.cache.WriteFile(CacheName(rec.Name), Encode(rec)); err != nil {
		m.log.Warnf("persist index for %s: %v", rec.Name, err)
	}
}
