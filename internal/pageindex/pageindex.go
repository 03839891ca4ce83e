// Package pageindex computes and persists the page boundaries of text files.
//
// Jumping to an arbitrary page of a large file needs the byte offset every
// page starts at. Scanning a whole book on each open is too slow on the
// devices this targets, so boundaries are computed once by replaying a fixed
// layout policy over the file bytes and cached in a compact binary record
// next to the book. A bounded prefix is indexed at discovery time; the rest
// is filled in lazily the first time the book is opened.
package pageindex

import "errors"

// Layout fixes how text is chunked into display lines and pages. It is
// supplied once per device profile and never changes while an index is live;
// cached offsets are only valid for the layout that produced them.
type Layout struct {
	LinesPerPage int
	CharsPerLine int
}

// Record is the index of one source file. Name keys the cache entry and is
// not part of the persisted blob.
type Record struct {
	Name       string
	FileSize   uint32
	Offsets    []uint32
	Complete   bool
	ResumePage uint32
}

// ClampedResume returns the resume position as a usable page number: the
// stored value when it addresses a known page, page 0 otherwise. A partially
// indexed record may hold fewer offsets than the resume page expects.
func (rec *Record) ClampedResume() int {
	if rec.ResumePage == 0 || int(rec.ResumePage) >= len(rec.Offsets) {
		return 0
	}
	return int(rec.ResumePage)
}

// ProgressFunc receives coarse completion percentages during a long scan so
// the host can refresh an "indexing" notice. It is called at increments of
// ten points or more, never from more than one goroutine.
type ProgressFunc func(percent int)

var (
	// ErrTruncated reports a cache blob shorter than its header promises.
	ErrTruncated = errors.New("index record truncated")
	// ErrUnsupportedVersion reports a cache blob in neither the current nor
	// the legacy layout.
	ErrUnsupportedVersion = errors.New("unsupported index version")
	// ErrFileTooLarge reports a source file beyond the 32-bit offset range
	// of the persisted format.
	ErrFileTooLarge = errors.New("file too large to index")
)
