// Package store abstracts the flat, byte-oriented storage the reader works
// against: the books directory and the index cache directory beneath it.
// The core never touches the filesystem directly, so tests can point it at a
// temporary directory and a device port can swap in removable media.
package store

import (
	"errors"
	"io"
)

// ErrNotFound reports a missing file. Callers treat it as "build fresh"
// rather than as a failure.
var ErrNotFound = errors.New("file not found")

// IndexDirName is the directory under the books root that holds the page
// index cache.
const IndexDirName = ".indexes"

// File is a sequentially readable, seekable byte stream with explicit
// position accounting. Position stays correct across buffered reads.
type File interface {
	io.Reader
	io.ByteReader
	io.Closer
	Seek(offset int64, whence int) (int64, error)
	Position() int64
	Size() int64
}

// PatchFile supports reading and overwriting bytes at fixed offsets, used
// for the resume-page fast path that patches a record without rewriting it.
type PatchFile interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
}

// Entry is one name in a store listing.
type Entry struct {
	Name string
	Size int64
}

// Store is a flat namespace of files.
type Store interface {
	// Open opens name for sequential, position-tracked reading.
	Open(name string) (File, error)
	// OpenRW opens an existing file for in-place patching.
	OpenRW(name string) (PatchFile, error)
	// ReadFile returns the full contents of name.
	ReadFile(name string) ([]byte, error)
	// WriteFile replaces name with data, never leaving a half-written file
	// behind on error.
	WriteFile(name string, data []byte) error
	Exists(name string) bool
	Remove(name string) error
	// List enumerates regular files in the store. No extension filtering
	// happens here; that is the caller's concern.
	List() ([]Entry, error)
	// Sub returns a store scoped to a sub-directory, creating it on demand.
	Sub(dir string) (Store, error)
}
