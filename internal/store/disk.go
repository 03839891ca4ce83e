package store

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
)

const readBufferSize = 64 * 1024

// Dir is a Store backed by a directory on the local filesystem. All access
// is sandboxed beneath the root path.
type Dir struct {
	root *os.Root
}

// OpenDir opens a directory as a Store.
func OpenDir(path string) (*Dir, error) {
	root, err := os.OpenRoot(path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	return &Dir{root: root}, nil
}

// Close releases the underlying directory handle.
func (d *Dir) Close() error {
	return d.root.Close()
}

func (d *Dir) Open(name string) (File, error) {
	f, err := d.root.Open(name)
	if err != nil {
		return nil, mapNotFound(name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &diskFile{
		f:    f,
		r:    bufio.NewReaderSize(f, readBufferSize),
		size: info.Size(),
	}, nil
}

func (d *Dir) OpenRW(name string) (PatchFile, error) {
	f, err := d.root.OpenFile(name, os.O_RDWR, 0o644)
	if err != nil {
		return nil, mapNotFound(name, err)
	}
	return f, nil
}

func (d *Dir) ReadFile(name string) ([]byte, error) {
	f, err := d.root.Open(name)
	if err != nil {
		return nil, mapNotFound(name, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// WriteFile writes to a temporary sibling and renames it over name, so a
// failed write never leaves a truncated file behind.
func (d *Dir) WriteFile(name string, data []byte) error {
	tmp := name + ".tmp"
	f, err := d.root.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		d.root.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		d.root.Remove(tmp)
		return err
	}
	return d.root.Rename(tmp, name)
}

func (d *Dir) Exists(name string) bool {
	_, err := d.root.Stat(name)
	return err == nil
}

func (d *Dir) Remove(name string) error {
	if err := d.root.Remove(name); err != nil {
		return mapNotFound(name, err)
	}
	return nil
}

func (d *Dir) List() ([]Entry, error) {
	dirents, err := fs.ReadDir(d.root.FS(), ".")
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, de := range dirents {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		entries = append(entries, Entry{Name: de.Name(), Size: info.Size()})
	}
	return entries, nil
}

func (d *Dir) Sub(dir string) (Store, error) {
	if err := d.root.Mkdir(dir, 0o755); err != nil && !os.IsExist(err) {
		return nil, err
	}
	root, err := d.root.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	return &Dir{root: root}, nil
}

func mapNotFound(name string, err error) error {
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return err
}

// diskFile layers a read buffer over an os.File while tracking the logical
// stream position itself, since the kernel offset runs ahead of the buffer.
type diskFile struct {
	f    *os.File
	r    *bufio.Reader
	pos  int64
	size int64
}

func (df *diskFile) Read(p []byte) (int, error) {
	n, err := df.r.Read(p)
	df.pos += int64(n)
	return n, err
}

func (df *diskFile) ReadByte() (byte, error) {
	b, err := df.r.ReadByte()
	if err == nil {
		df.pos++
	}
	return b, err
}

func (df *diskFile) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = df.pos + offset
	case io.SeekEnd:
		target = df.size + offset
	default:
		return 0, fmt.Errorf("seek %s: invalid whence %d", df.f.Name(), whence)
	}
	if _, err := df.f.Seek(target, io.SeekStart); err != nil {
		return 0, err
	}
	df.r.Reset(df.f)
	df.pos = target
	return target, nil
}

func (df *diskFile) Position() int64 { return df.pos }

func (df *diskFile) Size() int64 { return df.size }

func (df *diskFile) Close() error { return df.f.Close() }
