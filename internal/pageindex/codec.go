// Binary codec for persisted index records.
//
// Current layout, little-endian:
//
//	version:u8 | fileSize:u32 | pageCount:u32 | complete:u8 | resumePage:u32 | offsets:u32[pageCount]
//
// A blob whose version byte does not match is re-read as the legacy layout,
// which has no version byte and no resume page:
//
//	fileSize:u32 | pageCount:u32 | complete:u8 | offsets:u32[pageCount]
//
// These are the only two accepted shapes; there is no version ladder.
package pageindex

import (
	"encoding/binary"
	"io"
)

const (
	formatVersion = 2

	headerSize       = 14
	legacyHeaderSize = 9

	// resumePageOffset is the fixed byte offset of the resume-page field,
	// relied on by the in-place patch fast path.
	resumePageOffset = 1 + 4 + 4 + 1
)

// Encode serialises rec in the current layout.
func Encode(rec *Record) []byte {
	buf := make([]byte, headerSize+4*len(rec.Offsets))
	buf[0] = formatVersion
	binary.LittleEndian.PutUint32(buf[1:5], rec.FileSize)
	binary.LittleEndian.PutUint32(buf[5:9], uint32(len(rec.Offsets)))
	if rec.Complete {
		buf[9] = 1
	}
	binary.LittleEndian.PutUint32(buf[10:14], rec.ResumePage)
	for i, off := range rec.Offsets {
		binary.LittleEndian.PutUint32(buf[headerSize+4*i:], off)
	}
	return buf
}

// Decode parses a cache blob in either accepted layout. The record's Name
// is left empty; the caller keys records by filename.
func Decode(data []byte) (*Record, error) {
	if len(data) == 0 {
		return nil, ErrTruncated
	}
	if data[0] == formatVersion {
		return decodeCurrent(data)
	}
	return decodeLegacy(data)
}

func decodeCurrent(data []byte) (*Record, error) {
	if len(data) < headerSize {
		return nil, ErrTruncated
	}
	count := binary.LittleEndian.Uint32(data[5:9])
	if int64(len(data)) < headerSize+4*int64(count) {
		return nil, ErrTruncated
	}
	rec := &Record{
		FileSize:   binary.LittleEndian.Uint32(data[1:5]),
		Complete:   data[9] == 1,
		ResumePage: binary.LittleEndian.Uint32(data[10:14]),
		Offsets:    decodeOffsets(data[headerSize:], count),
	}
	return rec, nil
}

// decodeLegacy accepts the version-less layout only when the blob is exactly
// self-consistent: the promised table fills the remaining bytes and the
// offsets form a valid ascending table starting at zero. Anything else is an
// unknown format.
func decodeLegacy(data []byte) (*Record, error) {
	if len(data) < legacyHeaderSize {
		return nil, ErrTruncated
	}
	count := binary.LittleEndian.Uint32(data[4:8])
	if int64(len(data)) != legacyHeaderSize+4*int64(count) {
		return nil, ErrUnsupportedVersion
	}
	offsets := decodeOffsets(data[legacyHeaderSize:], count)
	if len(offsets) > 0 && offsets[0] != 0 {
		return nil, ErrUnsupportedVersion
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] <= offsets[i-1] {
			return nil, ErrUnsupportedVersion
		}
	}
	rec := &Record{
		FileSize: binary.LittleEndian.Uint32(data[0:4]),
		Complete: data[8] == 1,
		Offsets:  offsets,
	}
	return rec, nil
}

func decodeOffsets(data []byte, count uint32) []uint32 {
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(data[4*i:])
	}
	return offsets
}

// PatchResumePage overwrites only the resume-page field of an encoded
// record, leaving the offset table untouched. Valid only for records in the
// current layout; the caller checks the version first.
func PatchResumePage(w io.WriterAt, page uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], page)
	_, err := w.WriteAt(buf[:], resumePageOffset)
	return err
}

// ReadVersion returns the version byte of an encoded record.
func ReadVersion(r io.ReaderAt) (byte, error) {
	var buf [1]byte
	if _, err := r.ReadAt(buf[:], 0); err != nil {
		return 0, err
	}
	return buf[0], nil
}
