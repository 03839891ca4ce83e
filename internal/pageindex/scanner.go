package pageindex

import (
	"io"

	"github.com/inklet-dev/inklet/internal/store"
)

// Scan consumes f sequentially from its current position and returns the
// byte offsets of the page starts it finds, plus whether it reached end of
// file. When limit is positive the scan stops after that many new offsets
// and reports false; limit <= 0 scans to the end.
//
// Line accounting is a deliberately cheap approximation of the renderer's
// word wrap: a line ends at each line feed, or whenever CharsPerLine
// printable bytes (or tabs) accumulate, with no regard for word boundaries.
// Page boundaries placed this way can disagree with rendered wrapping by a
// line or so; that is accepted.
//
// The scanner carries no state between runs. Resuming a partial index is
// the caller's job: position f at the last known offset and call again.
// On a read error no offsets are returned, so a prior persisted index is
// never replaced with a half-built table.
func Scan(f store.File, layout Layout, limit int, progress ProgressFunc) ([]uint32, bool, error) {
	var offsets []uint32
	lineCount := 0
	charCount := 0

	size := f.Size()
	lastPercent := 0
	if size > 0 {
		lastPercent = int(f.Position() * 100 / size)
	}

	for {
		b, err := f.ReadByte()
		if err == io.EOF {
			return offsets, true, nil
		}
		if err != nil {
			return nil, false, err
		}

		if progress != nil && size > 0 {
			if pct := int(f.Position() * 100 / size); pct >= lastPercent+10 {
				progress(pct)
				lastPercent = pct
			}
		}

		switch {
		case b == '\n':
			lineCount++
			charCount = 0
		case b >= 0x20 || b == '\t':
			charCount++
			if charCount >= layout.CharsPerLine {
				charCount = 0
				lineCount++
			}
		default:
			// Non-printable control bytes occupy no line width.
			continue
		}

		if lineCount >= layout.LinesPerPage {
			// The next page starts at the byte after the one just read.
			offsets = append(offsets, uint32(f.Position()))
			lineCount = 0
			if limit > 0 && len(offsets) >= limit {
				return offsets, false, nil
			}
		}
	}
}
