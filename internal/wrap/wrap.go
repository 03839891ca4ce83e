// Package wrap implements the word-wrap policy used to lay single-byte text
// out into fixed-width display lines. Breaks prefer word and hyphen
// boundaries; a line with no boundary inside the width budget is broken
// mid-word so progress is always made.
package wrap

// Break describes the result of resolving one display line: the offset the
// line ends at (exclusive) and the offset the next line starts from.
type Break struct {
	LineEnd   int
	NextStart int
}

// FindLineBreak finds the best place to end the line starting at lineStart,
// given a budget of maxChars printable characters. Line feeds and carriage
// returns are hard breaks; a paired CR/LF (in either order) collapses into a
// single terminator. Only bytes >= 0x20 count toward the budget; tabs and
// other control characters do not.
//
// The function is pure: it holds no state between calls, and calling it
// repeatedly from NextStart walks the buffer without ever stalling, because
// a forced mid-word break always ends strictly after lineStart.
func FindLineBreak(buf []byte, lineStart, maxChars int) Break {
	if lineStart >= len(buf) {
		return Break{LineEnd: lineStart, NextStart: lineStart}
	}

	charCount := 0
	lastBreak := -1 // most recent soft break opportunity
	inWord := false

	for i := lineStart; i < len(buf); i++ {
		c := buf[i]

		if c == '\n' {
			next := i + 1
			if next < len(buf) && buf[next] == '\r' {
				next++
			}
			return Break{LineEnd: i, NextStart: next}
		}
		if c == '\r' {
			next := i + 1
			if next < len(buf) && buf[next] == '\n' {
				next++
			}
			return Break{LineEnd: i, NextStart: next}
		}

		switch {
		case c == ' ' || c == '\t':
			if inWord {
				// End of a word: breaking here drops the whitespace run.
				lastBreak = i
				inWord = false
			}
			if c == ' ' {
				charCount++
			}
		case c >= 0x20:
			if c == '-' {
				if inWord {
					// Break after the hyphen, never before it.
					lastBreak = i + 1
				}
			} else {
				inWord = true
			}
			charCount++
		default:
			// Other control characters are dropped by the renderer and
			// occupy no width.
			continue
		}

		if charCount >= maxChars {
			if lastBreak > lineStart {
				return Break{LineEnd: lastBreak, NextStart: skipBlanks(buf, lastBreak)}
			}
			// One unbroken run wider than the line: cut it mid-word and
			// resume at the cut so no character is skipped.
			return Break{LineEnd: i + 1, NextStart: i + 1}
		}
	}

	return Break{LineEnd: len(buf), NextStart: len(buf)}
}

// LineText extracts the renderable text of a resolved line, dropping
// non-printable bytes other than tab.
func LineText(buf []byte, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(buf) {
		end = len(buf)
	}
	if start >= end {
		return ""
	}
	out := make([]byte, 0, end-start)
	for _, c := range buf[start:end] {
		if c >= 0x20 || c == '\t' {
			out = append(out, c)
		}
	}
	return string(out)
}

func skipBlanks(buf []byte, pos int) int {
	for pos < len(buf) && (buf[pos] == ' ' || buf[pos] == '\t') {
		pos++
	}
	return pos
}
