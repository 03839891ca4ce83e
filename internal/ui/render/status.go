package render

import "fmt"

// FormatReadingStatus builds the reading-view status line: page counter,
// percent through the book and the key hints. page is zero-based.
func FormatReadingStatus(page, total int) string {
	percent := 100
	if total > 1 {
		percent = page * 100 / (total - 1)
	}
	return fmt.Sprintf("%d/%d  %d%%  W:Prev S:Next  Q:Exit", page+1, total, percent)
}

// FormatListStatus builds the file-list status line.
func FormatListStatus(count int) string {
	noun := "files"
	if count == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s  W/S:Move  Enter:Open  Q:Quit", count, noun)
}
