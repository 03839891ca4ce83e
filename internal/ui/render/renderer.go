package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	textutil "github.com/inklet-dev/inklet/internal/textutil"
)

// ListItem is one row of the file-list view.
type ListItem struct {
	Name    string
	Pages   int
	Partial bool
	Resume  bool
}

// Renderer handles all UI rendering.
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme
}

// NewRenderer creates a new renderer.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// RenderList draws the file list with a selection bar. The list scrolls
// to keep the selected row visible.
func (r *Renderer) RenderList(items []ListItem, selected int) {
	r.screen.Clear()
	w, h := r.screen.Size()

	title := "inklet"
	r.drawTextLine(0, 0, w, title, tcell.StyleDefault.Bold(true))

	rows := h - 2
	if rows < 1 {
		rows = 1
	}
	top := 0
	if selected >= rows {
		top = selected - rows + 1
	}

	base := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for row := 0; row < rows && top+row < len(items); row++ {
		item := items[top+row]
		style := base
		if top+row == selected {
			style = tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
		}

		label := item.Name
		switch {
		case item.Resume:
			label += "  *"
		case item.Partial:
			label += fmt.Sprintf("  (%d+ pages)", item.Pages)
		}
		label = textutil.TruncateToWidth(label, w)
		x := r.drawTextLine(0, row+1, w, label, style)
		if top+row == selected {
			for ; x < w; x++ {
				r.screen.SetContent(x, row+1, ' ', nil, style)
			}
		}
	}

	if len(items) == 0 {
		r.drawTextLine(0, 1, w, "no text files found", tcell.StyleDefault.Foreground(r.theme.NoticeFg))
	}

	r.drawStatusLine(FormatListStatus(len(items)), w, h)
	r.screen.Show()
}

// RenderReading draws one page of text with the status bar beneath it.
// page is zero-based.
func (r *Renderer) RenderReading(lines []string, page, total int) {
	r.screen.Clear()
	w, h := r.screen.Size()

	style := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for i, line := range lines {
		if i >= h-1 {
			break
		}
		line = textutil.ExpandTabs(line, textutil.DefaultTabWidth)
		r.drawTextLine(0, i, w, textutil.TruncateToWidth(line, w), style)
	}

	r.drawStatusLine(FormatReadingStatus(page, total), w, h)
	r.screen.Show()
}

// RenderIndexing draws the blocking notice shown while the rest of a
// book's page index is built.
func (r *Renderer) RenderIndexing(name string, percent int) {
	r.screen.Clear()
	w, h := r.screen.Size()

	y := h / 2
	notice := fmt.Sprintf("Indexing %s", textutil.TruncateToWidth(name, w-20))
	if percent > 0 {
		notice = fmt.Sprintf("%s  %d%%", notice, percent)
	}
	x := (w - textutil.DisplayWidth(notice)) / 2
	if x < 0 {
		x = 0
	}
	r.drawTextLine(x, y, w, notice, tcell.StyleDefault.Foreground(r.theme.NoticeFg))
	r.screen.Show()
}

// RenderError draws a full-screen error notice.
func (r *Renderer) RenderError(msg string) {
	r.screen.Clear()
	w, h := r.screen.Size()
	r.drawTextLine(0, h/2, w, textutil.TruncateToWidth(msg, w), tcell.StyleDefault.Foreground(r.theme.NoticeFg))
	r.drawStatusLine("Q:Back", w, h)
	r.screen.Show()
}

func (r *Renderer) drawStatusLine(text string, w, h int) {
	if h < 1 {
		return
	}
	style := tcell.StyleDefault.Background(r.theme.StatusBg).Foreground(r.theme.StatusFg).Reverse(true)
	x := r.drawTextLine(0, h-1, w, textutil.TruncateToWidth(text, w), style)
	for ; x < w; x++ {
		r.screen.SetContent(x, h-1, ' ', nil, style)
	}
}

// drawTextLine writes text at (x, y) clipped to maxWidth columns and
// returns the x position after the last cell written.
func (r *Renderer) drawTextLine(x, y, maxWidth int, text string, style tcell.Style) int {
	col := x
	for _, ru := range text {
		rw := textutil.DisplayWidth(string(ru))
		if col+rw > x+maxWidth {
			break
		}
		r.screen.SetContent(col, y, ru, nil, style)
		col += rw
	}
	return col
}
