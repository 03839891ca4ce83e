package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	ResumeFg    tcell.Color
	StatusBg    tcell.Color
	StatusFg    tcell.Color
	NoticeFg    tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		ResumeFg:    tcell.Color44,
		StatusBg:    tcell.ColorDefault,
		StatusFg:    tcell.ColorDefault,
		NoticeFg:    tcell.ColorLightSlateGray,
	}
}
