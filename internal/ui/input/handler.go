// Package input converts tcell events into application actions based on
// the current view mode.
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Mode selects the active key map.
type Mode int

const (
	ModeList Mode = iota
	ModeReading
)

// Action is what a keypress asks the application to do.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionMoveUp
	ActionMoveDown
	ActionOpen
	ActionPrevPage
	ActionNextPage
	ActionCloseBook
	ActionRedraw
)

// Handler maps events to actions. The application owns the mode and
// switches it when a book opens or closes.
type Handler struct {
	mode Mode
}

func NewHandler() *Handler {
	return &Handler{mode: ModeList}
}

func (h *Handler) Mode() Mode        { return h.mode }
func (h *Handler) SetMode(mode Mode) { h.mode = mode }

// Map translates one tcell event. Events with no binding in the current
// mode yield ActionNone.
func (h *Handler) Map(ev tcell.Event) Action {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return h.mapKey(ev)
	case *tcell.EventResize:
		return ActionRedraw
	default:
		return ActionNone
	}
}

func (h *Handler) mapKey(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyEscape:
		if h.mode == ModeReading {
			return ActionCloseBook
		}
		return ActionQuit
	case tcell.KeyUp:
		return h.up()
	case tcell.KeyDown:
		return h.down()
	case tcell.KeyEnter:
		if h.mode == ModeList {
			return ActionOpen
		}
		return ActionNextPage
	case tcell.KeyRune:
		return h.mapRune(ev.Rune())
	default:
		return ActionNone
	}
}

// mapRune follows the device's QWERTY bindings: w/s move, q backs out.
// The vi pair k/j is accepted as well.
func (h *Handler) mapRune(r rune) Action {
	switch r {
	case 'w', 'W', 'k':
		return h.up()
	case 's', 'S', 'j':
		return h.down()
	case ' ':
		if h.mode == ModeReading {
			return ActionNextPage
		}
		return ActionOpen
	case 'q', 'Q':
		if h.mode == ModeReading {
			return ActionCloseBook
		}
		return ActionQuit
	default:
		return ActionNone
	}
}

func (h *Handler) up() Action {
	if h.mode == ModeReading {
		return ActionPrevPage
	}
	return ActionMoveUp
}

func (h *Handler) down() Action {
	if h.mode == ModeReading {
		return ActionNextPage
	}
	return ActionMoveDown
}
