package app

import (
	"github.com/gdamore/tcell/v2"

	inputui "github.com/inklet-dev/inklet/internal/ui/input"
)

// Run drives the event loop until the user quits. It owns the screen
// and finalizes it on the way out.
func (app *Application) Run() error {
	defer app.screen.Fini()

	app.redraw()

	events := make(chan tcell.Event, 10)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for ev := range events {
		if !app.handleEvent(ev) {
			break
		}
	}
	return app.Close()
}

// handleEvent applies one event and reports whether the loop continues.
func (app *Application) handleEvent(ev tcell.Event) bool {
	switch app.input.Map(ev) {
	case inputui.ActionQuit:
		return false

	case inputui.ActionMoveUp:
		if app.selected > 0 {
			app.selected--
			app.redraw()
		}

	case inputui.ActionMoveDown:
		if app.selected < app.catalog.Len()-1 {
			app.selected++
			app.redraw()
		}

	case inputui.ActionOpen:
		app.openSelected()

	case inputui.ActionNextPage:
		if app.session.Next() {
			app.drawPage()
		}

	case inputui.ActionPrevPage:
		if app.session.Prev() {
			app.drawPage()
		}

	case inputui.ActionCloseBook:
		app.closeBook()

	case inputui.ActionRedraw:
		app.screen.Sync()
		app.redraw()
	}
	return true
}
