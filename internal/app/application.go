// Package app wires the catalog, reader session and screen together and
// runs the event loop.
package app

import (
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/inklet-dev/inklet/internal/catalog"
	"github.com/inklet-dev/inklet/internal/config"
	"github.com/inklet-dev/inklet/internal/pageindex"
	"github.com/inklet-dev/inklet/internal/reader"
	"github.com/inklet-dev/inklet/internal/store"
	inputui "github.com/inklet-dev/inklet/internal/ui/input"
	renderui "github.com/inklet-dev/inklet/internal/ui/render"
)

// Application represents the running app.
type Application struct {
	screen   tcell.Screen
	books    *store.Dir
	catalog  *catalog.Catalog
	session  *reader.Session
	renderer *renderui.Renderer
	input    *inputui.Handler
	log      *logrus.Logger

	selected int
}

// New builds an application on an initialized screen. The books
// directory is scanned and pre-indexed before the first draw, matching
// the device's boot behavior.
func New(screen tcell.Screen, profile config.Profile, log *logrus.Logger) (*Application, error) {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	books, err := store.OpenDir(profile.BooksDir)
	if err != nil {
		return nil, fmt.Errorf("books directory: %w", err)
	}
	cache, err := books.Sub(store.IndexDirName)
	if err != nil {
		books.Close()
		return nil, fmt.Errorf("index directory: %w", err)
	}

	layout := pageindex.Layout{
		LinesPerPage: profile.LinesPerPage,
		CharsPerLine: profile.CharsPerLine,
	}
	mgr := pageindex.NewManager(books, cache, layout, log)

	cat := catalog.New(books, mgr, log)
	if err := cat.Refresh(); err != nil {
		books.Close()
		return nil, fmt.Errorf("scanning books: %w", err)
	}

	return &Application{
		screen:   screen,
		books:    books,
		catalog:  cat,
		session:  reader.NewSession(books, mgr, log),
		renderer: renderui.NewRenderer(screen),
		input:    inputui.NewHandler(),
		log:      log,
	}, nil
}

// Close releases the open book and the books directory. The screen is
// owned by Run and finalized there.
func (app *Application) Close() error {
	err := app.session.Close()
	app.books.Close()
	return err
}

func (app *Application) listItems() []renderui.ListItem {
	items := make([]renderui.ListItem, 0, app.catalog.Len())
	for _, b := range app.catalog.Books() {
		items = append(items, renderui.ListItem{
			Name:    b.Name,
			Pages:   b.Pages(),
			Partial: !b.Rec.Complete,
			Resume:  b.HasResume(),
		})
	}
	return items
}

func (app *Application) redraw() {
	if app.input.Mode() == inputui.ModeReading {
		app.drawPage()
		return
	}
	app.renderer.RenderList(app.listItems(), app.selected)
}

func (app *Application) drawPage() {
	lines, err := app.session.PageLines()
	if err != nil {
		app.log.Errorf("app: reading page: %v", err)
		app.renderer.RenderError(fmt.Sprintf("cannot read %s", app.session.Name()))
		return
	}
	app.renderer.RenderReading(lines, app.session.Page(), app.session.PageCount())
}

func (app *Application) openSelected() {
	if app.selected >= app.catalog.Len() {
		return
	}
	book := app.catalog.At(app.selected)

	// Finishing a partial index can take a while; put the notice up
	// before the blocking call and let progress refresh it.
	if !book.Rec.Complete {
		app.renderer.RenderIndexing(book.Name, 0)
	}
	err := app.session.Open(book.Name, func(pct int) {
		app.renderer.RenderIndexing(book.Name, pct)
	})
	if err != nil {
		app.log.Errorf("app: opening %s: %v", book.Name, err)
		app.renderer.RenderError(fmt.Sprintf("cannot open %s", book.Name))
		return
	}

	app.input.SetMode(inputui.ModeReading)
	app.drawPage()
}

func (app *Application) closeBook() {
	// SaveResumePage updates the record in place during Close, so grab
	// it first and hand the refreshed copy to the catalog.
	rec := app.session.Record()
	if err := app.session.Close(); err != nil {
		app.log.Warnf("app: closing book: %v", err)
	}
	app.catalog.Update(rec)
	app.input.SetMode(inputui.ModeList)
	app.redraw()
}
