package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v2"

	apppkg "github.com/inklet-dev/inklet/internal/app"
	"github.com/inklet-dev/inklet/internal/config"
	"github.com/inklet-dev/inklet/internal/logging"
)

func main() {
	cliApp := &cli.App{
		Name:  "inklet",
		Usage: "paging text-file reader with a persistent page index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "inklet.json",
				Usage:   "path to the settings file",
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "books directory (overrides the settings file)",
			},
			&cli.IntFlag{
				Name:  "lines",
				Usage: "lines per page (overrides the settings file)",
			},
			&cli.IntFlag{
				Name:  "chars",
				Usage: "characters per line (overrides the settings file)",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "debug log file (overrides the settings file)",
			},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "inklet: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	profile, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("dir") {
		profile.BooksDir = c.String("dir")
	}
	if c.IsSet("lines") {
		profile.LinesPerPage = c.Int("lines")
	}
	if c.IsSet("chars") {
		profile.CharsPerLine = c.Int("chars")
	}
	if c.IsSet("log") {
		profile.LogFile = c.String("log")
	}
	if profile.LinesPerPage <= 0 || profile.CharsPerLine <= 0 {
		return fmt.Errorf("page geometry must be positive, got %dx%d",
			profile.LinesPerPage, profile.CharsPerLine)
	}

	log := logging.New(profile.LogFile)

	// UTF-8 fallback so single-byte text renders on odd locales.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}

	app, err := apppkg.New(screen, profile, log)
	if err != nil {
		screen.Fini()
		return err
	}
	return app.Run()
}
