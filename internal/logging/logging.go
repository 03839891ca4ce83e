// Package logging configures the debug logger. The terminal belongs to
// the screen while the reader runs, so output goes to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type formatter struct{}

func (formatter) Format(e *logrus.Entry) ([]byte, error) {
	const timeFormat = "2006/01/02 15:04:05.000"
	str := fmt.Sprintf("%s <%s>: %s",
		e.Time.Format(timeFormat),
		strings.ToUpper(e.Level.String()),
		e.Message)
	if len(e.Data) != 0 {
		str += fmt.Sprintf(" %v", e.Data)
	}
	return []byte(str + "\n"), nil
}

// New builds the application logger. With an empty path everything is
// discarded; otherwise entries append to the named file. A file that
// cannot be opened degrades to the discard logger, reading must not
// fail over a log path.
func New(path string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(formatter{})
	log.SetLevel(logrus.InfoLevel)

	if path == "" {
		log.SetOutput(io.Discard)
		return log
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return log
	}
	log.SetOutput(file)
	return log
}
