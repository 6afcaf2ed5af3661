package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// New creates the application logger. Warnings and errors always go to
// output; debug output is enabled with the debug flag.
func New(debug bool, output io.Writer) hclog.Logger {
	level := hclog.Warn
	if debug {
		level = hclog.Debug
	}
	if output == nil {
		output = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "dropin",
		Level:  level,
		Output: output,
	})
}

// Discard returns a logger that drops everything, for tests and library use
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
