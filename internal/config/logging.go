package config

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger writing to stderr at the named level.
// Unknown levels fall back to info.
func NewLogger(level string) *log.Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo is NewLogger with an explicit destination.
func NewLoggerTo(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	})
}
