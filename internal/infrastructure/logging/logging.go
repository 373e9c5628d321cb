package logging

import (
	"io"
	"os"

	"github.com/phuslu/log"
)

// New builds the service logger writing JSON lines to stderr.
func New(level string) *log.Logger {
	return NewWithWriter(level, os.Stderr)
}

func NewWithWriter(level string, w io.Writer) *log.Logger {
	lvl := log.ParseLevel(level)
	if level == "" {
		lvl = log.InfoLevel
	}
	return &log.Logger{
		Level:  lvl,
		Writer: &log.IOWriter{Writer: w},
	}
}

// Nop discards everything. Used when a component is built without a logger.
func Nop() *log.Logger {
	return &log.Logger{Level: log.PanicLevel, Writer: &log.IOWriter{Writer: io.Discard}}
}

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l *log.Logger) *log.Logger {
	if l == nil {
		return Nop()
	}
	return l
}
