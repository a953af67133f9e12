// Package logging builds the component loggers used across
// nutrimirror: bracketed-prefix std loggers writing to stderr, and
// optionally to a size-rotated file.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger with a "[component] " prefix. When logFile is
// non-empty, output is duplicated into a rotated file so long-running
// sessions don't grow it unbounded.
func New(component, logFile string) *log.Logger {
	var w io.Writer = os.Stderr
	if logFile != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	return log.New(w, "["+component+"] ", log.LstdFlags)
}
