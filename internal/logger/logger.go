// Package logger builds the process-wide zerolog logger from
// environment configuration.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a logger from LOG_LEVEL and LOG_FORMAT. The level
// defaults to info and unknown values fall back to it: logging must
// never keep the service from starting. LOG_FORMAT=console switches
// to human-readable output for development; the default is JSON
// lines on stdout.
func New(service string) zerolog.Logger {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var out io.Writer = os.Stdout
	if os.Getenv("LOG_FORMAT") == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", service).Logger()
}
