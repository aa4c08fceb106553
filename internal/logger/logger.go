package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. format "json" writes one JSON object per
// line; anything else writes human-readable console output. An unparsable
// level falls back to info.
func New(w io.Writer, level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Logger().
		Level(lvl)
}
