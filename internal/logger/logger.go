package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var zlog = zerolog.Nop()

// Init initializes the structured logger. Development environments get
// console output, everything else JSON.
func Init(env string) {
	InitWriter(env, os.Stderr)
}

// InitWriter is Init with an explicit destination.
func InitWriter(env string, out io.Writer) {
	var w io.Writer = out
	if env == "development" || env == "dev" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zlog = zerolog.New(w).With().
		Timestamp().
		Str("service", "blogindex").
		Logger()
}

// Get returns the global logger.
func Get() *zerolog.Logger {
	return &zlog
}

// With returns a logger tagged with a component name.
func With(component string) zerolog.Logger {
	return zlog.With().Str("component", component).Logger()
}
