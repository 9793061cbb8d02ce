// Package logging builds the zerolog logger shared by every component.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvVar selects the console writer when set to "dev"
const EnvVar = "PUNCTUAL_ENV"

// New creates a logger writing to w at level. Unknown levels fall back to warn.
// When pretty is true, or PUNCTUAL_ENV=dev, logs are written in console format.
func New(w io.Writer, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}

	if pretty || strings.EqualFold(os.Getenv(EnvVar), "dev") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
