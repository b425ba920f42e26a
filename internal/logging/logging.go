package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the process logger and installs it as the zerolog global.
// format "console" gives human-readable output; anything else emits JSON.
func New(level, format, component string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	logger := zerolog.New(out).With().Timestamp().Str("component", component).Logger()
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
	return logger
}
