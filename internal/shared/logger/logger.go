package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New initializes a new zerolog.Logger writing to stderr.
// 'devMode' enables human-readable console logging at debug level.
func New(devMode bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, devMode)
}

// NewWithWriter is New with an explicit output.
func NewWithWriter(out io.Writer, devMode bool) zerolog.Logger {
	if devMode {
		// Human-readable, colorful output for local development
		consoleWriter := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
		return zerolog.New(consoleWriter).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}

	// Efficient JSON output for production
	return zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}
