package observability

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const logTimeFormat = "2006-01-02 15:04:05"

// NewLogger builds the process logger. Output goes to stderr and, when
// logPath is non-empty, is tee'd into an append-only log file. Timestamps
// are rendered in the given location so the on-disk log reads in the
// operator's reporting time zone.
func NewLogger(appEnv, logPath string, loc *time.Location) (zerolog.Logger, io.Closer, error) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(loc)
	}

	var console io.Writer = os.Stderr
	if appEnv == "local" {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: logTimeFormat}
	}

	if logPath == "" {
		return zerolog.New(console).With().Timestamp().Logger(), nil, nil
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
	}

	fileWriter := zerolog.ConsoleWriter{Out: logFile, TimeFormat: logTimeFormat, NoColor: true}
	logger := zerolog.New(zerolog.MultiLevelWriter(console, fileWriter)).With().Timestamp().Logger()

	return logger, logFile, nil
}
