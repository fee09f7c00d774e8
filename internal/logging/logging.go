// Package logging configures the per-run file logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TimeFormat is the timestamp layout written at the start of each line.
const TimeFormat = "2006-01-02 15:04:05.000"

// ParseMode maps a log mode setting to a level. "debug" in any case means
// debug; anything else means info.
func ParseMode(mode string) zerolog.Level {
	if strings.EqualFold(strings.TrimSpace(mode), "debug") {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// NewWriter returns a line-oriented writer producing
// "timestamp LEVEL - message key=value" entries without colour.
func NewWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: TimeFormat,
		FormatLevel: func(i interface{}) string {
			lvl, _ := i.(string)
			if lvl == "" {
				return "- -"
			}
			return strings.ToUpper(lvl) + " -"
		},
	}
}

// NewLogger builds a logger on top of out at the given mode, tagged with a
// fresh run id.
func NewLogger(out io.Writer, mode string) zerolog.Logger {
	return zerolog.New(NewWriter(out)).
		Level(ParseMode(mode)).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
}

// New opens path for appending, creating parent directories as needed, and
// returns a logger writing to it. The caller closes the returned Closer.
func New(path, mode string) (zerolog.Logger, io.Closer, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create log directory %q: %w", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file %q: %w", path, err)
	}
	return NewLogger(file, mode), file, nil
}

func init() {
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
}
