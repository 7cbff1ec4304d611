// Package logging builds the slog loggers shared by the CLI and server.
package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// ParseLevel accepts the slog level names (debug, info, warn, error) in any case
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.TrimSpace(s)))
	return level, err
}

// NiceLogger writes text records with short source locations
func NiceLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource:   true,
		Level:       &level,
		ReplaceAttr: shortSource,
	}))
}

// JSONLogger is NiceLogger with JSON records, for when output is collected
func JSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource:   true,
		Level:       &level,
		ReplaceAttr: shortSource,
	}))
}

// New picks a logger by format name. Anything other than "json" is text.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	if strings.EqualFold(format, "json") {
		return JSONLogger(w, level)
	}
	return NiceLogger(w, level)
}

func shortSource(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		source, _ := a.Value.Any().(*slog.Source)
		if source != nil {
			source.File = filepath.Base(source.File)
		}
	}
	return a
}
