package gsuperaux

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
)

// nopHandler discards all records. Enabled returns false so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger used by gsuperaux. By default nothing is logged.
// Passing nil restores the silent default. Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current gsuperaux logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// LogConfig selects level and format of a logger created by [LogConfig.NewLogger].
type LogConfig struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string `toml:"level"`
	// Format is text or json. Empty means text.
	Format string `toml:"format"`
}

// NewLogger creates a logger writing to w.
func (lc LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(lc.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", lc.Format)
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	if err != nil {
		return 0, fmt.Errorf("bad log level: %w", err)
	}
	return level, nil
}
