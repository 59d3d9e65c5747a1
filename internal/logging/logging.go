// Package logging holds the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logger  *slog.Logger
	closeFn func() error
)

// ParseLevel accepts debug|info|warn|error ("" is info).
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// Init installs a JSON logger writing to w.
func Init(w io.Writer, level slog.Level) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	return logger
}

// InitFile installs a JSON logger appending to path. The TUI uses this so log lines
// never reach the alternate screen.
func InitFile(path string, level slog.Level) (*slog.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	l := Init(f, level)
	mu.Lock()
	closeFn = f.Close
	mu.Unlock()
	return l, nil
}

// Get returns the installed logger, or a discarding one before Init.
func Get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return logger
}

func Close() error {
	mu.Lock()
	fn := closeFn
	closeFn = nil
	mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn()
}

func With(args ...any) *slog.Logger {
	return Get().With(args...)
}
