package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/postdeck/internal/config"
)

// StderrFile is the logging.file value that sends log lines to stderr
// instead of a file, for --print runs and debugging outside the TUI
const StderrFile = "-"

// Open returns the logger described by cfg and a closer for whatever it
// writes to. An empty file turns logging off.
func Open(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	switch cfg.File {
	case "":
		return NullLogger(), io.NopCloser(nil), nil
	case StderrFile:
		return New(os.Stderr, cfg.Level), io.NopCloser(nil), nil
	}

	path, err := ExpandPath(cfg.File)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, cfg.Level), f, nil
}

// New builds a JSON logger on w. Every record carries the app name and
// process id so runs sharing one file can be told apart.
func New(w io.Writer, level string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(h).With("app", "postdeck", "pid", os.Getpid())
}

// ExpandPath resolves a leading ~ and any $VAR references in a log path
func ExpandPath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ParseLevel reads a level name the way slog spells it, plus WARNING.
// Offsets such as "debug+2" work too. Anything else is Info.
func ParseLevel(s string) slog.Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
