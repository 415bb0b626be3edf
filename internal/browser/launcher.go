package browser

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoURL is returned when asked to open an empty URL
var ErrNoURL = errors.New("no url to open")

// Launcher opens URLs in a browser
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments placed before the URL
	goos    string
	start   func(name string, args ...string) error
	logger  *slog.Logger
}

// NewLauncher creates a Launcher. An empty command uses the system default
// handler (open, xdg-open or start).
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: strings.TrimSpace(command),
		args:    args,
		goos:    runtime.GOOS,
		start:   startCommand,
		logger:  logger,
	}
}

// startCommand starts the process without waiting for it
func startCommand(name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}

// Launch opens url in the configured browser or the system default
func (l *Launcher) Launch(url string) error {
	if strings.TrimSpace(url) == "" {
		return ErrNoURL
	}

	name, args := l.commandFor(url)
	l.logger.Info("opening in browser", "command", name, "url", url)

	if err := l.start(name, args...); err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}
	return nil
}

// commandFor builds the command line that opens url
func (l *Launcher) commandFor(url string) (string, []string) {
	if l.command != "" {
		args := append(append([]string{}, l.args...), url)
		return l.command, args
	}

	switch l.goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{url}
	}
}
