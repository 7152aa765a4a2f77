package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultPath returns the dated log file under XDG_STATE_HOME (or ~/.local/state)
func DefaultPath(now time.Time) (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	name := fmt.Sprintf("journal-%s.log", now.Format("2006-01-02"))
	return filepath.Join(stateDir, "voicejournal", name), nil
}

// Init opens path for appending and returns a logger writing to it.
// The TUI owns the terminal, so nothing is ever logged to stdout or stderr.
// The returned closer closes the file.
func Init(path, level string) (*log.Logger, io.Closer, error) {
	if path == "" {
		p, err := DefaultPath(time.Now())
		if err != nil {
			return nil, nil, err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           ParseLevel(level),
	})
	return logger, logFile, nil
}

// ParseLevel maps a config level name to a log level, defaulting to info
func ParseLevel(level string) log.Level {
	l, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return log.New(io.Discard)
}
