// Package internal provides application-wide logging setup.
//
// The reconciliation engine itself never touches a global logger: it reports
// through an injected event sink, and the session layer forwards events here.
// This module only configures where slog output lands.
package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// SetupLogging configures the default slog logger to write to a log file
// under the config directory, and additionally to stderr when console is
// true (headless runs). The TUI keeps the terminal to itself, so interactive
// runs log to the file only. Returns the log file handle for closing on exit.
func SetupLogging(console bool) (*os.File, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, err
	}

	logDir := filepath.Join(configDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logPath := filepath.Join(logDir, "drivemapper.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	var out io.Writer = file
	if console {
		out = io.MultiWriter(file, os.Stderr)
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	return file, nil
}
