package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const logFilePattern = "polychat-*.log"

// NewLogger builds the process logger: JSON to w, plus a log file in LogDir
// when configured. The returned close func flushes the file, if any.
func NewLogger(cfg *Config, w io.Writer) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if cfg.Environment == "dev" {
		level = slog.LevelDebug
	}

	closeFn := func() error { return nil }
	if cfg.LogDir != "" {
		f, err := SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			return nil, nil, err
		}
		w = io.MultiWriter(w, f)
		closeFn = f.Close
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}

// SetupLogFile creates a new timestamped log file and cleans up old files.
// Returns the file handle (caller must close) or error.
func SetupLogFile(dir string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("polychat-%s.log",
		time.Now().UTC().Format("2006-01-02T15-04-05.000")))

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	// Logging still works if pruning fails
	if err := cleanupOldLogs(dir, maxFiles); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to cleanup old logs: %v\n", err)
	}

	return f, nil
}

// cleanupOldLogs removes oldest log files when count exceeds maxFiles.
func cleanupOldLogs(dir string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(dir, logFilePattern))
	if err != nil {
		return err
	}
	if len(files) <= maxFiles {
		return nil
	}

	// Timestamped names sort chronologically
	sort.Strings(files)

	for i := 0; i < len(files)-maxFiles; i++ {
		if err := os.Remove(files[i]); err != nil {
			return fmt.Errorf("remove %s: %w", files[i], err)
		}
	}

	return nil
}
