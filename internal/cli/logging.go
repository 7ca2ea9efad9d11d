package cli

import (
	"io"
	"log/slog"
	"os"

	"systrack/internal/config"
)

// setupLogger installs the structured logger. Logs go to stderr so report
// output on stdout stays clean; a configured log file receives a mirror
// of the stream.
func setupLogger(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stderr
	var openErr error
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			openErr = err
		} else {
			out = io.MultiWriter(os.Stderr, logFile)
		}
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With("app", "systrack")
	slog.SetDefault(logger)

	if openErr != nil {
		slog.Error("Persistent logging disabled: failed to open log file", "file", cfg.LogFile, "err", openErr)
	}
}
