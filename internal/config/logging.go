package config

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// LogLevelEnv names the environment variable holding the log level
// (debug, info, warn, error).
const LogLevelEnv = "LOG_LEVEL"

// NewLogger returns a timestamped logger writing to w at the LOG_LEVEL level.
// An unknown level falls back to info.
func NewLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	name := GetEnv(LogLevelEnv, "info")
	level, err := log.ParseLevel(name)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", name)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// FileLogger logs to the file named by env, or discards everything when env
// is unset. Terminal programs use it to keep logs off the game screen.
func FileLogger(env string) (*log.Logger, func() error, error) {
	path := GetEnv(env, "")
	if path == "" {
		return log.New(io.Discard), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return NewLogger(f), f.Close, nil
}
