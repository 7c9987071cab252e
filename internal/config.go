package internal

import (
	"log/slog"
	"strings"
	"sync/atomic"
)

// Process-wide log level. Child process output is captured at levels above
// info and streamed at info and below.
var logLevel atomic.Int64

// Seeds the level from the rawLogLevel linker flag. Unknown values fall back
// to warn.
func init() {
	level, ok := ParseLevel(rawLogLevel)
	if !ok {
		level = slog.LevelWarn
	}
	logLevel.Store(int64(level))
}

// Parses one of "error", "warn", "info", or "debug".
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return slog.LevelError, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "info":
		return slog.LevelInfo, true
	case "debug":
		return slog.LevelDebug, true
	default:
		return 0, false
	}
}

// Sets the process-wide log level.
func SetLogLevel(level slog.Level) {
	logLevel.Store(int64(level))
}

// Returns the process-wide log level.
func LogLevel() slog.Level {
	return slog.Level(logLevel.Load())
}

// Returns true if child process output should be streamed to the terminal
// instead of captured.
func StreamOutput() bool {
	return LogLevel() <= slog.LevelInfo
}
