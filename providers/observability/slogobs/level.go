package slogobs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below slog.LevelDebug and is used by Observer.Trace.
const LevelTrace = slog.LevelDebug - 4

// Environment variables consulted by GetLogLevelFromEnv, in order.
const (
	EnvLogLevel         = "STOCKCALC_LOG_LEVEL"
	EnvLogLevelFallback = "LOG_LEVEL"
)

// GetLogLevelFromEnv returns the level named by STOCKCALC_LOG_LEVEL or, when
// that is unset, LOG_LEVEL. The default is INFO.
func GetLogLevelFromEnv() slog.Level {
	level := os.Getenv(EnvLogLevel)
	if level == "" {
		level = os.Getenv(EnvLogLevelFallback)
	}
	if level == "" {
		return slog.LevelInfo
	}
	return ParseLogLevel(level)
}

// ParseLogLevel accepts TRACE, DEBUG, INFO, WARN, WARNING and ERROR in any
// case. Anything else yields INFO and a warning on stderr.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "Warning: unknown log level '%s', using INFO\n", level)
		return slog.LevelInfo
	}
}

// levelString names a level, folding values between the named levels down
// to the nearest one below.
func levelString(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "TRACE"
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}
