package slogobs

import (
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"TRACE", LevelTrace},
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"DeBuG", slog.LevelDebug},
		{"  debug  ", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

// TestGetLogLevelFromEnv verifies that the project variable wins over the
// generic one and that INFO is the default.
func TestGetLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		primary  string
		fallback string
		expected slog.Level
	}{
		{"primary takes precedence", "DEBUG", "ERROR", slog.LevelDebug},
		{"fallback used when primary unset", "", "WARN", slog.LevelWarn},
		{"default when both unset", "", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLogLevel, tt.primary)
			t.Setenv(EnvLogLevelFallback, tt.fallback)
			if got := GetLogLevelFromEnv(); got != tt.expected {
				t.Errorf("GetLogLevelFromEnv() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := map[slog.Level]string{
		LevelTrace:          "TRACE",
		slog.LevelDebug:     "DEBUG",
		slog.LevelDebug + 1: "DEBUG",
		slog.LevelInfo:      "INFO",
		slog.LevelWarn:      "WARN",
		slog.LevelError:     "ERROR",
		slog.LevelError + 4: "ERROR",
	}
	for level, want := range tests {
		if got := levelString(level); got != want {
			t.Errorf("levelString(%d) = %q, want %q", level, got, want)
		}
	}
}
