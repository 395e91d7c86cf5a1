package slogobs

import (
	"io"
	"log/slog"
	"os"
)

// Option configures an Observer.
type Option func(*config)

type config struct {
	format Format
	level  slog.Level
	output io.Writer
	colors bool
	// logger bypasses the custom handler when set.
	logger *slog.Logger
}

func WithFormat(format Format) Option {
	return func(c *config) {
		c.format = format
	}
}

func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithOutput sets where log records are written. The default is os.Stderr so
// that results printed on stdout stay machine readable.
func WithOutput(output io.Writer) Option {
	return func(c *config) {
		c.output = output
	}
}

// WithColors forces ANSI colors on or off for the compact and pretty formats.
// Without it, colors are enabled when the output is a terminal.
func WithColors(enabled bool) Option {
	return func(c *config) {
		c.colors = enabled
	}
}

// WithLogger routes everything through an existing logger. It takes
// precedence over the format, level, output and color options.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func applyOptions(opts ...Option) *config {
	cfg := &config{
		format: GetFormatFromEnv(),
		level:  GetLogLevelFromEnv(),
		output: os.Stderr,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
