package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/leofalp/stockcalc/core/expr"
	"github.com/leofalp/stockcalc/providers/observability/slogobs"
)

// EnvMaxDepth overrides expr.DefaultMaxDepth.
const EnvMaxDepth = "STOCKCALC_MAX_DEPTH"

type config struct {
	MaxDepth  int
	LogLevel  slog.Level
	LogFormat slogobs.Format
}

// loadConfig reads envFile into the process environment, without
// overriding variables that are already set, and then builds the config from
// the environment. A missing envFile is not an error.
func loadConfig(envFile string) (config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg := config{
		MaxDepth:  expr.DefaultMaxDepth,
		LogLevel:  slogobs.GetLogLevelFromEnv(),
		LogFormat: slogobs.GetFormatFromEnv(),
	}

	if raw := strings.TrimSpace(os.Getenv(EnvMaxDepth)); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil || depth < 1 {
			return config{}, fmt.Errorf("%s must be a positive integer, got %q", EnvMaxDepth, raw)
		}
		cfg.MaxDepth = depth
	}
	return cfg, nil
}
