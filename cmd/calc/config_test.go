package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/leofalp/stockcalc/core/expr"
	"github.com/leofalp/stockcalc/providers/observability/slogobs"
)

func TestLoadConfig_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("a missing env file must not be an error: %v", err)
	}
	if cfg.MaxDepth != expr.DefaultMaxDepth || cfg.LogLevel != slog.LevelInfo || cfg.LogFormat != slogobs.FormatCompact {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

// TestLoadConfig_EnvFile verifies that values come from the file unless the
// process environment already sets them.
func TestLoadConfig_EnvFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv("STOCKCALC_LOG_FORMAT", "pretty")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "STOCKCALC_MAX_DEPTH=64\nSTOCKCALC_LOG_LEVEL=warn\nSTOCKCALC_LOG_FORMAT=json\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(envFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxDepth != 64 || cfg.LogLevel != slog.LevelWarn {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.LogFormat != slogobs.FormatPretty {
		t.Errorf("environment should win over the file, got %s", cfg.LogFormat)
	}
}

func TestLoadConfig_InvalidMaxDepth(t *testing.T) {
	for _, value := range []string{"deep", "0", "-4"} {
		t.Run(value, func(t *testing.T) {
			isolateEnv(t)
			t.Setenv(EnvMaxDepth, value)
			if _, err := loadConfig(""); err == nil {
				t.Errorf("expected an error for %s=%q", EnvMaxDepth, value)
			}
		})
	}
}
