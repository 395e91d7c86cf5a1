package slogobs

import (
	"os"
	"strings"
)

// Format selects how Handler renders records.
type Format string

const (
	// FormatCompact writes one line per record with attributes as JSON:
	//	2026-01-02 10:40:35 DEBUG Span started → {"span":"tool.execute"}
	FormatCompact Format = "compact"

	// FormatPretty writes the message on one line and each attribute below it.
	FormatPretty Format = "pretty"

	// FormatJSON writes one JSON object per record.
	FormatJSON Format = "json"
)

// Environment variables consulted by GetFormatFromEnv, in order.
const (
	EnvLogFormat         = "STOCKCALC_LOG_FORMAT"
	EnvLogFormatFallback = "LOG_FORMAT"
)

// ParseFormat maps a case-insensitive name to a Format. Unknown names give
// FormatCompact.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pretty":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return FormatCompact
	}
}

// GetFormatFromEnv returns the format named by STOCKCALC_LOG_FORMAT or, when
// that is unset, LOG_FORMAT. The default is FormatCompact.
func GetFormatFromEnv() Format {
	for _, key := range []string{EnvLogFormat, EnvLogFormatFallback} {
		if v := os.Getenv(key); v != "" {
			return ParseFormat(v)
		}
	}
	return FormatCompact
}

func (f Format) String() string {
	return string(f)
}
