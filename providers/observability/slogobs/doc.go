// Package slogobs implements observability.Provider on top of log/slog.
//
// Spans, metric updates and log calls all become slog records written by
// [Handler] in one of three formats: compact single lines, an indented
// pretty form, or JSON. Counters and histograms are also kept in memory and
// can be read back with [Observer.Snapshot].
//
// [New] reads STOCKCALC_LOG_FORMAT and STOCKCALC_LOG_LEVEL (falling back to
// LOG_FORMAT and LOG_LEVEL); options override the environment.
package slogobs
