package slogobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// Handler is a slog.Handler that renders records in a Format.
// Handlers derived through WithAttrs and WithGroup share the parent's lock.
type Handler struct {
	format Format
	level  slog.Leveler
	output io.Writer
	colors bool
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// Format defaults to FormatCompact.
	Format Format
	// Level is the minimum level written; nil means INFO.
	Level slog.Leveler
	// Output defaults to os.Stderr.
	Output io.Writer
	// Colors enables ANSI colors for the compact and pretty formats. When
	// false, colors are still used if Output is a terminal.
	Colors bool
}

// NewHandler creates a Handler. A nil opts uses every default.
func NewHandler(opts *HandlerOptions) *Handler {
	if opts == nil {
		opts = &HandlerOptions{}
	}
	h := &Handler{
		format: opts.Format,
		level:  opts.Level,
		output: opts.Output,
		colors: opts.Colors,
		mu:     &sync.Mutex{},
	}
	if h.format == "" {
		h.format = FormatCompact
	}
	if h.level == nil {
		h.level = slog.LevelInfo
	}
	if h.output == nil {
		h.output = os.Stderr
	}
	if !h.colors && h.format != FormatJSON {
		if f, ok := h.output.(*os.File); ok {
			h.colors = isTerminal(f)
		}
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	fields := h.collectAttrs(r)

	var buf []byte
	switch h.format {
	case FormatJSON:
		var err error
		if buf, err = h.renderJSON(r, fields); err != nil {
			return err
		}
	case FormatPretty:
		buf = h.renderPretty(r, fields)
	default:
		buf = h.renderCompact(r, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.output.Write(buf)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	prefix := h.groupPrefix()
	for _, a := range attrs {
		a.Key = prefix + a.Key
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(slices.Clip(h.groups), name)
	return &clone
}

// field is a flattened attribute ready for rendering.
type field struct {
	key   string
	value any
}

// renderCompact produces
//
//	2026-01-02 15:04:05  INFO Message → {"key":"value"}
func (h *Handler) renderCompact(r slog.Record, fields []field) []byte {
	buf := make([]byte, 0, 256)
	buf = appendTime(buf, r.Time, "2006-01-02 15:04:05")
	buf = h.appendLevel(buf, r.Level, "%5s")
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	if len(fields) > 0 {
		buf = append(buf, " → "...)
		// encoding/json sorts map keys, which keeps the line stable.
		data, err := json.Marshal(fieldMap(fields))
		if err != nil {
			buf = append(buf, "[json-error]"...)
		} else {
			buf = append(buf, data...)
		}
	}
	return append(buf, '\n')
}

// renderPretty produces
//
//	2026-01-02 15:04:05 INFO  Message
//	                    ├─ key: value
//	                    └─ key: value
func (h *Handler) renderPretty(r slog.Record, fields []field) []byte {
	buf := make([]byte, 0, 256)
	buf = appendTime(buf, r.Time, "2006-01-02 15:04:05")
	buf = h.appendLevel(buf, r.Level, "%-5s")
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	buf = append(buf, '\n')

	slices.SortStableFunc(fields, func(a, b field) int { return strings.Compare(a.key, b.key) })
	indent := strings.Repeat(" ", len("2006-01-02 15:04:05 "))
	for i, f := range fields {
		buf = append(buf, indent...)
		if i == len(fields)-1 {
			buf = append(buf, "└─ "...)
		} else {
			buf = append(buf, "├─ "...)
		}
		buf = append(buf, f.key...)
		buf = append(buf, ": "...)
		buf = append(buf, fmt.Sprint(f.value)...)
		buf = append(buf, '\n')
	}
	return buf
}

// renderJSON produces
//
//	{"level":"INFO","msg":"Message","time":"2026-01-02T15:04:05","key":"value"}
//
// Attributes named time, level or msg are overwritten by the record fields.
func (h *Handler) renderJSON(r slog.Record, fields []field) ([]byte, error) {
	data := fieldMap(fields)
	if !r.Time.IsZero() {
		data["time"] = r.Time.Format("2006-01-02T15:04:05")
	}
	data["level"] = levelString(r.Level)
	data["msg"] = r.Message

	out, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("slogobs: encoding record: %w", err)
	}
	return append(out, '\n'), nil
}

func (h *Handler) appendLevel(buf []byte, level slog.Level, layout string) []byte {
	name := fmt.Sprintf(layout, levelString(level))
	if !h.colors {
		return append(buf, name...)
	}
	buf = append(buf, colorForLevel(level)...)
	buf = append(buf, name...)
	return append(buf, colorReset...)
}

func appendTime(buf []byte, t time.Time, layout string) []byte {
	if t.IsZero() {
		return buf
	}
	buf = t.AppendFormat(buf, layout)
	return append(buf, ' ')
}

// collectAttrs flattens the handler's attributes followed by the record's.
// Record attributes are qualified with the open groups; nested groups are
// joined with dots.
func (h *Handler) collectAttrs(r slog.Record) []field {
	fields := make([]field, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		fields = appendAttr(fields, "", a)
	}
	prefix := h.groupPrefix()
	r.Attrs(func(a slog.Attr) bool {
		fields = appendAttr(fields, prefix, a)
		return true
	})
	return fields
}

func (h *Handler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

func appendAttr(fields []field, prefix string, a slog.Attr) []field {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner = prefix + a.Key + "."
		}
		for _, ga := range v.Group() {
			fields = appendAttr(fields, inner, ga)
		}
		return fields
	}
	if a.Key == "" {
		return fields
	}
	return append(fields, field{key: prefix + a.Key, value: plainValue(v)})
}

// plainValue converts values that encoding/json would render poorly.
func plainValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return x.Error()
		case time.Duration:
			return x.String()
		case fmt.Stringer:
			return x.String()
		}
	}
	return v.Any()
}

func fieldMap(fields []field) map[string]any {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.key] = f.value
	}
	return m
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

func colorForLevel(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return colorGray
	case level < slog.LevelInfo:
		return colorBlue
	case level < slog.LevelWarn:
		return colorGreen
	case level < slog.LevelError:
		return colorYellow
	default:
		return colorRed
	}
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
