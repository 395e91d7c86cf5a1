package slogobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/stockcalc/providers/observability"
)

// Observer implements observability.Provider by writing every span event,
// metric update and log call as a slog record.
type Observer struct {
	logger  *slog.Logger
	metrics *metricsStore
}

var _ observability.Provider = (*Observer)(nil)

// New creates an Observer. Without options the format and level come from
// the environment and records go to stderr.
//
//	obs := slogobs.New(
//	    slogobs.WithFormat(slogobs.FormatJSON),
//	    slogobs.WithLevel(slog.LevelDebug),
//	)
func New(opts ...Option) *Observer {
	cfg := applyOptions(opts...)

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(NewHandler(&HandlerOptions{
			Format: cfg.format,
			Level:  cfg.level,
			Output: cfg.output,
			Colors: cfg.colors,
		}))
	}

	return &Observer{
		logger:  logger,
		metrics: newMetricsStore(),
	}
}

// Logger returns the underlying slog logger.
func (o *Observer) Logger() *slog.Logger {
	return o.logger
}

// --- TRACING ---

// StartSpan logs the start of a span and returns a context carrying it.
// Each span gets a random id; a span already present in ctx becomes its
// parent.
func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	span := &slogSpan{
		id:        uuid.NewString(),
		name:      name,
		startTime: time.Now(),
		logger:    o.logger,
		attrs:     attrs,
	}
	if parent, ok := observability.SpanFromContext(ctx).(*slogSpan); ok {
		span.parentID = parent.id
	}

	logAttrs := append(span.identity(), slog.String("event", "span.start"))
	logAttrs = appendAttributes(logAttrs, attrs)
	o.logger.LogAttrs(ctx, slog.LevelDebug, "Span started", logAttrs...)

	return observability.ContextWithSpan(ctx, span), span
}

type slogSpan struct {
	id        string
	parentID  string
	name      string
	startTime time.Time
	logger    *slog.Logger

	mu    sync.Mutex
	attrs []observability.Attribute
	ended bool
}

func (s *slogSpan) identity() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("span", s.name),
		slog.String("span.id", s.id),
	}
	if s.parentID != "" {
		attrs = append(attrs, slog.String("span.parent_id", s.parentID))
	}
	return attrs
}

// End logs the span duration and its accumulated attributes. Only the first
// call has an effect.
func (s *slogSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true

	logAttrs := append(s.identity(),
		slog.String("event", "span.end"),
		slog.Duration("duration", time.Since(s.startTime)),
	)
	logAttrs = appendAttributes(logAttrs, s.attrs)
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Span ended", logAttrs...)
}

func (s *slogSpan) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

func (s *slogSpan) SetStatus(code observability.StatusCode, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attrs = append(s.attrs, observability.String(observability.AttrStatus, code.String()))
	if description != "" {
		s.attrs = append(s.attrs, observability.String(observability.AttrStatusDescription, description))
	}
}

// RecordError attaches err to the span and logs it at WARN. A failed
// calculation is an expected outcome for a tool, so it is not an ERROR.
func (s *slogSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attrs = append(s.attrs, observability.Error(err))
	logAttrs := append(s.identity(),
		slog.String("event", "error"),
		slog.String(observability.AttrError, err.Error()),
	)
	s.logger.LogAttrs(context.Background(), slog.LevelWarn, "Span error", logAttrs...)
}

func (s *slogSpan) AddEvent(name string, attrs ...observability.Attribute) {
	logAttrs := append(s.identity(), slog.String("event", name))
	logAttrs = appendAttributes(logAttrs, attrs)
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Span event", logAttrs...)
}

// --- METRICS ---

// Counter returns the counter registered under name, creating it on first
// use.
func (o *Observer) Counter(name string) observability.Counter {
	return o.metrics.getCounter(name, o.logger)
}

// Histogram returns the histogram registered under name, creating it on
// first use.
func (o *Observer) Histogram(name string) observability.Histogram {
	return o.metrics.getHistogram(name, o.logger)
}

// Snapshot returns the current value of every counter and histogram.
func (o *Observer) Snapshot() Snapshot {
	return o.metrics.snapshot()
}

// --- LOGGING ---

// Trace logs below DEBUG; it only shows when the level is set to TRACE.
func (o *Observer) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, LevelTrace, msg, attrs...)
}

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelDebug, msg, attrs...)
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelInfo, msg, attrs...)
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelWarn, msg, attrs...)
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelError, msg, attrs...)
}

func (o *Observer) log(ctx context.Context, level slog.Level, msg string, attrs ...observability.Attribute) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !o.logger.Enabled(ctx, level) {
		return
	}
	o.logger.LogAttrs(ctx, level, msg, appendAttributes(nil, attrs)...)
}

func appendAttributes(dst []slog.Attr, attrs []observability.Attribute) []slog.Attr {
	for _, attr := range attrs {
		dst = append(dst, slog.Any(attr.Key, attr.Value))
	}
	return dst
}
