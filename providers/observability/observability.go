package observability

import (
	"context"
	"fmt"
	"time"
)

// Provider bundles tracing, metrics and logging behind one dependency.
type Provider interface {
	Tracer
	Metrics
	Logger
}

// --- TRACING ---

// Tracer starts spans around units of work such as a tool call.
type Tracer interface {
	StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Span is a single traced unit of work.
type Span interface {
	End()
	SetAttributes(attrs ...Attribute)
	SetStatus(code StatusCode, description string)
	RecordError(err error)
	AddEvent(name string, attrs ...Attribute)
}

// StatusCode is the outcome recorded on a span.
type StatusCode int

const (
	StatusUnset StatusCode = iota
	StatusOK
	StatusError
)

func (c StatusCode) String() string {
	switch c {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "unset"
	}
}

// --- METRICS ---

// Metrics hands out named instruments. Asking twice for the same name
// returns the same instrument.
type Metrics interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// Counter is a monotonically increasing metric.
type Counter interface {
	Add(ctx context.Context, value int64, attrs ...Attribute)
}

// Histogram records a distribution of values.
type Histogram interface {
	Record(ctx context.Context, value float64, attrs ...Attribute)
}

// --- LOGGING ---

// Logger writes structured log entries.
type Logger interface {
	Trace(ctx context.Context, msg string, attrs ...Attribute)
	Debug(ctx context.Context, msg string, attrs ...Attribute)
	Info(ctx context.Context, msg string, attrs ...Attribute)
	Warn(ctx context.Context, msg string, attrs ...Attribute)
	Error(ctx context.Context, msg string, attrs ...Attribute)
}

// --- ATTRIBUTES ---

// Attribute is a key-value pair attached to spans, metrics and log entries.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value}
}

// Error creates an attribute under AttrError holding the error text, or an
// empty string for a nil error.
func Error(err error) Attribute {
	if err == nil {
		return Attribute{Key: AttrError, Value: ""}
	}
	return Attribute{Key: AttrError, Value: err.Error()}
}

// DefaultMaxStringLength bounds expression text copied into attributes.
const DefaultMaxStringLength = 500

// TruncateString shortens s to maxLen bytes and notes the original length.
// A non-positive maxLen means DefaultMaxStringLength.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:maxLen], len(s))
}

// --- NO-OP ---

// Noop is a Provider that discards everything. Code that accepts an optional
// Provider can fall back to it instead of checking for nil.
type Noop struct{}

var _ Provider = Noop{}

func (Noop) StartSpan(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

func (Noop) Counter(string) Counter                      { return noopInstrument{} }
func (Noop) Histogram(string) Histogram                  { return noopInstrument{} }
func (Noop) Trace(context.Context, string, ...Attribute) {}
func (Noop) Debug(context.Context, string, ...Attribute) {}
func (Noop) Info(context.Context, string, ...Attribute)  {}
func (Noop) Warn(context.Context, string, ...Attribute)  {}
func (Noop) Error(context.Context, string, ...Attribute) {}

type noopSpan struct{}

func (noopSpan) End()                          {}
func (noopSpan) SetAttributes(...Attribute)    {}
func (noopSpan) SetStatus(StatusCode, string)  {}
func (noopSpan) RecordError(error)             {}
func (noopSpan) AddEvent(string, ...Attribute) {}

type noopInstrument struct{}

func (noopInstrument) Add(context.Context, int64, ...Attribute)      {}
func (noopInstrument) Record(context.Context, float64, ...Attribute) {}
