package slogobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/leofalp/stockcalc/providers/observability"
)

func newTestObserver(buf *bytes.Buffer) *Observer {
	return New(WithFormat(FormatJSON), WithLevel(LevelTrace), WithOutput(buf))
}

// decodeRecords parses JSON-format output into one map per line.
func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("invalid record %q: %v", line, err)
		}
		records = append(records, rec)
	}
	return records
}

func TestObserver_SpanLifecycle(t *testing.T) {
	var buf bytes.Buffer
	obs := newTestObserver(&buf)

	ctx, span := obs.StartSpan(context.Background(), observability.SpanToolExecution,
		observability.String(observability.AttrToolName, "Calculator"))
	if observability.SpanFromContext(ctx) != span {
		t.Fatal("StartSpan should store the span in the returned context")
	}

	span.AddEvent(observability.EventToolExecutionStart)
	span.SetAttributes(observability.Float64(observability.AttrExprResult, 1400))
	span.SetStatus(observability.StatusOK, "")
	span.End()
	span.End()

	records := decodeRecords(t, &buf)
	if len(records) != 3 {
		t.Fatalf("expected start, event and end records, got %d: %s", len(records), buf.String())
	}

	start, event, end := records[0], records[1], records[2]
	if start["msg"] != "Span started" || start["tool.name"] != "Calculator" {
		t.Errorf("unexpected start record %v", start)
	}
	id, _ := start["span.id"].(string)
	if len(id) != 36 {
		t.Errorf("expected a UUID span id, got %q", id)
	}
	if event["event"] != observability.EventToolExecutionStart || event["span.id"] != id {
		t.Errorf("unexpected event record %v", event)
	}
	if end["msg"] != "Span ended" || end["status"] != "ok" || end["expr.result"] != float64(1400) {
		t.Errorf("unexpected end record %v", end)
	}
	if _, ok := end["duration"]; !ok {
		t.Error("end record should carry the duration")
	}
}

func TestObserver_NestedSpans(t *testing.T) {
	var buf bytes.Buffer
	obs := newTestObserver(&buf)

	ctx, parent := obs.StartSpan(context.Background(), observability.SpanToolExecution)
	_, child := obs.StartSpan(ctx, observability.SpanExprEvaluate)
	child.End()
	parent.End()

	records := decodeRecords(t, &buf)
	parentID := records[0]["span.id"]
	if records[1]["span.parent_id"] != parentID {
		t.Errorf("child span should reference parent %v, got %v", parentID, records[1])
	}
	if _, ok := records[0]["span.parent_id"]; ok {
		t.Error("root span must not have a parent id")
	}
}

func TestObserver_RecordError(t *testing.T) {
	var buf bytes.Buffer
	obs := newTestObserver(&buf)

	_, span := obs.StartSpan(context.Background(), observability.SpanToolExecution)
	span.RecordError(nil)
	span.RecordError(errors.New("division by zero at position 1: 5 / 0"))
	span.SetStatus(observability.StatusError, "calculation failed")
	span.End()

	records := decodeRecords(t, &buf)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[1]["level"] != "WARN" || records[1]["error"] != "division by zero at position 1: 5 / 0" {
		t.Errorf("unexpected error record %v", records[1])
	}
	end := records[2]
	if end["status"] != "error" || end["status.description"] != "calculation failed" {
		t.Errorf("unexpected end record %v", end)
	}
}

func TestObserver_Metrics(t *testing.T) {
	var buf bytes.Buffer
	obs := newTestObserver(&buf)
	ctx := context.Background()

	if obs.Counter(observability.MetricToolCalls) != obs.Counter(observability.MetricToolCalls) {
		t.Error("Counter should return the same instance for a name")
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obs.Counter(observability.MetricToolCalls).Add(ctx, 2)
		}()
	}
	wg.Wait()

	h := obs.Histogram(observability.MetricToolDuration)
	for _, v := range []float64{4, 1, 7} {
		h.Record(ctx, v, observability.String(observability.AttrToolName, "Calculator"))
	}

	snap := obs.Snapshot()
	if snap.Counters[observability.MetricToolCalls] != 100 {
		t.Errorf("counter = %d, want 100", snap.Counters[observability.MetricToolCalls])
	}
	stats := snap.Histograms[observability.MetricToolDuration]
	if stats.Count != 3 || stats.Sum != 12 || stats.Min != 1 || stats.Max != 7 || stats.Mean() != 4 {
		t.Errorf("unexpected histogram stats %+v", stats)
	}
	if (HistogramStats{}).Mean() != 0 {
		t.Error("empty histogram mean should be 0")
	}
}

func TestObserver_LogLevels(t *testing.T) {
	var buf bytes.Buffer
	obs := New(WithFormat(FormatCompact), WithLevel(slog.LevelInfo), WithOutput(&buf))
	ctx := context.Background()

	obs.Trace(ctx, "trace message")
	obs.Debug(ctx, "debug message")
	obs.Info(ctx, "info message", observability.String(observability.AttrExprInput, "1+1"))
	obs.Warn(ctx, "warn message")
	obs.Error(ctx, "error message")

	out := buf.String()
	for _, hidden := range []string{"trace message", "debug message"} {
		if strings.Contains(out, hidden) {
			t.Errorf("%q should be filtered at INFO", hidden)
		}
	}
	for _, shown := range []string{"info message", `"expr.input":"1+1"`, "warn message", "error message"} {
		if !strings.Contains(out, shown) {
			t.Errorf("expected %q in output %q", shown, out)
		}
	}
}

func TestObserver_TraceLevel(t *testing.T) {
	var buf bytes.Buffer
	obs := New(WithFormat(FormatCompact), WithLevel(LevelTrace), WithOutput(&buf))
	obs.Trace(context.Background(), "tokenized")
	if !strings.Contains(buf.String(), "TRACE") {
		t.Errorf("expected TRACE record, got %q", buf.String())
	}
}

func TestObserver_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	obs := New(WithLogger(logger), WithFormat(FormatJSON))

	if obs.Logger() != logger {
		t.Fatal("WithLogger should be used as is")
	}
	obs.Info(context.Background(), "through text handler")
	if !strings.Contains(buf.String(), "msg=\"through text handler\"") {
		t.Errorf("expected text handler output, got %q", buf.String())
	}
}

func TestNew_ReadsEnvironment(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")

	var buf bytes.Buffer
	obs := New(WithOutput(&buf))
	obs.Warn(context.Background(), "dropped")
	obs.Error(context.Background(), "kept")

	records := decodeRecords(t, &buf)
	if len(records) != 1 || records[0]["msg"] != "kept" {
		t.Errorf("expected only the ERROR record in JSON, got %q", buf.String())
	}
}
