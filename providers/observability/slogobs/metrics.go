package slogobs

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/leofalp/stockcalc/providers/observability"
)

// Snapshot is a point-in-time copy of an Observer's metrics.
type Snapshot struct {
	Counters   map[string]int64
	Histograms map[string]HistogramStats
}

// HistogramStats summarizes the values recorded by a histogram.
type HistogramStats struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
}

// Mean returns Sum/Count, or 0 when nothing was recorded.
func (s HistogramStats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

type metricsStore struct {
	mu         sync.RWMutex
	counters   map[string]*slogCounter
	histograms map[string]*slogHistogram
}

func newMetricsStore() *metricsStore {
	return &metricsStore{
		counters:   make(map[string]*slogCounter),
		histograms: make(map[string]*slogHistogram),
	}
}

func (m *metricsStore) getCounter(name string, logger *slog.Logger) *slogCounter {
	m.mu.RLock()
	counter, exists := m.counters[name]
	m.mu.RUnlock()
	if exists {
		return counter
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another goroutine may have created it between the two locks.
	if counter, exists := m.counters[name]; exists {
		return counter
	}
	counter = &slogCounter{name: name, logger: logger}
	m.counters[name] = counter
	return counter
}

func (m *metricsStore) getHistogram(name string, logger *slog.Logger) *slogHistogram {
	m.mu.RLock()
	histogram, exists := m.histograms[name]
	m.mu.RUnlock()
	if exists {
		return histogram
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if histogram, exists := m.histograms[name]; exists {
		return histogram
	}
	histogram = &slogHistogram{
		name:   name,
		logger: logger,
		stats:  HistogramStats{Min: math.Inf(1), Max: math.Inf(-1)},
	}
	m.histograms[name] = histogram
	return histogram
}

func (m *metricsStore) snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Counters:   make(map[string]int64, len(m.counters)),
		Histograms: make(map[string]HistogramStats, len(m.histograms)),
	}
	for name, c := range m.counters {
		c.mu.Lock()
		snap.Counters[name] = c.value
		c.mu.Unlock()
	}
	for name, h := range m.histograms {
		h.mu.Lock()
		snap.Histograms[name] = h.stats
		h.mu.Unlock()
	}
	return snap
}

type slogCounter struct {
	name   string
	logger *slog.Logger
	mu     sync.Mutex
	value  int64
}

// Add increments the counter and logs the new total at DEBUG.
func (c *slogCounter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	c.mu.Lock()
	c.value += value
	current := c.value
	c.mu.Unlock()

	logAttrs := []slog.Attr{
		slog.String("metric", c.name),
		slog.String("type", "counter"),
		slog.Int64("value", current),
		slog.Int64("delta", value),
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "Counter", appendAttributes(logAttrs, attrs)...)
}

type slogHistogram struct {
	name   string
	logger *slog.Logger
	mu     sync.Mutex
	stats  HistogramStats
}

// Record adds value to the histogram and logs it at DEBUG.
func (h *slogHistogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	h.mu.Lock()
	h.stats.Count++
	h.stats.Sum += value
	h.stats.Min = math.Min(h.stats.Min, value)
	h.stats.Max = math.Max(h.stats.Max, value)
	h.mu.Unlock()

	logAttrs := []slog.Attr{
		slog.String("metric", h.name),
		slog.String("type", "histogram"),
		slog.Float64("value", value),
	}
	h.logger.LogAttrs(ctx, slog.LevelDebug, "Histogram", appendAttributes(logAttrs, attrs)...)
}
