package cost

import (
	"fmt"
	"strings"
)

// ToolMetrics describes what a single tool execution costs and how it is
// expected to perform. Tools advertise it so callers can account for spend
// and pick between equivalent tools.
//
// Example usage:
//
//	metrics := cost.ToolMetrics{
//	    Amount:                  0.0,
//	    Currency:                "USD",
//	    CostDescription:         "local computation",
//	    Accuracy:                1.0,
//	    AverageDurationInMillis: 1,
//	}
type ToolMetrics struct {
	// Amount is the cost of executing the tool once.
	Amount float64 `json:"amount"`

	// Currency is the unit of Amount (e.g., "USD", "credits"). Empty means USD.
	Currency string `json:"currency,omitempty"`

	// CostDescription gives context about the cost (e.g., "per call").
	CostDescription string `json:"cost_description,omitempty"`

	// Accuracy is a reliability score between 0.0 and 1.0.
	Accuracy float64 `json:"accuracy,omitempty"`

	// AverageDurationInMillis is the typical execution time.
	AverageDurationInMillis int64 `json:"average_duration_ms,omitempty"`
}

// String returns the cost formatted with its currency and description.
func (m ToolMetrics) String() string {
	currency := m.Currency
	if currency == "" {
		currency = "USD"
	}

	result := fmt.Sprintf("%.6f %s", m.Amount, currency)
	if m.CostDescription != "" {
		result = fmt.Sprintf("%s (%s)", result, m.CostDescription)
	}
	return result
}

// MetricsString returns the quality metrics that are set, or "" if none are.
func (m ToolMetrics) MetricsString() string {
	var parts []string
	if m.Accuracy > 0 {
		parts = append(parts, fmt.Sprintf("Accuracy: %.1f%%", m.Accuracy*100))
	}
	if m.AverageDurationInMillis > 0 {
		parts = append(parts, fmt.Sprintf("Avg duration: %dms", m.AverageDurationInMillis))
	}
	return strings.Join(parts, ", ")
}

// CostSummary accumulates tool execution costs over a run.
// It is not safe for concurrent use.
type CostSummary struct {
	// ToolCosts maps tool names to their accumulated execution costs.
	ToolCosts map[string]float64 `json:"tool_costs,omitempty"`

	// ToolExecutionCount tracks how many times each tool was called.
	ToolExecutionCount map[string]int `json:"tool_execution_count,omitempty"`

	// TotalToolCost is the sum of all tool execution costs.
	TotalToolCost float64 `json:"total_tool_cost"`

	// Currency is always "USD" for consistency.
	Currency string `json:"currency"`
}

// NewCostSummary returns an empty summary.
func NewCostSummary() *CostSummary {
	return &CostSummary{
		ToolCosts:          make(map[string]float64),
		ToolExecutionCount: make(map[string]int),
		Currency:           "USD",
	}
}

// AddToolExecution records one execution of the named tool. A nil metrics
// value counts the call at zero cost.
func (s *CostSummary) AddToolExecution(name string, metrics *ToolMetrics) {
	s.ToolExecutionCount[name]++
	if metrics == nil {
		return
	}
	s.ToolCosts[name] += metrics.Amount
	s.TotalToolCost += metrics.Amount
}

// String returns a one-line summary.
func (s *CostSummary) String() string {
	calls := 0
	for _, n := range s.ToolExecutionCount {
		calls += n
	}
	return fmt.Sprintf("%d tool call(s), total %.6f %s", calls, s.TotalToolCost, s.Currency)
}
