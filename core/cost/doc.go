// Package cost defines the cost and performance metadata attached to tools
// and a simple accumulator for the cost of a run.
//
// [ToolMetrics] is advertised by each tool; [CostSummary] totals executions
// per tool name.
package cost
