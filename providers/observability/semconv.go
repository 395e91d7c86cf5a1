package observability

// Attribute keys, span names, event names and metric names shared by the
// tool layer and the calculator. Providers rely on these to group records.

// Tool execution. AttrToolInput holds the raw argument string, truncated.
const (
	AttrToolName        = "tool.name"
	AttrToolDescription = "tool.description"
	AttrToolInput       = "tool.input"
	AttrToolOutput      = "tool.output"
	AttrToolDuration    = "tool.duration"
	AttrToolError       = "tool.error"
	AttrToolCost        = "tool.cost"
)

// Expression evaluation. AttrExprErrorKind carries the expr.ErrorKind text
// and AttrExprErrorPos the 0-based byte offset of the failure.
const (
	AttrExprInput     = "expr.input"
	AttrExprResult    = "expr.result"
	AttrExprErrorKind = "expr.error.kind"
	AttrExprErrorPos  = "expr.error.position"
	AttrExprMaxDepth  = "expr.max_depth"
)

// Status and errors.
const (
	AttrStatus            = "status"
	AttrStatusDescription = "status.description"
	AttrError             = "error"
	AttrErrorType         = "error.type"
)

// Span names.
const (
	SpanToolExecution = "tool.execute"
	SpanExprEvaluate  = "expr.evaluate"
)

// Event names.
const (
	EventToolExecutionStart = "tool.execution.start"
	EventToolExecutionEnd   = "tool.execution.end"
	EventToolInputParsed    = "tool.input.parsed"
)

// Metric names.
const (
	MetricToolCalls    = "stockcalc.tool.calls"
	MetricToolErrors   = "stockcalc.tool.errors"
	MetricToolDuration = "stockcalc.tool.duration"
	MetricExprErrors   = "stockcalc.expr.errors"
)
