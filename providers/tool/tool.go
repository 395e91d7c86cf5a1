package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leofalp/stockcalc/core/cost"
	"github.com/leofalp/stockcalc/core/parse"
	"github.com/leofalp/stockcalc/internal/jsonschema"
	"github.com/leofalp/stockcalc/providers/observability"
)

// Description is what a tool advertises to a language model.
type Description struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
	Output      *jsonschema.Schema `json:"output,omitempty"`
	Metrics     *cost.ToolMetrics  `json:"-"`
}

// GenericTool is implemented by every Tool regardless of its type
// parameters.
type GenericTool interface {
	ToolInfo() Description
	// Call decodes inputJSON, runs the tool and returns its JSON-encoded
	// output.
	Call(ctx context.Context, inputJSON string) (string, error)
	GetMetrics() *cost.ToolMetrics
}

// Tool binds a name and description to a typed function.
type Tool[I, O any] struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Output      *jsonschema.Schema
	Function    func(ctx context.Context, input I) (O, error)
	Metrics     *cost.ToolMetrics
}

var _ GenericTool = (*Tool[struct{}, struct{}])(nil)

type funcToolOptions struct {
	Description string
	Metrics     *cost.ToolMetrics
}

// Option configures a tool built by NewTool.
type Option func(*funcToolOptions)

// WithDescription sets the text the model reads to decide when to call the
// tool.
func WithDescription(description string) Option {
	return func(o *funcToolOptions) {
		o.Description = description
	}
}

// WithMetrics attaches cost and performance figures to the tool.
func WithMetrics(toolMetrics cost.ToolMetrics) Option {
	return func(o *funcToolOptions) {
		o.Metrics = &toolMetrics
	}
}

// NewTool builds a Tool and derives the schemas of I and O.
//
// NewTool panics when I or O carries a jsonschema tag that cannot be
// applied, since the types are fixed at compile time.
//
//	calc := tool.NewTool("Calculator", calculator.Calc,
//	    tool.WithDescription("Evaluates arithmetic expressions."),
//	)
func NewTool[I, O any](name string, function func(ctx context.Context, input I) (O, error), options ...Option) *Tool[I, O] {
	opts := &funcToolOptions{}
	for _, option := range options {
		option(opts)
	}

	return &Tool[I, O]{
		Name:        name,
		Description: opts.Description,
		Parameters:  mustSchema[I](name),
		Output:      mustSchema[O](name),
		Function:    function,
		Metrics:     opts.Metrics,
	}
}

func mustSchema[T any](toolName string) *jsonschema.Schema {
	schema, err := jsonschema.GenerateJSONSchema[T]()
	if err != nil {
		panic(fmt.Sprintf("tool %s: schema for %T: %v", toolName, *new(T), err))
	}
	return schema
}

func (t *Tool[I, O]) ToolInfo() Description {
	return Description{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
		Output:      t.Output,
		Metrics:     t.Metrics,
	}
}

func (t *Tool[I, O]) GetMetrics() *cost.ToolMetrics {
	return t.Metrics
}

// Call runs the tool on a JSON argument string.
//
// The arguments are decoded leniently with parse.ParseStringAs. Errors from
// the tool function are returned unchanged; decoding and encoding failures
// are prefixed with the tool name.
//
// When ctx carries an observability.Provider, Call opens a tool.execute span
// and records the call count, error count and duration metrics. Otherwise
// events are added to the span already in ctx, if any.
func (t *Tool[I, O]) Call(ctx context.Context, inputJSON string) (string, error) {
	provider := observability.ProviderFromContext(ctx)
	span := observability.SpanFromContext(ctx)
	nameAttr := observability.String(observability.AttrToolName, t.Name)

	if provider != nil {
		ctx, span = provider.StartSpan(ctx, observability.SpanToolExecution, nameAttr)
		defer span.End()
	}
	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			nameAttr,
			observability.String(observability.AttrToolInput, observability.TruncateString(inputJSON, 0)),
		)
		defer span.AddEvent(observability.EventToolExecutionEnd, nameAttr)
	}

	start := time.Now()
	output, err := t.call(ctx, span, inputJSON)
	duration := time.Since(start)

	if provider != nil {
		provider.Counter(observability.MetricToolCalls).Add(ctx, 1, nameAttr)
		provider.Histogram(observability.MetricToolDuration).Record(ctx, float64(duration.Microseconds())/1000, nameAttr)
		if err != nil {
			provider.Counter(observability.MetricToolErrors).Add(ctx, 1, nameAttr)
		}
	}

	if span == nil {
		return output, err
	}
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(
			observability.String(observability.AttrToolError, err.Error()),
			observability.Duration(observability.AttrToolDuration, duration),
		)
		span.SetStatus(observability.StatusError, "tool call failed")
		return "", err
	}

	attrs := []observability.Attribute{
		observability.String(observability.AttrToolOutput, output),
		observability.Duration(observability.AttrToolDuration, duration),
	}
	if t.Metrics != nil {
		attrs = append(attrs, observability.String(observability.AttrToolCost, t.Metrics.String()))
	}
	span.SetAttributes(attrs...)
	span.SetStatus(observability.StatusOK, "")
	return output, nil
}

func (t *Tool[I, O]) call(ctx context.Context, span observability.Span, inputJSON string) (string, error) {
	input, err := parse.ParseStringAs[I](inputJSON)
	if err != nil {
		return "", fmt.Errorf("tool %s: invalid input: %w", t.Name, err)
	}
	if span != nil {
		span.AddEvent(observability.EventToolInputParsed)
	}

	output, err := t.Function(ctx, input)
	if err != nil {
		return "", err
	}

	encoded, err := json.Marshal(output)
	if err != nil {
		return "", fmt.Errorf("tool %s: encoding output: %w", t.Name, err)
	}
	return string(encoded), nil
}
