package calculator

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/leofalp/stockcalc/core/cost"
	"github.com/leofalp/stockcalc/core/expr"
	"github.com/leofalp/stockcalc/providers/observability"
	"github.com/leofalp/stockcalc/providers/tool"
)

// Name is the name the tool is registered and advertised under.
const Name = "Calculator"

const description = "Useful to perform any mathematical calculations, like sum, minus, " +
	"multiplication, division, modulo and power. The input to this tool should be a " +
	"mathematical expression, a couple examples are `200*7` or `5000/2*10`."

// ErrNonFinite is returned when a calculation overflows to ±Inf.
var ErrNonFinite = errors.New("result is not a finite number")

// Input is the argument object of the Calculator tool.
type Input struct {
	Expression string `json:"expression" jsonschema:"description=Arithmetic expression using numbers and + - * / % ^ ( ),example=200*7,example=5000/2*10,required"`
}

// Output carries the value of the expression.
type Output struct {
	Result float64 `json:"result" jsonschema:"description=The result of the calculation"`
}

// Calculator evaluates expressions with a configured expr.Evaluator.
type Calculator struct {
	evaluator *expr.Evaluator
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithEvaluator replaces the default evaluator, e.g. to change the nesting
// limit. A nil evaluator is ignored.
func WithEvaluator(ev *expr.Evaluator) Option {
	return func(c *Calculator) {
		if ev != nil {
			c.evaluator = ev
		}
	}
}

func New(opts ...Option) *Calculator {
	c := &Calculator{evaluator: expr.New()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewCalculatorTool returns the Calculator tool. It runs locally, so it is
// advertised as free and exact.
func NewCalculatorTool(opts ...Option) *tool.Tool[Input, Output] {
	return tool.NewTool(
		Name,
		New(opts...).Calc,
		tool.WithDescription(description),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0,
			Currency:                "USD",
			CostDescription:         "local computation",
			Accuracy:                1.0,
			AverageDurationInMillis: 1,
		}),
	)
}

// Calc evaluates in.Expression.
//
// Every failure is returned as "calculator: calculation error: <detail>"
// wrapping the underlying *expr.Error, so errors.Is works with the expr
// sentinels. Results that overflow to ±Inf are rejected with ErrNonFinite
// because JSON cannot represent them.
func (c *Calculator) Calc(ctx context.Context, in Input) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrExprInput, observability.TruncateString(in.Expression, 0)),
			observability.Int(observability.AttrExprMaxDepth, c.evaluator.MaxDepth()),
		)
	}

	result, err := c.evaluator.Evaluate(in.Expression)
	if err == nil && (math.IsInf(result, 0) || math.IsNaN(result)) {
		err = fmt.Errorf("%w: %g", ErrNonFinite, result)
	}
	if err != nil {
		c.report(ctx, span, in.Expression, err)
		return Output{}, fmt.Errorf("calculator: calculation error: %w", err)
	}

	if span != nil {
		span.SetAttributes(observability.Float64(observability.AttrExprResult, result))
	}
	return Output{Result: result}, nil
}

// report attaches the failure details to the span and logs them.
func (c *Calculator) report(ctx context.Context, span observability.Span, input string, err error) {
	attrs := []observability.Attribute{
		observability.String(observability.AttrExprInput, observability.TruncateString(input, 0)),
		observability.Error(err),
	}
	var exprErr *expr.Error
	if errors.As(err, &exprErr) {
		attrs = append(attrs,
			observability.String(observability.AttrExprErrorKind, exprErr.Kind.String()),
			observability.Int(observability.AttrExprErrorPos, exprErr.Pos),
		)
	}

	if span != nil {
		span.SetAttributes(attrs[2:]...)
	}
	if provider := observability.ProviderFromContext(ctx); provider != nil {
		provider.Counter(observability.MetricExprErrors).Add(ctx, 1, attrs[2:]...)
		provider.Debug(ctx, "Expression rejected", attrs...)
	}
}

// Calc evaluates in.Expression with the default evaluator.
//
//	out, err := calculator.Calc(ctx, calculator.Input{Expression: "200*7"})
//	// out.Result == 1400
func Calc(ctx context.Context, in Input) (Output, error) {
	return defaultCalculator.Calc(ctx, in)
}

var defaultCalculator = New()
