package expr

// DefaultMaxDepth is the default limit on nested parentheses, sign chains
// and power chains accepted by the parser.
const DefaultMaxDepth = 256

// Evaluator runs validate, parse and evaluate over untrusted expressions.
// It holds only immutable configuration and is safe for concurrent use.
type Evaluator struct {
	maxDepth int
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithMaxDepth sets the maximum nesting depth the parser accepts. Values
// below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(e *Evaluator) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// New creates an Evaluator.
//
// Example:
//
//	ev := expr.New(expr.WithMaxDepth(64))
//	v, err := ev.Evaluate("(200*7) / 2")
func New(opts ...Option) *Evaluator {
	e := &Evaluator{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxDepth returns the configured nesting limit.
func (e *Evaluator) MaxDepth() int {
	return e.maxDepth
}

// Parse converts input into an expression tree without evaluating it.
// Input is tokenised directly, so characters outside the arithmetic alphabet
// still fail with [ErrValidation] even when [Validate] was skipped.
func (e *Evaluator) Parse(input string) (Node, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	return newParser(tokens, e.maxDepth).parse()
}

// Evaluate validates, parses and evaluates input. No partial result is
// returned on failure.
func (e *Evaluator) Evaluate(input string) (float64, error) {
	if err := Validate(input); err != nil {
		return 0, err
	}
	root, err := e.Parse(input)
	if err != nil {
		return 0, err
	}
	return Eval(root)
}

var defaultEvaluator = New()

// Parse parses input with the default nesting limit.
func Parse(input string) (Node, error) {
	return defaultEvaluator.Parse(input)
}

// Evaluate validates, parses and evaluates input with the default
// configuration.
//
// Example:
//
//	v, err := expr.Evaluate("2+3*4") // v == 14
func Evaluate(input string) (float64, error) {
	return defaultEvaluator.Evaluate(input)
}
