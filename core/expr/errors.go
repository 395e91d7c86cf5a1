package expr

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an evaluation failure.
type ErrorKind int

const (
	// KindValidation means the input contains a character outside the
	// arithmetic alphabet.
	KindValidation ErrorKind = iota + 1
	// KindSyntax means the input is made of legal characters but does not
	// form a well-formed expression.
	KindSyntax
	// KindDivisionByZero means a division or modulo had a zero divisor.
	KindDivisionByZero
	// KindUndefinedResult means an operation produced a value that is not a
	// real number (NaN).
	KindUndefinedResult
	// KindUnsupportedOperator means an operator or node outside the
	// whitelist reached the evaluator.
	KindUnsupportedOperator
)

// String returns the human-readable name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindSyntax:
		return "syntax error"
	case KindDivisionByZero:
		return "division by zero"
	case KindUndefinedResult:
		return "undefined result"
	case KindUnsupportedOperator:
		return "unsupported operator"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinel errors, one per [ErrorKind]. Every *[Error] unwraps to the
// sentinel of its kind.
//
// Example:
//
//	if errors.Is(err, expr.ErrDivisionByZero) {
//	    // the expression divided by zero
//	}
var (
	ErrValidation          = errors.New("expr: invalid character in expression")
	ErrSyntax              = errors.New("expr: malformed expression")
	ErrDivisionByZero      = errors.New("expr: division by zero")
	ErrUndefinedResult     = errors.New("expr: result is not a real number")
	ErrUnsupportedOperator = errors.New("expr: unsupported operator")
)

// Error describes why an expression could not be evaluated.
type Error struct {
	Kind ErrorKind
	// Pos is the byte offset in the input the error refers to, or -1 when
	// no position applies.
	Pos int
	Msg string
}

func (e *Error) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s at position %d: %s", e.Kind, e.Pos, e.Msg)
}

// Unwrap returns the sentinel error matching e.Kind.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindValidation:
		return ErrValidation
	case KindSyntax:
		return ErrSyntax
	case KindDivisionByZero:
		return ErrDivisionByZero
	case KindUndefinedResult:
		return ErrUndefinedResult
	case KindUnsupportedOperator:
		return ErrUnsupportedOperator
	default:
		return nil
	}
}

func syntaxErrorf(pos int, format string, args ...any) *Error {
	return &Error{Kind: KindSyntax, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
