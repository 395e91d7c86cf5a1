package expr

import (
	"fmt"
	"math"
)

type binaryFunc func(a, b float64) (float64, *Error)

type unaryFunc func(a float64) float64

// binaryOps and unaryOps are the only operations the evaluator can perform.
var binaryOps = map[BinaryOperator]binaryFunc{
	OpAdd: func(a, b float64) (float64, *Error) { return a + b, nil },
	OpSub: func(a, b float64) (float64, *Error) { return a - b, nil },
	OpMul: func(a, b float64) (float64, *Error) { return a * b, nil },
	OpDiv: divide,
	OpMod: modulo,
	OpPow: func(a, b float64) (float64, *Error) { return math.Pow(a, b), nil },
}

var unaryOps = map[UnaryOperator]unaryFunc{
	OpNeg: func(a float64) float64 { return -a },
	OpPos: func(a float64) float64 { return a },
}

func divide(a, b float64) (float64, *Error) {
	if b == 0 {
		return 0, &Error{Kind: KindDivisionByZero, Msg: fmt.Sprintf("%g / 0", a)}
	}
	return a / b, nil
}

// modulo is floored: a non-zero result has the sign of b, so -7 % 3 == 2.
func modulo(a, b float64) (float64, *Error) {
	if b == 0 {
		return 0, &Error{Kind: KindDivisionByZero, Msg: fmt.Sprintf("%g %% 0", a)}
	}
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r, nil
}

// evalFrame is one pending step of the post-order walk. expanded is set once
// the node's children have been scheduled.
type evalFrame struct {
	node     Node
	expanded bool
}

// Eval computes the value of an expression tree built by [Parse].
//
// The walk is iterative, so its stack usage does not depend on the depth of
// the tree. It fails with [ErrDivisionByZero] on a zero divisor, with
// [ErrUndefinedResult] when an operation yields NaN, and with
// [ErrUnsupportedOperator] when the tree holds an operator or node that is
// not in the whitelist.
func Eval(root Node) (float64, error) {
	if root == nil {
		return 0, &Error{Kind: KindUnsupportedOperator, Pos: -1, Msg: "missing expression node"}
	}

	stack := []evalFrame{{node: root}}
	values := make([]float64, 0, 8)

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n := frame.node.(type) {
		case *Literal:
			values = append(values, n.Value)

		case *UnaryOp:
			if !frame.expanded {
				stack = append(stack, evalFrame{node: n, expanded: true}, evalFrame{node: n.Operand})
				continue
			}
			fn, ok := unaryOps[n.Op]
			if !ok {
				return 0, unsupported(n.At.Start, n.Op.String())
			}
			values[len(values)-1] = fn(values[len(values)-1])

		case *BinaryOp:
			if !frame.expanded {
				// Left is pushed last so it is evaluated first.
				stack = append(stack, evalFrame{node: n, expanded: true}, evalFrame{node: n.Right}, evalFrame{node: n.Left})
				continue
			}
			fn, ok := binaryOps[n.Op]
			if !ok {
				return 0, unsupported(n.OpPos, n.Op.String())
			}
			a, b := values[len(values)-2], values[len(values)-1]
			values = values[:len(values)-2]

			result, opErr := fn(a, b)
			if opErr != nil {
				opErr.Pos = n.OpPos
				return 0, opErr
			}
			if math.IsNaN(result) {
				return 0, &Error{
					Kind: KindUndefinedResult,
					Pos:  n.OpPos,
					Msg:  fmt.Sprintf("%g %s %g is not a real number", a, n.Op, b),
				}
			}
			values = append(values, result)

		default:
			return 0, &Error{Kind: KindUnsupportedOperator, Pos: -1, Msg: fmt.Sprintf("unsupported node %T", frame.node)}
		}
	}

	if len(values) != 1 {
		return 0, &Error{Kind: KindUnsupportedOperator, Pos: -1, Msg: "malformed expression tree"}
	}
	return values[0], nil
}

func unsupported(pos int, op string) *Error {
	return &Error{Kind: KindUnsupportedOperator, Pos: pos, Msg: fmt.Sprintf("operator %q is not supported", op)}
}
