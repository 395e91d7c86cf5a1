// Package expr implements a restricted arithmetic expression evaluator for
// untrusted input, such as expressions produced by a language model.
//
// Evaluation runs in three independent phases, each terminal on failure:
//
//  1. [Validate] rejects any character outside the arithmetic alphabet
//     (digits, '.', space, parentheses and the operators + - * / % ^).
//  2. [Parse] builds a closed expression tree ([Literal], [BinaryOp],
//     [UnaryOp]) using ordinary precedence: unary +/- bind tightest, then
//     '^' (right-associative, "**" is accepted as a synonym), then * / %,
//     then + -.
//  3. [Eval] walks the tree with a fixed operator table. Nothing in the
//     input is ever executed or looked up dynamically.
//
// [Evaluate] runs all three phases. Failures are reported as *[Error] and can
// be matched with [errors.Is] against [ErrValidation], [ErrSyntax],
// [ErrDivisionByZero], [ErrUndefinedResult] and [ErrUnsupportedOperator].
//
// All values are float64. Division and modulo by zero fail, modulo is floored
// (the result takes the sign of the divisor) and any operation that yields
// NaN, such as a negative base raised to a fractional power, fails with
// [ErrUndefinedResult]. Overflow follows IEEE 754 and produces ±Inf.
package expr
