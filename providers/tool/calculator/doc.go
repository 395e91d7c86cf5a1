// Package calculator provides the Calculator tool: it evaluates an arithmetic
// expression written by a language model and returns the number.
//
// Expressions are handled by core/expr, which only understands numbers,
// + - * / % ^ (also written **), unary signs and parentheses. Nothing else
// is ever executed.
//
//	calc := calculator.NewCalculatorTool()
//	out, err := calc.Call(ctx, `{"expression": "5000/2*10"}`) // {"result":25000}
package calculator
