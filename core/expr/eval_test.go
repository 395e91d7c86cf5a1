package expr

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"200*7", 1400},
		{"5000/2*10", 25000},
		{"10/4", 2.5},
		{"-5+3", -2},
		{"--5", 5},
		{"+-+3", -3},
		{"2*-3", -6},
		{"2^3^2", 512},
		{"2**3**2", 512},
		{"2**3", 8},
		{"-2^2", 4},
		{"2^-1", 0.5},
		{"(2^3)^2", 64},
		{"7%3", 1},
		{"-7%3", 2},
		{"7%-3", -2},
		{"-7%-3", -1},
		{"5.5%2", 1.5},
		{"6%3", 0},
		{".5+5.", 5.5},
		{"1-2-3", -4},
		{"100/10/5", 2},
		{"2 + 3", 5},
		{"  ( 1 + 2 ) * ( 3 + 4 )  ", 21},
		{"0", 0},
		{"9^0.5", 3},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Evaluate(tc.input)
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, got, 1e-12)
		})
	}
}

func TestEvaluateFloatingPoint(t *testing.T) {
	got, err := Evaluate("0.1+0.2")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, got, 1e-15)
}

func TestEvaluateDivisionByZero(t *testing.T) {
	tests := []struct {
		input string
		pos   int
	}{
		{"5/0", 1},
		{"5%0", 1},
		{"5/0.0", 1},
		{"1 + 5/(3-3)", 5},
		{"0/0", 1},
		{"2%(1-1)", 1},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			_, err := Evaluate(tc.input)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrDivisionByZero), "got %v", err)

			var exprErr *Error
			require.True(t, errors.As(err, &exprErr))
			require.Equal(t, tc.pos, exprErr.Pos)
		})
	}
}

func TestEvaluateUndefinedResult(t *testing.T) {
	for _, input := range []string{"(-8)^(1/3)", "(-1)^0.5", "10^400-10^400", "(10^400)%2"} {
		_, err := Evaluate(input)
		require.Error(t, err, "input %q", input)
		require.True(t, errors.Is(err, ErrUndefinedResult), "input %q: %v", input, err)
	}
}

func TestEvaluateOverflowFollowsFloatRange(t *testing.T) {
	got, err := Evaluate("10^400")
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))

	got, err = Evaluate("-(10^400)")
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, -1))

	got, err = Evaluate("0^-1")
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))

	got, err = Evaluate(strings.Repeat("9", 400))
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))
}

func TestEvaluateSyntaxAndValidationErrors(t *testing.T) {
	_, err := Evaluate("(1+2")
	assert.True(t, errors.Is(err, ErrSyntax))

	_, err = Evaluate("1+2)")
	assert.True(t, errors.Is(err, ErrSyntax))

	_, err = Evaluate("")
	assert.True(t, errors.Is(err, ErrSyntax))

	_, err = Evaluate("__import__('os').system('ls')")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = Evaluate("2+2; 1")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestEvaluateValidationRunsBeforeParsing(t *testing.T) {
	// Malformed structure and an illegal character: the character wins.
	_, err := Evaluate("((((a")
	require.True(t, errors.Is(err, ErrValidation))
	require.False(t, errors.Is(err, ErrSyntax))
}

func TestEvalLongChainsIteratively(t *testing.T) {
	input := "1" + strings.Repeat("+1", 100000)
	got, err := Evaluate(input)
	require.NoError(t, err)
	assert.Equal(t, float64(100001), got)

	input = "2" + strings.Repeat("*1", 100000)
	got, err = Evaluate(input)
	require.NoError(t, err)
	assert.Equal(t, float64(2), got)
}

func TestEvalUnsupportedOperator(t *testing.T) {
	tests := []struct {
		name string
		root Node
	}{
		{"nil root", nil},
		{"unknown binary operator", &BinaryOp{Op: BinaryOperator(99), Left: &Literal{Value: 1}, Right: &Literal{Value: 2}}},
		{"unknown unary operator", &UnaryOp{Op: UnaryOperator(0), Operand: &Literal{Value: 1}}},
		{"missing operand", &BinaryOp{Op: OpAdd, Left: &Literal{Value: 1}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Eval(tc.root)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrUnsupportedOperator), "got %v", err)
		})
	}
}

func TestErrorMessages(t *testing.T) {
	_, err := Evaluate("5/0")
	require.EqualError(t, err, "division by zero at position 1: 5 / 0")

	_, err = Evaluate("2+a")
	require.EqualError(t, err, `validation error at position 2: letter 'a' is not allowed in an arithmetic expression`)

	err = &Error{Kind: KindUnsupportedOperator, Pos: -1, Msg: "missing expression node"}
	require.EqualError(t, err, "unsupported operator: missing expression node")
}
