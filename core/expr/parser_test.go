package expr

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrecedenceAndAssociativity(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1+2*3", "(1 + (2 * 3))"},
		{"(1+2)*3", "((1 + 2) * 3)"},
		{"1-2-3", "((1 - 2) - 3)"},
		{"8/4/2", "((8 / 4) / 2)"},
		{"10%3*2", "((10 % 3) * 2)"},
		{"2^3^2", "(2 ^ (3 ^ 2))"},
		{"2**3**2", "(2 ^ (3 ^ 2))"},
		{"-2^2", "((-2) ^ 2)"},
		{"2^-1", "(2 ^ (-1))"},
		{"--5", "(-(-5))"},
		{"+-+3", "(+(-(+3)))"},
		{"2*-3", "(2 * (-3))"},
		{"-(1+2)", "(-(1 + 2))"},
		{"((7))", "7"},
		{" 1 +  2 ", "(1 + 2)"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			node, err := Parse(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.expected, node.String())
		})
	}
}

func TestParseSpans(t *testing.T) {
	node, err := Parse("(1+2)*3")
	require.NoError(t, err)

	root, ok := node.(*BinaryOp)
	require.True(t, ok)
	require.Equal(t, OpMul, root.Op)
	require.Equal(t, 5, root.OpPos)
	require.Equal(t, Span{Start: 0, End: 7}, root.Span())
	require.Equal(t, Span{Start: 0, End: 5}, root.Left.Span())
	require.Equal(t, Span{Start: 6, End: 7}, root.Right.Span())

	node, err = Parse("  12 ")
	require.NoError(t, err)
	require.Equal(t, Span{Start: 2, End: 4}, node.Span())

	node, err = Parse("-4")
	require.NoError(t, err)
	unary, ok := node.(*UnaryOp)
	require.True(t, ok)
	require.Equal(t, OpNeg, unary.Op)
	require.Equal(t, Span{Start: 0, End: 2}, unary.Span())
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		msg   string
	}{
		{"", 0, "empty expression"},
		{"   ", 3, "empty expression"},
		{"(1+2", 4, "missing ')'"},
		{"1+2)", 3, "unmatched ')'"},
		{"()", 1, "empty parentheses"},
		{"1+", 2, "unexpected end of expression"},
		{"*2", 0, "unexpected operator '*'"},
		{"2 3", 2, "unexpected number 3"},
		{"2***3", 3, "unexpected operator '*'"},
		{"2*(3+4", 6, "missing ')'"},
		{"((1)", 4, "missing ')'"},
		{"1+()", 3, "empty parentheses"},
		{"2^", 2, "unexpected end of expression"},
		{"%5", 0, "unexpected operator '%'"},
		{"(1 2)", 3, "expected ')' but found number 2"},
		{")", 0, "unexpected ')'"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			_, err := Parse(tc.input)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrSyntax), "got %v", err)

			var exprErr *Error
			require.True(t, errors.As(err, &exprErr))
			require.Equal(t, tc.pos, exprErr.Pos)
			require.Contains(t, exprErr.Msg, tc.msg)
		})
	}
}

func TestParseDepthLimit(t *testing.T) {
	nested := strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300)

	_, err := Parse(nested)
	require.True(t, errors.Is(err, ErrSyntax))
	require.Contains(t, err.Error(), "nested too deeply")

	node, err := New(WithMaxDepth(1000)).Parse(nested)
	require.NoError(t, err)
	require.Equal(t, "1", node.String())

	_, err = Parse(strings.Repeat("-", 300) + "1")
	require.True(t, errors.Is(err, ErrSyntax))

	_, err = Parse("2" + strings.Repeat("^2", 300))
	require.True(t, errors.Is(err, ErrSyntax))
}

func TestParseDepthIsPerBranch(t *testing.T) {
	// Sibling groups do not accumulate depth.
	input := strings.Repeat("(1)+", 1000) + "(1)"
	ev := New(WithMaxDepth(2))

	node, err := ev.Parse(input)
	require.NoError(t, err)
	require.NotNil(t, node)
}
