package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsArithmeticAlphabet(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"200*7",
		"5000/2*10",
		"(1.5 + .5) % 2",
		"2^3^2",
		"2**3",
		"-(-(+4))",
	}
	for _, input := range inputs {
		require.NoError(t, Validate(input), "input %q", input)
	}
}

func TestValidateRejectsForeignCharacters(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		class string
	}{
		{"2+a", 2, "letter"},
		{"__import__('os')", 0, "symbol"},
		{"1e5", 1, "letter"},
		{"2\t+3", 1, "whitespace character"},
		{"1,000", 1, "symbol"},
		{"3 & 1", 2, "symbol"},
		{"2 = 2", 2, "symbol"},
		{"4\x00", 1, "control character"},
		{"1+٣", 2, "non-ASCII digit"},
		{"7\xff", 1, "invalid UTF-8 sequence"},
		{"x", 0, "letter"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			err := Validate(tc.input)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrValidation))

			var exprErr *Error
			require.True(t, errors.As(err, &exprErr))
			require.Equal(t, KindValidation, exprErr.Kind)
			require.Equal(t, tc.pos, exprErr.Pos)
			require.Contains(t, exprErr.Msg, tc.class)
		})
	}
}

func TestTokenize(t *testing.T) {
	tokens, err := tokenize(" 2**3 % (4.5)- .5")
	require.NoError(t, err)

	expected := []Token{
		{Kind: TokenNumber, Value: 2, Text: "2", Pos: 1},
		{Kind: TokenOperator, Op: '^', Text: "**", Pos: 2},
		{Kind: TokenNumber, Value: 3, Text: "3", Pos: 4},
		{Kind: TokenOperator, Op: '%', Text: "%", Pos: 6},
		{Kind: TokenLParen, Text: "(", Pos: 8},
		{Kind: TokenNumber, Value: 4.5, Text: "4.5", Pos: 9},
		{Kind: TokenRParen, Text: ")", Pos: 12},
		{Kind: TokenOperator, Op: '-', Text: "-", Pos: 13},
		{Kind: TokenNumber, Value: 0.5, Text: ".5", Pos: 15},
		{Kind: TokenEnd, Pos: 17},
	}
	require.Equal(t, expected, tokens)
}

func TestTokenizeNumberForms(t *testing.T) {
	tests := []struct {
		input string
		value float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.25", 3.25},
		{".5", 0.5},
		{"5.", 5},
		{"007", 7},
	}
	for _, tc := range tests {
		tokens, err := tokenize(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		require.Len(t, tokens, 2)
		require.Equal(t, TokenNumber, tokens[0].Kind)
		require.Equal(t, tc.value, tokens[0].Value)
	}
}

func TestTokenizeMalformedNumbers(t *testing.T) {
	for _, input := range []string{".", "1.2.3", "1..2", "2+."} {
		_, err := tokenize(input)
		require.Error(t, err, "input %q", input)
		require.True(t, errors.Is(err, ErrSyntax), "input %q: %v", input, err)
	}
}

func TestTokenizeRejectsUnvalidatedInput(t *testing.T) {
	_, err := tokenize("1+x")
	require.True(t, errors.Is(err, ErrValidation))
}
