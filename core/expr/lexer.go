package expr

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// Validate reports whether input is made only of characters that may appear
// in an arithmetic expression: ASCII digits, '.', ' ', '(', ')' and the
// operators + - * / % ^. The first offending character is named in the
// returned *Error together with its byte offset.
//
// Validate does not check structure; an empty string is valid here and
// rejected later by [Parse].
func Validate(input string) error {
	for i, r := range input {
		if !isAllowed(r) {
			return &Error{
				Kind: KindValidation,
				Pos:  i,
				Msg:  fmt.Sprintf("%s %q is not allowed in an arithmetic expression", charClass(r), r),
			}
		}
	}
	return nil
}

func isAllowed(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '^', '(', ')', '.', ' ':
		return true
	}
	return r >= '0' && r <= '9'
}

// charClass names the class of a rejected character.
func charClass(r rune) string {
	switch {
	case r == unicode.ReplacementChar:
		return "invalid UTF-8 sequence"
	case unicode.IsLetter(r):
		return "letter"
	case unicode.IsDigit(r):
		return "non-ASCII digit"
	case unicode.IsSpace(r):
		return "whitespace character"
	case unicode.IsControl(r):
		return "control character"
	default:
		return "symbol"
	}
}

// lexer splits validated input into tokens.
type lexer struct {
	input string
	pos   int
}

// tokenize scans the whole input and returns the token stream terminated by
// a TokenEnd token.
func tokenize(input string) ([]Token, error) {
	l := &lexer{input: input}
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEnd {
			return tokens, nil
		}
	}
}

func (l *lexer) next() (Token, error) {
	for l.pos < len(l.input) && l.input[l.pos] == ' ' {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return Token{Kind: TokenEnd, Pos: l.pos}, nil
	}

	start := l.pos
	ch := l.input[l.pos]
	switch {
	case ch == '(':
		l.pos++
		return Token{Kind: TokenLParen, Text: "(", Pos: start}, nil
	case ch == ')':
		l.pos++
		return Token{Kind: TokenRParen, Text: ")", Pos: start}, nil
	case ch == '*' && l.peekAt(1) == '*':
		l.pos += 2
		return Token{Kind: TokenOperator, Op: '^', Text: "**", Pos: start}, nil
	case ch == '+' || ch == '-' || ch == '*' || ch == '/' || ch == '%' || ch == '^':
		l.pos++
		return Token{Kind: TokenOperator, Op: ch, Text: string(ch), Pos: start}, nil
	case isDigit(ch) || ch == '.':
		return l.readNumber()
	}

	// Unreachable for validated input.
	return Token{}, &Error{
		Kind: KindValidation,
		Pos:  start,
		Msg:  fmt.Sprintf("unexpected character %q", ch),
	}
}

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

// readNumber reads a decimal literal: digits with at most one '.', where
// either side of the point may be empty but not both.
func (l *lexer) readNumber() (Token, error) {
	start := l.pos
	digits := 0
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
		digits++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
			digits++
		}
	}
	text := l.input[start:l.pos]

	if digits == 0 {
		return Token{}, syntaxErrorf(start, "malformed number %q", text)
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		return Token{}, syntaxErrorf(l.pos, "malformed number %q: more than one decimal point", l.input[start:l.pos+1])
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Token{}, syntaxErrorf(start, "malformed number %q", text)
	}
	// Out-of-range literals keep the ±Inf returned alongside ErrRange.
	return Token{Kind: TokenNumber, Value: value, Text: text, Pos: start}, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
