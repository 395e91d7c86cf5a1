package expr

import (
	"fmt"
	"strconv"
)

// TokenKind represents the type of a lexical token.
type TokenKind int

const (
	TokenEnd TokenKind = iota
	TokenNumber
	TokenOperator
	TokenLParen
	TokenRParen
)

func (k TokenKind) String() string {
	switch k {
	case TokenEnd:
		return "end of expression"
	case TokenNumber:
		return "number"
	case TokenOperator:
		return "operator"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is a single lexical token. Op is set for operators and holds one of
// '+', '-', '*', '/', '%' or '^' ("**" is normalised to '^'); Value is set
// for numbers. Text is the exact source slice.
type Token struct {
	Kind  TokenKind
	Op    byte
	Value float64
	Text  string
	Pos   int // byte offset in the input
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, %d)", t.Kind, t.Text, t.Pos)
}

// describe renders the token for error messages.
func (t Token) describe() string {
	switch t.Kind {
	case TokenNumber:
		return "number " + t.Text
	case TokenOperator:
		return "operator '" + t.Text + "'"
	default:
		return t.Kind.String()
	}
}
