package expr

// parser holds the state for parsing a token stream.
//
// Grammar, lowest precedence first:
//
//	expression = term { ("+" | "-") term }
//	term       = power { ("*" | "/" | "%") power }
//	power      = unary [ "^" power ]
//	unary      = ("+" | "-") unary | primary
//	primary    = number | "(" expression ")"
type parser struct {
	tokens   []Token
	pos      int
	depth    int
	maxDepth int
}

func newParser(tokens []Token, maxDepth int) *parser {
	return &parser{tokens: tokens, maxDepth: maxDepth}
}

// parse parses the whole stream and rejects anything left after a complete
// expression.
func (p *parser) parse() (Node, error) {
	if p.peek().Kind == TokenEnd {
		return nil, syntaxErrorf(p.peek().Pos, "empty expression")
	}

	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Kind != TokenEnd {
		if tok.Kind == TokenRParen {
			return nil, syntaxErrorf(tok.Pos, "unmatched ')'")
		}
		return nil, syntaxErrorf(tok.Pos, "unexpected %s after complete expression", tok.describe())
	}
	return node, nil
}

func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		// tokenize always terminates the stream with TokenEnd.
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) peekOperator(ops ...byte) bool {
	tok := p.peek()
	if tok.Kind != TokenOperator {
		return false
	}
	for _, op := range ops {
		if tok.Op == op {
			return true
		}
	}
	return false
}

// enter guards every recursive descent step so hostile nesting cannot
// exhaust the stack.
func (p *parser) enter(pos int) error {
	p.depth++
	if p.depth > p.maxDepth {
		return syntaxErrorf(pos, "expression nested too deeply (limit %d)", p.maxDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// parseExpression: term ( ("+" | "-") term )*
func (p *parser) parseExpression() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.peekOperator('+', '-') {
		op := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = newBinary(op, left, right)
	}
	return left, nil
}

// parseTerm: power ( ("*" | "/" | "%") power )*
func (p *parser) parseTerm() (Node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	for p.peekOperator('*', '/', '%') {
		op := p.advance()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = newBinary(op, left, right)
	}
	return left, nil
}

// parsePower: unary ( "^" power )?
func (p *parser) parsePower() (Node, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if !p.peekOperator('^') {
		return base, nil
	}

	op := p.advance()
	if err := p.enter(op.Pos); err != nil {
		return nil, err
	}
	defer p.leave()

	exponent, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return newBinary(op, base, exponent), nil
}

// parseUnary: ("+" | "-") unary | primary
func (p *parser) parseUnary() (Node, error) {
	if !p.peekOperator('+', '-') {
		return p.parsePrimary()
	}

	op := p.advance()
	if err := p.enter(op.Pos); err != nil {
		return nil, err
	}
	defer p.leave()

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &UnaryOp{
		Op:      unaryOperators[op.Op],
		Operand: operand,
		At:      Span{Start: op.Pos, End: operand.Span().End},
	}, nil
}

// parsePrimary: number | "(" expression ")"
func (p *parser) parsePrimary() (Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenNumber:
		p.advance()
		return &Literal{Value: tok.Value, At: Span{Start: tok.Pos, End: tok.Pos + len(tok.Text)}}, nil

	case TokenLParen:
		p.advance()
		if err := p.enter(tok.Pos); err != nil {
			return nil, err
		}
		defer p.leave()

		if p.peek().Kind == TokenRParen {
			return nil, syntaxErrorf(p.peek().Pos, "empty parentheses")
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		closing := p.peek()
		if closing.Kind != TokenRParen {
			if closing.Kind == TokenEnd {
				return nil, syntaxErrorf(closing.Pos, "missing ')' for '(' at position %d", tok.Pos)
			}
			return nil, syntaxErrorf(closing.Pos, "expected ')' but found %s", closing.describe())
		}
		p.advance()
		widen(inner, Span{Start: tok.Pos, End: closing.Pos + 1})
		return inner, nil

	case TokenEnd:
		return nil, syntaxErrorf(tok.Pos, "unexpected end of expression, expected a number or '('")

	case TokenRParen:
		return nil, syntaxErrorf(tok.Pos, "unexpected ')', expected a number or '('")

	default:
		return nil, syntaxErrorf(tok.Pos, "unexpected %s, expected a number or '('", tok.describe())
	}
}

func newBinary(op Token, left, right Node) *BinaryOp {
	return &BinaryOp{
		Op:    binaryOperators[op.Op],
		Left:  left,
		Right: right,
		OpPos: op.Pos,
		At:    Span{Start: left.Span().Start, End: right.Span().End},
	}
}

// widen extends a node's span to cover the parentheses around it.
func widen(n Node, s Span) {
	switch n := n.(type) {
	case *Literal:
		n.At = s
	case *BinaryOp:
		n.At = s
	case *UnaryOp:
		n.At = s
	}
}
