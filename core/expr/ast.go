package expr

import "strconv"

// Span is the half-open byte range [Start, End) of the input covered by a node.
type Span struct {
	Start int
	End   int
}

// Node is an expression tree node. The set of implementations is closed:
// *Literal, *BinaryOp and *UnaryOp.
type Node interface {
	// Span returns the input range the node was parsed from.
	Span() Span
	// String renders the node fully parenthesised.
	String() string
	node()
}

// BinaryOperator identifies one of the six whitelisted binary operations.
type BinaryOperator int

const (
	OpAdd BinaryOperator = iota + 1
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
)

func (o BinaryOperator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpPow:
		return "^"
	default:
		return "BinaryOperator(" + strconv.Itoa(int(o)) + ")"
	}
}

// UnaryOperator identifies a prefix sign operator.
type UnaryOperator int

const (
	OpNeg UnaryOperator = iota + 1
	OpPos
)

func (o UnaryOperator) String() string {
	switch o {
	case OpNeg:
		return "-"
	case OpPos:
		return "+"
	default:
		return "UnaryOperator(" + strconv.Itoa(int(o)) + ")"
	}
}

// Literal is a numeric constant.
type Literal struct {
	Value float64
	At    Span
}

// BinaryOp applies Op to Left and Right. OpPos is the byte offset of the
// operator token.
type BinaryOp struct {
	Op    BinaryOperator
	Left  Node
	Right Node
	OpPos int
	At    Span
}

// UnaryOp applies a sign operator to Operand.
type UnaryOp struct {
	Op      UnaryOperator
	Operand Node
	At      Span
}

func (n *Literal) Span() Span  { return n.At }
func (n *BinaryOp) Span() Span { return n.At }
func (n *UnaryOp) Span() Span  { return n.At }

func (*Literal) node()  {}
func (*BinaryOp) node() {}
func (*UnaryOp) node()  {}

func (n *Literal) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (n *BinaryOp) String() string {
	return "(" + n.Left.String() + " " + n.Op.String() + " " + n.Right.String() + ")"
}

func (n *UnaryOp) String() string {
	return "(" + n.Op.String() + n.Operand.String() + ")"
}

var binaryOperators = map[byte]BinaryOperator{
	'+': OpAdd,
	'-': OpSub,
	'*': OpMul,
	'/': OpDiv,
	'%': OpMod,
	'^': OpPow,
}

var unaryOperators = map[byte]UnaryOperator{
	'-': OpNeg,
	'+': OpPos,
}
