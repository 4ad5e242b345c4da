package ir

// Expression represents a type-checked expression awaiting generation.
type Expression struct {
	Kind ExpressionKind
	Type TypeHandle
}

// ExpressionKind represents the different kinds of expressions.
type ExpressionKind interface {
	expressionKind()
}

// ExprFloat is a float literal from the constant pool.
type ExprFloat struct {
	Constant ConstantHandle
}

func (ExprFloat) expressionKind() {}

// ExprVar reads a variable.
type ExprVar struct {
	Local *Local
}

func (ExprVar) expressionKind() {}

// ExprVector constructs a vector from scalars and smaller vectors.
type ExprVector struct {
	Elements []ExpressionHandle
}

func (ExprVector) expressionKind() {}

// BinaryOperator is an operator over two operands of the same type.
type BinaryOperator uint8

const (
	BinaryAdd BinaryOperator = iota
	BinarySubtract
)

// ExprBinary applies a binary operator to two operands of the same type.
type ExprBinary struct {
	Op    BinaryOperator
	Left  ExpressionHandle
	Right ExpressionHandle
}

func (ExprBinary) expressionKind() {}

// ScalarOperator is an operator between a vector and a scalar.
type ScalarOperator uint8

const (
	ScalarMultiply ScalarOperator = iota
	ScalarDivide
)

// ExprScalar multiplies or divides a vector by a scalar.
type ExprScalar struct {
	Op     ScalarOperator
	Scalar ExpressionHandle
	Vector ExpressionHandle
	// ScalarFirst records that the scalar was the left operand.
	ScalarFirst bool
}

func (ExprScalar) expressionKind() {}
