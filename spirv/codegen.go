package spirv

import (
	"fmt"

	"github.com/gogpu/beans/ir"
)

// Generator appends instructions to procedures while they are parsed.
//
// Every emission reserves space in the module's shared word budget
// first, so running out of space is reported before anything is written.
// Result ids are allocated in evaluation order.
type Generator struct {
	module *ir.Module
}

// NewGenerator creates a generator writing into module.
func NewGenerator(module *ir.Module) *Generator {
	return &Generator{module: module}
}

func (g *Generator) typeID(h ir.TypeHandle) uint32 {
	return g.module.Types.Get(h).ID
}

func (g *Generator) emit(proc *ir.Procedure, op OpCode, operands ...uint32) error {
	inst := Instruction{Opcode: op, Words: operands}
	if err := g.module.Words.Reserve(inst.WordCount()); err != nil {
		return err
	}
	proc.Body = inst.AppendTo(proc.Body)
	return nil
}

// Label opens the entry block of proc.
func (g *Generator) Label(proc *ir.Procedure) error {
	if err := g.module.Words.Reserve(2); err != nil {
		return err
	}
	proc.LabelID = g.module.IDs.Next()
	return nil
}

// Variable declares a function-local variable of pointer type ptr and
// returns its id. The declaration is hoisted to the entry block.
func (g *Generator) Variable(proc *ir.Procedure, ptr ir.TypeHandle) (uint32, error) {
	id := g.module.IDs.Next()
	inst := Instruction{
		Opcode: OpVariable,
		Words:  []uint32{g.typeID(ptr), id, uint32(StorageClassFunction)},
	}
	if err := g.module.Words.Reserve(inst.WordCount()); err != nil {
		return 0, err
	}
	proc.Variables = inst.AppendTo(proc.Variables)
	return id, nil
}

// Store writes value through pointer.
func (g *Generator) Store(proc *ir.Procedure, pointer, value uint32) error {
	return g.emit(proc, OpStore, pointer, value)
}

// Return ends a procedure without a value.
func (g *Generator) Return(proc *ir.Procedure) error {
	return g.emit(proc, OpReturn)
}

// ReturnValue ends a procedure with value.
func (g *Generator) ReturnValue(proc *ir.Procedure, value uint32) error {
	return g.emit(proc, OpReturnValue, value)
}

// Expression generates code for the expression and returns the id
// holding its value.
func (g *Generator) Expression(proc *ir.Procedure, h ir.ExpressionHandle) (uint32, error) {
	expr := g.module.Expression(h)
	switch kind := expr.Kind.(type) {
	case ir.ExprFloat:
		return g.module.Constants.At(uint32(kind.Constant)).ID, nil

	case ir.ExprVar:
		id := g.module.IDs.Next()
		if err := g.emit(proc, OpLoad, g.typeID(kind.Local.Type), id, kind.Local.ID); err != nil {
			return 0, err
		}
		if err := g.module.RegisterInterface(proc, kind.Local); err != nil {
			return 0, err
		}
		return id, nil

	case ir.ExprVector:
		operands := make([]uint32, 2, 2+len(kind.Elements))
		for _, el := range kind.Elements {
			id, err := g.Expression(proc, el)
			if err != nil {
				return 0, err
			}
			operands = append(operands, id)
		}
		id := g.module.IDs.Next()
		operands[0] = g.typeID(expr.Type)
		operands[1] = id
		return id, g.emit(proc, OpCompositeConstruct, operands...)

	case ir.ExprBinary:
		return g.binary(proc, expr, kind)

	case ir.ExprScalar:
		return g.scalar(proc, expr, kind)

	default:
		return 0, fmt.Errorf("cannot generate expression of kind %T", expr.Kind)
	}
}

func (g *Generator) binary(proc *ir.Procedure, expr *ir.Expression, kind ir.ExprBinary) (uint32, error) {
	left, err := g.Expression(proc, kind.Left)
	if err != nil {
		return 0, err
	}
	right, err := g.Expression(proc, kind.Right)
	if err != nil {
		return 0, err
	}

	component, _ := g.module.Types.ComponentKind(expr.Type)
	var op OpCode
	switch {
	case kind.Op == ir.BinaryAdd && component.IsFloat():
		op = OpFAdd
	case kind.Op == ir.BinaryAdd:
		op = OpIAdd
	case component.IsFloat():
		op = OpFSub
	default:
		op = OpISub
	}

	id := g.module.IDs.Next()
	return id, g.emit(proc, op, g.typeID(expr.Type), id, left, right)
}

// scalar lowers vector-by-scalar arithmetic. The scalar is always
// evaluated first. Float multiplication maps onto OpVectorTimesScalar;
// everything else splats the scalar into a vector and uses the
// component-wise instruction with the source operand order.
func (g *Generator) scalar(proc *ir.Procedure, expr *ir.Expression, kind ir.ExprScalar) (uint32, error) {
	s, err := g.Expression(proc, kind.Scalar)
	if err != nil {
		return 0, err
	}
	v, err := g.Expression(proc, kind.Vector)
	if err != nil {
		return 0, err
	}

	resultType := g.typeID(expr.Type)
	component, _ := g.module.Types.ComponentKind(expr.Type)

	if kind.Op == ir.ScalarMultiply && component.IsFloat() {
		id := g.module.IDs.Next()
		return id, g.emit(proc, OpVectorTimesScalar, resultType, id, v, s)
	}

	vec, _ := g.module.Types.Vector(expr.Type)
	splat := g.module.IDs.Next()
	operands := make([]uint32, 0, 2+vec.Size)
	operands = append(operands, resultType, splat)
	for range vec.Size {
		operands = append(operands, s)
	}
	if err := g.emit(proc, OpCompositeConstruct, operands...); err != nil {
		return 0, err
	}

	var op OpCode
	switch {
	case kind.Op == ir.ScalarMultiply:
		op = OpIMul
	case component.IsFloat():
		op = OpFDiv
	case component == ir.ScalarU32:
		op = OpUDiv
	default:
		op = OpSDiv
	}

	left, right := v, splat
	if kind.ScalarFirst {
		left, right = splat, v
	}
	id := g.module.IDs.Next()
	return id, g.emit(proc, op, resultType, id, left, right)
}
