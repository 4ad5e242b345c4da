package ir

import (
	"math"
)

// ExtInstImportID is the id reserved for the GLSL.std.450 import.
const ExtInstImportID uint32 = 1

// IDs allocates module-unique binary ids.
type IDs struct {
	next uint32
}

// Next returns a fresh id.
func (a *IDs) Next() uint32 {
	id := a.next
	a.next++
	return id
}

// Bound returns one past the highest allocated id.
func (a *IDs) Bound() uint32 {
	return a.next
}

// Module is the complete state of one compile.
type Module struct {
	Limits Limits

	IDs         IDs
	Types       *TypeRegistry
	Globals     *Arena[Global]
	Constants   *Arena[Constant]
	Expressions *Arena[Expression]
	Procedures  *Arena[Procedure]
	EntryPoints *Arena[EntryPoint]
	Words       WordBudget

	interfacesUsed int
}

// NewModule creates an empty module with the given limits.
func NewModule(limits Limits) (*Module, error) {
	limits = limits.WithDefaults()
	m := &Module{
		Limits:      limits,
		IDs:         IDs{next: ExtInstImportID + 1},
		Globals:     NewArena[Global]("globals", limits.Globals),
		Constants:   NewArena[Constant]("constants", limits.Constants),
		Expressions: NewArena[Expression]("expressions", limits.Expressions),
		Procedures:  NewArena[Procedure]("procedures", limits.Procedures),
		EntryPoints: NewArena[EntryPoint]("entry points", limits.EntryPoints),
		Words:       WordBudget{limit: limits.Words},
	}
	types, err := NewTypeRegistry(&m.IDs, limits.Types)
	if err != nil {
		return nil, err
	}
	m.Types = types
	return m, nil
}

// FloatConstant interns an f32 literal. Literals with identical bits share
// one constant.
func (m *Module) FloatConstant(f float32) (ConstantHandle, error) {
	bits := math.Float32bits(f)
	for i, c := range m.Constants.Items() {
		if c.Type == F32TypeHandle && c.Bits == bits {
			return ConstantHandle(i), nil
		}
	}
	idx, err := m.Constants.Append(Constant{Type: F32TypeHandle, Bits: bits})
	if err != nil {
		return 0, err
	}
	m.Constants.At(idx).ID = m.IDs.Next()
	return ConstantHandle(idx), nil
}

// AddExpression stores an expression and returns its handle.
func (m *Module) AddExpression(kind ExpressionKind, typ TypeHandle) (ExpressionHandle, error) {
	idx, err := m.Expressions.Append(Expression{Kind: kind, Type: typ})
	return ExpressionHandle(idx), err
}

// Expression returns the expression for handle.
func (m *Module) Expression(h ExpressionHandle) *Expression {
	return m.Expressions.At(uint32(h))
}

// Procedure returns the procedure for handle.
func (m *Module) Procedure(h ProcedureHandle) *Procedure {
	return m.Procedures.At(uint32(h))
}

// RegisterInterface records that proc touches the global behind local.
// Locals that do not alias an input or output global are ignored, and a
// global is recorded at most once per procedure.
func (m *Module) RegisterInterface(proc *Procedure, local *Local) error {
	g := local.Global
	if g == nil || !g.IsInterface() {
		return nil
	}
	for _, existing := range proc.Interface {
		if existing == g {
			return nil
		}
	}
	if m.interfacesUsed+1 > m.Limits.Interfaces {
		return &LimitError{What: "interfaces", Limit: m.Limits.Interfaces}
	}
	m.interfacesUsed++
	proc.Interface = append(proc.Interface, g)
	return nil
}

// HasScalar reports whether a scalar of the given kind was registered.
func (m *Module) HasScalar(kind ScalarKind) bool {
	for _, t := range m.Types.Types() {
		if s, ok := t.Inner.(ScalarType); ok && s.Kind == kind {
			return true
		}
	}
	return false
}
