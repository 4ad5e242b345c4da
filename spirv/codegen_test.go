package spirv

import (
	"errors"
	"testing"

	"github.com/gogpu/beans/ir"
)

// decode splits generated words back into instructions.
func decode(t *testing.T, body []uint32) []Instruction {
	t.Helper()
	var out []Instruction
	for off := 0; off < len(body); {
		count := int(body[off] >> 16)
		if count == 0 || off+count > len(body) {
			t.Fatalf("bad word count %d at %d", count, off)
		}
		out = append(out, Instruction{Opcode: OpCode(body[off] & 0xFFFF), Words: body[off+1 : off+count]})
		off += count
	}
	return out
}

func addExpr(t *testing.T, m *ir.Module, kind ir.ExpressionKind, typ ir.TypeHandle) ir.ExpressionHandle {
	t.Helper()
	h, err := m.AddExpression(kind, typ)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func addGlobal(t *testing.T, m *ir.Module, name string, dir ir.Direction, typ ir.TypeHandle) *ir.Global {
	t.Helper()
	ptr, err := m.Types.MakePointer(typ, dir.StorageClass())
	if err != nil {
		t.Fatal(err)
	}
	idx, err := m.Globals.Append(ir.Global{Name: name, Direction: dir, Type: typ, PtrType: ptr})
	if err != nil {
		t.Fatal(err)
	}
	g := m.Globals.At(idx)
	g.ID = m.IDs.Next()
	g.Local = &ir.Local{Name: name, Type: typ, PtrType: ptr, ID: g.ID, Global: g}
	return g
}

func TestGenerator_FloatLiteralEmitsNothing(t *testing.T) {
	m := newTestModule(t)
	gen := NewGenerator(m)
	proc := addProcedure(t, m, gen, "p", ir.VoidTypeHandle)

	c, _ := m.FloatConstant(0.5)
	h := addExpr(t, m, ir.ExprFloat{Constant: c}, ir.F32TypeHandle)
	id, err := gen.Expression(proc, h)
	if err != nil {
		t.Fatal(err)
	}
	if id != m.Constants.At(uint32(c)).ID {
		t.Errorf("id = %d, want constant id", id)
	}
	if len(proc.Body) != 0 {
		t.Errorf("body = %v, want empty", proc.Body)
	}
}

func TestGenerator_VectorTimesScalarOperandOrder(t *testing.T) {
	for _, scalarFirst := range []bool{false, true} {
		name := "vector*scalar"
		if scalarFirst {
			name = "scalar*vector"
		}
		t.Run(name, func(t *testing.T) {
			m := newTestModule(t)
			gen := NewGenerator(m)
			proc := addProcedure(t, m, gen, "p", ir.VoidTypeHandle)

			vec3, _ := m.Types.MakeVector(ir.F32TypeHandle, 3)
			v := addGlobal(t, m, "v", ir.DirectionPrivate, vec3)
			c, _ := m.FloatConstant(2)
			scalar := addExpr(t, m, ir.ExprFloat{Constant: c}, ir.F32TypeHandle)
			vector := addExpr(t, m, ir.ExprVar{Local: v.Local}, vec3)
			mul := addExpr(t, m, ir.ExprScalar{Op: ir.ScalarMultiply, Scalar: scalar, Vector: vector, ScalarFirst: scalarFirst}, vec3)

			if _, err := gen.Expression(proc, mul); err != nil {
				t.Fatal(err)
			}
			insts := decode(t, proc.Body)
			if len(insts) != 2 {
				t.Fatalf("got %d instructions, want 2", len(insts))
			}
			load, op := insts[0], insts[1]
			if op.Opcode != OpVectorTimesScalar {
				t.Fatalf("opcode = %s", op.Opcode)
			}
			if op.Words[2] != load.Words[1] || op.Words[3] != m.Constants.At(uint32(c)).ID {
				t.Errorf("operands = %v, want vector then scalar", op.Words[2:])
			}
		})
	}
}

func TestGenerator_ScalarDivisionSplats(t *testing.T) {
	m := newTestModule(t)
	gen := NewGenerator(m)
	proc := addProcedure(t, m, gen, "p", ir.VoidTypeHandle)

	vec2, _ := m.Types.MakeVector(ir.F32TypeHandle, 2)
	v := addGlobal(t, m, "v", ir.DirectionPrivate, vec2)
	c, _ := m.FloatConstant(4)
	scalar := addExpr(t, m, ir.ExprFloat{Constant: c}, ir.F32TypeHandle)
	vector := addExpr(t, m, ir.ExprVar{Local: v.Local}, vec2)
	div := addExpr(t, m, ir.ExprScalar{Op: ir.ScalarDivide, Scalar: scalar, Vector: vector, ScalarFirst: true}, vec2)

	result, err := gen.Expression(proc, div)
	if err != nil {
		t.Fatal(err)
	}
	insts := decode(t, proc.Body)
	if len(insts) != 3 {
		t.Fatalf("got %d instructions, want 3", len(insts))
	}
	splat, op := insts[1], insts[2]
	if splat.Opcode != OpCompositeConstruct || len(splat.Words) != 4 {
		t.Fatalf("splat = %s %v", splat.Opcode, splat.Words)
	}
	if op.Opcode != OpFDiv || op.Words[1] != result {
		t.Fatalf("division = %s %v", op.Opcode, op.Words)
	}
	if op.Words[2] != splat.Words[1] || op.Words[3] != insts[0].Words[1] {
		t.Errorf("operands = %v, want splat then vector", op.Words[2:])
	}
}

func TestGenerator_IntegerArithmetic(t *testing.T) {
	m := newTestModule(t)
	gen := NewGenerator(m)
	proc := addProcedure(t, m, gen, "p", ir.VoidTypeHandle)

	u32, _, _ := m.Types.LookupNamed("u32")
	vec4, _ := m.Types.MakeVector(u32, 4)
	a := addGlobal(t, m, "a", ir.DirectionPrivate, vec4)
	s := addGlobal(t, m, "s", ir.DirectionPrivate, u32)

	left := addExpr(t, m, ir.ExprVar{Local: a.Local}, vec4)
	right := addExpr(t, m, ir.ExprVar{Local: a.Local}, vec4)
	sum := addExpr(t, m, ir.ExprBinary{Op: ir.BinarySubtract, Left: left, Right: right}, vec4)
	scalar := addExpr(t, m, ir.ExprVar{Local: s.Local}, u32)
	div := addExpr(t, m, ir.ExprScalar{Op: ir.ScalarDivide, Scalar: scalar, Vector: sum}, vec4)

	if _, err := gen.Expression(proc, div); err != nil {
		t.Fatal(err)
	}
	var ops []OpCode
	for _, inst := range decode(t, proc.Body) {
		ops = append(ops, inst.Opcode)
	}
	want := []OpCode{OpLoad, OpLoad, OpLoad, OpISub, OpCompositeConstruct, OpUDiv}
	if len(ops) != len(want) {
		t.Fatalf("opcodes = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("opcode %d = %s, want %s", i, ops[i], want[i])
		}
	}
}

func TestGenerator_InterfaceAccumulation(t *testing.T) {
	m := newTestModule(t)
	gen := NewGenerator(m)
	proc := addProcedure(t, m, gen, "p", ir.VoidTypeHandle)

	in := addGlobal(t, m, "in_color", ir.DirectionIn, ir.F32TypeHandle)
	private := addGlobal(t, m, "scratch", ir.DirectionPrivate, ir.F32TypeHandle)

	for _, g := range []*ir.Global{in, in, private} {
		h := addExpr(t, m, ir.ExprVar{Local: g.Local}, ir.F32TypeHandle)
		if _, err := gen.Expression(proc, h); err != nil {
			t.Fatal(err)
		}
	}
	if len(proc.Interface) != 1 || proc.Interface[0] != in {
		t.Errorf("interface = %v, want only in_color", proc.Interface)
	}
}

func TestGenerator_VariableIsHoisted(t *testing.T) {
	m := newTestModule(t)
	gen := NewGenerator(m)
	proc := addProcedure(t, m, gen, "p", ir.VoidTypeHandle)

	ptr, _ := m.Types.MakePointer(ir.F32TypeHandle, ir.StorageFunction)
	c, _ := m.FloatConstant(1)
	id, err := gen.Variable(proc, ptr)
	if err != nil {
		t.Fatal(err)
	}
	if err := gen.Store(proc, id, m.Constants.At(uint32(c)).ID); err != nil {
		t.Fatal(err)
	}

	vars := decode(t, proc.Variables)
	if len(vars) != 1 || vars[0].Opcode != OpVariable || vars[0].Words[1] != id {
		t.Fatalf("variables = %v", vars)
	}
	if StorageClass(vars[0].Words[2]) != StorageClassFunction {
		t.Errorf("storage class = %d", vars[0].Words[2])
	}
	body := decode(t, proc.Body)
	if len(body) != 1 || body[0].Opcode != OpStore {
		t.Errorf("body = %v", body)
	}
}

func TestGenerator_WordBudget(t *testing.T) {
	m, err := ir.NewModule(ir.Limits{Words: 4})
	if err != nil {
		t.Fatal(err)
	}
	gen := NewGenerator(m)
	proc := addProcedure(t, m, gen, "p", ir.VoidTypeHandle)

	if err := gen.Return(proc); err != nil {
		t.Fatal(err)
	}
	err = gen.ReturnValue(proc, 3)
	var limitErr *ir.LimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("Expected *ir.LimitError, got %v", err)
	}
	if len(proc.Body) != 1 {
		t.Errorf("failed emission wrote words: %v", proc.Body)
	}
}
