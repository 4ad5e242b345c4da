package spirv

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/beans/ir"
)

// sink receives the words of a module in order.
type sink interface {
	word(w uint32)
	words(ws []uint32)
}

// counter measures a module without writing it.
type counter struct {
	n int
}

func (c *counter) word(uint32)       { c.n++ }
func (c *counter) words(ws []uint32) { c.n += len(ws) }

// emitter writes words little-endian into a preallocated buffer.
type emitter struct {
	buf      []byte
	off      int
	overflow bool
}

func (e *emitter) word(w uint32) {
	if e.off+4 > len(e.buf) {
		e.overflow = true
		return
	}
	binary.LittleEndian.PutUint32(e.buf[e.off:], w)
	e.off += 4
}

func (e *emitter) words(ws []uint32) {
	for _, w := range ws {
		e.word(w)
	}
}

// packer walks the sections of a module in binary order.
type packer struct {
	module *ir.Module
	out    sink
	err    error
}

// Pack serializes a parsed module into a SPIR-V binary.
//
// The module is visited twice: once to count words and once to write
// them into a buffer allocated from the count.
func Pack(module *ir.Module) ([]byte, error) {
	var c counter
	if err := (&packer{module: module, out: &c}).visit(); err != nil {
		return nil, err
	}

	e := &emitter{buf: make([]byte, c.n*4)}
	if err := (&packer{module: module, out: e}).visit(); err != nil {
		return nil, err
	}
	if e.overflow || e.off != len(e.buf) {
		return nil, fmt.Errorf("spirv: packed %d bytes but counted %d", e.off, len(e.buf))
	}
	return e.buf, nil
}

func (p *packer) inst(op OpCode, operands ...uint32) {
	if p.err != nil {
		return
	}
	count := len(operands) + 1
	if count > MaxInstructionWords {
		p.err = fmt.Errorf("spirv: %s needs %d words, at most %d fit", op, count, MaxInstructionWords)
		return
	}
	p.out.word(headerWord(count, op))
	p.out.words(operands)
}

func (p *packer) add(inst Instruction) {
	p.inst(inst.Opcode, inst.Words...)
}

func (p *packer) typeID(h ir.TypeHandle) uint32 {
	return p.module.Types.Get(h).ID
}

func (p *packer) visit() error {
	p.header()
	p.capabilities()
	p.extInstImports()
	p.inst(OpMemoryModel, uint32(AddressingModelLogical), uint32(MemoryModelGLSL450))
	p.entryPoints()
	p.executionModes()
	p.decorations()
	p.types()
	p.globals()
	p.constants()
	p.functions()
	return p.err
}

func (p *packer) header() {
	p.out.word(MagicNumber)
	p.out.word(versionToWord(Version1_0))
	p.out.word(GeneratorID)
	p.out.word(p.module.IDs.Bound())
	p.out.word(Schema)
}

func (p *packer) capabilities() {
	p.inst(OpCapability, uint32(CapabilityShader))
	if p.module.HasScalar(ir.ScalarF64) {
		p.inst(OpCapability, uint32(CapabilityFloat64))
	}
}

func (p *packer) extInstImports() {
	b := NewInstructionBuilder()
	b.AddWord(ir.ExtInstImportID)
	b.AddString(GLSLStd450)
	p.add(b.Build(OpExtInstImport))
}

func (p *packer) entryPoints() {
	for _, ep := range p.module.EntryPoints.Items() {
		proc := p.module.Procedure(ep.Procedure)
		b := NewInstructionBuilder()
		b.AddWord(uint32(executionModel(ep.Stage)))
		b.AddWord(proc.ID)
		b.AddString(ep.Name)
		for _, g := range proc.Interface {
			b.AddWord(g.ID)
		}
		p.add(b.Build(OpEntryPoint))
	}
}

func (p *packer) executionModes() {
	for _, ep := range p.module.EntryPoints.Items() {
		if ep.Stage != ir.StageFragment {
			continue
		}
		proc := p.module.Procedure(ep.Procedure)
		p.inst(OpExecutionMode, proc.ID, uint32(ExecutionModeOriginUpperLeft))
	}
}

func (p *packer) decorations() {
	for _, g := range p.module.Globals.Items() {
		if g.IsInterface() && g.Location != nil {
			p.inst(OpDecorate, g.ID, uint32(DecorationLocation), *g.Location)
		}
		if b, ok := builtIn(g.Builtin); ok {
			p.inst(OpDecorate, g.ID, uint32(DecorationBuiltIn), uint32(b))
		}
	}

	for _, t := range p.module.Types.Types() {
		record, ok := t.Inner.(ir.RecordType)
		if !ok {
			continue
		}
		for j, m := range record.Members {
			if b, ok := builtIn(m.Builtin); ok {
				p.inst(OpMemberDecorate, t.ID, uint32(j), uint32(DecorationBuiltIn), uint32(b)) //nolint:gosec // bounded by the record member limit
			}
		}
	}
}

func (p *packer) types() {
	for _, t := range p.module.Types.Types() {
		switch inner := t.Inner.(type) {
		case ir.VoidType:
			p.inst(OpTypeVoid, t.ID)
		case ir.ScalarType:
			switch inner.Kind {
			case ir.ScalarBool:
				p.inst(OpTypeBool, t.ID)
			case ir.ScalarF32:
				p.inst(OpTypeFloat, t.ID, 32)
			case ir.ScalarF64:
				p.inst(OpTypeFloat, t.ID, 64)
			case ir.ScalarI32:
				p.inst(OpTypeInt, t.ID, 32, 1)
			case ir.ScalarU32:
				p.inst(OpTypeInt, t.ID, 32, 0)
			}
		case ir.VectorType:
			p.inst(OpTypeVector, t.ID, p.typeID(inner.Component), inner.Size)
		case ir.PointerType:
			p.inst(OpTypePointer, t.ID, uint32(storageClass(inner.Class)), p.typeID(inner.Base))
		case ir.ProcedureType:
			p.inst(OpTypeFunction, t.ID, p.typeID(inner.Return))
		case ir.RecordType:
			operands := make([]uint32, 0, 1+len(inner.Members))
			operands = append(operands, t.ID)
			for _, m := range inner.Members {
				operands = append(operands, p.typeID(m.Type))
			}
			p.inst(OpTypeStruct, operands...)
		}
	}
}

func (p *packer) globals() {
	for _, g := range p.module.Globals.Items() {
		p.inst(OpVariable, p.typeID(g.PtrType), g.ID, uint32(storageClass(g.Direction.StorageClass())))
	}
}

func (p *packer) constants() {
	for _, c := range p.module.Constants.Items() {
		p.inst(OpConstant, p.typeID(c.Type), c.ID, c.Bits)
	}
}

func (p *packer) functions() {
	for _, proc := range p.module.Procedures.Items() {
		p.inst(OpFunction, p.typeID(proc.Return), proc.ID, uint32(FunctionControlNone), p.typeID(proc.Type))
		p.inst(OpLabel, proc.LabelID)
		p.out.words(proc.Variables)
		p.out.words(proc.Body)
		p.inst(OpFunctionEnd)
	}
}
