package spirv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Errors returned by Parse.
var (
	ErrTooSmall       = errors.New("spirv: binary smaller than header")
	ErrMisaligned     = errors.New("spirv: binary size is not a multiple of 4")
	ErrBadMagic       = errors.New("spirv: invalid magic number")
	ErrBadInstruction = errors.New("spirv: invalid instruction word count")
)

// Header is the decoded module header.
type Header struct {
	Magic     uint32
	Version   uint32
	Generator uint32
	Bound     uint32
	Schema    uint32
}

// Parse splits a little-endian SPIR-V binary into its header and
// instructions.
func Parse(data []byte) (Header, []Instruction, error) {
	if len(data) < HeaderWords*4 {
		return Header{}, nil, ErrTooSmall
	}
	if len(data)%4 != 0 {
		return Header{}, nil, ErrMisaligned
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}

	h := Header{
		Magic:     words[0],
		Version:   words[1],
		Generator: words[2],
		Bound:     words[3],
		Schema:    words[4],
	}
	if h.Magic != MagicNumber {
		return h, nil, fmt.Errorf("%w: 0x%08X", ErrBadMagic, h.Magic)
	}

	var insts []Instruction
	for off := HeaderWords; off < len(words); {
		count := int(words[off] >> 16)
		if count == 0 || off+count > len(words) {
			return h, insts, fmt.Errorf("%w: %d at word %d", ErrBadInstruction, count, off)
		}
		insts = append(insts, Instruction{
			Opcode: OpCode(words[off] & 0xFFFF),
			Words:  words[off+1 : off+count],
		})
		off += count
	}
	return h, insts, nil
}

var capabilityNames = map[uint32]string{
	0: "Matrix", 1: "Shader", 9: "Float16", 10: "Float64", 11: "Int64",
}

var storageClassNames = map[uint32]string{
	0: "UniformConstant", 1: "Input", 2: "Uniform", 3: "Output",
	4: "Workgroup", 6: "Private", 7: "Function", 12: "StorageBuffer",
}

var decorationNames = map[uint32]string{
	2: "Block", 11: "BuiltIn", 30: "Location", 33: "Binding",
	34: "DescriptorSet", 35: "Offset",
}

var builtInNames = map[uint32]string{
	0: "Position", 1: "PointSize", 14: "FragCoord", 22: "FragDepth",
	42: "VertexIndex", 43: "InstanceIndex",
}

var executionModeNames = map[uint32]string{
	7: "OriginUpperLeft", 8: "OriginLowerLeft", 17: "LocalSize",
}

var executionModelNames = map[uint32]string{
	0: "Vertex", 4: "Fragment", 5: "GLCompute",
}

var addressingModelNames = map[uint32]string{0: "Logical", 1: "Physical32", 2: "Physical64"}

var memoryModelNames = map[uint32]string{0: "Simple", 1: "GLSL450", 2: "OpenCL", 3: "Vulkan"}

func lookup(m map[uint32]string, v uint32) string {
	if s, ok := m[v]; ok {
		return s
	}
	return strconv.FormatUint(uint64(v), 10)
}

func idRef(n uint32) string {
	return "%" + strconv.FormatUint(uint64(n), 10)
}

// decodeString reads a NUL-terminated literal string from words and
// returns it with the number of words it occupied.
func decodeString(words []uint32) (string, int) {
	var sb strings.Builder
	for i, w := range words {
		for j := range 4 {
			b := byte(w >> (8 * j))
			if b == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(b)
		}
	}
	return sb.String(), len(words)
}

// Disassemble writes a readable listing of a SPIR-V binary to w.
func Disassemble(w io.Writer, data []byte) error {
	h, insts, err := Parse(data)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("; SPIR-V\n")
	fmt.Fprintf(&sb, "; Version: %d.%d\n", (h.Version>>16)&0xFF, (h.Version>>8)&0xFF)
	fmt.Fprintf(&sb, "; Generator: 0x%08X\n", h.Generator)
	fmt.Fprintf(&sb, "; Bound: %d\n", h.Bound)
	fmt.Fprintf(&sb, "; Schema: %d\n", h.Schema)
	for _, inst := range insts {
		sb.WriteString(FormatInstruction(inst))
		sb.WriteByte('\n')
	}
	_, err = io.WriteString(w, sb.String())
	return err
}

// FormatInstruction renders a single instruction in assembly syntax.
//
//nolint:gocyclo,cyclop,funlen // one case per opcode
func FormatInstruction(inst Instruction) string {
	ops := inst.Words
	name := inst.Opcode.String()
	result := func(rest ...string) string {
		return fmt.Sprintf("%12s = %s", idRef(ops[0]), strings.Join(append([]string{name}, rest...), " "))
	}
	typed := func(rest ...string) string {
		return fmt.Sprintf("%12s = %s", idRef(ops[1]), strings.Join(append([]string{name, idRef(ops[0])}, rest...), " "))
	}
	plain := func(rest ...string) string {
		return strings.Repeat(" ", 15) + strings.Join(append([]string{name}, rest...), " ")
	}
	ids := func(from int) []string {
		out := make([]string, 0, len(ops))
		for i := from; i < len(ops); i++ {
			out = append(out, idRef(ops[i]))
		}
		return out
	}
	nums := func(from int) []string {
		out := make([]string, 0, len(ops))
		for i := from; i < len(ops); i++ {
			out = append(out, strconv.FormatUint(uint64(ops[i]), 10))
		}
		return out
	}
	need := func(n int) bool { return len(ops) >= n }

	switch inst.Opcode {
	case OpCapability:
		if need(1) {
			return plain(lookup(capabilityNames, ops[0]))
		}
	case OpExtInstImport:
		if need(1) {
			str, _ := decodeString(ops[1:])
			return result(strconv.Quote(str))
		}
	case OpMemoryModel:
		if need(2) {
			return plain(lookup(addressingModelNames, ops[0]), lookup(memoryModelNames, ops[1]))
		}
	case OpEntryPoint:
		if need(2) {
			str, n := decodeString(ops[2:])
			args := []string{lookup(executionModelNames, ops[0]), idRef(ops[1]), strconv.Quote(str)}
			return plain(append(args, ids(2+n)...)...)
		}
	case OpExecutionMode:
		if need(2) {
			return plain(append([]string{idRef(ops[0]), lookup(executionModeNames, ops[1])}, nums(2)...)...)
		}
	case OpName:
		if need(1) {
			str, _ := decodeString(ops[1:])
			return plain(idRef(ops[0]), strconv.Quote(str))
		}
	case OpDecorate:
		if need(2) {
			args := []string{idRef(ops[0]), lookup(decorationNames, ops[1])}
			if Decoration(ops[1]) == DecorationBuiltIn && need(3) {
				return plain(append(args, lookup(builtInNames, ops[2]))...)
			}
			return plain(append(args, nums(2)...)...)
		}
	case OpMemberDecorate:
		if need(3) {
			args := []string{idRef(ops[0]), strconv.FormatUint(uint64(ops[1]), 10), lookup(decorationNames, ops[2])}
			if Decoration(ops[2]) == DecorationBuiltIn && need(4) {
				return plain(append(args, lookup(builtInNames, ops[3]))...)
			}
			return plain(append(args, nums(3)...)...)
		}
	case OpTypeVoid, OpTypeBool, OpLabel:
		if need(1) {
			return result()
		}
	case OpTypeInt, OpTypeFloat:
		if need(1) {
			return result(nums(1)...)
		}
	case OpTypeVector:
		if need(3) {
			return result(idRef(ops[1]), strconv.FormatUint(uint64(ops[2]), 10))
		}
	case OpTypePointer:
		if need(3) {
			return result(lookup(storageClassNames, ops[1]), idRef(ops[2]))
		}
	case OpTypeStruct, OpTypeFunction:
		if need(1) {
			return result(ids(1)...)
		}
	case OpConstant:
		if need(2) {
			return typed(nums(2)...)
		}
	case OpFunction:
		if need(4) {
			return typed("None", idRef(ops[3]))
		}
	case OpVariable:
		if need(3) {
			return typed(lookup(storageClassNames, ops[2]))
		}
	case OpFunctionEnd, OpReturn:
		return plain()
	case OpStore, OpReturnValue, OpBranch:
		return plain(ids(0)...)
	}

	if need(2) {
		return typed(ids(2)...)
	}
	return plain(ids(0)...)
}
