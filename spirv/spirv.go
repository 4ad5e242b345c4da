package spirv

import (
	"strconv"

	"github.com/gogpu/beans/ir"
)

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Version1_0 is the version written into every module header.
var Version1_0 = Version{1, 0}

// SPIR-V magic number and constants
const (
	MagicNumber = 0x07230203
	GeneratorID = 0x00000000 // Unregistered generator
	Schema      = 0

	// HeaderWords is the number of words before the first instruction.
	HeaderWords = 5
	// BoundWord is the index of the id bound within the header.
	BoundWord = 3
)

// GLSLStd450 is the name of the extended instruction set imported as id 1.
const GLSLStd450 = "GLSL.std.450"

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Opcodes emitted or recognised by the disassembler.
const (
	OpNop                OpCode = 0
	OpSource             OpCode = 3
	OpName               OpCode = 5
	OpMemberName         OpCode = 6
	OpString             OpCode = 7
	OpExtension          OpCode = 10
	OpExtInstImport      OpCode = 11
	OpExtInst            OpCode = 12
	OpMemoryModel        OpCode = 14
	OpEntryPoint         OpCode = 15
	OpExecutionMode      OpCode = 16
	OpCapability         OpCode = 17
	OpTypeVoid           OpCode = 19
	OpTypeBool           OpCode = 20
	OpTypeInt            OpCode = 21
	OpTypeFloat          OpCode = 22
	OpTypeVector         OpCode = 23
	OpTypeStruct         OpCode = 30
	OpTypePointer        OpCode = 32
	OpTypeFunction       OpCode = 33
	OpConstant           OpCode = 43
	OpConstantComposite  OpCode = 44
	OpFunction           OpCode = 54
	OpFunctionParameter  OpCode = 55
	OpFunctionEnd        OpCode = 56
	OpVariable           OpCode = 59
	OpLoad               OpCode = 61
	OpStore              OpCode = 62
	OpAccessChain        OpCode = 65
	OpDecorate           OpCode = 71
	OpMemberDecorate     OpCode = 72
	OpCompositeConstruct OpCode = 80
	OpCompositeExtract   OpCode = 81
	OpIAdd               OpCode = 128
	OpFAdd               OpCode = 129
	OpISub               OpCode = 130
	OpFSub               OpCode = 131
	OpIMul               OpCode = 132
	OpFMul               OpCode = 133
	OpUDiv               OpCode = 134
	OpSDiv               OpCode = 135
	OpFDiv               OpCode = 136
	OpVectorTimesScalar  OpCode = 142
	OpLabel              OpCode = 248
	OpBranch             OpCode = 249
	OpReturn             OpCode = 253
	OpReturnValue        OpCode = 254
)

var opcodeNames = map[OpCode]string{
	OpNop:                "OpNop",
	OpSource:             "OpSource",
	OpName:               "OpName",
	OpMemberName:         "OpMemberName",
	OpString:             "OpString",
	OpExtension:          "OpExtension",
	OpExtInstImport:      "OpExtInstImport",
	OpExtInst:            "OpExtInst",
	OpMemoryModel:        "OpMemoryModel",
	OpEntryPoint:         "OpEntryPoint",
	OpExecutionMode:      "OpExecutionMode",
	OpCapability:         "OpCapability",
	OpTypeVoid:           "OpTypeVoid",
	OpTypeBool:           "OpTypeBool",
	OpTypeInt:            "OpTypeInt",
	OpTypeFloat:          "OpTypeFloat",
	OpTypeVector:         "OpTypeVector",
	OpTypeStruct:         "OpTypeStruct",
	OpTypePointer:        "OpTypePointer",
	OpTypeFunction:       "OpTypeFunction",
	OpConstant:           "OpConstant",
	OpConstantComposite:  "OpConstantComposite",
	OpFunction:           "OpFunction",
	OpFunctionParameter:  "OpFunctionParameter",
	OpFunctionEnd:        "OpFunctionEnd",
	OpVariable:           "OpVariable",
	OpLoad:               "OpLoad",
	OpStore:              "OpStore",
	OpAccessChain:        "OpAccessChain",
	OpDecorate:           "OpDecorate",
	OpMemberDecorate:     "OpMemberDecorate",
	OpCompositeConstruct: "OpCompositeConstruct",
	OpCompositeExtract:   "OpCompositeExtract",
	OpIAdd:               "OpIAdd",
	OpFAdd:               "OpFAdd",
	OpISub:               "OpISub",
	OpFSub:               "OpFSub",
	OpIMul:               "OpIMul",
	OpFMul:               "OpFMul",
	OpUDiv:               "OpUDiv",
	OpSDiv:               "OpSDiv",
	OpFDiv:               "OpFDiv",
	OpVectorTimesScalar:  "OpVectorTimesScalar",
	OpLabel:              "OpLabel",
	OpBranch:             "OpBranch",
	OpReturn:             "OpReturn",
	OpReturnValue:        "OpReturnValue",
}

func (op OpCode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "Op" + strconv.FormatUint(uint64(op), 10)
}

// Capability represents a SPIR-V capability.
type Capability uint32

const (
	CapabilityShader  Capability = 1
	CapabilityFloat64 Capability = 10
)

// AddressingModel represents a SPIR-V addressing model.
type AddressingModel uint32

const AddressingModelLogical AddressingModel = 0

// MemoryModel represents a SPIR-V memory model.
type MemoryModel uint32

const MemoryModelGLSL450 MemoryModel = 1

// ExecutionModel represents a SPIR-V execution model.
type ExecutionModel uint32

const (
	ExecutionModelVertex   ExecutionModel = 0
	ExecutionModelFragment ExecutionModel = 4
)

// ExecutionMode represents a SPIR-V execution mode.
type ExecutionMode uint32

const ExecutionModeOriginUpperLeft ExecutionMode = 7

// StorageClass represents a SPIR-V storage class.
type StorageClass uint32

const (
	StorageClassInput    StorageClass = 1
	StorageClassOutput   StorageClass = 3
	StorageClassPrivate  StorageClass = 6
	StorageClassFunction StorageClass = 7
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

const (
	DecorationBuiltIn  Decoration = 11
	DecorationLocation Decoration = 30
)

// BuiltIn represents a SPIR-V built-in variable.
type BuiltIn uint32

const BuiltInPosition BuiltIn = 0

// FunctionControl represents SPIR-V function control flags.
type FunctionControl uint32

const FunctionControlNone FunctionControl = 0

func storageClass(c ir.StorageClass) StorageClass {
	switch c {
	case ir.StorageInput:
		return StorageClassInput
	case ir.StorageOutput:
		return StorageClassOutput
	case ir.StorageFunction:
		return StorageClassFunction
	default:
		return StorageClassPrivate
	}
}

func executionModel(s ir.ShaderStage) ExecutionModel {
	if s == ir.StageFragment {
		return ExecutionModelFragment
	}
	return ExecutionModelVertex
}

func builtIn(b ir.Builtin) (BuiltIn, bool) {
	switch b {
	case ir.BuiltinPosition:
		return BuiltInPosition, true
	default:
		return 0, false
	}
}
