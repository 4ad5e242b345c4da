package ir

// Handle types for referencing IR objects
type (
	TypeHandle       uint32
	ExpressionHandle uint32
	ConstantHandle   uint32
	ProcedureHandle  uint32
)

// Type represents a type in the IR.
type Type struct {
	// Name is set for built-in scalars, void, and records.
	Name  string
	ID    uint32
	Inner TypeInner
}

// TypeInner represents the inner type kind.
type TypeInner interface {
	typeInner()
}

// ScalarType represents scalar types.
type ScalarType struct {
	Kind ScalarKind
}

func (ScalarType) typeInner() {}

// ScalarKind represents scalar type kinds.
type ScalarKind uint8

const (
	ScalarBool ScalarKind = iota
	ScalarF32
	ScalarF64
	ScalarI32
	ScalarU32
)

// IsFloat reports whether the kind is a floating point kind.
func (k ScalarKind) IsFloat() bool {
	return k == ScalarF32 || k == ScalarF64
}

// IsInteger reports whether the kind is an integer kind.
func (k ScalarKind) IsInteger() bool {
	return k == ScalarI32 || k == ScalarU32
}

// VoidType is the return type of procedures without a value.
type VoidType struct{}

func (VoidType) typeInner() {}

// VectorType represents vector types.
type VectorType struct {
	Component TypeHandle
	Size      uint32
}

func (VectorType) typeInner() {}

// PointerType represents pointer types.
type PointerType struct {
	Base  TypeHandle
	Class StorageClass
}

func (PointerType) typeInner() {}

// ProcedureType is a procedure signature. Procedures take no parameters.
type ProcedureType struct {
	Return TypeHandle
}

func (ProcedureType) typeInner() {}

// RecordType represents record types.
type RecordType struct {
	Members []RecordMember
}

func (RecordType) typeInner() {}

// RecordMember represents a record member.
type RecordMember struct {
	Name    string
	Type    TypeHandle
	Builtin Builtin
}

// StorageClass represents the binding visibility of a variable.
type StorageClass uint8

const (
	StorageInput StorageClass = iota
	StorageOutput
	StoragePrivate
	StorageFunction
)

// Builtin tags a variable or record member with a pipeline built-in.
type Builtin uint8

const (
	BuiltinNone Builtin = iota
	BuiltinPosition
)

// Direction is the declared direction of a module-scope variable.
type Direction uint8

const (
	DirectionIn Direction = iota
	DirectionOut
	DirectionPrivate
)

// StorageClass returns the storage class globals of this direction live in.
func (d Direction) StorageClass() StorageClass {
	switch d {
	case DirectionIn:
		return StorageInput
	case DirectionOut:
		return StorageOutput
	default:
		return StoragePrivate
	}
}

// Global represents a module-scope variable.
type Global struct {
	Name      string
	Direction Direction
	// Location is nil when no explicit `at N` binding was given.
	Location *uint32
	Builtin  Builtin
	Type     TypeHandle
	PtrType  TypeHandle
	ID       uint32
	Local    *Local
}

// IsInterface reports whether the global belongs in entry point interfaces.
func (g *Global) IsInterface() bool {
	return g.Direction == DirectionIn || g.Direction == DirectionOut
}

// Local is a name-scoped variable binding.
type Local struct {
	Name    string
	Type    TypeHandle
	PtrType TypeHandle
	ID      uint32
	// Global is set when the local aliases a module-scope variable.
	Global *Global
}

// Constant is a literal from the deduplicated constant pool.
type Constant struct {
	Type TypeHandle
	ID   uint32
	// Bits is the IEEE-754 bit pattern of the float value.
	Bits uint32
}

// Procedure represents a procedure definition and its generated code.
type Procedure struct {
	Name    string
	ID      uint32
	Type    TypeHandle
	Return  TypeHandle
	LabelID uint32

	// Variables holds the OpVariable words of function-local variables.
	// They are emitted at the top of the entry block.
	Variables []uint32
	Body      []uint32

	Returned  bool
	Interface []*Global
}

// EntryPoint represents a shader entry point.
type EntryPoint struct {
	Name      string
	Stage     ShaderStage
	Procedure ProcedureHandle
}

// ShaderStage represents a shader stage.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}
