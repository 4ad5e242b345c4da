package ir

import (
	"fmt"
	"strconv"
)

// Handles of the types every registry is seeded with.
const (
	VoidTypeHandle TypeHandle = 0
	F32TypeHandle  TypeHandle = 1
)

// scalarNames lists the built-in scalar type names.
var scalarNames = []struct {
	name string
	kind ScalarKind
}{
	{"bool", ScalarBool},
	{"f32", ScalarF32},
	{"f64", ScalarF64},
	{"i32", ScalarI32},
	{"u32", ScalarU32},
}

// TypeRegistry ensures type deduplication for SPIR-V emission.
// SPIR-V requires that each unique non-aggregate type is declared exactly
// once, so vectors, pointers and procedure signatures are looked up by
// structure before a new entry is allocated.
type TypeRegistry struct {
	types *Arena[Type]
	ids   *IDs
}

// NewTypeRegistry creates a registry seeded with void and f32.
func NewTypeRegistry(ids *IDs, limit int) (*TypeRegistry, error) {
	r := &TypeRegistry{
		types: NewArena[Type]("types", limit),
		ids:   ids,
	}
	if _, err := r.alloc("void", VoidType{}); err != nil {
		return nil, err
	}
	if _, err := r.alloc("f32", ScalarType{Kind: ScalarF32}); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *TypeRegistry) alloc(name string, inner TypeInner) (TypeHandle, error) {
	idx, err := r.types.Append(Type{Name: name, Inner: inner})
	if err != nil {
		return 0, err
	}
	// The id is taken only once the slot exists so a failed allocation
	// does not leave a hole in the id space.
	r.types.At(idx).ID = r.ids.Next()
	return TypeHandle(idx), nil
}

// MakeVector returns the vector type of size components of component.
func (r *TypeRegistry) MakeVector(component TypeHandle, size uint32) (TypeHandle, error) {
	for i, t := range r.types.Items() {
		if v, ok := t.Inner.(VectorType); ok && v.Component == component && v.Size == size {
			return TypeHandle(i), nil
		}
	}
	return r.alloc("", VectorType{Component: component, Size: size})
}

// MakePointer returns the pointer type to base in the given storage class.
func (r *TypeRegistry) MakePointer(base TypeHandle, class StorageClass) (TypeHandle, error) {
	for i, t := range r.types.Items() {
		if p, ok := t.Inner.(PointerType); ok && p.Base == base && p.Class == class {
			return TypeHandle(i), nil
		}
	}
	return r.alloc("", PointerType{Base: base, Class: class})
}

// MakeProcedure returns the signature of a procedure returning ret.
func (r *TypeRegistry) MakeProcedure(ret TypeHandle) (TypeHandle, error) {
	for i, t := range r.types.Items() {
		if p, ok := t.Inner.(ProcedureType); ok && p.Return == ret {
			return TypeHandle(i), nil
		}
	}
	return r.alloc("", ProcedureType{Return: ret})
}

// AddRecord registers a new record type. Records are nominal.
func (r *TypeRegistry) AddRecord(name string, members []RecordMember) (TypeHandle, error) {
	return r.alloc(name, RecordType{Members: members})
}

// LookupNamed resolves a type name. Built-in scalars other than f32 are
// registered the first time they are named.
func (r *TypeRegistry) LookupNamed(name string) (TypeHandle, bool, error) {
	for i, t := range r.types.Items() {
		if t.Name != "" && t.Name == name {
			return TypeHandle(i), true, nil
		}
	}
	for _, s := range scalarNames {
		if s.name == name {
			h, err := r.alloc(name, ScalarType{Kind: s.kind})
			if err != nil {
				return 0, false, err
			}
			return h, true, nil
		}
	}
	return 0, false, nil
}

// IsReservedName reports whether name is taken by a built-in type.
func IsReservedName(name string) bool {
	if name == "void" {
		return true
	}
	for _, s := range scalarNames {
		if s.name == name {
			return true
		}
	}
	return false
}

// Get returns the type for handle.
func (r *TypeRegistry) Get(handle TypeHandle) *Type {
	return r.types.At(uint32(handle))
}

// Types returns all registered types in registration order.
func (r *TypeRegistry) Types() []*Type {
	return r.types.Items()
}

// Count returns the number of registered types.
func (r *TypeRegistry) Count() int {
	return r.types.Len()
}

// Scalar returns the scalar kind of handle, if it is a scalar.
func (r *TypeRegistry) Scalar(handle TypeHandle) (ScalarKind, bool) {
	s, ok := r.Get(handle).Inner.(ScalarType)
	return s.Kind, ok
}

// Vector returns the vector description of handle, if it is a vector.
func (r *TypeRegistry) Vector(handle TypeHandle) (VectorType, bool) {
	v, ok := r.Get(handle).Inner.(VectorType)
	return v, ok
}

// ComponentKind returns the scalar kind of a scalar or of a vector's
// components.
func (r *TypeRegistry) ComponentKind(handle TypeHandle) (ScalarKind, bool) {
	if v, ok := r.Vector(handle); ok {
		return r.Scalar(v.Component)
	}
	return r.Scalar(handle)
}

// Name renders a type the way it is written in source.
func (r *TypeRegistry) Name(handle TypeHandle) string {
	t := r.Get(handle)
	switch inner := t.Inner.(type) {
	case VectorType:
		return "vec" + strconv.FormatUint(uint64(inner.Size), 10) + "<" + r.Name(inner.Component) + ">"
	case PointerType:
		return fmt.Sprintf("ptr<%s, %s>", inner.Class, r.Name(inner.Base))
	case ProcedureType:
		return "procedure() -> " + r.Name(inner.Return)
	default:
		return t.Name
	}
}

func (c StorageClass) String() string {
	switch c {
	case StorageInput:
		return "input"
	case StorageOutput:
		return "output"
	case StoragePrivate:
		return "private"
	case StorageFunction:
		return "function"
	default:
		return "unknown"
	}
}
