// Package spirv generates SPIR-V binaries from Beans IR.
//
// SPIR-V is the standard intermediate language for GPU shaders,
// used by Vulkan, OpenCL, and other APIs.
//
// # Code Generation
//
// The Generator appends instructions to a procedure while the parser is
// still reading it. There is no separate lowering pass:
//
//	gen := spirv.NewGenerator(module)
//	id, err := gen.Expression(proc, expr)
//	if err != nil {
//		return err
//	}
//	err = gen.Store(proc, local.ID, id)
//
// # Packing
//
// Pack serializes a finished module. It walks the module twice with the
// same visitor, first counting words and then writing them, so the
// output buffer is allocated exactly once:
//
//	binary, err := spirv.Pack(module)
//
// # SPIR-V Structure
//
// Packed modules consist of:
//   - Header (magic, version 1.0, generator 0, bound, schema 0)
//   - Capabilities (Shader, plus Float64 when f64 is used)
//   - The GLSL.std.450 import as id 1
//   - Memory model (Logical GLSL450)
//   - Entry points with their interface variables
//   - Execution modes (OriginUpperLeft for fragment entry points)
//   - Annotations (Location and BuiltIn decorations)
//   - Types in registration order
//   - Global variables
//   - Constants
//   - Functions (code)
//
// # Disassembly
//
// Parse and Disassemble decode binaries back into instructions and a
// readable listing. They are used by tests and by the beansc tool.
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
