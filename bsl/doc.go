// Package bsl compiles Beans Shading Language source into SPIR-V modules.
//
// Beans is a small procedural shading language. A program is a sequence
// of records, module-scope variables and procedures:
//
//	in color: vec4<f32> at 0;
//	out frag: vec4<f32> at 0;
//
//	[entry_point(fragment)]
//	procedure main() -> void
//	    frag := color * 0.5;
//	end
//
// # Components
//
//   - Lexer: turns source into tokens on demand, one token of lookahead
//   - Parser: checks types and generates code in a single pass
//   - SourceError: a compile error with its line and column
//
// The parser does not build a syntax tree. Declarations are lowered into
// an ir.Module as they are read, with instructions produced by
// spirv.Generator. Pass the module to spirv.Pack for the final binary.
//
// # Usage
//
//	module, err := bsl.Parse(source, ir.DefaultLimits())
//	if err != nil {
//	    var se *bsl.SourceError
//	    if errors.As(err, &se) {
//	        fmt.Fprintln(os.Stderr, se.FormatWithContext())
//	    }
//	    return err
//	}
//	binary, err := spirv.Pack(module)
package bsl
