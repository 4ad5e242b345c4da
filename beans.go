// Package beans provides a Pure Go compiler for the Beans Shading Language.
//
// beans compiles BSL source directly into a SPIR-V binary for Vulkan.
// There is no intermediate syntax tree: the parser type-checks each
// declaration and generates its instructions as it reads them, and a
// packer serializes the finished module.
//
// Example usage:
//
//	source := []byte(`
//	out frag: vec4<f32> at 0;
//
//	[entry_point(fragment)]
//	procedure main() -> void
//	    frag := {1.0, 0.0, 0.0, 1.0};
//	end
//	`)
//	binary, err := beans.Compile(source, beans.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Compile errors are *bsl.SourceError values carrying the line and column
// of the problem; use errors.As to recover them. Running out of one of the
// configured limits additionally wraps an *ir.LimitError.
package beans

import (
	"fmt"

	"github.com/gogpu/beans/bsl"
	"github.com/gogpu/beans/ir"
	"github.com/gogpu/beans/spirv"
)

// Options configures shader compilation.
type Options struct {
	// Limits bounds the size of a compile. Zero fields use the defaults.
	Limits ir.Limits
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{Limits: ir.DefaultLimits()}
}

// Compile compiles BSL source code to a SPIR-V binary.
//
// The compilation pipeline is:
//  1. Parse, type-check and generate code for every declaration
//  2. Pack the module into a little-endian word stream
func Compile(source []byte, opts Options) ([]byte, error) {
	module, err := Parse(source, opts)
	if err != nil {
		return nil, err
	}
	return Generate(module)
}

// Parse compiles source into a module without packing it.
//
// The returned module holds every type, constant, global and procedure
// body, ready for Generate.
func Parse(source []byte, opts Options) (*ir.Module, error) {
	return bsl.Parse(string(source), opts.Limits)
}

// Generate packs a parsed module into a SPIR-V binary.
func Generate(module *ir.Module) ([]byte, error) {
	binary, err := spirv.Pack(module)
	if err != nil {
		return nil, fmt.Errorf("SPIR-V generation error: %w", err)
	}
	return binary, nil
}
