// Package ir defines the compile state of a Beans shader module.
//
// The IR is built in a single pass by the bsl parser and consumed by the
// SPIR-V packer. It is deliberately flat:
//   - Types: a deduplicating registry seeded with void and f32
//   - Constants: the f32 literal pool, shared by bit pattern
//   - Globals: module-scope variables with their direction and bindings
//   - Procedures: signatures plus already generated instruction words
//   - EntryPoints: procedures exposed to a pipeline stage
//
// # Ids
//
// Every object that ends up in the binary owns a module-unique id taken
// from Module.IDs at the moment it is created. Id 1 is reserved for the
// GLSL.std.450 import, so the first allocated id is 2 (void) and the
// second is 3 (f32).
//
// # Limits
//
// All pools are bounded. Limits describes the bounds and overflowing any
// of them yields a *LimitError.
package ir
