// Package shadercache keeps compiled shaders and their driver modules
// keyed by source path.
//
// A Device turns SPIR-V into driver objects. The cache compiles each path
// once with beans.Compile, hands the binary to the device, and keeps the
// result until Close. Reload recompiles a path in place, which is how hot
// reloading is wired: whatever watches the filesystem calls Reload.
//
// Compiled binaries can also be stored in a DiskCache keyed by the SHA-256
// of the source, so unchanged shaders skip compilation across runs.
package shadercache
