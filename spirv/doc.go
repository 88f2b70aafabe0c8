// Package spirv defines the SPIR-V constants and the small slice of the
// instruction grammar that shader instrumentation needs: opcodes, storage
// classes, decorations, built-ins, execution models, and the per-opcode
// result layout used when decoding binary modules.
//
// The constants follow the SPIR-V unified specification:
// https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
