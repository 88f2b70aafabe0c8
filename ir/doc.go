// Package ir defines a mutable, word-level representation of a SPIR-V
// module for bytecode-to-bytecode instrumentation.
//
// Unlike a compiler-frontend IR, this representation stays as close to the
// binary encoding as possible: an Instruction is an opcode plus its operand
// words, a BasicBlock is an ordered instruction run ending in a terminator,
// and a Module owns the SPIR-V sections plus the ID bound. Passes mutate
// the tree in place; the Module is the sole authority for allocating fresh
// IDs and for registering new types and constants (deduplicated).
//
// # Structure
//
//	Module
//	  ├── header sections (capabilities, entry points, annotations, ...)
//	  ├── types / constants / global variables (one ordered section)
//	  └── Functions
//	        └── BasicBlocks
//	              └── Instructions
//
// Decode reconstructs this tree from a SPIR-V binary; Module.Encode turns
// it back into one. A decode/encode round trip of an untouched module is
// word-for-word identical.
package ir
