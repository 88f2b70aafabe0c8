package ir

import "github.com/gogpu/instrument/spirv"

// Instruction represents one SPIR-V instruction: an opcode, the optional
// result-type and result IDs, and the remaining operand words in order.
type Instruction struct {
	Opcode spirv.Opcode

	// TypeID is the result-type ID, or 0 if the opcode has none.
	TypeID uint32

	// ResultID is the assigned result ID, or 0 if the opcode has none.
	ResultID uint32

	// Operands holds the operand words following the result IDs. For
	// opcodes without results these are all words after the opcode word.
	Operands []uint32

	// Position is the instruction's ordinal in the decoded binary stream,
	// used to correlate a runtime report back to the offending source
	// instruction. Injected instructions have Position 0.
	Position uint32
}

// New creates an instruction. typeID and resultID are 0 for opcodes
// without the corresponding word.
func New(opcode spirv.Opcode, typeID, resultID uint32, operands ...uint32) *Instruction {
	return &Instruction{
		Opcode:   opcode,
		TypeID:   typeID,
		ResultID: resultID,
		Operands: operands,
	}
}

// Operand returns the i-th operand word.
func (inst *Instruction) Operand(i int) uint32 {
	return inst.Operands[i]
}

// WordCount returns the encoded length in words, including the
// opcode/length word.
func (inst *Instruction) WordCount() int {
	n := 1 + len(inst.Operands)
	if inst.TypeID != 0 {
		n++
	}
	if inst.ResultID != 0 {
		n++
	}
	return n
}

// Words returns the full encoded word sequence, starting with the combined
// word-count/opcode word.
func (inst *Instruction) Words() []uint32 {
	words := make([]uint32, 0, inst.WordCount())
	words = append(words, uint32(inst.WordCount())<<16|uint32(inst.Opcode))
	if inst.TypeID != 0 {
		words = append(words, inst.TypeID)
	}
	if inst.ResultID != 0 {
		words = append(words, inst.ResultID)
	}
	words = append(words, inst.Operands...)
	return words
}

// ReplaceUses rewrites every ID operand equal to old with new and returns
// how many words changed. Literal operand words are left alone even when
// they collide numerically with old; result and type IDs are never
// rewritten.
func (inst *Instruction) ReplaceUses(old, new uint32) int {
	count := 0
	for i, op := range inst.Operands {
		if op == old && inst.Opcode.IsIDOperand(i) {
			inst.Operands[i] = new
			count++
		}
	}
	return count
}

// BranchTargets returns the labels a terminator can transfer control to,
// and nil for instructions that do not branch.
func (inst *Instruction) BranchTargets() []uint32 {
	switch inst.Opcode {
	case spirv.OpBranch:
		return inst.Operands[:1]
	case spirv.OpBranchConditional:
		return inst.Operands[1:3]
	case spirv.OpSwitch:
		targets := []uint32{inst.Operands[1]}
		for i := 3; i < len(inst.Operands); i += 2 {
			targets = append(targets, inst.Operands[i])
		}
		return targets
	}
	return nil
}

// IsTerminator reports whether this instruction ends a basic block.
func (inst *Instruction) IsTerminator() bool {
	return inst.Opcode.IsTerminator()
}
