package ir

import "github.com/gogpu/instrument/spirv"

// BasicBlock is an ordered, mutable run of instructions ending in exactly
// one control-flow terminator. The OpLabel heading the block is stored
// separately from the body.
//
// Positions inside a block are plain indices into Instructions. Insertion
// methods return the index just past the inserted instruction, so a caller
// holding a cursor can keep walking without re-scanning; indices before the
// insertion point remain valid.
type BasicBlock struct {
	Label        *Instruction // OpLabel
	Instructions []*Instruction
}

// NewBasicBlock creates an empty block labeled with the given ID.
func NewBasicBlock(labelID uint32) *BasicBlock {
	return &BasicBlock{
		Label: New(spirv.OpLabel, 0, labelID),
	}
}

// ID returns the block's label ID.
func (b *BasicBlock) ID() uint32 {
	return b.Label.ResultID
}

// Terminator returns the block's final instruction, or nil for a block
// still under construction.
func (b *BasicBlock) Terminator() *Instruction {
	if len(b.Instructions) == 0 {
		return nil
	}
	last := b.Instructions[len(b.Instructions)-1]
	if !last.IsTerminator() {
		return nil
	}
	return last
}

// IndexOf returns the index of inst in the block, or -1 if absent.
func (b *BasicBlock) IndexOf(inst *Instruction) int {
	for i, cur := range b.Instructions {
		if cur == inst {
			return i
		}
	}
	return -1
}

// InsertBefore inserts inst at index i and returns the index just past it.
func (b *BasicBlock) InsertBefore(i int, inst *Instruction) int {
	b.Instructions = append(b.Instructions, nil)
	copy(b.Instructions[i+1:], b.Instructions[i:])
	b.Instructions[i] = inst
	return i + 1
}

// Append adds inst at the end of the block.
func (b *BasicBlock) Append(inst *Instruction) {
	b.Instructions = append(b.Instructions, inst)
}

// MoveTail relocates the instructions from index i to the end of the block
// into dst, preserving their order.
func (b *BasicBlock) MoveTail(i int, dst *BasicBlock) {
	dst.Instructions = append(dst.Instructions, b.Instructions[i:]...)
	b.Instructions = b.Instructions[:i]
}
