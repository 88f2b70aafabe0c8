package ir

import "github.com/gogpu/instrument/spirv"

// Function is an ordered sequence of basic blocks forming a control-flow
// graph, bracketed by its OpFunction and OpFunctionEnd instructions. A
// function with no blocks is a declaration (for example an imported check
// routine resolved at link time).
type Function struct {
	Def        *Instruction // OpFunction
	Parameters []*Instruction
	Blocks     []*BasicBlock
	End        *Instruction // OpFunctionEnd
}

// NewFunction creates a function from its OpFunction instruction.
func NewFunction(def *Instruction) *Function {
	return &Function{
		Def: def,
		End: New(spirv.OpFunctionEnd, 0, 0),
	}
}

// ID returns the function's result ID.
func (f *Function) ID() uint32 {
	return f.Def.ResultID
}

// EntryBlock returns the function's first block, or nil for a declaration.
func (f *Function) EntryBlock() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// BlockByID returns the block labeled id, or nil.
func (f *Function) BlockByID(id uint32) *BasicBlock {
	for _, block := range f.Blocks {
		if block.ID() == id {
			return block
		}
	}
	return nil
}

// InsertBlocksAfter splices blocks into the CFG just after index i.
func (f *Function) InsertBlocksAfter(i int, blocks ...*BasicBlock) {
	rest := make([]*BasicBlock, len(f.Blocks[i+1:]))
	copy(rest, f.Blocks[i+1:])
	f.Blocks = append(f.Blocks[:i+1], blocks...)
	f.Blocks = append(f.Blocks, rest...)
}

// InstructionCount returns the number of body instructions across all
// blocks, excluding labels.
func (f *Function) InstructionCount() int {
	n := 0
	for _, block := range f.Blocks {
		n += len(block.Instructions)
	}
	return n
}
