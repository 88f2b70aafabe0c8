package ir

import (
	"testing"

	"github.com/gogpu/instrument/spirv"
)

func TestInsertBefore_CursorSemantics(t *testing.T) {
	block := NewBasicBlock(1)
	a := New(spirv.OpNop, 0, 0)
	b := New(spirv.OpNop, 0, 0)
	block.Append(a)
	block.Append(b)

	inserted := New(spirv.OpNop, 0, 0)
	cursor := block.InsertBefore(1, inserted)

	if cursor != 2 {
		t.Errorf("Expected cursor 2 past the insertion, got %d", cursor)
	}
	if block.Instructions[0] != a || block.Instructions[1] != inserted || block.Instructions[2] != b {
		t.Error("Expected order a, inserted, b")
	}
	if block.Instructions[cursor] != b {
		t.Error("Cursor should land on the instruction that was at the insertion point")
	}
}

func TestMoveTail(t *testing.T) {
	src := NewBasicBlock(1)
	dst := NewBasicBlock(2)
	a := New(spirv.OpNop, 0, 0)
	b := New(spirv.OpNop, 0, 0)
	ret := New(spirv.OpReturn, 0, 0)
	src.Append(a)
	src.Append(b)
	src.Append(ret)

	src.MoveTail(1, dst)

	if len(src.Instructions) != 1 || src.Instructions[0] != a {
		t.Errorf("Expected source to keep only the head, got %d instructions", len(src.Instructions))
	}
	if len(dst.Instructions) != 2 || dst.Instructions[0] != b || dst.Instructions[1] != ret {
		t.Error("Expected moved instructions to preserve order")
	}
	if dst.Terminator() != ret {
		t.Error("Expected terminator to move with the tail")
	}
	if src.Terminator() != nil {
		t.Error("Expected source to have no terminator after the move")
	}
}

func TestIndexOf(t *testing.T) {
	block := NewBasicBlock(1)
	a := New(spirv.OpNop, 0, 0)
	block.Append(a)

	if got := block.IndexOf(a); got != 0 {
		t.Errorf("Expected index 0, got %d", got)
	}
	if got := block.IndexOf(New(spirv.OpNop, 0, 0)); got != -1 {
		t.Errorf("Expected -1 for absent instruction, got %d", got)
	}
}

func TestInstructionWords(t *testing.T) {
	load := New(spirv.OpLoad, 3, 9, 4)
	words := load.Words()

	if len(words) != 4 {
		t.Fatalf("Expected 4 words, got %d", len(words))
	}
	if words[0] != uint32(4)<<16|uint32(spirv.OpLoad) {
		t.Errorf("Bad opcode word: 0x%08X", words[0])
	}
	if words[1] != 3 || words[2] != 9 || words[3] != 4 {
		t.Errorf("Bad operand words: %v", words[1:])
	}
}

func TestReplaceUses(t *testing.T) {
	add := New(spirv.OpIAdd, 3, 10, 7, 7)
	n := add.ReplaceUses(7, 12)

	if n != 2 {
		t.Errorf("Expected 2 replacements, got %d", n)
	}
	if add.Operand(0) != 12 || add.Operand(1) != 12 {
		t.Errorf("Expected operands rewritten, got %v", add.Operands)
	}
	if add.ResultID != 10 || add.TypeID != 3 {
		t.Error("Result and type ids must never be rewritten")
	}
}

func TestReplaceUses_SkipsLiterals(t *testing.T) {
	// The composite ID and the component index collide numerically; only
	// the ID operand may be rewritten.
	extract := New(spirv.OpCompositeExtract, 3, 10, 7, 7)
	n := extract.ReplaceUses(7, 12)

	if n != 1 {
		t.Errorf("Expected 1 replacement, got %d", n)
	}
	if extract.Operand(0) != 12 {
		t.Errorf("Expected composite operand rewritten, got %%%d", extract.Operand(0))
	}
	if extract.Operand(1) != 7 {
		t.Errorf("Expected literal component index untouched, got %d", extract.Operand(1))
	}

	// A store's optional memory-access mask is a literal too.
	store := New(spirv.OpStore, 0, 0, 5, 9, 9)
	store.ReplaceUses(9, 13)
	if store.Operand(1) != 13 || store.Operand(2) != 9 {
		t.Errorf("Expected only the stored value rewritten, got %v", store.Operands)
	}
}

func TestBranchTargets(t *testing.T) {
	tests := []struct {
		inst *Instruction
		want []uint32
	}{
		{New(spirv.OpBranch, 0, 0, 4), []uint32{4}},
		{New(spirv.OpBranchConditional, 0, 0, 2, 5, 6), []uint32{5, 6}},
		{New(spirv.OpSwitch, 0, 0, 2, 7, 0, 8, 1, 9), []uint32{7, 8, 9}},
		{New(spirv.OpReturn, 0, 0), nil},
	}

	for _, tt := range tests {
		got := tt.inst.BranchTargets()
		if len(got) != len(tt.want) {
			t.Errorf("%v: expected %v targets, got %v", tt.inst.Opcode, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%v: expected %v, got %v", tt.inst.Opcode, tt.want, got)
				break
			}
		}
	}
}
