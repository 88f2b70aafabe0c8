package pass

import (
	"testing"

	"github.com/gogpu/instrument/ir"
	"github.com/gogpu/instrument/spirv"
)

func newTestPass(f *fixture) *Pass {
	return New(f.module, NewBufferAccessCheck(), true)
}

func TestGetBuiltinVariable_DeclaresOnce(t *testing.T) {
	f := newFixture(t)
	f.finish()
	p := newTestPass(f)

	first := p.GetBuiltinVariable(spirv.BuiltInGlobalInvocationID)
	if first.Opcode != spirv.OpVariable {
		t.Fatalf("Expected an OpVariable, got %v", first.Opcode)
	}
	if spirv.StorageClass(first.Operand(0)) != spirv.StorageClassInput {
		t.Errorf("Expected Input storage class, got %d", first.Operand(0))
	}
	if dec := p.GetDecoration(first.ResultID, spirv.DecorationBuiltIn); dec == nil {
		t.Error("Expected a BuiltIn decoration on the new variable")
	}

	// The declared variable must be registered on the entry point
	// interface.
	entryPoint := f.module.EntryPoints[0]
	found := false
	for _, word := range entryPoint.Operands {
		if word == first.ResultID {
			found = true
		}
	}
	if !found {
		t.Error("Expected the variable on the entry point interface")
	}

	second := p.GetBuiltinVariable(spirv.BuiltInGlobalInvocationID)
	if second != first {
		t.Errorf("Expected the existing variable reused, got %%%d and %%%d",
			first.ResultID, second.ResultID)
	}
}

func TestGetBuiltinVariable_FindsExisting(t *testing.T) {
	f := newFixture(t)
	f.finish()
	m := f.module

	ptr := m.TypePointer(spirv.StorageClassInput, m.TypeUint32())
	existing := m.AddGlobalVariable(ptr, spirv.StorageClassInput)
	m.Decorate(existing.ResultID, spirv.DecorationBuiltIn, uint32(spirv.BuiltInVertexIndex))

	if got := newTestPass(f).GetBuiltinVariable(spirv.BuiltInVertexIndex); got != existing {
		t.Errorf("Expected existing variable %%%d, got %%%d", existing.ResultID, got.ResultID)
	}
}

func TestGetDecoration(t *testing.T) {
	f := newFixture(t)
	f.finish()
	m := f.module
	p := newTestPass(f)

	id := m.TakeNextID()
	m.Decorate(id, spirv.DecorationBinding, 5)

	dec := p.GetDecoration(id, spirv.DecorationBinding)
	if dec == nil {
		t.Fatal("Expected the Binding decoration")
	}
	if dec.Operand(2) != 5 {
		t.Errorf("Expected binding 5, got %d", dec.Operand(2))
	}
	if p.GetDecoration(id, spirv.DecorationBuiltIn) != nil {
		t.Error("Expected nil for an absent decoration")
	}
}

func TestGetMemberDecoration(t *testing.T) {
	f := newFixture(t)
	f.finish()
	m := f.module
	p := newTestPass(f)

	id := m.TakeNextID()
	m.Annotations = append(m.Annotations, ir.New(spirv.OpMemberDecorate, 0, 0,
		id, 1, uint32(spirv.DecorationOffset), 16))

	dec := p.GetMemberDecoration(id, 1, spirv.DecorationOffset)
	if dec == nil {
		t.Fatal("Expected the member Offset decoration")
	}
	if dec.Operand(3) != 16 {
		t.Errorf("Expected offset 16, got %d", dec.Operand(3))
	}
	if p.GetMemberDecoration(id, 0, spirv.DecorationOffset) != nil {
		t.Error("Expected nil for a different member")
	}
}

func TestConvertTo32_NoOpAt32Bits(t *testing.T) {
	f := newFixture(t)
	f.finish()
	m := f.module
	p := newTestPass(f)

	id := m.Constant32(m.TypeUint32(), 9)
	before := len(f.block.Instructions)

	got, cursor := p.ConvertTo32(id, f.block, 0)
	if got != id {
		t.Errorf("Expected %%%d unchanged, got %%%d", id, got)
	}
	if cursor != 0 {
		t.Errorf("Expected cursor unchanged, got %d", cursor)
	}
	if len(f.block.Instructions) != before {
		t.Error("Expected no instruction emitted")
	}
}

func TestConvertTo32_NarrowsWideInt(t *testing.T) {
	f := newFixture(t)
	f.finish()
	m := f.module
	p := newTestPass(f)

	// A 64-bit constant carries its value in two words.
	u64 := m.TypeInt(64, false)
	wide := ir.New(spirv.OpConstant, u64, m.TakeNextID(), 5, 0)
	m.TypesValues = append(m.TypesValues, wide)

	got, cursor := p.ConvertTo32(wide.ResultID, f.block, 0)
	if cursor != 1 {
		t.Errorf("Expected cursor past the conversion, got %d", cursor)
	}
	conv := f.block.Instructions[0]
	if conv.Opcode != spirv.OpUConvert {
		t.Fatalf("Expected OpUConvert, got %v", conv.Opcode)
	}
	if conv.ResultID != got || conv.Operand(0) != wide.ResultID {
		t.Errorf("Wrong conversion wiring: %v", conv.Operands)
	}
	if conv.TypeID != m.TypeUint32() {
		t.Errorf("Expected 32-bit unsigned result type")
	}
}

func TestCastToUint32_SignedBitcast(t *testing.T) {
	f := newFixture(t)
	f.finish()
	m := f.module
	p := newTestPass(f)

	i32 := m.TypeInt(32, true)
	id := m.Constant32(i32, 7)

	got, cursor := p.CastToUint32(id, f.block, 0)
	if cursor != 1 {
		t.Errorf("Expected cursor past the cast, got %d", cursor)
	}
	cast := f.block.Instructions[0]
	if cast.Opcode != spirv.OpBitcast || cast.ResultID != got {
		t.Errorf("Expected an OpBitcast yielding %%%d, got %v", got, cast.Opcode)
	}
}

func TestCastToUint32_FloatConverts(t *testing.T) {
	f := newFixture(t)
	f.finish()
	m := f.module
	p := newTestPass(f)

	f32 := m.TypeFloat(32)
	id := m.Constant32(f32, 0x40400000) // 3.0

	got, _ := p.CastToUint32(id, f.block, 0)
	conv := f.block.Instructions[0]
	if conv.Opcode != spirv.OpConvertFToU || conv.ResultID != got {
		t.Errorf("Expected an OpConvertFToU yielding %%%d, got %v", got, conv.Opcode)
	}
}

func TestCastToUint32_UnsignedUntouched(t *testing.T) {
	f := newFixture(t)
	f.finish()
	p := newTestPass(f)

	id := f.module.Constant32(f.uintType, 11)
	got, cursor := p.CastToUint32(id, f.block, 0)
	if got != id || cursor != 0 {
		t.Errorf("Expected no-op cast, got %%%d at cursor %d", got, cursor)
	}
}

func TestGetStageInfo_Compute(t *testing.T) {
	f := newFixture(t)
	m := f.module

	// A leading local variable must stay ahead of the stage info code.
	local := ir.New(spirv.OpVariable, m.TypePointer(spirv.StorageClassFunction, f.uintType),
		m.TakeNextID(), uint32(spirv.StorageClassFunction))
	f.block.InsertBefore(0, local)
	f.finish()

	p := newTestPass(f)
	id := p.GetStageInfo(f.fn)

	entry := f.fn.EntryBlock()
	if entry.Instructions[0] != local {
		t.Error("Expected the local variable to stay first")
	}
	if entry.Instructions[1].Opcode != spirv.OpLoad {
		t.Errorf("Expected the builtin load after the variables, got %v", entry.Instructions[1].Opcode)
	}

	var composite *ir.Instruction
	for _, inst := range entry.Instructions {
		if inst.Opcode == spirv.OpCompositeConstruct && inst.ResultID == id {
			composite = inst
		}
	}
	if composite == nil {
		t.Fatal("Expected the stage info composite in the entry block")
	}
	if len(composite.Operands) != 4 {
		t.Fatalf("Expected 4 components, got %d", len(composite.Operands))
	}
	if got := constantValue(t, m, composite.Operand(0)); got != uint32(spirv.ExecutionModelGLCompute) {
		t.Errorf("Expected stage word %d, got %d", spirv.ExecutionModelGLCompute, got)
	}
	for i := 1; i < 4; i++ {
		def := m.FindDef(composite.Operand(i))
		if def == nil || def.Opcode != spirv.OpCompositeExtract {
			t.Errorf("Expected component %d extracted from the invocation ID, got %v", i, def)
		}
	}

	// Cached on the second request.
	before := len(entry.Instructions)
	if again := p.GetStageInfo(f.fn); again != id {
		t.Errorf("Expected cached ID %%%d, got %%%d", id, again)
	}
	if len(entry.Instructions) != before {
		t.Error("Expected no new instructions on the cached path")
	}
}

func TestGetStageInfo_Vertex(t *testing.T) {
	f := newFixture(t)
	f.finish()
	m := f.module
	// Rewrite the entry point to the vertex stage.
	m.EntryPoints[0].Operands[0] = uint32(spirv.ExecutionModelVertex)

	p := newTestPass(f)
	id := p.GetStageInfo(f.fn)

	composite := m.FindDef(id)
	if composite == nil || composite.Opcode != spirv.OpCompositeConstruct {
		t.Fatalf("Expected a composite, got %v", composite)
	}
	if got := constantValue(t, m, composite.Operand(0)); got != uint32(spirv.ExecutionModelVertex) {
		t.Errorf("Expected stage word %d, got %d", spirv.ExecutionModelVertex, got)
	}
	for i := 1; i <= 2; i++ {
		def := m.FindDef(composite.Operand(i))
		if def == nil || def.Opcode != spirv.OpLoad {
			t.Errorf("Expected component %d loaded from a vertex builtin, got %v", i, def)
		}
	}
	if got := constantValue(t, m, composite.Operand(3)); got != 0 {
		t.Errorf("Expected unfilled slot zero, got %d", got)
	}
}

func TestGetStageInfo_NonEntryFunction(t *testing.T) {
	f := newFixture(t)
	f.finish()
	m := f.module

	voidType := m.TypeVoid()
	helper := ir.NewFunction(ir.New(spirv.OpFunction, voidType, m.TakeNextID(),
		uint32(spirv.FunctionControlNone), m.TypeFunction(voidType)))
	block := ir.NewBasicBlock(m.TakeNextID())
	block.Append(ir.New(spirv.OpReturn, 0, 0))
	helper.Blocks = append(helper.Blocks, block)
	m.Functions = append(m.Functions, helper)

	composite := m.FindDef(newTestPass(f).GetStageInfo(helper))
	for i := 0; i < 4; i++ {
		if got := constantValue(t, m, composite.Operand(i)); got != 0 {
			t.Errorf("Expected component %d zero for a non-entry function, got %d", i, got)
		}
	}
}
