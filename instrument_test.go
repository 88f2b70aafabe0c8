package instrument

import (
	"testing"

	"github.com/gogpu/instrument/ir"
	"github.com/gogpu/instrument/pass"
	"github.com/gogpu/instrument/spirv"
)

// computeShader assembles a compute shader that increments one element of
// a storage buffer.
func computeShader(tb testing.TB) []byte {
	tb.Helper()
	m := ir.NewModule(spirv.Version1_3)
	m.AddCapability(spirv.CapabilityShader)
	m.MemoryModel = ir.New(spirv.OpMemoryModel, 0, 0,
		uint32(spirv.AddressingModelLogical), uint32(spirv.MemoryModelGLSL450))

	uintType := m.TypeUint32()
	bufPtr := m.TypePointer(spirv.StorageClassStorageBuffer, uintType)
	buf := m.AddGlobalVariable(bufPtr, spirv.StorageClassStorageBuffer)
	m.Decorate(buf.ResultID, spirv.DecorationDescriptorSet, 0)
	m.Decorate(buf.ResultID, spirv.DecorationBinding, 0)

	voidType := m.TypeVoid()
	fn := ir.NewFunction(ir.New(spirv.OpFunction, voidType, m.TakeNextID(),
		uint32(spirv.FunctionControlNone), m.TypeFunction(voidType)))
	block := ir.NewBasicBlock(m.TakeNextID())

	index := m.Constant32(uintType, 3)
	chain := ir.New(spirv.OpAccessChain, bufPtr, m.TakeNextID(), buf.ResultID, index)
	load := ir.New(spirv.OpLoad, uintType, m.TakeNextID(), chain.ResultID)
	sum := ir.New(spirv.OpIAdd, uintType, m.TakeNextID(), load.ResultID, m.Constant32(uintType, 1))
	block.Append(chain)
	block.Append(load)
	block.Append(sum)
	block.Append(ir.New(spirv.OpStore, 0, 0, chain.ResultID, sum.ResultID))
	block.Append(ir.New(spirv.OpReturn, 0, 0))
	fn.Blocks = append(fn.Blocks, block)
	m.Functions = append(m.Functions, fn)

	operands := []uint32{uint32(spirv.ExecutionModelGLCompute), fn.ID()}
	operands = append(operands, ir.EncodeString("main")...)
	m.EntryPoints = append(m.EntryPoints, ir.New(spirv.OpEntryPoint, 0, 0, operands...))

	return m.Encode()
}

func TestRun_Conditional(t *testing.T) {
	checked, err := Run(computeShader(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	module, err := ir.Decode(checked)
	if err != nil {
		t.Fatalf("Instrumented binary does not decode: %v", err)
	}

	// The check routine is declared with Import linkage and no body,
	// ahead of every definition as the function section requires.
	if len(module.Functions) != 2 {
		t.Fatalf("Expected the check routine declared, got %d functions", len(module.Functions))
	}
	decl := module.Functions[0]
	if len(decl.Blocks) != 0 {
		t.Errorf("Expected a bodyless routine, got %d blocks", len(decl.Blocks))
	}

	// The load and the store each split the entry function once.
	entry := module.Functions[1]
	if len(entry.Blocks) != 5 {
		t.Errorf("Expected 5 blocks in the instrumented entry function, got %d", len(entry.Blocks))
	}

	linkage := false
	for _, cap := range module.Capabilities {
		if spirv.Capability(cap.Operand(0)) == spirv.CapabilityLinkage {
			linkage = true
		}
	}
	if !linkage {
		t.Error("Expected CapabilityLinkage in the instrumented module")
	}

	calls := 0
	for _, block := range entry.Blocks {
		for _, inst := range block.Instructions {
			if inst.Opcode == spirv.OpFunctionCall && inst.Operand(0) == decl.ID() {
				calls++
			}
		}
	}
	if calls != 2 {
		t.Errorf("Expected 2 check calls, got %d", calls)
	}
}

func TestRun_ReportOnly(t *testing.T) {
	opts := Options{
		Conditional: false,
		Checks:      []pass.Check{pass.NewBufferAccessCheck()},
	}
	checked, err := Run(computeShader(t), opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	module, err := ir.Decode(checked)
	if err != nil {
		t.Fatalf("Instrumented binary does not decode: %v", err)
	}
	entry := module.Functions[len(module.Functions)-1]
	if len(entry.Blocks) != 1 {
		t.Errorf("Expected control flow unchanged, got %d blocks", len(entry.Blocks))
	}
}

func TestRun_RejectsBadInput(t *testing.T) {
	if _, err := Run([]byte{1, 2, 3}, DefaultOptions()); err == nil {
		t.Error("Expected an error for a malformed binary")
	}
}

func TestRun_NoSitesLeavesModuleAlone(t *testing.T) {
	m := ir.NewModule(spirv.Version1_3)
	m.AddCapability(spirv.CapabilityShader)
	m.MemoryModel = ir.New(spirv.OpMemoryModel, 0, 0,
		uint32(spirv.AddressingModelLogical), uint32(spirv.MemoryModelGLSL450))

	voidType := m.TypeVoid()
	fn := ir.NewFunction(ir.New(spirv.OpFunction, voidType, m.TakeNextID(),
		uint32(spirv.FunctionControlNone), m.TypeFunction(voidType)))
	block := ir.NewBasicBlock(m.TakeNextID())
	block.Append(ir.New(spirv.OpReturn, 0, 0))
	fn.Blocks = append(fn.Blocks, block)
	m.Functions = append(m.Functions, fn)
	operands := []uint32{uint32(spirv.ExecutionModelGLCompute), fn.ID()}
	operands = append(operands, ir.EncodeString("main")...)
	m.EntryPoints = append(m.EntryPoints, ir.New(spirv.OpEntryPoint, 0, 0, operands...))
	binary := m.Encode()

	checked, err := Run(binary, DefaultOptions())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(checked) != len(binary) {
		t.Errorf("Expected an untouched module to keep its size: %d vs %d bytes",
			len(binary), len(checked))
	}
}
