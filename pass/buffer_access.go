package pass

import (
	"github.com/gogpu/instrument/ir"
	"github.com/gogpu/instrument/spirv"
)

// BufferAccessCheckName is the link name of the imported routine a
// BufferAccessCheck calls:
//
//	bool inst_buffer_access(uvec4 stage_info, uint inst_pos,
//	                        uint binding, uint index)
//
// The routine is declared with Import linkage and resolved when the
// instrumented module is linked against the check library.
const BufferAccessCheckName = "inst_buffer_access"

// BufferAccessCheck flags loads and stores through an access chain into a
// storage-buffer variable and reports the accessed index to the check
// routine. It is the reference policy exercising the full injection
// protocol; real deployments register their own Check implementations.
type BufferAccessCheck struct {
	// funcID is the lazily declared imported check routine; it persists
	// across injections and runs within one module.
	funcID uint32

	// Per-site scratch recorded by AnalyzeInstruction, cleared by Reset.
	indexID uint32
	binding uint32
}

// NewBufferAccessCheck creates the check. One instance serves one module.
func NewBufferAccessCheck() *BufferAccessCheck {
	return &BufferAccessCheck{}
}

// AnalyzeInstruction flags OpLoad and OpStore whose pointer is an access
// chain based on a StorageBuffer-class variable.
func (c *BufferAccessCheck) AnalyzeInstruction(p *Pass, fn *ir.Function, inst *ir.Instruction) *ir.Instruction {
	switch inst.Opcode {
	case spirv.OpLoad, spirv.OpStore:
	default:
		return nil
	}

	m := p.Module()
	chain := m.FindDef(inst.Operand(0))
	if chain == nil {
		return nil
	}
	if chain.Opcode != spirv.OpAccessChain && chain.Opcode != spirv.OpInBoundsAccessChain {
		return nil
	}
	if len(chain.Operands) < 2 {
		return nil
	}
	base := m.FindDef(chain.Operand(0))
	if base == nil || base.Opcode != spirv.OpVariable {
		return nil
	}
	if spirv.StorageClass(base.Operand(0)) != spirv.StorageClassStorageBuffer {
		return nil
	}

	c.indexID = chain.Operands[len(chain.Operands)-1]
	c.binding = 0
	if dec := p.GetDecoration(base.ResultID, spirv.DecorationBinding); dec != nil {
		c.binding = dec.Operand(2)
	}
	return inst
}

// CreateFunctionCall emits
//
//	%valid = OpFunctionCall %bool %inst_buffer_access
//	         %stage_info %inst_pos %binding %index
//
// casting the accessed index to the canonical 32-bit unsigned encoding
// first.
func (c *BufferAccessCheck) CreateFunctionCall(p *Pass, block *ir.BasicBlock, cursor int, data InjectionData) (uint32, int) {
	m := p.Module()
	funcID := c.checkFunction(m)

	indexID, cursor := p.CastToUint32(c.indexID, block, cursor)
	uintType := m.TypeUint32()

	call := ir.New(spirv.OpFunctionCall, m.TypeBool(), m.TakeNextID(),
		funcID, data.StageInfoID, data.InstPositionID,
		m.Constant32(uintType, c.binding), indexID)
	cursor = insertAt(block, cursor, call)
	return call.ResultID, cursor
}

// Reset clears the per-site scratch.
func (c *BufferAccessCheck) Reset() {
	c.indexID = 0
	c.binding = 0
}

// checkFunction declares the imported check routine on first use and
// returns its ID afterwards.
func (c *BufferAccessCheck) checkFunction(m *ir.Module) uint32 {
	if c.funcID != 0 {
		return c.funcID
	}

	uintType := m.TypeUint32()
	uvec4Type := m.TypeVector(uintType, 4)
	boolType := m.TypeBool()
	funcType := m.TypeFunction(boolType, uvec4Type, uintType, uintType, uintType)

	def := ir.New(spirv.OpFunction, boolType, m.TakeNextID(),
		uint32(spirv.FunctionControlNone), funcType)
	fn := ir.NewFunction(def)
	for _, paramType := range []uint32{uvec4Type, uintType, uintType, uintType} {
		fn.Parameters = append(fn.Parameters, ir.New(spirv.OpFunctionParameter, paramType, m.TakeNextID()))
	}
	m.AddFunctionDeclaration(fn)

	m.AddCapability(spirv.CapabilityLinkage)
	params := append(ir.EncodeString(BufferAccessCheckName), uint32(spirv.LinkageTypeImport))
	m.Decorate(def.ResultID, spirv.DecorationLinkageAttributes, params...)

	c.funcID = def.ResultID
	return c.funcID
}
