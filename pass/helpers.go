package pass

import (
	"fmt"

	"github.com/gogpu/instrument/ir"
	"github.com/gogpu/instrument/spirv"
)

// GetBuiltinVariable returns the module-scope input variable decorated
// with the requested built-in kind, declaring it (with the appropriate
// type, decoration and entry-point interface registration) if the module
// has none. Idempotent: two calls for the same kind return the same
// variable.
func (p *Pass) GetBuiltinVariable(builtin spirv.BuiltIn) *ir.Instruction {
	m := p.module
	for _, ann := range m.Annotations {
		if ann.Opcode == spirv.OpDecorate &&
			spirv.Decoration(ann.Operand(1)) == spirv.DecorationBuiltIn &&
			spirv.BuiltIn(ann.Operand(2)) == builtin {
			if def := m.FindDef(ann.Operand(0)); def != nil && def.Opcode == spirv.OpVariable {
				return def
			}
		}
	}

	uintType := m.TypeUint32()
	var baseType uint32
	switch builtin {
	case spirv.BuiltInGlobalInvocationID, spirv.BuiltInLocalInvocationID,
		spirv.BuiltInWorkgroupID, spirv.BuiltInNumWorkgroups:
		baseType = m.TypeVector(uintType, 3)
	case spirv.BuiltInFragCoord:
		baseType = m.TypeVector(m.TypeFloat(32), 4)
	default:
		baseType = uintType
	}

	pointerType := m.TypePointer(spirv.StorageClassInput, baseType)
	variable := m.AddGlobalVariable(pointerType, spirv.StorageClassInput)
	m.Decorate(variable.ResultID, spirv.DecorationBuiltIn, uint32(builtin))
	m.AddInterfaceVariable(variable.ResultID)
	return variable
}

// GetDecoration returns the OpDecorate instruction attaching the requested
// decoration to id, or nil. Absence of a decoration is a normal outcome
// callers must handle.
func (p *Pass) GetDecoration(id uint32, decoration spirv.Decoration) *ir.Instruction {
	for _, ann := range p.module.Annotations {
		if ann.Opcode == spirv.OpDecorate &&
			ann.Operand(0) == id &&
			spirv.Decoration(ann.Operand(1)) == decoration {
			return ann
		}
	}
	return nil
}

// GetMemberDecoration is GetDecoration for struct members.
func (p *Pass) GetMemberDecoration(id, memberIndex uint32, decoration spirv.Decoration) *ir.Instruction {
	for _, ann := range p.module.Annotations {
		if ann.Opcode == spirv.OpMemberDecorate &&
			ann.Operand(0) == id &&
			ann.Operand(1) == memberIndex &&
			spirv.Decoration(ann.Operand(2)) == decoration {
			return ann
		}
	}
	return nil
}

// ConvertTo32 returns an ID holding the 32-bit-wide equivalent of the
// given integer or float value, inserting a width conversion at the cursor
// (or appending to the block for a negative cursor) only when the source
// width differs from 32. An already-32-bit value is returned unchanged
// with no instruction emitted.
func (p *Pass) ConvertTo32(id uint32, block *ir.BasicBlock, cursor int) (uint32, int) {
	m := p.module
	typeInst := m.TypeOf(id)
	switch typeInst.Opcode {
	case spirv.OpTypeInt:
		width := typeInst.Operand(0)
		if width == 32 {
			return id, cursor
		}
		signed := typeInst.Operand(1) == 1
		opcode := spirv.OpUConvert
		if signed {
			opcode = spirv.OpSConvert
		}
		conv := ir.New(opcode, m.TypeInt(32, signed), m.TakeNextID(), id)
		cursor = insertAt(block, cursor, conv)
		return conv.ResultID, cursor

	case spirv.OpTypeFloat:
		if typeInst.Operand(0) == 32 {
			return id, cursor
		}
		conv := ir.New(spirv.OpFConvert, m.TypeFloat(32), m.TakeNextID(), id)
		cursor = insertAt(block, cursor, conv)
		return conv.ResultID, cursor

	default:
		panic(fmt.Sprintf("pass: ConvertTo32 on non-numeric type %v", typeInst.Opcode))
	}
}

// CastToUint32 returns an ID holding the value reinterpreted as a 32-bit
// unsigned integer, composing a width conversion with a signedness bitcast
// or float conversion as needed. Every check call presents its operands in
// this one canonical encoding, which is what lets all checks share a
// single call ABI.
func (p *Pass) CastToUint32(id uint32, block *ir.BasicBlock, cursor int) (uint32, int) {
	m := p.module
	id, cursor = p.ConvertTo32(id, block, cursor)
	typeInst := m.TypeOf(id)
	switch typeInst.Opcode {
	case spirv.OpTypeInt:
		if typeInst.Operand(1) == 0 {
			return id, cursor
		}
		cast := ir.New(spirv.OpBitcast, m.TypeUint32(), m.TakeNextID(), id)
		cursor = insertAt(block, cursor, cast)
		return cast.ResultID, cursor

	case spirv.OpTypeFloat:
		conv := ir.New(spirv.OpConvertFToU, m.TypeUint32(), m.TakeNextID(), id)
		cursor = insertAt(block, cursor, conv)
		return conv.ResultID, cursor

	default:
		panic(fmt.Sprintf("pass: CastToUint32 on non-numeric type %v", typeInst.Opcode))
	}
}

// GetStageInfo returns the ID of the per-function uvec4 composite
// {stage, a, b, c} identifying the execution context of a check report:
//
//	GLCompute: a,b,c = GlobalInvocationId xyz
//	Vertex:    a,b   = VertexIndex, InstanceIndex
//	Fragment:  a,b   = FragCoord xy converted to uint
//
// Unfilled slots and non-entry functions report zero. The composite is
// built once at the top of the function's entry block (after any leading
// OpVariable run) and cached for subsequent sites in the same function.
func (p *Pass) GetStageInfo(fn *ir.Function) uint32 {
	if id, ok := p.stageInfo[fn]; ok {
		return id
	}
	entry := fn.EntryBlock()
	if entry == nil {
		panic(fmt.Sprintf("pass: stage info requested for declaration %%%d", fn.ID()))
	}

	m := p.module
	cursor := 0
	for cursor < len(entry.Instructions) && entry.Instructions[cursor].Opcode == spirv.OpVariable {
		cursor++
	}

	uintType := m.TypeUint32()
	zeroID := m.Constant32(uintType, 0)
	a, b, c := zeroID, zeroID, zeroID
	stageWord := uint32(0)

	if stage, isEntry := m.EntryStage(fn); isEntry {
		stageWord = uint32(stage)
		switch stage {
		case spirv.ExecutionModelGLCompute:
			gid := p.GetBuiltinVariable(spirv.BuiltInGlobalInvocationID)
			load := ir.New(spirv.OpLoad, m.TypeVector(uintType, 3), m.TakeNextID(), gid.ResultID)
			cursor = entry.InsertBefore(cursor, load)
			components := [3]*uint32{&a, &b, &c}
			for i, out := range components {
				extract := ir.New(spirv.OpCompositeExtract, uintType, m.TakeNextID(), load.ResultID, uint32(i))
				cursor = entry.InsertBefore(cursor, extract)
				*out = extract.ResultID
			}

		case spirv.ExecutionModelVertex:
			vertex := p.GetBuiltinVariable(spirv.BuiltInVertexIndex)
			instance := p.GetBuiltinVariable(spirv.BuiltInInstanceIndex)
			loadVertex := ir.New(spirv.OpLoad, uintType, m.TakeNextID(), vertex.ResultID)
			cursor = entry.InsertBefore(cursor, loadVertex)
			loadInstance := ir.New(spirv.OpLoad, uintType, m.TakeNextID(), instance.ResultID)
			cursor = entry.InsertBefore(cursor, loadInstance)
			a, b = loadVertex.ResultID, loadInstance.ResultID

		case spirv.ExecutionModelFragment:
			floatType := m.TypeFloat(32)
			coord := p.GetBuiltinVariable(spirv.BuiltInFragCoord)
			load := ir.New(spirv.OpLoad, m.TypeVector(floatType, 4), m.TakeNextID(), coord.ResultID)
			cursor = entry.InsertBefore(cursor, load)
			components := [2]*uint32{&a, &b}
			for i, out := range components {
				extract := ir.New(spirv.OpCompositeExtract, floatType, m.TakeNextID(), load.ResultID, uint32(i))
				cursor = entry.InsertBefore(cursor, extract)
				conv := ir.New(spirv.OpConvertFToU, uintType, m.TakeNextID(), extract.ResultID)
				cursor = entry.InsertBefore(cursor, conv)
				*out = conv.ResultID
			}
		}
	}

	composite := ir.New(spirv.OpCompositeConstruct, m.TypeVector(uintType, 4), m.TakeNextID(),
		m.Constant32(uintType, stageWord), a, b, c)
	entry.InsertBefore(cursor, composite)

	p.stageInfo[fn] = composite.ResultID
	return composite.ResultID
}
