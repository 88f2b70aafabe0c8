package ir

import (
	"fmt"

	"github.com/gogpu/instrument/spirv"
)

// Module owns everything in one shader program: the header fields, the
// ordered SPIR-V sections, and all functions. It is the sole authority for
// allocating fresh IDs (TakeNextID) and for registering types and
// constants, which are deduplicated against the existing section.
type Module struct {
	Version   spirv.Version
	Generator uint32
	Schema    uint32

	// Bound is the next free ID; it strictly exceeds every ID in use.
	Bound uint32

	// Sections, in specification order. Debug covers OpString, OpSource*,
	// OpName and OpMemberName. TypesValues interleaves types, constants
	// and module-scope variables the way the binary does.
	Capabilities   []*Instruction
	Extensions     []*Instruction
	ExtInstImports []*Instruction
	MemoryModel    *Instruction
	EntryPoints    []*Instruction
	ExecutionModes []*Instruction
	Debug          []*Instruction
	Annotations    []*Instruction
	TypesValues    []*Instruction

	Functions []*Function
}

// NewModule creates an empty module with an ID bound of 1.
func NewModule(version spirv.Version) *Module {
	return &Module{
		Version:   version,
		Generator: spirv.GeneratorID,
		Bound:     1,
	}
}

// TakeNextID allocates a fresh, module-unique ID.
func (m *Module) TakeNextID() uint32 {
	id := m.Bound
	m.Bound++
	return id
}

// AddCapability declares a capability if it is not already declared.
func (m *Module) AddCapability(cap spirv.Capability) {
	for _, inst := range m.Capabilities {
		if inst.Operand(0) == uint32(cap) {
			return
		}
	}
	m.Capabilities = append(m.Capabilities, New(spirv.OpCapability, 0, 0, uint32(cap)))
}

// Decorate appends an OpDecorate to the annotations section.
func (m *Module) Decorate(target uint32, decoration spirv.Decoration, params ...uint32) {
	operands := append([]uint32{target, uint32(decoration)}, params...)
	m.Annotations = append(m.Annotations, New(spirv.OpDecorate, 0, 0, operands...))
}

// findTypeValue scans the types/constants section for an instruction with
// the given opcode and operand words, ignoring the result ID.
func (m *Module) findTypeValue(opcode spirv.Opcode, typeID uint32, operands ...uint32) *Instruction {
	for _, inst := range m.TypesValues {
		if inst.Opcode != opcode || inst.TypeID != typeID {
			continue
		}
		if len(inst.Operands) != len(operands) {
			continue
		}
		match := true
		for i, op := range operands {
			if inst.Operands[i] != op {
				match = false
				break
			}
		}
		if match {
			return inst
		}
	}
	return nil
}

// addTypeValue registers a new instruction in the types/constants section
// under a fresh ID and returns that ID.
func (m *Module) addTypeValue(opcode spirv.Opcode, typeID uint32, operands ...uint32) uint32 {
	inst := New(opcode, typeID, m.TakeNextID(), operands...)
	m.TypesValues = append(m.TypesValues, inst)
	return inst.ResultID
}

// TypeVoid returns the ID of OpTypeVoid, declaring it if needed.
func (m *Module) TypeVoid() uint32 {
	if inst := m.findTypeValue(spirv.OpTypeVoid, 0); inst != nil {
		return inst.ResultID
	}
	return m.addTypeValue(spirv.OpTypeVoid, 0)
}

// TypeBool returns the ID of OpTypeBool, declaring it if needed.
func (m *Module) TypeBool() uint32 {
	if inst := m.findTypeValue(spirv.OpTypeBool, 0); inst != nil {
		return inst.ResultID
	}
	return m.addTypeValue(spirv.OpTypeBool, 0)
}

// TypeInt returns the ID of OpTypeInt with the given width and signedness,
// declaring it if needed.
func (m *Module) TypeInt(width uint32, signed bool) uint32 {
	signedness := uint32(0)
	if signed {
		signedness = 1
	}
	if inst := m.findTypeValue(spirv.OpTypeInt, 0, width, signedness); inst != nil {
		return inst.ResultID
	}
	return m.addTypeValue(spirv.OpTypeInt, 0, width, signedness)
}

// TypeUint32 returns the ID of the canonical 32-bit unsigned integer type.
func (m *Module) TypeUint32() uint32 {
	return m.TypeInt(32, false)
}

// TypeFloat returns the ID of OpTypeFloat with the given width, declaring
// it if needed.
func (m *Module) TypeFloat(width uint32) uint32 {
	if inst := m.findTypeValue(spirv.OpTypeFloat, 0, width); inst != nil {
		return inst.ResultID
	}
	return m.addTypeValue(spirv.OpTypeFloat, 0, width)
}

// TypeVector returns the ID of OpTypeVector over the given component type,
// declaring it if needed.
func (m *Module) TypeVector(componentType, count uint32) uint32 {
	if inst := m.findTypeValue(spirv.OpTypeVector, 0, componentType, count); inst != nil {
		return inst.ResultID
	}
	return m.addTypeValue(spirv.OpTypeVector, 0, componentType, count)
}

// TypePointer returns the ID of OpTypePointer for the storage class and
// pointee type, declaring it if needed.
func (m *Module) TypePointer(storageClass spirv.StorageClass, baseType uint32) uint32 {
	if inst := m.findTypeValue(spirv.OpTypePointer, 0, uint32(storageClass), baseType); inst != nil {
		return inst.ResultID
	}
	return m.addTypeValue(spirv.OpTypePointer, 0, uint32(storageClass), baseType)
}

// TypeFunction returns the ID of OpTypeFunction with the given signature,
// declaring it if needed.
func (m *Module) TypeFunction(returnType uint32, paramTypes ...uint32) uint32 {
	operands := append([]uint32{returnType}, paramTypes...)
	if inst := m.findTypeValue(spirv.OpTypeFunction, 0, operands...); inst != nil {
		return inst.ResultID
	}
	return m.addTypeValue(spirv.OpTypeFunction, 0, operands...)
}

// Constant32 returns the ID of a 32-bit OpConstant of the given type and
// value, declaring it if needed.
func (m *Module) Constant32(typeID, value uint32) uint32 {
	if inst := m.findTypeValue(spirv.OpConstant, typeID, value); inst != nil {
		return inst.ResultID
	}
	return m.addTypeValue(spirv.OpConstant, typeID, value)
}

// ConstantNull returns the ID of OpConstantNull of the given type, the
// zero value for any sized type, declaring it if needed.
func (m *Module) ConstantNull(typeID uint32) uint32 {
	if inst := m.findTypeValue(spirv.OpConstantNull, typeID); inst != nil {
		return inst.ResultID
	}
	return m.addTypeValue(spirv.OpConstantNull, typeID)
}

// AddGlobalVariable appends a module-scope OpVariable of the given pointer
// type and storage class and returns it.
func (m *Module) AddGlobalVariable(pointerType uint32, storageClass spirv.StorageClass) *Instruction {
	inst := New(spirv.OpVariable, pointerType, m.TakeNextID(), uint32(storageClass))
	m.TypesValues = append(m.TypesValues, inst)
	return inst
}

// AddFunctionDeclaration registers a bodyless function ahead of every
// definition; the SPIR-V function section requires all declarations first.
// The function list is rebuilt rather than shifted in place so slices
// snapshotted by an in-flight traversal keep their original contents.
func (m *Module) AddFunctionDeclaration(fn *Function) {
	i := 0
	for i < len(m.Functions) && len(m.Functions[i].Blocks) == 0 {
		i++
	}
	functions := make([]*Function, 0, len(m.Functions)+1)
	functions = append(functions, m.Functions[:i]...)
	functions = append(functions, fn)
	functions = append(functions, m.Functions[i:]...)
	m.Functions = functions
}

// FindDef resolves an ID to its defining instruction anywhere in the
// module, or nil if the ID is not defined.
func (m *Module) FindDef(id uint32) *Instruction {
	if id == 0 {
		return nil
	}
	for _, inst := range m.ExtInstImports {
		if inst.ResultID == id {
			return inst
		}
	}
	for _, inst := range m.TypesValues {
		if inst.ResultID == id {
			return inst
		}
	}
	for _, fn := range m.Functions {
		if fn.Def.ResultID == id {
			return fn.Def
		}
		for _, param := range fn.Parameters {
			if param.ResultID == id {
				return param
			}
		}
		for _, block := range fn.Blocks {
			if block.Label.ResultID == id {
				return block.Label
			}
			for _, inst := range block.Instructions {
				if inst.ResultID == id {
					return inst
				}
			}
		}
	}
	return nil
}

// TypeOf returns the defining instruction of a value's type. It is a
// contract violation to ask for the type of an undefined or untyped ID.
func (m *Module) TypeOf(id uint32) *Instruction {
	def := m.FindDef(id)
	if def == nil {
		panic(fmt.Sprintf("ir: no definition for id %%%d", id))
	}
	typeInst := m.FindDef(def.TypeID)
	if typeInst == nil {
		panic(fmt.Sprintf("ir: id %%%d has no result type", id))
	}
	return typeInst
}

// EntryStage returns the execution model of the entry point naming fn,
// and whether fn is an entry point at all.
func (m *Module) EntryStage(fn *Function) (spirv.ExecutionModel, bool) {
	for _, ep := range m.EntryPoints {
		if ep.Operand(1) == fn.ID() {
			return spirv.ExecutionModel(ep.Operand(0)), true
		}
	}
	return 0, false
}

// AddInterfaceVariable appends id to the interface list of every entry
// point that does not already reference it, making an injected global
// visible to the execution environment.
func (m *Module) AddInterfaceVariable(id uint32) {
	for _, ep := range m.EntryPoints {
		present := false
		// Interface IDs trail the entry point name string.
		nameEnd := 2 + stringWordCount(ep.Operands[2:])
		for _, op := range ep.Operands[nameEnd:] {
			if op == id {
				present = true
				break
			}
		}
		if !present {
			ep.Operands = append(ep.Operands, id)
		}
	}
}
