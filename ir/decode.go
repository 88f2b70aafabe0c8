package ir

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/instrument/spirv"
)

// Decode parses a SPIR-V binary into a Module.
//
// The decoder validates the header and the word-count framing but not the
// full SPIR-V grammar; it assumes the input already passed a front-end
// validator, as instrumentation inputs do.
func Decode(data []byte) (*Module, error) {
	if len(data) < 20 {
		return nil, fmt.Errorf("binary too small: %d bytes", len(data))
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("binary size %d is not word aligned", len(data))
	}

	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != spirv.MagicNumber {
		return nil, fmt.Errorf("invalid SPIR-V magic: 0x%08X", magic)
	}

	m := &Module{
		Version:   spirv.VersionFromWord(binary.LittleEndian.Uint32(data[4:8])),
		Generator: binary.LittleEndian.Uint32(data[8:12]),
		Bound:     binary.LittleEndian.Uint32(data[12:16]),
		Schema:    binary.LittleEndian.Uint32(data[16:20]),
	}
	if m.Bound == 0 {
		return nil, fmt.Errorf("invalid ID bound 0")
	}

	var (
		currentFn    *Function
		currentBlock *BasicBlock
		position     uint32
	)

	offset := 20
	for offset < len(data) {
		word := binary.LittleEndian.Uint32(data[offset:])
		opcode := spirv.Opcode(word & 0xFFFF)
		wordCount := int(word >> 16)
		if wordCount == 0 || offset+wordCount*4 > len(data) {
			return nil, fmt.Errorf("invalid word count %d at offset 0x%X", wordCount, offset)
		}

		words := make([]uint32, wordCount-1)
		for i := range words {
			words[i] = binary.LittleEndian.Uint32(data[offset+4+i*4:])
		}
		offset += wordCount * 4

		position++
		inst := splitInstruction(opcode, words)
		inst.Position = position

		if err := m.placeInstruction(inst, &currentFn, &currentBlock); err != nil {
			return nil, err
		}
	}

	if currentFn != nil {
		return nil, fmt.Errorf("function %%%d missing OpFunctionEnd", currentFn.ID())
	}
	return m, nil
}

// splitInstruction separates an instruction's words into result-type,
// result and plain operands according to the opcode's layout.
func splitInstruction(opcode spirv.Opcode, words []uint32) *Instruction {
	hasType, hasResult := opcode.ResultLayout()
	inst := &Instruction{Opcode: opcode}
	i := 0
	if hasType {
		inst.TypeID = words[i]
		i++
	}
	if hasResult {
		inst.ResultID = words[i]
		i++
	}
	inst.Operands = words[i:]
	return inst
}

// placeInstruction buckets a decoded instruction into the module section
// or the function under construction.
func (m *Module) placeInstruction(inst *Instruction, fn **Function, block **BasicBlock) error {
	switch inst.Opcode {
	case spirv.OpCapability:
		m.Capabilities = append(m.Capabilities, inst)
	case spirv.OpExtension:
		m.Extensions = append(m.Extensions, inst)
	case spirv.OpExtInstImport:
		m.ExtInstImports = append(m.ExtInstImports, inst)
	case spirv.OpMemoryModel:
		m.MemoryModel = inst
	case spirv.OpEntryPoint:
		m.EntryPoints = append(m.EntryPoints, inst)
	case spirv.OpExecutionMode:
		m.ExecutionModes = append(m.ExecutionModes, inst)
	case spirv.OpString, spirv.OpSource, spirv.OpSourceContinued,
		spirv.OpSourceExtension, spirv.OpName, spirv.OpMemberName:
		m.Debug = append(m.Debug, inst)
	case spirv.OpDecorate, spirv.OpMemberDecorate, spirv.OpDecorationGroup,
		spirv.OpGroupDecorate:
		m.Annotations = append(m.Annotations, inst)

	case spirv.OpFunction:
		if *fn != nil {
			return fmt.Errorf("nested OpFunction at %%%d", inst.ResultID)
		}
		*fn = NewFunction(inst)
	case spirv.OpFunctionParameter:
		if *fn == nil {
			return fmt.Errorf("OpFunctionParameter outside a function")
		}
		(*fn).Parameters = append((*fn).Parameters, inst)
	case spirv.OpLabel:
		if *fn == nil {
			return fmt.Errorf("OpLabel outside a function")
		}
		*block = &BasicBlock{Label: inst}
		(*fn).Blocks = append((*fn).Blocks, *block)
	case spirv.OpFunctionEnd:
		if *fn == nil {
			return fmt.Errorf("OpFunctionEnd outside a function")
		}
		(*fn).End = inst
		m.Functions = append(m.Functions, *fn)
		*fn = nil
		*block = nil

	default:
		switch {
		case *block != nil:
			(*block).Append(inst)
		case *fn != nil:
			return fmt.Errorf("%v before first OpLabel in function %%%d", inst.Opcode, (*fn).ID())
		default:
			// Types, constants and module-scope variables.
			m.TypesValues = append(m.TypesValues, inst)
		}
	}
	return nil
}
