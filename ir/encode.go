package ir

import (
	"encoding/binary"

	"github.com/gogpu/instrument/spirv"
)

// Encode serializes the module back into a SPIR-V binary, sections in
// specification order, header bound taken from the module's ID bound.
func (m *Module) Encode() []byte {
	words := make([]uint32, 0, m.wordCount())

	words = append(words,
		spirv.MagicNumber,
		m.Version.Word(),
		m.Generator,
		m.Bound,
		m.Schema,
	)

	words = appendInstructions(words, m.Capabilities)
	words = appendInstructions(words, m.Extensions)
	words = appendInstructions(words, m.ExtInstImports)
	if m.MemoryModel != nil {
		words = append(words, m.MemoryModel.Words()...)
	}
	words = appendInstructions(words, m.EntryPoints)
	words = appendInstructions(words, m.ExecutionModes)
	words = appendInstructions(words, m.Debug)
	words = appendInstructions(words, m.Annotations)
	words = appendInstructions(words, m.TypesValues)

	for _, fn := range m.Functions {
		words = append(words, fn.Def.Words()...)
		words = appendInstructions(words, fn.Parameters)
		for _, block := range fn.Blocks {
			words = append(words, block.Label.Words()...)
			words = appendInstructions(words, block.Instructions)
		}
		words = append(words, fn.End.Words()...)
	}

	buffer := make([]byte, len(words)*4)
	for i, word := range words {
		binary.LittleEndian.PutUint32(buffer[i*4:], word)
	}
	return buffer
}

func (m *Module) wordCount() int {
	n := 5
	n += countWords(m.Capabilities)
	n += countWords(m.Extensions)
	n += countWords(m.ExtInstImports)
	if m.MemoryModel != nil {
		n += m.MemoryModel.WordCount()
	}
	n += countWords(m.EntryPoints)
	n += countWords(m.ExecutionModes)
	n += countWords(m.Debug)
	n += countWords(m.Annotations)
	n += countWords(m.TypesValues)
	for _, fn := range m.Functions {
		n += fn.Def.WordCount() + fn.End.WordCount()
		n += countWords(fn.Parameters)
		for _, block := range fn.Blocks {
			n += block.Label.WordCount()
			n += countWords(block.Instructions)
		}
	}
	return n
}

func appendInstructions(words []uint32, instructions []*Instruction) []uint32 {
	for _, inst := range instructions {
		words = append(words, inst.Words()...)
	}
	return words
}

func countWords(instructions []*Instruction) int {
	n := 0
	for _, inst := range instructions {
		n += inst.WordCount()
	}
	return n
}
