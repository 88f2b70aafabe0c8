// Command spvdis disassembles a SPIR-V binary, including instrumented
// modules produced by spvinst, into a readable text listing.
//
// Usage:
//
//	spvdis <file.spv>
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/instrument/ir"
	"github.com/gogpu/instrument/spirv"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: spvdis <file.spv>")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	module, err := ir.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("; SPIR-V\n")
	fmt.Printf("; Version: %d.%d\n", module.Version.Major, module.Version.Minor)
	fmt.Printf("; Generator: 0x%08X\n", module.Generator)
	fmt.Printf("; Bound: %d\n", module.Bound)
	fmt.Printf("; Schema: %d\n", module.Schema)
	fmt.Println()

	printSection(module.Capabilities)
	printSection(module.Extensions)
	printSection(module.ExtInstImports)
	if module.MemoryModel != nil {
		printInstruction(module.MemoryModel)
	}
	printSection(module.EntryPoints)
	printSection(module.ExecutionModes)
	printSection(module.Debug)
	printSection(module.Annotations)
	printSection(module.TypesValues)

	for _, fn := range module.Functions {
		printInstruction(fn.Def)
		printSection(fn.Parameters)
		for _, block := range fn.Blocks {
			printInstruction(block.Label)
			printSection(block.Instructions)
		}
		printInstruction(fn.End)
	}
}

func printSection(instructions []*ir.Instruction) {
	for _, inst := range instructions {
		printInstruction(inst)
	}
}

func printInstruction(inst *ir.Instruction) {
	var sb strings.Builder
	if inst.ResultID != 0 {
		fmt.Fprintf(&sb, "%9s = ", id(inst.ResultID))
	} else {
		sb.WriteString(strings.Repeat(" ", 12))
	}
	sb.WriteString(inst.Opcode.String())
	if inst.TypeID != 0 {
		sb.WriteByte(' ')
		sb.WriteString(id(inst.TypeID))
	}
	sb.WriteString(formatOperands(inst))
	fmt.Println(sb.String())
}

// formatOperands renders operand words with enum names and literal strings
// where the opcode's layout is known, and raw IDs otherwise.
func formatOperands(inst *ir.Instruction) string {
	ops := inst.Operands
	var sb strings.Builder
	switch inst.Opcode {
	case spirv.OpCapability:
		fmt.Fprintf(&sb, " %d", ops[0])

	case spirv.OpExtInstImport, spirv.OpString:
		str, _ := ir.DecodeString(ops)
		fmt.Fprintf(&sb, " %q", str)

	case spirv.OpName:
		str, _ := ir.DecodeString(ops[1:])
		fmt.Fprintf(&sb, " %s %q", id(ops[0]), str)

	case spirv.OpEntryPoint:
		str, n := ir.DecodeString(ops[2:])
		fmt.Fprintf(&sb, " %s %s %q", spirv.ExecutionModel(ops[0]), id(ops[1]), str)
		for _, op := range ops[2+n:] {
			fmt.Fprintf(&sb, " %s", id(op))
		}

	case spirv.OpDecorate:
		decoration := spirv.Decoration(ops[1])
		fmt.Fprintf(&sb, " %s %s", id(ops[0]), decoration)
		switch decoration {
		case spirv.DecorationBuiltIn:
			fmt.Fprintf(&sb, " %s", spirv.BuiltIn(ops[2]))
		case spirv.DecorationLinkageAttributes:
			str, n := ir.DecodeString(ops[2:])
			fmt.Fprintf(&sb, " %q %d", str, ops[2+n])
		default:
			for _, op := range ops[2:] {
				fmt.Fprintf(&sb, " %d", op)
			}
		}

	case spirv.OpMemberDecorate:
		fmt.Fprintf(&sb, " %s %d %s", id(ops[0]), ops[1], spirv.Decoration(ops[2]))
		for _, op := range ops[3:] {
			fmt.Fprintf(&sb, " %d", op)
		}

	case spirv.OpTypePointer:
		fmt.Fprintf(&sb, " %s %s", spirv.StorageClass(ops[0]), id(ops[1]))

	case spirv.OpVariable:
		fmt.Fprintf(&sb, " %s", spirv.StorageClass(ops[0]))
		for _, op := range ops[1:] {
			fmt.Fprintf(&sb, " %s", id(op))
		}

	case spirv.OpTypeVector, spirv.OpTypeMatrix:
		fmt.Fprintf(&sb, " %s %d", id(ops[0]), ops[1])

	case spirv.OpCompositeExtract, spirv.OpExecutionMode:
		fmt.Fprintf(&sb, " %s", id(ops[0]))
		for _, op := range ops[1:] {
			fmt.Fprintf(&sb, " %d", op)
		}

	case spirv.OpTypeInt, spirv.OpTypeFloat, spirv.OpConstant,
		spirv.OpMemoryModel:
		for _, op := range ops {
			fmt.Fprintf(&sb, " %d", op)
		}

	default:
		for _, op := range ops {
			fmt.Fprintf(&sb, " %s", id(op))
		}
	}
	return sb.String()
}

func id(n uint32) string {
	return fmt.Sprintf("%%_%d", n)
}
