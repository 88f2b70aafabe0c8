// Command spvinst instruments a SPIR-V binary with runtime access checks.
//
// Usage:
//
//	spvinst [options] <input.spv>
//
// Examples:
//
//	spvinst -o checked.spv shader.spv    # guarded checks (default)
//	spvinst -report shader.spv           # report-only, no branching
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gogpu/instrument"
	"github.com/gogpu/instrument/ir"
)

var (
	output = flag.String("o", "", "output file (default: <input>.inst.spv)")
	report = flag.Bool("report", false, "report-only checks: no guard branches, invalid accesses execute as-is")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}
	inputPath := args[0]

	binary, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	opts := instrument.DefaultOptions()
	opts.Conditional = !*report

	module, err := ir.Decode(binary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding %s: %v\n", inputPath, err)
		os.Exit(1)
	}
	before := instructionCount(module)
	instrument.RunModule(module, opts)
	checked := module.Encode()

	outputPath := *output
	if outputPath == "" {
		outputPath = inputPath + ".inst.spv"
	}
	if err := os.WriteFile(outputPath, checked, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputPath, err)
		os.Exit(1)
	}

	fmt.Printf("Successfully instrumented %s to %s (%d -> %d instructions)\n",
		inputPath, outputPath, before, instructionCount(module))
}

func instructionCount(module *ir.Module) int {
	n := 0
	for _, fn := range module.Functions {
		n += fn.InstructionCount()
	}
	return n
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: spvinst [options] <input.spv>")
	flag.PrintDefaults()
}
