// Package instrument rewrites compiled SPIR-V shader modules so that
// out-of-bounds and invalid-access conditions can be detected and reported
// at shader execution time.
//
// The package decodes a binary into the mutable ir.Module representation,
// runs one or more instrumentation passes over it, and encodes the result:
//
//	checked, err := instrument.Run(binary, instrument.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Each pass walks every instruction, asks its pass.Check whether a runtime
// check is needed, and splices a call to an injected check routine into
// the instruction stream. See the pass package for the framework and the
// ir package for the module model.
//
// Modules are instrumented in place and are not safe for concurrent
// mutation; instrument distinct modules from distinct goroutines instead.
package instrument

import (
	"fmt"

	"github.com/gogpu/instrument/ir"
	"github.com/gogpu/instrument/pass"
)

// Options configures instrumentation.
type Options struct {
	// Conditional selects guarded injection: the risky operation is
	// wrapped in a branch on the check result, so an invalid store is
	// dropped and an invalid load yields zero. When false the check call
	// only reports and execution continues into the original operation;
	// callers choose this when another layer (such as robustness
	// guarantees) already keeps invalid accesses from crashing.
	Conditional bool

	// Checks are the validation policies to run, in order. Defaults to
	// the storage-buffer access check.
	Checks []pass.Check
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Conditional: true,
		Checks:      []pass.Check{pass.NewBufferAccessCheck()},
	}
}

// Run decodes a SPIR-V binary, applies every configured check as one pass,
// and returns the re-encoded binary.
func Run(binary []byte, opts Options) ([]byte, error) {
	module, err := ir.Decode(binary)
	if err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	RunModule(module, opts)
	return module.Encode(), nil
}

// RunModule applies every configured check to an already-decoded module,
// mutating it in place. Use this form when the caller owns the
// decode/encode boundary.
func RunModule(module *ir.Module, opts Options) {
	for _, check := range opts.Checks {
		p := pass.New(module, check, opts.Conditional)
		p.Run()
	}
}
