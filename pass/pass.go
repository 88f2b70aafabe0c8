// Package pass implements the instrumentation framework for SPIR-V
// modules: a bytecode-to-bytecode transformer that walks every function,
// block and instruction, asks a Check whether a runtime check is needed,
// and splices the check call into the instruction stream while keeping the
// module internally consistent (unique IDs, valid references, dominance).
package pass

import (
	"fmt"

	"github.com/gogpu/instrument/ir"
	"github.com/gogpu/instrument/spirv"
)

// InjectionData is the context shared by every check call at one injection
// site: which shading stage invocation is running and which source
// instruction triggered the check.
type InjectionData struct {
	// StageInfoID names the per-function uvec4 composite identifying the
	// execution context (stage plus invocation coordinates).
	StageInfoID uint32

	// InstPositionID names a uint constant holding the ordinal of the
	// guarded instruction in the original binary.
	InstPositionID uint32
}

// Check is one validation policy. A Pass drives the traversal and the
// control-flow surgery; the Check supplies the three decisions that differ
// between policies.
type Check interface {
	// AnalyzeInstruction decides whether inst needs a runtime check and
	// returns the exact instruction to guard (typically inst itself), or
	// nil when no check is needed. The check may stash whatever it learned
	// about the site for CreateFunctionCall to use.
	AnalyzeInstruction(p *Pass, fn *ir.Function, inst *ir.Instruction) *ir.Instruction

	// CreateFunctionCall emits the call performing the check just ahead of
	// the cursor and returns the call's boolean result ID together with
	// the cursor past the emitted instructions (back at the guarded
	// instruction). It must not break the block's terminator invariant.
	CreateFunctionCall(p *Pass, block *ir.BasicBlock, cursor int, data InjectionData) (uint32, int)

	// Reset clears per-site state so the check can serve the next
	// injection.
	Reset()
}

// Pass runs one instrumentation sweep of a Check over a Module.
//
// With conditional false the check call is inserted as-is and execution
// continues into the original instruction regardless of the result; the
// caller is asserting that some other layer (robustness guarantees, for
// example) already keeps an invalid access from crashing, so the call only
// reports. With conditional true the guarded instruction is wrapped in a
// branch: an invalid store is skipped, an invalid load yields zero.
type Pass struct {
	module      *ir.Module
	check       Check
	conditional bool

	// stageInfo caches the stage-info composite ID per function so one
	// function with many injection sites builds it once.
	stageInfo map[*ir.Function]uint32
}

// New creates a Pass over module driving the given check.
func New(module *ir.Module, check Check, conditional bool) *Pass {
	return &Pass{
		module:      module,
		check:       check,
		conditional: conditional,
		stageInfo:   make(map[*ir.Function]uint32),
	}
}

// Module returns the module being instrumented.
func (p *Pass) Module() *ir.Module {
	return p.module
}

// Reset clears all per-run caches. Call it between independent runs when
// reusing a Pass.
func (p *Pass) Reset() {
	p.stageInfo = make(map[*ir.Function]uint32)
	p.check.Reset()
}

// Run performs one sweep: every function, every block, every instruction.
// Injected code is never re-visited, so a single sweep can instrument many
// independent sites per function.
func (p *Pass) Run() {
	for _, fn := range p.module.Functions {
		p.runFunction(fn)
	}
}

func (p *Pass) runFunction(fn *ir.Function) {
	for bi := 0; bi < len(fn.Blocks); bi++ {
		block := fn.Blocks[bi]
		for ii := 0; ii < len(block.Instructions); ii++ {
			target := p.check.AnalyzeInstruction(p, fn, block.Instructions[ii])
			if target == nil {
				continue
			}
			data := p.injectionData(fn, target)
			if p.conditional {
				bi, ii = p.injectConditionalFunctionCheck(fn, bi, target, data)
				block = fn.Blocks[bi]
			} else {
				ii = p.injectFunctionCheck(block, target, data)
			}
			p.check.Reset()
		}
	}
}

// injectionData assembles the per-site context. Building the stage info may
// insert instructions at the top of the function's entry block, so callers
// must re-resolve any instruction positions afterwards.
func (p *Pass) injectionData(fn *ir.Function, target *ir.Instruction) InjectionData {
	return InjectionData{
		StageInfoID:    p.GetStageInfo(fn),
		InstPositionID: p.module.Constant32(p.module.TypeUint32(), target.Position),
	}
}

// findTargetInstruction re-resolves target to its live index inside block.
// Failure is a programming-contract violation, not a recoverable error:
// the check flagged an instruction that is no longer where the protocol
// requires it.
func (p *Pass) findTargetInstruction(block *ir.BasicBlock, target *ir.Instruction) int {
	i := block.IndexOf(target)
	if i < 0 {
		panic(fmt.Sprintf("pass: target %v not found in block %%%d", target.Opcode, block.ID()))
	}
	return i
}

// injectFunctionCheck inserts the check call directly ahead of the target
// and leaves the surrounding control flow untouched. Returns the target's
// index so the traversal resumes past it.
func (p *Pass) injectFunctionCheck(block *ir.BasicBlock, target *ir.Instruction, data InjectionData) int {
	cursor := p.findTargetInstruction(block, target)
	p.check.CreateFunctionCall(p, block, cursor, data)
	return p.findTargetInstruction(block, target)
}

// injectConditionalFunctionCheck splits the block at the target into
// head, then and merge blocks:
//
//	head:  ...           then:  <target>        merge: [phi] ...rest
//	       valid = call         OpBranch merge
//	       OpSelectionMerge merge
//	       OpBranchConditional valid then merge
//
// A guarded store is confined to the then block, so an invalid store is
// silently dropped. A guarded load additionally gets an OpPhi at the top
// of merge selecting the loaded value on the then edge and a zero constant
// on the head edge; every downstream use of the original result is
// redirected to the phi.
//
// The original terminator moves into the merge block, so successors that
// used to receive control from head now receive it from merge; their phis
// are retargeted accordingly. A loop header is detached first so the
// OpLoopMerge stays with the label the back edge enters.
//
// Returns the resume position: the merge block, just ahead of its first
// relocated original instruction.
func (p *Pass) injectConditionalFunctionCheck(fn *ir.Function, bi int, target *ir.Instruction, data InjectionData) (int, int) {
	bi = p.isolateLoopHeader(fn, bi)
	head := fn.Blocks[bi]
	cursor := p.findTargetInstruction(head, target)
	validID, _ := p.check.CreateFunctionCall(p, head, cursor, data)
	ti := p.findTargetInstruction(head, target)

	thenBlock := ir.NewBasicBlock(p.module.TakeNextID())
	mergeBlock := ir.NewBasicBlock(p.module.TakeNextID())

	// Original instructions after the target continue, in order, in the
	// merge block; the target itself runs only when the check passes.
	head.MoveTail(ti+1, mergeBlock)
	head.MoveTail(ti, thenBlock)
	thenBlock.Append(ir.New(spirv.OpBranch, 0, 0, mergeBlock.ID()))
	head.Append(ir.New(spirv.OpSelectionMerge, 0, 0, mergeBlock.ID(), uint32(spirv.SelectionControlNone)))
	head.Append(ir.New(spirv.OpBranchConditional, 0, 0, validID, thenBlock.ID(), mergeBlock.ID()))

	fn.InsertBlocksAfter(bi, thenBlock, mergeBlock)
	retargetSuccessorPhis(fn, mergeBlock.Terminator(), head.ID(), mergeBlock.ID())

	injected := 0
	if target.ResultID != 0 {
		zeroID := p.module.ConstantNull(target.TypeID)
		phi := ir.New(spirv.OpPhi, target.TypeID, p.module.TakeNextID(),
			target.ResultID, thenBlock.ID(),
			zeroID, head.ID())
		mergeBlock.InsertBefore(0, phi)
		injected = 1
		p.replaceDownstreamUses(fn, bi+2, phi, target.ResultID, phi.ResultID)
	}

	// Resume in the merge block; the caller's increment steps over the
	// injected phi onto the first relocated instruction.
	return bi + 2, injected - 1
}

// isolateLoopHeader detaches the body of a loop header ahead of a split so
// the construct anchor stays put: the header keeps its phis, the
// OpLoopMerge and a plain branch into a fresh block that receives the
// remaining instructions and the original terminator. Back edges keep
// entering the header label. Returns the index of the detached body block,
// or bi unchanged when the block carries no OpLoopMerge.
func (p *Pass) isolateLoopHeader(fn *ir.Function, bi int) int {
	head := fn.Blocks[bi]
	mi := -1
	for i, inst := range head.Instructions {
		if inst.Opcode == spirv.OpLoopMerge {
			mi = i
			break
		}
	}
	if mi < 0 {
		return bi
	}

	fp := 0
	for fp < len(head.Instructions) && head.Instructions[fp].Opcode == spirv.OpPhi {
		fp++
	}

	body := ir.NewBasicBlock(p.module.TakeNextID())
	body.Instructions = append(body.Instructions, head.Instructions[fp:mi]...)
	body.Instructions = append(body.Instructions, head.Instructions[mi+1:]...)
	head.Instructions = append(head.Instructions[:fp], head.Instructions[mi])
	head.Append(ir.New(spirv.OpBranch, 0, 0, body.ID()))

	fn.InsertBlocksAfter(bi, body)
	retargetSuccessorPhis(fn, body.Terminator(), head.ID(), body.ID())
	return bi + 1
}

// retargetSuccessorPhis follows a relocated terminator to its targets and
// rewrites each incoming phi edge from oldID to newID, keeping successor
// phis consistent with the block that actually transfers control to them.
func retargetSuccessorPhis(fn *ir.Function, term *ir.Instruction, oldID, newID uint32) {
	for _, label := range term.BranchTargets() {
		successor := fn.BlockByID(label)
		if successor == nil {
			continue
		}
		for _, inst := range successor.Instructions {
			if inst.Opcode != spirv.OpPhi {
				break
			}
			// Phi operands come in value/parent pairs.
			for i := 1; i < len(inst.Operands); i += 2 {
				if inst.Operands[i] == oldID {
					inst.Operands[i] = newID
				}
			}
		}
	}
}

// replaceDownstreamUses rewrites every use of oldID from block index from
// onward to newID, skipping the phi that legitimately references the
// original value. Uses can only follow the definition in block order, so
// the walk is bounded and forward-only.
func (p *Pass) replaceDownstreamUses(fn *ir.Function, from int, skip *ir.Instruction, oldID, newID uint32) {
	for _, block := range fn.Blocks[from:] {
		for _, inst := range block.Instructions {
			if inst == skip {
				continue
			}
			inst.ReplaceUses(oldID, newID)
		}
	}
}

// insertAt inserts inst at the cursor and returns the advanced cursor; a
// negative cursor appends to the end of the block instead.
func insertAt(block *ir.BasicBlock, cursor int, inst *ir.Instruction) int {
	if cursor < 0 {
		block.Append(inst)
		return -1
	}
	return block.InsertBefore(cursor, inst)
}
