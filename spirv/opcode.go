package spirv

import "fmt"

// SPIR-V module header constants.
const (
	MagicNumber = 0x07230203
	GeneratorID = 0x00000000 // Unregistered generator
)

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// Word converts the version to its SPIR-V header word encoding.
func (v Version) Word() uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}

// VersionFromWord decodes a SPIR-V header version word.
func VersionFromWord(word uint32) Version {
	return Version{
		Major: uint8((word >> 16) & 0xFF),
		Minor: uint8((word >> 8) & 0xFF),
	}
}

// Opcode represents a SPIR-V opcode.
type Opcode uint16

// Opcodes used by the instrumentation framework.
const (
	OpNop                    Opcode = 0
	OpUndef                  Opcode = 1
	OpSourceContinued        Opcode = 2
	OpSource                 Opcode = 3
	OpSourceExtension        Opcode = 4
	OpName                   Opcode = 5
	OpMemberName             Opcode = 6
	OpString                 Opcode = 7
	OpExtension              Opcode = 10
	OpExtInstImport          Opcode = 11
	OpExtInst                Opcode = 12
	OpMemoryModel            Opcode = 14
	OpEntryPoint             Opcode = 15
	OpExecutionMode          Opcode = 16
	OpCapability             Opcode = 17
	OpTypeVoid               Opcode = 19
	OpTypeBool               Opcode = 20
	OpTypeInt                Opcode = 21
	OpTypeFloat              Opcode = 22
	OpTypeVector             Opcode = 23
	OpTypeMatrix             Opcode = 24
	OpTypeImage              Opcode = 25
	OpTypeSampler            Opcode = 26
	OpTypeSampledImage       Opcode = 27
	OpTypeArray              Opcode = 28
	OpTypeRuntimeArray       Opcode = 29
	OpTypeStruct             Opcode = 30
	OpTypeOpaque             Opcode = 31
	OpTypePointer            Opcode = 32
	OpTypeFunction           Opcode = 33
	OpConstantTrue           Opcode = 41
	OpConstantFalse          Opcode = 42
	OpConstant               Opcode = 43
	OpConstantComposite      Opcode = 44
	OpConstantSampler        Opcode = 45
	OpConstantNull           Opcode = 46
	OpSpecConstantTrue       Opcode = 48
	OpSpecConstantFalse      Opcode = 49
	OpSpecConstant           Opcode = 50
	OpSpecConstantComposite  Opcode = 51
	OpSpecConstantOp         Opcode = 52
	OpFunction               Opcode = 54
	OpFunctionParameter      Opcode = 55
	OpFunctionEnd            Opcode = 56
	OpFunctionCall           Opcode = 57
	OpVariable               Opcode = 59
	OpImageTexelPointer      Opcode = 60
	OpLoad                   Opcode = 61
	OpStore                  Opcode = 62
	OpCopyMemory             Opcode = 63
	OpAccessChain            Opcode = 65
	OpInBoundsAccessChain    Opcode = 66
	OpPtrAccessChain         Opcode = 67
	OpArrayLength            Opcode = 68
	OpDecorate               Opcode = 71
	OpMemberDecorate         Opcode = 72
	OpDecorationGroup        Opcode = 73
	OpGroupDecorate          Opcode = 74
	OpVectorShuffle          Opcode = 79
	OpCompositeConstruct     Opcode = 80
	OpCompositeExtract       Opcode = 81
	OpCompositeInsert        Opcode = 82
	OpCopyObject             Opcode = 83
	OpTranspose              Opcode = 84
	OpSampledImage           Opcode = 86
	OpImageSampleImplicitLod Opcode = 87
	OpImageFetch             Opcode = 95
	OpImageRead              Opcode = 98
	OpImageWrite             Opcode = 99
	OpConvertFToU            Opcode = 109
	OpConvertFToS            Opcode = 110
	OpConvertSToF            Opcode = 111
	OpConvertUToF            Opcode = 112
	OpUConvert               Opcode = 113
	OpSConvert               Opcode = 114
	OpFConvert               Opcode = 115
	OpBitcast                Opcode = 124
	OpSNegate                Opcode = 126
	OpFNegate                Opcode = 127
	OpIAdd                   Opcode = 128
	OpFAdd                   Opcode = 129
	OpISub                   Opcode = 130
	OpFSub                   Opcode = 131
	OpIMul                   Opcode = 132
	OpFMul                   Opcode = 133
	OpUDiv                   Opcode = 134
	OpSDiv                   Opcode = 135
	OpFDiv                   Opcode = 136
	OpUMod                   Opcode = 137
	OpLogicalOr              Opcode = 166
	OpLogicalAnd             Opcode = 167
	OpLogicalNot             Opcode = 168
	OpSelect                 Opcode = 169
	OpIEqual                 Opcode = 170
	OpINotEqual              Opcode = 171
	OpUGreaterThan           Opcode = 172
	OpULessThan              Opcode = 176
	OpULessThanEqual         Opcode = 178
	OpBitCount               Opcode = 205
	OpPhi                    Opcode = 245
	OpLoopMerge              Opcode = 246
	OpSelectionMerge         Opcode = 247
	OpLabel                  Opcode = 248
	OpBranch                 Opcode = 249
	OpBranchConditional      Opcode = 250
	OpSwitch                 Opcode = 251
	OpKill                   Opcode = 252
	OpReturn                 Opcode = 253
	OpReturnValue            Opcode = 254
	OpUnreachable            Opcode = 255
	OpTerminateInvocation    Opcode = 4416
)

// ResultLayout reports whether instructions with this opcode carry a
// result-type word and a result-id word. SPIR-V encodes these positionally,
// so the decoder needs the layout to split operand words correctly.
func (op Opcode) ResultLayout() (hasType, hasResult bool) {
	switch op {
	case OpUndef, OpExtInst,
		OpConstantTrue, OpConstantFalse, OpConstant, OpConstantComposite,
		OpConstantSampler, OpConstantNull,
		OpSpecConstantTrue, OpSpecConstantFalse, OpSpecConstant,
		OpSpecConstantComposite, OpSpecConstantOp,
		OpFunction, OpFunctionParameter, OpFunctionCall,
		OpVariable, OpImageTexelPointer, OpLoad,
		OpAccessChain, OpInBoundsAccessChain, OpPtrAccessChain, OpArrayLength,
		OpVectorShuffle, OpCompositeConstruct, OpCompositeExtract,
		OpCompositeInsert, OpCopyObject, OpTranspose,
		OpSampledImage, OpImageSampleImplicitLod, OpImageFetch, OpImageRead,
		OpPhi, OpSelect:
		return true, true

	case OpString, OpExtInstImport, OpDecorationGroup, OpLabel,
		OpTypeVoid, OpTypeBool, OpTypeInt, OpTypeFloat, OpTypeVector,
		OpTypeMatrix, OpTypeImage, OpTypeSampler, OpTypeSampledImage,
		OpTypeArray, OpTypeRuntimeArray, OpTypeStruct, OpTypeOpaque,
		OpTypePointer, OpTypeFunction:
		return false, true
	}

	// Conversions, arithmetic, bit and relational ops all share the
	// <type> <result> <operands...> layout.
	if op >= OpConvertFToU && op <= OpBitCount {
		return true, true
	}
	return false, false
}

// IsIDOperand reports whether the i-th operand word (counted after the
// result-type and result words) is an ID rather than a literal. Opcodes
// not listed here take only ID operands. Value substitution must consult
// this before rewriting an operand word: a literal can collide numerically
// with an ID.
func (op Opcode) IsIDOperand(i int) bool {
	switch op {
	case OpNop, OpTypeInt, OpTypeFloat, OpConstant, OpSpecConstant:
		return false
	case OpFunction, OpTypePointer:
		// Literal mask or storage class first, then the type.
		return i == 1
	case OpTypeVector, OpTypeMatrix, OpArrayLength,
		OpLoad, OpCompositeExtract, OpSelectionMerge:
		return i == 0
	case OpStore, OpCopyMemory, OpCompositeInsert, OpVectorShuffle,
		OpLoopMerge:
		return i < 2
	case OpVariable:
		// Storage class, then the optional initializer.
		return i > 0
	case OpExtInst:
		// The extended-instruction number is a literal; the set and the
		// arguments are IDs.
		return i != 1
	case OpImageFetch, OpImageRead, OpImageSampleImplicitLod:
		return i != 2
	case OpImageWrite:
		return i != 3
	case OpSwitch:
		// Selector and default label, then literal/label pairs.
		return i <= 1 || i%2 == 1
	}
	return true
}

// IsTerminator reports whether the opcode ends a basic block.
func (op Opcode) IsTerminator() bool {
	switch op {
	case OpBranch, OpBranchConditional, OpSwitch, OpKill,
		OpReturn, OpReturnValue, OpUnreachable, OpTerminateInvocation:
		return true
	}
	return false
}

// String returns the canonical "OpXxx" name, or "Op<n>" for opcodes the
// package does not name.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op%d", uint16(op))
}
