package spirv

import "fmt"

// Name tables for diagnostics and disassembly. Only values the framework
// and the dev tools care about are named; everything else falls back to
// the numeric form.

var opcodeNames = map[Opcode]string{
	OpNop: "OpNop", OpUndef: "OpUndef", OpSourceContinued: "OpSourceContinued",
	OpSource: "OpSource", OpSourceExtension: "OpSourceExtension",
	OpName: "OpName", OpMemberName: "OpMemberName", OpString: "OpString",
	OpExtension: "OpExtension", OpExtInstImport: "OpExtInstImport",
	OpExtInst: "OpExtInst", OpMemoryModel: "OpMemoryModel",
	OpEntryPoint: "OpEntryPoint", OpExecutionMode: "OpExecutionMode",
	OpCapability: "OpCapability", OpTypeVoid: "OpTypeVoid",
	OpTypeBool: "OpTypeBool", OpTypeInt: "OpTypeInt", OpTypeFloat: "OpTypeFloat",
	OpTypeVector: "OpTypeVector", OpTypeMatrix: "OpTypeMatrix",
	OpTypeImage: "OpTypeImage", OpTypeSampler: "OpTypeSampler",
	OpTypeSampledImage: "OpTypeSampledImage", OpTypeArray: "OpTypeArray",
	OpTypeRuntimeArray: "OpTypeRuntimeArray", OpTypeStruct: "OpTypeStruct",
	OpTypeOpaque: "OpTypeOpaque", OpTypePointer: "OpTypePointer",
	OpTypeFunction: "OpTypeFunction", OpConstantTrue: "OpConstantTrue",
	OpConstantFalse: "OpConstantFalse", OpConstant: "OpConstant",
	OpConstantComposite: "OpConstantComposite", OpConstantSampler: "OpConstantSampler",
	OpConstantNull: "OpConstantNull", OpSpecConstantTrue: "OpSpecConstantTrue",
	OpSpecConstantFalse: "OpSpecConstantFalse", OpSpecConstant: "OpSpecConstant",
	OpSpecConstantComposite: "OpSpecConstantComposite", OpSpecConstantOp: "OpSpecConstantOp",
	OpFunction: "OpFunction", OpFunctionParameter: "OpFunctionParameter",
	OpFunctionEnd: "OpFunctionEnd", OpFunctionCall: "OpFunctionCall",
	OpVariable: "OpVariable", OpImageTexelPointer: "OpImageTexelPointer",
	OpLoad: "OpLoad", OpStore: "OpStore", OpCopyMemory: "OpCopyMemory",
	OpAccessChain: "OpAccessChain", OpInBoundsAccessChain: "OpInBoundsAccessChain",
	OpPtrAccessChain: "OpPtrAccessChain", OpArrayLength: "OpArrayLength",
	OpDecorate: "OpDecorate", OpMemberDecorate: "OpMemberDecorate",
	OpDecorationGroup: "OpDecorationGroup", OpGroupDecorate: "OpGroupDecorate",
	OpVectorShuffle: "OpVectorShuffle", OpCompositeConstruct: "OpCompositeConstruct",
	OpCompositeExtract: "OpCompositeExtract", OpCompositeInsert: "OpCompositeInsert",
	OpCopyObject: "OpCopyObject", OpTranspose: "OpTranspose",
	OpSampledImage: "OpSampledImage", OpImageSampleImplicitLod: "OpImageSampleImplicitLod",
	OpImageFetch: "OpImageFetch", OpImageRead: "OpImageRead", OpImageWrite: "OpImageWrite",
	OpConvertFToU: "OpConvertFToU", OpConvertFToS: "OpConvertFToS",
	OpConvertSToF: "OpConvertSToF", OpConvertUToF: "OpConvertUToF",
	OpUConvert: "OpUConvert", OpSConvert: "OpSConvert", OpFConvert: "OpFConvert",
	OpBitcast: "OpBitcast", OpSNegate: "OpSNegate", OpFNegate: "OpFNegate",
	OpIAdd: "OpIAdd", OpFAdd: "OpFAdd", OpISub: "OpISub", OpFSub: "OpFSub",
	OpIMul: "OpIMul", OpFMul: "OpFMul", OpUDiv: "OpUDiv", OpSDiv: "OpSDiv",
	OpFDiv: "OpFDiv", OpUMod: "OpUMod",
	OpLogicalOr: "OpLogicalOr", OpLogicalAnd: "OpLogicalAnd",
	OpLogicalNot: "OpLogicalNot", OpSelect: "OpSelect",
	OpIEqual: "OpIEqual", OpINotEqual: "OpINotEqual",
	OpUGreaterThan: "OpUGreaterThan", OpULessThan: "OpULessThan",
	OpULessThanEqual: "OpULessThanEqual", OpBitCount: "OpBitCount",
	OpPhi: "OpPhi", OpLoopMerge: "OpLoopMerge",
	OpSelectionMerge: "OpSelectionMerge", OpLabel: "OpLabel",
	OpBranch: "OpBranch", OpBranchConditional: "OpBranchConditional",
	OpSwitch: "OpSwitch", OpKill: "OpKill", OpReturn: "OpReturn",
	OpReturnValue: "OpReturnValue", OpUnreachable: "OpUnreachable",
	OpTerminateInvocation: "OpTerminateInvocation",
}

var storageClassNames = map[StorageClass]string{
	StorageClassUniformConstant:       "UniformConstant",
	StorageClassInput:                 "Input",
	StorageClassUniform:               "Uniform",
	StorageClassOutput:                "Output",
	StorageClassWorkgroup:             "Workgroup",
	StorageClassCrossWorkgroup:        "CrossWorkgroup",
	StorageClassPrivate:               "Private",
	StorageClassFunction:              "Function",
	StorageClassPushConstant:          "PushConstant",
	StorageClassStorageBuffer:         "StorageBuffer",
	StorageClassPhysicalStorageBuffer: "PhysicalStorageBuffer",
}

var decorationNames = map[Decoration]string{
	DecorationRelaxedPrecision:  "RelaxedPrecision",
	DecorationSpecID:            "SpecId",
	DecorationBlock:             "Block",
	DecorationBufferBlock:       "BufferBlock",
	DecorationRowMajor:          "RowMajor",
	DecorationColMajor:          "ColMajor",
	DecorationArrayStride:       "ArrayStride",
	DecorationMatrixStride:      "MatrixStride",
	DecorationBuiltIn:           "BuiltIn",
	DecorationFlat:              "Flat",
	DecorationRestrict:          "Restrict",
	DecorationAliased:           "Aliased",
	DecorationNonWritable:       "NonWritable",
	DecorationNonReadable:       "NonReadable",
	DecorationLocation:          "Location",
	DecorationComponent:         "Component",
	DecorationIndex:             "Index",
	DecorationBinding:           "Binding",
	DecorationDescriptorSet:     "DescriptorSet",
	DecorationOffset:            "Offset",
	DecorationLinkageAttributes: "LinkageAttributes",
}

var builtInNames = map[BuiltIn]string{
	BuiltInPosition:             "Position",
	BuiltInPointSize:            "PointSize",
	BuiltInClipDistance:         "ClipDistance",
	BuiltInCullDistance:         "CullDistance",
	BuiltInPrimitiveID:          "PrimitiveId",
	BuiltInInvocationID:         "InvocationId",
	BuiltInLayer:                "Layer",
	BuiltInViewportIndex:        "ViewportIndex",
	BuiltInTessCoord:            "TessCoord",
	BuiltInFragCoord:            "FragCoord",
	BuiltInFrontFacing:          "FrontFacing",
	BuiltInSampleID:             "SampleId",
	BuiltInSampleMask:           "SampleMask",
	BuiltInFragDepth:            "FragDepth",
	BuiltInNumWorkgroups:        "NumWorkgroups",
	BuiltInWorkgroupSize:        "WorkgroupSize",
	BuiltInWorkgroupID:          "WorkgroupId",
	BuiltInLocalInvocationID:    "LocalInvocationId",
	BuiltInGlobalInvocationID:   "GlobalInvocationId",
	BuiltInLocalInvocationIndex: "LocalInvocationIndex",
	BuiltInVertexIndex:          "VertexIndex",
	BuiltInInstanceIndex:        "InstanceIndex",
}

var executionModelNames = map[ExecutionModel]string{
	ExecutionModelVertex:                 "Vertex",
	ExecutionModelTessellationControl:    "TessellationControl",
	ExecutionModelTessellationEvaluation: "TessellationEvaluation",
	ExecutionModelGeometry:               "Geometry",
	ExecutionModelFragment:               "Fragment",
	ExecutionModelGLCompute:              "GLCompute",
	ExecutionModelKernel:                 "Kernel",
}

func (sc StorageClass) String() string {
	if name, ok := storageClassNames[sc]; ok {
		return name
	}
	return fmt.Sprintf("StorageClass(%d)", uint32(sc))
}

func (d Decoration) String() string {
	if name, ok := decorationNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Decoration(%d)", uint32(d))
}

func (b BuiltIn) String() string {
	if name, ok := builtInNames[b]; ok {
		return name
	}
	return fmt.Sprintf("BuiltIn(%d)", uint32(b))
}

func (em ExecutionModel) String() string {
	if name, ok := executionModelNames[em]; ok {
		return name
	}
	return fmt.Sprintf("ExecutionModel(%d)", uint32(em))
}
