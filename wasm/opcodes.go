package wasm

import "fmt"

// ImmKind selects the immediate shape of an instruction. The decoder
// reads immediates by this tag; there is one tag per distinct wire shape.
type ImmKind int

const (
	ImmNone         ImmKind = iota
	ImmBlockType            // block, loop, if, try
	ImmLabel                // br, br_if, rethrow target-less forms excluded
	ImmBrTable              // br_table
	ImmBrOnExn              // br_on_exn: label + event
	ImmFuncIdx              // call, return_call, ref.func
	ImmCallIndirect         // call_indirect: type index + table index
	ImmLocalIdx             // local.get/set/tee
	ImmGlobalIdx            // global.get/set
	ImmTableIdx             // table.get/set/grow/size/fill
	ImmEventIdx             // throw
	ImmMemIdx               // memory.size/grow (reserved byte)
	ImmMemArg               // loads/stores: align log2 + offset
	ImmMemArgLane           // SIMD lane loads/stores: memarg + lane index
	ImmLane                 // SIMD extract/replace lane
	ImmI32                  // i32.const
	ImmI64                  // i64.const
	ImmF32                  // f32.const
	ImmF64                  // f64.const
	ImmV128                 // v128.const
	ImmShuffle              // i8x16.shuffle: 16-byte mask
	ImmSelectT              // typed select: value type vector
	ImmRefType              // ref.null
	ImmDataInit             // memory.init: data index + memory index
	ImmDataIdx              // data.drop
	ImmMemCopy              // memory.copy: two memory indices
	ImmMemFill              // memory.fill: one memory index
	ImmElemInit             // table.init: elem index + table index
	ImmElemIdx              // elem.drop
	ImmTableCopy            // table.copy: two table indices
	ImmFence                // atomic.fence: reserved byte
)

// opcodeInfo is the static description of one opcode: its text format
// mnemonic, immediate shape, gating feature (zero for MVP), and, for
// memory and atomic accesses, the natural alignment exponent.
type opcodeInfo struct {
	name    string
	imm     ImmKind
	feature Features
	align   uint8
}

// opcodeTable is the single source of truth for the opcode space. The
// decoder selects immediate shapes from it, the validator reads feature
// gates and natural alignments, and the text keyword set is derived
// from the names.
var opcodeTable = map[Opcode]opcodeInfo{
	// Control
	OpUnreachable: {name: "unreachable"},
	OpNop:         {name: "nop"},
	OpBlock:       {name: "block", imm: ImmBlockType},
	OpLoop:        {name: "loop", imm: ImmBlockType},
	OpIf:          {name: "if", imm: ImmBlockType},
	OpElse:        {name: "else"},
	OpTry:         {name: "try", imm: ImmBlockType, feature: FeatureExceptions},
	OpCatch:       {name: "catch", feature: FeatureExceptions},
	OpThrow:       {name: "throw", imm: ImmEventIdx, feature: FeatureExceptions},
	OpRethrow:     {name: "rethrow", feature: FeatureExceptions},
	OpBrOnExn:     {name: "br_on_exn", imm: ImmBrOnExn, feature: FeatureExceptions},
	OpEnd:         {name: "end"},
	OpBr:          {name: "br", imm: ImmLabel},
	OpBrIf:        {name: "br_if", imm: ImmLabel},
	OpBrTable:     {name: "br_table", imm: ImmBrTable},
	OpReturn:      {name: "return"},

	OpCall:               {name: "call", imm: ImmFuncIdx},
	OpCallIndirect:       {name: "call_indirect", imm: ImmCallIndirect},
	OpReturnCall:         {name: "return_call", imm: ImmFuncIdx, feature: FeatureTailCall},
	OpReturnCallIndirect: {name: "return_call_indirect", imm: ImmCallIndirect, feature: FeatureTailCall},

	// Parametric
	OpDrop:       {name: "drop"},
	OpSelect:     {name: "select"},
	OpSelectType: {name: "select", imm: ImmSelectT, feature: FeatureReferenceTypes},

	// Variables
	OpLocalGet:  {name: "local.get", imm: ImmLocalIdx},
	OpLocalSet:  {name: "local.set", imm: ImmLocalIdx},
	OpLocalTee:  {name: "local.tee", imm: ImmLocalIdx},
	OpGlobalGet: {name: "global.get", imm: ImmGlobalIdx},
	OpGlobalSet: {name: "global.set", imm: ImmGlobalIdx},

	// Tables
	OpTableGet: {name: "table.get", imm: ImmTableIdx, feature: FeatureReferenceTypes},
	OpTableSet: {name: "table.set", imm: ImmTableIdx, feature: FeatureReferenceTypes},

	// Memory loads
	OpI32Load:    {name: "i32.load", imm: ImmMemArg, align: 2},
	OpI64Load:    {name: "i64.load", imm: ImmMemArg, align: 3},
	OpF32Load:    {name: "f32.load", imm: ImmMemArg, align: 2},
	OpF64Load:    {name: "f64.load", imm: ImmMemArg, align: 3},
	OpI32Load8S:  {name: "i32.load8_s", imm: ImmMemArg, align: 0},
	OpI32Load8U:  {name: "i32.load8_u", imm: ImmMemArg, align: 0},
	OpI32Load16S: {name: "i32.load16_s", imm: ImmMemArg, align: 1},
	OpI32Load16U: {name: "i32.load16_u", imm: ImmMemArg, align: 1},
	OpI64Load8S:  {name: "i64.load8_s", imm: ImmMemArg, align: 0},
	OpI64Load8U:  {name: "i64.load8_u", imm: ImmMemArg, align: 0},
	OpI64Load16S: {name: "i64.load16_s", imm: ImmMemArg, align: 1},
	OpI64Load16U: {name: "i64.load16_u", imm: ImmMemArg, align: 1},
	OpI64Load32S: {name: "i64.load32_s", imm: ImmMemArg, align: 2},
	OpI64Load32U: {name: "i64.load32_u", imm: ImmMemArg, align: 2},

	// Memory stores
	OpI32Store:   {name: "i32.store", imm: ImmMemArg, align: 2},
	OpI64Store:   {name: "i64.store", imm: ImmMemArg, align: 3},
	OpF32Store:   {name: "f32.store", imm: ImmMemArg, align: 2},
	OpF64Store:   {name: "f64.store", imm: ImmMemArg, align: 3},
	OpI32Store8:  {name: "i32.store8", imm: ImmMemArg, align: 0},
	OpI32Store16: {name: "i32.store16", imm: ImmMemArg, align: 1},
	OpI64Store8:  {name: "i64.store8", imm: ImmMemArg, align: 0},
	OpI64Store16: {name: "i64.store16", imm: ImmMemArg, align: 1},
	OpI64Store32: {name: "i64.store32", imm: ImmMemArg, align: 2},

	OpMemorySize: {name: "memory.size", imm: ImmMemIdx},
	OpMemoryGrow: {name: "memory.grow", imm: ImmMemIdx},

	// Constants
	OpI32Const: {name: "i32.const", imm: ImmI32},
	OpI64Const: {name: "i64.const", imm: ImmI64},
	OpF32Const: {name: "f32.const", imm: ImmF32},
	OpF64Const: {name: "f64.const", imm: ImmF64},

	// i32 comparison
	OpI32Eqz: {name: "i32.eqz"},
	OpI32Eq:  {name: "i32.eq"},
	OpI32Ne:  {name: "i32.ne"},
	OpI32LtS: {name: "i32.lt_s"},
	OpI32LtU: {name: "i32.lt_u"},
	OpI32GtS: {name: "i32.gt_s"},
	OpI32GtU: {name: "i32.gt_u"},
	OpI32LeS: {name: "i32.le_s"},
	OpI32LeU: {name: "i32.le_u"},
	OpI32GeS: {name: "i32.ge_s"},
	OpI32GeU: {name: "i32.ge_u"},

	// i64 comparison
	OpI64Eqz: {name: "i64.eqz"},
	OpI64Eq:  {name: "i64.eq"},
	OpI64Ne:  {name: "i64.ne"},
	OpI64LtS: {name: "i64.lt_s"},
	OpI64LtU: {name: "i64.lt_u"},
	OpI64GtS: {name: "i64.gt_s"},
	OpI64GtU: {name: "i64.gt_u"},
	OpI64LeS: {name: "i64.le_s"},
	OpI64LeU: {name: "i64.le_u"},
	OpI64GeS: {name: "i64.ge_s"},
	OpI64GeU: {name: "i64.ge_u"},

	// f32 comparison
	OpF32Eq: {name: "f32.eq"},
	OpF32Ne: {name: "f32.ne"},
	OpF32Lt: {name: "f32.lt"},
	OpF32Gt: {name: "f32.gt"},
	OpF32Le: {name: "f32.le"},
	OpF32Ge: {name: "f32.ge"},

	// f64 comparison
	OpF64Eq: {name: "f64.eq"},
	OpF64Ne: {name: "f64.ne"},
	OpF64Lt: {name: "f64.lt"},
	OpF64Gt: {name: "f64.gt"},
	OpF64Le: {name: "f64.le"},
	OpF64Ge: {name: "f64.ge"},

	// i32 numeric
	OpI32Clz:    {name: "i32.clz"},
	OpI32Ctz:    {name: "i32.ctz"},
	OpI32Popcnt: {name: "i32.popcnt"},
	OpI32Add:    {name: "i32.add"},
	OpI32Sub:    {name: "i32.sub"},
	OpI32Mul:    {name: "i32.mul"},
	OpI32DivS:   {name: "i32.div_s"},
	OpI32DivU:   {name: "i32.div_u"},
	OpI32RemS:   {name: "i32.rem_s"},
	OpI32RemU:   {name: "i32.rem_u"},
	OpI32And:    {name: "i32.and"},
	OpI32Or:     {name: "i32.or"},
	OpI32Xor:    {name: "i32.xor"},
	OpI32Shl:    {name: "i32.shl"},
	OpI32ShrS:   {name: "i32.shr_s"},
	OpI32ShrU:   {name: "i32.shr_u"},
	OpI32Rotl:   {name: "i32.rotl"},
	OpI32Rotr:   {name: "i32.rotr"},

	// i64 numeric
	OpI64Clz:    {name: "i64.clz"},
	OpI64Ctz:    {name: "i64.ctz"},
	OpI64Popcnt: {name: "i64.popcnt"},
	OpI64Add:    {name: "i64.add"},
	OpI64Sub:    {name: "i64.sub"},
	OpI64Mul:    {name: "i64.mul"},
	OpI64DivS:   {name: "i64.div_s"},
	OpI64DivU:   {name: "i64.div_u"},
	OpI64RemS:   {name: "i64.rem_s"},
	OpI64RemU:   {name: "i64.rem_u"},
	OpI64And:    {name: "i64.and"},
	OpI64Or:     {name: "i64.or"},
	OpI64Xor:    {name: "i64.xor"},
	OpI64Shl:    {name: "i64.shl"},
	OpI64ShrS:   {name: "i64.shr_s"},
	OpI64ShrU:   {name: "i64.shr_u"},
	OpI64Rotl:   {name: "i64.rotl"},
	OpI64Rotr:   {name: "i64.rotr"},

	// f32 numeric
	OpF32Abs:      {name: "f32.abs"},
	OpF32Neg:      {name: "f32.neg"},
	OpF32Ceil:     {name: "f32.ceil"},
	OpF32Floor:    {name: "f32.floor"},
	OpF32Trunc:    {name: "f32.trunc"},
	OpF32Nearest:  {name: "f32.nearest"},
	OpF32Sqrt:     {name: "f32.sqrt"},
	OpF32Add:      {name: "f32.add"},
	OpF32Sub:      {name: "f32.sub"},
	OpF32Mul:      {name: "f32.mul"},
	OpF32Div:      {name: "f32.div"},
	OpF32Min:      {name: "f32.min"},
	OpF32Max:      {name: "f32.max"},
	OpF32Copysign: {name: "f32.copysign"},

	// f64 numeric
	OpF64Abs:      {name: "f64.abs"},
	OpF64Neg:      {name: "f64.neg"},
	OpF64Ceil:     {name: "f64.ceil"},
	OpF64Floor:    {name: "f64.floor"},
	OpF64Trunc:    {name: "f64.trunc"},
	OpF64Nearest:  {name: "f64.nearest"},
	OpF64Sqrt:     {name: "f64.sqrt"},
	OpF64Add:      {name: "f64.add"},
	OpF64Sub:      {name: "f64.sub"},
	OpF64Mul:      {name: "f64.mul"},
	OpF64Div:      {name: "f64.div"},
	OpF64Min:      {name: "f64.min"},
	OpF64Max:      {name: "f64.max"},
	OpF64Copysign: {name: "f64.copysign"},

	// Conversions
	OpI32WrapI64:        {name: "i32.wrap_i64"},
	OpI32TruncF32S:      {name: "i32.trunc_f32_s"},
	OpI32TruncF32U:      {name: "i32.trunc_f32_u"},
	OpI32TruncF64S:      {name: "i32.trunc_f64_s"},
	OpI32TruncF64U:      {name: "i32.trunc_f64_u"},
	OpI64ExtendI32S:     {name: "i64.extend_i32_s"},
	OpI64ExtendI32U:     {name: "i64.extend_i32_u"},
	OpI64TruncF32S:      {name: "i64.trunc_f32_s"},
	OpI64TruncF32U:      {name: "i64.trunc_f32_u"},
	OpI64TruncF64S:      {name: "i64.trunc_f64_s"},
	OpI64TruncF64U:      {name: "i64.trunc_f64_u"},
	OpF32ConvertI32S:    {name: "f32.convert_i32_s"},
	OpF32ConvertI32U:    {name: "f32.convert_i32_u"},
	OpF32ConvertI64S:    {name: "f32.convert_i64_s"},
	OpF32ConvertI64U:    {name: "f32.convert_i64_u"},
	OpF32DemoteF64:      {name: "f32.demote_f64"},
	OpF64ConvertI32S:    {name: "f64.convert_i32_s"},
	OpF64ConvertI32U:    {name: "f64.convert_i32_u"},
	OpF64ConvertI64S:    {name: "f64.convert_i64_s"},
	OpF64ConvertI64U:    {name: "f64.convert_i64_u"},
	OpF64PromoteF32:     {name: "f64.promote_f32"},
	OpI32ReinterpretF32: {name: "i32.reinterpret_f32"},
	OpI64ReinterpretF64: {name: "i64.reinterpret_f64"},
	OpF32ReinterpretI32: {name: "f32.reinterpret_i32"},
	OpF64ReinterpretI64: {name: "f64.reinterpret_i64"},

	// Sign extension
	OpI32Extend8S:  {name: "i32.extend8_s", feature: FeatureSignExtension},
	OpI32Extend16S: {name: "i32.extend16_s", feature: FeatureSignExtension},
	OpI64Extend8S:  {name: "i64.extend8_s", feature: FeatureSignExtension},
	OpI64Extend16S: {name: "i64.extend16_s", feature: FeatureSignExtension},
	OpI64Extend32S: {name: "i64.extend32_s", feature: FeatureSignExtension},

	// References
	OpRefNull:   {name: "ref.null", imm: ImmRefType, feature: FeatureReferenceTypes},
	OpRefIsNull: {name: "ref.is_null", feature: FeatureReferenceTypes},
	OpRefFunc:   {name: "ref.func", imm: ImmFuncIdx, feature: FeatureReferenceTypes},

	// Saturating truncations (0xFC)
	OpI32TruncSatF32S: {name: "i32.trunc_sat_f32_s", feature: FeatureSaturatingFloatToInt},
	OpI32TruncSatF32U: {name: "i32.trunc_sat_f32_u", feature: FeatureSaturatingFloatToInt},
	OpI32TruncSatF64S: {name: "i32.trunc_sat_f64_s", feature: FeatureSaturatingFloatToInt},
	OpI32TruncSatF64U: {name: "i32.trunc_sat_f64_u", feature: FeatureSaturatingFloatToInt},
	OpI64TruncSatF32S: {name: "i64.trunc_sat_f32_s", feature: FeatureSaturatingFloatToInt},
	OpI64TruncSatF32U: {name: "i64.trunc_sat_f32_u", feature: FeatureSaturatingFloatToInt},
	OpI64TruncSatF64S: {name: "i64.trunc_sat_f64_s", feature: FeatureSaturatingFloatToInt},
	OpI64TruncSatF64U: {name: "i64.trunc_sat_f64_u", feature: FeatureSaturatingFloatToInt},

	// Bulk memory (0xFC)
	OpMemoryInit: {name: "memory.init", imm: ImmDataInit, feature: FeatureBulkMemory},
	OpDataDrop:   {name: "data.drop", imm: ImmDataIdx, feature: FeatureBulkMemory},
	OpMemoryCopy: {name: "memory.copy", imm: ImmMemCopy, feature: FeatureBulkMemory},
	OpMemoryFill: {name: "memory.fill", imm: ImmMemFill, feature: FeatureBulkMemory},
	OpTableInit:  {name: "table.init", imm: ImmElemInit, feature: FeatureBulkMemory},
	OpElemDrop:   {name: "elem.drop", imm: ImmElemIdx, feature: FeatureBulkMemory},
	OpTableCopy:  {name: "table.copy", imm: ImmTableCopy, feature: FeatureBulkMemory},
	OpTableGrow:  {name: "table.grow", imm: ImmTableIdx, feature: FeatureReferenceTypes},
	OpTableSize:  {name: "table.size", imm: ImmTableIdx, feature: FeatureReferenceTypes},
	OpTableFill:  {name: "table.fill", imm: ImmTableIdx, feature: FeatureReferenceTypes},

	// SIMD memory and constants
	OpV128Load:        {name: "v128.load", imm: ImmMemArg, feature: FeatureSimd, align: 4},
	OpV128Load8x8S:    {name: "v128.load8x8_s", imm: ImmMemArg, feature: FeatureSimd, align: 3},
	OpV128Load8x8U:    {name: "v128.load8x8_u", imm: ImmMemArg, feature: FeatureSimd, align: 3},
	OpV128Load16x4S:   {name: "v128.load16x4_s", imm: ImmMemArg, feature: FeatureSimd, align: 3},
	OpV128Load16x4U:   {name: "v128.load16x4_u", imm: ImmMemArg, feature: FeatureSimd, align: 3},
	OpV128Load32x2S:   {name: "v128.load32x2_s", imm: ImmMemArg, feature: FeatureSimd, align: 3},
	OpV128Load32x2U:   {name: "v128.load32x2_u", imm: ImmMemArg, feature: FeatureSimd, align: 3},
	OpV128Load8Splat:  {name: "v128.load8_splat", imm: ImmMemArg, feature: FeatureSimd, align: 0},
	OpV128Load16Splat: {name: "v128.load16_splat", imm: ImmMemArg, feature: FeatureSimd, align: 1},
	OpV128Load32Splat: {name: "v128.load32_splat", imm: ImmMemArg, feature: FeatureSimd, align: 2},
	OpV128Load64Splat: {name: "v128.load64_splat", imm: ImmMemArg, feature: FeatureSimd, align: 3},
	OpV128Store:       {name: "v128.store", imm: ImmMemArg, feature: FeatureSimd, align: 4},
	OpV128Const:       {name: "v128.const", imm: ImmV128, feature: FeatureSimd},
	OpI8x16Shuffle:    {name: "i8x16.shuffle", imm: ImmShuffle, feature: FeatureSimd},
	OpI8x16Swizzle:    {name: "i8x16.swizzle", feature: FeatureSimd},

	OpI8x16Splat: {name: "i8x16.splat", feature: FeatureSimd},
	OpI16x8Splat: {name: "i16x8.splat", feature: FeatureSimd},
	OpI32x4Splat: {name: "i32x4.splat", feature: FeatureSimd},
	OpI64x2Splat: {name: "i64x2.splat", feature: FeatureSimd},
	OpF32x4Splat: {name: "f32x4.splat", feature: FeatureSimd},
	OpF64x2Splat: {name: "f64x2.splat", feature: FeatureSimd},

	OpI8x16ExtractLaneS: {name: "i8x16.extract_lane_s", imm: ImmLane, feature: FeatureSimd},
	OpI8x16ExtractLaneU: {name: "i8x16.extract_lane_u", imm: ImmLane, feature: FeatureSimd},
	OpI8x16ReplaceLane:  {name: "i8x16.replace_lane", imm: ImmLane, feature: FeatureSimd},
	OpI16x8ExtractLaneS: {name: "i16x8.extract_lane_s", imm: ImmLane, feature: FeatureSimd},
	OpI16x8ExtractLaneU: {name: "i16x8.extract_lane_u", imm: ImmLane, feature: FeatureSimd},
	OpI16x8ReplaceLane:  {name: "i16x8.replace_lane", imm: ImmLane, feature: FeatureSimd},
	OpI32x4ExtractLane:  {name: "i32x4.extract_lane", imm: ImmLane, feature: FeatureSimd},
	OpI32x4ReplaceLane:  {name: "i32x4.replace_lane", imm: ImmLane, feature: FeatureSimd},
	OpI64x2ExtractLane:  {name: "i64x2.extract_lane", imm: ImmLane, feature: FeatureSimd},
	OpI64x2ReplaceLane:  {name: "i64x2.replace_lane", imm: ImmLane, feature: FeatureSimd},
	OpF32x4ExtractLane:  {name: "f32x4.extract_lane", imm: ImmLane, feature: FeatureSimd},
	OpF32x4ReplaceLane:  {name: "f32x4.replace_lane", imm: ImmLane, feature: FeatureSimd},
	OpF64x2ExtractLane:  {name: "f64x2.extract_lane", imm: ImmLane, feature: FeatureSimd},
	OpF64x2ReplaceLane:  {name: "f64x2.replace_lane", imm: ImmLane, feature: FeatureSimd},

	OpI8x16Eq:  {name: "i8x16.eq", feature: FeatureSimd},
	OpI8x16Ne:  {name: "i8x16.ne", feature: FeatureSimd},
	OpI8x16LtS: {name: "i8x16.lt_s", feature: FeatureSimd},
	OpI8x16LtU: {name: "i8x16.lt_u", feature: FeatureSimd},
	OpI8x16GtS: {name: "i8x16.gt_s", feature: FeatureSimd},
	OpI8x16GtU: {name: "i8x16.gt_u", feature: FeatureSimd},
	OpI8x16LeS: {name: "i8x16.le_s", feature: FeatureSimd},
	OpI8x16LeU: {name: "i8x16.le_u", feature: FeatureSimd},
	OpI8x16GeS: {name: "i8x16.ge_s", feature: FeatureSimd},
	OpI8x16GeU: {name: "i8x16.ge_u", feature: FeatureSimd},

	OpI16x8Eq:  {name: "i16x8.eq", feature: FeatureSimd},
	OpI16x8Ne:  {name: "i16x8.ne", feature: FeatureSimd},
	OpI16x8LtS: {name: "i16x8.lt_s", feature: FeatureSimd},
	OpI16x8LtU: {name: "i16x8.lt_u", feature: FeatureSimd},
	OpI16x8GtS: {name: "i16x8.gt_s", feature: FeatureSimd},
	OpI16x8GtU: {name: "i16x8.gt_u", feature: FeatureSimd},
	OpI16x8LeS: {name: "i16x8.le_s", feature: FeatureSimd},
	OpI16x8LeU: {name: "i16x8.le_u", feature: FeatureSimd},
	OpI16x8GeS: {name: "i16x8.ge_s", feature: FeatureSimd},
	OpI16x8GeU: {name: "i16x8.ge_u", feature: FeatureSimd},

	OpI32x4Eq:  {name: "i32x4.eq", feature: FeatureSimd},
	OpI32x4Ne:  {name: "i32x4.ne", feature: FeatureSimd},
	OpI32x4LtS: {name: "i32x4.lt_s", feature: FeatureSimd},
	OpI32x4LtU: {name: "i32x4.lt_u", feature: FeatureSimd},
	OpI32x4GtS: {name: "i32x4.gt_s", feature: FeatureSimd},
	OpI32x4GtU: {name: "i32x4.gt_u", feature: FeatureSimd},
	OpI32x4LeS: {name: "i32x4.le_s", feature: FeatureSimd},
	OpI32x4LeU: {name: "i32x4.le_u", feature: FeatureSimd},
	OpI32x4GeS: {name: "i32x4.ge_s", feature: FeatureSimd},
	OpI32x4GeU: {name: "i32x4.ge_u", feature: FeatureSimd},

	OpF32x4Eq: {name: "f32x4.eq", feature: FeatureSimd},
	OpF32x4Ne: {name: "f32x4.ne", feature: FeatureSimd},
	OpF32x4Lt: {name: "f32x4.lt", feature: FeatureSimd},
	OpF32x4Gt: {name: "f32x4.gt", feature: FeatureSimd},
	OpF32x4Le: {name: "f32x4.le", feature: FeatureSimd},
	OpF32x4Ge: {name: "f32x4.ge", feature: FeatureSimd},

	OpF64x2Eq: {name: "f64x2.eq", feature: FeatureSimd},
	OpF64x2Ne: {name: "f64x2.ne", feature: FeatureSimd},
	OpF64x2Lt: {name: "f64x2.lt", feature: FeatureSimd},
	OpF64x2Gt: {name: "f64x2.gt", feature: FeatureSimd},
	OpF64x2Le: {name: "f64x2.le", feature: FeatureSimd},
	OpF64x2Ge: {name: "f64x2.ge", feature: FeatureSimd},

	OpV128Not:       {name: "v128.not", feature: FeatureSimd},
	OpV128And:       {name: "v128.and", feature: FeatureSimd},
	OpV128AndNot:    {name: "v128.andnot", feature: FeatureSimd},
	OpV128Or:        {name: "v128.or", feature: FeatureSimd},
	OpV128Xor:       {name: "v128.xor", feature: FeatureSimd},
	OpV128BitSelect: {name: "v128.bitselect", feature: FeatureSimd},
	OpV128AnyTrue:   {name: "v128.any_true", feature: FeatureSimd},

	OpV128Load8Lane:   {name: "v128.load8_lane", imm: ImmMemArgLane, feature: FeatureSimd, align: 0},
	OpV128Load16Lane:  {name: "v128.load16_lane", imm: ImmMemArgLane, feature: FeatureSimd, align: 1},
	OpV128Load32Lane:  {name: "v128.load32_lane", imm: ImmMemArgLane, feature: FeatureSimd, align: 2},
	OpV128Load64Lane:  {name: "v128.load64_lane", imm: ImmMemArgLane, feature: FeatureSimd, align: 3},
	OpV128Store8Lane:  {name: "v128.store8_lane", imm: ImmMemArgLane, feature: FeatureSimd, align: 0},
	OpV128Store16Lane: {name: "v128.store16_lane", imm: ImmMemArgLane, feature: FeatureSimd, align: 1},
	OpV128Store32Lane: {name: "v128.store32_lane", imm: ImmMemArgLane, feature: FeatureSimd, align: 2},
	OpV128Store64Lane: {name: "v128.store64_lane", imm: ImmMemArgLane, feature: FeatureSimd, align: 3},
	OpV128Load32Zero:  {name: "v128.load32_zero", imm: ImmMemArg, feature: FeatureSimd, align: 2},
	OpV128Load64Zero:  {name: "v128.load64_zero", imm: ImmMemArg, feature: FeatureSimd, align: 3},

	OpF32x4DemoteF64x2Zero: {name: "f32x4.demote_f64x2_zero", feature: FeatureSimd},
	OpF64x2PromoteLowF32x4: {name: "f64x2.promote_low_f32x4", feature: FeatureSimd},

	OpI8x16Abs:          {name: "i8x16.abs", feature: FeatureSimd},
	OpI8x16Neg:          {name: "i8x16.neg", feature: FeatureSimd},
	OpI8x16Popcnt:       {name: "i8x16.popcnt", feature: FeatureSimd},
	OpI8x16AllTrue:      {name: "i8x16.all_true", feature: FeatureSimd},
	OpI8x16Bitmask:      {name: "i8x16.bitmask", feature: FeatureSimd},
	OpI8x16NarrowI16x8S: {name: "i8x16.narrow_i16x8_s", feature: FeatureSimd},
	OpI8x16NarrowI16x8U: {name: "i8x16.narrow_i16x8_u", feature: FeatureSimd},

	OpF32x4Ceil:    {name: "f32x4.ceil", feature: FeatureSimd},
	OpF32x4Floor:   {name: "f32x4.floor", feature: FeatureSimd},
	OpF32x4Trunc:   {name: "f32x4.trunc", feature: FeatureSimd},
	OpF32x4Nearest: {name: "f32x4.nearest", feature: FeatureSimd},

	OpI8x16Shl:     {name: "i8x16.shl", feature: FeatureSimd},
	OpI8x16ShrS:    {name: "i8x16.shr_s", feature: FeatureSimd},
	OpI8x16ShrU:    {name: "i8x16.shr_u", feature: FeatureSimd},
	OpI8x16Add:     {name: "i8x16.add", feature: FeatureSimd},
	OpI8x16AddSatS: {name: "i8x16.add_sat_s", feature: FeatureSimd},
	OpI8x16AddSatU: {name: "i8x16.add_sat_u", feature: FeatureSimd},
	OpI8x16Sub:     {name: "i8x16.sub", feature: FeatureSimd},
	OpI8x16SubSatS: {name: "i8x16.sub_sat_s", feature: FeatureSimd},
	OpI8x16SubSatU: {name: "i8x16.sub_sat_u", feature: FeatureSimd},

	OpF64x2Ceil:  {name: "f64x2.ceil", feature: FeatureSimd},
	OpF64x2Floor: {name: "f64x2.floor", feature: FeatureSimd},

	OpI8x16MinS: {name: "i8x16.min_s", feature: FeatureSimd},
	OpI8x16MinU: {name: "i8x16.min_u", feature: FeatureSimd},
	OpI8x16MaxS: {name: "i8x16.max_s", feature: FeatureSimd},
	OpI8x16MaxU: {name: "i8x16.max_u", feature: FeatureSimd},

	OpF64x2Trunc: {name: "f64x2.trunc", feature: FeatureSimd},

	OpI8x16AvgrU: {name: "i8x16.avgr_u", feature: FeatureSimd},

	OpI16x8ExtAddPairwiseI8x16S: {name: "i16x8.extadd_pairwise_i8x16_s", feature: FeatureSimd},
	OpI16x8ExtAddPairwiseI8x16U: {name: "i16x8.extadd_pairwise_i8x16_u", feature: FeatureSimd},
	OpI32x4ExtAddPairwiseI16x8S: {name: "i32x4.extadd_pairwise_i16x8_s", feature: FeatureSimd},
	OpI32x4ExtAddPairwiseI16x8U: {name: "i32x4.extadd_pairwise_i16x8_u", feature: FeatureSimd},

	OpI16x8Abs:              {name: "i16x8.abs", feature: FeatureSimd},
	OpI16x8Neg:              {name: "i16x8.neg", feature: FeatureSimd},
	OpI16x8Q15MulrSatS:      {name: "i16x8.q15mulr_sat_s", feature: FeatureSimd},
	OpI16x8AllTrue:          {name: "i16x8.all_true", feature: FeatureSimd},
	OpI16x8Bitmask:          {name: "i16x8.bitmask", feature: FeatureSimd},
	OpI16x8NarrowI32x4S:     {name: "i16x8.narrow_i32x4_s", feature: FeatureSimd},
	OpI16x8NarrowI32x4U:     {name: "i16x8.narrow_i32x4_u", feature: FeatureSimd},
	OpI16x8ExtendLowI8x16S:  {name: "i16x8.extend_low_i8x16_s", feature: FeatureSimd},
	OpI16x8ExtendHighI8x16S: {name: "i16x8.extend_high_i8x16_s", feature: FeatureSimd},
	OpI16x8ExtendLowI8x16U:  {name: "i16x8.extend_low_i8x16_u", feature: FeatureSimd},
	OpI16x8ExtendHighI8x16U: {name: "i16x8.extend_high_i8x16_u", feature: FeatureSimd},
	OpI16x8Shl:              {name: "i16x8.shl", feature: FeatureSimd},
	OpI16x8ShrS:             {name: "i16x8.shr_s", feature: FeatureSimd},
	OpI16x8ShrU:             {name: "i16x8.shr_u", feature: FeatureSimd},
	OpI16x8Add:              {name: "i16x8.add", feature: FeatureSimd},
	OpI16x8AddSatS:          {name: "i16x8.add_sat_s", feature: FeatureSimd},
	OpI16x8AddSatU:          {name: "i16x8.add_sat_u", feature: FeatureSimd},
	OpI16x8Sub:              {name: "i16x8.sub", feature: FeatureSimd},
	OpI16x8SubSatS:          {name: "i16x8.sub_sat_s", feature: FeatureSimd},
	OpI16x8SubSatU:          {name: "i16x8.sub_sat_u", feature: FeatureSimd},

	OpF64x2Nearest: {name: "f64x2.nearest", feature: FeatureSimd},

	OpI16x8Mul:  {name: "i16x8.mul", feature: FeatureSimd},
	OpI16x8MinS: {name: "i16x8.min_s", feature: FeatureSimd},
	OpI16x8MinU: {name: "i16x8.min_u", feature: FeatureSimd},
	OpI16x8MaxS: {name: "i16x8.max_s", feature: FeatureSimd},
	OpI16x8MaxU: {name: "i16x8.max_u", feature: FeatureSimd},

	OpI16x8AvgrU: {name: "i16x8.avgr_u", feature: FeatureSimd},

	OpI16x8ExtMulLowI8x16S:  {name: "i16x8.extmul_low_i8x16_s", feature: FeatureSimd},
	OpI16x8ExtMulHighI8x16S: {name: "i16x8.extmul_high_i8x16_s", feature: FeatureSimd},
	OpI16x8ExtMulLowI8x16U:  {name: "i16x8.extmul_low_i8x16_u", feature: FeatureSimd},
	OpI16x8ExtMulHighI8x16U: {name: "i16x8.extmul_high_i8x16_u", feature: FeatureSimd},

	OpI32x4Abs:              {name: "i32x4.abs", feature: FeatureSimd},
	OpI32x4Neg:              {name: "i32x4.neg", feature: FeatureSimd},
	OpI32x4AllTrue:          {name: "i32x4.all_true", feature: FeatureSimd},
	OpI32x4Bitmask:          {name: "i32x4.bitmask", feature: FeatureSimd},
	OpI32x4ExtendLowI16x8S:  {name: "i32x4.extend_low_i16x8_s", feature: FeatureSimd},
	OpI32x4ExtendHighI16x8S: {name: "i32x4.extend_high_i16x8_s", feature: FeatureSimd},
	OpI32x4ExtendLowI16x8U:  {name: "i32x4.extend_low_i16x8_u", feature: FeatureSimd},
	OpI32x4ExtendHighI16x8U: {name: "i32x4.extend_high_i16x8_u", feature: FeatureSimd},
	OpI32x4Shl:              {name: "i32x4.shl", feature: FeatureSimd},
	OpI32x4ShrS:             {name: "i32x4.shr_s", feature: FeatureSimd},
	OpI32x4ShrU:             {name: "i32x4.shr_u", feature: FeatureSimd},
	OpI32x4Add:              {name: "i32x4.add", feature: FeatureSimd},
	OpI32x4Sub:              {name: "i32x4.sub", feature: FeatureSimd},
	OpI32x4Mul:              {name: "i32x4.mul", feature: FeatureSimd},
	OpI32x4MinS:             {name: "i32x4.min_s", feature: FeatureSimd},
	OpI32x4MinU:             {name: "i32x4.min_u", feature: FeatureSimd},
	OpI32x4MaxS:             {name: "i32x4.max_s", feature: FeatureSimd},
	OpI32x4MaxU:             {name: "i32x4.max_u", feature: FeatureSimd},
	OpI32x4DotI16x8S:        {name: "i32x4.dot_i16x8_s", feature: FeatureSimd},
	OpI32x4ExtMulLowI16x8S:  {name: "i32x4.extmul_low_i16x8_s", feature: FeatureSimd},
	OpI32x4ExtMulHighI16x8S: {name: "i32x4.extmul_high_i16x8_s", feature: FeatureSimd},
	OpI32x4ExtMulLowI16x8U:  {name: "i32x4.extmul_low_i16x8_u", feature: FeatureSimd},
	OpI32x4ExtMulHighI16x8U: {name: "i32x4.extmul_high_i16x8_u", feature: FeatureSimd},

	OpI64x2Abs:              {name: "i64x2.abs", feature: FeatureSimd},
	OpI64x2Neg:              {name: "i64x2.neg", feature: FeatureSimd},
	OpI64x2AllTrue:          {name: "i64x2.all_true", feature: FeatureSimd},
	OpI64x2Bitmask:          {name: "i64x2.bitmask", feature: FeatureSimd},
	OpI64x2ExtendLowI32x4S:  {name: "i64x2.extend_low_i32x4_s", feature: FeatureSimd},
	OpI64x2ExtendHighI32x4S: {name: "i64x2.extend_high_i32x4_s", feature: FeatureSimd},
	OpI64x2ExtendLowI32x4U:  {name: "i64x2.extend_low_i32x4_u", feature: FeatureSimd},
	OpI64x2ExtendHighI32x4U: {name: "i64x2.extend_high_i32x4_u", feature: FeatureSimd},
	OpI64x2Shl:              {name: "i64x2.shl", feature: FeatureSimd},
	OpI64x2ShrS:             {name: "i64x2.shr_s", feature: FeatureSimd},
	OpI64x2ShrU:             {name: "i64x2.shr_u", feature: FeatureSimd},
	OpI64x2Add:              {name: "i64x2.add", feature: FeatureSimd},
	OpI64x2Sub:              {name: "i64x2.sub", feature: FeatureSimd},
	OpI64x2Mul:              {name: "i64x2.mul", feature: FeatureSimd},
	OpI64x2Eq:               {name: "i64x2.eq", feature: FeatureSimd},
	OpI64x2Ne:               {name: "i64x2.ne", feature: FeatureSimd},
	OpI64x2LtS:              {name: "i64x2.lt_s", feature: FeatureSimd},
	OpI64x2GtS:              {name: "i64x2.gt_s", feature: FeatureSimd},
	OpI64x2LeS:              {name: "i64x2.le_s", feature: FeatureSimd},
	OpI64x2GeS:              {name: "i64x2.ge_s", feature: FeatureSimd},
	OpI64x2ExtMulLowI32x4S:  {name: "i64x2.extmul_low_i32x4_s", feature: FeatureSimd},
	OpI64x2ExtMulHighI32x4S: {name: "i64x2.extmul_high_i32x4_s", feature: FeatureSimd},
	OpI64x2ExtMulLowI32x4U:  {name: "i64x2.extmul_low_i32x4_u", feature: FeatureSimd},
	OpI64x2ExtMulHighI32x4U: {name: "i64x2.extmul_high_i32x4_u", feature: FeatureSimd},

	OpF32x4Abs:  {name: "f32x4.abs", feature: FeatureSimd},
	OpF32x4Neg:  {name: "f32x4.neg", feature: FeatureSimd},
	OpF32x4Sqrt: {name: "f32x4.sqrt", feature: FeatureSimd},
	OpF32x4Add:  {name: "f32x4.add", feature: FeatureSimd},
	OpF32x4Sub:  {name: "f32x4.sub", feature: FeatureSimd},
	OpF32x4Mul:  {name: "f32x4.mul", feature: FeatureSimd},
	OpF32x4Div:  {name: "f32x4.div", feature: FeatureSimd},
	OpF32x4Min:  {name: "f32x4.min", feature: FeatureSimd},
	OpF32x4Max:  {name: "f32x4.max", feature: FeatureSimd},
	OpF32x4PMin: {name: "f32x4.pmin", feature: FeatureSimd},
	OpF32x4PMax: {name: "f32x4.pmax", feature: FeatureSimd},

	OpF64x2Abs:  {name: "f64x2.abs", feature: FeatureSimd},
	OpF64x2Neg:  {name: "f64x2.neg", feature: FeatureSimd},
	OpF64x2Sqrt: {name: "f64x2.sqrt", feature: FeatureSimd},
	OpF64x2Add:  {name: "f64x2.add", feature: FeatureSimd},
	OpF64x2Sub:  {name: "f64x2.sub", feature: FeatureSimd},
	OpF64x2Mul:  {name: "f64x2.mul", feature: FeatureSimd},
	OpF64x2Div:  {name: "f64x2.div", feature: FeatureSimd},
	OpF64x2Min:  {name: "f64x2.min", feature: FeatureSimd},
	OpF64x2Max:  {name: "f64x2.max", feature: FeatureSimd},
	OpF64x2PMin: {name: "f64x2.pmin", feature: FeatureSimd},
	OpF64x2PMax: {name: "f64x2.pmax", feature: FeatureSimd},

	OpI32x4TruncSatF32x4S:     {name: "i32x4.trunc_sat_f32x4_s", feature: FeatureSimd},
	OpI32x4TruncSatF32x4U:     {name: "i32x4.trunc_sat_f32x4_u", feature: FeatureSimd},
	OpF32x4ConvertI32x4S:      {name: "f32x4.convert_i32x4_s", feature: FeatureSimd},
	OpF32x4ConvertI32x4U:      {name: "f32x4.convert_i32x4_u", feature: FeatureSimd},
	OpI32x4TruncSatF64x2SZero: {name: "i32x4.trunc_sat_f64x2_s_zero", feature: FeatureSimd},
	OpI32x4TruncSatF64x2UZero: {name: "i32x4.trunc_sat_f64x2_u_zero", feature: FeatureSimd},
	OpF64x2ConvertLowI32x4S:   {name: "f64x2.convert_low_i32x4_s", feature: FeatureSimd},
	OpF64x2ConvertLowI32x4U:   {name: "f64x2.convert_low_i32x4_u", feature: FeatureSimd},

	// Atomics (0xFE)
	OpMemoryAtomicNotify: {name: "memory.atomic.notify", imm: ImmMemArg, feature: FeatureThreads, align: 2},
	OpMemoryAtomicWait32: {name: "memory.atomic.wait32", imm: ImmMemArg, feature: FeatureThreads, align: 2},
	OpMemoryAtomicWait64: {name: "memory.atomic.wait64", imm: ImmMemArg, feature: FeatureThreads, align: 3},
	OpAtomicFence:        {name: "atomic.fence", imm: ImmFence, feature: FeatureThreads},

	OpI32AtomicLoad:    {name: "i32.atomic.load", imm: ImmMemArg, feature: FeatureThreads, align: 2},
	OpI64AtomicLoad:    {name: "i64.atomic.load", imm: ImmMemArg, feature: FeatureThreads, align: 3},
	OpI32AtomicLoad8U:  {name: "i32.atomic.load8_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI32AtomicLoad16U: {name: "i32.atomic.load16_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicLoad8U:  {name: "i64.atomic.load8_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI64AtomicLoad16U: {name: "i64.atomic.load16_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicLoad32U: {name: "i64.atomic.load32_u", imm: ImmMemArg, feature: FeatureThreads, align: 2},
	OpI32AtomicStore:   {name: "i32.atomic.store", imm: ImmMemArg, feature: FeatureThreads, align: 2},
	OpI64AtomicStore:   {name: "i64.atomic.store", imm: ImmMemArg, feature: FeatureThreads, align: 3},
	OpI32AtomicStore8:  {name: "i32.atomic.store8", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI32AtomicStore16: {name: "i32.atomic.store16", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicStore8:  {name: "i64.atomic.store8", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI64AtomicStore16: {name: "i64.atomic.store16", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicStore32: {name: "i64.atomic.store32", imm: ImmMemArg, feature: FeatureThreads, align: 2},

	OpI32AtomicRmwAdd:    {name: "i32.atomic.rmw.add", imm: ImmMemArg, feature: FeatureThreads, align: 2},
	OpI64AtomicRmwAdd:    {name: "i64.atomic.rmw.add", imm: ImmMemArg, feature: FeatureThreads, align: 3},
	OpI32AtomicRmw8AddU:  {name: "i32.atomic.rmw8.add_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI32AtomicRmw16AddU: {name: "i32.atomic.rmw16.add_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicRmw8AddU:  {name: "i64.atomic.rmw8.add_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI64AtomicRmw16AddU: {name: "i64.atomic.rmw16.add_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicRmw32AddU: {name: "i64.atomic.rmw32.add_u", imm: ImmMemArg, feature: FeatureThreads, align: 2},

	OpI32AtomicRmwSub:    {name: "i32.atomic.rmw.sub", imm: ImmMemArg, feature: FeatureThreads, align: 2},
	OpI64AtomicRmwSub:    {name: "i64.atomic.rmw.sub", imm: ImmMemArg, feature: FeatureThreads, align: 3},
	OpI32AtomicRmw8SubU:  {name: "i32.atomic.rmw8.sub_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI32AtomicRmw16SubU: {name: "i32.atomic.rmw16.sub_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicRmw8SubU:  {name: "i64.atomic.rmw8.sub_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI64AtomicRmw16SubU: {name: "i64.atomic.rmw16.sub_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicRmw32SubU: {name: "i64.atomic.rmw32.sub_u", imm: ImmMemArg, feature: FeatureThreads, align: 2},

	OpI32AtomicRmwAnd:    {name: "i32.atomic.rmw.and", imm: ImmMemArg, feature: FeatureThreads, align: 2},
	OpI64AtomicRmwAnd:    {name: "i64.atomic.rmw.and", imm: ImmMemArg, feature: FeatureThreads, align: 3},
	OpI32AtomicRmw8AndU:  {name: "i32.atomic.rmw8.and_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI32AtomicRmw16AndU: {name: "i32.atomic.rmw16.and_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicRmw8AndU:  {name: "i64.atomic.rmw8.and_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI64AtomicRmw16AndU: {name: "i64.atomic.rmw16.and_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicRmw32AndU: {name: "i64.atomic.rmw32.and_u", imm: ImmMemArg, feature: FeatureThreads, align: 2},

	OpI32AtomicRmwOr:    {name: "i32.atomic.rmw.or", imm: ImmMemArg, feature: FeatureThreads, align: 2},
	OpI64AtomicRmwOr:    {name: "i64.atomic.rmw.or", imm: ImmMemArg, feature: FeatureThreads, align: 3},
	OpI32AtomicRmw8OrU:  {name: "i32.atomic.rmw8.or_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI32AtomicRmw16OrU: {name: "i32.atomic.rmw16.or_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicRmw8OrU:  {name: "i64.atomic.rmw8.or_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI64AtomicRmw16OrU: {name: "i64.atomic.rmw16.or_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicRmw32OrU: {name: "i64.atomic.rmw32.or_u", imm: ImmMemArg, feature: FeatureThreads, align: 2},

	OpI32AtomicRmwXor:    {name: "i32.atomic.rmw.xor", imm: ImmMemArg, feature: FeatureThreads, align: 2},
	OpI64AtomicRmwXor:    {name: "i64.atomic.rmw.xor", imm: ImmMemArg, feature: FeatureThreads, align: 3},
	OpI32AtomicRmw8XorU:  {name: "i32.atomic.rmw8.xor_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI32AtomicRmw16XorU: {name: "i32.atomic.rmw16.xor_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicRmw8XorU:  {name: "i64.atomic.rmw8.xor_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI64AtomicRmw16XorU: {name: "i64.atomic.rmw16.xor_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicRmw32XorU: {name: "i64.atomic.rmw32.xor_u", imm: ImmMemArg, feature: FeatureThreads, align: 2},

	OpI32AtomicRmwXchg:    {name: "i32.atomic.rmw.xchg", imm: ImmMemArg, feature: FeatureThreads, align: 2},
	OpI64AtomicRmwXchg:    {name: "i64.atomic.rmw.xchg", imm: ImmMemArg, feature: FeatureThreads, align: 3},
	OpI32AtomicRmw8XchgU:  {name: "i32.atomic.rmw8.xchg_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI32AtomicRmw16XchgU: {name: "i32.atomic.rmw16.xchg_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicRmw8XchgU:  {name: "i64.atomic.rmw8.xchg_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI64AtomicRmw16XchgU: {name: "i64.atomic.rmw16.xchg_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicRmw32XchgU: {name: "i64.atomic.rmw32.xchg_u", imm: ImmMemArg, feature: FeatureThreads, align: 2},

	OpI32AtomicRmwCmpxchg:    {name: "i32.atomic.rmw.cmpxchg", imm: ImmMemArg, feature: FeatureThreads, align: 2},
	OpI64AtomicRmwCmpxchg:    {name: "i64.atomic.rmw.cmpxchg", imm: ImmMemArg, feature: FeatureThreads, align: 3},
	OpI32AtomicRmw8CmpxchgU:  {name: "i32.atomic.rmw8.cmpxchg_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI32AtomicRmw16CmpxchgU: {name: "i32.atomic.rmw16.cmpxchg_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicRmw8CmpxchgU:  {name: "i64.atomic.rmw8.cmpxchg_u", imm: ImmMemArg, feature: FeatureThreads, align: 0},
	OpI64AtomicRmw16CmpxchgU: {name: "i64.atomic.rmw16.cmpxchg_u", imm: ImmMemArg, feature: FeatureThreads, align: 1},
	OpI64AtomicRmw32CmpxchgU: {name: "i64.atomic.rmw32.cmpxchg_u", imm: ImmMemArg, feature: FeatureThreads, align: 2},
}

// aliasMnemonics maps retired text-format spellings to current ones.
// Both forms name the same opcode.
var aliasMnemonics = map[string]string{
	"get_local":  "local.get",
	"set_local":  "local.set",
	"tee_local":  "local.tee",
	"get_global": "global.get",
	"set_global": "global.set",

	"i32.wrap/i64":        "i32.wrap_i64",
	"i32.trunc_s/f32":     "i32.trunc_f32_s",
	"i32.trunc_u/f32":     "i32.trunc_f32_u",
	"i32.trunc_s/f64":     "i32.trunc_f64_s",
	"i32.trunc_u/f64":     "i32.trunc_f64_u",
	"i64.extend_s/i32":    "i64.extend_i32_s",
	"i64.extend_u/i32":    "i64.extend_i32_u",
	"i64.trunc_s/f32":     "i64.trunc_f32_s",
	"i64.trunc_u/f32":     "i64.trunc_f32_u",
	"i64.trunc_s/f64":     "i64.trunc_f64_s",
	"i64.trunc_u/f64":     "i64.trunc_f64_u",
	"f32.convert_s/i32":   "f32.convert_i32_s",
	"f32.convert_u/i32":   "f32.convert_i32_u",
	"f32.convert_s/i64":   "f32.convert_i64_s",
	"f32.convert_u/i64":   "f32.convert_i64_u",
	"f32.demote/f64":      "f32.demote_f64",
	"f64.convert_s/i32":   "f64.convert_i32_s",
	"f64.convert_u/i32":   "f64.convert_i32_u",
	"f64.convert_s/i64":   "f64.convert_i64_s",
	"f64.convert_u/i64":   "f64.convert_i64_u",
	"f64.promote/f32":     "f64.promote_f32",
	"i32.reinterpret/f32": "i32.reinterpret_f32",
	"i64.reinterpret/f64": "i64.reinterpret_f64",
	"f32.reinterpret/i32": "f32.reinterpret_i32",
	"f64.reinterpret/i64": "f64.reinterpret_i64",

	"i32.trunc_s:sat/f32": "i32.trunc_sat_f32_s",
	"i32.trunc_u:sat/f32": "i32.trunc_sat_f32_u",
	"i32.trunc_s:sat/f64": "i32.trunc_sat_f64_s",
	"i32.trunc_u:sat/f64": "i32.trunc_sat_f64_u",
	"i64.trunc_s:sat/f32": "i64.trunc_sat_f32_s",
	"i64.trunc_u:sat/f32": "i64.trunc_sat_f32_u",
	"i64.trunc_s:sat/f64": "i64.trunc_sat_f64_s",
	"i64.trunc_u:sat/f64": "i64.trunc_sat_f64_u",
}

// opcodeByName is the reverse of opcodeTable, including aliases. The
// plain "select" spelling resolves to OpSelect; the typed form is
// chosen by the parser when a result annotation is present.
var opcodeByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeTable)+len(aliasMnemonics))
	for op, info := range opcodeTable {
		if op == OpSelectType {
			continue
		}
		m[info.name] = op
	}
	for alias, name := range aliasMnemonics {
		m[alias] = m[name]
	}
	return m
}()

// Known reports whether op names a defined opcode.
func (op Opcode) Known() bool {
	_, ok := opcodeTable[op]
	return ok
}

// Name returns the text format mnemonic for op.
func (op Opcode) Name() string {
	if info, ok := opcodeTable[op]; ok {
		return info.name
	}
	if p, ok := op.Prefix(); ok {
		return fmt.Sprintf("unknown(0x%02x 0x%02x)", p, op.Sub())
	}
	return fmt.Sprintf("unknown(0x%02x)", byte(op))
}

func (op Opcode) String() string {
	return op.Name()
}

// ImmKind returns the immediate shape of op.
func (op Opcode) ImmKind() ImmKind {
	return opcodeTable[op].imm
}

// RequiredFeature returns the proposal gating op, or zero for MVP
// opcodes.
func (op Opcode) RequiredFeature() Features {
	return opcodeTable[op].feature
}

// NaturalAlignLog2 returns the natural alignment exponent of a memory or
// atomic access opcode.
func (op Opcode) NaturalAlignLog2() uint32 {
	return uint32(opcodeTable[op].align)
}

// LookupOpcode resolves a text format mnemonic, including retired alias
// spellings, to its opcode.
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := opcodeByName[name]
	return op, ok
}

// Opcodes calls fn for every defined opcode with its mnemonic and
// gating feature. Iteration order is unspecified.
func Opcodes(fn func(op Opcode, name string, feature Features)) {
	for op, info := range opcodeTable {
		fn(op, info.name, info.feature)
	}
}

// MnemonicAliases calls fn for every retired alias spelling and the
// opcode it resolves to.
func MnemonicAliases(fn func(alias string, op Opcode)) {
	for alias, name := range aliasMnemonics {
		fn(alias, opcodeByName[name])
	}
}
