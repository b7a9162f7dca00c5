package wasm

import (
	"github.com/wippyai/wasm-tools/errors"
)

// sig applies a plain stack signature: operands are listed bottom to
// top and popped in reverse; result ValUnknown means no result.
func (fv *funcValidator) sig(loc Location, result ValType, operands ...ValType) {
	for i := len(operands) - 1; i >= 0; i-- {
		fv.popType(operands[i], loc)
		if fv.failed {
			return
		}
	}
	if result != ValUnknown {
		fv.pushType(result)
	}
}

// laneCount returns the number of lanes of a SIMD lane opcode's shape.
func laneCount(op Opcode) byte {
	switch op {
	case OpI8x16ExtractLaneS, OpI8x16ExtractLaneU, OpI8x16ReplaceLane, OpV128Load8Lane, OpV128Store8Lane:
		return 16
	case OpI16x8ExtractLaneS, OpI16x8ExtractLaneU, OpI16x8ReplaceLane, OpV128Load16Lane, OpV128Store16Lane:
		return 8
	case OpI32x4ExtractLane, OpI32x4ReplaceLane, OpF32x4ExtractLane, OpF32x4ReplaceLane,
		OpV128Load32Lane, OpV128Store32Lane:
		return 4
	case OpI64x2ExtractLane, OpI64x2ReplaceLane, OpF64x2ExtractLane, OpF64x2ReplaceLane,
		OpV128Load64Lane, OpV128Store64Lane:
		return 2
	}
	return 0
}

func (fv *funcValidator) checkLane(op Opcode, lane byte, loc Location) bool {
	if count := laneCount(op); lane >= count {
		fv.errorf(errors.KindIndexOutOfBounds, loc,
			"%s lane %d out of range (%d lanes)", op, lane, count)
		return false
	}
	return true
}

// validateRegularInstr types the opcodes with uniform stack signatures:
// plain memory accesses, the numeric and conversion instruction sets,
// SIMD, and the remaining atomics.
func (fv *funcValidator) validateRegularInstr(instr Instruction) {
	op := instr.Opcode
	loc := instr.Loc

	switch op {
	// Plain loads
	case OpI32Load, OpI32Load8S, OpI32Load8U, OpI32Load16S, OpI32Load16U:
		fv.memAccess(op, instr, loc, ValI32, false)
	case OpI64Load, OpI64Load8S, OpI64Load8U, OpI64Load16S, OpI64Load16U,
		OpI64Load32S, OpI64Load32U:
		fv.memAccess(op, instr, loc, ValI64, false)
	case OpF32Load:
		fv.memAccess(op, instr, loc, ValF32, false)
	case OpF64Load:
		fv.memAccess(op, instr, loc, ValF64, false)

	// Plain stores
	case OpI32Store, OpI32Store8, OpI32Store16:
		fv.memAccess(op, instr, loc, ValI32, true)
	case OpI64Store, OpI64Store8, OpI64Store16, OpI64Store32:
		fv.memAccess(op, instr, loc, ValI64, true)
	case OpF32Store:
		fv.memAccess(op, instr, loc, ValF32, true)
	case OpF64Store:
		fv.memAccess(op, instr, loc, ValF64, true)

	// i32 tests and comparisons
	case OpI32Eqz:
		fv.sig(loc, ValI32, ValI32)
	case OpI32Eq, OpI32Ne, OpI32LtS, OpI32LtU, OpI32GtS, OpI32GtU,
		OpI32LeS, OpI32LeU, OpI32GeS, OpI32GeU:
		fv.sig(loc, ValI32, ValI32, ValI32)

	// i64 tests and comparisons
	case OpI64Eqz:
		fv.sig(loc, ValI32, ValI64)
	case OpI64Eq, OpI64Ne, OpI64LtS, OpI64LtU, OpI64GtS, OpI64GtU,
		OpI64LeS, OpI64LeU, OpI64GeS, OpI64GeU:
		fv.sig(loc, ValI32, ValI64, ValI64)

	// Float comparisons
	case OpF32Eq, OpF32Ne, OpF32Lt, OpF32Gt, OpF32Le, OpF32Ge:
		fv.sig(loc, ValI32, ValF32, ValF32)
	case OpF64Eq, OpF64Ne, OpF64Lt, OpF64Gt, OpF64Le, OpF64Ge:
		fv.sig(loc, ValI32, ValF64, ValF64)

	// i32 arithmetic
	case OpI32Clz, OpI32Ctz, OpI32Popcnt, OpI32Extend8S, OpI32Extend16S:
		fv.sig(loc, ValI32, ValI32)
	case OpI32Add, OpI32Sub, OpI32Mul, OpI32DivS, OpI32DivU, OpI32RemS, OpI32RemU,
		OpI32And, OpI32Or, OpI32Xor, OpI32Shl, OpI32ShrS, OpI32ShrU, OpI32Rotl, OpI32Rotr:
		fv.sig(loc, ValI32, ValI32, ValI32)

	// i64 arithmetic
	case OpI64Clz, OpI64Ctz, OpI64Popcnt, OpI64Extend8S, OpI64Extend16S, OpI64Extend32S:
		fv.sig(loc, ValI64, ValI64)
	case OpI64Add, OpI64Sub, OpI64Mul, OpI64DivS, OpI64DivU, OpI64RemS, OpI64RemU,
		OpI64And, OpI64Or, OpI64Xor, OpI64Shl, OpI64ShrS, OpI64ShrU, OpI64Rotl, OpI64Rotr:
		fv.sig(loc, ValI64, ValI64, ValI64)

	// f32 arithmetic
	case OpF32Abs, OpF32Neg, OpF32Ceil, OpF32Floor, OpF32Trunc, OpF32Nearest, OpF32Sqrt:
		fv.sig(loc, ValF32, ValF32)
	case OpF32Add, OpF32Sub, OpF32Mul, OpF32Div, OpF32Min, OpF32Max, OpF32Copysign:
		fv.sig(loc, ValF32, ValF32, ValF32)

	// f64 arithmetic
	case OpF64Abs, OpF64Neg, OpF64Ceil, OpF64Floor, OpF64Trunc, OpF64Nearest, OpF64Sqrt:
		fv.sig(loc, ValF64, ValF64)
	case OpF64Add, OpF64Sub, OpF64Mul, OpF64Div, OpF64Min, OpF64Max, OpF64Copysign:
		fv.sig(loc, ValF64, ValF64, ValF64)

	// Conversions
	case OpI32WrapI64:
		fv.sig(loc, ValI32, ValI64)
	case OpI32TruncF32S, OpI32TruncF32U, OpI32TruncSatF32S, OpI32TruncSatF32U:
		fv.sig(loc, ValI32, ValF32)
	case OpI32TruncF64S, OpI32TruncF64U, OpI32TruncSatF64S, OpI32TruncSatF64U:
		fv.sig(loc, ValI32, ValF64)
	case OpI64ExtendI32S, OpI64ExtendI32U:
		fv.sig(loc, ValI64, ValI32)
	case OpI64TruncF32S, OpI64TruncF32U, OpI64TruncSatF32S, OpI64TruncSatF32U:
		fv.sig(loc, ValI64, ValF32)
	case OpI64TruncF64S, OpI64TruncF64U, OpI64TruncSatF64S, OpI64TruncSatF64U:
		fv.sig(loc, ValI64, ValF64)
	case OpF32ConvertI32S, OpF32ConvertI32U:
		fv.sig(loc, ValF32, ValI32)
	case OpF32ConvertI64S, OpF32ConvertI64U:
		fv.sig(loc, ValF32, ValI64)
	case OpF32DemoteF64:
		fv.sig(loc, ValF32, ValF64)
	case OpF64ConvertI32S, OpF64ConvertI32U:
		fv.sig(loc, ValF64, ValI32)
	case OpF64ConvertI64S, OpF64ConvertI64U:
		fv.sig(loc, ValF64, ValI64)
	case OpF64PromoteF32:
		fv.sig(loc, ValF64, ValF32)
	case OpI32ReinterpretF32:
		fv.sig(loc, ValI32, ValF32)
	case OpI64ReinterpretF64:
		fv.sig(loc, ValI64, ValF64)
	case OpF32ReinterpretI32:
		fv.sig(loc, ValF32, ValI32)
	case OpF64ReinterpretI64:
		fv.sig(loc, ValF64, ValI64)

	// SIMD memory
	case OpV128Load, OpV128Load8x8S, OpV128Load8x8U, OpV128Load16x4S, OpV128Load16x4U,
		OpV128Load32x2S, OpV128Load32x2U, OpV128Load8Splat, OpV128Load16Splat,
		OpV128Load32Splat, OpV128Load64Splat, OpV128Load32Zero, OpV128Load64Zero:
		fv.memAccess(op, instr, loc, ValV128, false)
	case OpV128Store:
		fv.memAccess(op, instr, loc, ValV128, true)

	case OpV128Load8Lane, OpV128Load16Lane, OpV128Load32Lane, OpV128Load64Lane:
		imm := instr.Imm.(MemArgLaneImm)
		if !fv.checkLane(op, imm.LaneIdx, loc) {
			return
		}
		fv.checkAlign(op, imm.MemArg, loc, false)
		idxType := fv.memIdxType(loc)
		fv.popType(ValV128, loc)
		fv.popType(idxType, loc)
		fv.pushType(ValV128)
	case OpV128Store8Lane, OpV128Store16Lane, OpV128Store32Lane, OpV128Store64Lane:
		imm := instr.Imm.(MemArgLaneImm)
		if !fv.checkLane(op, imm.LaneIdx, loc) {
			return
		}
		fv.checkAlign(op, imm.MemArg, loc, false)
		idxType := fv.memIdxType(loc)
		fv.popType(ValV128, loc)
		fv.popType(idxType, loc)

	// SIMD splats
	case OpI8x16Splat, OpI16x8Splat, OpI32x4Splat:
		fv.sig(loc, ValV128, ValI32)
	case OpI64x2Splat:
		fv.sig(loc, ValV128, ValI64)
	case OpF32x4Splat:
		fv.sig(loc, ValV128, ValF32)
	case OpF64x2Splat:
		fv.sig(loc, ValV128, ValF64)

	// SIMD lane access
	case OpI8x16ExtractLaneS, OpI8x16ExtractLaneU, OpI16x8ExtractLaneS,
		OpI16x8ExtractLaneU, OpI32x4ExtractLane:
		if fv.checkLane(op, instr.Imm.(LaneImm).LaneIdx, loc) {
			fv.sig(loc, ValI32, ValV128)
		}
	case OpI64x2ExtractLane:
		if fv.checkLane(op, instr.Imm.(LaneImm).LaneIdx, loc) {
			fv.sig(loc, ValI64, ValV128)
		}
	case OpF32x4ExtractLane:
		if fv.checkLane(op, instr.Imm.(LaneImm).LaneIdx, loc) {
			fv.sig(loc, ValF32, ValV128)
		}
	case OpF64x2ExtractLane:
		if fv.checkLane(op, instr.Imm.(LaneImm).LaneIdx, loc) {
			fv.sig(loc, ValF64, ValV128)
		}
	case OpI8x16ReplaceLane, OpI16x8ReplaceLane, OpI32x4ReplaceLane:
		if fv.checkLane(op, instr.Imm.(LaneImm).LaneIdx, loc) {
			fv.sig(loc, ValV128, ValV128, ValI32)
		}
	case OpI64x2ReplaceLane:
		if fv.checkLane(op, instr.Imm.(LaneImm).LaneIdx, loc) {
			fv.sig(loc, ValV128, ValV128, ValI64)
		}
	case OpF32x4ReplaceLane:
		if fv.checkLane(op, instr.Imm.(LaneImm).LaneIdx, loc) {
			fv.sig(loc, ValV128, ValV128, ValF32)
		}
	case OpF64x2ReplaceLane:
		if fv.checkLane(op, instr.Imm.(LaneImm).LaneIdx, loc) {
			fv.sig(loc, ValV128, ValV128, ValF64)
		}

	// SIMD tests
	case OpV128AnyTrue, OpI8x16AllTrue, OpI8x16Bitmask, OpI16x8AllTrue, OpI16x8Bitmask,
		OpI32x4AllTrue, OpI32x4Bitmask, OpI64x2AllTrue, OpI64x2Bitmask:
		fv.sig(loc, ValI32, ValV128)

	// SIMD shifts
	case OpI8x16Shl, OpI8x16ShrS, OpI8x16ShrU, OpI16x8Shl, OpI16x8ShrS, OpI16x8ShrU,
		OpI32x4Shl, OpI32x4ShrS, OpI32x4ShrU, OpI64x2Shl, OpI64x2ShrS, OpI64x2ShrU:
		fv.sig(loc, ValV128, ValV128, ValI32)

	// SIMD ternary
	case OpV128BitSelect:
		fv.sig(loc, ValV128, ValV128, ValV128, ValV128)

	// SIMD unary
	case OpV128Not,
		OpI8x16Abs, OpI8x16Neg, OpI8x16Popcnt,
		OpI16x8Abs, OpI16x8Neg,
		OpI16x8ExtAddPairwiseI8x16S, OpI16x8ExtAddPairwiseI8x16U,
		OpI16x8ExtendLowI8x16S, OpI16x8ExtendHighI8x16S,
		OpI16x8ExtendLowI8x16U, OpI16x8ExtendHighI8x16U,
		OpI32x4Abs, OpI32x4Neg,
		OpI32x4ExtAddPairwiseI16x8S, OpI32x4ExtAddPairwiseI16x8U,
		OpI32x4ExtendLowI16x8S, OpI32x4ExtendHighI16x8S,
		OpI32x4ExtendLowI16x8U, OpI32x4ExtendHighI16x8U,
		OpI64x2Abs, OpI64x2Neg,
		OpI64x2ExtendLowI32x4S, OpI64x2ExtendHighI32x4S,
		OpI64x2ExtendLowI32x4U, OpI64x2ExtendHighI32x4U,
		OpF32x4Abs, OpF32x4Neg, OpF32x4Sqrt, OpF32x4Ceil, OpF32x4Floor,
		OpF32x4Trunc, OpF32x4Nearest,
		OpF64x2Abs, OpF64x2Neg, OpF64x2Sqrt, OpF64x2Ceil, OpF64x2Floor,
		OpF64x2Trunc, OpF64x2Nearest,
		OpI32x4TruncSatF32x4S, OpI32x4TruncSatF32x4U,
		OpF32x4ConvertI32x4S, OpF32x4ConvertI32x4U,
		OpI32x4TruncSatF64x2SZero, OpI32x4TruncSatF64x2UZero,
		OpF64x2ConvertLowI32x4S, OpF64x2ConvertLowI32x4U,
		OpF32x4DemoteF64x2Zero, OpF64x2PromoteLowF32x4:
		fv.sig(loc, ValV128, ValV128)

	// SIMD binary
	case OpI8x16Swizzle,
		OpV128And, OpV128AndNot, OpV128Or, OpV128Xor,
		OpI8x16Eq, OpI8x16Ne, OpI8x16LtS, OpI8x16LtU, OpI8x16GtS, OpI8x16GtU,
		OpI8x16LeS, OpI8x16LeU, OpI8x16GeS, OpI8x16GeU,
		OpI16x8Eq, OpI16x8Ne, OpI16x8LtS, OpI16x8LtU, OpI16x8GtS, OpI16x8GtU,
		OpI16x8LeS, OpI16x8LeU, OpI16x8GeS, OpI16x8GeU,
		OpI32x4Eq, OpI32x4Ne, OpI32x4LtS, OpI32x4LtU, OpI32x4GtS, OpI32x4GtU,
		OpI32x4LeS, OpI32x4LeU, OpI32x4GeS, OpI32x4GeU,
		OpI64x2Eq, OpI64x2Ne, OpI64x2LtS, OpI64x2GtS, OpI64x2LeS, OpI64x2GeS,
		OpF32x4Eq, OpF32x4Ne, OpF32x4Lt, OpF32x4Gt, OpF32x4Le, OpF32x4Ge,
		OpF64x2Eq, OpF64x2Ne, OpF64x2Lt, OpF64x2Gt, OpF64x2Le, OpF64x2Ge,
		OpI8x16NarrowI16x8S, OpI8x16NarrowI16x8U,
		OpI16x8NarrowI32x4S, OpI16x8NarrowI32x4U,
		OpI8x16Add, OpI8x16AddSatS, OpI8x16AddSatU,
		OpI8x16Sub, OpI8x16SubSatS, OpI8x16SubSatU,
		OpI8x16MinS, OpI8x16MinU, OpI8x16MaxS, OpI8x16MaxU, OpI8x16AvgrU,
		OpI16x8Add, OpI16x8AddSatS, OpI16x8AddSatU,
		OpI16x8Sub, OpI16x8SubSatS, OpI16x8SubSatU,
		OpI16x8Mul, OpI16x8MinS, OpI16x8MinU, OpI16x8MaxS, OpI16x8MaxU,
		OpI16x8AvgrU, OpI16x8Q15MulrSatS,
		OpI16x8ExtMulLowI8x16S, OpI16x8ExtMulHighI8x16S,
		OpI16x8ExtMulLowI8x16U, OpI16x8ExtMulHighI8x16U,
		OpI32x4Add, OpI32x4Sub, OpI32x4Mul,
		OpI32x4MinS, OpI32x4MinU, OpI32x4MaxS, OpI32x4MaxU, OpI32x4DotI16x8S,
		OpI32x4ExtMulLowI16x8S, OpI32x4ExtMulHighI16x8S,
		OpI32x4ExtMulLowI16x8U, OpI32x4ExtMulHighI16x8U,
		OpI64x2Add, OpI64x2Sub, OpI64x2Mul,
		OpI64x2ExtMulLowI32x4S, OpI64x2ExtMulHighI32x4S,
		OpI64x2ExtMulLowI32x4U, OpI64x2ExtMulHighI32x4U,
		OpF32x4Add, OpF32x4Sub, OpF32x4Mul, OpF32x4Div,
		OpF32x4Min, OpF32x4Max, OpF32x4PMin, OpF32x4PMax,
		OpF64x2Add, OpF64x2Sub, OpF64x2Mul, OpF64x2Div,
		OpF64x2Min, OpF64x2Max, OpF64x2PMin, OpF64x2PMax:
		fv.sig(loc, ValV128, ValV128, ValV128)

	// Atomic loads
	case OpI32AtomicLoad, OpI32AtomicLoad8U, OpI32AtomicLoad16U:
		fv.atomicAccess(op, instr, loc, nil, ValI32)
	case OpI64AtomicLoad, OpI64AtomicLoad8U, OpI64AtomicLoad16U, OpI64AtomicLoad32U:
		fv.atomicAccess(op, instr, loc, nil, ValI64)

	// Atomic stores
	case OpI32AtomicStore, OpI32AtomicStore8, OpI32AtomicStore16:
		fv.atomicAccess(op, instr, loc, []ValType{ValI32}, ValUnknown)
	case OpI64AtomicStore, OpI64AtomicStore8, OpI64AtomicStore16, OpI64AtomicStore32:
		fv.atomicAccess(op, instr, loc, []ValType{ValI64}, ValUnknown)

	// Atomic read-modify-write
	case OpI32AtomicRmwAdd, OpI32AtomicRmw8AddU, OpI32AtomicRmw16AddU,
		OpI32AtomicRmwSub, OpI32AtomicRmw8SubU, OpI32AtomicRmw16SubU,
		OpI32AtomicRmwAnd, OpI32AtomicRmw8AndU, OpI32AtomicRmw16AndU,
		OpI32AtomicRmwOr, OpI32AtomicRmw8OrU, OpI32AtomicRmw16OrU,
		OpI32AtomicRmwXor, OpI32AtomicRmw8XorU, OpI32AtomicRmw16XorU,
		OpI32AtomicRmwXchg, OpI32AtomicRmw8XchgU, OpI32AtomicRmw16XchgU:
		fv.atomicAccess(op, instr, loc, []ValType{ValI32}, ValI32)
	case OpI64AtomicRmwAdd, OpI64AtomicRmw8AddU, OpI64AtomicRmw16AddU, OpI64AtomicRmw32AddU,
		OpI64AtomicRmwSub, OpI64AtomicRmw8SubU, OpI64AtomicRmw16SubU, OpI64AtomicRmw32SubU,
		OpI64AtomicRmwAnd, OpI64AtomicRmw8AndU, OpI64AtomicRmw16AndU, OpI64AtomicRmw32AndU,
		OpI64AtomicRmwOr, OpI64AtomicRmw8OrU, OpI64AtomicRmw16OrU, OpI64AtomicRmw32OrU,
		OpI64AtomicRmwXor, OpI64AtomicRmw8XorU, OpI64AtomicRmw16XorU, OpI64AtomicRmw32XorU,
		OpI64AtomicRmwXchg, OpI64AtomicRmw8XchgU, OpI64AtomicRmw16XchgU, OpI64AtomicRmw32XchgU:
		fv.atomicAccess(op, instr, loc, []ValType{ValI64}, ValI64)

	// Atomic compare-exchange
	case OpI32AtomicRmwCmpxchg, OpI32AtomicRmw8CmpxchgU, OpI32AtomicRmw16CmpxchgU:
		fv.atomicAccess(op, instr, loc, []ValType{ValI32, ValI32}, ValI32)
	case OpI64AtomicRmwCmpxchg, OpI64AtomicRmw8CmpxchgU, OpI64AtomicRmw16CmpxchgU,
		OpI64AtomicRmw32CmpxchgU:
		fv.atomicAccess(op, instr, loc, []ValType{ValI64, ValI64}, ValI64)

	default:
		fv.errorf(errors.KindUnknownOpcode, loc, "no typing rule for %s", op)
	}
}
