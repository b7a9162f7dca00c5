package wasm

import (
	"github.com/wippyai/wasm-tools/errors"
	"github.com/wippyai/wasm-tools/wasm/internal/binary"
)

// Instruction represents a decoded WebAssembly instruction: an opcode
// plus a tagged immediate. The immediate's concrete type is determined
// by the opcode's ImmKind.
type Instruction struct {
	Imm    any
	Opcode Opcode
	Loc    Location
}

// BlockImm holds the block type for block, loop, if, and try.
type BlockImm struct {
	Type BlockType
}

// BranchImm holds the label index for br and br_if.
type BranchImm struct {
	LabelIdx uint32
}

// BrTableImm holds the label table for br_table.
type BrTableImm struct {
	Labels  []uint32
	Default uint32
}

// BrOnExnImm holds the label and event indices for br_on_exn.
type BrOnExnImm struct {
	LabelIdx uint32
	EventIdx uint32
}

// CallImm holds the function index for call, return_call, and ref.func.
type CallImm struct {
	FuncIdx uint32
}

// CallIndirectImm holds type and table indices for call_indirect and
// return_call_indirect.
type CallIndirectImm struct {
	TypeIdx  uint32
	TableIdx uint32
}

// LocalImm holds the local index for local.get, local.set, local.tee.
type LocalImm struct {
	LocalIdx uint32
}

// GlobalImm holds the global index for global.get and global.set.
type GlobalImm struct {
	GlobalIdx uint32
}

// TableImm holds the table index for table.get/set/grow/size/fill.
type TableImm struct {
	TableIdx uint32
}

// EventImm holds the event index for throw.
type EventImm struct {
	EventIdx uint32
}

// MemoryImm holds memory access parameters for loads and stores.
// Align is the log2 alignment exponent from the wire.
type MemoryImm struct {
	Offset uint64
	Align  uint32
}

// MemIdxImm holds the reserved memory index byte for memory.size and
// memory.grow.
type MemIdxImm struct {
	MemIdx uint32
}

// I32Imm holds the constant value for i32.const.
type I32Imm struct {
	Value int32
}

// I64Imm holds the constant value for i64.const.
type I64Imm struct {
	Value int64
}

// F32Imm holds the constant value for f32.const.
type F32Imm struct {
	Value float32
}

// F64Imm holds the constant value for f64.const.
type F64Imm struct {
	Value float64
}

// V128Imm holds the 16-byte constant for v128.const. Bytes aliases the
// input buffer.
type V128Imm struct {
	Bytes []byte
}

// ShuffleImm holds the 16-byte lane mask for i8x16.shuffle. Lanes
// aliases the input buffer.
type ShuffleImm struct {
	Lanes []byte
}

// LaneImm holds the lane index for SIMD extract/replace lane.
type LaneImm struct {
	LaneIdx byte
}

// MemArgLaneImm holds memarg plus lane index for SIMD lane loads and
// stores.
type MemArgLaneImm struct {
	MemArg  MemoryImm
	LaneIdx byte
}

// SelectTypeImm holds the value types of a typed select.
type SelectTypeImm struct {
	Types []ValType
}

// RefNullImm holds the reference type produced by ref.null.
type RefNullImm struct {
	Type ValType
}

// InitImm holds the segment and destination indices for memory.init and
// table.init.
type InitImm struct {
	SegIdx uint32
	DstIdx uint32
}

// SegIdxImm holds the segment index for data.drop and elem.drop.
type SegIdxImm struct {
	SegIdx uint32
}

// CopyImm holds destination and source indices for memory.copy and
// table.copy.
type CopyImm struct {
	DstIdx uint32
	SrcIdx uint32
}

// GetCallTarget returns the call target if this is a call instruction
func (i Instruction) GetCallTarget() (uint32, bool) {
	if i.Opcode == OpCall || i.Opcode == OpReturnCall {
		if imm, ok := i.Imm.(CallImm); ok {
			return imm.FuncIdx, true
		}
	}
	return 0, false
}

// ReadInstruction decodes one instruction from the reader. The feature
// set only selects wire widths (memory64 offsets); gated opcodes are
// decoded regardless so the validator can report feature use.
func ReadInstruction(r *binary.Reader, features Features) (Instruction, error) {
	start := r.Position()

	b, err := r.ReadByte()
	if err != nil {
		return Instruction{}, err
	}

	op := Opcode(b)
	switch b {
	case OpPrefixMisc, OpPrefixSIMD, OpPrefixAtomic:
		sub, err := r.ReadU32()
		if err != nil {
			return Instruction{}, err
		}
		if sub > 0xFF {
			// The Opcode encoding keeps the sub-opcode in the low byte.
			return Instruction{}, errors.New(errors.KindUnknownOpcode, start,
				"unknown opcode 0x%02x 0x%x", b, sub)
		}
		op = Prefixed(b, sub)
	}

	if !op.Known() {
		return Instruction{}, errors.New(errors.KindUnknownOpcode, start,
			"unknown opcode %s", op.Name())
	}

	instr := Instruction{Opcode: op}
	if instr.Imm, err = readImmediate(r, op, features); err != nil {
		return Instruction{}, err
	}
	instr.Loc = Location{Begin: start, End: r.Position()}
	return instr, nil
}

func readImmediate(r *binary.Reader, op Opcode, features Features) (any, error) {
	switch op.ImmKind() {
	case ImmNone:
		return nil, nil

	case ImmBlockType:
		bt, err := r.ReadS33()
		if err != nil {
			return nil, err
		}
		return BlockImm{Type: BlockType(bt)}, nil

	case ImmLabel:
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return BranchImm{LabelIdx: idx}, nil

	case ImmBrTable:
		count, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		if int(count) > r.Len() {
			return nil, errors.New(errors.KindTruncatedInput, r.Position(),
				"br_table target count %d exceeds remaining bytes", count)
		}
		labels := make([]uint32, count)
		for i := range labels {
			if labels[i], err = r.ReadU32(); err != nil {
				return nil, err
			}
		}
		def, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return BrTableImm{Labels: labels, Default: def}, nil

	case ImmBrOnExn:
		label, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		event, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return BrOnExnImm{LabelIdx: label, EventIdx: event}, nil

	case ImmFuncIdx:
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return CallImm{FuncIdx: idx}, nil

	case ImmCallIndirect:
		typeIdx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		tableIdx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return CallIndirectImm{TypeIdx: typeIdx, TableIdx: tableIdx}, nil

	case ImmLocalIdx:
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return LocalImm{LocalIdx: idx}, nil

	case ImmGlobalIdx:
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return GlobalImm{GlobalIdx: idx}, nil

	case ImmTableIdx:
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return TableImm{TableIdx: idx}, nil

	case ImmEventIdx:
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return EventImm{EventIdx: idx}, nil

	case ImmMemIdx, ImmMemFill, ImmFence:
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return MemIdxImm{MemIdx: idx}, nil

	case ImmMemArg:
		return readMemArg(r, features)

	case ImmMemArgLane:
		memArg, err := readMemArg(r, features)
		if err != nil {
			return nil, err
		}
		lane, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return MemArgLaneImm{MemArg: memArg, LaneIdx: lane}, nil

	case ImmLane:
		lane, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return LaneImm{LaneIdx: lane}, nil

	case ImmI32:
		v, err := r.ReadS32()
		if err != nil {
			return nil, err
		}
		return I32Imm{Value: v}, nil

	case ImmI64:
		v, err := r.ReadS64()
		if err != nil {
			return nil, err
		}
		return I64Imm{Value: v}, nil

	case ImmF32:
		v, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		return F32Imm{Value: v}, nil

	case ImmF64:
		v, err := r.ReadF64()
		if err != nil {
			return nil, err
		}
		return F64Imm{Value: v}, nil

	case ImmV128:
		b, err := r.ReadV128()
		if err != nil {
			return nil, err
		}
		return V128Imm{Bytes: b}, nil

	case ImmShuffle:
		b, err := r.ReadV128()
		if err != nil {
			return nil, err
		}
		return ShuffleImm{Lanes: b}, nil

	case ImmSelectT:
		count, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		if int(count) > r.Len() {
			return nil, errors.New(errors.KindTruncatedInput, r.Position(),
				"select type count %d exceeds remaining bytes", count)
		}
		types := make([]ValType, count)
		for i := range types {
			t, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			types[i] = ValType(t)
		}
		return SelectTypeImm{Types: types}, nil

	case ImmRefType:
		t, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return RefNullImm{Type: ValType(t)}, nil

	case ImmDataInit, ImmElemInit:
		segIdx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		dstIdx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return InitImm{SegIdx: segIdx, DstIdx: dstIdx}, nil

	case ImmDataIdx, ImmElemIdx:
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return SegIdxImm{SegIdx: idx}, nil

	case ImmMemCopy, ImmTableCopy:
		dst, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		src, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return CopyImm{DstIdx: dst, SrcIdx: src}, nil
	}

	return nil, errors.New(errors.KindUnknownOpcode, r.Position(),
		"no immediate reader for %s", op.Name())
}

// readMemArg reads an (align log2, offset) pair. With memory64 the
// offset may need 64 bits on the wire.
func readMemArg(r *binary.Reader, features Features) (MemoryImm, error) {
	align, err := r.ReadU32()
	if err != nil {
		return MemoryImm{}, err
	}
	var offset uint64
	if features.Has(FeatureMemory64) {
		offset, err = r.ReadU64()
	} else {
		var off32 uint32
		off32, err = r.ReadU32()
		offset = uint64(off32)
	}
	if err != nil {
		return MemoryImm{}, err
	}
	return MemoryImm{Align: align, Offset: offset}, nil
}

// ExprReader iterates the instructions of an expression, stopping after
// the end opcode that closes the outermost block.
type ExprReader struct {
	r     *binary.Reader
	depth int
	done  bool
}

// NewExprReader returns a reader over code, reporting locations relative
// to base (the absolute offset of code[0] in the original input).
func NewExprReader(code []byte, base uint32) *ExprReader {
	return &ExprReader{r: binary.NewReaderAt(code, base)}
}

// Next decodes the next instruction. It returns ok=false once the
// expression's final end was consumed or the input is exhausted.
func (e *ExprReader) Next(features Features) (Instruction, bool, error) {
	if e.done || e.r.Len() == 0 {
		return Instruction{}, false, nil
	}
	instr, err := ReadInstruction(e.r, features)
	if err != nil {
		e.done = true
		return Instruction{}, false, err
	}
	switch instr.Opcode {
	case OpBlock, OpLoop, OpIf, OpTry:
		e.depth++
	case OpEnd:
		if e.depth == 0 {
			e.done = true
		} else {
			e.depth--
		}
	}
	return instr, true, nil
}

// Position returns the current absolute offset.
func (e *ExprReader) Position() uint32 {
	return e.r.Position()
}

// DecodeInstructions decodes a full instruction sequence from raw
// expression bytes, including the terminating end.
func DecodeInstructions(code []byte, features Features) ([]Instruction, error) {
	er := NewExprReader(code, 0)
	instrs := make([]Instruction, 0, len(code)/2)
	for {
		instr, ok, err := er.Next(features)
		if err != nil {
			return nil, err
		}
		if !ok {
			return instrs, nil
		}
		instrs = append(instrs, instr)
	}
}
