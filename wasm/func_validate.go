package wasm

import (
	"github.com/wippyai/wasm-tools/errors"
)

// ValUnknown is the stack-polymorphic placeholder type: after an
// unreachable instruction the value stack supplies it on demand until
// the enclosing control frame ends.
const ValUnknown ValType = 0

// ctrlFrame is one entry of the label stack. Height is the value-stack
// height at frame entry; Unreachable marks the rest of the frame as
// stack-polymorphic.
type ctrlFrame struct {
	op          Opcode
	startTypes  []ValType
	endTypes    []ValType
	height      int
	unreachable bool
}

// labelTypes returns the types a branch to this frame must supply:
// start types for loops, end types otherwise.
func (f *ctrlFrame) labelTypes() []ValType {
	if f.op == OpLoop {
		return f.startTypes
	}
	return f.endTypes
}

// funcValidator type checks one function body against its declared
// signature. It maintains the polymorphic value stack and the control
// frame stack of spec-defined validation.
type funcValidator struct {
	mv     *moduleValidator
	locals []ValType
	stack  []ValType
	ctrl   []ctrlFrame
	failed bool
}

// validateFuncBody type checks one function body. Diagnostics go to the
// module validator's sink; a body is abandoned after its first type
// error but other bodies are still checked.
func validateFuncBody(mv *moduleValidator, funcIdx uint32, ft *FuncType, body *FuncBody) {
	mv.sink.PushContext("func")
	defer mv.sink.PopContext()

	fv := &funcValidator{mv: mv}
	fv.locals = append(fv.locals, ft.Params...)
	for _, group := range body.Locals {
		mv.checkValType(group.ValType, body.Loc)
		for i := uint32(0); i < group.Count; i++ {
			fv.locals = append(fv.locals, group.ValType)
		}
	}

	// The function body is the outermost control frame.
	fv.pushCtrl(OpBlock, nil, ft.Results)

	er := NewExprReader(body.Code, body.Loc.Begin)
	for {
		instr, ok, err := er.Next(mv.features)
		if err != nil {
			mv.sink.AppendErr(err, body.Loc.Begin)
			return
		}
		if !ok {
			break
		}
		fv.validateInstr(instr)
		if fv.failed {
			return
		}
	}

	if len(fv.ctrl) != 0 {
		fv.errorf(errors.KindUnbalancedCtl, body.Loc,
			"function body ends with %d unclosed blocks", len(fv.ctrl))
		return
	}
	// The final end pushed the outer frame's results; the stack must now
	// hold exactly the declared result types.
	if !fv.failed && !typesEqual(fv.stack, ft.Results) {
		fv.errorf(errors.KindTypeMismatch, body.Loc,
			"function body leaves %d values, result type is %s", len(fv.stack), ft)
	}
}

func (fv *funcValidator) errorf(kind errors.Kind, loc Location, format string, args ...any) {
	fv.mv.sink.ErrorfRange(kind, loc.Begin, loc.End, format, args...)
	fv.failed = true
}

func (fv *funcValidator) pushType(t ValType) {
	fv.stack = append(fv.stack, t)
}

func (fv *funcValidator) pushTypes(types []ValType) {
	fv.stack = append(fv.stack, types...)
}

// popType pops a value, checking it against expected. ValUnknown as
// expected accepts anything. Inside unreachable code the frame's base
// height supplies ValUnknown on demand.
func (fv *funcValidator) popType(expected ValType, loc Location) ValType {
	if len(fv.ctrl) == 0 {
		fv.errorf(errors.KindStackUnderflow, loc, "value expected outside any control frame")
		return ValUnknown
	}
	frame := &fv.ctrl[len(fv.ctrl)-1]
	if len(fv.stack) == frame.height {
		if frame.unreachable {
			return ValUnknown
		}
		fv.errorf(errors.KindStackUnderflow, loc, "expected %s but the stack is empty", expected)
		return ValUnknown
	}
	top := fv.stack[len(fv.stack)-1]
	fv.stack = fv.stack[:len(fv.stack)-1]
	if top == ValUnknown || expected == ValUnknown {
		return top
	}
	if top != expected {
		fv.errorf(errors.KindTypeMismatch, loc, "expected %s, got %s", expected, top)
	}
	return top
}

// popTypes pops the sequence in reverse.
func (fv *funcValidator) popTypes(types []ValType, loc Location) {
	for i := len(types) - 1; i >= 0; i-- {
		fv.popType(types[i], loc)
		if fv.failed {
			return
		}
	}
}

func (fv *funcValidator) pushCtrl(op Opcode, start, end []ValType) {
	fv.ctrl = append(fv.ctrl, ctrlFrame{
		op:         op,
		startTypes: start,
		endTypes:   end,
		height:     len(fv.stack),
	})
	fv.pushTypes(start)
}

func (fv *funcValidator) popCtrl(loc Location) (ctrlFrame, bool) {
	if len(fv.ctrl) == 0 {
		fv.errorf(errors.KindUnbalancedCtl, loc, "end with no open block")
		return ctrlFrame{}, false
	}
	frame := fv.ctrl[len(fv.ctrl)-1]
	fv.popTypes(frame.endTypes, loc)
	if fv.failed {
		return ctrlFrame{}, false
	}
	if len(fv.stack) != frame.height {
		fv.errorf(errors.KindTypeMismatch, loc,
			"%d extra values on the stack at block end", len(fv.stack)-frame.height)
		return ctrlFrame{}, false
	}
	fv.ctrl = fv.ctrl[:len(fv.ctrl)-1]
	return frame, true
}

// setUnreachable truncates the value stack to the frame's base height
// and marks the rest of the frame stack-polymorphic.
func (fv *funcValidator) setUnreachable() {
	frame := &fv.ctrl[len(fv.ctrl)-1]
	fv.stack = fv.stack[:frame.height]
	frame.unreachable = true
}

func (fv *funcValidator) frameAt(depth uint32, loc Location) *ctrlFrame {
	if int(depth) >= len(fv.ctrl) {
		fv.errorf(errors.KindIndexOutOfBounds, loc,
			"branch depth %d exceeds %d open blocks", depth, len(fv.ctrl))
		return nil
	}
	return &fv.ctrl[len(fv.ctrl)-1-int(depth)]
}

// blockSig resolves a block type to its parameter and result types.
func (fv *funcValidator) blockSig(bt BlockType, loc Location) ([]ValType, []ValType) {
	if bt.IsIndex() {
		if !fv.mv.features.Has(FeatureMultiValue) {
			fv.errorf(errors.KindFeatureDisabled, loc,
				"block type indices require the multi-value feature")
			return nil, nil
		}
		ft := fv.mv.funcType(uint32(bt))
		if ft == nil {
			fv.errorf(errors.KindIndexOutOfBounds, loc, "block type index %d out of range", uint32(bt))
			return nil, nil
		}
		return ft.Params, ft.Results
	}
	if int64(bt) == BlockTypeVoid {
		return nil, nil
	}
	t, ok := bt.ValType()
	if !ok {
		fv.errorf(errors.KindUnknownValueType, loc, "invalid block type %d", int64(bt))
		return nil, nil
	}
	fv.mv.checkValType(t, loc)
	return nil, []ValType{t}
}

// memIdxType returns the index operand type of memory accesses: i64
// for a 64-bit memory, i32 otherwise. A missing memory is diagnosed.
func (fv *funcValidator) memIdxType(loc Location) ValType {
	if len(fv.mv.memories) == 0 {
		fv.errorf(errors.KindIndexOutOfBounds, loc, "memory instruction with no memory declared")
		return ValI32
	}
	if fv.mv.memories[0].Limits.Memory64 {
		return ValI64
	}
	return ValI32
}

func (fv *funcValidator) checkAlign(op Opcode, imm MemoryImm, loc Location, exact bool) {
	natural := op.NaturalAlignLog2()
	if exact {
		if imm.Align != natural {
			fv.errorf(errors.KindInvalidAlignment, loc,
				"%s requires alignment %d, got %d", op, natural, imm.Align)
		}
		return
	}
	if imm.Align > natural {
		fv.errorf(errors.KindInvalidAlignment, loc,
			"%s alignment %d exceeds natural alignment %d", op, imm.Align, natural)
	}
}

func (fv *funcValidator) validateInstr(instr Instruction) {
	op := instr.Opcode
	loc := instr.Loc
	fv.mv.checkOpcodeFeature(op, loc)

	switch op {
	case OpUnreachable:
		fv.setUnreachable()
	case OpNop:

	case OpBlock, OpLoop:
		params, results := fv.blockSig(instr.Imm.(BlockImm).Type, loc)
		fv.popTypes(params, loc)
		fv.pushCtrl(op, params, results)

	case OpIf:
		params, results := fv.blockSig(instr.Imm.(BlockImm).Type, loc)
		fv.popType(ValI32, loc)
		fv.popTypes(params, loc)
		fv.pushCtrl(op, params, results)

	case OpElse:
		frame, ok := fv.popCtrl(loc)
		if !ok {
			return
		}
		if frame.op != OpIf {
			fv.errorf(errors.KindUnbalancedCtl, loc, "else outside if")
			return
		}
		fv.pushCtrl(OpElse, frame.startTypes, frame.endTypes)

	case OpTry:
		params, results := fv.blockSig(instr.Imm.(BlockImm).Type, loc)
		fv.popTypes(params, loc)
		fv.pushCtrl(op, params, results)

	case OpCatch:
		frame, ok := fv.popCtrl(loc)
		if !ok {
			return
		}
		if frame.op != OpTry {
			fv.errorf(errors.KindUnbalancedCtl, loc, "catch outside try")
			return
		}
		fv.pushCtrl(OpCatch, nil, frame.endTypes)
		fv.pushType(ValExnRef)

	case OpThrow:
		imm := instr.Imm.(EventImm)
		if ev := fv.eventAt(imm.EventIdx, loc); ev != nil {
			if ft := fv.mv.funcType(ev.TypeIdx); ft != nil {
				fv.popTypes(ft.Params, loc)
			}
		}
		fv.setUnreachable()

	case OpRethrow:
		fv.popType(ValExnRef, loc)
		fv.setUnreachable()

	case OpBrOnExn:
		imm := instr.Imm.(BrOnExnImm)
		fv.popType(ValExnRef, loc)
		frame := fv.frameAt(imm.LabelIdx, loc)
		ev := fv.eventAt(imm.EventIdx, loc)
		if frame != nil && ev != nil {
			if ft := fv.mv.funcType(ev.TypeIdx); ft != nil {
				lt := frame.labelTypes()
				if len(lt) != len(ft.Params) {
					fv.errorf(errors.KindTypeMismatch, loc,
						"br_on_exn label expects %d values, event carries %d", len(lt), len(ft.Params))
				} else {
					for i := range lt {
						if lt[i] != ft.Params[i] {
							fv.errorf(errors.KindTypeMismatch, loc,
								"br_on_exn label type %s does not match event payload %s", lt[i], ft.Params[i])
							break
						}
					}
				}
			}
		}
		fv.pushType(ValExnRef)

	case OpEnd:
		frame, ok := fv.popCtrl(loc)
		if !ok {
			return
		}
		if frame.op == OpIf && !typesEqual(frame.startTypes, frame.endTypes) {
			fv.errorf(errors.KindTypeMismatch, loc,
				"if without else must have matching parameter and result types")
			return
		}
		fv.pushTypes(frame.endTypes)

	case OpBr:
		imm := instr.Imm.(BranchImm)
		if frame := fv.frameAt(imm.LabelIdx, loc); frame != nil {
			fv.popTypes(frame.labelTypes(), loc)
		}
		fv.setUnreachable()

	case OpBrIf:
		imm := instr.Imm.(BranchImm)
		fv.popType(ValI32, loc)
		if frame := fv.frameAt(imm.LabelIdx, loc); frame != nil {
			lt := frame.labelTypes()
			fv.popTypes(lt, loc)
			fv.pushTypes(lt)
		}

	case OpBrTable:
		imm := instr.Imm.(BrTableImm)
		fv.popType(ValI32, loc)
		def := fv.frameAt(imm.Default, loc)
		if def == nil {
			fv.setUnreachable()
			return
		}
		defTypes := def.labelTypes()
		for _, label := range imm.Labels {
			frame := fv.frameAt(label, loc)
			if frame == nil {
				return
			}
			lt := frame.labelTypes()
			if len(lt) != len(defTypes) {
				fv.errorf(errors.KindTypeMismatch, loc,
					"br_table target %d expects %d values, default expects %d",
					label, len(lt), len(defTypes))
				return
			}
			fv.popTypes(lt, loc)
			if fv.failed {
				return
			}
			fv.pushTypes(lt)
		}
		fv.popTypes(defTypes, loc)
		fv.setUnreachable()

	case OpReturn:
		fv.popTypes(fv.ctrl[0].endTypes, loc)
		fv.setUnreachable()

	case OpCall:
		imm := instr.Imm.(CallImm)
		if ft := fv.calleeType(imm.FuncIdx, loc); ft != nil {
			fv.popTypes(ft.Params, loc)
			fv.pushTypes(ft.Results)
		}

	case OpCallIndirect:
		imm := instr.Imm.(CallIndirectImm)
		fv.checkCallIndirectTable(imm.TableIdx, loc)
		fv.popType(ValI32, loc)
		if ft := fv.mv.funcType(imm.TypeIdx); ft != nil {
			fv.popTypes(ft.Params, loc)
			fv.pushTypes(ft.Results)
		} else {
			fv.errorf(errors.KindIndexOutOfBounds, loc,
				"call_indirect type index %d out of range", imm.TypeIdx)
		}

	case OpReturnCall:
		imm := instr.Imm.(CallImm)
		if ft := fv.calleeType(imm.FuncIdx, loc); ft != nil {
			fv.popTypes(ft.Params, loc)
			fv.checkTailResults(ft.Results, loc)
		}
		fv.setUnreachable()

	case OpReturnCallIndirect:
		imm := instr.Imm.(CallIndirectImm)
		fv.checkCallIndirectTable(imm.TableIdx, loc)
		fv.popType(ValI32, loc)
		if ft := fv.mv.funcType(imm.TypeIdx); ft != nil {
			fv.popTypes(ft.Params, loc)
			fv.checkTailResults(ft.Results, loc)
		} else {
			fv.errorf(errors.KindIndexOutOfBounds, loc,
				"return_call_indirect type index %d out of range", imm.TypeIdx)
		}
		fv.setUnreachable()

	case OpDrop:
		fv.popType(ValUnknown, loc)

	case OpSelect:
		fv.popType(ValI32, loc)
		t1 := fv.popType(ValUnknown, loc)
		t2 := fv.popType(ValUnknown, loc)
		if fv.failed {
			return
		}
		result := t1
		if t1 == ValUnknown {
			result = t2
		} else if t2 != ValUnknown && t1 != t2 {
			fv.errorf(errors.KindTypeMismatch, loc, "select operands differ: %s vs %s", t1, t2)
			return
		}
		if result != ValUnknown && !result.IsNum() && result != ValV128 {
			fv.errorf(errors.KindTypeMismatch, loc,
				"untyped select requires a numeric or vector type, got %s", result)
			return
		}
		fv.pushType(result)

	case OpSelectType:
		imm := instr.Imm.(SelectTypeImm)
		if len(imm.Types) != 1 {
			fv.errorf(errors.KindTypeMismatch, loc,
				"typed select must name exactly one type, got %d", len(imm.Types))
			return
		}
		t := imm.Types[0]
		fv.mv.checkValType(t, loc)
		fv.popType(ValI32, loc)
		fv.popType(t, loc)
		fv.popType(t, loc)
		fv.pushType(t)

	case OpLocalGet:
		imm := instr.Imm.(LocalImm)
		if t := fv.localType(imm.LocalIdx, loc); t != ValUnknown {
			fv.pushType(t)
		}
	case OpLocalSet:
		imm := instr.Imm.(LocalImm)
		fv.popType(fv.localType(imm.LocalIdx, loc), loc)
	case OpLocalTee:
		imm := instr.Imm.(LocalImm)
		t := fv.localType(imm.LocalIdx, loc)
		fv.popType(t, loc)
		fv.pushType(t)

	case OpGlobalGet:
		imm := instr.Imm.(GlobalImm)
		if g := fv.globalAt(imm.GlobalIdx, loc); g != nil {
			fv.pushType(g.typ.ValType)
		}
	case OpGlobalSet:
		imm := instr.Imm.(GlobalImm)
		if g := fv.globalAt(imm.GlobalIdx, loc); g != nil {
			if !g.typ.Mutable {
				fv.errorf(errors.KindTypeMismatch, loc, "global %d is immutable", imm.GlobalIdx)
				return
			}
			fv.popType(g.typ.ValType, loc)
		}

	case OpTableGet:
		imm := instr.Imm.(TableImm)
		if t := fv.tableAt(imm.TableIdx, loc); t != nil {
			fv.popType(ValI32, loc)
			fv.pushType(t.ElemType)
		}
	case OpTableSet:
		imm := instr.Imm.(TableImm)
		if t := fv.tableAt(imm.TableIdx, loc); t != nil {
			fv.popType(t.ElemType, loc)
			fv.popType(ValI32, loc)
		}
	case OpTableGrow:
		imm := instr.Imm.(TableImm)
		if t := fv.tableAt(imm.TableIdx, loc); t != nil {
			fv.popType(ValI32, loc)
			fv.popType(t.ElemType, loc)
			fv.pushType(ValI32)
		}
	case OpTableSize:
		imm := instr.Imm.(TableImm)
		if fv.tableAt(imm.TableIdx, loc) != nil {
			fv.pushType(ValI32)
		}
	case OpTableFill:
		imm := instr.Imm.(TableImm)
		if t := fv.tableAt(imm.TableIdx, loc); t != nil {
			fv.popType(ValI32, loc)
			fv.popType(t.ElemType, loc)
			fv.popType(ValI32, loc)
		}
	case OpTableInit:
		imm := instr.Imm.(InitImm)
		t := fv.tableAt(imm.DstIdx, loc)
		if int(imm.SegIdx) >= len(fv.mv.m.Elements) {
			fv.errorf(errors.KindIndexOutOfBounds, loc,
				"table.init element segment %d out of range", imm.SegIdx)
			return
		}
		if t != nil {
			seg := &fv.mv.m.Elements[imm.SegIdx]
			if seg.Type != t.ElemType {
				fv.errorf(errors.KindTypeMismatch, loc,
					"table.init segment type %s does not match table type %s", seg.Type, t.ElemType)
			}
		}
		fv.popType(ValI32, loc)
		fv.popType(ValI32, loc)
		fv.popType(ValI32, loc)
	case OpElemDrop:
		imm := instr.Imm.(SegIdxImm)
		if int(imm.SegIdx) >= len(fv.mv.m.Elements) {
			fv.errorf(errors.KindIndexOutOfBounds, loc,
				"elem.drop segment %d out of range", imm.SegIdx)
		}
	case OpTableCopy:
		imm := instr.Imm.(CopyImm)
		dst := fv.tableAt(imm.DstIdx, loc)
		src := fv.tableAt(imm.SrcIdx, loc)
		if dst != nil && src != nil && dst.ElemType != src.ElemType {
			fv.errorf(errors.KindTypeMismatch, loc,
				"table.copy between %s and %s tables", dst.ElemType, src.ElemType)
		}
		fv.popType(ValI32, loc)
		fv.popType(ValI32, loc)
		fv.popType(ValI32, loc)

	case OpRefNull:
		imm := instr.Imm.(RefNullImm)
		if !imm.Type.IsRef() {
			fv.errorf(errors.KindUnknownValueType, loc,
				"ref.null requires a reference type, got %s", imm.Type)
			return
		}
		fv.pushType(imm.Type)
	case OpRefIsNull:
		t := fv.popType(ValUnknown, loc)
		if t != ValUnknown && !t.IsRef() {
			fv.errorf(errors.KindTypeMismatch, loc, "ref.is_null requires a reference, got %s", t)
			return
		}
		fv.pushType(ValI32)
	case OpRefFunc:
		imm := instr.Imm.(CallImm)
		if int(imm.FuncIdx) >= len(fv.mv.funcs) {
			fv.errorf(errors.KindIndexOutOfBounds, loc,
				"ref.func function index %d out of range", imm.FuncIdx)
			return
		}
		fv.pushType(ValFuncRef)

	case OpI32Const:
		fv.pushType(ValI32)
	case OpI64Const:
		fv.pushType(ValI64)
	case OpF32Const:
		fv.pushType(ValF32)
	case OpF64Const:
		fv.pushType(ValF64)
	case OpV128Const:
		fv.pushType(ValV128)

	case OpI8x16Shuffle:
		imm := instr.Imm.(ShuffleImm)
		for _, lane := range imm.Lanes {
			if lane >= 32 {
				fv.errorf(errors.KindIndexOutOfBounds, loc, "shuffle lane %d out of range", lane)
				return
			}
		}
		fv.popType(ValV128, loc)
		fv.popType(ValV128, loc)
		fv.pushType(ValV128)

	case OpMemorySize:
		t := fv.memIdxType(loc)
		fv.pushType(t)
	case OpMemoryGrow:
		t := fv.memIdxType(loc)
		fv.popType(t, loc)
		fv.pushType(t)

	case OpMemoryInit:
		imm := instr.Imm.(InitImm)
		fv.checkDataIdx(imm.SegIdx, loc)
		t := fv.memIdxType(loc)
		fv.popType(ValI32, loc)
		fv.popType(ValI32, loc)
		fv.popType(t, loc)
	case OpDataDrop:
		imm := instr.Imm.(SegIdxImm)
		fv.checkDataIdx(imm.SegIdx, loc)
	case OpMemoryCopy:
		t := fv.memIdxType(loc)
		fv.popType(t, loc)
		fv.popType(t, loc)
		fv.popType(t, loc)
	case OpMemoryFill:
		t := fv.memIdxType(loc)
		fv.popType(t, loc)
		fv.popType(ValI32, loc)
		fv.popType(t, loc)

	case OpAtomicFence:

	case OpMemoryAtomicNotify:
		fv.atomicAccess(op, instr, loc, []ValType{ValI32}, ValI32)
	case OpMemoryAtomicWait32:
		fv.atomicAccess(op, instr, loc, []ValType{ValI32, ValI64}, ValI32)
	case OpMemoryAtomicWait64:
		fv.atomicAccess(op, instr, loc, []ValType{ValI64, ValI64}, ValI32)

	default:
		fv.validateRegularInstr(instr)
	}
}

// typesEqual reports element-wise equality.
func typesEqual(a, b []ValType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (fv *funcValidator) localType(idx uint32, loc Location) ValType {
	if int(idx) >= len(fv.locals) {
		fv.errorf(errors.KindIndexOutOfBounds, loc,
			"local index %d exceeds %d locals", idx, len(fv.locals))
		return ValUnknown
	}
	return fv.locals[idx]
}

func (fv *funcValidator) globalAt(idx uint32, loc Location) *globalInfo {
	if int(idx) >= len(fv.mv.globals) {
		fv.errorf(errors.KindIndexOutOfBounds, loc,
			"global index %d exceeds %d globals", idx, len(fv.mv.globals))
		return nil
	}
	return &fv.mv.globals[idx]
}

func (fv *funcValidator) tableAt(idx uint32, loc Location) *TableType {
	if int(idx) >= len(fv.mv.tables) {
		fv.errorf(errors.KindIndexOutOfBounds, loc,
			"table index %d exceeds %d tables", idx, len(fv.mv.tables))
		return nil
	}
	return &fv.mv.tables[idx]
}

func (fv *funcValidator) eventAt(idx uint32, loc Location) *EventType {
	if int(idx) >= len(fv.mv.events) {
		fv.errorf(errors.KindIndexOutOfBounds, loc,
			"event index %d exceeds %d events", idx, len(fv.mv.events))
		return nil
	}
	return &fv.mv.events[idx]
}

func (fv *funcValidator) calleeType(funcIdx uint32, loc Location) *FuncType {
	if int(funcIdx) >= len(fv.mv.funcs) {
		fv.errorf(errors.KindIndexOutOfBounds, loc,
			"function index %d exceeds %d functions", funcIdx, len(fv.mv.funcs))
		return nil
	}
	ft := fv.mv.funcType(fv.mv.funcs[funcIdx])
	if ft == nil {
		fv.errorf(errors.KindIndexOutOfBounds, loc,
			"function %d references invalid type index %d", funcIdx, fv.mv.funcs[funcIdx])
	}
	return ft
}

func (fv *funcValidator) checkCallIndirectTable(tableIdx uint32, loc Location) {
	t := fv.tableAt(tableIdx, loc)
	if t != nil && t.ElemType != ValFuncRef {
		fv.errorf(errors.KindTypeMismatch, loc,
			"call_indirect requires a funcref table, got %s", t.ElemType)
	}
}

// checkTailResults verifies a tail callee returns exactly the caller's
// results.
func (fv *funcValidator) checkTailResults(results []ValType, loc Location) {
	if !typesEqual(results, fv.ctrl[0].endTypes) {
		fv.errorf(errors.KindTypeMismatch, loc,
			"tail call result types do not match the caller's results")
	}
}

func (fv *funcValidator) checkDataIdx(idx uint32, loc Location) {
	if fv.mv.m.DataCount == nil {
		fv.errorf(errors.KindLengthMismatch, loc,
			"data index used without a datacount section")
		return
	}
	if idx >= *fv.mv.m.DataCount {
		fv.errorf(errors.KindIndexOutOfBounds, loc,
			"data segment index %d exceeds declared count %d", idx, *fv.mv.m.DataCount)
	}
}

// memAccess types a plain load or store: pops the value for stores, the
// index operand, and pushes the loaded type.
func (fv *funcValidator) memAccess(op Opcode, instr Instruction, loc Location, valType ValType, isStore bool) {
	imm, _ := instr.Imm.(MemoryImm)
	idxType := fv.memIdxType(loc)
	fv.checkAlign(op, imm, loc, false)
	if isStore {
		fv.popType(valType, loc)
		fv.popType(idxType, loc)
		return
	}
	fv.popType(idxType, loc)
	fv.pushType(valType)
}

// atomicAccess types an atomic operation: alignment must equal the
// natural alignment exactly.
func (fv *funcValidator) atomicAccess(op Opcode, instr Instruction, loc Location, operands []ValType, result ValType) {
	imm, _ := instr.Imm.(MemoryImm)
	idxType := fv.memIdxType(loc)
	fv.checkAlign(op, imm, loc, true)
	for i := len(operands) - 1; i >= 0; i-- {
		fv.popType(operands[i], loc)
	}
	fv.popType(idxType, loc)
	if result != ValUnknown {
		fv.pushType(result)
	}
}
