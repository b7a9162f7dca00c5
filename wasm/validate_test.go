package wasm_test

import (
	"testing"

	"github.com/wippyai/wasm-tools/errors"
	"github.com/wippyai/wasm-tools/wasm"
)

func validate(m *wasm.Module, features wasm.Features) *errors.Sink {
	sink := errors.NewSink()
	wasm.ValidateModule(m, features, sink)
	return sink
}

func singleFuncModule(ft wasm.FuncType, code []byte) *wasm.Module {
	return &wasm.Module{
		Types: []wasm.FuncType{ft},
		Funcs: []wasm.Func{{TypeIdx: 0}},
		Code:  []wasm.FuncBody{{Code: code}},
	}
}

func TestValidateConstAdd(t *testing.T) {
	// (func (result i32) i32.const 1 i32.const 2 i32.add)
	m := singleFuncModule(
		wasm.FuncType{Results: []wasm.ValType{wasm.ValI32}},
		[]byte{0x41, 0x01, 0x41, 0x02, 0x6A, 0x0B})
	if sink := validate(m, wasm.FeaturesMVP); !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
}

func TestValidateResultMismatch(t *testing.T) {
	m := singleFuncModule(
		wasm.FuncType{Results: []wasm.ValType{wasm.ValF64}},
		[]byte{0x41, 0x01, 0x0B})
	if sink := validate(m, wasm.FeaturesMVP); !sink.HasKind(errors.KindTypeMismatch) {
		t.Fatalf("expected type_mismatch, got %v", sink.Errors())
	}
}

func TestValidateStackUnderflow(t *testing.T) {
	m := singleFuncModule(
		wasm.FuncType{Results: []wasm.ValType{wasm.ValI32}},
		[]byte{0x41, 0x01, 0x6A, 0x0B}) // i32.add with one operand
	if sink := validate(m, wasm.FeaturesMVP); !sink.HasKind(errors.KindStackUnderflow) {
		t.Fatalf("expected stack_underflow, got %v", sink.Errors())
	}
}

func TestValidateUnbalancedControl(t *testing.T) {
	m := singleFuncModule(wasm.FuncType{},
		[]byte{0x02, 0x40, 0x0B}) // block without closing the function
	if sink := validate(m, wasm.FeaturesMVP); !sink.HasKind(errors.KindUnbalancedCtl) {
		t.Fatalf("expected unbalanced_control, got %v", sink.Errors())
	}
}

func TestValidateUnreachableIsStackPolymorphic(t *testing.T) {
	// unreachable supplies arbitrary operands: i32.add directly after it
	// type checks.
	m := singleFuncModule(
		wasm.FuncType{Results: []wasm.ValType{wasm.ValI32}},
		[]byte{0x00, 0x6A, 0x0B}) // unreachable, i32.add, end
	if sink := validate(m, wasm.FeaturesMVP); !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
}

func TestValidateBlockBranch(t *testing.T) {
	// (func (result i32) (block (result i32) i32.const 1 br 0))
	m := singleFuncModule(
		wasm.FuncType{Results: []wasm.ValType{wasm.ValI32}},
		[]byte{0x02, 0x7F, 0x41, 0x01, 0x0C, 0x00, 0x0B, 0x0B})
	if sink := validate(m, wasm.FeaturesMVP); !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
}

func TestValidateLoopLabelTypesAreParams(t *testing.T) {
	// br to a loop targets its start, so the label types are the loop's
	// (empty) params and a bare br type checks.
	m := singleFuncModule(
		wasm.FuncType{},
		[]byte{0x03, 0x40, 0x0C, 0x00, 0x0B, 0x0B}) // loop: br 0
	if sink := validate(m, wasm.FeaturesMVP); !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
}

func TestValidateIfWithoutElse(t *testing.T) {
	// An if with a result but no else cannot type check.
	m := singleFuncModule(
		wasm.FuncType{Results: []wasm.ValType{wasm.ValI32}},
		[]byte{0x41, 0x01, 0x04, 0x7F, 0x41, 0x02, 0x0B, 0x0B})
	if sink := validate(m, wasm.FeaturesMVP); !sink.HasKind(errors.KindTypeMismatch) {
		t.Fatalf("expected type_mismatch, got %v", sink.Errors())
	}
}

func TestValidateBrTableArity(t *testing.T) {
	// Targets with different arities cannot share a br_table.
	code := []byte{
		0x02, 0x7F, // block (result i32)
		0x02, 0x40, // block
		0x41, 0x00, // i32.const 0
		0x0E, 0x01, 0x00, 0x01, // br_table 0 1
		0x0B,
		0x41, 0x00,
		0x0B,
	}
	m := singleFuncModule(wasm.FuncType{Results: []wasm.ValType{wasm.ValI32}}, append(code, 0x0B))
	if sink := validate(m, wasm.FeaturesMVP); !sink.HasKind(errors.KindTypeMismatch) {
		t.Fatalf("expected type_mismatch, got %v", sink.Errors())
	}
}

func TestValidateFeatureGating(t *testing.T) {
	signExt := []byte{0x41, 0x01, 0xC0, 0x1A, 0x0B} // i32.extend8_s
	m := singleFuncModule(wasm.FuncType{}, signExt)

	if sink := validate(m, wasm.FeaturesMVP); !sink.HasKind(errors.KindFeatureDisabled) {
		t.Fatalf("expected feature_disabled under MVP, got %v", sink.Errors())
	}
	if sink := validate(m, wasm.FeatureSignExtension); !sink.Empty() {
		t.Fatalf("unexpected diagnostics with sign-extension on: %v", sink.Errors())
	}
}

func TestValidateMemoryAlignment(t *testing.T) {
	load := func(align byte) *wasm.Module {
		m := singleFuncModule(
			wasm.FuncType{Results: []wasm.ValType{wasm.ValI32}},
			[]byte{0x41, 0x00, 0x28, align, 0x00, 0x0B})
		m.Memories = []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}}
		return m
	}
	if sink := validate(load(0x02), wasm.FeaturesMVP); !sink.Empty() {
		t.Fatalf("natural alignment rejected: %v", sink.Errors())
	}
	if sink := validate(load(0x03), wasm.FeaturesMVP); !sink.HasKind(errors.KindInvalidAlignment) {
		t.Fatalf("expected invalid_alignment, got %v", sink.Errors())
	}
}

func TestValidateAtomicAlignmentExact(t *testing.T) {
	atomic := func(align byte) *wasm.Module {
		m := singleFuncModule(
			wasm.FuncType{Results: []wasm.ValType{wasm.ValI32}},
			[]byte{0x41, 0x00, 0xFE, 0x10, align, 0x00, 0x0B}) // i32.atomic.load
		m.Memories = []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}}
		return m
	}
	if sink := validate(atomic(0x02), wasm.FeatureThreads); !sink.Empty() {
		t.Fatalf("exact alignment rejected: %v", sink.Errors())
	}
	// Atomics reject under-alignment too, unlike plain loads.
	if sink := validate(atomic(0x01), wasm.FeatureThreads); !sink.HasKind(errors.KindInvalidAlignment) {
		t.Fatalf("expected invalid_alignment, got %v", sink.Errors())
	}
}

func TestValidateMissingMemory(t *testing.T) {
	m := singleFuncModule(
		wasm.FuncType{Results: []wasm.ValType{wasm.ValI32}},
		[]byte{0x41, 0x00, 0x28, 0x02, 0x00, 0x0B})
	if sink := validate(m, wasm.FeaturesMVP); !sink.HasKind(errors.KindIndexOutOfBounds) {
		t.Fatalf("expected index_out_of_bounds, got %v", sink.Errors())
	}
}

func TestValidateSelect(t *testing.T) {
	ok := singleFuncModule(
		wasm.FuncType{Results: []wasm.ValType{wasm.ValI64}},
		[]byte{0x42, 0x01, 0x42, 0x02, 0x41, 0x00, 0x1B, 0x0B})
	if sink := validate(ok, wasm.FeaturesMVP); !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}

	mixed := singleFuncModule(
		wasm.FuncType{Results: []wasm.ValType{wasm.ValI64}},
		[]byte{0x42, 0x01, 0x41, 0x02, 0x41, 0x00, 0x1B, 0x0B})
	if sink := validate(mixed, wasm.FeaturesMVP); !sink.HasKind(errors.KindTypeMismatch) {
		t.Fatalf("expected type_mismatch, got %v", sink.Errors())
	}
}

func TestValidateCall(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{
			{Params: []wasm.ValType{wasm.ValI32}, Results: []wasm.ValType{wasm.ValI32}},
		},
		Funcs: []wasm.Func{{TypeIdx: 0}, {TypeIdx: 0}},
		Code: []wasm.FuncBody{
			{Code: []byte{0x20, 0x00, 0x10, 0x01, 0x0B}}, // call 1
			{Code: []byte{0x20, 0x00, 0x0B}},
		},
	}
	if sink := validate(m, wasm.FeaturesMVP); !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}

	m.Code[0].Code = []byte{0x20, 0x00, 0x10, 0x05, 0x0B} // call 5
	if sink := validate(m, wasm.FeaturesMVP); !sink.HasKind(errors.KindIndexOutOfBounds) {
		t.Fatalf("expected index_out_of_bounds, got %v", sink.Errors())
	}
}

func TestValidateStartSignature(t *testing.T) {
	start := uint32(0)
	m := singleFuncModule(
		wasm.FuncType{Results: []wasm.ValType{wasm.ValI32}},
		[]byte{0x41, 0x01, 0x0B})
	m.Start = &start
	if sink := validate(m, wasm.FeaturesMVP); !sink.HasKind(errors.KindTypeMismatch) {
		t.Fatalf("expected type_mismatch for start signature, got %v", sink.Errors())
	}
}

func TestValidateDuplicateExports(t *testing.T) {
	m := singleFuncModule(wasm.FuncType{}, []byte{0x0B})
	m.Exports = []wasm.Export{
		{Name: "f", Kind: wasm.KindFunc, Idx: 0},
		{Name: "f", Kind: wasm.KindFunc, Idx: 0},
	}
	if sink := validate(m, wasm.FeaturesMVP); !sink.HasKind(errors.KindDuplicateSection) {
		t.Fatalf("expected a duplicate export diagnostic, got %v", sink.Errors())
	}
}

func TestValidateMultipleMemories(t *testing.T) {
	m := &wasm.Module{
		Memories: []wasm.MemoryType{
			{Limits: wasm.Limits{Min: 1}},
			{Limits: wasm.Limits{Min: 1}},
		},
	}
	if sink := validate(m, wasm.FeaturesAll); !sink.HasKind(errors.KindBadLimits) {
		t.Fatalf("expected bad_limits, got %v", sink.Errors())
	}
}

func TestValidateMultipleTablesNeedReferenceTypes(t *testing.T) {
	m := &wasm.Module{
		Tables: []wasm.TableType{
			{ElemType: wasm.ValFuncRef, Limits: wasm.Limits{Min: 1}},
			{ElemType: wasm.ValFuncRef, Limits: wasm.Limits{Min: 1}},
		},
	}
	if sink := validate(m, wasm.FeaturesMVP); !sink.HasKind(errors.KindBadLimits) {
		t.Fatalf("expected bad_limits under MVP, got %v", sink.Errors())
	}
	if sink := validate(m, wasm.FeatureReferenceTypes); !sink.Empty() {
		t.Fatalf("unexpected diagnostics with reference-types: %v", sink.Errors())
	}
}

func TestValidateDataCountMismatch(t *testing.T) {
	count := uint32(2)
	m := &wasm.Module{
		Memories:  []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}},
		DataCount: &count,
		Data:      []wasm.DataSegment{{Flags: 1, Init: []byte{1}}},
	}
	if sink := validate(m, wasm.FeaturesAll); !sink.HasKind(errors.KindLengthMismatch) {
		t.Fatalf("expected length_mismatch, got %v", sink.Errors())
	}
}

func TestValidateDataIndexNeedsDataCount(t *testing.T) {
	m := singleFuncModule(wasm.FuncType{},
		[]byte{0x41, 0x00, 0x41, 0x00, 0x41, 0x00, 0xFC, 0x08, 0x00, 0x00, 0x0B}) // memory.init 0
	m.Memories = []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}}
	if sink := validate(m, wasm.FeatureBulkMemory); !sink.HasKind(errors.KindLengthMismatch) {
		t.Fatalf("expected length_mismatch without datacount, got %v", sink.Errors())
	}
}

func TestValidateGlobalInitTypes(t *testing.T) {
	m := &wasm.Module{
		Globals: []wasm.Global{{
			Type: wasm.GlobalType{ValType: wasm.ValI64},
			Init: wasm.ConstExpr{
				Instr: wasm.Instruction{Opcode: wasm.OpI32Const, Imm: wasm.I32Imm{Value: 1}},
				Raw:   []byte{0x41, 0x01, 0x0B},
			},
		}},
	}
	if sink := validate(m, wasm.FeaturesMVP); !sink.HasKind(errors.KindTypeMismatch) {
		t.Fatalf("expected type_mismatch, got %v", sink.Errors())
	}
}

func TestValidateConstExprGlobalGet(t *testing.T) {
	imported := wasm.GlobalType{ValType: wasm.ValI32}
	m := &wasm.Module{
		Imports: []wasm.Import{{
			Module: "env", Name: "g",
			Desc: wasm.ImportDesc{Kind: wasm.KindGlobal, Global: &imported},
		}},
		Globals: []wasm.Global{{
			Type: wasm.GlobalType{ValType: wasm.ValI32},
			Init: wasm.ConstExpr{
				Instr: wasm.Instruction{Opcode: wasm.OpGlobalGet, Imm: wasm.GlobalImm{GlobalIdx: 0}},
				Raw:   []byte{0x23, 0x00, 0x0B},
			},
		}},
	}
	if sink := validate(m, wasm.FeaturesMVP); !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}

	// Referencing the module's own global is not constant.
	m.Globals[0].Init.Instr.Imm = wasm.GlobalImm{GlobalIdx: 1}
	if sink := validate(m, wasm.FeaturesMVP); !sink.HasKind(errors.KindInvalidConstExpr) {
		t.Fatalf("expected invalid_const_expr, got %v", sink.Errors())
	}
}

func TestValidateEventNeedsExceptions(t *testing.T) {
	m := &wasm.Module{
		Types:  []wasm.FuncType{{Params: []wasm.ValType{wasm.ValI32}}},
		Events: []wasm.EventType{{TypeIdx: 0}},
	}
	if sink := validate(m, wasm.FeaturesMVP); !sink.HasKind(errors.KindFeatureDisabled) {
		t.Fatalf("expected feature_disabled, got %v", sink.Errors())
	}
	if sink := validate(m, wasm.FeatureExceptions); !sink.Empty() {
		t.Fatalf("unexpected diagnostics with exceptions on: %v", sink.Errors())
	}
}

func TestValidateTryCatchThrow(t *testing.T) {
	// (func (try (do (throw 0)) (catch drop)))  in the 2020 encoding:
	// try void, throw 0, catch, drop, end.
	m := &wasm.Module{
		Types:  []wasm.FuncType{{}, {}},
		Events: []wasm.EventType{{TypeIdx: 1}},
		Funcs:  []wasm.Func{{TypeIdx: 0}},
		Code: []wasm.FuncBody{{
			Code: []byte{0x06, 0x40, 0x08, 0x00, 0x07, 0x1A, 0x0B, 0x0B},
		}},
	}
	if sink := validate(m, wasm.FeatureExceptions); !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
}

func TestValidateSharedMemoryNeedsMax(t *testing.T) {
	m := &wasm.Module{
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1, Shared: true}}},
	}
	sink := validate(m, wasm.FeatureThreads)
	if !sink.HasKind(errors.KindBadLimits) {
		t.Fatalf("expected bad_limits for shared memory without max, got %v", sink.Errors())
	}
}

func TestValidateNeverAborts(t *testing.T) {
	// Two bodies with independent errors: both must be reported.
	m := &wasm.Module{
		Types: []wasm.FuncType{{Results: []wasm.ValType{wasm.ValI32}}},
		Funcs: []wasm.Func{{TypeIdx: 0}, {TypeIdx: 0}},
		Code: []wasm.FuncBody{
			{Code: []byte{0x42, 0x01, 0x0B}}, // i64.const where i32 expected
			{Code: []byte{0x0B}},             // empty body, missing result
		},
	}
	sink := validate(m, wasm.FeaturesMVP)
	if sink.Len() < 2 {
		t.Fatalf("expected diagnostics for both bodies, got %v", sink.Errors())
	}
}
