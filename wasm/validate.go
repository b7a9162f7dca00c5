package wasm

import (
	"github.com/wippyai/wasm-tools/errors"
)

// ValidateModule checks m against the WebAssembly validation rules
// under the given feature set, appending every diagnostic to sink. The
// validator never aborts: every section and every function body is
// checked so callers see as many diagnostics as possible in one pass.
func ValidateModule(m *Module, features Features, sink *errors.Sink) {
	v := &moduleValidator{m: m, features: features, sink: sink}
	v.buildIndexSpaces()
	debugf("validate: %d funcs, %d tables, %d memories, %d globals, %d events, features %s",
		len(v.funcs), len(v.tables), len(v.memories), len(v.globals), len(v.events), features)

	v.validateTypes()
	v.validateImports()
	v.validateFuncs()
	v.validateTables()
	v.validateMemories()
	v.validateEvents()
	v.validateGlobals()
	v.validateExports()
	v.validateStart()
	v.validateElements()
	v.validateDataCount()
	v.validateData()
	v.validateCode()
}

// Validate checks the module with all features enabled and returns the
// first diagnostic, if any.
func (m *Module) Validate() error {
	sink := errors.NewSink()
	ValidateModule(m, FeaturesAll, sink)
	if !sink.Empty() {
		return sink.Errors()[0]
	}
	return nil
}

type globalInfo struct {
	typ      GlobalType
	imported bool
}

// moduleValidator carries the index space tables, populated in the
// canonical section order (imports first in each space).
type moduleValidator struct {
	m        *Module
	features Features
	sink     *errors.Sink

	funcs    []uint32 // type index per function
	tables   []TableType
	memories []MemoryType
	globals  []globalInfo
	events   []EventType
}

func (v *moduleValidator) buildIndexSpaces() {
	for _, imp := range v.m.Imports {
		switch imp.Desc.Kind {
		case KindFunc:
			v.funcs = append(v.funcs, imp.Desc.TypeIdx)
		case KindTable:
			if imp.Desc.Table != nil {
				v.tables = append(v.tables, *imp.Desc.Table)
			}
		case KindMemory:
			if imp.Desc.Memory != nil {
				v.memories = append(v.memories, *imp.Desc.Memory)
			}
		case KindGlobal:
			if imp.Desc.Global != nil {
				v.globals = append(v.globals, globalInfo{typ: *imp.Desc.Global, imported: true})
			}
		case KindEvent:
			if imp.Desc.Event != nil {
				v.events = append(v.events, *imp.Desc.Event)
			}
		}
	}
	for _, fn := range v.m.Funcs {
		v.funcs = append(v.funcs, fn.TypeIdx)
	}
	v.tables = append(v.tables, v.m.Tables...)
	v.memories = append(v.memories, v.m.Memories...)
	for _, g := range v.m.Globals {
		v.globals = append(v.globals, globalInfo{typ: g.Type})
	}
	v.events = append(v.events, v.m.Events...)
}

func (v *moduleValidator) funcType(typeIdx uint32) *FuncType {
	if int(typeIdx) >= len(v.m.Types) {
		return nil
	}
	return &v.m.Types[typeIdx]
}

func (v *moduleValidator) checkValType(t ValType, loc Location) {
	if f := t.RequiredFeature(); f != 0 && !v.features.Has(f) {
		v.sink.ErrorfRange(errors.KindFeatureDisabled, loc.Begin, loc.End,
			"%s requires the %s feature", t, f)
	}
}

func (v *moduleValidator) validateTypes() {
	v.sink.PushContext("type")
	defer v.sink.PopContext()

	for _, ft := range v.m.Types {
		for _, p := range ft.Params {
			v.checkValType(p, ft.Loc)
		}
		for _, r := range ft.Results {
			v.checkValType(r, ft.Loc)
		}
		if len(ft.Results) > 1 && !v.features.Has(FeatureMultiValue) {
			v.sink.ErrorfRange(errors.KindFeatureDisabled, ft.Loc.Begin, ft.Loc.End,
				"multiple results require the multi-value feature")
		}
	}
}

func (v *moduleValidator) validateImports() {
	v.sink.PushContext("import")
	defer v.sink.PopContext()

	for i, imp := range v.m.Imports {
		switch imp.Desc.Kind {
		case KindFunc:
			if v.funcType(imp.Desc.TypeIdx) == nil {
				v.sink.ErrorfRange(errors.KindIndexOutOfBounds, imp.Loc.Begin, imp.Loc.End,
					"import %d (%s.%s) references invalid type index %d",
					i, imp.Module, imp.Name, imp.Desc.TypeIdx)
			}
		case KindTable:
			v.validateTableType(imp.Desc.Table, imp.Loc)
		case KindMemory:
			v.validateMemoryType(imp.Desc.Memory, imp.Loc)
		case KindGlobal:
			if imp.Desc.Global == nil {
				continue
			}
			v.checkValType(imp.Desc.Global.ValType, imp.Loc)
			if imp.Desc.Global.Mutable && !v.features.Has(FeatureMutableGlobals) {
				v.sink.ErrorfRange(errors.KindFeatureDisabled, imp.Loc.Begin, imp.Loc.End,
					"mutable imported global requires the mutable-globals feature")
			}
		case KindEvent:
			v.validateEventType(imp.Desc.Event, imp.Loc)
		}
	}
}

func (v *moduleValidator) validateFuncs() {
	v.sink.PushContext("function")
	defer v.sink.PopContext()

	for i, fn := range v.m.Funcs {
		if v.funcType(fn.TypeIdx) == nil {
			v.sink.ErrorfRange(errors.KindIndexOutOfBounds, fn.Loc.Begin, fn.Loc.End,
				"function %d references invalid type index %d", i, fn.TypeIdx)
		}
	}
}

func (v *moduleValidator) validateTableType(t *TableType, loc Location) {
	if t == nil {
		return
	}
	if !t.ElemType.IsRef() {
		v.sink.ErrorfRange(errors.KindUnknownValueType, loc.Begin, loc.End,
			"table element type must be a reference type, got %s", t.ElemType)
	} else if t.ElemType != ValFuncRef {
		v.checkValType(t.ElemType, loc)
	}
	v.validateLimits(t.Limits, ^uint64(0), loc)
	if t.Limits.Shared {
		v.sink.ErrorfRange(errors.KindBadLimits, loc.Begin, loc.End, "tables cannot be shared")
	}
}

func (v *moduleValidator) validateMemoryType(t *MemoryType, loc Location) {
	if t == nil {
		return
	}
	maxPages := MemoryMaxPages32
	if t.Limits.Memory64 {
		maxPages = MemoryMaxPages64
		if !v.features.Has(FeatureMemory64) {
			v.sink.ErrorfRange(errors.KindFeatureDisabled, loc.Begin, loc.End,
				"64-bit memory requires the memory64 feature")
		}
	}
	v.validateLimits(t.Limits, maxPages, loc)
	if t.Limits.Shared {
		if !v.features.Has(FeatureThreads) {
			v.sink.ErrorfRange(errors.KindFeatureDisabled, loc.Begin, loc.End,
				"shared memory requires the threads feature")
		}
		if t.Limits.Max == nil {
			v.sink.ErrorfRange(errors.KindBadLimits, loc.Begin, loc.End,
				"shared memory must declare a maximum")
		}
	}
}

func (v *moduleValidator) validateLimits(l Limits, maxAllowed uint64, loc Location) {
	if l.Min > maxAllowed {
		v.sink.ErrorfRange(errors.KindBadLimits, loc.Begin, loc.End,
			"limits minimum %d exceeds allowed maximum %d", l.Min, maxAllowed)
	}
	if l.Max != nil {
		if *l.Max > maxAllowed {
			v.sink.ErrorfRange(errors.KindBadLimits, loc.Begin, loc.End,
				"limits maximum %d exceeds allowed maximum %d", *l.Max, maxAllowed)
		}
		if l.Min > *l.Max {
			v.sink.ErrorfRange(errors.KindBadLimits, loc.Begin, loc.End,
				"limits minimum %d exceeds maximum %d", l.Min, *l.Max)
		}
	}
}

func (v *moduleValidator) validateEventType(ev *EventType, loc Location) {
	if ev == nil {
		return
	}
	if !v.features.Has(FeatureExceptions) {
		v.sink.ErrorfRange(errors.KindFeatureDisabled, loc.Begin, loc.End,
			"events require the exceptions feature")
		return
	}
	ft := v.funcType(ev.TypeIdx)
	if ft == nil {
		v.sink.ErrorfRange(errors.KindIndexOutOfBounds, loc.Begin, loc.End,
			"event references invalid type index %d", ev.TypeIdx)
		return
	}
	if len(ft.Results) != 0 {
		v.sink.ErrorfRange(errors.KindTypeMismatch, loc.Begin, loc.End,
			"event signature must have no results, got %s", ft)
	}
}

func (v *moduleValidator) validateTables() {
	v.sink.PushContext("table")
	defer v.sink.PopContext()

	if len(v.tables) > 1 && !v.features.Has(FeatureReferenceTypes) {
		v.sink.Errorf(errors.KindBadLimits, 0,
			"at most one table is allowed without the reference-types feature")
	}
	for i := range v.m.Tables {
		v.validateTableType(&v.m.Tables[i], Location{})
	}
}

func (v *moduleValidator) validateMemories() {
	v.sink.PushContext("memory")
	defer v.sink.PopContext()

	if len(v.memories) > 1 {
		v.sink.Errorf(errors.KindBadLimits, 0, "at most one memory is allowed")
	}
	for i := range v.m.Memories {
		v.validateMemoryType(&v.m.Memories[i], Location{})
	}
}

func (v *moduleValidator) validateEvents() {
	v.sink.PushContext("event")
	defer v.sink.PopContext()

	for i := range v.m.Events {
		v.validateEventType(&v.m.Events[i], v.m.Events[i].Loc)
	}
}

func (v *moduleValidator) validateGlobals() {
	v.sink.PushContext("global")
	defer v.sink.PopContext()

	for i := range v.m.Globals {
		g := &v.m.Globals[i]
		v.checkValType(g.Type.ValType, g.Loc)
		if t, ok := v.constExprType(&g.Init); ok && t != g.Type.ValType {
			v.sink.ErrorfRange(errors.KindTypeMismatch, g.Init.Loc.Begin, g.Init.Loc.End,
				"global initializer has type %s, expected %s", t, g.Type.ValType)
		}
	}
}

// constExprType checks a constant expression and returns the type it
// produces. Diagnostics are recorded for empty expressions, disabled
// features, and bad global or function references; non-constant
// producers get none here, since the decoder reports them.
func (v *moduleValidator) constExprType(expr *ConstExpr) (ValType, bool) {
	instr := expr.Instr
	switch instr.Opcode {
	case OpI32Const:
		return ValI32, true
	case OpI64Const:
		return ValI64, true
	case OpF32Const:
		return ValF32, true
	case OpF64Const:
		return ValF64, true
	case OpV128Const:
		v.checkOpcodeFeature(instr.Opcode, expr.Loc)
		return ValV128, true
	case OpGlobalGet:
		imm := instr.Imm.(GlobalImm)
		numImported := uint32(v.m.NumImportedGlobals())
		if imm.GlobalIdx >= numImported {
			v.sink.ErrorfRange(errors.KindInvalidConstExpr, expr.Loc.Begin, expr.Loc.End,
				"constant expression may only reference imported globals, got index %d", imm.GlobalIdx)
			return 0, false
		}
		g := v.globals[imm.GlobalIdx]
		if g.typ.Mutable {
			v.sink.ErrorfRange(errors.KindInvalidConstExpr, expr.Loc.Begin, expr.Loc.End,
				"constant expression may not reference mutable global %d", imm.GlobalIdx)
		}
		return g.typ.ValType, true
	case OpRefNull:
		v.checkOpcodeFeature(instr.Opcode, expr.Loc)
		imm := instr.Imm.(RefNullImm)
		if !imm.Type.IsRef() {
			v.sink.ErrorfRange(errors.KindUnknownValueType, expr.Loc.Begin, expr.Loc.End,
				"ref.null requires a reference type, got %s", imm.Type)
			return 0, false
		}
		return imm.Type, true
	case OpRefFunc:
		v.checkOpcodeFeature(instr.Opcode, expr.Loc)
		imm := instr.Imm.(CallImm)
		if int(imm.FuncIdx) >= len(v.funcs) {
			v.sink.ErrorfRange(errors.KindIndexOutOfBounds, expr.Loc.Begin, expr.Loc.End,
				"ref.func references invalid function index %d", imm.FuncIdx)
		}
		return ValFuncRef, true
	case OpEnd:
		v.sink.ErrorfRange(errors.KindInvalidConstExpr, expr.Loc.Begin, expr.Loc.End,
			"empty constant expression")
		return 0, false
	}
	// The decoder already reported non-constant producers.
	return 0, false
}

func (v *moduleValidator) checkOpcodeFeature(op Opcode, loc Location) {
	if f := op.RequiredFeature(); f != 0 && !v.features.Has(f) {
		v.sink.ErrorfRange(errors.KindFeatureDisabled, loc.Begin, loc.End,
			"%s requires the %s feature", op, f)
	}
}

func (v *moduleValidator) validateExports() {
	v.sink.PushContext("export")
	defer v.sink.PopContext()

	seen := make(map[string]bool)
	for i, exp := range v.m.Exports {
		if seen[exp.Name] {
			v.sink.ErrorfRange(errors.KindDuplicateSection, exp.Loc.Begin, exp.Loc.End,
				"duplicate export name %q at index %d", exp.Name, i)
		}
		seen[exp.Name] = true

		var space int
		switch exp.Kind {
		case KindFunc:
			space = len(v.funcs)
		case KindTable:
			space = len(v.tables)
		case KindMemory:
			space = len(v.memories)
		case KindGlobal:
			space = len(v.globals)
			if int(exp.Idx) < space && v.globals[exp.Idx].typ.Mutable &&
				!v.features.Has(FeatureMutableGlobals) {
				v.sink.ErrorfRange(errors.KindFeatureDisabled, exp.Loc.Begin, exp.Loc.End,
					"exporting a mutable global requires the mutable-globals feature")
			}
		case KindEvent:
			space = len(v.events)
		}
		if int(exp.Idx) >= space {
			v.sink.ErrorfRange(errors.KindIndexOutOfBounds, exp.Loc.Begin, exp.Loc.End,
				"export %q references invalid %s index %d", exp.Name, KindName(exp.Kind), exp.Idx)
		}
	}
}

func (v *moduleValidator) validateStart() {
	if v.m.Start == nil {
		return
	}
	v.sink.PushContext("start")
	defer v.sink.PopContext()

	idx := *v.m.Start
	if int(idx) >= len(v.funcs) {
		v.sink.ErrorfRange(errors.KindIndexOutOfBounds, v.m.StartLoc.Begin, v.m.StartLoc.End,
			"start function index %d exceeds function count %d", idx, len(v.funcs))
		return
	}
	ft := v.funcType(v.funcs[idx])
	if ft == nil {
		return
	}
	if len(ft.Params) != 0 || len(ft.Results) != 0 {
		v.sink.ErrorfRange(errors.KindTypeMismatch, v.m.StartLoc.Begin, v.m.StartLoc.End,
			"start function must have signature [] -> [], got %s", ft)
	}
}

// offsetType returns the value type an active segment offset must have
// for the given memory or table.
func (v *moduleValidator) offsetType(memory64 bool) ValType {
	if memory64 {
		return ValI64
	}
	return ValI32
}

func (v *moduleValidator) validateElements() {
	v.sink.PushContext("element")
	defer v.sink.PopContext()

	for i := range v.m.Elements {
		elem := &v.m.Elements[i]

		if elem.Flags != 0 && !v.features.Has(FeatureBulkMemory) && !v.features.Has(FeatureReferenceTypes) {
			v.sink.ErrorfRange(errors.KindFeatureDisabled, elem.Loc.Begin, elem.Loc.End,
				"element segment flags %d require the bulk-memory or reference-types feature", elem.Flags)
		}
		if elem.Type != ValFuncRef {
			v.checkValType(elem.Type, elem.Loc)
		}

		if !elem.IsPassive() {
			if int(elem.TableIdx) >= len(v.tables) {
				v.sink.ErrorfRange(errors.KindIndexOutOfBounds, elem.Loc.Begin, elem.Loc.End,
					"element %d references invalid table index %d", i, elem.TableIdx)
			}
			if elem.Offset != nil {
				if t, ok := v.constExprType(elem.Offset); ok && t != ValI32 {
					v.sink.ErrorfRange(errors.KindTypeMismatch, elem.Offset.Loc.Begin, elem.Offset.Loc.End,
						"element offset has type %s, expected i32", t)
				}
			}
		}

		for j, funcIdx := range elem.FuncIdxs {
			if int(funcIdx) >= len(v.funcs) {
				v.sink.ErrorfRange(errors.KindIndexOutOfBounds, elem.Loc.Begin, elem.Loc.End,
					"element %d entry %d references invalid function index %d", i, j, funcIdx)
			}
		}
		for j := range elem.Exprs {
			if t, ok := v.constExprType(&elem.Exprs[j]); ok && !t.IsRef() {
				v.sink.ErrorfRange(errors.KindTypeMismatch, elem.Exprs[j].Loc.Begin, elem.Exprs[j].Loc.End,
					"element expression has type %s, expected a reference type", t)
			}
		}
	}
}

func (v *moduleValidator) validateDataCount() {
	if v.m.DataCount != nil && *v.m.DataCount != uint32(len(v.m.Data)) {
		v.sink.Errorf(errors.KindLengthMismatch, 0,
			"datacount section declares %d segments, but data section has %d",
			*v.m.DataCount, len(v.m.Data))
	}
}

func (v *moduleValidator) validateData() {
	v.sink.PushContext("data")
	defer v.sink.PopContext()

	for i := range v.m.Data {
		seg := &v.m.Data[i]
		if seg.Flags != 0 && !v.features.Has(FeatureBulkMemory) {
			v.sink.ErrorfRange(errors.KindFeatureDisabled, seg.Loc.Begin, seg.Loc.End,
				"data segment flags %d require the bulk-memory feature", seg.Flags)
		}
		if seg.IsPassive() {
			continue
		}
		if int(seg.MemIdx) >= len(v.memories) {
			v.sink.ErrorfRange(errors.KindIndexOutOfBounds, seg.Loc.Begin, seg.Loc.End,
				"data segment %d references invalid memory index %d", i, seg.MemIdx)
		}
		if seg.Offset != nil {
			want := ValI32
			if int(seg.MemIdx) < len(v.memories) {
				want = v.offsetType(v.memories[seg.MemIdx].Limits.Memory64)
			}
			if t, ok := v.constExprType(seg.Offset); ok && t != want {
				v.sink.ErrorfRange(errors.KindTypeMismatch, seg.Offset.Loc.Begin, seg.Offset.Loc.End,
					"data offset has type %s, expected %s", t, want)
			}
		}
	}
}

func (v *moduleValidator) validateCode() {
	v.sink.PushContext("code")
	defer v.sink.PopContext()

	if len(v.m.Code) != len(v.m.Funcs) {
		v.sink.Errorf(errors.KindLengthMismatch, 0,
			"code section has %d entries but function section has %d",
			len(v.m.Code), len(v.m.Funcs))
	}

	numImported := v.m.NumImportedFuncs()
	for i := range v.m.Code {
		if i >= len(v.m.Funcs) {
			break
		}
		ft := v.funcType(v.m.Funcs[i].TypeIdx)
		if ft == nil {
			continue
		}
		validateFuncBody(v, uint32(numImported+i), ft, &v.m.Code[i])
	}
}
