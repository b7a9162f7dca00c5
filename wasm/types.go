package wasm

import "strings"

// Location is a byte-offset range into the original input, attached to
// parsed entities for diagnostic reporting.
type Location struct {
	Begin uint32
	End   uint32
}

// ValType represents a WebAssembly value type.
// See constants.go for ValI32, ValI64, ValF32, ValF64, etc.
type ValType byte

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	case ValV128:
		return "v128"
	case ValFuncRef:
		return "funcref"
	case ValExternRef:
		return "externref"
	case ValNullRef:
		return "nullref"
	case ValExnRef:
		return "exnref"
	default:
		return "unknown"
	}
}

// IsNum reports whether v is a numeric type.
func (v ValType) IsNum() bool {
	switch v {
	case ValI32, ValI64, ValF32, ValF64:
		return true
	}
	return false
}

// IsRef reports whether v is a reference type.
func (v ValType) IsRef() bool {
	switch v {
	case ValFuncRef, ValExternRef, ValNullRef, ValExnRef:
		return true
	}
	return false
}

// RequiredFeature returns the proposal gating v, or zero for MVP types.
func (v ValType) RequiredFeature() Features {
	switch v {
	case ValV128:
		return FeatureSimd
	case ValFuncRef:
		// funcref is a table element type in the MVP but a value type
		// only with reference types.
		return 0
	case ValExternRef, ValNullRef:
		return FeatureReferenceTypes
	case ValExnRef:
		return FeatureExceptions
	}
	return 0
}

// FuncType represents a function signature with parameter and result types.
type FuncType struct {
	Params  []ValType
	Results []ValType
	Loc     Location
}

// Equal reports signature equality; locations are ignored.
func (ft FuncType) Equal(other FuncType) bool {
	if len(ft.Params) != len(other.Params) || len(ft.Results) != len(other.Results) {
		return false
	}
	for i := range ft.Params {
		if ft.Params[i] != other.Params[i] {
			return false
		}
	}
	for i := range ft.Results {
		if ft.Results[i] != other.Results[i] {
			return false
		}
	}
	return true
}

func (ft FuncType) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range ft.Params {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.String())
	}
	b.WriteString("] -> [")
	for i, r := range ft.Results {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.String())
	}
	b.WriteByte(']')
	return b.String()
}

// BlockType is the s33-encoded type of a block, loop, if, or try: a
// negative sentinel for void or a single value type, or a non-negative
// type section index (multi-value).
type BlockType int64

// IsIndex reports whether the block type is a type section index.
func (bt BlockType) IsIndex() bool {
	return bt >= 0
}

// ValType returns the single value type of a non-void, non-index block
// type. ok is false for void.
func (bt BlockType) ValType() (ValType, bool) {
	switch int64(bt) {
	case BlockTypeI32:
		return ValI32, true
	case BlockTypeI64:
		return ValI64, true
	case BlockTypeF32:
		return ValF32, true
	case BlockTypeF64:
		return ValF64, true
	case BlockTypeV128:
		return ValV128, true
	case BlockTypeFuncRef:
		return ValFuncRef, true
	case BlockTypeExternRef:
		return ValExternRef, true
	case BlockTypeNullRef:
		return ValNullRef, true
	case BlockTypeExnRef:
		return ValExnRef, true
	}
	return 0, false
}

// Limits describes size constraints for tables and memories.
type Limits struct {
	Max      *uint64
	Min      uint64
	Shared   bool
	Memory64 bool
}

// TableType describes a table with element type and size limits.
type TableType struct {
	ElemType ValType
	Limits   Limits
}

// MemoryType describes a linear memory with size limits.
type MemoryType struct {
	Limits Limits
}

// GlobalType describes a global variable's type and mutability.
type GlobalType struct {
	ValType ValType
	Mutable bool
}

// EventType describes an exception event with an attribute and the
// function signature of its payload.
type EventType struct {
	Attribute byte
	TypeIdx   uint32
	Loc       Location
}

// Import represents an imported function, table, memory, global, or event.
type Import struct {
	Desc   ImportDesc
	Module string
	Name   string
	Loc    Location
}

// ImportDesc describes an imported item.
// Kind uses KindFunc, KindTable, KindMemory, KindGlobal, or KindEvent.
type ImportDesc struct {
	Table   *TableType
	Memory  *MemoryType
	Global  *GlobalType
	Event   *EventType
	TypeIdx uint32
	Kind    byte
}

// Func is a declared function: a type index into the type section.
type Func struct {
	TypeIdx uint32
	Loc     Location
}

// Global represents a global variable with type and initializer.
type Global struct {
	Type GlobalType
	Init ConstExpr
	Loc  Location
}

// Export describes an exported item.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
	Loc  Location
}

// ConstExpr is a constant expression: exactly one producer instruction
// followed by end. Raw aliases the encoded bytes including the end
// opcode.
type ConstExpr struct {
	Instr Instruction
	Raw   []byte
	Loc   Location
}

// Element represents an element segment.
// Flags determine the format:
//   - 0: active, tableIdx=0, offset expr, vec(funcidx)
//   - 1: passive, elemkind, vec(funcidx)
//   - 2: active, tableIdx, offset expr, elemkind, vec(funcidx)
//   - 3: declarative, elemkind, vec(funcidx)
//   - 4: active, tableIdx=0, offset expr, vec(expr)
//   - 5: passive, reftype, vec(expr)
//   - 6: active, tableIdx, offset expr, reftype, vec(expr)
//   - 7: declarative, reftype, vec(expr)
type Element struct {
	Offset   *ConstExpr
	FuncIdxs []uint32
	Exprs    []ConstExpr
	Flags    uint32
	TableIdx uint32
	ElemKind byte
	Type     ValType
	Loc      Location
}

// IsPassive reports whether the segment has no offset expression.
func (e *Element) IsPassive() bool {
	return e.Flags&ElemFlagPassive != 0
}

// LocalEntry represents a group of local variables with the same type.
type LocalEntry struct {
	Count   uint32
	ValType ValType
}

// FuncBody represents a function's local declarations and bytecode.
// Code aliases the input buffer and includes the terminating end opcode.
type FuncBody struct {
	Locals []LocalEntry
	Code   []byte
	Loc    Location
}

// DataSegment represents a data segment.
// Flags determine the format:
//   - 0: active, memIdx=0, offset expr, vec(byte)
//   - 1: passive, vec(byte)
//   - 2: active, memIdx, offset expr, vec(byte)
type DataSegment struct {
	Offset *ConstExpr
	Init   []byte
	Flags  uint32
	MemIdx uint32
	Loc    Location
}

// IsPassive reports whether the segment has no offset expression.
func (d *DataSegment) IsPassive() bool {
	return d.Flags == DataFlagPassive
}

// CustomSection holds a named custom section's payload. Data aliases the
// input buffer.
type CustomSection struct {
	Name string
	Data []byte
	Loc  Location
}

// Module is the decoded view of a WebAssembly module. Byte-slice fields
// of its entities alias the input buffer; the buffer must outlive the
// module.
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []Func
	Tables   []TableType
	Memories []MemoryType
	Globals  []Global
	Exports  []Export
	Start    *uint32
	StartLoc Location
	Elements []Element
	Code     []FuncBody
	Data     []DataSegment

	// DataCount holds the count from the DataCount section (ID 12).
	// Required when data indices appear in code (bulk memory operations).
	DataCount *uint32

	// Events holds exception handling events (ID 13).
	Events []EventType

	CustomSections []CustomSection
}

// NumImportedFuncs returns the number of imported functions
func (m *Module) NumImportedFuncs() int {
	return m.countImports(KindFunc)
}

// NumImportedGlobals returns the number of imported globals
func (m *Module) NumImportedGlobals() int {
	return m.countImports(KindGlobal)
}

// NumImportedTables returns the number of imported tables
func (m *Module) NumImportedTables() int {
	return m.countImports(KindTable)
}

// NumImportedMemories returns the number of imported memories
func (m *Module) NumImportedMemories() int {
	return m.countImports(KindMemory)
}

// NumImportedEvents returns the number of imported events
func (m *Module) NumImportedEvents() int {
	return m.countImports(KindEvent)
}

func (m *Module) countImports(kind byte) int {
	count := 0
	for _, imp := range m.Imports {
		if imp.Desc.Kind == kind {
			count++
		}
	}
	return count
}

// GetFuncType returns the type of a function by its index in the
// function index space (imports first), or nil if out of range.
func (m *Module) GetFuncType(funcIdx uint32) *FuncType {
	for i := range m.Imports {
		if m.Imports[i].Desc.Kind != KindFunc {
			continue
		}
		if funcIdx == 0 {
			return m.typeByIdx(m.Imports[i].Desc.TypeIdx)
		}
		funcIdx--
	}
	if int(funcIdx) >= len(m.Funcs) {
		return nil
	}
	return m.typeByIdx(m.Funcs[funcIdx].TypeIdx)
}

func (m *Module) typeByIdx(typeIdx uint32) *FuncType {
	if int(typeIdx) >= len(m.Types) {
		return nil
	}
	return &m.Types[typeIdx]
}

// AddType adds a function type and returns its index, reusing an
// existing equal signature.
func (m *Module) AddType(ft FuncType) uint32 {
	for i, t := range m.Types {
		if t.Equal(ft) {
			return uint32(i)
		}
	}
	idx := uint32(len(m.Types))
	m.Types = append(m.Types, ft)
	return idx
}
