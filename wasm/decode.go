package wasm

import (
	"github.com/wippyai/wasm-tools/errors"
	"github.com/wippyai/wasm-tools/wasm/internal/binary"
)

// DecodeModule decodes a module binary into a Module view, appending
// every diagnostic to sink. Decoding never aborts early: a failed entity
// truncates its own section's entries, a failed section frame stops the
// scan, and everything decoded up to that point is returned. Byte-slice
// fields of the result alias data.
func DecodeModule(data []byte, features Features, sink *errors.Sink) *Module {
	m := &Module{}
	seen := make(map[SectionID]bool)
	lastOrder := 0

	it := Sections(data, sink)
	for {
		sec, ok := it.Next()
		if !ok {
			break
		}
		debugf("section %s: %d payload bytes at 0x%x", sec.ID, len(sec.Payload), sec.PayloadLoc.Begin)
		if sec.ID == SectionCustom {
			m.CustomSections = append(m.CustomSections, CustomSection{
				Name: sec.Name,
				Data: sec.Payload,
				Loc:  sec.Loc,
			})
			continue
		}

		if seen[sec.ID] {
			sink.Errorf(errors.KindDuplicateSection, sec.Loc.Begin,
				"%s section appears twice", sec.ID)
			continue
		}
		seen[sec.ID] = true

		// Known sections must appear in canonical order, which differs
		// from raw id order around the event and datacount sections.
		if order := sectionOrder(sec.ID); order <= lastOrder {
			sink.Errorf(errors.KindBadSectionOrder, sec.Loc.Begin,
				"%s section out of order", sec.ID)
		} else {
			lastOrder = order
		}

		decodeSection(m, sec, features, sink)
	}
	return m
}

// ParseModule decodes data with all features enabled and returns the
// first diagnostic as an error, if any.
func ParseModule(data []byte) (*Module, error) {
	sink := errors.NewSink()
	m := DecodeModule(data, FeaturesAll, sink)
	if !sink.Empty() {
		return m, sink.Errors()[0]
	}
	return m, nil
}

// sectionOrder returns the canonical ordering for a section id.
// The event section sits between memory and global; datacount precedes
// code.
func sectionOrder(id SectionID) int {
	switch id {
	case SectionType:
		return 1
	case SectionImport:
		return 2
	case SectionFunction:
		return 3
	case SectionTable:
		return 4
	case SectionMemory:
		return 5
	case SectionEvent:
		return 6
	case SectionGlobal:
		return 7
	case SectionExport:
		return 8
	case SectionStart:
		return 9
	case SectionElement:
		return 10
	case SectionDataCount:
		return 11
	case SectionCode:
		return 12
	case SectionData:
		return 13
	default:
		return 100
	}
}

func decodeSection(m *Module, sec Section, features Features, sink *errors.Sink) {
	entries := sec.Entries(features, sink)
	for {
		entry, ok := entries.Next()
		if !ok {
			return
		}
		switch v := entry.Value.(type) {
		case *FuncType:
			v.Loc = entry.Loc
			m.Types = append(m.Types, *v)
		case *Import:
			v.Loc = entry.Loc
			m.Imports = append(m.Imports, *v)
		case *Func:
			v.Loc = entry.Loc
			m.Funcs = append(m.Funcs, *v)
		case *TableType:
			m.Tables = append(m.Tables, *v)
		case *MemoryType:
			m.Memories = append(m.Memories, *v)
		case *Global:
			v.Loc = entry.Loc
			m.Globals = append(m.Globals, *v)
		case *Export:
			v.Loc = entry.Loc
			m.Exports = append(m.Exports, *v)
		case *uint32:
			if sec.ID == SectionStart {
				m.Start = v
				m.StartLoc = entry.Loc
			} else {
				m.DataCount = v
			}
		case *Element:
			v.Loc = entry.Loc
			m.Elements = append(m.Elements, *v)
		case *FuncBody:
			v.Loc = entry.Loc
			m.Code = append(m.Code, *v)
		case *DataSegment:
			v.Loc = entry.Loc
			m.Data = append(m.Data, *v)
		case *EventType:
			v.Loc = entry.Loc
			m.Events = append(m.Events, *v)
		}
	}
}

func readValType(r *binary.Reader) (ValType, error) {
	pos := r.Position()
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	vt := ValType(b)
	switch vt {
	case ValI32, ValI64, ValF32, ValF64, ValV128,
		ValFuncRef, ValExternRef, ValNullRef, ValExnRef:
		return vt, nil
	}
	return 0, errors.New(errors.KindUnknownValueType, pos, "unknown value type 0x%02x", b)
}

func readValTypes(r *binary.Reader) ([]ValType, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if int(count) > r.Len() {
		return nil, errors.New(errors.KindLengthMismatch, r.Position(),
			"type count %d exceeds remaining bytes", count)
	}
	types := make([]ValType, count)
	for i := range types {
		if types[i], err = readValType(r); err != nil {
			return nil, err
		}
	}
	return types, nil
}

func readFuncType(r *binary.Reader) (FuncType, error) {
	pos := r.Position()
	form, err := r.ReadByte()
	if err != nil {
		return FuncType{}, err
	}
	if form != FuncTypeByte {
		return FuncType{}, errors.New(errors.KindUnknownValueType, pos,
			"expected functype (0x60), got 0x%02x", form)
	}
	params, err := readValTypes(r)
	if err != nil {
		return FuncType{}, err
	}
	results, err := readValTypes(r)
	if err != nil {
		return FuncType{}, err
	}
	return FuncType{Params: params, Results: results}, nil
}

func readLimits(r *binary.Reader) (Limits, error) {
	pos := r.Position()
	flags, err := r.ReadU32()
	if err != nil {
		return Limits{}, err
	}
	if flags&^uint32(LimitsHasMax|LimitsShared|LimitsMemory64) != 0 {
		return Limits{}, errors.New(errors.KindBadLimits, pos, "unknown limits flags 0x%x", flags)
	}

	l := Limits{
		Shared:   flags&uint32(LimitsShared) != 0,
		Memory64: flags&uint32(LimitsMemory64) != 0,
	}

	if l.Memory64 {
		if l.Min, err = r.ReadU64(); err != nil {
			return Limits{}, err
		}
		if flags&uint32(LimitsHasMax) != 0 {
			maxVal, err := r.ReadU64()
			if err != nil {
				return Limits{}, err
			}
			l.Max = &maxVal
		}
	} else {
		minVal, err := r.ReadU32()
		if err != nil {
			return Limits{}, err
		}
		l.Min = uint64(minVal)
		if flags&uint32(LimitsHasMax) != 0 {
			maxVal, err := r.ReadU32()
			if err != nil {
				return Limits{}, err
			}
			max64 := uint64(maxVal)
			l.Max = &max64
		}
	}
	return l, nil
}

func readTableType(r *binary.Reader, features Features) (TableType, error) {
	elemType, err := readValType(r)
	if err != nil {
		return TableType{}, err
	}
	limits, err := readLimits(r)
	if err != nil {
		return TableType{}, err
	}
	return TableType{ElemType: elemType, Limits: limits}, nil
}

func readMemoryType(r *binary.Reader) (MemoryType, error) {
	limits, err := readLimits(r)
	if err != nil {
		return MemoryType{}, err
	}
	return MemoryType{Limits: limits}, nil
}

func readGlobalType(r *binary.Reader) (GlobalType, error) {
	valType, err := readValType(r)
	if err != nil {
		return GlobalType{}, err
	}
	mut, err := r.ReadByte()
	if err != nil {
		return GlobalType{}, err
	}
	if mut > 1 {
		return GlobalType{}, errors.New(errors.KindBadLimits, r.Position()-1,
			"invalid mutability flag 0x%02x", mut)
	}
	return GlobalType{ValType: valType, Mutable: mut != 0}, nil
}

func readEventType(r *binary.Reader) (EventType, error) {
	attribute, err := r.ReadU32()
	if err != nil {
		return EventType{}, err
	}
	typeIdx, err := r.ReadU32()
	if err != nil {
		return EventType{}, err
	}
	return EventType{Attribute: byte(attribute), TypeIdx: typeIdx}, nil
}

func readImport(r *binary.Reader, features Features) (Import, error) {
	module, err := r.ReadName()
	if err != nil {
		return Import{}, err
	}
	name, err := r.ReadName()
	if err != nil {
		return Import{}, err
	}
	kindPos := r.Position()
	kind, err := r.ReadByte()
	if err != nil {
		return Import{}, err
	}

	imp := Import{Module: module, Name: name, Desc: ImportDesc{Kind: kind}}

	switch kind {
	case KindFunc:
		if imp.Desc.TypeIdx, err = r.ReadU32(); err != nil {
			return Import{}, err
		}
	case KindTable:
		table, err := readTableType(r, features)
		if err != nil {
			return Import{}, err
		}
		imp.Desc.Table = &table
	case KindMemory:
		memory, err := readMemoryType(r)
		if err != nil {
			return Import{}, err
		}
		imp.Desc.Memory = &memory
	case KindGlobal:
		global, err := readGlobalType(r)
		if err != nil {
			return Import{}, err
		}
		imp.Desc.Global = &global
	case KindEvent:
		event, err := readEventType(r)
		if err != nil {
			return Import{}, err
		}
		imp.Desc.Event = &event
	default:
		return Import{}, errors.New(errors.KindUnknownValueType, kindPos,
			"unknown import kind %d", kind)
	}
	return imp, nil
}

func readExport(r *binary.Reader) (Export, error) {
	name, err := r.ReadName()
	if err != nil {
		return Export{}, err
	}
	kindPos := r.Position()
	kind, err := r.ReadByte()
	if err != nil {
		return Export{}, err
	}
	if kind > KindEvent {
		return Export{}, errors.New(errors.KindUnknownValueType, kindPos,
			"unknown export kind 0x%02x", kind)
	}
	idx, err := r.ReadU32()
	if err != nil {
		return Export{}, err
	}
	return Export{Name: name, Kind: kind, Idx: idx}, nil
}

func readGlobal(r *binary.Reader, features Features, sink *errors.Sink) (Global, error) {
	globalType, err := readGlobalType(r)
	if err != nil {
		return Global{}, err
	}
	init, err := readConstExpr(r, features, sink)
	if err != nil {
		return Global{}, err
	}
	return Global{Type: globalType, Init: init}, nil
}

// readConstExpr reads a constant expression: at most one producer
// instruction followed by end. Producers outside the allowed set are
// recorded as InvalidConstExpr but the expression is still consumed up
// to its end so decoding can continue.
func readConstExpr(r *binary.Reader, features Features, sink *errors.Sink) (ConstExpr, error) {
	sink.PushContext("constexpr")
	defer sink.PopContext()

	start := r.Position()
	instr, err := ReadInstruction(r, features)
	if err != nil {
		return ConstExpr{}, err
	}

	expr := ConstExpr{Instr: instr}
	if instr.Opcode != OpEnd {
		switch instr.Opcode {
		case OpI32Const, OpI64Const, OpF32Const, OpF64Const, OpGlobalGet,
			OpRefNull, OpRefFunc, OpV128Const:
		default:
			sink.Errorf(errors.KindInvalidConstExpr, instr.Loc.Begin,
				"%s is not a constant instruction", instr.Opcode)
		}
		endPos := r.Position()
		end, err := ReadInstruction(r, features)
		if err != nil {
			return ConstExpr{}, err
		}
		if end.Opcode != OpEnd {
			return ConstExpr{}, errors.New(errors.KindInvalidConstExpr, endPos,
				"constant expression must end after one instruction, got %s", end.Opcode)
		}
	} else {
		sink.Errorf(errors.KindInvalidConstExpr, start, "empty constant expression")
	}

	expr.Raw = r.Since(start)
	expr.Loc = Location{Begin: start, End: r.Position()}
	return expr, nil
}

func readElement(r *binary.Reader, features Features, sink *errors.Sink) (Element, error) {
	flagsPos := r.Position()
	flags, err := r.ReadU32()
	if err != nil {
		return Element{}, err
	}
	if flags > ElemFlagsMax {
		return Element{}, errors.New(errors.KindBadLimits, flagsPos,
			"invalid element segment flags %d", flags)
	}

	elem := Element{Flags: flags, Type: ValFuncRef}

	hasTableIdx := flags&ElemFlagExplicitIdx != 0 && flags&ElemFlagPassive == 0
	hasOffset := flags&ElemFlagPassive == 0
	usesExprs := flags&ElemFlagExpressions != 0

	if hasTableIdx {
		if elem.TableIdx, err = r.ReadU32(); err != nil {
			return Element{}, err
		}
	}
	if hasOffset {
		offset, err := readConstExpr(r, features, sink)
		if err != nil {
			return Element{}, err
		}
		elem.Offset = &offset
	}

	// Flags 1-3 carry an elemkind byte, flags 5-7 a reference type.
	if flags&(ElemFlagPassive|ElemFlagExplicitIdx) != 0 {
		if usesExprs {
			if elem.Type, err = readValType(r); err != nil {
				return Element{}, err
			}
		} else {
			if elem.ElemKind, err = r.ReadByte(); err != nil {
				return Element{}, err
			}
		}
	}

	count, err := r.ReadU32()
	if err != nil {
		return Element{}, err
	}
	if int(count) > r.Len() {
		return Element{}, errors.New(errors.KindLengthMismatch, r.Position(),
			"element count %d exceeds remaining bytes", count)
	}

	if usesExprs {
		elem.Exprs = make([]ConstExpr, count)
		for i := range elem.Exprs {
			if elem.Exprs[i], err = readConstExpr(r, features, sink); err != nil {
				return Element{}, err
			}
		}
	} else {
		elem.FuncIdxs = make([]uint32, count)
		for i := range elem.FuncIdxs {
			if elem.FuncIdxs[i], err = r.ReadU32(); err != nil {
				return Element{}, err
			}
		}
	}
	return elem, nil
}

func readFuncBody(r *binary.Reader, sink *errors.Sink) (FuncBody, error) {
	sink.PushContext("func")
	defer sink.PopContext()

	sizePos := r.Position()
	bodySize, err := r.ReadU32()
	if err != nil {
		return FuncBody{}, err
	}
	if int(bodySize) > r.Len() {
		return FuncBody{}, errors.New(errors.KindLengthMismatch, sizePos,
			"body size %d exceeds remaining %d bytes", bodySize, r.Len())
	}

	br, _ := r.Sub(int(bodySize))

	localCount, err := br.ReadU32()
	if err != nil {
		return FuncBody{}, err
	}
	var locals []LocalEntry
	for i := uint32(0); i < localCount; i++ {
		n, err := br.ReadU32()
		if err != nil {
			return FuncBody{}, err
		}
		t, err := readValType(br)
		if err != nil {
			return FuncBody{}, err
		}
		locals = append(locals, LocalEntry{Count: n, ValType: t})
	}

	return FuncBody{Locals: locals, Code: br.ReadRemaining()}, nil
}

func readDataSegment(r *binary.Reader, features Features, sink *errors.Sink) (DataSegment, error) {
	flagsPos := r.Position()
	flags, err := r.ReadU32()
	if err != nil {
		return DataSegment{}, err
	}
	if flags > DataFlagsMax {
		return DataSegment{}, errors.New(errors.KindBadLimits, flagsPos,
			"invalid data segment flags %d", flags)
	}

	seg := DataSegment{Flags: flags}

	if flags == DataFlagExplicitIdx {
		if seg.MemIdx, err = r.ReadU32(); err != nil {
			return DataSegment{}, err
		}
	}
	if flags != DataFlagPassive {
		offset, err := readConstExpr(r, features, sink)
		if err != nil {
			return DataSegment{}, err
		}
		seg.Offset = &offset
	}

	initLen, err := r.ReadU32()
	if err != nil {
		return DataSegment{}, err
	}
	if seg.Init, err = r.ReadBytes(int(initLen)); err != nil {
		return DataSegment{}, err
	}
	return seg, nil
}
