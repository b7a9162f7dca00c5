package wasm

import (
	"github.com/wippyai/wasm-tools/wasm/internal/binary"
)

// Encode encodes the module back to WebAssembly binary format. Sections
// are emitted in canonical order; integers use their shortest LEB128
// form, so decode followed by Encode reproduces canonically-encoded
// input byte for byte.
func (m *Module) Encode() []byte {
	w := binary.NewWriter()

	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)

	if len(m.Types) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Types)))
		for _, ft := range m.Types {
			sec.Byte(FuncTypeByte)
			writeValTypes(sec, ft.Params)
			writeValTypes(sec, ft.Results)
		}
		writeSection(w, SectionType, sec.Bytes())
	}

	if len(m.Imports) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Imports)))
		for _, imp := range m.Imports {
			sec.WriteName(imp.Module)
			sec.WriteName(imp.Name)
			sec.Byte(imp.Desc.Kind)
			switch imp.Desc.Kind {
			case KindFunc:
				sec.WriteU32(imp.Desc.TypeIdx)
			case KindTable:
				if imp.Desc.Table != nil {
					writeTableType(sec, *imp.Desc.Table)
				}
			case KindMemory:
				if imp.Desc.Memory != nil {
					writeMemoryType(sec, *imp.Desc.Memory)
				}
			case KindGlobal:
				if imp.Desc.Global != nil {
					writeGlobalType(sec, *imp.Desc.Global)
				}
			case KindEvent:
				if imp.Desc.Event != nil {
					writeEventType(sec, *imp.Desc.Event)
				}
			}
		}
		writeSection(w, SectionImport, sec.Bytes())
	}

	if len(m.Funcs) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Funcs)))
		for _, fn := range m.Funcs {
			sec.WriteU32(fn.TypeIdx)
		}
		writeSection(w, SectionFunction, sec.Bytes())
	}

	if len(m.Tables) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Tables)))
		for _, t := range m.Tables {
			writeTableType(sec, t)
		}
		writeSection(w, SectionTable, sec.Bytes())
	}

	if len(m.Memories) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Memories)))
		for _, mem := range m.Memories {
			writeMemoryType(sec, mem)
		}
		writeSection(w, SectionMemory, sec.Bytes())
	}

	// Event section sits between memory and global.
	if len(m.Events) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Events)))
		for _, ev := range m.Events {
			writeEventType(sec, ev)
		}
		writeSection(w, SectionEvent, sec.Bytes())
	}

	if len(m.Globals) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Globals)))
		for _, g := range m.Globals {
			writeGlobalType(sec, g.Type)
			sec.WriteBytes(g.Init.Raw)
		}
		writeSection(w, SectionGlobal, sec.Bytes())
	}

	if len(m.Exports) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Exports)))
		for _, exp := range m.Exports {
			sec.WriteName(exp.Name)
			sec.Byte(exp.Kind)
			sec.WriteU32(exp.Idx)
		}
		writeSection(w, SectionExport, sec.Bytes())
	}

	if m.Start != nil {
		sec := binary.NewWriter()
		sec.WriteU32(*m.Start)
		writeSection(w, SectionStart, sec.Bytes())
	}

	if len(m.Elements) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Elements)))
		for _, elem := range m.Elements {
			sec.WriteU32(elem.Flags)

			hasTableIdx := elem.Flags&ElemFlagExplicitIdx != 0 && elem.Flags&ElemFlagPassive == 0
			usesExprs := elem.Flags&ElemFlagExpressions != 0

			if hasTableIdx {
				sec.WriteU32(elem.TableIdx)
			}
			if elem.Offset != nil {
				sec.WriteBytes(elem.Offset.Raw)
			}

			// Flags 1-3 carry an elemkind byte, flags 5-7 a reference type.
			if elem.Flags&(ElemFlagPassive|ElemFlagExplicitIdx) != 0 {
				if usesExprs {
					sec.Byte(byte(elem.Type))
				} else {
					sec.Byte(elem.ElemKind)
				}
			}

			if usesExprs {
				sec.WriteU32(uint32(len(elem.Exprs)))
				for _, expr := range elem.Exprs {
					sec.WriteBytes(expr.Raw)
				}
			} else {
				sec.WriteU32(uint32(len(elem.FuncIdxs)))
				for _, idx := range elem.FuncIdxs {
					sec.WriteU32(idx)
				}
			}
		}
		writeSection(w, SectionElement, sec.Bytes())
	}

	// DataCount must appear before the code section.
	if m.DataCount != nil {
		sec := binary.NewWriter()
		sec.WriteU32(*m.DataCount)
		writeSection(w, SectionDataCount, sec.Bytes())
	}

	if len(m.Code) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Code)))
		for _, body := range m.Code {
			bodyBuf := binary.NewWriter()
			bodyBuf.WriteU32(uint32(len(body.Locals)))
			for _, local := range body.Locals {
				bodyBuf.WriteU32(local.Count)
				bodyBuf.Byte(byte(local.ValType))
			}
			bodyBuf.WriteBytes(body.Code)
			sec.WriteU32(uint32(bodyBuf.Len()))
			sec.WriteBytes(bodyBuf.Bytes())
		}
		writeSection(w, SectionCode, sec.Bytes())
	}

	if len(m.Data) > 0 {
		sec := binary.NewWriter()
		sec.WriteU32(uint32(len(m.Data)))
		for _, d := range m.Data {
			sec.WriteU32(d.Flags)
			if d.Flags == DataFlagExplicitIdx {
				sec.WriteU32(d.MemIdx)
			}
			if d.Offset != nil {
				sec.WriteBytes(d.Offset.Raw)
			}
			sec.WriteU32(uint32(len(d.Init)))
			sec.WriteBytes(d.Init)
		}
		writeSection(w, SectionData, sec.Bytes())
	}

	// Custom sections (at end)
	for _, cs := range m.CustomSections {
		sec := binary.NewWriter()
		sec.WriteName(cs.Name)
		sec.WriteBytes(cs.Data)
		writeSection(w, SectionCustom, sec.Bytes())
	}

	return w.Bytes()
}

func writeSection(w *binary.Writer, id SectionID, data []byte) {
	w.Byte(byte(id))
	w.WriteU32(uint32(len(data)))
	w.WriteBytes(data)
}

func writeValTypes(w *binary.Writer, types []ValType) {
	w.WriteU32(uint32(len(types)))
	for _, t := range types {
		w.Byte(byte(t))
	}
}

func writeLimits(w *binary.Writer, l Limits) {
	var flags byte
	if l.Max != nil {
		flags |= LimitsHasMax
	}
	if l.Shared {
		flags |= LimitsShared
	}
	if l.Memory64 {
		flags |= LimitsMemory64
	}
	w.Byte(flags)

	if l.Memory64 {
		w.WriteU64(l.Min)
		if l.Max != nil {
			w.WriteU64(*l.Max)
		}
	} else {
		w.WriteU32(uint32(l.Min))
		if l.Max != nil {
			w.WriteU32(uint32(*l.Max))
		}
	}
}

func writeTableType(w *binary.Writer, t TableType) {
	w.Byte(byte(t.ElemType))
	writeLimits(w, t.Limits)
}

func writeMemoryType(w *binary.Writer, m MemoryType) {
	writeLimits(w, m.Limits)
}

func writeGlobalType(w *binary.Writer, g GlobalType) {
	w.Byte(byte(g.ValType))
	if g.Mutable {
		w.Byte(1)
	} else {
		w.Byte(0)
	}
}

func writeEventType(w *binary.Writer, ev EventType) {
	w.WriteU32(uint32(ev.Attribute))
	w.WriteU32(ev.TypeIdx)
}

// EncodeInstructionTo writes a single instruction to the writer.
func EncodeInstructionTo(w *binary.Writer, instr *Instruction) {
	if prefix, ok := instr.Opcode.Prefix(); ok {
		w.Byte(prefix)
		w.WriteU32(instr.Opcode.Sub())
	} else {
		w.Byte(byte(instr.Opcode))
	}

	switch imm := instr.Imm.(type) {
	case nil:
	case BlockImm:
		w.WriteS33(int64(imm.Type))
	case BranchImm:
		w.WriteU32(imm.LabelIdx)
	case BrTableImm:
		w.WriteU32(uint32(len(imm.Labels)))
		for _, l := range imm.Labels {
			w.WriteU32(l)
		}
		w.WriteU32(imm.Default)
	case BrOnExnImm:
		w.WriteU32(imm.LabelIdx)
		w.WriteU32(imm.EventIdx)
	case CallImm:
		w.WriteU32(imm.FuncIdx)
	case CallIndirectImm:
		w.WriteU32(imm.TypeIdx)
		w.WriteU32(imm.TableIdx)
	case LocalImm:
		w.WriteU32(imm.LocalIdx)
	case GlobalImm:
		w.WriteU32(imm.GlobalIdx)
	case TableImm:
		w.WriteU32(imm.TableIdx)
	case EventImm:
		w.WriteU32(imm.EventIdx)
	case MemoryImm:
		w.WriteU32(imm.Align)
		w.WriteU64(imm.Offset)
	case MemIdxImm:
		w.WriteU32(imm.MemIdx)
	case I32Imm:
		w.WriteS32(imm.Value)
	case I64Imm:
		w.WriteS64(imm.Value)
	case F32Imm:
		w.WriteF32(imm.Value)
	case F64Imm:
		w.WriteF64(imm.Value)
	case V128Imm:
		w.WriteBytes(imm.Bytes)
	case ShuffleImm:
		w.WriteBytes(imm.Lanes)
	case LaneImm:
		w.Byte(imm.LaneIdx)
	case MemArgLaneImm:
		w.WriteU32(imm.MemArg.Align)
		w.WriteU64(imm.MemArg.Offset)
		w.Byte(imm.LaneIdx)
	case SelectTypeImm:
		w.WriteU32(uint32(len(imm.Types)))
		for _, t := range imm.Types {
			w.Byte(byte(t))
		}
	case RefNullImm:
		w.Byte(byte(imm.Type))
	case InitImm:
		w.WriteU32(imm.SegIdx)
		w.WriteU32(imm.DstIdx)
	case SegIdxImm:
		w.WriteU32(imm.SegIdx)
	case CopyImm:
		w.WriteU32(imm.DstIdx)
		w.WriteU32(imm.SrcIdx)
	}
}

// EncodeInstructions encodes an instruction sequence to expression bytes.
func EncodeInstructions(instrs []Instruction) []byte {
	w := binary.NewWriter()
	for i := range instrs {
		EncodeInstructionTo(w, &instrs[i])
	}
	return w.Bytes()
}
