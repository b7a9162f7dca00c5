package wasm_test

import (
	"bytes"
	"testing"

	"github.com/wippyai/wasm-tools/wasm"
)

func TestEncodeEmptyModule(t *testing.T) {
	m := &wasm.Module{}
	if got := m.Encode(); !bytes.Equal(got, header) {
		t.Errorf("empty module = % x", got)
	}
}

func TestEncodeTypeSection(t *testing.T) {
	m := &wasm.Module{Types: []wasm.FuncType{{}}}
	want := append(append([]byte{}, header...), 0x01, 0x04, 0x01, 0x60, 0x00, 0x00)
	if got := m.Encode(); !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestEncodeLimits(t *testing.T) {
	max := uint64(16)
	m := &wasm.Module{
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1, Max: &max}}},
	}
	want := append(append([]byte{}, header...), 0x05, 0x04, 0x01, 0x01, 0x01, 0x10)
	if got := m.Encode(); !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

// Decoding a canonically encoded module and re-encoding it reproduces
// the bytes exactly.
func TestEncodeDecodeIdentity(t *testing.T) {
	count := uint32(1)
	m := &wasm.Module{
		Types: []wasm.FuncType{
			{Params: []wasm.ValType{wasm.ValI32, wasm.ValI64}, Results: []wasm.ValType{wasm.ValF64}},
			{},
		},
		Imports: []wasm.Import{{
			Module: "env", Name: "tick",
			Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 1},
		}},
		Funcs:    []wasm.Func{{TypeIdx: 0}},
		Tables:   []wasm.TableType{{ElemType: wasm.ValFuncRef, Limits: wasm.Limits{Min: 2}}},
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}},
		Exports: []wasm.Export{
			{Name: "f", Kind: wasm.KindFunc, Idx: 1},
			{Name: "m", Kind: wasm.KindMemory, Idx: 0},
		},
		Elements: []wasm.Element{{
			Offset: &wasm.ConstExpr{
				Instr: wasm.Instruction{Opcode: wasm.OpI32Const, Imm: wasm.I32Imm{Value: 0}},
				Raw:   []byte{0x41, 0x00, 0x0B},
			},
			FuncIdxs: []uint32{1},
		}},
		DataCount: &count,
		Code: []wasm.FuncBody{{
			Locals: []wasm.LocalEntry{{Count: 1, ValType: wasm.ValI32}},
			Code:   []byte{0x42, 0x00, 0x0B},
		}},
		Data: []wasm.DataSegment{{Flags: 1, Init: []byte("xyz")}},
		CustomSections: []wasm.CustomSection{
			{Name: "producers", Data: []byte{0x00}},
		},
	}

	first := m.Encode()
	decoded, err := wasm.ParseModule(first)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	second := decoded.Encode()
	if !bytes.Equal(first, second) {
		t.Errorf("encode/decode/encode changed bytes:\n  first  % x\n  second % x", first, second)
	}
}
