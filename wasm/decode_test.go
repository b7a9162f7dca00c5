package wasm_test

import (
	"bytes"
	"testing"

	"github.com/wippyai/wasm-tools/errors"
	"github.com/wippyai/wasm-tools/wasm"
)

var header = []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

func decode(t *testing.T, data []byte) (*wasm.Module, *errors.Sink) {
	t.Helper()
	sink := errors.NewSink()
	m := wasm.DecodeModule(data, wasm.FeaturesAll, sink)
	return m, sink
}

func TestDecodeEmptyModule(t *testing.T) {
	m, sink := decode(t, header)
	if !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
	if len(m.Types) != 0 || len(m.Funcs) != 0 || len(m.CustomSections) != 0 {
		t.Error("empty module should have no sections")
	}
}

func TestDecodeBadVersion(t *testing.T) {
	data := []byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00}
	_, sink := decode(t, data)
	if sink.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", sink.Errors())
	}
	e := sink.Errors()[0]
	if e.Kind != errors.KindBadVersion {
		t.Errorf("kind = %s, want bad_version", e.Kind)
	}
	if e.Begin != 4 {
		t.Errorf("offset = %d, want 4", e.Begin)
	}
}

func TestDecodeBadMagicStillScansSections(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x04, 0x01, 0x60, 0x00, 0x00}
	m, sink := decode(t, data)
	if !sink.HasKind(errors.KindBadMagic) {
		t.Fatal("expected a bad_magic diagnostic")
	}
	if len(m.Types) != 1 {
		t.Error("section scan should continue after a bad magic")
	}
}

func TestDecodeTypeSection(t *testing.T) {
	data := append(append([]byte{}, header...), 0x01, 0x04, 0x01, 0x60, 0x00, 0x00)
	m, sink := decode(t, data)
	if !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
	if len(m.Types) != 1 {
		t.Fatalf("expected 1 type, got %d", len(m.Types))
	}
	ft := m.Types[0]
	if len(ft.Params) != 0 || len(ft.Results) != 0 {
		t.Errorf("expected [] -> [], got %s", ft)
	}
	if ft.Loc.Begin != 11 || ft.Loc.End != 14 {
		t.Errorf("type location [%d, %d), want [11, 14)", ft.Loc.Begin, ft.Loc.End)
	}
}

func TestDecodeSectionLengthOverrun(t *testing.T) {
	// Section declares 9 payload bytes but only 3 remain.
	data := append(append([]byte{}, header...), 0x01, 0x09, 0x01, 0x60, 0x00)
	_, sink := decode(t, data)
	if sink.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %v", sink.Errors())
	}
	e := sink.Errors()[0]
	if e.Kind != errors.KindLengthMismatch {
		t.Errorf("kind = %s, want length_mismatch", e.Kind)
	}
	if e.Begin != 8 {
		t.Errorf("offset = %d, want the section header offset 8", e.Begin)
	}
}

func TestDecodeSectionOrder(t *testing.T) {
	// Function section before type section.
	data := append(append([]byte{}, header...),
		0x03, 0x02, 0x01, 0x00, // function section
		0x01, 0x04, 0x01, 0x60, 0x00, 0x00) // type section
	_, sink := decode(t, data)
	if !sink.HasKind(errors.KindBadSectionOrder) {
		t.Fatalf("expected bad_section_order, got %v", sink.Errors())
	}
}

func TestDecodeDuplicateSection(t *testing.T) {
	data := append(append([]byte{}, header...),
		0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
		0x01, 0x04, 0x01, 0x60, 0x00, 0x00)
	m, sink := decode(t, data)
	if !sink.HasKind(errors.KindDuplicateSection) {
		t.Fatalf("expected duplicate_section, got %v", sink.Errors())
	}
	if len(m.Types) != 1 {
		t.Errorf("duplicate section must not be merged, have %d types", len(m.Types))
	}
}

func TestDecodeCustomSection(t *testing.T) {
	data := append(append([]byte{}, header...),
		0x00, 0x07, 0x04, 'n', 'a', 'm', 'e', 0xAB, 0xCD)
	m, sink := decode(t, data)
	if !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
	if len(m.CustomSections) != 1 {
		t.Fatal("expected one custom section")
	}
	cs := m.CustomSections[0]
	if cs.Name != "name" || !bytes.Equal(cs.Data, []byte{0xAB, 0xCD}) {
		t.Errorf("custom section = %q % x", cs.Name, cs.Data)
	}
	// Payload bytes must alias the input, not copy it.
	if &cs.Data[0] != &data[len(data)-2] {
		t.Error("custom section payload was copied")
	}
}

func TestDecodeEntityErrorRecoversAtNextSection(t *testing.T) {
	// The import section's only entry has an unknown kind; the export
	// section after it must still decode.
	data := append(append([]byte{}, header...),
		0x02, 0x06, 0x01, 0x01, 'm', 0x01, 'n', 0x09, // import with kind 9
		0x07, 0x05, 0x01, 0x01, 'e', 0x00, 0x00) // export "e" func 0
	m, sink := decode(t, data)
	if !sink.HasKind(errors.KindUnknownValueType) {
		t.Fatalf("expected a diagnostic for the bad import, got %v", sink.Errors())
	}
	if len(m.Exports) != 1 || m.Exports[0].Name != "e" {
		t.Error("a failed entity must not stop the enclosing section iterator")
	}
}

func TestDecodeGlobalConstExpr(t *testing.T) {
	data := append(append([]byte{}, header...),
		0x06, 0x06, 0x01, 0x7F, 0x00, 0x41, 0x2A, 0x0B) // (global i32 (i32.const 42))
	m, sink := decode(t, data)
	if !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
	if len(m.Globals) != 1 {
		t.Fatal("expected one global")
	}
	g := m.Globals[0]
	if g.Type.ValType != wasm.ValI32 || g.Type.Mutable {
		t.Errorf("global type = %+v", g.Type)
	}
	imm, ok := g.Init.Instr.Imm.(wasm.I32Imm)
	if !ok || imm.Value != 42 {
		t.Errorf("init = %+v", g.Init.Instr)
	}
	if !bytes.Equal(g.Init.Raw, []byte{0x41, 0x2A, 0x0B}) {
		t.Errorf("raw init bytes = % x", g.Init.Raw)
	}
}

func TestDecodeConstExprTwoProducers(t *testing.T) {
	data := append(append([]byte{}, header...),
		0x06, 0x07, 0x01, 0x7F, 0x00, 0x41, 0x2A, 0x41, 0x0B)
	_, sink := decode(t, data)
	if !sink.HasKind(errors.KindInvalidConstExpr) {
		t.Fatalf("expected invalid_const_expr, got %v", sink.Errors())
	}
}

func TestDecodeCodeBodies(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{{Results: []wasm.ValType{wasm.ValI32}}},
		Funcs: []wasm.Func{{TypeIdx: 0}},
		Code: []wasm.FuncBody{{
			Locals: []wasm.LocalEntry{{Count: 2, ValType: wasm.ValI64}},
			Code:   []byte{0x41, 0x01, 0x0B},
		}},
	}
	data := m.Encode()
	decoded, sink := decode(t, data)
	if !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
	if len(decoded.Code) != 1 {
		t.Fatal("expected one body")
	}
	body := decoded.Code[0]
	if len(body.Locals) != 1 || body.Locals[0].Count != 2 || body.Locals[0].ValType != wasm.ValI64 {
		t.Errorf("locals = %+v", body.Locals)
	}
	if !bytes.Equal(body.Code, []byte{0x41, 0x01, 0x0B}) {
		t.Errorf("code = % x", body.Code)
	}
}

func TestDecodeEventSection(t *testing.T) {
	data := append(append([]byte{}, header...),
		0x01, 0x04, 0x01, 0x60, 0x00, 0x00, // type section
		0x0D, 0x03, 0x01, 0x00, 0x00) // event section: attribute 0, type 0
	m, sink := decode(t, data)
	if !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
	if len(m.Events) != 1 || m.Events[0].TypeIdx != 0 {
		t.Errorf("events = %+v", m.Events)
	}
}

func TestDecodeDataCount(t *testing.T) {
	count := uint32(1)
	m := &wasm.Module{
		Memories:  []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}},
		DataCount: &count,
		Data:      []wasm.DataSegment{{Flags: 1, Init: []byte{1, 2}}},
	}
	decoded, sink := decode(t, m.Encode())
	if !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
	if decoded.DataCount == nil || *decoded.DataCount != 1 {
		t.Error("datacount not decoded")
	}
	if len(decoded.Data) != 1 || !decoded.Data[0].IsPassive() {
		t.Errorf("data = %+v", decoded.Data)
	}
}

func TestParseModuleReturnsFirstError(t *testing.T) {
	_, err := wasm.ParseModule([]byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00})
	e, ok := errors.As(err)
	if !ok || e.Kind != errors.KindBadVersion {
		t.Fatalf("expected bad_version, got %v", err)
	}
}
