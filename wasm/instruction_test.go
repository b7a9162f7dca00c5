package wasm_test

import (
	"bytes"
	"testing"

	"github.com/wippyai/wasm-tools/errors"
	"github.com/wippyai/wasm-tools/wasm"
)

func TestDecodeInstructionsAdd(t *testing.T) {
	code := []byte{0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B}
	instrs, err := wasm.DecodeInstructions(code, wasm.FeaturesAll)
	if err != nil {
		t.Fatal(err)
	}
	want := []wasm.Opcode{wasm.OpLocalGet, wasm.OpLocalGet, wasm.OpI32Add, wasm.OpEnd}
	if len(instrs) != len(want) {
		t.Fatalf("got %d instructions, want %d", len(instrs), len(want))
	}
	for i, instr := range instrs {
		if instr.Opcode != want[i] {
			t.Errorf("instruction %d is %s, want %s", i, instr.Opcode, want[i])
		}
	}
	if imm := instrs[1].Imm.(wasm.LocalImm); imm.LocalIdx != 1 {
		t.Errorf("local index = %d", imm.LocalIdx)
	}
}

func TestDecodeInstructionLocations(t *testing.T) {
	code := []byte{0x41, 0xC0, 0x00, 0x0B} // i32.const 64, end
	instrs, err := wasm.DecodeInstructions(code, wasm.FeaturesAll)
	if err != nil {
		t.Fatal(err)
	}
	if loc := instrs[0].Loc; loc.Begin != 0 || loc.End != 3 {
		t.Errorf("const location [%d, %d), want [0, 3)", loc.Begin, loc.End)
	}
	if loc := instrs[1].Loc; loc.Begin != 3 || loc.End != 4 {
		t.Errorf("end location [%d, %d), want [3, 4)", loc.Begin, loc.End)
	}
}

func TestDecodeBrTable(t *testing.T) {
	code := []byte{0x0E, 0x02, 0x00, 0x01, 0x02, 0x0B}
	instrs, err := wasm.DecodeInstructions(code, wasm.FeaturesAll)
	if err != nil {
		t.Fatal(err)
	}
	imm := instrs[0].Imm.(wasm.BrTableImm)
	if len(imm.Labels) != 2 || imm.Labels[0] != 0 || imm.Labels[1] != 1 || imm.Default != 2 {
		t.Errorf("br_table imm = %+v", imm)
	}
}

func TestDecodePrefixedOpcodes(t *testing.T) {
	cases := map[string]struct {
		code []byte
		want wasm.Opcode
	}{
		"saturating truncation": {[]byte{0xFC, 0x00}, wasm.OpI32TruncSatF32S},
		"memory.fill":           {[]byte{0xFC, 0x0B, 0x00}, wasm.OpMemoryFill},
		"v128.not":              {[]byte{0xFD, 0x4D}, wasm.OpV128Not},
		"atomic load":           {[]byte{0xFE, 0x10, 0x02, 0x00}, wasm.OpI32AtomicLoad},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			code := append(append([]byte{}, tc.code...), 0x0B)
			instrs, err := wasm.DecodeInstructions(code, wasm.FeaturesAll)
			if err != nil {
				t.Fatal(err)
			}
			if instrs[0].Opcode != tc.want {
				t.Errorf("opcode = %s, want %s", instrs[0].Opcode, tc.want)
			}
		})
	}
}

func TestDecodeV128Const(t *testing.T) {
	code := []byte{0xFD, 0x0C}
	code = append(code, bytes.Repeat([]byte{0x11}, 16)...)
	code = append(code, 0x0B)
	instrs, err := wasm.DecodeInstructions(code, wasm.FeaturesAll)
	if err != nil {
		t.Fatal(err)
	}
	imm := instrs[0].Imm.(wasm.V128Imm)
	if len(imm.Bytes) != 16 || imm.Bytes[0] != 0x11 {
		t.Errorf("v128 imm = % x", imm.Bytes)
	}
	// The constant aliases the code buffer.
	if &imm.Bytes[0] != &code[2] {
		t.Error("v128 constant was copied")
	}
}

func TestDecodeBrOnExn(t *testing.T) {
	code := []byte{0x0A, 0x01, 0x02, 0x0B} // br_on_exn label 1, event 2
	instrs, err := wasm.DecodeInstructions(code, wasm.FeaturesAll)
	if err != nil {
		t.Fatal(err)
	}
	imm := instrs[0].Imm.(wasm.BrOnExnImm)
	if imm.LabelIdx != 1 || imm.EventIdx != 2 {
		t.Errorf("br_on_exn imm = %+v", imm)
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	_, err := wasm.DecodeInstructions([]byte{0xFF, 0x0B}, wasm.FeaturesAll)
	if e, ok := errors.As(err); !ok || e.Kind != errors.KindUnknownOpcode {
		t.Fatalf("expected unknown_opcode, got %v", err)
	}
}

func TestDecodeUnknownSubOpcode(t *testing.T) {
	_, err := wasm.DecodeInstructions([]byte{0xFC, 0x70, 0x0B}, wasm.FeaturesAll)
	if e, ok := errors.As(err); !ok || e.Kind != errors.KindUnknownOpcode {
		t.Fatalf("expected unknown_opcode, got %v", err)
	}
}

// An overlong sub-opcode encoding reports overlong_leb128, not
// unknown_opcode.
func TestDecodeOverlongSubOpcode(t *testing.T) {
	_, err := wasm.DecodeInstructions([]byte{0xFD, 0x80, 0x80, 0x80, 0x80, 0x80, 0x0B}, wasm.FeaturesAll)
	if e, ok := errors.As(err); !ok || e.Kind != errors.KindOverlongLEB {
		t.Fatalf("expected overlong_leb128, got %v", err)
	}
}

func TestInstructionEncodeRoundTrip(t *testing.T) {
	bodies := map[string][]byte{
		"add":        {0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B},
		"block/loop": {0x02, 0x40, 0x03, 0x7F, 0x41, 0x01, 0x0C, 0x00, 0x0B, 0x0B, 0x0B},
		"memarg":     {0x28, 0x02, 0x08, 0x1A, 0x0B},
		"prefixed":   {0xFC, 0x0A, 0x00, 0x00, 0x0B},
		"shuffle": append(append([]byte{0xFD, 0x0D},
			bytes.Repeat([]byte{0x00}, 16)...), 0x0B),
		"typed select": {0x1C, 0x01, 0x7F, 0x0B},
		"ref.null":     {0xD0, 0x70, 0x0B},
	}
	for name, code := range bodies {
		t.Run(name, func(t *testing.T) {
			instrs, err := wasm.DecodeInstructions(code, wasm.FeaturesAll)
			if err != nil {
				t.Fatal(err)
			}
			if got := wasm.EncodeInstructions(instrs); !bytes.Equal(got, code) {
				t.Errorf("round trip: got % x, want % x", got, code)
			}
		})
	}
}

func TestExprReaderStopsAtOuterEnd(t *testing.T) {
	// Expression ends at the first unmatched end; trailing bytes are
	// another expression.
	code := []byte{0x02, 0x40, 0x0B, 0x0B, 0x41, 0x01}
	er := wasm.NewExprReader(code, 0)
	count := 0
	for {
		_, ok, err := er.Next(wasm.FeaturesAll)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		count++
	}
	if count != 3 {
		t.Errorf("expected 3 instructions (block, end, end), got %d", count)
	}
	if er.Position() != 4 {
		t.Errorf("reader stopped at %d, want 4", er.Position())
	}
}
