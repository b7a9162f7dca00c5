package wasm_test

import (
	"strings"
	"testing"

	"github.com/wippyai/wasm-tools/wasm"
)

func TestOpcodeNamesUnique(t *testing.T) {
	seen := map[string]wasm.Opcode{}
	wasm.Opcodes(func(op wasm.Opcode, name string, feature wasm.Features) {
		if name == "" {
			t.Errorf("opcode 0x%x has no mnemonic", uint32(op))
		}
		// The plain and typed select intentionally share a mnemonic.
		if prev, dup := seen[name]; dup && name != "select" {
			t.Errorf("mnemonic %q used by 0x%x and 0x%x", name, uint32(prev), uint32(op))
		}
		seen[name] = op
	})
	if len(seen) < 400 {
		t.Errorf("opcode table has only %d mnemonics", len(seen))
	}
}

func TestLookupOpcode(t *testing.T) {
	cases := map[string]wasm.Opcode{
		"i32.add":              wasm.OpI32Add,
		"call_indirect":        wasm.OpCallIndirect,
		"memory.atomic.notify": wasm.OpMemoryAtomicNotify,
		"i8x16.shuffle":        wasm.OpI8x16Shuffle,
		"i32.trunc_sat_f32_s":  wasm.OpI32TruncSatF32S,
	}
	for name, want := range cases {
		op, ok := wasm.LookupOpcode(name)
		if !ok || op != want {
			t.Errorf("LookupOpcode(%q) = %v, %v", name, op, ok)
		}
	}
	if _, ok := wasm.LookupOpcode("i32.frobnicate"); ok {
		t.Error("unknown mnemonic resolved")
	}
}

// Both separator styles of the conversion mnemonics name the same
// opcode.
func TestLookupOpcodeAliases(t *testing.T) {
	cases := map[string]string{
		"i32.wrap/i64":      "i32.wrap_i64",
		"f32.convert_s/i32": "f32.convert_i32_s",
		"i64.trunc_u/f64":   "i64.trunc_f64_u",
		"get_local":         "local.get",
		"set_global":        "global.set",
	}
	for alias, current := range cases {
		a, okA := wasm.LookupOpcode(alias)
		c, okC := wasm.LookupOpcode(current)
		if !okA || !okC || a != c {
			t.Errorf("alias %q != %q: %v/%v vs %v/%v", alias, current, a, okA, c, okC)
		}
	}
}

func TestOpcodePrefixRoundTrip(t *testing.T) {
	op := wasm.OpI64AtomicRmw32AddU
	prefix, ok := op.Prefix()
	if !ok || prefix != 0xFE {
		t.Fatalf("prefix = 0x%02x, %v", prefix, ok)
	}
	if wasm.Prefixed(prefix, op.Sub()) != op {
		t.Error("Prefixed(Prefix, Sub) did not reproduce the opcode")
	}
	if _, ok := wasm.OpI32Add.Prefix(); ok {
		t.Error("single-byte opcode reported a prefix")
	}
}

func TestOpcodeString(t *testing.T) {
	if got := wasm.OpI32Add.String(); got != "i32.add" {
		t.Errorf("String() = %q", got)
	}
	if got := wasm.Opcode(0xFF).String(); !strings.Contains(got, "unknown") {
		t.Errorf("unknown opcode String() = %q", got)
	}
}

func TestNaturalAlignment(t *testing.T) {
	cases := map[wasm.Opcode]uint32{
		wasm.OpI32Load:       2,
		wasm.OpI64Load:       3,
		wasm.OpI32Load8U:     0,
		wasm.OpV128Load:      4,
		wasm.OpI64AtomicLoad: 3,
	}
	for op, want := range cases {
		if got := op.NaturalAlignLog2(); got != want {
			t.Errorf("%s natural alignment = %d, want %d", op, got, want)
		}
	}
}
