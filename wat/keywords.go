package wat

import (
	"github.com/wippyai/wasm-tools/wasm"
)

// keywords is the closed keyword set: every instruction mnemonic
// (including retired alias spellings), every type name, the structural
// words of the module grammar, and the script-level words of the spec
// test format. Matching is exact-match plus the no-trailing-reserved
// boundary rule in the lexer.
var keywords = buildKeywords()

// structuralKeywords are the grammar words that carry no payload.
var structuralKeywords = []string{
	"module", "func", "param", "result", "local", "global", "table",
	"memory", "elem", "data", "offset", "import", "export", "type",
	"start", "mut", "shared", "event", "then", "item", "declare",

	// Script-level words of the spec test format.
	"binary", "quote", "register", "invoke", "get",
	"assert_return", "assert_trap", "assert_exhaustion",
	"assert_invalid", "assert_malformed", "assert_unlinkable",
}

var valTypeKeywords = map[string]wasm.ValType{
	"i32":       wasm.ValI32,
	"i64":       wasm.ValI64,
	"f32":       wasm.ValF32,
	"f64":       wasm.ValF64,
	"v128":      wasm.ValV128,
	"funcref":   wasm.ValFuncRef,
	"anyfunc":   wasm.ValFuncRef, // retired spelling
	"externref": wasm.ValExternRef,
	"nullref":   wasm.ValNullRef,
	"exnref":    wasm.ValExnRef,
}

// refTypeShortKeywords are the bare heap type names used by ref.null
// and friends.
var refTypeShortKeywords = map[string]wasm.ValType{
	"func":   wasm.ValFuncRef,
	"extern": wasm.ValExternRef,
	"exn":    wasm.ValExnRef,
}

func buildKeywords() map[string]*KeywordInfo {
	m := make(map[string]*KeywordInfo, 1024)

	wasm.Opcodes(func(op wasm.Opcode, name string, feature wasm.Features) {
		// The typed select shares its mnemonic with the plain one; the
		// keyword resolves to the plain opcode and the parser upgrades
		// it when a type annotation follows.
		if op == wasm.OpSelectType {
			return
		}
		m[name] = &KeywordInfo{Name: name, Kind: KeywordInstr, Opcode: op, Features: feature}
	})
	wasm.MnemonicAliases(func(alias string, op wasm.Opcode) {
		m[alias] = &KeywordInfo{Name: alias, Kind: KeywordInstr, Opcode: op, Features: op.RequiredFeature()}
	})

	for name, vt := range valTypeKeywords {
		m[name] = &KeywordInfo{Name: name, Kind: KeywordValType, ValType: vt, Features: vt.RequiredFeature()}
	}

	for _, name := range structuralKeywords {
		if _, exists := m[name]; exists {
			continue
		}
		m[name] = &KeywordInfo{Name: name, Kind: KeywordPlain}
	}
	for name, vt := range refTypeShortKeywords {
		if _, exists := m[name]; exists {
			continue // "func" is structural; the parser disambiguates
		}
		m[name] = &KeywordInfo{Name: name, Kind: KeywordValType, ValType: vt, Features: vt.RequiredFeature()}
	}

	m["nan:canonical"] = &KeywordInfo{Name: "nan:canonical", Kind: KeywordLiteral, Literal: LitNanCanonical}
	m["nan:arithmetic"] = &KeywordInfo{Name: "nan:arithmetic", Kind: KeywordLiteral, Literal: LitNanArithmetic}

	return m
}

// LookupKeyword resolves a keyword string to its payload.
func LookupKeyword(name string) (*KeywordInfo, bool) {
	info, ok := keywords[name]
	return info, ok
}
