package wat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-tools/wasm"
	"github.com/wippyai/wasm-tools/wat"
)

func lexAll(src string) []wat.Token {
	lexer := wat.NewLexer([]byte(src))
	var tokens []wat.Token
	for {
		tok := lexer.Lex()
		tokens = append(tokens, tok)
		if tok.Type == wat.TokenEof {
			return tokens
		}
	}
}

func types(tokens []wat.Token) []wat.TokenType {
	out := make([]wat.TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestLexModuleFunc(t *testing.T) {
	tokens := lexAll("(module (func))")
	require.Equal(t, []wat.TokenType{
		wat.TokenLpar, wat.TokenKeyword, wat.TokenWhitespace,
		wat.TokenLpar, wat.TokenKeyword, wat.TokenRpar, wat.TokenRpar,
		wat.TokenEof,
	}, types(tokens))

	require.Equal(t, "module", tokens[1].Keyword.Name)
	require.Equal(t, "func", tokens[4].Keyword.Name)
}

func TestLexPartitionsInput(t *testing.T) {
	src := `(module
  ;; add two numbers
  (func $add (param i32 i32) (result i32)
    (i32.add (local.get 0) (local.get 1)))
  (; block (; nested ;) comment ;)
  (data (i32.const 0) "hi\n\00")
)`
	tokens := lexAll(src)

	var rebuilt []byte
	var offset uint32
	for _, tok := range tokens {
		require.Equal(t, offset, tok.Loc.Begin, "gap or overlap before %s", tok.Type)
		rebuilt = append(rebuilt, tok.Span([]byte(src))...)
		offset = tok.Loc.End
	}
	require.Equal(t, src, string(rebuilt), "token spans must reproduce the input")
}

func TestLexDeterministic(t *testing.T) {
	src := "(func $f (result f32) f32.const +0x1.8p+1)"
	require.Equal(t, lexAll(src), lexAll(src))
}

func TestLexKeywordPayloads(t *testing.T) {
	src := []byte("i32.add memory.atomic.notify v128 br_on_exn")
	lexer := wat.NewLexer(src)

	tok := lexer.LexNoWhitespace()
	require.Equal(t, wat.TokenKeyword, tok.Type)
	require.Equal(t, wat.KeywordInstr, tok.Keyword.Kind)
	require.Equal(t, wasm.OpI32Add, tok.Keyword.Opcode)
	require.Equal(t, wasm.Features(0), tok.Keyword.Features)

	tok = lexer.LexNoWhitespace()
	require.Equal(t, wasm.OpMemoryAtomicNotify, tok.Keyword.Opcode)
	require.Equal(t, wasm.FeatureThreads, tok.Keyword.Features)

	tok = lexer.LexNoWhitespace()
	require.Equal(t, wat.KeywordValType, tok.Keyword.Kind)
	require.Equal(t, wasm.ValV128, tok.Keyword.ValType)
	require.Equal(t, wasm.FeatureSimd, tok.Keyword.Features)

	tok = lexer.LexNoWhitespace()
	require.Equal(t, wasm.OpBrOnExn, tok.Keyword.Opcode)
	require.Equal(t, wasm.FeatureExceptions, tok.Keyword.Features)
}

// Retired '/'-separated mnemonics lex to the same opcodes as the
// current spellings.
func TestLexAliasMnemonics(t *testing.T) {
	lexer := wat.NewLexer([]byte("f32.convert_s/i32 f32.convert_i32_s"))
	old := lexer.LexNoWhitespace()
	current := lexer.LexNoWhitespace()
	require.Equal(t, wat.TokenKeyword, old.Type)
	require.Equal(t, wat.TokenKeyword, current.Type)
	require.Equal(t, current.Keyword.Opcode, old.Keyword.Opcode)
}

func TestLexHexFloat(t *testing.T) {
	tokens := lexAll("+0x1.8p+1")
	require.Equal(t, []wat.TokenType{wat.TokenFloat, wat.TokenEof}, types(tokens))
	lit := tokens[0].Literal
	require.Equal(t, wat.SignPlus, lit.Sign)
	require.Equal(t, wat.LitHexNumber, lit.Kind)
	require.False(t, lit.HasUnderscores)
}

func TestLexNumbers(t *testing.T) {
	cases := map[string]struct {
		tt   wat.TokenType
		kind wat.LiteralKind
		sign wat.Sign
		und  bool
	}{
		"0":             {wat.TokenNat, wat.LitNat, wat.SignNone, false},
		"1_000":         {wat.TokenNat, wat.LitNat, wat.SignNone, true},
		"0xdead_beef":   {wat.TokenNat, wat.LitHexNat, wat.SignNone, true},
		"-42":           {wat.TokenInt, wat.LitNumber, wat.SignMinus, false},
		"+0x2A":         {wat.TokenInt, wat.LitHexNumber, wat.SignPlus, false},
		"1.5e10":        {wat.TokenFloat, wat.LitNumber, wat.SignNone, false},
		"1.":            {wat.TokenFloat, wat.LitNumber, wat.SignNone, false},
		"inf":           {wat.TokenFloat, wat.LitInfinity, wat.SignNone, false},
		"-inf":          {wat.TokenFloat, wat.LitInfinity, wat.SignMinus, false},
		"nan":           {wat.TokenFloat, wat.LitNan, wat.SignNone, false},
		"nan:0x7f_ffff": {wat.TokenFloat, wat.LitNanPayload, wat.SignNone, true},
		"-nan:0x400000": {wat.TokenFloat, wat.LitNanPayload, wat.SignMinus, false},
	}
	for src, want := range cases {
		t.Run(src, func(t *testing.T) {
			tokens := lexAll(src)
			require.Len(t, tokens, 2)
			require.Equal(t, want.tt, tokens[0].Type, "token type")
			require.Equal(t, want.kind, tokens[0].Literal.Kind, "literal kind")
			require.Equal(t, want.sign, tokens[0].Literal.Sign, "sign")
			require.Equal(t, want.und, tokens[0].Literal.HasUnderscores, "underscores")
		})
	}
}

// A literal followed by reserved characters is not a literal: the
// lexer rewinds and emits one Reserved token.
func TestLexNoTrailingReserved(t *testing.T) {
	for _, src := range []string{"1x", "1_", "0x", "1.5ee", "+inf$", "nan:0x", "$"} {
		tokens := lexAll(src)
		require.Len(t, tokens, 2, "input %q", src)
		require.Equal(t, wat.TokenReserved, tokens[0].Type, "input %q", src)
		require.Equal(t, uint32(len(src)), tokens[0].Loc.End, "input %q must be one token", src)
	}
}

func TestLexStrings(t *testing.T) {
	tokens := lexAll(`"hello"`)
	require.Equal(t, wat.TokenText, tokens[0].Type)
	require.Equal(t, uint32(5), tokens[0].TextByteSize)

	// Escapes decode to single bytes.
	tokens = lexAll(`"a\n\7f\\"`)
	require.Equal(t, wat.TokenText, tokens[0].Type)
	require.Equal(t, uint32(4), tokens[0].TextByteSize)

	// Unterminated or newline-containing strings are invalid.
	tokens = lexAll(`"abc`)
	require.Equal(t, wat.TokenInvalidText, tokens[0].Type)

	tokens = lexAll("\"a\nb\"")
	require.Equal(t, wat.TokenInvalidText, tokens[0].Type)

	// Bad escapes are invalid.
	tokens = lexAll(`"\q"`)
	require.Equal(t, wat.TokenInvalidText, tokens[0].Type)
}

func TestLexIds(t *testing.T) {
	tokens := lexAll("$foo $foo!bar $1")
	require.Equal(t, []wat.TokenType{
		wat.TokenId, wat.TokenWhitespace, wat.TokenId, wat.TokenWhitespace,
		wat.TokenId, wat.TokenEof,
	}, types(tokens))
}

func TestLexComments(t *testing.T) {
	tokens := lexAll(";; line\n(; outer (; inner ;) still outer ;)")
	require.Equal(t, []wat.TokenType{
		wat.TokenLineComment, wat.TokenBlockComment, wat.TokenEof,
	}, types(tokens))
}

func TestLexInvalidBlockComment(t *testing.T) {
	src := "(func) (; never closed"
	tokens := lexAll(src)
	last := tokens[len(tokens)-2]
	require.Equal(t, wat.TokenInvalidBlockComment, last.Type)
	// The diagnostic location starts at the opening "(;".
	require.Equal(t, uint32(7), last.Loc.Begin)
	require.Equal(t, uint32(len(src)), last.Loc.End)
}

func TestLexInvalidLineComment(t *testing.T) {
	tokens := lexAll(";; eof without newline")
	require.Equal(t, wat.TokenInvalidLineComment, tokens[0].Type)
}

func TestLexAnnotation(t *testing.T) {
	tokens := lexAll("(@custom abc)")
	require.Equal(t, wat.TokenLparAnnotation, tokens[0].Type)
	require.Equal(t, "(@custom", string(tokens[0].Span([]byte("(@custom abc)"))))
}

func TestLexInvalidChar(t *testing.T) {
	tokens := lexAll(";")
	require.Equal(t, wat.TokenInvalidChar, tokens[0].Type)

	tokens = lexAll("[")
	require.Equal(t, wat.TokenInvalidChar, tokens[0].Type)
}

func TestLexNoWhitespaceSkipsTrivia(t *testing.T) {
	lexer := wat.NewLexer([]byte("  ;; c\n(module)"))
	tok := lexer.LexNoWhitespace()
	require.Equal(t, wat.TokenLpar, tok.Type)
}

func TestLexUnknownKeywordIsReserved(t *testing.T) {
	tokens := lexAll("i32.frobnicate offset=4")
	require.Equal(t, []wat.TokenType{
		wat.TokenReserved, wat.TokenWhitespace, wat.TokenReserved, wat.TokenEof,
	}, types(tokens))
}
