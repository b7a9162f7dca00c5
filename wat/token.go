package wat

import (
	"github.com/wippyai/wasm-tools/wasm"
)

// TokenType classifies one text format token.
type TokenType int

const (
	TokenEof TokenType = iota
	TokenLpar
	TokenRpar
	TokenLparAnnotation
	TokenReserved
	TokenKeyword
	TokenId
	TokenNat
	TokenInt
	TokenFloat
	TokenText
	TokenWhitespace
	TokenLineComment
	TokenBlockComment
	TokenInvalidChar
	TokenInvalidText
	TokenInvalidBlockComment
	TokenInvalidLineComment
)

func (t TokenType) String() string {
	switch t {
	case TokenEof:
		return "eof"
	case TokenLpar:
		return "("
	case TokenRpar:
		return ")"
	case TokenLparAnnotation:
		return "(@annotation"
	case TokenReserved:
		return "reserved"
	case TokenKeyword:
		return "keyword"
	case TokenId:
		return "id"
	case TokenNat:
		return "nat"
	case TokenInt:
		return "int"
	case TokenFloat:
		return "float"
	case TokenText:
		return "string"
	case TokenWhitespace:
		return "whitespace"
	case TokenLineComment:
		return "line comment"
	case TokenBlockComment:
		return "block comment"
	case TokenInvalidChar:
		return "invalid char"
	case TokenInvalidText:
		return "invalid string"
	case TokenInvalidBlockComment:
		return "invalid block comment"
	case TokenInvalidLineComment:
		return "invalid line comment"
	default:
		return "unknown"
	}
}

// IsTrivia reports whether the token is whitespace or a comment.
func (t TokenType) IsTrivia() bool {
	switch t {
	case TokenWhitespace, TokenLineComment, TokenBlockComment:
		return true
	}
	return false
}

// Sign is the leading sign of a numeric literal.
type Sign int

const (
	SignNone Sign = iota
	SignPlus
	SignMinus
)

func (s Sign) String() string {
	switch s {
	case SignPlus:
		return "+"
	case SignMinus:
		return "-"
	}
	return ""
}

// LiteralKind classifies a numeric literal's shape.
type LiteralKind int

const (
	LitNat LiteralKind = iota
	LitHexNat
	LitNumber
	LitHexNumber
	LitInfinity
	LitNan
	LitNanPayload
	LitNanCanonical
	LitNanArithmetic
)

func (k LiteralKind) String() string {
	switch k {
	case LitNat:
		return "nat"
	case LitHexNat:
		return "hexnat"
	case LitNumber:
		return "number"
	case LitHexNumber:
		return "hexnumber"
	case LitInfinity:
		return "inf"
	case LitNan:
		return "nan"
	case LitNanPayload:
		return "nan:0x"
	case LitNanCanonical:
		return "nan:canonical"
	case LitNanArithmetic:
		return "nan:arithmetic"
	default:
		return "unknown"
	}
}

// LiteralInfo describes a numeric literal token: its shape, leading
// sign, and whether any digit group used '_' separators, so consumers
// can validate separator placement uniformly.
type LiteralInfo struct {
	Kind           LiteralKind
	Sign           Sign
	HasUnderscores bool
}

// KeywordKind selects the payload a keyword token carries.
type KeywordKind int

const (
	KeywordPlain   KeywordKind = iota // structural words: module, param, mut, ...
	KeywordInstr                      // instruction mnemonics
	KeywordValType                    // value and reference type names
	KeywordLiteral                    // literal classifications: nan:canonical, ...
)

// KeywordInfo is the payload of a keyword token: an opcode descriptor
// with its gating feature mask, a value type, or a literal
// classification.
type KeywordInfo struct {
	Name     string
	Kind     KeywordKind
	Opcode   wasm.Opcode
	Features wasm.Features
	ValType  wasm.ValType
	Literal  LiteralKind
}

// Token is one lexed token: its type, the span of input bytes it
// covers, and a payload for keywords, numeric literals, and strings.
type Token struct {
	Keyword *KeywordInfo // set for TokenKeyword
	Loc     wasm.Location
	Literal LiteralInfo // set for TokenNat, TokenInt, TokenFloat
	// TextByteSize is the decoded byte length of a TokenText literal,
	// with escapes resolved.
	TextByteSize uint32
	Type         TokenType
}

// Span returns the raw input bytes the token covers. Concatenating the
// spans of all tokens reproduces the input exactly.
func (t Token) Span(src []byte) []byte {
	return src[t.Loc.Begin:t.Loc.End]
}
