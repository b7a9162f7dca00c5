package wat

import (
	"github.com/wippyai/wasm-tools/wasm"
)

// Character classes of the text format. The reserved class is printable
// ASCII minus '()",;[]{}' and whitespace; it bounds every literal and
// keyword match.
const (
	classReserved = 1 << iota
	classKeyword
	classHexDigit
	classDigit
)

var charClasses = buildCharClasses()

func buildCharClasses() [256]byte {
	var t [256]byte
	for c := '!'; c <= '~'; c++ {
		switch c {
		case '"', '(', ')', ',', ';', '[', ']', '{', '}':
		default:
			t[c] |= classReserved
		}
	}
	for c := '0'; c <= '9'; c++ {
		t[c] |= classDigit | classHexDigit
	}
	for c := 'a'; c <= 'f'; c++ {
		t[c] |= classHexDigit
	}
	for c := 'A'; c <= 'F'; c++ {
		t[c] |= classHexDigit
	}
	for c := 'a'; c <= 'z'; c++ {
		t[c] |= classKeyword
	}
	return t
}

func isClass(c int, class byte) bool {
	return c >= 0 && c < 256 && charClasses[c]&class != 0
}

func isDigit(c int) bool    { return isClass(c, classDigit) }
func isHexDigit(c int) bool { return isClass(c, classHexDigit) }
func isReserved(c int) bool { return isClass(c, classReserved) }
func isKeywordStart(c int) bool {
	return isClass(c, classKeyword)
}

// Lexer is a byte-by-byte scanner over text format source. Each Lex
// call returns one token; the concatenation of all token spans equals
// the input with no gaps or overlaps.
type Lexer struct {
	src []byte
	pos int
}

// NewLexer creates a Lexer over src.
func NewLexer(src []byte) *Lexer {
	return &Lexer{src: src}
}

// Position returns the current byte offset.
func (l *Lexer) Position() uint32 {
	return uint32(l.pos)
}

func (l *Lexer) peek(offset int) int {
	if l.pos+offset >= len(l.src) {
		return -1
	}
	return int(l.src[l.pos+offset])
}

func (l *Lexer) read() int {
	c := l.peek(0)
	if c != -1 {
		l.pos++
	}
	return c
}

func (l *Lexer) matchChar(c byte) bool {
	if l.peek(0) == int(c) {
		l.pos++
		return true
	}
	return false
}

func (l *Lexer) matchString(s string) bool {
	start := l.pos
	for i := 0; i < len(s); i++ {
		if !l.matchChar(s[i]) {
			l.pos = start
			return false
		}
	}
	return true
}

func (l *Lexer) matchSign() Sign {
	if l.matchChar('+') {
		return SignPlus
	}
	if l.matchChar('-') {
		return SignMinus
	}
	return SignNone
}

// matchNum matches one or more digits with optional '_' separators
// between them. A trailing separator fails the whole match and rewinds.
func (l *Lexer) matchNum(underscores *bool) bool {
	start := l.pos
	ok := false
	for isDigit(l.peek(0)) {
		l.pos++
		if l.matchChar('_') {
			ok = false
			*underscores = true
		} else {
			ok = true
		}
	}
	if !ok {
		l.pos = start
	}
	return ok
}

func (l *Lexer) matchHexNum(underscores *bool) bool {
	start := l.pos
	ok := false
	for isHexDigit(l.peek(0)) {
		l.pos++
		if l.matchChar('_') {
			ok = false
			*underscores = true
		} else {
			ok = true
		}
	}
	if !ok {
		l.pos = start
	}
	return ok
}

func (l *Lexer) readReservedChars() int {
	count := 0
	for isReserved(l.peek(0)) {
		l.pos++
		count++
	}
	return count
}

func (l *Lexer) noTrailingReserved() bool {
	return l.readReservedChars() == 0
}

func (l *Lexer) token(begin int, tt TokenType) Token {
	return Token{
		Type: tt,
		Loc:  wasm.Location{Begin: uint32(begin), End: uint32(l.pos)},
	}
}

func (l *Lexer) literalToken(begin int, tt TokenType, info LiteralInfo) Token {
	t := l.token(begin, tt)
	t.Literal = info
	return t
}

// Lex returns the next token, including whitespace and comments.
func (l *Lexer) Lex() Token {
	begin := l.pos
	switch c := l.peek(0); c {
	case -1:
		return l.token(begin, TokenEof)

	case '(':
		if l.matchString("(;") {
			l.pos = begin
			return l.lexBlockComment()
		}
		if l.matchString("(@") {
			l.readReservedChars()
			return l.token(begin, TokenLparAnnotation)
		}
		l.pos++
		return l.token(begin, TokenLpar)

	case ')':
		l.pos++
		return l.token(begin, TokenRpar)

	case ';':
		if l.matchString(";;") {
			l.pos = begin
			return l.lexLineComment()
		}
		l.pos++
		return l.token(begin, TokenInvalidChar)

	case ' ', '\t', '\r', '\n':
		return l.lexWhitespace()

	case '"':
		return l.lexText()

	case '+', '-':
		switch l.peek(1) {
		case 'i':
			return l.lexInf()
		case 'n':
			return l.lexNan()
		case '0':
			if l.peek(2) == 'x' {
				return l.lexHexNumber(TokenInt)
			}
			return l.lexNumber(TokenInt)
		case '1', '2', '3', '4', '5', '6', '7', '8', '9':
			return l.lexNumber(TokenInt)
		default:
			return l.lexReserved()
		}

	case '0':
		if l.peek(1) == 'x' {
			return l.lexHexNumber(TokenNat)
		}
		return l.lexNumber(TokenNat)

	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return l.lexNumber(TokenNat)

	case '$':
		return l.lexId()

	default:
		if isKeywordStart(c) {
			return l.lexKeyword()
		}
		if isReserved(c) {
			return l.lexReserved()
		}
		l.pos++
		return l.token(begin, TokenInvalidChar)
	}
}

// LexNoWhitespace returns the next token, skipping whitespace and
// comments.
func (l *Lexer) LexNoWhitespace() Token {
	for {
		token := l.Lex()
		if !token.Type.IsTrivia() {
			return token
		}
	}
}

func (l *Lexer) lexReserved() Token {
	begin := l.pos
	l.readReservedChars()
	return l.token(begin, TokenReserved)
}

func (l *Lexer) lexWhitespace() Token {
	begin := l.pos
	for {
		switch l.peek(0) {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return l.token(begin, TokenWhitespace)
		}
	}
}

// lexLineComment scans ";;" through the next newline; the newline is
// part of the token. EOF first is an invalid comment.
func (l *Lexer) lexLineComment() Token {
	begin := l.pos
	for {
		switch l.read() {
		case -1:
			return l.token(begin, TokenInvalidLineComment)
		case '\n':
			return l.token(begin, TokenLineComment)
		}
	}
}

// lexBlockComment scans "(;" ... ";)" with unbounded nesting. EOF
// inside yields an invalid comment whose location starts at the
// opening "(;".
func (l *Lexer) lexBlockComment() Token {
	begin := l.pos
	nesting := 0
	for {
		switch l.read() {
		case -1:
			return l.token(begin, TokenInvalidBlockComment)
		case ';':
			if l.matchChar(')') {
				nesting--
				if nesting == 0 {
					return l.token(begin, TokenBlockComment)
				}
			}
		case '(':
			if l.matchChar(';') {
				nesting++
			}
		}
	}
}

func (l *Lexer) lexId() Token {
	begin := l.pos
	l.pos++ // $
	if l.noTrailingReserved() {
		// A bare "$" is not an id.
		return l.token(begin, TokenReserved)
	}
	return l.token(begin, TokenId)
}

func (l *Lexer) lexInf() Token {
	begin := l.pos
	sign := l.matchSign()
	if l.matchString("inf") && l.noTrailingReserved() {
		return l.literalToken(begin, TokenFloat, LiteralInfo{Kind: LitInfinity, Sign: sign})
	}
	l.pos = begin
	return l.lexReserved()
}

func (l *Lexer) lexNan() Token {
	begin := l.pos
	sign := l.matchSign()
	if l.matchString("nan") {
		if l.matchChar(':') {
			var underscores bool
			if l.matchString("0x") && l.matchHexNum(&underscores) && l.noTrailingReserved() {
				return l.literalToken(begin, TokenFloat,
					LiteralInfo{Kind: LitNanPayload, Sign: sign, HasUnderscores: underscores})
			}
		} else if l.noTrailingReserved() {
			return l.literalToken(begin, TokenFloat, LiteralInfo{Kind: LitNan, Sign: sign})
		}
	}
	l.pos = begin
	return l.lexReserved()
}

func (l *Lexer) lexNumber(tt TokenType) Token {
	begin := l.pos
	sign := l.matchSign()
	var underscores bool
	if l.matchNum(&underscores) {
		if l.matchChar('.') {
			tt = TokenFloat
			if isDigit(l.peek(0)) && !l.matchNum(&underscores) {
				l.pos = begin
				return l.lexReserved()
			}
		}
		if l.matchChar('e') || l.matchChar('E') {
			tt = TokenFloat
			l.matchSign()
			if !l.matchNum(&underscores) {
				l.pos = begin
				return l.lexReserved()
			}
		}
		if l.noTrailingReserved() {
			kind := LitNat
			if sign != SignNone {
				kind = LitNumber
			}
			if tt == TokenFloat {
				kind = LitNumber
			}
			return l.literalToken(begin, tt, LiteralInfo{Kind: kind, Sign: sign, HasUnderscores: underscores})
		}
	}
	l.pos = begin
	return l.lexReserved()
}

func (l *Lexer) lexHexNumber(tt TokenType) Token {
	begin := l.pos
	sign := l.matchSign()
	var underscores bool
	l.matchString("0x")
	if l.matchHexNum(&underscores) {
		if l.matchChar('.') {
			tt = TokenFloat
			if isHexDigit(l.peek(0)) && !l.matchHexNum(&underscores) {
				l.pos = begin
				return l.lexReserved()
			}
		}
		if l.matchChar('p') || l.matchChar('P') {
			tt = TokenFloat
			l.matchSign()
			if !l.matchNum(&underscores) {
				l.pos = begin
				return l.lexReserved()
			}
		}
		if l.noTrailingReserved() {
			kind := LitHexNat
			if sign != SignNone || tt == TokenFloat {
				kind = LitHexNumber
			}
			return l.literalToken(begin, tt, LiteralInfo{Kind: kind, Sign: sign, HasUnderscores: underscores})
		}
	}
	l.pos = begin
	return l.lexReserved()
}

// lexText scans a quoted string, tracking the decoded byte size. An
// embedded newline, a bad escape, or EOF before the closing quote
// yields InvalidText.
func (l *Lexer) lexText() Token {
	begin := l.pos
	l.matchChar('"')
	hasError := false
	inString := true
	var byteSize uint32
	for inString {
		switch c := l.read(); c {
		case -1:
			hasError = true
			inString = false

		case '\n':
			hasError = true

		case '"':
			inString = false

		case '\\':
			switch e := l.read(); e {
			case 't', 'n', 'r', '"', '\'', '\\':
				byteSize++
			default:
				if isHexDigit(e) && isHexDigit(l.peek(0)) {
					l.pos++
					byteSize++
				} else {
					hasError = true
				}
			}

		default:
			byteSize++
		}
	}

	if hasError {
		return l.token(begin, TokenInvalidText)
	}
	t := l.token(begin, TokenText)
	t.TextByteSize = byteSize
	return t
}

// lexKeyword consumes a maximal reserved-character run and classifies
// it: a known keyword, a bare inf/nan literal, or Reserved. Run
// maximality gives exact-match plus no-trailing-reserved for free.
func (l *Lexer) lexKeyword() Token {
	begin := l.pos
	l.readReservedChars()
	s := string(l.src[begin:l.pos])

	switch {
	case s == "inf":
		return l.literalToken(begin, TokenFloat, LiteralInfo{Kind: LitInfinity})
	case s == "nan":
		return l.literalToken(begin, TokenFloat, LiteralInfo{Kind: LitNan})
	case len(s) > 6 && s[:6] == "nan:0x":
		if info, ok := scanNanPayload(s[6:]); ok {
			return l.literalToken(begin, TokenFloat, info)
		}
		return l.token(begin, TokenReserved)
	}

	if info, ok := LookupKeyword(s); ok {
		t := l.token(begin, TokenKeyword)
		t.Keyword = info
		return t
	}
	return l.token(begin, TokenReserved)
}

// scanNanPayload validates the hex digits of a nan:0x payload,
// honoring '_' separator placement.
func scanNanPayload(digits string) (LiteralInfo, bool) {
	info := LiteralInfo{Kind: LitNanPayload}
	ok := false
	for i := 0; i < len(digits); i++ {
		if !isHexDigit(int(digits[i])) {
			return info, false
		}
		ok = true
		if i+1 < len(digits) && digits[i+1] == '_' {
			info.HasUnderscores = true
			i++
			ok = false
		}
	}
	return info, ok
}
