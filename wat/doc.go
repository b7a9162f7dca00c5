// Package wat provides a tokenizer for the WebAssembly text format.
//
// The lexer scans byte by byte and returns one token per call, covering
// the full lexical grammar: parens, annotations, identifiers, numeric
// literals in decimal/hex/float/inf/nan forms with optional '_' digit
// separators, quoted strings with escapes, nested block comments, and
// the closed keyword set of every instruction mnemonic and type name.
//
// Tokens partition the input exactly: concatenating the spans of all
// tokens, including whitespace and comment tokens, reproduces the
// source byte for byte.
//
// Basic usage:
//
//	lexer := wat.NewLexer(src)
//	for {
//		tok := lexer.LexNoWhitespace()
//		if tok.Type == wat.TokenEof {
//			break
//		}
//		fmt.Printf("%s %q\n", tok.Type, tok.Span(src))
//	}
//
// Keyword tokens carry the opcode descriptor and its gating feature
// mask, so a parser can reject gated instructions without its own
// tables. Invalid input never stops the lexer; it yields InvalidChar,
// InvalidText, InvalidBlockComment, or InvalidLineComment tokens and
// continues at the next byte.
package wat
