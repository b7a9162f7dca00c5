// Package errors provides the structured diagnostic model shared by the
// binary decoder, the text lexer, and the validators.
//
// Every diagnostic carries a Kind, a byte-offset range into the original
// input, and the stack of context labels active when it was recorded.
// Diagnostics are collected by a Sink in encounter order; callers decide
// whether a non-empty sink is a failure.
//
// Example:
//
//	sink := errors.NewSink()
//	sink.PushContext("section")
//	sink.Errorf(errors.KindLengthMismatch, 0x10, "payload length %d exceeds remaining %d", 9, 3)
//	sink.PopContext()
package errors
