package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind categorizes the diagnostic.
type Kind string

const (
	KindTruncatedInput   Kind = "truncated_input"
	KindBadMagic         Kind = "bad_magic"
	KindBadVersion       Kind = "bad_version"
	KindOverlongLEB      Kind = "overlong_leb128"
	KindInvalidUTF8      Kind = "invalid_utf8"
	KindUnknownOpcode    Kind = "unknown_opcode"
	KindUnknownSection   Kind = "unknown_section"
	KindUnknownValueType Kind = "unknown_value_type"
	KindBadLimits        Kind = "bad_limits"
	KindBadSectionOrder  Kind = "bad_section_order"
	KindDuplicateSection Kind = "duplicate_section"
	KindLengthMismatch   Kind = "length_mismatch"
	KindInvalidConstExpr Kind = "invalid_const_expr"
	KindInvalidAlignment Kind = "invalid_alignment"
	KindIndexOutOfBounds Kind = "index_out_of_bounds"
	KindTypeMismatch     Kind = "type_mismatch"
	KindStackUnderflow   Kind = "stack_underflow"
	KindUnbalancedCtl    Kind = "unbalanced_control"
	KindFeatureDisabled  Kind = "feature_disabled"

	// Lex-only kinds.
	KindInvalidChar         Kind = "invalid_char"
	KindInvalidText         Kind = "invalid_text"
	KindInvalidBlockComment Kind = "invalid_block_comment"
	KindInvalidLineComment  Kind = "invalid_line_comment"
)

// Error is the structured diagnostic type used throughout the library.
// Begin and End are byte offsets into the original input; Path holds the
// context labels that were active when the diagnostic was recorded,
// outermost first.
type Error struct {
	Cause  error
	Kind   Kind
	Detail string
	Path   []string
	Begin  uint32
	End    uint32
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Kind))

	if e.End > e.Begin {
		fmt.Fprintf(&b, " at 0x%x..0x%x", e.Begin, e.End)
	} else {
		fmt.Fprintf(&b, " at 0x%x", e.Begin)
	}

	if len(e.Path) > 0 {
		b.WriteString(" in ")
		b.WriteString(strings.Join(e.Path, "/"))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// New creates a diagnostic at a single offset.
func New(kind Kind, offset uint32, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{Kind: kind, Begin: offset, End: offset, Detail: detail}
}

// NewRange creates a diagnostic spanning [begin, end).
func NewRange(kind Kind, begin, end uint32, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{Kind: kind, Begin: begin, End: end, Detail: detail}
}

// Wrap wraps an existing error with a kind and offset.
func Wrap(kind Kind, offset uint32, cause error, detail string) *Error {
	return &Error{Kind: kind, Begin: offset, End: offset, Detail: detail, Cause: cause}
}

// As extracts a structured *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Sink collects diagnostics in encounter order. It also tracks the stack
// of context labels ("section", "func", "memarg.offset", ...) that parse
// and validation functions push on entry and pop on exit; every appended
// diagnostic captures the labels active at the time.
//
// A nil *Sink is valid and discards everything.
type Sink struct {
	errs []*Error
	path []string
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// PushContext pushes a context label.
func (s *Sink) PushContext(label string) {
	if s == nil {
		return
	}
	s.path = append(s.path, label)
}

// PopContext pops the most recently pushed context label.
func (s *Sink) PopContext() {
	if s == nil || len(s.path) == 0 {
		return
	}
	s.path = s.path[:len(s.path)-1]
}

// Context returns a copy of the active context labels, outermost first.
func (s *Sink) Context() []string {
	if s == nil || len(s.path) == 0 {
		return nil
	}
	out := make([]string, len(s.path))
	copy(out, s.path)
	return out
}

// Append records a diagnostic, stamping it with the active context labels
// unless it already carries a path.
func (s *Sink) Append(e *Error) {
	if s == nil {
		return
	}
	if e.Path == nil {
		e.Path = s.Context()
	}
	s.errs = append(s.errs, e)
}

// AppendErr records err, wrapping errors that are not already
// structured at the given offset.
func (s *Sink) AppendErr(err error, offset uint32) {
	if e, ok := As(err); ok {
		s.Append(e)
		return
	}
	s.Append(Wrap(KindTruncatedInput, offset, err, "read failed"))
}

// Errorf records a new diagnostic at a single offset.
func (s *Sink) Errorf(kind Kind, offset uint32, detail string, args ...any) {
	s.Append(New(kind, offset, detail, args...))
}

// ErrorfRange records a new diagnostic spanning [begin, end).
func (s *Sink) ErrorfRange(kind Kind, begin, end uint32, detail string, args ...any) {
	s.Append(NewRange(kind, begin, end, detail, args...))
}

// Errors returns the recorded diagnostics in encounter order.
// The returned slice is owned by the sink.
func (s *Sink) Errors() []*Error {
	if s == nil {
		return nil
	}
	return s.errs
}

// Len returns the number of recorded diagnostics.
func (s *Sink) Len() int {
	if s == nil {
		return 0
	}
	return len(s.errs)
}

// Empty reports whether no diagnostics were recorded.
func (s *Sink) Empty() bool {
	return s.Len() == 0
}

// HasKind reports whether any recorded diagnostic has the given kind.
func (s *Sink) HasKind(kind Kind) bool {
	if s == nil {
		return false
	}
	for _, e := range s.errs {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
