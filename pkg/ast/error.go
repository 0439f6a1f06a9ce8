package ast

import (
	"fmt"

	"golang.org/x/xerrors"
)

// ErrorKind tags which variant of ParseError is populated. This is the
// closed set from the spec: no other failure kind ever crosses the
// interpreter boundary.
type ErrorKind uint8

const (
	// ErrFailed reports the deepest input position reached before all
	// alternatives were exhausted.
	ErrFailed ErrorKind = iota
	// ErrIncomplete reports a successful parse that did not consume the
	// entire input.
	ErrIncomplete
	// ErrInputTooLarge reports an input exceeding the configured maximum
	// size, caught before the interpreter ever runs.
	ErrInputTooLarge
	// ErrRecursionLimitExceeded reports interpreter call depth exceeding
	// the configured maximum.
	ErrRecursionLimitExceeded
	// ErrInvalidGrammar reports a structural problem with the grammar
	// itself (out-of-range index, empty Alternative, inconsistent
	// Repetition bounds, ...).
	ErrInvalidGrammar
	// ErrInternal is the defensive bucket for invariants that should be
	// unreachable in correct operation.
	ErrInternal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrFailed:
		return "Failed"
	case ErrIncomplete:
		return "Incomplete"
	case ErrInputTooLarge:
		return "InputTooLarge"
	case ErrRecursionLimitExceeded:
		return "RecursionLimitExceeded"
	case ErrInvalidGrammar:
		return "InvalidGrammar"
	case ErrInternal:
		return "Internal"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// ParseError is the single error type returned across the core boundary.
// Exactly one ErrorKind is active at a time; the fields not relevant to
// Kind are zero.
type ParseError struct {
	Kind ErrorKind

	// Position is the byte offset at which the error was detected. Valid
	// for Failed, Incomplete, and RecursionLimitExceeded.
	Position int

	// Size/Limit are populated for InputTooLarge.
	Size  int
	Limit int

	// Depth/MaxDepth are populated for RecursionLimitExceeded (Limit stays
	// zero there; MaxDepth carries the limit).
	Depth    int
	MaxDepth int

	// Message carries free-form detail for InvalidGrammar and Internal.
	Message string

	// cause wraps the underlying error for Internal, preserved via
	// golang.org/x/xerrors so the frame is visible to %+v-style logging
	// without changing the exported taxonomy above.
	cause error
}

// Failed builds an ErrFailed error at the given deepest-reached position.
func Failed(position int) *ParseError {
	return &ParseError{Kind: ErrFailed, Position: position}
}

// Incomplete builds an ErrIncomplete error at the position where the
// parse stopped short of the input's end.
func Incomplete(position int) *ParseError {
	return &ParseError{Kind: ErrIncomplete, Position: position}
}

// InputTooLarge builds an ErrInputTooLarge error.
func InputTooLarge(size, limit int) *ParseError {
	return &ParseError{Kind: ErrInputTooLarge, Size: size, Limit: limit}
}

// RecursionLimitExceeded builds an ErrRecursionLimitExceeded error.
func RecursionLimitExceeded(position, depth, maxDepth int) *ParseError {
	return &ParseError{
		Kind: ErrRecursionLimitExceeded, Position: position,
		Depth: depth, MaxDepth: maxDepth,
	}
}

// InvalidGrammar builds an ErrInvalidGrammar error.
func InvalidGrammar(format string, args ...any) *ParseError {
	return &ParseError{Kind: ErrInvalidGrammar, Message: fmt.Sprintf(format, args...)}
}

// Internal builds an ErrInternal error, wrapping cause (if non-nil) with
// a frame via x/xerrors so the defensive bucket keeps a trace of what
// tripped it.
func Internal(cause error, format string, args ...any) *ParseError {
	msg := fmt.Sprintf(format, args...)
	e := &ParseError{Kind: ErrInternal, Message: msg}
	if cause != nil {
		e.cause = xerrors.Errorf("%s: %w", msg, cause)
	}
	return e
}

// Unwrap exposes the wrapped cause, if any, for Internal errors.
func (e *ParseError) Unwrap() error { return e.cause }

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrFailed:
		return fmt.Sprintf("parse failed at position %d", e.Position)
	case ErrIncomplete:
		return fmt.Sprintf("incomplete parse: stopped at position %d", e.Position)
	case ErrInputTooLarge:
		return fmt.Sprintf("input too large: %d bytes exceeds limit of %d bytes", e.Size, e.Limit)
	case ErrRecursionLimitExceeded:
		return fmt.Sprintf("recursion limit exceeded: depth %d exceeds limit of %d at position %d",
			e.Depth, e.MaxDepth, e.Position)
	case ErrInvalidGrammar:
		return fmt.Sprintf("invalid grammar: %s", e.Message)
	case ErrInternal:
		if e.cause != nil {
			return fmt.Sprintf("internal error: %v", e.cause)
		}
		return fmt.Sprintf("internal error: %s", e.Message)
	default:
		return fmt.Sprintf("unknown parse error kind %v", e.Kind)
	}
}
