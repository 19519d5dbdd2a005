package dson

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every way a parse can fail. A failed parse
// returns a *ParseError wrapping one of these, so callers can match with
// errors.Is.
var (
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	ErrNotNulTerminated     = errors.New("input was not NUL-terminated")
	ErrMalformedKeyword     = errors.New("malformed keyword")
	ErrMalformedNumber      = errors.New("malformed number")
	ErrUnterminatedString   = errors.New("unterminated string")
	ErrForbiddenEscape      = errors.New("forbidden escape")
	ErrUnrecognizedEscape   = errors.New("unrecognized escape")
	ErrInvalidCodepoint     = errors.New("invalid codepoint")
	ErrUnrecognizedValue    = errors.New("unrecognized value")
	ErrTooDeep              = errors.New("maximum nesting depth exceeded")
)

// ParseError describes a single parse failure and where it happened.
type ParseError struct {
	// Offset is the byte offset from the start of the input at the moment
	// the parser gave up.
	Offset int
	// Err is the taxonomy sentinel this failure belongs to.
	Err error
	// Detail is a human-readable account of what was found.
	Detail string
}

func (e *ParseError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("dson: at input char #%d: %s", e.Offset, msg)
}

func (e *ParseError) Unwrap() error { return e.Err }
