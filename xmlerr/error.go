// Package xmlerr defines the single error type the tokenizer, parser, and
// entity decoder surface to callers.
package xmlerr

import (
	"errors"
	"fmt"

	"github.com/fenwick-labs/xmlstream/token"
)

// SyntaxError reports a well-formedness or lexical problem at a specific
// position. Message formats stably as "<message> at line L, column C" so
// callers matching on message text (tests, fixtures) aren't broken by
// unrelated wording changes.
type SyntaxError struct {
	Message string
	Pos     token.Position
}

// New builds a SyntaxError at pos.
func New(pos token.Position, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Pos: pos}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

// Line, Column, Offset expose the position fields directly, matching the
// shape callers of other XML libraries expect from a syntax error.
func (e *SyntaxError) Line() int   { return e.Pos.Line }
func (e *SyntaxError) Column() int { return e.Pos.Column }
func (e *SyntaxError) Offset() int { return e.Pos.Offset }

// *SyntaxError implements error, so errors.As with a *SyntaxError target
// finds it through any wrapping.
var _ error = (*SyntaxError)(nil)

// IsSyntaxError reports whether err is, or wraps, a *SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// ErrMaxDepthExceeded is returned by the parser when Options.MaxDepth is
// exceeded (parser.Options, aliased as xmlstream.ParserOptions). Unlike SyntaxError
// this is a sentinel since it reports a configuration guard, not a document
// well-formedness defect — callers may want to distinguish the two with
// errors.Is.
var ErrMaxDepthExceeded = errors.New("maximum element nesting depth exceeded")
