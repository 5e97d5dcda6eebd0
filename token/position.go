// Package token defines the position type shared by the tokenizer, parser,
// and every package that surfaces locations back to a caller.
package token

import "fmt"

// Position identifies a location in the logical (post line-ending
// normalization) input stream.
//
// Line and Column are 1-indexed character counts. Offset is the 0-indexed
// count of characters consumed from the start of the stream. When position
// tracking is disabled on the tokenizer, every Position is the zero value.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Zero is the position reported when tracking is disabled.
var Zero = Position{}

// String renders the position the way error messages quote it:
// "line L, column C".
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}
