// Package xmlstream is the public streaming façade over tokenizer, parser,
// and xmldom: a Decoder that consumes an io.Reader in bounded chunks, plus
// one-shot Validate/ValidateReader helpers.
package xmlstream

import (
	"errors"

	"github.com/fenwick-labs/xmlstream/parser"
	"github.com/fenwick-labs/xmlstream/tokenizer"
)

// ErrInvalidConfiguration is returned by Config.Validate for an out-of-range
// field.
var ErrInvalidConfiguration = errors.New("xmlstream: invalid configuration")

// TokenizerOptions configures the underlying tokenizer.Tokenizer.
type TokenizerOptions = tokenizer.Options

// ParserOptions configures the underlying parser.Parser.
type ParserOptions = parser.Options

// Config holds a Decoder's tunables.
type Config struct {
	// ReadBufferSize is the chunk size requested from the source Reader on
	// each read (default 32KB).
	ReadBufferSize int

	Tokenizer TokenizerOptions
	Parser    ParserOptions
}

// DefaultConfig returns the default Decoder configuration.
func DefaultConfig() Config {
	return Config{
		ReadBufferSize: 32 * 1024,
		Tokenizer:      tokenizer.DefaultOptions(),
		Parser:         parser.DefaultOptions(),
	}
}

// Validate checks that c's numeric fields are in range.
func (c Config) Validate() error {
	if c.ReadBufferSize < 1 {
		return ErrInvalidConfiguration
	}
	return nil
}
