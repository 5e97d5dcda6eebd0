package xmlstream

import (
	"io"
	"strings"

	"github.com/fenwick-labs/xmlstream/parser"
	"github.com/fenwick-labs/xmlstream/tokenizer"
)

// Validate reports whether input is well-formed XML, without building a
// tree. Returns nil if the input is valid.
func Validate(input string) error {
	return ValidateReader(strings.NewReader(input))
}

// ValidateReader is Validate over an io.Reader, streaming in bounded
// chunks so the whole document is never held in memory at once; memory
// still grows with nesting depth and with any single construct (such as a
// long text run) that spans chunks.
func ValidateReader(r io.Reader) error {
	p := parser.New(parser.DefaultOptions(), parser.NoopCallbacks{})
	tok := tokenizer.New(tokenizer.DefaultOptions())

	buf := make([]byte, DefaultConfig().ReadBufferSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if procErr := tok.Process(buf[:n], p); procErr != nil {
				return procErr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	if err := tok.Finalize(p); err != nil {
		return err
	}
	return p.Finalize()
}
