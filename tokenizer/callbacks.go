package tokenizer

import "github.com/fenwick-labs/xmlstream/token"

// Callbacks receives raw lexical events from a Tokenizer as they are
// recognized, in document order. Every method is optional: embed
// NoopCallbacks to satisfy the interface and override only the events you
// care about.
//
// Returning a non-nil error from any method aborts tokenization; the
// Tokenizer surfaces that error unchanged from Process or Finalize and
// becomes unusable (matching the behavior of a well-formedness error).
//
// Position is the location of the first character of the construct that
// produced the event, and is token.Zero when the Tokenizer was built with
// TrackPosition: false. Attribute events carry no position (see OnAttribute).
type Callbacks interface {
	// OnStartTagOpen fires once a start or empty-element tag's name has been
	// read, before any attributes. name is the qualified name exactly as
	// written (e.g. "ns:tag"); the tokenizer does not split it.
	OnStartTagOpen(name string, pos token.Position) error

	// OnAttribute fires once for each attribute of the tag currently being
	// opened, after OnStartTagOpen and before OnStartTagClose. value is the
	// raw, un-normalized, un-decoded attribute value exactly as it appeared
	// between the quotes.
	OnAttribute(name, value string) error

	// OnStartTagClose fires when the '>' (or "/>" ) that ends a start tag is
	// reached. selfClosing is true for "/>".
	OnStartTagClose(selfClosing bool) error

	// OnEndTag fires when a complete "</name>" has been read.
	OnEndTag(name string, pos token.Position) error

	// OnText fires for a run of character data between markup. content is
	// the raw text, with line endings already normalized to '\n' but with
	// entity references still encoded — decoding is the parser's job.
	OnText(content string, pos token.Position) error

	// OnCData fires for a complete "<![CDATA[ ... ]]>" section. content is
	// literal: no entity decoding applies inside CDATA.
	OnCData(content string, pos token.Position) error

	// OnComment fires for a complete "<!-- ... -->" comment.
	OnComment(content string, pos token.Position) error

	// OnProcessingInstruction fires for a complete "<?target content?>" whose
	// target is not (ASCII case-insensitively) "xml".
	OnProcessingInstruction(target, content string, pos token.Position) error

	// OnDeclaration fires instead of OnProcessingInstruction when the target
	// is "xml". encoding and standalone are nil when absent from the
	// declaration; version defaults to "1.0" when absent.
	OnDeclaration(version string, encoding, standalone *string, pos token.Position) error

	// OnDoctype fires for a complete "<!DOCTYPE ...>" declaration, including
	// any internal subset (whose contents are not further interpreted).
	// publicID and systemID are nil when the corresponding external ID form
	// was not present.
	OnDoctype(name string, publicID, systemID *string, pos token.Position) error
}

// NoopCallbacks implements Callbacks with no-op methods. Embed it to
// implement only the handlers a caller needs.
type NoopCallbacks struct{}

func (NoopCallbacks) OnStartTagOpen(string, token.Position) error             { return nil }
func (NoopCallbacks) OnAttribute(string, string) error                       { return nil }
func (NoopCallbacks) OnStartTagClose(bool) error                             { return nil }
func (NoopCallbacks) OnEndTag(string, token.Position) error                  { return nil }
func (NoopCallbacks) OnText(string, token.Position) error                   { return nil }
func (NoopCallbacks) OnCData(string, token.Position) error                  { return nil }
func (NoopCallbacks) OnComment(string, token.Position) error                { return nil }
func (NoopCallbacks) OnProcessingInstruction(string, string, token.Position) error { return nil }
func (NoopCallbacks) OnDeclaration(string, *string, *string, token.Position) error { return nil }
func (NoopCallbacks) OnDoctype(string, *string, *string, token.Position) error     { return nil }

var _ Callbacks = NoopCallbacks{}
