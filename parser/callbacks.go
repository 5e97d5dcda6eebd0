package parser

import "github.com/fenwick-labs/xmlstream/token"

// Callbacks receives well-formedness-validated structural events. Every
// method is optional: embed NoopCallbacks to implement only the handlers a
// consumer needs.
//
// Unlike tokenizer.Callbacks, start-tag-open/attribute/start-tag-close are
// collapsed into a single OnStartElement carrying a fully populated
// attribute iterator, and end-tag reporting is guaranteed well-formed: by
// the time OnEndElement fires, the Parser has already verified it matches
// the innermost open element.
type Callbacks interface {
	// OnStartElement fires once an element's complete start tag (including
	// all attributes) has been read. name is the raw qualified name;
	// colonIndex is the byte offset of its first ':', or -1 if unprefixed;
	// the Parser does no further splitting (entity.ParseName does).
	// attrs is only valid for the duration of this call.
	OnStartElement(name string, colonIndex int, attrs *AttrIter, selfClosing bool, pos token.Position) error

	// OnEndElement fires when an element's closing tag is recognized,
	// including the synthetic close of a self-closing element.
	OnEndElement(name string, colonIndex int, pos token.Position) error

	// OnText fires for decoded character data. Suppressed entirely when
	// Options.IgnoreWhitespace is set and content is pure XML whitespace.
	OnText(content string, pos token.Position) error

	// OnCData fires for a CDATA section, unless Options.CoerceCDataToText
	// routed it to OnText instead.
	OnCData(content string, pos token.Position) error

	// OnComment fires for a comment, unless suppressed by
	// Options.IgnoreComments.
	OnComment(content string, pos token.Position) error

	// OnProcessingInstruction fires for a non-"xml" processing instruction,
	// unless suppressed by Options.IgnoreProcessingInstructions.
	OnProcessingInstruction(target, content string, pos token.Position) error

	// OnDeclaration always fires for an "<?xml ...?>" declaration.
	OnDeclaration(version string, encoding, standalone *string, pos token.Position) error

	// OnDoctype always fires for a DOCTYPE declaration. This callback is not
	// part of the tokenizer's raw set duplicated verbatim — it is forwarded
	// here so a tree builder can retain DOCTYPE information, which the
	// minimal consumer callback list would otherwise drop entirely.
	OnDoctype(name string, publicID, systemID *string, pos token.Position) error
}

// NoopCallbacks implements Callbacks with no-op methods.
type NoopCallbacks struct{}

func (NoopCallbacks) OnStartElement(string, int, *AttrIter, bool, token.Position) error { return nil }
func (NoopCallbacks) OnEndElement(string, int, token.Position) error                    { return nil }
func (NoopCallbacks) OnText(string, token.Position) error                               { return nil }
func (NoopCallbacks) OnCData(string, token.Position) error                              { return nil }
func (NoopCallbacks) OnComment(string, token.Position) error                            { return nil }
func (NoopCallbacks) OnProcessingInstruction(string, string, token.Position) error       { return nil }
func (NoopCallbacks) OnDeclaration(string, *string, *string, token.Position) error       { return nil }
func (NoopCallbacks) OnDoctype(string, *string, *string, token.Position) error           { return nil }

var _ Callbacks = NoopCallbacks{}
