package parser

// Options configures a Parser.
type Options struct {
	// IgnoreWhitespace suppresses OnText events whose decoded content is
	// entirely XML whitespace.
	IgnoreWhitespace bool

	// IgnoreComments suppresses OnComment events entirely.
	IgnoreComments bool

	// IgnoreProcessingInstructions suppresses OnProcessingInstruction events
	// entirely. Declarations ("<?xml ...?>") are never suppressed by this.
	IgnoreProcessingInstructions bool

	// CoerceCDataToText routes CDATA sections to OnText instead of OnCData.
	// The content is still never entity-decoded, per XML 1.0 semantics for
	// CDATA — only the callback it is delivered through changes.
	CoerceCDataToText bool

	// MaxDepth bounds element nesting depth. Zero means unlimited. Exceeding
	// it returns xmlerr.ErrMaxDepthExceeded from Process/Finalize, guarding
	// against unbounded stack growth from a pathological or adversarial
	// document; it has no effect on well-formed documents of reasonable
	// depth and is not part of XML's grammar.
	MaxDepth int

	// EntityStrict enables the §4.3 strict-mode bare-'&' prescan on text
	// content and attribute values.
	EntityStrict bool
}

// DefaultOptions returns the Parser defaults: no suppression, no depth
// limit, lenient entity handling.
func DefaultOptions() Options {
	return Options{}
}
