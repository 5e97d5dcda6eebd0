package tokenizer

// Options configures a Tokenizer. The zero value disables position tracking;
// DefaultOptions returns the defaults, whose fields can then be overridden.
type Options struct {
	// TrackPosition enables line/column/offset tracking. Disabling it skips
	// the rune-counting pass on every scanned byte and reports token.Zero
	// for every position, trading diagnostics for throughput on inputs where
	// errors are never expected to matter (e.g. re-tokenizing already
	// validated output).
	TrackPosition bool

	// MaxNameLength, when non-zero, bounds the number of bytes accepted for
	// any single name (tag, attribute, PI target, DOCTYPE name) before
	// scanning it fails with a *xmlerr.SyntaxError. Zero means unlimited.
	// This guards against unbounded memory growth from a pathological single
	// name spanning many chunks; it is not part of XML's grammar and has no
	// effect on well-formed documents with reasonable names.
	MaxNameLength int
}

// DefaultOptions returns the Tokenizer defaults: position tracking on, no
// name-length limit.
func DefaultOptions() Options {
	return Options{TrackPosition: true}
}
