package tokenizer

// isNameStartChar reports whether r may start an XML name.
//
// ASCII-accurate per XML 1.0's NameStartChar production, plus a permissive
// fallback that treats every code point above ASCII as a valid name-start
// character. A strict implementation would consult the full Unicode
// NameStartChar range table; this non-validating parser accepts a (documented,
// see SPEC_FULL.md Open Questions) superset instead, the same trade-off
// shapestone-shape-xml's tokenizer makes.
func isNameStartChar(r rune) bool {
	return (r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		r == '_' || r == ':' ||
		r > 127
}

// isNameChar reports whether r may appear after the first character of an
// XML name.
func isNameChar(r rune) bool {
	return isNameStartChar(r) ||
		(r >= '0' && r <= '9') ||
		r == '.' || r == '-'
}

// isWhitespace reports whether r is XML 1.0 §2.3 whitespace.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
