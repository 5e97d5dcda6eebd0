package tokenizer

import "strings"

// parseDeclarationContent pulls version/encoding/standalone pseudo-attributes
// out of the raw content of a "<?xml ...?>" processing instruction. It is
// deliberately permissive: this is a non-validating parser, so a malformed or
// out-of-order pseudo-attribute list is tolerated rather than rejected.
func parseDeclarationContent(content string) (version string, encoding, standalone *string) {
	version = "1.0"
	if v, ok := extractPseudoAttr(content, "version"); ok {
		version = v
	}
	if v, ok := extractPseudoAttr(content, "encoding"); ok {
		encoding = &v
	}
	if v, ok := extractPseudoAttr(content, "standalone"); ok {
		standalone = &v
	}
	return version, encoding, standalone
}

// extractPseudoAttr finds name="value" or name='value' within content,
// ASCII-case-insensitively on the name, and returns the unquoted value.
func extractPseudoAttr(content, name string) (string, bool) {
	lower := strings.ToLower(content)
	idx := strings.Index(lower, strings.ToLower(name))
	for idx >= 0 {
		rest := content[idx+len(name):]
		trimmed := strings.TrimLeft(rest, " \t\n\r")
		if strings.HasPrefix(trimmed, "=") {
			trimmed = strings.TrimLeft(trimmed[1:], " \t\n\r")
			if len(trimmed) > 0 && (trimmed[0] == '"' || trimmed[0] == '\'') {
				quote := trimmed[0]
				if end := strings.IndexByte(trimmed[1:], quote); end >= 0 {
					return trimmed[1 : 1+end], true
				}
			}
		}
		next := strings.Index(lower[idx+1:], strings.ToLower(name))
		if next < 0 {
			break
		}
		idx = idx + 1 + next
	}
	return "", false
}
