// Package entity decodes XML 1.0 character references and splits qualified
// names into their prefix and local parts.
package entity

import (
	"strconv"
	"strings"

	"github.com/fenwick-labs/xmlstream/token"
	"github.com/fenwick-labs/xmlstream/xmlerr"
)

// predefined holds the five entities XML 1.0 defines without a DTD.
var predefined = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"apos": "'",
	"quot": "\"",
}

// Decode replaces every well-formed character reference in s with its
// decoded value. A named reference to anything other than the five
// predefined entities, or a numeric reference whose code point falls outside
// the legal XML Char ranges (or that fails to parse), is left untouched —
// including its surrounding "&...;" — rather than rejected: this is a
// non-validating decoder.
func Decode(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		amp := strings.IndexByte(s[i:], '&')
		if amp < 0 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+amp])
		i += amp
		decoded, consumed, ok := decodeOne(s[i:])
		if !ok {
			b.WriteByte('&')
			i++
			continue
		}
		b.WriteString(decoded)
		i += consumed
	}
	return b.String()
}

// decodeOne attempts to decode a single reference at the start of s (which
// begins with '&'). It returns the decoded text, the number of bytes of s
// consumed (including the leading '&' and trailing ';'), and whether a
// well-formed reference was recognized at all. A recognized-but-unresolvable
// reference (unknown name, out-of-range code point) returns ok=true with the
// original literal as "decoded", so the caller does not re-scan it as a bare
// '&'.
func decodeOne(s string) (decoded string, consumed int, ok bool) {
	if len(s) < 3 || s[0] != '&' {
		return "", 0, false
	}
	semi := strings.IndexByte(s, ';')
	if semi < 0 {
		return "", 0, false
	}
	body := s[1:semi]
	full := s[:semi+1]

	if len(body) > 1 && body[0] == '#' {
		if len(body) > 1 && (body[1] == 'x' || body[1] == 'X') {
			return decodeNumeric(body[2:], 16, full), semi + 1, true
		}
		return decodeNumeric(body[1:], 10, full), semi + 1, true
	}
	if !isValidName(body) {
		return "", 0, false
	}
	if r, found := predefined[body]; found {
		return r, semi + 1, true
	}
	return full, semi + 1, true
}

func decodeNumeric(digits string, base int, original string) string {
	if digits == "" {
		return original
	}
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return original
	}
	r := rune(n)
	if !isLegalChar(r) {
		return original
	}
	return string(r)
}

// isLegalChar reports whether r falls within XML 1.0's Char production.
func isLegalChar(r rune) bool {
	switch {
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	default:
		return false
	}
}

func isValidName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isNameStartChar(r) {
				return false
			}
			continue
		}
		if !isNameChar(r) {
			return false
		}
	}
	return true
}

func isNameStartChar(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r == '_' || r == ':' || r > 127
}

func isNameChar(r rune) bool {
	return isNameStartChar(r) || (r >= '0' && r <= '9') || r == '.' || r == '-'
}

// CheckStrict pre-scans s for a bare '&' that does not begin a well-formed
// reference ("name;", "#digits;", or "#xhex;") and reports a *xmlerr.SyntaxError
// positioned at the offending '&' if one is found. base is the position of
// s[0], used to compute the offending position by counting runes.
func CheckStrict(s string, base token.Position) error {
	i := 0
	for i < len(s) {
		amp := strings.IndexByte(s[i:], '&')
		if amp < 0 {
			return nil
		}
		i += amp
		if !looksLikeReference(s[i:]) {
			return xmlerr.New(advance(base, s[:i]), "'&' is not the start of a valid entity or character reference")
		}
		// Skip past this reference so a second, genuinely bad '&' later in
		// the same string is still found.
		semi := strings.IndexByte(s[i:], ';')
		i += semi + 1
	}
	return nil
}

func looksLikeReference(s string) bool {
	if len(s) < 3 || s[0] != '&' {
		return false
	}
	semi := strings.IndexByte(s, ';')
	if semi < 1 {
		return false
	}
	body := s[1:semi]
	if body == "" {
		return false
	}
	if body[0] == '#' {
		digits := body[1:]
		if len(digits) > 1 && (digits[0] == 'x' || digits[0] == 'X') {
			digits = digits[1:]
			return digits != "" && isAllHex(digits)
		}
		return digits != "" && isAllDigits(digits)
	}
	return isValidName(body)
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAllHex(s string) bool {
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}

// advance computes the position reached after consuming prefix starting at
// pos, counting characters the same way the tokenizer does.
func advance(pos token.Position, prefix string) token.Position {
	if pos == token.Zero {
		return token.Zero
	}
	for _, r := range prefix {
		pos.Offset++
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}
