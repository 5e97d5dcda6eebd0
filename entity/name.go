package entity

import "sync"

// QName is a qualified name split into its namespace prefix (empty if
// unprefixed) and local part.
type QName struct {
	Prefix string
	Local  string
}

// ParseName splits s on its first ':'. A name with no colon has an empty
// Prefix. This performs no validation beyond locating the separator — a
// name with a colon in an invalid position is still split on it, matching
// this non-validating parser's general posture.
func ParseName(s string) QName {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return QName{Prefix: s[:i], Local: s[i+1:]}
		}
	}
	return QName{Local: s}
}

// NameCache memoizes ParseName by input string, so a consumer that sees the
// same element or attribute name repeatedly across a large document splits
// it only once. The xmldom tree builder does not use it: it keeps raw
// qualified names and never splits them. The zero value is ready to use; a
// NameCache is safe for concurrent use.
type NameCache struct {
	mu    sync.RWMutex
	cache map[string]QName
}

// Parse returns the QName for s, populating the cache on first use.
func (c *NameCache) Parse(s string) QName {
	c.mu.RLock()
	q, ok := c.cache[s]
	c.mu.RUnlock()
	if ok {
		return q
	}
	q = ParseName(s)
	c.mu.Lock()
	if c.cache == nil {
		c.cache = make(map[string]QName)
	}
	c.cache[s] = q
	c.mu.Unlock()
	return q
}
