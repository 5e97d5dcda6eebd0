package parser

import "strings"

// AttrIter gives O(1) random access to the attributes of the element
// currently being reported. Its backing arrays are owned by the Parser and
// reused across elements — grown as needed, never shrunk — so its contents
// are only valid for the duration of the OnStartElement call that receives
// it; a consumer that needs attribute data afterward must copy it out.
type AttrIter struct {
	names  []string
	values []string
}

// Count returns the number of attributes on the current element.
func (a *AttrIter) Count() int { return len(a.names) }

// Name returns the raw (possibly prefixed) name of attribute i.
func (a *AttrIter) Name(i int) string { return a.names[i] }

// Value returns the normalized, entity-decoded value of attribute i.
func (a *AttrIter) Value(i int) string { return a.values[i] }

// ColonIndex returns the byte index of the first ':' in attribute i's name,
// or -1 if it is unprefixed.
func (a *AttrIter) ColonIndex(i int) int {
	return strings.IndexByte(a.names[i], ':')
}

func (a *AttrIter) reset() {
	a.names = a.names[:0]
	a.values = a.values[:0]
}

func (a *AttrIter) add(name, value string) {
	a.names = append(a.names, name)
	a.values = append(a.values, value)
}
