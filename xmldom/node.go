// Package xmldom implements the DOM tree-builder external collaborator: it
// consumes parser.Callbacks events and assembles a navigable document tree.
package xmldom

import "github.com/fenwick-labs/xmlstream/token"

// Node is implemented by every member of a Document's tree.
type Node interface {
	// Parent returns the enclosing Element, or nil for the Document root's
	// direct children's parent lookups on the root Element itself.
	Parent() *Element
	node()
}

// Element is an XML element: a name, an ordered attribute list, and ordered
// children of any Node kind.
type Element struct {
	Name     string // raw qualified name, e.g. "ns:tag"
	Attrs    []Attr
	Children []Node
	Pos      token.Position

	parent *Element
}

// Attr is a single attribute, preserved in source order.
type Attr struct {
	Name  string
	Value string
}

func (e *Element) Parent() *Element { return e.parent }
func (*Element) node()              {}

// Attr looks up an attribute by its raw (qualified) name, returning its
// value and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ChildElements returns e's direct children that are themselves Elements,
// in document order.
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// Text concatenates the decoded text and CDATA content of e's direct
// children, in document order, ignoring any nested element content. For an
// element containing no mixed markup this is its full text value.
func (e *Element) Text() string {
	var b []byte
	for _, c := range e.Children {
		switch n := c.(type) {
		case *Text:
			b = append(b, n.Content...)
		case *CData:
			b = append(b, n.Content...)
		}
	}
	return string(b)
}

// Text is a decoded character-data node.
type Text struct {
	Content string
	Pos     token.Position
	parent  *Element
}

func (t *Text) Parent() *Element { return t.parent }
func (*Text) node()              {}

// CData is a CDATA section's literal (never entity-decoded) content.
type CData struct {
	Content string
	Pos     token.Position
	parent  *Element
}

func (c *CData) Parent() *Element { return c.parent }
func (*CData) node()              {}

// Comment is a comment node.
type Comment struct {
	Content string
	Pos     token.Position
	parent  *Element
}

func (c *Comment) Parent() *Element { return c.parent }
func (*Comment) node()              {}

// ProcInst is a processing instruction node (excluding the "xml" target,
// which is attached to the Document as its Declaration instead).
type ProcInst struct {
	Target  string
	Content string
	Pos     token.Position
	parent  *Element
}

func (p *ProcInst) Parent() *Element { return p.parent }
func (*ProcInst) node()              {}

// Declaration holds an "<?xml ...?>" declaration's pseudo-attributes.
type Declaration struct {
	Version    string
	Encoding   *string
	Standalone *string
	Pos        token.Position
}

// Doctype holds a DOCTYPE declaration's name and optional external IDs.
type Doctype struct {
	Name     string
	PublicID *string
	SystemID *string
	Pos      token.Position
}

// Document is the result of a successful Builder.Document call: a root Element plus any
// document-level declaration, DOCTYPE, and top-level comments or processing
// instructions that preceded or followed the root.
type Document struct {
	Root        *Element
	Declaration *Declaration
	Doctype     *Doctype
	Prologue    []Node // comments/PIs before the root
	Epilogue    []Node // comments/PIs after the root
}
