package xmldom

import (
	"strings"

	"github.com/fenwick-labs/xmlstream/parser"
	"github.com/fenwick-labs/xmlstream/token"
	"github.com/fenwick-labs/xmlstream/xmlerr"
)

var _ parser.Callbacks = (*Builder)(nil)

// Builder implements parser.Callbacks and assembles a Document from the
// events a Parser reports. Like Parser itself, a Builder is single-use and
// not safe for concurrent use.
type Builder struct {
	doc *Document

	root    *Element
	stack   []*Element
	err     error
	rootPos token.Position
	sawRoot bool
}

// NewBuilder returns an empty Builder ready to receive events.
func NewBuilder() *Builder {
	return &Builder{doc: &Document{}}
}

// Document returns the built Document. It must only be called after the
// driving Parser's Finalize has succeeded; calling it earlier may return a
// partially built tree.
func (b *Builder) Document() (*Document, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.sawRoot {
		return nil, xmlerr.New(token.Zero, "No root element found in XML document")
	}
	b.doc.Root = b.root
	return b.doc, nil
}

func (b *Builder) fail(err error) error {
	b.err = err
	return err
}

func (b *Builder) OnStartElement(name string, _ int, attrs *parser.AttrIter, selfClosing bool, pos token.Position) error {
	el := &Element{Name: name, Pos: pos}
	for i := 0; i < attrs.Count(); i++ {
		el.Attrs = append(el.Attrs, Attr{Name: attrs.Name(i), Value: attrs.Value(i)})
	}

	if len(b.stack) == 0 {
		if b.sawRoot {
			return b.fail(xmlerr.New(pos, "Multiple root elements are not allowed"))
		}
		b.sawRoot = true
		b.root = el
		b.rootPos = pos
	} else {
		parent := b.stack[len(b.stack)-1]
		el.parent = parent
		parent.Children = append(parent.Children, el)
	}

	// A self-closing element is pushed too: the Parser reports its synthetic
	// OnEndElement right after this call, which pops it again.
	b.stack = append(b.stack, el)
	return nil
}

func (b *Builder) OnEndElement(_ string, _ int, _ token.Position) error {
	if len(b.stack) > 0 {
		b.stack = b.stack[:len(b.stack)-1]
	}
	return nil
}

func (b *Builder) appendChild(n Node, pos token.Position) error {
	if len(b.stack) == 0 {
		// Character data outside the root element: whitespace between
		// top-level constructs is dropped; anything else is an error.
		var content string
		switch v := n.(type) {
		case *Text:
			content = v.Content
		case *CData:
			content = v.Content
		}
		if strings.TrimLeft(content, " \t\n\r") != "" {
			return b.fail(xmlerr.New(pos, "Text content is not allowed outside the root element"))
		}
		return nil
	}
	top := b.stack[len(b.stack)-1]
	top.Children = append(top.Children, n)
	return nil
}

func (b *Builder) OnText(content string, pos token.Position) error {
	return b.appendChild(&Text{Content: content, Pos: pos, parent: b.currentParent()}, pos)
}

func (b *Builder) OnCData(content string, pos token.Position) error {
	return b.appendChild(&CData{Content: content, Pos: pos, parent: b.currentParent()}, pos)
}

func (b *Builder) OnComment(content string, pos token.Position) error {
	n := &Comment{Content: content, Pos: pos, parent: b.currentParent()}
	if len(b.stack) == 0 {
		if b.sawRoot {
			b.doc.Epilogue = append(b.doc.Epilogue, n)
		} else {
			b.doc.Prologue = append(b.doc.Prologue, n)
		}
		return nil
	}
	return b.appendChild(n, pos)
}

func (b *Builder) OnProcessingInstruction(target, content string, pos token.Position) error {
	n := &ProcInst{Target: target, Content: content, Pos: pos, parent: b.currentParent()}
	if len(b.stack) == 0 {
		if b.sawRoot {
			b.doc.Epilogue = append(b.doc.Epilogue, n)
		} else {
			b.doc.Prologue = append(b.doc.Prologue, n)
		}
		return nil
	}
	return b.appendChild(n, pos)
}

func (b *Builder) OnDeclaration(version string, encoding, standalone *string, pos token.Position) error {
	b.doc.Declaration = &Declaration{Version: version, Encoding: encoding, Standalone: standalone, Pos: pos}
	return nil
}

func (b *Builder) OnDoctype(name string, publicID, systemID *string, pos token.Position) error {
	b.doc.Doctype = &Doctype{Name: name, PublicID: publicID, SystemID: systemID, Pos: pos}
	return nil
}

func (b *Builder) currentParent() *Element {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}
