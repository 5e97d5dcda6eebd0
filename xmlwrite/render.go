// Package xmlwrite serializes an xmldom.Document back to XML bytes.
package xmlwrite

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/fenwick-labs/xmlstream/xmldom"
)

// bufferPool reduces allocations across repeated Stringify/Render calls.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() <= 64*1024 {
		bufferPool.Put(buf)
	}
}

// Render writes doc to compact XML bytes with no inserted whitespace.
func Render(doc *xmldom.Document) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := render(doc, buf, false, "", ""); err != nil {
		return nil, err
	}
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// RenderIndent writes doc to pretty-printed XML bytes: each line at nesting
// depth one or more starts with prefix followed by indent repeated once per
// depth. Lines at depth zero (the declaration, DOCTYPE, the root's start and
// end tags, and top-level comments or PIs) carry neither prefix nor indent.
func RenderIndent(doc *xmldom.Document, prefix, indent string) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := render(doc, buf, true, prefix, indent); err != nil {
		return nil, err
	}
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// Stringify is Render with a string result, for callers that don't need the
// byte slice form.
func Stringify(doc *xmldom.Document) (string, error) {
	b, err := Render(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func render(doc *xmldom.Document, buf *bytes.Buffer, pretty bool, prefix, indent string) error {
	if doc.Declaration != nil {
		renderDeclaration(doc.Declaration, buf)
		if pretty {
			buf.WriteString("\n")
		}
	}
	if doc.Doctype != nil {
		if err := renderDoctype(doc.Doctype, buf); err != nil {
			return err
		}
		if pretty {
			buf.WriteString("\n")
		}
	}
	for _, n := range doc.Prologue {
		if err := renderNode(n, buf, pretty, prefix, indent, 0); err != nil {
			return err
		}
	}
	if doc.Root == nil {
		return fmt.Errorf("xmlwrite: document has no root element")
	}
	if err := renderElement(doc.Root, buf, pretty, prefix, indent, 0); err != nil {
		return err
	}
	for _, n := range doc.Epilogue {
		if err := renderNode(n, buf, pretty, prefix, indent, 0); err != nil {
			return err
		}
	}
	return nil
}

func renderDeclaration(d *xmldom.Declaration, buf *bytes.Buffer) {
	buf.WriteString(`<?xml version="`)
	buf.WriteString(d.Version)
	buf.WriteString(`"`)
	if d.Encoding != nil {
		buf.WriteString(` encoding="`)
		buf.WriteString(*d.Encoding)
		buf.WriteString(`"`)
	}
	if d.Standalone != nil {
		buf.WriteString(` standalone="`)
		buf.WriteString(*d.Standalone)
		buf.WriteString(`"`)
	}
	buf.WriteString("?>")
}

func renderDoctype(d *xmldom.Doctype, buf *bytes.Buffer) error {
	buf.WriteString("<!DOCTYPE ")
	buf.WriteString(d.Name)
	switch {
	case d.PublicID != nil:
		buf.WriteString(` PUBLIC "`)
		buf.WriteString(*d.PublicID)
		buf.WriteString(`"`)
		if d.SystemID != nil {
			buf.WriteString(` "`)
			buf.WriteString(*d.SystemID)
			buf.WriteString(`"`)
		}
	case d.SystemID != nil:
		buf.WriteString(` SYSTEM "`)
		buf.WriteString(*d.SystemID)
		buf.WriteString(`"`)
	}
	buf.WriteString(">")
	return nil
}

func renderNode(n xmldom.Node, buf *bytes.Buffer, pretty bool, prefix, indent string, depth int) error {
	switch v := n.(type) {
	case *xmldom.Element:
		return renderElement(v, buf, pretty, prefix, indent, depth)
	case *xmldom.Text:
		writeIndent(buf, pretty, prefix, indent, depth)
		buf.WriteString(escapeText(v.Content))
		newlineIfPretty(buf, pretty)
		return nil
	case *xmldom.CData:
		writeIndent(buf, pretty, prefix, indent, depth)
		if err := writeCData(buf, v.Content); err != nil {
			return err
		}
		newlineIfPretty(buf, pretty)
		return nil
	case *xmldom.Comment:
		writeIndent(buf, pretty, prefix, indent, depth)
		if err := writeComment(buf, v.Content); err != nil {
			return err
		}
		newlineIfPretty(buf, pretty)
		return nil
	case *xmldom.ProcInst:
		writeIndent(buf, pretty, prefix, indent, depth)
		buf.WriteString("<?")
		buf.WriteString(v.Target)
		if v.Content != "" {
			buf.WriteString(" ")
			buf.WriteString(v.Content)
		}
		buf.WriteString("?>")
		newlineIfPretty(buf, pretty)
		return nil
	default:
		return fmt.Errorf("xmlwrite: unknown node type %T", n)
	}
}

func renderElement(el *xmldom.Element, buf *bytes.Buffer, pretty bool, prefix, indent string, depth int) error {
	writeIndent(buf, pretty, prefix, indent, depth)

	buf.WriteString("<")
	buf.WriteString(el.Name)
	for _, a := range el.Attrs {
		buf.WriteString(" ")
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		buf.WriteString(escapeAttrValue(a.Value))
		buf.WriteString(`"`)
	}

	if len(el.Children) == 0 {
		buf.WriteString("/>")
		newlineIfPretty(buf, pretty)
		return nil
	}
	buf.WriteString(">")

	textOnly := elementIsTextOnly(el)
	if pretty && !textOnly {
		buf.WriteString("\n")
	}
	for _, c := range el.Children {
		childDepth := depth + 1
		if textOnly {
			// Text/CDATA-only content renders inline, without per-child
			// indentation.
			if err := renderNode(c, buf, false, "", "", 0); err != nil {
				return err
			}
			continue
		}
		if err := renderNode(c, buf, pretty, prefix, indent, childDepth); err != nil {
			return err
		}
	}
	if pretty && !textOnly {
		writeIndent(buf, true, prefix, indent, depth)
	}

	buf.WriteString("</")
	buf.WriteString(el.Name)
	buf.WriteString(">")
	newlineIfPretty(buf, pretty)
	return nil
}

// elementIsTextOnly reports whether every one of el's children is a Text or
// CData node. Per the stringify contract, only text/cdata-only content
// renders inline; an element with even one Element/Comment/ProcInst child
// (mixed content included) is broken across lines under RenderIndent.
func elementIsTextOnly(el *xmldom.Element) bool {
	for _, c := range el.Children {
		switch c.(type) {
		case *xmldom.Text, *xmldom.CData:
			continue
		default:
			return false
		}
	}
	return true
}

func writeIndent(buf *bytes.Buffer, pretty bool, prefix, indent string, depth int) {
	if !pretty || depth == 0 {
		return
	}
	buf.WriteString(prefix)
	buf.WriteString(strings.Repeat(indent, depth))
}

func newlineIfPretty(buf *bytes.Buffer, pretty bool) {
	if pretty {
		buf.WriteString("\n")
	}
}

// writeCData emits content as one or more CDATA sections, splitting on any
// "]]>" terminator sequence so the literal content can never prematurely
// close the section: "a]]>b" becomes "<![CDATA[a]]]]><![CDATA[>b]]>".
func writeCData(buf *bytes.Buffer, content string) error {
	for {
		idx := strings.Index(content, "]]>")
		if idx == -1 {
			buf.WriteString("<![CDATA[")
			buf.WriteString(content)
			buf.WriteString("]]>")
			return nil
		}
		buf.WriteString("<![CDATA[")
		buf.WriteString(content[:idx+2]) // include "]]"
		buf.WriteString("]]>")
		content = content[idx+2:] // resume from ">b..."
	}
}

// writeComment validates and emits a comment. XML forbids "--" inside a
// comment and a trailing "-" immediately before the closing "-->".
func writeComment(buf *bytes.Buffer, content string) error {
	if strings.Contains(content, "--") {
		return fmt.Errorf("xmlwrite: comment content must not contain \"--\": %q", content)
	}
	if strings.HasSuffix(content, "-") {
		return fmt.Errorf("xmlwrite: comment content must not end with \"-\": %q", content)
	}
	buf.WriteString("<!--")
	buf.WriteString(content)
	buf.WriteString("-->")
	return nil
}

func escapeText(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeAttrValue encodes an attribute value per XML 1.0 §3.3.3: the five
// markup characters plus literal tab/newline/CR, which must round-trip as
// character references rather than literal whitespace (which attribute-value
// normalization on read would otherwise collapse to a plain space).
// html.EscapeString does not cover that whitespace requirement, so it isn't
// used here.
func escapeAttrValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		case '\t':
			b.WriteString("&#9;")
		case '\n':
			b.WriteString("&#10;")
		case '\r':
			b.WriteString("&#13;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
