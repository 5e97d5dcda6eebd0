// Package parser aggregates raw tokenizer.Callbacks events into
// well-formedness-validated structural events: matching start/end tags,
// complete attribute sets, and element nesting.
package parser

import (
	"strings"

	"github.com/fenwick-labs/xmlstream/entity"
	"github.com/fenwick-labs/xmlstream/token"
	"github.com/fenwick-labs/xmlstream/tokenizer"
	"github.com/fenwick-labs/xmlstream/xmlerr"
)

// Parser implements tokenizer.Callbacks, so it can be passed directly as the
// callback argument to a Tokenizer's Process/Finalize methods.
var _ tokenizer.Callbacks = (*Parser)(nil)

// Parser consumes tokenizer.Callbacks events — a *Parser implements that
// interface directly, so it can be handed straight to a Tokenizer's Process
// method — and reports well-formedness-validated structural events through
// a Callbacks implementation.
//
// A Parser is single-use and not safe for concurrent use, matching the
// Tokenizer it sits atop.
type Parser struct {
	opts Options
	cb   Callbacks

	stack []openElement
	attrs AttrIter

	pendingName string
	pendingPos  token.Position

	err error
}

type openElement struct {
	name string
	pos  token.Position
}

// New returns a Parser that reports structural events to cb (NoopCallbacks
// if nil).
func New(opts Options, cb Callbacks) *Parser {
	if cb == nil {
		cb = NoopCallbacks{}
	}
	return &Parser{opts: opts, cb: cb}
}

// Finalize must be called once the underlying Tokenizer's Finalize has
// succeeded. It reports an *xmlerr.SyntaxError if any element was left open.
func (p *Parser) Finalize() error {
	if p.err != nil {
		return p.err
	}
	if len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		err := xmlerr.New(top.pos, "Unclosed element <%s>", top.name)
		p.err = err
		return err
	}
	return nil
}

func (p *Parser) fail(err error) error {
	p.err = err
	return err
}

func (p *Parser) OnStartTagOpen(name string, pos token.Position) error {
	p.pendingName = name
	p.pendingPos = pos
	p.attrs.reset()
	return nil
}

func (p *Parser) OnAttribute(name, value string) error {
	value = normalizeAttrWhitespace(value)
	if p.opts.EntityStrict {
		if err := entity.CheckStrict(value, p.pendingPos); err != nil {
			return p.fail(err)
		}
	}
	p.attrs.add(name, entity.Decode(value))
	return nil
}

func (p *Parser) OnStartTagClose(selfClosing bool) error {
	name := p.pendingName
	pos := p.pendingPos
	colonIndex := strings.IndexByte(name, ':')

	if p.opts.MaxDepth > 0 && len(p.stack)+1 > p.opts.MaxDepth {
		return p.fail(xmlerr.ErrMaxDepthExceeded)
	}

	if err := p.cb.OnStartElement(name, colonIndex, &p.attrs, selfClosing, pos); err != nil {
		return p.fail(err)
	}
	if selfClosing {
		return p.cb.OnEndElement(name, colonIndex, pos)
	}
	p.stack = append(p.stack, openElement{name: name, pos: pos})
	return nil
}

func (p *Parser) OnEndTag(name string, pos token.Position) error {
	if len(p.stack) == 0 {
		return p.fail(xmlerr.New(pos, "Unexpected closing tag </%s> with no matching opening tag", name))
	}
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	if top.name != name {
		return p.fail(xmlerr.New(pos, "Mismatched closing tag: expected </%s> but found </%s>", top.name, name))
	}
	colonIndex := strings.IndexByte(name, ':')
	return p.cb.OnEndElement(name, colonIndex, pos)
}

func (p *Parser) OnText(content string, pos token.Position) error {
	if p.opts.EntityStrict {
		if err := entity.CheckStrict(content, pos); err != nil {
			return p.fail(err)
		}
	}
	decoded := entity.Decode(content)
	if p.opts.IgnoreWhitespace && isAllWhitespace(decoded) {
		return nil
	}
	return p.cb.OnText(decoded, pos)
}

func (p *Parser) OnCData(content string, pos token.Position) error {
	if p.opts.CoerceCDataToText {
		return p.cb.OnText(content, pos)
	}
	return p.cb.OnCData(content, pos)
}

func (p *Parser) OnComment(content string, pos token.Position) error {
	if p.opts.IgnoreComments {
		return nil
	}
	return p.cb.OnComment(content, pos)
}

func (p *Parser) OnProcessingInstruction(target, content string, pos token.Position) error {
	if p.opts.IgnoreProcessingInstructions {
		return nil
	}
	return p.cb.OnProcessingInstruction(target, content, pos)
}

func (p *Parser) OnDeclaration(version string, encoding, standalone *string, pos token.Position) error {
	return p.cb.OnDeclaration(version, encoding, standalone, pos)
}

func (p *Parser) OnDoctype(name string, publicID, systemID *string, pos token.Position) error {
	return p.cb.OnDoctype(name, publicID, systemID, pos)
}

func normalizeAttrWhitespace(s string) string {
	if !strings.ContainsAny(s, "\t\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\t' || r == '\n' {
			b.WriteByte(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAllWhitespace(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
