package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/fenwick-labs/xmlstream/token"
	"github.com/fenwick-labs/xmlstream/tokenizer"
	"github.com/fenwick-labs/xmlstream/xmlerr"
)

type attr struct {
	Name  string
	Value string
}

type event struct {
	Kind       string
	Name       string
	ColonIndex int
	Attrs      []attr
	SelfClose  bool
	Content    string
	Target     string
	Version    string
	Encoding   *string
	Standalone *string
	PublicID   *string
	SystemID   *string
	Pos        token.Position
}

type recorder struct {
	events []event
}

func (r *recorder) OnStartElement(name string, colonIndex int, attrs *AttrIter, selfClosing bool, pos token.Position) error {
	var as []attr
	for i := 0; i < attrs.Count(); i++ {
		as = append(as, attr{Name: attrs.Name(i), Value: attrs.Value(i)})
	}
	r.events = append(r.events, event{Kind: "start", Name: name, ColonIndex: colonIndex, Attrs: as, SelfClose: selfClosing, Pos: pos})
	return nil
}

func (r *recorder) OnEndElement(name string, colonIndex int, pos token.Position) error {
	r.events = append(r.events, event{Kind: "end", Name: name, ColonIndex: colonIndex, Pos: pos})
	return nil
}

func (r *recorder) OnText(content string, pos token.Position) error {
	r.events = append(r.events, event{Kind: "text", Content: content, Pos: pos})
	return nil
}

func (r *recorder) OnCData(content string, pos token.Position) error {
	r.events = append(r.events, event{Kind: "cdata", Content: content, Pos: pos})
	return nil
}

func (r *recorder) OnComment(content string, pos token.Position) error {
	r.events = append(r.events, event{Kind: "comment", Content: content, Pos: pos})
	return nil
}

func (r *recorder) OnProcessingInstruction(target, content string, pos token.Position) error {
	r.events = append(r.events, event{Kind: "pi", Target: target, Content: content, Pos: pos})
	return nil
}

func (r *recorder) OnDeclaration(version string, encoding, standalone *string, pos token.Position) error {
	r.events = append(r.events, event{Kind: "declaration", Version: version, Encoding: encoding, Standalone: standalone, Pos: pos})
	return nil
}

func (r *recorder) OnDoctype(name string, publicID, systemID *string, pos token.Position) error {
	r.events = append(r.events, event{Kind: "doctype", Name: name, PublicID: publicID, SystemID: systemID, Pos: pos})
	return nil
}

var _ Callbacks = (*recorder)(nil)

func run(t *testing.T, opts Options, input string) ([]event, error) {
	t.Helper()
	r := &recorder{}
	p := New(opts, r)
	tok := tokenizer.New(tokenizer.DefaultOptions())
	if err := tok.Process([]byte(input), p); err != nil {
		return r.events, err
	}
	if err := tok.Finalize(p); err != nil {
		return r.events, err
	}
	if err := p.Finalize(); err != nil {
		return r.events, err
	}
	return r.events, nil
}

func TestParserNestedElements(t *testing.T) {
	got, err := run(t, DefaultOptions(), `<a x="1"><b>text</b><c/></a>`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []event{
		{Kind: "start", Name: "a", ColonIndex: -1, Attrs: []attr{{"x", "1"}}},
		{Kind: "start", Name: "b", ColonIndex: -1},
		{Kind: "text", Content: "text"},
		{Kind: "end", Name: "b", ColonIndex: -1},
		{Kind: "start", Name: "c", ColonIndex: -1, SelfClose: true},
		{Kind: "end", Name: "c", ColonIndex: -1},
		{Kind: "end", Name: "a", ColonIndex: -1},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestParserNamespacePrefix(t *testing.T) {
	got, err := run(t, DefaultOptions(), `<ns:root ns:attr="v"/>`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].ColonIndex != 2 {
		t.Errorf("ColonIndex = %d, want 2 (ns:root)", got[0].ColonIndex)
	}
	if got[0].Attrs[0].Name != "ns:attr" {
		t.Errorf("attr name = %q, want ns:attr", got[0].Attrs[0].Name)
	}
}

func TestParserEntityDecodingInTextAndAttrs(t *testing.T) {
	got, err := run(t, DefaultOptions(), `<a x="&lt;&amp;&gt;">&quot;hi&quot;</a>`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got[0].Attrs[0].Value != `<&>` {
		t.Errorf("attr value = %q, want <&>", got[0].Attrs[0].Value)
	}
	if got[1].Content != `"hi"` {
		t.Errorf("text content = %q, want \"hi\"", got[1].Content)
	}
}

func TestParserAttributeValueWhitespaceNormalization(t *testing.T) {
	got, err := run(t, DefaultOptions(), "<a x=\"line1\tline2\nline3\"/>")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "line1 line2 line3"
	if got[0].Attrs[0].Value != want {
		t.Errorf("attr value = %q, want %q", got[0].Attrs[0].Value, want)
	}
}

func TestParserAttributeValueWhitespacePreservedViaCharRef(t *testing.T) {
	got, err := run(t, DefaultOptions(), `<a x="a&#9;b"/>`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "a\tb"
	if got[0].Attrs[0].Value != want {
		t.Errorf("attr value = %q, want %q (literal tab preserved via char ref)", got[0].Attrs[0].Value, want)
	}
}

func TestParserMismatchedCloseTag(t *testing.T) {
	_, err := run(t, DefaultOptions(), `<a><b></c></a>`)
	if err == nil {
		t.Fatal("expected mismatched tag error")
	}
	if !strings.Contains(err.Error(), "Mismatched closing tag") {
		t.Errorf("error = %q, want Mismatched closing tag message", err.Error())
	}
}

func TestParserUnexpectedCloseTag(t *testing.T) {
	_, err := run(t, DefaultOptions(), `</a>`)
	if err == nil {
		t.Fatal("expected unexpected closing tag error")
	}
	if !strings.Contains(err.Error(), "Unexpected closing tag") {
		t.Errorf("error = %q, want Unexpected closing tag message", err.Error())
	}
}

func TestParserUnclosedElement(t *testing.T) {
	_, err := run(t, DefaultOptions(), `<a><b></b>`)
	if err == nil {
		t.Fatal("expected unclosed element error")
	}
	if !strings.Contains(err.Error(), "Unclosed element <a>") {
		t.Errorf("error = %q, want Unclosed element <a> message", err.Error())
	}
}

func TestParserIgnoreWhitespace(t *testing.T) {
	got, err := run(t, Options{IgnoreWhitespace: true}, "<a>\n  <b/>\n</a>")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, e := range got {
		if e.Kind == "text" {
			t.Errorf("expected whitespace-only text to be suppressed, got %+v", e)
		}
	}
}

func TestParserIgnoreComments(t *testing.T) {
	got, err := run(t, Options{IgnoreComments: true}, `<a><!--c--></a>`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, e := range got {
		if e.Kind == "comment" {
			t.Errorf("expected comment to be suppressed, got %+v", e)
		}
	}
}

func TestParserCoerceCDataToText(t *testing.T) {
	got, err := run(t, Options{CoerceCDataToText: true}, `<a><![CDATA[&amp;]]></a>`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	found := false
	for _, e := range got {
		if e.Kind == "cdata" {
			t.Fatalf("expected CDATA to be coerced to text, got cdata event %+v", e)
		}
		if e.Kind == "text" && e.Content == "&amp;" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a text event with literal (undecoded) content, got %+v", got)
	}
}

func TestParserMaxDepthExceeded(t *testing.T) {
	_, err := run(t, Options{MaxDepth: 2}, `<a><b><c/></b></a>`)
	if err == nil {
		t.Fatal("expected max depth error")
	}
	if err != xmlerr.ErrMaxDepthExceeded {
		t.Errorf("error = %v, want ErrMaxDepthExceeded", err)
	}
}

func TestParserMaxDepthNotExceededBySiblings(t *testing.T) {
	_, err := run(t, Options{MaxDepth: 2}, `<a><b/><c/></a>`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestParserDoctypeAndDeclarationForwarded(t *testing.T) {
	got, err := run(t, DefaultOptions(), `<?xml version="1.0"?><!DOCTYPE a><a/>`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got[0].Kind != "declaration" || got[1].Kind != "doctype" {
		t.Fatalf("got %+v, want declaration then doctype", got)
	}
}
