package tokenizer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/fenwick-labs/xmlstream/token"
)

// event is a flattened, comparable record of one callback invocation. Tests
// compare slices of event with go-cmp rather than asserting on the live
// Tokenizer, so the same expectation works regardless of how the input was
// chunked.
type event struct {
	Kind       string
	Name       string
	Value      string
	Content    string
	Target     string
	SelfClose  bool
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

func (r *recorder) OnStartTagOpen(name string, pos token.Position) error {
	r.events = append(r.events, event{Kind: "startTagOpen", Name: name, Pos: pos})
	return nil
}

func (r *recorder) OnAttribute(name, value string) error {
	r.events = append(r.events, event{Kind: "attribute", Name: name, Value: value})
	return nil
}

func (r *recorder) OnStartTagClose(selfClosing bool) error {
	r.events = append(r.events, event{Kind: "startTagClose", SelfClose: selfClosing})
	return nil
}

func (r *recorder) OnEndTag(name string, pos token.Position) error {
	r.events = append(r.events, event{Kind: "endTag", Name: name, Pos: pos})
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

// strp is a helper for building expected *string fields in test tables.
func strp(s string) *string { return &s }

func runAllAtOnce(t *testing.T, input string) []event {
	t.Helper()
	tok := New(DefaultOptions())
	r := &recorder{}
	if err := tok.Process([]byte(input), r); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := tok.Finalize(r); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return r.events
}

func runChunked(t *testing.T, input string, splits []int) []event {
	t.Helper()
	tok := New(DefaultOptions())
	r := &recorder{}
	prev := 0
	for _, s := range splits {
		if err := tok.Process([]byte(input[prev:s]), r); err != nil {
			t.Fatalf("Process at split %d: %v", s, err)
		}
		prev = s
	}
	if err := tok.Process([]byte(input[prev:]), r); err != nil {
		t.Fatalf("Process tail: %v", err)
	}
	if err := tok.Finalize(r); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return r.events
}

func TestTokenizerBasicElement(t *testing.T) {
	got := runAllAtOnce(t, `<greeting lang="en">Hello, world!</greeting>`)
	want := []event{
		{Kind: "startTagOpen", Name: "greeting"},
		{Kind: "attribute", Name: "lang", Value: "en"},
		{Kind: "startTagClose"},
		{Kind: "text", Content: "Hello, world!"},
		{Kind: "endTag", Name: "greeting"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	wantPos := token.Position{Line: 1, Column: 1, Offset: 0}
	if diff := cmp.Diff(wantPos, got[0].Pos); diff != "" {
		t.Errorf("start tag position mismatch (-want +got):\n%s", diff)
	}
	wantTextPos := token.Position{Line: 1, Column: 21, Offset: 20}
	if diff := cmp.Diff(wantTextPos, got[3].Pos); diff != "" {
		t.Errorf("text position mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerSelfClosing(t *testing.T) {
	got := runAllAtOnce(t, `<br/>`)
	want := []event{
		{Kind: "startTagOpen", Name: "br"},
		{Kind: "startTagClose", SelfClose: true},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerComment(t *testing.T) {
	got := runAllAtOnce(t, `<!-- a comment --><root/>`)
	want := []event{
		{Kind: "comment", Content: " a comment "},
		{Kind: "startTagOpen", Name: "root"},
		{Kind: "startTagClose", SelfClose: true},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerCommentPathologicalDashes(t *testing.T) {
	got := runAllAtOnce(t, `<!--a---->`)
	want := []event{
		{Kind: "comment", Content: "a--"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerCData(t *testing.T) {
	got := runAllAtOnce(t, `<![CDATA[<not a tag> & not an entity]]>`)
	want := []event{
		{Kind: "cdata", Content: "<not a tag> & not an entity"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerCDataPathologicalBrackets(t *testing.T) {
	got := runAllAtOnce(t, `<![CDATA[]]]>`)
	want := []event{
		{Kind: "cdata", Content: "]"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerProcessingInstruction(t *testing.T) {
	got := runAllAtOnce(t, `<?xml-stylesheet type="text/xsl" href="a.xsl"?>`)
	want := []event{
		{Kind: "pi", Target: "xml-stylesheet", Content: `type="text/xsl" href="a.xsl"`},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerPIPathologicalQuestions(t *testing.T) {
	got := runAllAtOnce(t, `<?t ??>`)
	want := []event{
		{Kind: "pi", Target: "t", Content: "?"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerDeclaration(t *testing.T) {
	got := runAllAtOnce(t, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><root/>`)
	want := []event{
		{Kind: "declaration", Version: "1.0", Encoding: strp("UTF-8"), Standalone: strp("yes")},
		{Kind: "startTagOpen", Name: "root"},
		{Kind: "startTagClose", SelfClose: true},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerDeclarationDefaultVersion(t *testing.T) {
	got := runAllAtOnce(t, `<?xml?>`)
	if len(got) != 1 || got[0].Kind != "declaration" || got[0].Version != "1.0" {
		t.Fatalf("got %+v, want single declaration with version 1.0", got)
	}
}

func TestTokenizerDoctypeSimple(t *testing.T) {
	got := runAllAtOnce(t, `<!DOCTYPE html><html/>`)
	want := []event{
		{Kind: "doctype", Name: "html"},
		{Kind: "startTagOpen", Name: "html"},
		{Kind: "startTagClose", SelfClose: true},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerDoctypePublicSystem(t *testing.T) {
	got := runAllAtOnce(t, `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0//EN" "xhtml1.dtd">`)
	want := []event{
		{Kind: "doctype", Name: "html", PublicID: strp("-//W3C//DTD XHTML 1.0//EN"), SystemID: strp("xhtml1.dtd")},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerDoctypeInternalSubset(t *testing.T) {
	got := runAllAtOnce(t, `<!DOCTYPE r [ <!ENTITY x "[" > ] >`)
	want := []event{
		{Kind: "doctype", Name: "r"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerNestedElements(t *testing.T) {
	got := runAllAtOnce(t, `<a><b>x</b><c/></a>`)
	want := []event{
		{Kind: "startTagOpen", Name: "a"},
		{Kind: "startTagClose"},
		{Kind: "startTagOpen", Name: "b"},
		{Kind: "startTagClose"},
		{Kind: "text", Content: "x"},
		{Kind: "endTag", Name: "b"},
		{Kind: "startTagOpen", Name: "c"},
		{Kind: "startTagClose", SelfClose: true},
		{Kind: "endTag", Name: "a"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerLineEndingNormalization(t *testing.T) {
	got := runAllAtOnce(t, "<a>line1\r\nline2\rline3</a>")
	want := []event{
		{Kind: "startTagOpen", Name: "a"},
		{Kind: "startTagClose"},
		{Kind: "text", Content: "line1\nline2\nline3"},
		{Kind: "endTag", Name: "a"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(event{}, "Pos")); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerAttributeLTError(t *testing.T) {
	tok := New(DefaultOptions())
	r := &recorder{}
	err := tok.Process([]byte(`<a b="<">`), r)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestTokenizerMaxNameLengthRejectsLongTagName(t *testing.T) {
	tok := New(Options{TrackPosition: true, MaxNameLength: 4})
	r := &recorder{}
	err := tok.Process([]byte(`<abcdefgh/>`), r)
	if err == nil {
		t.Fatal("expected error for tag name exceeding MaxNameLength")
	}
}

func TestTokenizerMaxNameLengthRejectsLongAttributeName(t *testing.T) {
	tok := New(Options{TrackPosition: true, MaxNameLength: 4})
	r := &recorder{}
	err := tok.Process([]byte(`<a abcdefgh="1"/>`), r)
	if err == nil {
		t.Fatal("expected error for attribute name exceeding MaxNameLength")
	}
}

func TestTokenizerMaxNameLengthAllowsNameAtLimit(t *testing.T) {
	tok := New(Options{TrackPosition: true, MaxNameLength: 4})
	r := &recorder{}
	if err := tok.Process([]byte(`<abcd/>`), r); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := tok.Finalize(r); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
}

func TestTokenizerMaxNameLengthEnforcedAcrossChunkBoundary(t *testing.T) {
	tok := New(Options{TrackPosition: true, MaxNameLength: 4})
	r := &recorder{}
	if err := tok.Process([]byte(`<ab`), r); err != nil {
		t.Fatalf("first Process: %v", err)
	}
	err := tok.Process([]byte(`cdefgh/>`), r)
	if err == nil {
		t.Fatal("expected error once accumulated name crosses MaxNameLength after a chunk boundary")
	}
}

func TestTokenizerZeroMaxNameLengthIsUnlimited(t *testing.T) {
	tok := New(DefaultOptions())
	r := &recorder{}
	longName := strings.Repeat("a", 500)
	if err := tok.Process([]byte("<"+longName+"/>"), r); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := tok.Finalize(r); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
}

func TestTokenizerUnterminatedComment(t *testing.T) {
	tok := New(DefaultOptions())
	r := &recorder{}
	if err := tok.Process([]byte(`<!-- never closed`), r); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := tok.Finalize(r); err == nil {
		t.Fatal("expected Finalize to report unterminated comment")
	}
}

// TestTokenizerChunkingIsTransparent re-runs a representative document split
// at every possible byte offset (and with no split at all) and checks the
// resulting event stream is identical every time — chunk boundaries must
// never be observable.
func TestTokenizerChunkingIsTransparent(t *testing.T) {
	const input = `<?xml version="1.0"?><!DOCTYPE r><!-- c --><r a="1" b="2"><![CDATA[x]]>text<child/></r>`

	baseline := runAllAtOnce(t, input)

	for i := 1; i < len(input); i++ {
		got := runChunked(t, input, []int{i})
		if diff := cmp.Diff(baseline, got); diff != "" {
			t.Fatalf("split at %d produced different events (-baseline +got):\n%s", i, diff)
		}
	}

	for i := 0; i < len(input); i++ {
		got := runChunked(t, input, []int{i, i})
		if diff := cmp.Diff(baseline, got); diff != "" {
			t.Fatalf("double split at %d produced different events (-baseline +got):\n%s", i, diff)
		}
	}
}

func TestTokenizerByteAtATime(t *testing.T) {
	const input = `<a x="1"><!--c--><b><![CDATA[d]]></b></a>`
	tok := New(DefaultOptions())
	r := &recorder{}
	for i := 0; i < len(input); i++ {
		if err := tok.Process([]byte{input[i]}, r); err != nil {
			t.Fatalf("Process byte %d: %v", i, err)
		}
	}
	if err := tok.Finalize(r); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	want := runAllAtOnce(t, input)
	if diff := cmp.Diff(want, r.events); diff != "" {
		t.Errorf("byte-at-a-time events mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerTrackPositionDisabled(t *testing.T) {
	tok := New(Options{TrackPosition: false})
	r := &recorder{}
	if err := tok.Process([]byte(`<a>text</a>`), r); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := tok.Finalize(r); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	for _, e := range r.events {
		if e.Pos != token.Zero {
			t.Errorf("event %+v has non-zero position with tracking disabled", e)
		}
	}
}

func FuzzTokenizerNeverPanics(f *testing.F) {
	seeds := []string{
		`<a/>`,
		`<a b="c">text</a>`,
		`<!-- comment -->`,
		`<![CDATA[data]]>`,
		`<?pi content?>`,
		`<?xml version="1.0"?>`,
		`<!DOCTYPE a PUBLIC "p" "s">`,
		`<a><b><c/></b></a>`,
		"<a>\r\n\r</a>",
		`<a b="<">`,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		tok := New(DefaultOptions())
		r := &recorder{}
		mid := len(input) / 2
		_ = tok.Process([]byte(input[:mid]), r)
		if tok.err == nil {
			_ = tok.Process([]byte(input[mid:]), r)
		}
		if tok.err == nil {
			_ = tok.Finalize(r)
		}
	})
}
