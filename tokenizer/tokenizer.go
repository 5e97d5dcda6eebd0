// Package tokenizer implements a non-validating, chunked XML 1.0 lexical
// scanner. A Tokenizer consumes input through repeated Process calls — each
// taking an arbitrarily-sized, arbitrarily-split slice of bytes — and emits
// lexical events through a Callbacks implementation as they are recognized.
// Finalize signals end of input and reports an error if the document ended
// mid-construct.
//
// Feeding the same document through Process one byte at a time or in a
// single call produces byte-for-byte identical callback sequences: no
// construct's recognition depends on how the input happened to be chunked.
package tokenizer

import (
	"strings"
	"unicode/utf8"

	"github.com/fenwick-labs/xmlstream/token"
	"github.com/fenwick-labs/xmlstream/xmlerr"
)

// Tokenizer scans XML 1.0 input and reports lexical events through a
// Callbacks implementation. A Tokenizer is single-use and not safe for
// concurrent use: once Process or Finalize returns an error, the instance
// must be discarded.
type Tokenizer struct {
	opts Options

	state state

	buf string
	pos int

	line   int
	column int
	offset int

	// pendingCR holds back a trailing bare '\r' at the end of a chunk until
	// the next Process call (or Finalize) reveals whether it was half of a
	// "\r\n" pair.
	pendingCR bool

	err       error
	finalized bool

	tokenStart token.Position
	textStart  token.Position

	textAcc       accumulator
	nameAcc       accumulator
	valueAcc      accumulator
	commentAcc    accumulator
	cdataAcc      accumulator
	piContentAcc  accumulator

	pendingEndTagName string
	pendingAttrName   string

	quoteChar byte

	doctypeName      string
	doctypePublicID  *string
	doctypeSystemID  *string
	bracketDepth     int

	keywordMatched int

	piTarget      string
	isDeclaration bool
}

// New returns a Tokenizer ready to receive input via Process.
func New(opts Options) *Tokenizer {
	return &Tokenizer{
		opts:   opts,
		state:  stateInitial,
		line:   1,
		column: 1,
	}
}

// Process scans chunk, reporting every lexical event fully contained within
// input seen so far through cb. It may be called any number of times with
// successive pieces of the document; chunk boundaries may fall anywhere,
// including mid-name, mid-entity, or mid-terminator.
func (t *Tokenizer) Process(chunk []byte, cb Callbacks) error {
	if t.err != nil {
		return t.err
	}
	if cb == nil {
		cb = NoopCallbacks{}
	}
	t.ingest(chunk)
	if err := t.run(cb); err != nil {
		t.err = err
		return err
	}
	return nil
}

// Finalize signals that no further input will arrive. It reports any
// in-progress construct as a *xmlerr.SyntaxError, and otherwise flushes a
// final pending text run.
func (t *Tokenizer) Finalize(cb Callbacks) error {
	if t.err != nil {
		return t.err
	}
	if cb == nil {
		cb = NoopCallbacks{}
	}
	if t.pendingCR {
		t.pendingCR = false
		t.flushAccumulators()
		t.buf = t.buf[t.pos:] + "\n"
		t.pos = 0
		if err := t.run(cb); err != nil {
			t.err = err
			return err
		}
	}
	if t.state == stateInitial {
		if t.textAcc.active {
			content := t.textAcc.finish(t.buf, t.pos)
			if err := cb.OnText(content, t.textStart); err != nil {
				t.err = err
				return err
			}
		}
		t.finalized = true
		return nil
	}
	err := xmlerr.New(t.currentPos(), eofMessage(t.state))
	t.err = err
	return err
}

func (t *Tokenizer) accumulators() [6]*accumulator {
	return [6]*accumulator{
		&t.textAcc, &t.nameAcc, &t.valueAcc,
		&t.commentAcc, &t.cdataAcc, &t.piContentAcc,
	}
}

func (t *Tokenizer) flushAccumulators() {
	for _, a := range t.accumulators() {
		a.flush(t.buf, t.pos)
	}
}

// ingest normalizes line endings in chunk (without splitting a "\r\n" pair
// across this call and the previous one) and appends it to the unconsumed
// tail of the current buffer.
func (t *Tokenizer) ingest(chunk []byte) {
	s := string(chunk)
	if t.pendingCR {
		s = "\r" + s
		t.pendingCR = false
	}
	if len(s) > 0 && s[len(s)-1] == '\r' {
		t.pendingCR = true
		s = s[:len(s)-1]
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	t.flushAccumulators()
	t.buf = t.buf[t.pos:] + s
	t.pos = 0
}

// run drives step repeatedly until more input is needed or an error occurs.
func (t *Tokenizer) run(cb Callbacks) error {
	for {
		needMore, err := t.step(cb)
		if err != nil {
			return err
		}
		if needMore {
			return nil
		}
	}
}

func (t *Tokenizer) currentPos() token.Position {
	if !t.opts.TrackPosition {
		return token.Zero
	}
	return token.Position{Line: t.line, Column: t.column, Offset: t.offset}
}

func (t *Tokenizer) advanceByte(b byte) {
	t.pos++
	if !t.opts.TrackPosition {
		return
	}
	t.offset++
	if b == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
}

func (t *Tokenizer) advanceThrough(s string) {
	t.pos += len(s)
	if !t.opts.TrackPosition {
		return
	}
	for _, r := range s {
		t.offset++
		if r == '\n' {
			t.line++
			t.column = 1
		} else {
			t.column++
		}
	}
}

func (t *Tokenizer) advanceRune(r rune, size int) {
	t.pos += size
	if !t.opts.TrackPosition {
		return
	}
	t.offset++
	if r == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
}

// peekRune decodes the rune at the current position without consuming it.
// ok is false when there isn't enough buffered data to know whether a
// trailing incomplete UTF-8 sequence is genuine or simply split across a
// chunk boundary; the caller should request more input in that case.
func (t *Tokenizer) peekRune() (r rune, size int, ok bool) {
	if t.pos >= len(t.buf) {
		return 0, 0, false
	}
	rest := t.buf[t.pos:]
	r, size = utf8.DecodeRuneInString(rest)
	if r == utf8.RuneError && size == 1 && len(rest) < utf8.UTFMax {
		return 0, 0, false
	}
	return r, size, true
}

// skipWhitespace advances over any run of XML whitespace at the current
// position. It never returns needMore=true on its own: the caller's
// subsequent read decides whether more input is required.
func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.buf) {
		b := t.buf[t.pos]
		if b != ' ' && b != '\t' && b != '\n' {
			return
		}
		t.advanceByte(b)
	}
}

// scanQuoted advances through buf[pos:] looking for quote (and, if
// disallowLT, a forbidden literal '<' first). found is true once the quote
// has been reached (not yet consumed); a false/nil result means more input
// is required.
func (t *Tokenizer) scanQuoted(quote byte, disallowLT bool) (found bool, err error) {
	rest := t.buf[t.pos:]
	var limit int
	if disallowLT {
		limit = strings.IndexAny(rest, string([]byte{quote, '<'}))
	} else {
		limit = strings.IndexByte(rest, quote)
	}
	if limit < 0 {
		t.advanceThrough(rest)
		return false, nil
	}
	if disallowLT && rest[limit] == '<' {
		t.advanceThrough(rest[:limit])
		return false, xmlerr.New(t.currentPos(), "'<' not allowed in attribute value")
	}
	t.advanceThrough(rest[:limit])
	return true, nil
}

// matchKeyword progressively matches keyword against the buffer starting at
// the current position, consuming every buffered character it can and
// recording progress in t.keywordMatched so the match resumes on the next
// call when the buffer runs out. context is prefixed onto the mismatch message exactly as
// it was typed at the point the declaration construct was recognized (e.g.
// "<!" for DOCTYPE, "" for PUBLIC/SYSTEM).
func (t *Tokenizer) matchKeyword(keyword, context string) (done bool, needMore bool, err error) {
	for t.keywordMatched < len(keyword) {
		if t.pos >= len(t.buf) {
			return false, true, nil
		}
		b := t.buf[t.pos]
		if b != keyword[t.keywordMatched] {
			return false, false, xmlerr.New(t.tokenStart, "Expected %s, got %s%c", keyword, context+keyword[:t.keywordMatched], b)
		}
		t.advanceByte(b)
		t.keywordMatched++
	}
	return true, false, nil
}
