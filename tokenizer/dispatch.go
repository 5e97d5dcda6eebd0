package tokenizer

import (
	"strings"

	"github.com/fenwick-labs/xmlstream/xmlerr"
)

// step advances the tokenizer by one state transition (which may itself
// consume anywhere from zero to many bytes). It returns needMore=true when
// no further progress is possible without more input.
func (t *Tokenizer) step(cb Callbacks) (needMore bool, err error) {
	switch t.state {
	case stateInitial:
		return t.stepInitial(cb)
	case stateTagOpen:
		return t.stepTagOpen(cb)
	case stateTagName:
		return t.stepTagName(cb)
	case stateEndTagName:
		return t.stepEndTagName(cb)
	case stateAfterTagName:
		return t.stepAfterTagName(cb)
	case stateAfterEndTagName:
		return t.stepAfterEndTagName(cb)
	case stateExpectSelfCloseGT:
		return t.stepExpectSelfCloseGT(cb)
	case stateAttributeName:
		return t.stepAttributeName(cb)
	case stateAfterAttributeName:
		return t.stepAfterAttributeName(cb)
	case stateBeforeAttributeValue:
		return t.stepBeforeAttributeValue(cb)
	case stateAttributeValueSingle:
		return t.stepAttributeValue(cb, '\'')
	case stateAttributeValueDouble:
		return t.stepAttributeValue(cb, '"')
	case stateMarkupDeclaration:
		return t.stepMarkupDeclaration(cb)
	case stateCommentStart:
		return t.stepCommentStart(cb)
	case stateComment:
		return t.stepComment(cb)
	case stateCommentDash:
		return t.stepCommentDash(cb)
	case stateCommentDashDash:
		return t.stepCommentDashDash(cb)
	case stateCDataStart:
		return t.stepCDataStart(cb)
	case stateCData:
		return t.stepCData(cb)
	case stateCDataBracket:
		return t.stepCDataBracket(cb)
	case stateCDataBracketBracket:
		return t.stepCDataBracketBracket(cb)
	case statePITarget:
		return t.stepPITarget(cb)
	case statePITargetQuestion:
		return t.stepPITargetQuestion(cb)
	case statePIContent:
		return t.stepPIContent(cb)
	case statePIQuestion:
		return t.stepPIQuestion(cb)
	case stateDoctypeStart:
		return t.stepDoctypeStart(cb)
	case stateDoctypeName:
		return t.stepDoctypeName(cb)
	case stateDoctypeAfterName:
		return t.stepDoctypeAfterName(cb)
	case stateDoctypePublic:
		return t.stepDoctypeKeyword(cb, "PUBLIC", stateDoctypePublicID)
	case stateDoctypePublicID:
		return t.stepDoctypeID(cb, &t.doctypePublicID)
	case stateDoctypeAfterPublicID:
		return t.stepDoctypeAfterPublicID(cb)
	case stateDoctypeSystem:
		return t.stepDoctypeKeyword(cb, "SYSTEM", stateDoctypeSystemID)
	case stateDoctypeSystemID:
		return t.stepDoctypeID(cb, &t.doctypeSystemID)
	case stateDoctypeInternalSubset:
		return t.stepDoctypeInternalSubset(cb)
	case stateDoctypeInternalSubsetString:
		return t.stepDoctypeInternalSubsetString(cb)
	default:
		panic("tokenizer: unhandled state")
	}
}

func (t *Tokenizer) stepInitial(cb Callbacks) (bool, error) {
	rest := t.buf[t.pos:]
	idx := strings.IndexByte(rest, '<')
	if idx < 0 {
		if len(rest) > 0 {
			if !t.textAcc.active {
				t.textAcc.begin(t.pos)
				t.textStart = t.currentPos()
			}
			t.advanceThrough(rest)
		}
		return true, nil
	}
	if idx > 0 {
		if !t.textAcc.active {
			t.textAcc.begin(t.pos)
			t.textStart = t.currentPos()
		}
		t.advanceThrough(rest[:idx])
	}
	if t.textAcc.active {
		content := t.textAcc.finish(t.buf, t.pos)
		if err := cb.OnText(content, t.textStart); err != nil {
			return false, err
		}
	}
	t.tokenStart = t.currentPos()
	t.advanceByte('<')
	t.state = stateTagOpen
	return false, nil
}

func (t *Tokenizer) stepTagOpen(cb Callbacks) (bool, error) {
	if t.pos >= len(t.buf) {
		return true, nil
	}
	switch t.buf[t.pos] {
	case '/':
		t.advanceByte('/')
		t.nameAcc.begin(t.pos)
		t.state = stateEndTagName
		return false, nil
	case '!':
		t.advanceByte('!')
		t.state = stateMarkupDeclaration
		return false, nil
	case '?':
		t.advanceByte('?')
		t.nameAcc = accumulator{}
		t.state = statePITarget
		return false, nil
	}
	r, size, ok := t.peekRune()
	if !ok {
		return true, nil
	}
	if !isNameStartChar(r) {
		return false, xmlerr.New(t.currentPos(), "Unexpected character %q in tag name", r)
	}
	t.nameAcc.begin(t.pos)
	t.advanceRune(r, size)
	t.state = stateTagName
	return false, nil
}

// scanName consumes name characters, advancing t.pos, until it sees
// something that isn't one or runs out of buffer. If Options.MaxNameLength
// is set, exceeding it fails the name currently being accumulated in
// t.nameAcc with a *xmlerr.SyntaxError rather than growing it unbounded.
func (t *Tokenizer) scanName() (more bool, err error) {
	for t.pos < len(t.buf) {
		r, size, ok := t.peekRune()
		if !ok {
			return true, nil
		}
		if !isNameChar(r) {
			return false, nil
		}
		t.advanceRune(r, size)
		if t.opts.MaxNameLength > 0 && t.nameAcc.length(t.pos) > t.opts.MaxNameLength {
			return false, xmlerr.New(t.tokenStart, "Name exceeds maximum length of %d bytes", t.opts.MaxNameLength)
		}
	}
	return true, nil
}

func (t *Tokenizer) stepTagName(cb Callbacks) (bool, error) {
	more, err := t.scanName()
	if err != nil {
		return false, err
	}
	if more {
		return true, nil
	}
	name := t.nameAcc.finish(t.buf, t.pos)
	if err := cb.OnStartTagOpen(name, t.tokenStart); err != nil {
		return false, err
	}
	t.state = stateAfterTagName
	return false, nil
}

func (t *Tokenizer) stepEndTagName(cb Callbacks) (bool, error) {
	more, err := t.scanName()
	if err != nil {
		return false, err
	}
	if more {
		return true, nil
	}
	t.pendingEndTagName = t.nameAcc.finish(t.buf, t.pos)
	t.state = stateAfterEndTagName
	return false, nil
}

func (t *Tokenizer) stepAfterEndTagName(cb Callbacks) (bool, error) {
	t.skipWhitespace()
	if t.pos >= len(t.buf) {
		return true, nil
	}
	if t.buf[t.pos] != '>' {
		return false, xmlerr.New(t.currentPos(), "Expected '>' in end tag")
	}
	t.advanceByte('>')
	t.state = stateInitial
	return false, cb.OnEndTag(t.pendingEndTagName, t.tokenStart)
}

// stepAfterTagName is the generic "inside a start tag, looking for the next
// attribute, a self-close, or the closing '>'" dispatcher. It is reused
// after every attribute value as well as immediately after the tag name.
func (t *Tokenizer) stepAfterTagName(cb Callbacks) (bool, error) {
	t.skipWhitespace()
	if t.pos >= len(t.buf) {
		return true, nil
	}
	switch t.buf[t.pos] {
	case '>':
		t.advanceByte('>')
		t.state = stateInitial
		return false, cb.OnStartTagClose(false)
	case '/':
		t.advanceByte('/')
		t.state = stateExpectSelfCloseGT
		return false, nil
	}
	r, size, ok := t.peekRune()
	if !ok {
		return true, nil
	}
	if !isNameStartChar(r) {
		return false, xmlerr.New(t.currentPos(), "Unexpected character %q in start tag", r)
	}
	t.nameAcc.begin(t.pos)
	t.advanceRune(r, size)
	t.state = stateAttributeName
	return false, nil
}

func (t *Tokenizer) stepExpectSelfCloseGT(cb Callbacks) (bool, error) {
	if t.pos >= len(t.buf) {
		return true, nil
	}
	if t.buf[t.pos] != '>' {
		return false, xmlerr.New(t.currentPos(), "Expected '>' after '/' in self-closing tag")
	}
	t.advanceByte('>')
	t.state = stateInitial
	return false, cb.OnStartTagClose(true)
}

func (t *Tokenizer) stepAttributeName(cb Callbacks) (bool, error) {
	more, err := t.scanName()
	if err != nil {
		return false, err
	}
	if more {
		return true, nil
	}
	t.pendingAttrName = t.nameAcc.finish(t.buf, t.pos)
	t.state = stateAfterAttributeName
	return false, nil
}

func (t *Tokenizer) stepAfterAttributeName(cb Callbacks) (bool, error) {
	t.skipWhitespace()
	if t.pos >= len(t.buf) {
		return true, nil
	}
	if t.buf[t.pos] != '=' {
		return false, xmlerr.New(t.currentPos(), "Expected '=' after attribute name")
	}
	t.advanceByte('=')
	t.state = stateBeforeAttributeValue
	return false, nil
}

func (t *Tokenizer) stepBeforeAttributeValue(cb Callbacks) (bool, error) {
	t.skipWhitespace()
	if t.pos >= len(t.buf) {
		return true, nil
	}
	b := t.buf[t.pos]
	if b != '\'' && b != '"' {
		return false, xmlerr.New(t.currentPos(), "Expected quote to start attribute value")
	}
	t.advanceByte(b)
	t.valueAcc.begin(t.pos)
	if b == '\'' {
		t.state = stateAttributeValueSingle
	} else {
		t.state = stateAttributeValueDouble
	}
	return false, nil
}

func (t *Tokenizer) stepAttributeValue(cb Callbacks, quote byte) (bool, error) {
	found, err := t.scanQuoted(quote, true)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}
	value := t.valueAcc.finish(t.buf, t.pos)
	t.advanceByte(quote)
	t.state = stateAfterTagName
	return false, cb.OnAttribute(t.pendingAttrName, value)
}

func (t *Tokenizer) stepMarkupDeclaration(cb Callbacks) (bool, error) {
	if t.pos >= len(t.buf) {
		return true, nil
	}
	switch t.buf[t.pos] {
	case '-':
		t.advanceByte('-')
		t.state = stateCommentStart
		return false, nil
	case '[':
		t.advanceByte('[')
		t.keywordMatched = 0
		t.state = stateCDataStart
		return false, nil
	case 'D':
		t.keywordMatched = 0
		t.state = stateDoctypeStart
		return false, nil
	}
	return false, xmlerr.New(t.tokenStart, "Unsupported markup declaration")
}

func (t *Tokenizer) stepCommentStart(cb Callbacks) (bool, error) {
	if t.pos >= len(t.buf) {
		return true, nil
	}
	if t.buf[t.pos] != '-' {
		return false, xmlerr.New(t.currentPos(), "Expected '-' to start comment")
	}
	t.advanceByte('-')
	t.commentAcc.begin(t.pos)
	t.state = stateComment
	return false, nil
}

func (t *Tokenizer) stepComment(cb Callbacks) (bool, error) {
	rest := t.buf[t.pos:]
	idx := strings.IndexByte(rest, '-')
	if idx < 0 {
		t.advanceThrough(rest)
		return true, nil
	}
	if idx > 0 {
		t.advanceThrough(rest[:idx])
	}
	t.state = stateCommentDash
	return false, nil
}

func (t *Tokenizer) stepCommentDash(cb Callbacks) (bool, error) {
	if t.pos+1 >= len(t.buf) {
		return true, nil
	}
	if t.buf[t.pos+1] != '-' {
		t.advanceByte('-')
		t.state = stateComment
		return false, nil
	}
	t.state = stateCommentDashDash
	return false, nil
}

func (t *Tokenizer) stepCommentDashDash(cb Callbacks) (bool, error) {
	if t.pos+2 >= len(t.buf) {
		return true, nil
	}
	switch t.buf[t.pos+2] {
	case '>':
		content := t.commentAcc.finish(t.buf, t.pos)
		t.advanceThrough("-->")
		t.state = stateInitial
		return false, cb.OnComment(content, t.tokenStart)
	case '-':
		t.advanceByte('-')
		t.state = stateCommentDash
		return false, nil
	default:
		t.advanceThrough("--")
		t.state = stateComment
		return false, nil
	}
}

func (t *Tokenizer) stepCDataStart(cb Callbacks) (bool, error) {
	done, needMore, err := t.matchKeyword("CDATA[", "<![")
	if err != nil {
		return false, err
	}
	if needMore {
		return true, nil
	}
	if done {
		t.cdataAcc.begin(t.pos)
		t.state = stateCData
	}
	return false, nil
}

func (t *Tokenizer) stepCData(cb Callbacks) (bool, error) {
	rest := t.buf[t.pos:]
	idx := strings.IndexByte(rest, ']')
	if idx < 0 {
		t.advanceThrough(rest)
		return true, nil
	}
	if idx > 0 {
		t.advanceThrough(rest[:idx])
	}
	t.state = stateCDataBracket
	return false, nil
}

func (t *Tokenizer) stepCDataBracket(cb Callbacks) (bool, error) {
	if t.pos+1 >= len(t.buf) {
		return true, nil
	}
	if t.buf[t.pos+1] != ']' {
		t.advanceByte(']')
		t.state = stateCData
		return false, nil
	}
	t.state = stateCDataBracketBracket
	return false, nil
}

func (t *Tokenizer) stepCDataBracketBracket(cb Callbacks) (bool, error) {
	if t.pos+2 >= len(t.buf) {
		return true, nil
	}
	switch t.buf[t.pos+2] {
	case '>':
		content := t.cdataAcc.finish(t.buf, t.pos)
		t.advanceThrough("]]>")
		t.state = stateInitial
		return false, cb.OnCData(content, t.tokenStart)
	case ']':
		t.advanceByte(']')
		t.state = stateCDataBracket
		return false, nil
	default:
		t.advanceThrough("]]")
		t.state = stateCData
		return false, nil
	}
}

func (t *Tokenizer) stepPITarget(cb Callbacks) (bool, error) {
	if !t.nameAcc.active {
		if t.pos >= len(t.buf) {
			return true, nil
		}
		r, size, ok := t.peekRune()
		if !ok {
			return true, nil
		}
		if !isNameStartChar(r) {
			return false, xmlerr.New(t.currentPos(), "Expected processing instruction target")
		}
		t.nameAcc.begin(t.pos)
		t.advanceRune(r, size)
		return false, nil
	}
	more, err := t.scanName()
	if err != nil {
		return false, err
	}
	if more {
		return true, nil
	}
	t.piTarget = t.nameAcc.finish(t.buf, t.pos)
	t.isDeclaration = strings.EqualFold(t.piTarget, "xml")
	t.state = statePITargetQuestion
	return false, nil
}

func (t *Tokenizer) stepPITargetQuestion(cb Callbacks) (bool, error) {
	t.piContentAcc.begin(t.pos)
	t.state = statePIContent
	return false, nil
}

func (t *Tokenizer) stepPIContent(cb Callbacks) (bool, error) {
	rest := t.buf[t.pos:]
	idx := strings.IndexByte(rest, '?')
	if idx < 0 {
		t.advanceThrough(rest)
		return true, nil
	}
	if idx > 0 {
		t.advanceThrough(rest[:idx])
	}
	t.state = statePIQuestion
	return false, nil
}

func (t *Tokenizer) stepPIQuestion(cb Callbacks) (bool, error) {
	if t.pos+1 >= len(t.buf) {
		return true, nil
	}
	switch t.buf[t.pos+1] {
	case '>':
		content := t.piContentAcc.finish(t.buf, t.pos)
		t.advanceThrough("?>")
		t.state = stateInitial
		if t.isDeclaration {
			version, encoding, standalone := parseDeclarationContent(content)
			return false, cb.OnDeclaration(version, encoding, standalone, t.tokenStart)
		}
		return false, cb.OnProcessingInstruction(t.piTarget, strings.TrimLeft(content, " \t\n"), t.tokenStart)
	case '?':
		t.advanceByte('?')
		t.state = statePIQuestion
		return false, nil
	default:
		t.advanceByte('?')
		t.state = statePIContent
		return false, nil
	}
}

func (t *Tokenizer) stepDoctypeStart(cb Callbacks) (bool, error) {
	done, needMore, err := t.matchKeyword("DOCTYPE", "<!")
	if err != nil {
		return false, err
	}
	if needMore {
		return true, nil
	}
	if done {
		t.state = stateDoctypeName
	}
	return false, nil
}

func (t *Tokenizer) stepDoctypeName(cb Callbacks) (bool, error) {
	if !t.nameAcc.active {
		t.skipWhitespace()
		if t.pos >= len(t.buf) {
			return true, nil
		}
		r, size, ok := t.peekRune()
		if !ok {
			return true, nil
		}
		if !isNameStartChar(r) {
			return false, xmlerr.New(t.currentPos(), "Expected DOCTYPE name")
		}
		t.nameAcc.begin(t.pos)
		t.advanceRune(r, size)
		return false, nil
	}
	more, err := t.scanName()
	if err != nil {
		return false, err
	}
	if more {
		return true, nil
	}
	t.doctypeName = t.nameAcc.finish(t.buf, t.pos)
	t.doctypePublicID = nil
	t.doctypeSystemID = nil
	t.state = stateDoctypeAfterName
	return false, nil
}

func (t *Tokenizer) stepDoctypeAfterName(cb Callbacks) (bool, error) {
	t.skipWhitespace()
	if t.pos >= len(t.buf) {
		return true, nil
	}
	switch t.buf[t.pos] {
	case '>':
		t.advanceByte('>')
		t.state = stateInitial
		return false, cb.OnDoctype(t.doctypeName, t.doctypePublicID, t.doctypeSystemID, t.tokenStart)
	case '[':
		t.advanceByte('[')
		t.bracketDepth = 1
		t.state = stateDoctypeInternalSubset
		return false, nil
	case 'P':
		t.keywordMatched = 0
		t.state = stateDoctypePublic
		return false, nil
	case 'S':
		t.keywordMatched = 0
		t.state = stateDoctypeSystem
		return false, nil
	}
	return false, xmlerr.New(t.currentPos(), "Unexpected character in DOCTYPE")
}

func (t *Tokenizer) stepDoctypeKeyword(cb Callbacks, keyword string, next state) (bool, error) {
	done, needMore, err := t.matchKeyword(keyword, "")
	if err != nil {
		return false, err
	}
	if needMore {
		return true, nil
	}
	if done {
		t.state = next
	}
	return false, nil
}

func (t *Tokenizer) stepDoctypeID(cb Callbacks, dest **string) (bool, error) {
	if t.quoteChar == 0 {
		t.skipWhitespace()
		if t.pos >= len(t.buf) {
			return true, nil
		}
		b := t.buf[t.pos]
		if b != '\'' && b != '"' {
			return false, xmlerr.New(t.currentPos(), "Expected quote to start DOCTYPE literal")
		}
		t.advanceByte(b)
		t.quoteChar = b
		t.valueAcc.begin(t.pos)
		return false, nil
	}
	found, err := t.scanQuoted(t.quoteChar, false)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}
	value := t.valueAcc.finish(t.buf, t.pos)
	*dest = &value
	t.advanceByte(t.quoteChar)
	t.quoteChar = 0
	t.state = stateDoctypeAfterPublicID
	return false, nil
}

func (t *Tokenizer) stepDoctypeAfterPublicID(cb Callbacks) (bool, error) {
	t.skipWhitespace()
	if t.pos >= len(t.buf) {
		return true, nil
	}
	switch t.buf[t.pos] {
	case '>':
		t.advanceByte('>')
		t.state = stateInitial
		return false, cb.OnDoctype(t.doctypeName, t.doctypePublicID, t.doctypeSystemID, t.tokenStart)
	case '[':
		t.advanceByte('[')
		t.bracketDepth = 1
		t.state = stateDoctypeInternalSubset
		return false, nil
	case '\'', '"':
		if t.doctypeSystemID != nil {
			return false, xmlerr.New(t.currentPos(), "Unexpected character in DOCTYPE")
		}
		t.state = stateDoctypeSystemID
		return false, nil
	}
	return false, xmlerr.New(t.currentPos(), "Unexpected character in DOCTYPE")
}

func (t *Tokenizer) stepDoctypeInternalSubset(cb Callbacks) (bool, error) {
	if t.pos >= len(t.buf) {
		return true, nil
	}
	b := t.buf[t.pos]
	switch b {
	case '\'', '"':
		t.advanceByte(b)
		t.quoteChar = b
		t.state = stateDoctypeInternalSubsetString
	case '[':
		t.advanceByte('[')
		t.bracketDepth++
	case ']':
		t.advanceByte(']')
		t.bracketDepth--
		if t.bracketDepth == 0 {
			t.state = stateDoctypeAfterName
		}
	default:
		r, size, ok := t.peekRune()
		if !ok {
			return true, nil
		}
		t.advanceRune(r, size)
	}
	return false, nil
}

func (t *Tokenizer) stepDoctypeInternalSubsetString(cb Callbacks) (bool, error) {
	found, _ := t.scanQuoted(t.quoteChar, false)
	if !found {
		return true, nil
	}
	t.advanceByte(t.quoteChar)
	t.quoteChar = 0
	t.state = stateDoctypeInternalSubset
	return false, nil
}
