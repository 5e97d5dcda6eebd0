package tokenizer

// state names the tokenizer's lexical position. Every state but stateInitial
// represents partial progress through some markup construct and must be
// resumable across a Process call boundary.
type state int

const (
	stateInitial state = iota

	stateTagOpen
	stateTagName
	stateEndTagName
	stateAfterTagName
	stateAfterEndTagName
	stateExpectSelfCloseGT

	stateAttributeName
	stateAfterAttributeName
	stateBeforeAttributeValue
	stateAttributeValueSingle
	stateAttributeValueDouble

	stateMarkupDeclaration

	stateCommentStart
	stateComment
	stateCommentDash
	stateCommentDashDash

	stateCDataStart
	stateCData
	stateCDataBracket
	stateCDataBracketBracket

	statePITarget
	statePITargetQuestion
	statePIContent
	statePIQuestion

	stateDoctypeStart
	stateDoctypeName
	stateDoctypeAfterName
	stateDoctypePublic
	stateDoctypePublicID
	stateDoctypeAfterPublicID
	stateDoctypeSystem
	stateDoctypeSystemID
	stateDoctypeInternalSubset
	stateDoctypeInternalSubsetString
)

// eofMessage is the "Unexpected end of input..." message reported when the
// input ends while state is anything but stateInitial.
func eofMessage(s state) string {
	switch s {
	case stateTagOpen:
		return "Unexpected end of input after '<'"
	case stateTagName, stateAfterTagName, stateExpectSelfCloseGT,
		stateAttributeName, stateAfterAttributeName, stateBeforeAttributeValue:
		return "Unexpected end of input in start tag"
	case stateAttributeValueSingle, stateAttributeValueDouble:
		return "Unterminated attribute value"
	case stateEndTagName, stateAfterEndTagName:
		return "Unexpected end of input in end tag"
	case stateMarkupDeclaration:
		return "Unexpected end of input in markup declaration"
	case stateCommentStart, stateComment, stateCommentDash, stateCommentDashDash:
		return "Unterminated comment"
	case stateCDataStart, stateCData, stateCDataBracket, stateCDataBracketBracket:
		return "Unterminated CDATA section"
	case statePITarget, statePITargetQuestion, statePIContent, statePIQuestion:
		return "Unterminated processing instruction"
	case stateDoctypeStart, stateDoctypeName, stateDoctypeAfterName,
		stateDoctypePublic, stateDoctypePublicID, stateDoctypeAfterPublicID,
		stateDoctypeSystem, stateDoctypeSystemID,
		stateDoctypeInternalSubset, stateDoctypeInternalSubsetString:
		return "Unterminated DOCTYPE"
	default:
		return "Unexpected end of input"
	}
}
