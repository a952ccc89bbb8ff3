// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Parser stage: a hand-written LL(1) recursive-descent state machine
// over the Token stream, producing Events per the grammar in spec.md
// §4.3. Continuations are modeled as an explicit state stack so the
// machine can be driven one Event at a time, the way the teacher's
// parser.go is.
//
// stream               ::= STREAM-START implicit_document? explicit_document* STREAM-END
// implicit_document    ::= block_node DOCUMENT-END*
// explicit_document    ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
// block_node           ::= ALIAS | properties block_content? | block_content
// flow_node            ::= ALIAS | properties flow_content? | flow_content
// properties           ::= TAG ANCHOR? | ANCHOR TAG?
// block_sequence       ::= BLOCK-SEQUENCE-START (BLOCK-ENTRY block_node?)* BLOCK-END
// indentless_sequence  ::= (BLOCK-ENTRY block_node?)+
// block_mapping        ::= BLOCK-MAPPING-START ((KEY block_node_or_indentless_sequence?)? (VALUE block_node_or_indentless_sequence?)?)* BLOCK-END
// flow_sequence        ::= FLOW-SEQUENCE-START (flow_sequence_entry FLOW-ENTRY)* flow_sequence_entry? FLOW-SEQUENCE-END
// flow_mapping         ::= FLOW-MAPPING-START (flow_mapping_entry FLOW-ENTRY)* flow_mapping_entry? FLOW-MAPPING-END
// flow_*_entry         ::= flow_node | KEY flow_node? (VALUE flow_node?)?

package yamlcore

import "io"

type parserState int

const (
	parseStreamStartState parserState = iota
	parseImplicitDocumentStartState
	parseDocumentStartState
	parseDocumentContentState
	parseDocumentEndState
	parseBlockNodeState
	parseBlockNodeOrIndentlessSequenceState
	parseFlowNodeState
	parseBlockSequenceFirstEntryState
	parseBlockSequenceEntryState
	parseIndentlessSequenceEntryState
	parseBlockMappingFirstKeyState
	parseBlockMappingKeyState
	parseBlockMappingValueState
	parseFlowSequenceFirstEntryState
	parseFlowSequenceEntryState
	parseFlowSequenceEntryMappingKeyState
	parseFlowSequenceEntryMappingValueState
	parseFlowSequenceEntryMappingEndState
	parseFlowMappingFirstKeyState
	parseFlowMappingKeyState
	parseFlowMappingValueState
	parseFlowMappingEmptyValueState
	parseEndState
)

// Parser drives a Scanner's Token stream through the grammar above,
// yielding one Event per Parse call.
type Parser struct {
	scanner *Scanner

	state  parserState
	states []parserState
	marks  []Mark

	tagDirectives []TagDirective

	streamEndProduced bool
	hadError          bool
}

// NewParser builds a Parser over a Token source.
func NewParser(scanner *Scanner) *Parser {
	return &Parser{scanner: scanner, state: parseStreamStartState}
}

func (p *Parser) peekToken() *Token {
	return p.scanner.peekToken()
}

func (p *Parser) skipToken() {
	t := p.scanner.getToken()
	p.streamEndProduced = t.Type == StreamEndToken
}

// Parse returns the next Event, or io.EOF once the stream is exhausted.
func (p *Parser) Parse() (ev Event, err error) {
	defer recoverError(&err)

	if p.streamEndProduced || p.hadError || p.state == parseEndState {
		return Event{}, io.EOF
	}
	ev = p.stateMachine()
	return ev, nil
}

func (p *Parser) fail(context string, contextMark Mark, msg string, mark Mark) Event {
	p.hadError = true
	if context == "" {
		fail(&ParserError{MarkedError{Message: msg, Mark: mark}})
	} else {
		fail(&ParserError{MarkedError{ContextMessage: context, ContextMark: contextMark, Message: msg, Mark: mark}})
	}
	panic("unreachable")
}

func (p *Parser) pushState(s parserState) { p.states = append(p.states, s) }
func (p *Parser) popState() parserState {
	s := p.states[len(p.states)-1]
	p.states = p.states[:len(p.states)-1]
	return s
}

func (p *Parser) stateMachine() Event {
	switch p.state {
	case parseStreamStartState:
		return p.parseStreamStart()
	case parseImplicitDocumentStartState:
		return p.parseDocumentStart(true)
	case parseDocumentStartState:
		return p.parseDocumentStart(false)
	case parseDocumentContentState:
		return p.parseDocumentContent()
	case parseDocumentEndState:
		return p.parseDocumentEnd()
	case parseBlockNodeState:
		return p.parseNode(true, false)
	case parseBlockNodeOrIndentlessSequenceState:
		return p.parseNode(true, true)
	case parseFlowNodeState:
		return p.parseNode(false, false)
	case parseBlockSequenceFirstEntryState:
		return p.parseBlockSequenceEntry(true)
	case parseBlockSequenceEntryState:
		return p.parseBlockSequenceEntry(false)
	case parseIndentlessSequenceEntryState:
		return p.parseIndentlessSequenceEntry()
	case parseBlockMappingFirstKeyState:
		return p.parseBlockMappingKey(true)
	case parseBlockMappingKeyState:
		return p.parseBlockMappingKey(false)
	case parseBlockMappingValueState:
		return p.parseBlockMappingValue()
	case parseFlowSequenceFirstEntryState:
		return p.parseFlowSequenceEntry(true)
	case parseFlowSequenceEntryState:
		return p.parseFlowSequenceEntry(false)
	case parseFlowSequenceEntryMappingKeyState:
		return p.parseFlowSequenceEntryMappingKey()
	case parseFlowSequenceEntryMappingValueState:
		return p.parseFlowSequenceEntryMappingValue()
	case parseFlowSequenceEntryMappingEndState:
		return p.parseFlowSequenceEntryMappingEnd()
	case parseFlowMappingFirstKeyState:
		return p.parseFlowMappingKey(true)
	case parseFlowMappingKeyState:
		return p.parseFlowMappingKey(false)
	case parseFlowMappingValueState:
		return p.parseFlowMappingValue(false)
	case parseFlowMappingEmptyValueState:
		return p.parseFlowMappingValue(true)
	default:
		p.fail("", Mark{}, "parser reached an invalid state", Mark{})
		panic("unreachable")
	}
}

func (p *Parser) parseStreamStart() Event {
	tok := p.peekToken()
	p.state = parseImplicitDocumentStartState
	p.skipToken()
	return Event{Type: StreamStartEvent, StartMark: tok.StartMark, EndMark: tok.EndMark, Encoding: tok.Encoding}
}

func (p *Parser) parseDocumentStart(implicit bool) Event {
	tok := p.peekToken()
	if !implicit {
		for tok.Type == DocumentEndToken {
			p.skipToken()
			tok = p.peekToken()
		}
	}

	if implicit && tok.Type != VersionDirectiveToken && tok.Type != TagDirectiveToken &&
		tok.Type != DocumentStartToken && tok.Type != StreamEndToken {
		p.processDirectives(nil, nil)
		p.pushState(parseDocumentEndState)
		p.state = parseBlockNodeState
		return Event{Type: DocumentStartEvent, StartMark: tok.StartMark, EndMark: tok.EndMark, Explicit: false}
	}
	if tok.Type != StreamEndToken {
		var version *VersionDirective
		var tagDirs []TagDirective
		start := tok.StartMark
		p.processDirectives(&version, &tagDirs)
		tok = p.peekToken()
		if tok.Type != DocumentStartToken {
			p.fail("", Mark{}, "did not find expected <document start>", tok.StartMark)
		}
		p.pushState(parseDocumentEndState)
		p.state = parseDocumentContentState
		end := tok.EndMark
		p.skipToken()
		return Event{Type: DocumentStartEvent, StartMark: start, EndMark: end, VersionDirective: version, TagDirectives: tagDirs, Explicit: true}
	}
	p.state = parseEndState
	ev := Event{Type: StreamEndEvent, StartMark: tok.StartMark, EndMark: tok.EndMark}
	p.skipToken()
	return ev
}

func (p *Parser) parseDocumentContent() Event {
	tok := p.peekToken()
	if tok.Type == VersionDirectiveToken || tok.Type == TagDirectiveToken ||
		tok.Type == DocumentStartToken || tok.Type == DocumentEndToken || tok.Type == StreamEndToken {
		p.state = p.popState()
		return p.processEmptyScalar(tok.StartMark)
	}
	return p.parseNode(true, false)
}

func (p *Parser) parseDocumentEnd() Event {
	tok := p.peekToken()
	start := tok.StartMark
	end := tok.StartMark
	explicit := false
	if tok.Type == DocumentEndToken {
		end = tok.EndMark
		explicit = true
		p.skipToken()
	}
	p.tagDirectives = p.tagDirectives[:0]
	p.state = parseDocumentStartState
	return Event{Type: DocumentEndEvent, StartMark: start, EndMark: end, Explicit: explicit}
}

func (p *Parser) parseNode(block, indentlessSequence bool) Event {
	tok := p.peekToken()

	if tok.Type == AliasToken {
		p.state = p.popState()
		ev := Event{Type: AliasEvent, StartMark: tok.StartMark, EndMark: tok.EndMark, Anchor: tok.Value}
		p.skipToken()
		return ev
	}

	start := tok.StartMark
	end := tok.StartMark

	var anchor string
	var tagHandle, tagSuffix string
	var tagMark Mark
	haveTag := false

	switch tok.Type {
	case AnchorToken:
		anchor = tok.Value
		start, end = tok.StartMark, tok.EndMark
		p.skipToken()
		tok = p.peekToken()
		if tok.Type == TagToken {
			haveTag = true
			tagHandle, tagSuffix = tok.TagHandle, tok.TagSuffix
			tagMark = tok.StartMark
			end = tok.EndMark
			p.skipToken()
			tok = p.peekToken()
		}
	case TagToken:
		haveTag = true
		tagHandle, tagSuffix = tok.TagHandle, tok.TagSuffix
		start, tagMark = tok.StartMark, tok.StartMark
		end = tok.EndMark
		p.skipToken()
		tok = p.peekToken()
		if tok.Type == AnchorToken {
			anchor = tok.Value
			end = tok.EndMark
			p.skipToken()
			tok = p.peekToken()
		}
	}

	var tag string
	if haveTag {
		if tagHandle == "" {
			tag = tagSuffix
		} else {
			found := false
			for _, td := range p.tagDirectives {
				if td.Handle == tagHandle {
					tag = td.Prefix + tagSuffix
					found = true
					break
				}
			}
			if !found {
				p.fail("while parsing a node", start, "found undefined tag handle", tagMark)
			}
		}
	}

	implicit := tag == ""

	if indentlessSequence && tok.Type == BlockEntryToken {
		end = tok.EndMark
		p.state = parseIndentlessSequenceEntryState
		return Event{Type: SequenceStartEvent, StartMark: start, EndMark: end, Anchor: anchor, Tag: tag, Implicit: Implicit{PlainOK: implicit}}
	}

	if tok.Type == ScalarToken {
		var impl Implicit
		end = tok.EndMark
		switch {
		case tag == "" && tok.Style == PlainScalarStyle:
			impl.PlainOK = true
		case tag == "!":
			impl.PlainOK = true
		case tag == "":
			impl.QuotedOK = true
		}
		p.state = p.popState()
		ev := Event{Type: ScalarEvent, StartMark: start, EndMark: end, Anchor: anchor, Tag: tag, Value: tok.Value, Implicit: impl, Style: tok.Style}
		p.skipToken()
		return ev
	}

	if tok.Type == FlowSequenceStartToken {
		end = tok.EndMark
		p.state = parseFlowSequenceFirstEntryState
		return Event{Type: SequenceStartEvent, StartMark: start, EndMark: end, Anchor: anchor, Tag: tag, Implicit: Implicit{PlainOK: implicit}, Flow: true}
	}
	if tok.Type == FlowMappingStartToken {
		end = tok.EndMark
		p.state = parseFlowMappingFirstKeyState
		return Event{Type: MappingStartEvent, StartMark: start, EndMark: end, Anchor: anchor, Tag: tag, Implicit: Implicit{PlainOK: implicit}, Flow: true}
	}
	if block && tok.Type == BlockSequenceStartToken {
		end = tok.EndMark
		p.state = parseBlockSequenceFirstEntryState
		return Event{Type: SequenceStartEvent, StartMark: start, EndMark: end, Anchor: anchor, Tag: tag, Implicit: Implicit{PlainOK: implicit}}
	}
	if block && tok.Type == BlockMappingStartToken {
		end = tok.EndMark
		p.state = parseBlockMappingFirstKeyState
		return Event{Type: MappingStartEvent, StartMark: start, EndMark: end, Anchor: anchor, Tag: tag, Implicit: Implicit{PlainOK: implicit}}
	}
	if anchor != "" || tag != "" {
		p.state = p.popState()
		return Event{Type: ScalarEvent, StartMark: start, EndMark: end, Anchor: anchor, Tag: tag, Implicit: Implicit{PlainOK: implicit}}
	}

	context := "while parsing a flow node"
	if block {
		context = "while parsing a block node"
	}
	p.fail(context, start, "did not find expected node content", tok.StartMark)
	panic("unreachable")
}

func (p *Parser) parseBlockSequenceEntry(first bool) Event {
	if first {
		tok := p.peekToken()
		p.marks = append(p.marks, tok.StartMark)
		p.skipToken()
	}
	tok := p.peekToken()
	if tok.Type == BlockEntryToken {
		end := tok.EndMark
		p.skipToken()
		tok = p.peekToken()
		if tok.Type != BlockEntryToken && tok.Type != BlockEndToken {
			p.pushState(parseBlockSequenceEntryState)
			return p.parseNode(true, false)
		}
		p.state = parseBlockSequenceEntryState
		return p.processEmptyScalar(end)
	}
	if tok.Type != BlockEndToken {
		ctx := p.marks[len(p.marks)-1]
		p.fail("while parsing a block collection", ctx, "did not find expected '-' indicator", tok.StartMark)
	}
	p.marks = p.marks[:len(p.marks)-1]
	p.state = p.popState()
	ev := Event{Type: SequenceEndEvent, StartMark: tok.StartMark, EndMark: tok.EndMark}
	p.skipToken()
	return ev
}

func (p *Parser) parseIndentlessSequenceEntry() Event {
	tok := p.peekToken()
	if tok.Type == BlockEntryToken {
		end := tok.EndMark
		p.skipToken()
		tok = p.peekToken()
		if tok.Type != BlockEntryToken && tok.Type != KeyToken && tok.Type != ValueToken && tok.Type != BlockEndToken {
			p.pushState(parseIndentlessSequenceEntryState)
			return p.parseNode(true, false)
		}
		p.state = parseIndentlessSequenceEntryState
		return p.processEmptyScalar(end)
	}
	p.state = p.popState()
	return Event{Type: SequenceEndEvent, StartMark: tok.StartMark, EndMark: tok.StartMark}
}

func (p *Parser) parseBlockMappingKey(first bool) Event {
	if first {
		tok := p.peekToken()
		p.marks = append(p.marks, tok.StartMark)
		p.skipToken()
	}
	tok := p.peekToken()
	if tok.Type == KeyToken {
		end := tok.EndMark
		p.skipToken()
		tok = p.peekToken()
		if tok.Type != KeyToken && tok.Type != ValueToken && tok.Type != BlockEndToken {
			p.pushState(parseBlockMappingValueState)
			return p.parseNode(true, true)
		}
		p.state = parseBlockMappingValueState
		return p.processEmptyScalar(end)
	}
	if tok.Type != BlockEndToken {
		ctx := p.marks[len(p.marks)-1]
		p.fail("while parsing a block mapping", ctx, "did not find expected key", tok.StartMark)
	}
	p.marks = p.marks[:len(p.marks)-1]
	p.state = p.popState()
	ev := Event{Type: MappingEndEvent, StartMark: tok.StartMark, EndMark: tok.EndMark}
	p.skipToken()
	return ev
}

func (p *Parser) parseBlockMappingValue() Event {
	tok := p.peekToken()
	if tok.Type == ValueToken {
		end := tok.EndMark
		p.skipToken()
		tok = p.peekToken()
		if tok.Type != KeyToken && tok.Type != ValueToken && tok.Type != BlockEndToken {
			p.pushState(parseBlockMappingKeyState)
			return p.parseNode(true, true)
		}
		p.state = parseBlockMappingKeyState
		return p.processEmptyScalar(end)
	}
	p.state = parseBlockMappingKeyState
	return p.processEmptyScalar(tok.StartMark)
}

func (p *Parser) parseFlowSequenceEntry(first bool) Event {
	if first {
		tok := p.peekToken()
		p.marks = append(p.marks, tok.StartMark)
		p.skipToken()
	}
	tok := p.peekToken()
	if tok.Type != FlowSequenceEndToken {
		if !first {
			if tok.Type == FlowEntryToken {
				p.skipToken()
				tok = p.peekToken()
			} else {
				ctx := p.marks[len(p.marks)-1]
				p.fail("while parsing a flow sequence", ctx, "did not find expected ',' or ']'", tok.StartMark)
			}
		}
		if tok.Type == KeyToken {
			p.state = parseFlowSequenceEntryMappingKeyState
			ev := Event{Type: MappingStartEvent, StartMark: tok.StartMark, EndMark: tok.EndMark, Implicit: Implicit{PlainOK: true}, Flow: true}
			p.skipToken()
			return ev
		} else if tok.Type != FlowSequenceEndToken {
			p.pushState(parseFlowSequenceEntryState)
			return p.parseNode(false, false)
		}
	}
	p.marks = p.marks[:len(p.marks)-1]
	p.state = p.popState()
	ev := Event{Type: SequenceEndEvent, StartMark: tok.StartMark, EndMark: tok.EndMark}
	p.skipToken()
	return ev
}

func (p *Parser) parseFlowSequenceEntryMappingKey() Event {
	tok := p.peekToken()
	if tok.Type != ValueToken && tok.Type != FlowEntryToken && tok.Type != FlowSequenceEndToken {
		p.pushState(parseFlowSequenceEntryMappingValueState)
		return p.parseNode(false, false)
	}
	end := tok.EndMark
	p.skipToken()
	p.state = parseFlowSequenceEntryMappingValueState
	return p.processEmptyScalar(end)
}

func (p *Parser) parseFlowSequenceEntryMappingValue() Event {
	tok := p.peekToken()
	if tok.Type == ValueToken {
		p.skipToken()
		tok = p.peekToken()
		if tok.Type != FlowEntryToken && tok.Type != FlowSequenceEndToken {
			p.pushState(parseFlowSequenceEntryMappingEndState)
			return p.parseNode(false, false)
		}
	}
	p.state = parseFlowSequenceEntryMappingEndState
	return p.processEmptyScalar(tok.StartMark)
}

func (p *Parser) parseFlowSequenceEntryMappingEnd() Event {
	tok := p.peekToken()
	p.state = parseFlowSequenceEntryState
	return Event{Type: MappingEndEvent, StartMark: tok.StartMark, EndMark: tok.StartMark}
}

func (p *Parser) parseFlowMappingKey(first bool) Event {
	if first {
		tok := p.peekToken()
		p.marks = append(p.marks, tok.StartMark)
		p.skipToken()
	}
	tok := p.peekToken()
	if tok.Type != FlowMappingEndToken {
		if !first {
			if tok.Type == FlowEntryToken {
				p.skipToken()
				tok = p.peekToken()
			} else {
				ctx := p.marks[len(p.marks)-1]
				p.fail("while parsing a flow mapping", ctx, "did not find expected ',' or '}'", tok.StartMark)
			}
		}
		if tok.Type == KeyToken {
			p.skipToken()
			tok = p.peekToken()
			if tok.Type != ValueToken && tok.Type != FlowEntryToken && tok.Type != FlowMappingEndToken {
				p.pushState(parseFlowMappingValueState)
				return p.parseNode(false, false)
			}
			p.state = parseFlowMappingValueState
			return p.processEmptyScalar(tok.StartMark)
		} else if tok.Type != FlowMappingEndToken {
			p.pushState(parseFlowMappingEmptyValueState)
			return p.parseNode(false, false)
		}
	}
	p.marks = p.marks[:len(p.marks)-1]
	p.state = p.popState()
	ev := Event{Type: MappingEndEvent, StartMark: tok.StartMark, EndMark: tok.EndMark}
	p.skipToken()
	return ev
}

func (p *Parser) parseFlowMappingValue(empty bool) Event {
	tok := p.peekToken()
	if empty {
		p.state = parseFlowMappingKeyState
		return p.processEmptyScalar(tok.StartMark)
	}
	if tok.Type == ValueToken {
		p.skipToken()
		tok = p.peekToken()
		if tok.Type != FlowEntryToken && tok.Type != FlowMappingEndToken {
			p.pushState(parseFlowMappingKeyState)
			return p.parseNode(false, false)
		}
	}
	p.state = parseFlowMappingKeyState
	return p.processEmptyScalar(tok.StartMark)
}

func (p *Parser) processEmptyScalar(mark Mark) Event {
	return Event{Type: ScalarEvent, StartMark: mark, EndMark: mark, Implicit: Implicit{PlainOK: true}, Style: PlainScalarStyle}
}

var defaultTagDirectives = []TagDirective{
	{Handle: "!", Prefix: "!"},
	{Handle: "!!", Prefix: tag2002Prefix},
}

func (p *Parser) processDirectives(versionRef **VersionDirective, tagDirsRef *[]TagDirective) {
	var version *VersionDirective
	var tagDirs []TagDirective

	tok := p.peekToken()
	for tok.Type == VersionDirectiveToken || tok.Type == TagDirectiveToken {
		if tok.Type == VersionDirectiveToken {
			if version != nil {
				p.fail("", Mark{}, "found duplicate %YAML directive", tok.StartMark)
			}
			if tok.VersionMajor != 1 || (tok.VersionMinor != 1 && tok.VersionMinor != 2) {
				p.fail("", Mark{}, "found incompatible YAML document", tok.StartMark)
			}
			version = &VersionDirective{Major: tok.VersionMajor, Minor: tok.VersionMinor}
		} else {
			td := TagDirective{Handle: tok.Value, Prefix: tok.Prefix}
			p.appendTagDirective(td, false, tok.StartMark)
			tagDirs = append(tagDirs, td)
		}
		p.skipToken()
		tok = p.peekToken()
	}
	for _, td := range defaultTagDirectives {
		p.appendTagDirective(td, true, tok.StartMark)
	}
	if versionRef != nil {
		*versionRef = version
	}
	if tagDirsRef != nil {
		*tagDirsRef = tagDirs
	}
}

func (p *Parser) appendTagDirective(td TagDirective, allowDuplicates bool, mark Mark) {
	for _, existing := range p.tagDirectives {
		if existing.Handle == td.Handle {
			if allowDuplicates {
				return
			}
			p.fail("", Mark{}, "found duplicate %TAG directive", mark)
		}
	}
	p.tagDirectives = append(p.tagDirectives, td)
}
