// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Scanner stage: tokenizes indentation-sensitive block syntax and flow
// syntax into a Token stream, tracking indentation and simple-key
// candidates the way libyaml's scannerc.c (and PyYAML's scanner.py) do.

package yamlcore

import (
	"strconv"
	"strings"
)

const maxSimpleKeyLength = 1024

// simpleKey is a candidate position that may retroactively become a
// mapping key once its ':' is found.
type simpleKey struct {
	tokenNumber int  // index into tokensTaken-relative queue position
	required    bool
	possible    bool
	mark        Mark
}

// Scanner turns decoded runes into a Token stream.
type Scanner struct {
	rd *Reader

	tokens     []Token
	tokensHead int
	tokensTaken int

	indent  int
	indents []int

	flowLevel int

	allowSimpleKey bool
	simpleKeys     map[int]simpleKey // keyed by flowLevel

	tagHandles map[string]string // current document's %TAG handles

	streamStartProduced bool
	streamEndProduced   bool
	done                bool
}

// NewScanner builds a Scanner over r.
func NewScanner(rd *Reader) *Scanner {
	return &Scanner{
		rd:         rd,
		indent:     -1,
		simpleKeys: map[int]simpleKey{},
		tagHandles: defaultTagHandles(),
	}
}

func defaultTagHandles() map[string]string {
	return map[string]string{
		"!":  "!",
		"!!": "tag:yaml.org,2002:",
	}
}

// Next returns the next Token, or a StreamEndToken repeated forever
// once the stream is exhausted.
func (s *Scanner) Next() (tok Token, err error) {
	defer recoverError(&err)
	return s.getToken(), nil
}

func (s *Scanner) peekToken() *Token {
	s.ensureStreamStart()
	for s.needMoreTokens() {
		s.fetchMoreTokens()
	}
	if len(s.tokens) == 0 {
		return nil
	}
	return &s.tokens[s.tokensHead]
}

func (s *Scanner) getToken() Token {
	s.ensureStreamStart()
	for s.needMoreTokens() {
		s.fetchMoreTokens()
	}
	if s.tokensHead >= len(s.tokens) {
		// The StreamEndToken has already been handed out.
		mark := s.rd.mark()
		return Token{Type: StreamEndToken, StartMark: mark, EndMark: mark}
	}
	t := s.tokens[s.tokensHead]
	s.tokensHead++
	s.tokensTaken++
	// Compact occasionally so the backing array does not grow forever.
	if s.tokensHead > 0 && s.tokensHead == len(s.tokens) {
		s.tokens = s.tokens[:0]
		s.tokensHead = 0
	}
	return t
}

// ensureStreamStart emits the single StreamStartToken that opens every
// token stream, matching the teacher's fetch_stream_start-on-first-call
// convention.
func (s *Scanner) ensureStreamStart() {
	if s.streamStartProduced {
		return
	}
	s.streamStartProduced = true
	if !s.rd.determined {
		s.rd.ensure(1)
	}
	mark := s.rd.mark()
	s.allowSimpleKey = true
	s.appendToken(Token{Type: StreamStartToken, StartMark: mark, EndMark: mark, Encoding: s.rd.encoding})
}

func (s *Scanner) needMoreTokens() bool {
	if s.done {
		return false
	}
	if s.tokensHead >= len(s.tokens) {
		return true
	}
	// The front token might still be retroactively marked as a key.
	for _, k := range s.simpleKeys {
		if k.possible && k.tokenNumber == s.tokensTaken {
			return true
		}
	}
	return false
}

// insertToken splices tok at queue position pos (0 == current head),
// or appends it when pos < 0. This is what lets ':' retroactively place
// a Key token before an already-queued scalar (spec.md §4.2, "simple
// keys"), mirroring the teacher's api.go insertToken.
func (s *Scanner) insertToken(pos int, tok Token) {
	if s.tokensHead > 0 && len(s.tokens) == cap(s.tokens) {
		copy(s.tokens, s.tokens[s.tokensHead:])
		s.tokens = s.tokens[:len(s.tokens)-s.tokensHead]
		s.tokensHead = 0
	}
	s.tokens = append(s.tokens, tok)
	if pos < 0 {
		return
	}
	at := s.tokensHead + pos
	copy(s.tokens[at+1:], s.tokens[at:len(s.tokens)-1])
	s.tokens[at] = tok
}

func (s *Scanner) appendToken(tok Token) {
	s.insertToken(-1, tok)
}

func (s *Scanner) fail(msg string, mark Mark) {
	fail(&ScannerError{MarkedError{Message: msg, Mark: mark}})
}

func (s *Scanner) failContext(context string, contextMark Mark, msg string, mark Mark) {
	fail(&ScannerError{MarkedError{ContextMessage: context, ContextMark: contextMark, Message: msg, Mark: mark}})
}

// --- fetch loop -----------------------------------------------------

func (s *Scanner) fetchMoreTokens() {
	s.scanToNextToken()
	s.unwindIndent(s.column())
	s.staleSimpleKeys()

	ch := s.rd.peek(0)
	if ch == 0 {
		s.fetchStreamEnd()
		return
	}

	if s.column() == 0 && ch == '%' {
		s.fetchDirective()
		return
	}
	if s.column() == 0 && s.checkDocumentIndicator("---") {
		s.fetchDocumentIndicator(DocumentStartToken)
		return
	}
	if s.column() == 0 && s.checkDocumentIndicator("...") {
		s.fetchDocumentIndicator(DocumentEndToken)
		return
	}

	switch ch {
	case '[':
		s.fetchFlowCollectionStart(FlowSequenceStartToken)
		return
	case '{':
		s.fetchFlowCollectionStart(FlowMappingStartToken)
		return
	case ']':
		s.fetchFlowCollectionEnd(FlowSequenceEndToken)
		return
	case '}':
		s.fetchFlowCollectionEnd(FlowMappingEndToken)
		return
	case ',':
		if s.flowLevel > 0 {
			s.fetchFlowEntry()
			return
		}
	case '-':
		if s.flowLevel == 0 && isBlankOrLineEnd(s.rd.peek(1)) {
			s.fetchBlockEntry()
			return
		}
		if s.flowLevel > 0 {
			// '-' is plain-scalar content in flow context unless it
			// precedes an entry boundary; fall through to plain scan.
		}
	case '?':
		if s.flowLevel > 0 || isBlankOrLineEnd(s.rd.peek(1)) {
			s.fetchKey()
			return
		}
	case ':':
		if s.flowLevel > 0 || isBlankOrLineEnd(s.rd.peek(1)) {
			s.fetchValue()
			return
		}
	case '*':
		s.fetchAnchorOrAlias(AliasToken)
		return
	case '&':
		s.fetchAnchorOrAlias(AnchorToken)
		return
	case '!':
		s.fetchTag()
		return
	case '|':
		if s.flowLevel == 0 {
			s.fetchBlockScalar(false)
			return
		}
	case '>':
		if s.flowLevel == 0 {
			s.fetchBlockScalar(true)
			return
		}
	case '\'':
		s.fetchFlowScalar(true)
		return
	case '"':
		s.fetchFlowScalar(false)
		return
	}

	if s.checkPlainStart(ch) {
		s.fetchPlainScalar()
		return
	}

	s.fail("while scanning for the next token: found character that cannot start any token: "+strconv.QuoteRune(ch), s.rd.mark())
}

func (s *Scanner) column() int { return s.rd.column }

func isBlank(ch rune) bool { return ch == ' ' || ch == '\t' }
func isLineEnd(ch rune) bool {
	return ch == '\n' || ch == '\r' || ch == '\x85' || ch == ' ' || ch == ' ' || ch == 0
}
func isBlankOrLineEnd(ch rune) bool { return isBlank(ch) || isLineEnd(ch) }

// scanToNextToken skips whitespace, line breaks, and comments, handling
// document-separator lines that might appear mid-gap.
func (s *Scanner) scanToNextToken() {
	for {
		for s.rd.peek(0) == ' ' || (s.flowLevel == 0 && false) {
			s.rd.forward(1)
		}
		for isBlank(s.rd.peek(0)) {
			s.rd.forward(1)
		}
		if s.rd.peek(0) == '#' {
			for !isLineEnd(s.rd.peek(0)) {
				s.rd.forward(1)
			}
		}
		if s.scanLineBreak() {
			if s.flowLevel == 0 {
				s.allowSimpleKey = true
			}
			continue
		}
		break
	}
}

// scanLineBreak consumes one line break sequence if present and reports
// whether it did.
func (s *Scanner) scanLineBreak() bool {
	ch := s.rd.peek(0)
	switch {
	case ch == '\r' && s.rd.peek(1) == '\n':
		s.rd.forward(2)
		return true
	case ch == '\n' || ch == '\r' || ch == '\x85' || ch == ' ' || ch == ' ':
		s.rd.forward(1)
		return true
	default:
		return false
	}
}

func (s *Scanner) checkDocumentIndicator(marker string) bool {
	for i, want := range marker {
		if s.rd.peek(i) != want {
			return false
		}
	}
	return isBlankOrLineEnd(s.rd.peek(len(marker)))
}

// unwindIndent pops every indent strictly greater than col, emitting a
// BlockEndToken for each, per spec.md §4.2. A no-op in flow context.
func (s *Scanner) unwindIndent(col int) {
	if s.flowLevel > 0 {
		return
	}
	for s.indent > col {
		mark := s.rd.mark()
		s.indent = s.indents[len(s.indents)-1]
		s.indents = s.indents[:len(s.indents)-1]
		s.appendToken(Token{Type: BlockEndToken, StartMark: mark, EndMark: mark})
	}
}

func (s *Scanner) rollIndent(col int, tokType TokenType, mark Mark) {
	if s.flowLevel > 0 {
		return
	}
	if s.indent < col {
		s.indents = append(s.indents, s.indent)
		s.indent = col
		s.appendToken(Token{Type: tokType, StartMark: mark, EndMark: mark})
	}
}

// staleSimpleKeys drops any candidate whose line has ended or whose
// 1024-character/line budget expired, and errors on a required
// candidate that never got its ':'.
func (s *Scanner) staleSimpleKeys() {
	for level, key := range s.simpleKeys {
		if !key.possible {
			continue
		}
		if key.mark.Line != s.rd.line+1 || s.rd.index-key.mark.Index > maxSimpleKeyLength {
			if key.required {
				s.fail("while scanning a simple key: could not find expected ':'", s.rd.mark())
			}
			key.possible = false
			s.simpleKeys[level] = key
		}
	}
}

func (s *Scanner) savePossibleSimpleKey() {
	required := s.flowLevel == 0 && s.indent == s.column()
	if !s.allowSimpleKey {
		return
	}
	s.removePossibleSimpleKey()
	s.simpleKeys[s.flowLevel] = simpleKey{
		tokenNumber: s.tokensTaken + (len(s.tokens) - s.tokensHead),
		required:    required,
		possible:    true,
		mark:        s.rd.mark(),
	}
}

func (s *Scanner) removePossibleSimpleKey() {
	if key, ok := s.simpleKeys[s.flowLevel]; ok && key.required {
		s.fail("while scanning a simple key: could not find expected ':'", key.mark)
	}
	delete(s.simpleKeys, s.flowLevel)
}

// --- token fetchers ---------------------------------------------------

func (s *Scanner) fetchStreamEnd() {
	s.unwindIndent(-1)
	delete(s.simpleKeys, s.flowLevel)
	s.allowSimpleKey = false
	mark := s.rd.mark()
	s.appendToken(Token{Type: StreamEndToken, StartMark: mark, EndMark: mark})
	s.done = true
}

func (s *Scanner) fetchDirective() {
	s.unwindIndent(-1)
	s.removePossibleSimpleKeyNoErr()
	s.allowSimpleKey = false
	start := s.rd.mark()
	s.rd.forward(1) // '%'
	name := s.scanWord()
	switch name {
	case "YAML":
		s.scanBlanks()
		major := s.scanDecimal()
		s.expect('.')
		minor := s.scanDecimal()
		end := s.rd.mark()
		s.scanDirectiveTail()
		s.appendToken(Token{Type: VersionDirectiveToken, StartMark: start, EndMark: end, VersionMajor: major, VersionMinor: minor})
	case "TAG":
		s.scanBlanks()
		handle := s.scanTagHandle()
		s.scanBlanks()
		prefix := s.scanTagURI()
		end := s.rd.mark()
		s.scanDirectiveTail()
		if _, dup := s.tagHandles[handle]; dup {
			s.fail("found duplicate %TAG directive for handle "+strconv.Quote(handle), start)
		}
		s.tagHandles[handle] = prefix
		s.appendToken(Token{Type: TagDirectiveToken, StartMark: start, EndMark: end, Value: handle, Prefix: prefix})
	default:
		s.scanDirectiveTail()
		// Reserved/unknown directives are skipped, per YAML 1.1.
	}
}

func (s *Scanner) removePossibleSimpleKeyNoErr() {
	delete(s.simpleKeys, s.flowLevel)
}

func (s *Scanner) scanDirectiveTail() {
	s.scanBlanks()
	if s.rd.peek(0) == '#' {
		for !isLineEnd(s.rd.peek(0)) {
			s.rd.forward(1)
		}
	}
	if !isLineEnd(s.rd.peek(0)) {
		s.fail("while scanning a directive: expected a comment or a line break", s.rd.mark())
	}
}

func (s *Scanner) expect(ch rune) {
	if s.rd.peek(0) != ch {
		s.fail("while scanning a directive: expected "+strconv.QuoteRune(ch), s.rd.mark())
	}
	s.rd.forward(1)
}

func (s *Scanner) scanBlanks() {
	for isBlank(s.rd.peek(0)) {
		s.rd.forward(1)
	}
}

func (s *Scanner) scanWord() string {
	var b strings.Builder
	for isAlpha(s.rd.peek(0)) {
		b.WriteRune(s.rd.peek(0))
		s.rd.forward(1)
	}
	return b.String()
}

func (s *Scanner) scanDecimal() int {
	var b strings.Builder
	for isDigit(s.rd.peek(0)) {
		b.WriteRune(s.rd.peek(0))
		s.rd.forward(1)
	}
	if b.Len() == 0 {
		s.fail("while scanning a directive: expected a digit", s.rd.mark())
	}
	n, _ := strconv.Atoi(b.String())
	return n
}

func isAlpha(ch rune) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || ch == '-' || ch == '_'
}
func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func (s *Scanner) scanTagHandle() string {
	if s.rd.peek(0) != '!' {
		s.fail("while scanning a tag: expected '!'", s.rd.mark())
	}
	var b strings.Builder
	b.WriteRune('!')
	s.rd.forward(1)
	for isAlpha(s.rd.peek(0)) {
		b.WriteRune(s.rd.peek(0))
		s.rd.forward(1)
	}
	if s.rd.peek(0) == '!' {
		b.WriteRune('!')
		s.rd.forward(1)
	}
	return b.String()
}

func (s *Scanner) scanTagURI() string {
	var b strings.Builder
	for isURIChar(s.rd.peek(0)) {
		b.WriteRune(s.rd.peek(0))
		s.rd.forward(1)
	}
	if b.Len() == 0 {
		s.fail("while scanning a tag: expected a URI", s.rd.mark())
	}
	return b.String()
}

func isURIChar(ch rune) bool {
	switch {
	case isAlpha(ch):
		return true
	case strings.ContainsRune(";/?:@&=+$,_.!~*'()[]%#", ch):
		return true
	default:
		return false
	}
}

func (s *Scanner) fetchDocumentIndicator(typ TokenType) {
	s.unwindIndent(-1)
	s.removePossibleSimpleKeyNoErr()
	s.allowSimpleKey = false
	start := s.rd.mark()
	s.rd.forward(3)
	end := s.rd.mark()
	if typ == DocumentStartToken {
		s.tagHandles = defaultTagHandles()
	}
	s.appendToken(Token{Type: typ, StartMark: start, EndMark: end})
}

func (s *Scanner) fetchFlowCollectionStart(typ TokenType) {
	s.savePossibleSimpleKey()
	s.flowLevel++
	s.allowSimpleKey = true
	start := s.rd.mark()
	s.rd.forward(1)
	end := s.rd.mark()
	s.appendToken(Token{Type: typ, StartMark: start, EndMark: end})
}

func (s *Scanner) fetchFlowCollectionEnd(typ TokenType) {
	s.removePossibleSimpleKeyNoErr()
	if s.flowLevel == 0 {
		s.fail("found unbalanced flow collection terminator", s.rd.mark())
	}
	s.flowLevel--
	s.allowSimpleKey = false
	start := s.rd.mark()
	s.rd.forward(1)
	end := s.rd.mark()
	s.appendToken(Token{Type: typ, StartMark: start, EndMark: end})
}

func (s *Scanner) fetchFlowEntry() {
	s.allowSimpleKey = true
	s.removePossibleSimpleKeyNoErr()
	start := s.rd.mark()
	s.rd.forward(1)
	end := s.rd.mark()
	s.appendToken(Token{Type: FlowEntryToken, StartMark: start, EndMark: end})
}

func (s *Scanner) fetchBlockEntry() {
	if s.flowLevel == 0 {
		if !s.allowSimpleKey {
			s.fail("block sequence entries are not allowed in this context", s.rd.mark())
		}
		s.rollIndent(s.column(), BlockSequenceStartToken, s.rd.mark())
	}
	s.allowSimpleKey = true
	s.removePossibleSimpleKeyNoErr()
	start := s.rd.mark()
	s.rd.forward(1)
	end := s.rd.mark()
	s.appendToken(Token{Type: BlockEntryToken, StartMark: start, EndMark: end})
}

func (s *Scanner) fetchKey() {
	if s.flowLevel == 0 {
		if !s.allowSimpleKey {
			s.fail("mapping keys are not allowed in this context", s.rd.mark())
		}
		s.rollIndent(s.column(), BlockMappingStartToken, s.rd.mark())
	}
	s.allowSimpleKey = s.flowLevel == 0
	s.removePossibleSimpleKeyNoErr()
	start := s.rd.mark()
	s.rd.forward(1)
	end := s.rd.mark()
	s.appendToken(Token{Type: KeyToken, StartMark: start, EndMark: end})
}

func (s *Scanner) fetchValue() {
	if key, ok := s.simpleKeys[s.flowLevel]; ok && key.possible {
		// Retroactively splice a Key before the saved scalar position
		// (and a BlockMappingStart if this opens a new mapping).
		delete(s.simpleKeys, s.flowLevel)
		pos := key.tokenNumber - s.tokensTaken
		if s.flowLevel == 0 && s.indent < key.mark.Column {
			s.rollIndentAt(pos, key.mark.Column, BlockMappingStartToken, key.mark)
			pos++
		}
		s.insertToken(pos, Token{Type: KeyToken, StartMark: key.mark, EndMark: key.mark})
		s.allowSimpleKey = false
	} else {
		if s.flowLevel == 0 {
			if !s.allowSimpleKey {
				s.fail("mapping values are not allowed in this context", s.rd.mark())
			}
			s.rollIndent(s.column(), BlockMappingStartToken, s.rd.mark())
		}
		s.allowSimpleKey = s.flowLevel == 0
		s.removePossibleSimpleKeyNoErr()
	}
	start := s.rd.mark()
	s.rd.forward(1)
	end := s.rd.mark()
	s.appendToken(Token{Type: ValueToken, StartMark: start, EndMark: end})
}

// rollIndentAt is rollIndent but splices the BlockMappingStartToken at a
// specific already-computed queue position, used when a ':' retroactively
// opens a mapping at an earlier saved key position.
func (s *Scanner) rollIndentAt(pos, col int, typ TokenType, mark Mark) {
	if s.flowLevel > 0 {
		return
	}
	if s.indent < col {
		s.indents = append(s.indents, s.indent)
		s.indent = col
		s.insertToken(pos, Token{Type: typ, StartMark: mark, EndMark: mark})
	}
}

func (s *Scanner) fetchAnchorOrAlias(typ TokenType) {
	s.savePossibleSimpleKey()
	s.allowSimpleKey = false
	start := s.rd.mark()
	s.rd.forward(1)
	var b strings.Builder
	for isNSChar(s.rd.peek(0)) {
		b.WriteRune(s.rd.peek(0))
		s.rd.forward(1)
	}
	if b.Len() == 0 {
		s.fail("while scanning an anchor or alias: expected a non-empty name", s.rd.mark())
	}
	end := s.rd.mark()
	s.appendToken(Token{Type: typ, StartMark: start, EndMark: end, Value: b.String()})
}

func isNSChar(ch rune) bool {
	return !isBlankOrLineEnd(ch) && !strings.ContainsRune(",[]{}", ch)
}

func (s *Scanner) fetchTag() {
	s.savePossibleSimpleKey()
	s.allowSimpleKey = false
	start := s.rd.mark()
	s.rd.forward(1) // '!'
	var handle, suffix string
	switch {
	case s.rd.peek(0) == '<':
		s.rd.forward(1)
		var b strings.Builder
		for s.rd.peek(0) != '>' {
			if isLineEnd(s.rd.peek(0)) {
				s.fail("while scanning a tag: expected '>'", s.rd.mark())
			}
			b.WriteRune(s.rd.peek(0))
			s.rd.forward(1)
		}
		s.rd.forward(1)
		suffix = b.String()
		handle = ""
	case isBlankOrLineEnd(s.rd.peek(0)):
		handle = ""
		suffix = "!"
	default:
		var b strings.Builder
		sawBang := false
		for !isBlankOrLineEnd(s.rd.peek(0)) {
			if s.rd.peek(0) == '!' {
				sawBang = true
				b.WriteRune('!')
				s.rd.forward(1)
				handle = "!" + b.String()
				b.Reset()
				continue
			}
			b.WriteRune(s.rd.peek(0))
			s.rd.forward(1)
		}
		if !sawBang {
			handle = "!"
			suffix = b.String()
		} else {
			suffix = b.String()
		}
	}
	end := s.rd.mark()
	s.appendToken(Token{Type: TagToken, StartMark: start, EndMark: end, TagHandle: handle, TagSuffix: suffix})
}

// --- scalars ----------------------------------------------------------

func (s *Scanner) checkPlainStart(ch rune) bool {
	if isBlankOrLineEnd(ch) {
		return false
	}
	switch ch {
	case '-', '?', ':':
		return !isBlankOrLineEnd(s.rd.peek(1))
	case ',', '[', ']', '{', '}', '#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
		return false
	default:
		return true
	}
}

func (s *Scanner) fetchPlainScalar() {
	s.savePossibleSimpleKey()
	s.allowSimpleKey = false
	start := s.rd.mark()
	var b strings.Builder
	indent := s.indent + 1
	leadingBlanks := false
	var whitespace strings.Builder

	for {
		if s.rd.peek(0) == '#' {
			break
		}
		for !isBlankOrLineEnd(s.rd.peek(0)) {
			ch := s.rd.peek(0)
			if ch == ':' && (isBlankOrLineEnd(s.rd.peek(1)) || (s.flowLevel > 0 && strings.ContainsRune(",[]{}", s.rd.peek(1)))) {
				goto done
			}
			if s.flowLevel > 0 && strings.ContainsRune(",[]{}", ch) {
				goto done
			}
			if leadingBlanks {
				s.foldLine(&b, whitespace.String())
				whitespace.Reset()
				leadingBlanks = false
			} else if whitespace.Len() > 0 {
				b.WriteString(whitespace.String())
				whitespace.Reset()
			}
			b.WriteRune(ch)
			s.rd.forward(1)
		}
		// Gather horizontal/vertical whitespace run.
		blanksOrBreaks := false
		var breaks int
		for isBlank(s.rd.peek(0)) {
			whitespace.WriteRune(' ')
			s.rd.forward(1)
			blanksOrBreaks = true
		}
		if s.scanLineBreak() {
			s.allowSimpleKey = true
			breaks++
			for s.column() <= indent-1 && isBlank(s.rd.peek(0)) {
				s.rd.forward(1)
			}
			for s.scanLineBreak() {
				breaks++
			}
			if s.column() == 0 && (s.checkDocumentIndicator("---") || s.checkDocumentIndicator("...")) {
				break
			}
			if s.column() < indent && s.flowLevel == 0 {
				break
			}
			whitespace.Reset()
			if breaks > 0 {
				leadingBlanks = true
				for i := 0; i < breaks; i++ {
					whitespace.WriteRune('\n')
				}
			}
			continue
		}
		if !blanksOrBreaks {
			break
		}
	}
done:
	end := s.rd.mark()
	s.appendToken(Token{Type: ScalarToken, StartMark: start, EndMark: end, Value: b.String(), Style: PlainScalarStyle})
}

// foldLine applies YAML line folding: a single break becomes a space,
// multiple breaks become (breaks-1) newlines.
func (s *Scanner) foldLine(b *strings.Builder, whitespace string) {
	if whitespace == " " || whitespace == "" {
		b.WriteRune(' ')
		return
	}
	breaks := strings.Count(whitespace, "\n")
	if breaks == 0 {
		return
	}
	for i := 0; i < breaks-1; i++ {
		b.WriteRune('\n')
	}
	if breaks == 1 {
		b.WriteRune(' ')
	}
}

func (s *Scanner) fetchFlowScalar(single bool) {
	s.savePossibleSimpleKey()
	s.allowSimpleKey = false
	start := s.rd.mark()
	var b strings.Builder
	s.rd.forward(1)
	for {
		ch := s.rd.peek(0)
		switch {
		case ch == 0:
			s.fail("while scanning a quoted scalar: found unexpected end of stream", s.rd.mark())
		case single && ch == '\'':
			if s.rd.peek(1) == '\'' {
				b.WriteRune('\'')
				s.rd.forward(2)
				continue
			}
			s.rd.forward(1)
			end := s.rd.mark()
			style := SingleQuotedScalarStyle
			s.appendToken(Token{Type: ScalarToken, StartMark: start, EndMark: end, Value: b.String(), Style: style})
			return
		case !single && ch == '"':
			s.rd.forward(1)
			end := s.rd.mark()
			s.appendToken(Token{Type: ScalarToken, StartMark: start, EndMark: end, Value: b.String(), Style: DoubleQuotedScalarStyle})
			return
		case !single && ch == '\\':
			s.scanDoubleEscape(&b)
		case isLineEnd(ch):
			var whitespace strings.Builder
			breaks := 0
			for s.scanLineBreak() {
				breaks++
			}
			for isBlank(s.rd.peek(0)) {
				s.rd.forward(1)
			}
			if breaks > 0 {
				for i := 0; i < breaks-1; i++ {
					whitespace.WriteRune('\n')
				}
				if breaks == 1 {
					whitespace.WriteRune(' ')
				}
			}
			b.WriteString(whitespace.String())
		default:
			b.WriteRune(ch)
			s.rd.forward(1)
		}
	}
}

func (s *Scanner) scanDoubleEscape(b *strings.Builder) {
	s.rd.forward(1) // backslash
	ch := s.rd.peek(0)
	switch ch {
	case '0':
		b.WriteRune(0)
	case 'a':
		b.WriteRune('\a')
	case 'b':
		b.WriteRune('\b')
	case 't', '\t':
		b.WriteRune('\t')
	case 'n':
		b.WriteRune('\n')
	case 'v':
		b.WriteRune('\v')
	case 'f':
		b.WriteRune('\f')
	case 'r':
		b.WriteRune('\r')
	case 'e':
		b.WriteRune(0x1B)
	case '"':
		b.WriteRune('"')
	case '\\':
		b.WriteRune('\\')
	case 'N':
		b.WriteRune(0x85)
	case '_':
		b.WriteRune(0xA0)
	case 'L':
		b.WriteRune(0x2028)
	case 'P':
		b.WriteRune(0x2029)
	case 'x':
		s.rd.forward(1)
		b.WriteRune(s.scanHex(2))
		return
	case 'u':
		s.rd.forward(1)
		b.WriteRune(s.scanHex(4))
		return
	case 'U':
		s.rd.forward(1)
		b.WriteRune(s.scanHex(8))
		return
	case '\n', '\r', '\x85', ' ', ' ':
		s.scanLineBreak()
		for isBlank(s.rd.peek(0)) {
			s.rd.forward(1)
		}
		return
	default:
		s.fail("while scanning a double-quoted scalar: found unknown escape character "+strconv.QuoteRune(ch), s.rd.mark())
	}
	s.rd.forward(1)
}

func (s *Scanner) scanHex(n int) rune {
	var v rune
	for i := 0; i < n; i++ {
		ch := s.rd.peek(0)
		var d rune
		switch {
		case ch >= '0' && ch <= '9':
			d = ch - '0'
		case ch >= 'a' && ch <= 'f':
			d = ch - 'a' + 10
		case ch >= 'A' && ch <= 'F':
			d = ch - 'A' + 10
		default:
			s.fail("while scanning a double-quoted scalar: expected a hex digit", s.rd.mark())
		}
		v = v*16 + d
		s.rd.forward(1)
	}
	return v
}

func (s *Scanner) fetchBlockScalar(folded bool) {
	s.removePossibleSimpleKeyNoErr()
	s.allowSimpleKey = true
	start := s.rd.mark()
	s.rd.forward(1)

	chomping := ClipChomping
	indentIndicator := 0
	for i := 0; i < 2; i++ {
		switch s.rd.peek(0) {
		case '+':
			chomping = KeepChomping
			s.rd.forward(1)
		case '-':
			chomping = StripChomping
			s.rd.forward(1)
		case '1', '2', '3', '4', '5', '6', '7', '8', '9':
			indentIndicator = int(s.rd.peek(0) - '0')
			s.rd.forward(1)
		}
	}
	s.scanBlanks()
	if s.rd.peek(0) == '#' {
		for !isLineEnd(s.rd.peek(0)) {
			s.rd.forward(1)
		}
	}
	if !isLineEnd(s.rd.peek(0)) {
		s.fail("while scanning a block scalar: expected a comment or a line break", s.rd.mark())
	}
	s.scanLineBreak()

	blockIndent := indentIndicator
	if blockIndent > 0 {
		blockIndent += s.indent + 1
	}

	var lines []string
	maxEmptyIndent := 0
	for {
		// Measure this (possibly blank) line's indentation.
		col := 0
		for s.rd.peek(col) == ' ' {
			col++
		}
		if isLineEnd(s.rd.peek(col)) {
			if col > maxEmptyIndent {
				maxEmptyIndent = col
			}
			s.rd.forward(col)
			lines = append(lines, "")
			if s.rd.peek(0) == 0 {
				break
			}
			s.scanLineBreak()
			continue
		}
		if blockIndent == 0 {
			blockIndent = col
			if blockIndent < s.indent+1 {
				blockIndent = s.indent + 1
			}
		}
		if col < blockIndent {
			break
		}
		s.rd.forward(blockIndent)
		var b strings.Builder
		for !isLineEnd(s.rd.peek(0)) {
			b.WriteRune(s.rd.peek(0))
			s.rd.forward(1)
		}
		lines = append(lines, b.String())
		if s.rd.peek(0) == 0 {
			break
		}
		s.scanLineBreak()
	}

	value := joinBlockLines(lines, folded)
	value = applyChomping(value, chomping)

	end := s.rd.mark()
	style := LiteralScalarStyle
	if folded {
		style = FoldedScalarStyle
	}
	s.appendToken(Token{Type: ScalarToken, StartMark: start, EndMark: end, Value: value, Style: style})
}

// joinBlockLines joins a block scalar's raw lines with literal or folded
// line-break semantics (spec.md §4.2: folded style folds a single break
// between non-blank lines to a space; literal preserves every break).
func joinBlockLines(lines []string, folded bool) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			prevBlank := lines[i-1] == ""
			curBlank := line == ""
			if folded && !prevBlank && !curBlank {
				b.WriteRune(' ')
			} else {
				b.WriteRune('\n')
			}
		}
		b.WriteString(line)
	}
	b.WriteRune('\n')
	return b.String()
}

// applyChomping trims or preserves trailing newlines per the block
// scalar's chomping indicator.
func applyChomping(value string, chomping ChompingStyle) string {
	switch chomping {
	case StripChomping:
		return strings.TrimRight(value, "\n")
	case KeepChomping:
		return value
	default: // clip
		trimmed := strings.TrimRight(value, "\n")
		if trimmed == "" {
			return ""
		}
		return trimmed + "\n"
	}
}
