// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Emitter stage: renders an Event stream as YAML text. Grounded on the
// teacher's internal/libyaml/emitter.go -- its indent/indents stack,
// flow-vs-block context tracking, and scalar-style-selection approach
// carry over directly; generalized here to the spec's Event shape and
// simplified by dropping the teacher's comment-emission machinery,
// which has no equivalent in this design.

package yamlcore

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// collState tracks one level of collection nesting: whether it is a
// mapping or a sequence, flow or block, and (for mappings) whether the
// next child node emitted is a key or a value.
type collState struct {
	mapping bool
	flow    bool
	first   bool
	keyNext bool
}

// Emitter writes Events as YAML text to an underlying writer.
type Emitter struct {
	w   *bufio.Writer
	opt Options

	indent  int
	indents []int

	coll []collState

	rootContext bool
	openEnded   bool

	column     int
	whitespace bool
	indention  bool

	tagDirectives []TagDirective

	documentsEmitted int
}

// NewEmitter builds an Emitter writing to w.
func NewEmitter(w io.Writer, opts ...Option) *Emitter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Emitter{w: bufio.NewWriter(w), opt: o, whitespace: true, indention: true}
}

// Emit writes one Event. Flush must be called once the stream is done.
func (e *Emitter) Emit(ev Event) (err error) {
	defer recoverError(&err)

	switch ev.Type {
	case StreamStartEvent:
		e.emitStreamStart(ev)
	case StreamEndEvent:
		e.flushLine()
	case DocumentStartEvent:
		e.emitDocumentStart(ev)
	case DocumentEndEvent:
		e.emitDocumentEnd(ev)
	case AliasEvent:
		e.prepareForNextNode()
		e.writeIndicator("*"+ev.Anchor, true, false, false)
	case ScalarEvent:
		e.prepareForNextNode()
		e.emitScalarNode(ev)
	case SequenceStartEvent:
		e.prepareForNextNode()
		e.emitCollectionStart(ev, false)
	case SequenceEndEvent:
		e.emitCollectionEnd("]")
	case MappingStartEvent:
		e.prepareForNextNode()
		e.emitCollectionStart(ev, true)
	case MappingEndEvent:
		e.emitCollectionEnd("}")
	default:
		fail(&EmitterError{Message: "unexpected event type in Emit"})
	}
	return nil
}

// Flush pushes any buffered output to the underlying writer.
func (e *Emitter) Flush() error { return e.w.Flush() }

func (e *Emitter) fail(msg string) {
	fail(&EmitterError{Message: msg})
}

// --- low-level writers --------------------------------------------------

func (e *Emitter) writeString(s string) {
	e.w.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		e.column = len([]rune(s[i+1:]))
	} else {
		e.column += len([]rune(s))
	}
}

func (e *Emitter) writeLineBreak() {
	e.w.WriteString(e.opt.LineBreak)
	e.column = 0
	e.whitespace = true
	e.indention = true
}

func (e *Emitter) writeIndent() {
	indent := e.indent
	if indent < 0 {
		indent = 0
	}
	if !e.indention || e.column > indent || (e.column == indent && !e.whitespace) {
		e.writeLineBreak()
	}
	if e.column < indent {
		e.whitespace = true
		e.w.WriteString(strings.Repeat(" ", indent-e.column))
		e.column = indent
	}
}

func (e *Emitter) writeIndicator(indicator string, needWhitespace, isWhitespace, isIndention bool) {
	if needWhitespace && !e.whitespace {
		e.writeString(" ")
	}
	e.writeString(indicator)
	e.whitespace = isWhitespace
	e.indention = e.indention && isIndention
}

func (e *Emitter) increaseIndent(flow bool) {
	e.indents = append(e.indents, e.indent)
	if e.indent < 0 {
		if flow {
			e.indent = e.opt.Indent
		} else {
			e.indent = 0
		}
	} else {
		e.indent += e.opt.Indent
	}
}

func (e *Emitter) decreaseIndent() {
	e.indent = e.indents[len(e.indents)-1]
	e.indents = e.indents[:len(e.indents)-1]
}

func (e *Emitter) flushLine() {
	if e.column != 0 {
		e.writeLineBreak()
	}
}

// --- stream/document framing --------------------------------------------

func (e *Emitter) emitStreamStart(ev Event) {
	e.indent = -1
	e.column = 0
	e.whitespace = true
	e.indention = true
}

func (e *Emitter) emitDocumentStart(ev Event) {
	e.tagDirectives = nil
	haveVersion := ev.VersionDirective != nil
	if haveVersion || len(ev.TagDirectives) > 0 {
		if e.documentsEmitted > 0 || ev.Explicit {
			e.writeIndicator("---", false, false, false)
			e.writeLineBreak()
		}
		if ev.VersionDirective != nil {
			e.writeString("%YAML " + strconv.Itoa(ev.VersionDirective.Major) + "." + strconv.Itoa(ev.VersionDirective.Minor))
			e.writeLineBreak()
		}
		for _, td := range ev.TagDirectives {
			e.appendTagDirective(td, false)
			e.writeString("%TAG " + td.Handle + " " + td.Prefix)
			e.writeLineBreak()
		}
	}
	for _, td := range defaultTagDirectives {
		e.appendTagDirective(td, true)
	}
	if e.checkEmptyDocument(ev) {
		e.openEnded = false
	} else if e.opt.ExplicitStart || ev.Explicit || haveVersion || len(ev.TagDirectives) > 0 || e.documentsEmitted > 0 {
		e.writeIndicator("---", true, false, false)
		if e.opt.Canonical {
			e.writeIndent()
		}
	}
	e.rootContext = true
}

func (e *Emitter) checkEmptyDocument(ev Event) bool { return false }

func (e *Emitter) appendTagDirective(td TagDirective, allowDup bool) {
	for _, existing := range e.tagDirectives {
		if existing.Handle == td.Handle {
			if allowDup {
				return
			}
			e.fail("duplicate %TAG directive")
		}
	}
	e.tagDirectives = append(e.tagDirectives, td)
}

func (e *Emitter) emitDocumentEnd(ev Event) {
	e.writeIndent()
	if ev.Explicit || e.opt.ExplicitEnd {
		e.writeIndicator("...", true, false, false)
		e.writeIndent()
	}
	e.w.Flush()
	e.documentsEmitted++
	e.rootContext = false
}

// --- nodes ---------------------------------------------------------------

// prepareForNextNode writes whatever separator or indicator belongs
// between the previous sibling and the node about to be emitted, based
// on the collection the node is being emitted into. It is a no-op at
// the document root.
func (e *Emitter) prepareForNextNode() {
	if len(e.coll) == 0 {
		return
	}
	top := &e.coll[len(e.coll)-1]
	switch {
	case top.mapping && top.keyNext:
		if top.flow {
			if !top.first {
				e.writeIndicator(",", false, false, false)
			}
		} else {
			e.writeIndent()
		}
		top.first = false
		top.keyNext = false
	case top.mapping && !top.keyNext:
		e.writeIndicator(":", false, false, false)
		top.keyNext = true
	case top.flow:
		if !top.first {
			e.writeIndicator(",", false, false, false)
		}
		top.first = false
	default: // block sequence
		e.writeIndent()
		e.writeIndicator("-", true, false, true)
	}
}

func (e *Emitter) emitCollectionStart(ev Event, mapping bool) {
	e.processAnchor(ev.Anchor)
	e.processTag(ev.Tag, ev.Implicit)

	flow := ev.Flow || e.opt.Canonical || e.opt.DefaultFlow
	e.coll = append(e.coll, collState{mapping: mapping, flow: flow, first: true, keyNext: true})

	if flow {
		if mapping {
			e.writeIndicator("{", true, true, false)
		} else {
			e.writeIndicator("[", true, true, false)
		}
		e.increaseIndent(true)
	} else {
		e.increaseIndent(false)
	}
}

func (e *Emitter) emitCollectionEnd(flowIndicator string) {
	top := e.coll[len(e.coll)-1]
	e.coll = e.coll[:len(e.coll)-1]
	e.decreaseIndent()
	if top.flow {
		e.writeIndicator(flowIndicator, false, false, false)
	}
}

func (e *Emitter) processAnchor(anchor string) {
	if anchor == "" {
		return
	}
	e.writeIndicator("&"+anchor, true, false, false)
}

func (e *Emitter) processTag(tag string, implicit Implicit) {
	if tag == "" {
		return
	}
	if implicit.PlainOK && !e.opt.Canonical {
		return
	}
	e.writeIndicator(e.tagText(tag), true, false, false)
}

func (e *Emitter) tagText(tag string) string {
	short := shortTag(tag)
	if short != tag {
		return short
	}
	return "!<" + tag + ">"
}

func (e *Emitter) emitScalarNode(ev Event) {
	e.processAnchor(ev.Anchor)
	e.processTag(ev.Tag, ev.Implicit)
	e.selectAndWriteScalar(ev)
}

func (e *Emitter) selectAndWriteScalar(ev Event) {
	style := ev.Style
	if style == AnyScalarStyle {
		style = chooseScalarStyle(ev.Value, ev.Implicit, e.opt.Canonical)
	}
	switch style {
	case SingleQuotedScalarStyle:
		e.writeSingleQuoted(ev.Value)
	case DoubleQuotedScalarStyle:
		e.writeDoubleQuoted(ev.Value)
	case LiteralScalarStyle:
		e.writeBlockScalarHeader('|', ev.Value)
		e.writeBlockScalarBody(ev.Value, false)
	case FoldedScalarStyle:
		e.writeBlockScalarHeader('>', ev.Value)
		e.writeBlockScalarBody(ev.Value, true)
	default:
		e.writePlain(ev.Value)
	}
}

// chooseScalarStyle picks a default presentation when the caller left
// Style unset, matching the teacher's select_scalar_style heuristics at
// a coarser grain: prefer plain, fall back to double-quoted for values
// that would otherwise resolve to a different implicit type or that
// contain characters plain scalars cannot carry.
func chooseScalarStyle(value string, implicit Implicit, canonical bool) ScalarStyle {
	if canonical {
		return DoubleQuotedScalarStyle
	}
	if value == "" {
		return SingleQuotedScalarStyle
	}
	if !implicit.PlainOK {
		return DoubleQuotedScalarStyle
	}
	if !isPlainSafe(value) {
		return DoubleQuotedScalarStyle
	}
	return PlainScalarStyle
}

func isPlainSafe(value string) bool {
	if strings.TrimSpace(value) != value {
		return false
	}
	for _, ch := range value {
		if ch == '\n' || ch == '\t' {
			return false
		}
		if !printable(ch) {
			return false
		}
	}
	switch value[0] {
	case '!', '&', '*', '-', '?', '|', '>', '\'', '"', '%', '@', '`', '#', ',', '[', ']', '{', '}', ':', ' ':
		return false
	}
	if strings.Contains(value, ": ") || strings.HasSuffix(value, ":") || strings.Contains(value, " #") {
		return false
	}
	return true
}

func (e *Emitter) writePlain(value string) {
	if value == "" {
		return
	}
	if !e.whitespace {
		e.writeString(" ")
	}
	e.whitespace = false
	e.indention = false
	e.wrapAndWrite(value, false)
}

func (e *Emitter) writeSingleQuoted(value string) {
	e.writeIndicator("'", true, false, false)
	e.wrapAndWrite(strings.ReplaceAll(value, "'", "''"), true)
	e.writeString("'")
	e.whitespace = false
}

func (e *Emitter) writeDoubleQuoted(value string) {
	e.writeIndicator(`"`, true, false, false)
	var b strings.Builder
	for _, ch := range value {
		switch {
		case ch == '"':
			b.WriteString(`\"`)
		case ch == '\\':
			b.WriteString(`\\`)
		case ch == '\n':
			b.WriteString(`\n`)
		case ch == '\t':
			b.WriteString(`\t`)
		case ch == '\r':
			b.WriteString(`\r`)
		case ch == 0x85:
			b.WriteString(`\N`)
		case ch == 0xA0:
			b.WriteString(`\_`)
		case !e.opt.AllowUnicode && ch > 0x7E:
			b.WriteString(escapeUnicode(ch))
		case !printable(ch):
			b.WriteString(escapeUnicode(ch))
		default:
			b.WriteRune(ch)
		}
	}
	e.wrapAndWrite(b.String(), true)
	e.writeString(`"`)
	e.whitespace = false
}

func escapeUnicode(ch rune) string {
	switch {
	case ch <= 0xFF:
		return "\\x" + hexPad(int(ch), 2)
	case ch <= 0xFFFF:
		return "\\u" + hexPad(int(ch), 4)
	default:
		return "\\U" + hexPad(int(ch), 8)
	}
}

func hexPad(v, width int) string {
	s := strconv.FormatInt(int64(v), 16)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// wrapAndWrite writes value, folding at e.opt.Width when it is positive
// and quotable is set (single- and double-quoted scalars). A fold turns
// one space between two words into a line break, which the scanner reads
// back as that space; plain scalars are written without wrapping.
func (e *Emitter) wrapAndWrite(value string, quotable bool) {
	if e.opt.Width <= 0 {
		e.writeString(value)
		return
	}
	words := strings.Split(value, " ")
	for i, word := range words {
		if i > 0 {
			if e.column+utf8.RuneCountInString(word)+1 > e.opt.Width && quotable && word != "" {
				e.writeLineBreak()
				e.writeIndent()
			} else {
				e.writeString(" ")
			}
		}
		e.writeString(word)
	}
}

func (e *Emitter) writeBlockScalarHeader(indicator byte, value string) {
	header := string(indicator)
	switch {
	case strings.HasSuffix(value, "\n\n") || (value != "" && !strings.HasSuffix(value, "\n")):
		if !strings.HasSuffix(value, "\n") {
			header += "-"
		} else {
			header += "+"
		}
	}
	e.writeIndicator(header, true, false, false)
	e.writeLineBreak()
}

func (e *Emitter) writeBlockScalarBody(value string, folded bool) {
	e.increaseIndent(false)
	trimmed := strings.TrimRight(value, "\n")
	if folded {
		e.writeFoldedBody(trimmed)
	} else {
		e.writeLiteralBody(trimmed)
	}
	e.decreaseIndent()
	e.whitespace = true
	e.indention = true
}

// writeLiteralBody writes text under a literal ("|") header: every "\n"
// in text is written as exactly one raw line break, so the reader's
// literal-scalar rules hand the value back unchanged.
func (e *Emitter) writeLiteralBody(text string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			e.writeLineBreak()
		}
		if i == 0 || line != "" {
			e.writeIndent()
		}
		e.writeString(line)
	}
}

// writeFoldedBody writes text under a folded (">") header. The scanner's
// joinBlockLines folds a lone raw break between two non-blank lines into
// a space, but any raw break touching a blank line is kept literal -- so
// a run of R raw breaks round-trips to R literal breaks for R >= 2, and
// to a space (0 breaks) for R == 1. To hand a run of n consecutive "\n"
// characters in text back unchanged, we therefore write R = n raw breaks
// when n >= 2. A lone embedded break (n == 1) has no raw-break count that
// reconstructs it exactly -- one raw break folds to a space and two
// promote it to a blank line -- so we pick the latter, the same
// blank-line promotion a reader would apply rather than silently losing
// the break to a space.
func (e *Emitter) writeFoldedBody(text string) {
	i := 0
	first := true
	for {
		j := i
		for j < len(text) && text[j] != '\n' {
			j++
		}
		segment := text[i:j]
		if first || segment != "" {
			e.writeIndent()
		}
		e.writeString(segment)
		first = false
		if j == len(text) {
			return
		}
		k := j
		for k < len(text) && text[k] == '\n' {
			k++
		}
		rawBreaks := k - j
		if rawBreaks < 2 {
			rawBreaks = 2
		}
		for n := 0; n < rawBreaks; n++ {
			e.writeLineBreak()
		}
		i = k
	}
}
