// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package yamlcore

// EventType identifies the kind of a parsed Event.
type EventType int8

const (
	NoEvent EventType = iota

	StreamStartEvent
	StreamEndEvent
	DocumentStartEvent
	DocumentEndEvent
	AliasEvent
	ScalarEvent
	SequenceStartEvent
	SequenceEndEvent
	MappingStartEvent
	MappingEndEvent
)

var eventNames = [...]string{
	NoEvent:            "none",
	StreamStartEvent:   "stream start",
	StreamEndEvent:     "stream end",
	DocumentStartEvent: "document start",
	DocumentEndEvent:   "document end",
	AliasEvent:         "alias",
	ScalarEvent:        "scalar",
	SequenceStartEvent: "sequence start",
	SequenceEndEvent:   "sequence end",
	MappingStartEvent:  "mapping start",
	MappingEndEvent:    "mapping end",
}

func (t EventType) String() string {
	if int(t) < 0 || int(t) >= len(eventNames) {
		return "unknown event"
	}
	return eventNames[t]
}

// Implicit describes whether a node's tag may be omitted on emit because
// the resolver would deduce it anyway. PlainOK covers plain scalars;
// QuotedOK covers the "!" non-plain-but-still-implicit case described in
// spec.md §4.3 (a non-plain scalar whose tag is still the resolved
// default, e.g. an explicitly quoted "123" kept as a string).
type Implicit struct {
	PlainOK  bool
	QuotedOK bool
}

// Event is one structural step of the token-stream-to-node-graph grammar,
// produced by the Parser and consumed by the Composer (or produced by the
// Serializer and consumed by the Emitter).
type Event struct {
	Type               EventType
	StartMark, EndMark Mark

	// Encoding, for StreamStartEvent.
	Encoding Encoding

	// VersionDirective/TagDirectives, for DocumentStartEvent.
	VersionDirective *VersionDirective
	TagDirectives    []TagDirective

	// Explicit records whether a DocumentStartEvent/DocumentEndEvent
	// marker ("---"/"...") was written out, versus implied.
	Explicit bool

	// Anchor, for ScalarEvent, SequenceStartEvent, MappingStartEvent,
	// AliasEvent.
	Anchor string

	// Tag, for ScalarEvent, SequenceStartEvent, MappingStartEvent.
	Tag string

	// Implicit records whether the Tag could be omitted on emit.
	Implicit Implicit

	// Value, for ScalarEvent.
	Value string

	// Style, for ScalarEvent (ScalarStyle), SequenceStartEvent/
	// MappingStartEvent (FlowStyle as a bool via Style != 0).
	Style  ScalarStyle
	Flow   bool
}

// VersionDirective is the parsed form of a "%YAML M.N" directive.
type VersionDirective struct {
	Major, Minor int
}

// TagDirective is the parsed form of a "%TAG <handle> <prefix>" directive.
type TagDirective struct {
	Handle, Prefix string
}
