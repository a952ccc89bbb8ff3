// Copyright 2006-2010 Kirill Simonov
// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Serializer stage: walks a Node graph and emits the equivalent Event
// stream, assigning synthetic anchors to any node visited more than
// once. Grounded directly on PyYAML's serializer.py Serializer class;
// the teacher's own serializer.go is not used here because it assumes a
// prior representer pass already stamped node.Anchor, which this
// no-construction-layer design does not have.

package yamlcore

import "fmt"

const anchorTemplate = "id%03d"

// Serializer turns a Node graph into Events for an Emitter.
type Serializer struct {
	emit func(Event) error

	resolver *Resolver

	anchors         map[*Node]string // "" until a second visit assigns one
	serialized      map[*Node]bool
	lastAnchorID    int
}

// NewSerializer builds a Serializer that calls emit for each Event.
// Pass a non-nil Resolver to omit tags the resolver would re-infer on
// read; pass nil to always emit explicit tags.
func NewSerializer(resolver *Resolver, emit func(Event) error) *Serializer {
	return &Serializer{emit: emit, resolver: resolver}
}

// SerializeDocument emits one full document (DocumentStart...DocumentEnd)
// for root.
func (s *Serializer) SerializeDocument(root *Node, explicit bool, version *VersionDirective, tags []TagDirective) error {
	if err := s.emit(Event{Type: DocumentStartEvent, Explicit: explicit, VersionDirective: version, TagDirectives: tags}); err != nil {
		return err
	}

	s.anchors = map[*Node]string{}
	s.serialized = map[*Node]bool{}
	s.lastAnchorID = 0
	s.anchorNode(root)

	if err := s.serializeNode(root); err != nil {
		return err
	}
	return s.emit(Event{Type: DocumentEndEvent, Explicit: explicit})
}

// SerializeStream wraps SerializeDocument with StreamStart/StreamEnd.
func (s *Serializer) SerializeStream(docs []*Node) error {
	if err := s.emit(Event{Type: StreamStartEvent, Encoding: UTF8Encoding}); err != nil {
		return err
	}
	for _, doc := range docs {
		if err := s.SerializeDocument(doc, false, nil, nil); err != nil {
			return err
		}
	}
	return s.emit(Event{Type: StreamEndEvent})
}

// anchorNode is PyYAML's two-pass anchor_node: the first visit to a node
// records it with no anchor yet; a second visit (only possible through
// an alias or a graph cycle) triggers generate_anchor. Kind is not
// consulted here, matching the original -- even a revisited scalar gets
// an anchor.
func (s *Serializer) anchorNode(node *Node) {
	if _, seen := s.anchors[node]; seen {
		if s.anchors[node] == "" {
			s.anchors[node] = s.generateAnchor()
		}
		return
	}
	s.anchors[node] = ""
	switch node.Kind {
	case SequenceNode:
		for _, child := range node.Content {
			s.anchorNode(child)
		}
	case MappingNode:
		for _, child := range node.Content {
			s.anchorNode(child)
		}
	}
}

func (s *Serializer) generateAnchor() string {
	s.lastAnchorID++
	return fmt.Sprintf(anchorTemplate, s.lastAnchorID)
}

func (s *Serializer) serializeNode(node *Node) error {
	anchor := s.anchors[node]
	if s.serialized[node] {
		return s.emit(Event{Type: AliasEvent, Anchor: anchor})
	}
	s.serialized[node] = true

	switch node.Kind {
	case ScalarNode:
		implicit := s.implicitFor(node)
		if err := s.emit(Event{
			Type: ScalarEvent, Anchor: anchor, Tag: s.tagFor(node, implicit), Value: node.Value,
			Implicit: implicit, Style: scalarStyleFor(node.Style),
		}); err != nil {
			return err
		}
	case SequenceNode:
		implicit := Implicit{PlainOK: node.Tag == DefaultSequenceTag}
		if err := s.emit(Event{Type: SequenceStartEvent, Anchor: anchor, Tag: s.tagFor(node, implicit), Implicit: implicit, Flow: node.Style&FlowStyle != 0}); err != nil {
			return err
		}
		for _, child := range node.Content {
			if err := s.serializeNode(child); err != nil {
				return err
			}
		}
		if err := s.emit(Event{Type: SequenceEndEvent}); err != nil {
			return err
		}
	case MappingNode:
		implicit := Implicit{PlainOK: node.Tag == DefaultMappingTag}
		if err := s.emit(Event{Type: MappingStartEvent, Anchor: anchor, Tag: s.tagFor(node, implicit), Implicit: implicit, Flow: node.Style&FlowStyle != 0}); err != nil {
			return err
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			if err := s.serializeNode(node.Content[i]); err != nil {
				return err
			}
			if err := s.serializeNode(node.Content[i+1]); err != nil {
				return err
			}
		}
		if err := s.emit(Event{Type: MappingEndEvent}); err != nil {
			return err
		}
	default:
		fail(&SerializerError{Message: "cannot serialize a node with no kind set"})
	}
	return nil
}

// implicitFor reports whether node's tag may be dropped on emit because
// the Resolver would reconstruct it from the plain (or quoted) value.
func (s *Serializer) implicitFor(node *Node) Implicit {
	if s.resolver == nil {
		return Implicit{}
	}
	plainTag := DefaultScalarTag
	if tag, ok := s.resolver.detectScalar(node.Value); ok {
		plainTag = tag
	}
	return Implicit{PlainOK: node.Tag == plainTag, QuotedOK: node.Tag == DefaultScalarTag}
}

func (s *Serializer) tagFor(node *Node, implicit Implicit) string {
	plain := node.Style&(SingleQuotedStyle|DoubleQuotedStyle|LiteralStyle|FoldedStyle) == 0
	if (implicit.PlainOK && plain) || (implicit.QuotedOK && !plain) {
		return ""
	}
	return node.Tag
}

func scalarStyleFor(style Style) ScalarStyle {
	switch {
	case style&SingleQuotedStyle != 0:
		return SingleQuotedScalarStyle
	case style&DoubleQuotedStyle != 0:
		return DoubleQuotedScalarStyle
	case style&LiteralStyle != 0:
		return LiteralScalarStyle
	case style&FoldedStyle != 0:
		return FoldedScalarStyle
	default:
		return PlainScalarStyle
	}
}
