// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package yamlcore

import "testing"

func collect(node *Node) []Event {
	var events []Event
	s := NewSerializer(NewDefaultResolver(), func(ev Event) error {
		events = append(events, ev)
		return nil
	})
	s.SerializeDocument(node, false, nil, nil)
	return events
}

func TestSerializeScalarOmitsImplicitTag(t *testing.T) {
	node := &Node{Kind: ScalarNode, Tag: tag2002Prefix + "str", Value: "hello"}
	events := collect(node)
	var scalar Event
	for _, ev := range events {
		if ev.Type == ScalarEvent {
			scalar = ev
		}
	}
	if scalar.Tag != "" {
		t.Fatalf("Tag = %q, want empty (implicit)", scalar.Tag)
	}
}

func TestSerializeSharedNodeGetsOneAnchor(t *testing.T) {
	shared := &Node{Kind: ScalarNode, Tag: tag2002Prefix + "int", Value: "1"}
	root := &Node{Kind: SequenceNode, Tag: DefaultSequenceTag, Content: []*Node{shared, shared}}

	events := collect(root)
	var anchors []string
	var aliasSeen bool
	for _, ev := range events {
		if ev.Anchor != "" && ev.Type != AliasEvent {
			anchors = append(anchors, ev.Anchor)
		}
		if ev.Type == AliasEvent {
			aliasSeen = true
			if ev.Anchor == "" {
				t.Fatal("alias event has no anchor")
			}
		}
	}
	if len(anchors) != 1 {
		t.Fatalf("got %d anchor-defining events, want exactly 1: %v", len(anchors), anchors)
	}
	if !aliasSeen {
		t.Fatal("expected the second visit to the shared node to serialize as an alias")
	}
}

func TestSerializeFlowStylePropagates(t *testing.T) {
	node := &Node{Kind: MappingNode, Tag: DefaultMappingTag, Style: FlowStyle, Content: []*Node{
		{Kind: ScalarNode, Tag: DefaultScalarTag, Value: "a"},
		{Kind: ScalarNode, Tag: DefaultScalarTag, Value: "1"},
	}}
	events := collect(node)
	if !events[1].Flow {
		t.Fatalf("MappingStartEvent.Flow = false, want true")
	}
}
