// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Composer stage: turns a Parser's Event stream into a Node graph,
// resolving aliases against anchors seen earlier in the same document.
// Grounded on the original implementation's composer.py: an anchor is
// tracked in `pending` from the moment its defining node's start event
// is read until every one of its children has been composed, and only
// then moves into `anchors`. An alias to a name still in `pending` is
// an alias nested inside its own anchor's subtree -- a recursive
// anchor -- and is rejected, matching composer.py's
// all_anchors/complete_anchors split.

package yamlcore

import "io"

type composerAnchor struct {
	node *Node
	mark Mark
}

// Composer reads Events and produces document root Nodes.
type Composer struct {
	parser   *Parser
	resolver *Resolver

	anchors map[string]*composerAnchor // anchors whose node is fully built
	pending map[string]*composerAnchor // anchors currently being built

	path []PathStep // ancestry hops from the document root to the node being composed
}

// NewComposer builds a Composer reading from p, resolving implicit tags
// with r (pass nil to disable implicit resolution).
func NewComposer(p *Parser, r *Resolver) *Composer {
	return &Composer{parser: p, resolver: r}
}

// ComposeDocument reads one document from the stream and returns its
// root Node, or (nil, io.EOF) once the stream is exhausted.
func (c *Composer) ComposeDocument() (root *Node, err error) {
	defer recoverError(&err)

	ev := c.nextEvent()
	if ev.Type == StreamStartEvent {
		ev = c.nextEvent()
	}
	if ev.Type == StreamEndEvent {
		return nil, io.EOF
	}
	if ev.Type != DocumentStartEvent {
		fail(&ComposerError{MarkedError{Message: "expected a document start event", Mark: ev.StartMark}})
	}

	c.anchors = map[string]*composerAnchor{}
	c.pending = map[string]*composerAnchor{}
	c.path = nil
	root = c.composeNode(c.nextEvent())

	ev = c.nextEvent()
	if ev.Type != DocumentEndEvent {
		fail(&ComposerError{MarkedError{Message: "expected a document end event", Mark: ev.StartMark}})
	}
	return root, nil
}

// ComposeAll reads every document in the stream.
func (c *Composer) ComposeAll() ([]*Node, error) {
	var docs []*Node
	for {
		doc, err := c.ComposeDocument()
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return docs, err
		}
		docs = append(docs, doc)
	}
}

func (c *Composer) nextEvent() Event {
	ev, err := c.parser.Parse()
	if err == io.EOF {
		return Event{Type: StreamEndEvent}
	}
	if err != nil {
		fail(err)
	}
	return ev
}

func (c *Composer) composeNode(ev Event) *Node {
	if ev.Type == AliasEvent {
		if _, building := c.pending[ev.Anchor]; building {
			fail(&ComposerError{MarkedError{Message: "found recursive anchor '" + ev.Anchor + "'", Mark: ev.StartMark}})
		}
		anchor, ok := c.anchors[ev.Anchor]
		if !ok {
			fail(&ComposerError{MarkedError{Message: "found undefined alias " + ev.Anchor, Mark: ev.StartMark}})
		}
		return anchor.node
	}

	node := &Node{Anchor: ev.Anchor, StartMark: ev.StartMark}
	if ev.Anchor != "" {
		if _, dup := c.anchors[ev.Anchor]; dup {
			fail(&ComposerError{MarkedError{Message: "found duplicate anchor " + ev.Anchor, Mark: ev.StartMark}})
		}
		if _, dup := c.pending[ev.Anchor]; dup {
			fail(&ComposerError{MarkedError{Message: "found duplicate anchor " + ev.Anchor, Mark: ev.StartMark}})
		}
		c.pending[ev.Anchor] = &composerAnchor{node: node, mark: ev.StartMark}
	}

	switch ev.Type {
	case ScalarEvent:
		c.composeScalarNode(node, ev)
	case SequenceStartEvent:
		c.composeSequenceNode(node, ev)
	case MappingStartEvent:
		c.composeMappingNode(node, ev)
	default:
		fail(&ComposerError{MarkedError{Message: "expected a node start event", Mark: ev.StartMark}})
	}

	if ev.Anchor != "" {
		delete(c.pending, ev.Anchor)
		c.anchors[ev.Anchor] = &composerAnchor{node: node, mark: ev.StartMark}
	}

	return node
}

func (c *Composer) composeScalarNode(node *Node, ev Event) {
	node.Kind = ScalarNode
	node.Value = ev.Value
	node.EndMark = ev.EndMark
	node.Style = scalarEventStyle(ev)
	node.Tag = c.resolveTag(node, ev.Tag, ev.Implicit, ScalarNode)
}

func scalarEventStyle(ev Event) Style {
	switch ev.Style {
	case SingleQuotedScalarStyle:
		return SingleQuotedStyle
	case DoubleQuotedScalarStyle:
		return DoubleQuotedStyle
	case LiteralScalarStyle:
		return LiteralStyle
	case FoldedScalarStyle:
		return FoldedStyle
	default:
		return 0
	}
}

func (c *Composer) composeSequenceNode(node *Node, start Event) {
	node.Kind = SequenceNode
	node.Tag = c.resolveTag(node, start.Tag, start.Implicit, SequenceNode)
	if start.Flow {
		node.Style |= FlowStyle
	}
	index := 0
	for {
		ev := c.nextEvent()
		if ev.Type == SequenceEndEvent {
			node.EndMark = ev.EndMark
			return
		}
		c.path = append(c.path, PathStep{Index: index, Kind: eventKind(ev)})
		child := c.composeNode(ev)
		c.path = c.path[:len(c.path)-1]
		node.Content = append(node.Content, child)
		index++
	}
}

func (c *Composer) composeMappingNode(node *Node, start Event) {
	node.Kind = MappingNode
	node.Tag = c.resolveTag(node, start.Tag, start.Implicit, MappingNode)
	if start.Flow {
		node.Style |= FlowStyle
	}
	seen := map[string]bool{}
	for {
		ev := c.nextEvent()
		if ev.Type == MappingEndEvent {
			node.EndMark = ev.EndMark
			return
		}
		c.path = append(c.path, PathStep{Index: -1, Kind: eventKind(ev)})
		key := c.composeNode(ev)
		c.path = c.path[:len(c.path)-1]

		keyStr := ""
		if key.Kind == ScalarNode {
			keyStr = key.Value
		}
		valueEv := c.nextEvent()
		c.path = append(c.path, PathStep{Key: keyStr, Index: -1, Kind: eventKind(valueEv)})
		value := c.composeNode(valueEv)
		c.path = c.path[:len(c.path)-1]

		if dupKey, ok := mappingKeyString(key); ok {
			if seen[dupKey] {
				fail(&ComposerError{MarkedError{Message: "found duplicate key " + dupKey, Mark: key.StartMark}})
			}
			seen[dupKey] = true
		}
		node.Content = append(node.Content, key, value)
	}
}

// mappingKeyString returns a comparable identity for a scalar key so
// duplicate-key detection can use a plain map. Collection keys (flow
// sequences/mappings used as map keys) are legal per the YAML spec but
// are not hashed here; see DESIGN.md for the accepted tradeoff.
func mappingKeyString(key *Node) (string, bool) {
	if key.Kind != ScalarNode {
		return "", false
	}
	return key.Tag + "\x00" + key.Value, true
}

func (c *Composer) resolveTag(node *Node, tag string, implicit Implicit, kind Kind) string {
	if tag != "" && tag != "!" {
		return tag
	}
	if c.resolver == nil {
		return defaultTagFor(kind)
	}
	if tag == "!" {
		return c.resolver.resolve(kind, node, false, c.path)
	}
	return c.resolver.resolve(kind, node, implicit.PlainOK, c.path)
}

func defaultTagFor(kind Kind) string {
	switch kind {
	case SequenceNode:
		return tag2002Prefix + "seq"
	case MappingNode:
		return tag2002Prefix + "map"
	default:
		return tag2002Prefix + "str"
	}
}

// eventKind reports the Kind a node-start Event introduces, for
// recording in the Composer's ancestry path; AliasEvent has no fixed
// kind of its own here since its target node already carries a
// resolved tag and is never re-resolved through the path mechanism.
func eventKind(ev Event) Kind {
	switch ev.Type {
	case SequenceStartEvent:
		return SequenceNode
	case MappingStartEvent:
		return MappingNode
	case ScalarEvent:
		return ScalarNode
	default:
		return 0
	}
}
