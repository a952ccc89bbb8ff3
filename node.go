// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package yamlcore

// Kind identifies what a Node represents.
type Kind uint8

const (
	ScalarNode Kind = iota + 1
	SequenceNode
	MappingNode
)

func (k Kind) String() string {
	switch k {
	case ScalarNode:
		return "scalar"
	case SequenceNode:
		return "sequence"
	case MappingNode:
		return "mapping"
	default:
		return "unknown"
	}
}

// Style is a bitmask of presentation hints carried by a Node into the
// Serializer/Emitter. A zero Style is written as a plain scalar or a
// block collection (a flow collection when the DefaultFlow or Canonical
// option is set).
type Style uint32

const (
	TaggedStyle Style = 1 << iota
	SingleQuotedStyle
	DoubleQuotedStyle
	LiteralStyle
	FoldedStyle
	FlowStyle
)

// Node is the Composer's output and the Serializer's input: a directed
// graph of tagged values. Collections hold their children flattened in
// Content (mappings as alternating key, value, key, value, ...) so that
// identity-based walks (duplicate-key checks, anchor visit counts) share
// one iteration shape across Kinds.
//
// After composition every reachable Node has a non-empty Tag (spec.md
// invariant 1). An alias is resolved in place: the Node it refers to is
// spliced into Content by pointer, so two positions in the graph can
// share one *Node -- but only once that Node is fully built. An alias
// nested inside its own anchor's subtree is a recursive anchor and is
// rejected by the Composer rather than allowed to form a cycle.
type Node struct {
	Kind  Kind
	Tag   string
	Value string // scalar text; empty for collections
	Style Style

	Content []*Node // SequenceNode/MappingNode children, flattened

	Anchor string // the anchor name this node was defined under, if any

	StartMark, EndMark Mark
}

// IsZero reports whether the node is the zero value (no Kind set).
func (n *Node) IsZero() bool {
	return n == nil || (n.Kind == 0 && n.Tag == "" && n.Value == "" && n.Anchor == "" && n.Content == nil)
}

// ShortTag returns the Node's tag in its "!!name" shorthand when it is
// one of the well-known tag:yaml.org,2002:* tags, and the tag unchanged
// otherwise.
func (n *Node) ShortTag() string {
	return shortTag(n.Tag)
}

const tag2002Prefix = "tag:yaml.org,2002:"

func shortTag(tag string) string {
	if len(tag) > len(tag2002Prefix) && tag[:len(tag2002Prefix)] == tag2002Prefix {
		return "!!" + tag[len(tag2002Prefix):]
	}
	return tag
}

func longTag(tag string) string {
	if len(tag) > 2 && tag[:2] == "!!" {
		return tag2002Prefix + tag[2:]
	}
	return tag
}
