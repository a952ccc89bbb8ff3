// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package yamlcore

// TokenType identifies the kind of a scanned Token.
type TokenType int

// Token types, in the order the Scanner's dispatch table considers them.
const (
	NoToken TokenType = iota

	StreamStartToken
	StreamEndToken

	VersionDirectiveToken
	TagDirectiveToken
	DocumentStartToken
	DocumentEndToken

	BlockSequenceStartToken
	BlockMappingStartToken
	BlockEndToken

	FlowSequenceStartToken
	FlowSequenceEndToken
	FlowMappingStartToken
	FlowMappingEndToken

	BlockEntryToken
	FlowEntryToken
	KeyToken
	ValueToken

	AliasToken
	AnchorToken
	TagToken
	ScalarToken
)

func (t TokenType) String() string {
	switch t {
	case NoToken:
		return "NO_TOKEN"
	case StreamStartToken:
		return "STREAM_START"
	case StreamEndToken:
		return "STREAM_END"
	case VersionDirectiveToken:
		return "VERSION_DIRECTIVE"
	case TagDirectiveToken:
		return "TAG_DIRECTIVE"
	case DocumentStartToken:
		return "DOCUMENT_START"
	case DocumentEndToken:
		return "DOCUMENT_END"
	case BlockSequenceStartToken:
		return "BLOCK_SEQUENCE_START"
	case BlockMappingStartToken:
		return "BLOCK_MAPPING_START"
	case BlockEndToken:
		return "BLOCK_END"
	case FlowSequenceStartToken:
		return "FLOW_SEQUENCE_START"
	case FlowSequenceEndToken:
		return "FLOW_SEQUENCE_END"
	case FlowMappingStartToken:
		return "FLOW_MAPPING_START"
	case FlowMappingEndToken:
		return "FLOW_MAPPING_END"
	case BlockEntryToken:
		return "BLOCK_ENTRY"
	case FlowEntryToken:
		return "FLOW_ENTRY"
	case KeyToken:
		return "KEY"
	case ValueToken:
		return "VALUE"
	case AliasToken:
		return "ALIAS"
	case AnchorToken:
		return "ANCHOR"
	case TagToken:
		return "TAG"
	case ScalarToken:
		return "SCALAR"
	default:
		return "<unknown token>"
	}
}

// ScalarStyle records how a scalar was written (or how the Emitter should
// write it).
type ScalarStyle int8

const (
	AnyScalarStyle ScalarStyle = iota
	PlainScalarStyle
	SingleQuotedScalarStyle
	DoubleQuotedScalarStyle
	LiteralScalarStyle
	FoldedScalarStyle
)

func (s ScalarStyle) String() string {
	switch s {
	case PlainScalarStyle:
		return "plain"
	case SingleQuotedScalarStyle:
		return "single-quoted"
	case DoubleQuotedScalarStyle:
		return "double-quoted"
	case LiteralScalarStyle:
		return "literal"
	case FoldedScalarStyle:
		return "folded"
	default:
		return "any"
	}
}

// ChompingStyle records the trailing-newline policy on a block scalar.
type ChompingStyle int8

const (
	ClipChomping  ChompingStyle = iota // default: keep exactly one trailing newline
	StripChomping                      // '-': remove all trailing newlines
	KeepChomping                       // '+': keep every trailing newline
)

// Token is one lexical unit produced by the Scanner.
type Token struct {
	Type               TokenType
	StartMark, EndMark Mark

	// Encoding, for StreamStartToken.
	Encoding Encoding

	// Value holds the alias/anchor/scalar text, or a tag directive
	// handle, depending on Type.
	Value string

	// TagHandle/TagSuffix hold the two halves of a TagToken.
	TagHandle string
	TagSuffix string

	// TagDirective prefix, for TagDirectiveToken (Value holds the handle).
	Prefix string

	// Style, for ScalarToken.
	Style ScalarStyle

	// VersionMajor/VersionMinor, for VersionDirectiveToken.
	VersionMajor, VersionMinor int
}
