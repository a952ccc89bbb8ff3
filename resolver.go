// Copyright 2006-2010 Kirill Simonov
// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Resolver: implicit-tag inference for untagged scalars, grounded on
// PyYAML's resolver.py (BaseResolver/Resolver) and spec.md §4.5. Kept as
// its own pluggable type, not a set of package-level globals, so a
// caller can register a stripped-down Core or JSON schema alongside the
// full YAML 1.1 default without the two interfering.

package yamlcore

import "regexp"

const (
	DefaultScalarTag   = tag2002Prefix + "str"
	DefaultSequenceTag = tag2002Prefix + "seq"
	DefaultMappingTag  = tag2002Prefix + "map"
)

type implicitResolver struct {
	tag        string
	pattern    *regexp.Regexp
	firstChars string
}

// PathStep is one hop of a path-based resolver's ancestry match:
// Key/Index identify which child of a mapping/sequence to descend into
// ("" / -1 meaning "any"), and Kind optionally restricts the kind of
// the node reached by that hop (zero meaning "any"). A step built with
// Key == "" and Index == -1 is a pure wildcard, matching any single
// hop regardless of whether it descended through a mapping key or a
// sequence index.
type PathStep struct {
	Key   string
	Index int
	Kind  Kind
}

type pathResolver struct {
	tag  string
	path []PathStep
	kind Kind
}

// Resolver infers tags for untagged scalars (and, via path resolvers,
// for untagged collections at specific graph locations).
type Resolver struct {
	implicitByChar map[rune][]implicitResolver
	paths          []pathResolver
}

// NewResolver builds an empty Resolver with no rules registered.
func NewResolver() *Resolver {
	return &Resolver{implicitByChar: map[rune][]implicitResolver{}}
}

// AddImplicitResolver registers tag as the inferred tag for any plain
// scalar matching pattern, indexed by the set of characters the scalar
// may start with (mirrors PyYAML's add_implicit_resolver first-character
// dispatch table, which keeps resolution to O(1) average instead of
// trying every regex against every scalar).
func (r *Resolver) AddImplicitResolver(tag string, pattern *regexp.Regexp, firstChars string) {
	ir := implicitResolver{tag: tag, pattern: pattern, firstChars: firstChars}
	if firstChars == "" {
		r.implicitByChar[0] = append(r.implicitByChar[0], ir)
		return
	}
	for _, ch := range firstChars {
		r.implicitByChar[ch] = append(r.implicitByChar[ch], ir)
	}
}

// AddPathResolver registers tag as the default for an untagged node of
// the given kind (0 for "any kind") reached by following path from the
// document root. Matching is exact-length: path must account for
// every hop from the root to the target node, with wildcard PathSteps
// (see PathStep) standing in for "any key/index/kind" at that hop.
func (r *Resolver) AddPathResolver(tag string, path []PathStep, kind Kind) {
	r.paths = append(r.paths, pathResolver{tag: tag, path: path, kind: kind})
}

// resolvePath reports the tag of the first registered path resolver
// whose pattern matches the ancestry path leading to a node of the
// given kind, mirroring PyYAML's descend_resolver/check_resolver_prefix
// exact-match case (full prefix-growth matching, where a rule may also
// fire while still partway down the tree, is not implemented here;
// every registered path must name its whole route from the root).
func (r *Resolver) resolvePath(path []PathStep, kind Kind) (string, bool) {
	for _, pr := range r.paths {
		if pr.kind != 0 && pr.kind != kind {
			continue
		}
		if len(pr.path) != len(path) {
			continue
		}
		matched := true
		for i, rule := range pr.path {
			if !pathStepMatches(rule, path[i]) {
				matched = false
				break
			}
		}
		if matched {
			return pr.tag, true
		}
	}
	return "", false
}

func pathStepMatches(rule, actual PathStep) bool {
	if rule.Key != "" && rule.Key != actual.Key {
		return false
	}
	if rule.Index != -1 && rule.Index != actual.Index {
		return false
	}
	if rule.Kind != 0 && rule.Kind != actual.Kind {
		return false
	}
	return true
}

// resolve infers node's tag, trying the implicit-scalar table first (for
// plain scalars only), then any registered path resolver matching path,
// then falling back to the default tag for kind -- the same precedence
// as the original implementation's BaseResolver.resolve.
func (r *Resolver) resolve(kind Kind, node *Node, plain bool, path []PathStep) string {
	if kind == ScalarNode && plain {
		if tag, ok := r.detectScalar(node.Value); ok {
			return tag
		}
	}
	if tag, ok := r.resolvePath(path, kind); ok {
		return tag
	}
	return defaultTagFor(kind)
}

func (r *Resolver) detectScalar(value string) (string, bool) {
	var first rune
	for _, ch := range value {
		first = ch
		break
	}
	candidates := r.implicitByChar[first]
	if value == "" {
		candidates = r.implicitByChar[0]
	}
	for _, ir := range candidates {
		if ir.pattern.MatchString(value) {
			return ir.tag, true
		}
	}
	return "", false
}

// NewDefaultResolver returns a Resolver pre-loaded with YAML 1.1's core
// implicit-typing rules (bool/int/float/null/merge/timestamp/value),
// matching PyYAML's Resolver subclass defaults.
func NewDefaultResolver() *Resolver {
	r := NewResolver()
	for _, rule := range yaml11ImplicitRules {
		r.AddImplicitResolver(rule.tag, regexp.MustCompile(rule.pattern), rule.firstChars)
	}
	return r
}

// NewCoreResolver returns a Resolver implementing the stricter "Core
// schema" subset (bool/int/float/null only, YAML 1.2-flavored literals).
func NewCoreResolver() *Resolver {
	r := NewResolver()
	for _, rule := range coreImplicitRules {
		r.AddImplicitResolver(rule.tag, regexp.MustCompile(rule.pattern), rule.firstChars)
	}
	return r
}

// NewJSONResolver returns a Resolver that only infers JSON's scalar
// types, leaving every other plain scalar as a string.
func NewJSONResolver() *Resolver {
	r := NewResolver()
	for _, rule := range jsonImplicitRules {
		r.AddImplicitResolver(rule.tag, regexp.MustCompile(rule.pattern), rule.firstChars)
	}
	return r
}

type implicitRule struct {
	tag        string
	pattern    string
	firstChars string
}

var yaml11ImplicitRules = []implicitRule{
	{tag2002Prefix + "bool", `^(?:yes|Yes|YES|no|No|NO|true|True|TRUE|false|False|FALSE|on|On|ON|off|Off|OFF)$`, "yYnNtTfFoO"},
	{tag2002Prefix + "float", `^(?:[-+]?(?:[0-9][0-9_]*)\.[0-9_]*(?:[eE][-+]?[0-9]+)?|\.[0-9][0-9_]*(?:[eE][-+]?[0-9]+)?|[-+]?[0-9][0-9_]*(?::[0-5]?[0-9])+\.[0-9_]*|[-+]?\.(?:inf|Inf|INF)|\.(?:nan|NaN|NAN))$`, "-+0123456789."},
	{tag2002Prefix + "int", `^(?:[-+]?0b[0-1_]+|[-+]?0[0-7_]+|[-+]?(?:0|[1-9][0-9_]*)|[-+]?0x[0-9a-fA-F_]+|[-+]?[1-9][0-9_]*(?::[0-5]?[0-9])+)$`, "-+0123456789"},
	{tag2002Prefix + "merge", `^(?:<<)$`, "<"},
	{tag2002Prefix + "null", `^(?:~|null|Null|NULL|)$`, "~nN\x00"},
	{tag2002Prefix + "timestamp", `^(?:[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]|[0-9][0-9][0-9][0-9]-[0-9][0-9]?-[0-9][0-9]?(?:[Tt]|[ \t]+)[0-9][0-9]?:[0-9][0-9]:[0-9][0-9](?:\.[0-9]*)?(?:[ \t]*(?:Z|[-+][0-9][0-9]?(?::[0-9][0-9])?))?)$`, "0123456789"},
	{tag2002Prefix + "value", `^(?:=)$`, "="},
}

var coreImplicitRules = []implicitRule{
	{tag2002Prefix + "bool", `^(?:true|True|TRUE|false|False|FALSE)$`, "tTfF"},
	{tag2002Prefix + "null", `^(?:~|null|Null|NULL|)$`, "~nN\x00"},
	{tag2002Prefix + "int", `^(?:[-+]?[0-9]+|0x[0-9a-fA-F]+|0o[0-7]+)$`, "-+0123456789"},
	{tag2002Prefix + "float", `^(?:[-+]?(?:\.[0-9]+|[0-9]+(?:\.[0-9]*)?)(?:[eE][-+]?[0-9]+)?|[-+]?\.inf|\.nan)$`, "-+0123456789."},
}

var jsonImplicitRules = []implicitRule{
	{tag2002Prefix + "bool", `^(?:true|false)$`, "tf"},
	{tag2002Prefix + "null", `^null$`, "n"},
	{tag2002Prefix + "int", `^-?(?:0|[1-9][0-9]*)$`, "-0123456789"},
	{tag2002Prefix + "float", `^-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][-+]?[0-9]+)?$`, "-0123456789"},
}
