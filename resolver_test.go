// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package yamlcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultResolverDetectsScalarTypes(t *testing.T) {
	r := NewDefaultResolver()
	cases := []struct {
		value string
		tag   string
	}{
		{"true", tag2002Prefix + "bool"},
		{"Yes", tag2002Prefix + "bool"},
		{"42", tag2002Prefix + "int"},
		{"-0x1A", tag2002Prefix + "int"},
		{"3.14", tag2002Prefix + "float"},
		{".inf", tag2002Prefix + "float"},
		{"~", tag2002Prefix + "null"},
		{"", tag2002Prefix + "null"},
		{"2026-07-31", tag2002Prefix + "timestamp"},
		{"<<", tag2002Prefix + "merge"},
		{"hello world", ""},
	}
	for _, c := range cases {
		tag, ok := r.detectScalar(c.value)
		if c.tag == "" {
			if ok {
				t.Errorf("detectScalar(%q) = %q, want no match", c.value, tag)
			}
			continue
		}
		if !ok || tag != c.tag {
			t.Errorf("detectScalar(%q) = (%q, %v), want %q", c.value, tag, ok, c.tag)
		}
	}
}

func TestJSONResolverIsStricterThanDefault(t *testing.T) {
	r := NewJSONResolver()
	_, ok := r.detectScalar("Yes")
	require.False(t, ok, "JSON resolver should not treat \"Yes\" as a bool")

	tag, ok := r.detectScalar("true")
	require.True(t, ok)
	require.Equal(t, tag2002Prefix+"bool", tag)

	_, ok = r.detectScalar("01")
	require.False(t, ok, "JSON resolver should not accept a leading-zero integer")
}

func TestPathResolverRegistration(t *testing.T) {
	r := NewResolver()
	r.AddPathResolver("!custom", []PathStep{{Key: "kind", Index: -1}}, ScalarNode)
	if len(r.paths) != 1 || r.paths[0].tag != "!custom" {
		t.Fatalf("path resolver was not registered as expected: %+v", r.paths)
	}
}

func TestPathResolverAssignsTagToMatchingNode(t *testing.T) {
	r := NewResolver()
	r.AddPathResolver("!custom", []PathStep{{Key: "kind", Index: -1}}, ScalarNode)

	node, err := ComposeString("kind: Pod\nname: demo\n", "test", r)
	if err != nil {
		t.Fatalf("ComposeString error: %v", err)
	}
	if len(node.Content) != 4 {
		t.Fatalf("got %d content entries, want 4 (2 key/value pairs)", len(node.Content))
	}

	kindValue, nameValue := node.Content[1], node.Content[3]
	if kindValue.Tag != "!custom" {
		t.Fatalf("kind: value Tag = %q, want %q", kindValue.Tag, "!custom")
	}
	if nameValue.Tag != DefaultScalarTag {
		t.Fatalf("name: value Tag = %q, want the untouched default scalar tag %q", nameValue.Tag, DefaultScalarTag)
	}
}
