// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package yamlcore

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func composeOne(t *testing.T, src string) *Node {
	t.Helper()
	node, err := ComposeString(src, "test", NewDefaultResolver())
	if err != nil {
		t.Fatalf("ComposeString(%q) error: %v", src, err)
	}
	return node
}

func TestComposeScalar(t *testing.T) {
	node := composeOne(t, "42\n")
	if node.Kind != ScalarNode {
		t.Fatalf("kind = %v, want ScalarNode", node.Kind)
	}
	if node.Tag != tag2002Prefix+"int" {
		t.Fatalf("tag = %q, want int", node.Tag)
	}
}

func TestComposeMappingFlattened(t *testing.T) {
	node := composeOne(t, "a: 1\nb: 2\n")
	if node.Kind != MappingNode {
		t.Fatalf("kind = %v, want MappingNode", node.Kind)
	}
	if len(node.Content) != 4 {
		t.Fatalf("got %d content entries, want 4 (2 key/value pairs)", len(node.Content))
	}
	gotKeys := []string{node.Content[0].Value, node.Content[2].Value}
	wantKeys := []string{"a", "b"}
	if diff := cmp.Diff(wantKeys, gotKeys); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeDuplicateKeyIsError(t *testing.T) {
	_, err := ComposeString("a: 1\na: 2\n", "test", NewDefaultResolver())
	if err == nil {
		t.Fatal("expected a duplicate-key error, got none")
	}
	if _, ok := err.(*ComposerError); !ok {
		t.Fatalf("got error of type %T, want *ComposerError", err)
	}
}

func TestComposeAliasSharesPointer(t *testing.T) {
	node := composeOne(t, "a: &x {k: 1}\nb: *x\n")
	first := node.Content[1]
	second := node.Content[3]
	if first != second {
		t.Fatalf("alias did not resolve to the same *Node pointer as its anchor")
	}
}

func TestComposeUndefinedAliasIsError(t *testing.T) {
	_, err := ComposeString("a: *missing\n", "test", NewDefaultResolver())
	if err == nil {
		t.Fatal("expected an undefined-alias error, got none")
	}
}

func TestComposeRecursiveAliasIsError(t *testing.T) {
	// An alias nested inside its own anchor's subtree refers to a node
	// that is still being built; spec.md §3 invariant 4 and §8(c)
	// require this to be rejected rather than form a pointer cycle.
	_, err := ComposeString("- &a [1, *a]\n", "test", NewDefaultResolver())
	if err == nil {
		t.Fatal("expected a recursive-anchor error, got none")
	}
	ce, ok := err.(*ComposerError)
	if !ok {
		t.Fatalf("got error of type %T, want *ComposerError", err)
	}
	if ce.Message != "found recursive anchor 'a'" {
		t.Fatalf("Message = %q, want %q", ce.Message, "found recursive anchor 'a'")
	}
}
