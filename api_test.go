// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package yamlcore

import (
	"strings"
	"testing"
)

func TestRoundTripSimpleMapping(t *testing.T) {
	const src = "name: yamlcore\ncount: 3\nok: true\n"
	resolver := NewDefaultResolver()

	node, err := ComposeString(src, "test", resolver)
	if err != nil {
		t.Fatalf("ComposeString error: %v", err)
	}

	out, err := Dump(node, resolver)
	if err != nil {
		t.Fatalf("Dump error: %v", err)
	}

	node2, err := ComposeString(out, "roundtrip", resolver)
	if err != nil {
		t.Fatalf("re-composing dumped output failed: %v\noutput was:\n%s", err, out)
	}
	if len(node2.Content) != len(node.Content) {
		t.Fatalf("round trip changed mapping arity: got %d entries, want %d", len(node2.Content), len(node.Content))
	}
	for i := range node.Content {
		if node.Content[i].Value != node2.Content[i].Value {
			t.Fatalf("entry %d: got %q, want %q", i, node2.Content[i].Value, node.Content[i].Value)
		}
	}
}

func TestRoundTripNestedSequence(t *testing.T) {
	const src = "items:\n  - one\n  - two\n  - three\n"
	resolver := NewDefaultResolver()

	node, err := ComposeString(src, "test", resolver)
	if err != nil {
		t.Fatalf("ComposeString error: %v", err)
	}
	out, err := Dump(node, resolver)
	if err != nil {
		t.Fatalf("Dump error: %v", err)
	}
	if !strings.Contains(out, "one") || !strings.Contains(out, "three") {
		t.Fatalf("dumped output missing expected scalars: %q", out)
	}
}

func TestComposeAllMultiDocument(t *testing.T) {
	const src = "---\na: 1\n---\nb: 2\n"
	docs, err := ComposeAll(strings.NewReader(src), "test", NewDefaultResolver())
	if err != nil {
		t.Fatalf("ComposeAll error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
}
