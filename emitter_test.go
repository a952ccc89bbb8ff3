// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package yamlcore

import (
	"bytes"
	"strings"
	"testing"
)

func TestEmitterPlainScalarDocument(t *testing.T) {
	var buf bytes.Buffer
	events := []Event{
		{Type: StreamStartEvent, Encoding: UTF8Encoding},
		{Type: DocumentStartEvent},
		{Type: ScalarEvent, Value: "hello", Implicit: Implicit{PlainOK: true}},
		{Type: DocumentEndEvent},
		{Type: StreamEndEvent},
	}
	if err := Emit(&buf, events); err != nil {
		t.Fatalf("Emit error: %v", err)
	}
	if got := strings.TrimRight(buf.String(), "\n"); got != "hello" {
		t.Fatalf("output = %q, want %q", got, "hello")
	}
}

func TestEmitterBlockSequence(t *testing.T) {
	var buf bytes.Buffer
	events := []Event{
		{Type: StreamStartEvent},
		{Type: DocumentStartEvent},
		{Type: SequenceStartEvent, Implicit: Implicit{PlainOK: true}},
		{Type: ScalarEvent, Value: "a", Implicit: Implicit{PlainOK: true}},
		{Type: ScalarEvent, Value: "b", Implicit: Implicit{PlainOK: true}},
		{Type: SequenceEndEvent},
		{Type: DocumentEndEvent},
		{Type: StreamEndEvent},
	}
	if err := Emit(&buf, events); err != nil {
		t.Fatalf("Emit error: %v", err)
	}
	want := "- a\n- b\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestEmitterFlowMapping(t *testing.T) {
	var buf bytes.Buffer
	events := []Event{
		{Type: StreamStartEvent},
		{Type: DocumentStartEvent},
		{Type: MappingStartEvent, Implicit: Implicit{PlainOK: true}, Flow: true},
		{Type: ScalarEvent, Value: "a", Implicit: Implicit{PlainOK: true}},
		{Type: ScalarEvent, Value: "1", Implicit: Implicit{PlainOK: true}},
		{Type: MappingEndEvent},
		{Type: DocumentEndEvent},
		{Type: StreamEndEvent},
	}
	if err := Emit(&buf, events); err != nil {
		t.Fatalf("Emit error: %v", err)
	}
	if !strings.Contains(buf.String(), "{") || !strings.Contains(buf.String(), "}") {
		t.Fatalf("output %q does not look like flow mapping", buf.String())
	}
}

func TestEmitterFoldedScalarRoundTrips(t *testing.T) {
	value := "para one\n\npara two\n"
	var buf bytes.Buffer
	events := []Event{
		{Type: StreamStartEvent},
		{Type: DocumentStartEvent},
		{Type: ScalarEvent, Value: value, Style: FoldedScalarStyle},
		{Type: DocumentEndEvent},
		{Type: StreamEndEvent},
	}
	if err := Emit(&buf, events); err != nil {
		t.Fatalf("Emit error: %v", err)
	}
	if !strings.HasPrefix(strings.TrimLeft(buf.String(), " "), ">") {
		t.Fatalf("output %q does not open with a folded-scalar indicator", buf.String())
	}

	node, err := ComposeString(buf.String(), "test", NewDefaultResolver())
	if err != nil {
		t.Fatalf("ComposeString error: %v\noutput was:\n%s", err, buf.String())
	}
	if node.Value != value {
		t.Fatalf("round-tripped value = %q, want %q\noutput was:\n%s", node.Value, value, buf.String())
	}
}

func TestIsPlainSafeRejectsAmbiguousScalars(t *testing.T) {
	cases := map[string]bool{
		"hello":   true,
		"":        true, // handled separately by chooseScalarStyle
		"a: b":    false,
		"- item":  false,
		"  lead":  false,
		"trail  ": false,
	}
	for v, want := range cases {
		if v == "" {
			continue
		}
		if got := isPlainSafe(v); got != want {
			t.Errorf("isPlainSafe(%q) = %v, want %v", v, got, want)
		}
	}
}
