// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package yamlcore

import (
	"io"
	"strings"
	"testing"
)

func parseAll(t *testing.T, src string) []Event {
	t.Helper()
	p := NewParser(NewScanner(NewReader(strings.NewReader(src), "test")))
	var events []Event
	for {
		ev, err := p.Parse()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", src, err)
		}
		events = append(events, ev)
	}
}

func eventTypes(evs []Event) []EventType {
	var types []EventType
	for _, ev := range evs {
		types = append(types, ev.Type)
	}
	return types
}

func TestParserScalarDocument(t *testing.T) {
	evs := parseAll(t, "hello\n")
	got := eventTypes(evs)
	want := []EventType{StreamStartEvent, DocumentStartEvent, ScalarEvent, DocumentEndEvent, StreamEndEvent}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("event %d: got %v, want %v", i, got[i], want[i])
		}
	}
	var scalar Event
	for _, ev := range evs {
		if ev.Type == ScalarEvent {
			scalar = ev
		}
	}
	if scalar.Value != "hello" || !scalar.Implicit.PlainOK {
		t.Fatalf("scalar event = %+v, want value=hello implicit.PlainOK=true", scalar)
	}
}

func TestParserNestedMapping(t *testing.T) {
	evs := parseAll(t, "a:\n  b: 1\n")
	got := eventTypes(evs)
	want := []EventType{
		StreamStartEvent, DocumentStartEvent,
		MappingStartEvent,
		ScalarEvent, // a
		MappingStartEvent,
		ScalarEvent, ScalarEvent, // b, 1
		MappingEndEvent,
		MappingEndEvent,
		DocumentEndEvent, StreamEndEvent,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v (%d), want %v (%d)", got, len(got), want, len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("event %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParserMultiDocumentStream(t *testing.T) {
	p := NewParser(NewScanner(NewReader(strings.NewReader("---\na\n---\nb\n"), "test")))
	var starts int
	for {
		ev, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if ev.Type == DocumentStartEvent {
			starts++
		}
	}
	if starts != 2 {
		t.Fatalf("got %d document starts, want 2", starts)
	}
}

func TestParserUndefinedTagHandleIsError(t *testing.T) {
	p := NewParser(NewScanner(NewReader(strings.NewReader("!q!foo bar\n"), "test")))
	for {
		_, err := p.Parse()
		if err == io.EOF {
			t.Fatal("expected an error for an undefined tag handle, got none")
		}
		if err != nil {
			if _, ok := err.(*ParserError); !ok {
				t.Fatalf("got error of type %T, want *ParserError", err)
			}
			return
		}
	}
}
