// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package yamlcore

import (
	"strings"
	"testing"
)

func tokenTypes(t *testing.T, src string) []TokenType {
	t.Helper()
	toks, err := Scan(strings.NewReader(src), "test")
	if err != nil {
		t.Fatalf("Scan(%q) error: %v", src, err)
	}
	var types []TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	return types
}

func TestScannerSimpleMapping(t *testing.T) {
	got := tokenTypes(t, "a: 1\nb: 2\n")
	want := []TokenType{
		StreamStartToken,
		BlockMappingStartToken,
		KeyToken, ScalarToken, ValueToken, ScalarToken,
		KeyToken, ScalarToken, ValueToken, ScalarToken,
		BlockEndToken,
		StreamEndToken,
	}
	assertTokenTypes(t, got, want)
}

func TestScannerBlockSequence(t *testing.T) {
	got := tokenTypes(t, "- 1\n- 2\n")
	want := []TokenType{
		StreamStartToken,
		BlockSequenceStartToken,
		BlockEntryToken, ScalarToken,
		BlockEntryToken, ScalarToken,
		BlockEndToken,
		StreamEndToken,
	}
	assertTokenTypes(t, got, want)
}

func TestScannerFlowMapping(t *testing.T) {
	got := tokenTypes(t, "{a: 1, b: 2}\n")
	want := []TokenType{
		StreamStartToken,
		FlowMappingStartToken,
		KeyToken, ScalarToken, ValueToken, ScalarToken, FlowEntryToken,
		KeyToken, ScalarToken, ValueToken, ScalarToken,
		FlowMappingEndToken,
		StreamEndToken,
	}
	assertTokenTypes(t, got, want)
}

func TestScannerAnchorAndAlias(t *testing.T) {
	got := tokenTypes(t, "a: &x 1\nb: *x\n")
	want := []TokenType{
		StreamStartToken,
		BlockMappingStartToken,
		KeyToken, ScalarToken, ValueToken, AnchorToken, ScalarToken,
		KeyToken, ScalarToken, ValueToken, AliasToken,
		BlockEndToken,
		StreamEndToken,
	}
	assertTokenTypes(t, got, want)
}

func TestScannerLiteralBlockScalarChomping(t *testing.T) {
	toks, err := Scan(strings.NewReader("a: |\n  line one\n  line two\n"), "test")
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	var scalarVals []string
	for _, tok := range toks {
		if tok.Type == ScalarToken && tok.Style == LiteralScalarStyle {
			scalarVals = append(scalarVals, tok.Value)
		}
	}
	if len(scalarVals) != 1 {
		t.Fatalf("got %d literal scalars, want 1", len(scalarVals))
	}
	want := "line one\nline two\n"
	if scalarVals[0] != want {
		t.Fatalf("literal scalar = %q, want %q", scalarVals[0], want)
	}
}

func assertTokenTypes(t *testing.T, got, want []TokenType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d tokens %v", len(got), got, len(want), want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v (full: got=%v want=%v)", i, got[i], want[i], got, want)
		}
	}
}
