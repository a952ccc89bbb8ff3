// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package yamlcore

import "fmt"

// Mark is a position in an input stream: a byte/rune index plus the
// 1-indexed line and column it falls on. It is attached to every token,
// event, and node so diagnostics can point at byte-accurate spans.
type Mark struct {
	Index  int // absolute index into the decoded character stream
	Line   int // 1-indexed line
	Column int // 0-indexed column; String displays it 1-indexed
}

// String renders the mark the way the rest of the pipeline's error
// messages expect: "line N, column M", or just "line N" when the mark
// sits at column 0.
func (m Mark) String() string {
	if m.Line == 0 {
		return "<unknown position>"
	}
	if m.Column == 0 {
		return fmt.Sprintf("line %d", m.Line)
	}
	return fmt.Sprintf("line %d, column %d", m.Line, m.Column+1)
}
