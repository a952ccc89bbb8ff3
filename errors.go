// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package yamlcore

import (
	"fmt"
	"strings"
)

// MarkedError is the shared shape behind every stage-local error type: a
// problem position, and an optional context position/message describing
// what the parser was doing when it ran into the problem.
type MarkedError struct {
	ContextMessage string
	ContextMark    Mark

	Message string
	Mark    Mark
}

func (e MarkedError) Error() string {
	var b strings.Builder
	b.WriteString("yamlcore: ")
	if len(e.ContextMessage) > 0 {
		fmt.Fprintf(&b, "%s at %s: ", e.ContextMessage, e.ContextMark)
	}
	if len(e.ContextMessage) == 0 || e.ContextMark != e.Mark {
		fmt.Fprintf(&b, "%s: ", e.Mark)
	}
	b.WriteString(e.Message)
	return b.String()
}

// ReaderError is raised by the Reader on an invalid encoding byte or a
// non-printable character.
type ReaderError struct {
	MarkedError
}

func (e *ReaderError) Error() string { return e.MarkedError.Error() }

// ScannerError is raised by the Scanner on a malformed token.
type ScannerError struct {
	MarkedError
}

func (e *ScannerError) Error() string { return e.MarkedError.Error() }

// ParserError is raised by the Parser when the token sequence violates the
// grammar.
type ParserError struct {
	MarkedError
}

func (e *ParserError) Error() string { return e.MarkedError.Error() }

// ComposerError is raised by the Composer for undefined, duplicate, or
// recursive anchors, and for duplicate mapping keys.
type ComposerError struct {
	MarkedError
}

func (e *ComposerError) Error() string { return e.MarkedError.Error() }

// ResolverError reports misuse of the Resolver's registration API. It is
// a construction-time error type; AddImplicitResolver and AddPathResolver
// do not validate their arguments, so no function in this package
// returns it.
type ResolverError struct {
	Message string
}

func (e *ResolverError) Error() string { return fmt.Sprintf("yamlcore: %s", e.Message) }

// EmitterError is raised by the Emitter for an Event of unknown type and
// for a duplicate %TAG directive within one document. The Emitter does
// not otherwise check the event sequence against the grammar.
type EmitterError struct {
	Message string
}

func (e *EmitterError) Error() string { return fmt.Sprintf("yamlcore: %s", e.Message) }

// SerializerError is raised when the Serializer meets a Node with no
// Kind set.
type SerializerError struct {
	Message string
}

func (e *SerializerError) Error() string { return fmt.Sprintf("yamlcore: %s", e.Message) }

// internalError is the panic payload used to unwind out of deeply
// recursive Parser/Composer/Serializer code back to the public API
// boundary, where it is recovered and surfaced as a regular error. Stages
// never let this escape across their own public methods.
type internalError struct {
	err error
}

func fail(err error) {
	panic(internalError{err})
}

func failf(format string, args ...any) {
	panic(internalError{fmt.Errorf(format, args...)})
}

// recoverError is deferred by every stage's public entry point; it
// converts an internalError panic into a returned error and re-panics
// anything else untouched.
func recoverError(errp *error) {
	if r := recover(); r != nil {
		if ie, ok := r.(internalError); ok {
			*errp = ie.err
			return
		}
		panic(r)
	}
}
