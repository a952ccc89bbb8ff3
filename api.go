// Copyright 2025 The yamlcore Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Package yamlcore implements the YAML 1.1 processing pipeline described
// in the project specification: Reader, Scanner, Parser, Composer, and
// Resolver on the read side; Serializer and Emitter on the write side.
// It deliberately stops at the Node graph -- decoding a Node into a Go
// value, and encoding a Go value into a Node, are a separate concern
// this package does not cover.
package yamlcore

import (
	"bytes"
	"io"
)

// Scan tokenizes all of r and returns every Token, primarily useful for
// tests and tooling; production callers normally drive a Scanner
// directly through a Parser instead of buffering the whole stream.
func Scan(r io.Reader, name string) (toks []Token, err error) {
	defer recoverError(&err)
	sc := NewScanner(NewReader(r, name))
	for {
		tok := sc.getToken()
		toks = append(toks, tok)
		if tok.Type == StreamEndToken {
			return toks, nil
		}
	}
}

// Compose reads and composes a single document from r. It returns
// (nil, io.EOF) if the stream contains no documents.
func Compose(r io.Reader, name string, resolver *Resolver) (*Node, error) {
	p := NewParser(NewScanner(NewReader(r, name)))
	c := NewComposer(p, resolver)
	return c.ComposeDocument()
}

// ComposeAll reads and composes every document in r.
func ComposeAll(r io.Reader, name string, resolver *Resolver) ([]*Node, error) {
	p := NewParser(NewScanner(NewReader(r, name)))
	c := NewComposer(p, resolver)
	return c.ComposeAll()
}

// ComposeString is Compose over an already-decoded string, skipping
// encoding detection (mirrors Reader's NewReaderString entry point).
func ComposeString(s, name string, resolver *Resolver) (*Node, error) {
	p := NewParser(NewScanner(NewReaderString(s, name)))
	c := NewComposer(p, resolver)
	return c.ComposeDocument()
}

// Serialize writes node as a single YAML document to w.
func Serialize(w io.Writer, node *Node, resolver *Resolver, opts ...Option) (err error) {
	defer recoverError(&err)
	e := NewEmitter(w, opts...)
	s := NewSerializer(resolver, e.Emit)
	if err := e.Emit(Event{Type: StreamStartEvent, Encoding: UTF8Encoding}); err != nil {
		return err
	}
	if err := s.SerializeDocument(node, false, nil, nil); err != nil {
		return err
	}
	if err := e.Emit(Event{Type: StreamEndEvent}); err != nil {
		return err
	}
	return e.Flush()
}

// SerializeAll writes nodes as a multi-document YAML stream to w.
func SerializeAll(w io.Writer, nodes []*Node, resolver *Resolver, opts ...Option) (err error) {
	defer recoverError(&err)
	e := NewEmitter(w, opts...)
	s := NewSerializer(resolver, e.Emit)
	if err := s.SerializeStream(nodes); err != nil {
		return err
	}
	return e.Flush()
}

// Emit drives an Emitter directly from a caller-supplied Event sequence,
// for callers that build Events without going through a Node graph.
func Emit(w io.Writer, events []Event, opts ...Option) (err error) {
	defer recoverError(&err)
	e := NewEmitter(w, opts...)
	for _, ev := range events {
		if err := e.Emit(ev); err != nil {
			return err
		}
	}
	return e.Flush()
}

// Dump renders node as a YAML document and returns it as a string.
func Dump(node *Node, resolver *Resolver, opts ...Option) (string, error) {
	var buf bytes.Buffer
	if err := Serialize(&buf, node, resolver, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DumpAll renders nodes as a multi-document YAML stream and returns it
// as a string.
func DumpAll(nodes []*Node, resolver *Resolver, opts ...Option) (string, error) {
	var buf bytes.Buffer
	if err := SerializeAll(&buf, nodes, resolver, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}
