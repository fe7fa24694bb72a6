// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package codewriter accumulates indented source lines for brace-delimited
// languages.
//
// A Writer is filled by a single emission pass and then finished; after
// [Writer.Finish] every write panics.
package codewriter

import (
	"bytes"
	"fmt"
	"strings"
)

// DefaultIndent is one level of indentation.
const DefaultIndent = "    "

// Writer is an ordered, indentation-aware line buffer.
type Writer struct {
	buf      bytes.Buffer
	unit     string
	depth    int
	last     string
	finished bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithIndent sets the string written once per indentation level.
func WithIndent(unit string) Option {
	return func(w *Writer) { w.unit = unit }
}

// New returns an empty Writer.
func New(opts ...Option) *Writer {
	w := &Writer{unit: DefaultIndent}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Writer) check() {
	if w.finished {
		panic("codewriter: write after Finish")
	}
}

// Line writes s at the current depth. Each line of a multi-line s is
// indented; empty lines stay empty.
func (w *Writer) Line(s string) {
	w.check()
	for line := range strings.SplitSeq(s, "\n") {
		if line != "" {
			w.buf.WriteString(strings.Repeat(w.unit, w.depth))
			w.buf.WriteString(line)
		}
		w.buf.WriteByte('\n')
		w.last = line
	}
}

// Linef formats and writes one line.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Blank writes an empty line.
func (w *Writer) Blank() {
	w.Line("")
}

// Indent increases the depth by one level.
func (w *Writer) Indent() {
	w.check()
	w.depth++
}

// Dedent decreases the depth by one level.
func (w *Writer) Dedent() {
	w.check()
	if w.depth == 0 {
		panic("codewriter: dedent below zero")
	}
	w.depth--
}

// Block writes header followed by an opening brace, runs body one level
// deeper and closes the brace.
func (w *Writer) Block(header string, body func()) {
	if header == "" {
		w.Line("{")
	} else {
		w.Line(header + " {")
	}
	w.Indent()
	if body != nil {
		body()
	}
	w.Dedent()
	w.Line("}")
}

// Comment writes text as line comments.
func (w *Writer) Comment(text string) {
	for line := range strings.SplitSeq(text, "\n") {
		if line == "" {
			w.Line("//")
			continue
		}
		w.Line("// " + line)
	}
}

// DocComment writes text as a documentation block. Empty text writes
// nothing.
func (w *Writer) DocComment(text string) {
	if text == "" {
		return
	}
	w.separate()
	w.Line("/**")
	for line := range strings.SplitSeq(text, "\n") {
		if line == "" {
			w.Line(" *")
			continue
		}
		w.Line(" * " + line)
	}
	w.Line(" */")
}

// Annotation writes an annotation line such as @Test.
func (w *Writer) Annotation(name string, args ...string) {
	w.separate()
	if len(args) == 0 {
		w.Line("@" + name)
		return
	}
	w.Line("@" + name + "(" + strings.Join(args, ", ") + ")")
}

// Class writes a type declaration block. Like Method, DocComment and
// Annotation it is separated from a preceding member by a blank line.
func (w *Writer) Class(header string, body func()) {
	w.separate()
	w.Block(header, body)
}

// Method writes a method block, separated from preceding members by a
// blank line.
func (w *Writer) Method(header string, body func()) {
	w.separate()
	w.Block(header, body)
}

// separate writes a blank line unless the previous line is blank, opens a
// block, or belongs to the declaration that follows (annotations and
// comments).
func (w *Writer) separate() {
	last := strings.TrimSpace(w.last)
	switch {
	case w.buf.Len() == 0, last == "", strings.HasSuffix(last, "{"),
		strings.HasPrefix(last, "@"), strings.HasSuffix(last, "*/"), strings.HasPrefix(last, "//"):
		return
	}
	w.Blank()
}

// Depth returns the current indentation depth.
func (w *Writer) Depth() int {
	return w.depth
}

// Finish makes the writer read-only and returns its content.
func (w *Writer) Finish() []byte {
	w.finished = true
	return w.buf.Bytes()
}

// Finished reports whether Finish was called.
func (w *Writer) Finished() bool {
	return w.finished
}

// String returns the content written so far.
func (w *Writer) String() string {
	return w.buf.String()
}

// Bytes returns the content written so far.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}
