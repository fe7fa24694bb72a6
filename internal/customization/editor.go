// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package customization

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"

	"github.com/albertocavalcante/clientgen/internal/logging"
)

// File change types of workspace/didChangeWatchedFiles.
const (
	fileCreated = 1
	fileChanged = 2
	fileDeleted = 3
)

// ErrOverlappingEdits is returned when two edits of one document overlap.
var ErrOverlappingEdits = errors.New("customization: overlapping edits")

// Editor applies workspace edits to files on disk and remembers which files
// changed so the server can be told.
type Editor struct {
	log *zap.Logger

	mu     sync.Mutex
	events []protocol.FileEvent
}

// NewEditor returns an Editor.
func NewEditor(log *zap.Logger) *Editor {
	return &Editor{log: logging.OrNop(log).Named("editor")}
}

// documentChange is one entry of WorkspaceEdit.documentChanges: a text
// document edit or, when Kind is set, a resource operation.
type documentChange struct {
	Kind         string `json:"kind"`
	TextDocument struct {
		URI protocol.DocumentUri `json:"uri"`
	} `json:"textDocument"`
	Edits  []protocol.TextEdit  `json:"edits"`
	URI    protocol.DocumentUri `json:"uri"`
	OldURI protocol.DocumentUri `json:"oldUri"`
	NewURI protocol.DocumentUri `json:"newUri"`
}

// Apply applies edit. documentChanges, when present, take precedence over
// changes and run in order; changes run in URI order.
func (e *Editor) Apply(edit protocol.WorkspaceEdit) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(edit.DocumentChanges) > 0 {
		changes, err := documentChanges(edit)
		if err != nil {
			return err
		}
		for i, dc := range changes {
			if err := e.applyChange(dc); err != nil {
				return errors.Wrapf(err, "document change %d", i)
			}
		}
		return nil
	}

	uris := make([]string, 0, len(edit.Changes))
	for uri := range edit.Changes {
		uris = append(uris, string(uri))
	}
	sort.Strings(uris)
	for _, uri := range uris {
		if err := e.applyText(uri, edit.Changes[protocol.DocumentUri(uri)]); err != nil {
			return err
		}
	}
	return nil
}

// documentChanges decodes the untyped documentChanges entries.
func documentChanges(edit protocol.WorkspaceEdit) ([]documentChange, error) {
	out := make([]documentChange, len(edit.DocumentChanges))
	for i, raw := range edit.DocumentChanges {
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "document change %d", i)
		}
		if err := json.Unmarshal(data, &out[i]); err != nil {
			return nil, errors.Wrapf(err, "document change %d", i)
		}
	}
	return out, nil
}

func (e *Editor) applyChange(dc documentChange) error {
	switch dc.Kind {
	case "":
		return e.applyText(string(dc.TextDocument.URI), dc.Edits)
	case "create":
		path, err := URIPath(string(dc.URI))
		if err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil && !os.IsExist(err) {
			return errors.Wrap(err, "create")
		}
		if f != nil {
			f.Close()
			e.record(protocol.FileEvent{URI: dc.URI, Type: fileCreated})
		}
	case "rename":
		from, err := URIPath(string(dc.OldURI))
		if err != nil {
			return err
		}
		to, err := URIPath(string(dc.NewURI))
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
			return errors.Wrap(err, "rename")
		}
		if err := os.Rename(from, to); err != nil {
			return errors.Wrap(err, "rename")
		}
		e.log.Debug("renamed file", zap.String("from", from), zap.String("to", to))
		e.record(protocol.FileEvent{URI: dc.OldURI, Type: fileDeleted})
		e.record(protocol.FileEvent{URI: dc.NewURI, Type: fileCreated})
	case "delete":
		path, err := URIPath(string(dc.URI))
		if err != nil {
			return err
		}
		if err := os.RemoveAll(path); err != nil {
			return errors.Wrap(err, "delete")
		}
		e.record(protocol.FileEvent{URI: dc.URI, Type: fileDeleted})
	default:
		return errors.Newf("customization: unknown resource operation %q", dc.Kind)
	}
	return nil
}

func (e *Editor) applyText(uri string, edits []protocol.TextEdit) error {
	if len(edits) == 0 {
		return nil
	}
	path, err := URIPath(uri)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read document")
	}
	out, err := ApplyEdits(string(data), edits)
	if err != nil {
		return errors.Wrap(err, uri)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return errors.Wrap(err, "write document")
	}
	e.log.Debug("edited file", zap.String("path", path), zap.Int("edits", len(edits)))
	e.record(protocol.FileEvent{URI: protocol.DocumentUri(uri), Type: fileChanged})
	return nil
}

func (e *Editor) record(ev protocol.FileEvent) {
	e.events = append(e.events, ev)
}

// Drain returns and forgets the file events recorded since the last call.
func (e *Editor) Drain() []protocol.FileEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.events
	e.events = nil
	return out
}

// ApplyEdits applies text edits to content. Edits are applied bottom-up so
// earlier positions stay valid; edits inserting at the same position keep
// their given order.
func ApplyEdits(content string, edits []protocol.TextEdit) (string, error) {
	type span struct {
		start, end int
		text       string
		index      int
	}
	lines := lineStarts(content)
	spans := make([]span, len(edits))
	for i, ed := range edits {
		start := offset(content, lines, ed.Range.Start)
		end := offset(content, lines, ed.Range.End)
		if end < start {
			return "", errors.Newf("customization: edit %d ends before it starts", i)
		}
		spans[i] = span{start: start, end: end, text: ed.NewText, index: i}
	}
	slices.SortStableFunc(spans, func(a, b span) int {
		if a.start != b.start {
			return b.start - a.start
		}
		return b.index - a.index
	})

	out := content
	limit := len(content)
	for _, s := range spans {
		if s.end > limit {
			return "", errors.Wrapf(ErrOverlappingEdits, "edit %d", s.index)
		}
		out = out[:s.start] + s.text + out[s.end:]
		limit = s.start
	}
	return out, nil
}

func lineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offset converts an LSP position, whose character counts UTF-16 code
// units, to a byte offset. Positions past the end of a line clamp to it.
func offset(content string, lines []int, pos protocol.Position) int {
	if int(pos.Line) >= len(lines) {
		return len(content)
	}
	start := lines[pos.Line]
	end := len(content)
	if int(pos.Line)+1 < len(lines) {
		end = lines[pos.Line+1] - 1
	}
	line := strings.TrimSuffix(content[start:end], "\r")

	units := 0
	for i := 0; i < len(line); {
		if units >= int(pos.Character) {
			return start + i
		}
		r, size := utf8.DecodeRuneInString(line[i:])
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		units += n
		i += size
	}
	return start + len(line)
}

// PathURI returns the file URI of path.
func PathURI(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return protocol.DocumentUri((&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String())
}

// URIPath returns the file path of a file URI.
func URIPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", errors.Wrapf(err, "parse uri %q", uri)
	}
	if u.Scheme != "file" {
		return "", errors.Newf("customization: %q is not a file uri", uri)
	}
	return filepath.FromSlash(u.Path), nil
}
