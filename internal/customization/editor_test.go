// SPDX-License-Identifier: MIT

package customization

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"
)

func edit(l1, c1, l2, c2 int, text string) protocol.TextEdit {
	return protocol.TextEdit{
		Range: protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(l1), Character: protocol.UInteger(c1)},
			End:   protocol.Position{Line: protocol.UInteger(l2), Character: protocol.UInteger(c2)},
		},
		NewText: text,
	}
}

func TestApplyEdits(t *testing.T) {
	tests := []struct {
		name    string
		content string
		edits   []protocol.TextEdit
		want    string
	}{
		{
			name:    "single replacement",
			content: "class Dog {}\n",
			edits:   []protocol.TextEdit{edit(0, 6, 0, 9, "Hound")},
			want:    "class Hound {}\n",
		},
		{
			name:    "edits in any order",
			content: "Dog a;\nDog b;\n",
			edits:   []protocol.TextEdit{edit(0, 0, 0, 3, "Cat"), edit(1, 0, 1, 3, "Cat")},
			want:    "Cat a;\nCat b;\n",
		},
		{
			name:    "inserts at one position keep order",
			content: "x",
			edits:   []protocol.TextEdit{edit(0, 0, 0, 0, "a"), edit(0, 0, 0, 0, "b")},
			want:    "abx",
		},
		{
			name:    "utf-16 columns",
			content: "a\U0001F600b\n",
			edits:   []protocol.TextEdit{edit(0, 3, 0, 4, "c")},
			want:    "a\U0001F600c\n",
		},
		{
			name:    "multi-line range",
			content: "one\ntwo\nthree\n",
			edits:   []protocol.TextEdit{edit(0, 3, 2, 0, " ")},
			want:    "one three\n",
		},
		{
			name:    "past end of line clamps",
			content: "ab\r\ncd",
			edits:   []protocol.TextEdit{edit(0, 99, 0, 99, "!")},
			want:    "ab!\r\ncd",
		},
		{
			name:    "past last line appends",
			content: "ab",
			edits:   []protocol.TextEdit{edit(5, 0, 5, 0, "\ncd")},
			want:    "ab\ncd",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyEdits(tt.content, tt.edits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyEditsOverlap(t *testing.T) {
	_, err := ApplyEdits("abcdef", []protocol.TextEdit{edit(0, 0, 0, 4, "x"), edit(0, 2, 0, 5, "y")})
	assert.ErrorIs(t, err, ErrOverlappingEdits)

	_, err = ApplyEdits("abc", []protocol.TextEdit{edit(0, 2, 0, 1, "x")})
	assert.Error(t, err)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestEditorChanges(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "A.java")
	b := filepath.Join(dir, "B.java")
	writeFile(t, a, "Dog x;\n")
	writeFile(t, b, "new Dog();\n")

	e := NewEditor(zap.NewNop())
	err := e.Apply(protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{
			PathURI(b): {edit(0, 4, 0, 7, "Hound")},
			PathURI(a): {edit(0, 0, 0, 3, "Hound")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hound x;\n", readFile(t, a))
	assert.Equal(t, "new Hound();\n", readFile(t, b))

	events := e.Drain()
	require.Len(t, events, 2)
	assert.Equal(t, PathURI(a), events[0].URI)
	assert.Equal(t, PathURI(b), events[1].URI)
	assert.EqualValues(t, fileChanged, events[0].Type)
	assert.Empty(t, e.Drain())
}

func TestEditorDocumentChanges(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "Dog.java")
	newPath := filepath.Join(dir, "pets", "Hound.java")
	gone := filepath.Join(dir, "Gone.java")
	writeFile(t, oldPath, "class Dog {}\n")
	writeFile(t, gone, "")

	e := NewEditor(nil)
	err := e.Apply(protocol.WorkspaceEdit{
		// Ignored when documentChanges are present.
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{
			PathURI(oldPath): {edit(0, 0, 0, 5, "BROKEN")},
		},
		DocumentChanges: []any{
			map[string]any{
				"textDocument": map[string]any{"uri": PathURI(oldPath), "version": 1},
				"edits":        []any{edit(0, 6, 0, 9, "Hound")},
			},
			map[string]any{"kind": "rename", "oldUri": PathURI(oldPath), "newUri": PathURI(newPath)},
			map[string]any{"kind": "delete", "uri": PathURI(gone)},
			map[string]any{"kind": "create", "uri": PathURI(filepath.Join(dir, "New.java"))},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "class Hound {}\n", readFile(t, newPath))
	assert.NoFileExists(t, oldPath)
	assert.NoFileExists(t, gone)
	assert.FileExists(t, filepath.Join(dir, "New.java"))

	var kinds []int
	for _, ev := range e.Drain() {
		kinds = append(kinds, int(ev.Type))
	}
	assert.Equal(t, []int{fileChanged, fileDeleted, fileCreated, fileDeleted, fileCreated}, kinds)
}

func TestEditorUnknownOperation(t *testing.T) {
	e := NewEditor(nil)
	err := e.Apply(protocol.WorkspaceEdit{
		DocumentChanges: []any{map[string]any{"kind": "chmod", "uri": "file:///x"}},
	})
	assert.ErrorContains(t, err, "chmod")
}

func TestURIPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a b.java")
	got, err := URIPath(string(PathURI(path)))
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = URIPath("https://example.com/a.java")
	assert.Error(t, err)
}
