// SPDX-License-Identifier: MIT

package customization

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"

	"github.com/albertocavalcante/clientgen/internal/jsonrpc"
)

const waitFor = 2 * time.Second

// fakeServer is an in-memory language server answering the requests a
// rename run makes.
type fakeServer struct {
	conn    *jsonrpc.Conn
	symbols []map[string]any
	renames map[string]protocol.WorkspaceEdit
	changed chan []protocol.FileEvent
	root    chan string
	exited  chan struct{}
}

func newSession(t *testing.T) (*LanguageClient, *Editor, *fakeServer) {
	t.Helper()
	toClientR, toClientW := io.Pipe()
	toServerR, toServerW := io.Pipe()

	s := &fakeServer{
		renames: make(map[string]protocol.WorkspaceEdit),
		changed: make(chan []protocol.FileEvent, 8),
		root:    make(chan string, 1),
		exited:  make(chan struct{}),
	}
	s.conn = jsonrpc.NewConn(toServerR, toClientW, jsonrpc.Handlers{
		MethodInitialize: jsonrpc.Func1(func(_ context.Context, p protocol.InitializeParams) (any, error) {
			if p.RootURI != nil {
				s.root <- string(*p.RootURI)
			}
			return map[string]any{"capabilities": map[string]any{}, "serverInfo": map[string]any{"name": "fake"}}, nil
		}),
		MethodInitialized: jsonrpc.Notification1(func(context.Context, json.RawMessage) error { return nil }),
		MethodWorkspaceSymbol: jsonrpc.Func1(func(_ context.Context, p protocol.WorkspaceSymbolParams) ([]map[string]any, error) {
			return s.symbols, nil
		}),
		MethodRename: jsonrpc.Func1(func(_ context.Context, p protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
			e, ok := s.renames[p.NewName]
			if !ok {
				return nil, nil
			}
			return &e, nil
		}),
		MethodDidChangeWatchedFiles: jsonrpc.Notification1(func(_ context.Context, p protocol.DidChangeWatchedFilesParams) error {
			s.changed <- p.Changes
			return nil
		}),
		MethodShutdown: jsonrpc.Func0(func(context.Context) (any, error) { return nil, nil }),
		MethodExit: jsonrpc.Notification0(func(context.Context) error {
			close(s.exited)
			return nil
		}),
	})

	editor := NewEditor(zap.NewNop())
	client := NewLanguageClient(toClientR, toServerW, editor, zap.NewNop())
	t.Cleanup(func() {
		_ = client.Close()
		_ = s.conn.Close()
	})
	return client, editor, s
}

func symbol(name string, kind int, uri protocol.DocumentUri, line, char int, container string) map[string]any {
	return map[string]any{
		"name": name,
		"kind": kind,
		"location": map[string]any{
			"uri": uri,
			"range": map[string]any{
				"start": map[string]any{"line": line, "character": char},
				"end":   map[string]any{"line": line, "character": char + len(name)},
			},
		},
		"containerName": container,
	}
}

func TestRunRenames(t *testing.T) {
	dir := t.TempDir()
	dog := filepath.Join(dir, "Dog.java")
	zoo := filepath.Join(dir, "Zoo.java")
	writeFile(t, dog, "public class Dog extends Pet {\n}\n")
	writeFile(t, zoo, "Dog d = new Dog();\n")

	client, editor, server := newSession(t)
	server.symbols = []map[string]any{
		symbol("DogTests", 5, PathURI(dog), 0, 13, "com.example.zoo"),
		symbol("Dog", 6, PathURI(zoo), 0, 12, "com.example.zoo"),
		symbol("Dog", 5, PathURI(dog), 0, 13, "com.example.zoo"),
	}
	server.renames["Hound"] = protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{
			PathURI(dog): {edit(0, 13, 0, 16, "Hound")},
			PathURI(zoo): {edit(0, 0, 0, 3, "Hound"), edit(0, 12, 0, 15, "Hound")},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()

	res, err := client.Initialize(ctx, dir)
	require.NoError(t, err)
	require.NotNil(t, res.ServerInfo)
	assert.Equal(t, "fake", res.ServerInfo.Name)
	assert.Equal(t, string(PathURI(dir)), <-server.root)
	require.NoError(t, client.Initialized())

	plan := &Plan{Renames: []Rename{{Symbol: "Dog", To: "Hound", Container: "com.example.zoo"}}}
	report, err := Run(ctx, client, editor, plan)
	require.NoError(t, err)
	require.Len(t, report.Applied, 1)
	assert.Equal(t, 2, report.Applied[0].Files)
	assert.Equal(t, 3, report.Applied[0].Edits)

	assert.Equal(t, "public class Hound extends Pet {\n}\n", readFile(t, dog))
	assert.Equal(t, "Hound d = new Hound();\n", readFile(t, zoo))

	select {
	case events := <-server.changed:
		require.Len(t, events, 2)
		assert.Equal(t, PathURI(dog), events[0].URI)
		assert.EqualValues(t, fileChanged, events[0].Type)
	case <-time.After(waitFor):
		t.Fatal("server was not told about the changed files")
	}

	require.NoError(t, client.Shutdown(ctx))
	require.NoError(t, client.Exit())
	select {
	case <-server.exited:
	case <-time.After(waitFor):
		t.Fatal("exit notification not received")
	}
}

func TestRunSymbolLookupFailures(t *testing.T) {
	client, editor, server := newSession(t)
	server.symbols = []map[string]any{
		symbol("Dog", 5, "file:///a/Dog.java", 0, 0, "com.example.a"),
		symbol("Dog", 10, "file:///b/Dog.java", 0, 0, "com.example.b"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()

	_, err := Run(ctx, client, editor, &Plan{Renames: []Rename{{Symbol: "Dog", To: "Hound"}}})
	assert.ErrorIs(t, err, ErrAmbiguousSymbol)

	_, err = Run(ctx, client, editor, &Plan{Renames: []Rename{{Symbol: "Cat", To: "Lion"}}})
	assert.ErrorIs(t, err, ErrSymbolNotFound)

	_, err = Run(ctx, client, editor, &Plan{Renames: []Rename{{Symbol: "Dog", To: "Hound", Container: "com.example.c"}}})
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestServerPushedEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A.java")
	writeFile(t, path, "int x;\n")

	_, editor, server := newSession(t)
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()

	params := map[string]any{
		"edit": protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentUri][]protocol.TextEdit{
				PathURI(path): {edit(0, 4, 0, 5, "y")},
			},
		},
	}
	res, err := jsonrpc.Call[applyEditResult](ctx, server.conn, MethodApplyEdit, params)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "int y;\n", readFile(t, path))
	assert.Len(t, editor.Drain(), 1)

	params["edit"] = protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{
			PathURI(filepath.Join(dir, "missing.java")): {edit(0, 0, 0, 0, "x")},
		},
	}
	res, err = jsonrpc.Call[applyEditResult](ctx, server.conn, MethodApplyEdit, params)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.NotEmpty(t, res.FailureReason)
}

func TestServerConfigurationRequest(t *testing.T) {
	_, _, server := newSession(t)
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()

	got, err := jsonrpc.Call[[]any](ctx, server.conn, MethodConfiguration, map[string]any{
		"items": []any{map[string]any{"section": "java"}, map[string]any{"section": "format"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{nil, nil}, got)
}

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan([]byte(`
renames:
  - symbol: Dog
    to: Hound
  - symbol: Dog
    to: Puppy
    container: com.example.other
`))
	require.NoError(t, err)
	require.Len(t, p.Renames, 2)
	assert.Equal(t, Rename{Symbol: "Dog", To: "Puppy", Container: "com.example.other"}, p.Renames[1])

	bad := map[string]string{
		"missing symbol": "renames:\n  - to: X\n",
		"missing target": "renames:\n  - symbol: X\n",
		"self rename":    "renames:\n  - {symbol: X, to: X}\n",
		"renamed twice":  "renames:\n  - {symbol: X, to: Y}\n  - {symbol: X, to: Z}\n",
		"not yaml":       "renames: [",
	}
	for name, input := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePlan([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	writeFile(t, path, "renames:\n  - {symbol: A, to: B}\n")
	p, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Len(t, p.Renames, 1)

	_, err = LoadPlan(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
