// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package customization renames generated symbols through a language
// server. A LanguageClient speaks LSP over a jsonrpc.Conn, an Editor applies
// the workspace edits the server computes, and Run drives a rename Plan.
package customization

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"

	"github.com/albertocavalcante/clientgen/internal/jsonrpc"
	"github.com/albertocavalcante/clientgen/internal/logging"
)

// LSP method names.
const (
	MethodInitialize            = "initialize"
	MethodInitialized           = "initialized"
	MethodShutdown              = "shutdown"
	MethodExit                  = "exit"
	MethodWorkspaceSymbol       = "workspace/symbol"
	MethodRename                = "textDocument/rename"
	MethodDidChangeWatchedFiles = "workspace/didChangeWatchedFiles"
	MethodLogMessage            = "window/logMessage"
	MethodShowMessage           = "window/showMessage"
	MethodApplyEdit             = "workspace/applyEdit"
	MethodRegisterCapability    = "client/registerCapability"
	MethodWorkDoneProgress      = "window/workDoneProgress/create"
	MethodConfiguration         = "workspace/configuration"
)

// clientCapabilities is what the client announces in initialize.
const clientCapabilities = `{
	"workspace": {
		"applyEdit": true,
		"workspaceEdit": {"documentChanges": true, "resourceOperations": ["create", "rename", "delete"]},
		"didChangeWatchedFiles": {"dynamicRegistration": true},
		"symbol": {}
	},
	"textDocument": {"rename": {}}
}`

// applyEditResult answers workspace/applyEdit.
type applyEditResult struct {
	Applied       bool   `json:"applied"`
	FailureReason string `json:"failureReason,omitempty"`
}

// LanguageClient is the client side of an LSP session.
type LanguageClient struct {
	conn   *jsonrpc.Conn
	log    *zap.Logger
	editor *Editor
}

// NewLanguageClient starts a session over r and w. Edits the server pushes
// with workspace/applyEdit are applied to editor.
func NewLanguageClient(r io.Reader, w io.Writer, editor *Editor, log *zap.Logger, opts ...jsonrpc.Option) *LanguageClient {
	c := &LanguageClient{log: logging.OrNop(log).Named("lsp"), editor: editor}
	handlers := jsonrpc.Handlers{
		MethodLogMessage:         jsonrpc.Notification1(c.logMessage),
		MethodShowMessage:        jsonrpc.Notification1(c.logMessage),
		MethodApplyEdit:          jsonrpc.Func1(c.applyEdit),
		MethodRegisterCapability: jsonrpc.Func1(c.registerCapability),
		MethodWorkDoneProgress:   jsonrpc.Func1(c.ignoreRequest),
		MethodConfiguration:      jsonrpc.Func1(c.configuration),
	}
	opts = append([]jsonrpc.Option{jsonrpc.WithLogger(c.log), jsonrpc.WithReplyOnHandlerError()}, opts...)
	c.conn = jsonrpc.NewConn(r, w, handlers, opts...)
	return c
}

// Initialize performs the initialize handshake for the workspace at root.
func (c *LanguageClient) Initialize(ctx context.Context, root string) (*protocol.InitializeResult, error) {
	var caps protocol.ClientCapabilities
	if err := json.Unmarshal([]byte(clientCapabilities), &caps); err != nil {
		return nil, errors.Wrap(err, "client capabilities")
	}
	pid := protocol.Integer(os.Getpid())
	uri := PathURI(root)
	params := protocol.InitializeParams{
		ProcessID:    &pid,
		RootURI:      &uri,
		Capabilities: caps,
	}
	res, err := jsonrpc.Call[protocol.InitializeResult](ctx, c.conn, MethodInitialize, params)
	if err != nil {
		return nil, errors.Wrap(err, "initialize")
	}
	if res.ServerInfo != nil {
		c.log.Info("language server ready", zap.String("server", res.ServerInfo.Name))
	}
	return &res, nil
}

// Initialized completes the handshake.
func (c *LanguageClient) Initialized() error {
	return c.conn.Notify(MethodInitialized, protocol.InitializedParams{})
}

// WorkspaceSymbols searches the workspace for symbols matching query.
func (c *LanguageClient) WorkspaceSymbols(ctx context.Context, query string) ([]protocol.SymbolInformation, error) {
	syms, err := jsonrpc.Call[[]protocol.SymbolInformation](ctx, c.conn, MethodWorkspaceSymbol, protocol.WorkspaceSymbolParams{Query: query})
	if err != nil {
		return nil, errors.Wrapf(err, "workspace/symbol %q", query)
	}
	return syms, nil
}

// Rename asks for the edit that renames the symbol at pos in uri.
func (c *LanguageClient) Rename(ctx context.Context, uri protocol.DocumentUri, pos protocol.Position, newName string) (*protocol.WorkspaceEdit, error) {
	params := protocol.RenameParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     pos,
		},
		NewName: newName,
	}
	edit, err := jsonrpc.Call[*protocol.WorkspaceEdit](ctx, c.conn, MethodRename, params)
	if err != nil {
		return nil, errors.Wrapf(err, "rename to %s", newName)
	}
	return edit, nil
}

// DidChangeWatchedFiles reports file changes. An empty batch sends nothing.
func (c *LanguageClient) DidChangeWatchedFiles(changes []protocol.FileEvent) error {
	if len(changes) == 0 {
		return nil
	}
	return c.conn.Notify(MethodDidChangeWatchedFiles, protocol.DidChangeWatchedFilesParams{Changes: changes})
}

// Shutdown asks the server to prepare for exit.
func (c *LanguageClient) Shutdown(ctx context.Context) error {
	_, err := jsonrpc.Call[json.RawMessage](ctx, c.conn, MethodShutdown)
	return errors.Wrap(err, "shutdown")
}

// Exit tells the server to exit.
func (c *LanguageClient) Exit() error {
	return c.conn.Notify(MethodExit)
}

// Close closes the connection, failing outstanding calls.
func (c *LanguageClient) Close() error {
	return c.conn.Close()
}

// Done is closed when the server side of the stream ends.
func (c *LanguageClient) Done() <-chan struct{} {
	return c.conn.Done()
}

func (c *LanguageClient) logMessage(_ context.Context, p protocol.LogMessageParams) error {
	switch p.Type {
	case 1:
		c.log.Error(p.Message)
	case 2:
		c.log.Warn(p.Message)
	case 3:
		c.log.Info(p.Message)
	default:
		c.log.Debug(p.Message)
	}
	return nil
}

func (c *LanguageClient) applyEdit(_ context.Context, p protocol.ApplyWorkspaceEditParams) (applyEditResult, error) {
	if c.editor == nil {
		return applyEditResult{FailureReason: "no editor attached"}, nil
	}
	if err := c.editor.Apply(p.Edit); err != nil {
		c.log.Warn("workspace edit failed", zap.Error(err))
		return applyEditResult{FailureReason: err.Error()}, nil
	}
	return applyEditResult{Applied: true}, nil
}

func (c *LanguageClient) registerCapability(_ context.Context, p protocol.RegistrationParams) (any, error) {
	for _, r := range p.Registrations {
		c.log.Debug("capability registered", zap.String("method", r.Method), zap.String("id", r.ID))
	}
	return nil, nil
}

func (c *LanguageClient) ignoreRequest(context.Context, json.RawMessage) (any, error) {
	return nil, nil
}

// configuration answers every requested section with null.
func (c *LanguageClient) configuration(_ context.Context, p struct {
	Items []json.RawMessage `json:"items"`
}) ([]any, error) {
	return make([]any, len(p.Items)), nil
}
