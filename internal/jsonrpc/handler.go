// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package jsonrpc

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// ErrArgumentCount is returned when an inbound call carries a different
// number of positional arguments than the handler declares.
var ErrArgumentCount = errors.New("jsonrpc: argument count mismatch")

// Handler serves one method. Serve receives the positional arguments
// undecoded; the adapters below decode them into the declared types.
type Handler interface {
	Arity() int
	Serve(ctx context.Context, args []json.RawMessage) (any, error)
}

// Handlers maps method names to handlers. A Conn copies it at construction
// and never mutates the copy.
type Handlers map[string]Handler

type handlerFunc struct {
	arity int
	fn    func(context.Context, []json.RawMessage) (any, error)
}

func (h handlerFunc) Arity() int { return h.arity }

func (h handlerFunc) Serve(ctx context.Context, args []json.RawMessage) (any, error) {
	return h.fn(ctx, args)
}

// Func0 adapts a handler without arguments.
func Func0[R any](fn func(context.Context) (R, error)) Handler {
	return handlerFunc{arity: 0, fn: func(ctx context.Context, _ []json.RawMessage) (any, error) {
		return fn(ctx)
	}}
}

// Func1 adapts a handler with one argument.
func Func1[P, R any](fn func(context.Context, P) (R, error)) Handler {
	return handlerFunc{arity: 1, fn: func(ctx context.Context, args []json.RawMessage) (any, error) {
		p, err := decodeArg[P](args, 0)
		if err != nil {
			return nil, err
		}
		return fn(ctx, p)
	}}
}

// Func2 adapts a handler with two arguments.
func Func2[P1, P2, R any](fn func(context.Context, P1, P2) (R, error)) Handler {
	return handlerFunc{arity: 2, fn: func(ctx context.Context, args []json.RawMessage) (any, error) {
		p1, err := decodeArg[P1](args, 0)
		if err != nil {
			return nil, err
		}
		p2, err := decodeArg[P2](args, 1)
		if err != nil {
			return nil, err
		}
		return fn(ctx, p1, p2)
	}}
}

// Notification0 adapts a handler without arguments or result.
func Notification0(fn func(context.Context) error) Handler {
	return handlerFunc{arity: 0, fn: func(ctx context.Context, _ []json.RawMessage) (any, error) {
		return nil, fn(ctx)
	}}
}

// Notification1 adapts a handler with one argument and no result.
func Notification1[P any](fn func(context.Context, P) error) Handler {
	return handlerFunc{arity: 1, fn: func(ctx context.Context, args []json.RawMessage) (any, error) {
		p, err := decodeArg[P](args, 0)
		if err != nil {
			return nil, err
		}
		return nil, fn(ctx, p)
	}}
}

func decodeArg[T any](args []json.RawMessage, i int) (T, error) {
	var v T
	if err := json.Unmarshal(args[i], &v); err != nil {
		return v, &Error{Code: CodeInvalidParams, Message: errors.Wrapf(err, "argument %d", i).Error()}
	}
	return v, nil
}

// serve checks the argument count and runs h.
func serve(ctx context.Context, h Handler, args []json.RawMessage) (any, error) {
	if len(args) != h.Arity() {
		return nil, errors.Wrapf(ErrArgumentCount, "got %d, want %d", len(args), h.Arity())
	}
	return h.Serve(ctx, args)
}
