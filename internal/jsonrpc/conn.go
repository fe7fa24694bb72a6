// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package jsonrpc implements a bidirectional JSON-RPC 2.0 connection over a
// duplex byte stream.
//
// Inbound messages may be framed with Content-Length headers or written as
// bare JSON values; the framing is detected per message. Outbound messages
// use Content-Length framing unless [WithRawFraming] is given.
//
// A Conn starts its receive loop on construction. Responses to outstanding
// calls are completed on the loop itself. Inbound requests and notifications
// run on a bounded worker pool; when it is full they queue rather than hold
// up reading, while the wire is still read strictly in order. Calls issued with
// [Call] block until their response arrives, their context ends or the
// connection is closed.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"maps"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by calls that were pending when the connection was
// closed and by any write after Close.
var ErrClosed = errors.New("jsonrpc: connection closed")

const defaultDispatchWorkers = 16

type options struct {
	logger              *zap.Logger
	maxFrameSize        int
	workers             int
	requestTimeout      time.Duration
	rawFraming          bool
	replyOnHandlerError bool
}

// Option configures a Conn.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxFrameSize bounds a single inbound message. Zero or negative means
// DefaultMaxFrameSize.
func WithMaxFrameSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxFrameSize = n
		}
	}
}

// WithDispatchWorkers limits how many inbound messages are processed
// concurrently.
func WithDispatchWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithRequestTimeout puts a deadline on every Call in addition to the
// caller's context. Zero disables it.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithRawFraming writes outbound messages as bare JSON terminated by a
// newline instead of Content-Length framing.
func WithRawFraming() Option {
	return func(o *options) { o.rawFraming = true }
}

// WithReplyOnHandlerError answers a failed inbound request with an error
// response. Without it a handler error is only logged and the peer's call
// is left unanswered.
func WithReplyOnHandlerError() Option {
	return func(o *options) { o.replyOnHandlerError = true }
}

type callResult struct {
	result json.RawMessage
	err    error
}

// pendingCall tracks one outstanding request. Exactly one value is ever
// sent on done, by whoever removes the call from the pending map.
type pendingCall struct {
	id     int64
	method string
	done   chan callResult
}

// Conn is one JSON-RPC session.
type Conn struct {
	log      *zap.Logger
	opts     options
	handlers Handlers

	r   io.Reader
	w   io.Writer
	dec *decoder

	writeMu sync.Mutex
	enc     *encoder

	nextID  atomic.Int64
	mu      sync.Mutex
	pending map[int64]*pendingCall
	loopErr error

	alive  atomic.Bool
	closed atomic.Bool
	ctx    context.Context
	cancel context.CancelFunc
	pool   *errgroup.Group
	done   chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// NewConn binds a connection to r and w and starts its receive loop.
// handlers is copied; registration is therefore complete before the first
// inbound message is read.
func NewConn(r io.Reader, w io.Writer, handlers Handlers, opts ...Option) *Conn {
	o := options{
		logger:       zap.NewNop(),
		maxFrameSize: DefaultMaxFrameSize,
		workers:      defaultDispatchWorkers,
	}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool := new(errgroup.Group)
	pool.SetLimit(o.workers)

	c := &Conn{
		log:      o.logger.Named("jsonrpc"),
		opts:     o,
		handlers: maps.Clone(handlers),
		r:        r,
		w:        w,
		dec:      &decoder{in: NewPeekReader(r), maxSize: o.maxFrameSize},
		enc:      &encoder{out: w, raw: o.rawFraming},
		pending:  make(map[int64]*pendingCall),
		ctx:      ctx,
		cancel:   cancel,
		pool:     pool,
		done:     make(chan struct{}),
	}
	if c.handlers == nil {
		c.handlers = Handlers{}
	}
	c.alive.Store(true)
	go c.run()
	return c
}

// Done is closed when the receive loop exits.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that ended the receive loop. It is nil while the
// loop runs and after an intentional stop.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loopErr
}

// run is the receive loop.
func (c *Conn) run() {
	defer close(c.done)
	for {
		if c.ctx.Err() != nil {
			return
		}
		frame, err := c.dec.readFrame()
		if err != nil {
			if !c.alive.Load() {
				c.log.Debug("receive loop stopped")
				return
			}
			c.log.Error("receive loop failed", zap.Error(err))
			c.mu.Lock()
			c.loopErr = errors.Wrap(err, "jsonrpc: read")
			c.mu.Unlock()
			return
		}
		msg, err := ParseMessage(frame)
		if err != nil {
			c.log.Warn("discarding malformed message", zap.Error(err), zap.ByteString("frame", frame))
			continue
		}
		switch msg.Kind() {
		case KindResponse, KindErrorResponse:
			// Completing a call never blocks, and a handler waiting on a
			// nested call must not depend on a free worker to see its answer.
			c.process(msg)
		default:
			c.spawn(msg)
		}
	}
}

// spawn hands msg to the worker pool without blocking the receive loop.
// When every worker is busy, msg waits for a slot on its own goroutine.
func (c *Conn) spawn(msg *Message) {
	work := func() error {
		c.process(msg)
		return nil
	}
	if c.pool.TryGo(work) {
		return
	}
	c.log.Debug("dispatch workers busy, queueing", zap.String("method", msg.Method))
	go c.pool.Go(work)
}

func (c *Conn) process(msg *Message) {
	switch kind := msg.Kind(); kind {
	case KindRequest, KindNotification:
		c.dispatch(msg)
	case KindResponse:
		if msg.ID != nil {
			c.complete(*msg.ID, callResult{result: msg.Result})
		}
	case KindErrorResponse:
		if msg.ID != nil {
			c.complete(*msg.ID, callResult{err: msg.Error})
		}
	case KindBatch:
		c.log.Warn("batch messages are not supported, dropping")
	default:
		c.log.Warn("dropping message without method, result or error")
	}
}

func (c *Conn) dispatch(msg *Message) {
	log := c.log.With(zap.String("method", msg.Method))
	if msg.ID != nil {
		log = log.With(zap.Int64("id", *msg.ID))
	}

	h, ok := c.handlers[msg.Method]
	if !ok {
		if msg.ID != nil {
			if err := c.ReplyError(*msg.ID, CodeMethodNotFound, "method not found: "+msg.Method); err != nil {
				log.Error("reply method not found", zap.Error(err))
			}
			return
		}
		log.Debug("no handler for notification")
		return
	}

	args, err := msg.Args()
	if err == nil {
		var result any
		result, err = serve(c.ctx, h, args)
		if err == nil {
			if msg.ID == nil {
				return
			}
			if err := c.Respond(*msg.ID, result); err != nil {
				log.Error("respond", zap.Error(err))
			}
			return
		}
	}

	log.Error("handler failed", zap.Error(err))
	if msg.ID == nil || !c.opts.replyOnHandlerError {
		return
	}
	code := CodeInternalError
	var rpcErr *Error
	switch {
	case errors.As(err, &rpcErr):
		code = rpcErr.Code
	case errors.Is(err, ErrArgumentCount):
		code = CodeInvalidParams
	}
	if err := c.ReplyError(*msg.ID, code, err.Error()); err != nil {
		log.Error("reply handler error", zap.Error(err))
	}
}

// complete hands a response to the call waiting on id. Responses for
// unknown ids are ignored.
func (c *Conn) complete(id int64, res callResult) {
	c.mu.Lock()
	pc, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()
	if !ok {
		c.log.Debug("response for unknown request", zap.Int64("id", id))
		return
	}
	pc.done <- res
}

// forget removes id from the pending map. It reports false when the call
// was already completed, in which case its result is waiting on done.
func (c *Conn) forget(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pending[id]; !ok {
		return false
	}
	delete(c.pending, id)
	return true
}

// Call issues a request and blocks until its response arrives. The result
// is decoded into T. An empty object result decodes to true for bool and to
// "" for string targets, which some servers send for void methods.
//
// Call returns ctx.Err() when ctx ends first, *Error when the peer answers
// with an error, and ErrClosed when the connection is closed while waiting.
func Call[T any](ctx context.Context, c *Conn, method string, args ...any) (T, error) {
	var zero T
	raw, err := c.call(ctx, method, args)
	if err != nil {
		return zero, err
	}
	var v T
	if err := decodeResult(raw, &v); err != nil {
		return zero, errors.Wrapf(err, "jsonrpc: decode %s result", method)
	}
	return v, nil
}

func (c *Conn) call(ctx context.Context, method string, args []any) (json.RawMessage, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if c.opts.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.requestTimeout)
		defer cancel()
	}

	id := c.nextID.Add(1)
	pc := &pendingCall{id: id, method: method, done: make(chan callResult, 1)}
	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.pending[id] = pc
	c.mu.Unlock()

	frame := requestFrame{JSONRPC: Version, ID: id, Method: method, Params: params(args)}
	if err := c.write(frame); err != nil {
		if c.forget(id) {
			return nil, errors.Wrapf(err, "jsonrpc: %s", method)
		}
		res := <-pc.done
		return res.result, res.err
	}

	loopDone := c.done
	for {
		select {
		case res := <-pc.done:
			return res.result, res.err
		case <-ctx.Done():
			if c.forget(id) {
				return nil, errors.Wrapf(ctx.Err(), "jsonrpc: %s", method)
			}
			res := <-pc.done
			return res.result, res.err
		case <-loopDone:
			loopDone = nil
			err := c.Err()
			if err == nil {
				continue
			}
			if c.forget(id) {
				return nil, errors.Wrapf(err, "jsonrpc: %s: receive loop exited", method)
			}
			res := <-pc.done
			return res.result, res.err
		}
	}
}

func decodeResult(raw json.RawMessage, target any) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("{}")) {
		switch p := target.(type) {
		case *bool:
			*p = true
			return nil
		case *string:
			*p = ""
			return nil
		}
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}

// Notify sends a notification. No id is allocated and nothing is tracked.
func (c *Conn) Notify(method string, args ...any) error {
	return c.write(notificationFrame{JSONRPC: Version, Method: method, Params: params(args)})
}

// Respond answers the inbound request id with result.
func (c *Conn) Respond(id int64, result any) error {
	raw, ok := result.(json.RawMessage)
	if !ok {
		var err error
		if raw, err = marshal(result); err != nil {
			return errors.Wrapf(err, "jsonrpc: marshal result for %d", id)
		}
	}
	return c.write(responseFrame{JSONRPC: Version, ID: id, Result: raw})
}

// ReplyError answers the inbound request id with an error.
func (c *Conn) ReplyError(id int64, code int, message string) error {
	return c.write(errorFrame{
		JSONRPC: Version,
		ID:      id,
		Message: message,
		Error:   Error{Code: code, Message: message},
	})
}

// write frames v onto the wire. Encoding happens before the write gate is
// taken; the gate is released on every path.
func (c *Conn) write(v any) error {
	body, err := marshal(v)
	if err != nil {
		return errors.Wrap(err, "jsonrpc: marshal")
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed.Load() {
		return ErrClosed
	}
	return errors.Wrap(c.enc.writeFrame(body), "jsonrpc: write")
}

// Stop ends the receive loop. Pending calls stay pending until Close.
func (c *Conn) Stop() {
	c.alive.Store(false)
	c.cancel()
}

// Close stops the connection, fails every pending call with ErrClosed and
// closes the underlying streams. Only the first call has an effect.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.Stop()

		c.mu.Lock()
		c.closed.Store(true)
		pending := c.pending
		c.pending = make(map[int64]*pendingCall)
		c.mu.Unlock()

		for _, pc := range pending {
			pc.done <- callResult{err: ErrClosed}
		}
		if len(pending) > 0 {
			c.log.Debug("failed pending calls on close", zap.Int("count", len(pending)))
		}

		// The write gate is not taken: closing the writer is what unblocks
		// a write stuck on a peer that stopped reading.
		c.closeErr = c.closeStreams()
	})
	return c.closeErr
}

func (c *Conn) closeStreams() error {
	var first error
	rc, rok := c.r.(io.Closer)
	if rok {
		first = rc.Close()
	}
	if wc, ok := c.w.(io.Closer); ok && !(rok && sameValue(c.r, c.w)) {
		if err := wc.Close(); first == nil {
			first = err
		}
	}
	return first
}

// sameValue reports whether a and b hold the same comparable value.
func sameValue(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
