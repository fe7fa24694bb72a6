// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Version is stamped on every outbound message.
const Version = "2.0"

// Standard JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Kind classifies an inbound message.
type Kind int

const (
	KindInvalid Kind = iota
	KindRequest
	KindNotification
	KindResponse
	KindErrorResponse
	KindBatch
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindNotification:
		return "notification"
	case KindResponse:
		return "response"
	case KindErrorResponse:
		return "error-response"
	case KindBatch:
		return "batch"
	default:
		return "invalid"
	}
}

// Error is the error object of an error response. It also implements error
// so that a failed Call can be inspected with errors.As.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Message is one decoded JSON-RPC message. The raw fields are kept
// undecoded until a handler or a waiting caller knows the target type.
type Message struct {
	ID      *int64
	Method  string
	Params  json.RawMessage
	Result  json.RawMessage
	Error   *Error
	Message string // top-level message of an error response

	batch bool
	keys  map[string]bool
}

// Kind reports the message shape. A method key wins over a result key,
// which wins over an error key; a top-level array is a batch.
func (m *Message) Kind() Kind {
	switch {
	case m.batch:
		return KindBatch
	case m.keys["method"]:
		if m.ID == nil {
			return KindNotification
		}
		return KindRequest
	case m.keys["result"]:
		return KindResponse
	case m.keys["error"]:
		return KindErrorResponse
	default:
		return KindInvalid
	}
}

// ParseMessage decodes one complete JSON document.
func ParseMessage(data []byte) (*Message, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		if !json.Valid(data) {
			return nil, &Error{Code: CodeParseError, Message: "malformed batch"}
		}
		return &Message{batch: true}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &Error{Code: CodeParseError, Message: err.Error()}
	}

	m := &Message{keys: make(map[string]bool, len(fields))}
	for k := range fields {
		m.keys[k] = true
	}

	if raw, ok := fields["id"]; ok && !isNull(raw) {
		id, err := parseID(raw)
		if err != nil {
			return nil, &Error{Code: CodeInvalidRequest, Message: err.Error()}
		}
		m.ID = &id
	}
	if raw, ok := fields["method"]; ok {
		if err := json.Unmarshal(raw, &m.Method); err != nil {
			return nil, &Error{Code: CodeInvalidRequest, Message: "method is not a string"}
		}
	}
	m.Params = fields["params"]
	m.Result = fields["result"]
	if raw, ok := fields["error"]; ok && !isNull(raw) {
		m.Error = new(Error)
		if err := json.Unmarshal(raw, m.Error); err != nil {
			return nil, &Error{Code: CodeInvalidRequest, Message: "malformed error object"}
		}
	}
	// A top-level message only fills in a missing error text, so a
	// non-string value is ignored rather than failing the whole message.
	if raw, ok := fields["message"]; ok {
		if err := json.Unmarshal(raw, &m.Message); err != nil {
			m.Message = ""
		}
	}
	if m.Error != nil && m.Error.Message == "" {
		m.Error.Message = m.Message
	}
	return m, nil
}

// Args splits params into positional arguments. An array is positional;
// any other value is a single argument; absent params are no arguments.
func (m *Message) Args() ([]json.RawMessage, error) {
	p := bytes.TrimSpace(m.Params)
	if len(p) == 0 || isNull(p) {
		return nil, nil
	}
	if p[0] != '[' {
		return []json.RawMessage{p}, nil
	}
	var args []json.RawMessage
	if err := json.Unmarshal(p, &args); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	return args, nil
}

func parseID(raw json.RawMessage) (int64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, errors.Newf("id %s is not an integer", raw)
	}
	id, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, errors.Newf("id %s is not an integer", raw)
	}
	return id, nil
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Outbound wire shapes. Field order is the order on the wire.

type requestFrame struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type notificationFrame struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type responseFrame struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
}

type errorFrame struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Message string `json:"message"`
	Error   Error  `json:"error"`
}

// params packs call arguments: none are omitted, one is sent as itself and
// several are sent as an array.
func params(args []any) any {
	switch len(args) {
	case 0:
		return nil
	case 1:
		return args[0]
	default:
		return args
	}
}
