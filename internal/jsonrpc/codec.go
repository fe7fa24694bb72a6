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
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultMaxFrameSize bounds a single inbound message.
const DefaultMaxFrameSize = 16 << 20

// ErrFrameTooLarge is returned when an inbound message exceeds the
// configured maximum before it becomes a complete JSON value.
var ErrFrameTooLarge = errors.New("jsonrpc: frame exceeds maximum size")

// decoder reads whole messages off a PeekReader, detecting the framing of
// each message by peeking at its first significant byte.
type decoder struct {
	in      *PeekReader
	maxSize int
}

// readFrame returns the bytes of the next message.
func (d *decoder) readFrame() ([]byte, error) {
	if err := d.in.SkipWhitespace(); err != nil {
		return nil, err
	}
	b, err := d.in.PeekByte()
	if err != nil {
		return nil, err
	}
	if b == '{' || b == '[' {
		return d.readBareJSON(nil)
	}
	return d.readFramed()
}

// readFramed consumes header lines up to the blank separator. With a
// Content-Length header the body is read exactly; otherwise the body is
// accumulated as bare JSON.
func (d *decoder) readFramed() ([]byte, error) {
	length := -1
	for {
		line, err := d.in.ReadASCIILine(d.lineLimit(0))
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			// Not a header: the peer is writing bare JSON that does not
			// start on a brace, keep it as the start of the document.
			return d.readBareJSON([]byte(line))
		}
		if strings.EqualFold(strings.TrimSpace(key), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 0 {
				return nil, errors.Newf("jsonrpc: invalid Content-Length %q", value)
			}
			length = n
		}
	}

	if length < 0 {
		return d.readBareJSON(nil)
	}
	if d.maxSize > 0 && length > d.maxSize {
		return nil, errors.Wrapf(ErrFrameTooLarge, "Content-Length %d", length)
	}
	return d.in.ReadBytes(length)
}

// readBareJSON accumulates lines until they form one complete JSON value.
func (d *decoder) readBareJSON(prefix []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(prefix)
	if buf.Len() > 0 && json.Valid(buf.Bytes()) {
		return buf.Bytes(), nil
	}
	for {
		line, err := d.in.ReadASCIILine(d.lineLimit(buf.Len()))
		if err != nil {
			return nil, err
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
		if d.maxSize > 0 && buf.Len() > d.maxSize {
			return nil, errors.Wrapf(ErrFrameTooLarge, "%d bytes without a complete value", buf.Len())
		}
		if json.Valid(buf.Bytes()) {
			return buf.Bytes(), nil
		}
	}
}

// lineLimit is how long the next line may be once used bytes are already
// buffered for the current message. A negative result means unbounded.
func (d *decoder) lineLimit(used int) int {
	if d.maxSize <= 0 {
		return -1
	}
	return max(d.maxSize-used, 0)
}

// encoder writes one framed message per call. It is not safe for concurrent
// use; Conn serializes access with its write gate.
type encoder struct {
	out io.Writer
	raw bool
}

func (e *encoder) writeFrame(body []byte) error {
	if e.raw {
		frame := make([]byte, 0, len(body)+1)
		frame = append(frame, body...)
		frame = append(frame, '\n')
		_, err := e.out.Write(frame)
		return err
	}
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	frame := make([]byte, 0, len(header)+len(body))
	frame = append(frame, header...)
	frame = append(frame, body...)
	_, err := e.out.Write(frame)
	return err
}

// marshal encodes v without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
