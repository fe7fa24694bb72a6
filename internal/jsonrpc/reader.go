// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package jsonrpc

import (
	"bufio"
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
)

// PeekReader presents a byte stream as peekable bytes, ASCII lines and
// fixed-length reads. Both framings of the wire share one PeekReader, so
// it is only ever used by the receive loop.
type PeekReader struct {
	r *bufio.Reader
}

// NewPeekReader wraps r.
func NewPeekReader(r io.Reader) *PeekReader {
	return &PeekReader{r: bufio.NewReader(r)}
}

// PeekByte returns the next byte without consuming it. At end of stream it
// returns io.EOF.
func (p *PeekReader) PeekByte() (byte, error) {
	b, err := p.r.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadASCIILine consumes bytes up to and including the next LF and returns
// the line without its terminator. A trailing CR is stripped.
//
// A final line without LF is returned as is; io.EOF is only reported when
// nothing was read. A non-negative limit bounds the line length: once more
// than limit bytes have been read without a terminator, ReadASCIILine stops
// and returns ErrFrameTooLarge.
func (p *PeekReader) ReadASCIILine(limit int) (string, error) {
	var line []byte
	for {
		chunk, err := p.r.ReadSlice('\n')
		line = append(line, chunk...)
		switch {
		case err == nil:
			return p.finishLine(bytes.TrimSuffix(line, []byte("\n")), limit)
		case errors.Is(err, bufio.ErrBufferFull):
			// One extra byte may still be the CR of a CRLF terminator.
			if limit >= 0 && len(line) > limit+1 {
				return "", errors.Wrapf(ErrFrameTooLarge, "line exceeds %d bytes", limit)
			}
		case errors.Is(err, io.EOF) && len(line) > 0:
			return p.finishLine(line, limit)
		default:
			return "", err
		}
	}
}

func (p *PeekReader) finishLine(line []byte, limit int) (string, error) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if limit >= 0 && len(line) > limit {
		return "", errors.Wrapf(ErrFrameTooLarge, "line exceeds %d bytes", limit)
	}
	return string(line), nil
}

// ReadBytes consumes exactly n bytes.
func (p *PeekReader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(p.r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.Wrapf(err, "read %d bytes", n)
	}
	return buf, nil
}

// SkipWhitespace consumes spaces, tabs, CR and LF so that the next PeekByte
// sees the first significant byte of a message.
func (p *PeekReader) SkipWhitespace() error {
	for {
		b, err := p.PeekByte()
		if err != nil {
			return err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			if _, err := p.r.ReadByte(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}
