// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package customization

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/albertocavalcante/clientgen/internal/jsonrpc"
	"github.com/albertocavalcante/clientgen/internal/logging"
)

// SpawnConfig describes a language server process.
type SpawnConfig struct {
	Command string
	Args    []string
	// Dir is the working directory of the server.
	Dir         string
	Editor      *Editor
	Logger      *zap.Logger
	ConnOptions []jsonrpc.Option
}

// Process is a running language server and the client talking to it.
type Process struct {
	*LanguageClient

	cmd    *exec.Cmd
	stderr sync.WaitGroup
	log    *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// Spawn starts the server and connects a LanguageClient to its stdio.
// The server's stderr is logged line by line.
func Spawn(ctx context.Context, cfg SpawnConfig) (*Process, error) {
	if cfg.Command == "" {
		return nil, errors.New("customization: no language server command")
	}
	log := logging.OrNop(cfg.Logger)

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	cmd.Dir = cfg.Dir
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "language server stdin pipe")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "language server stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(err, "language server stderr pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "start %s", cfg.Command)
	}
	log.Info("language server started", zap.String("command", cfg.Command), zap.Int("pid", cmd.Process.Pid))

	p := &Process{cmd: cmd, log: log}
	p.stderr.Add(1)
	go p.drainStderr(stderr)
	p.LanguageClient = NewLanguageClient(stdout, stdin, cfg.Editor, log, cfg.ConnOptions...)
	return p, nil
}

func (p *Process) drainStderr(r io.Reader) {
	defer p.stderr.Done()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		p.log.Debug("language server stderr", zap.String("line", sc.Text()))
	}
}

// Close shuts the server down: shutdown, exit, then wait for the process.
// The process is killed if it has not exited when ctx is done.
func (p *Process) Close(ctx context.Context) error {
	p.closeOnce.Do(func() { p.closeErr = p.close(ctx) })
	return p.closeErr
}

func (p *Process) close(ctx context.Context) error {
	if err := p.Shutdown(ctx); err != nil {
		p.log.Warn("language server shutdown failed", zap.Error(err))
	} else if err := p.Exit(); err != nil {
		p.log.Warn("language server exit notification failed", zap.Error(err))
	}

	done := make(chan error, 1)
	go func() {
		p.stderr.Wait()
		done <- p.cmd.Wait()
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		p.log.Warn("language server did not exit, killing it", zap.Int("pid", p.cmd.Process.Pid))
		if kerr := p.cmd.Process.Kill(); kerr != nil {
			err = errors.Wrap(kerr, "kill language server")
		} else {
			<-done
			err = errors.Wrap(ctx.Err(), "language server exit")
		}
	}
	// Wait has already closed the pipes.
	if cerr := p.LanguageClient.Close(); cerr != nil {
		p.log.Debug("close language server streams", zap.Error(cerr))
	}
	return err
}
