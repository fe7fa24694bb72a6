// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/albertocavalcante/clientgen/internal/config"
	"github.com/albertocavalcante/clientgen/internal/customization"
	"github.com/albertocavalcante/clientgen/internal/jsonrpc"
)

// shutdownGrace bounds the shutdown handshake once a run is over.
const shutdownGrace = 10 * time.Second

func newCustomizeCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "customize [flags] <plan.yaml>",
		Short: "Rename generated symbols through a language server",
		Long: `Rename generated symbols through a language server.

The plan lists renames; each one is resolved with workspace/symbol,
performed with textDocument/rename and written to the workspace.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.customize(cmd, args[0], dir)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&dir, "dir", "", "Workspace root (default: the output directory)")
	fl.StringP("output", "o", "generated", "Output directory")
	fl.String("server", "", "Language server command")
	fl.StringSlice("server-arg", nil, "Language server argument (repeatable)")
	fl.Duration("request-timeout", 30*time.Second, "Time limit of each request")
	return cmd
}

func (a *app) customize(cmd *cobra.Command, planPath, dir string) error {
	plan, err := customization.LoadPlan(planPath)
	if err != nil {
		return err
	}
	if dir == "" {
		dir = a.cfg.OutputDir
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return errors.Wrap(err, "workspace root")
	}
	ls := a.cfg.LanguageServer
	if ls.Command == "" {
		return errors.WithHint(errors.New("no language server configured"),
			"pass --server or set language_server.command in "+config.FileName)
	}

	ctx := cmd.Context()
	editor := customization.NewEditor(a.log)
	proc, err := customization.Spawn(ctx, customization.SpawnConfig{
		Command: ls.Command,
		Args:    ls.Args,
		Dir:     root,
		Editor:  editor,
		Logger:  a.log,
		ConnOptions: []jsonrpc.Option{
			jsonrpc.WithRequestTimeout(ls.RequestTimeout),
			jsonrpc.WithDispatchWorkers(ls.DispatchWorkers),
			jsonrpc.WithMaxFrameSize(ls.MaxFrameSize),
		},
	})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
		defer cancel()
		_ = proc.Close(closeCtx)
	}()

	if _, err := proc.Initialize(ctx, root); err != nil {
		return err
	}
	if err := proc.Initialized(); err != nil {
		return errors.Wrap(err, "initialized")
	}

	report, err := customization.Run(ctx, proc.LanguageClient, editor, plan)
	w := cmd.OutOrStdout()
	for _, ap := range report.Applied {
		fmt.Fprintf(w, "renamed %s to %s: %d edits in %d files\n", ap.Symbol, ap.To, ap.Edits, ap.Files)
	}
	return err
}
