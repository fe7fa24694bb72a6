// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/albertocavalcante/clientgen/generator"
	"github.com/albertocavalcante/clientgen/internal/source"
)

type generateFlags struct {
	types       []string
	examples    []string
	resolveDeps bool
	repo        string
	options     map[string]string
	dryRun      bool
	timeout     time.Duration
}

func newGenerateCmd(a *app) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate [flags] <model>",
		Short: "Generate sources from a model document",
		Long: `Generate sources from a model document.

The model is a YAML file path, a path inside --repo, or an http(s) URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd, args[0], f)
		},
	}

	fl := cmd.Flags()
	fl.StringP("target", "t", "java", "Generator to run ("+strings.Join(generator.List(), ", ")+")")
	fl.StringP("package", "p", "", "Package of declarations that name none")
	fl.StringP("output", "o", "generated", "Output directory")
	fl.Bool("constructor-args", true, "Pass required properties to constructors")
	fl.Int("workers", 4, "Files rendered in parallel")
	fl.StringSliceVar(&f.types, "types", nil, "Types to generate (default: all)")
	fl.StringSliceVar(&f.examples, "examples", nil, "Examples to generate fixtures for (default: all covered)")
	fl.BoolVar(&f.resolveDeps, "resolve-deps", false, "Include types the selected types depend on")
	fl.StringVar(&f.repo, "repo", "", "Git checkout the model path is relative to")
	fl.StringToStringVar(&f.options, "option", nil, "Target option as key=value (repeatable)")
	fl.BoolVar(&f.dryRun, "dry-run", false, "Print files to stdout instead of writing them")
	fl.DurationVar(&f.timeout, "timeout", 2*time.Minute, "Overall time limit")
	return cmd
}

func (a *app) generate(cmd *cobra.Command, location string, f generateFlags) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
	defer cancel()

	gen, err := generator.Lookup(a.cfg.Target)
	if err != nil {
		return err
	}

	res, err := source.Load(ctx, source.Options{Location: location, RepoDir: f.repo})
	if err != nil {
		return err
	}
	a.log.Debug("loaded model",
		zap.String("source", res.Source),
		zap.Int("types", len(res.Document.Types)),
		zap.Int("examples", len(res.Document.Examples)),
		zap.Int("clients", len(res.Document.Clients)))

	start := time.Now()
	out, err := gen.Generate(ctx, res.Document, generator.Config{
		Package:         a.cfg.Package,
		Types:           f.types,
		ResolveDeps:     f.resolveDeps,
		Examples:        f.examples,
		ConstructorArgs: a.cfg.ConstructorArgs,
		Workers:         a.cfg.Workers,
		Source:          res.Source,
		CommitHash:      res.CommitHash,
		Options:         f.options,
	})
	if err != nil {
		return errors.Wrapf(err, "generate %s", a.cfg.Target)
	}

	if f.dryRun {
		w := cmd.OutOrStdout()
		for _, p := range out.Paths() {
			fmt.Fprintf(w, "==> %s <==\n%s\n", p, out.Files[p])
		}
		return nil
	}
	if err := out.Write(a.cfg.OutputDir); err != nil {
		return err
	}
	a.log.Info("generated",
		zap.String("target", a.cfg.Target),
		zap.String("dir", a.cfg.OutputDir),
		zap.Int("files", len(out.Files)),
		zap.Duration("took", time.Since(start)))
	return nil
}
