// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package java generates Java sources from a code model.
//
// The generated tree follows the Maven layout:
//   - one class per object type and enum under the main source root
//   - one client class per client, calling through an Invoker
//   - one JUnit 5 test class per example under the test source root
package java

import (
	"path"
	"strings"

	"github.com/albertocavalcante/clientgen/generator"
	"github.com/albertocavalcante/clientgen/internal/emit"
	"github.com/albertocavalcante/clientgen/internal/model"
)

// Default source roots.
const (
	DefaultMainDir = "src/main/java"
	DefaultTestDir = "src/test/java"
)

// Config holds configuration for Java generation.
type Config struct {
	// Package is the package of files whose declaration has none.
	Package string

	MainDir string
	TestDir string

	Header  emit.Header
	Emit    emit.Options
	Workers int
}

// Codegen plans the Java files of a selection.
type Codegen struct {
	sel    *generator.Selection
	config Config
}

// New creates a new Java Codegen.
func New(sel *generator.Selection, cfg Config) *Codegen {
	if cfg.MainDir == "" {
		cfg.MainDir = DefaultMainDir
	}
	if cfg.TestDir == "" {
		cfg.TestDir = DefaultTestDir
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Codegen{sel: sel, config: cfg}
}

func (g *Codegen) pkg(declared string) string {
	if declared != "" {
		return declared
	}
	return g.config.Package
}

// file returns the path of class name in package pkg below root.
func file(root, pkg, name string) string {
	return path.Join(root, strings.ReplaceAll(pkg, ".", "/"), name+".java")
}

// Tasks returns one render task per emitted file.
func (g *Codegen) Tasks() []generator.Task {
	var tasks []generator.Task
	h := g.config.Header

	for _, t := range g.sel.Types {
		switch t := t.(type) {
		case *model.ObjectType:
			tasks = append(tasks, generator.Task{
				Path: file(g.config.MainDir, g.pkg(t.Package), t.Name),
				Render: func() ([]byte, error) {
					return emit.DeclareClass(h, t, g.config.Emit)
				},
			})
		case *model.EnumType:
			tasks = append(tasks, generator.Task{
				Path: file(g.config.MainDir, g.pkg(t.Package), t.Name),
				Render: func() ([]byte, error) {
					return emit.DeclareEnum(h, t), nil
				},
			})
		}
	}

	for _, c := range g.sel.Clients {
		tasks = append(tasks, generator.Task{
			Path: file(g.config.MainDir, g.pkg(c.Package), c.Name),
			Render: func() ([]byte, error) {
				return emit.DeclareClient(h, c), nil
			},
		})
	}

	for _, ex := range g.sel.Examples {
		pkg := g.pkg(examplePackage(ex))
		tasks = append(tasks, generator.Task{
			Path: file(g.config.TestDir, pkg, emit.JavaFixtureClass(ex)),
			Render: func() ([]byte, error) {
				return emit.Fixture(h, ex, pkg, g.config.Emit)
			},
		})
	}
	return tasks
}

// examplePackage returns the package of the type an example builds, or ""
// for lists, maps and primitives.
func examplePackage(ex *model.Example) string {
	switch t := ex.Type.(type) {
	case *model.ObjectType:
		return t.Package
	case *model.EnumType:
		return t.Package
	}
	return ""
}
