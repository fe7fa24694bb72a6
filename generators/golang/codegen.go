// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package golang generates a Go package from a code model.
//
// All declarations of a selection land in one package: the models in
// models.go, one file per client interface, and one _test.go file per
// example. Helpers shared by the tests are written once to helpers_test.go.
package golang

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/albertocavalcante/clientgen/generator"
	"github.com/albertocavalcante/clientgen/internal/emit"
	"github.com/albertocavalcante/clientgen/internal/naming"
)

// File names with a fixed role.
const (
	ModelsFile  = "models.go"
	HelpersFile = "helpers_test.go"
)

// DefaultPackage is used when no package name can be derived.
const DefaultPackage = "models"

// Config holds configuration for Go generation.
type Config struct {
	// Package is the Go package name of every file.
	Package string

	Header  emit.Header
	Emit    emit.Options
	Workers int
}

// Codegen plans the Go files of a selection.
type Codegen struct {
	sel    *generator.Selection
	config Config

	mu       sync.Mutex
	features emit.Feature
}

// New creates a new Go Codegen.
func New(sel *generator.Selection, cfg Config) *Codegen {
	if cfg.Package == "" {
		cfg.Package = DefaultPackage
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Codegen{sel: sel, config: cfg}
}

// Generate renders the selection into out. Test helpers are rendered after
// every fixture, once the features they need are known.
func (g *Codegen) Generate(ctx context.Context, out *generator.Output) error {
	if err := generator.Render(ctx, g.config.Workers, out, g.Tasks()); err != nil {
		return err
	}
	return generator.Render(ctx, 1, out, []generator.Task{{
		Path: HelpersFile,
		Render: func() ([]byte, error) {
			return emit.GoHelpers(g.config.Header, g.config.Package, g.Features())
		},
	}})
}

// Features returns the helper features requested by the fixtures
// rendered so far.
func (g *Codegen) Features() emit.Feature {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.features
}

func (g *Codegen) request(f emit.Feature) {
	g.mu.Lock()
	g.features |= f
	g.mu.Unlock()
}

// Tasks returns the render tasks of models, clients and fixtures.
func (g *Codegen) Tasks() []generator.Task {
	var tasks []generator.Task
	h, pkg := g.config.Header, g.config.Package

	if len(g.sel.Types) > 0 {
		tasks = append(tasks, generator.Task{
			Path: ModelsFile,
			Render: func() ([]byte, error) {
				return emit.GoModels(h, pkg, g.sel.Types)
			},
		})
	}

	for _, c := range g.sel.Clients {
		tasks = append(tasks, generator.Task{
			Path: naming.Snake(c.Name) + ".go",
			Render: func() ([]byte, error) {
				return emit.GoClient(h, pkg, c)
			},
		})
	}

	for _, ex := range g.sel.Examples {
		tasks = append(tasks, generator.Task{
			Path: naming.Snake(ex.Name) + "_test.go",
			Render: func() ([]byte, error) {
				content, features, err := emit.GoFixture(h, ex, pkg, g.config.Emit)
				if err != nil {
					return nil, err
				}
				g.request(features)
				return content, nil
			},
		})
	}
	return tasks
}

// PackageName derives a Go package name from a dotted or slashed package
// path: "com.example.zoo" yields "zoo".
func PackageName(path string) string {
	if i := strings.LastIndexAny(path, "./"); i >= 0 {
		path = path[i+1:]
	}
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, path)
	if name == "" || unicode.IsDigit(rune(name[0])) {
		return DefaultPackage
	}
	return name
}
