// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package golang

import (
	"context"

	"github.com/albertocavalcante/clientgen/generator"
	"github.com/albertocavalcante/clientgen/internal/model"
)

// GoGenerator implements [generator.Generator] for Go code generation.
type GoGenerator struct{}

// NewGenerator creates a new Go generator.
func NewGenerator() *GoGenerator {
	return &GoGenerator{}
}

// Metadata returns information about this generator.
func (g *GoGenerator) Metadata() generator.Metadata {
	return generator.Metadata{
		Name:           "go",
		Version:        "1.0.0",
		Description:    "Generate Go models, client interfaces and tests from a code model",
		FileExtensions: []string{".go"},
		Options: []generator.OptionDoc{
			{Key: "go-package", Description: "Package name (default: last segment of the model package)"},
		},
	}
}

// Generate produces Go output files from the code model.
//
// The package name comes from the "go-package" option, then the configured
// package, then the last segment of the document package.
func (g *GoGenerator) Generate(ctx context.Context, doc *model.Document, cfg generator.Config) (*generator.Output, error) {
	sel, err := generator.Select(doc, cfg)
	if err != nil {
		return nil, err
	}
	pkg := doc.Package
	if cfg.Package != "" {
		pkg = cfg.Package
	}
	c := New(sel, Config{
		Package: cfg.Option("go-package", PackageName(pkg)),
		Header:  cfg.Header(),
		Emit:    cfg.EmitOptions(),
		Workers: cfg.Limit(),
	})
	out := generator.NewOutput()
	if err := c.Generate(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}
