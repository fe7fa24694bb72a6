// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package java

import (
	"context"

	"github.com/albertocavalcante/clientgen/generator"
	"github.com/albertocavalcante/clientgen/internal/model"
)

// Generator implements [generator.Generator] for Java code generation.
type Generator struct{}

// NewGenerator creates a new Java generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Metadata returns information about this generator.
func (g *Generator) Metadata() generator.Metadata {
	return generator.Metadata{
		Name:           "java",
		Version:        "1.0.0",
		Description:    "Generate Java models, clients and JUnit fixtures from a code model",
		FileExtensions: []string{".java"},
		Options: []generator.OptionDoc{
			{Key: "main-dir", Default: DefaultMainDir, Description: "Source root of models and clients"},
			{Key: "test-dir", Default: DefaultTestDir, Description: "Source root of example tests"},
		},
	}
}

// Generate produces Java output files from the code model.
func (g *Generator) Generate(ctx context.Context, doc *model.Document, cfg generator.Config) (*generator.Output, error) {
	sel, err := generator.Select(doc, cfg)
	if err != nil {
		return nil, err
	}
	pkg := doc.Package
	if cfg.Package != "" {
		pkg = cfg.Package
	}
	c := New(sel, Config{
		Package: pkg,
		MainDir: cfg.Option("main-dir", DefaultMainDir),
		TestDir: cfg.Option("test-dir", DefaultTestDir),
		Header:  cfg.Header(),
		Emit:    cfg.EmitOptions(),
		Workers: cfg.Limit(),
	})
	out := generator.NewOutput()
	if err := generator.Render(ctx, c.config.Workers, out, c.Tasks()); err != nil {
		return nil, err
	}
	return out, nil
}
