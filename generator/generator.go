// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package generator defines the interface for client code generators.
package generator

import (
	"context"

	"github.com/albertocavalcante/clientgen/internal/model"
)

// Generator is the interface that all code generators must implement.
type Generator interface {
	// Metadata returns information about this generator.
	Metadata() Metadata

	// Generate produces output files from the code model.
	Generate(ctx context.Context, doc *model.Document, cfg Config) (*Output, error)
}

// Metadata describes a generator.
type Metadata struct {
	// Name is the short identifier (e.g., "java", "go").
	Name string

	// Version is the generator version (semver).
	Version string

	// Description is a human-readable description.
	Description string

	// FileExtensions lists typical output extensions (e.g., [".java"]).
	FileExtensions []string

	// Options documents the keys the generator reads from Config.Options.
	Options []OptionDoc
}

// OptionDoc describes one target-specific option.
type OptionDoc struct {
	Key         string
	Default     string
	Description string
}
