// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import "github.com/albertocavalcante/clientgen/internal/emit"

// Config contains generator configuration.
type Config struct {
	// Package overrides the package of the document (optional).
	Package string

	// Types filters to specific type names (empty = all).
	Types []string

	// ResolveDeps includes transitive dependencies when filtering.
	ResolveDeps bool

	// Examples filters fixtures to specific example names (empty = all).
	Examples []string

	// ConstructorArgs makes generated constructors take the required
	// properties.
	ConstructorArgs bool

	// Workers bounds parallel file rendering. Zero or less means one.
	Workers int

	// Source is the model source (for headers).
	Source string

	// CommitHash is the git commit of the source, when known.
	CommitHash string

	// Options contains target-specific options.
	Options map[string]string
}

// Option returns a target-specific option with default.
func (c Config) Option(key, defaultValue string) string {
	if v, ok := c.Options[key]; ok {
		return v
	}
	return defaultValue
}

// Header returns the provenance header of generated files.
func (c Config) Header() emit.Header {
	src := c.Source
	if src != "" && c.CommitHash != "" {
		src += "@" + c.CommitHash
	}
	return emit.Header{Source: src}
}

// EmitOptions returns the emission options of c.
func (c Config) EmitOptions() emit.Options {
	return emit.Options{ConstructorArgs: c.ConstructorArgs}
}

// Limit returns the worker limit of c.
func (c Config) Limit() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}
