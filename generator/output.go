// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import (
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
)

// Output contains generated files. It is safe for concurrent use.
type Output struct {
	mu sync.Mutex
	// Files maps slash-separated relative paths to content.
	Files map[string][]byte
}

// NewOutput creates a new Output.
func NewOutput() *Output {
	return &Output{Files: make(map[string][]byte)}
}

// Add adds a file to the output. Adding a path twice is an error.
func (o *Output) Add(name string, content []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.Files[name]; ok {
		return errors.Newf("generator: %s generated twice", name)
	}
	o.Files[name] = content
	return nil
}

// Single returns an Output with a single file.
func Single(name string, content []byte) *Output {
	return &Output{Files: map[string][]byte{name: content}}
}

// Paths returns the file paths, sorted.
func (o *Output) Paths() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	paths := make([]string, 0, len(o.Files))
	for p := range o.Files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Write writes every file below dir, creating directories as needed.
func (o *Output) Write(dir string) error {
	for _, p := range o.Paths() {
		path := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrap(err, "create output directory")
		}
		if err := os.WriteFile(path, o.Files[p], 0o644); err != nil {
			return errors.Wrapf(err, "write %s", p)
		}
	}
	return nil
}
