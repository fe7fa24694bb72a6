// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrUnknownTarget is returned by Lookup for a name nobody registered.
var ErrUnknownTarget = errors.New("unknown target")

var (
	mu       sync.RWMutex
	registry = make(map[string]Generator)
)

// Register adds a generator under its metadata name. It panics on an empty
// or already registered name; registration happens from init functions.
func Register(g Generator) {
	mu.Lock()
	defer mu.Unlock()
	name := g.Metadata().Name
	if name == "" {
		panic("generator registered without a name")
	}
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("generator %q already registered", name))
	}
	registry[name] = g
}

// Get returns a generator by name.
func Get(name string) (Generator, bool) {
	mu.RLock()
	defer mu.RUnlock()
	g, ok := registry[name]
	return g, ok
}

// Lookup is Get for user input: an unknown name yields ErrUnknownTarget
// with a hint listing the registered targets.
func Lookup(name string) (Generator, error) {
	if g, ok := Get(name); ok {
		return g, nil
	}
	return nil, errors.WithHintf(errors.Wrapf(ErrUnknownTarget, "%q", name),
		"available targets: %s", strings.Join(List(), ", "))
}

// List returns all registered generator names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// All returns all registered generators ordered by name.
func All() []Generator {
	names := List()
	mu.RLock()
	defer mu.RUnlock()
	gens := make([]Generator, 0, len(names))
	for _, name := range names {
		if g, ok := registry[name]; ok {
			gens = append(gens, g)
		}
	}
	return gens
}

// Reset clears the registry (for testing).
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]Generator)
}
