// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import (
	"github.com/cockroachdb/errors"

	"github.com/albertocavalcante/clientgen/internal/model"
)

// ResolveDeps expands a type filter to include all transitively
// referenced types from the document. Returns nil if filter is nil
// (meaning "generate all types").
//
// Parents and subtypes of an object are followed as well: a subtype is
// selected through its root's discriminator.
func ResolveDeps(doc *model.Document, filter map[string]bool) map[string]bool {
	if filter == nil {
		return nil
	}
	expanded := make(map[string]bool)
	for name := range filter {
		t, err := doc.Lookup(name)
		if err != nil {
			continue
		}
		collectDeps(t, expanded)
	}
	return expanded
}

// collectDeps records the named types t refers to.
func collectDeps(t model.Type, visited map[string]bool) {
	switch t := t.(type) {
	case *model.EnumType:
		visited[t.Name] = true
	case *model.ListType:
		collectDeps(t.Element, visited)
	case *model.MapType:
		collectDeps(t.Value, visited)
	case *model.ObjectType:
		if visited[t.Name] {
			return // Already processed or cycle
		}
		visited[t.Name] = true
		if t.Parent != nil {
			collectDeps(t.Parent, visited)
		}
		for _, c := range t.Children {
			collectDeps(c, visited)
		}
		for _, p := range t.Properties {
			collectDeps(p.Type, visited)
		}
	}
}

// Selection is the part of a document a generator emits.
type Selection struct {
	Types    []model.Type
	Examples []*model.Example
	Clients  []*model.Client
}

// Select applies the filters of cfg to doc. Without a type filter
// everything is selected. With one, examples are kept when every type they
// need is selected and clients are dropped, since their operations would
// reference types that are not emitted. An explicit example filter always
// wins.
func Select(doc *model.Document, cfg Config) (*Selection, error) {
	var filter map[string]bool
	if len(cfg.Types) > 0 {
		filter = make(map[string]bool, len(cfg.Types))
		for _, name := range cfg.Types {
			t, err := doc.Lookup(name)
			if err != nil {
				return nil, errors.Wrap(err, "type filter")
			}
			if _, ok := t.(*model.PrimitiveType); ok {
				return nil, errors.Newf("type filter: %s is not a declared type", name)
			}
			filter[t.String()] = true
		}
		if cfg.ResolveDeps {
			filter = ResolveDeps(doc, filter)
		}
	}

	sel := &Selection{}
	for _, t := range doc.Types {
		if filter == nil || filter[t.String()] {
			sel.Types = append(sel.Types, t)
		}
	}
	if filter == nil {
		sel.Clients = doc.Clients
	}

	if len(cfg.Examples) > 0 {
		for _, name := range cfg.Examples {
			ex, ok := doc.Example(name)
			if !ok {
				return nil, errors.Newf("example filter: unknown example %q", name)
			}
			sel.Examples = append(sel.Examples, ex)
		}
		return sel, nil
	}
	for _, ex := range doc.Examples {
		if filter != nil && !covered(ex.Type, filter) {
			continue
		}
		sel.Examples = append(sel.Examples, ex)
	}
	return sel, nil
}

// covered reports whether every named type t needs is in filter.
func covered(t model.Type, filter map[string]bool) bool {
	need := make(map[string]bool)
	collectDeps(t, need)
	for name := range need {
		if !filter[name] {
			return false
		}
	}
	return true
}
