// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package emit

import (
	"slices"
	"strings"
)

// Feature is a set of helpers an emitted file needs. Each helper is
// written once per file no matter how many expressions asked for it.
type Feature uint8

const (
	// FeatureMapOf asks for the alternating key/value map builder.
	FeatureMapOf Feature = 1 << iota
	// FeatureReadJSON asks for the helper that decodes untyped JSON text.
	FeatureReadJSON
	// FeatureThrows marks code that may throw a checked exception.
	FeatureThrows
)

// Has reports whether every feature in x is set.
func (f Feature) Has(x Feature) bool {
	return f&x == x
}

func (f Feature) String() string {
	var names []string
	if f.Has(FeatureMapOf) {
		names = append(names, "mapOf")
	}
	if f.Has(FeatureReadJSON) {
		names = append(names, "readJson")
	}
	if f.Has(FeatureThrows) {
		names = append(names, "throws")
	}
	return strings.Join(names, "|")
}

// ImportSet collects import paths. The zero value is ready to use.
type ImportSet struct {
	m map[string]bool
}

// Add records paths. Empty paths are ignored.
func (s *ImportSet) Add(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if s.m == nil {
			s.m = make(map[string]bool)
		}
		s.m[p] = true
	}
}

// Merge adds every path of o.
func (s *ImportSet) Merge(o *ImportSet) {
	for p := range o.m {
		s.Add(p)
	}
}

// Has reports whether path was added.
func (s *ImportSet) Has(path string) bool {
	return s.m[path]
}

// Len returns the number of paths.
func (s *ImportSet) Len() int {
	return len(s.m)
}

// Sorted returns the paths in lexical order.
func (s *ImportSet) Sorted() []string {
	out := make([]string, 0, len(s.m))
	for p := range s.m {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// accumulator is the side channel of one emission pass.
type accumulator struct {
	imports  ImportSet
	features Feature
}
