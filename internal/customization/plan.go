// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package customization

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	// ErrSymbolNotFound is returned when no type symbol matches a rename.
	ErrSymbolNotFound = errors.New("customization: symbol not found")
	// ErrAmbiguousSymbol is returned when several type symbols match.
	ErrAmbiguousSymbol = errors.New("customization: ambiguous symbol")
)

// Plan is a list of type renames read from YAML:
//
//	renames:
//	  - symbol: Dog
//	    to: Hound
//	    container: com.example.zoo
type Plan struct {
	Renames []Rename `yaml:"renames"`
}

// Rename renames the type Symbol to To. Container, when set, restricts the
// match to symbols whose container name equals it.
type Rename struct {
	Symbol    string `yaml:"symbol"`
	To        string `yaml:"to"`
	Container string `yaml:"container,omitempty"`
}

// ParsePlan parses and validates a plan.
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "parse plan")
	}
	seen := make(map[string]bool)
	for i, r := range p.Renames {
		switch {
		case r.Symbol == "":
			return nil, errors.Newf("rename %d: symbol is required", i)
		case r.To == "":
			return nil, errors.Newf("rename %d: to is required", i)
		case r.To == r.Symbol:
			return nil, errors.Newf("rename %d: %s renamed to itself", i, r.Symbol)
		case seen[r.Container+"."+r.Symbol]:
			return nil, errors.Newf("rename %d: %s renamed twice", i, r.Symbol)
		}
		seen[r.Container+"."+r.Symbol] = true
	}
	return &p, nil
}

// LoadPlan reads a plan from path.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read plan")
	}
	p, err := ParsePlan(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return p, nil
}

// Applied records one completed rename.
type Applied struct {
	Rename
	Files int
	Edits int
}

// Report summarizes a Run.
type Report struct {
	Applied []Applied
}

// Run applies plan through client: each rename looks up its symbol, asks
// the server for the rename edit, applies it with editor and reports the
// changed files back. Renames run in order and Run stops at the first
// failure; the report lists what was applied before it.
func Run(ctx context.Context, client *LanguageClient, editor *Editor, plan *Plan) (*Report, error) {
	report := &Report{}
	for _, r := range plan.Renames {
		sym, err := findType(ctx, client, r)
		if err != nil {
			return report, err
		}
		edit, err := client.Rename(ctx, sym.Location.URI, sym.Location.Range.Start, r.To)
		if err != nil {
			return report, err
		}
		applied := Applied{Rename: r}
		if edit != nil {
			applied.Files, applied.Edits = countEdits(edit)
			if err := editor.Apply(*edit); err != nil {
				return report, errors.Wrapf(err, "apply rename of %s", r.Symbol)
			}
		}
		if err := client.DidChangeWatchedFiles(editor.Drain()); err != nil {
			return report, err
		}
		client.log.Info("renamed symbol",
			zap.String("symbol", r.Symbol),
			zap.String("to", r.To),
			zap.Int("files", applied.Files),
			zap.Int("edits", applied.Edits))
		report.Applied = append(report.Applied, applied)
	}
	return report, nil
}

func isTypeSymbol(k protocol.SymbolKind) bool {
	switch k {
	case protocol.SymbolKindClass, protocol.SymbolKindInterface, protocol.SymbolKindEnum, protocol.SymbolKindStruct:
		return true
	}
	return false
}

func findType(ctx context.Context, client *LanguageClient, r Rename) (protocol.SymbolInformation, error) {
	syms, err := client.WorkspaceSymbols(ctx, r.Symbol)
	if err != nil {
		return protocol.SymbolInformation{}, err
	}
	var matches []protocol.SymbolInformation
	for _, s := range syms {
		if s.Name != r.Symbol || !isTypeSymbol(s.Kind) {
			continue
		}
		if r.Container != "" && (s.ContainerName == nil || *s.ContainerName != r.Container) {
			continue
		}
		matches = append(matches, s)
	}
	switch len(matches) {
	case 0:
		return protocol.SymbolInformation{}, errors.Wrap(ErrSymbolNotFound, r.Symbol)
	case 1:
		return matches[0], nil
	default:
		return protocol.SymbolInformation{}, errors.Wrapf(ErrAmbiguousSymbol, "%s matches %d symbols", r.Symbol, len(matches))
	}
}

// countEdits returns how many documents and text edits edit touches.
func countEdits(edit *protocol.WorkspaceEdit) (files, edits int) {
	if len(edit.DocumentChanges) > 0 {
		changes, err := documentChanges(*edit)
		if err != nil {
			return 0, 0
		}
		for _, dc := range changes {
			files++
			edits += len(dc.Edits)
		}
		return files, edits
	}
	for _, e := range edit.Changes {
		edits += len(e)
	}
	return len(edit.Changes), edits
}
