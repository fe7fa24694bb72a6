// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package emit

import (
	"github.com/cockroachdb/errors"

	"github.com/albertocavalcante/clientgen/internal/model"
)

// Options selects how composites are constructed.
type Options struct {
	// ConstructorArgs passes required properties positionally, root ancestor
	// first, and everything else through setters. When false, composites are
	// built with no arguments and every bound property is set.
	ConstructorArgs bool
}

// Initializer renders the expression that constructs an example value.
// An Initializer accumulates imports and features across calls; use one
// per emitted file.
type Initializer struct {
	dialect Dialect
	opts    Options
	acc     accumulator
}

// NewInitializer returns an Initializer rendering in d.
func NewInitializer(d Dialect, opts Options) *Initializer {
	return &Initializer{dialect: d, opts: opts}
}

// Init renders n as source text.
func (in *Initializer) Init(n model.Node) (string, error) {
	e, err := in.Expr(n)
	if err != nil {
		return "", err
	}
	return e.String(), nil
}

// Expr renders n as an expression of the dialect.
func (in *Initializer) Expr(n model.Node) (Expr, error) {
	switch n := n.(type) {
	case *model.Literal:
		return in.dialect.literal(n, &in.acc)
	case *model.ObjectValue:
		return in.dialect.object(n.Raw, &in.acc)
	case *model.ListNode:
		items, err := in.all(n.Children)
		if err != nil {
			return nil, err
		}
		return in.dialect.list(n.Type, items, &in.acc), nil
	case *model.MapNode:
		values, err := in.all(n.Children)
		if err != nil {
			return nil, err
		}
		return in.dialect.mapping(n.Type, n.Keys, values, &in.acc), nil
	case *model.CompositeNode:
		if in.opts.ConstructorArgs {
			return in.construct(n)
		}
		setters, err := in.setters(n, nil)
		if err != nil {
			return nil, err
		}
		return in.dialect.build(n.Type, setters, &in.acc), nil
	}
	return nil, errors.Newf("emit: cannot initialize %T", n)
}

func (in *Initializer) all(nodes []model.Node) ([]Expr, error) {
	out := make([]Expr, len(nodes))
	for i, c := range nodes {
		e, err := in.Expr(c)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (in *Initializer) construct(n *model.CompositeNode) (Expr, error) {
	required := n.Type.RequiredProperties()
	positional := make(map[*model.Property]bool, len(required))
	args := make([]Expr, len(required))
	for i, p := range required {
		positional[p] = true
		child, ok := n.Binding(p)
		if !ok {
			args[i] = in.dialect.null(p.Type, &in.acc)
			continue
		}
		e, err := in.Expr(child)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", n.Type.Name, p.Name)
		}
		args[i] = e
	}
	setters, err := in.setters(n, positional)
	if err != nil {
		return nil, err
	}
	return in.dialect.construct(n.Type, args, setters, &in.acc), nil
}

func (in *Initializer) setters(n *model.CompositeNode, skip map[*model.Property]bool) ([]setter, error) {
	var out []setter
	for i, p := range n.Bindings {
		if skip[p] {
			continue
		}
		e, err := in.Expr(n.Children[i])
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", n.Type.Name, p.Name)
		}
		out = append(out, setter{prop: p, value: e})
	}
	return out, nil
}

// Imports returns the imports recorded so far.
func (in *Initializer) Imports() *ImportSet { return &in.acc.imports }

// Features returns the helper features recorded so far.
func (in *Initializer) Features() Feature { return in.acc.features }
