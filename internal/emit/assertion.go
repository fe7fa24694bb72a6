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

// Asserter renders statements that check a constructed value against its
// example tree. Collections are sampled: a list checks its first element
// and a map its first key, and untyped values are not checked at all.
type Asserter struct {
	dialect Dialect
	acc     accumulator
}

// NewAsserter returns an Asserter rendering in d.
func NewAsserter(d Dialect) *Asserter {
	return &Asserter{dialect: d}
}

// Assert renders the checks of n against the variable named accessor.
func (as *Asserter) Assert(n model.Node, accessor string) ([]string, error) {
	stmts, err := as.Statements(n, accessor)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.String()
	}
	return out, nil
}

// Statements is Assert returning dialect expressions.
func (as *Asserter) Statements(n model.Node, accessor string) ([]Expr, error) {
	var out []Expr
	err := as.walk(n, nil, as.dialect.ident(accessor), &out)
	return out, err
}

func (as *Asserter) walk(n model.Node, declared model.Type, acc Expr, out *[]Expr) error {
	switch n := n.(type) {
	case *model.Literal:
		if n.IsNull() {
			*out = append(*out, as.dialect.assertNull(acc, n.Type, &as.acc))
			return nil
		}
		expected, err := as.dialect.literal(n, &as.acc)
		if err != nil {
			return err
		}
		*out = append(*out, as.dialect.assertEqual(expected, acc, n.Type, &as.acc))
	case *model.ObjectValue:
	case *model.ListNode:
		if len(n.Children) > 0 {
			return as.walk(n.Children[0], n.Type.Element, as.dialect.index(acc, 0), out)
		}
	case *model.MapNode:
		if len(n.Keys) > 0 {
			return as.walk(n.Children[0], n.Type.Value, as.dialect.key(acc, n.Keys[0]), out)
		}
	case *model.CompositeNode:
		acc = as.dialect.narrow(acc, declared, n.Type, &as.acc)
		for i, p := range n.Bindings {
			if err := as.walk(n.Children[i], p.Type, as.dialect.field(acc, p), out); err != nil {
				return errors.Wrapf(err, "%s.%s", n.Type.Name, p.Name)
			}
		}
	default:
		return errors.Newf("emit: cannot assert %T", n)
	}
	return nil
}

// Imports returns the imports recorded so far.
func (as *Asserter) Imports() *ImportSet { return &as.acc.imports }

// Features returns the helper features recorded so far.
func (as *Asserter) Features() Feature { return as.acc.features }
