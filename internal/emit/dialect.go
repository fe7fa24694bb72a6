// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package emit turns example value trees into target-language source text.
//
// Two visitors walk a model.Node tree: an Initializer renders the single
// expression that constructs the value, and an Asserter renders the
// statements that check a constructed value against it. Both record the
// imports and helper features their output depends on. Rendering itself is
// delegated to a Dialect, so the same walk produces Java or Go.
package emit

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/albertocavalcante/clientgen/internal/model"
)

// Expr is a rendered expression or statement.
type Expr interface {
	String() string
}

type javaExpr string

func (e javaExpr) String() string { return string(e) }

type goExpr struct {
	s *jen.Statement
}

func (e goExpr) String() string { return fmt.Sprintf("%#v", e.s) }

// GoCode returns the jennifer statement behind an expression rendered by
// the Go dialect.
func GoCode(e Expr) (*jen.Statement, bool) {
	g, ok := e.(goExpr)
	if !ok {
		return nil, false
	}
	return g.s, true
}

// setter binds a non-positional property in a composite initializer.
type setter struct {
	prop  *model.Property
	value Expr
}

// Dialect renders the pieces the visitors assemble. The method set is
// unexported; Java and Go are the only implementations.
type Dialect interface {
	// Name identifies the dialect in diagnostics.
	Name() string

	literal(n *model.Literal, a *accumulator) (Expr, error)
	object(raw any, a *accumulator) (Expr, error)
	null(t model.Type, a *accumulator) Expr
	list(t *model.ListType, items []Expr, a *accumulator) Expr
	mapping(t *model.MapType, keys []string, values []Expr, a *accumulator) Expr
	construct(t *model.ObjectType, args []Expr, setters []setter, a *accumulator) Expr
	build(t *model.ObjectType, setters []setter, a *accumulator) Expr

	ident(name string) Expr
	assertEqual(expected, actual Expr, t model.Type, a *accumulator) Expr
	assertNull(actual Expr, t model.Type, a *accumulator) Expr
	index(acc Expr, i int) Expr
	key(acc Expr, k string) Expr
	field(acc Expr, p *model.Property) Expr
	narrow(acc Expr, declared model.Type, concrete *model.ObjectType, a *accumulator) Expr
}

var (
	// Java renders Java source.
	Java Dialect = javaDialect{}
	// Go renders Go source through jennifer.
	Go Dialect = goDialect{}
)

// ByName returns the dialect called name.
func ByName(name string) (Dialect, bool) {
	switch name {
	case "java":
		return Java, true
	case "go", "golang":
		return Go, true
	}
	return nil, false
}
