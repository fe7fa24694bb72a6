// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package model

import (
	"github.com/cockroachdb/errors"
)

// Node is one value of an example tree. The set of implementations is
// closed: *Literal, *ObjectValue, *ListNode, *MapNode and *CompositeNode.
//
// Trees are built once by [FromValue] or the constructors below and are not
// modified afterwards; emitters only read them.
type Node interface {
	sealedNode()
}

// Literal is a scalar of a primitive or enum type. Value holds the Go form
// of the scalar and is nil for null:
//
//	int        int32
//	long       int64
//	float      float32
//	double     float64
//	boolean    bool
//	string     string
//	date-time  time.Time
//	date       time.Time (midnight UTC)
//	duration   time.Duration
//	url        string
//	uuid       uuid.UUID
//	bytes      []byte
//	enum       string (the wire value)
//
// A null value of any other declared type is also a Literal.
type Literal struct {
	Type  Type
	Value any
}

// IsNull reports whether the literal is null.
func (n *Literal) IsNull() bool { return n.Value == nil }

// ObjectValue is an untyped value, as declared by the "any" type. Raw holds
// what YAML decoding produced: maps, slices and scalars.
type ObjectValue struct {
	Raw any
}

// ListNode is an ordered collection.
type ListNode struct {
	Type     *ListType
	Children []Node
}

// MapNode is a mapping. Keys and Children are parallel and keep source
// order.
type MapNode struct {
	Type     *MapType
	Keys     []string
	Children []Node
}

// CompositeNode is an object value. Children[i] is the value of
// Bindings[i]; the order is traversal order.
type CompositeNode struct {
	Type     *ObjectType
	Children []Node
	Bindings []*Property
}

func (*Literal) sealedNode()       {}
func (*ObjectValue) sealedNode()   {}
func (*ListNode) sealedNode()      {}
func (*MapNode) sealedNode()       {}
func (*CompositeNode) sealedNode() {}

// NewMapNode returns a map node after checking that keys and children line
// up and that no key repeats.
func NewMapNode(t *MapType, keys []string, children []Node) (*MapNode, error) {
	if len(keys) != len(children) {
		return nil, errors.Newf("map node: %d keys for %d children", len(keys), len(children))
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			return nil, errors.Newf("map node: duplicate key %q", k)
		}
		seen[k] = true
	}
	return &MapNode{Type: t, Keys: keys, Children: children}, nil
}

// NewCompositeNode returns a composite node after checking that every child
// is bound to exactly one settable property of t and that no property is
// bound twice.
func NewCompositeNode(t *ObjectType, children []Node, bindings []*Property) (*CompositeNode, error) {
	if len(children) != len(bindings) {
		return nil, errors.Newf("%s: %d children for %d bindings", t.Name, len(children), len(bindings))
	}
	owned := make(map[*Property]bool)
	for _, p := range t.AllProperties() {
		owned[p] = true
	}
	bound := make(map[*Property]bool, len(bindings))
	for _, p := range bindings {
		switch {
		case p == nil:
			return nil, errors.Newf("%s: child without a property", t.Name)
		case !owned[p]:
			return nil, errors.Newf("%s: property %q belongs to another type", t.Name, p.Name)
		case !p.Settable():
			return nil, errors.Newf("%s: property %q cannot be set", t.Name, p.Name)
		case bound[p]:
			return nil, errors.Newf("%s: property %q bound twice", t.Name, p.Name)
		}
		bound[p] = true
	}
	return &CompositeNode{Type: t, Children: children, Bindings: bindings}, nil
}

// Binding returns the child bound to p.
func (n *CompositeNode) Binding(p *Property) (Node, bool) {
	for i, b := range n.Bindings {
		if b == p {
			return n.Children[i], true
		}
	}
	return nil, false
}
