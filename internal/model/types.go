// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package model defines the code model the emitters walk: declared types,
// example value trees derived from them, and client operations.
//
// Documents are written in YAML (or JSON, which is a subset) and loaded
// with [Load] or [Parse]. Mapping key order in the source is preserved in
// every derived tree, so emission is deterministic.
package model

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Type is a declared type. The set of implementations is closed:
// *PrimitiveType, *EnumType, *ListType, *MapType and *ObjectType.
type Type interface {
	// String returns the type expression as written in a document.
	String() string
	sealedType()
}

// Kind identifies a primitive type.
type Kind int

const (
	KindInt Kind = iota + 1
	KindLong
	KindFloat
	KindDouble
	KindBoolean
	KindString
	KindDateTime
	KindDate
	KindDuration
	KindURL
	KindUUID
	KindBytes
	KindAny
)

var kindNames = [...]string{
	KindInt:      "int",
	KindLong:     "long",
	KindFloat:    "float",
	KindDouble:   "double",
	KindBoolean:  "boolean",
	KindString:   "string",
	KindDateTime: "date-time",
	KindDate:     "date",
	KindDuration: "duration",
	KindURL:      "url",
	KindUUID:     "uuid",
	KindBytes:    "bytes",
	KindAny:      "any",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the kind named s.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name != "" && name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// PrimitiveType is a scalar type with a fixed literal form.
type PrimitiveType struct {
	Kind Kind
}

var primitives = func() map[Kind]*PrimitiveType {
	m := make(map[Kind]*PrimitiveType, len(kindNames))
	for k := KindInt; k <= KindAny; k++ {
		m[k] = &PrimitiveType{Kind: k}
	}
	return m
}()

// Primitive returns the shared instance for k.
func Primitive(k Kind) *PrimitiveType {
	if p, ok := primitives[k]; ok {
		return p
	}
	return &PrimitiveType{Kind: k}
}

func (t *PrimitiveType) String() string { return t.Kind.String() }
func (*PrimitiveType) sealedType()      {}

// EnumValue is one member of an enum.
type EnumValue struct {
	// Name is the member name as written, e.g. "red".
	Name string
	// Value is the wire value. It defaults to Name.
	Value string
}

// EnumType is a closed enum, or an expandable one that accepts values
// outside Values.
type EnumType struct {
	Name        string
	Package     string
	Description string
	Expandable  bool
	Values      []EnumValue
}

func (t *EnumType) String() string { return t.Name }
func (*EnumType) sealedType()      {}

// Lookup returns the member whose wire value is v.
func (t *EnumType) Lookup(v string) (EnumValue, bool) {
	for _, ev := range t.Values {
		if ev.Value == v {
			return ev, true
		}
	}
	return EnumValue{}, false
}

// ListType is an ordered collection.
type ListType struct {
	Element Type
}

func (t *ListType) String() string { return "list<" + t.Element.String() + ">" }
func (*ListType) sealedType()      {}

// MapType is a string-keyed mapping.
type MapType struct {
	Value Type
}

func (t *MapType) String() string { return "map<" + t.Value.String() + ">" }
func (*MapType) sealedType()      {}

// Property is one field of an object type.
type Property struct {
	Name string
	// SerializedName is the key used in example values. It defaults to Name.
	SerializedName string
	Type           Type
	Required       bool
	// Constant properties have a fixed value and are never set by callers.
	Constant bool
	// ConstantValue is the fixed value of a constant property.
	ConstantValue string
	ReadOnly      bool
	Description   string
}

// Settable reports whether callers can assign the property.
func (p *Property) Settable() bool {
	return !p.Constant && !p.ReadOnly
}

// ObjectType is a model class. Parent links form a single-inheritance
// hierarchy; the root may name a discriminator property that selects a
// subtype when deriving values.
type ObjectType struct {
	Name        string
	Package     string
	Description string
	Parent      *ObjectType
	Properties  []*Property

	Discriminator      string
	DiscriminatorValue string
	Children           []*ObjectType
}

func (t *ObjectType) String() string { return t.Name }
func (*ObjectType) sealedType()      {}

// Ancestors returns the parent chain, root first.
func (t *ObjectType) Ancestors() []*ObjectType {
	var chain []*ObjectType
	for p := t.Parent; p != nil; p = p.Parent {
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// AllProperties returns inherited properties, root-most ancestor first,
// followed by the type's own.
func (t *ObjectType) AllProperties() []*Property {
	var props []*Property
	for _, a := range t.Ancestors() {
		props = append(props, a.Properties...)
	}
	return append(props, t.Properties...)
}

// RequiredProperties returns the constructor parameters of the type: the
// required properties of every ancestor, root first, then its own, with
// constants excluded.
func (t *ObjectType) RequiredProperties() []*Property {
	var props []*Property
	for _, p := range t.AllProperties() {
		if p.Required && !p.Constant {
			props = append(props, p)
		}
	}
	return props
}

// Property returns the property serialized under key, searching the
// hierarchy.
func (t *ObjectType) Property(key string) (*Property, bool) {
	for _, p := range t.AllProperties() {
		if p.SerializedName == key {
			return p, true
		}
	}
	return nil, false
}

// DiscriminatorProperty returns the discriminator key declared by the
// nearest ancestor, or "".
func (t *ObjectType) DiscriminatorProperty() string {
	for o := t; o != nil; o = o.Parent {
		if o.Discriminator != "" {
			return o.Discriminator
		}
	}
	return ""
}

// Subtype returns the descendant, or t itself, whose discriminator value is
// v.
func (t *ObjectType) Subtype(v string) (*ObjectType, bool) {
	if t.DiscriminatorValue == v {
		return t, true
	}
	for _, c := range t.Children {
		if s, ok := c.Subtype(v); ok {
			return s, true
		}
	}
	return nil, false
}

// Polymorphic reports whether values of t may be a subtype.
func (t *ObjectType) Polymorphic() bool {
	return len(t.Children) > 0
}

// QualifiedName joins pkg and name with a dot, omitting an empty package.
func QualifiedName(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// ParseTypeExpr splits a type expression into its constructor and
// argument: "list<Pet>" yields ("list", "Pet"). Names yield (name, "").
func ParseTypeExpr(expr string) (ctor, arg string, err error) {
	expr = strings.TrimSpace(expr)
	open := strings.IndexByte(expr, '<')
	if open < 0 {
		if expr == "" || strings.ContainsAny(expr, ">, ") {
			return "", "", errors.Newf("invalid type %q", expr)
		}
		return expr, "", nil
	}
	if !strings.HasSuffix(expr, ">") {
		return "", "", errors.Newf("invalid type %q: missing '>'", expr)
	}
	ctor = strings.TrimSpace(expr[:open])
	arg = strings.TrimSpace(expr[open+1 : len(expr)-1])
	if ctor != "list" && ctor != "map" {
		return "", "", errors.Newf("invalid type %q: unknown constructor %q", expr, ctor)
	}
	if arg == "" {
		return "", "", errors.Newf("invalid type %q: missing element type", expr)
	}
	return ctor, arg, nil
}
