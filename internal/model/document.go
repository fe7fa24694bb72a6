// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package model

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Document is a loaded code model.
type Document struct {
	// Package is the default package of declared types and clients.
	Package string

	// Types holds the named types (*ObjectType and *EnumType) in
	// declaration order.
	Types []Type

	Examples []*Example
	Clients  []*Client

	byName map[string]Type
}

// Lookup resolves a type expression such as "Pet", "list<int>" or
// "map<list<Pet>>".
func (d *Document) Lookup(expr string) (Type, error) {
	ctor, arg, err := ParseTypeExpr(expr)
	if err != nil {
		return nil, err
	}
	switch ctor {
	case "list":
		elem, err := d.Lookup(arg)
		if err != nil {
			return nil, err
		}
		return &ListType{Element: elem}, nil
	case "map":
		val, err := d.Lookup(arg)
		if err != nil {
			return nil, err
		}
		return &MapType{Value: val}, nil
	}
	if k, ok := ParseKind(ctor); ok {
		return Primitive(k), nil
	}
	if t, ok := d.byName[ctor]; ok {
		return t, nil
	}
	return nil, errors.Newf("unknown type %q", ctor)
}

// Objects returns the declared object types in declaration order.
func (d *Document) Objects() []*ObjectType {
	var out []*ObjectType
	for _, t := range d.Types {
		if o, ok := t.(*ObjectType); ok {
			out = append(out, o)
		}
	}
	return out
}

// Enums returns the declared enums in declaration order.
func (d *Document) Enums() []*EnumType {
	var out []*EnumType
	for _, t := range d.Types {
		if e, ok := t.(*EnumType); ok {
			out = append(out, e)
		}
	}
	return out
}

// Example returns the example named name.
func (d *Document) Example(name string) (*Example, bool) {
	for _, ex := range d.Examples {
		if ex.Name == name {
			return ex, true
		}
	}
	return nil, false
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read model")
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return doc, nil
}

type rawDocument struct {
	Package  string      `yaml:"package"`
	Types    []yaml.Node `yaml:"types"`
	Examples []yaml.Node `yaml:"examples"`
	Clients  []yaml.Node `yaml:"clients"`
}

type rawType struct {
	Name               string         `yaml:"name"`
	Kind               string         `yaml:"kind"`
	Package            string         `yaml:"package"`
	Description        string         `yaml:"description"`
	Parent             string         `yaml:"parent"`
	Discriminator      string         `yaml:"discriminator"`
	DiscriminatorValue string         `yaml:"discriminatorValue"`
	Expandable         bool           `yaml:"expandable"`
	Values             []rawEnumValue `yaml:"values"`
	Properties         []yaml.Node    `yaml:"properties"`
}

type rawEnumValue struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// UnmarshalYAML accepts a bare scalar as shorthand for {name: s}.
func (v *rawEnumValue) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		v.Name = n.Value
		return nil
	}
	type plain rawEnumValue
	return n.Decode((*plain)(v))
}

type rawProperty struct {
	Name           string `yaml:"name"`
	SerializedName string `yaml:"serializedName"`
	Type           string `yaml:"type"`
	Required       bool   `yaml:"required"`
	Constant       bool   `yaml:"constant"`
	Value          string `yaml:"value"`
	ReadOnly       bool   `yaml:"readOnly"`
	Description    string `yaml:"description"`
}

type rawExample struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Type        string    `yaml:"type"`
	Value       yaml.Node `yaml:"value"`
}

type rawClient struct {
	Name        string      `yaml:"name"`
	Package     string      `yaml:"package"`
	Description string      `yaml:"description"`
	Operations  []yaml.Node `yaml:"operations"`
}

type rawOperation struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Parameters  []struct {
		Name     string `yaml:"name"`
		Type     string `yaml:"type"`
		Required bool   `yaml:"required"`
	} `yaml:"parameters"`
	Response string `yaml:"response"`
	Paging   *struct {
		ItemName     string `yaml:"itemName"`
		NextLinkName string `yaml:"nextLinkName"`
	} `yaml:"paging"`
	LongRunning bool `yaml:"longRunning"`
}

// Parse parses a YAML or JSON document.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode document")
	}
	d := &Document{Package: raw.Package, byName: make(map[string]Type)}

	types := make([]rawType, len(raw.Types))
	for i := range raw.Types {
		if err := decodeAt(&raw.Types[i], &types[i]); err != nil {
			return nil, err
		}
	}
	if err := d.declare(raw.Types, types); err != nil {
		return nil, err
	}
	if err := d.link(raw.Types, types); err != nil {
		return nil, err
	}
	for i, rt := range types {
		if err := d.properties(&raw.Types[i], rt); err != nil {
			return nil, err
		}
	}
	for i := range raw.Examples {
		if err := d.example(&raw.Examples[i]); err != nil {
			return nil, err
		}
	}
	for i := range raw.Clients {
		if err := d.client(&raw.Clients[i]); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// declare creates every named type so that references may point forward.
func (d *Document) declare(nodes []yaml.Node, types []rawType) error {
	for i, rt := range types {
		n := &nodes[i]
		if rt.Name == "" {
			return at(n, errors.New("type without a name"))
		}
		if _, ok := ParseKind(rt.Name); ok {
			return at(n, errors.Newf("type %q shadows a primitive", rt.Name))
		}
		if _, ok := d.byName[rt.Name]; ok {
			return at(n, errors.Newf("type %q declared twice", rt.Name))
		}
		pkg := rt.Package
		if pkg == "" {
			pkg = d.Package
		}

		var t Type
		switch rt.Kind {
		case "", "object":
			t = &ObjectType{
				Name:               rt.Name,
				Package:            pkg,
				Description:        rt.Description,
				Discriminator:      rt.Discriminator,
				DiscriminatorValue: rt.DiscriminatorValue,
			}
		case "enum":
			e := &EnumType{Name: rt.Name, Package: pkg, Description: rt.Description, Expandable: rt.Expandable}
			for _, v := range rt.Values {
				if v.Value == "" {
					v.Value = v.Name
				}
				e.Values = append(e.Values, EnumValue(v))
			}
			if len(e.Values) == 0 {
				return at(n, errors.Newf("enum %q has no values", rt.Name))
			}
			t = e
		default:
			return at(n, errors.Newf("type %q: unknown kind %q", rt.Name, rt.Kind))
		}
		d.byName[rt.Name] = t
		d.Types = append(d.Types, t)
	}
	return nil
}

// link connects parents and children and rejects inheritance cycles.
func (d *Document) link(nodes []yaml.Node, types []rawType) error {
	for i, rt := range types {
		if rt.Parent == "" {
			continue
		}
		n := &nodes[i]
		child, ok := d.byName[rt.Name].(*ObjectType)
		if !ok {
			return at(n, errors.Newf("enum %q cannot have a parent", rt.Name))
		}
		parent, ok := d.byName[rt.Parent].(*ObjectType)
		if !ok {
			return at(n, errors.Newf("type %q: parent %q is not a declared object", rt.Name, rt.Parent))
		}
		child.Parent = parent
		parent.Children = append(parent.Children, child)
	}
	for _, t := range d.Objects() {
		seen := map[*ObjectType]bool{t: true}
		for p := t.Parent; p != nil; p = p.Parent {
			if seen[p] {
				return errors.Newf("type %q: inheritance cycle", t.Name)
			}
			seen[p] = true
		}
	}
	return nil
}

func (d *Document) properties(n *yaml.Node, rt rawType) error {
	if len(rt.Properties) == 0 {
		return nil
	}
	o, ok := d.byName[rt.Name].(*ObjectType)
	if !ok {
		return at(n, errors.Newf("enum %q cannot have properties", rt.Name))
	}
	for i := range rt.Properties {
		pn := &rt.Properties[i]
		var rp rawProperty
		if err := decodeAt(pn, &rp); err != nil {
			return err
		}
		if rp.Name == "" {
			return at(pn, errors.Newf("%s: property without a name", o.Name))
		}
		t, err := d.Lookup(rp.Type)
		if err != nil {
			return at(pn, errors.Wrapf(err, "%s.%s", o.Name, rp.Name))
		}
		if rp.SerializedName == "" {
			rp.SerializedName = rp.Name
		}
		if _, dup := o.Property(rp.SerializedName); dup {
			return at(pn, errors.Newf("%s: property %q declared twice", o.Name, rp.SerializedName))
		}
		o.Properties = append(o.Properties, &Property{
			Name:           rp.Name,
			SerializedName: rp.SerializedName,
			Type:           t,
			Required:       rp.Required,
			Constant:       rp.Constant,
			ConstantValue:  rp.Value,
			ReadOnly:       rp.ReadOnly,
			Description:    rp.Description,
		})
	}
	return nil
}

func (d *Document) example(n *yaml.Node) error {
	var re rawExample
	if err := decodeAt(n, &re); err != nil {
		return err
	}
	if re.Name == "" {
		return at(n, errors.New("example without a name"))
	}
	if _, dup := d.Example(re.Name); dup {
		return at(n, errors.Newf("example %q declared twice", re.Name))
	}
	t, err := d.Lookup(re.Type)
	if err != nil {
		return at(n, errors.Wrapf(err, "example %q", re.Name))
	}
	val, err := FromValue(t, &re.Value)
	if err != nil {
		return errors.Wrapf(err, "example %q", re.Name)
	}
	d.Examples = append(d.Examples, &Example{
		Name:        re.Name,
		Description: re.Description,
		Type:        t,
		Value:       val,
		Line:        n.Line,
	})
	return nil
}

func (d *Document) client(n *yaml.Node) error {
	var rc rawClient
	if err := decodeAt(n, &rc); err != nil {
		return err
	}
	if rc.Name == "" {
		return at(n, errors.New("client without a name"))
	}
	c := &Client{Name: rc.Name, Package: rc.Package, Description: rc.Description}
	if c.Package == "" {
		c.Package = d.Package
	}
	for i := range rc.Operations {
		on := &rc.Operations[i]
		op, err := d.operation(on)
		if err != nil {
			return at(on, errors.Wrapf(err, "client %q", rc.Name))
		}
		c.Operations = append(c.Operations, op)
	}
	d.Clients = append(d.Clients, c)
	return nil
}

func (d *Document) operation(n *yaml.Node) (*Operation, error) {
	var ro rawOperation
	if err := n.Decode(&ro); err != nil {
		return nil, err
	}
	if ro.Name == "" {
		return nil, errors.New("operation without a name")
	}
	op := &Operation{Name: ro.Name, Description: ro.Description, LongRunning: ro.LongRunning}
	for _, rp := range ro.Parameters {
		t, err := d.Lookup(rp.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "%s(%s)", ro.Name, rp.Name)
		}
		op.Parameters = append(op.Parameters, &Parameter{Name: rp.Name, Type: t, Required: rp.Required})
	}
	if ro.Response != "" {
		t, err := d.Lookup(ro.Response)
		if err != nil {
			return nil, errors.Wrapf(err, "%s response", ro.Name)
		}
		op.Response = t
	}
	if ro.Paging != nil {
		p := &Paging{ItemName: ro.Paging.ItemName, NextLinkName: ro.Paging.NextLinkName}
		if p.ItemName == "" {
			p.ItemName = "value"
		}
		if p.NextLinkName == "" {
			p.NextLinkName = "nextLink"
		}
		page, ok := op.Response.(*ObjectType)
		if !ok {
			return nil, errors.Newf("%s: paged response must be an object", ro.Name)
		}
		items, ok := page.Property(p.ItemName)
		if !ok {
			return nil, errors.Newf("%s: page %s has no %q property", ro.Name, page.Name, p.ItemName)
		}
		list, ok := items.Type.(*ListType)
		if !ok {
			return nil, errors.Newf("%s: %s.%s is not a list", ro.Name, page.Name, p.ItemName)
		}
		p.Item = list.Element
		op.Paging = p
	}
	return op, nil
}

func decodeAt(n *yaml.Node, v any) error {
	if err := n.Decode(v); err != nil {
		return at(n, err)
	}
	return nil
}
