// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package model

import (
	"encoding/base64"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sosodev/duration"
	"gopkg.in/yaml.v3"
)

// DateLayout is the layout of date literals.
const DateLayout = "2006-01-02"

// FromValue derives the tree for an example value of type t. Mapping key
// order in v is kept. Keys that name no property, and keys of constant or
// read-only properties, are skipped. When t declares a discriminator, the
// subtype it names is used.
func FromValue(t Type, v *yaml.Node) (Node, error) {
	v = resolve(v)
	if v == nil || v.ShortTag() == "!!null" {
		return &Literal{Type: t, Value: nil}, nil
	}

	switch t := t.(type) {
	case *PrimitiveType:
		if t.Kind == KindAny {
			var raw any
			if err := v.Decode(&raw); err != nil {
				return nil, at(v, err)
			}
			return &ObjectValue{Raw: raw}, nil
		}
		if v.Kind != yaml.ScalarNode {
			return nil, at(v, errors.Newf("%s value must be a scalar", t.Kind))
		}
		val, err := ParseScalar(t.Kind, v.Value)
		if err != nil {
			return nil, at(v, err)
		}
		return &Literal{Type: t, Value: val}, nil

	case *EnumType:
		if v.Kind != yaml.ScalarNode {
			return nil, at(v, errors.Newf("%s value must be a scalar", t.Name))
		}
		if _, ok := t.Lookup(v.Value); !ok && !t.Expandable {
			return nil, at(v, errors.Newf("%q is not a value of %s", v.Value, t.Name))
		}
		return &Literal{Type: t, Value: v.Value}, nil

	case *ListType:
		if v.Kind != yaml.SequenceNode {
			return nil, at(v, errors.Newf("%s value must be a sequence", t))
		}
		children := make([]Node, 0, len(v.Content))
		for _, item := range v.Content {
			child, err := FromValue(t.Element, item)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return &ListNode{Type: t, Children: children}, nil

	case *MapType:
		if v.Kind != yaml.MappingNode {
			return nil, at(v, errors.Newf("%s value must be a mapping", t))
		}
		keys := make([]string, 0, len(v.Content)/2)
		children := make([]Node, 0, len(v.Content)/2)
		for i := 0; i+1 < len(v.Content); i += 2 {
			child, err := FromValue(t.Value, v.Content[i+1])
			if err != nil {
				return nil, err
			}
			keys = append(keys, v.Content[i].Value)
			children = append(children, child)
		}
		n, err := NewMapNode(t, keys, children)
		if err != nil {
			return nil, at(v, err)
		}
		return n, nil

	case *ObjectType:
		if v.Kind != yaml.MappingNode {
			return nil, at(v, errors.Newf("%s value must be a mapping", t.Name))
		}
		concrete := t
		if key := t.DiscriminatorProperty(); key != "" {
			if dv, ok := lookup(v, key); ok {
				if sub, ok := t.Subtype(dv.Value); ok {
					concrete = sub
				}
			}
		}
		var (
			children []Node
			bindings []*Property
		)
		for i := 0; i+1 < len(v.Content); i += 2 {
			p, ok := concrete.Property(v.Content[i].Value)
			if !ok || !p.Settable() {
				continue
			}
			child, err := FromValue(p.Type, v.Content[i+1])
			if err != nil {
				return nil, err
			}
			children = append(children, child)
			bindings = append(bindings, p)
		}
		n, err := NewCompositeNode(concrete, children, bindings)
		if err != nil {
			return nil, at(v, err)
		}
		return n, nil
	}
	return nil, at(v, errors.Newf("unsupported type %T", t))
}

// ParseScalar converts the text of a scalar into the Go form documented on
// [Literal].
func ParseScalar(k Kind, s string) (any, error) {
	switch k {
	case KindInt:
		n, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "int %q", s)
		}
		return int32(n), nil
	case KindLong:
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "long %q", s)
		}
		return n, nil
	case KindFloat:
		f, err := parseFloat(s, 32)
		if err != nil {
			return nil, err
		}
		return float32(f), nil
	case KindDouble:
		return parseFloat(s, 64)
	case KindBoolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errors.Wrapf(err, "boolean %q", s)
		}
		return b, nil
	case KindString:
		return s, nil
	case KindDateTime:
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, errors.Wrapf(err, "date-time %q", s)
		}
		return ts, nil
	case KindDate:
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			return nil, errors.Wrapf(err, "date %q", s)
		}
		return d, nil
	case KindDuration:
		d, err := duration.Parse(s)
		if err != nil {
			return nil, errors.Wrapf(err, "duration %q", s)
		}
		return d.ToTimeDuration(), nil
	case KindURL:
		u, err := url.Parse(s)
		if err != nil {
			return nil, errors.Wrapf(err, "url %q", s)
		}
		if !u.IsAbs() {
			return nil, errors.Newf("url %q is not absolute", s)
		}
		return s, nil
	case KindUUID:
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, errors.Wrapf(err, "uuid %q", s)
		}
		return id, nil
	case KindBytes:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, errors.Wrapf(err, "bytes %q", s)
		}
		return b, nil
	}
	return nil, errors.Newf("no scalar form for %s", k)
}

// parseFloat accepts Go float syntax and the YAML spellings of infinity and
// NaN.
func parseFloat(s string, bits int) (float64, error) {
	switch strings.ToLower(s) {
	case ".inf", "+.inf":
		return math.Inf(1), nil
	case "-.inf":
		return math.Inf(-1), nil
	case ".nan":
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(s, bits)
	if err != nil {
		return 0, errors.Wrapf(err, "float %q", s)
	}
	return f, nil
}

// resolve unwraps document and alias nodes.
func resolve(v *yaml.Node) *yaml.Node {
	for v != nil {
		switch v.Kind {
		case yaml.DocumentNode:
			if len(v.Content) == 0 {
				return nil
			}
			v = v.Content[0]
		case yaml.AliasNode:
			v = v.Alias
		default:
			return v
		}
	}
	return nil
}

// lookup returns the scalar stored under key in mapping v.
func lookup(v *yaml.Node, key string) (*yaml.Node, bool) {
	for i := 0; i+1 < len(v.Content); i += 2 {
		if v.Content[i].Value == key {
			val := resolve(v.Content[i+1])
			return val, val != nil && val.Kind == yaml.ScalarNode
		}
	}
	return nil, false
}

func at(v *yaml.Node, err error) error {
	return errors.Wrapf(err, "line %d", v.Line)
}
