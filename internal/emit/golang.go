// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package emit

import (
	"encoding/json"
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dave/jennifer/jen"
	"github.com/google/uuid"

	"github.com/albertocavalcante/clientgen/internal/model"
	"github.com/albertocavalcante/clientgen/internal/naming"
)

const (
	goUUID   = "github.com/google/uuid"
	goAssert = "github.com/stretchr/testify/assert"
)

type goDialect struct{}

func (goDialect) Name() string { return "go" }

func code(e Expr) jen.Code {
	if s, ok := GoCode(e); ok {
		return s
	}
	return jen.Id(e.String())
}

func codes(es []Expr) []jen.Code {
	out := make([]jen.Code, len(es))
	for i, e := range es {
		out[i] = code(e)
	}
	return out
}

func (d goDialect) literal(n *model.Literal, a *accumulator) (Expr, error) {
	if n.IsNull() {
		return d.null(n.Type, a), nil
	}
	switch t := n.Type.(type) {
	case *model.EnumType:
		v, ok := n.Value.(string)
		if !ok {
			return nil, errors.Newf("emit: enum %s holds %T", t.Name, n.Value)
		}
		if t.Expandable {
			return goExpr{jen.Id(naming.Pascal(t.Name)).Call(jen.Lit(v))}, nil
		}
		ev, ok := t.Lookup(v)
		if !ok {
			return nil, errors.Newf("emit: %q is not a value of enum %s", v, t.Name)
		}
		return goExpr{jen.Id(GoEnumConst(t, ev))}, nil
	case *model.PrimitiveType:
		s, err := goScalar(t.Kind, n.Value, a)
		if err != nil {
			return nil, err
		}
		return goExpr{s}, nil
	}
	return nil, errors.Newf("emit: no literal form for %s", n.Type)
}

func goScalar(k model.Kind, v any, a *accumulator) (*jen.Statement, error) {
	bad := func() (*jen.Statement, error) {
		return nil, errors.Newf("emit: %s literal holds %T", k, v)
	}
	switch k {
	case model.KindInt, model.KindLong, model.KindBoolean, model.KindString, model.KindURL:
		switch v.(type) {
		case int32, int64, bool, string:
			return jen.Lit(v), nil
		}
		return bad()
	case model.KindFloat:
		f, ok := v.(float32)
		if !ok {
			return bad()
		}
		if s := goSpecialFloat(float64(f), a); s != nil {
			return jen.Float32().Call(s), nil
		}
		return jen.Lit(f), nil
	case model.KindDouble:
		f, ok := v.(float64)
		if !ok {
			return bad()
		}
		if s := goSpecialFloat(f, a); s != nil {
			return s, nil
		}
		return jen.Lit(f), nil
	case model.KindDateTime, model.KindDate:
		ts, ok := v.(time.Time)
		if !ok {
			return bad()
		}
		a.imports.Add("time")
		return goTime(ts), nil
	case model.KindDuration:
		d, ok := v.(time.Duration)
		if !ok {
			return bad()
		}
		a.imports.Add("time")
		return goDuration(d), nil
	case model.KindUUID:
		id, ok := v.(uuid.UUID)
		if !ok {
			return bad()
		}
		a.imports.Add(goUUID)
		return jen.Qual(goUUID, "MustParse").Call(jen.Lit(id.String())), nil
	case model.KindBytes:
		b, ok := v.([]byte)
		if !ok {
			return bad()
		}
		return jen.Index().Byte().Call(jen.Lit(string(b))), nil
	}
	return nil, errors.Newf("emit: no literal form for %s", k)
}

func goSpecialFloat(f float64, a *accumulator) *jen.Statement {
	switch {
	case math.IsNaN(f):
		a.imports.Add("math")
		return jen.Qual("math", "NaN").Call()
	case math.IsInf(f, 1):
		a.imports.Add("math")
		return jen.Qual("math", "Inf").Call(jen.Lit(1))
	case math.IsInf(f, -1):
		a.imports.Add("math")
		return jen.Qual("math", "Inf").Call(jen.Lit(-1))
	}
	return nil
}

func goTime(ts time.Time) *jen.Statement {
	name, off := ts.Zone()
	loc := jen.Qual("time", "UTC")
	if off != 0 || (name != "UTC" && name != "") {
		loc = jen.Qual("time", "FixedZone").Call(jen.Lit(name), jen.Lit(off))
	}
	return jen.Qual("time", "Date").Call(
		jen.Lit(ts.Year()), jen.Qual("time", ts.Month().String()), jen.Lit(ts.Day()),
		jen.Lit(ts.Hour()), jen.Lit(ts.Minute()), jen.Lit(ts.Second()), jen.Lit(ts.Nanosecond()),
		loc,
	)
}

func goDuration(d time.Duration) *jen.Statement {
	units := []struct {
		size time.Duration
		name string
	}{
		{time.Hour, "Hour"},
		{time.Minute, "Minute"},
		{time.Second, "Second"},
		{time.Millisecond, "Millisecond"},
	}
	if d != 0 {
		for _, u := range units {
			if d%u.size == 0 {
				return jen.Lit(int64(d / u.size)).Op("*").Qual("time", u.name)
			}
		}
	}
	return jen.Qual("time", "Duration").Call(jen.Lit(int64(d)))
}

func (goDialect) object(raw any, a *accumulator) (Expr, error) {
	switch v := raw.(type) {
	case nil:
		return goExpr{jen.Nil()}, nil
	case int, int32, int64, float32, float64, bool, string:
		return goExpr{jen.Lit(v)}, nil
	case json.Number:
		return goExpr{jen.Id(v.String())}, nil
	}
	text, err := canonicalJSON(raw)
	if err != nil {
		return nil, err
	}
	a.features |= FeatureReadJSON
	return goExpr{jen.Id("readJSON").Call(jen.Lit(text))}, nil
}

func (goDialect) null(t model.Type, a *accumulator) Expr {
	return goExpr{goZero(t, a)}
}

func goZero(t model.Type, a *accumulator) *jen.Statement {
	switch t := t.(type) {
	case *model.PrimitiveType:
		switch t.Kind {
		case model.KindInt:
			return jen.Lit(int32(0))
		case model.KindLong:
			return jen.Lit(int64(0))
		case model.KindFloat:
			return jen.Lit(float32(0))
		case model.KindDouble:
			return jen.Lit(0.0)
		case model.KindBoolean:
			return jen.False()
		case model.KindString, model.KindURL:
			return jen.Lit("")
		case model.KindDateTime, model.KindDate:
			a.imports.Add("time")
			return jen.Qual("time", "Time").Values()
		case model.KindDuration:
			a.imports.Add("time")
			return jen.Qual("time", "Duration").Call(jen.Lit(0))
		case model.KindUUID:
			a.imports.Add(goUUID)
			return jen.Qual(goUUID, "Nil")
		}
	case *model.EnumType:
		return jen.Id(naming.Pascal(t.Name)).Call(jen.Lit(""))
	}
	return jen.Nil()
}

func (goDialect) list(t *model.ListType, items []Expr, _ *accumulator) Expr {
	return goExpr{jen.Index().Add(GoType(t.Element)).Values(codes(items)...)}
}

func (goDialect) mapping(t *model.MapType, keys []string, values []Expr, _ *accumulator) Expr {
	pairs := make([]jen.Code, len(keys))
	for i, k := range keys {
		pairs[i] = jen.Lit(k).Op(":").Add(code(values[i]))
	}
	return goExpr{jen.Map(jen.String()).Add(GoType(t.Value)).Values(pairs...)}
}

func (goDialect) construct(t *model.ObjectType, args []Expr, setters []setter, _ *accumulator) Expr {
	s := jen.Id("New" + naming.Pascal(t.Name)).Call(codes(args)...)
	for _, st := range setters {
		s = s.Dot(GoSetter(st.prop)).Call(code(st.value))
	}
	return goExpr{s}
}

func (goDialect) build(t *model.ObjectType, setters []setter, _ *accumulator) Expr {
	fields := make([]jen.Code, len(setters))
	for i, st := range setters {
		fields[i] = jen.Id(GoField(st.prop)).Op(":").Add(code(st.value))
	}
	return goExpr{jen.Op("&").Id(naming.Pascal(t.Name)).Values(fields...)}
}

func (goDialect) ident(name string) Expr { return goExpr{jen.Id(name)} }

func (goDialect) assertEqual(expected, actual Expr, t model.Type, a *accumulator) Expr {
	a.imports.Add(goAssert)
	if p, ok := t.(*model.PrimitiveType); ok && (p.Kind == model.KindDateTime || p.Kind == model.KindDate) {
		// time.Time values carry a location pointer, so compare instants.
		eq := jen.Add(code(expected)).Dot("Equal").Call(code(actual))
		return goExpr{jen.Qual(goAssert, "True").Call(jen.Id("t"), eq)}
	}
	return goExpr{jen.Qual(goAssert, "Equal").Call(jen.Id("t"), code(expected), code(actual))}
}

func (goDialect) assertNull(actual Expr, _ model.Type, a *accumulator) Expr {
	a.imports.Add(goAssert)
	return goExpr{jen.Qual(goAssert, "Zero").Call(jen.Id("t"), code(actual))}
}

func (goDialect) index(acc Expr, i int) Expr {
	return goExpr{jen.Add(code(acc)).Index(jen.Lit(i))}
}

func (goDialect) key(acc Expr, k string) Expr {
	return goExpr{jen.Add(code(acc)).Index(jen.Lit(k))}
}

func (goDialect) field(acc Expr, p *model.Property) Expr {
	return goExpr{jen.Add(code(acc)).Dot(GoField(p))}
}

// narrow asserts the concrete type out of an interface-typed accessor.
func (goDialect) narrow(acc Expr, declared model.Type, concrete *model.ObjectType, _ *accumulator) Expr {
	d, ok := declared.(*model.ObjectType)
	if !ok || !d.Polymorphic() {
		return acc
	}
	return goExpr{jen.Add(code(acc)).Assert(jen.Op("*").Id(naming.Pascal(concrete.Name)))}
}

// GoType returns the Go type of t. Objects with subtypes are held as
// interface values; other objects as pointers.
func GoType(t model.Type) *jen.Statement {
	switch t := t.(type) {
	case *model.PrimitiveType:
		switch t.Kind {
		case model.KindInt:
			return jen.Int32()
		case model.KindLong:
			return jen.Int64()
		case model.KindFloat:
			return jen.Float32()
		case model.KindDouble:
			return jen.Float64()
		case model.KindBoolean:
			return jen.Bool()
		case model.KindString, model.KindURL:
			return jen.String()
		case model.KindDateTime, model.KindDate:
			return jen.Qual("time", "Time")
		case model.KindDuration:
			return jen.Qual("time", "Duration")
		case model.KindUUID:
			return jen.Qual(goUUID, "UUID")
		case model.KindBytes:
			return jen.Index().Byte()
		}
	case *model.EnumType:
		return jen.Id(naming.Pascal(t.Name))
	case *model.ListType:
		return jen.Index().Add(GoType(t.Element))
	case *model.MapType:
		return jen.Map(jen.String()).Add(GoType(t.Value))
	case *model.ObjectType:
		if t.Polymorphic() {
			return jen.Interface()
		}
		return jen.Op("*").Id(naming.Pascal(t.Name))
	}
	return jen.Interface()
}

// GoField returns the struct field name of p.
func GoField(p *model.Property) string { return naming.Pascal(p.Name) }

// GoSetter returns the fluent setter name of p.
func GoSetter(p *model.Property) string { return "With" + naming.Pascal(p.Name) }

// GoEnumConst returns the constant name of an enum value.
func GoEnumConst(t *model.EnumType, v model.EnumValue) string {
	return naming.Pascal(t.Name) + naming.Pascal(v.Name)
}
