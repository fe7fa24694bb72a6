// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package emit

import (
	"bytes"
	"go/token"

	"github.com/cockroachdb/errors"
	"github.com/dave/jennifer/jen"

	"github.com/albertocavalcante/clientgen/internal/model"
	"github.com/albertocavalcante/clientgen/internal/naming"
)

func goFile(h Header, pkg string) *jen.File {
	f := jen.NewFile(pkg)
	for _, l := range h.Lines() {
		f.HeaderComment(l)
	}
	return f
}

func render(f *jen.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, errors.Wrap(err, "emit: render go source")
	}
	return buf.Bytes(), nil
}

// goParam returns a parameter name for p that is not a Go keyword.
func goParam(name string) string {
	s := naming.Camel(name)
	if token.IsKeyword(s) {
		return s + "_"
	}
	return s
}

// GoModels renders the Go declarations of types into one file of package
// pkg. Inherited properties are flattened into each struct; constant
// properties become methods returning their value.
func GoModels(h Header, pkg string, types []model.Type) ([]byte, error) {
	f := goFile(h, pkg)
	var acc accumulator
	for _, t := range types {
		switch t := t.(type) {
		case *model.EnumType:
			goEnum(f, t)
		case *model.ObjectType:
			if err := goStruct(f, t, &acc); err != nil {
				return nil, errors.Wrap(err, t.Name)
			}
		}
	}
	return render(f)
}

func goEnum(f *jen.File, t *model.EnumType) {
	name := naming.Pascal(t.Name)
	f.Comment(name + " " + docOr(t.Description, "defines values for "+t.Name+"."))
	f.Type().Id(name).String()

	defs := make([]jen.Code, len(t.Values))
	all := make([]jen.Code, len(t.Values))
	for i, v := range t.Values {
		defs[i] = jen.Id(GoEnumConst(t, v)).Id(name).Op("=").Lit(v.Value)
		all[i] = jen.Id(GoEnumConst(t, v))
	}
	f.Const().Defs(defs...)

	f.Comment(name + "Values returns the known values of " + name + ".")
	f.Func().Id(name + "Values").Params().Index().Id(name).Block(
		jen.Return(jen.Index().Id(name).Values(all...)),
	)
}

func goStruct(f *jen.File, t *model.ObjectType, acc *accumulator) error {
	name := naming.Pascal(t.Name)
	recv := jen.Id("m").Op("*").Id(name)

	var fields []jen.Code
	for _, p := range t.AllProperties() {
		if p.Constant {
			continue
		}
		fields = append(fields, jen.Id(GoField(p)).Add(GoType(p.Type)).Tag(map[string]string{"json": p.SerializedName + ",omitempty"}))
	}
	f.Comment(name + " " + docOr(t.Description, "is the "+t.Name+" model."))
	f.Type().Id(name).Struct(fields...)

	required := t.RequiredProperties()
	params := make([]jen.Code, len(required))
	dict := jen.Dict{}
	for i, p := range required {
		params[i] = jen.Id(goParam(p.Name)).Add(GoType(p.Type))
		dict[jen.Id(GoField(p))] = jen.Id(goParam(p.Name))
	}
	f.Comment("New" + name + " returns a " + name + " with its required properties set.")
	f.Func().Id("New"+name).Params(params...).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(dict)),
	)

	for _, p := range t.AllProperties() {
		if p.Constant {
			value := p.ConstantValue
			if d := discriminatorOverride(t); d == p {
				value = t.DiscriminatorValue
			}
			lit, err := constantLiteral(p.Type, value)
			if err != nil {
				return errors.Wrap(err, p.Name)
			}
			e, err := Go.literal(lit, acc)
			if err != nil {
				return errors.Wrap(err, p.Name)
			}
			f.Comment(GoField(p) + " returns the fixed " + p.SerializedName + " value.")
			f.Func().Params(jen.Op("*").Id(name)).Id(GoField(p)).Params().Add(GoType(p.Type)).Block(
				jen.Return(code(e)),
			)
			continue
		}
		if !p.Settable() {
			continue
		}
		f.Func().Params(recv.Clone()).Id(GoSetter(p)).Params(jen.Id("v").Add(GoType(p.Type))).Op("*").Id(name).Block(
			jen.Id("m").Dot(GoField(p)).Op("=").Id("v"),
			jen.Return(jen.Id("m")),
		)
	}
	return nil
}

// GoOperationName returns the method name of op.
func GoOperationName(op *model.Operation) string {
	name := naming.Pascal(op.Name)
	if op.LongRunning {
		return "Begin" + name
	}
	return name
}

// GoClient renders the Go interface of c. Paged operations return an
// iterator over items; long-running ones return a Poller.
func GoClient(h Header, pkg string, c *model.Client) ([]byte, error) {
	f := goFile(h, pkg)
	poller := false

	methods := make([]jen.Code, 0, len(c.Operations))
	for _, op := range c.Operations {
		params := []jen.Code{jen.Id("ctx").Qual("context", "Context")}
		for _, p := range op.Parameters {
			typ := GoType(p.Type)
			switch p.Type.(type) {
			case *model.PrimitiveType, *model.EnumType:
				if !p.Required {
					typ = jen.Op("*").Add(typ)
				}
			}
			params = append(params, jen.Id(goParam(p.Name)).Add(typ))
		}

		m := jen.Comment(GoOperationName(op) + " " + docOr(op.Description, "calls "+op.Name+".")).Line().Id(GoOperationName(op)).Params(params...)
		switch {
		case op.Paging != nil:
			m.Qual("iter", "Seq2").Types(GoType(op.Paging.Item), jen.Error())
		case op.LongRunning:
			poller = true
			r := jen.Struct()
			if op.Response != nil {
				r = GoType(op.Response)
			}
			m.Params(jen.Id("Poller").Types(r), jen.Error())
		case op.Response != nil:
			m.Params(GoType(op.Response), jen.Error())
		default:
			m.Error()
		}
		methods = append(methods, m)
	}

	name := naming.Pascal(c.Name)
	f.Comment(name + " " + docOr(c.Description, "is the "+c.Name+" client."))
	f.Type().Id(name).Interface(methods...)

	if poller {
		f.Comment("Poller tracks a long-running operation.")
		f.Type().Id("Poller").Types(jen.Id("T").Id("any")).Interface(
			jen.Id("Done").Params().Bool(),
			jen.Id("Poll").Params(jen.Id("ctx").Qual("context", "Context")).Error(),
			jen.Id("Result").Params(jen.Id("ctx").Qual("context", "Context")).Params(jen.Id("T"), jen.Error()),
		)
	}
	return render(f)
}

// GoFixtureFunc returns the test function name for ex.
func GoFixtureFunc(ex *model.Example) string {
	return "Test" + naming.Pascal(ex.Name)
}

// GoFixture renders a Go test file of package pkg that constructs the
// example value and checks it. It reports the helper features the file
// depends on; GoHelpers renders them once per package.
func GoFixture(h Header, ex *model.Example, pkg string, opts Options) ([]byte, Feature, error) {
	in := NewInitializer(Go, opts)
	init, err := in.Expr(ex.Value)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "example %s", ex.Name)
	}
	as := NewAsserter(Go)
	stmts, err := as.Statements(ex.Value, FixtureVar)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "example %s", ex.Name)
	}

	body := []jen.Code{jen.Id(FixtureVar).Op(":=").Add(code(init))}
	body = append(body, codes(stmts)...)
	if len(stmts) == 0 {
		body = append(body, jen.Id("_").Op("=").Id(FixtureVar))
	}

	f := goFile(h, pkg)
	f.Func().Id(GoFixtureFunc(ex)).Params(jen.Id("t").Op("*").Qual("testing", "T")).Block(body...)
	out, err := render(f)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "example %s", ex.Name)
	}
	return out, in.Features() | as.Features(), nil
}

// GoHelpers renders the helpers features call for, or nil when none is
// needed.
func GoHelpers(h Header, pkg string, features Feature) ([]byte, error) {
	if !features.Has(FeatureReadJSON) {
		return nil, nil
	}
	f := goFile(h, pkg)
	f.Func().Id("readJSON").Params(jen.Id("s").String()).Id("any").Block(
		jen.Var().Id("v").Id("any"),
		jen.If(
			jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Index().Byte().Call(jen.Id("s")), jen.Op("&").Id("v")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Panic(jen.Err())),
		jen.Return(jen.Id("v")),
	)
	return render(f)
}
