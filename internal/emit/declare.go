// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package emit

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/albertocavalcante/clientgen/internal/codewriter"
	"github.com/albertocavalcante/clientgen/internal/model"
	"github.com/albertocavalcante/clientgen/internal/naming"
)

const (
	javaPagedIterable = "com.azure.core.http.rest.PagedIterable"
	javaSyncPoller    = "com.azure.core.util.polling.SyncPoller"
	javaObjects       = "java.util.Objects"
)

// Header is the provenance written at the top of every generated file.
type Header struct {
	// Source names the model document, when known.
	Source string
}

// Lines returns the header as comment lines.
func (h Header) Lines() []string {
	lines := []string{"// Code generated by clientgen. DO NOT EDIT."}
	if h.Source != "" {
		lines = append(lines, "// Source: "+h.Source)
	}
	return lines
}

// javaUnit assembles a compilation unit around body. Imports from pkg
// itself and from java.lang are dropped.
func javaUnit(h Header, pkg string, imports *ImportSet, body string) []byte {
	w := codewriter.New()
	for _, l := range h.Lines() {
		w.Line(l)
	}
	w.Blank()
	if pkg != "" {
		w.Line("package " + pkg + ";")
		w.Blank()
	}
	var kept []string
	for _, p := range imports.Sorted() {
		dot := strings.LastIndexByte(p, '.')
		if dot < 0 || p[:dot] == pkg || p[:dot] == "java.lang" {
			continue
		}
		kept = append(kept, p)
	}
	for _, p := range kept {
		w.Line("import " + p + ";")
	}
	if len(kept) > 0 {
		w.Blank()
	}
	w.Line(strings.TrimSuffix(body, "\n"))
	return w.Finish()
}

func docOr(desc, fallback string) string {
	if desc != "" {
		return desc
	}
	return fallback
}

// DeclareClass renders the Java class of t. The constructor takes the
// required properties when opts.ConstructorArgs is set and nothing
// otherwise, matching what Initializer emits under the same options.
func DeclareClass(h Header, t *model.ObjectType, opts Options) ([]byte, error) {
	var imports ImportSet
	var acc accumulator
	w := codewriter.New()

	own := make(map[*model.Property]bool, len(t.Properties))
	for _, p := range t.Properties {
		own[p] = true
	}

	header := "public class " + t.Name
	if t.Parent != nil {
		header += " extends " + t.Parent.Name
		imports.Add(model.QualifiedName(t.Parent.Package, t.Parent.Name))
	}

	var err error
	w.DocComment(docOr(t.Description, "The "+t.Name+" model."))
	w.Class(header, func() {
		for _, p := range t.Properties {
			typ := JavaType(p.Type, &imports)
			if !p.Constant {
				w.Linef("private %s %s;", typ, naming.JavaName(p.Name))
				continue
			}
			lit, cerr := constantLiteral(p.Type, p.ConstantValue)
			if cerr != nil {
				err = errors.Wrapf(cerr, "%s.%s", t.Name, p.Name)
				continue
			}
			value, cerr := Java.literal(lit, &acc)
			if cerr != nil {
				err = errors.Wrapf(cerr, "%s.%s", t.Name, p.Name)
				continue
			}
			w.Linef("private final %s %s = %s;", typ, naming.JavaName(p.Name), value)
		}

		var required, inherited []*model.Property
		if opts.ConstructorArgs {
			required = t.RequiredProperties()
			if t.Parent != nil {
				inherited = t.Parent.RequiredProperties()
			}
		}
		params := make([]string, len(required))
		doc := []string{"Creates an instance of " + t.Name + "."}
		if len(required) > 0 {
			doc = append(doc, "")
		}
		for i, p := range required {
			name := naming.JavaName(p.Name)
			params[i] = JavaType(p.Type, &imports) + " " + name
			doc = append(doc, "@param "+name+" the "+name+" value.")
		}
		w.DocComment(strings.Join(doc, "\n"))
		w.Method("public "+t.Name+"("+strings.Join(params, ", ")+")", func() {
			if len(inherited) > 0 {
				names := make([]string, len(inherited))
				for i, p := range inherited {
					names[i] = naming.JavaName(p.Name)
				}
				w.Line("super(" + strings.Join(names, ", ") + ");")
			}
			for _, p := range required {
				if own[p] {
					name := naming.JavaName(p.Name)
					w.Linef("this.%s = %s;", name, name)
				}
			}
		})

		for _, p := range t.Properties {
			typ := JavaType(p.Type, &imports)
			name := naming.JavaName(p.Name)
			w.DocComment("Get the " + name + " property: " + docOr(p.Description, "the "+name+" value.") + "\n\n@return the " + name + " value.")
			w.Method("public "+typ+" "+JavaGetter(p)+"()", func() {
				w.Line("return this." + name + ";")
			})
			if !p.Settable() {
				continue
			}
			w.DocComment("Set the " + name + " property.\n\n@param " + name + " the " + name + " value to set.\n@return the " + t.Name + " object itself.")
			w.Method("public "+t.Name+" "+JavaSetter(p)+"("+typ+" "+name+")", func() {
				w.Line("this." + name + " = " + name + ";")
				w.Line("return this;")
			})
		}

		for _, p := range t.AllProperties() {
			if own[p] || !p.Settable() {
				continue
			}
			typ := JavaType(p.Type, &imports)
			name := naming.JavaName(p.Name)
			w.Annotation("Override")
			w.Method("public "+t.Name+" "+JavaSetter(p)+"("+typ+" "+name+")", func() {
				w.Line("super." + JavaSetter(p) + "(" + name + ");")
				w.Line("return this;")
			})
		}

		if d := discriminatorOverride(t); d != nil {
			lit, derr := constantLiteral(d.Type, t.DiscriminatorValue)
			if derr == nil {
				var value Expr
				value, derr = Java.literal(lit, &acc)
				if derr == nil {
					w.Annotation("Override")
					w.Method("public "+JavaType(d.Type, &imports)+" "+JavaGetter(d)+"()", func() {
						w.Line("return " + value.String() + ";")
					})
				}
			}
			if derr != nil {
				err = errors.Wrapf(derr, "%s discriminator", t.Name)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	imports.Merge(&acc.imports)
	return javaUnit(h, t.Package, &imports, w.String()), nil
}

// discriminatorOverride returns the inherited constant discriminator
// property a subtype must report its own value for.
func discriminatorOverride(t *model.ObjectType) *model.Property {
	if t.Parent == nil || t.DiscriminatorValue == "" {
		return nil
	}
	p, ok := t.Parent.Property(t.DiscriminatorProperty())
	if !ok || !p.Constant {
		return nil
	}
	return p
}

// constantLiteral builds the literal a constant property is fixed to.
func constantLiteral(t model.Type, text string) (*model.Literal, error) {
	switch t := t.(type) {
	case *model.EnumType:
		return &model.Literal{Type: t, Value: text}, nil
	case *model.PrimitiveType:
		v, err := model.ParseScalar(t.Kind, text)
		if err != nil {
			return nil, err
		}
		return &model.Literal{Type: t, Value: v}, nil
	}
	return nil, errors.Newf("emit: constant of type %s", t)
}

// DeclareEnum renders the Java type of t: an enum when closed, a final
// class with interned instances when expandable.
func DeclareEnum(h Header, t *model.EnumType) []byte {
	w := codewriter.New()
	w.DocComment(docOr(t.Description, "Defines values for "+t.Name+"."))
	if t.Expandable {
		w.Class("public final class "+t.Name, func() {
			for _, v := range t.Values {
				w.DocComment("Static value " + v.Value + " for " + t.Name + ".")
				w.Linef("public static final %s %s = fromString(%s);", t.Name, naming.ScreamingSnake(v.Name), javaQuote(v.Value))
			}
			w.Blank()
			w.Line("private final String value;")
			w.Method("private "+t.Name+"(String value)", func() {
				w.Line("this.value = value;")
			})
			w.DocComment("Creates or finds a " + t.Name + " from its string representation.\n\n@param value a name to look for.\n@return the corresponding " + t.Name + ".")
			w.Method("public static "+t.Name+" fromString(String value)", func() {
				w.Line("return value == null ? null : new " + t.Name + "(value);")
			})
			w.Annotation("Override")
			w.Method("public String toString()", func() {
				w.Line("return this.value;")
			})
			w.Annotation("Override")
			w.Method("public boolean equals(Object obj)", func() {
				w.Linef("return obj instanceof %s && ((%s) obj).value.equals(this.value);", t.Name, t.Name)
			})
			w.Annotation("Override")
			w.Method("public int hashCode()", func() {
				w.Line("return this.value.hashCode();")
			})
		})
		return javaUnit(h, t.Package, &ImportSet{}, w.String())
	}

	w.Class("public enum "+t.Name, func() {
		for i, v := range t.Values {
			sep := ","
			if i == len(t.Values)-1 {
				sep = ";"
			}
			w.DocComment("Enum value " + v.Value + ".")
			w.Linef("%s(%s)%s", naming.ScreamingSnake(v.Name), javaQuote(v.Value), sep)
		}
		w.Blank()
		w.Line("private final String value;")
		w.Method(t.Name+"(String value)", func() {
			w.Line("this.value = value;")
		})
		w.DocComment("Parses a serialized value to a " + t.Name + " instance.\n\n@param value the serialized value to parse.\n@return the parsed " + t.Name + " object, or null if unmatched.")
		w.Method("public static "+t.Name+" fromString(String value)", func() {
			w.Block("for ("+t.Name+" item : "+t.Name+".values())", func() {
				w.Block("if (item.value.equals(value))", func() {
					w.Line("return item;")
				})
			})
			w.Line("return null;")
		})
		w.Annotation("Override")
		w.Method("public String toString()", func() {
			w.Line("return this.value;")
		})
	})
	return javaUnit(h, t.Package, &ImportSet{}, w.String())
}

// JavaOperationName returns the method name of op. Long-running
// operations start with begin.
func JavaOperationName(op *model.Operation) string {
	name := naming.JavaName(op.Name)
	if op.LongRunning {
		return "begin" + naming.Capitalize(name)
	}
	return name
}

// DeclareClient renders the Java client class of c. Calls are forwarded to
// an Invoker the caller supplies.
func DeclareClient(h Header, c *model.Client) []byte {
	var imports ImportSet
	imports.Add(javaObjects, javaPagedIterable, javaSyncPoller)
	w := codewriter.New()
	w.DocComment(docOr(c.Description, "Initializes a new instance of "+c.Name+"."))
	w.Class("public final class "+c.Name, func() {
		w.Line("private final Invoker invoker;")
		w.DocComment("Creates an instance of " + c.Name + ".\n\n@param invoker the invoker operations are sent through.")
		w.Method("public "+c.Name+"(Invoker invoker)", func() {
			w.Line(`this.invoker = Objects.requireNonNull(invoker, "'invoker' cannot be null.");`)
		})

		for _, op := range c.Operations {
			params := make([]string, len(op.Parameters))
			args := []string{javaQuote(op.Name)}
			doc := []string{docOr(op.Description, op.Name+".")}
			if len(op.Parameters) > 0 {
				doc = append(doc, "")
			}
			for i, p := range op.Parameters {
				name := naming.JavaName(p.Name)
				params[i] = JavaType(p.Type, &imports) + " " + name
				args = append(args, name)
				doc = append(doc, "@param "+name+" the "+name+" value.")
			}

			ret, call := "void", "invoker.invoke"
			switch {
			case op.Paging != nil:
				ret = "PagedIterable<" + JavaType(op.Paging.Item, &imports) + ">"
				call = "invoker.page"
			case op.LongRunning:
				r := "Void"
				if op.Response != nil {
					r = JavaType(op.Response, &imports)
				}
				ret = "SyncPoller<" + r + ", " + r + ">"
				call = "invoker.poll"
			case op.Response != nil:
				ret = JavaType(op.Response, &imports)
			}
			if ret != "void" {
				doc = append(doc, "@return the "+naming.JavaName(op.Name)+" result.")
			}

			w.DocComment(strings.Join(doc, "\n"))
			w.Method("public "+ret+" "+JavaOperationName(op)+"("+strings.Join(params, ", ")+")", func() {
				for _, p := range op.Parameters {
					if p.Required {
						name := naming.JavaName(p.Name)
						w.Linef("Objects.requireNonNull(%s, %s);", name, javaQuote("'"+name+"' cannot be null."))
					}
				}
				invocation := call + "(" + strings.Join(args, ", ") + ");"
				if ret == "void" {
					w.Line(invocation)
				} else {
					w.Line("return " + invocation)
				}
			})
		}

		w.DocComment("Sends operations to the service.")
		w.Block("public interface Invoker", func() {
			w.Line("<T> T invoke(String operation, Object... args);")
			w.Blank()
			w.Line("<T> PagedIterable<T> page(String operation, Object... args);")
			w.Blank()
			w.Line("<T> SyncPoller<T, T> poll(String operation, Object... args);")
		})
	})
	return javaUnit(h, c.Package, &imports, w.String())
}
