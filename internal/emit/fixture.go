// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package emit

import (
	"github.com/cockroachdb/errors"

	"github.com/albertocavalcante/clientgen/internal/codewriter"
	"github.com/albertocavalcante/clientgen/internal/model"
	"github.com/albertocavalcante/clientgen/internal/naming"
)

// FixtureVar is the variable the fixture binds the example value to.
const FixtureVar = "model"

// JavaFixtureClass returns the test class name for ex.
func JavaFixtureClass(ex *model.Example) string {
	return naming.Pascal(ex.Name) + "Tests"
}

// Fixture renders a JUnit test class that constructs the example value and
// checks it. Helpers the rendered expressions depend on are emitted once.
func Fixture(h Header, ex *model.Example, pkg string, opts Options) ([]byte, error) {
	in := NewInitializer(Java, opts)
	init, err := in.Init(ex.Value)
	if err != nil {
		return nil, errors.Wrapf(err, "example %s", ex.Name)
	}
	as := NewAsserter(Java)
	stmts, err := as.Assert(ex.Value, FixtureVar)
	if err != nil {
		return nil, errors.Wrapf(err, "example %s", ex.Name)
	}

	var imports ImportSet
	imports.Merge(in.Imports())
	imports.Merge(as.Imports())
	imports.Add("org.junit.jupiter.api.Test")
	features := in.Features() | as.Features()

	typ := ex.Type
	if c, ok := ex.Value.(*model.CompositeNode); ok {
		typ = c.Type
	}
	varType := JavaType(typ, &imports)

	w := codewriter.New()
	w.Class("public final class "+JavaFixtureClass(ex), func() {
		w.Annotation("Test")
		sig := "public void test" + naming.Pascal(ex.Name) + "()"
		if features.Has(FeatureThrows) {
			sig += " throws Exception"
		}
		w.Method(sig, func() {
			w.Line(varType + " " + FixtureVar + " = " + init + ";")
			for _, s := range stmts {
				w.Line(s)
			}
		})
		if features.Has(FeatureMapOf) {
			imports.Add("java.util.HashMap", javaMap)
			w.Annotation("SuppressWarnings", `"unchecked"`)
			w.Method("private static <T> Map<String, T> mapOf(Object... inputs)", func() {
				w.Line("Map<String, T> map = new HashMap<>();")
				w.Block("for (int i = 0; i < inputs.length; i += 2)", func() {
					w.Line("String key = (String) inputs[i];")
					w.Line("T value = (T) inputs[i + 1];")
					w.Line("map.put(key, value);")
				})
				w.Line("return map;")
			})
		}
		if features.Has(FeatureReadJSON) {
			imports.Add("com.fasterxml.jackson.databind.ObjectMapper", "java.io.IOException")
			w.Method("private static Object readJson(String json) throws IOException", func() {
				w.Line("return new ObjectMapper().readValue(json, Object.class);")
			})
		}
	})
	return javaUnit(h, pkg, &imports, w.String()), nil
}
