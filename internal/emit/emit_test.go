// SPDX-License-Identifier: MIT

package emit

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/albertocavalcante/clientgen/internal/model"
)

func loadZoo(t *testing.T) *model.Document {
	t.Helper()
	doc, err := model.Load(filepath.Join("testdata", "zoo.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return doc
}

func example(t *testing.T, doc *model.Document, name string) *model.Example {
	t.Helper()
	ex, ok := doc.Example(name)
	if !ok {
		t.Fatalf("example %s not found", name)
	}
	return ex
}

func TestJavaInitializer(t *testing.T) {
	doc := loadZoo(t)
	tests := []struct {
		example string
		opts    Options
		want    string
	}{
		{
			example: "dog",
			opts:    Options{ConstructorArgs: true},
			want:    `new Dog(null, "beagle").withTags(Arrays.asList("a")).withColor(Color.RED)`,
		},
		{
			example: "dog",
			want:    `new Dog().withTags(Arrays.asList("a")).withBreed("beagle").withColor(Color.RED)`,
		},
		{
			example: "words",
			want:    `Arrays.asList("hello", "world")`,
		},
		{
			example: "toy",
			opts:    Options{ConstructorArgs: true},
			want: `new Toy().withWebsite(new URL("https://example.com/toy"))` +
				`.withExtra(readJson("{\"a\":[true,\"x\"],\"b\":1}"))` +
				`.withCounts(mapOf("zebra", 1, "apple", 2)).withRatio(0.5)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.example, func(t *testing.T) {
			in := NewInitializer(Java, tt.opts)
			got, err := in.Init(example(t, doc, tt.example).Value)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("initializer mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInitializerFeatures(t *testing.T) {
	doc := loadZoo(t)
	in := NewInitializer(Java, Options{})
	if _, err := in.Init(example(t, doc, "toy").Value); err != nil {
		t.Fatal(err)
	}
	want := FeatureMapOf | FeatureReadJSON | FeatureThrows
	if got := in.Features(); got != want {
		t.Errorf("Features() = %s, want %s", got, want)
	}
	wantImports := []string{"com.example.zoo.Toy", "java.net.URL"}
	if diff := cmp.Diff(wantImports, in.Imports().Sorted()); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}
}

func TestInitializerIsDeterministic(t *testing.T) {
	doc := loadZoo(t)
	for _, d := range []Dialect{Java, Go} {
		for _, name := range []string{"dog", "pack", "toy"} {
			v := example(t, doc, name).Value
			a, err := NewInitializer(d, Options{ConstructorArgs: true}).Init(v)
			if err != nil {
				t.Fatal(err)
			}
			b, _ := NewInitializer(d, Options{ConstructorArgs: true}).Init(v)
			if a != b {
				t.Errorf("%s/%s: renders differ:\n%s\n%s", d.Name(), name, a, b)
			}
		}
	}
}

func TestConstructorArgsCoverBindings(t *testing.T) {
	doc := loadZoo(t)
	n := example(t, doc, "dog").Value.(*model.CompositeNode)
	got, err := NewInitializer(Java, Options{ConstructorArgs: true}).Init(n)
	if err != nil {
		t.Fatal(err)
	}

	ctor, chain, _ := strings.Cut(got, ")")
	args := strings.Split(strings.TrimPrefix(ctor, "new Dog("), ", ")
	if len(args) != len(n.Type.RequiredProperties()) {
		t.Errorf("got %d constructor args, want %d", len(args), len(n.Type.RequiredProperties()))
	}
	for _, p := range n.Bindings {
		count := strings.Count(chain, "."+JavaSetter(p)+"(")
		want := 1
		if p.Required {
			want = 0
		}
		if count != want {
			t.Errorf("setter %s appears %d times, want %d", JavaSetter(p), count, want)
		}
	}
}

func TestJavaAsserter(t *testing.T) {
	doc := loadZoo(t)
	tests := []struct {
		example string
		want    []string
	}{
		{
			example: "words",
			want:    []string{`Assertions.assertEquals("hello", model.get(0));`},
		},
		{
			example: "dog",
			want: []string{
				`Assertions.assertEquals("a", model.getTags().get(0));`,
				`Assertions.assertEquals("beagle", model.getBreed());`,
				`Assertions.assertEquals(Color.RED, model.getColor());`,
			},
		},
		{
			example: "pack",
			want: []string{
				`Assertions.assertEquals("a", ((Dog) model.get(0)).getName());`,
				`Assertions.assertEquals("b", ((Dog) model.get(0)).getBreed());`,
			},
		},
		{
			example: "toy",
			want: []string{
				`Assertions.assertEquals(new URL("https://example.com/toy"), model.getWebsite());`,
				`Assertions.assertEquals(1, model.getCounts().get("zebra"));`,
				`Assertions.assertEquals(0.5, model.getRatio(), 0.0);`,
			},
		},
		{
			example: "nothing",
			want:    []string{`Assertions.assertNull(model.getCounts());`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.example, func(t *testing.T) {
			got, err := NewAsserter(Java).Assert(example(t, doc, tt.example).Value, "model")
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("assertions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGoDialect(t *testing.T) {
	doc := loadZoo(t)

	init, err := NewInitializer(Go, Options{ConstructorArgs: true}).Init(example(t, doc, "dog").Value)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`NewDog("", "beagle")`, `.WithTags([]string{"a"})`, `.WithColor(ColorRed)`} {
		if !strings.Contains(init, want) {
			t.Errorf("init %q does not contain %q", init, want)
		}
	}

	built, err := NewInitializer(Go, Options{}).Init(example(t, doc, "dog").Value)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"&Dog{", `Breed: "beagle"`, "Color: ColorRed"} {
		if !strings.Contains(built, want) {
			t.Errorf("init %q does not contain %q", built, want)
		}
	}

	stmts, err := NewAsserter(Go).Assert(example(t, doc, "pack").Value, "model")
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 2 || !strings.Contains(stmts[0], "model[0].(*Dog).Name") {
		t.Errorf("pack assertions = %q, want a type assertion to *Dog", stmts)
	}

	m, err := NewInitializer(Go, Options{}).Init(example(t, doc, "toy").Value)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Index(m, `"zebra"`) > strings.Index(m, `"apple"`) {
		t.Errorf("map entries reordered: %s", m)
	}
}

func TestJavaLiteralRoundTrip(t *testing.T) {
	tests := []struct {
		kind  model.Kind
		value any
	}{
		{model.KindInt, int32(math.MinInt32)},
		{model.KindLong, int64(9007199254740993)},
		{model.KindFloat, float32(1.5)},
		{model.KindFloat, float32(3)},
		{model.KindFloat, float32(math.Inf(-1))},
		{model.KindDouble, 0.1},
		{model.KindDouble, 1e300},
		{model.KindDouble, math.Inf(1)},
		{model.KindBoolean, false},
		{model.KindString, "plain"},
		{model.KindString, "tab\tquote\" back\\slash\n"},
		{model.KindString, "héllo 😀 \x00"},
		{model.KindDateTime, time.Date(2024, 2, 29, 10, 30, 0, 500, time.FixedZone("", 2*3600))},
		{model.KindDate, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{model.KindDuration, 90 * time.Minute},
		{model.KindDuration, 1500 * time.Millisecond},
		{model.KindURL, "https://example.com/a?b=c"},
		{model.KindUUID, uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")},
		{model.KindBytes, []byte{0, 1, 2, 255}},
	}
	for _, tt := range tests {
		text, err := FormatJavaLiteral(tt.kind, tt.value)
		if err != nil {
			t.Fatalf("FormatJavaLiteral(%s, %v): %v", tt.kind, tt.value, err)
		}
		got, err := ParseJavaLiteral(tt.kind, text)
		if err != nil {
			t.Fatalf("ParseJavaLiteral(%s, %s): %v", tt.kind, text, err)
		}
		if ts, ok := tt.value.(time.Time); ok {
			if !ts.Equal(got.(time.Time)) {
				t.Errorf("%s: got %v, want %v", text, got, ts)
			}
			continue
		}
		if diff := cmp.Diff(tt.value, got); diff != "" {
			t.Errorf("%s: round trip mismatch (-want +got):\n%s", text, diff)
		}
	}

	text, _ := FormatJavaLiteral(model.KindDouble, math.NaN())
	if text != "Double.NaN" {
		t.Errorf("NaN renders as %s", text)
	}
	got, err := ParseJavaLiteral(model.KindDouble, text)
	if err != nil || !math.IsNaN(got.(float64)) {
		t.Errorf("ParseJavaLiteral(%s) = %v, %v", text, got, err)
	}

	if v, err := ParseJavaLiteral(model.KindString, "null"); err != nil || v != nil {
		t.Errorf("null parses as %v, %v", v, err)
	}
}

func TestJavaLiteralForms(t *testing.T) {
	tests := []struct {
		kind  model.Kind
		value any
		want  string
	}{
		{model.KindLong, int64(5), "5L"},
		{model.KindFloat, float32(2), "2.0f"},
		{model.KindDouble, 2.0, "2.0"},
		{model.KindDuration, 90 * time.Minute, `Duration.parse("PT1H30M")`},
		{model.KindString, "é", `"\u00e9"`},
		{model.KindString, "😀", `"\ud83d\ude00"`},
	}
	for _, tt := range tests {
		got, err := FormatJavaLiteral(tt.kind, tt.value)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("FormatJavaLiteral(%s, %v) = %s, want %s", tt.kind, tt.value, got, tt.want)
		}
	}

	if _, err := FormatJavaLiteral(model.KindInt, "5"); err == nil {
		t.Error("FormatJavaLiteral accepted a string for int")
	}
	for _, bad := range []string{"5", `"open`, `"a"b"`, `"\q"`} {
		if _, err := ParseJavaLiteral(model.KindString, bad); err == nil {
			t.Errorf("ParseJavaLiteral(string, %s) succeeded", bad)
		}
	}
	if _, err := ParseJavaLiteral(model.KindLong, "5"); err == nil {
		t.Error("long literal without suffix accepted")
	}
}
