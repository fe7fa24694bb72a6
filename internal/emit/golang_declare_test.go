// SPDX-License-Identifier: MIT

package emit

import (
	"testing"
)

func TestGoModels(t *testing.T) {
	doc := loadZoo(t)
	out, err := GoModels(Header{Source: "zoo.yaml"}, "zoo", doc.Types)
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, string(out),
		"// Code generated by clientgen. DO NOT EDIT.\n// Source: zoo.yaml\n\npackage zoo",
		"type Color string",
		`ColorRed   Color = "red"`,
		"func ColorValues() []Color {",
		`SizeSmall Size = "S"`,
		"type Dog struct {",
		"Name  string   `json:\"name,omitempty\"`",
		"Breed string   `json:\"breed,omitempty\"`",
		"func NewDog(name string, breed string) *Dog {",
		"func (m *Dog) WithTags(v []string) *Dog {",
		"func (*Dog) Kind() string {\n\treturn \"dog\"\n}",
		"func (*Pet) Kind() string {\n\treturn \"pet\"\n}",
		"Value    []interface{} `json:\"value,omitempty\"`",
		"func NewToy() *Toy {\n\treturn &Toy{}\n}",
	)
}

func TestGoClient(t *testing.T) {
	doc := loadZoo(t)
	out, err := GoClient(Header{}, "zoo", doc.Clients[0])
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, string(out),
		"type ZooClient interface {",
		"ListPets(ctx context.Context, top *int32) iter.Seq2[interface{}, error]",
		"BeginAdopt(ctx context.Context, pet interface{}) (Poller[interface{}], error)",
		"Ping(ctx context.Context) error",
		"type Poller[T any] interface {",
	)
}

func TestGoFixture(t *testing.T) {
	doc := loadZoo(t)

	out, features, err := GoFixture(Header{}, example(t, doc, "dog"), "zoo", Options{ConstructorArgs: true})
	if err != nil {
		t.Fatal(err)
	}
	if features.Has(FeatureReadJSON) {
		t.Errorf("dog fixture features = %s, want no readJson", features)
	}
	assertContains(t, string(out),
		`"github.com/stretchr/testify/assert"`,
		"func TestDog(t *testing.T) {",
		`model := NewDog("", "beagle").WithTags([]string{"a"}).WithColor(ColorRed)`,
		`assert.Equal(t, "a", model.Tags[0])`,
		`assert.Equal(t, ColorRed, model.Color)`,
	)

	out, features, err = GoFixture(Header{}, example(t, doc, "pack"), "zoo", Options{})
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, string(out), `assert.Equal(t, "b", model[0].(*Dog).Breed)`)

	_, features, err = GoFixture(Header{}, example(t, doc, "toy"), "zoo", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !features.Has(FeatureReadJSON) {
		t.Errorf("toy fixture features = %s, want readJson", features)
	}
	helpers, err := GoHelpers(Header{}, "zoo", features)
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, string(helpers), "func readJSON(s string) any {", "json.Unmarshal([]byte(s), &v)")

	if h, _ := GoHelpers(Header{}, "zoo", 0); h != nil {
		t.Errorf("GoHelpers without features = %q, want nil", h)
	}
}
