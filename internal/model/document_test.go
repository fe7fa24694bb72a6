// SPDX-License-Identifier: MIT

package model

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loadPetstore(t *testing.T) *Document {
	t.Helper()
	doc, err := Load(filepath.Join("testdata", "petstore.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return doc
}

func TestLoadTypes(t *testing.T) {
	doc := loadPetstore(t)

	var names []string
	for _, typ := range doc.Types {
		names = append(names, typ.String())
	}
	want := []string{"Color", "Size", "Pet", "Dog", "Toy", "PetPage"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}

	dog, err := doc.Lookup("Dog")
	if err != nil {
		t.Fatal(err)
	}
	d := dog.(*ObjectType)
	if d.Parent == nil || d.Parent.Name != "Pet" {
		t.Fatalf("Dog.Parent = %v, want Pet", d.Parent)
	}
	if d.Package != "com.example.petstore" {
		t.Errorf("Dog.Package = %q", d.Package)
	}
	if d.DiscriminatorProperty() != "kind" {
		t.Errorf("DiscriminatorProperty() = %q, want kind", d.DiscriminatorProperty())
	}

	size, _ := doc.Lookup("Size")
	e := size.(*EnumType)
	if !e.Expandable {
		t.Error("Size should be expandable")
	}
	if ev, ok := e.Lookup("L"); !ok || ev.Name != "large" {
		t.Errorf("Lookup(L) = %+v, %v", ev, ok)
	}

	toy, _ := doc.Lookup("Toy")
	label, ok := toy.(*ObjectType).Property("toy_label")
	if !ok || label.Name != "label" {
		t.Errorf("Property(toy_label) = %+v, %v", label, ok)
	}
}

func TestRequiredProperties(t *testing.T) {
	doc := loadPetstore(t)
	dog, _ := doc.Lookup("Dog")

	var got []string
	for _, p := range dog.(*ObjectType).RequiredProperties() {
		got = append(got, p.Name)
	}
	// kind is required but constant.
	if diff := cmp.Diff([]string{"name", "breed"}, got); diff != "" {
		t.Errorf("RequiredProperties mismatch (-want +got):\n%s", diff)
	}

	got = nil
	for _, p := range dog.(*ObjectType).AllProperties() {
		got = append(got, p.Name)
	}
	want := []string{"kind", "name", "id", "tags", "breed", "color", "weight", "toys"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AllProperties mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupTypeExpressions(t *testing.T) {
	doc := loadPetstore(t)
	tests := []struct {
		expr string
		want string
	}{
		{expr: "int", want: "int"},
		{expr: "date-time", want: "date-time"},
		{expr: "list<Pet>", want: "list<Pet>"},
		{expr: "map< list<uuid> >", want: "map<list<uuid>>"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			typ, err := doc.Lookup(tt.expr)
			if err != nil {
				t.Fatal(err)
			}
			if typ.String() != tt.want {
				t.Errorf("Lookup(%q) = %s, want %s", tt.expr, typ, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "Cat", "list<>", "set<int>", "list<int"} {
		if _, err := doc.Lookup(bad); err == nil {
			t.Errorf("Lookup(%q) succeeded, want error", bad)
		}
	}
}

func TestClients(t *testing.T) {
	doc := loadPetstore(t)
	if len(doc.Clients) != 1 {
		t.Fatalf("got %d clients, want 1", len(doc.Clients))
	}
	c := doc.Clients[0]
	if c.Package != "com.example.petstore" {
		t.Errorf("client package = %q", c.Package)
	}
	if len(c.Operations) != 3 {
		t.Fatalf("got %d operations, want 3", len(c.Operations))
	}

	list := c.Operations[0]
	if list.Paging == nil {
		t.Fatal("listPets is not paged")
	}
	if list.Paging.ItemName != "value" || list.Paging.NextLinkName != "nextLink" {
		t.Errorf("paging = %+v", list.Paging)
	}
	if list.Paging.Item.String() != "Pet" {
		t.Errorf("paging item = %s, want Pet", list.Paging.Item)
	}

	if !c.Operations[1].LongRunning {
		t.Error("adopt should be long running")
	}
	if c.Operations[2].Response != nil {
		t.Errorf("ping response = %v, want nil", c.Operations[2].Response)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name: "unknown property type",
			input: `types:
  - name: A
    properties:
      - name: b
        type: Missing
`,
			wantErr: "line 4",
		},
		{
			name: "duplicate type",
			input: `types:
  - name: A
  - name: A
`,
			wantErr: "declared twice",
		},
		{
			name: "primitive shadowing",
			input: `types:
  - name: string
`,
			wantErr: "shadows a primitive",
		},
		{
			name: "unknown parent",
			input: `types:
  - name: A
    parent: B
`,
			wantErr: "not a declared object",
		},
		{
			name: "inheritance cycle",
			input: `types:
  - name: A
    parent: B
  - name: B
    parent: A
`,
			wantErr: "cycle",
		},
		{
			name: "closed enum value",
			input: `types:
  - name: E
    kind: enum
    values: [a]
examples:
  - name: x
    type: E
    value: b
`,
			wantErr: "line 7",
		},
		{
			name: "paging over a non-list",
			input: `types:
  - name: Page
    properties:
      - name: value
        type: string
clients:
  - name: C
    operations:
      - name: list
        response: Page
        paging: {}
`,
			wantErr: "is not a list",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}
