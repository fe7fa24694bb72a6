// SPDX-License-Identifier: MIT

package generator

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/albertocavalcante/clientgen/internal/model"
)

const shelter = `
package: com.example.shelter
types:
  - name: Color
    kind: enum
    values: [red]
  - name: Animal
    discriminator: kind
    properties:
      - {name: kind, type: string, constant: true, value: animal}
      - {name: owner, type: Person}
  - name: Cat
    parent: Animal
    discriminatorValue: cat
    properties:
      - {name: color, type: Color}
  - name: Person
    properties:
      - {name: pets, type: list<Animal>}
      - {name: nicknames, type: map<string>}
  - name: Tag
    properties:
      - {name: label, type: string}
examples:
  - name: tom
    type: Cat
    value: {kind: cat, color: red}
  - name: tag
    type: Tag
    value: {label: x}
clients:
  - name: ShelterClient
    operations:
      - name: ping
`

func parseShelter(t *testing.T) *model.Document {
	t.Helper()
	doc, err := model.Parse([]byte(shelter))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func keys(m map[string]bool) []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestResolveDeps(t *testing.T) {
	doc := parseShelter(t)
	tests := []struct {
		name   string
		filter map[string]bool
		want   []string // expected types after resolution, nil means nil
	}{
		{
			name:   "nil filter returns nil",
			filter: nil,
			want:   nil,
		},
		{
			name:   "leaf type",
			filter: map[string]bool{"Tag": true},
			want:   []string{"Tag"},
		},
		{
			name:   "enum only",
			filter: map[string]bool{"Color": true},
			want:   []string{"Color"},
		},
		{
			name:   "subtype pulls parent and its references",
			filter: map[string]bool{"Cat": true},
			want:   []string{"Animal", "Cat", "Color", "Person"},
		},
		{
			name:   "cycle through list and parent",
			filter: map[string]bool{"Person": true},
			want:   []string{"Animal", "Cat", "Color", "Person"},
		},
		{
			name:   "unknown names are ignored",
			filter: map[string]bool{"Missing": true},
			want:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keys(ResolveDeps(doc, tt.filter))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ResolveDeps mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func names(sel *Selection) (types, examples []string, clients int) {
	for _, t := range sel.Types {
		types = append(types, t.String())
	}
	for _, ex := range sel.Examples {
		examples = append(examples, ex.Name)
	}
	return types, examples, len(sel.Clients)
}

func TestSelect(t *testing.T) {
	doc := parseShelter(t)
	tests := []struct {
		name         string
		cfg          Config
		wantTypes    []string
		wantExamples []string
		wantClients  int
	}{
		{
			name:         "everything",
			wantTypes:    []string{"Color", "Animal", "Cat", "Person", "Tag"},
			wantExamples: []string{"tom", "tag"},
			wantClients:  1,
		},
		{
			name:         "filter without deps",
			cfg:          Config{Types: []string{"Tag", "Cat"}},
			wantTypes:    []string{"Cat", "Tag"},
			wantExamples: []string{"tag"},
		},
		{
			name:         "filter with deps",
			cfg:          Config{Types: []string{"Cat"}, ResolveDeps: true},
			wantTypes:    []string{"Color", "Animal", "Cat", "Person"},
			wantExamples: []string{"tom"},
		},
		{
			name:         "example filter",
			cfg:          Config{Examples: []string{"tag"}},
			wantTypes:    []string{"Color", "Animal", "Cat", "Person", "Tag"},
			wantExamples: []string{"tag"},
			wantClients:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Select(doc, tt.cfg)
			if err != nil {
				t.Fatal(err)
			}
			types, examples, clients := names(sel)
			if diff := cmp.Diff(tt.wantTypes, types); diff != "" {
				t.Errorf("types mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantExamples, examples); diff != "" {
				t.Errorf("examples mismatch (-want +got):\n%s", diff)
			}
			if clients != tt.wantClients {
				t.Errorf("got %d clients, want %d", clients, tt.wantClients)
			}
		})
	}
}

func TestSelectErrors(t *testing.T) {
	doc := parseShelter(t)
	for name, cfg := range map[string]Config{
		"unknown type":    {Types: []string{"Dog"}},
		"primitive type":  {Types: []string{"string"}},
		"unknown example": {Examples: []string{"rex"}},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Select(doc, cfg); err == nil {
				t.Error("Select succeeded, want error")
			}
		})
	}
}
