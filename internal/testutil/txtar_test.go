// SPDX-License-Identifier: MIT

package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
)

const archive = `Exact and partial checks.
Flags: java, constructor-args

-- model.yaml --
package: x
-- want/a.txt --
alpha
-- contains/b.txt --
  needle

tail
`

func TestParseCase(t *testing.T) {
	c, err := ParseCase("sample", txtar.Parse([]byte(archive)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"java", "constructor-args"}, c.Flags); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
	if string(c.Input) != "package: x\n" {
		t.Errorf("Input = %q", c.Input)
	}
	if diff := cmp.Diff([]string{"needle", "tail"}, c.Contains["b.txt"]); diff != "" {
		t.Errorf("fragments mismatch (-want +got):\n%s", diff)
	}

	c.Run(t, func(input []byte, flags []string) (map[string][]byte, error) {
		return map[string][]byte{
			"a.txt": []byte("alpha  \n\n"),
			"b.txt": []byte("hay needle hay\ntail\n"),
		}, nil
	})
}

func TestParseCaseErrors(t *testing.T) {
	tests := map[string]string{
		"no input":   "-- want/a.txt --\nx\n",
		"no outputs": "-- model.yaml --\nx\n",
		"stray file": "-- model.yaml --\nx\n-- other --\ny\n",
	}
	for name, src := range tests {
		if _, err := ParseCase(name, txtar.Parse([]byte(src))); err == nil {
			t.Errorf("%s: ParseCase succeeded", name)
		}
	}
}

func TestUpdateArchive(t *testing.T) {
	ar := txtar.Parse([]byte(archive))
	got := UpdateArchive(ar, map[string][]byte{"z.txt": []byte("z"), "a.txt": []byte("new\n")})

	var names []string
	for _, f := range got.Files {
		names = append(names, f.Name)
	}
	want := []string{"model.yaml", "contains/b.txt", "want/a.txt", "want/z.txt"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if string(got.Files[3].Data) != "z\n" {
		t.Errorf("missing trailing newline: %q", got.Files[3].Data)
	}
}

func TestStripHeader(t *testing.T) {
	in := "// Code generated by clientgen. DO NOT EDIT.\n// Source: x\n\npackage a;\n"
	if got := string(StripHeader([]byte(in))); got != "package a;\n" {
		t.Errorf("StripHeader = %q", got)
	}
}
