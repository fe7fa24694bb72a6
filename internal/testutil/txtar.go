// SPDX-License-Identifier: MIT

// Package testutil provides golden-archive helpers for generator tests.
package testutil

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
)

// InputFile is the archive member holding the model document.
const InputFile = "model.yaml"

// Case represents a parsed test case from a txtar archive.
type Case struct {
	// Name is the test case name (typically the filename without extension).
	Name string

	// Description is the first comment block before any files.
	Description string

	// Flags contains any flags parsed from "Flags: ..." line in the description.
	Flags []string

	// Input is the contents of "model.yaml".
	Input []byte

	// Want maps relative paths to their exact expected content.
	Want map[string][]byte

	// Contains maps relative paths to fragments the output must contain,
	// one per non-blank line.
	Contains map[string][]string
}

// ParseCase parses a txtar archive into a test Case.
// The archive should contain:
//   - A description comment (text before first file)
//   - A "model.yaml" file with the model document
//   - "want/<filename>" files with exact expected output, and/or
//     "contains/<filename>" files listing required fragments
//
// The description may contain a "Flags: flag1, flag2" line to pass flags
// to the generator.
func ParseCase(name string, ar *txtar.Archive) (*Case, error) {
	c := &Case{
		Name:        name,
		Description: string(ar.Comment),
		Want:        make(map[string][]byte),
		Contains:    make(map[string][]string),
	}

	c.parseFlags()

	for _, f := range ar.Files {
		switch {
		case f.Name == InputFile:
			c.Input = f.Data
		case strings.HasPrefix(f.Name, "want/"):
			c.Want[strings.TrimPrefix(f.Name, "want/")] = f.Data
		case strings.HasPrefix(f.Name, "contains/"):
			var frags []string
			for line := range strings.SplitSeq(string(f.Data), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					frags = append(frags, line)
				}
			}
			c.Contains[strings.TrimPrefix(f.Name, "contains/")] = frags
		default:
			return nil, errors.Newf("unexpected file in archive: %q (expected %s, want/* or contains/*)", f.Name, InputFile)
		}
	}

	if c.Input == nil {
		return nil, errors.Newf("missing %s in archive", InputFile)
	}
	if len(c.Want) == 0 && len(c.Contains) == 0 {
		return nil, errors.New("missing want/* or contains/* files in archive")
	}
	return c, nil
}

// parseFlags extracts flags from "Flags: ..." line in the description.
func (c *Case) parseFlags() {
	for line := range strings.SplitSeq(c.Description, "\n") {
		flagStr, ok := strings.CutPrefix(strings.TrimSpace(line), "Flags:")
		if !ok {
			continue
		}
		for f := range strings.SplitSeq(flagStr, ",") {
			if f = strings.TrimSpace(f); f != "" {
				c.Flags = append(c.Flags, f)
			}
		}
		break
	}
}

// GenerateFunc generates output from a model document.
// It returns a map of filename to content.
type GenerateFunc func(input []byte, flags []string) (map[string][]byte, error)

// Run executes the test case using the provided generate function.
// With want/* files the set of generated files must match exactly;
// contains/* files only require the named files to exist.
func (c *Case) Run(t *testing.T, generate GenerateFunc) {
	t.Helper()

	got, err := generate(c.Input, c.Flags)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	for wantFile := range c.Want {
		if _, ok := got[wantFile]; !ok {
			t.Errorf("missing output file: %q", wantFile)
		}
	}
	if len(c.Want) > 0 {
		for gotFile := range got {
			if _, ok := c.Want[gotFile]; !ok {
				if _, partial := c.Contains[gotFile]; !partial {
					t.Errorf("unexpected output file: %q", gotFile)
				}
			}
		}
	}

	for wantFile, wantContent := range c.Want {
		gotContent, ok := got[wantFile]
		if !ok {
			continue // Already reported as missing
		}
		if diff := cmp.Diff(normalizeContent(wantContent), normalizeContent(gotContent)); diff != "" {
			t.Errorf("file %q mismatch (-want +got):\n%s", wantFile, diff)
		}
	}

	for file, frags := range c.Contains {
		gotContent, ok := got[file]
		if !ok {
			t.Errorf("missing output file: %q", file)
			continue
		}
		norm := normalizeContent(gotContent)
		for _, frag := range frags {
			if !strings.Contains(norm, frag) {
				t.Errorf("file %q does not contain %q", file, frag)
			}
		}
	}
}

// normalizeContent trims trailing whitespace from each line and trailing
// newlines from the content.
func normalizeContent(content []byte) string {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// UpdateArchive rewrites the want/* files of an archive with generated
// content. Used for golden file updates with -update flag.
func UpdateArchive(ar *txtar.Archive, got map[string][]byte) *txtar.Archive {
	result := &txtar.Archive{Comment: ar.Comment}

	for _, f := range ar.Files {
		if f.Name == InputFile || strings.HasPrefix(f.Name, "contains/") {
			result.Files = append(result.Files, f)
		}
	}

	var wantFiles []string
	for name := range got {
		wantFiles = append(wantFiles, name)
	}
	sort.Strings(wantFiles)

	for _, name := range wantFiles {
		content := got[name]
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content = append(content, '\n')
		}
		result.Files = append(result.Files, txtar.File{Name: "want/" + name, Data: content})
	}
	return result
}

// FormatArchive formats an archive to bytes.
func FormatArchive(ar *txtar.Archive) []byte {
	return txtar.Format(ar)
}

// LoadTestCases loads all txtar test cases from a directory.
func LoadTestCases(t *testing.T, dir string) []*Case {
	t.Helper()

	pattern := filepath.Join(dir, "*.txtar")
	files, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("glob %q: %v", pattern, err)
	}
	if len(files) == 0 {
		t.Fatalf("no txtar files found in %q", dir)
	}

	var cases []*Case
	for _, file := range files {
		ar, err := txtar.ParseFile(file)
		if err != nil {
			t.Fatalf("parse %q: %v", file, err)
		}
		name := strings.TrimSuffix(filepath.Base(file), ".txtar")
		c, err := ParseCase(name, ar)
		if err != nil {
			t.Fatalf("parse case %q: %v", name, err)
		}
		cases = append(cases, c)
	}

	sort.Slice(cases, func(i, j int) bool {
		return cases[i].Name < cases[j].Name
	})
	return cases
}

// StripHeader removes the leading "Code generated" comment block from
// generated code so tests compare only the meaningful part.
func StripHeader(content []byte) []byte {
	lines := bytes.Split(content, []byte("\n"))
	var result [][]byte
	inHeader := true
	for _, line := range lines {
		if inHeader {
			if bytes.HasPrefix(line, []byte("//")) || len(line) == 0 {
				continue
			}
			inHeader = false
		}
		result = append(result, line)
	}
	return bytes.Join(result, []byte("\n"))
}
