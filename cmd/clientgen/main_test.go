// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shelter = `package: com.example.shelter
types:
  - name: Owner
    properties:
      - {name: phone, type: string}
examples:
  - name: alice
    type: Owner
    value: {phone: "555"}
`

// execute runs the command line in a fresh temporary working directory.
func execute(t *testing.T, args ...string) (stdout string, err error) {
	t.Helper()
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("model.yaml", []byte(shelter), 0o644))

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func TestGenerateWritesFiles(t *testing.T) {
	_, err := execute(t, "generate", "--target", "go", "-o", "out", "model.yaml")
	require.NoError(t, err)

	models, err := os.ReadFile(filepath.Join("out", "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "package shelter")
	assert.FileExists(t, filepath.Join("out", "alice_test.go"))
}

func TestGenerateDryRun(t *testing.T) {
	out, err := execute(t, "generate", "--dry-run", "--types", "Owner", "model.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "==> src/main/java/com/example/shelter/Owner.java <==")
	assert.Contains(t, out, "==> src/test/java/com/example/shelter/AliceTests.java <==")
	assert.NoDirExists(t, "generated")
}

func TestGenerateConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("model.yaml", []byte(shelter), 0o644))
	require.NoError(t, os.WriteFile("clientgen.yaml", []byte("target: go\noutput_dir: sdk\n"), 0o644))

	cmd := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	cmd.SetArgs([]string{"generate", "model.yaml"})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, filepath.Join("sdk", "models.go"))
}

func TestGenerateUnknownTarget(t *testing.T) {
	_, err := execute(t, "generate", "--target", "cobol", "model.yaml")
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "available targets: go, java")
}

func TestCustomizeWithoutServer(t *testing.T) {
	t.Setenv("CLIENTGEN_LANGUAGE_SERVER_COMMAND", "")
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("plan.yaml", []byte("renames:\n  - {symbol: Owner, to: Keeper}\n"), 0o644))

	cmd := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	cmd.SetArgs([]string{"customize", "plan.yaml"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "--server")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "clientgen dev (commit: unknown, built: unknown)\n", out)
}

func TestTargets(t *testing.T) {
	out, err := execute(t, "targets")
	require.NoError(t, err)
	assert.Contains(t, out, "go 1.0.0: ")
	assert.Contains(t, out, "  --option main-dir=...  Source root of models and clients (default: src/main/java)")
}
