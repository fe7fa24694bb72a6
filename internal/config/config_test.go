// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v, err := New("", t.TempDir())
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "java", cfg.Target)
	assert.Equal(t, "generated", cfg.OutputDir)
	assert.True(t, cfg.ConstructorArgs)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.LanguageServer.RequestTimeout)
	assert.Equal(t, 16, cfg.LanguageServer.DispatchWorkers)
}

func TestFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	content := `target: go
constructor_args: false
language_server:
  command: jdtls
  args: [-data, /tmp/ws]
  request_timeout: 5s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	t.Setenv("CLIENTGEN_WORKERS", "9")
	t.Setenv("CLIENTGEN_LANGUAGE_SERVER_MAX_FRAME_SIZE", "1024")

	v, err := New("", dir)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "go", cfg.Target)
	assert.False(t, cfg.ConstructorArgs)
	assert.Equal(t, 9, cfg.Workers)
	assert.Equal(t, "jdtls", cfg.LanguageServer.Command)
	assert.Equal(t, []string{"-data", "/tmp/ws"}, cfg.LanguageServer.Args)
	assert.Equal(t, 5*time.Second, cfg.LanguageServer.RequestTimeout)
	assert.Equal(t, 1024, cfg.LanguageServer.MaxFrameSize)
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestValidate(t *testing.T) {
	v, err := New("", t.TempDir())
	require.NoError(t, err)
	v.Set("workers", 0)
	_, err = Load(v)
	assert.ErrorContains(t, err, "workers must be positive")

	v.Set("workers", 1)
	v.Set("target", "")
	_, err = Load(v)
	assert.ErrorContains(t, err, "target is empty")
}
