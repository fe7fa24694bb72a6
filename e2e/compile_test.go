// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

//go:build e2e

// These tests verify that generated code compiles.
//
// Run with: go test -tags e2e ./e2e/... -v
package e2e

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

const compileModel = `package: com.example.zoo
types:
  - name: Color
    kind: enum
    values: [red, green]
  - name: Pet
    discriminator: kind
    properties:
      - {name: kind, type: string, required: true, constant: true, value: pet}
      - {name: name, type: string, required: true}
      - {name: born, type: date-time}
      - {name: tags, type: map<list<string>>}
  - name: Dog
    parent: Pet
    discriminatorValue: dog
    properties:
      - {name: color, type: Color}
      - {name: extra, type: any}
  - name: PetPage
    properties:
      - {name: value, type: list<Pet>, required: true}
      - {name: nextLink, type: string}
clients:
  - name: ZooClient
    operations:
      - name: listPets
        response: PetPage
        paging: {}
      - name: adopt
        parameters:
          - {name: pet, type: Pet, required: true}
          - {name: type, type: string}
        response: Pet
        longRunning: true
`

// TestGoOutputCompiles verifies that a generated Go package builds.
func TestGoOutputCompiles(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Fatal("go not found in PATH. Install from https://go.dev/dl/")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.yaml")
	if err := os.WriteFile(modelPath, []byte(compileModel), 0o644); err != nil {
		t.Fatal(err)
	}
	modDir := filepath.Join(dir, "zoo")
	if err := os.MkdirAll(modDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(modDir, "go.mod"), []byte("module zootest\n\ngo 1.23\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "generate", "--target", "go", "-o", modDir, modelPath)
	cmd.Dir = dir
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("clientgen generate: %v\n%s", err, stderr.String())
	}

	// The generated tests import testify, which the scratch module does
	// not require, so only the package itself is built.
	start := time.Now()
	stderr.Reset()
	build := exec.CommandContext(ctx, "go", "build", ".")
	build.Dir = modDir
	build.Stderr = &stderr
	if err := build.Run(); err != nil {
		t.Fatalf("go build failed: %v\n%s", err, stderr.String())
	}
	t.Logf("go build: %v", time.Since(start))
}
