// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package source loads model documents from a file, a repository checkout
// or an HTTP URL.
package source

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/albertocavalcante/clientgen/internal/model"
)

// DefaultTimeout bounds HTTP fetches when Options.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Options configures where a document is loaded from.
type Options struct {
	// Location is a file path, or an http(s) URL. With RepoDir set, a path
	// is resolved inside the repository.
	Location string

	// RepoDir is a path to a git checkout. Documents read from it carry the
	// checkout's commit hash.
	RepoDir string

	// Timeout for network operations.
	Timeout time.Duration

	// Client performs HTTP fetches. Defaults to http.DefaultClient.
	Client *http.Client
}

// Result contains the loaded document and where it came from.
type Result struct {
	Document *model.Document

	// CommitHash is the checkout's commit, when loaded from a repository.
	CommitHash string

	// Source describes where the document was loaded from.
	Source string
}

// Load reads and parses a model document.
func Load(ctx context.Context, opts Options) (*Result, error) {
	if opts.Location == "" {
		return nil, errors.New("source: no location given")
	}
	if isURL(opts.Location) {
		return fetchFromURL(ctx, opts)
	}
	if opts.RepoDir != "" {
		return loadFromRepo(opts.RepoDir, opts.Location)
	}
	return loadFromFile(opts.Location)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func loadFromFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}
	doc, err := model.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &Result{Document: doc, Source: "file://" + path}, nil
}

func loadFromRepo(repoDir, rel string) (*Result, error) {
	path := filepath.Join(repoDir, rel)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read from repo")
	}
	doc, err := model.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", rel)
	}
	return &Result{
		Document:   doc,
		CommitHash: gitHash(repoDir),
		Source:     "repo://" + repoDir + "/" + filepath.ToSlash(rel),
	}, nil
}

func fetchFromURL(ctx context.Context, opts Options) (*Result, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.Location, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("fetch %s: HTTP %d", opts.Location, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	doc, err := model.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", opts.Location)
	}
	return &Result{Document: doc, Source: opts.Location}, nil
}

// gitHash returns the current commit hash of a checkout, or "".
func gitHash(repoDir string) string {
	data, err := os.ReadFile(filepath.Join(repoDir, ".git", "HEAD"))
	if err != nil {
		return ""
	}
	content := strings.TrimSpace(string(data))

	// Detached HEAD.
	if len(content) == 40 && isHex(content) {
		return content
	}

	if ref, ok := strings.CutPrefix(content, "ref: "); ok {
		data, err := os.ReadFile(filepath.Join(repoDir, ".git", ref))
		if err != nil {
			return ""
		}
		hash := strings.TrimSpace(string(data))
		if len(hash) >= 40 && isHex(hash[:40]) {
			return hash[:40]
		}
	}
	return ""
}

func isHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
