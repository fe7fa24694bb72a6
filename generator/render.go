// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// Task renders one output file.
type Task struct {
	// Path is the slash-separated output path.
	Path   string
	Render func() ([]byte, error)
}

// Render runs tasks with at most limit in flight and adds their files to
// out. The first failure cancels the tasks not yet started. A task that
// renders nil adds no file.
func Render(ctx context.Context, limit int, out *Output, tasks []Task) error {
	eg, ctx := errgroup.WithContext(ctx)
	if limit < 1 {
		limit = 1
	}
	eg.SetLimit(limit)

	for _, t := range tasks {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			content, err := t.Render()
			if err != nil {
				return errors.Wrapf(err, "render %s", t.Path)
			}
			if content == nil {
				return nil
			}
			return out.Add(t.Path, content)
		})
	}
	return eg.Wait()
}
