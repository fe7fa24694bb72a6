// SPDX-License-Identifier: MIT

package generator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRender(t *testing.T) {
	var inFlight, peak atomic.Int32
	var tasks []Task
	for i := range 8 {
		tasks = append(tasks, Task{
			Path: fmt.Sprintf("f%d.txt", i),
			Render: func() ([]byte, error) {
				n := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				return []byte(fmt.Sprint(i)), nil
			},
		})
	}
	tasks = append(tasks, Task{Path: "skipped.txt", Render: func() ([]byte, error) { return nil, nil }})

	out := NewOutput()
	if err := Render(context.Background(), 2, out, tasks); err != nil {
		t.Fatal(err)
	}
	if got := len(out.Paths()); got != 8 {
		t.Errorf("got %d files, want 8", got)
	}
	if diff := cmp.Diff("3", string(out.Files["f3.txt"])); diff != "" {
		t.Errorf("f3.txt mismatch (-want +got):\n%s", diff)
	}
	if p := peak.Load(); p > 2 {
		t.Errorf("peak concurrency %d exceeds limit 2", p)
	}
}

func TestRenderError(t *testing.T) {
	boom := errors.New("boom")
	tasks := []Task{
		{Path: "ok.txt", Render: func() ([]byte, error) { return []byte("ok"), nil }},
		{Path: "bad.txt", Render: func() ([]byte, error) { return nil, boom }},
	}
	err := Render(context.Background(), 1, NewOutput(), tasks)
	if !errors.Is(err, boom) {
		t.Fatalf("Render error = %v, want boom", err)
	}
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Render(ctx, 1, NewOutput(), []Task{{Path: "a", Render: func() ([]byte, error) { return []byte("a"), nil }}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Render error = %v, want context.Canceled", err)
	}
}
