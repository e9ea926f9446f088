package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/ctrkit/internal/logger"
	"github.com/joshuapare/ctrkit/internal/mmfile"
	"github.com/joshuapare/ctrkit/internal/writer"
)

// job converts one input file into the bytes written to its output.
type job func(in []byte) ([]byte, error)

// result records one processed file for reporting.
type result struct {
	Input   string `json:"input"`
	Output  string `json:"output"`
	InSize  int    `json:"in_size"`
	OutSize int    `json:"out_size"`
}

// runBatch applies fn to every input with at most workers files in flight.
// Each output lands in outDir, or beside its input when outDir is empty,
// under the name returned by rename. The first failure cancels files not
// yet started.
func runBatch(
	ctx context.Context,
	inputs []string,
	outDir string,
	workers int,
	rename func(string) string,
	fn job,
) ([]result, error) {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, err
		}
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]result, len(inputs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			dir := outDir
			if dir == "" {
				dir = filepath.Dir(in)
			}
			out := filepath.Join(dir, rename(filepath.Base(in)))
			if sameFile(in, out) {
				return fmt.Errorf("%s: output would overwrite input", in)
			}

			data, err := mmfile.ReadFile(in)
			if err != nil {
				return err
			}
			converted, err := fn(data)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			w := &writer.FileWriter{Path: out}
			if err := w.WriteAll(converted); err != nil {
				return fmt.Errorf("%s: %w", out, err)
			}

			logger.Debug("converted", "input", in, "output", out, "in_size", len(data), "out_size", len(converted))

			mu.Lock()
			results[i] = result{Input: in, Output: out, InSize: len(data), OutSize: len(converted)}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// reportBatch prints one line per converted file, or JSON with --json.
func reportBatch(verb string, results []result) error {
	if jsonOut {
		return printJSON(results)
	}
	for _, r := range results {
		printInfo("%s %s -> %s (%d -> %d bytes)\n", verb, r.Input, r.Output, r.InSize, r.OutSize)
	}
	return nil
}
