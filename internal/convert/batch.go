// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/doc2md/pkg/types"
)

// BatchResult holds the outcome of a batch run. Results are in request
// order.
type BatchResult struct {
	Succeeded int
	Failed    int
	Results   []types.Result
}

// Total returns the number of requests processed.
func (r BatchResult) Total() int {
	return r.Succeeded + r.Failed
}

// HasFailures reports whether any request failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// RunBatch runs independent conversions with at most concurrency in
// flight. One failure does not stop the others. Per-request status lines
// and a summary go to w.
func (p *Pipeline) RunBatch(ctx context.Context, reqs []types.Request, concurrency int, w io.Writer) BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]types.Result, len(reqs))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = p.Run(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	batch := BatchResult{Results: results}
	for i, res := range results {
		src := reqs[i].Source().URI()
		if res.OK() {
			batch.Succeeded++
			fmt.Fprintf(w, "converted: %s -> %s\n", src, res.Outputs.MarkdownURI)
			continue
		}
		batch.Failed++
		fmt.Fprintf(w, "failed:    %s (%s)\n", src, res.Message)
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		batch.Succeeded, batch.Failed, batch.Total())
	return batch
}
