// Package resources post-processes oracle-suggested learning resources.
// Suggested URLs are probed concurrently and missing titles are filled from
// the live page. Enrichment is best effort: an unreachable resource is
// passed through untouched, never dropped.
package resources

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/syllabus-auditor/internal/fetch"
	"github.com/jonathan/syllabus-auditor/internal/types"
)

// DefaultConcurrency bounds the number of in-flight probes.
const DefaultConcurrency = 4

// Enricher probes resource URLs and fills in missing metadata.
type Enricher struct {
	opts        *fetch.Options
	concurrency int
}

// NewEnricher creates an enricher with default fetch options.
func NewEnricher() *Enricher {
	return &Enricher{
		opts:        fetch.DefaultOptions(),
		concurrency: DefaultConcurrency,
	}
}

// Enrich returns a copy of the given resources with empty titles filled
// from each page's <title>. Fetch failures leave the resource unchanged.
func (e *Enricher) Enrich(ctx context.Context, in []types.Resource) []types.Resource {
	out := make([]types.Resource, len(in))
	copy(out, in)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range out {
		if out[i].Title != "" {
			continue
		}
		g.Go(func() error {
			result, err := fetch.URL(ctx, out[i].URL, e.opts)
			if err != nil {
				return nil
			}
			if title := fetch.PageTitle(result.HTML); title != "" {
				out[i].Title = title
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
