package enhance

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/article-enhancer/internal/fetch"
	"github.com/jonathan/article-enhancer/internal/references"
	"github.com/jonathan/article-enhancer/internal/rewrite"
	"github.com/jonathan/article-enhancer/internal/search"
)

// DefaultMaxBatch is how many pending articles one run processes.
const DefaultMaxBatch = 5

// FetcherFactory builds the reference-page fetch strategy for one run. The
// cleanup func must be called when the run finishes.
type FetcherFactory func(ctx context.Context) (fetch.PageFetcher, func(), error)

// Runner selects batches of pending articles and drives each one through the
// Enhancer, strictly sequentially.
type Runner struct {
	Store      Store
	Search     search.Provider
	Rewriter   rewrite.Rewriter
	NewFetcher FetcherFactory
	// Pages, when set, caches fetched reference pages across runs.
	Pages   fetch.PageCache
	MaxRefs int
}

// NewRunner builds a Runner whose reference collector renders pages in a
// headless browser, degrading to plain HTTP when the browser cannot launch.
func NewRunner(store Store, provider search.Provider, rewriter rewrite.Rewriter) *Runner {
	r := &Runner{
		Store:    store,
		Search:   provider,
		Rewriter: rewriter,
		NewFetcher: func(ctx context.Context) (fetch.PageFetcher, func(), error) {
			b, err := fetch.NewBrowser(ctx, nil)
			if err != nil {
				return nil, nil, err
			}
			return b, b.Close, nil
		},
		MaxRefs: references.DefaultMaxReferences,
	}
	// A pgx-backed store doubles as the reference-page cache.
	if cache, ok := store.(fetch.PageCache); ok {
		r.Pages = cache
	}
	return r
}

// newEnhancer wires up the per-run Enhancer. The browser (when available) is
// shared across the whole batch; each run owns and releases it.
func (r *Runner) newEnhancer(ctx context.Context) (*Enhancer, func()) {
	fetcher, cleanup, err := r.NewFetcher(ctx)
	if err != nil {
		log.Printf("[ENHANCE] Browser unavailable, using plain HTTP for references: %v", err)
		fetcher = &fetch.Plain{}
		cleanup = func() {}
	}
	if r.Pages != nil {
		fetcher = fetch.NewCachedFetcher(r.Pages, fetcher, nil)
	}
	return &Enhancer{
		Store:     r.Store,
		Search:    r.Search,
		Collector: references.New(fetcher),
		Rewriter:  r.Rewriter,
		MaxRefs:   r.MaxRefs,
	}, cleanup
}

// Summary reports the outcome of one enhancement batch.
type Summary struct {
	Enhanced int
	Skipped  int
	Failed   int
}

// Run enhances up to maxBatch pending articles, oldest-first. One article's
// failure never aborts the rest of the batch.
func (r *Runner) Run(ctx context.Context, maxBatch int) (Summary, error) {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}

	var summary Summary

	pending, err := r.Store.FindPending(ctx, maxBatch)
	if err != nil {
		return summary, fmt.Errorf("failed to load pending articles: %w", err)
	}
	if len(pending) == 0 {
		log.Printf("[ENHANCE] No pending articles to enhance")
		return summary, nil
	}

	enhancer, cleanup := r.newEnhancer(ctx)
	defer cleanup()

	for _, article := range pending {
		state, err := enhancer.EnhanceArticle(ctx, article)
		switch {
		case err != nil:
			summary.Failed++
			log.Printf("[ENHANCE] Article %s failed: %v", article.ID, err)
		case state == StateSkipped:
			summary.Skipped++
		default:
			summary.Enhanced++
		}
	}

	log.Printf("[ENHANCE] Pipeline completed for %d articles", len(pending))
	return summary, nil
}

// RunOne enhances a single article on demand. It re-fetches the record
// immediately before starting so a concurrently completed enhancement is not
// repeated.
func (r *Runner) RunOne(ctx context.Context, id uuid.UUID) (State, error) {
	article, err := r.Store.GetArticleByID(ctx, id)
	if err != nil {
		return StatePending, fmt.Errorf("failed to load article %s: %w", id, err)
	}
	if article == nil {
		return StatePending, fmt.Errorf("article %s not found", id)
	}
	if article.IsEnhanced {
		return StateSkipped, nil
	}

	enhancer, cleanup := r.newEnhancer(ctx)
	defer cleanup()

	return enhancer.EnhanceArticle(ctx, article)
}
