package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/article-enhancer/internal/db"
)

// PageCache is the persistence surface the cached fetcher needs. *db.DB
// implements it.
type PageCache interface {
	GetFreshPage(ctx context.Context, url string, ttl time.Duration) (*db.Page, error)
	UpsertPage(ctx context.Context, page *db.Page) error
}

// CachedFetcher wraps a PageFetcher with database-backed caching. Successful
// fetches and failures are both recorded, so a URL that failed recently is
// not retried until its cache entry expires.
type CachedFetcher struct {
	cache     PageCache
	next      PageFetcher
	cacheTTL  time.Duration
	skipCache bool // For testing or forcing fresh fetches
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
}

// NewCachedFetcher creates a cached fetcher in front of next.
func NewCachedFetcher(cache PageCache, next PageFetcher, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = &CachedFetcherConfig{}
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = db.DefaultPageCacheTTL
	}
	return &CachedFetcher{
		cache:     cache,
		next:      next,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
	}
}

// Fetch retrieves a URL, serving it from cache when a fresh entry exists.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	if !f.skipCache && f.cache != nil {
		cached, err := f.cache.GetFreshPage(ctx, urlStr, f.cacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to check page cache: %w", err)
		}
		if cached != nil {
			if cached.FetchError != "" {
				return nil, &Error{
					URL:     urlStr,
					Kind:    KindNetworkError,
					Message: fmt.Sprintf("skipping recently failed URL: %s", cached.FetchError),
				}
			}
			return &Result{
				URL:        cached.URL,
				HTML:       cached.HTML,
				StatusCode: cached.StatusCode,
			}, nil
		}
	}

	result, err := f.next.Fetch(ctx, urlStr)
	if err != nil {
		f.record(ctx, &db.Page{URL: urlStr, FetchError: err.Error()})
		return nil, err
	}

	f.record(ctx, &db.Page{
		URL:        result.URL,
		HTML:       result.HTML,
		StatusCode: result.StatusCode,
	})
	return result, nil
}

// record stores one fetch outcome. Cache write failures never fail the fetch.
func (f *CachedFetcher) record(ctx context.Context, page *db.Page) {
	if f.cache == nil {
		return
	}
	if err := f.cache.UpsertPage(ctx, page); err != nil {
		log.Printf("[FETCH] Failed to cache page %s: %v", page.URL, err)
	}
}
