// Package references resolves search candidates into reference text bodies
// for the rewrite step.
package references

import (
	"context"
	"log"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/jonathan/article-enhancer/internal/extract"
	"github.com/jonathan/article-enhancer/internal/fetch"
	"github.com/jonathan/article-enhancer/internal/search"
	"github.com/jonathan/article-enhancer/internal/types"
)

const (
	// DefaultMaxReferences is how many candidates are resolved per article.
	DefaultMaxReferences = 2
	// MinReferenceLength discards references whose extracted text is too thin
	// to inspire a rewrite.
	MinReferenceLength = 100
	// MockSource labels references synthesized from embedded mock content.
	MockSource = "mock-reference"
)

// Collector resolves candidate URLs into references, reusing the page fetcher
// and extractor. Individual candidate failures are logged and skipped.
type Collector struct {
	Fetcher fetch.PageFetcher
}

// New creates a Collector over the given fetch strategy.
func New(fetcher fetch.PageFetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect resolves at most max candidates in order. Candidates carrying
// embedded mock content are synthesized directly without fetching.
func (c *Collector) Collect(ctx context.Context, candidates []types.SearchCandidate, max int) []types.Reference {
	if max <= 0 {
		max = DefaultMaxReferences
	}
	if len(candidates) > max {
		candidates = candidates[:max]
	}

	refs := make([]types.Reference, 0, len(candidates))
	for _, cand := range candidates {
		if cand.MockContent != "" {
			refs = append(refs, types.Reference{
				Title:   cand.Title,
				URL:     cand.Link,
				Source:  MockSource,
				Content: cand.MockContent,
			})
			continue
		}
		if strings.HasPrefix(cand.Link, search.MockScheme) {
			continue // mock link without content, nothing to resolve
		}

		content, err := c.scrape(ctx, cand.Link)
		if err != nil {
			log.Printf("[REFERENCES] Scrape failed for %s: %v", cand.Link, err)
			continue
		}
		if len(content) < MinReferenceLength {
			log.Printf("[REFERENCES] Skipping %s: extracted only %d chars", cand.Link, len(content))
			continue
		}

		refs = append(refs, types.Reference{
			Title:   cand.Title,
			URL:     cand.Link,
			Source:  hostname(cand.Link),
			Content: content,
		})
	}
	return refs
}

// scrape fetches a candidate page and extracts its whole-document text,
// preferring the selector chain and falling back to readability when the
// chain comes up short.
func (c *Collector) scrape(ctx context.Context, link string) (string, error) {
	page, err := c.Fetcher.Fetch(ctx, link)
	if err != nil {
		return "", err
	}

	content, err := extract.ExtractForURL(page.HTML, link)
	if err != nil {
		return "", err
	}
	if len(content) >= extract.MinRegionTextLength {
		return content, nil
	}

	// Selector chain found little; let readability take a pass.
	pageURL, err := url.Parse(link)
	if err != nil {
		return content, nil
	}
	article, err := readability.FromReader(strings.NewReader(page.HTML), pageURL)
	if err != nil {
		return content, nil
	}
	text := strings.TrimSpace(article.TextContent)
	if len(text) > extract.MaxPlainTextLength {
		text = text[:extract.MaxPlainTextLength]
	}
	if len(text) > len(content) {
		return text, nil
	}
	return content, nil
}

func hostname(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return link
	}
	return u.Host
}
