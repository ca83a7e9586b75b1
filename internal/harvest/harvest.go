// Package harvest discovers article permalinks on the origin site's listing
// page and extracts each article through a bounded-concurrency worker pool.
package harvest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/article-enhancer/internal/extract"
	"github.com/jonathan/article-enhancer/internal/fetch"
	"github.com/jonathan/article-enhancer/internal/types"
)

const (
	// DefaultConcurrency is the fixed width of the page worker pool. Rendering
	// contexts are expensive, so this stays small.
	DefaultConcurrency = 2
	// MinArticleTextLength rejects thin listing or search pages that slipped
	// through link discovery.
	MinArticleTextLength = 500
	// MaxTitleLength and MaxExcerptLength cap stored field sizes.
	MaxTitleLength   = 500
	MaxExcerptLength = 500
)

// Error represents a harvest-level failure (listing fetch or discovery).
// Per-candidate failures are logged and dropped, never surfaced here.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("harvest error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("harvest error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Config holds the origin-site shape and harvest limits.
type Config struct {
	ListingURL    string
	Site          extract.Site
	DefaultAuthor string
	Concurrency   int
	Verbose       bool
}

// BrowserFactory launches the rendering fetch strategy for one harvest run.
// The returned cleanup func must be called when the run finishes.
type BrowserFactory func(ctx context.Context) (fetch.PageFetcher, func(), error)

// Harvester turns a listing page into a batch of raw articles.
type Harvester struct {
	cfg        Config
	newBrowser BrowserFactory
	plain      fetch.PageFetcher
}

// New creates a Harvester using the default headless-browser strategy.
func New(cfg Config) *Harvester {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Harvester{
		cfg: cfg,
		newBrowser: func(ctx context.Context) (fetch.PageFetcher, func(), error) {
			b, err := fetch.NewBrowser(ctx, &fetch.BrowserOptions{Verbose: cfg.Verbose})
			if err != nil {
				return nil, nil, err
			}
			return b, b.Close, nil
		},
		plain: &fetch.Plain{},
	}
}

// NewWithFetchers creates a Harvester with injected fetch strategies.
func NewWithFetchers(cfg Config, newBrowser BrowserFactory, plain fetch.PageFetcher) *Harvester {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Harvester{cfg: cfg, newBrowser: newBrowser, plain: plain}
}

// Harvest fetches the listing page, discovers up to count candidate links,
// and extracts each article. If the rendering strategy fails outright it
// falls back once to the plain-HTTP strategy.
func (h *Harvester) Harvest(ctx context.Context, count int) ([]types.RawArticle, error) {
	articles, err := h.harvestRendered(ctx, count)
	if err != nil {
		log.Printf("[HARVEST] Rendering strategy failed: %v; trying plain-HTTP fallback", err)
		return h.harvestPlain(ctx, count)
	}
	return articles, nil
}

func (h *Harvester) harvestRendered(ctx context.Context, count int) ([]types.RawArticle, error) {
	browser, cleanup, err := h.newBrowser(ctx)
	if err != nil {
		return nil, &Error{Message: "browser launch failed", Cause: err}
	}
	defer cleanup()

	listing, err := browser.Fetch(ctx, h.cfg.ListingURL)
	if err != nil {
		return nil, &Error{Message: "listing page fetch failed", Cause: err}
	}

	links, err := extract.DiscoverLinks(listing.HTML, h.cfg.ListingURL, h.cfg.Site, count)
	if err != nil {
		return nil, &Error{Message: "link discovery failed", Cause: err}
	}
	log.Printf("[HARVEST] Found %d article links", len(links))

	var mu sync.Mutex
	articles := make([]types.RawArticle, 0, len(links))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.Concurrency)
	for _, link := range links {
		g.Go(func() error {
			article, err := h.scrapeArticle(gCtx, browser, link)
			if err != nil {
				log.Printf("[HARVEST] Skipping %s: %v", link, err)
				return nil // candidate failures never abort the batch
			}
			mu.Lock()
			articles = append(articles, article)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	log.Printf("[HARVEST] Scraped %d articles", len(articles))
	return articles, nil
}

// scrapeArticle fetches and extracts one candidate page with the
// structure-preserving extraction mode.
func (h *Harvester) scrapeArticle(ctx context.Context, fetcher fetch.PageFetcher, link string) (types.RawArticle, error) {
	page, err := fetcher.Fetch(ctx, link)
	if err != nil {
		return types.RawArticle{}, err
	}

	meta, err := extract.ExtractMeta(page.HTML)
	if err != nil {
		return types.RawArticle{}, err
	}
	if meta.Title == "" {
		return types.RawArticle{}, &Error{Message: "no title found"}
	}

	blocks, err := extract.ExtractBlocks(page.HTML)
	if err != nil {
		return types.RawArticle{}, err
	}

	content := extract.RenderBlocks(blocks)
	if content == "" && meta.Excerpt != "" {
		content = "<p>" + meta.Excerpt + "</p>"
	}

	if textLen := extract.VisibleTextLength(content); textLen < MinArticleTextLength {
		return types.RawArticle{}, &Error{
			Message: fmt.Sprintf("content too short: %d chars", textLen),
		}
	}

	if h.cfg.Verbose {
		log.Printf("[HARVEST] Got %q (%d chars)", meta.Title, len(content))
	}

	now := time.Now().UTC()
	return types.RawArticle{
		Title:         truncate(meta.Title, MaxTitleLength),
		Content:       content,
		Excerpt:       truncate(meta.Excerpt, MaxExcerptLength),
		Author:        h.cfg.DefaultAuthor,
		ImageURL:      meta.ImageURL,
		SourceURL:     link,
		PublishedDate: now,
		ScrapedAt:     now,
	}, nil
}

// harvestPlain is the one-shot fallback: plain HTTP fetches and
// paragraph-only extraction, run sequentially. It never recurses back into
// the rendering strategy.
func (h *Harvester) harvestPlain(ctx context.Context, count int) ([]types.RawArticle, error) {
	listing, err := h.plain.Fetch(ctx, h.cfg.ListingURL)
	if err != nil {
		return nil, &Error{Message: "fallback listing fetch failed", Cause: err}
	}

	links, err := extract.DiscoverLinks(listing.HTML, h.cfg.ListingURL, h.cfg.Site, count)
	if err != nil {
		return nil, &Error{Message: "fallback link discovery failed", Cause: err}
	}
	log.Printf("[HARVEST] Fallback found %d article links", len(links))

	articles := make([]types.RawArticle, 0, len(links))
	for _, link := range links {
		article, err := h.scrapePlain(ctx, link)
		if err != nil {
			log.Printf("[HARVEST] Skipping %s: %v", link, err)
			continue
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func (h *Harvester) scrapePlain(ctx context.Context, link string) (types.RawArticle, error) {
	page, err := h.plain.Fetch(ctx, link)
	if err != nil {
		return types.RawArticle{}, err
	}

	meta, err := extract.ExtractMeta(page.HTML)
	if err != nil {
		return types.RawArticle{}, err
	}
	if meta.Title == "" {
		return types.RawArticle{}, &Error{Message: "no title found"}
	}

	paragraphs, err := extract.ExtractParagraphs(page.HTML)
	if err != nil {
		return types.RawArticle{}, err
	}

	var sb strings.Builder
	for _, p := range paragraphs {
		sb.WriteString("<p>" + p + "</p>\n")
	}
	content := sb.String()
	if content == "" && meta.Excerpt != "" {
		content = "<p>" + meta.Excerpt + "</p>"
	}

	if textLen := extract.VisibleTextLength(content); textLen < MinArticleTextLength {
		return types.RawArticle{}, &Error{
			Message: fmt.Sprintf("content too short: %d chars", textLen),
		}
	}

	now := time.Now().UTC()
	return types.RawArticle{
		Title:         truncate(meta.Title, MaxTitleLength),
		Content:       content,
		Excerpt:       truncate(meta.Excerpt, MaxExcerptLength),
		Author:        h.cfg.DefaultAuthor,
		ImageURL:      meta.ImageURL,
		SourceURL:     link,
		PublishedDate: now,
		ScrapedAt:     now,
	}, nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
