// Package fetch - browser.go provides headless browser rendering for
// JavaScript-rendered blog pages.
package fetch

import (
	"context"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultPageTimeout bounds a single page navigation, including rendering.
const DefaultPageTimeout = 25 * time.Second

// DefaultSettleDelay is the fixed wait after the DOM is ready, giving
// client-side rendering frameworks time to finish painting.
const DefaultSettleDelay = 1200 * time.Millisecond

// Browser owns a headless browser allocator for the duration of a batch.
// Each Fetch call opens its own tab context and closes it on every exit path;
// Close releases the allocator itself.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	pageTimeout time.Duration
	settleDelay time.Duration
	verbose     bool
}

// BrowserOptions configures browser fetching.
type BrowserOptions struct {
	PageTimeout time.Duration
	SettleDelay time.Duration
	Verbose     bool
}

// NewBrowser launches a headless browser allocator. The caller must Close it.
func NewBrowser(ctx context.Context, opts *BrowserOptions) (*Browser, error) {
	if opts == nil {
		opts = &BrowserOptions{}
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = DefaultPageTimeout
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)

	b := &Browser{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		pageTimeout: opts.PageTimeout,
		settleDelay: opts.SettleDelay,
		verbose:     opts.Verbose,
	}

	// Probe the browser binary now so a missing Chrome surfaces at launch,
	// not on the first page fetch.
	probeCtx, probeCancel := chromedp.NewContext(allocCtx)
	defer probeCancel()
	probeCtx, timeoutCancel := context.WithTimeout(probeCtx, opts.PageTimeout)
	defer timeoutCancel()
	if err := chromedp.Run(probeCtx); err != nil {
		allocCancel()
		return nil, &Error{
			Message: "browser launch failed",
			Kind:    KindNetworkError,
			Cause:   err,
		}
	}

	return b, nil
}

// Close shuts down the browser allocator.
func (b *Browser) Close() {
	if b.allocCancel != nil {
		b.allocCancel()
	}
}

// Fetch renders a URL in a fresh tab and returns the rendered markup.
// The tab context is cancelled on every exit path.
func (b *Browser) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	if b.verbose {
		log.Printf("[BROWSER] Rendering: %s", urlStr)
	}

	tabCtx, tabCancel := chromedp.NewContext(b.allocCtx)
	defer tabCancel()

	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, b.pageTimeout)
	defer timeoutCancel()

	// Honor the caller's cancellation as well as the page timeout.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			tabCancel()
		case <-done:
		}
	}()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(b.settleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		kind := KindNetworkError
		if tabCtx.Err() == context.DeadlineExceeded {
			kind = KindTimeout
		}
		return nil, &Error{
			URL:     urlStr,
			Kind:    kind,
			Message: "browser rendering failed",
			Cause:   err,
		}
	}

	if b.verbose {
		log.Printf("[BROWSER] Rendered %s: %d bytes", urlStr, len(html))
	}

	return &Result{
		URL:        urlStr,
		HTML:       html,
		StatusCode: 200,
	}, nil
}
