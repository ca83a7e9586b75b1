package harvest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/article-enhancer/internal/extract"
	"github.com/jonathan/article-enhancer/internal/fetch"
)

var site = extract.Site{Host: "beyondchats.com", PathPrefix: "/blogs/"}

// mapFetcher serves canned HTML per URL.
type mapFetcher struct {
	pages map[string]string
}

func (f *mapFetcher) Fetch(_ context.Context, urlStr string) (*fetch.Result, error) {
	html, ok := f.pages[urlStr]
	if !ok {
		return nil, &fetch.Error{URL: urlStr, Kind: fetch.KindNetworkError, Message: "HTTP status 404"}
	}
	return &fetch.Result{URL: urlStr, HTML: html, StatusCode: 200}, nil
}

func articleHTML(title string) string {
	para := strings.Repeat("Chatbots answer routine customer questions around the clock. ", 4)
	return `<html><head>
		<meta name="description" content="A short summary of the article.">
		<meta property="og:image" content="https://beyondchats.com/cover.png">
	</head><body><article>
		<h1>` + title + `</h1>
		<h2>Why It Matters Today</h2>
		<p>` + para + `</p>
		<p>` + para + ` Businesses keep seeing the same pattern repeat.</p>
		<p>` + para + ` Teams answer the remaining questions themselves.</p>
	</article></body></html>`
}

func listingHTML(links ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, l := range links {
		sb.WriteString(`<a href="` + l + `">post</a>`)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func withBrowser(f fetch.PageFetcher) BrowserFactory {
	return func(context.Context) (fetch.PageFetcher, func(), error) {
		return f, func() {}, nil
	}
}

func failingBrowser() BrowserFactory {
	return func(context.Context) (fetch.PageFetcher, func(), error) {
		return nil, nil, errors.New("chrome not found")
	}
}

func TestHarvest_Rendered(t *testing.T) {
	listing := "https://beyondchats.com/blogs/"
	first := "https://beyondchats.com/blogs/first-article-here/"
	second := "https://beyondchats.com/blogs/second-article-here/"

	fetcher := &mapFetcher{pages: map[string]string{
		listing: listingHTML(first, second),
		first:   articleHTML("First Article"),
		second:  articleHTML("Second Article"),
	}}

	h := NewWithFetchers(Config{
		ListingURL:    listing,
		Site:          site,
		DefaultAuthor: "BeyondChats Team",
	}, withBrowser(fetcher), &fetch.Plain{})

	articles, err := h.Harvest(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	titles := []string{articles[0].Title, articles[1].Title}
	assert.ElementsMatch(t, []string{"First Article", "Second Article"}, titles)

	for _, a := range articles {
		assert.Equal(t, "BeyondChats Team", a.Author)
		assert.Equal(t, "A short summary of the article.", a.Excerpt)
		assert.Equal(t, "https://beyondchats.com/cover.png", a.ImageURL)
		assert.Contains(t, a.Content, "<h2>Why It Matters Today</h2>")
		assert.Contains(t, a.Content, "<p>")
		assert.False(t, a.ScrapedAt.IsZero())
	}
}

func TestHarvest_CountCapsLinks(t *testing.T) {
	listing := "https://beyondchats.com/blogs/"
	pages := map[string]string{listing: listingHTML(
		"/blogs/first-article-here/",
		"/blogs/second-article-here/",
		"/blogs/third-article-here/",
	)}
	for _, u := range []string{
		"https://beyondchats.com/blogs/first-article-here/",
		"https://beyondchats.com/blogs/second-article-here/",
		"https://beyondchats.com/blogs/third-article-here/",
	} {
		pages[u] = articleHTML("Title Of Post")
	}

	h := NewWithFetchers(Config{ListingURL: listing, Site: site},
		withBrowser(&mapFetcher{pages: pages}), &fetch.Plain{})

	articles, err := h.Harvest(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestHarvest_SkipsFailedAndThinCandidates(t *testing.T) {
	listing := "https://beyondchats.com/blogs/"
	good := "https://beyondchats.com/blogs/first-article-here/"
	thin := "https://beyondchats.com/blogs/second-article-here/"
	broken := "https://beyondchats.com/blogs/third-article-here/"

	fetcher := &mapFetcher{pages: map[string]string{
		listing: listingHTML(good, thin, broken),
		good:    articleHTML("Good Article"),
		thin:    `<html><body><h1>Thin Page</h1><p>` + strings.Repeat("Almost nothing here at all, sadly. ", 2) + `</p></body></html>`,
		// broken 404s
	}}

	h := NewWithFetchers(Config{ListingURL: listing, Site: site},
		withBrowser(fetcher), &fetch.Plain{})

	articles, err := h.Harvest(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Good Article", articles[0].Title)
}

func TestHarvest_BrowserFailureFallsBackToPlain(t *testing.T) {
	listing := "https://beyondchats.com/blogs/"
	first := "https://beyondchats.com/blogs/first-article-here/"

	para := strings.Repeat("Chatbots answer routine customer questions around the clock. ", 10)
	plain := &mapFetcher{pages: map[string]string{
		listing: listingHTML(first),
		first: `<html><body><h1>Plain Article</h1><p>` + para + `</p></body></html>`,
	}}

	h := NewWithFetchers(Config{ListingURL: listing, Site: site},
		failingBrowser(), plain)

	articles, err := h.Harvest(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Plain Article", articles[0].Title)
	assert.Contains(t, articles[0].Content, "<p>")
}

func TestHarvest_ListingFetchFails(t *testing.T) {
	h := NewWithFetchers(Config{
		ListingURL: "https://beyondchats.com/blogs/",
		Site:       site,
	}, withBrowser(&mapFetcher{pages: map[string]string{}}),
		&mapFetcher{pages: map[string]string{}})

	_, err := h.Harvest(context.Background(), 5)
	require.Error(t, err)

	var harvestErr *Error
	assert.ErrorAs(t, err, &harvestErr)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
