package references

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/article-enhancer/internal/fetch"
	"github.com/jonathan/article-enhancer/internal/search"
	"github.com/jonathan/article-enhancer/internal/types"
)

type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, urlStr string) (*fetch.Result, error) {
	html, ok := f.pages[urlStr]
	if !ok {
		return nil, &fetch.Error{URL: urlStr, Kind: fetch.KindNetworkError, Message: "HTTP status 404"}
	}
	return &fetch.Result{URL: urlStr, HTML: html, StatusCode: 200}, nil
}

func referencePage(title string) string {
	para := strings.Repeat("Support teams use automation to answer routine customer questions quickly. ", 4)
	return `<html><body><article>
		<h1>` + title + `</h1>
		<p>` + para + `</p>
		<p>` + para + ` The pattern holds across industries and team sizes.</p>
	</article></body></html>`
}

func TestCollect_MockCandidates(t *testing.T) {
	c := New(&fakeFetcher{})
	candidates := []types.SearchCandidate{
		{Title: "Mock One", Link: search.MockScheme + "article-1", MockContent: "<p>Embedded reference body one.</p>"},
		{Title: "Mock Two", Link: search.MockScheme + "article-2", MockContent: "<p>Embedded reference body two.</p>"},
	}

	refs := c.Collect(context.Background(), candidates, 2)
	require.Len(t, refs, 2)
	for i, ref := range refs {
		assert.Equal(t, candidates[i].Title, ref.Title)
		assert.Equal(t, candidates[i].Link, ref.URL)
		assert.Equal(t, MockSource, ref.Source)
		assert.Equal(t, candidates[i].MockContent, ref.Content)
	}
}

func TestCollect_SkipsBareMockLink(t *testing.T) {
	c := New(&fakeFetcher{})
	refs := c.Collect(context.Background(), []types.SearchCandidate{
		{Title: "No Body", Link: search.MockScheme + "article-3"},
	}, 2)
	assert.Empty(t, refs)
}

func TestCollect_ScrapesRealCandidates(t *testing.T) {
	link := "https://example.com/automation-guide"
	c := New(&fakeFetcher{pages: map[string]string{
		link: referencePage("Automation Guide"),
	}})

	refs := c.Collect(context.Background(), []types.SearchCandidate{
		{Title: "Automation Guide", Link: link},
	}, 2)

	require.Len(t, refs, 1)
	assert.Equal(t, "Automation Guide", refs[0].Title)
	assert.Equal(t, link, refs[0].URL)
	assert.Equal(t, "example.com", refs[0].Source)
	assert.Contains(t, refs[0].Content, "Support teams use automation")
}

func TestCollect_ToleratesFailedCandidates(t *testing.T) {
	good := "https://example.com/good-article"
	c := New(&fakeFetcher{pages: map[string]string{
		good: referencePage("Good Article"),
	}})

	refs := c.Collect(context.Background(), []types.SearchCandidate{
		{Title: "Broken", Link: "https://example.com/missing"},
		{Title: "Good Article", Link: good},
	}, 2)

	require.Len(t, refs, 1)
	assert.Equal(t, "Good Article", refs[0].Title)
}

func TestCollect_DiscardsThinReferences(t *testing.T) {
	thin := "https://example.com/thin-page"
	c := New(&fakeFetcher{pages: map[string]string{
		thin: `<html><body><p>Barely any text on this page at all, unfortunately so.</p></body></html>`,
	}})

	refs := c.Collect(context.Background(), []types.SearchCandidate{
		{Title: "Thin", Link: thin},
	}, 2)
	assert.Empty(t, refs)
}

func TestCollect_CapsAtMax(t *testing.T) {
	c := New(&fakeFetcher{})
	candidates := []types.SearchCandidate{
		{Title: "One", Link: search.MockScheme + "a", MockContent: "<p>one</p>"},
		{Title: "Two", Link: search.MockScheme + "b", MockContent: "<p>two</p>"},
		{Title: "Three", Link: search.MockScheme + "c", MockContent: "<p>three</p>"},
	}

	refs := c.Collect(context.Background(), candidates, 2)
	assert.Len(t, refs, 2)

	// Zero falls back to the default cap.
	refs = c.Collect(context.Background(), candidates, 0)
	assert.Len(t, refs, DefaultMaxReferences)
}
