package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/article-enhancer/internal/types"
)

func TestNewProvider_SelectsVariant(t *testing.T) {
	assert.IsType(t, &MockProvider{}, NewProvider(Config{}))
	assert.IsType(t, &MockProvider{}, NewProvider(Config{APIKey: "   "}))
	assert.IsType(t, &ZenserpProvider{}, NewProvider(Config{APIKey: "key"}))
}

func TestMockProvider_Deterministic(t *testing.T) {
	p := &MockProvider{}

	first, err := p.Search(context.Background(), "How Chatbots Help Support Teams")
	require.NoError(t, err)
	second, err := p.Search(context.Background(), "a completely different query")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	for _, c := range first {
		assert.True(t, strings.HasPrefix(c.Link, MockScheme))
		assert.NotEmpty(t, c.Title)
		assert.NotEmpty(t, c.MockContent)
	}
}

func TestFilterCandidates(t *testing.T) {
	results := []types.SearchCandidate{
		{Title: "keep 1", Link: "https://example.com/post-one"},
		{Title: "origin", Link: "https://beyondchats.com/blogs/self-reference"},
		{Title: "video", Link: "https://www.youtube.com/watch?v=abc"},
		{Title: "social", Link: "https://www.linkedin.com/posts/someone"},
		{Title: "keep 2", Link: "https://example.org/another-post"},
	}

	filtered := filterCandidates(results, "beyondchats.com")
	require.Len(t, filtered, 2)
	assert.Equal(t, "keep 1", filtered[0].Title)
	assert.Equal(t, "keep 2", filtered[1].Title)
}

func TestFilterCandidates_CapsAtMaxResults(t *testing.T) {
	var results []types.SearchCandidate
	for i := 0; i < MaxResults+4; i++ {
		results = append(results, types.SearchCandidate{
			Link: fmt.Sprintf("https://example.com/post-%d", i),
		})
	}

	filtered := filterCandidates(results, "")
	assert.Len(t, filtered, MaxResults)
	assert.Equal(t, "https://example.com/post-0", filtered[0].Link)
}

func TestZenserpProvider_Search(t *testing.T) {
	var gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.Header.Get("apikey")
		fmt.Fprint(w, `{"organic":[
			{"title":"External Post","url":"https://example.com/external-post","description":"A relevant article"},
			{"title":"Origin Post","url":"https://beyondchats.com/blogs/own-post","description":"Should be filtered"}
		]}`)
	}))
	defer srv.Close()

	p := &ZenserpProvider{APIKey: "test-key", OriginHost: "beyondchats.com", Endpoint: srv.URL}

	results, err := p.Search(context.Background(), "chatbot support")
	require.NoError(t, err)

	assert.Equal(t, "chatbot support "+QueryQualifier, gotQuery)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, results, 1)
	assert.Equal(t, "External Post", results[0].Title)
	assert.Equal(t, "https://example.com/external-post", results[0].Link)
	assert.Equal(t, "A relevant article", results[0].Snippet)
}

func TestZenserpProvider_ErrorFallsBackToMock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := &ZenserpProvider{APIKey: "bad-key", Endpoint: srv.URL}

	results, err := p.Search(context.Background(), "anything")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, strings.HasPrefix(results[0].Link, MockScheme))
}

func TestZenserpProvider_BadJSONFallsBackToMock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer srv.Close()

	p := &ZenserpProvider{APIKey: "key", Endpoint: srv.URL}

	results, err := p.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
