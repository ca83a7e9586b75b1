package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/jonathan/article-enhancer/internal/types"
)

// DefaultEndpoint is the Zenserp web search API.
const DefaultEndpoint = "https://app.zenserp.com/api/v2/search"

// requestedResults asks for more than MaxResults so the cap still fills
// after filtering.
const requestedResults = 10

// ZenserpProvider queries the Zenserp search API. Any provider error degrades
// to the deterministic mock result set rather than failing the pipeline.
type ZenserpProvider struct {
	APIKey     string
	OriginHost string
	// Endpoint overrides DefaultEndpoint, used by tests.
	Endpoint string
	// HTTPClient overrides the default client, used by tests.
	HTTPClient *http.Client
}

type zenserpResponse struct {
	Organic []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
	} `json:"organic"`
}

// Search queries the provider with the fixed article qualifier appended,
// filters out origin-site and blocked domains, and caps the results.
func (p *ZenserpProvider) Search(ctx context.Context, query string) ([]types.SearchCandidate, error) {
	results, err := p.doSearch(ctx, query)
	if err != nil {
		log.Printf("[SEARCH] Provider error, falling back to mock results: %v", err)
		mock := &MockProvider{}
		return mock.Search(ctx, query)
	}
	return filterCandidates(results, p.OriginHost), nil
}

func (p *ZenserpProvider) doSearch(ctx context.Context, query string) ([]types.SearchCandidate, error) {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client := p.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	params := url.Values{}
	params.Set("q", query+" "+QueryQualifier)
	params.Set("num", fmt.Sprintf("%d", requestedResults))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &Error{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("apikey", p.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{Message: "search request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Message: fmt.Sprintf("search API returned status %d", resp.StatusCode)}
	}

	var body zenserpResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &Error{Message: "failed to decode search response", Cause: err}
	}

	results := make([]types.SearchCandidate, 0, len(body.Organic))
	for _, r := range body.Organic {
		results = append(results, types.SearchCandidate{
			Title:   r.Title,
			Link:    r.URL,
			Snippet: r.Description,
		})
	}
	return results, nil
}
