// Package search turns an article title into a ranked list of external
// reference candidates via a web search provider. A deterministic mock
// provider stands in whenever no credentials are configured, so the rest of
// the pipeline always has reference material to work with.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/article-enhancer/internal/types"
)

// MaxResults caps the candidate list returned to the caller.
const MaxResults = 5

// QueryQualifier is appended to every search query to bias results toward
// article-shaped pages.
const QueryQualifier = "blog article"

// blockedDomains filters out video and social platforms that never yield
// scrapeable article text.
var blockedDomains = []string{
	"youtube.com",
	"facebook.com",
	"twitter.com",
	"linkedin.com/posts",
	"pinterest.com",
}

// Provider finds reference candidates for a query. Implementations never
// return an error together with usable results; a provider that cannot serve
// degrades to the mock result set instead.
type Provider interface {
	Search(ctx context.Context, query string) ([]types.SearchCandidate, error)
}

// Error represents a search provider failure.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("search error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Config holds provider credentials and the origin site to exclude from
// results.
type Config struct {
	APIKey     string
	OriginHost string
}

// NewProvider selects the provider variant once at construction: the real
// HTTP provider when an API key is configured, the deterministic mock
// otherwise.
func NewProvider(cfg Config) Provider {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return &MockProvider{}
	}
	return &ZenserpProvider{
		APIKey:     cfg.APIKey,
		OriginHost: cfg.OriginHost,
	}
}

// filterCandidates drops origin-site and blocked-domain results and caps the
// list at MaxResults, preserving provider order.
func filterCandidates(results []types.SearchCandidate, originHost string) []types.SearchCandidate {
	filtered := make([]types.SearchCandidate, 0, len(results))
	for _, r := range results {
		lowered := strings.ToLower(r.Link)
		if originHost != "" && strings.Contains(lowered, originHost) {
			continue
		}
		blocked := false
		for _, d := range blockedDomains {
			if strings.Contains(lowered, d) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		filtered = append(filtered, r)
		if len(filtered) >= MaxResults {
			break
		}
	}
	return filtered
}
