// Package enhance drives one article from pending to enhanced: search for
// competing content, collect reference bodies, rewrite, and persist.
package enhance

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/article-enhancer/internal/references"
	"github.com/jonathan/article-enhancer/internal/rewrite"
	"github.com/jonathan/article-enhancer/internal/search"
	"github.com/jonathan/article-enhancer/internal/types"
)

// State is the orchestrator's position in the per-article state machine.
// Saved and Skipped are terminal.
type State string

// Orchestrator states.
const (
	StatePending    State = "pending"
	StateSearching  State = "searching"
	StateCollecting State = "collecting"
	StateRewriting  State = "rewriting"
	StateSaved      State = "saved"
	StateSkipped    State = "skipped"
)

// Store is the narrow storage contract the enhancement pipeline depends on.
type Store interface {
	FindPending(ctx context.Context, limit int) ([]*types.Article, error)
	GetArticleByID(ctx context.Context, id uuid.UUID) (*types.Article, error)
	SaveEnhancement(ctx context.Context, id uuid.UUID, enhancedContent, enhancedTitle string, refs []types.ReferenceSummary, enhancedAt time.Time) error
}

// Enhancer composes the search adapter, reference collector, and rewrite
// adapter over one article at a time.
type Enhancer struct {
	Store     Store
	Search    search.Provider
	Collector *references.Collector
	Rewriter  rewrite.Rewriter
	MaxRefs   int
}

// EnhanceArticle runs the state machine for a single article and returns the
// terminal state reached. A stage that yields nothing usable transitions to
// Skipped; only a persistence failure leaves the article pending for a
// future run.
func (e *Enhancer) EnhanceArticle(ctx context.Context, article *types.Article) (State, error) {
	if article.IsEnhanced {
		log.Printf("[ENHANCE] Article %s already enhanced, skipping", article.ID)
		return StateSkipped, nil
	}
	log.Printf("[ENHANCE] Enhancing article: %s", article.Title)

	// Searching
	candidates, err := e.Search.Search(ctx, article.Title)
	if err != nil {
		log.Printf("[ENHANCE] Search failed: %v", err)
		candidates = nil
	}
	if len(candidates) == 0 {
		log.Printf("[ENHANCE] No search results; skipping enhancement")
		return StateSkipped, nil
	}

	// Collecting
	maxRefs := e.MaxRefs
	if maxRefs <= 0 {
		maxRefs = references.DefaultMaxReferences
	}
	refs := e.Collector.Collect(ctx, candidates, maxRefs)
	if len(refs) == 0 {
		log.Printf("[ENHANCE] No references available; skipping enhancement")
		return StateSkipped, nil
	}

	// Rewriting
	enhancedContent, err := e.Rewriter.Rewrite(ctx, article.Title, article.Content, refs)
	if err != nil {
		log.Printf("[ENHANCE] Rewrite failed: %v", err)
		return StateSkipped, nil
	}
	if enhancedContent == "" {
		log.Printf("[ENHANCE] No enhanced content produced; skipping")
		return StateSkipped, nil
	}

	// Saved: one write sets every enhancement field together.
	summaries := make([]types.ReferenceSummary, 0, len(refs))
	for _, r := range refs {
		summaries = append(summaries, types.ReferenceSummary{
			Title:  r.Title,
			URL:    r.URL,
			Source: r.Source,
		})
	}
	if err := e.Store.SaveEnhancement(ctx, article.ID, enhancedContent, article.Title, summaries, time.Now().UTC()); err != nil {
		log.Printf("[ENHANCE] Failed to save enhanced article: %v", err)
		return StatePending, fmt.Errorf("failed to save enhancement for %s: %w", article.ID, err)
	}

	log.Printf("[ENHANCE] Article enhanced and saved: %s", article.Title)
	return StateSaved, nil
}
