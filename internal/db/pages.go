package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DefaultPageCacheTTL is how long a cached page stays fresh.
const DefaultPageCacheTTL = 7 * 24 * time.Hour

// Page is one cached fetch of an external URL.
type Page struct {
	ID         uuid.UUID
	URL        string
	HTML       string
	StatusCode int
	FetchError string
	FetchedAt  time.Time
}

// GetFreshPage returns the cached page for a URL when it was fetched within
// ttl, or nil when the cache has no fresh entry.
func (db *DB) GetFreshPage(ctx context.Context, url string, ttl time.Duration) (*Page, error) {
	var p Page
	var html, fetchError *string
	var statusCode *int

	err := db.pool.QueryRow(ctx,
		`SELECT id, url, html, status_code, fetch_error, fetched_at
		 FROM pages
		 WHERE url = $1 AND fetched_at > $2`,
		url, time.Now().Add(-ttl),
	).Scan(&p.ID, &p.URL, &html, &statusCode, &fetchError, &p.FetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached page: %w", err)
	}

	if html != nil {
		p.HTML = *html
	}
	if statusCode != nil {
		p.StatusCode = *statusCode
	}
	if fetchError != nil {
		p.FetchError = *fetchError
	}
	return &p, nil
}

// UpsertPage stores the outcome of one fetch, replacing any previous entry
// for the same URL.
func (db *DB) UpsertPage(ctx context.Context, page *Page) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO pages (url, html, status_code, fetch_error, fetched_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (url) DO UPDATE SET
		        html = EXCLUDED.html,
		        status_code = EXCLUDED.status_code,
		        fetch_error = EXCLUDED.fetch_error,
		        fetched_at = EXCLUDED.fetched_at`,
		page.URL, page.HTML, page.StatusCode, page.FetchError)
	if err != nil {
		return fmt.Errorf("failed to upsert page: %w", err)
	}
	return nil
}
