package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonathan/article-enhancer/internal/types"
)

// ErrDuplicateArticle is returned by InsertArticle when an article with the
// same source URL is already stored.
var ErrDuplicateArticle = errors.New("article with this source URL already exists")

// uniqueViolation is the SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

const articleColumns = `id, title, content, excerpt, author, published_date, source_url,
	        image_url, tags, enhanced_content, enhanced_title, references_json,
	        is_enhanced, enhanced_at, scraped_at, created_at, updated_at`

// scanArticle maps one row onto an Article, decoding the JSONB references.
func scanArticle(row pgx.Row) (*types.Article, error) {
	var a types.Article
	var refsJSON []byte

	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Excerpt, &a.Author,
		&a.PublishedDate, &a.SourceURL, &a.ImageURL, &a.Tags,
		&a.EnhancedContent, &a.EnhancedTitle, &refsJSON,
		&a.IsEnhanced, &a.EnhancedAt, &a.ScrapedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if refsJSON != nil {
		_ = json.Unmarshal(refsJSON, &a.References)
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.References == nil {
		a.References = []types.ReferenceSummary{}
	}
	return &a, nil
}

// InsertArticle stores a newly harvested article in its original state.
// A duplicate source URL returns ErrDuplicateArticle.
func (db *DB) InsertArticle(ctx context.Context, raw *types.RawArticle) (*types.Article, error) {
	var published any
	if !raw.PublishedDate.IsZero() {
		published = raw.PublishedDate
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO articles (title, content, excerpt, author, published_date,
		        source_url, image_url, scraped_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+articleColumns,
		raw.Title, raw.Content, raw.Excerpt, raw.Author, published,
		raw.SourceURL, raw.ImageURL, raw.ScrapedAt,
	)

	article, err := scanArticle(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateArticle
		}
		return nil, fmt.Errorf("failed to insert article: %w", err)
	}
	return article, nil
}

// GetArticleByID retrieves an article, or nil when not found.
func (db *DB) GetArticleByID(ctx context.Context, id uuid.UUID) (*types.Article, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)

	article, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return article, nil
}

// FindPending returns up to limit articles awaiting enhancement,
// oldest-first.
func (db *DB) FindPending(ctx context.Context, limit int) ([]*types.Article, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+articleColumns+`
		 FROM articles WHERE is_enhanced = false
		 ORDER BY created_at ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// ListFilter selects which articles ListArticles returns.
type ListFilter struct {
	// Enhanced filters on enhancement state when non-nil.
	Enhanced *bool
	Page     int
	Limit    int
}

// ListArticles returns a page of articles, newest-first, with the total count
// matching the filter.
func (db *DB) ListArticles(ctx context.Context, filter ListFilter) ([]*types.Article, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	offset := (filter.Page - 1) * filter.Limit

	where := ""
	args := []any{filter.Limit, offset}
	if filter.Enhanced != nil {
		where = "WHERE is_enhanced = $3"
		args = append(args, *filter.Enhanced)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+articleColumns+`
		 FROM articles `+where+`
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, 0, err
	}

	total, err := db.CountArticles(ctx, filter.Enhanced)
	if err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

// CountArticles returns the number of stored articles, optionally filtered
// on enhancement state.
func (db *DB) CountArticles(ctx context.Context, enhanced *bool) (int, error) {
	where := ""
	args := []any{}
	if enhanced != nil {
		where = "WHERE is_enhanced = $1"
		args = append(args, *enhanced)
	}

	var total int
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM articles `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return total, nil
}

// UpdateArticle applies non-zero fields from the request to a stored article
// and returns the updated record, or nil when not found.
func (db *DB) UpdateArticle(ctx context.Context, id uuid.UUID, req *types.UpdateArticleRequest) (*types.Article, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE articles SET
		        title = COALESCE(NULLIF($2, ''), title),
		        content = COALESCE(NULLIF($3, ''), content),
		        excerpt = COALESCE(NULLIF($4, ''), excerpt),
		        author = COALESCE(NULLIF($5, ''), author),
		        tags = COALESCE($6, tags),
		        updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+articleColumns,
		id, req.Title, req.Content, req.Excerpt, req.Author, req.Tags)

	article, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update article: %w", err)
	}
	return article, nil
}

// DeleteArticle removes an article. It reports whether a row was deleted.
func (db *DB) DeleteArticle(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete article: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SaveEnhancement writes the full enhancement result in a single statement so
// a reader never observes a partially enhanced article.
func (db *DB) SaveEnhancement(ctx context.Context, id uuid.UUID, enhancedContent, enhancedTitle string, refs []types.ReferenceSummary, enhancedAt time.Time) error {
	refsJSON, err := json.Marshal(refs)
	if err != nil {
		return fmt.Errorf("failed to marshal references: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE articles SET
		        enhanced_content = $2,
		        enhanced_title = $3,
		        references_json = $4,
		        is_enhanced = true,
		        enhanced_at = $5,
		        updated_at = NOW()
		 WHERE id = $1`,
		id, enhancedContent, enhancedTitle, refsJSON, enhancedAt)
	if err != nil {
		return fmt.Errorf("failed to save enhancement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("article %s not found", id)
	}
	return nil
}

func collectArticles(rows pgx.Rows) ([]*types.Article, error) {
	articles := make([]*types.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading article rows: %w", err)
	}
	return articles, nil
}
