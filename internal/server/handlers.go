package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/article-enhancer/internal/db"
	"github.com/jonathan/article-enhancer/internal/types"
)

// ListArticlesResponse represents the response for GET /api/articles
type ListArticlesResponse struct {
	Articles []*types.Article `json:"articles"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// ScrapeResponse represents the response for POST /api/articles/scrape
type ScrapeResponse struct {
	Status string `json:"status"`
	Target string `json:"target"`
}

// EnhanceResponse represents the response for the enhance endpoints
type EnhanceResponse struct {
	Status    string `json:"status"`
	ArticleID string `json:"article_id,omitempty"`
	MaxBatch  int    `json:"max_batch,omitempty"`
}

// handleListArticles returns a page of stored articles
func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	filter := db.ListFilter{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 10),
	}

	if v := r.URL.Query().Get("enhanced"); v != "" {
		enhanced, err := strconv.ParseBool(v)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "enhanced must be true or false")
			return
		}
		filter.Enhanced = &enhanced
	}

	articles, total, err := s.db.ListArticles(r.Context(), filter)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ListArticlesResponse{
		Articles: articles,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	})
}

// handleListPending returns articles awaiting enhancement, oldest-first
func (s *Server) handleListPending(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", s.app.MaxBatch)

	articles, err := s.db.FindPending(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"articles": articles})
}

// handleCreateArticle stores an article supplied directly via the API
func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var req types.CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	raw := types.RawArticle{
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Author:    req.Author,
		ImageURL:  req.ImageURL,
		SourceURL: req.SourceURL,
		ScrapedAt: time.Now(),
	}

	article, err := s.db.InsertArticle(r.Context(), &raw)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateArticle) {
			s.errorResponse(w, http.StatusConflict, "Article with this source URL already exists")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	if len(req.Tags) > 0 {
		article, err = s.db.UpdateArticle(r.Context(), article.ID, &types.UpdateArticleRequest{Tags: req.Tags})
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
	}

	s.jsonResponse(w, http.StatusCreated, article)
}

// handleGetArticle returns a single article by ID
func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.articleID(w, r)
	if !ok {
		return
	}

	article, err := s.db.GetArticleByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if article == nil {
		s.errorResponse(w, http.StatusNotFound, "Article not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, article)
}

// handleUpdateArticle applies a partial update to a stored article
func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.articleID(w, r)
	if !ok {
		return
	}

	var req types.UpdateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	article, err := s.db.UpdateArticle(r.Context(), id, &req)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if article == nil {
		s.errorResponse(w, http.StatusNotFound, "Article not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, article)
}

// handleDeleteArticle removes a stored article
func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.articleID(w, r)
	if !ok {
		return
	}

	deleted, err := s.db.DeleteArticle(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Article not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleScrape harvests the configured listing page in the background
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", s.app.HarvestCount)

	log.Printf("Starting harvest of %s (count=%d)", s.app.ListingURL, count)

	go func() {
		ctx := context.Background()
		if err := s.runScrape(ctx, count); err != nil {
			log.Printf("Harvest failed: %v", err)
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, ScrapeResponse{
		Status: "started",
		Target: s.app.ListingURL,
	})
}

// runScrape harvests articles and stores the new ones, then kicks the
// enhancement pipeline when configured to run automatically.
func (s *Server) runScrape(ctx context.Context, count int) error {
	raws, err := s.harvester.Harvest(ctx, count)
	if err != nil {
		return err
	}

	created, skipped := 0, 0
	for i := range raws {
		if _, err := s.db.InsertArticle(ctx, &raws[i]); err != nil {
			if errors.Is(err, db.ErrDuplicateArticle) {
				skipped++
				continue
			}
			log.Printf("Failed to store article %s: %v", raws[i].SourceURL, err)
			continue
		}
		created++
	}
	log.Printf("Harvest stored %d new articles, skipped %d duplicates", created, skipped)

	if s.app.EnhancerAuto && created > 0 {
		summary, err := s.runner.Run(ctx, s.app.MaxBatch)
		if err != nil {
			return err
		}
		log.Printf("Auto-enhancement: %d enhanced, %d skipped, %d failed",
			summary.Enhanced, summary.Skipped, summary.Failed)
	}
	return nil
}

// handleEnhanceArticle enhances a single article in the background
func (s *Server) handleEnhanceArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.articleID(w, r)
	if !ok {
		return
	}

	// Resolve the article up front so a bad ID gets a 404, not a silent
	// background failure.
	article, err := s.db.GetArticleByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if article == nil {
		s.errorResponse(w, http.StatusNotFound, "Article not found")
		return
	}

	go func() {
		ctx := context.Background()
		if state, err := s.runner.RunOne(ctx, id); err != nil {
			log.Printf("Enhancement of %s failed in state %s: %v", id, state, err)
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, EnhanceResponse{
		Status:    "started",
		ArticleID: id.String(),
	})
}

// handleEnhanceBatch enhances pending articles in the background
func (s *Server) handleEnhanceBatch(w http.ResponseWriter, r *http.Request) {
	maxBatch := queryInt(r, "max", s.app.MaxBatch)

	go func() {
		ctx := context.Background()
		if _, err := s.runner.Run(ctx, maxBatch); err != nil {
			log.Printf("Enhancement run failed: %v", err)
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, EnhanceResponse{
		Status:   "started",
		MaxBatch: maxBatch,
	})
}

// articleID parses the {id} path value, writing the error response itself
// when the value is missing or malformed.
func (s *Server) articleID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := r.PathValue("id")
	if idStr == "" {
		s.errorResponse(w, http.StatusBadRequest, "Article ID is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid article ID format")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or not a positive integer.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
