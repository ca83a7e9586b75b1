// Package types provides type definitions for structured data used throughout the article-enhancer system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RawArticle holds content discovered by the harvester before it is persisted.
type RawArticle struct {
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt,omitempty"`
	Author        string    `json:"author,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	SourceURL     string    `json:"source_url"`
	PublishedDate time.Time `json:"published_date"`
	ScrapedAt     time.Time `json:"scraped_at"`
}

// ReferenceSummary is the persisted projection of a reference used during enhancement.
type ReferenceSummary struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Reference is a resolved external page whose extracted text feeds the rewrite
// step. Only its summary fields are persisted onto the owning article.
type Reference struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Source  string `json:"source"`
	Content string `json:"content"`
}

// SearchCandidate is one result from the reference search provider. A candidate
// with MockContent set carries its reference body inline and is never fetched.
type SearchCandidate struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet,omitempty"`
	MockContent string `json:"mock_content,omitempty"`
}

// Article is the stored record: original scraped content plus the fields the
// enhancement pipeline fills in. An article with IsEnhanced=false is "pending".
type Article struct {
	ID              uuid.UUID          `json:"id"`
	Title           string             `json:"title"`
	Content         string             `json:"content"`
	Excerpt         string             `json:"excerpt,omitempty"`
	Author          string             `json:"author,omitempty"`
	PublishedDate   *time.Time         `json:"published_date,omitempty"`
	SourceURL       string             `json:"source_url"`
	ImageURL        string             `json:"image_url,omitempty"`
	Tags            []string           `json:"tags"`
	EnhancedContent *string            `json:"enhanced_content"`
	EnhancedTitle   *string            `json:"enhanced_title"`
	References      []ReferenceSummary `json:"references"`
	IsEnhanced      bool               `json:"is_enhanced"`
	EnhancedAt      *time.Time         `json:"enhanced_at"`
	ScrapedAt       time.Time          `json:"scraped_at"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// CreateArticleRequest represents the request body for creating an article via the API.
type CreateArticleRequest struct {
	Title     string   `json:"title" validate:"required,min=1,max=500"`
	Content   string   `json:"content" validate:"required,min=1"`
	Excerpt   string   `json:"excerpt,omitempty" validate:"max=500"`
	Author    string   `json:"author,omitempty"`
	SourceURL string   `json:"source_url" validate:"required,url"`
	ImageURL  string   `json:"image_url,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// UpdateArticleRequest represents the request body for updating an article.
// All fields are optional; zero values leave the stored value unchanged.
type UpdateArticleRequest struct {
	Title   string   `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Content string   `json:"content,omitempty"`
	Excerpt string   `json:"excerpt,omitempty" validate:"max=500"`
	Author  string   `json:"author,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Validate validates the CreateArticleRequest using the validator.
func (r *CreateArticleRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateArticleRequest using the validator.
func (r *UpdateArticleRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
