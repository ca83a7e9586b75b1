// Package server provides the HTTP REST API for the article enhancer.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/article-enhancer/internal/db"
)

// ErrArticleNotFound indicates no article exists with the given ID
type ErrArticleNotFound struct {
	ArticleID uuid.UUID
}

func (e *ErrArticleNotFound) Error() string {
	return fmt.Sprintf("article not found: %s", e.ArticleID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	if errors.Is(err, db.ErrDuplicateArticle) {
		return http.StatusConflict
	}
	switch err.(type) {
	case *ErrArticleNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
