// Package rewrite produces the enhanced version of an article by asking a
// generative model to rework the original using reference excerpts, with a
// deterministic template-based fallback when no model is available.
package rewrite

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/article-enhancer/internal/llm"
	"github.com/jonathan/article-enhancer/internal/types"
)

const (
	// MaxOriginalContentChars caps how much of the original article is
	// embedded in the prompt.
	MaxOriginalContentChars = 3000
	// MaxReferenceChars caps each reference excerpt in the prompt.
	MaxReferenceChars = 1500
)

// Error represents a rewrite failure that cannot be degraded. The caller
// treats it as "enhancement not possible this run".
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rewrite error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rewrite error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Rewriter produces enhanced HTML from an original article and its
// references.
type Rewriter interface {
	Rewrite(ctx context.Context, title, content string, refs []types.Reference) (string, error)
}

// NewRewriter selects the rewriter variant once at construction: the model-
// backed one when an API key is configured, the deterministic mock otherwise.
func NewRewriter(ctx context.Context, apiKey string) (Rewriter, error) {
	if strings.TrimSpace(apiKey) == "" {
		log.Printf("[REWRITE] No model API key configured, using mock rewriter")
		return &MockRewriter{}, nil
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return nil, &Error{Message: "failed to create model client", Cause: err}
	}
	return &ModelRewriter{Client: client}, nil
}

// ModelRewriter asks a generative model to rework the article. Rate-limit and
// quota errors degrade to the mock rewrite; other model errors surface as
// stage failures.
type ModelRewriter struct {
	Client llm.Client
}

const systemInstruction = "You are a professional content writer who creates high-quality, engaging blog articles. Always respond with well-formatted HTML content."

// Rewrite builds the instruction prompt, invokes the model, and appends the
// references block to the model output.
func (r *ModelRewriter) Rewrite(ctx context.Context, title, content string, refs []types.Reference) (string, error) {
	prompt := buildPrompt(title, content, refs)

	enhanced, err := r.Client.Generate(ctx, systemInstruction, prompt)
	if err != nil {
		if llm.IsRateLimited(err) {
			log.Printf("[REWRITE] Model rate limited, using mock rewrite: %v", err)
			mock := &MockRewriter{}
			return mock.Rewrite(ctx, title, content, refs)
		}
		return "", &Error{Message: "model call failed", Cause: err}
	}

	return enhanced + ReferencesBlock(refs), nil
}

// Close releases the underlying model client.
func (r *ModelRewriter) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// buildPrompt assembles the fixed instruction template with the original
// article and labelled reference excerpts.
func buildPrompt(title, content string, refs []types.Reference) string {
	var refParts []string
	for i, ref := range refs {
		refParts = append(refParts, fmt.Sprintf("Reference Article %d (%s):\n%s",
			i+1, ref.Source, truncate(ref.Content, MaxReferenceChars)))
	}
	refContent := strings.Join(refParts, "\n\n---\n\n")

	return fmt.Sprintf(`You are a professional content writer. Your task is to enhance and improve the following blog article by:

1. Improving the structure and formatting
2. Making the content more engaging and informative
3. Adding relevant insights from the reference articles provided
4. Keeping the core message and information from the original
5. Using proper headings, bullet points, and paragraphs
6. Making it SEO-friendly

IMPORTANT:
- Keep the enhanced article in HTML format with proper tags (<h2>, <p>, <ul>, <li>, etc.)
- Do NOT include references section - that will be added separately
- Maintain a professional and authoritative tone

ORIGINAL ARTICLE:
Title: %s
Content: %s

REFERENCE ARTICLES FOR STYLE AND CONTENT IDEAS:
%s

Please provide the enhanced article content in HTML format:`,
		title, truncate(content, MaxOriginalContentChars), refContent)
}

// ReferencesBlock renders the deterministic citation list appended to every
// enhanced article, one link per reference in input order.
func ReferencesBlock(refs []types.Reference) string {
	if len(refs) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\n<hr/>\n<h3>References &amp; Further Reading</h3>\n<ul>\n")
	for _, ref := range refs {
		sb.WriteString(fmt.Sprintf("  <li><a href=%q target=\"_blank\" rel=\"noopener noreferrer\">%s</a> - %s</li>\n",
			ref.URL, ref.Title, ref.Source))
	}
	sb.WriteString("</ul>")
	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
