// Package extract locates the main readable content in rendered markup,
// strips boilerplate, and returns either cleaned plain text or a structured
// sequence of content blocks.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// MinRegionTextLength is the minimum text length for a content-region
	// selector match to be accepted.
	MinRegionTextLength = 200
	// MaxPlainTextLength caps plain-text extraction output.
	MaxPlainTextLength = 5000
	// MinParagraphLength is the floor for a paragraph to survive structured
	// extraction.
	MinParagraphLength = 50
	// MinLetterRatio guards against code and markup fragments masquerading
	// as prose.
	MinLetterRatio = 0.4
)

// noiseSelector matches structural noise removed before any extraction.
const noiseSelector = "script, style, noscript, nav, header, footer, aside, .sidebar, .comments, .advertisement, .ad, .ads, .social-share, .related-posts, .cookie-banner, .popup"

// contentSelectors is the ordered list of content-region hints. The first
// region whose text exceeds MinRegionTextLength wins.
var contentSelectors = []string{
	"article",
	".elementor-widget-theme-post-content",
	".elementor-widget-text-editor",
	"[data-widget_type=\"theme-post-content.default\"]",
	".entry-content",
	".post-content",
	".article-content",
	".blog-content",
	"[itemprop=\"articleBody\"]",
	"main",
	".content",
	".prose",
}

// ancestorSkipSelector excludes elements living inside chrome regions that
// survived noise removal.
const ancestorSkipSelector = "header, footer, nav, aside, .sidebar, .related-posts, .elementor-widget-post-info"

// skipPatterns flags short metadata/boilerplate fragments.
var skipPatterns = []string{
	"cookie", "privacy", "subscribe", "newsletter", "follow us",
	"share", "leave a reply", "related posts", "login", "register",
	"copyright", "all rights reserved", "no comments",
	"posted by", "written by", "author:", "category:", "tags:",
}

// bylinePattern matches paragraphs that open with byline or date metadata.
var bylinePattern = regexp.MustCompile(`(?i)^(by\s|posted|written|author|january|february|march|april|may|june|july|august|september|october|november|december)`)

// Error represents a markup parsing failure.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extract error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Extract returns the cleaned plain text of the main content region, capped
// at MaxPlainTextLength. Extraction never fails outright: markup that defeats
// every region selector degrades to whole-document text.
func Extract(html string) (string, error) {
	return extractText(html, contentSelectors)
}

// ExtractForURL is Extract with platform-specific content selectors tried
// first, chosen from the page's URL and markup fingerprints.
func ExtractForURL(html, pageURL string) (string, error) {
	platform := DetectPlatform(pageURL, html)
	selectors := append(PlatformContentSelectors(platform), contentSelectors...)
	return extractText(html, selectors)
}

func extractText(html string, selectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", &Error{Message: "failed to parse HTML", Cause: err}
	}

	doc.Find(noiseSelector).Remove()

	region := findContentRegion(doc, selectors)
	text := cleanWhitespace(region.Text())

	if len(text) < MinRegionTextLength {
		text = cleanWhitespace(doc.Find("body").Text())
	}
	if len(text) > MaxPlainTextLength {
		text = text[:MaxPlainTextLength]
	}
	return text, nil
}

// findContentRegion walks the selector list and returns the first region
// whose text clears the minimum length, falling back to body.
func findContentRegion(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		first := sel.First()
		if len(strings.TrimSpace(first.Text())) > MinRegionTextLength {
			return first
		}
	}
	return doc.Find("body")
}

// letterRatio returns the fraction of ASCII letters in a string.
func letterRatio(s string) float64 {
	if s == "" {
		return 0
	}
	letters := 0
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters++
		}
	}
	return float64(letters) / float64(len(s))
}

// validParagraph reports whether paragraph text looks like article prose
// rather than metadata, boilerplate, or markup debris.
func validParagraph(text string) bool {
	if len(text) < MinParagraphLength {
		return false
	}
	if letterRatio(text) < MinLetterRatio {
		return false
	}
	if bylinePattern.MatchString(text) {
		return false
	}
	lower := strings.ToLower(text)
	if len(text) < 100 {
		for _, p := range skipPatterns {
			if strings.Contains(lower, p) {
				return false
			}
		}
	}
	if strings.Contains(text, "{") || strings.Contains(lower, "settings") || strings.Contains(lower, "sticky") {
		return false
	}
	return true
}

// validHeading filters navigation and widget headings out of structured
// extraction.
func validHeading(text string) bool {
	if len(text) <= 3 || len(text) >= 200 {
		return false
	}
	if letterRatio(text) <= 0.5 {
		return false
	}
	lower := strings.ToLower(text)
	return !strings.Contains(lower, "related") &&
		!strings.Contains(lower, "comment") &&
		!strings.Contains(lower, "share")
}

// cleanWhitespace collapses runs of whitespace into single spaces.
func cleanWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
