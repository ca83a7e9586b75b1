package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MinSlugLength is the minimum length of the final path segment for a URL to
// be treated as an article permalink.
const MinSlugLength = 4

// Site describes the origin site's article URL shape.
type Site struct {
	// Host is the expected hostname, matched by substring to tolerate
	// www. prefixes.
	Host string
	// PathPrefix is the path prefix all article permalinks share.
	PathPrefix string
}

// excludedSegments rejects listing-style pages reachable under the article
// path prefix.
var excludedSegments = map[string]bool{
	"tag":      true,
	"category": true,
	"search":   true,
}

// IsArticleURL reports whether a URL has the shape of an article permalink:
// on the expected host, under the article path prefix, at least two path
// segments, no query or fragment, and a hyphenated slug longer than
// MinSlugLength. Tag, category, and search pages are rejected.
func IsArticleURL(rawURL string, site Site) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	if !strings.Contains(u.Host, site.Host) {
		return false
	}
	if !strings.HasPrefix(u.Path, site.PathPrefix) {
		return false
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return false
	}

	segments := splitPath(u.Path)
	if len(segments) < 2 {
		return false
	}
	for _, s := range segments {
		if excludedSegments[s] {
			return false
		}
	}

	slug := segments[len(segments)-1]
	return strings.Contains(slug, "-") && len(slug) > MinSlugLength
}

// DiscoverLinks extracts candidate article URLs from listing-page markup.
// Relative hrefs are resolved against baseURL. Results keep first-seen order,
// are deduplicated, and are capped at limit.
func DiscoverLinks(html, baseURL string, site Site, limit int) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &Error{Message: "invalid base URL: " + baseURL, Cause: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{Message: "failed to parse HTML", Cause: err}
	}

	seen := make(map[string]bool)
	links := make([]string, 0)

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return true
		}

		linkURL, err := url.Parse(href)
		if err != nil {
			return true
		}
		absolute := base.ResolveReference(linkURL).String()

		if !IsArticleURL(absolute, site) {
			return true
		}
		if seen[absolute] {
			return true
		}
		seen[absolute] = true
		links = append(links, absolute)
		return limit <= 0 || len(links) < limit
	})

	return links, nil
}

func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
