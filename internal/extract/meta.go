package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Meta holds page-level metadata pulled from the document head and headings.
type Meta struct {
	Title    string
	Excerpt  string
	ImageURL string
}

// ExtractMeta pulls the article title, description, and lead image from
// markup. The title comes from the first h1, falling back to og:title.
func ExtractMeta(html string) (Meta, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Meta{}, &Error{Message: "failed to parse HTML", Cause: err}
	}

	title := cleanWhitespace(doc.Find("h1").First().Text())
	if title == "" {
		title, _ = doc.Find(`meta[property="og:title"]`).Attr("content")
		title = strings.TrimSpace(title)
	}

	excerpt, _ := doc.Find(`meta[name="description"]`).Attr("content")
	if excerpt == "" {
		excerpt, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
	}

	imageURL, _ := doc.Find(`meta[property="og:image"]`).Attr("content")

	return Meta{
		Title:    title,
		Excerpt:  strings.TrimSpace(excerpt),
		ImageURL: strings.TrimSpace(imageURL),
	}, nil
}
