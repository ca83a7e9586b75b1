package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MinFallbackParagraphLength is the floor for paragraphs kept by the simpler
// non-rendering extraction mode.
const MinFallbackParagraphLength = 40

// ExtractParagraphs is the simpler extraction used by the non-rendering
// harvest fallback: every paragraph over the floor, no region selection.
func ExtractParagraphs(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{Message: "failed to parse HTML", Cause: err}
	}

	doc.Find(noiseSelector).Remove()

	var paragraphs []string
	doc.Find("p").Each(func(_ int, el *goquery.Selection) {
		text := cleanWhitespace(el.Text())
		if len(text) > MinFallbackParagraphLength {
			paragraphs = append(paragraphs, text)
		}
	})
	return paragraphs, nil
}
