package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Block is one structural element preserved by structured extraction.
// Items is populated for list blocks, Text for everything else.
type Block struct {
	Tag   string
	Text  string
	Items []string
}

// ExtractBlocks walks heading, paragraph, list, and blockquote elements inside
// the main content region and returns the ones that survive the boilerplate
// filters, in document order.
func ExtractBlocks(html string) ([]Block, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{Message: "failed to parse HTML", Cause: err}
	}

	doc.Find(noiseSelector).Remove()
	region := findContentRegion(doc, contentSelectors)

	var blocks []Block
	seen := make(map[string]bool)

	region.Find("h2, h3, h4, p, ul, ol, blockquote").Each(func(_ int, el *goquery.Selection) {
		tag := goquery.NodeName(el)
		text := cleanWhitespace(el.Text())

		if text != "" && seen[text] {
			return
		}
		if el.ParentsFiltered(ancestorSkipSelector).Length() > 0 {
			return
		}

		switch tag {
		case "h2", "h3", "h4":
			if validHeading(text) {
				seen[text] = true
				blocks = append(blocks, Block{Tag: tag, Text: text})
			}
		case "p":
			if validParagraph(text) {
				seen[text] = true
				blocks = append(blocks, Block{Tag: "p", Text: text})
			}
		case "blockquote":
			if len(text) > 20 {
				seen[text] = true
				blocks = append(blocks, Block{Tag: "blockquote", Text: text})
			}
		case "ul", "ol":
			var items []string
			el.Find("li").Each(func(_ int, li *goquery.Selection) {
				itemText := cleanWhitespace(li.Text())
				if len(itemText) > 5 && !seen[itemText] {
					seen[itemText] = true
					items = append(items, itemText)
				}
			})
			if len(items) > 0 {
				blocks = append(blocks, Block{Tag: tag, Items: items})
			}
		}
	})

	return blocks, nil
}

// RenderBlocks re-emits extracted blocks as minimal HTML, preserving the
// original document structure.
func RenderBlocks(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		switch b.Tag {
		case "ul", "ol":
			sb.WriteString("<" + b.Tag + ">\n")
			for _, item := range b.Items {
				sb.WriteString("  <li>" + item + "</li>\n")
			}
			sb.WriteString("</" + b.Tag + ">\n")
		default:
			sb.WriteString("<" + b.Tag + ">" + b.Text + "</" + b.Tag + ">\n")
		}
	}
	return sb.String()
}

// stripTags is a crude tag remover used for visible-text length checks.
func stripTags(html string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			sb.WriteRune(' ')
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// VisibleTextLength returns the length of the text an HTML fragment renders,
// used to reject thin listing or search pages misidentified as articles.
func VisibleTextLength(html string) int {
	return len(cleanWhitespace(stripTags(html)))
}
