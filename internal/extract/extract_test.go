package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// prose returns n copies of a sentence, enough to clear length floors.
func prose(n int) string {
	return strings.TrimSpace(strings.Repeat("Chatbots answer routine questions around the clock. ", n))
}

func TestExtract_PrefersArticleRegion(t *testing.T) {
	html := `<html><body>
		<nav>Home Blog About</nav>
		<article><p>` + prose(6) + `</p></article>
		<footer>All rights reserved</footer>
	</body></html>`

	text, err := Extract(html)
	require.NoError(t, err)
	assert.Contains(t, text, "routine questions")
	assert.NotContains(t, text, "Home Blog About")
	assert.NotContains(t, text, "All rights reserved")
}

func TestExtract_SelectorPriority(t *testing.T) {
	// article outranks .entry-content in the selector chain
	html := `<html><body>
		<article><p>` + prose(6) + `</p></article>
		<div class="entry-content"><p>` + strings.Repeat("secondary region text here. ", 10) + `</p></div>
	</body></html>`

	text, err := Extract(html)
	require.NoError(t, err)
	assert.Contains(t, text, "routine questions")
	assert.NotContains(t, text, "secondary region")
}

func TestExtract_ThinRegionFallsBackToBody(t *testing.T) {
	// The article region is under the region floor, so the whole body is used
	html := `<html><body>
		<article><p>short</p></article>
		<div><p>` + prose(6) + `</p></div>
	</body></html>`

	text, err := Extract(html)
	require.NoError(t, err)
	assert.Contains(t, text, "routine questions")
}

func TestExtract_CapsLength(t *testing.T) {
	html := `<html><body><article><p>` + prose(300) + `</p></article></body></html>`

	text, err := Extract(html)
	require.NoError(t, err)
	assert.Equal(t, MaxPlainTextLength, len(text))
}

func TestExtract_RemovesNoise(t *testing.T) {
	html := `<html><body><article>
		<script>var x = 1;</script>
		<div class="advertisement">Buy now</div>
		<p>` + prose(6) + `</p>
	</article></body></html>`

	text, err := Extract(html)
	require.NoError(t, err)
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "Buy now")
}

func TestLetterRatio(t *testing.T) {
	assert.Equal(t, 0.0, letterRatio(""))
	assert.Equal(t, 1.0, letterRatio("abcDEF"))
	assert.InDelta(t, 0.5, letterRatio("ab12"), 0.001)
}

func TestValidParagraph(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		valid bool
	}{
		{"real prose", prose(2), true},
		{"too short", "Short sentence.", false},
		{"low letter density", strings.Repeat("123 456 {} ", 10), false},
		{"byline", "By John Smith, originally posted to the company blog some years ago.", false},
		{"date prefix", "January 5, 2024 was the day this post first went live on our blog.", false},
		{"boilerplate short", "Subscribe to our newsletter for weekly updates and offers.", false},
		{"markup debris", prose(2) + " {display:none}", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, validParagraph(tt.text))
		})
	}
}

func TestValidHeading(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		valid bool
	}{
		{"normal heading", "How Chatbots Qualify Leads", true},
		{"too short", "FAQ", false},
		{"too long", strings.Repeat("word ", 45), false},
		{"related widget", "Related Posts", false},
		{"comments widget", "Leave a Comment", false},
		{"share widget", "Share this article", false},
		{"mostly symbols", "20% + 30% = 50%", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, validHeading(tt.text))
		})
	}
}

func TestCleanWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", cleanWhitespace("  a\n\t b   c \n"))
	assert.Equal(t, "", cleanWhitespace("   \n\t "))
}
