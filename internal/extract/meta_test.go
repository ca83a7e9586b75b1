package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMeta(t *testing.T) {
	html := `<html><head>
		<meta name="description" content="What chatbots do for support teams.">
		<meta property="og:image" content="https://example.com/cover.png">
	</head><body>
		<h1>AI Chatbots   in Support</h1>
	</body></html>`

	meta, err := ExtractMeta(html)
	require.NoError(t, err)
	assert.Equal(t, "AI Chatbots in Support", meta.Title)
	assert.Equal(t, "What chatbots do for support teams.", meta.Excerpt)
	assert.Equal(t, "https://example.com/cover.png", meta.ImageURL)
}

func TestExtractMeta_OpenGraphFallbacks(t *testing.T) {
	html := `<html><head>
		<meta property="og:title" content="Fallback Title">
		<meta property="og:description" content="Fallback description.">
	</head><body></body></html>`

	meta, err := ExtractMeta(html)
	require.NoError(t, err)
	assert.Equal(t, "Fallback Title", meta.Title)
	assert.Equal(t, "Fallback description.", meta.Excerpt)
	assert.Empty(t, meta.ImageURL)
}

func TestExtractMeta_Empty(t *testing.T) {
	meta, err := ExtractMeta("<html><body><p>no metadata</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, meta.Title)
	assert.Empty(t, meta.Excerpt)
}
