// Package llm provides centralized model configuration and client
// abstractions for the rewrite step.
package llm

// Provider represents a generative model provider.
type Provider string

// Provider constants define supported model providers.
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the application.
type Config struct {
	Provider        Provider
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultConfig returns the default configuration (currently Gemini).
func DefaultConfig() *Config {
	return &Config{
		Provider:        ProviderGemini,
		Model:           "gemini-2.5-flash",
		Temperature:     0.7,
		MaxOutputTokens: 2500,
	}
}
