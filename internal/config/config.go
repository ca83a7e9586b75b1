// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults for the origin site and pipeline limits.
const (
	DefaultListingURL    = "https://beyondchats.com/blogs/"
	DefaultSiteHost      = "beyondchats.com"
	DefaultPathPrefix    = "/blogs/"
	DefaultAuthor        = "BeyondChats Team"
	DefaultHarvestCount  = 5
	DefaultMaxBatch      = 5
	DefaultMaxReferences = 2
)

// Config represents configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or env vars.
type Config struct {
	// Origin site
	ListingURL string `json:"listing_url,omitempty"` // Blog listing page to harvest
	SiteHost   string `json:"site_host,omitempty"`   // Expected article host
	PathPrefix string `json:"path_prefix,omitempty"` // Article URL path prefix
	Author     string `json:"author,omitempty"`      // Default author label for harvested articles

	// Limits
	HarvestCount  int `json:"harvest_count,omitempty"`  // Articles per harvest run
	MaxBatch      int `json:"max_batch,omitempty"`      // Pending articles per enhancement run
	MaxReferences int `json:"max_references,omitempty"` // References per article

	// Behavior
	EnhancerAuto bool `json:"enhancer_auto"` // Kick enhancement after each harvest
	Verbose      bool `json:"verbose,omitempty"`

	// Credentials (normally supplied via env, not file)
	DatabaseURL  string `json:"database_url,omitempty"`   // PostgreSQL connection URL
	SearchAPIKey string `json:"search_api_key,omitempty"` // Zenserp API key
	ModelAPIKey  string `json:"model_api_key,omitempty"`  // Gemini API key
}

// DefaultConfig returns a config with every default applied.
func DefaultConfig() *Config {
	return &Config{
		ListingURL:    DefaultListingURL,
		SiteHost:      DefaultSiteHost,
		PathPrefix:    DefaultPathPrefix,
		Author:        DefaultAuthor,
		HarvestCount:  DefaultHarvestCount,
		MaxBatch:      DefaultMaxBatch,
		MaxReferences: DefaultMaxReferences,
		EnhancerAuto:  true,
	}
}

// LoadConfig loads configuration from a JSON file over the defaults.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv fills credentials from the environment when the file left them
// empty.
func (c *Config) ApplyEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.SearchAPIKey == "" {
		c.SearchAPIKey = os.Getenv("SEARCH_API_KEY")
	}
	if c.ModelAPIKey == "" {
		c.ModelAPIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.ListingURL == "" {
		return fmt.Errorf("config error: 'listing_url' is required")
	}
	if c.SiteHost == "" {
		return fmt.Errorf("config error: 'site_host' is required")
	}
	if c.HarvestCount < 0 {
		return fmt.Errorf("config error: 'harvest_count' must be non-negative")
	}
	if c.MaxBatch < 0 {
		return fmt.Errorf("config error: 'max_batch' must be non-negative")
	}
	if c.MaxReferences < 0 {
		return fmt.Errorf("config error: 'max_references' must be non-negative")
	}
	return nil
}
