package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultListingURL, cfg.ListingURL)
	assert.Equal(t, DefaultSiteHost, cfg.SiteHost)
	assert.Equal(t, DefaultPathPrefix, cfg.PathPrefix)
	assert.Equal(t, DefaultAuthor, cfg.Author)
	assert.Equal(t, DefaultHarvestCount, cfg.HarvestCount)
	assert.Equal(t, DefaultMaxBatch, cfg.MaxBatch)
	assert.Equal(t, DefaultMaxReferences, cfg.MaxReferences)
	assert.True(t, cfg.EnhancerAuto)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"listing_url": "https://example.com/posts/",
		"site_host": "example.com",
		"max_batch": 3,
		"enhancer_auto": false
	}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/posts/", cfg.ListingURL)
	assert.Equal(t, "example.com", cfg.SiteHost)
	assert.Equal(t, 3, cfg.MaxBatch)
	assert.False(t, cfg.EnhancerAuto)
	// Untouched fields keep defaults.
	assert.Equal(t, DefaultPathPrefix, cfg.PathPrefix)
	assert.Equal(t, DefaultHarvestCount, cfg.HarvestCount)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-host/db")
	t.Setenv("SEARCH_API_KEY", "env-search-key")
	t.Setenv("GEMINI_API_KEY", "env-model-key")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "postgres://env-host/db", cfg.DatabaseURL)
	assert.Equal(t, "env-search-key", cfg.SearchAPIKey)
	assert.Equal(t, "env-model-key", cfg.ModelAPIKey)

	// File-supplied values win over env.
	cfg = DefaultConfig()
	cfg.DatabaseURL = "postgres://file-host/db"
	cfg.ApplyEnv()
	assert.Equal(t, "postgres://file-host/db", cfg.DatabaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing listing url", func(c *Config) { c.ListingURL = "" }, "listing_url"},
		{"missing site host", func(c *Config) { c.SiteHost = "" }, "site_host"},
		{"negative harvest count", func(c *Config) { c.HarvestCount = -1 }, "harvest_count"},
		{"negative max batch", func(c *Config) { c.MaxBatch = -1 }, "max_batch"},
		{"negative max references", func(c *Config) { c.MaxReferences = -1 }, "max_references"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
