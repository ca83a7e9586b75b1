package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is one row of the tier table.
type EndpointConfig struct {
	Path   string // matched exactly, or as a prefix when it ends in "/"
	Method string
	Limit  int // requests per Window; <= 0 means unlimited
	Window time.Duration
	Burst  int // bucket capacity, defaults to Limit
}

// LoadConfig builds the limiter config from RATE_LIMIT_* environment
// variables over the built-in tier table.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       clientSet(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       clientSet(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the built-in tier table. Harvest and
// enhancement runs drive a headless browser and possibly a model call, so
// their endpoints sit in the strictest tier. Reads fall through to the
// default limit; /health is exempted by the matcher.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/api/articles/scrape", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/api/enhance", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/api/articles/", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},

		{Path: "/api/articles", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/articles/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/articles/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// clientSet parses a comma-separated client ID list.
func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}
