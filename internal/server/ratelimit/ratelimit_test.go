package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucket_DrainsAndRefills(t *testing.T) {
	bucket := newTokenBucket(3, 100) // refills fast enough to observe

	for i := 0; i < 3; i++ {
		assert.True(t, bucket.allow(), "token %d", i)
	}
	assert.False(t, bucket.allow(), "empty bucket rejects")

	time.Sleep(25 * time.Millisecond)
	assert.True(t, bucket.allow(), "refilled after waiting")
}

func TestTokenBucket_CapsAtCapacity(t *testing.T) {
	bucket := newTokenBucket(2, 1000)
	time.Sleep(20 * time.Millisecond)

	remaining, _ := bucket.getStatus()
	assert.Equal(t, 2, remaining, "refill never exceeds capacity")
}

func TestTokenBucket_GetStatus(t *testing.T) {
	bucket := newTokenBucket(10, 1)

	remaining, resetTime := bucket.getStatus()
	assert.Equal(t, 10, remaining)
	assert.WithinDuration(t, time.Now(), resetTime, 100*time.Millisecond, "full bucket resets now")

	require.True(t, bucket.allow())
	remaining, resetTime = bucket.getStatus()
	assert.Equal(t, 9, remaining)
	assert.Greater(t, time.Until(resetTime), 500*time.Millisecond, "missing token takes ~1s to refill")
}

func limiterConfig(configs ...EndpointConfig) *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: configs,
	}
}

func TestLimiter_EnforcesBurst(t *testing.T) {
	limiter := NewLimiter(limiterConfig(
		EndpointConfig{Path: "/api/articles/scrape", Method: "POST", Limit: 5, Window: time.Hour, Burst: 2},
	))
	defer limiter.Stop()

	for i := 0; i < 2; i++ {
		allowed, info := limiter.Allow("203.0.113.9", "/api/articles/scrape", "POST")
		assert.True(t, allowed, "request %d within burst", i)
		assert.Equal(t, 5, info.Limit)
	}

	allowed, info := limiter.Allow("203.0.113.9", "/api/articles/scrape", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_BucketsAreIsolated(t *testing.T) {
	limiter := NewLimiter(limiterConfig(
		EndpointConfig{Path: "/api/enhance", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
	))
	defer limiter.Stop()

	allowed, _ := limiter.Allow("203.0.113.9", "/api/enhance", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("203.0.113.9", "/api/enhance", "POST")
	require.False(t, allowed)

	// Another client is unaffected.
	allowed, _ = limiter.Allow("203.0.113.10", "/api/enhance", "POST")
	assert.True(t, allowed)

	// The same client on another endpoint is unaffected.
	allowed, _ = limiter.Allow("203.0.113.9", "/api/articles", "GET")
	assert.True(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("203.0.113.9", "/api/articles/scrape", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	cfg := limiterConfig(
		EndpointConfig{Path: "/api/enhance", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
	)
	cfg.Whitelist["198.51.100.1"] = true
	cfg.Blacklist["198.51.100.2"] = true
	limiter := NewLimiter(cfg)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("198.51.100.1", "/api/enhance", "POST")
		require.True(t, allowed, "whitelisted client is never limited")
	}

	allowed, info := limiter.Allow("198.51.100.2", "/api/enhance", "POST")
	assert.False(t, allowed, "blacklisted client is always rejected")
	assert.False(t, info.Allowed)
}

func TestLimiter_HealthIsUnlimited(t *testing.T) {
	limiter := NewLimiter(limiterConfig())
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, info := limiter.Allow("203.0.113.9", "/health", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, _ := limiter.Allow("203.0.113.9", "/api/articles", "GET")
	assert.True(t, allowed)
}

func TestLimiter_ReapIdle(t *testing.T) {
	limiter := NewLimiter(limiterConfig(
		EndpointConfig{Path: "/api/articles", Method: "GET", Limit: 10, Window: time.Minute, Burst: 10},
	))
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		limiter.Allow(fmt.Sprintf("203.0.113.%d", i), "/api/articles", "GET")
	}
	limiter.mu.RLock()
	assert.Len(t, limiter.buckets, 5)
	limiter.mu.RUnlock()

	limiter.reapIdle(time.Now().Add(time.Second))
	limiter.mu.RLock()
	assert.Empty(t, limiter.buckets)
	limiter.mu.RUnlock()
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/api/articles/scrape", Method: "POST", Limit: 10},
		{Path: "/api/articles/", Method: "POST", Limit: 20},
		{Path: "/api/articles/", Method: "DELETE", Limit: 100},
		{Path: "/api/articles", Method: "POST", Limit: 100},
	}

	tier := MatchEndpoint("/api/articles/scrape", "POST", configs)
	require.NotNil(t, tier)
	assert.Equal(t, 10, tier.Limit, "exact match beats the prefix tier")

	id := "0f2d7f2a-4a2e-4f3e-9d1c-2b6a8c9d0e1f"
	tier = MatchEndpoint("/api/articles/"+id+"/enhance", "POST", configs)
	require.NotNil(t, tier)
	assert.Equal(t, 20, tier.Limit, "prefix tier covers id routes")

	tier = MatchEndpoint("/api/articles/"+id, "DELETE", configs)
	require.NotNil(t, tier)
	assert.Equal(t, 100, tier.Limit)

	assert.Nil(t, MatchEndpoint("/api/articles", "GET", configs), "unmatched falls to default tier")

	tier = MatchEndpoint("/health", "GET", configs)
	require.NotNil(t, tier)
	assert.Equal(t, 0, tier.Limit, "health never limited")
}

func TestDefaultEndpointConfigs(t *testing.T) {
	configs := DefaultEndpointConfigs()

	scrape := MatchEndpoint("/api/articles/scrape", "POST", configs)
	require.NotNil(t, scrape)
	assert.Equal(t, 10, scrape.Limit)
	assert.Equal(t, time.Hour, scrape.Window)

	create := MatchEndpoint("/api/articles", "POST", configs)
	require.NotNil(t, create)
	assert.Equal(t, 100, create.Limit)
	assert.Equal(t, time.Minute, create.Window)
}
