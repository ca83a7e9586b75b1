package ratelimit

import "strings"

// unlimited marks a tier the limiter never charges.
var unlimited = EndpointConfig{}

// MatchEndpoint resolves a request path and method to its tier. Exact path
// matches win over prefix matches; a tier path ending in "/" matches any
// request under it, which is how "/api/articles/" covers "/api/articles/{id}"
// routes. Returns nil when only the default tier applies.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &unlimited
	}

	var prefixHit *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if prefixHit == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			prefixHit = c
		}
	}
	return prefixHit
}
