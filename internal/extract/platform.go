package extract

import (
	"net/url"
	"strings"
)

// Platform represents a known blog publishing platform.
type Platform string

const (
	// PlatformMedium is medium.com and its custom-domain publications
	PlatformMedium Platform = "medium"
	// PlatformSubstack is a Substack newsletter
	PlatformSubstack Platform = "substack"
	// PlatformGhost is a Ghost-powered blog
	PlatformGhost Platform = "ghost"
	// PlatformWordPress is a WordPress site
	PlatformWordPress Platform = "wordpress"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the publishing platform from a URL and, when the
// host is inconclusive, from platform fingerprints in the markup.
func DetectPlatform(urlStr string, html string) Platform {
	parsed, err := url.Parse(urlStr)
	if err == nil {
		host := strings.ToLower(parsed.Host)

		if strings.Contains(host, "medium.com") {
			return PlatformMedium
		}
		if strings.Contains(host, "substack.com") {
			return PlatformSubstack
		}
		if strings.Contains(host, "wordpress.com") {
			return PlatformWordPress
		}
	}

	// Markup fingerprints for self-hosted and custom-domain installs
	switch {
	case strings.Contains(html, "wp-content/") || strings.Contains(html, "wp-includes/"):
		return PlatformWordPress
	case strings.Contains(html, "ghost-head") || strings.Contains(html, "content=\"Ghost"):
		return PlatformGhost
	case strings.Contains(html, "substackcdn.com"):
		return PlatformSubstack
	case strings.Contains(html, "cdn-client.medium.com"):
		return PlatformMedium
	}

	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors tried before the generic
// list for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformMedium:
		return []string{
			"article section",
			".meteredContent",
			".postArticle-content",
		}
	case PlatformSubstack:
		return []string{
			".available-content",
			".body.markup",
			".post-content",
		}
	case PlatformGhost:
		return []string{
			".gh-content",
			".post-full-content",
			".post-content",
		}
	case PlatformWordPress:
		return []string{
			".entry-content",
			".elementor-widget-theme-post-content",
			".post-content",
			"[itemprop=\"articleBody\"]",
		}
	default:
		return nil
	}
}
