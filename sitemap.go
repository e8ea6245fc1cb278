package docmill

import "context"

// SitemapService discovers URLs from website sitemaps. Sitemap-seeded
// URLs join the frontier alongside the seed itself and deduplicate
// against recursively discovered links.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap. It first checks
	// robots.txt for Sitemap directives, then falls back to /sitemap.xml.
	// Sitemap indexes are resolved recursively. A site without a sitemap
	// returns an empty slice, not an error.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
