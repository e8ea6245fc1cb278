package crawl

import (
	"net/url"
	"strings"
)

// DefaultProbePaths returns well-known documentation path prefixes to
// probe speculatively when a seed lands on a site root. Probes that 404
// land on the skip list, not the failure count.
func DefaultProbePaths() []string {
	return []string{
		"docs/",
		"documentation/",
		"api/",
		"reference/",
		"guide/",
		"guides/",
		"manual/",
		"tutorial/",
	}
}

// ProbeCandidates builds speculative documentation URLs by joining each
// path onto the seed's site root. The seed's own path is ignored; probes
// always hang off the origin. An unparseable seed yields no candidates.
func ProbeCandidates(seed string, paths []string) []string {
	u, err := url.Parse(seed)
	if err != nil || u.Host == "" {
		return nil
	}
	root := &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}

	candidates := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimPrefix(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		ref := &url.URL{Path: "/" + p}
		candidates = append(candidates, root.ResolveReference(ref).String())
	}
	return candidates
}
