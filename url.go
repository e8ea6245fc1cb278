package docmill

import (
	"net/url"
	"path"
	"strings"
)

// DomainClass describes how a URL's host relates to the crawl's base domain.
type DomainClass int

// Domain classifications.
const (
	DomainSame DomainClass = iota
	DomainSubdomain
	DomainExternal
)

// Normalizer canonicalizes URLs for deduplication and resolves relative
// references against the crawl's base URL. It is immutable after
// construction and safe for concurrent use.
type Normalizer struct {
	base        *url.URL
	stripParams map[string]struct{}
}

// NewNormalizer creates a Normalizer rooted at baseURL. trackingParams
// lists query parameters to strip during canonicalization (e.g.
// utm_source); pass nil to keep query strings intact.
func NewNormalizer(baseURL string, trackingParams []string) (*Normalizer, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid base URL %q: %v", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, Errorf(EINVALID, "base URL must be absolute http(s): %q", baseURL)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	strip := make(map[string]struct{}, len(trackingParams))
	for _, p := range trackingParams {
		strip[p] = struct{}{}
	}
	return &Normalizer{base: u, stripParams: strip}, nil
}

// Base returns the canonical base URL.
func (n *Normalizer) Base() string {
	return n.base.String()
}

// Normalize canonicalizes a raw URL: resolves it against the base,
// lowercases scheme and host, strips the fragment and default ports,
// cleans dot segments, and removes configured tracking parameters.
// Normalize is idempotent: Normalize(Normalize(u)) == Normalize(u).
func (n *Normalizer) Normalize(raw string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", raw, err)
	}
	u := n.base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "unsupported scheme %q in %q", u.Scheme, raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	// Default ports carry no identity.
	switch {
	case u.Scheme == "http" && strings.HasSuffix(u.Host, ":80"):
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(u.Host, ":443"):
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	if u.Path != "" {
		trailing := strings.HasSuffix(u.Path, "/")
		u.Path = path.Clean(u.Path)
		if u.Path == "." {
			u.Path = "/"
		}
		if trailing && u.Path != "/" {
			u.Path += "/"
		}
		// Drop any inconsistent raw encoding; String() re-encodes
		// canonically from the decoded path.
		u.RawPath = ""
	}

	if len(n.stripParams) > 0 && u.RawQuery != "" {
		q := u.Query()
		for p := range n.stripParams {
			q.Del(p)
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// Classify reports how rawURL's host relates to the base domain.
// Hosts are compared without ports; unparseable URLs classify External.
func (n *Normalizer) Classify(rawURL string) DomainClass {
	u, err := url.Parse(rawURL)
	if err != nil {
		return DomainExternal
	}
	host := strings.ToLower(u.Hostname())
	base := n.base.Hostname()
	switch {
	case host == base:
		return DomainSame
	case strings.HasSuffix(host, "."+base):
		return DomainSubdomain
	default:
		return DomainExternal
	}
}

// ExclusionRules holds extension and path exclusion filters applied to
// URL paths. The rule sets are read-only snapshots shared across workers.
type ExclusionRules struct {
	extensions []string
	substrings []string
}

// NewExclusionRules builds exclusion rules from file extensions (with or
// without a leading dot) and fuzzy path substrings. Matching is
// case-insensitive against the percent-decoded path.
func NewExclusionRules(extensions, pathSubstrings []string) ExclusionRules {
	var r ExclusionRules
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.extensions = append(r.extensions, ext)
	}
	for _, s := range pathSubstrings {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			r.substrings = append(r.substrings, s)
		}
	}
	return r
}

// IsExcluded reports whether the URL's path matches any exclusion rule.
// The query string is ignored. Percent-encoded characters are decoded
// before matching so "%2Epdf" cannot bypass a ".pdf" rule. A path with
// no extension is never excluded by extension rules.
func (r ExclusionRules) IsExcluded(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	// url.Parse already percent-decodes Path; decode once more to defeat
	// double encoding.
	p := u.Path
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	p = strings.ToLower(p)

	if ext := path.Ext(p); ext != "" {
		for _, e := range r.extensions {
			if ext == e {
				return true
			}
		}
	}
	for _, s := range r.substrings {
		if strings.Contains(p, s) {
			return true
		}
	}
	return false
}

// Host extracts the lowercase hostname (no port) from a URL, returning
// an empty string when the URL cannot be parsed.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
