package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docmill/docmill"
)

var _ docmill.LinkSelector = (*Selector)(nil)

// SelectorConfig defines a CSS selector with its priority and source label.
type SelectorConfig struct {
	Selector string
	Priority docmill.LinkPriority
	Source   string
}

// Selector extracts prioritized links from HTML using a per-framework
// table of CSS selectors. Links are deduplicated by URL, keeping the
// highest-priority occurrence, in document order of first appearance.
//
// External links are NOT filtered here: scope decisions belong to the
// scheduler's policy, and external-once modes need to see them.
type Selector struct {
	name     string
	configs  []SelectorConfig
	fallback bool // also sweep every a[href] at PriorityFallback
}

// Name returns the selector's identifier.
func (s *Selector) Name() string {
	return s.name
}

// ExtractLinks parses HTML and returns discovered links with priority.
// Relative references resolve against baseURL; fragments are stripped
// and self-referential links dropped.
func (s *Selector) ExtractLinks(html string, baseURL string) ([]docmill.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docmill.Errorf(docmill.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docmill.Errorf(docmill.EINVALID, "failed to parse HTML: %v", err)
	}

	// Track each URL's index in the result slice for O(1) priority upgrades.
	seen := make(map[string]int)
	var links []docmill.DiscoveredLink

	collect := func(selector string, priority docmill.LinkPriority, source string) {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			href, exists := sel.Attr("href")
			if !exists || href == "" {
				return
			}
			if isNonHTTPLink(href) {
				return
			}
			resolved := resolveLink(base, href)
			if resolved == "" {
				return
			}

			link := docmill.DiscoveredLink{
				URL:      resolved,
				Priority: priority,
				Text:     strings.TrimSpace(sel.Text()),
				Source:   source,
			}

			if idx, ok := seen[resolved]; ok {
				if priority > links[idx].Priority {
					links[idx] = link
				}
			} else {
				seen[resolved] = len(links)
				links = append(links, link)
			}
		})
	}

	for _, config := range s.configs {
		collect(config.Selector, config.Priority, config.Source)
	}

	// Sweep every anchor at fallback priority so sites with non-semantic
	// markup still get their links discovered. Deduplication keeps any
	// higher-priority version already collected.
	if s.fallback {
		collect("a[href]", docmill.PriorityFallback, "fallback")
	}

	return links, nil
}

// resolveLink resolves href against base, strips the fragment, and
// drops self-referential results. Returns "" for unusable links.
func resolveLink(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	baseNoFragment.RawFragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink reports whether href uses a scheme that cannot be fetched.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// NewGenericSelector creates the framework-agnostic selector used when
// detection fails. It reads semantic HTML5 regions and sweeps all
// anchors at fallback priority.
func NewGenericSelector() *Selector {
	return &Selector{
		name: "generic",
		configs: []SelectorConfig{
			{"nav a[href]", docmill.PriorityNavigation, "nav"},
			{"aside a[href]", docmill.PriorityTOC, "toc"},
			{"main a[href], article a[href]", docmill.PriorityContent, "content"},
			{"footer a[href]", docmill.PriorityFooter, "footer"},
		},
		fallback: true,
	}
}

// NewSphinxSelector creates a selector for Sphinx sites, covering the
// ReadTheDocs theme (.wy-*) and the classic theme (.sphinxsidebar).
func NewSphinxSelector() *Selector {
	return &Selector{
		name: "sphinx",
		configs: []SelectorConfig{
			{".toctree-wrapper a[href]", docmill.PriorityTOC, "toc"},
			{"#localtoc a[href]", docmill.PriorityTOC, "toc"},
			{".wy-nav-side a[href]", docmill.PriorityNavigation, "nav"},
			{".wy-menu-vertical a[href]", docmill.PriorityNavigation, "nav"},
			{".sphinxsidebar a[href]", docmill.PriorityNavigation, "nav"},
			{".document a[href]", docmill.PriorityContent, "content"},
			{".body a[href]", docmill.PriorityContent, "content"},
			{"article a[href]", docmill.PriorityContent, "content"},
			{"footer a[href]", docmill.PriorityFooter, "footer"},
		},
	}
}

// NewDocusaurusSelector creates a selector for Docusaurus v2/v3 sites.
func NewDocusaurusSelector() *Selector {
	return &Selector{
		name: "docusaurus",
		configs: []SelectorConfig{
			{".table-of-contents a[href]", docmill.PriorityTOC, "toc"},
			{".theme-doc-sidebar-container a[href]", docmill.PriorityNavigation, "nav"},
			{".menu__list a[href]", docmill.PriorityNavigation, "nav"},
			{".navbar a[href]", docmill.PriorityNavigation, "nav"},
			{".theme-doc-markdown a[href]", docmill.PriorityContent, "content"},
			{"article a[href]", docmill.PriorityContent, "content"},
			{".pagination-nav a[href]", docmill.PriorityContent, "content"},
			{"footer a[href]", docmill.PriorityFooter, "footer"},
		},
	}
}

// NewMkDocsSelector creates a selector for MkDocs sites with the
// Material theme.
func NewMkDocsSelector() *Selector {
	return &Selector{
		name: "mkdocs",
		configs: []SelectorConfig{
			{".md-nav--secondary a[href]", docmill.PriorityTOC, "toc"},
			{".md-nav--primary a[href]", docmill.PriorityNavigation, "nav"},
			{".md-tabs a[href]", docmill.PriorityNavigation, "nav"},
			{".md-content a[href]", docmill.PriorityContent, "content"},
			{".md-footer a[href]", docmill.PriorityFooter, "footer"},
		},
	}
}

// NewVuePressSelector creates a selector for VuePress sites.
func NewVuePressSelector() *Selector {
	return &Selector{
		name: "vuepress",
		configs: []SelectorConfig{
			{".sidebar-links a[href]", docmill.PriorityNavigation, "nav"},
			{".sidebar a[href]", docmill.PriorityNavigation, "nav"},
			{".navbar a[href]", docmill.PriorityNavigation, "nav"},
			{".theme-default-content a[href]", docmill.PriorityContent, "content"},
			{".page-nav a[href]", docmill.PriorityContent, "content"},
			{"footer a[href]", docmill.PriorityFooter, "footer"},
		},
	}
}

// NewVitePressSelector creates a selector for VitePress sites.
func NewVitePressSelector() *Selector {
	return &Selector{
		name: "vitepress",
		configs: []SelectorConfig{
			{".VPDocAsideOutline a[href]", docmill.PriorityTOC, "toc"},
			{".VPSidebar a[href]", docmill.PriorityNavigation, "nav"},
			{".VPNav a[href]", docmill.PriorityNavigation, "nav"},
			{".VPDoc a[href]", docmill.PriorityContent, "content"},
			{".VPDocFooter a[href]", docmill.PriorityFooter, "footer"},
		},
	}
}

// NewGitBookSelector creates a selector for GitBook sites.
func NewGitBookSelector() *Selector {
	return &Selector{
		name: "gitbook",
		configs: []SelectorConfig{
			{"[data-testid='page.desktopTableOfContents'] a[href]", docmill.PriorityTOC, "toc"},
			{"[data-testid='space.sidebar'] a[href]", docmill.PriorityNavigation, "nav"},
			{"aside a[href]", docmill.PriorityNavigation, "nav"},
			{"main a[href]", docmill.PriorityContent, "content"},
		},
		fallback: true,
	}
}

// NewNextraSelector creates a selector for Nextra sites.
func NewNextraSelector() *Selector {
	return &Selector{
		name: "nextra",
		configs: []SelectorConfig{
			{".nextra-toc a[href]", docmill.PriorityTOC, "toc"},
			{".nextra-sidebar a[href]", docmill.PriorityNavigation, "nav"},
			{".nextra-sidebar-container a[href]", docmill.PriorityNavigation, "nav"},
			{".nextra-navbar a[href]", docmill.PriorityNavigation, "nav"},
			{"main a[href], article a[href]", docmill.PriorityContent, "content"},
			{"footer a[href]", docmill.PriorityFooter, "footer"},
		},
	}
}
