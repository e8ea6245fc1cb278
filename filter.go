package docmill

import "strings"

// MergeMode controls how user-supplied filter rules combine with the
// defaults and the framework preset.
type MergeMode string

// Merge modes. Extend yields defaults ∪ preset ∪ user-supplied;
// Replace yields exactly the user-supplied sets.
const (
	MergeExtend  MergeMode = "extend"
	MergeReplace MergeMode = "replace"
)

// FilterConfig drives boilerplate removal in the content extractor.
// Resolve it once at config-load time; the resolved value is immutable
// and shared across workers.
type FilterConfig struct {
	MergeMode           MergeMode
	NonContentSelectors []string // CSS selectors removed from the page
	PreserveSelectors   []string // subtrees that survive removal
	FuzzyKeywords       []string // substrings matched case-insensitively on class/id
	EndMarkers          []string // literal strings; content after a match is discarded
	Preset              Framework
}

// DefaultNonContentSelectors removed regardless of framework. Kept
// deliberately structural; framework presets add the generator-specific
// chrome.
var DefaultNonContentSelectors = []string{
	"script", "style", "noscript", "template", "iframe",
	"nav", "header", "footer", "aside",
}

// filterPresets is the closed set of named framework bundles. Selector
// choices follow the markers each generator emits.
var filterPresets = map[Framework]FilterConfig{
	FrameworkDocusaurus: {
		NonContentSelectors: []string{
			"nav.navbar", ".theme-doc-sidebar-container", ".theme-doc-toc-desktop",
			".theme-doc-toc-mobile", ".pagination-nav", "footer.footer",
			".theme-doc-breadcrumbs", ".theme-edit-this-page",
		},
		FuzzyKeywords: []string{"announcementbar", "skiptocontent"},
	},
	FrameworkMkDocs: {
		NonContentSelectors: []string{
			".md-header", ".md-tabs", ".md-sidebar", ".md-footer",
			".md-top", ".md-source-file", ".md-feedback",
		},
	},
	FrameworkSphinx: {
		NonContentSelectors: []string{
			".wy-nav-side", ".wy-nav-top", ".sphinxsidebar", ".rst-versions",
			".related", "#localtoc", ".headerlink", ".rst-footer-buttons",
		},
		PreserveSelectors: []string{".toctree-wrapper"},
	},
	FrameworkVuePress: {
		NonContentSelectors: []string{
			".navbar", ".sidebar", ".page-edit", ".page-nav", ".global-ui",
		},
	},
	FrameworkVitePress: {
		NonContentSelectors: []string{
			".VPNav", ".VPSidebar", ".VPLocalNav", ".VPDocAsideOutline",
			".VPFooter", ".VPDocFooter",
		},
	},
	FrameworkGitBook: {
		NonContentSelectors: []string{
			"[data-testid='space.sidebar']",
			"[data-testid='page.desktopTableOfContents']",
			"[data-testid='header']",
		},
	},
	FrameworkNextra: {
		NonContentSelectors: []string{
			".nextra-navbar", ".nextra-sidebar", ".nextra-toc",
			".nextra-breadcrumb", ".nextra-search",
		},
	},
}

// PresetFilter returns the filter bundle for a framework.
func PresetFilter(f Framework) (FilterConfig, bool) {
	p, ok := filterPresets[f]
	return p, ok
}

// Resolve merges the config with the defaults and the framework preset
// according to MergeMode. An empty MergeMode means Extend. Resolution
// happens once at load time; the result must not be mutated.
func (c FilterConfig) Resolve() (FilterConfig, error) {
	mode := c.MergeMode
	if mode == "" {
		mode = MergeExtend
	}

	switch mode {
	case MergeReplace:
		out := c
		out.MergeMode = MergeReplace
		out.FuzzyKeywords = lowerAll(c.FuzzyKeywords)
		return out, nil
	case MergeExtend:
	default:
		return FilterConfig{}, Errorf(EINVALID, "invalid merge mode %q", c.MergeMode)
	}

	out := FilterConfig{MergeMode: MergeExtend, Preset: c.Preset}
	out.NonContentSelectors = appendUnique(out.NonContentSelectors, DefaultNonContentSelectors...)

	if preset, ok := filterPresets[c.Preset]; ok {
		out.NonContentSelectors = appendUnique(out.NonContentSelectors, preset.NonContentSelectors...)
		out.PreserveSelectors = appendUnique(out.PreserveSelectors, preset.PreserveSelectors...)
		out.FuzzyKeywords = appendUnique(out.FuzzyKeywords, preset.FuzzyKeywords...)
		out.EndMarkers = appendUnique(out.EndMarkers, preset.EndMarkers...)
	} else if c.Preset != FrameworkUnknown {
		return FilterConfig{}, Errorf(EINVALID, "unknown framework preset %q", c.Preset)
	}

	out.NonContentSelectors = appendUnique(out.NonContentSelectors, c.NonContentSelectors...)
	out.PreserveSelectors = appendUnique(out.PreserveSelectors, c.PreserveSelectors...)
	out.FuzzyKeywords = appendUnique(out.FuzzyKeywords, lowerAll(c.FuzzyKeywords)...)
	out.EndMarkers = appendUnique(out.EndMarkers, c.EndMarkers...)

	return out, nil
}

// lowerAll lowercases keywords so matching against lowercased class/id
// attributes is case-insensitive.
func lowerAll(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

// appendUnique appends values not already present, preserving order.
func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
