package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docmill/docmill"
)

var _ docmill.FrameworkDetector = (*Detector)(nil)

// Detector identifies documentation frameworks from HTML content. It
// checks the meta generator tag first, then falls back to structural
// markers unique to each generator.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// generatorHints maps meta generator substrings to frameworks. Checked
// in order: VitePress before VuePress since the former's generator
// string contains neither but site content sometimes claims both.
var generatorHints = []struct {
	substr    string
	framework docmill.Framework
}{
	{"sphinx", docmill.FrameworkSphinx},
	{"gitbook", docmill.FrameworkGitBook},
	{"docusaurus", docmill.FrameworkDocusaurus},
	{"mkdocs", docmill.FrameworkMkDocs},
	{"vitepress", docmill.FrameworkVitePress},
	{"vuepress", docmill.FrameworkVuePress},
	{"nextra", docmill.FrameworkNextra},
}

// structuralProbes lists framework-specific selectors. A framework
// matches when any of its selectors finds an element. VitePress probes
// run before VuePress: VitePress succeeded VuePress and shares markup.
var structuralProbes = []struct {
	framework docmill.Framework
	selectors []string
}{
	{docmill.FrameworkDocusaurus, []string{
		"#__docusaurus_skipToContent_fallback",
		".theme-doc-sidebar-container",
		".theme-doc-markdown",
	}},
	{docmill.FrameworkMkDocs, []string{
		"[data-md-color-scheme]",
		"[data-md-component]",
		".md-nav--primary",
	}},
	{docmill.FrameworkSphinx, []string{
		".toctree-wrapper",
		".wy-nav-side",
		".wy-menu-vertical",
		".sphinxsidebar",
	}},
	{docmill.FrameworkVitePress, []string{
		"#VPContent",
		".VPDoc",
		".VPDocAsideOutline",
	}},
	{docmill.FrameworkVuePress, []string{
		".theme-default-content",
		".sidebar-links",
		".vuepress-navbar",
	}},
	{docmill.FrameworkGitBook, []string{
		"[data-testid='space.sidebar']",
		"[data-testid='page.desktopTableOfContents']",
	}},
	{docmill.FrameworkNextra, []string{
		".nextra-navbar",
		".nextra-sidebar",
		".nextra-toc",
	}},
}

// Detect analyzes HTML and returns the identified framework, or
// FrameworkUnknown when no marker matches.
func (d *Detector) Detect(html string) docmill.Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return docmill.FrameworkUnknown
	}

	// Meta generator is the most reliable signal when present.
	if generator, exists := doc.Find("meta[name='generator']").Attr("content"); exists {
		generator = strings.ToLower(generator)
		for _, hint := range generatorHints {
			if strings.Contains(generator, hint.substr) {
				return hint.framework
			}
		}
	}

	for _, probe := range structuralProbes {
		for _, selector := range probe.selectors {
			if doc.Find(selector).Length() > 0 {
				return probe.framework
			}
		}
	}

	// GitBook often carries no generator tag and no stable testids; it
	// stamps a distinctive class combination on the html element.
	if class, exists := doc.Find("html").Attr("class"); exists {
		count := 0
		for _, marker := range []string{"circular-corners", "theme-clean", "tint"} {
			if strings.Contains(class, marker) {
				count++
			}
		}
		if count >= 2 {
			return docmill.FrameworkGitBook
		}
	}

	return docmill.FrameworkUnknown
}
