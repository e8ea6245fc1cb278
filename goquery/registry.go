package goquery

import "github.com/docmill/docmill"

var _ docmill.LinkSelectorRegistry = (*Registry)(nil)

// Registry manages framework-specific link selectors and auto-detects
// frameworks from HTML content. When the framework is unknown or has no
// registered selector, the fallback selector serves.
type Registry struct {
	detector  docmill.FrameworkDetector
	fallback  docmill.LinkSelector
	selectors map[docmill.Framework]docmill.LinkSelector
}

// NewRegistry creates a Registry with the given detector and fallback
// selector.
func NewRegistry(detector docmill.FrameworkDetector, fallback docmill.LinkSelector) *Registry {
	return &Registry{
		detector:  detector,
		fallback:  fallback,
		selectors: make(map[docmill.Framework]docmill.LinkSelector),
	}
}

// NewDefaultRegistry creates a Registry wired with all framework
// selectors and the generic selector as fallback.
func NewDefaultRegistry() *Registry {
	r := NewRegistry(NewDetector(), NewGenericSelector())
	r.Register(docmill.FrameworkSphinx, NewSphinxSelector())
	r.Register(docmill.FrameworkDocusaurus, NewDocusaurusSelector())
	r.Register(docmill.FrameworkMkDocs, NewMkDocsSelector())
	r.Register(docmill.FrameworkVuePress, NewVuePressSelector())
	r.Register(docmill.FrameworkVitePress, NewVitePressSelector())
	r.Register(docmill.FrameworkGitBook, NewGitBookSelector())
	r.Register(docmill.FrameworkNextra, NewNextraSelector())
	return r
}

// Get returns the selector for a framework, nil if none is registered.
func (r *Registry) Get(framework docmill.Framework) docmill.LinkSelector {
	return r.selectors[framework]
}

// GetForHTML detects the framework and returns its selector, falling
// back to the generic selector when detection fails.
func (r *Registry) GetForHTML(html string) docmill.LinkSelector {
	framework := r.detector.Detect(html)
	if selector, ok := r.selectors[framework]; ok {
		return selector
	}
	return r.fallback
}

// Register adds a selector for a framework, replacing any existing one.
func (r *Registry) Register(framework docmill.Framework, selector docmill.LinkSelector) {
	r.selectors[framework] = selector
}

// List returns all registered frameworks.
func (r *Registry) List() []docmill.Framework {
	frameworks := make([]docmill.Framework, 0, len(r.selectors))
	for f := range r.selectors {
		frameworks = append(frameworks, f)
	}
	return frameworks
}
