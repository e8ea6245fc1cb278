package mock

import "github.com/docmill/docmill"

var _ docmill.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of docmill.LinkSelector.
type LinkSelector struct {
	ExtractLinksFn func(html string, baseURL string) ([]docmill.DiscoveredLink, error)
	NameFn         func() string
}

func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]docmill.DiscoveredLink, error) {
	return s.ExtractLinksFn(html, baseURL)
}

func (s *LinkSelector) Name() string {
	if s.NameFn == nil {
		return "mock"
	}
	return s.NameFn()
}

var _ docmill.FrameworkDetector = (*FrameworkDetector)(nil)

// FrameworkDetector is a mock implementation of docmill.FrameworkDetector.
type FrameworkDetector struct {
	DetectFn func(html string) docmill.Framework
}

func (d *FrameworkDetector) Detect(html string) docmill.Framework {
	return d.DetectFn(html)
}

var _ docmill.LinkSelectorRegistry = (*LinkSelectorRegistry)(nil)

// LinkSelectorRegistry is a mock implementation of docmill.LinkSelectorRegistry.
type LinkSelectorRegistry struct {
	GetFn        func(framework docmill.Framework) docmill.LinkSelector
	GetForHTMLFn func(html string) docmill.LinkSelector
	RegisterFn   func(framework docmill.Framework, selector docmill.LinkSelector)
	ListFn       func() []docmill.Framework
}

func (r *LinkSelectorRegistry) Get(framework docmill.Framework) docmill.LinkSelector {
	return r.GetFn(framework)
}

func (r *LinkSelectorRegistry) GetForHTML(html string) docmill.LinkSelector {
	return r.GetForHTMLFn(html)
}

func (r *LinkSelectorRegistry) Register(framework docmill.Framework, selector docmill.LinkSelector) {
	if r.RegisterFn != nil {
		r.RegisterFn(framework, selector)
	}
}

func (r *LinkSelectorRegistry) List() []docmill.Framework {
	if r.ListFn == nil {
		return nil
	}
	return r.ListFn()
}
