package mock

import "github.com/docmill/docmill"

var _ docmill.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docmill.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docmill.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docmill.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ docmill.TOCExtractor = (*TOCExtractor)(nil)

// TOCExtractor is a mock implementation of docmill.TOCExtractor.
type TOCExtractor struct {
	ExtractTOCFn func(html string) ([]*docmill.TOCEntry, error)
}

func (e *TOCExtractor) ExtractTOC(html string) ([]*docmill.TOCEntry, error) {
	return e.ExtractTOCFn(html)
}

var _ docmill.HeadingInjector = (*HeadingInjector)(nil)

// HeadingInjector is a mock implementation of docmill.HeadingInjector.
type HeadingInjector struct {
	InjectHeadingsFn func(html string, toc []*docmill.TOCEntry) (string, error)
}

func (i *HeadingInjector) InjectHeadings(html string, toc []*docmill.TOCEntry) (string, error) {
	return i.InjectHeadingsFn(html, toc)
}
