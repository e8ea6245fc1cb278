package docmill

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}

// TOCExtractor builds a hierarchical outline from page markup.
type TOCExtractor interface {
	// ExtractTOC returns the page's TOC forest in document order.
	ExtractTOC(html string) ([]*TOCEntry, error)
}

// HeadingInjector labels definition blocks with headings before
// Markdown conversion. The heading is placed inside the block's body
// region, never before its signature line.
type HeadingInjector interface {
	InjectHeadings(html string, toc []*TOCEntry) (string, error)
}
