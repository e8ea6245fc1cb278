// Package trafilatura provides a fallback docmill.Extractor built on
// go-trafilatura's heuristic content extraction, used when the
// selector-based extractor finds no main content region.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/docmill/docmill"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ docmill.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docmill.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docmill.Errorf(docmill.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, docmill.Errorf(docmill.ENOTFOUND, "content extraction failed: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &docmill.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", docmill.Errorf(docmill.EINTERNAL, "rendering content: %v", err)
	}
	return buf.String(), nil
}
