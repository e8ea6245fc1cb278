// Package goquery provides CSS-selector based HTML processing: main
// content extraction, TOC extraction, framework detection, prioritized
// link selection, and definition heading injection.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docmill/docmill"
	"golang.org/x/net/html"
)

var _ docmill.Extractor = (*Extractor)(nil)

// contentRootSelectors locate the main content region, tried in order.
// The body element is the last resort.
var contentRootSelectors = []string{
	"main",
	"article",
	"[role='main']",
	".theme-doc-markdown",
	".md-content",
	".VPDoc",
	".theme-default-content",
	".document",
	"body",
}

// Extractor extracts main content from HTML pages by removing
// boilerplate under a resolved filter configuration. It is immutable
// after construction and safe for concurrent use.
type Extractor struct {
	config  docmill.FilterConfig
	markers []*regexp.Regexp
}

// NewExtractor creates an Extractor from a filter configuration. The
// configuration is resolved (defaults and preset merged) and end
// markers are compiled to word-boundary patterns.
func NewExtractor(config docmill.FilterConfig) (*Extractor, error) {
	resolved, err := config.Resolve()
	if err != nil {
		return nil, err
	}

	markers := make([]*regexp.Regexp, 0, len(resolved.EndMarkers))
	for _, m := range resolved.EndMarkers {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(m) + `\b`)
		if err != nil {
			return nil, docmill.Errorf(docmill.EINVALID, "invalid end marker %q: %v", m, err)
		}
		markers = append(markers, re)
	}

	return &Extractor{config: resolved, markers: markers}, nil
}

// Extract processes raw HTML and returns the main content with
// boilerplate removed. An empty ContentHTML (no error) means the page
// had no recognizable main content; callers may fall back to a
// different extractor.
func (e *Extractor) Extract(rawHTML string) (*docmill.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docmill.Errorf(docmill.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	for _, selector := range e.config.NonContentSelectors {
		e.removeOrPrune(doc.Find(selector))
	}
	e.removeFuzzyMatches(doc)

	root := e.findContentRoot(doc)
	if root == nil {
		return &docmill.ExtractResult{Title: title}, nil
	}

	if len(e.markers) > 0 && len(root.Nodes) > 0 {
		truncateAtMarkers(root.Nodes[0], e.markers)
	}

	if title == "" {
		title = strings.TrimSpace(root.Find("h1").First().Text())
	}

	contentHTML, err := root.Html()
	if err != nil {
		return nil, docmill.Errorf(docmill.EINTERNAL, "failed to render content: %v", err)
	}
	if strings.TrimSpace(root.Text()) == "" {
		contentHTML = ""
	}

	return &docmill.ExtractResult{
		Title:       title,
		ContentHTML: contentHTML,
	}, nil
}

// findContentRoot returns the first matching content region selection.
func (e *Extractor) findContentRoot(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentRootSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// removeOrPrune removes each matched element unless a preserve rule
// protects it. An element inside a preserved subtree survives intact;
// an element containing a preserved subtree is pruned around it.
func (e *Extractor) removeOrPrune(matches *goquery.Selection) {
	matches.Each(func(_ int, s *goquery.Selection) {
		if e.insidePreserved(s) {
			return
		}
		if e.containsPreserved(s) {
			e.pruneAround(s)
			return
		}
		s.Remove()
	})
}

func (e *Extractor) insidePreserved(s *goquery.Selection) bool {
	for _, p := range e.config.PreserveSelectors {
		if s.Closest(p).Length() > 0 {
			return true
		}
	}
	return false
}

func (e *Extractor) containsPreserved(s *goquery.Selection) bool {
	for _, p := range e.config.PreserveSelectors {
		if s.Find(p).Length() > 0 {
			return true
		}
	}
	return false
}

func (e *Extractor) matchesPreserved(s *goquery.Selection) bool {
	for _, p := range e.config.PreserveSelectors {
		if s.Is(p) {
			return true
		}
	}
	return false
}

// pruneAround removes an element's children except the branches that
// are, or contain, a preserved subtree.
func (e *Extractor) pruneAround(s *goquery.Selection) {
	s.Children().Each(func(_ int, child *goquery.Selection) {
		if e.matchesPreserved(child) {
			return
		}
		if e.containsPreserved(child) {
			e.pruneAround(child)
			return
		}
		child.Remove()
	})
}

// removeFuzzyMatches removes elements whose class or id contains any
// configured fuzzy keyword, case-insensitively.
func (e *Extractor) removeFuzzyMatches(doc *goquery.Document) {
	if len(e.config.FuzzyKeywords) == 0 {
		return
	}
	doc.Find("[class],[id]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		haystack := strings.ToLower(class + " " + id)
		for _, kw := range e.config.FuzzyKeywords {
			if strings.Contains(haystack, kw) {
				if !e.insidePreserved(s) {
					if e.containsPreserved(s) {
						e.pruneAround(s)
					} else {
						s.Remove()
					}
				}
				return
			}
		}
	})
}

// truncateAtMarkers finds the first text node under root matching any
// end marker, truncates that node at the match, and removes everything
// after it in document order. Markers match on word boundaries anywhere
// in the text.
func truncateAtMarkers(root *html.Node, markers []*regexp.Regexp) {
	node, cut := findMarker(root, markers)
	if node == nil {
		return
	}

	node.Data = strings.TrimRight(node.Data[:cut], " \t")

	// Climb from the marker node to the root, removing each level's
	// following siblings.
	for n := node; n != nil && n != root; {
		parent := n.Parent
		if parent == nil {
			break
		}
		for sib := n.NextSibling; sib != nil; {
			next := sib.NextSibling
			parent.RemoveChild(sib)
			sib = next
		}
		n = parent
	}
}

// findMarker returns the first text node in document order matching any
// marker, with the byte offset of the earliest match in that node.
func findMarker(n *html.Node, markers []*regexp.Regexp) (*html.Node, int) {
	if n.Type == html.TextNode {
		best := -1
		for _, re := range markers {
			if loc := re.FindStringIndex(n.Data); loc != nil {
				if best == -1 || loc[0] < best {
					best = loc[0]
				}
			}
		}
		if best >= 0 {
			return n, best
		}
		return nil, 0
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found, cut := findMarker(c, markers); found != nil {
			return found, cut
		}
	}
	return nil, 0
}
