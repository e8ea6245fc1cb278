package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docmill/docmill"
	"golang.org/x/net/html"
)

var _ docmill.TOCExtractor = (*TOCExtractor)(nil)

// defClassKinds maps definition block class tokens to entry kinds.
// Sphinx and friends tag API reference blocks with these tokens
// (e.g. <dl class="py method">).
var defClassKinds = map[string]docmill.EntryKind{
	"class":     docmill.KindClass,
	"method":    docmill.KindMethod,
	"function":  docmill.KindMethod,
	"attribute": docmill.KindAttribute,
	"property":  docmill.KindProperty,
}

// TOCExtractor builds a hierarchical outline from page markup in a
// single document-order walk. Ordinary headings nest by level;
// definition blocks nest by DOM containment, attaching to their nearest
// enclosing definition or, failing that, the current heading.
type TOCExtractor struct{}

// NewTOCExtractor creates a new TOCExtractor.
func NewTOCExtractor() *TOCExtractor {
	return &TOCExtractor{}
}

// ExtractTOC returns the page's TOC forest in document order.
func (t *TOCExtractor) ExtractTOC(rawHTML string) ([]*docmill.TOCEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docmill.Errorf(docmill.EINVALID, "failed to parse HTML: %v", err)
	}
	if len(doc.Selection.Nodes) == 0 {
		return nil, nil
	}

	b := &tocBuilder{anchors: make(map[string]int)}
	for _, n := range doc.Selection.Nodes {
		b.walk(n, nil)
	}
	return b.roots, nil
}

// tocBuilder accumulates the forest during the walk.
type tocBuilder struct {
	roots   []*docmill.TOCEntry
	stack   []*docmill.TOCEntry // open heading entries, outermost first
	anchors map[string]int      // anchor usage counts for duplicate suffixes
}

func (b *tocBuilder) walk(n *html.Node, parentDef *docmill.TOCEntry) {
	if n.Type == html.ElementNode {
		if kind, ok := defKind(n); ok {
			b.addDefinition(n, kind, parentDef)
			return
		}
		// Headings inside definition blocks are signature decoration,
		// not outline structure.
		if lvl := headingLevel(n); lvl > 0 && parentDef == nil {
			b.addHeading(n, lvl)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c, parentDef)
	}
}

// addHeading creates a generic entry for an hN element and nests it
// under the innermost heading of a smaller level.
func (b *tocBuilder) addHeading(n *html.Node, level int) {
	title := collapseSpace(textContent(n, false))
	if title == "" {
		return
	}

	entry := &docmill.TOCEntry{
		Title: title,
		Level: level,
		Kind:  docmill.KindGeneric,
	}
	entry.AnchorID = b.resolveAnchor(n, title)

	for len(b.stack) > 0 && b.stack[len(b.stack)-1].Level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	b.attach(entry, b.top())
	b.stack = append(b.stack, entry)
}

// addDefinition creates an entry for a definition block and recurses
// into it for nested definitions. A container with no nested
// definitions is a leaf.
func (b *tocBuilder) addDefinition(n *html.Node, kind docmill.EntryKind, parentDef *docmill.TOCEntry) {
	title := b.definitionTitle(n)
	if title == "" {
		return
	}

	level := 2
	if parentDef != nil {
		level = parentDef.Level + 1
	}

	entry := &docmill.TOCEntry{
		Title: title,
		Level: level,
		Kind:  kind,
	}
	entry.AnchorID = b.resolveDefinitionAnchor(n, title)

	parent := parentDef
	if parent == nil {
		parent = b.top()
	}
	b.attach(entry, parent)

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c, entry)
	}
}

func (b *tocBuilder) attach(entry *docmill.TOCEntry, parent *docmill.TOCEntry) {
	if parent == nil {
		b.roots = append(b.roots, entry)
		return
	}
	entry.ParentAnchorID = parent.AnchorID
	parent.Children = append(parent.Children, entry)
}

func (b *tocBuilder) top() *docmill.TOCEntry {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

// resolveAnchor returns the element's own id, the first descendant id,
// or a synthesized slug.
func (b *tocBuilder) resolveAnchor(n *html.Node, title string) string {
	if id := findID(n, false); id != "" {
		b.anchors[id]++
		return id
	}
	return b.synthesize(title)
}

// resolveDefinitionAnchor looks for an id on the block or its
// descendants, skipping nested definition blocks so a method's anchor
// never leaks onto its class.
func (b *tocBuilder) resolveDefinitionAnchor(n *html.Node, title string) string {
	if id := findID(n, true); id != "" {
		b.anchors[id]++
		return id
	}
	return b.synthesize(title)
}

// synthesize slugs the title, suffixing duplicates (-2, -3, ...) so
// same-named members stay addressable.
func (b *tocBuilder) synthesize(title string) string {
	anchor := docmill.GenerateAnchor(title)
	if anchor == "" {
		anchor = "section"
	}
	b.anchors[anchor]++
	if count := b.anchors[anchor]; count > 1 {
		return fmt.Sprintf("%s-%d", anchor, count)
	}
	return anchor
}

// definitionTitle extracts the signature text of a definition block:
// the first <dt> or sig-classed descendant outside nested blocks,
// falling back to the block's first text line.
func (b *tocBuilder) definitionTitle(n *html.Node) string {
	if sig := findSignature(n); sig != nil {
		return collapseSpace(textContent(sig, true))
	}
	text := textContent(n, true)
	for _, line := range strings.Split(text, "\n") {
		if line = collapseSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// findSignature returns the first signature element under n, skipping
// nested definition blocks.
func findSignature(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if _, nested := defKind(c); nested {
			continue
		}
		if c.Data == "dt" || hasClassSubstring(c, "sig") {
			return c
		}
		if found := findSignature(c); found != nil {
			return found
		}
	}
	return nil
}

// findID returns n's id, or the first descendant id in document order.
// When skipDefs is set, nested definition blocks are not searched.
func findID(n *html.Node, skipDefs bool) string {
	if id := attrValue(n, "id"); id != "" {
		return id
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if skipDefs {
			if _, nested := defKind(c); nested {
				continue
			}
		}
		if id := findID(c, skipDefs); id != "" {
			return id
		}
	}
	return ""
}

// defKind reports whether an element is a definition block and its kind.
func defKind(n *html.Node) (docmill.EntryKind, bool) {
	if n.Type != html.ElementNode {
		return "", false
	}
	for _, token := range strings.Fields(attrValue(n, "class")) {
		if kind, ok := defClassKinds[strings.ToLower(token)]; ok {
			return kind, true
		}
	}
	return "", false
}

// headingLevel returns 1-6 for h1-h6 elements, 0 otherwise.
func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode || len(n.Data) != 2 || n.Data[0] != 'h' {
		return 0
	}
	if n.Data[1] >= '1' && n.Data[1] <= '6' {
		return int(n.Data[1] - '0')
	}
	return 0
}

// hasClassSubstring reports whether n's class attribute contains sub.
func hasClassSubstring(n *html.Node, sub string) bool {
	return strings.Contains(attrValue(n, "class"), sub)
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent collects the text under n. When skipDefs is set, nested
// definition blocks contribute nothing.
func textContent(n *html.Node, skipDefs bool) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			return
		}
		if skipDefs && node != n {
			if _, nested := defKind(node); nested {
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
