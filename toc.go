package docmill

import (
	"strings"
	"unicode"
)

// EntryKind classifies a TOC entry.
type EntryKind string

// Entry kinds. Generic covers ordinary headings; the rest come from
// nested definition blocks in API reference markup.
const (
	KindGeneric   EntryKind = "generic"
	KindClass     EntryKind = "class"
	KindMethod    EntryKind = "method"
	KindAttribute EntryKind = "attribute"
	KindProperty  EntryKind = "property"
)

// TOCEntry is one node in a page's TOC forest. Built once per page by
// the TOC extractor and immutable afterwards.
//
// Invariant: for every child c of an entry e, c.ParentAnchorID ==
// e.AnchorID. A definition nested inside a container attaches as a child
// of that container, never as a sibling.
type TOCEntry struct {
	AnchorID       string
	Title          string
	Level          int // heading depth: 2=class, 3=method, 4=attribute
	Kind           EntryKind
	ParentAnchorID string // empty for roots
	Children       []*TOCEntry
}

// Walk visits the forest in document (preorder) order.
func Walk(entries []*TOCEntry, fn func(*TOCEntry)) {
	for _, e := range entries {
		fn(e)
		Walk(e.Children, fn)
	}
}

// GenerateAnchor creates a URL-safe anchor from a title: lowercase,
// spaces become hyphens, everything but letters and digits is dropped.
func GenerateAnchor(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' || r == '.' || r == '_' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
