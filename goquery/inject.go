package goquery

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docmill/docmill"
)

var _ docmill.HeadingInjector = (*Injector)(nil)

// defBlockSelector matches any definition block by class token.
const defBlockSelector = ".class, .method, .function, .attribute, .property"

// bodyRegionSelector matches the prose region of a definition block.
const bodyRegionSelector = "dd, .body, .description"

// signatureSelector matches a definition block's signature line.
const signatureSelector = "dt, .sig, .signature"

// Injector labels definition blocks with headings before Markdown
// conversion so converted pages keep their API outline. Headings land
// inside the block's body region, after the signature, never before it.
type Injector struct{}

// NewInjector creates a new Injector.
func NewInjector() *Injector {
	return &Injector{}
}

// InjectHeadings inserts one heading per definition entry whose anchor
// resolves to a real element id in the markup. Entries with synthesized
// anchors have no stable DOM target and are left alone, as are generic
// heading entries, which already exist in the markup.
func (i *Injector) InjectHeadings(rawHTML string, toc []*docmill.TOCEntry) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", docmill.Errorf(docmill.EINVALID, "failed to parse HTML: %v", err)
	}

	docmill.Walk(toc, func(entry *docmill.TOCEntry) {
		if entry.Kind == docmill.KindGeneric {
			return
		}
		i.injectOne(doc, entry)
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", docmill.Errorf(docmill.EINTERNAL, "failed to render HTML: %v", err)
	}
	return out, nil
}

func (i *Injector) injectOne(doc *goquery.Document, entry *docmill.TOCEntry) {
	if entry.AnchorID == "" || strings.Contains(entry.AnchorID, `"`) {
		return
	}
	target := doc.Find(fmt.Sprintf(`[id=%q]`, entry.AnchorID)).First()
	if target.Length() == 0 {
		return
	}

	// The id may sit on the signature element; the block is the nearest
	// ancestor carrying a definition class token.
	block := target.Closest(defBlockSelector)
	if block.Length() == 0 {
		block = target
	}

	heading := headingHTML(entry)

	if body := block.ChildrenFiltered(bodyRegionSelector).First(); body.Length() > 0 {
		body.PrependHtml(heading)
		return
	}
	if sig := block.ChildrenFiltered(signatureSelector).First(); sig.Length() > 0 {
		sig.AfterHtml(heading)
		return
	}
	block.AppendHtml(heading)
}

func headingHTML(entry *docmill.TOCEntry) string {
	level := entry.Level
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return fmt.Sprintf("<h%d>%s</h%d>", level, html.EscapeString(entry.Title), level)
}
