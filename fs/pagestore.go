// Package fs provides file-based persistence: the per-page Markdown
// store and the CSV crawl ledger.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/docmill/docmill"
	"github.com/nao1215/markdown"
)

var _ docmill.PageStore = (*PageStore)(nil)

// PageStore writes one directory per page, named after the page title's
// slug, containing content.md and toc.md. Same-titled pages get -2, -3
// suffixes; rewriting a URL reuses its original directory.
type PageStore struct {
	mu       sync.Mutex
	baseDir  string
	slugs    map[string]int
	dirByURL map[string]string
}

// NewPageStore creates a PageStore rooted at baseDir. The directory is
// created on first write.
func NewPageStore(baseDir string) *PageStore {
	return &PageStore{
		baseDir:  baseDir,
		slugs:    make(map[string]int),
		dirByURL: make(map[string]string),
	}
}

// WritePage persists a page's Markdown artifacts. Safe for concurrent
// use; directory reservation happens under the lock, file writes
// outside it.
func (s *PageStore) WritePage(ctx context.Context, page *docmill.PageDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := s.reserveDir(page)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	content := FormatPage(page)
	if err := os.WriteFile(filepath.Join(dir, "content.md"), []byte(content), 0o644); err != nil {
		return err
	}
	return s.writeTOC(filepath.Join(dir, "toc.md"), page)
}

// reserveDir returns the page's directory, allocating a slug with a
// collision suffix on first use.
func (s *PageStore) reserveDir(page *docmill.PageDocument) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir, ok := s.dirByURL[page.SourceURL]; ok {
		return dir
	}

	slug := docmill.GenerateAnchor(page.Title)
	if slug == "" {
		slug = docmill.GenerateAnchor(page.SourceURL)
	}
	if slug == "" {
		slug = "page"
	}

	s.slugs[slug]++
	if n := s.slugs[slug]; n > 1 {
		slug = fmt.Sprintf("%s-%d", slug, n)
	}

	dir := filepath.Join(s.baseDir, slug)
	s.dirByURL[page.SourceURL] = dir
	return dir
}

// FormatPage formats a page's content file with YAML frontmatter.
func FormatPage(page *docmill.PageDocument) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.SourceURL)
	b.WriteString("\ntitle: ")
	b.WriteString(page.Title)
	b.WriteString("\nhash: ")
	b.WriteString(page.ContentHash)
	b.WriteString("\ncrawled: ")
	b.WriteString(page.FetchedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(page.Markdown)
	return b.String()
}

// writeTOC renders the page's outline as a nested link list in toc.md.
func (s *PageStore) writeTOC(path string, page *docmill.PageDocument) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	md := markdown.NewMarkdown(f)
	title := page.Title
	if title == "" {
		title = "Table of Contents"
	}
	md.H1(title)
	md.PlainText("")

	var render func(entries []*docmill.TOCEntry, depth int)
	render = func(entries []*docmill.TOCEntry, depth int) {
		for _, e := range entries {
			indent := strings.Repeat("  ", depth)
			md.PlainText(indent + "- " + markdown.Link(e.Title, "content.md#"+e.AnchorID))
			render(e.Children, depth+1)
		}
	}
	render(page.TOC, 0)

	return md.Build()
}
