package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docmill/docmill"
	"github.com/docmill/docmill/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage() *docmill.PageDocument {
	return &docmill.PageDocument{
		SourceURL:   "https://docs.example.com/guide/intro",
		Title:       "Getting Started",
		Markdown:    "# Getting Started\n\nWelcome.\n",
		ContentHash: "deadbeef12345678",
		FetchedAt:   time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestPageStore_writes_content_with_frontmatter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := fs.NewPageStore(dir)
	require.NoError(t, s.WritePage(context.Background(), samplePage()))

	data, err := os.ReadFile(filepath.Join(dir, "getting-started", "content.md"))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "source: https://docs.example.com/guide/intro")
	assert.Contains(t, content, "title: Getting Started")
	assert.Contains(t, content, "hash: deadbeef12345678")
	assert.Contains(t, content, "crawled: 2026-03-14")
	assert.Contains(t, content, "# Getting Started\n\nWelcome.")
}

func TestPageStore_writes_nested_toc(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := fs.NewPageStore(dir)

	page := samplePage()
	page.TOC = []*docmill.TOCEntry{
		{
			AnchorID: "install", Title: "Installation", Level: 2, Kind: docmill.KindGeneric,
			Children: []*docmill.TOCEntry{
				{AnchorID: "pip", Title: "Via pip", Level: 3, Kind: docmill.KindGeneric, ParentAnchorID: "install"},
			},
		},
		{AnchorID: "usage", Title: "Usage", Level: 2, Kind: docmill.KindGeneric},
	}
	require.NoError(t, s.WritePage(context.Background(), page))

	data, err := os.ReadFile(filepath.Join(dir, "getting-started", "toc.md"))
	require.NoError(t, err)

	toc := string(data)
	assert.Contains(t, toc, "# Getting Started")
	assert.Contains(t, toc, "- [Installation](content.md#install)")
	assert.Contains(t, toc, "  - [Via pip](content.md#pip)")
	assert.Contains(t, toc, "- [Usage](content.md#usage)")
}

func TestPageStore_same_titles_get_suffixed_directories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := fs.NewPageStore(dir)
	ctx := context.Background()

	first := samplePage()
	second := samplePage()
	second.SourceURL = "https://docs.example.com/other/intro"

	require.NoError(t, s.WritePage(ctx, first))
	require.NoError(t, s.WritePage(ctx, second))

	assert.FileExists(t, filepath.Join(dir, "getting-started", "content.md"))
	assert.FileExists(t, filepath.Join(dir, "getting-started-2", "content.md"))
}

func TestPageStore_rewriting_url_reuses_directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := fs.NewPageStore(dir)
	ctx := context.Background()

	page := samplePage()
	require.NoError(t, s.WritePage(ctx, page))

	updated := samplePage()
	updated.Markdown = "# Getting Started\n\nRevised.\n"
	require.NoError(t, s.WritePage(ctx, updated))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "same URL must not allocate a second directory")

	data, err := os.ReadFile(filepath.Join(dir, "getting-started", "content.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Revised.")
}

func TestPageStore_untitled_page_slugs_from_url(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := fs.NewPageStore(dir)

	page := samplePage()
	page.Title = ""
	require.NoError(t, s.WritePage(context.Background(), page))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].Name())
	assert.NotEqual(t, "page", entries[0].Name(), "URL text should produce a usable slug")
}
