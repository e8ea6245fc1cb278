package goquery_test

import (
	"testing"

	"github.com/docmill/docmill"
	"github.com/docmill/docmill/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linksBase = "https://docs.example.com/guide/"

func linkByURL(links []docmill.DiscoveredLink, url string) (docmill.DiscoveredLink, bool) {
	for _, l := range links {
		if l.URL == url {
			return l, true
		}
	}
	return docmill.DiscoveredLink{}, false
}

func TestGenericSelector_prioritizes_by_region(t *testing.T) {
	t.Parallel()

	s := goquery.NewGenericSelector()
	links, err := s.ExtractLinks(`<html><body>
		<nav><a href="/nav-page">Nav</a></nav>
		<aside><a href="/toc-page">TOC</a></aside>
		<main><a href="/content-page">Content</a></main>
		<footer><a href="/footer-page">Footer</a></footer>
	</body></html>`, linksBase)
	require.NoError(t, err)

	want := map[string]docmill.LinkPriority{
		"https://docs.example.com/nav-page":     docmill.PriorityNavigation,
		"https://docs.example.com/toc-page":     docmill.PriorityTOC,
		"https://docs.example.com/content-page": docmill.PriorityContent,
		"https://docs.example.com/footer-page":  docmill.PriorityFooter,
	}
	for url, priority := range want {
		link, ok := linkByURL(links, url)
		require.True(t, ok, "missing %s", url)
		assert.Equal(t, priority, link.Priority, "priority for %s", url)
	}
}

func TestSelector_duplicate_link_keeps_highest_priority(t *testing.T) {
	t.Parallel()

	// The same URL appears in the nav and in the content region; one
	// entry comes back carrying the nav priority.
	s := goquery.NewGenericSelector()
	links, err := s.ExtractLinks(`<html><body>
		<main><a href="/page">in content</a></main>
		<nav><a href="/page">in nav</a></nav>
	</body></html>`, linksBase)
	require.NoError(t, err)

	require.Len(t, links, 1)
	assert.Equal(t, docmill.PriorityNavigation, links[0].Priority)
}

func TestSelector_resolves_relative_links(t *testing.T) {
	t.Parallel()

	s := goquery.NewGenericSelector()
	links, err := s.ExtractLinks(`<html><body><main>
		<a href="intro.html">Intro</a>
		<a href="../api/client.html">Client</a>
		<a href="/absolute">Absolute</a>
	</main></body></html>`, linksBase)
	require.NoError(t, err)

	urls := make([]string, 0, len(links))
	for _, l := range links {
		urls = append(urls, l.URL)
	}
	assert.Contains(t, urls, "https://docs.example.com/guide/intro.html")
	assert.Contains(t, urls, "https://docs.example.com/api/client.html")
	assert.Contains(t, urls, "https://docs.example.com/absolute")
}

func TestSelector_strips_fragments_and_drops_self_links(t *testing.T) {
	t.Parallel()

	s := goquery.NewGenericSelector()
	links, err := s.ExtractLinks(`<html><body><main>
		<a href="/other#section">Other</a>
		<a href="#local-anchor">Local</a>
		<a href="`+linksBase+`">Self</a>
	</main></body></html>`, linksBase)
	require.NoError(t, err)

	require.Len(t, links, 1)
	assert.Equal(t, "https://docs.example.com/other", links[0].URL)
}

func TestSelector_skips_non_http_schemes(t *testing.T) {
	t.Parallel()

	s := goquery.NewGenericSelector()
	links, err := s.ExtractLinks(`<html><body><main>
		<a href="javascript:void(0)">JS</a>
		<a href="mailto:docs@example.com">Mail</a>
		<a href="tel:+1234567890">Call</a>
		<a href="data:text/plain,hi">Data</a>
		<a href="/real">Real</a>
	</main></body></html>`, linksBase)
	require.NoError(t, err)

	require.Len(t, links, 1)
	assert.Equal(t, "https://docs.example.com/real", links[0].URL)
}

func TestSelector_keeps_external_links(t *testing.T) {
	t.Parallel()

	// Scope filtering is the scheduler's job; the selector reports
	// external links so external-once modes can see them.
	s := goquery.NewGenericSelector()
	links, err := s.ExtractLinks(`<html><body><main>
		<a href="https://github.com/example/project">Source</a>
	</main></body></html>`, linksBase)
	require.NoError(t, err)

	_, ok := linkByURL(links, "https://github.com/example/project")
	assert.True(t, ok)
}

func TestSelector_fallback_sweep_catches_unstructured_anchors(t *testing.T) {
	t.Parallel()

	s := goquery.NewGenericSelector()
	links, err := s.ExtractLinks(`<html><body>
		<div class="custom-layout"><a href="/hidden">Hidden</a></div>
	</body></html>`, linksBase)
	require.NoError(t, err)

	link, ok := linkByURL(links, "https://docs.example.com/hidden")
	require.True(t, ok, "fallback sweep should find anchors outside semantic regions")
	assert.Equal(t, docmill.PriorityFallback, link.Priority)
	assert.Equal(t, "fallback", link.Source)
}

func TestSphinxSelector_reads_toctree_and_sidebar(t *testing.T) {
	t.Parallel()

	s := goquery.NewSphinxSelector()
	links, err := s.ExtractLinks(`<html><body>
		<nav class="wy-nav-side"><a href="/sidebar-page">Sidebar</a></nav>
		<div class="document">
			<div class="toctree-wrapper"><a href="/toc-page">Chapter</a></div>
			<p><a href="/inline">inline ref</a></p>
		</div>
	</body></html>`, linksBase)
	require.NoError(t, err)

	toc, ok := linkByURL(links, "https://docs.example.com/toc-page")
	require.True(t, ok)
	assert.Equal(t, docmill.PriorityTOC, toc.Priority)

	side, ok := linkByURL(links, "https://docs.example.com/sidebar-page")
	require.True(t, ok)
	assert.Equal(t, docmill.PriorityNavigation, side.Priority)

	inline, ok := linkByURL(links, "https://docs.example.com/inline")
	require.True(t, ok)
	assert.Equal(t, docmill.PriorityContent, inline.Priority)

	assert.Equal(t, "sphinx", s.Name())
}

func TestSelector_rejects_invalid_base_url(t *testing.T) {
	t.Parallel()

	s := goquery.NewGenericSelector()
	_, err := s.ExtractLinks(`<html></html>`, "http://exa mple.com/")
	require.Error(t, err)
	assert.Equal(t, docmill.EINVALID, docmill.ErrorCode(err))
}

func TestSelector_link_text_is_trimmed(t *testing.T) {
	t.Parallel()

	s := goquery.NewGenericSelector()
	links, err := s.ExtractLinks(`<html><body><main>
		<a href="/page">
			Getting Started
		</a>
	</main></body></html>`, linksBase)
	require.NoError(t, err)

	require.Len(t, links, 1)
	assert.Equal(t, "Getting Started", links[0].Text)
}
