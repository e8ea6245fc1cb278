package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	dhttp "github.com/docmill/docmill/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func urlset(locs ...string) string {
	out := `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`
	for _, loc := range locs {
		out += fmt.Sprintf("<url><loc>%s</loc></url>", loc)
	}
	return out + "</urlset>"
}

func TestSitemapService_discovers_urls_via_robots_txt(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "User-agent: *\nDisallow:\nSitemap: %s/custom-sitemap.xml\n", srv.URL)
	})
	mux.HandleFunc("/custom-sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, urlset(srv.URL+"/page1", srv.URL+"/page2"))
	})

	s := dhttp.NewSitemapService(nil)
	urls, err := s.DiscoverURLs(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/page1", srv.URL + "/page2"}, urls)
}

func TestSitemapService_falls_back_to_sitemap_xml(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	// No robots.txt handler: the mux serves 404 for it.
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, urlset(srv.URL+"/docs/intro"))
	})

	s := dhttp.NewSitemapService(nil)
	urls, err := s.DiscoverURLs(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/docs/intro"}, urls)
}

func TestSitemapService_resolves_sitemap_index_recursively(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
			<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
				<sitemap><loc>%s/sitemap-a.xml</loc></sitemap>
				<sitemap><loc>%s/sitemap-b.xml</loc></sitemap>
			</sitemapindex>`, srv.URL, srv.URL)
	})
	mux.HandleFunc("/sitemap-a.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, urlset(srv.URL+"/a1", srv.URL+"/a2"))
	})
	mux.HandleFunc("/sitemap-b.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, urlset(srv.URL+"/b1"))
	})

	s := dhttp.NewSitemapService(nil)
	urls, err := s.DiscoverURLs(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{srv.URL + "/a1", srv.URL + "/a2", srv.URL + "/b1"}, urls)
}

func TestSitemapService_self_referencing_index_terminates(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
			<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
				<sitemap><loc>%s/sitemap.xml</loc></sitemap>
			</sitemapindex>`, srv.URL)
	})

	s := dhttp.NewSitemapService(nil)
	urls, err := s.DiscoverURLs(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestSitemapService_filters_by_path_prefix(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, urlset(
			srv.URL+"/docs/intro",
			srv.URL+"/docs/api",
			srv.URL+"/blog/news",
			srv.URL+"/documentation/other",
		))
	})

	s := dhttp.NewSitemapService(nil)
	urls, err := s.DiscoverURLs(context.Background(), srv.URL+"/docs/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{srv.URL + "/docs/intro", srv.URL + "/docs/api"}, urls,
		"/documentation must not match the /docs prefix")
}

func TestSitemapService_no_sitemap_yields_empty_slice(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := dhttp.NewSitemapService(nil)
	urls, err := s.DiscoverURLs(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	require.NotNil(t, urls)
	assert.Empty(t, urls)
}

func TestSitemapService_deduplicates_urls(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, urlset(srv.URL+"/page", srv.URL+"/page"))
	})

	s := dhttp.NewSitemapService(nil)
	urls, err := s.DiscoverURLs(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/page"}, urls)
}
