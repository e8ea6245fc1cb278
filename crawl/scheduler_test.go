package crawl_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/docmill/docmill"
	"github.com/docmill/docmill/crawl"
	"github.com/docmill/docmill/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// site is a canned link graph served by mocked collaborators.
type site struct {
	mu      sync.Mutex
	links   map[string][]docmill.DiscoveredLink
	fetches map[string]int
	status  map[string]int // non-200 statuses
	ledger  []*docmill.URLRecord
	pages   []*docmill.PageDocument
}

func newSite(links map[string][]docmill.DiscoveredLink) *site {
	return &site{
		links:   links,
		fetches: make(map[string]int),
		status:  make(map[string]int),
	}
}

func (s *site) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*docmill.FetchResult, error) {
			s.mu.Lock()
			s.fetches[url]++
			code, bad := s.status[url]
			s.mu.Unlock()
			if bad {
				return &docmill.FetchResult{StatusCode: code}, docmill.Errorf(docmill.EBADSTATUS, "HTTP %d for %s", code, url)
			}
			return &docmill.FetchResult{StatusCode: 200, Body: "<html>" + url + "</html>"}, nil
		},
	}
}

func (s *site) selectors() *mock.LinkSelectorRegistry {
	selector := &mock.LinkSelector{
		ExtractLinksFn: func(html string, baseURL string) ([]docmill.DiscoveredLink, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.links[baseURL], nil
		},
	}
	return &mock.LinkSelectorRegistry{
		GetForHTMLFn: func(html string) docmill.LinkSelector { return selector },
	}
}

func (s *site) ledgerMock() *mock.Ledger {
	return &mock.Ledger{
		AppendFn: func(ctx context.Context, r *docmill.URLRecord) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.ledger = append(s.ledger, r)
			return nil
		},
	}
}

func (s *site) pageStore() *mock.PageStore {
	return &mock.PageStore{
		WritePageFn: func(ctx context.Context, p *docmill.PageDocument) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.pages = append(s.pages, p)
			return nil
		},
	}
}

func (s *site) record(url string) *docmill.URLRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.ledger {
		if r.URL == url {
			return r
		}
	}
	return nil
}

func newScheduler(t *testing.T, s *site, policy *docmill.ScopePolicy, base string) *crawl.Scheduler {
	t.Helper()
	normalizer, err := docmill.NewNormalizer(base, nil)
	require.NoError(t, err)

	return &crawl.Scheduler{
		Fetcher:   s.fetcher(),
		Extractor: &mock.Extractor{ExtractFn: func(html string) (*docmill.ExtractResult, error) {
			return &docmill.ExtractResult{Title: "Page", ContentHTML: "<p>content</p>"}, nil
		}},
		TOC: &mock.TOCExtractor{ExtractTOCFn: func(html string) ([]*docmill.TOCEntry, error) {
			return nil, nil
		}},
		Converter: &mock.Converter{ConvertFn: func(html string) (string, error) {
			return "# content", nil
		}},
		Selectors:   s.selectors(),
		Ledger:      s.ledgerMock(),
		Pages:       s.pageStore(),
		Policy:      policy,
		Normalizer:  normalizer,
		Limiter:     &mock.DomainLimiter{},
		Workers:     4,
		RetryDelays: []time.Duration{time.Millisecond},
	}
}

func TestScheduler_Run_crawls_to_depth_and_stays_on_domain(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/"
	s := newSite(map[string][]docmill.DiscoveredLink{
		base: {
			{URL: base + "a", Priority: docmill.PriorityNavigation},
			{URL: base + "b", Priority: docmill.PriorityContent},
			{URL: "https://external.com/x", Priority: docmill.PriorityContent},
		},
		base + "a": {
			{URL: base + "a1", Priority: docmill.PriorityContent},
			{URL: base, Priority: docmill.PriorityContent}, // back-link to seed
		},
		base + "b": {
			{URL: base + "b1", Priority: docmill.PriorityContent},
		},
		base + "a1": {
			{URL: base + "deep", Priority: docmill.PriorityContent}, // depth 3, beyond ceiling
		},
	})

	policy := &docmill.ScopePolicy{Mode: docmill.ModeMainDomainOnly, MaxDepth: 2}
	sched := newScheduler(t, s, policy, base)

	summary, err := sched.Run(context.Background(), []string{base})
	require.NoError(t, err)

	// Every in-scope page within the depth ceiling was fetched exactly once.
	for _, url := range []string{base, base + "a", base + "b", base + "a1", base + "b1"} {
		assert.Equal(t, 1, s.fetches[url], "fetch count for %s", url)
		r := s.record(url)
		require.NotNil(t, r, "ledger row for %s", url)
		assert.Equal(t, docmill.StatusFetched, r.Status)
	}

	// The external link got exactly one skipped row, no fetch.
	assert.Zero(t, s.fetches["https://external.com/x"])
	ext := s.record("https://external.com/x")
	require.NotNil(t, ext)
	assert.Equal(t, docmill.StatusSkipped, ext.Status)
	assert.Equal(t, docmill.ScopeBlocked, ext.Scope)

	// The link beyond the depth ceiling left no trace: no fetch, no row.
	assert.Zero(t, s.fetches[base+"deep"])
	assert.Nil(t, s.record(base+"deep"))

	assert.Equal(t, 5, summary.Fetched)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 6, summary.Records)
	assert.NotEmpty(t, summary.ScanID)
	assert.Len(t, s.pages, 5, "one page document per fetched URL")
}

func TestScheduler_Run_ledger_has_no_rows_beyond_depth_ceiling(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/"
	s := newSite(map[string][]docmill.DiscoveredLink{
		base:        {{URL: base + "a", Priority: docmill.PriorityContent}},
		base + "a":  {{URL: base + "a1", Priority: docmill.PriorityContent}},
		base + "a1": {{URL: base + "deep", Priority: docmill.PriorityContent}},
	})

	policy := &docmill.ScopePolicy{Mode: docmill.ModeMainDomainOnly, MaxDepth: 2}
	sched := newScheduler(t, s, policy, base)

	summary, err := sched.Run(context.Background(), []string{base})
	require.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.ledger {
		assert.LessOrEqual(t, r.Depth, 2, "ledger row %s exceeds the depth ceiling", r.URL)
	}
	assert.Equal(t, 3, summary.Records)
	assert.Equal(t, 0, summary.Skipped)
}

func TestScheduler_Run_records_depth_and_parent(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/"
	s := newSite(map[string][]docmill.DiscoveredLink{
		base:       {{URL: base + "a", Priority: docmill.PriorityContent}},
		base + "a": {{URL: base + "a1", Priority: docmill.PriorityContent}},
	})

	policy := &docmill.ScopePolicy{Mode: docmill.ModeMainDomainOnly, MaxDepth: -1}
	sched := newScheduler(t, s, policy, base)

	_, err := sched.Run(context.Background(), []string{base})
	require.NoError(t, err)

	seed := s.record(base)
	require.NotNil(t, seed)
	assert.Equal(t, 0, seed.Depth)
	assert.Empty(t, seed.ParentURL)

	a1 := s.record(base + "a1")
	require.NotNil(t, a1)
	assert.Equal(t, 2, a1.Depth)
	assert.Equal(t, base+"a", a1.ParentURL)
}

func TestScheduler_Run_skip_statuses_are_skipped_not_failed(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/"
	s := newSite(map[string][]docmill.DiscoveredLink{
		base: {
			{URL: base + "gone", Priority: docmill.PriorityContent},
			{URL: base + "broken", Priority: docmill.PriorityContent},
		},
	})
	s.status[base+"gone"] = 404
	s.status[base+"broken"] = 503

	policy := &docmill.ScopePolicy{Mode: docmill.ModeMainDomainOnly, MaxDepth: -1}
	sched := newScheduler(t, s, policy, base)

	summary, err := sched.Run(context.Background(), []string{base})
	require.NoError(t, err)

	gone := s.record(base + "gone")
	require.NotNil(t, gone)
	assert.Equal(t, docmill.StatusSkipped, gone.Status, "404 is on the skip list")
	assert.Equal(t, 404, gone.HTTPCode)

	broken := s.record(base + "broken")
	require.NotNil(t, broken)
	assert.Equal(t, docmill.StatusFailed, broken.Status, "503 is not on the skip list")
	assert.Equal(t, 503, broken.HTTPCode)
	assert.NotEmpty(t, broken.Reason)

	assert.Equal(t, 1, summary.Fetched)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
}

func TestScheduler_Run_external_once_fetches_without_recursing(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/"
	s := newSite(map[string][]docmill.DiscoveredLink{
		base: {{URL: "https://external.com/x", Priority: docmill.PriorityContent}},
		"https://external.com/x": {
			{URL: "https://external.com/y", Priority: docmill.PriorityContent},
		},
	})

	policy := &docmill.ScopePolicy{Mode: docmill.ModeExternalOnce, MaxDepth: -1}
	sched := newScheduler(t, s, policy, base)

	_, err := sched.Run(context.Background(), []string{base})
	require.NoError(t, err)

	assert.Equal(t, 1, s.fetches["https://external.com/x"], "external page fetched once")
	assert.Zero(t, s.fetches["https://external.com/y"], "links on external pages are not followed")
	assert.Nil(t, s.record("https://external.com/y"), "unfollowed links get no ledger row")
}

func TestScheduler_Run_max_urls_caps_records(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/"
	links := make([]docmill.DiscoveredLink, 0, 20)
	for i := 0; i < 20; i++ {
		links = append(links, docmill.DiscoveredLink{
			URL:      base + "page" + string(rune('a'+i)),
			Priority: docmill.PriorityContent,
		})
	}
	s := newSite(map[string][]docmill.DiscoveredLink{base: links})

	policy := &docmill.ScopePolicy{Mode: docmill.ModeMainDomainOnly, MaxDepth: -1, MaxURLs: 5}
	sched := newScheduler(t, s, policy, base)

	summary, err := sched.Run(context.Background(), []string{base})
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Records, "record ceiling bounds total ledger rows")
}

func TestScheduler_Run_ignores_zero_priority_links(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/"
	s := newSite(map[string][]docmill.DiscoveredLink{
		base: {{URL: base + "noise", Priority: docmill.PriorityIgnore}},
	})

	policy := &docmill.ScopePolicy{Mode: docmill.ModeMainDomainOnly, MaxDepth: -1}
	sched := newScheduler(t, s, policy, base)

	_, err := sched.Run(context.Background(), []string{base})
	require.NoError(t, err)
	assert.Zero(t, s.fetches[base+"noise"])
	assert.Nil(t, s.record(base+"noise"))
}

func TestScheduler_Run_halts_on_ledger_failure(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/"
	s := newSite(map[string][]docmill.DiscoveredLink{
		base: {{URL: base + "a", Priority: docmill.PriorityContent}},
	})

	policy := &docmill.ScopePolicy{Mode: docmill.ModeMainDomainOnly, MaxDepth: -1}
	sched := newScheduler(t, s, policy, base)
	sched.Ledger = &mock.Ledger{
		AppendFn: func(ctx context.Context, r *docmill.URLRecord) error {
			return docmill.Errorf(docmill.EINTERNAL, "disk full")
		},
	}

	_, err := sched.Run(context.Background(), []string{base})
	require.Error(t, err, "a failed ledger write invalidates resumability")
	assert.Equal(t, docmill.EINTERNAL, docmill.ErrorCode(err))
}

func TestScheduler_Run_fallback_extractor_used_when_primary_empty(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/"
	s := newSite(map[string][]docmill.DiscoveredLink{base: nil})

	policy := &docmill.ScopePolicy{Mode: docmill.ModeMainDomainOnly, MaxDepth: -1}
	sched := newScheduler(t, s, policy, base)
	sched.Extractor = &mock.Extractor{ExtractFn: func(html string) (*docmill.ExtractResult, error) {
		return &docmill.ExtractResult{Title: "Empty"}, nil
	}}
	fallbackUsed := false
	sched.Fallback = &mock.Extractor{ExtractFn: func(html string) (*docmill.ExtractResult, error) {
		fallbackUsed = true
		return &docmill.ExtractResult{Title: "Rescued", ContentHTML: "<p>rescued</p>"}, nil
	}}

	summary, err := sched.Run(context.Background(), []string{base})
	require.NoError(t, err)
	assert.True(t, fallbackUsed)
	assert.Equal(t, 1, summary.Fetched)
	require.Len(t, s.pages, 1)
	assert.Equal(t, "Rescued", s.pages[0].Title)
}

func TestScheduler_Run_resume_skips_recorded_urls(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/"
	s := newSite(map[string][]docmill.DiscoveredLink{
		base: {
			{URL: base + "done", Priority: docmill.PriorityContent},
			{URL: base + "retry", Priority: docmill.PriorityContent},
			{URL: base + "new", Priority: docmill.PriorityContent},
		},
	})

	policy := &docmill.ScopePolicy{Mode: docmill.ModeMainDomainOnly, MaxDepth: -1}
	sched := newScheduler(t, s, policy, base)
	sched.Resume = true

	ledger := s.ledgerMock()
	ledger.LoadFn = func(ctx context.Context) ([]*docmill.URLRecord, error) {
		return []*docmill.URLRecord{
			{URL: base + "done", Status: docmill.StatusFetched},
			{URL: base + "retry", Status: docmill.StatusFailed},
		}, nil
	}
	sched.Ledger = ledger

	_, err := sched.Run(context.Background(), []string{base})
	require.NoError(t, err)

	assert.Zero(t, s.fetches[base+"done"], "fetched URLs are not refetched on resume")
	assert.Equal(t, 1, s.fetches[base+"retry"], "failed URLs get another chance")
	assert.Equal(t, 1, s.fetches[base+"new"], "new URLs are fetched")
}

func TestScheduler_Run_cancellation_stops_promptly(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/"
	s := newSite(map[string][]docmill.DiscoveredLink{base: nil})

	policy := &docmill.ScopePolicy{Mode: docmill.ModeMainDomainOnly, MaxDepth: -1}
	sched := newScheduler(t, s, policy, base)

	blocked := make(chan struct{})
	sched.Fetcher = &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*docmill.FetchResult, error) {
			close(blocked)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-blocked
		cancel()
	}()

	summary, err := sched.Run(ctx, []string{base})
	require.Error(t, err)
	assert.Equal(t, 0, summary.Records, "in-flight URLs dropped without ledger rows")
}

func TestScheduler_Run_rejects_out_of_scope_seed(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/"
	s := newSite(map[string][]docmill.DiscoveredLink{})

	policy := &docmill.ScopePolicy{
		Mode:      docmill.ModeWhitelistOnly,
		Whitelist: docmill.DomainSet([]string{"other.com"}),
		MaxDepth:  -1,
	}
	sched := newScheduler(t, s, policy, base)

	_, err := sched.Run(context.Background(), []string{base})
	require.Error(t, err)
	assert.Equal(t, docmill.EINVALID, docmill.ErrorCode(err))
}

func TestScheduler_Run_seeds_from_sitemap(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/"
	s := newSite(map[string][]docmill.DiscoveredLink{})

	policy := &docmill.ScopePolicy{Mode: docmill.ModeMainDomainOnly, MaxDepth: -1}
	sched := newScheduler(t, s, policy, base)
	sched.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string) ([]string, error) {
			return []string{base + "from-sitemap"}, nil
		},
	}

	summary, err := sched.Run(context.Background(), []string{base})
	require.NoError(t, err)
	assert.Equal(t, 1, s.fetches[base+"from-sitemap"])
	assert.Equal(t, 2, summary.Fetched)
}
