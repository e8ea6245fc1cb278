// Package crawl provides documentation crawl orchestration: the URL
// frontier, per-domain rate limiting, bounded fetch retries, and the
// scheduler that drives discovered URLs through the content pipeline.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/docmill/docmill"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the worker pool size when none is configured.
const DefaultWorkers = 8

// DefaultSkipStatuses returns the HTTP status codes that mark a URL
// Skipped rather than Failed: the page is gone or walled off, and
// retrying or flagging it as a scan failure helps nobody.
func DefaultSkipStatuses() []int {
	return []int{403, 404, 410, 500}
}

// Scheduler coordinates a scan: it seeds the frontier, runs a worker
// pool that fetches and processes URLs, classifies discovered links
// under the scope policy, and records every URL's outcome in the
// ledger. All collaborator fields must be set before Run except where
// noted optional.
type Scheduler struct {
	Fetcher    docmill.Fetcher
	Renderer   docmill.Fetcher // optional; used instead of Fetcher when Render is set
	Extractor  docmill.Extractor
	Fallback   docmill.Extractor // optional; tried when Extractor yields nothing
	TOC        docmill.TOCExtractor
	Injector   docmill.HeadingInjector // optional
	Converter  docmill.Converter
	Selectors  docmill.LinkSelectorRegistry
	Sitemaps   docmill.SitemapService // optional; seeds from sitemaps when set
	Ledger     docmill.Ledger
	Pages      docmill.PageStore
	Policy     *docmill.ScopePolicy
	Normalizer *docmill.Normalizer
	Limiter    docmill.DomainLimiter
	Logger     *slog.Logger

	Workers      int
	RetryDelays  []time.Duration
	SkipStatuses []int
	ProbePaths   []string // optional; speculative paths pushed under each seed's origin
	Render       bool
	Resume       bool // preload ledger rows into the seen set; failed rows retry
}

// scanStats accumulates summary counters across workers.
type scanStats struct {
	mu      sync.Mutex
	summary docmill.Summary
}

func (s *scanStats) record(rec *docmill.URLRecord, markdownBytes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.Records++
	switch rec.Status {
	case docmill.StatusFetched:
		s.summary.Fetched++
		s.summary.Bytes += markdownBytes
	case docmill.StatusFailed:
		s.summary.Failed++
	case docmill.StatusSkipped:
		s.summary.Skipped++
	}
}

// Run executes a scan from the given seed URLs and blocks until the
// frontier drains, the context is canceled, or a ledger write fails.
// Cancellation drops in-flight URLs without ledger rows; everything
// already recorded stays valid for resumption.
func (s *Scheduler) Run(ctx context.Context, seeds []string) (*docmill.Summary, error) {
	if err := s.Policy.Validate(); err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return nil, docmill.Errorf(docmill.EINVALID, "at least one seed URL is required")
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	frontier := NewFrontier(s.Policy.MaxURLs)

	if s.Resume {
		if err := s.preloadLedger(ctx, frontier); err != nil {
			return nil, err
		}
	}

	if err := s.seed(ctx, frontier, seeds, logger); err != nil {
		return nil, err
	}

	stats := &scanStats{summary: docmill.Summary{ScanID: uuid.NewString()}}
	var haltOnce sync.Once
	var haltErr error
	halt := func(err error) {
		haltOnce.Do(func() {
			haltErr = err
			frontier.Close()
		})
	}

	workers := s.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	g, gctx := errgroup.WithContext(ctx)

	// Wake blocked workers when the context dies.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-gctx.Done():
			frontier.Close()
		case <-done:
		}
	}()

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				rec, ok := frontier.Pop()
				if !ok {
					return nil
				}
				s.process(gctx, frontier, rec, stats, halt, logger)
				frontier.Done()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return &stats.summary, err
	}
	if haltErr != nil {
		return &stats.summary, haltErr
	}
	if err := ctx.Err(); err != nil {
		return &stats.summary, err
	}
	return &stats.summary, nil
}

// preloadLedger marks every terminal ledger row as seen so a resumed
// scan never refetches it. Failed rows are left unmarked and get
// another chance.
func (s *Scheduler) preloadLedger(ctx context.Context, frontier *Frontier) error {
	records, err := s.Ledger.Load(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.Status == docmill.StatusFailed {
			continue
		}
		frontier.MarkSeen(rec.URL)
	}
	return nil
}

// seed normalizes and pushes the seed URLs, then any sitemap and probe
// candidates under each seed. Seeds enter at depth 0; probes at depth 1
// with fallback priority so organic discovery outranks speculation.
func (s *Scheduler) seed(ctx context.Context, frontier *Frontier, seeds []string, logger *slog.Logger) error {
	pushed := 0
	for _, seed := range seeds {
		norm, err := s.Normalizer.Normalize(seed)
		if err != nil {
			return err
		}
		class := s.Policy.ScopeClassFor(norm, s.Normalizer.Classify(norm))
		if s.Policy.Decide(norm, 0, class) == docmill.ActionSkip {
			return docmill.Errorf(docmill.EINVALID, "seed URL %q is out of scope", seed)
		}
		if frontier.Push(&docmill.URLRecord{
			URL:      norm,
			Depth:    0,
			Scope:    class,
			Status:   docmill.StatusPending,
			Priority: docmill.PriorityNavigation,
		}) {
			pushed++
		}

		if s.Sitemaps != nil {
			urls, err := s.Sitemaps.DiscoverURLs(ctx, norm)
			if err != nil {
				logger.Warn("sitemap discovery failed", "url", norm, "error", err)
			}
			pushed += s.pushCandidates(frontier, urls, norm, 0, docmill.PriorityContent)
		}
		if len(s.ProbePaths) > 0 {
			pushed += s.pushCandidates(frontier, ProbeCandidates(norm, s.ProbePaths), norm, 1, docmill.PriorityFallback)
		}
	}

	if pushed == 0 && !s.Resume {
		return docmill.Errorf(docmill.EINVALID, "no seed URL was admitted to the frontier")
	}
	return nil
}

// pushCandidates normalizes and scope-checks candidate URLs and pushes
// the admissible ones. Candidates skipped by policy are silently
// dropped; they were never discovered on a page, so no ledger row.
func (s *Scheduler) pushCandidates(frontier *Frontier, urls []string, parent string, depth int, priority docmill.LinkPriority) int {
	pushed := 0
	for _, raw := range urls {
		norm, err := s.Normalizer.Normalize(raw)
		if err != nil {
			continue
		}
		class := s.Policy.ScopeClassFor(norm, s.Normalizer.Classify(norm))
		if s.Policy.Decide(norm, depth, class) == docmill.ActionSkip {
			continue
		}
		if frontier.Push(&docmill.URLRecord{
			URL:       norm,
			ParentURL: parent,
			Depth:     depth,
			Scope:     class,
			Status:    docmill.StatusPending,
			Priority:  priority,
		}) {
			pushed++
		}
	}
	return pushed
}

// process drives one URL through fetch, discovery, and the content
// pipeline, then appends its terminal record to the ledger. A canceled
// context drops the record without a ledger row.
func (s *Scheduler) process(ctx context.Context, frontier *Frontier, rec *docmill.URLRecord, stats *scanStats, halt func(error), logger *slog.Logger) {
	if ctx.Err() != nil {
		return
	}

	rec.Status = docmill.StatusFetching
	if err := s.Limiter.Wait(ctx, docmill.Host(rec.URL)); err != nil {
		return
	}

	res, err := s.fetch(ctx, rec.URL, logger)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if res != nil {
			rec.HTTPCode = res.StatusCode
		}
		if res != nil && s.isSkipStatus(res.StatusCode) {
			rec.Status = docmill.StatusSkipped
			rec.Reason = docmill.ErrorMessage(err)
			logger.Info("skipped", "url", rec.URL, "status", res.StatusCode)
		} else {
			rec.Status = docmill.StatusFailed
			rec.Reason = docmill.ErrorMessage(err)
			logger.Warn("fetch failed", "url", rec.URL, "error", err)
		}
		s.finish(ctx, rec, stats, 0, halt, logger)
		return
	}

	rec.HTTPCode = res.StatusCode

	action := s.Policy.Decide(rec.URL, rec.Depth, rec.Scope)
	if action == docmill.ActionFetchRecurse {
		s.discover(ctx, frontier, rec, res.Body, stats, halt, logger)
	}

	markdownBytes, err := s.processContent(ctx, rec, res.Body, logger)
	if err != nil {
		rec.Status = docmill.StatusFailed
		rec.Reason = docmill.ErrorMessage(err)
		logger.Warn("pipeline failed", "url", rec.URL, "error", err)
		s.finish(ctx, rec, stats, 0, halt, logger)
		return
	}

	rec.Status = docmill.StatusFetched
	logger.Info("fetched", "url", rec.URL, "depth", rec.Depth, "bytes", markdownBytes)
	s.finish(ctx, rec, stats, markdownBytes, halt, logger)
}

// fetch retrieves a URL through the configured client, switching to the
// rendering client when enabled.
func (s *Scheduler) fetch(ctx context.Context, url string, logger *slog.Logger) (*docmill.FetchResult, error) {
	fetcher := s.Fetcher
	if s.Render && s.Renderer != nil {
		fetcher = s.Renderer
	}
	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetry(ctx, url, fetcher.Fetch, func(format string, args ...any) {
		logger.Debug("retrying fetch", "detail", format, "args", args)
	}, delays)
}

// discover extracts links from the fetched body and feeds the frontier.
// Out-of-scope links get a Skipped ledger row once; in-scope links are
// queued at depth+1 with the selector's priority. Links beyond the depth
// ceiling are dropped without a row: exhausting the ceiling is a normal
// termination condition, not a recordable outcome, and the URL may still
// be reached within depth via another parent.
func (s *Scheduler) discover(ctx context.Context, frontier *Frontier, parent *docmill.URLRecord, body string, stats *scanStats, halt func(error), logger *slog.Logger) {
	selector := s.Selectors.GetForHTML(body)
	links, err := selector.ExtractLinks(body, parent.URL)
	if err != nil {
		logger.Warn("link extraction failed", "url", parent.URL, "error", err)
		return
	}

	depth := parent.Depth + 1
	for _, link := range links {
		if link.Priority == docmill.PriorityIgnore {
			continue
		}
		norm, err := s.Normalizer.Normalize(link.URL)
		if err != nil {
			continue
		}
		class := s.Policy.ScopeClassFor(norm, s.Normalizer.Classify(norm))
		child := &docmill.URLRecord{
			URL:       norm,
			ParentURL: parent.URL,
			Depth:     depth,
			Scope:     class,
			Priority:  link.Priority,
		}

		switch s.Policy.Decide(norm, depth, class) {
		case docmill.ActionSkip:
			if s.Policy.MaxDepth >= 0 && depth > s.Policy.MaxDepth {
				continue
			}
			if frontier.MarkSeen(norm) {
				child.Status = docmill.StatusSkipped
				child.Reason = skipReason(norm, class, s.Policy)
				s.finish(ctx, child, stats, 0, halt, logger)
			}
		default:
			child.Status = docmill.StatusPending
			frontier.Push(child)
		}
	}
}

// processContent runs the content pipeline: extraction (with fallback),
// TOC extraction, heading injection, Markdown conversion, and page
// persistence. It returns the number of Markdown bytes written.
func (s *Scheduler) processContent(ctx context.Context, rec *docmill.URLRecord, body string, logger *slog.Logger) (int, error) {
	extracted, err := s.Extractor.Extract(body)
	if err != nil || strings.TrimSpace(extracted.ContentHTML) == "" {
		if s.Fallback == nil {
			if err != nil {
				return 0, err
			}
			return 0, docmill.Errorf(docmill.ENOTFOUND, "no main content found in %s", rec.URL)
		}
		logger.Debug("falling back to secondary extractor", "url", rec.URL)
		extracted, err = s.Fallback.Extract(body)
		if err != nil {
			return 0, err
		}
	}

	toc, err := s.TOC.ExtractTOC(extracted.ContentHTML)
	if err != nil {
		return 0, err
	}

	contentHTML := extracted.ContentHTML
	if s.Injector != nil && len(toc) > 0 {
		injected, err := s.Injector.InjectHeadings(contentHTML, toc)
		if err != nil {
			return 0, err
		}
		contentHTML = injected
	}

	markdown, err := s.Converter.Convert(contentHTML)
	if err != nil {
		return 0, err
	}

	page := &docmill.PageDocument{
		SourceURL:   rec.URL,
		Title:       extracted.Title,
		MainContent: contentHTML,
		TOC:         toc,
		Markdown:    markdown,
		ContentHash: ComputeHash(markdown),
		FetchedAt:   time.Now().UTC(),
	}
	if err := s.Pages.WritePage(ctx, page); err != nil {
		return 0, err
	}
	return len(markdown), nil
}

// finish appends the terminal record to the ledger and updates stats.
// A ledger failure invalidates resumability, so it halts the scan.
func (s *Scheduler) finish(ctx context.Context, rec *docmill.URLRecord, stats *scanStats, markdownBytes int, halt func(error), logger *slog.Logger) {
	if err := s.Ledger.Append(ctx, rec); err != nil {
		logger.Error("ledger append failed, halting scan", "url", rec.URL, "error", err)
		halt(docmill.Errorf(docmill.EINTERNAL, "ledger append for %s: %v", rec.URL, err))
		return
	}
	stats.record(rec, markdownBytes)
}

func (s *Scheduler) isSkipStatus(code int) bool {
	statuses := s.SkipStatuses
	if statuses == nil {
		statuses = DefaultSkipStatuses()
	}
	for _, c := range statuses {
		if c == code {
			return true
		}
	}
	return false
}

// skipReason explains why a discovered URL was ledgered as Skipped.
// Depth-ceiling drops never reach here; they get no ledger row.
func skipReason(url string, class docmill.ScopeClass, policy *docmill.ScopePolicy) string {
	switch {
	case policy.Exclusions.IsExcluded(url):
		return "matched exclusion rule"
	case class == docmill.ScopeBlocked:
		return "out of scope"
	default:
		return "not fetchable under scope policy"
	}
}

// ComputeHash returns the xxhash digest of content as a hex string.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
