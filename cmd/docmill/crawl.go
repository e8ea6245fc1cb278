package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/docmill/docmill"
	"github.com/docmill/docmill/crawl"
	"github.com/docmill/docmill/fs"
	"github.com/docmill/docmill/goquery"
	"github.com/docmill/docmill/htmltomarkdown"
	dochttp "github.com/docmill/docmill/http"
	"github.com/docmill/docmill/rod"
	dslog "github.com/docmill/docmill/slog"
	"github.com/docmill/docmill/sqlite"
	"github.com/docmill/docmill/trafilatura"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	policy := &docmill.ScopePolicy{
		Mode:       docmill.ScopeMode(c.Mode),
		Whitelist:  docmill.DomainSet(c.Whitelist),
		Blacklist:  docmill.DomainSet(c.Blacklist),
		MaxDepth:   c.MaxDepth,
		MaxURLs:    c.MaxURLs,
		Exclusions: docmill.NewExclusionRules(c.ExcludeExt, c.ExcludePath),
	}
	if err := policy.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docmill.ErrorMessage(err))
		return err
	}

	if len(c.URLs) == 0 {
		return docmill.Errorf(docmill.EINVALID, "at least one seed URL is required")
	}
	normalizer, err := docmill.NewNormalizer(c.URLs[0], c.StripParam)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docmill.ErrorMessage(err))
		return err
	}

	extractor, err := goquery.NewExtractor(docmill.FilterConfig{
		MergeMode:           docmill.MergeMode(c.MergeMode),
		NonContentSelectors: c.Remove,
		PreserveSelectors:   c.Preserve,
		FuzzyKeywords:       c.Fuzzy,
		EndMarkers:          c.EndMarker,
		Preset:              docmill.Framework(c.Preset),
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docmill.ErrorMessage(err))
		return err
	}

	if err := os.MkdirAll(c.Out, 0o755); err != nil {
		return err
	}

	ledger, err := c.openLedger()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to open ledger: %v\n", err)
		return err
	}
	defer ledger.Close()

	opts := []dochttp.Option{dochttp.WithTimeout(c.Timeout)}
	if c.Proxy != "" {
		opts = append(opts, dochttp.WithProxy(c.Proxy))
	}
	if c.UserAgent != "" {
		opts = append(opts, dochttp.WithUserAgent(c.UserAgent))
	}
	httpFetcher, err := dochttp.NewFetcher(opts...)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docmill.ErrorMessage(err))
		return err
	}
	fetcher := docmill.Fetcher(dslog.NewLoggingFetcher(httpFetcher, deps.Logger))
	defer fetcher.Close()

	var renderer docmill.Fetcher
	if c.Render {
		rodFetcher, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed for --render")
			return err
		}
		renderer = dslog.NewLoggingFetcher(rodFetcher, deps.Logger)
		defer renderer.Close()
	}

	var sitemaps docmill.SitemapService
	if c.Sitemap {
		sitemaps = dslog.NewLoggingSitemapService(dochttp.NewSitemapService(nil), deps.Logger)
	}

	var probePaths []string
	if c.Probe {
		probePaths = crawl.DefaultProbePaths()
	}

	scheduler := &crawl.Scheduler{
		Fetcher:      fetcher,
		Renderer:     renderer,
		Extractor:    extractor,
		Fallback:     trafilatura.NewExtractor(),
		TOC:          goquery.NewTOCExtractor(),
		Injector:     goquery.NewInjector(),
		Converter:    htmltomarkdown.NewConverter(),
		Selectors:    dslog.NewLoggingRegistry(goquery.NewDefaultRegistry(), goquery.NewDetector(), deps.Logger),
		Sitemaps:     sitemaps,
		Ledger:       ledger,
		Pages:        fs.NewPageStore(c.Out),
		Policy:       policy,
		Normalizer:   normalizer,
		Limiter:      crawl.NewDomainLimiter(c.Rate).WithGlobalRate(c.GlobalRate),
		Logger:       deps.Logger,
		Workers:      c.Workers,
		SkipStatuses: c.SkipStatus,
		ProbePaths:   probePaths,
		Render:       c.Render,
		Resume:       !c.ForceRefresh,
	}

	summary, err := scheduler.Run(deps.Ctx, c.URLs)
	if summary != nil {
		fmt.Fprintf(deps.Stdout, "scan %s: %d records (%d fetched, %d skipped, %d failed), %s written to %s\n",
			summary.ScanID, summary.Records, summary.Fetched, summary.Skipped, summary.Failed,
			crawl.FormatBytes(summary.Bytes), c.Out)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docmill.ErrorMessage(err))
		return err
	}
	return nil
}

// openLedger opens the SQLite ledger when --ledger-db is set, the CSV
// ledger otherwise.
func (c *CrawlCmd) openLedger() (docmill.Ledger, error) {
	if c.LedgerDB != "" {
		return sqlite.OpenLedger(c.LedgerDB)
	}
	path := c.Ledger
	if path == "" {
		path = filepath.Join(c.Out, "ledger.csv")
	}
	return fs.OpenLedger(path)
}
