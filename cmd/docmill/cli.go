package main

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Dependencies holds shared state for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl   CrawlCmd   `cmd:"" help:"Crawl a documentation site into per-page Markdown"`
	Presets PresetsCmd `cmd:"" help:"List built-in framework filter presets"`
	Verbose bool       `short:"v" help:"Enable debug logging"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URLs []string `arg:"" name:"url" help:"Seed URL(s) to crawl"`

	Out string `short:"o" default:"docs-out" help:"Output directory"`

	// Scope
	Mode      string   `default:"main-domain" enum:"main-domain,external-once,unbounded,whitelist" help:"Scope mode"`
	MaxDepth  int      `default:"5" help:"Maximum crawl depth (negative for unlimited)"`
	MaxURLs   int      `default:"1000" help:"Maximum URL records (0 for unlimited)"`
	Whitelist []string `help:"Whitelisted domains (whitelist mode; admits subdomains)"`
	Blacklist []string `help:"Domains never fetched"`

	// Exclusions
	ExcludeExt  []string `name:"exclude-ext" default:"pdf,zip,tar,gz,png,jpg,jpeg,gif,svg,ico,mp4,webm,css,js" help:"File extensions to skip"`
	ExcludePath []string `name:"exclude-path" help:"Path substrings to skip"`
	StripParam  []string `name:"strip-param" default:"utm_source,utm_medium,utm_campaign,utm_term,utm_content,gclid,fbclid" help:"Query parameters stripped during URL canonicalization"`

	// Fetching
	Workers    int           `short:"c" default:"8" help:"Concurrent fetch workers"`
	Timeout    time.Duration `default:"10s" help:"Per-request timeout"`
	Proxy      string        `help:"Proxy URL for all requests"`
	UserAgent  string        `name:"user-agent" help:"Override the default User-Agent"`
	Rate       float64       `default:"1.0" help:"Requests per second per domain"`
	GlobalRate float64       `name:"global-rate" help:"Requests per second across all domains (0 disables)"`
	SkipStatus []int         `name:"skip-status" default:"403,404,410,500" help:"HTTP statuses recorded as skipped, not failed"`
	Render     bool          `help:"Render pages in headless Chrome (JavaScript-heavy sites)"`

	// Discovery
	Sitemap bool `default:"true" negatable:"" help:"Seed from the site's sitemap"`
	Probe   bool `help:"Probe well-known documentation paths under each seed"`

	// Content filtering
	Preset    string   `help:"Framework filter preset (docusaurus, mkdocs, sphinx, vuepress, vitepress, gitbook, nextra)"`
	Remove    []string `help:"Extra CSS selectors removed from pages"`
	Preserve  []string `help:"CSS selectors whose subtrees survive removal"`
	Fuzzy     []string `help:"Fuzzy class/id keywords removed from pages"`
	EndMarker []string `name:"end-marker" help:"Text markers; page content after a match is discarded"`
	MergeMode string   `name:"merge-mode" default:"extend" enum:"extend,replace" help:"How user rules combine with defaults and preset"`

	// Persistence
	Ledger       string `help:"CSV ledger path (default <out>/ledger.csv)"`
	LedgerDB     string `name:"ledger-db" help:"Use a SQLite ledger at this path instead of CSV"`
	ForceRefresh bool   `name:"force-refresh" help:"Refetch URLs already recorded in the ledger"`
}

// PresetsCmd is the "presets" subcommand.
type PresetsCmd struct{}
