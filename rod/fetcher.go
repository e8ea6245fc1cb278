// Package rod provides a docmill.Fetcher that renders pages in headless
// Chrome, for JavaScript-heavy documentation sites where the static
// HTTP fetcher sees an empty shell.
package rod

import (
	"context"

	"github.com/docmill/docmill"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var _ docmill.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser *rod.Browser
}

// NewFetcher launches a headless Chrome browser. Close must be called
// when the Fetcher is no longer needed. Returns EUNAVAILABLE when
// Chrome/Chromium cannot be found or launched.
func NewFetcher() (*Fetcher, error) {
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, docmill.Errorf(docmill.EUNAVAILABLE, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, docmill.Errorf(docmill.EUNAVAILABLE, "connecting to browser: %v", err)
	}

	return &Fetcher{browser: browser}, nil
}

// Fetch navigates to the URL and returns the rendered HTML. The browser
// follows redirects and swallows HTTP status, so a successful render
// always reports 200; sites needing status-based skip handling should
// use the plain HTTP fetcher.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*docmill.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, docmill.Errorf(docmill.EUNAVAILABLE, "creating page: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, docmill.Errorf(docmill.EUNAVAILABLE, "navigating to %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, docmill.Errorf(docmill.ETIMEOUT, "waiting for %s to load: %v", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, docmill.Errorf(docmill.EINTERNAL, "reading rendered HTML for %s: %v", url, err)
	}

	return &docmill.FetchResult{StatusCode: 200, Body: html}, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.browser.Close()
}
