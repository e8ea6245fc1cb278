// Package http provides the HTTP implementations of docmill.Fetcher and
// docmill.SitemapService for static sites that don't require JavaScript
// rendering.
package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/docmill/docmill"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodyBytes caps response bodies at 10 MiB. Documentation
// pages beyond that are almost certainly not documentation pages.
const DefaultMaxBodyBytes = 10 << 20

// DefaultUserAgent identifies the crawler to servers.
const DefaultUserAgent = "docmill/1.0 (+https://github.com/docmill/docmill)"

var _ docmill.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves page bodies over plain HTTP. It does not execute
// JavaScript; rendered sites need the rod-based fetcher. Errors carry
// domain codes: ETIMEOUT for deadline expiry, EUNAVAILABLE for
// connection failures, EBADSTATUS for non-2xx responses (with the
// result still returned so the caller sees the status code), and
// ETOOLARGE for oversized bodies.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	proxyURL  string
	headers   map[string]string
	userAgent string
	maxBody   int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout. Defaults to
// DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithProxy routes requests through the given proxy URL.
func WithProxy(proxyURL string) Option {
	return func(f *Fetcher) {
		f.proxyURL = proxyURL
	}
}

// WithHeaders adds custom headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithUserAgent overrides the default User-Agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodyBytes caps the response body size. Defaults to
// DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBody = n
	}
}

// NewFetcher creates an HTTP Fetcher. An invalid proxy URL returns an
// EINVALID error.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		maxBody:   DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if f.proxyURL != "" {
		proxy, err := url.Parse(f.proxyURL)
		if err != nil {
			return nil, docmill.Errorf(docmill.EINVALID, "invalid proxy URL %q: %v", f.proxyURL, err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	f.client = &http.Client{
		Timeout:   f.timeout,
		Transport: transport,
	}
	return f, nil
}

// Fetch retrieves the body at url. A non-2xx response returns both the
// result and an EBADSTATUS error so callers can inspect the code.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*docmill.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, docmill.Errorf(docmill.EINVALID, "invalid request for %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, classifyTransportError(url, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, docmill.Errorf(docmill.ETOOLARGE, "response body for %s exceeds %d bytes", url, f.maxBody)
	}

	result := &docmill.FetchResult{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return result, docmill.Errorf(docmill.EBADSTATUS, "HTTP %d for %s", resp.StatusCode, url)
	}
	return result, nil
}

// Close releases resources. A no-op for the HTTP client.
func (f *Fetcher) Close() error {
	return nil
}

// classifyTransportError maps transport failures onto domain codes so
// the retry policy can distinguish transient from permanent errors.
func classifyTransportError(url string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return docmill.Errorf(docmill.ETIMEOUT, "request to %s timed out: %v", url, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return docmill.Errorf(docmill.ETIMEOUT, "request to %s timed out: %v", url, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return docmill.Errorf(docmill.EUNAVAILABLE, "request to %s failed: %v", url, err)
	}
}
