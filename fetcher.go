package docmill

import "context"

// FetchResult is the outcome of a single HTTP fetch.
type FetchResult struct {
	StatusCode int
	Body       string
}

// Fetcher retrieves page bodies from URLs. Implementations enforce a
// per-request timeout; rate limiting is a scheduler concern, never the
// client's. A non-success status returns both a result (carrying the
// status code) and an EBADSTATUS error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases client resources.
	Close() error
}
