package mock

import (
	"context"

	"github.com/docmill/docmill"
)

var _ docmill.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docmill.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*docmill.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*docmill.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
