package mock

import (
	"context"

	"github.com/docmill/docmill"
)

var _ docmill.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of docmill.URLFrontier.
type URLFrontier struct {
	PushFn     func(rec *docmill.URLRecord) bool
	MarkSeenFn func(url string) bool
	PopFn      func() (*docmill.URLRecord, bool)
	DoneFn     func()
	CloseFn    func()
	SeenFn     func(url string) bool
	LenFn      func() int
	CreatedFn  func() int
}

func (f *URLFrontier) Push(rec *docmill.URLRecord) bool {
	return f.PushFn(rec)
}

func (f *URLFrontier) MarkSeen(url string) bool {
	return f.MarkSeenFn(url)
}

func (f *URLFrontier) Pop() (*docmill.URLRecord, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Done() {
	if f.DoneFn != nil {
		f.DoneFn()
	}
}

func (f *URLFrontier) Close() {
	if f.CloseFn != nil {
		f.CloseFn()
	}
}

func (f *URLFrontier) Seen(url string) bool {
	return f.SeenFn(url)
}

func (f *URLFrontier) Len() int {
	if f.LenFn == nil {
		return 0
	}
	return f.LenFn()
}

func (f *URLFrontier) Created() int {
	if f.CreatedFn == nil {
		return 0
	}
	return f.CreatedFn()
}

var _ docmill.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of docmill.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, domain)
}
