package mock

import (
	"context"

	"github.com/docmill/docmill"
)

var _ docmill.Ledger = (*Ledger)(nil)

// Ledger is a mock implementation of docmill.Ledger.
type Ledger struct {
	AppendFn func(ctx context.Context, rec *docmill.URLRecord) error
	LoadFn   func(ctx context.Context) ([]*docmill.URLRecord, error)
	CloseFn  func() error
}

func (l *Ledger) Append(ctx context.Context, rec *docmill.URLRecord) error {
	return l.AppendFn(ctx, rec)
}

func (l *Ledger) Load(ctx context.Context) ([]*docmill.URLRecord, error) {
	if l.LoadFn == nil {
		return []*docmill.URLRecord{}, nil
	}
	return l.LoadFn(ctx)
}

func (l *Ledger) Close() error {
	if l.CloseFn == nil {
		return nil
	}
	return l.CloseFn()
}

var _ docmill.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of docmill.PageStore.
type PageStore struct {
	WritePageFn func(ctx context.Context, page *docmill.PageDocument) error
}

func (s *PageStore) WritePage(ctx context.Context, page *docmill.PageDocument) error {
	return s.WritePageFn(ctx, page)
}
