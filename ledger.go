package docmill

import "context"

// Ledger is the append-only record of every URL encountered during a
// scan and its outcome. Append must be safe for concurrent use; a failed
// append invalidates resumability and callers are expected to halt the
// scan gracefully.
type Ledger interface {
	// Append writes one record. Records may arrive in any order;
	// the Seq field provides recoverable ordering.
	Append(ctx context.Context, rec *URLRecord) error

	// Load returns all previously written records, oldest first.
	// An empty ledger returns an empty slice.
	Load(ctx context.Context) ([]*URLRecord, error)

	// Close flushes and releases the underlying resource.
	Close() error
}

// PageStore persists per-page Markdown artifacts: one directory per page
// containing the content file and the TOC file. Implementations must
// tolerate concurrent writers for distinct pages.
type PageStore interface {
	WritePage(ctx context.Context, page *PageDocument) error
}
