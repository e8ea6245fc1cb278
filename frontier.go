package docmill

import "context"

// URLFrontier manages the crawl queue: deduplication, the record-count
// ceiling, and blocking hand-off to workers.
type URLFrontier interface {
	// Push adds a record to the queue. It returns false when the URL was
	// already seen, the record ceiling is reached, or the frontier is
	// closed. The seen-check and insert are atomic.
	Push(rec *URLRecord) bool

	// MarkSeen records a URL as seen (and counted) without queueing it.
	// Used for records that go straight to the ledger as Skipped.
	// Returns false if the URL was already seen or the ceiling is hit.
	MarkSeen(url string) bool

	// Pop blocks until a record is available. It returns false when the
	// frontier is closed, or when the queue is empty and no worker holds
	// outstanding work, which terminates the scan.
	Pop() (*URLRecord, bool)

	// Done signals that the record obtained from Pop has been fully
	// processed, including any child enqueues.
	Done()

	// Close stops intake and wakes all blocked workers. In-flight work
	// drains; queued records are abandoned.
	Close()

	// Seen reports whether a URL has been queued or recorded.
	Seen(url string) bool

	// Len returns the number of queued records.
	Len() int

	// Created returns the total number of records counted toward the
	// ceiling.
	Created() int
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
