package docmill

// Status is the fetch lifecycle state of a URL record.
type Status string

// Record statuses. Pending records live in the frontier; Fetching is a
// transient worker-owned state; the other three are terminal and become
// ledger rows.
const (
	StatusPending  Status = "pending"
	StatusFetching Status = "fetching"
	StatusFetched  Status = "fetched"
	StatusFailed   Status = "failed"
	StatusSkipped  Status = "skipped"
)

// URLRecord is the unit of crawl bookkeeping: one row per canonical URL
// ever discovered. A record is created on discovery, mutated only by the
// scheduler worker that owns it, and never deleted; it ends up as a
// ledger row.
type URLRecord struct {
	URL       string
	ParentURL string // empty for seeds
	Depth     int
	Seq       int64 // monotonic discovery order, assigned by the frontier
	Scope     ScopeClass
	Status    Status
	HTTPCode  int
	Reason    string // failure or skip reason, empty otherwise
	Priority  LinkPriority
}

// Summary reports the outcome of a scan run.
type Summary struct {
	ScanID  string
	Records int // total ledger rows written
	Fetched int
	Failed  int
	Skipped int
	Bytes   int // markdown bytes written
}
