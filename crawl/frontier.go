package crawl

import (
	"container/heap"
	"sync"

	"github.com/docmill/docmill"
	"github.com/docmill/docmill/bloom"
)

// Frontier sizing defaults.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// Compile-time interface verification.
var _ docmill.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory crawl queue with deduplication, a
// record-count ceiling, and blocking Pop semantics. Records pop by
// link priority; equal priorities pop in discovery order.
//
// Dedup pairs a Bloom filter with an exact set: the filter gives a
// cheap negative fast path, and the set confirms positives so a filter
// false positive never drops a new URL. Both live under one mutex with
// the queue and the record counter, so the seen-check, the ceiling
// check, and the insert are a single atomic step. Nothing else in the
// scheduler shares this lock.
type Frontier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	seen    *bloom.Filter
	exact   map[string]struct{}
	queue   recordHeap
	seq     int64
	pending int // queued + in-flight records
	created int // records counted toward the ceiling
	max     int // ceiling on created; <=0 means unlimited
	closed  bool
}

// NewFrontier creates a Frontier. maxRecords caps the total number of
// records ever created (queued or ledgered); zero or negative means
// unlimited.
func NewFrontier(maxRecords int) *Frontier {
	f := &Frontier{
		seen:  bloom.NewFilter(frontierExpectedURLs, frontierFalsePositiveRate),
		exact: make(map[string]struct{}),
		max:   maxRecords,
	}
	f.cond = sync.NewCond(&f.mu)
	heap.Init(&f.queue)
	return f
}

// Push adds a record to the queue. Returns false for duplicates, when
// the ceiling is reached, or after Close.
func (f *Frontier) Push(rec *docmill.URLRecord) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.admit(rec.URL) {
		return false
	}

	rec.Seq = f.seq
	f.seq++
	heap.Push(&f.queue, rec)
	f.pending++
	f.cond.Signal()
	return true
}

// MarkSeen records a URL as seen and counted without queueing it.
func (f *Frontier) MarkSeen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.admit(url)
}

// admit performs the atomic seen-check + ceiling-check + insert.
// A Bloom hit alone is not a rejection; only the exact set decides.
// Callers must hold f.mu.
func (f *Frontier) admit(url string) bool {
	if f.closed {
		return false
	}
	if f.seen.Test(url) {
		if _, ok := f.exact[url]; ok {
			return false
		}
	}
	if f.max > 0 && f.created >= f.max {
		return false
	}
	f.seen.Add(url)
	f.exact[url] = struct{}{}
	f.created++
	return true
}

// Pop blocks until a record is available. It returns false when the
// frontier is closed, or when the queue is empty and no record is in
// flight, which is the scan's natural termination condition.
func (f *Frontier) Pop() (*docmill.URLRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		if f.closed {
			return nil, false
		}
		if f.queue.Len() > 0 {
			rec := heap.Pop(&f.queue).(*docmill.URLRecord)
			return rec, true
		}
		if f.pending == 0 {
			return nil, false
		}
		f.cond.Wait()
	}
}

// Done marks one popped record as fully processed. When the last
// outstanding record completes with an empty queue, all blocked workers
// wake and the scan terminates.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending > 0 {
		f.pending--
	}
	if f.pending == 0 && f.queue.Len() == 0 {
		f.cond.Broadcast()
	}
}

// Close stops intake and wakes all blocked workers. Queued records are
// abandoned; in-flight work drains in the workers.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.cond.Broadcast()
}

// Seen reports whether a URL has been queued or recorded.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.exact[url]
	return ok
}

// Len returns the number of queued records.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Created returns the total number of records counted toward the ceiling.
func (f *Frontier) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

// recordHeap implements heap.Interface over URL records: higher priority
// first, then lower sequence (discovery order) first.
type recordHeap []*docmill.URLRecord

func (h recordHeap) Len() int { return len(h) }

func (h recordHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}
	return h[i].Seq < h[j].Seq
}

func (h recordHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *recordHeap) Push(x any) {
	rec, _ := x.(*docmill.URLRecord)
	*h = append(*h, rec)
}

func (h *recordHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}
