package crawl

import (
	"context"
	"sync"

	"github.com/docmill/docmill"
	"golang.org/x/time/rate"
)

var _ docmill.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-domain rate limiting using token buckets.
// Each domain gets its own limiter, so workers hitting different domains
// never gate each other. An optional global limiter, when configured,
// additionally gates all workers through one shared bucket.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	global   *rate.Limiter
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per
// second per domain with a burst of 1 (no bursting).
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// WithGlobalRate adds a shared token bucket across all domains. Zero or
// negative disables the global gate.
func (d *DomainLimiter) WithGlobalRate(rps float64) *DomainLimiter {
	if rps > 0 {
		d.global = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return d
}

// Wait blocks until both the domain's bucket and the global bucket (if
// configured) allow a request. Returns an error if the context is
// canceled first.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	global := d.global
	d.mu.Unlock()

	if global != nil {
		if err := global.Wait(ctx); err != nil {
			return err
		}
	}
	return limiter.Wait(ctx)
}
