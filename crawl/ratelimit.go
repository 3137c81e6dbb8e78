package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/siteport"
	"golang.org/x/time/rate"
)

var _ siteport.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out page fetches to the same marketing site so a
// harvest honors the config's requestsPerSecond. Hosts are throttled
// independently; a zero rate turns throttling off.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter // by host
	limit    rate.Limit
}

// NewDomainLimiter returns a DomainLimiter for the given requests per
// second.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait holds the harvest loop until host may be fetched again.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[host] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
