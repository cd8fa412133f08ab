// Package actor provides per-actor request throttling for the tool
// surface. A language-model-driven caller can emit bursts of tool
// calls; the limiter keeps one misbehaving session from starving the
// rest of the tenant.
package actor

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/eventra-io/eventra/internal/identity"
)

// Limiter tracks one token bucket per acting identity. Limiters are
// created lazily on first use and never expire; the key space is
// bounded by the authenticated actor population.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      int
}

// NewLimiter creates a per-actor limiter allowing rps requests per
// second with a burst of two seconds' worth. rps <= 0 disables
// limiting.
func NewLimiter(rps int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Allow reports whether the actor may proceed now.
func (l *Limiter) Allow(id identity.Identity) bool {
	if l.rps <= 0 {
		return true
	}
	l.mu.Lock()
	lim, ok := l.limiters[id.String()]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(l.rps), l.rps*2)
		l.limiters[id.String()] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
