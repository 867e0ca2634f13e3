package source

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttler enforces a minimum wall-clock interval between successive
// outbound requests from one adapter instance. It is a single-slot gate
// (burst 1), not a token bucket: each Wait blocks until the interval since
// the previous release has elapsed. Throttlers are per-adapter; sibling
// adapters do not share one.
type Throttler struct {
	limiter *rate.Limiter
}

// NewThrottler creates a throttler with the given minimum interval between
// requests. A non-positive interval yields a no-op throttler.
func NewThrottler(interval time.Duration) *Throttler {
	if interval <= 0 {
		return &Throttler{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Throttler{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the minimum interval has elapsed since the last request,
// or the context is canceled.
func (t *Throttler) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
