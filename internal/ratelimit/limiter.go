// Package ratelimit throttles the I/O pool to a fixed number of loads per
// second.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces item loads. A nil *Limiter, or one with a zero rate, never
// blocks. Safe for concurrent use by every I/O worker.
type Limiter struct {
	limiter *rate.Limiter
}

// New returns a Limiter allowing perSecond loads per second. The burst is a
// single token, so loads are spaced evenly instead of arriving in bursts.
func New(perSecond int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Wait blocks until the next load may start or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter.Limit() <= 0 {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Rate returns the loads per second, zero when unlimited.
func (l *Limiter) Rate() int {
	if l == nil {
		return 0
	}
	return int(l.limiter.Limit())
}
