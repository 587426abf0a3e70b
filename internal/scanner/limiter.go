package scanner

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter spaces probes out to avoid tripping API-side throttling or
// abuse detection. Workers block on Wait before every probe. This is a
// politeness mechanism shared by the whole pool, not an optimization.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// NewTokenBucket returns a limiter that releases one probe per interval
// with the given burst. A non-positive interval means unlimited.
func NewTokenBucket(interval time.Duration, burst int) RateLimiter {
	if interval <= 0 {
		return Unlimited()
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(interval), burst)
}

// Unlimited returns a limiter that never blocks. Tests substitute it for
// the token bucket so timing behavior stays virtual.
func Unlimited() RateLimiter {
	return nopLimiter{}
}

type nopLimiter struct{}

func (nopLimiter) Wait(ctx context.Context) error { return ctx.Err() }
