// Package ratelimit implements fixed-window request counters keyed by an arbitrary
// identity (client IP for uploads). Counters live in redis so every API instance
// shares the same window; an in-memory variant serves single-node deployments and tests.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts hits against a key within the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

func decide(limit int, count int64, resetIn time.Duration) Decision {
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	d := Decision{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: remaining,
	}
	if !d.Allowed {
		if resetIn < 0 {
			resetIn = 0
		}
		d.RetryAfter = resetIn
	}
	return d
}
