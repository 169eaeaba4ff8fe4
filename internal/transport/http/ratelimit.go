package http

import (
	"sync/atomic"
	"time"
)

// rateLimiter caps how many inbound messages one connection may send per
// minute. A zero limit disables it.
type rateLimiter struct {
	limit   int64
	counter atomic.Int64
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{limit: int64(limit)}
}

func (r *rateLimiter) allow() bool {
	if r.limit <= 0 {
		return true
	}
	return r.counter.Add(1) <= r.limit
}

// startReset clears the window counter every minute until stop closes.
func (r *rateLimiter) startReset(stop <-chan struct{}) {
	if r.limit <= 0 {
		return
	}
	ticker := time.NewTicker(time.Minute)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.counter.Store(0)
			case <-stop:
				return
			}
		}
	}()
}
