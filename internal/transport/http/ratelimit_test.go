package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterCapsWindow(t *testing.T) {
	limiter := newRateLimiter(3)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.allow(), "message %d within the window", i)
	}
	assert.False(t, limiter.allow())

	limiter.counter.Store(0)
	assert.True(t, limiter.allow(), "fresh window admits again")
}

func TestRateLimiterZeroDisables(t *testing.T) {
	limiter := newRateLimiter(0)
	for i := 0; i < 1000; i++ {
		assert.True(t, limiter.allow())
	}
}
