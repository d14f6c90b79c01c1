package notion

import (
	"context"

	"golang.org/x/time/rate"
)

// Rate limit configuration for the Notion API, which allows an average of
// three requests per second per integration.
const (
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond = 3.0
	// BurstSize is the maximum burst size.
	BurstSize = 3
)

// RateLimiter provides rate limiting for Notion API requests.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a new rate limiter for Notion.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(RequestsPerSecond), BurstSize),
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
