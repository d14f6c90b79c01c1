package dropbox

import (
	"context"

	"golang.org/x/time/rate"
)

// Rate limit configuration for the Dropbox API. Dropbox allows roughly
// 150-200 calls per minute; these limits stay comfortably under that.
const (
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond = 5.0
	// BurstSize is the maximum burst size.
	BurstSize = 10
)

// RateLimiter provides rate limiting for Dropbox API requests.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a new rate limiter for Dropbox.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(RequestsPerSecond), BurstSize),
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
