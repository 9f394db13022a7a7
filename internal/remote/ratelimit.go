package remote

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces Drive API requests with a token bucket and honors
// backoff hints after rate-limited responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a limiter allowing rps sustained requests per second
// with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		rps = 8.0
	}
	if burst <= 0 {
		burst = 10
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a request may be issued, respecting both the token
// bucket and any backoff period recorded after a 429 response.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if until := time.Until(retryAt); until > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(until):
		}
	}

	return r.limiter.Wait(ctx)
}

// Backoff records a pause after a rate-limited response.
func (r *RateLimiter) Backoff(seconds int) {
	if seconds <= 0 {
		return
	}
	r.mu.Lock()
	r.retryAt = time.Now().Add(time.Duration(seconds) * time.Second)
	r.mu.Unlock()
}
