package rate

import (
	"context"

	"golang.org/x/time/rate"
)

// Config holds pacing tuning parameters.
type Config struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// Limiter wraps a token bucket. A nil Limiter admits everything.
type Limiter struct {
	bucket *rate.Limiter
}

// New returns a Limiter, or nil when pacing is disabled or misconfigured to
// zero throughput.
func New(cfg Config) *Limiter {
	if !cfg.Enabled || cfg.RequestsPerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		bucket: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
	}
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.bucket.Wait(ctx)
}
