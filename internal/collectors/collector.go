// Package collectors fetches raw smart-money activity from upstream
// providers (Congress disclosures, ARK daily trades, FINRA dark-pool
// volume, SEC 13F filings, Form 4 insider filings, short interest,
// superinvestor trackers) and normalizes it into domain records.
package collectors

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/aristath/smartmoney/internal/apperrors"
)

// Collector fetches and normalizes one source's activity for the given
// context. Implementations return a apperrors category error so the
// refresh pipeline can decide whether to retry, skip, or abort.
type Collector interface {
	Name() string
	Collect(ctx context.Context) (interface{}, error)
}

const (
	maxFetchAttempts  = 3
	baseBackoff       = 2 * time.Second
	maxRateLimitWait  = 60 * time.Second
)

// Resilience wraps a provider call with a token-bucket rate limiter and
// a circuit breaker, grounding the retry/backoff policy the error
// taxonomy describes.
type Resilience struct {
	name    string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewResilience builds a Resilience guard for one provider. rps/burst
// configure the limiter; the breaker trips after 3 consecutive failures
// or a >5% failure rate over at least 20 requests.
func NewResilience(name string, rps float64, burst int, log zerolog.Logger) *Resilience {
	settings := gobreaker.Settings{
		Name:     name,
		Interval: 60 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 3 {
				return true
			}
			if counts.Requests < 20 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) > 0.05
		},
	}

	return &Resilience{
		name:    name,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log.With().Str("component", "collectors.Resilience").Str("source", name).Logger(),
	}
}

// Do runs fn under the rate limiter and circuit breaker, retrying
// FetchFailure and RateLimited errors with the error taxonomy's backoff
// policy. AuthFailure and any other error type are returned immediately
// without retry.
func (r *Resilience) Do(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	var lastErr error

	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		result, err := r.breaker.Execute(func() (interface{}, error) {
			return fn(ctx)
		})
		if err == nil {
			return result, nil
		}
		lastErr = err

		wait, retryable := backoffFor(err, attempt)
		if !retryable {
			return nil, err
		}

		r.log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("retrying after transient failure")

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// backoffFor classifies err and returns how long to wait before the
// next attempt, and whether the error is retryable at all.
func backoffFor(err error, attempt int) (time.Duration, bool) {
	var fetchErr *apperrors.FetchFailure
	if errors.As(err, &fetchErr) {
		wait := baseBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
		return wait, attempt < maxFetchAttempts
	}

	var rateErr *apperrors.RateLimited
	if errors.As(err, &rateErr) {
		if rateErr.RetryAfter > 0 {
			wait := time.Duration(rateErr.RetryAfter) * time.Second
			if wait > maxRateLimitWait {
				wait = maxRateLimitWait
			}
			return wait, attempt < maxFetchAttempts
		}
		wait := time.Duration(attempt) * 10 * time.Second
		if wait > maxRateLimitWait {
			wait = maxRateLimitWait
		}
		return wait, attempt < maxFetchAttempts
	}

	return 0, false
}
