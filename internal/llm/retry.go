package llm

import (
	"context"
	"time"

	"github.com/njprem/TripWise_APP_BackEnd/internal/logging"
	"github.com/njprem/TripWise_APP_BackEnd/internal/metrics"
)

const (
	rateLimitBaseDelay = time.Second
	quotaBaseDelay     = 2 * time.Second
)

type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// backoffDelay is the wait before retry number attempt+1. Rate limits start
// at 1s and quota errors at 2s, both doubling per attempt. Timeouts and
// network failures retry without waiting.
func backoffDelay(kind ErrorKind, attempt int) time.Duration {
	switch kind {
	case KindRateLimited:
		return rateLimitBaseDelay << attempt
	case KindQuotaExceeded:
		return quotaBaseDelay << attempt
	}
	return 0
}

// retrier runs one logical generation: up to retries+1 attempts, each bounded
// by its own timeout.
type retrier struct {
	provider string
	timeout  time.Duration
	sleep    sleepFunc
}

func (r retrier) do(ctx context.Context, retries int, call func(ctx context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return "", lastErr
			}
			return "", err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		start := time.Now()
		text, err := call(attemptCtx)
		cancel()
		metrics.ObserveProviderCall(r.provider, time.Since(start), err)
		if err == nil {
			return text, nil
		}

		lastErr = err
		kind := KindOf(err)
		if !kind.Transient() || attempt == retries {
			break
		}

		delay := backoffDelay(kind, attempt)
		metrics.ProviderRetriesTotal.WithLabelValues(r.provider, string(kind)).Inc()
		logging.Warn().
			Str("provider", r.provider).
			Str("kind", string(kind)).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Err(err).
			Msg("llm call failed, retrying")

		if delay > 0 {
			if err := r.sleep(ctx, delay); err != nil {
				return "", lastErr
			}
		}
	}
	return "", lastErr
}
