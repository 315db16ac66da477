package llm

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/njprem/TripWise_APP_BackEnd/internal/logging"
	"github.com/njprem/TripWise_APP_BackEnd/internal/metrics"
)

type BreakerSettings struct {
	// ConsecutiveFailures opens the circuit once reached.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the circuit stays open before a trial call.
	OpenTimeout time.Duration
	// HalfOpenRequests bounds concurrent trial calls.
	HalfOpenRequests uint32
}

func (s BreakerSettings) withDefaults() BreakerSettings {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = time.Minute
	}
	if s.HalfOpenRequests == 0 {
		s.HalfOpenRequests = 1
	}
	return s
}

// BreakerProvider wraps a Provider with a circuit breaker so that a provider
// that keeps failing is skipped until it has had time to recover. Only
// logical generations count; the retries inside one Generate call are a
// single request from the breaker's point of view.
type BreakerProvider struct {
	next Provider
	cb   *gobreaker.CircuitBreaker[string]
}

func NewBreakerProvider(next Provider, settings BreakerSettings) *BreakerProvider {
	settings = settings.withDefaults()
	name := "llm-" + next.Name()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.HalfOpenRequests,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		// Caller mistakes and content blocks say nothing about provider health.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			switch KindOf(err) {
			case KindBadRequest, KindBlocked:
				return true
			}
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
	return &BreakerProvider{next: next, cb: cb}
}

func (b *BreakerProvider) Name() string { return b.next.Name() }

func (b *BreakerProvider) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	text, err := b.cb.Execute(func() (string, error) {
		return b.next.Generate(ctx, prompt, opts...)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", &ProviderError{Provider: b.next.Name(), Kind: KindCircuitOpen, Err: err}
	}
	return text, err
}

// CheckAvailability bypasses the breaker: the health probe must reflect the
// provider itself.
func (b *BreakerProvider) CheckAvailability(ctx context.Context) bool {
	return b.next.CheckAvailability(ctx)
}

func (b *BreakerProvider) State() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
