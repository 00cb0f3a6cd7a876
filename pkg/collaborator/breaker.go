package collaborator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSettings configures the circuit breaker around a Client.
type BreakerSettings struct {
	Failures uint32
	Cooldown time.Duration
}

type breaker struct {
	next Client
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next so that Failures consecutive errors open the circuit
// for Cooldown. Cancellation by the caller does not count as a failure.
// Calls are never retried.
func NewBreaker(next Client, s BreakerSettings, logger *slog.Logger) Client {
	if s.Failures == 0 {
		s.Failures = 3
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "collaborator",
		Timeout: s.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.Failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &breaker{next: next, cb: cb}
}

func (b *breaker) Audit(ctx context.Context, prompt, payload string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Audit(ctx, prompt, payload)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return "", err
	}
	return out.(string), nil
}
