package translation

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"
)

// BreakerDispatcher stops sending requests once the wrapped dispatcher has
// failed maxFailures times in a row. Rejected batches fail immediately with
// gobreaker.ErrOpenState.
type BreakerDispatcher struct {
	next    Dispatcher
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerDispatcher wraps next with a consecutive-failure circuit breaker
func NewBreakerDispatcher(next Dispatcher, maxFailures int) *BreakerDispatcher {
	threshold := uint32(maxFailures)

	return &BreakerDispatcher{
		next: next,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: next.Name(),
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		}),
	}
}

// Name returns the wrapped backend name
func (d *BreakerDispatcher) Name() string {
	return d.next.Name()
}

// Dispatch forwards the request unless the breaker is open
func (d *BreakerDispatcher) Dispatch(ctx context.Context, req Request) (string, error) {
	out, err := d.breaker.Execute(func() (interface{}, error) {
		return d.next.Dispatch(ctx, req)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return "", fmt.Errorf("skipped after repeated failures: %w", err)
		}
		return "", err
	}
	return out.(string), nil
}

// State reports the breaker state for logs
func (d *BreakerDispatcher) State() string {
	return d.breaker.State().String()
}
