package translation

import (
	"context"
	"fmt"
)

// Dispatcher sends one batch request and returns the raw content of the
// model's reply
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) (string, error)

	// Name returns the backend name for logs
	Name() string
}

// DispatchError wraps any failure of the remote call: network, auth,
// timeout or a rejected request
type DispatchError struct {
	Backend string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Backend, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// NewDispatcher creates the dispatcher for the configured provider,
// guarded by a circuit breaker when MaxConsecutiveFailures is set
func NewDispatcher(ctx context.Context, cfg *Config) (Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var d Dispatcher
	switch cfg.Provider {
	case ProviderOpenAI:
		d = NewOpenAIDispatcher(cfg)
	case ProviderGemini:
		gd, err := NewGeminiDispatcher(ctx, cfg)
		if err != nil {
			return nil, err
		}
		d = gd
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}

	if cfg.MaxConsecutiveFailures > 0 {
		d = NewBreakerDispatcher(d, cfg.MaxConsecutiveFailures)
	}
	return d, nil
}
