package mediator

import (
	"context"
	"fmt"
	"time"

	"github.com/glimte/mediator-go/contracts"
)

// dispatchConfig holds the per-call options for publish and request
type dispatchConfig struct {
	wait       bool
	waitSet    bool
	timeout    time.Duration
	timeoutSet bool
}

// DispatchOption configures a single Publish or Request call
type DispatchOption func(*dispatchConfig)

// WithWait controls whether Publish waits for all handlers to finish.
// Defaults to true. Detached publishes (wait=false) return immediately and
// never surface handler errors. Publish only.
func WithWait(wait bool) DispatchOption {
	return func(c *dispatchConfig) {
		c.wait = wait
		c.waitSet = true
	}
}

// WithTimeout bounds the aggregate wall-clock wait for the call. The bound
// governs the caller's wait, not the handlers' execution: handlers already
// started are not forcibly cancelled beyond context cancellation.
func WithTimeout(timeout time.Duration) DispatchOption {
	return func(c *dispatchConfig) {
		c.timeout = timeout
		c.timeoutSet = true
	}
}

// newPublishConfig resolves options for a Publish call
func newPublishConfig(opts []DispatchOption) (dispatchConfig, error) {
	cfg := dispatchConfig{wait: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.timeoutSet && !cfg.wait {
		return cfg, fmt.Errorf("timeout requires wait: %w", contracts.ErrInvalidArgument)
	}
	if cfg.timeoutSet && cfg.timeout <= 0 {
		return cfg, fmt.Errorf("timeout must be positive, got %v: %w", cfg.timeout, contracts.ErrInvalidArgument)
	}

	return cfg, nil
}

// newRequestConfig resolves options for a Request or RequestStream call
func newRequestConfig(opts []DispatchOption) (dispatchConfig, error) {
	cfg := dispatchConfig{wait: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.waitSet {
		return cfg, fmt.Errorf("wait applies to publish only: %w", contracts.ErrInvalidArgument)
	}
	if cfg.timeoutSet && cfg.timeout <= 0 {
		return cfg, fmt.Errorf("timeout must be positive, got %v: %w", cfg.timeout, contracts.ErrInvalidArgument)
	}

	return cfg, nil
}

// bound applies the configured timeout to ctx, if any
func (c dispatchConfig) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if !c.timeoutSet {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// timeoutOrCancel translates a done context into the caller-facing error:
// an elapsed bound becomes a TimeoutError, everything else propagates as-is.
func timeoutOrCancel(ctx context.Context, op string, cfg dispatchConfig) error {
	if cfg.timeoutSet && ctx.Err() == context.DeadlineExceeded {
		return &contracts.TimeoutError{Op: op, Timeout: cfg.timeout}
	}
	return ctx.Err()
}
