// Copyright 2025 Mediator-go Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mediator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/glimte/mediator-go/contracts"
)

// DefaultChannel is the channel used by the unscoped configuration. Callers
// that never partition their routing can pass it everywhere and the mediator
// degenerates to a single-channel design.
const DefaultChannel = ""

// Mediator routes messages and requests to handlers registered for their
// concrete type, optionally scoped by a channel. Each instance owns an
// isolated subscription registry; there is no process-wide singleton.
type Mediator struct {
	registry          *subscriptionRegistry
	logger            *slog.Logger
	middleware        []Middleware
	validateResponses bool
}

// Option configures the Mediator
type Option func(*Mediator)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mediator) {
		m.logger = logger
	}
}

// WithResponseValidation controls whether request responses are checked
// against the request type's declared response type. Enabled by default;
// disabling it trades the BadResponse guarantee for dispatch throughput.
func WithResponseValidation(enabled bool) Option {
	return func(m *Mediator) {
		m.validateResponses = enabled
	}
}

// WithMiddleware adds middleware around every handler invocation
func WithMiddleware(middleware ...Middleware) Option {
	return func(m *Mediator) {
		m.middleware = append(m.middleware, middleware...)
	}
}

// New creates a mediator with an empty registry
func New(options ...Option) *Mediator {
	m := &Mediator{
		registry:          newSubscriptionRegistry(),
		logger:            slog.Default(),
		validateResponses: true,
	}

	for _, opt := range options {
		opt(m)
	}

	return m
}

// Subscribe registers a handler for the (channel, message type) key. The
// prototype carries only the type; its field values are ignored. Registering
// a second handler for a single-response request key fails.
func (m *Mediator) Subscribe(channel string, prototype contracts.Message, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil: %w", contracts.ErrInvalidArgument)
	}

	key, err := keyFor(channel, prototype)
	if err != nil {
		return err
	}

	single := false
	if req, ok := prototype.(contracts.Request); ok {
		single = req.Cardinality() == contracts.CardinalitySingle
	}

	if err := m.registry.add(key, handler, single); err != nil {
		return err
	}

	m.logger.Info("subscription created",
		"channel", channel,
		"messageType", key.msgType.Name(),
	)
	return nil
}

// SubscribeFunc registers a function as a handler
func (m *Mediator) SubscribeFunc(channel string, prototype contracts.Message, handler HandlerFunc) error {
	return m.Subscribe(channel, prototype, handler)
}

// Unsubscribe removes a previously registered handler. Once the last handler
// for a key is gone the key itself is pruned from the registry.
func (m *Mediator) Unsubscribe(channel string, prototype contracts.Message, handler Handler) error {
	key, err := keyFor(channel, prototype)
	if err != nil {
		return err
	}

	if err := m.registry.remove(key, handler); err != nil {
		return err
	}

	m.logger.Info("subscription removed",
		"channel", channel,
		"messageType", key.msgType.Name(),
	)
	return nil
}

// HasSubscriptions reports whether any handler is registered for the
// (channel, message type) key
func (m *Mediator) HasSubscriptions(channel string, prototype contracts.Message) bool {
	key, err := keyFor(channel, prototype)
	if err != nil {
		return false
	}
	return m.registry.hasSubscriptions(key)
}

// Publish delivers a message to every handler registered for its key.
//
// By default the call waits for all handlers to settle and returns their
// errors joined; WithTimeout bounds that wait. With WithWait(false) each
// handler runs detached and handler errors are logged, never surfaced;
// a timeout cannot be combined with a detached publish.
//
// The message is consumed on acceptance: a second dispatch of the same
// instance fails with ErrAlreadyPublished.
func (m *Mediator) Publish(ctx context.Context, channel string, msg contracts.Message, opts ...DispatchOption) error {
	cfg, err := newPublishConfig(opts)
	if err != nil {
		return err
	}

	key, err := keyFor(channel, msg)
	if err != nil {
		return err
	}

	if !msg.MarkPublished() {
		return fmt.Errorf("message %s: %w", msg.GetID(), contracts.ErrAlreadyPublished)
	}

	handlers := m.registry.snapshot(key)

	if !cfg.wait {
		for _, h := range handlers {
			go func(h Handler) {
				if _, err := m.invoke(ctx, h, msg); err != nil {
					m.logger.Error("detached handler failed",
						"messageType", key.msgType.Name(),
						"messageId", msg.GetID(),
						"error", err,
					)
				}
			}(h)
		}
		return nil
	}

	ctx, cancel := cfg.bound(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, len(handlers))
	for _, h := range handlers {
		wg.Add(1)
		go func(h Handler) {
			defer wg.Done()
			if _, err := m.invoke(ctx, h, msg); err != nil {
				errCh <- fmt.Errorf("handler failed for message %s: %w", msg.GetID(), err)
			}
		}(h)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		close(errCh)
		var errs []error
		for err := range errCh {
			errs = append(errs, err)
		}
		if err := errors.Join(errs...); err != nil {
			return err
		}
	case <-ctx.Done():
		return timeoutOrCancel(ctx, "publish", cfg)
	}

	m.logger.Debug("message published",
		"channel", channel,
		"messageType", key.msgType.Name(),
		"handlerCount", len(handlers),
	)
	return nil
}

// invoke runs a single handler through the middleware chain
func (m *Mediator) invoke(ctx context.Context, handler Handler, msg contracts.Message) (any, error) {
	return m.chain(handler).Handle(ctx, msg)
}

// chain wraps a handler in the configured middleware, outermost first
func (m *Mediator) chain(handler Handler) Handler {
	if len(m.middleware) == 0 {
		return handler
	}

	result := handler
	for i := len(m.middleware) - 1; i >= 0; i-- {
		mw := m.middleware[i]
		next := result
		result = HandlerFunc(func(ctx context.Context, msg contracts.Message) (any, error) {
			return mw(ctx, msg, next)
		})
	}
	return result
}
