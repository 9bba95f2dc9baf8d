package mediator

import (
	"context"
	"fmt"
	"iter"
	"reflect"
	"sync/atomic"

	"github.com/glimte/mediator-go/contracts"
)

// outcome carries a settled handler invocation
type outcome struct {
	value any
	err   error
}

// acceptRequest runs the shared request preconditions: the key must resolve,
// the instance must not have been dispatched before, the request type must be
// qualified, and its declared cardinality must match the strategy being
// invoked. Only then is the message's dispatch slot consumed, so a rejected
// call leaves the instance dispatchable.
func (m *Mediator) acceptRequest(channel string, req contracts.Request, want contracts.Cardinality) (subscriptionKey, error) {
	key, err := keyFor(channel, req)
	if err != nil {
		return subscriptionKey{}, err
	}

	if req.IsPublished() {
		return subscriptionKey{}, fmt.Errorf("request %s: %w", req.GetID(), contracts.ErrAlreadyPublished)
	}
	if !contracts.Qualified(req) {
		return subscriptionKey{}, fmt.Errorf("request type %s: %w", key.msgType.Name(), contracts.ErrUnqualifiedRequestType)
	}
	if c := req.Cardinality(); c != want {
		method := "Request"
		if c == contracts.CardinalityMulti {
			method = "RequestStream"
		}
		return subscriptionKey{}, fmt.Errorf("request type %s declares %s cardinality, use %s: %w",
			key.msgType.Name(), c, method, contracts.ErrInvalidArgument)
	}
	if !req.MarkPublished() {
		return subscriptionKey{}, fmt.Errorf("request %s: %w", req.GetID(), contracts.ErrAlreadyPublished)
	}

	return key, nil
}

// Request dispatches a single-response request to its sole registered handler
// and returns the handler's result, bounded by WithTimeout if given.
//
// Zero registered handlers fails with ErrNoActiveSubscribers; more than one
// is already prevented at subscribe time. Unless response validation is
// disabled, the result's runtime type is checked against the request's
// declared response type and a mismatch fails with BadResponseError.
func (m *Mediator) Request(ctx context.Context, channel string, req contracts.Request, opts ...DispatchOption) (any, error) {
	cfg, err := newRequestConfig(opts)
	if err != nil {
		return nil, err
	}

	key, err := m.acceptRequest(channel, req, contracts.CardinalitySingle)
	if err != nil {
		return nil, err
	}

	handlers := m.registry.snapshot(key)
	if len(handlers) == 0 {
		return nil, fmt.Errorf("request type %s: %w", key.msgType.Name(), contracts.ErrNoActiveSubscribers)
	}
	// the registry invariant caps single-response keys at one handler
	handler := handlers[0]

	ctx, cancel := cfg.bound(ctx)
	defer cancel()

	settled := make(chan outcome, 1)
	go func() {
		value, err := m.invoke(ctx, handler, req)
		settled <- outcome{value: value, err: err}
	}()

	select {
	case out := <-settled:
		if out.err != nil {
			return nil, out.err
		}
		if err := m.validateResponse(key, req, out.value); err != nil {
			return nil, err
		}
		return out.value, nil
	case <-ctx.Done():
		return nil, timeoutOrCancel(ctx, "request", cfg)
	}
}

// RequestStream dispatches a multi-response request to every registered
// handler concurrently and returns a lazy, single-use sequence of results in
// completion order. Zero handlers yields an empty sequence, not an error.
//
// A handler that returns (nil, nil) opts out of answering and contributes
// nothing to the sequence. A handler error, a response type mismatch, or the
// aggregate bound elapsing terminates the sequence with that error; values
// yielded before the failure remain valid.
func (m *Mediator) RequestStream(ctx context.Context, channel string, req contracts.Request, opts ...DispatchOption) (iter.Seq2[any, error], error) {
	cfg, err := newRequestConfig(opts)
	if err != nil {
		return nil, err
	}

	key, err := m.acceptRequest(channel, req, contracts.CardinalityMulti)
	if err != nil {
		return nil, err
	}

	handlers := m.registry.snapshot(key)

	ctx, cancel := cfg.bound(ctx)

	// the buffer lets every handler settle even if the consumer stops early
	settled := make(chan outcome, len(handlers))
	for _, h := range handlers {
		go func(h Handler) {
			value, err := m.invoke(ctx, h, req)
			settled <- outcome{value: value, err: err}
		}(h)
	}

	var consumed atomic.Bool
	seq := func(yield func(any, error) bool) {
		defer cancel()

		if !consumed.CompareAndSwap(false, true) {
			yield(nil, fmt.Errorf("response stream is not restartable: %w", contracts.ErrInvalidArgument))
			return
		}

		for remaining := len(handlers); remaining > 0; remaining-- {
			select {
			case out := <-settled:
				if out.err != nil {
					yield(nil, out.err)
					return
				}
				if out.value == nil {
					// handler opted out of answering
					continue
				}
				if err := m.validateResponse(key, req, out.value); err != nil {
					yield(nil, err)
					return
				}
				if !yield(out.value, nil) {
					return
				}
			case <-ctx.Done():
				yield(nil, timeoutOrCancel(ctx, "request", cfg))
				return
			}
		}
	}

	return seq, nil
}

// validateResponse checks a handler result against the request's declared
// response type, unless validation was switched off.
func (m *Mediator) validateResponse(key subscriptionKey, req contracts.Request, value any) error {
	if !m.validateResponses {
		return nil
	}

	want := req.ResponseType()
	got := reflect.TypeOf(value)
	if got == nil || !got.AssignableTo(want) {
		return &contracts.BadResponseError{
			RequestType: key.msgType.Name(),
			Got:         got,
			Want:        want,
		}
	}
	return nil
}
