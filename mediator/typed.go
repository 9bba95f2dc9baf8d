package mediator

import (
	"context"
	"iter"
	"reflect"

	"github.com/glimte/mediator-go/contracts"
)

// Send dispatches a single-response request and asserts the response to T.
// It is a typed convenience over Mediator.Request.
func Send[T any](ctx context.Context, m *Mediator, channel string, req contracts.Request, opts ...DispatchOption) (T, error) {
	var zero T

	value, err := m.Request(ctx, channel, req, opts...)
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, &contracts.BadResponseError{
			RequestType: req.GetType(),
			Got:         reflect.TypeOf(value),
			Want:        reflect.TypeFor[T](),
		}
	}
	return typed, nil
}

// Stream dispatches a multi-response request and asserts each response to T.
// It is a typed convenience over Mediator.RequestStream.
func Stream[T any](ctx context.Context, m *Mediator, channel string, req contracts.Request, opts ...DispatchOption) (iter.Seq2[T, error], error) {
	seq, err := m.RequestStream(ctx, channel, req, opts...)
	if err != nil {
		return nil, err
	}

	typedSeq := func(yield func(T, error) bool) {
		var zero T
		for value, err := range seq {
			if err != nil {
				yield(zero, err)
				return
			}
			typed, ok := value.(T)
			if !ok {
				yield(zero, &contracts.BadResponseError{
					RequestType: req.GetType(),
					Got:         reflect.TypeOf(value),
					Want:        reflect.TypeFor[T](),
				})
				return
			}
			if !yield(typed, nil) {
				return
			}
		}
	}

	return typedSeq, nil
}
