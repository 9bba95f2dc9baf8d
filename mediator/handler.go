package mediator

import (
	"context"
	"reflect"

	"github.com/glimte/mediator-go/contracts"
)

// Handler processes a dispatched message. For requests the returned value is
// the response; for plain messages it is ignored. A multi-response handler
// returns (nil, nil) to opt out of answering.
type Handler interface {
	Handle(ctx context.Context, msg contracts.Message) (any, error)
}

// HandlerFunc is a function adapter for Handler
type HandlerFunc func(ctx context.Context, msg contracts.Message) (any, error)

// Handle implements Handler
func (f HandlerFunc) Handle(ctx context.Context, msg contracts.Message) (any, error) {
	return f(ctx, msg)
}

// Middleware runs around every handler invocation
type Middleware func(ctx context.Context, msg contracts.Message, next Handler) (any, error)

// sameHandler matches a handler against a registered one. Comparable handler
// types (pointers to handler structs, mocks) compare directly; HandlerFunc
// and other uncomparable kinds fall back to identity of the underlying value.
func sameHandler(a, b Handler) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	switch ta.Kind() {
	case reflect.Func, reflect.Map, reflect.Slice, reflect.Chan:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	default:
		return false
	}
}
