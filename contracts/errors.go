package contracts

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"
)

var (
	// Dispatch errors
	ErrAlreadyPublished       = errors.New("mediator: message already published")
	ErrInvalidArgument        = errors.New("mediator: invalid argument")
	ErrUnqualifiedRequestType = errors.New("mediator: request type is unqualified")
	ErrNoActiveSubscribers    = errors.New("mediator: request type has no active subscriptions")

	// Subscription errors
	ErrDuplicateSingleSubscription = errors.New("mediator: single-response request type already has a subscription")
	ErrHandlerNotFound             = errors.New("mediator: handler not registered for subscription key")
	ErrInvalidMessageType          = errors.New("mediator: not a recognized message type")
)

// BadResponseError reports a handler result whose runtime type does not
// match the response type the request declared. The offending handler stays
// registered; only the caller's dispatch fails.
type BadResponseError struct {
	RequestType string
	Got         reflect.Type
	Want        reflect.Type
}

func (e *BadResponseError) Error() string {
	got := "<nil>"
	if e.Got != nil {
		got = e.Got.String()
	}
	return fmt.Sprintf("bad response for %s: got %s, want %s", e.RequestType, got, e.Want)
}

// TimeoutError reports that a dispatch bound elapsed before every handler
// settled. Handlers still in flight are not forcibly cancelled.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %v", e.Op, e.Timeout)
}

// Unwrap lets callers match with errors.Is(err, context.DeadlineExceeded)
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}
